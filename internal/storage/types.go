package storage

import (
	"time"

	"interview-runtime/internal/answers"
	"interview-runtime/internal/runtime"
)

// AttemptResult is one completed run of a session.
type AttemptResult struct {
	AttemptID    string          `json:"attempt_id"`
	SessionID    string          `json:"session_id"`
	SessionTitle string          `json:"session_title"`
	UserID       string          `json:"user_id,omitempty"`
	Timestamp    time.Time       `json:"timestamp"`
	Summary      runtime.Summary `json:"summary"`
	Answers      []AnswerResult  `json:"answers"`
}

// AnswerResult pairs a question with the answer given to it.
type AnswerResult struct {
	QuestionID   string        `json:"question_id"`
	QuestionText string        `json:"question_text"`
	QuestionType string        `json:"question_type"`
	Answer       any           `json:"answer"`
	IsAnswered   bool          `json:"is_answered"`
	Submitted    bool          `json:"submitted"`
	TimeSpent    time.Duration `json:"time_spent"`
	AnsweredAt   *time.Time    `json:"answered_at,omitempty"`
}

// NewAnswerResult flattens a stored record for a result file.
func NewAnswerResult(rec answers.Record, text, questionType string) AnswerResult {
	r := AnswerResult{
		QuestionID:   rec.QuestionID,
		QuestionText: text,
		QuestionType: questionType,
		Answer:       rec.Value,
		IsAnswered:   rec.IsAnswered,
		Submitted:    rec.Submitted,
		TimeSpent:    rec.TimeSpent,
	}
	if !rec.AnsweredAt.IsZero() {
		at := rec.AnsweredAt
		r.AnsweredAt = &at
	}
	return r
}
