package runtime

import (
	"math"
	"time"

	"interview-runtime/internal/interview"
)

// Summary is shown when the run completes.
type Summary struct {
	SessionID            string        `json:"session_id"`
	Title                string        `json:"title"`
	AnsweredCount        int           `json:"answered_count"`
	TotalQuestions       int           `json:"total_questions"`
	CompletionPercentage int           `json:"completion_percentage"`
	TotalPoints          int           `json:"total_points"`
	EstimatedScore       int           `json:"estimated_score"`
	Elapsed              time.Duration `json:"elapsed"`
	CompletedAt          time.Time     `json:"completed_at"`
}

func buildSummary(s *interview.Session, answered, total int, multiplier float64, elapsed time.Duration, now time.Time) Summary {
	sum := Summary{
		SessionID:      s.ID,
		Title:          s.Title,
		AnsweredCount:  answered,
		TotalQuestions: total,
		TotalPoints:    s.Points(),
		Elapsed:        elapsed,
		CompletedAt:    now,
	}
	if total > 0 {
		ratio := float64(answered) / float64(total)
		sum.CompletionPercentage = int(math.Round(ratio * 100))
		sum.EstimatedScore = int(math.Round(ratio * float64(sum.TotalPoints) * multiplier))
	}
	return sum
}
