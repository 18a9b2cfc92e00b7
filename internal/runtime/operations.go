package runtime

import (
	"go.uber.org/zap"

	"interview-runtime/internal/answers"
	"interview-runtime/internal/interview"
	"interview-runtime/internal/questiontype"
)

// CurrentQuestion returns the question under the cursor. It reports false
// while the session is not loaded or has no questions.
func (r *Runtime) CurrentQuestion() (interview.Question, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.ready() {
		return interview.Question{}, false
	}
	return r.nav.Current()
}

// Questions returns the ordered question sequence.
func (r *Runtime) Questions() []interview.Question {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.ready() {
		return nil
	}
	return r.nav.Questions()
}

// Answer returns the stored record for questionID.
func (r *Runtime) Answer(questionID string) (answers.Record, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.ready() {
		return answers.Record{}, false
	}
	return r.store.Get(questionID)
}

// Answers returns a copy of all records ordered by question id.
func (r *Runtime) Answers() []answers.Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.ready() {
		return nil
	}
	return r.store.Snapshot()
}

// IsAnswered reports whether questionID has an answered record.
func (r *Runtime) IsAnswered(questionID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ready() && r.store.IsAnswered(questionID)
}

// SetAnswer writes a payload for questionID. Unknown ids, payloads the
// question does not accept and writes after completion are ignored and
// report false.
func (r *Runtime) SetAnswer(questionID string, value any) bool {
	r.mu.Lock()
	if !r.writableLocked() {
		r.mu.Unlock()
		return false
	}
	q, known := r.byID[questionID]
	if !known {
		r.log.Debug("Ignoring answer for unknown question", zap.String("question_id", questionID))
		r.mu.Unlock()
		return false
	}
	v, ok := r.registry.Coerce(q, value)
	if !ok {
		r.log.Warn("Ignoring answer of wrong shape",
			zap.String("question_id", questionID),
			zap.String("type", string(q.Type)),
			zap.Any("value", value),
		)
		r.mu.Unlock()
		return false
	}

	r.store.Set(questionID, v)
	r.metrics.IncrementAnswersWritten()
	r.touchLocked(questionID)
	r.unlockAndFlush()
	return true
}

// ClearAnswer removes the record for questionID.
func (r *Runtime) ClearAnswer(questionID string) bool {
	r.mu.Lock()
	if !r.writableLocked() || !r.store.Clear(questionID) {
		r.mu.Unlock()
		return false
	}
	r.touchLocked(questionID)
	r.unlockAndFlush()
	return true
}

// MarkSubmitted flags the record of questionID as explicitly submitted.
func (r *Runtime) MarkSubmitted(questionID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.writableLocked() || !r.store.MarkSubmitted(questionID) {
		return false
	}
	r.metrics.IncrementAnswersSubmitted()
	return true
}

// CurrentInput binds the registry input of the current question to this
// runtime.
func (r *Runtime) CurrentInput() (*questiontype.Input, error) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, ErrClosed
	}
	if r.phase != PhaseQuestions {
		r.mu.Unlock()
		return nil, ErrWrongPhase
	}
	if r.loadState != LoadReady {
		r.mu.Unlock()
		return nil, ErrNotReady
	}
	q, ok := r.nav.Current()
	r.mu.Unlock()
	if !ok {
		return nil, ErrNotReady
	}
	return r.registry.Bind(q, r)
}

func (r *Runtime) writableLocked() bool {
	return r.ready() && r.phase != PhaseComplete
}

// touchLocked re-arms the auto-save indicator when the active question was
// edited.
func (r *Runtime) touchLocked(questionID string) {
	if r.phase != PhaseQuestions || !r.questionClock.Running() || r.questionClock.QuestionID() != questionID {
		return
	}
	r.autosave.arm(r.generation, questionID)
	r.setAutoSaveLocked(AutoSavePending)
}

// Next moves to the following question.
func (r *Runtime) Next() bool {
	return r.move(func() bool { return r.nav.Next() })
}

// Previous moves to the preceding question.
func (r *Runtime) Previous() bool {
	return r.move(func() bool { return r.nav.Previous() })
}

// GoTo jumps to the question at index k. It reports whether the cursor
// moved, so an in-range k equal to Index() returns false like an out of
// range k. Callers that need to tell the two apart compare with Index().
func (r *Runtime) GoTo(k int) bool {
	return r.move(func() bool { return r.nav.GoTo(k) })
}

// move applies step and, in the questions phase, swaps the active question.
// Steps that do not move the cursor change nothing.
func (r *Runtime) move(step func() bool) bool {
	r.mu.Lock()
	if !r.writableLocked() || !step() {
		r.mu.Unlock()
		return false
	}
	if r.phase == PhaseQuestions {
		r.leaveQuestionLocked()
		r.activateLocked()
	}
	r.unlockAndFlush()
	return true
}

func (r *Runtime) CanGoNext() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ready() && r.nav.CanGoNext()
}

func (r *Runtime) CanGoPrevious() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ready() && r.nav.CanGoPrevious()
}

func (r *Runtime) IsLastQuestion() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ready() && r.nav.IsLast()
}

// Index returns the cursor position.
func (r *Runtime) Index() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.ready() {
		return 0
	}
	return r.nav.Index()
}
