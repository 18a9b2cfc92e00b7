package runtime

import (
	"time"

	"go.uber.org/zap"

	"interview-runtime/internal/progress"
)

// StartInterview enters the questions phase from the overview. A session
// that is still loading stays blocked until Load completes.
func (r *Runtime) StartInterview() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrClosed
	}
	switch r.phase {
	case PhaseQuestions:
		r.mu.Unlock()
		return nil
	case PhaseComplete:
		r.mu.Unlock()
		return ErrWrongPhase
	}
	if r.loadState == LoadNotFound || r.loadState == LoadFailed {
		r.mu.Unlock()
		return ErrNotReady
	}

	r.setPhaseLocked(PhaseQuestions)
	r.sessionClock.Start()
	r.metrics.IncrementInterviewsStarted()
	if r.loadState == LoadReady {
		r.activateLocked()
	}
	r.log.Info("Interview started")
	r.unlockAndFlush()
	return nil
}

// FinishInterview completes the run and returns its summary. The answer
// store is read-only afterwards.
func (r *Runtime) FinishInterview() (Summary, error) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return Summary{}, ErrClosed
	}
	if r.phase != PhaseQuestions {
		r.mu.Unlock()
		return Summary{}, ErrWrongPhase
	}
	if r.loadState != LoadReady {
		r.mu.Unlock()
		return Summary{}, ErrNotReady
	}

	r.leaveQuestionLocked()
	r.sessionClock.Stop()

	p := r.progressLocked()
	summary := buildSummary(r.session, p.AnsweredCount, p.TotalQuestions,
		r.settings.ScoreMultiplier, r.sessionClock.Elapsed(), r.clock.Now())
	r.summary = &summary
	r.setPhaseLocked(PhaseComplete)
	r.metrics.IncrementInterviewsCompleted()
	r.log.Info("Interview completed",
		zap.Int("answered", summary.AnsweredCount),
		zap.Int("total", summary.TotalQuestions),
		zap.Int("estimated_score", summary.EstimatedScore),
		zap.Duration("elapsed", summary.Elapsed),
	)
	r.unlockAndFlush()
	return summary, nil
}

// Restart returns to the overview. Answers are kept; the cursor goes back to
// the first question.
func (r *Runtime) Restart() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrClosed
	}
	if r.phase == PhaseQuestions {
		r.leaveQuestionLocked()
	}
	r.sessionClock.Stop()
	r.summary = nil
	if r.nav != nil {
		r.nav.Reset()
	}
	r.setPhaseLocked(PhaseOverview)
	r.log.Info("Interview restarted")
	r.unlockAndFlush()
	return nil
}

// activateLocked makes the cursor question active: new generation, fresh
// question clock and no pending auto-save.
func (r *Runtime) activateLocked() {
	q, ok := r.nav.Current()
	if !ok {
		return
	}
	r.generation++
	gen := r.generation

	r.autosave.cancel()
	r.setAutoSaveLocked(AutoSaveIdle)

	var onTick progress.TickFunc
	if r.listener != nil {
		onTick = r.tickHandler(gen)
	}
	r.questionClock.Start(q.ID, onTick)
	r.metrics.IncrementQuestionsViewed()

	r.log.Debug("Question active", zap.String("question_id", q.ID), zap.Int("index", r.nav.Index()))
	r.pending = append(r.pending, Event{
		Type:       EventQuestion,
		SessionID:  r.sessionID,
		QuestionID: q.ID,
		Index:      r.nav.Index(),
	})
}

// leaveQuestionLocked stops everything bound to the active question.
func (r *Runtime) leaveQuestionLocked() {
	r.generation++
	r.autosave.cancel()
	r.setAutoSaveLocked(AutoSaveIdle)

	if r.questionClock.Running() {
		elapsed := r.questionClock.Elapsed()
		id := r.questionClock.QuestionID()
		r.questionClock.Stop()
		if r.settings.AccumulateTimeSpent && r.store != nil {
			r.store.AddTimeSpent(id, elapsed)
		}
	}
}

func (r *Runtime) tickHandler(gen uint64) progress.TickFunc {
	return func(questionID string, elapsed time.Duration) {
		r.mu.Lock()
		if r.closed || r.generation != gen {
			r.mu.Unlock()
			return
		}
		r.pending = append(r.pending, Event{
			Type:       EventTick,
			SessionID:  r.sessionID,
			QuestionID: questionID,
			Index:      r.nav.Index(),
			Elapsed:    elapsed,
		})
		r.unlockAndFlush()
	}
}

// autoSaveFired runs on timer goroutines.
func (r *Runtime) autoSaveFired(gen, seq uint64, state AutoSaveState) {
	r.mu.Lock()
	if r.closed || r.generation != gen || !r.autosave.current(seq) {
		r.mu.Unlock()
		return
	}
	if state == AutoSaveSaved {
		r.metrics.IncrementAutoSaves()
	}
	r.setAutoSaveLocked(state)
	r.unlockAndFlush()
}
