package runtime

import (
	"errors"
	"time"
)

// LoadState tracks fetching of the session definition.
type LoadState string

const (
	LoadIdle     LoadState = "idle"
	LoadLoading  LoadState = "loading"
	LoadReady    LoadState = "ready"
	LoadNotFound LoadState = "not_found"
	LoadFailed   LoadState = "failed"
)

// Phase is the view the user is in.
type Phase string

const (
	PhaseOverview  Phase = "overview"
	PhaseQuestions Phase = "questions"
	PhaseComplete  Phase = "complete"
)

// AutoSaveState is the indicator shown after edits. It has no persistence
// behind it.
type AutoSaveState string

const (
	AutoSaveIdle    AutoSaveState = "idle"
	AutoSavePending AutoSaveState = "pending"
	AutoSaveSaved   AutoSaveState = "saved"
)

var (
	ErrNotReady         = errors.New("session is not ready")
	ErrWrongPhase       = errors.New("operation not allowed in current phase")
	ErrClosed           = errors.New("runtime is closed")
	ErrLoadInProgress   = errors.New("session load already in progress")
	ErrMissingSessionID = errors.New("session id is required")
)

// Settings tune timers and the completion estimate.
type Settings struct {
	AutoSaveDelay          time.Duration
	SavedIndicatorDuration time.Duration
	TickInterval           time.Duration

	// ScoreMultiplier scales the estimated score. It is a placeholder
	// heuristic, not grading.
	ScoreMultiplier float64

	AccumulateTimeSpent bool
}

// DefaultSettings returns the stock timer values.
func DefaultSettings() Settings {
	return Settings{
		AutoSaveDelay:          1500 * time.Millisecond,
		SavedIndicatorDuration: 500 * time.Millisecond,
		TickInterval:           time.Second,
		ScoreMultiplier:        0.8,
	}
}

func (s Settings) withDefaults() Settings {
	d := DefaultSettings()
	if s.AutoSaveDelay <= 0 {
		s.AutoSaveDelay = d.AutoSaveDelay
	}
	if s.SavedIndicatorDuration <= 0 {
		s.SavedIndicatorDuration = d.SavedIndicatorDuration
	}
	if s.TickInterval <= 0 {
		s.TickInterval = d.TickInterval
	}
	if s.ScoreMultiplier <= 0 {
		s.ScoreMultiplier = d.ScoreMultiplier
	}
	return s
}

// Status is a consistent view of the runtime for presentations.
type Status struct {
	SessionID      string
	LoadState      LoadState
	LoadError      error
	Phase          Phase
	Index          int
	Total          int
	CanGoNext      bool
	CanGoPrevious  bool
	IsLastQuestion bool
	AutoSave       AutoSaveState
}
