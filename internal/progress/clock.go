package progress

import (
	"fmt"
	"time"

	"k8s.io/utils/clock"
)

// TickFunc receives the elapsed whole seconds of the question that owns
// the ticker.
type TickFunc func(questionID string, elapsed time.Duration)

// QuestionClock measures time on the current question. Start restarts it;
// the ticker goroutine only reports ticks and stops with the clock.
// Calls to Start, Stop and Elapsed must be serialized by the owner.
type QuestionClock struct {
	clock    clock.WithTicker
	interval time.Duration

	questionID string
	startedAt  time.Time
	stoppedAt  time.Time
	running    bool

	ticker clock.Ticker
	done   chan struct{}
}

// NewQuestionClock creates a stopped clock ticking every interval.
func NewQuestionClock(c clock.WithTicker, interval time.Duration) *QuestionClock {
	if interval <= 0 {
		interval = time.Second
	}
	return &QuestionClock{clock: c, interval: interval}
}

// Start restarts measurement for questionID. onTick may be nil.
func (qc *QuestionClock) Start(questionID string, onTick TickFunc) {
	qc.Stop()

	qc.questionID = questionID
	qc.startedAt = qc.clock.Now()
	qc.stoppedAt = time.Time{}
	qc.running = true

	if onTick == nil {
		return
	}

	ticker := qc.clock.NewTicker(qc.interval)
	done := make(chan struct{})
	qc.ticker = ticker
	qc.done = done

	startedAt := qc.startedAt
	go func() {
		for {
			select {
			case <-done:
				return
			case now := <-ticker.C():
				select {
				case <-done:
					return
				default:
				}
				onTick(questionID, WholeSeconds(now.Sub(startedAt)))
			}
		}
	}()
}

// Stop freezes the clock and releases its ticker.
func (qc *QuestionClock) Stop() {
	if qc.ticker != nil {
		qc.ticker.Stop()
		close(qc.done)
		qc.ticker = nil
		qc.done = nil
	}
	if qc.running {
		qc.stoppedAt = qc.clock.Now()
		qc.running = false
	}
}

// QuestionID returns the question being measured.
func (qc *QuestionClock) QuestionID() string { return qc.questionID }

// Running reports whether the clock is measuring.
func (qc *QuestionClock) Running() bool { return qc.running }

// Elapsed returns whole seconds since Start, frozen after Stop.
func (qc *QuestionClock) Elapsed() time.Duration {
	if qc.startedAt.IsZero() {
		return 0
	}
	end := qc.stoppedAt
	if qc.running {
		end = qc.clock.Now()
	}
	return WholeSeconds(end.Sub(qc.startedAt))
}

// SessionClock measures the whole questions phase. It is not reset while
// running and freezes on Stop.
type SessionClock struct {
	clock     clock.PassiveClock
	startedAt time.Time
	stoppedAt time.Time
	running   bool
}

// NewSessionClock creates a stopped session clock.
func NewSessionClock(c clock.PassiveClock) *SessionClock {
	return &SessionClock{clock: c}
}

// Start begins measuring. Starting a running clock keeps its origin.
func (sc *SessionClock) Start() {
	if sc.running {
		return
	}
	sc.startedAt = sc.clock.Now()
	sc.stoppedAt = time.Time{}
	sc.running = true
}

// Stop freezes the elapsed value.
func (sc *SessionClock) Stop() {
	if !sc.running {
		return
	}
	sc.stoppedAt = sc.clock.Now()
	sc.running = false
}

// Running reports whether the clock is measuring.
func (sc *SessionClock) Running() bool { return sc.running }

// StartedAt returns when the current measurement began.
func (sc *SessionClock) StartedAt() time.Time { return sc.startedAt }

// Elapsed returns whole seconds since Start, frozen after Stop.
func (sc *SessionClock) Elapsed() time.Duration {
	if sc.startedAt.IsZero() {
		return 0
	}
	end := sc.stoppedAt
	if sc.running {
		end = sc.clock.Now()
	}
	return WholeSeconds(end.Sub(sc.startedAt))
}

// WholeSeconds truncates d to whole seconds, never negative.
func WholeSeconds(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d.Truncate(time.Second)
}

// FormatDuration renders d as m:ss or h:mm:ss.
func FormatDuration(d time.Duration) string {
	d = WholeSeconds(d)
	h := int(d / time.Hour)
	m := int(d/time.Minute) % 60
	s := int(d/time.Second) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
