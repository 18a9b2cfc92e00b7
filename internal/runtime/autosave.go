package runtime

import (
	"time"

	"k8s.io/utils/clock"
)

// autoSaver debounces edits into a short lived "saved" indicator. Both the
// save and the clear timer are scheduled when the edit happens so callbacks
// never touch the clock. seq invalidates timers that were stopped too late.
type autoSaver struct {
	clock clock.WithDelayedExecution
	delay time.Duration
	hold  time.Duration
	fire  func(gen, seq uint64, state AutoSaveState)

	seq        uint64
	state      AutoSaveState
	questionID string
	saveTimer  clock.Timer
	clearTimer clock.Timer
}

func newAutoSaver(c clock.WithDelayedExecution, delay, hold time.Duration, fire func(gen, seq uint64, state AutoSaveState)) *autoSaver {
	return &autoSaver{
		clock: c,
		delay: delay,
		hold:  hold,
		fire:  fire,
		state: AutoSaveIdle,
	}
}

// arm restarts the debounce window for questionID.
func (a *autoSaver) arm(gen uint64, questionID string) {
	a.stopTimers()
	a.seq++
	seq := a.seq
	a.questionID = questionID
	a.saveTimer = a.clock.AfterFunc(a.delay, func() { a.fire(gen, seq, AutoSaveSaved) })
	a.clearTimer = a.clock.AfterFunc(a.delay+a.hold, func() { a.fire(gen, seq, AutoSaveIdle) })
}

// cancel drops pending timers and hides the indicator.
func (a *autoSaver) cancel() {
	a.stopTimers()
	a.seq++
	a.questionID = ""
}

func (a *autoSaver) current(seq uint64) bool {
	return seq == a.seq
}

func (a *autoSaver) stopTimers() {
	if a.saveTimer != nil {
		a.saveTimer.Stop()
		a.saveTimer = nil
	}
	if a.clearTimer != nil {
		a.clearTimer.Stop()
		a.clearTimer = nil
	}
}
