package runtime

import "time"

type EventType string

const (
	EventLoadState EventType = "load_state"
	EventPhase     EventType = "phase"
	EventQuestion  EventType = "question"
	EventTick      EventType = "tick"
	EventAutoSave  EventType = "auto_save"
)

// Event describes one observable change. Only the fields of its Type are
// set besides SessionID.
type Event struct {
	Type       EventType
	SessionID  string
	LoadState  LoadState
	Phase      Phase
	QuestionID string
	Index      int
	Elapsed    time.Duration
	AutoSave   AutoSaveState
}

// Listener receives runtime events. It is never called with the runtime
// lock held, but timer driven events arrive on timer goroutines.
type Listener interface {
	OnEvent(Event)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(Event)

func (f ListenerFunc) OnEvent(e Event) { f(e) }
