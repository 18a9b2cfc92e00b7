package runtime

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"k8s.io/utils/clock"

	"interview-runtime/internal/answers"
	"interview-runtime/internal/interview"
	"interview-runtime/internal/metrics"
	"interview-runtime/internal/navigation"
	"interview-runtime/internal/progress"
	"interview-runtime/internal/questiontype"
)

// Fetcher loads a session definition. It returns interview.ErrSessionNotFound
// when the id is unknown.
type Fetcher interface {
	FetchSession(ctx context.Context, id string) (*interview.Session, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, id string) (*interview.Session, error)

func (f FetcherFunc) FetchSession(ctx context.Context, id string) (*interview.Session, error) {
	return f(ctx, id)
}

// Runtime is the state machine of one user taking one session: load state,
// phase, cursor, answers, clocks and the auto-save indicator. It is safe for
// concurrent use; listeners are notified outside the lock.
type Runtime struct {
	mu sync.Mutex

	sessionID string
	fetcher   Fetcher
	registry  *questiontype.Registry
	clock     clock.WithTickerAndDelayedExecution
	log       *zap.Logger
	metrics   *metrics.Metrics
	listener  Listener
	settings  Settings

	loadState LoadState
	loadErr   error
	session   *interview.Session
	byID      map[string]*interview.Question
	nav       *navigation.Controller
	store     *answers.Store

	phase         Phase
	generation    uint64
	questionClock *progress.QuestionClock
	sessionClock  *progress.SessionClock
	autosave      *autoSaver
	summary       *Summary
	closed        bool

	pending []Event
}

// Option configures a Runtime.
type Option func(*Runtime)

func WithRegistry(r *questiontype.Registry) Option {
	return func(rt *Runtime) { rt.registry = r }
}

func WithClock(c clock.WithTickerAndDelayedExecution) Option {
	return func(rt *Runtime) { rt.clock = c }
}

func WithLogger(l *zap.Logger) Option {
	return func(rt *Runtime) { rt.log = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(rt *Runtime) { rt.metrics = m }
}

func WithListener(l Listener) Option {
	return func(rt *Runtime) { rt.listener = l }
}

func WithSettings(s Settings) Option {
	return func(rt *Runtime) { rt.settings = s }
}

// WithTimeSpentAccumulation adds the question clock to the left question's
// record on every question change.
func WithTimeSpentAccumulation() Option {
	return func(rt *Runtime) { rt.settings.AccumulateTimeSpent = true }
}

// New creates a runtime for sessionID in the idle load state and the
// overview phase. Nothing is fetched until Load.
func New(fetcher Fetcher, sessionID string, opts ...Option) *Runtime {
	rt := &Runtime{
		sessionID: sessionID,
		fetcher:   fetcher,
		settings:  DefaultSettings(),
		loadState: LoadIdle,
		phase:     PhaseOverview,
	}
	for _, opt := range opts {
		opt(rt)
	}
	if rt.registry == nil {
		rt.registry = questiontype.Default()
	}
	if rt.clock == nil {
		rt.clock = clock.RealClock{}
	}
	if rt.log == nil {
		rt.log = zap.NewNop()
	}
	if rt.metrics == nil {
		rt.metrics = metrics.NewMetrics()
	}
	rt.settings = rt.settings.withDefaults()
	rt.log = rt.log.With(zap.String("session_id", sessionID))

	rt.questionClock = progress.NewQuestionClock(rt.clock, rt.settings.TickInterval)
	rt.sessionClock = progress.NewSessionClock(rt.clock)
	rt.autosave = newAutoSaver(rt.clock, rt.settings.AutoSaveDelay, rt.settings.SavedIndicatorDuration, rt.autoSaveFired)
	return rt
}

// SessionID returns the id this runtime was created for.
func (r *Runtime) SessionID() string { return r.sessionID }

// Load fetches the session. After success further calls are no-ops; after a
// failure Load retries.
func (r *Runtime) Load(ctx context.Context) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrClosed
	}
	switch r.loadState {
	case LoadReady:
		r.mu.Unlock()
		return nil
	case LoadLoading:
		r.mu.Unlock()
		return ErrLoadInProgress
	}
	if r.sessionID == "" {
		r.loadErr = ErrMissingSessionID
		r.setLoadStateLocked(LoadFailed)
		r.unlockAndFlush()
		return ErrMissingSessionID
	}
	r.loadErr = nil
	r.setLoadStateLocked(LoadLoading)
	r.unlockAndFlush()

	r.log.Debug("Fetching session")
	session, err := r.fetcher.FetchSession(ctx, r.sessionID)
	if err == nil && session == nil {
		err = interview.ErrSessionNotFound
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrClosed
	}
	if err != nil {
		r.loadErr = err
		r.metrics.IncrementLoadFailures()
		if errors.Is(err, interview.ErrSessionNotFound) {
			r.log.Warn("Session not found")
			r.setLoadStateLocked(LoadNotFound)
		} else {
			r.log.Error("Failed to load session", zap.Error(err))
			r.setLoadStateLocked(LoadFailed)
		}
		r.unlockAndFlush()
		return fmt.Errorf("load session %s: %w", r.sessionID, err)
	}

	r.session = session
	r.byID = make(map[string]*interview.Question, len(session.Questions))
	for i := range session.Questions {
		r.byID[session.Questions[i].ID] = &session.Questions[i]
	}
	r.nav = navigation.New(session.Questions)
	r.store = answers.NewStore(session.QuestionIDs(),
		answers.WithAnsweredFunc(r.answered),
		answers.WithClock(r.clock),
	)
	r.metrics.IncrementSessionsLoaded()
	r.log.Info("Session loaded", zap.Int("questions", r.nav.Len()))
	r.setLoadStateLocked(LoadReady)

	if r.phase == PhaseQuestions {
		r.activateLocked()
	}
	r.unlockAndFlush()
	return nil
}

// answered is the store predicate. It runs under r.mu.
func (r *Runtime) answered(questionID string, value any) bool {
	q, ok := r.byID[questionID]
	if !ok {
		return false
	}
	return r.registry.Answered(q.Type, value)
}

// Session returns the loaded definition. Callers must not modify it.
func (r *Runtime) Session() (*interview.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session, r.session != nil
}

// Status returns load state, phase and cursor in one consistent read.
func (r *Runtime) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := Status{
		SessionID: r.sessionID,
		LoadState: r.loadState,
		LoadError: r.loadErr,
		Phase:     r.phase,
		AutoSave:  r.autosave.state,
	}
	if r.nav != nil {
		s.Index = r.nav.Index()
		s.Total = r.nav.Len()
		s.CanGoNext = r.nav.CanGoNext()
		s.CanGoPrevious = r.nav.CanGoPrevious()
		s.IsLastQuestion = r.nav.IsLast()
	}
	return s
}

func (r *Runtime) LoadState() LoadState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadState
}

func (r *Runtime) Phase() Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.phase
}

func (r *Runtime) AutoSaveState() AutoSaveState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.autosave.state
}

// Progress derives answered count and percentage from the store.
func (r *Runtime) Progress() progress.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.progressLocked()
}

func (r *Runtime) progressLocked() progress.Snapshot {
	if r.loadState != LoadReady {
		return progress.Compute(0, 0)
	}
	return progress.Compute(r.store.AnsweredCount(), r.nav.Len())
}

// QuestionElapsed returns whole seconds spent on the current question.
func (r *Runtime) QuestionElapsed() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.questionClock.Elapsed()
}

// SessionElapsed returns whole seconds since the questions phase began,
// frozen once complete.
func (r *Runtime) SessionElapsed() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessionClock.Elapsed()
}

// Summary returns the completion summary once the run is complete.
func (r *Runtime) Summary() (Summary, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.summary == nil {
		return Summary{}, false
	}
	return *r.summary, true
}

// Close stops clocks and timers. The runtime rejects further use.
func (r *Runtime) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	r.generation++
	r.questionClock.Stop()
	r.sessionClock.Stop()
	r.autosave.cancel()
	r.autosave.state = AutoSaveIdle
	r.pending = nil
	r.log.Debug("Runtime closed")
}

func (r *Runtime) ready() bool {
	return !r.closed && r.loadState == LoadReady
}

func (r *Runtime) setLoadStateLocked(s LoadState) {
	if r.loadState == s {
		return
	}
	r.loadState = s
	r.pending = append(r.pending, Event{Type: EventLoadState, SessionID: r.sessionID, LoadState: s})
}

func (r *Runtime) setPhaseLocked(p Phase) {
	if r.phase == p {
		return
	}
	r.phase = p
	r.log.Debug("Phase changed", zap.String("phase", string(p)))
	r.pending = append(r.pending, Event{Type: EventPhase, SessionID: r.sessionID, Phase: p})
}

func (r *Runtime) setAutoSaveLocked(s AutoSaveState) {
	if r.autosave.state == s {
		return
	}
	r.autosave.state = s
	r.pending = append(r.pending, Event{
		Type:       EventAutoSave,
		SessionID:  r.sessionID,
		QuestionID: r.autosave.questionID,
		AutoSave:   s,
	})
}

// unlockAndFlush releases r.mu and then delivers queued events.
func (r *Runtime) unlockAndFlush() {
	events := r.pending
	r.pending = nil
	listener := r.listener
	r.mu.Unlock()

	if listener == nil {
		return
	}
	for _, e := range events {
		listener.OnEvent(e)
	}
}
