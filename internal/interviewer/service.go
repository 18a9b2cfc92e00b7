package interviewer

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"
	"k8s.io/utils/clock"

	"interview-runtime/internal/metrics"
	"interview-runtime/internal/questiontype"
	"interview-runtime/internal/runtime"
	"interview-runtime/internal/storage"
)

// Service opens interview sessions and turns text commands into runtime
// operations. Telegram and the console both drive it.
type Service struct {
	fetcher  runtime.Fetcher
	results  *storage.ResultStore
	registry *questiontype.Registry
	log      *zap.Logger
	metrics  *metrics.Metrics
	clock    clock.WithTickerAndDelayedExecution
	settings func() runtime.Settings
}

type Option func(*Service)

func WithRegistry(r *questiontype.Registry) Option {
	return func(s *Service) { s.registry = r }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.log = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithClock(c clock.WithTickerAndDelayedExecution) Option {
	return func(s *Service) { s.clock = c }
}

// WithSettings sets the source of runtime settings. It is read on every
// Open so a reloaded configuration applies to new sessions.
func WithSettings(fn func() runtime.Settings) Option {
	return func(s *Service) { s.settings = fn }
}

// New creates the interviewer service.
func New(fetcher runtime.Fetcher, results *storage.ResultStore, opts ...Option) *Service {
	s := &Service{
		fetcher:  fetcher,
		results:  results,
		registry: questiontype.Default(),
		log:      zap.NewNop(),
		metrics:  metrics.NewMetrics(),
		clock:    clock.RealClock{},
		settings: runtime.DefaultSettings,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Session is one user working through one interview session.
type Session struct {
	mu     sync.Mutex
	svc    *Service
	userID string
	rt     *runtime.Runtime
	log    *zap.Logger
	input  *questiontype.Input

	attempt   *storage.AttemptResult
	savedPath string
}

// Open creates the runtime for sessionID and loads it. The session is
// returned even when loading fails so the user can /retry. The reply is the
// overview or the load error text.
func (s *Service) Open(ctx context.Context, sessionID, userID string, opts ...runtime.Option) (*Session, string) {
	base := []runtime.Option{
		runtime.WithRegistry(s.registry),
		runtime.WithClock(s.clock),
		runtime.WithLogger(s.log.With(zap.String("user_id", userID))),
		runtime.WithMetrics(s.metrics),
		runtime.WithSettings(s.settings()),
	}
	rt := runtime.New(s.fetcher, sessionID, append(base, opts...)...)

	sess := &Session{
		svc:    s,
		userID: userID,
		rt:     rt,
		log:    s.log.With(zap.String("session_id", sessionID), zap.String("user_id", userID)),
	}
	return sess, sess.load(ctx)
}

// Runtime exposes the underlying state machine.
func (sess *Session) Runtime() *runtime.Runtime { return sess.rt }

// Attempt returns the saved result of the last finished run.
func (sess *Session) Attempt() (*storage.AttemptResult, string, bool) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.attempt, sess.savedPath, sess.attempt != nil
}

// Close stops the runtime timers.
func (sess *Session) Close() {
	sess.rt.Close()
}

// Execute runs one line of user input: a command or an answer for the
// current question. It returns the text to show.
func (sess *Session) Execute(ctx context.Context, line string) string {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "/") {
		return sess.answer(line)
	}

	command, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(command) {
	case "/begin":
		return sess.begin()
	case "/next":
		return sess.navigate(sess.rt.Next, "This is the last question. Use /finish when you are done.")
	case "/prev", "/previous":
		return sess.navigate(sess.rt.Previous, "This is the first question.")
	case "/goto":
		return sess.goTo(arg)
	case "/list":
		return renderQuestionList(sess.rt)
	case "/status":
		return renderStatus(sess.rt)
	case "/submit":
		return sess.submit()
	case "/clear":
		return sess.clear()
	case "/toggle":
		return sess.toggle(arg)
	case "/lang":
		return sess.language(arg)
	case "/finish":
		return sess.finish()
	case "/restart":
		return sess.restart()
	case "/retry":
		return sess.load(ctx)
	case "/help":
		return HelpText()
	default:
		return "Unknown command. Use /help for the list of commands."
	}
}

func (sess *Session) load(ctx context.Context) string {
	if err := sess.rt.Load(ctx); err != nil {
		switch {
		case errors.Is(err, runtime.ErrLoadInProgress):
			return "⏳ The session is still loading."
		case sess.rt.LoadState() == runtime.LoadNotFound:
			return fmt.Sprintf("❌ Interview session `%s` was not found.", sess.rt.SessionID())
		default:
			return "❌ Could not load the interview session. Use /retry to try again."
		}
	}
	return renderOverview(sess.rt)
}

func (sess *Session) begin() string {
	err := sess.rt.StartInterview()
	switch {
	case errors.Is(err, runtime.ErrWrongPhase):
		return "The interview is complete. Use /restart to go through it again."
	case errors.Is(err, runtime.ErrNotReady):
		return "The session is not loaded. Use /retry to try again."
	case err != nil:
		return "❌ " + err.Error()
	}
	return sess.view()
}

// requireQuestions returns a hint when the runtime is not showing questions.
func (sess *Session) requireQuestions() (string, bool) {
	switch sess.rt.Phase() {
	case runtime.PhaseOverview:
		return "Use /begin to start the interview.", false
	case runtime.PhaseComplete:
		return "The interview is complete. Use /restart to go through it again.", false
	}
	if _, ok := sess.rt.CurrentQuestion(); !ok {
		return "There are no questions to show. Use /finish to complete the interview.", false
	}
	return "", true
}

func (sess *Session) navigate(step func() bool, blocked string) string {
	if hint, ok := sess.requireQuestions(); !ok {
		return hint
	}
	if !step() {
		return blocked
	}
	return sess.view()
}

func (sess *Session) goTo(arg string) string {
	if hint, ok := sess.requireQuestions(); !ok {
		return hint
	}
	n, err := strconv.Atoi(arg)
	if err != nil {
		return "Usage: /goto <question number>"
	}
	// GoTo reports false for the current index too.
	if n-1 == sess.rt.Index() {
		return sess.view()
	}
	if !sess.rt.GoTo(n - 1) {
		return fmt.Sprintf("There is no question %d.", n)
	}
	return sess.view()
}

// currentInput reuses the bound input while the cursor stays on the same
// question so per-input state like the coding language survives.
func (sess *Session) currentInput() (*questiontype.Input, error) {
	q, ok := sess.rt.CurrentQuestion()
	if !ok {
		return nil, runtime.ErrNotReady
	}
	if sess.input != nil && sess.input.Question().ID == q.ID {
		return sess.input, nil
	}
	in, err := sess.rt.CurrentInput()
	if err != nil {
		return nil, err
	}
	sess.input = in
	return in, nil
}

func (sess *Session) answer(text string) string {
	if hint, ok := sess.requireQuestions(); !ok {
		return hint
	}
	in, err := sess.currentInput()
	if err != nil {
		return "❌ " + err.Error()
	}
	if err := in.ChangeRaw(text); err != nil {
		if errors.Is(err, questiontype.ErrRejected) {
			return "Answers are read-only now."
		}
		return in.Render()
	}
	return in.Render() + "\n\n💾 Saved. Use /submit to confirm or /next to move on."
}

func (sess *Session) submit() string {
	if hint, ok := sess.requireQuestions(); !ok {
		return hint
	}
	in, err := sess.currentInput()
	if err != nil {
		return "❌ " + err.Error()
	}
	if err := in.Submit(); err != nil {
		var verr *questiontype.ValidationError
		if errors.As(err, &verr) {
			return "❌ " + verr.Message
		}
		return "Answers are read-only now."
	}
	if sess.rt.IsLastQuestion() {
		return "✅ Answer submitted. Use /finish to complete the interview."
	}
	return "✅ Answer submitted. Use /next to continue."
}

func (sess *Session) clear() string {
	if hint, ok := sess.requireQuestions(); !ok {
		return hint
	}
	q, _ := sess.rt.CurrentQuestion()
	sess.rt.ClearAnswer(q.ID)
	if sess.input != nil {
		sess.input.Reset()
	}
	return "🧹 Answer cleared.\n\n" + sess.view()
}

func (sess *Session) toggle(option string) string {
	if hint, ok := sess.requireQuestions(); !ok {
		return hint
	}
	in, err := sess.currentInput()
	if err != nil {
		return "❌ " + err.Error()
	}
	if errors.Is(in.Toggle(option), questiontype.ErrUnsupportedType) {
		return "/toggle only works on multiple select questions."
	}
	return in.Render()
}

func (sess *Session) language(id string) string {
	if hint, ok := sess.requireQuestions(); !ok {
		return hint
	}
	in, err := sess.currentInput()
	if err != nil {
		return "❌ " + err.Error()
	}
	if id == "" {
		return renderLanguages(in.Language())
	}
	if errors.Is(in.SelectLanguage(strings.ToLower(id)), questiontype.ErrUnsupportedType) {
		return "/lang only works on coding questions."
	}
	return in.Render()
}

func (sess *Session) finish() string {
	summary, err := sess.rt.FinishInterview()
	if err != nil {
		if s, ok := sess.rt.Summary(); ok {
			return renderSummary(s, sess.savedPath)
		}
		return "Use /begin to start the interview first."
	}
	sess.input = nil

	session, _ := sess.rt.Session()
	sess.attempt = storage.NewAttempt(session, summary, sess.rt.Answers(), sess.userID)
	sess.savedPath = ""
	if sess.svc.results != nil {
		path, err := sess.svc.results.SaveResult(sess.attempt)
		if err != nil {
			sess.log.Error("Failed to save attempt", zap.Error(err))
			return renderSummary(summary, "") + "\n\n⚠️ Could not save the result."
		}
		sess.savedPath = path
		sess.log.Info("Attempt saved", zap.String("attempt_id", sess.attempt.AttemptID), zap.String("path", path))
	}
	return renderSummary(summary, sess.savedPath)
}

func (sess *Session) restart() string {
	if err := sess.rt.Restart(); err != nil {
		return "❌ " + err.Error()
	}
	sess.input = nil
	return renderOverview(sess.rt)
}

// view renders the current question with its input.
func (sess *Session) view() string {
	q, ok := sess.rt.CurrentQuestion()
	if !ok || sess.rt.Phase() != runtime.PhaseQuestions {
		return "There are no questions to show. Use /finish to complete the interview."
	}
	in, err := sess.currentInput()
	if err != nil {
		return "❌ " + err.Error()
	}
	return renderQuestion(sess.rt, q, in)
}
