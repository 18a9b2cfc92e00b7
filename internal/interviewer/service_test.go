package interviewer

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	testingclock "k8s.io/utils/clock/testing"

	"interview-runtime/internal/interview"
	"interview-runtime/internal/runtime"
	"interview-runtime/internal/storage"
)

func intPtr(v int) *int { return &v }

func backendSession() *interview.Session {
	return &interview.Session{
		ID:          "backend",
		Title:       "Backend basics",
		Difficulty:  interview.DifficultyMedium,
		TotalPoints: 25,
		Questions: []interview.Question{
			{ID: "lang", Type: interview.TypeMultipleChoice, Text: "Which keyword starts a goroutine?", Order: 1, Points: 10, Options: []string{"go", "async"}},
			{ID: "why", Type: interview.TypeText, Text: "Why channels?", Order: 2, Points: 10, Constraints: &interview.Constraints{MinLength: intPtr(10)}},
			{ID: "conf", Type: interview.TypeRating, Text: "Confidence?", Order: 3, Points: 5},
		},
	}
}

func newService(t *testing.T, fetcher runtime.Fetcher) (*Service, *storage.ResultStore) {
	t.Helper()
	results := storage.NewResultStore(t.TempDir())
	fake := testingclock.NewFakeClock(time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC))
	return New(fetcher, results, WithClock(fake)), results
}

func sessionFetcher() runtime.Fetcher {
	return runtime.FetcherFunc(func(_ context.Context, id string) (*interview.Session, error) {
		if id != "backend" {
			return nil, interview.ErrSessionNotFound
		}
		return backendSession(), nil
	})
}

func TestOpenShowsOverview(t *testing.T) {
	svc, _ := newService(t, sessionFetcher())

	sess, reply := svc.Open(context.Background(), "backend", "42")
	defer sess.Close()

	assert.Contains(t, reply, "Backend basics")
	assert.Contains(t, reply, "Questions: 3")
	assert.Contains(t, reply, "Points: 25")
	assert.Contains(t, reply, "/begin")
	assert.Equal(t, runtime.LoadReady, sess.Runtime().LoadState())
}

func TestOpenNotFound(t *testing.T) {
	svc, _ := newService(t, sessionFetcher())

	sess, reply := svc.Open(context.Background(), "missing", "42")
	defer sess.Close()

	assert.Contains(t, reply, "was not found")
	assert.Contains(t, sess.Execute(context.Background(), "/begin"), "not loaded")
}

func TestRetryAfterFailure(t *testing.T) {
	calls := 0
	fetcher := runtime.FetcherFunc(func(ctx context.Context, id string) (*interview.Session, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("connection refused")
		}
		return backendSession(), nil
	})
	svc, _ := newService(t, fetcher)

	sess, reply := svc.Open(context.Background(), "backend", "42")
	defer sess.Close()
	assert.Contains(t, reply, "/retry")

	reply = sess.Execute(context.Background(), "/retry")
	assert.Contains(t, reply, "Backend basics")
	assert.Equal(t, 2, calls)
}

func TestInterviewFlow(t *testing.T) {
	ctx := context.Background()
	svc, results := newService(t, sessionFetcher())
	sess, _ := svc.Open(ctx, "backend", "42")
	defer sess.Close()

	assert.Contains(t, sess.Execute(ctx, "/next"), "/begin")
	assert.Contains(t, sess.Execute(ctx, "some answer"), "/begin")

	reply := sess.Execute(ctx, "/begin")
	assert.Contains(t, reply, "Question 1 of 3")
	assert.Contains(t, reply, "Which keyword starts a goroutine?")
	assert.Contains(t, reply, "0%")

	assert.Contains(t, sess.Execute(ctx, "/submit"), "Please select an option before submitting")

	reply = sess.Execute(ctx, "1")
	assert.Contains(t, reply, "● 1. go")
	assert.Contains(t, reply, "Saved")
	assert.Contains(t, sess.Execute(ctx, "/submit"), "Answer submitted")
	assert.True(t, sess.Runtime().IsAnswered("lang"))

	assert.Contains(t, sess.Execute(ctx, "/prev"), "first question")

	reply = sess.Execute(ctx, "/next")
	assert.Contains(t, reply, "Question 2 of 3")
	assert.Contains(t, reply, "33%")

	sess.Execute(ctx, "short")
	assert.Contains(t, sess.Execute(ctx, "/submit"), "Answer must be at least 10 characters long")
	assert.True(t, sess.Runtime().IsAnswered("why"), "a short answer still counts as answered")

	reply = sess.Execute(ctx, "/clear")
	assert.Contains(t, reply, "Answer cleared")
	assert.False(t, sess.Runtime().IsAnswered("why"))

	reply = sess.Execute(ctx, "/goto 3")
	assert.Contains(t, reply, "Question 3 of 3")
	assert.Contains(t, sess.Execute(ctx, "/goto 3"), "Question 3 of 3", "current question re-renders")
	assert.Contains(t, sess.Execute(ctx, "/goto 9"), "There is no question 9")
	assert.Contains(t, sess.Execute(ctx, "/goto x"), "Usage")
	assert.Contains(t, sess.Execute(ctx, "/next"), "last question")

	assert.Contains(t, sess.Execute(ctx, "/toggle a"), "multiple select")
	assert.Contains(t, sess.Execute(ctx, "/lang go"), "coding questions")

	list := sess.Execute(ctx, "/list")
	assert.Contains(t, list, "✅ 1. Which keyword")
	assert.Contains(t, list, "⬜ 2. Why channels?")
	assert.Contains(t, list, "👉 ⬜ 3. Confidence?")

	assert.Contains(t, sess.Execute(ctx, "/status"), "Question: 3 of 3")

	reply = sess.Execute(ctx, "/finish")
	assert.Contains(t, reply, "Interview complete")
	assert.Contains(t, reply, "Answered: 1 of 3 (33%)")
	assert.Contains(t, reply, "Estimated score: 7 / 25")

	attempt, path, ok := sess.Attempt()
	require.True(t, ok)
	_, err := os.Stat(path)
	require.NoError(t, err)
	loaded, err := results.LoadResult(attempt.AttemptID)
	require.NoError(t, err)
	assert.Equal(t, "42", loaded.UserID)
	assert.Equal(t, 1, loaded.Summary.AnsweredCount)

	assert.Contains(t, sess.Execute(ctx, "4"), "complete")
	assert.Contains(t, sess.Execute(ctx, "/finish"), "Estimated score: 7 / 25")

	reply = sess.Execute(ctx, "/restart")
	assert.Contains(t, reply, "Backend basics")
	assert.Equal(t, runtime.PhaseOverview, sess.Runtime().Phase())
	assert.True(t, sess.Runtime().IsAnswered("lang"), "restart keeps answers")
}

func TestCodingLanguageSurvivesReplies(t *testing.T) {
	ctx := context.Background()
	fetcher := runtime.FetcherFunc(func(context.Context, string) (*interview.Session, error) {
		return &interview.Session{
			ID:        "code",
			Questions: []interview.Question{{ID: "fizz", Type: interview.TypeCoding, Text: "FizzBuzz"}},
		}, nil
	})
	svc, _ := newService(t, fetcher)
	sess, _ := svc.Open(ctx, "code", "1")
	defer sess.Close()

	sess.Execute(ctx, "/begin")
	assert.Contains(t, sess.Execute(ctx, "/lang"), "`python` Python")
	assert.Contains(t, sess.Execute(ctx, "/lang python"), "Language: Python")
	assert.Contains(t, sess.Execute(ctx, "print(1)"), "Language: Python")
	assert.Contains(t, sess.Execute(ctx, "/lang cobol"), "Unsupported language")
}

func TestEmptySession(t *testing.T) {
	ctx := context.Background()
	fetcher := runtime.FetcherFunc(func(context.Context, string) (*interview.Session, error) {
		return &interview.Session{ID: "empty", Title: "Empty"}, nil
	})
	svc, _ := newService(t, fetcher)
	sess, _ := svc.Open(ctx, "empty", "1")
	defer sess.Close()

	assert.Contains(t, sess.Execute(ctx, "/begin"), "no questions")
	assert.Contains(t, sess.Execute(ctx, "/next"), "no questions")
	assert.Contains(t, sess.Execute(ctx, "/finish"), "Answered: 0 of 0 (0%)")
}

func TestUnknownCommandAndHelp(t *testing.T) {
	svc, _ := newService(t, sessionFetcher())
	sess, _ := svc.Open(context.Background(), "backend", "1")
	defer sess.Close()

	assert.Contains(t, sess.Execute(context.Background(), "/dance"), "Unknown command")
	assert.Contains(t, sess.Execute(context.Background(), "/help"), "/goto <n>")
}
