package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interview-runtime/internal/answers"
	"interview-runtime/internal/content"
	"interview-runtime/internal/interview"
	"interview-runtime/internal/runtime"
)

const yamlSession = `
id: go-basics
title: Go basics
difficulty: EASY
totalPoints: 20
questions:
  - id: q2
    type: RATING
    text: How confident are you with goroutines?
    order: 2
    points: 5
  - id: q1
    type: MULTIPLE_CHOICE
    text: Which keyword starts a goroutine?
    order: 1
    points: 15
    options: [go, async, spawn]
    content:
      - type: code
        order: 0
        data:
          language: go
          code: "go work()"
`

func writeFile(t *testing.T, dir, name, data string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(data), 0644))
}

func TestDirFetcherYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "go-basics.yaml", yamlSession)

	s, err := NewDirFetcher(dir).FetchSession(context.Background(), "go-basics")
	require.NoError(t, err)

	assert.Equal(t, "Go basics", s.Title)
	assert.Equal(t, interview.DifficultyEasy, s.Difficulty)
	require.Len(t, s.Questions, 2)
	assert.Equal(t, []string{"go", "async", "spawn"}, s.Questions[1].Options)
	assert.Equal(t, content.Code{Code: "go work()", Language: "go"}, s.Questions[1].Content[0].Data)
}

func TestDirFetcherJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "s1.json", `{"id": "s1", "title": "JSON", "questions": [{"id": "a", "type": "TEXT", "text": "Why?"}]}`)

	s, err := NewDirFetcher(dir).FetchSession(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "JSON", s.Title)
}

func TestDirFetcherNotFound(t *testing.T) {
	f := NewDirFetcher(t.TempDir())

	for _, id := range []string{"missing", "../etc/passwd", ""} {
		_, err := f.FetchSession(context.Background(), id)
		assert.ErrorIs(t, err, interview.ErrSessionNotFound, id)
	}
}

func TestDirFetcherInvalidDefinition(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "dup.yaml", "id: dup\nquestions:\n  - id: a\n  - id: a\n")

	_, err := NewDirFetcher(dir).FetchSession(context.Background(), "dup")
	require.Error(t, err)
	assert.NotErrorIs(t, err, interview.ErrSessionNotFound)
	assert.ErrorContains(t, err, "duplicates id")
}

func TestDirFetcherListSessions(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", yamlSession)
	writeFile(t, dir, "b.json", "{}")
	writeFile(t, dir, "notes.txt", "x")

	ids, err := NewDirFetcher(dir).ListSessions()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, ids)

	ids, err = NewDirFetcher(filepath.Join(dir, "nope")).ListSessions()
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestResultStoreRoundTrip(t *testing.T) {
	store := NewResultStore(filepath.Join(t.TempDir(), "results"))

	ids, err := store.ListResults()
	require.NoError(t, err)
	assert.Empty(t, ids)

	session := &interview.Session{
		ID:    "go-basics",
		Title: "Go basics",
		Questions: []interview.Question{
			{ID: "q2", Text: "Second", Type: interview.TypeRating, Order: 2},
			{ID: "q1", Text: "First", Type: interview.TypeText, Order: 1},
		},
	}
	completedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	summary := runtime.Summary{SessionID: "go-basics", AnsweredCount: 1, TotalQuestions: 2, CompletedAt: completedAt}
	records := []answers.Record{{QuestionID: "q1", Value: "because", IsAnswered: true, AnsweredAt: completedAt}}

	attempt := NewAttempt(session, summary, records, "42")
	require.NotEmpty(t, attempt.AttemptID)
	require.Len(t, attempt.Answers, 2)
	assert.Equal(t, "q1", attempt.Answers[0].QuestionID)
	assert.Equal(t, "because", attempt.Answers[0].Answer)
	assert.False(t, attempt.Answers[1].IsAnswered)
	assert.Nil(t, attempt.Answers[1].AnsweredAt)

	path, err := store.SaveResult(attempt)
	require.NoError(t, err)
	assert.Equal(t, "attempt_"+attempt.AttemptID+".json", filepath.Base(path))

	loaded, err := store.LoadResult(attempt.AttemptID)
	require.NoError(t, err)
	assert.Equal(t, attempt.SessionTitle, loaded.SessionTitle)
	assert.Equal(t, "42", loaded.UserID)
	assert.True(t, completedAt.Equal(loaded.Timestamp))

	ids, err = store.ListResults()
	require.NoError(t, err)
	assert.Equal(t, []string{attempt.AttemptID}, ids)

	_, err = store.LoadResult("unknown")
	assert.Error(t, err)
}

func TestBundledSessionsAreValid(t *testing.T) {
	f := NewDirFetcher(filepath.Join("..", "..", "sessions"))
	ids, err := f.ListSessions()
	require.NoError(t, err)
	require.NotEmpty(t, ids)

	for _, id := range ids {
		s, err := f.FetchSession(context.Background(), id)
		require.NoError(t, err, id)
		assert.NotEmpty(t, s.Questions, id)
	}
}
