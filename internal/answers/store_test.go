package answers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	testingclock "k8s.io/utils/clock/testing"
)

func newTestStore(t *testing.T) (*Store, *testingclock.FakeClock) {
	t.Helper()
	fake := testingclock.NewFakeClock(time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC))
	return NewStore([]string{"q1", "q2", "q3"}, WithClock(fake)), fake
}

func TestSetUnknownQuestionIsNoop(t *testing.T) {
	s, _ := newTestStore(t)

	assert.False(t, s.Set("nope", "answer"))
	_, ok := s.Get("nope")
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())
}

func TestIsAnsweredRules(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  bool
	}{
		{name: "nil", value: nil, want: false},
		{name: "empty string", value: "", want: false},
		{name: "text", value: "x", want: true},
		{name: "whitespace", value: "  ", want: true},
		{name: "empty selection", value: []string{}, want: false},
		{name: "selection", value: []string{"a"}, want: true},
		{name: "empty generic slice", value: []any{}, want: false},
		{name: "zero int", value: 0, want: true},
		{name: "rating", value: 4, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestStore(t)
			require.True(t, s.Set("q1", tt.value))
			assert.Equal(t, tt.want, s.IsAnswered("q1"))

			rec, ok := s.Get("q1")
			require.True(t, ok)
			assert.Equal(t, tt.want, rec.IsAnswered)
		})
	}
}

func TestAnsweredFuncOverride(t *testing.T) {
	s := NewStore([]string{"rating"}, WithAnsweredFunc(func(_ string, value any) bool {
		v, ok := value.(int)
		return ok && v >= 1
	}))

	s.Set("rating", 0)
	assert.False(t, s.IsAnswered("rating"))

	s.Set("rating", 3)
	assert.True(t, s.IsAnswered("rating"))
}

func TestRewriteKeepsTimeSpentAndRestampsAnsweredAt(t *testing.T) {
	s, fake := newTestStore(t)

	s.Set("q1", "draft")
	first, _ := s.Get("q1")
	require.True(t, s.AddTimeSpent("q1", 12*time.Second))
	require.True(t, s.MarkSubmitted("q1"))

	fake.Step(5 * time.Second)
	s.Set("q1", "final")

	rec, ok := s.Get("q1")
	require.True(t, ok)
	assert.Equal(t, "final", rec.Value)
	assert.Equal(t, 12*time.Second, rec.TimeSpent)
	assert.False(t, rec.Submitted)
	assert.Equal(t, first.AnsweredAt.Add(5*time.Second), rec.AnsweredAt)
}

func TestAddTimeSpent(t *testing.T) {
	s, _ := newTestStore(t)

	assert.False(t, s.AddTimeSpent("q1", time.Second), "no record yet")

	s.Set("q1", "x")
	assert.False(t, s.AddTimeSpent("q1", -time.Second))
	assert.True(t, s.AddTimeSpent("q1", 2*time.Second))
	assert.True(t, s.AddTimeSpent("q1", 3*time.Second))

	rec, _ := s.Get("q1")
	assert.Equal(t, 5*time.Second, rec.TimeSpent)
}

func TestClear(t *testing.T) {
	s, _ := newTestStore(t)

	s.Set("q2", []string{"a"})
	require.True(t, s.IsAnswered("q2"))

	assert.True(t, s.Clear("q2"))
	_, ok := s.Get("q2")
	assert.False(t, ok)
	assert.False(t, s.IsAnswered("q2"))
	assert.False(t, s.Clear("q2"))
}

func TestGetReturnsCopy(t *testing.T) {
	s, _ := newTestStore(t)

	selection := []string{"a", "b"}
	s.Set("q1", selection)
	selection[0] = "mutated"

	rec, _ := s.Get("q1")
	assert.Equal(t, []string{"a", "b"}, rec.Value)

	rec.Value.([]string)[1] = "mutated"
	again, _ := s.Get("q1")
	assert.Equal(t, []string{"a", "b"}, again.Value)
}

func TestAnsweredCountAndSnapshot(t *testing.T) {
	s, _ := newTestStore(t)

	s.Set("q3", "x")
	s.Set("q1", "")
	s.Set("q2", []string{"a"})

	assert.Equal(t, 2, s.AnsweredCount())

	snap := s.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, "q1", snap[0].QuestionID)
	assert.Equal(t, "q2", snap[1].QuestionID)
	assert.Equal(t, "q3", snap[2].QuestionID)
}
