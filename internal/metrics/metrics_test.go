package metrics

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	m := NewMetrics()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.IncrementAnswersWritten()
		}()
	}
	wg.Wait()

	m.IncrementFetchCall(true)
	m.IncrementFetchCall(false)
	m.IncrementInterviewsStarted()

	s := m.GetSnapshot()
	assert.Equal(t, int64(10), s.AnswersWritten)
	assert.Equal(t, int64(2), s.FetchCallsTotal)
	assert.Equal(t, int64(1), s.FetchCallsOK)
	assert.Equal(t, int64(1), s.InterviewsStarted)
	assert.Zero(t, s.InterviewsCompleted)
	assert.False(t, s.LastUpdateTime.IsZero())
}
