package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu                  sync.RWMutex
	sessionsLoaded      int64
	loadFailures        int64
	interviewsStarted   int64
	interviewsCompleted int64
	questionsViewed     int64
	answersWritten      int64
	answersSubmitted    int64
	autoSaves           int64
	fetchCallsTotal     int64
	fetchCallsOK        int64
	lastUpdateTime      time.Time
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	SessionsLoaded      int64     `json:"sessions_loaded"`
	LoadFailures        int64     `json:"load_failures"`
	InterviewsStarted   int64     `json:"interviews_started"`
	InterviewsCompleted int64     `json:"interviews_completed"`
	QuestionsViewed     int64     `json:"questions_viewed"`
	AnswersWritten      int64     `json:"answers_written"`
	AnswersSubmitted    int64     `json:"answers_submitted"`
	AutoSaves           int64     `json:"auto_saves"`
	FetchCallsTotal     int64     `json:"fetch_calls_total"`
	FetchCallsOK        int64     `json:"fetch_calls_ok"`
	LastUpdateTime      time.Time `json:"last_update_time"`
}

func NewMetrics() *Metrics {
	return &Metrics{
		lastUpdateTime: time.Now(),
	}
}

func (m *Metrics) add(counter *int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	*counter++
	m.lastUpdateTime = time.Now()
}

func (m *Metrics) IncrementSessionsLoaded()      { m.add(&m.sessionsLoaded) }
func (m *Metrics) IncrementLoadFailures()        { m.add(&m.loadFailures) }
func (m *Metrics) IncrementInterviewsStarted()   { m.add(&m.interviewsStarted) }
func (m *Metrics) IncrementInterviewsCompleted() { m.add(&m.interviewsCompleted) }
func (m *Metrics) IncrementQuestionsViewed()     { m.add(&m.questionsViewed) }
func (m *Metrics) IncrementAnswersWritten()      { m.add(&m.answersWritten) }
func (m *Metrics) IncrementAnswersSubmitted()    { m.add(&m.answersSubmitted) }
func (m *Metrics) IncrementAutoSaves()           { m.add(&m.autoSaves) }

func (m *Metrics) IncrementFetchCall(success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetchCallsTotal++
	if success {
		m.fetchCallsOK++
	}
	m.lastUpdateTime = time.Now()
}

func (m *Metrics) GetSnapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Snapshot{
		SessionsLoaded:      m.sessionsLoaded,
		LoadFailures:        m.loadFailures,
		InterviewsStarted:   m.interviewsStarted,
		InterviewsCompleted: m.interviewsCompleted,
		QuestionsViewed:     m.questionsViewed,
		AnswersWritten:      m.answersWritten,
		AnswersSubmitted:    m.answersSubmitted,
		AutoSaves:           m.autoSaves,
		FetchCallsTotal:     m.fetchCallsTotal,
		FetchCallsOK:        m.fetchCallsOK,
		LastUpdateTime:      m.lastUpdateTime,
	}
}
