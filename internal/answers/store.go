package answers

import (
	"reflect"
	"sort"
	"time"

	"k8s.io/utils/clock"
)

// Record is the stored answer state of one question.
type Record struct {
	QuestionID string        `json:"question_id"`
	Value      any           `json:"answer"`
	IsAnswered bool          `json:"is_answered"`
	AnsweredAt time.Time     `json:"answered_at"`
	TimeSpent  time.Duration `json:"time_spent"`
	Submitted  bool          `json:"submitted"`
}

// AnsweredFunc decides whether a payload counts as answered for a question.
type AnsweredFunc func(questionID string, value any) bool

// Store holds answers keyed by question id. Only ids given to NewStore are
// accepted. A Store is not safe for concurrent use; the owner serializes
// access.
type Store struct {
	known    map[string]struct{}
	records  map[string]*Record
	answered AnsweredFunc
	clock    clock.PassiveClock
}

// Option configures a Store.
type Option func(*Store)

// WithAnsweredFunc replaces the answered predicate.
func WithAnsweredFunc(fn AnsweredFunc) Option {
	return func(s *Store) {
		if fn != nil {
			s.answered = fn
		}
	}
}

// WithClock sets the clock used to stamp AnsweredAt.
func WithClock(c clock.PassiveClock) Option {
	return func(s *Store) {
		if c != nil {
			s.clock = c
		}
	}
}

// NewStore creates an empty store for the given question ids.
func NewStore(questionIDs []string, opts ...Option) *Store {
	s := &Store{
		known:   make(map[string]struct{}, len(questionIDs)),
		records: make(map[string]*Record),
		answered: func(_ string, value any) bool {
			return HasValue(value)
		},
		clock: clock.RealClock{},
	}
	for _, id := range questionIDs {
		s.known[id] = struct{}{}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Knows reports whether id belongs to the session.
func (s *Store) Knows(questionID string) bool {
	_, ok := s.known[questionID]
	return ok
}

// Set writes a payload. Unknown ids are ignored and false is returned.
// TimeSpent of an existing record is kept; Submitted is reset.
func (s *Store) Set(questionID string, value any) bool {
	if !s.Knows(questionID) {
		return false
	}

	var spent time.Duration
	if prev, ok := s.records[questionID]; ok {
		spent = prev.TimeSpent
	}

	value = clone(value)
	s.records[questionID] = &Record{
		QuestionID: questionID,
		Value:      value,
		IsAnswered: s.answered(questionID, value),
		AnsweredAt: s.clock.Now(),
		TimeSpent:  spent,
	}
	return true
}

// Get returns a copy of the record for questionID.
func (s *Store) Get(questionID string) (Record, bool) {
	rec, ok := s.records[questionID]
	if !ok {
		return Record{}, false
	}
	out := *rec
	out.Value = clone(rec.Value)
	return out, true
}

// Clear removes the record for questionID.
func (s *Store) Clear(questionID string) bool {
	if _, ok := s.records[questionID]; !ok {
		return false
	}
	delete(s.records, questionID)
	return true
}

// IsAnswered reports whether questionID has an answered record.
func (s *Store) IsAnswered(questionID string) bool {
	rec, ok := s.records[questionID]
	return ok && rec.IsAnswered
}

// AnsweredCount counts answered records.
func (s *Store) AnsweredCount() int {
	n := 0
	for _, rec := range s.records {
		if rec.IsAnswered {
			n++
		}
	}
	return n
}

// AddTimeSpent adds d to the record's time spent. Negative durations and
// questions without a record are ignored.
func (s *Store) AddTimeSpent(questionID string, d time.Duration) bool {
	rec, ok := s.records[questionID]
	if !ok || d <= 0 {
		return false
	}
	rec.TimeSpent += d
	return true
}

// MarkSubmitted flags an existing record as explicitly submitted.
func (s *Store) MarkSubmitted(questionID string) bool {
	rec, ok := s.records[questionID]
	if !ok {
		return false
	}
	rec.Submitted = true
	return true
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	return len(s.records)
}

// Snapshot returns copies of all records ordered by question id.
func (s *Store) Snapshot() []Record {
	out := make([]Record, 0, len(s.records))
	for _, rec := range s.records {
		r := *rec
		r.Value = clone(rec.Value)
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].QuestionID < out[j].QuestionID
	})
	return out
}

// HasValue is the generic emptiness rule: nil, the empty string and empty
// collections are not answers.
func HasValue(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case string:
		return v != ""
	case []string:
		return len(v) > 0
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() > 0
	case reflect.Pointer, reflect.Interface:
		return !rv.IsNil()
	}
	return true
}

func clone(value any) any {
	if v, ok := value.([]string); ok {
		out := make([]string, len(v))
		copy(out, v)
		return out
	}
	return value
}
