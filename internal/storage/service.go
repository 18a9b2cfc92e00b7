package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"interview-runtime/internal/answers"
	"interview-runtime/internal/interview"
	"interview-runtime/internal/runtime"
)

const (
	DefaultResultsDir = "results"
	attemptPrefix     = "attempt_"
	attemptSuffix     = ".json"
)

// ResultStore keeps completed attempts as JSON files in one directory.
type ResultStore struct {
	dir string
}

func NewResultStore(dir string) *ResultStore {
	if dir == "" {
		dir = DefaultResultsDir
	}
	return &ResultStore{dir: dir}
}

// Dir returns the results directory.
func (s *ResultStore) Dir() string { return s.dir }

// NewAttempt builds a result for a completed run with a fresh attempt id.
func NewAttempt(session *interview.Session, summary runtime.Summary, records []answers.Record, userID string) *AttemptResult {
	byID := make(map[string]answers.Record, len(records))
	for _, rec := range records {
		byID[rec.QuestionID] = rec
	}

	result := &AttemptResult{
		AttemptID:    uuid.New().String(),
		SessionID:    session.ID,
		SessionTitle: session.Title,
		UserID:       userID,
		Timestamp:    summary.CompletedAt,
		Summary:      summary,
	}
	if result.Timestamp.IsZero() {
		result.Timestamp = time.Now()
	}

	for _, q := range interview.SortQuestions(session.Questions) {
		rec, ok := byID[q.ID]
		if !ok {
			rec = answers.Record{QuestionID: q.ID}
		}
		result.Answers = append(result.Answers, NewAnswerResult(rec, q.Text, string(q.Type)))
	}
	return result
}

// SaveResult writes the attempt to attempt_{id}.json.
func (s *ResultStore) SaveResult(result *AttemptResult) (string, error) {
	err := os.MkdirAll(s.dir, 0755)
	if err != nil {
		return "", fmt.Errorf("create directory %s: %w", s.dir, err)
	}

	if result.AttemptID == "" {
		result.AttemptID = uuid.New().String()
	}
	path := filepath.Join(s.dir, attemptPrefix+result.AttemptID+attemptSuffix)

	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal attempt: %w", err)
	}

	err = os.WriteFile(path, jsonData, 0644)
	if err != nil {
		return "", fmt.Errorf("write file %s: %w", path, err)
	}

	return path, nil
}

// LoadResult reads one attempt by id.
func (s *ResultStore) LoadResult(attemptID string) (*AttemptResult, error) {
	path := filepath.Join(s.dir, attemptPrefix+attemptID+attemptSuffix)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}

	var result AttemptResult
	err = json.Unmarshal(data, &result)
	if err != nil {
		return nil, fmt.Errorf("unmarshal attempt %s: %w", attemptID, err)
	}

	return &result, nil
}

// ListResults returns the ids of all saved attempts.
func (s *ResultStore) ListResults() ([]string, error) {
	if _, err := os.Stat(s.dir); os.IsNotExist(err) {
		return []string{}, nil
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", s.dir, err)
	}

	results := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, attemptPrefix) || !strings.HasSuffix(name, attemptSuffix) {
			continue
		}
		results = append(results, strings.TrimSuffix(strings.TrimPrefix(name, attemptPrefix), attemptSuffix))
	}

	return results, nil
}
