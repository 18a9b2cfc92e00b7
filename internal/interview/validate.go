package interview

import (
	"errors"
	"fmt"
)

// ErrSessionNotFound is returned by fetchers when no session has the
// requested id.
var ErrSessionNotFound = errors.New("session not found")

// Validate checks that a session definition can be traversed.
func Validate(s *Session) error {
	if s == nil {
		return fmt.Errorf("session is nil")
	}
	if s.ID == "" {
		return fmt.Errorf("session must have id")
	}

	seen := make(map[string]int, len(s.Questions))
	for i, q := range s.Questions {
		if q.ID == "" {
			return fmt.Errorf("question %d must have id", i)
		}
		if prev, ok := seen[q.ID]; ok {
			return fmt.Errorf("question %d duplicates id %q of question %d", i, q.ID, prev)
		}
		seen[q.ID] = i

		if q.Points < 0 {
			return fmt.Errorf("question %q has negative points", q.ID)
		}

		switch q.Type {
		case TypeMultipleChoice, TypeCheckbox, TypeDropdown:
			if len(q.Options) == 0 {
				return fmt.Errorf("question %q of type %s must have options", q.ID, q.Type)
			}
		}

		if lo, hi := q.MinLength(), q.MaxLength(); lo < 0 || hi < lo {
			return fmt.Errorf("question %q has invalid length constraints [%d, %d]", q.ID, lo, hi)
		}
	}

	return nil
}
