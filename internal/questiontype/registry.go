package questiontype

import (
	"errors"
	"fmt"
	"sort"

	"interview-runtime/internal/answers"
	"interview-runtime/internal/interview"
)

// ErrUnsupportedType is returned when no kind is registered for a type tag.
var ErrUnsupportedType = errors.New("unsupported question type")

// Options carries per-input state a kind may need to build defaults.
type Options struct {
	Language string
}

// Kind implements one question type: parsing user text, normalizing
// payloads, the answered predicate, defaults, pre-submit validation and a
// text rendering of the input widget.
type Kind interface {
	Type() interview.QuestionType

	// Parse converts raw user text into a payload.
	Parse(q *interview.Question, raw string) (any, error)

	// Coerce normalizes a loosely typed payload for q, reporting false when
	// the value has the wrong shape or lies outside what q allows.
	Coerce(q *interview.Question, value any) (any, bool)

	Answered(value any) bool
	Default(q *interview.Question, opts Options) any
	Validate(q *interview.Question, value any) error
	Render(q *interview.Question, value any) string
}

// Registry maps type tags to kinds.
type Registry struct {
	kinds map[interview.QuestionType]Kind
}

// NewRegistry creates a registry holding kinds.
func NewRegistry(kinds ...Kind) *Registry {
	r := &Registry{kinds: make(map[interview.QuestionType]Kind, len(kinds))}
	for _, k := range kinds {
		r.Register(k)
	}
	return r
}

// Default returns a registry with all built-in kinds.
func Default() *Registry {
	return NewRegistry(
		NewSingleChoice(interview.TypeMultipleChoice),
		NewMultiChoice(),
		NewFreeText(),
		NewSingleChoice(interview.TypeDropdown),
		NewRating(DefaultRatingScale),
		NewCoding(),
	)
}

// Register adds or replaces the kind for its type tag.
func (r *Registry) Register(k Kind) {
	r.kinds[k.Type()] = k
}

// Lookup returns the kind for a type tag.
func (r *Registry) Lookup(t interview.QuestionType) (Kind, error) {
	k, ok := r.kinds[t]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, t)
	}
	return k, nil
}

// Types lists registered type tags in lexical order.
func (r *Registry) Types() []interview.QuestionType {
	out := make([]interview.QuestionType, 0, len(r.kinds))
	for t := range r.kinds {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Answered applies the kind's predicate, or the generic emptiness rule for
// unregistered types.
func (r *Registry) Answered(t interview.QuestionType, value any) bool {
	if k, ok := r.kinds[t]; ok {
		return k.Answered(value)
	}
	return answers.HasValue(value)
}

// Coerce normalizes value for q. Unregistered types pass through.
func (r *Registry) Coerce(q *interview.Question, value any) (any, bool) {
	if k, ok := r.kinds[q.Type]; ok {
		return k.Coerce(q, value)
	}
	return value, true
}

// ValidationError is a user-facing reason why an answer cannot be submitted.
type ValidationError struct {
	QuestionID string
	Message    string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(q *interview.Question, format string, args ...any) error {
	id := ""
	if q != nil {
		id = q.ID
	}
	return &ValidationError{QuestionID: id, Message: fmt.Sprintf(format, args...)}
}
