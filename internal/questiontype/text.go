package questiontype

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"interview-runtime/internal/interview"
)

// FreeText backs TEXT questions. Length limits count runes of the trimmed
// answer.
type FreeText struct{}

func NewFreeText() *FreeText { return &FreeText{} }

func (k *FreeText) Type() interview.QuestionType { return interview.TypeText }

// Parse keeps the text as typed.
func (k *FreeText) Parse(_ *interview.Question, raw string) (any, error) {
	return raw, nil
}

func (k *FreeText) Coerce(_ *interview.Question, value any) (any, bool) {
	switch v := value.(type) {
	case nil:
		return "", true
	case string:
		return v, true
	}
	return nil, false
}

func (k *FreeText) Answered(value any) bool {
	v, ok := value.(string)
	return ok && v != ""
}

func (k *FreeText) Default(*interview.Question, Options) any { return "" }

func (k *FreeText) Validate(q *interview.Question, value any) error {
	v, _ := value.(string)
	trimmed := strings.TrimSpace(v)
	if trimmed == "" {
		return invalid(q, "Please provide an answer before submitting")
	}
	n := utf8.RuneCountInString(trimmed)
	if minLength := q.MinLength(); n < minLength {
		return invalid(q, "Answer must be at least %d characters long", minLength)
	}
	if maxLength := q.MaxLength(); n > maxLength {
		return invalid(q, "Answer must not exceed %d characters", maxLength)
	}
	return nil
}

func (k *FreeText) Render(q *interview.Question, value any) string {
	v, _ := value.(string)
	trimmed := strings.TrimSpace(v)
	n := utf8.RuneCountInString(trimmed)
	words := len(strings.Fields(trimmed))

	var sb strings.Builder
	if trimmed == "" {
		sb.WriteString("_Type your answer._")
	} else {
		sb.WriteString(v)
	}
	fmt.Fprintf(&sb, "\n%d/%d characters, %d words", n, q.MaxLength(), words)
	if minLength := q.MinLength(); minLength > 0 && n < minLength {
		fmt.Fprintf(&sb, " (%d more needed)", minLength-n)
	}
	return sb.String()
}
