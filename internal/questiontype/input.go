package questiontype

import (
	"errors"
	"fmt"
	"strings"

	"interview-runtime/internal/answers"
	"interview-runtime/internal/interview"
)

// ErrRejected is returned when the answer owner refuses a write, for
// example after the run is complete.
var ErrRejected = errors.New("answer not accepted")

// AnswerAccess is what an input needs from the answer owner.
type AnswerAccess interface {
	Answer(questionID string) (answers.Record, bool)
	SetAnswer(questionID string, value any) bool
	MarkSubmitted(questionID string) bool
}

// Input is the stateful component of one question. It starts from the
// existing answer and writes every change through to the owner.
type Input struct {
	kind     Kind
	question interview.Question
	access   AnswerAccess
	value    any
	language Language
	message  string
}

// Bind creates the input for q, reading the existing answer from access.
func (r *Registry) Bind(q interview.Question, access AnswerAccess) (*Input, error) {
	kind, err := r.Lookup(q.Type)
	if err != nil {
		return nil, fmt.Errorf("bind question %s: %w", q.ID, err)
	}
	lang, _ := LanguageByID(DefaultLanguage)
	in := &Input{
		kind:     kind,
		question: q,
		access:   access,
		language: lang,
	}
	in.Reset()
	return in, nil
}

// Reset rereads the stored answer, falling back to the kind default.
func (in *Input) Reset() {
	in.message = ""
	if rec, ok := in.access.Answer(in.question.ID); ok && in.kind.Answered(rec.Value) {
		in.value = rec.Value
		return
	}
	in.value = in.kind.Default(&in.question, Options{Language: in.language.ID})
}

func (in *Input) Question() interview.Question { return in.question }
func (in *Input) Kind() Kind                   { return in.kind }
func (in *Input) Value() any                   { return in.value }
func (in *Input) Language() Language           { return in.language }

// Message is the last validation message, empty after a successful change.
func (in *Input) Message() string { return in.message }

// Submitted reports whether the stored record was explicitly submitted.
func (in *Input) Submitted() bool {
	rec, ok := in.access.Answer(in.question.ID)
	return ok && rec.Submitted
}

// Change replaces the payload and writes it through.
func (in *Input) Change(value any) error {
	v, ok := in.kind.Coerce(&in.question, value)
	if !ok {
		err := invalid(&in.question, "Answer %v does not fit a %s question", value, in.question.Type)
		in.message = err.Error()
		return err
	}
	in.value = v
	in.message = ""
	if !in.access.SetAnswer(in.question.ID, v) {
		return ErrRejected
	}
	return nil
}

// ChangeRaw parses user text with the kind and writes it through. A parse
// failure keeps the previous payload.
func (in *Input) ChangeRaw(raw string) error {
	v, err := in.kind.Parse(&in.question, raw)
	if err != nil {
		in.message = err.Error()
		return err
	}
	return in.Change(v)
}

// Toggle flips one option of a multi-select input.
func (in *Input) Toggle(option string) error {
	multi, ok := in.kind.(*MultiChoice)
	if !ok {
		return fmt.Errorf("toggle on %s question: %w", in.question.Type, ErrUnsupportedType)
	}
	if resolved, found := resolveOption(in.question.Options, strings.TrimSpace(option)); found {
		option = resolved
	}
	next, err := multi.Toggle(&in.question, in.value, option)
	if err != nil {
		in.message = err.Error()
		return err
	}
	return in.Change(next)
}

// SelectLanguage switches the editor language of a coding input. The code is
// replaced by the new default only while it is blank or still the previous
// default.
func (in *Input) SelectLanguage(id string) error {
	if in.question.Type != interview.TypeCoding {
		return fmt.Errorf("select language on %s question: %w", in.question.Type, ErrUnsupportedType)
	}
	lang, ok := LanguageByID(id)
	if !ok {
		err := invalid(&in.question, "Unsupported language %q", id)
		in.message = err.Error()
		return err
	}

	previous, _ := in.kind.Default(&in.question, Options{Language: in.language.ID}).(string)
	code, _ := in.value.(string)
	in.language = lang
	if code == previous || strings.TrimSpace(code) == "" {
		return in.Change(in.kind.Default(&in.question, Options{Language: lang.ID}))
	}
	return nil
}

// Submit validates the payload, writes it and marks the record submitted.
// On failure the payload stays as it is and a *ValidationError is returned.
func (in *Input) Submit() error {
	if err := in.kind.Validate(&in.question, in.value); err != nil {
		in.message = err.Error()
		return err
	}
	in.message = ""
	if !in.access.SetAnswer(in.question.ID, in.value) {
		return ErrRejected
	}
	in.access.MarkSubmitted(in.question.ID)
	return nil
}

// Render draws the input widget for the current payload.
func (in *Input) Render() string {
	out := in.kind.Render(&in.question, in.value)
	if in.question.Type == interview.TypeCoding {
		out = fmt.Sprintf("Language: %s\n%s", in.language.Name, out)
	}
	if in.message != "" {
		out += "\n❌ " + in.message
	}
	return out
}
