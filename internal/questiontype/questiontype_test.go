package questiontype

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interview-runtime/internal/answers"
	"interview-runtime/internal/content"
	"interview-runtime/internal/interview"
)

// storeAccess exposes an answers.Store with the registry predicate, the way
// the runtime does.
type storeAccess struct {
	store    *answers.Store
	readOnly bool
}

func newAccess(r *Registry, questions ...interview.Question) *storeAccess {
	types := make(map[string]interview.QuestionType)
	ids := make([]string, 0, len(questions))
	for _, q := range questions {
		types[q.ID] = q.Type
		ids = append(ids, q.ID)
	}
	return &storeAccess{store: answers.NewStore(ids, answers.WithAnsweredFunc(func(id string, v any) bool {
		return r.Answered(types[id], v)
	}))}
}

func (a *storeAccess) Answer(id string) (answers.Record, bool) { return a.store.Get(id) }
func (a *storeAccess) SetAnswer(id string, v any) bool {
	if a.readOnly {
		return false
	}
	return a.store.Set(id, v)
}
func (a *storeAccess) MarkSubmitted(id string) bool { return a.store.MarkSubmitted(id) }

func TestRegistryLookup(t *testing.T) {
	r := Default()

	assert.Len(t, r.Types(), 6)
	for _, typ := range []interview.QuestionType{
		interview.TypeMultipleChoice, interview.TypeCheckbox, interview.TypeText,
		interview.TypeDropdown, interview.TypeRating, interview.TypeCoding,
	} {
		k, err := r.Lookup(typ)
		require.NoError(t, err)
		assert.Equal(t, typ, k.Type())
	}

	_, err := r.Lookup("ESSAY")
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = r.Bind(interview.Question{ID: "x", Type: "ESSAY"}, nil)
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestRatingZeroIsUnanswered(t *testing.T) {
	r := Default()
	q := interview.Question{ID: "r", Type: interview.TypeRating}
	access := newAccess(r, q)

	in, err := r.Bind(q, access)
	require.NoError(t, err)
	assert.Equal(t, 0, in.Value())

	require.NoError(t, in.Change(0))
	assert.False(t, access.store.IsAnswered("r"))

	err = in.Submit()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Please select a rating before submitting", verr.Message)
	assert.Equal(t, "r", verr.QuestionID)

	require.NoError(t, in.ChangeRaw("3"))
	assert.True(t, access.store.IsAnswered("r"))
	require.NoError(t, in.Submit())
	assert.True(t, in.Submitted())

	rec, _ := access.store.Get("r")
	assert.Equal(t, 3, rec.Value)
}

func TestRatingParseAndCoerce(t *testing.T) {
	k := NewRating(DefaultRatingScale)
	q := &interview.Question{ID: "r", Type: interview.TypeRating}

	v, err := k.Parse(q, "★★★★")
	require.NoError(t, err)
	assert.Equal(t, 4, v)

	for _, raw := range []string{"0", "6", "abc", ""} {
		_, err := k.Parse(q, raw)
		assert.Error(t, err, raw)
	}

	got, ok := k.Coerce(q, float64(2))
	assert.True(t, ok)
	assert.Equal(t, 2, got)
	_, ok = k.Coerce(q, 2.5)
	assert.False(t, ok)
	_, ok = k.Coerce(q, "3")
	assert.False(t, ok)

	for _, v := range []any{9, -1, int64(6), float64(6), json.Number("7")} {
		_, ok := k.Coerce(q, v)
		assert.False(t, ok, "%v is outside the scale", v)
	}
	got, ok = k.Coerce(q, json.Number("5"))
	assert.True(t, ok)
	assert.Equal(t, 5, got)
	got, ok = k.Coerce(q, nil)
	assert.True(t, ok)
	assert.Equal(t, 0, got)

	assert.False(t, k.Answered(0))
	assert.True(t, k.Answered(5))
	assert.False(t, k.Answered(6))

	assert.Equal(t, "★★★☆☆ 3/5 Good", k.Render(q, 3))
}

func TestChoiceCoerceChecksOptions(t *testing.T) {
	multi := NewMultiChoice()
	q := &interview.Question{ID: "m", Type: interview.TypeCheckbox, Options: []string{"a", "b", "c"}}

	got, ok := multi.Coerce(q, []string{"c", "a", "c"})
	require.True(t, ok)
	assert.Equal(t, []string{"a", "c"}, got)

	got, ok = multi.Coerce(q, []any{"b", "b"})
	require.True(t, ok)
	assert.Equal(t, []string{"b"}, got)

	_, ok = multi.Coerce(q, []string{"zzz"})
	assert.False(t, ok)
	_, ok = multi.Coerce(q, []string{"a", "A"})
	assert.False(t, ok)

	single := NewSingleChoice(interview.TypeMultipleChoice)
	sq := &interview.Question{ID: "s", Type: interview.TypeMultipleChoice, Options: []string{"Yes", "No"}}

	got, ok = single.Coerce(sq, "No")
	require.True(t, ok)
	assert.Equal(t, "No", got)
	got, ok = single.Coerce(sq, "")
	require.True(t, ok)
	assert.Equal(t, "", got)
	_, ok = single.Coerce(sq, "Maybe")
	assert.False(t, ok)
}

func TestMultiSelectEmptyAndClear(t *testing.T) {
	r := Default()
	q := interview.Question{ID: "m", Type: interview.TypeCheckbox, Options: []string{"a", "b", "c"}}
	access := newAccess(r, q)

	in, err := r.Bind(q, access)
	require.NoError(t, err)

	require.NoError(t, in.Change([]string{}))
	assert.False(t, access.store.IsAnswered("m"))
	assert.Error(t, in.Submit())

	require.NoError(t, in.Change([]string{"a"}))
	assert.True(t, access.store.IsAnswered("m"))

	require.True(t, access.store.Clear("m"))
	_, ok := access.store.Get("m")
	assert.False(t, ok)
	assert.False(t, access.store.IsAnswered("m"))
}

func TestMultiSelectParseAndToggle(t *testing.T) {
	r := Default()
	q := interview.Question{ID: "m", Type: interview.TypeCheckbox, Options: []string{"Go", "Rust", "Zig"}}
	access := newAccess(r, q)
	in, err := r.Bind(q, access)
	require.NoError(t, err)

	require.NoError(t, in.ChangeRaw("3, 1"))
	assert.Equal(t, []string{"Go", "Zig"}, in.Value(), "selection keeps option order")

	require.NoError(t, in.Toggle("rust"))
	assert.Equal(t, []string{"Go", "Rust", "Zig"}, in.Value())

	require.NoError(t, in.Toggle("1"))
	assert.Equal(t, []string{"Rust", "Zig"}, in.Value())

	err = in.ChangeRaw("4")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"Rust", "Zig"}, in.Value(), "parse failure keeps payload")

	rec, _ := access.store.Get("m")
	assert.Equal(t, []string{"Rust", "Zig"}, rec.Value)
}

func TestFreeTextBelowMinLength(t *testing.T) {
	r := Default()
	minLength := 20
	q := interview.Question{
		ID:          "t",
		Type:        interview.TypeText,
		Constraints: &interview.Constraints{MinLength: &minLength},
	}
	access := newAccess(r, q)
	in, err := r.Bind(q, access)
	require.NoError(t, err)

	require.NoError(t, in.ChangeRaw("too short"))

	err = in.Submit()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Answer must be at least 20 characters long", verr.Message)
	assert.Equal(t, verr.Message, in.Message())

	rec, ok := access.store.Get("t")
	require.True(t, ok)
	assert.Equal(t, "too short", rec.Value)
	assert.True(t, rec.IsAnswered)
	assert.False(t, rec.Submitted)
}

func TestFreeTextValidation(t *testing.T) {
	k := NewFreeText()
	maxLength := 5
	q := &interview.Question{ID: "t", Constraints: &interview.Constraints{MaxLength: &maxLength}}

	tests := []struct {
		name    string
		value   any
		wantErr string
	}{
		{name: "blank", value: "   ", wantErr: "Please provide an answer before submitting"},
		{name: "too long", value: "abcdef", wantErr: "Answer must not exceed 5 characters"},
		{name: "trimmed fits", value: "  abcde  "},
		{name: "runes counted", value: "привет"[:10]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := k.Validate(q, tt.value)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestSingleChoice(t *testing.T) {
	r := Default()
	q := interview.Question{ID: "s", Type: interview.TypeMultipleChoice, Options: []string{"Yes", "No"}}
	access := newAccess(r, q)
	in, err := r.Bind(q, access)
	require.NoError(t, err)

	assert.EqualError(t, in.Submit(), "Please select an option before submitting")

	require.NoError(t, in.ChangeRaw("no"))
	assert.Equal(t, "No", in.Value())
	require.NoError(t, in.Submit())
	assert.Equal(t, "○ 1. Yes\n● 2. No", in.Render())

	assert.Error(t, in.Change(42), "wrong payload shape")
	assert.Equal(t, "No", in.Value())
}

func TestBindUsesExistingAnswer(t *testing.T) {
	r := Default()
	q := interview.Question{ID: "d", Type: interview.TypeDropdown, Options: []string{"a", "b"}}
	access := newAccess(r, q)
	access.store.Set("d", "b")

	in, err := r.Bind(q, access)
	require.NoError(t, err)
	assert.Equal(t, "b", in.Value())
}

func TestChangeRejectedByOwner(t *testing.T) {
	r := Default()
	q := interview.Question{ID: "t", Type: interview.TypeText}
	access := newAccess(r, q)
	access.readOnly = true

	in, err := r.Bind(q, access)
	require.NoError(t, err)
	assert.True(t, errors.Is(in.ChangeRaw("hello"), ErrRejected))
}

func TestCodingLanguageSwitch(t *testing.T) {
	r := Default()
	q := interview.Question{
		ID:   "c",
		Type: interview.TypeCoding,
		Content: []content.Block{
			content.NewBlock(0, content.Paragraph{Text: "Reverse a string"}),
			content.NewBlock(1, content.Code{Code: "def reverse(s):\n    pass", Language: "python"}),
		},
	}
	access := newAccess(r, q)
	in, err := r.Bind(q, access)
	require.NoError(t, err)

	js, _ := LanguageByID("javascript")
	assert.Equal(t, js.Boilerplate, in.Value())

	require.NoError(t, in.SelectLanguage("python"))
	assert.Equal(t, "def reverse(s):\n    pass", in.Value(), "question code block wins over boilerplate")

	require.NoError(t, in.ChangeRaw("def reverse(s):\n    return s[::-1]"))
	require.NoError(t, in.SelectLanguage("go"))
	assert.Equal(t, "def reverse(s):\n    return s[::-1]", in.Value(), "edited code survives a language switch")
	assert.Equal(t, "go", in.Language().ID)

	assert.Error(t, in.SelectLanguage("cobol"))

	require.NoError(t, in.ChangeRaw("   "))
	assert.EqualError(t, in.Submit(), "Please write some code before submitting")
}

func TestCodingParseStripsFence(t *testing.T) {
	k := NewCoding()
	v, err := k.Parse(nil, "```go\nfmt.Println(1)\n```")
	require.NoError(t, err)
	assert.Equal(t, "fmt.Println(1)", v)
}

func TestMetadata(t *testing.T) {
	assert.Equal(t, "Code Challenge", TypeMetadata(interview.TypeCoding).Label)
	assert.Equal(t, "Single Select", TypeMetadata(interview.TypeDropdown).Label)
	assert.Equal(t, "ESSAY", TypeMetadata("ESSAY").Label)
	assert.Equal(t, "Hard", DifficultyMetadata(interview.DifficultyHard).Label)
}
