package interview

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interview-runtime/internal/content"
)

func TestSortQuestionsStable(t *testing.T) {
	questions := []Question{
		{ID: "c", Order: 2},
		{ID: "a", Order: 1},
		{ID: "b", Order: 1},
		{ID: "d", Order: 0},
	}

	sorted := SortQuestions(questions)

	ids := make([]string, 0, len(sorted))
	for _, q := range sorted {
		ids = append(ids, q.ID)
	}
	assert.Equal(t, []string{"d", "a", "b", "c"}, ids)
	assert.Equal(t, "c", questions[0].ID, "input must not be reordered")
}

func TestSessionPoints(t *testing.T) {
	s := &Session{Questions: []Question{{ID: "a", Points: 10}, {ID: "b", Points: 5}}}
	assert.Equal(t, 15, s.Points())

	s.TotalPoints = 40
	assert.Equal(t, 40, s.Points())
}

func TestQuestionConstraintDefaults(t *testing.T) {
	q := Question{ID: "q"}
	assert.Equal(t, 0, q.MinLength())
	assert.Equal(t, 5000, q.MaxLength())

	minLen, maxLen := 20, 200
	q.Constraints = &Constraints{MinLength: &minLen, MaxLength: &maxLen}
	assert.Equal(t, 20, q.MinLength())
	assert.Equal(t, 200, q.MaxLength())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		session *Session
		wantErr string
	}{
		{
			name:    "valid",
			session: &Session{ID: "s", Questions: []Question{{ID: "a", Type: TypeText}, {ID: "b", Type: TypeCheckbox, Options: []string{"x"}}}},
		},
		{
			name:    "missing session id",
			session: &Session{},
			wantErr: "session must have id",
		},
		{
			name:    "duplicate question id",
			session: &Session{ID: "s", Questions: []Question{{ID: "a"}, {ID: "a"}}},
			wantErr: "duplicates id",
		},
		{
			name:    "choice without options",
			session: &Session{ID: "s", Questions: []Question{{ID: "a", Type: TypeDropdown}}},
			wantErr: "must have options",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.session)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestSessionUnmarshalJSON(t *testing.T) {
	raw := `{
		"id": "sess-1",
		"title": "Go backend",
		"careerLevel": "MID",
		"experience": "THREE_TO_FIVE_YEARS",
		"difficulty": "MIXED",
		"questionTypes": ["TEXT", "RATING"],
		"totalQuestions": 2,
		"totalPoints": 20,
		"creator": {"id": "u1", "firstName": "Ada", "lastName": "L"},
		"createdAt": "2025-01-02T03:04:05Z",
		"questions": [
			{
				"id": "q1",
				"text": "Describe channels",
				"type": "TEXT",
				"order": 1,
				"points": 10,
				"category": null,
				"constraints": {"minLength": 10, "maxLength": null},
				"content": [{"type": "paragraph", "data": {"text": "Be brief."}, "order": 0}]
			},
			{"id": "q2", "text": "Rate yourself", "type": "RATING", "order": 0, "points": 10}
		]
	}`

	var s Session
	require.NoError(t, json.Unmarshal([]byte(raw), &s))

	assert.Equal(t, CareerMid, s.CareerLevel)
	assert.Equal(t, "Ada L", s.Creator.Name())
	require.Len(t, s.Questions, 2)
	assert.Equal(t, 10, s.Questions[0].MinLength())
	assert.Equal(t, 5000, s.Questions[0].MaxLength())
	assert.Equal(t, content.Paragraph{Text: "Be brief."}, s.Questions[0].Content[0].Data)
	assert.Equal(t, []string{"q1", "q2"}, s.QuestionIDs())
	assert.Equal(t, map[QuestionType]int{TypeText: 1, TypeRating: 1}, s.TypeCounts())
}
