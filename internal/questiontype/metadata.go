package questiontype

import "interview-runtime/internal/interview"

// Metadata is display information for a type tag or difficulty.
type Metadata struct {
	Label string
	Icon  string
}

var typeMetadata = map[interview.QuestionType]Metadata{
	interview.TypeMultipleChoice: {Label: "Multiple Choice", Icon: "🔘"},
	interview.TypeCheckbox:       {Label: "Multiple Select", Icon: "☑️"},
	interview.TypeText:           {Label: "Text Response", Icon: "📝"},
	interview.TypeDropdown:       {Label: "Single Select", Icon: "🔽"},
	interview.TypeRating:         {Label: "Rating Scale", Icon: "⭐"},
	interview.TypeCoding:         {Label: "Code Challenge", Icon: "💻"},
}

var difficultyMetadata = map[interview.Difficulty]Metadata{
	interview.DifficultyEasy:   {Label: "Easy", Icon: "🟢"},
	interview.DifficultyMedium: {Label: "Medium", Icon: "🟡"},
	interview.DifficultyHard:   {Label: "Hard", Icon: "🔴"},
	interview.DifficultyMixed:  {Label: "Mixed", Icon: "🎯"},
}

// TypeMetadata returns display info for t. Unknown tags use the raw tag.
func TypeMetadata(t interview.QuestionType) Metadata {
	if m, ok := typeMetadata[t]; ok {
		return m
	}
	return Metadata{Label: string(t), Icon: "❓"}
}

// DifficultyMetadata returns display info for d.
func DifficultyMetadata(d interview.Difficulty) Metadata {
	if m, ok := difficultyMetadata[d]; ok {
		return m
	}
	return Metadata{Label: string(d), Icon: "⚪"}
}
