package interview

import (
	"time"

	"interview-runtime/internal/content"
)

// QuestionType is the type tag that selects a question kind.
type QuestionType string

const (
	TypeMultipleChoice QuestionType = "MULTIPLE_CHOICE"
	TypeCheckbox       QuestionType = "CHECKBOX"
	TypeText           QuestionType = "TEXT"
	TypeDropdown       QuestionType = "DROPDOWN"
	TypeRating         QuestionType = "RATING"
	TypeCoding         QuestionType = "CODING"
)

// Difficulty of a question or a whole session.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
	DifficultyMixed  Difficulty = "MIXED"
)

// CareerLevel requested for the session.
type CareerLevel string

const (
	CareerIntern CareerLevel = "INTERN"
	CareerJunior CareerLevel = "JUNIOR"
	CareerMid    CareerLevel = "MID"
	CareerSenior CareerLevel = "SENIOR"
	CareerLead   CareerLevel = "LEAD"
)

// Experience band requested for the session.
type Experience string

const (
	ExperienceUnderOne    Experience = "LESS_THAN_1_YEAR"
	ExperienceOneToThree  Experience = "ONE_TO_THREE_YEARS"
	ExperienceThreeToFive Experience = "THREE_TO_FIVE_YEARS"
	ExperienceFiveToTen   Experience = "FIVE_TO_TEN_YEARS"
	ExperienceOverTen     Experience = "MORE_THAN_TEN_YEARS"
)

// Status of a session definition on the server.
type Status string

const (
	StatusDraft      Status = "DRAFT"
	StatusGenerated  Status = "GENERATED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusEvaluated  Status = "EVALUATED"
)

const (
	DefaultMinLength = 0
	DefaultMaxLength = 5000
)

// Constraints limit free-text answers.
type Constraints struct {
	MinLength *int `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength *int `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	TimeLimit *int `json:"timeLimit,omitempty" yaml:"timeLimit,omitempty"`
}

// Question is one unit of an interview.
type Question struct {
	ID                string          `json:"id" yaml:"id"`
	Text              string          `json:"text" yaml:"text"`
	Content           []content.Block `json:"content" yaml:"content"`
	Type              QuestionType    `json:"type" yaml:"type"`
	Difficulty        Difficulty      `json:"difficulty" yaml:"difficulty"`
	Points            int             `json:"points" yaml:"points"`
	Order             int             `json:"order" yaml:"order"`
	Category          string          `json:"category,omitempty" yaml:"category,omitempty"`
	EstimatedDuration int             `json:"estimatedDuration,omitempty" yaml:"estimatedDuration,omitempty"`
	Options           []string        `json:"options,omitempty" yaml:"options,omitempty"`
	Constraints       *Constraints    `json:"constraints,omitempty" yaml:"constraints,omitempty"`
	Hints             []string        `json:"hints,omitempty" yaml:"hints,omitempty"`
	Tags              []string        `json:"tags,omitempty" yaml:"tags,omitempty"`
	CreatedAt         time.Time       `json:"createdAt" yaml:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt" yaml:"updatedAt"`
}

// MinLength returns the minimum answer length, defaulting to 0.
func (q *Question) MinLength() int {
	if q.Constraints != nil && q.Constraints.MinLength != nil {
		return *q.Constraints.MinLength
	}
	return DefaultMinLength
}

// MaxLength returns the maximum answer length, defaulting to 5000.
func (q *Question) MaxLength() int {
	if q.Constraints != nil && q.Constraints.MaxLength != nil {
		return *q.Constraints.MaxLength
	}
	return DefaultMaxLength
}

// TimeLimit returns the suggested time limit, zero when unset.
func (q *Question) TimeLimit() time.Duration {
	if q.Constraints != nil && q.Constraints.TimeLimit != nil {
		return time.Duration(*q.Constraints.TimeLimit) * time.Second
	}
	return 0
}

// Creator is the author reference attached to a session.
type Creator struct {
	ID        string `json:"id" yaml:"id"`
	Email     string `json:"email,omitempty" yaml:"email,omitempty"`
	Avatar    string `json:"avatar,omitempty" yaml:"avatar,omitempty"`
	FirstName string `json:"firstName,omitempty" yaml:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty" yaml:"lastName,omitempty"`
}

// Name joins the first and last name.
func (c Creator) Name() string {
	switch {
	case c.FirstName != "" && c.LastName != "":
		return c.FirstName + " " + c.LastName
	case c.FirstName != "":
		return c.FirstName
	case c.LastName != "":
		return c.LastName
	}
	return c.Email
}

// Session is an interview definition. The runtime never mutates it.
type Session struct {
	ID             string         `json:"id" yaml:"id"`
	Title          string         `json:"title" yaml:"title"`
	Description    string         `json:"description,omitempty" yaml:"description,omitempty"`
	CareerLevel    CareerLevel    `json:"careerLevel" yaml:"careerLevel"`
	Experience     Experience     `json:"experience" yaml:"experience"`
	Domain         string         `json:"domain" yaml:"domain"`
	Difficulty     Difficulty     `json:"difficulty" yaml:"difficulty"`
	QuestionTypes  []QuestionType `json:"questionTypes" yaml:"questionTypes"`
	FocusAreas     []string       `json:"focusAreas" yaml:"focusAreas"`
	IsPublic       bool           `json:"isPublic" yaml:"isPublic"`
	ShareToken     string         `json:"shareToken,omitempty" yaml:"shareToken,omitempty"`
	Status         Status         `json:"status" yaml:"status"`
	TotalQuestions int            `json:"totalQuestions" yaml:"totalQuestions"`
	TotalPoints    int            `json:"totalPoints" yaml:"totalPoints"`
	CreatorID      string         `json:"creatorId,omitempty" yaml:"creatorId,omitempty"`
	Creator        *Creator       `json:"creator,omitempty" yaml:"creator,omitempty"`
	Questions      []Question     `json:"questions" yaml:"questions"`
	CreatedAt      time.Time      `json:"createdAt" yaml:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt" yaml:"updatedAt"`
}

// Points returns the session point total, falling back to the sum of
// question points when the session does not carry one.
func (s *Session) Points() int {
	if s.TotalPoints > 0 {
		return s.TotalPoints
	}
	total := 0
	for _, q := range s.Questions {
		total += q.Points
	}
	return total
}

// Question finds a question by id.
func (s *Session) Question(id string) (Question, bool) {
	for _, q := range s.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// QuestionIDs lists question ids in definition order.
func (s *Session) QuestionIDs() []string {
	ids := make([]string, 0, len(s.Questions))
	for _, q := range s.Questions {
		ids = append(ids, q.ID)
	}
	return ids
}

// TypeCounts counts questions per type tag.
func (s *Session) TypeCounts() map[QuestionType]int {
	counts := make(map[QuestionType]int)
	for _, q := range s.Questions {
		counts[q.Type]++
	}
	return counts
}

// EstimatedDuration sums the estimated minutes of all questions.
func (s *Session) EstimatedDuration() int {
	total := 0
	for _, q := range s.Questions {
		total += q.EstimatedDuration
	}
	return total
}
