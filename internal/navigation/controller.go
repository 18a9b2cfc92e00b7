package navigation

import "interview-runtime/internal/interview"

// Controller owns the cursor over an ordered question sequence. Every move
// that would leave [0, N-1] is a no-op.
type Controller struct {
	questions []interview.Question
	index     int
}

// New sorts a copy of questions by order and places the cursor at 0.
func New(questions []interview.Question) *Controller {
	return &Controller{questions: interview.SortQuestions(questions)}
}

func (c *Controller) Len() int   { return len(c.questions) }
func (c *Controller) Index() int { return c.index }

// Current returns the question under the cursor.
func (c *Controller) Current() (interview.Question, bool) {
	if len(c.questions) == 0 {
		return interview.Question{}, false
	}
	return c.questions[c.index], true
}

// Questions returns the ordered questions.
func (c *Controller) Questions() []interview.Question {
	out := make([]interview.Question, len(c.questions))
	copy(out, c.questions)
	return out
}

// IndexOf finds the position of a question id.
func (c *Controller) IndexOf(questionID string) (int, bool) {
	for i, q := range c.questions {
		if q.ID == questionID {
			return i, true
		}
	}
	return 0, false
}

func (c *Controller) CanGoNext() bool     { return c.index < len(c.questions)-1 }
func (c *Controller) CanGoPrevious() bool { return c.index > 0 }

// IsLast reports whether the cursor is on the final question.
func (c *Controller) IsLast() bool {
	return len(c.questions) > 0 && c.index == len(c.questions)-1
}

// Next advances the cursor and reports whether it moved.
func (c *Controller) Next() bool {
	if !c.CanGoNext() {
		return false
	}
	c.index++
	return true
}

// Previous moves the cursor back and reports whether it moved.
func (c *Controller) Previous() bool {
	if !c.CanGoPrevious() {
		return false
	}
	c.index--
	return true
}

// GoTo jumps to index k. Out of range values and the current index do not
// move the cursor.
func (c *Controller) GoTo(k int) bool {
	if k < 0 || k >= len(c.questions) || k == c.index {
		return false
	}
	c.index = k
	return true
}

// Reset moves the cursor back to the first question.
func (c *Controller) Reset() bool {
	if c.index == 0 {
		return false
	}
	c.index = 0
	return true
}
