package progress

import "math"

// Snapshot is the derived progress of a run.
type Snapshot struct {
	AnsweredCount  int     `json:"answered_count"`
	TotalQuestions int     `json:"total_questions"`
	Percentage     float64 `json:"progress_percentage"`
}

// Compute derives progress from counts. An empty session reports 0%.
func Compute(answered, total int) Snapshot {
	s := Snapshot{AnsweredCount: answered, TotalQuestions: total}
	if total > 0 {
		s.Percentage = float64(answered) / float64(total) * 100
	}
	return s
}

// Rounded returns the percentage rounded to the nearest integer.
func (s Snapshot) Rounded() int {
	return int(math.Round(s.Percentage))
}

// Complete reports whether every question is answered.
func (s Snapshot) Complete() bool {
	return s.TotalQuestions > 0 && s.AnsweredCount >= s.TotalQuestions
}

// Bar draws a fixed width text progress bar.
func (s Snapshot) Bar(width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(math.Round(s.Percentage / 100 * float64(width)))
	if filled > width {
		filled = width
	}
	bar := make([]rune, 0, width)
	for i := 0; i < width; i++ {
		if i < filled {
			bar = append(bar, '█')
		} else {
			bar = append(bar, '░')
		}
	}
	return string(bar)
}
