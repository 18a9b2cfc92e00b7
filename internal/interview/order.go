package interview

import "sort"

// SortQuestions returns a copy of questions in traversal order. The sort is
// stable so equal order values keep their original position.
func SortQuestions(questions []Question) []Question {
	sorted := make([]Question, len(questions))
	copy(sorted, questions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order < sorted[j].Order
	})
	return sorted
}
