package questiontype

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"interview-runtime/internal/interview"
)

const DefaultRatingScale = 5

var ratingLabels = map[int]string{
	1: "Poor",
	2: "Fair",
	3: "Good",
	4: "Very Good",
	5: "Excellent",
}

// Rating backs RATING questions: an integer in [1, scale]. Zero means no
// rating yet.
type Rating struct {
	scale int
}

func NewRating(scale int) *Rating {
	if scale <= 0 {
		scale = DefaultRatingScale
	}
	return &Rating{scale: scale}
}

func (k *Rating) Type() interview.QuestionType { return interview.TypeRating }

func (k *Rating) Scale() int { return k.scale }

func (k *Rating) Parse(q *interview.Question, raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	if n := strings.Count(raw, "★") + strings.Count(raw, "⭐"); n > 0 && strings.Trim(raw, "★⭐ ") == "" {
		raw = strconv.Itoa(n)
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 || v > k.scale {
		return nil, invalid(q, "Rating must be a number from 1 to %d", k.scale)
	}
	return v, nil
}

// Coerce accepts whole numbers from 0 (no rating) to the scale.
func (k *Rating) Coerce(_ *interview.Question, value any) (any, bool) {
	var n int64
	switch v := value.(type) {
	case nil:
		return 0, true
	case int:
		n = int64(v)
	case int32:
		n = int64(v)
	case int64:
		n = v
	case float64:
		if v != math.Trunc(v) || v < 0 || v > float64(k.scale) {
			return nil, false
		}
		n = int64(v)
	case json.Number:
		parsed, err := v.Int64()
		if err != nil {
			return nil, false
		}
		n = parsed
	default:
		return nil, false
	}
	if n < 0 || n > int64(k.scale) {
		return nil, false
	}
	return int(n), true
}

func (k *Rating) Answered(value any) bool {
	v, ok := value.(int)
	return ok && v >= 1 && v <= k.scale
}

func (k *Rating) Default(*interview.Question, Options) any { return 0 }

func (k *Rating) Validate(q *interview.Question, value any) error {
	v, _ := value.(int)
	if v <= 0 {
		return invalid(q, "Please select a rating before submitting")
	}
	if v > k.scale {
		return invalid(q, "Rating must be between 1 and %d", k.scale)
	}
	return nil
}

func (k *Rating) Render(_ *interview.Question, value any) string {
	v, _ := value.(int)
	if v < 0 {
		v = 0
	}
	if v > k.scale {
		v = k.scale
	}
	stars := strings.Repeat("★", v) + strings.Repeat("☆", k.scale-v)
	if v == 0 {
		return fmt.Sprintf("%s (reply 1-%d)", stars, k.scale)
	}
	if label, ok := ratingLabels[v]; ok {
		return fmt.Sprintf("%s %d/%d %s", stars, v, k.scale, label)
	}
	return fmt.Sprintf("%s %d/%d", stars, v, k.scale)
}
