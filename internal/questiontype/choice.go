package questiontype

import (
	"fmt"
	"strconv"
	"strings"

	"interview-runtime/internal/interview"
)

// SingleChoice backs MULTIPLE_CHOICE and DROPDOWN: one option, stored as
// its text.
type SingleChoice struct {
	typ interview.QuestionType
}

func NewSingleChoice(t interview.QuestionType) *SingleChoice {
	return &SingleChoice{typ: t}
}

func (k *SingleChoice) Type() interview.QuestionType { return k.typ }

// Parse accepts a 1-based option number or the option text.
func (k *SingleChoice) Parse(q *interview.Question, raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	option, ok := resolveOption(q.Options, raw)
	if !ok {
		return nil, invalid(q, "Unknown option %q, reply with a number from 1 to %d", raw, len(q.Options))
	}
	return option, nil
}

// Coerce accepts an empty selection or the exact text of one of q's options.
func (k *SingleChoice) Coerce(q *interview.Question, value any) (any, bool) {
	switch v := value.(type) {
	case nil:
		return "", true
	case string:
		if v == "" || containsOption(q.Options, v) {
			return v, true
		}
	}
	return nil, false
}

func (k *SingleChoice) Answered(value any) bool {
	v, ok := value.(string)
	return ok && v != ""
}

func (k *SingleChoice) Default(*interview.Question, Options) any { return "" }

func (k *SingleChoice) Validate(q *interview.Question, value any) error {
	v, _ := value.(string)
	if v == "" {
		return invalid(q, "Please select an option before submitting")
	}
	if !containsOption(q.Options, v) {
		return invalid(q, "Selected option %q is not available", v)
	}
	return nil
}

func (k *SingleChoice) Render(q *interview.Question, value any) string {
	selected, _ := value.(string)
	var sb strings.Builder
	if k.typ == interview.TypeDropdown {
		current := selected
		if current == "" {
			current = "Select an option"
		}
		fmt.Fprintf(&sb, "▾ %s\n", current)
	}
	for i, option := range q.Options {
		mark := "○"
		if option == selected {
			mark = "●"
		}
		fmt.Fprintf(&sb, "%s %d. %s\n", mark, i+1, option)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// MultiChoice backs CHECKBOX: any subset of the options in option order.
type MultiChoice struct{}

func NewMultiChoice() *MultiChoice { return &MultiChoice{} }

func (k *MultiChoice) Type() interview.QuestionType { return interview.TypeCheckbox }

// Parse accepts a comma or space separated list of option numbers or texts.
// An empty string clears the selection.
func (k *MultiChoice) Parse(q *interview.Question, raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}, nil
	}
	if option, ok := resolveOption(q.Options, raw); ok {
		return []string{option}, nil
	}

	var tokens []string
	if strings.Contains(raw, ",") {
		tokens = strings.Split(raw, ",")
	} else {
		tokens = strings.Fields(raw)
	}

	picked := make(map[string]bool)
	for _, token := range tokens {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		option, ok := resolveOption(q.Options, token)
		if !ok {
			return nil, invalid(q, "Unknown option %q, reply with numbers from 1 to %d", token, len(q.Options))
		}
		picked[option] = true
	}

	return inOptionOrder(q.Options, picked), nil
}

// Coerce accepts a list of q's options. Duplicates collapse and the result
// follows option order.
func (k *MultiChoice) Coerce(q *interview.Question, value any) (any, bool) {
	var items []string
	switch v := value.(type) {
	case nil:
		return []string{}, true
	case []string:
		items = v
	case []any:
		items = make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			items = append(items, s)
		}
	default:
		return nil, false
	}

	picked := make(map[string]bool, len(items))
	for _, item := range items {
		if !containsOption(q.Options, item) {
			return nil, false
		}
		picked[item] = true
	}
	return inOptionOrder(q.Options, picked), true
}

func (k *MultiChoice) Answered(value any) bool {
	v, ok := value.([]string)
	return ok && len(v) > 0
}

func (k *MultiChoice) Default(*interview.Question, Options) any { return []string{} }

func (k *MultiChoice) Validate(q *interview.Question, value any) error {
	v, _ := value.([]string)
	if len(v) == 0 {
		return invalid(q, "Please select at least one option before submitting")
	}
	for _, option := range v {
		if !containsOption(q.Options, option) {
			return invalid(q, "Selected option %q is not available", option)
		}
	}
	return nil
}

func (k *MultiChoice) Render(q *interview.Question, value any) string {
	selection, _ := value.([]string)
	var sb strings.Builder
	for i, option := range q.Options {
		mark := "☐"
		if containsOption(selection, option) {
			mark = "☑"
		}
		fmt.Fprintf(&sb, "%s %d. %s\n", mark, i+1, option)
	}
	fmt.Fprintf(&sb, "%d selected", len(selection))
	return sb.String()
}

// Toggle flips option in a selection, keeping option order.
func (k *MultiChoice) Toggle(q *interview.Question, value any, option string) ([]string, error) {
	if !containsOption(q.Options, option) {
		return nil, invalid(q, "Selected option %q is not available", option)
	}
	current, _ := value.([]string)
	picked := make(map[string]bool, len(current)+1)
	for _, o := range current {
		picked[o] = true
	}
	picked[option] = !picked[option]
	return inOptionOrder(q.Options, picked), nil
}

func inOptionOrder(options []string, picked map[string]bool) []string {
	out := make([]string, 0, len(picked))
	for _, option := range options {
		if picked[option] {
			out = append(out, option)
		}
	}
	return out
}

func resolveOption(options []string, token string) (string, bool) {
	if n, err := strconv.Atoi(token); err == nil {
		if n >= 1 && n <= len(options) {
			return options[n-1], true
		}
	}
	for _, option := range options {
		if strings.EqualFold(option, token) {
			return option, true
		}
	}
	return "", false
}

func containsOption(options []string, v string) bool {
	for _, option := range options {
		if option == v {
			return true
		}
	}
	return false
}
