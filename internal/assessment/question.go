package assessment

import (
	"fmt"
	"slices"
)

// Kind identifies the exercise set an assessment was built from.
type Kind string

const (
	KindExam      Kind = "exam" // PDF-derived exam
	KindListening Kind = "listening"
	KindReading   Kind = "reading"
	KindOrdering  Kind = "ordering"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindExam, KindListening, KindReading, KindOrdering:
		return true
	}
	return false
}

// Option is one answer choice.
type Option struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

// Question is a single answerable item. Ordinals are 1-based and unique
// within a session.
type Question struct {
	Ordinal    int      `json:"ordinal"`
	Prompt     string   `json:"prompt"`
	Passage    string   `json:"passage,omitempty"`
	Options    []Option `json:"options"`
	CorrectKey string   `json:"correct_key"`
	Category   string   `json:"category"`
}

// HasOption reports whether key is one of the question's option keys.
func (q Question) HasOption(key string) bool {
	return slices.ContainsFunc(q.Options, func(o Option) bool { return o.Key == key })
}

// ValidateQuestions checks the structural rules a session relies on.
// All failures wrap ErrInvalidInput.
func ValidateQuestions(questions []Question) error {
	if len(questions) == 0 {
		return fmt.Errorf("%w: no questions", ErrInvalidInput)
	}

	ordinals := make(map[int]bool, len(questions))
	for i, q := range questions {
		if q.Ordinal < 1 {
			return fmt.Errorf("%w: question %d has ordinal %d", ErrInvalidInput, i, q.Ordinal)
		}
		if ordinals[q.Ordinal] {
			return fmt.Errorf("%w: duplicate ordinal %d", ErrInvalidInput, q.Ordinal)
		}
		ordinals[q.Ordinal] = true

		if q.Category == "" {
			return fmt.Errorf("%w: question %d has no category", ErrInvalidInput, q.Ordinal)
		}
		if len(q.Options) == 0 {
			return fmt.Errorf("%w: question %d has no options", ErrInvalidInput, q.Ordinal)
		}

		keys := make(map[string]bool, len(q.Options))
		for _, o := range q.Options {
			if o.Key == "" {
				return fmt.Errorf("%w: question %d has an empty option key", ErrInvalidInput, q.Ordinal)
			}
			if keys[o.Key] {
				return fmt.Errorf("%w: question %d repeats option %q", ErrInvalidInput, q.Ordinal, o.Key)
			}
			keys[o.Key] = true
		}
		if !keys[q.CorrectKey] {
			return fmt.Errorf("%w: question %d correct key %q is not an option", ErrInvalidInput, q.Ordinal, q.CorrectKey)
		}
	}
	return nil
}

func cloneQuestions(questions []Question) []Question {
	out := make([]Question, len(questions))
	for i, q := range questions {
		q.Options = slices.Clone(q.Options)
		out[i] = q
	}
	return out
}
