// Package achievements derives badges from the learner's accumulated data.
// Nothing here is stored: a badge is unlocked exactly while its predicate
// holds, so clearing history can hide badges earned from it.
package achievements

import (
	"github.com/abhisek/fluentz/internal/assessment"
	"github.com/abhisek/fluentz/internal/challenge"
)

// Input is everything a predicate may look at.
type Input struct {
	// History is most recent first.
	History    []assessment.Result
	Vocabulary []string
	Challenge  challenge.State
}

// Definition is one badge rule.
type Definition struct {
	ID          string
	Title       string
	Description string
	Icon        string

	// Unlocked must not panic on zero-valued input.
	Unlocked func(Input) bool
}

// Status pairs a definition with its current outcome.
type Status struct {
	Definition
	Unlocked bool
}

// Evaluate runs every definition against in, in table order.
func Evaluate(defs []Definition, in Input) []Status {
	out := make([]Status, 0, len(defs))
	for _, d := range defs {
		out = append(out, Status{Definition: d, Unlocked: d.Unlocked != nil && d.Unlocked(in)})
	}
	return out
}

// Unlocked returns the definitions whose predicate currently holds.
func Unlocked(defs []Definition, in Input) []Definition {
	var out []Definition
	for _, s := range Evaluate(defs, in) {
		if s.Unlocked {
			out = append(out, s.Definition)
		}
	}
	return out
}
