// Package performance keeps per-category correctness counters. Every
// exercise in the app feeds it; the skill tree is derived from it.
package performance

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"

	"github.com/abhisek/fluentz/internal/store"
)

// Feature is the store key prefix for the counters document.
const Feature = "performance"

// ErrInvalidTally is returned by BulkRecord for negative counts or
// Correct > Total.
var ErrInvalidTally = errors.New("invalid tally")

// Tally is a {correct, total} pair for one category.
type Tally struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// Add returns the sum of two tallies.
func (t Tally) Add(o Tally) Tally {
	return Tally{Correct: t.Correct + o.Correct, Total: t.Total + o.Total}
}

// Accuracy returns Correct/Total, or 0 when nothing was attempted.
func (t Tally) Accuracy() float64 {
	if t.Total == 0 {
		return 0
	}
	return float64(t.Correct) / float64(t.Total)
}

func (t Tally) valid() bool {
	return t.Correct >= 0 && t.Total >= 0 && t.Correct <= t.Total
}

// Aggregator owns the category counters for one user.
type Aggregator struct {
	mu       sync.Mutex
	docs     store.Documents
	counters map[string]Tally
}

// New creates an Aggregator, loading any persisted counters.
// docs may be nil for a purely in-memory aggregator.
func New(ctx context.Context, docs store.Documents) (*Aggregator, error) {
	a := &Aggregator{
		docs:     docs,
		counters: make(map[string]Tally),
	}
	if docs == nil {
		return a, nil
	}

	var saved map[string]Tally
	ok, err := docs.Load(ctx, Feature, &saved)
	if err != nil {
		return nil, fmt.Errorf("load performance: %w", err)
	}
	if ok {
		for cat, t := range saved {
			if t.valid() {
				a.counters[cat] = t
			}
		}
	}
	return a, nil
}

// Record counts one answered exercise. It never fails except for a
// best-effort persistence error (the counter is updated regardless).
func (a *Aggregator) Record(ctx context.Context, category string, correct bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	t := a.counters[category]
	t.Total++
	if correct {
		t.Correct++
	}
	a.counters[category] = t
	return a.persistLocked(ctx)
}

// BulkRecord adds a finalized session's per-category deltas. It is
// equivalent to calling Record once per underlying answer.
func (a *Aggregator) BulkRecord(ctx context.Context, deltas map[string]Tally) error {
	for cat, d := range deltas {
		if !d.valid() {
			return fmt.Errorf("%w: %s %d/%d", ErrInvalidTally, cat, d.Correct, d.Total)
		}
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	for cat, d := range deltas {
		if d.Total == 0 {
			continue
		}
		a.counters[cat] = a.counters[cat].Add(d)
	}
	return a.persistLocked(ctx)
}

// ResetAll zeroes every counter. It is the only operation that lowers them.
func (a *Aggregator) ResetAll(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.counters = make(map[string]Tally)
	if a.docs == nil {
		return nil
	}
	return a.docs.Remove(ctx, Feature)
}

// Counters returns a copy of all counters.
func (a *Aggregator) Counters() map[string]Tally {
	a.mu.Lock()
	defer a.mu.Unlock()
	return maps.Clone(a.counters)
}

// Get returns the counter for one category ({0,0} if never exercised).
func (a *Aggregator) Get(category string) Tally {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.counters[category]
}

func (a *Aggregator) persistLocked(ctx context.Context) error {
	if a.docs == nil {
		return nil
	}
	return a.docs.Save(ctx, Feature, a.counters)
}
