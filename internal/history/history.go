// Package history keeps the most recent finalized assessment results.
package history

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/abhisek/fluentz/internal/assessment"
	"github.com/abhisek/fluentz/internal/store"
)

// Feature is the store key prefix for the history document.
const Feature = "history"

// MaxEntries bounds the log; the oldest result is evicted silently.
const MaxEntries = 10

// Log is a most-recent-first list of results.
type Log struct {
	mu      sync.Mutex
	docs    store.Documents
	entries []assessment.Result
}

// New creates a Log, loading any persisted results. docs may be nil.
func New(ctx context.Context, docs store.Documents) (*Log, error) {
	l := &Log{docs: docs}
	if docs == nil {
		return l, nil
	}

	var saved []assessment.Result
	ok, err := docs.Load(ctx, Feature, &saved)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	if ok {
		if len(saved) > MaxEntries {
			saved = saved[:MaxEntries]
		}
		l.entries = saved
	}
	return l, nil
}

// Append adds a result at the front. A result whose SessionID is already
// present is ignored and Append reports false.
func (l *Log) Append(ctx context.Context, r assessment.Result) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if slices.ContainsFunc(l.entries, func(e assessment.Result) bool { return e.SessionID == r.SessionID }) {
		return false, nil
	}

	l.entries = slices.Insert(l.entries, 0, r)
	if len(l.entries) > MaxEntries {
		l.entries = l.entries[:MaxEntries]
	}
	return true, l.persistLocked(ctx)
}

// Contains reports whether a result with sessionID is stored.
func (l *Log) Contains(sessionID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.ContainsFunc(l.entries, func(e assessment.Result) bool { return e.SessionID == sessionID })
}

// List returns the results, most recent first.
func (l *Log) List() []assessment.Result {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.entries)
}

// Len returns the number of stored results.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Clear drops every result.
func (l *Log) Clear(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = nil
	if l.docs == nil {
		return nil
	}
	return l.docs.Remove(ctx, Feature)
}

func (l *Log) persistLocked(ctx context.Context) error {
	if l.docs == nil {
		return nil
	}
	return l.docs.Save(ctx, Feature, l.entries)
}
