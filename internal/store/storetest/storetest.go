// Package storetest provides KV doubles for tests.
package storetest

import (
	"context"
	"errors"
	"sync"

	"github.com/abhisek/fluentz/internal/store"
)

// ErrUnavailable is returned by a Flaky KV while it is failing.
var ErrUnavailable = errors.New("storage unavailable")

// Flaky wraps a store.Memory and fails writes while Failing is set.
type Flaky struct {
	*store.Memory

	mu      sync.Mutex
	failing bool
	writes  int
}

// NewFlaky creates a Flaky KV that starts healthy.
func NewFlaky() *Flaky {
	return &Flaky{Memory: store.NewMemory()}
}

// SetFailing toggles write failures.
func (f *Flaky) SetFailing(failing bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failing = failing
}

// Writes returns the number of successful Set and Remove calls.
func (f *Flaky) Writes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writes
}

func (f *Flaky) Set(ctx context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return ErrUnavailable
	}
	f.writes++
	return f.Memory.Set(ctx, key, value)
}

func (f *Flaky) Remove(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return ErrUnavailable
	}
	f.writes++
	return f.Memory.Remove(ctx, key)
}
