// Package vocab keeps the learner's saved words.
package vocab

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/abhisek/fluentz/internal/store"
)

// Feature is the store key prefix for the vocabulary document.
const Feature = "vocabulary"

// ErrEmptyWord is returned when a word is blank after normalization.
var ErrEmptyWord = errors.New("empty word")

// Set is a persisted set of normalized words.
type Set struct {
	mu    sync.Mutex
	docs  store.Documents
	words map[string]bool
}

// New creates a Set, loading any persisted words. docs may be nil.
func New(ctx context.Context, docs store.Documents) (*Set, error) {
	s := &Set{docs: docs, words: make(map[string]bool)}
	if docs == nil {
		return s, nil
	}

	var saved []string
	ok, err := docs.Load(ctx, Feature, &saved)
	if err != nil {
		return nil, fmt.Errorf("load vocabulary: %w", err)
	}
	if ok {
		for _, w := range saved {
			if n := Normalize(w); n != "" {
				s.words[n] = true
			}
		}
	}
	return s, nil
}

// Normalize trims and lower-cases a word.
func Normalize(word string) string {
	return strings.ToLower(strings.Join(strings.Fields(word), " "))
}

// Add saves a word and reports whether it was new.
func (s *Set) Add(ctx context.Context, word string) (bool, error) {
	n := Normalize(word)
	if n == "" {
		return false, ErrEmptyWord
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.words[n] {
		return false, nil
	}
	s.words[n] = true
	return true, s.persistLocked(ctx)
}

// Remove deletes a word and reports whether it was present.
func (s *Set) Remove(ctx context.Context, word string) (bool, error) {
	n := Normalize(word)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.words[n] {
		return false, nil
	}
	delete(s.words, n)
	return true, s.persistLocked(ctx)
}

// Contains reports whether word is saved.
func (s *Set) Contains(word string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.words[Normalize(word)]
}

// Words returns the saved words in sorted order.
func (s *Set) Words() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedLocked()
}

// Len returns the number of saved words.
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.words)
}

func (s *Set) sortedLocked() []string {
	out := make([]string, 0, len(s.words))
	for w := range s.words {
		out = append(out, w)
	}
	sort.Strings(out)
	return slices.Clip(out)
}

func (s *Set) persistLocked(ctx context.Context) error {
	if s.docs == nil {
		return nil
	}
	return s.docs.Save(ctx, Feature, s.sortedLocked())
}
