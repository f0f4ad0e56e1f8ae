package performance

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/fluentz/internal/store"
	"github.com/abhisek/fluentz/internal/store/storetest"
)

func newTestAggregator(t *testing.T) *Aggregator {
	t.Helper()
	a, err := New(context.Background(), store.NewScope(store.NewMemory(), "u1", nil))
	require.NoError(t, err)
	return a
}

func TestRecord(t *testing.T) {
	ctx := context.Background()
	a := newTestAggregator(t)

	assert.Equal(t, Tally{}, a.Get("grammar"))

	require.NoError(t, a.Record(ctx, "grammar", true))
	require.NoError(t, a.Record(ctx, "grammar", false))
	require.NoError(t, a.Record(ctx, "listening", true))

	assert.Equal(t, Tally{Correct: 1, Total: 2}, a.Get("grammar"))
	assert.Equal(t, Tally{Correct: 1, Total: 1}, a.Get("listening"))
	assert.Len(t, a.Counters(), 2)
}

type answer struct {
	category string
	correct  bool
}

func TestBulkRecordEquivalentToRecord(t *testing.T) {
	ctx := context.Background()
	categories := []string{"grammar", "vocabulary", "reading", "listening"}
	rng := rand.New(rand.NewSource(7))

	for round := 0; round < 20; round++ {
		var answers []answer
		deltas := make(map[string]Tally)
		n := rng.Intn(30)
		for i := 0; i < n; i++ {
			a := answer{categories[rng.Intn(len(categories))], rng.Intn(2) == 0}
			answers = append(answers, a)
			d := deltas[a.category]
			d.Total++
			if a.correct {
				d.Correct++
			}
			deltas[a.category] = d
		}

		seed := map[string]Tally{"grammar": {Correct: 1, Total: 1}}

		bulk := newTestAggregator(t)
		single := newTestAggregator(t)
		require.NoError(t, bulk.BulkRecord(ctx, seed))
		require.NoError(t, single.BulkRecord(ctx, seed))

		require.NoError(t, bulk.BulkRecord(ctx, deltas))
		rng.Shuffle(len(answers), func(i, j int) { answers[i], answers[j] = answers[j], answers[i] })
		for _, a := range answers {
			require.NoError(t, single.Record(ctx, a.category, a.correct))
		}

		assert.Equal(t, single.Counters(), bulk.Counters(), "round %d", round)
	}
}

func TestBulkRecordRejectsInvalidDeltas(t *testing.T) {
	ctx := context.Background()
	a := newTestAggregator(t)
	require.NoError(t, a.Record(ctx, "grammar", true))

	err := a.BulkRecord(ctx, map[string]Tally{
		"reading": {Correct: 1, Total: 1},
		"grammar": {Correct: 3, Total: 2},
	})
	require.ErrorIs(t, err, ErrInvalidTally)

	// Nothing applied.
	assert.Equal(t, Tally{Correct: 1, Total: 1}, a.Get("grammar"))
	assert.Equal(t, Tally{}, a.Get("reading"))
}

func TestResetAll(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	docs := store.NewScope(kv, "u1", nil)
	a, err := New(ctx, docs)
	require.NoError(t, err)

	require.NoError(t, a.Record(ctx, "grammar", true))
	require.NoError(t, a.ResetAll(ctx))
	assert.Empty(t, a.Counters())

	reloaded, err := New(ctx, docs)
	require.NoError(t, err)
	assert.Empty(t, reloaded.Counters())
}

func TestCountersSurviveReload(t *testing.T) {
	ctx := context.Background()
	docs := store.NewScope(store.NewMemory(), "u1", nil)

	a, err := New(ctx, docs)
	require.NoError(t, err)
	require.NoError(t, a.Record(ctx, "idioms", true))
	require.NoError(t, a.BulkRecord(ctx, map[string]Tally{"idioms": {Correct: 0, Total: 2}}))

	b, err := New(ctx, docs)
	require.NoError(t, err)
	assert.Equal(t, Tally{Correct: 1, Total: 3}, b.Get("idioms"))
}

func TestPersistFailureKeepsMemoryAuthoritative(t *testing.T) {
	ctx := context.Background()
	kv := storetest.NewFlaky()
	docs := store.NewScope(kv, "u1", nil)
	a, err := New(ctx, docs)
	require.NoError(t, err)

	kv.SetFailing(true)
	err = a.Record(ctx, "grammar", true)
	require.ErrorIs(t, err, store.ErrPersist)
	assert.Equal(t, Tally{Correct: 1, Total: 1}, a.Get("grammar"))

	// The next successful write recovers durability.
	kv.SetFailing(false)
	require.NoError(t, a.Record(ctx, "grammar", false))

	b, err := New(ctx, docs)
	require.NoError(t, err)
	assert.Equal(t, Tally{Correct: 1, Total: 2}, b.Get("grammar"))
}

func TestTallyAccuracy(t *testing.T) {
	assert.Equal(t, 0.0, Tally{}.Accuracy())
	assert.Equal(t, 0.75, Tally{Correct: 3, Total: 4}.Accuracy())
}
