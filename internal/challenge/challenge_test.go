package challenge

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/fluentz/internal/store"
	"github.com/abhisek/fluentz/internal/store/storetest"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }
func (c *fakeClock) AddDays(n int)  { c.t = c.t.AddDate(0, 0, n) }
func newClock(date string) *fakeClock {
	t, err := time.ParseInLocation(DateLayout, date, time.UTC)
	if err != nil {
		panic(err)
	}
	return &fakeClock{t: t.Add(9 * time.Hour)}
}

func newEngine(t *testing.T, docs store.Documents, clock *fakeClock) *Engine {
	t.Helper()
	e, err := New(context.Background(), docs, WithClock(clock.Now), WithLocation(time.UTC))
	require.NoError(t, err)
	return e
}

func completeReading(t *testing.T, e *Engine) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, e.SetChallenge(ctx, ActionReading, "read", 1))
	advanced, err := e.Track(ctx, ActionReading)
	require.NoError(t, err)
	require.True(t, advanced)
}

func TestSetChallengeAndTrackToCompletion(t *testing.T) {
	ctx := context.Background()
	clock := newClock("2026-03-02")
	e := newEngine(t, nil, clock)

	require.NoError(t, e.SetChallenge(ctx, ActionReading, "Read one passage", 1))

	advanced, err := e.Track(ctx, ActionReading)
	require.NoError(t, err)
	assert.True(t, advanced)

	st := e.State()
	require.NotNil(t, st.Current)
	assert.Equal(t, 1, st.Current.Progress)
	assert.True(t, st.Current.Completed)
	assert.Equal(t, 1, st.Streak)
	assert.Equal(t, "2026-03-02", st.LastCompletedDate)

	advanced, err = e.Track(ctx, ActionReading)
	require.NoError(t, err)
	assert.False(t, advanced)
	assert.Equal(t, 1, e.State().Current.Progress)
	assert.Equal(t, 1, e.State().Streak)
}

func TestSetChallengeRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, nil, newClock("2026-03-02"))

	assert.ErrorIs(t, e.SetChallenge(ctx, ActionReading, "x", 0), ErrInvalidTarget)
	assert.ErrorIs(t, e.SetChallenge(ctx, ActionReading, "x", -3), ErrInvalidTarget)
	assert.ErrorIs(t, e.SetChallenge(ctx, "", "x", 1), ErrInvalidType)
	assert.Nil(t, e.State().Current)
}

func TestTrackIgnoresOtherActions(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, nil, newClock("2026-03-02"))
	require.NoError(t, e.SetChallenge(ctx, ActionGrammar, "drills", 3))

	advanced, err := e.Track(ctx, ActionReading)
	require.NoError(t, err)
	assert.False(t, advanced)

	for range 5 {
		_, err := e.Track(ctx, ActionGrammar)
		require.NoError(t, err)
	}
	st := e.State()
	assert.Equal(t, 3, st.Current.Progress, "progress is capped at target")
	assert.True(t, st.Current.Completed)
}

func TestTrackWithoutChallenge(t *testing.T) {
	e := newEngine(t, nil, newClock("2026-03-02"))
	advanced, err := e.Track(context.Background(), ActionReading)
	require.NoError(t, err)
	assert.False(t, advanced)
	assert.Equal(t, 0, e.State().Streak)
}

func TestSetChallengeResetsProgress(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, nil, newClock("2026-03-02"))
	require.NoError(t, e.SetChallenge(ctx, ActionWriting, "a", 3))
	_, err := e.Track(ctx, ActionWriting)
	require.NoError(t, err)

	require.NoError(t, e.SetChallenge(ctx, ActionWriting, "b", 2))
	st := e.State()
	assert.Equal(t, "b", st.Current.Description)
	assert.Equal(t, 0, st.Current.Progress)
	assert.False(t, st.Current.Completed)
}

func TestStreakAcrossDays(t *testing.T) {
	clock := newClock("2026-03-02")
	e := newEngine(t, nil, clock)

	completeReading(t, e)
	assert.Equal(t, 1, e.State().Streak)

	clock.AddDays(1)
	completeReading(t, e)
	assert.Equal(t, 2, e.State().Streak)

	clock.AddDays(2)
	assert.Equal(t, 0, e.State().Streak, "a missed day breaks the displayed streak")

	completeReading(t, e)
	st := e.State()
	assert.Equal(t, 1, st.Streak)
	assert.Equal(t, 2, st.LongestStreak)
}

func TestStreakSameDayUnchanged(t *testing.T) {
	e := newEngine(t, nil, newClock("2026-03-02"))
	completeReading(t, e)
	completeReading(t, e)
	assert.Equal(t, 1, e.State().Streak)
}

func TestStreakLongRun(t *testing.T) {
	clock := newClock("2026-02-25")
	e := newEngine(t, nil, clock)
	for i := range 7 {
		if i > 0 {
			clock.AddDays(1)
		}
		completeReading(t, e)
	}
	st := e.State()
	assert.Equal(t, 7, st.Streak, "runs across a month boundary")
	assert.Equal(t, 7, st.LongestStreak)
}

func TestStaleChallengeIsHidden(t *testing.T) {
	ctx := context.Background()
	clock := newClock("2026-03-02")
	e := newEngine(t, nil, clock)
	require.NoError(t, e.SetChallenge(ctx, ActionReading, "read", 2))

	clock.AddDays(1)
	st := e.State()
	assert.Nil(t, st.Current)
	assert.True(t, st.Stale)

	advanced, err := e.Track(ctx, ActionReading)
	require.NoError(t, err)
	assert.False(t, advanced)
}

func TestDateUsesConfiguredZone(t *testing.T) {
	kolkata := time.FixedZone("IST", 5*3600+1800)
	// 20:00 UTC on the 2nd is already the 3rd in IST.
	now := time.Date(2026, 3, 2, 20, 0, 0, 0, time.UTC)
	e, err := New(context.Background(), nil,
		WithClock(func() time.Time { return now }),
		WithLocation(kolkata))
	require.NoError(t, err)
	assert.Equal(t, "2026-03-03", e.Today())
}

func TestStatePersistsAcrossReload(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	clock := newClock("2026-03-02")

	e := newEngine(t, store.NewScope(kv, "u1", nil), clock)
	completeReading(t, e)

	reloaded := newEngine(t, store.NewScope(kv, "u1", nil), clock)
	st := reloaded.State()
	require.NotNil(t, st.Current)
	assert.True(t, st.Current.Completed)
	assert.Equal(t, 1, st.Streak)

	other := newEngine(t, store.NewScope(kv, "u2", nil), clock)
	assert.Nil(t, other.State().Current)

	_, err := reloaded.Track(ctx, ActionReading)
	require.NoError(t, err)
}

func TestPersistFailureKeepsMemoryState(t *testing.T) {
	ctx := context.Background()
	kv := storetest.NewFlaky()
	e := newEngine(t, store.NewScope(kv, "u1", nil), newClock("2026-03-02"))

	kv.SetFailing(true)
	err := e.SetChallenge(ctx, ActionReading, "read", 1)
	require.ErrorIs(t, err, store.ErrPersist)

	advanced, err := e.Track(ctx, ActionReading)
	require.ErrorIs(t, err, store.ErrPersist)
	assert.True(t, advanced)
	assert.True(t, e.State().Current.Completed)
	assert.Equal(t, 1, e.State().Streak)
}

func TestEnsureDaily(t *testing.T) {
	ctx := context.Background()
	clock := newClock("2026-03-02")
	e := newEngine(t, nil, clock)

	set, err := e.EnsureDaily(ctx)
	require.NoError(t, err)
	assert.True(t, set)
	first := e.State().Current
	require.NotNil(t, first)

	want, ok := GoalFor(DefaultCatalog(), "2026-03-02")
	require.True(t, ok)
	assert.Equal(t, want.Type, first.Type)
	assert.Equal(t, want.Target, first.Target)

	set, err = e.EnsureDaily(ctx)
	require.NoError(t, err)
	assert.False(t, set, "today already has a challenge")

	clock.AddDays(1)
	set, err = e.EnsureDaily(ctx)
	require.NoError(t, err)
	assert.True(t, set)
	assert.Equal(t, "2026-03-03", e.State().Current.Date)
}

func TestGoalForRotates(t *testing.T) {
	catalog := DefaultCatalog()
	seen := map[ActionType]bool{}
	day := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range len(catalog) {
		g, ok := GoalFor(catalog, day.AddDate(0, 0, i).Format(DateLayout))
		require.True(t, ok)
		seen[g.Type] = true
	}
	assert.Len(t, seen, len(catalog))

	_, ok := GoalFor(nil, "2026-01-01")
	assert.False(t, ok)
	_, ok = GoalFor(catalog, "not-a-date")
	assert.False(t, ok)
}

func TestGoalForBeforeEpoch(t *testing.T) {
	catalog := DefaultCatalog()

	tests := []struct {
		date string
		want int
	}{
		{"1970-01-01", 0},
		{"1969-12-31", len(catalog) - 1},
		{"1969-12-24", 0},
		{"1969-12-23", len(catalog) - 1},
	}
	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			got, ok := GoalFor(catalog, tt.date)
			require.True(t, ok)
			assert.Equal(t, catalog[tt.want], got)
		})
	}

	assert.NotPanics(t, func() { GoalFor(catalog, "1900-03-01") })
}
