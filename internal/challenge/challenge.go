// Package challenge owns today's goal and the day-over-day streak.
//
// The streak counts consecutive calendar days with at least one completed
// goal. It is evaluated once, when a goal is first completed:
// first ever completion -> 1, the day after the last completion -> +1,
// same day -> unchanged, any longer gap -> back to 1.
package challenge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/abhisek/fluentz/internal/store"
)

// Feature is the store key prefix for the challenge document.
const Feature = "challenge"

// DateLayout is the format of calendar dates in the user's zone.
const DateLayout = "2006-01-02"

var (
	ErrInvalidTarget = errors.New("challenge target must be at least 1")
	ErrInvalidType   = errors.New("challenge type must not be empty")
)

// ActionType tags a tracked user action.
type ActionType string

const (
	ActionReading    ActionType = "reading"
	ActionListening  ActionType = "listening"
	ActionDictionary ActionType = "dictionary"
	ActionGrammar    ActionType = "grammar"
	ActionVocabulary ActionType = "vocabulary"
	ActionWriting    ActionType = "writing"
	ActionGame       ActionType = "game"
	ActionAssessment ActionType = "assessment"
)

// Challenge is one day's goal.
type Challenge struct {
	Type        ActionType `json:"type"`
	Description string     `json:"description"`
	Target      int        `json:"target"`
	Progress    int        `json:"progress"`
	Completed   bool       `json:"completed"`
	Date        string     `json:"date"`
}

// State is the read view of the engine.
type State struct {
	// Current is today's challenge, nil when none was set today.
	Current *Challenge

	// Stale is true when the stored challenge belongs to an earlier day.
	Stale bool

	// Streak is the displayed streak: 0 once a full day has been missed.
	Streak        int
	LongestStreak int

	LastCompletedDate string
}

type saved struct {
	Current           *Challenge `json:"current,omitempty"`
	Streak            int        `json:"streak"`
	LongestStreak     int        `json:"longest_streak"`
	LastCompletedDate string     `json:"last_completed_date,omitempty"`
}

// Engine is safe for concurrent use.
type Engine struct {
	mu      sync.Mutex
	docs    store.Documents
	now     func() time.Time
	loc     *time.Location
	logger  *slog.Logger
	catalog []Goal
	state   saved
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLocation sets the zone calendar days are computed in.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) { e.loc = loc }
}

// WithCatalog replaces the daily goal catalog.
func WithCatalog(goals []Goal) Option {
	return func(e *Engine) { e.catalog = goals }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// New creates an Engine, loading any persisted state. docs may be nil.
func New(ctx context.Context, docs store.Documents, opts ...Option) (*Engine, error) {
	e := &Engine{
		docs:    docs,
		now:     time.Now,
		loc:     time.Local,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		catalog: DefaultCatalog(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if docs == nil {
		return e, nil
	}

	ok, err := docs.Load(ctx, Feature, &e.state)
	if err != nil {
		return nil, fmt.Errorf("load challenge: %w", err)
	}
	if !ok {
		e.state = saved{}
	}
	return e, nil
}

// Today returns the current calendar date in the engine's zone.
func (e *Engine) Today() string {
	return e.now().In(e.loc).Format(DateLayout)
}

// SetChallenge replaces today's challenge (last write wins) and resets
// its progress.
func (e *Engine) SetChallenge(ctx context.Context, typ ActionType, description string, target int) error {
	if target < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidTarget, target)
	}
	if typ == "" {
		return ErrInvalidType
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.setLocked(ctx, typ, description, target)
}

func (e *Engine) setLocked(ctx context.Context, typ ActionType, description string, target int) error {
	e.state.Current = &Challenge{
		Type:        typ,
		Description: description,
		Target:      target,
		Date:        e.Today(),
	}
	return e.persistLocked(ctx)
}

// Track counts one action. It reports whether today's challenge advanced.
// Stale, completed and non-matching challenges are left alone.
func (e *Engine) Track(ctx context.Context, action ActionType) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	today := e.Today()
	cur := e.state.Current
	if cur == nil || cur.Date != today || cur.Completed || cur.Type != action {
		return false, nil
	}

	cur.Progress++
	if cur.Progress >= cur.Target {
		cur.Progress = cur.Target
		cur.Completed = true
		e.advanceStreakLocked(today)
	}
	return true, e.persistLocked(ctx)
}

// State returns the current view. A challenge from an earlier day is
// reported as stale and absent; it stays stored until the next
// SetChallenge.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	today := e.Today()
	st := State{
		Streak:            e.state.Streak,
		LongestStreak:     e.state.LongestStreak,
		LastCompletedDate: e.state.LastCompletedDate,
	}

	if cur := e.state.Current; cur != nil {
		if cur.Date == today {
			c := *cur
			st.Current = &c
		} else {
			st.Stale = true
		}
	}

	if last := e.state.LastCompletedDate; last != "" {
		if gap, err := daysBetween(last, today); err == nil && gap >= 2 {
			st.Streak = 0
		}
	}
	return st
}

func (e *Engine) advanceStreakLocked(today string) {
	last := e.state.LastCompletedDate
	if last == "" {
		e.state.Streak = 1
		e.state.LastCompletedDate = today
		e.bumpLongestLocked()
		return
	}

	gap, err := daysBetween(last, today)
	if err != nil {
		e.logger.Warn("unreadable last completion date, restarting streak", "date", last, "err", err)
		gap = 2
	}

	switch {
	case gap == 0:
		// Already completed a challenge today.
	case gap == 1:
		e.state.Streak++
	case gap > 1:
		e.state.Streak = 1
	default:
		// The clock moved backwards; keep the later date.
		return
	}
	e.state.LastCompletedDate = today
	e.bumpLongestLocked()
}

func (e *Engine) bumpLongestLocked() {
	if e.state.Streak > e.state.LongestStreak {
		e.state.LongestStreak = e.state.Streak
	}
}

func (e *Engine) persistLocked(ctx context.Context) error {
	if e.docs == nil {
		return nil
	}
	return e.docs.Save(ctx, Feature, e.state)
}

// daysBetween returns the number of calendar days from a to b.
func daysBetween(a, b string) (int, error) {
	ta, err := time.Parse(DateLayout, a)
	if err != nil {
		return 0, err
	}
	tb, err := time.Parse(DateLayout, b)
	if err != nil {
		return 0, err
	}
	return int(tb.Sub(ta).Hours() / 24), nil
}
