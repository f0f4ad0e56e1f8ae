// Package tracker wires the progress services for one signed-in learner
// and exposes the events the rest of the app emits.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/abhisek/fluentz/internal/achievements"
	"github.com/abhisek/fluentz/internal/assessment"
	"github.com/abhisek/fluentz/internal/challenge"
	"github.com/abhisek/fluentz/internal/history"
	"github.com/abhisek/fluentz/internal/performance"
	"github.com/abhisek/fluentz/internal/skills"
	"github.com/abhisek/fluentz/internal/store"
	"github.com/abhisek/fluentz/internal/vocab"
)

// Options holds the dependencies for New. Zero values pick defaults.
type Options struct {
	// Docs is the user-scoped document store. Nil keeps everything in memory.
	Docs store.Documents

	Logger       *slog.Logger
	Clock        func() time.Time
	Location     *time.Location
	TickInterval time.Duration

	Groups       []skills.Group
	Achievements []achievements.Definition
	Catalog      []challenge.Goal
}

// Tracker owns every progress service for one learner.
type Tracker struct {
	Assessment  *assessment.Controller
	Performance *performance.Aggregator
	Challenges  *challenge.Engine
	History     *history.Log
	Vocabulary  *vocab.Set

	classifier *skills.Classifier
	defs       []achievements.Definition
	driver     *assessment.Driver
	logger     *slog.Logger

	mu      sync.Mutex
	started bool
	closed  bool
}

// New loads every service from opts.Docs and restores an assessment
// left running by a previous process.
func New(ctx context.Context, opts Options) (*Tracker, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}

	groups := opts.Groups
	if groups == nil {
		groups = skills.DefaultGroups()
	}
	classifier, err := skills.NewClassifier(groups)
	if err != nil {
		return nil, err
	}

	defs := opts.Achievements
	if defs == nil {
		defs = achievements.Defaults()
	}

	perf, err := performance.New(ctx, opts.Docs)
	if err != nil {
		return nil, err
	}
	hist, err := history.New(ctx, opts.Docs)
	if err != nil {
		return nil, err
	}
	words, err := vocab.New(ctx, opts.Docs)
	if err != nil {
		return nil, err
	}

	chOpts := []challenge.Option{
		challenge.WithClock(clock),
		challenge.WithLocation(loc),
		challenge.WithLogger(logger),
	}
	if opts.Catalog != nil {
		chOpts = append(chOpts, challenge.WithCatalog(opts.Catalog))
	}
	ch, err := challenge.New(ctx, opts.Docs, chOpts...)
	if err != nil {
		return nil, err
	}

	ctrlOpts := []assessment.ControllerOption{
		assessment.WithClock(clock),
		assessment.WithLogger(logger),
		assessment.WithFinalizedCheck(hist.Contains),
	}
	if opts.Docs != nil {
		ctrlOpts = append(ctrlOpts, assessment.WithStore(opts.Docs))
	}
	ctrl := assessment.NewController(ctrlOpts...)

	t := &Tracker{
		Assessment:  ctrl,
		Performance: perf,
		Challenges:  ch,
		History:     hist,
		Vocabulary:  words,
		classifier:  classifier,
		defs:        defs,
		driver:      assessment.NewDriver(ctrl, opts.TickInterval, logger),
		logger:      logger,
	}
	ctrl.OnFinish(func(ctx context.Context, res assessment.Result) {
		if err := t.OnSessionFinalized(ctx, res); err != nil {
			t.logger.Warn("session result not fully recorded", "session", res.SessionID, "err", err)
		}
	})

	restored, err := ctrl.Restore(ctx)
	if err != nil {
		logger.Warn("could not restore assessment", "err", err)
	} else if restored {
		logger.Info("resumed assessment", "remaining", ctrl.Remaining())
	}
	return t, nil
}

// Start launches the countdown driver for the lifetime of ctx or until
// Close.
func (t *Tracker) Start(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.started = true
	t.driver.Start(ctx)
}

// Updates delivers countdown updates from the driver.
func (t *Tracker) Updates() <-chan assessment.Update {
	return t.driver.Updates()
}

// Close stops the driver, waits for it to exit and retries a saved-session
// write that failed earlier. It is idempotent.
func (t *Tracker) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	started := t.started
	t.mu.Unlock()

	t.driver.Stop()
	if started {
		<-t.driver.Done()
	}
	return t.Assessment.Flush(context.Background())
}

// OnExerciseCompleted records one answered exercise outside an assessment.
func (t *Tracker) OnExerciseCompleted(ctx context.Context, category string, correct bool) error {
	if _, ok := t.classifier.GroupOf(category); !ok {
		t.logger.Debug("category outside the skill tree", "category", category)
	}
	return t.Performance.Record(ctx, category, correct)
}

// OnActionPerformed advances today's challenge when action matches it.
func (t *Tracker) OnActionPerformed(ctx context.Context, action challenge.ActionType) (bool, error) {
	return t.Challenges.Track(ctx, action)
}

// OnSessionFinalized records a finished assessment: history, per-category
// counters and the assessment action. A result already in history is
// ignored so a repeated notification cannot double count.
func (t *Tracker) OnSessionFinalized(ctx context.Context, res assessment.Result) error {
	added, err := t.History.Append(ctx, res)
	if !added {
		return err
	}

	var errs []error
	if err != nil {
		errs = append(errs, err)
	}
	if err := t.Performance.BulkRecord(ctx, res.PerformanceByCategory); err != nil {
		errs = append(errs, fmt.Errorf("record performance: %w", err))
	}
	if _, err := t.Challenges.Track(ctx, challenge.ActionAssessment); err != nil {
		errs = append(errs, fmt.Errorf("track challenge: %w", err))
	}
	return errors.Join(errs...)
}

// SkillTree classifies the current counters, one entry per skill group.
func (t *Tracker) SkillTree() []skills.Skill {
	return t.classifier.Classify(t.Performance.Counters())
}

// Challenge returns today's challenge and streak.
func (t *Tracker) Challenge() challenge.State {
	return t.Challenges.State()
}

// Achievements evaluates every badge against the current data.
func (t *Tracker) Achievements() []achievements.Status {
	return achievements.Evaluate(t.defs, t.input())
}

// UnlockedAchievements returns the badges whose rule currently holds.
func (t *Tracker) UnlockedAchievements() []achievements.Definition {
	return achievements.Unlocked(t.defs, t.input())
}

func (t *Tracker) input() achievements.Input {
	return achievements.Input{
		History:    t.History.List(),
		Vocabulary: t.Vocabulary.Words(),
		Challenge:  t.Challenges.State(),
	}
}

// ClearHistory drops the assessment history together with the counters
// derived from it. Badges that depended on them disappear.
func (t *Tracker) ClearHistory(ctx context.Context) error {
	return errors.Join(t.History.Clear(ctx), t.Performance.ResetAll(ctx))
}
