// Package assessment runs timed assessment sessions: one question set,
// per-question answers and a countdown, ending in a single Result.
//
// Lifecycle: Idle -> Start -> Active -> (countdown reaches 0 | Finish) ->
// Finished -> (Acknowledge | Start) -> Idle. Abandon returns an Active
// session to Idle without a result.
package assessment

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/fluentz/internal/store"
)

// Feature is the store key prefix for the in-progress session.
const Feature = "assessment"

// Status is the controller's lifecycle state.
type Status int

const (
	StatusIdle Status = iota
	StatusActive
	StatusFinished
)

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusFinished:
		return "finished"
	default:
		return "idle"
	}
}

// FinishFunc is called once per finalized session, after the controller
// has released its lock.
type FinishFunc func(ctx context.Context, result Result)

// View is a read-only snapshot of the controller.
type View struct {
	Status           Status
	Kind             Kind
	Questions        []Question
	Answers          map[int]string
	SecondsRemaining int
	DurationSeconds  int
}

// Controller owns at most one active session. It is safe for concurrent
// use; the background Driver ticks it from its own goroutine.
type Controller struct {
	mu        sync.Mutex
	docs      store.Documents
	logger    *slog.Logger
	now       func() time.Time
	newID     func() string
	finalized func(sessionID string) bool
	listeners []FinishFunc

	// dirty is set while the saved session lags behind memory after a
	// failed write.
	dirty bool

	status    Status
	sessionID string
	kind      Kind
	questions []Question
	byOrdinal map[int]int
	answers   map[int]string
	duration  int
	remaining int
	startedAt time.Time
	last      *Result
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithStore enables write-through of the in-progress session.
func WithStore(docs store.Documents) ControllerOption {
	return func(c *Controller) { c.docs = docs }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) ControllerOption {
	return func(c *Controller) { c.now = now }
}

// WithIDGenerator overrides session ID generation.
func WithIDGenerator(newID func() string) ControllerOption {
	return func(c *Controller) { c.newID = newID }
}

// WithFinalizedCheck makes Restore discard a saved session whose ID is
// already recorded as finished.
func WithFinalizedCheck(finalized func(sessionID string) bool) ControllerOption {
	return func(c *Controller) { c.finalized = finalized }
}

// WithLogger sets the logger used for best-effort persistence warnings.
func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) { c.logger = logger }
}

// NewController creates an idle controller.
func NewController(opts ...ControllerOption) *Controller {
	c := &Controller{
		now:    time.Now,
		newID:  newSessionID,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.resetLocked()
	return c
}

// newSessionID returns a time-ordered UUIDv7.
func newSessionID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// OnFinish registers a finalization listener.
func (c *Controller) OnFinish(fn FinishFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Status returns the current lifecycle state.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Remaining returns the seconds left on the active countdown.
func (c *Controller) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// View returns a copy of the controller's state.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return View{
		Status:           c.status,
		Kind:             c.kind,
		Questions:        cloneQuestions(c.questions),
		Answers:          maps.Clone(c.answers),
		SecondsRemaining: c.remaining,
		DurationSeconds:  c.duration,
	}
}

// Start begins a session. It is allowed from Idle and Finished; starting
// from Finished drops the unacknowledged result.
func (c *Controller) Start(ctx context.Context, kind Kind, questions []Question, durationSeconds int) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidInput, kind)
	}
	if durationSeconds <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %d", ErrInvalidInput, durationSeconds)
	}
	if err := ValidateQuestions(questions); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status == StatusActive {
		return ErrSessionAlreadyActive
	}

	c.resetLocked()
	c.last = nil
	c.status = StatusActive
	c.sessionID = c.newID()
	c.kind = kind
	c.questions = cloneQuestions(questions)
	for i, q := range c.questions {
		c.byOrdinal[q.Ordinal] = i
	}
	c.duration = durationSeconds
	c.remaining = durationSeconds
	c.startedAt = c.now()
	return c.persistLocked(ctx)
}

// RecordAnswer upserts the selected key for a question. Correctness is
// not revealed until finalization.
func (c *Controller) RecordAnswer(ctx context.Context, ordinal int, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status != StatusActive {
		return ErrNotActive
	}
	i, ok := c.byOrdinal[ordinal]
	if !ok {
		return fmt.Errorf("%w: ordinal %d", ErrUnknownQuestion, ordinal)
	}
	if !c.questions[i].HasOption(key) {
		return fmt.Errorf("%w: %q for question %d", ErrInvalidOption, key, ordinal)
	}

	c.answers[ordinal] = key
	return c.persistLocked(ctx)
}

// Tick advances the countdown by one second. When it reaches zero the
// session is finalized and the result returned; later ticks get
// ErrNotActive.
func (c *Controller) Tick(ctx context.Context) (*Result, error) {
	c.mu.Lock()
	if c.status != StatusActive {
		c.mu.Unlock()
		return nil, ErrNotActive
	}

	if c.remaining > 0 {
		c.remaining--
	}
	if c.remaining > 0 {
		err := c.persistLocked(ctx)
		c.mu.Unlock()
		return nil, err
	}

	res, err := c.finalizeLocked(ctx, true)
	listeners := c.listeners
	c.mu.Unlock()

	notify(ctx, listeners, res)
	return &res, err
}

// Finish finalizes the active session. Calling it again has no effect
// beyond returning ErrNotActive.
func (c *Controller) Finish(ctx context.Context) (*Result, error) {
	c.mu.Lock()
	if c.status != StatusActive {
		c.mu.Unlock()
		return nil, ErrNotActive
	}

	res, err := c.finalizeLocked(ctx, false)
	listeners := c.listeners
	c.mu.Unlock()

	notify(ctx, listeners, res)
	return &res, err
}

// Abandon discards the active session without a result. It never fails;
// it reports whether there was a session to discard.
func (c *Controller) Abandon(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status != StatusActive {
		return false
	}
	c.resetLocked()
	c.status = StatusIdle
	c.clearPersistedLocked(ctx)
	return true
}

// Acknowledge moves a Finished controller back to Idle and hands over the
// last result. It returns nil when there is nothing to acknowledge.
func (c *Controller) Acknowledge() *Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status != StatusFinished {
		return nil
	}
	res := c.last
	c.last = nil
	c.status = StatusIdle
	return res
}

// Flush retries a saved-session write that failed earlier: the active
// session is saved again, a finished or abandoned one is removed. It is a
// no-op when the store is in sync.
func (c *Controller) Flush(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.dirty {
		return nil
	}
	if c.status == StatusActive {
		return c.persistLocked(ctx)
	}
	return c.clearPersistedLocked(ctx)
}

// LastResult returns the unacknowledged result, if any.
func (c *Controller) LastResult() *Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// finalizeLocked scores the session, clears it and records the result.
func (c *Controller) finalizeLocked(ctx context.Context, expired bool) (Result, error) {
	correct, byCategory := score(c.questions, c.answers)
	id := c.sessionID
	if id == "" {
		id = c.newID()
	}
	res := Result{
		SessionID:             id,
		Kind:                  c.kind,
		CompletedAt:           c.now(),
		Questions:             c.questions,
		Answers:               maps.Clone(c.answers),
		SecondsElapsed:        c.duration - c.remaining,
		Score:                 correct,
		TotalQuestions:        len(c.questions),
		PerformanceByCategory: byCategory,
		Expired:               expired,
	}

	c.resetLocked()
	c.status = StatusFinished
	c.last = &res
	return res, c.clearPersistedLocked(ctx)
}

func (c *Controller) resetLocked() {
	c.sessionID = ""
	c.kind = ""
	c.questions = nil
	c.byOrdinal = make(map[int]int)
	c.answers = make(map[int]string)
	c.duration = 0
	c.remaining = 0
	c.startedAt = time.Time{}
}

func notify(ctx context.Context, listeners []FinishFunc, res Result) {
	for _, fn := range listeners {
		fn(ctx, res)
	}
}
