package assessment

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"
)

// DefaultTickInterval is one countdown second.
const DefaultTickInterval = time.Second

// Update is published after every countdown tick of an active session.
// Result is set on the tick that expired the session.
type Update struct {
	Remaining int
	Result    *Result
}

// Driver ticks a Controller from a single goroutine whose lifetime is the
// whole app session, not any one screen. Ticks while no session is
// active are no-ops.
type Driver struct {
	ctrl     *Controller
	interval time.Duration
	logger   *slog.Logger

	updates   chan Update
	stop      chan struct{}
	done      chan struct{}
	startOnce sync.Once
	stopOnce  sync.Once
}

// NewDriver creates a stopped driver. A non-positive interval means
// DefaultTickInterval; a nil logger discards.
func NewDriver(ctrl *Controller, interval time.Duration, logger *slog.Logger) *Driver {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Driver{
		ctrl:     ctrl,
		interval: interval,
		logger:   logger,
		updates:  make(chan Update, 1),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the ticking goroutine. Only the first call has an effect.
// The goroutine exits when ctx is cancelled or Stop is called.
func (d *Driver) Start(ctx context.Context) {
	d.startOnce.Do(func() {
		go d.run(ctx)
	})
}

// Stop cancels the driver. It is safe to call any number of times.
func (d *Driver) Stop() {
	d.stopOnce.Do(func() { close(d.stop) })
}

// Done is closed when the ticking goroutine has exited.
func (d *Driver) Done() <-chan struct{} {
	return d.done
}

// Updates delivers countdown updates. Only the latest unread update is
// kept, so a slow reader sees the current countdown rather than a backlog.
func (d *Driver) Updates() <-chan Update {
	return d.updates
}

func (d *Driver) run(ctx context.Context) {
	defer close(d.done)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-d.stop:
			return
		case <-ticker.C:
			d.step(ctx)
		}
	}
}

func (d *Driver) step(ctx context.Context) {
	if d.ctrl.Status() != StatusActive {
		if err := d.ctrl.Flush(ctx); err != nil {
			d.logger.Warn("saved session still out of date", "err", err)
		}
		return
	}

	res, err := d.ctrl.Tick(ctx)
	if errors.Is(err, ErrNotActive) {
		// Finished or abandoned between the status check and the tick.
		return
	}
	if err != nil {
		d.logger.Warn("countdown tick not persisted", "err", err)
	}

	u := Update{Result: res}
	if res == nil {
		u.Remaining = d.ctrl.Remaining()
	}
	d.publish(u)
}

func (d *Driver) publish(u Update) {
	for {
		select {
		case d.updates <- u:
			return
		default:
		}
		select {
		case <-d.updates:
		default:
		}
	}
}
