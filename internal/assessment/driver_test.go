package assessment

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testInterval = 5 * time.Millisecond

func TestDriverAutoFinalizes(t *testing.T) {
	ctx := context.Background()
	c := newTestController(t)

	var finished atomic.Int32
	c.OnFinish(func(context.Context, Result) { finished.Add(1) })

	d := NewDriver(c, testInterval, nil)
	d.Start(ctx)
	t.Cleanup(d.Stop)

	require.NoError(t, c.Start(ctx, KindListening, sampleQuestions(), 3))

	var final *Result
	require.Eventually(t, func() bool {
		select {
		case u := <-d.Updates():
			if u.Result != nil {
				final = u.Result
				return true
			}
		default:
		}
		return false
	}, 2*time.Second, time.Millisecond)

	assert.True(t, final.Expired)
	assert.Equal(t, 3, final.SecondsElapsed)
	assert.Equal(t, StatusFinished, c.Status())

	// Idle ticks keep the driver alive without finalizing again.
	time.Sleep(10 * testInterval)
	assert.Equal(t, int32(1), finished.Load())
}

func TestDriverIdleIsNoop(t *testing.T) {
	c := newTestController(t)
	d := NewDriver(c, testInterval, nil)
	d.Start(context.Background())
	defer d.Stop()

	time.Sleep(10 * testInterval)
	select {
	case u := <-d.Updates():
		t.Fatalf("unexpected update while idle: %+v", u)
	default:
	}
	assert.Equal(t, StatusIdle, c.Status())
}

func TestDriverStopIsIdempotent(t *testing.T) {
	ctx := context.Background()
	c := newTestController(t)
	d := NewDriver(c, testInterval, nil)
	d.Start(ctx)
	d.Start(ctx)

	require.NoError(t, c.Start(ctx, KindExam, sampleQuestions(), 1000))

	d.Stop()
	d.Stop()

	select {
	case <-d.Done():
	case <-time.After(time.Second):
		t.Fatal("driver did not exit after Stop")
	}

	// No more ticks once stopped.
	remaining := c.Remaining()
	time.Sleep(10 * testInterval)
	assert.Equal(t, remaining, c.Remaining())
}

func TestDriverExitsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	d := NewDriver(newTestController(t), testInterval, nil)
	d.Start(ctx)
	cancel()

	select {
	case <-d.Done():
	case <-time.After(time.Second):
		t.Fatal("driver did not exit after cancel")
	}
	d.Stop()
}

func TestDriverKeepsLatestUpdate(t *testing.T) {
	ctx := context.Background()
	c := newTestController(t)
	d := NewDriver(c, testInterval, nil)

	require.NoError(t, c.Start(ctx, KindExam, sampleQuestions(), 100))
	d.step(ctx)
	d.step(ctx)
	d.step(ctx)

	u := <-d.Updates()
	assert.Equal(t, 97, u.Remaining)
	select {
	case extra := <-d.Updates():
		t.Fatalf("expected a single buffered update, got %+v", extra)
	default:
	}
}
