package timer

import (
	"context"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/brie-blaster/internal/eventloop"
)

// withLoop runs fn inside a synctest bubble with a running event loop.
// The do helper executes a closure on the loop and waits for it.
func withLoop(t *testing.T, fn func(t *testing.T, loop *eventloop.Loop, do func(func()))) {
	t.Helper()

	synctest.Test(t, func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		loop := eventloop.New(0)
		exited := make(chan struct{})

		go func() {
			defer close(exited)

			_ = loop.Run(ctx)
		}()

		do := func(task func()) {
			require.NoError(t, loop.Do(ctx, task))
		}

		fn(t, loop, do)

		cancel()
		<-exited
	})
}

// recorder collects ramp callbacks; it is only touched on the loop.
type recorder struct {
	ticks     []float64
	completed []float64
	exceeded  []float64
}

// callbacks returns RampCallbacks appending to the recorder.
func (r *recorder) callbacks() RampCallbacks {
	return RampCallbacks{
		OnTick:            func(v float64) { r.ticks = append(r.ticks, v) },
		OnComplete:        func(v float64) { r.completed = append(r.completed, v) },
		OnCeilingExceeded: func(v float64) { r.exceeded = append(r.exceeded, v) },
	}
}

// TestRamp_ReachesTargetWithoutOvershoot clamps the final tick exactly at the target.
func TestRamp_ReachesTargetWithoutOvershoot(t *testing.T) {
	t.Parallel()

	withLoop(t, func(t *testing.T, loop *eventloop.Loop, do func(func())) {
		var (
			ramp = NewRamp(loop.Post)
			rec  recorder
		)

		do(func() {
			require.NoError(t, ramp.Start(RampSpec{
				From:     310,
				To:       335,
				Step:     10,
				Interval: 100 * time.Millisecond,
				Ceiling:  1200,
			}, rec.callbacks()))
		})

		time.Sleep(250 * time.Millisecond)
		synctest.Wait()

		do(func() {
			require.Equal(t, []float64{320, 330}, rec.ticks)
			require.Empty(t, rec.completed)
			require.True(t, ramp.Active())
		})

		time.Sleep(time.Second)
		synctest.Wait()

		do(func() {
			require.Equal(t, []float64{320, 330, 335}, rec.ticks)
			require.Equal(t, []float64{335}, rec.completed)
			require.Empty(t, rec.exceeded)
			require.False(t, ramp.Active())
			require.InDelta(t, 335, ramp.Value(), 0)
		})
	})
}

// TestRamp_CeilingStopsRun fires the ceiling callback once and never completes.
func TestRamp_CeilingStopsRun(t *testing.T) {
	t.Parallel()

	withLoop(t, func(t *testing.T, loop *eventloop.Loop, do func(func())) {
		var (
			ramp = NewRamp(loop.Post)
			rec  recorder
		)

		do(func() {
			require.NoError(t, ramp.Start(RampSpec{
				From:     310,
				To:       5000,
				Step:     100,
				Interval: 100 * time.Millisecond,
				Ceiling:  1200,
			}, rec.callbacks()))
		})

		time.Sleep(time.Minute)
		synctest.Wait()

		do(func() {
			require.Equal(t, []float64{1210}, rec.exceeded)
			require.Empty(t, rec.completed)
			require.Len(t, rec.ticks, 8)
			require.InDelta(t, 1110, rec.ticks[len(rec.ticks)-1], 1e-9)
			require.False(t, ramp.Active())
		})
	})
}

// TestRamp_TargetAtCeilingOverheats treats meeting the ceiling as a breach.
func TestRamp_TargetAtCeilingOverheats(t *testing.T) {
	t.Parallel()

	withLoop(t, func(t *testing.T, loop *eventloop.Loop, do func(func())) {
		var (
			ramp = NewRamp(loop.Post)
			rec  recorder
		)

		do(func() {
			require.NoError(t, ramp.Start(RampSpec{
				From: 1100, To: 1200, Step: 50, Interval: time.Second, Ceiling: 1200,
			}, rec.callbacks()))
		})

		time.Sleep(time.Minute)
		synctest.Wait()

		do(func() {
			require.Equal(t, []float64{1150}, rec.ticks)
			require.Equal(t, []float64{1200}, rec.exceeded)
			require.Empty(t, rec.completed)
		})
	})
}

// TestRamp_TargetBelowStartCompletesInPlace keeps the reading monotonic.
func TestRamp_TargetBelowStartCompletesInPlace(t *testing.T) {
	t.Parallel()

	withLoop(t, func(t *testing.T, loop *eventloop.Loop, do func(func())) {
		var (
			ramp = NewRamp(loop.Post)
			rec  recorder
		)

		do(func() {
			require.NoError(t, ramp.Start(RampSpec{
				From: 310, To: 200, Step: 10, Interval: time.Second, Ceiling: 1200,
			}, rec.callbacks()))
		})

		time.Sleep(time.Minute)
		synctest.Wait()

		do(func() {
			require.Equal(t, []float64{310}, rec.ticks)
			require.Equal(t, []float64{310}, rec.completed)
		})
	})
}

// TestRamp_CancelSuppressesCallbacks verifies nothing fires after Cancel, and Cancel is idempotent.
func TestRamp_CancelSuppressesCallbacks(t *testing.T) {
	t.Parallel()

	withLoop(t, func(t *testing.T, loop *eventloop.Loop, do func(func())) {
		var (
			ramp = NewRamp(loop.Post)
			rec  recorder
		)

		do(func() {
			require.NoError(t, ramp.Start(RampSpec{
				From: 0, To: 100, Step: 10, Interval: 100 * time.Millisecond, Ceiling: 1000,
			}, rec.callbacks()))
		})

		time.Sleep(350 * time.Millisecond)
		synctest.Wait()

		do(func() {
			ramp.Cancel()
			ramp.Cancel()
			require.False(t, ramp.Active())
		})

		time.Sleep(time.Minute)
		synctest.Wait()

		do(func() {
			require.Equal(t, []float64{10, 20, 30}, rec.ticks)
			require.Empty(t, rec.completed)
			require.Empty(t, rec.exceeded)
			require.InDelta(t, 30, ramp.Value(), 0)
		})
	})
}

// TestRamp_StaleTickIsInert simulates a tick that was already queued when the ramp was cancelled.
func TestRamp_StaleTickIsInert(t *testing.T) {
	t.Parallel()

	withLoop(t, func(t *testing.T, loop *eventloop.Loop, do func(func())) {
		var (
			ramp = NewRamp(loop.Post)
			rec  recorder
		)

		do(func() {
			require.NoError(t, ramp.Start(RampSpec{
				From: 0, To: 10, Step: 10, Interval: time.Second, Ceiling: 1000,
			}, rec.callbacks()))

			stale := ramp.generation
			ramp.Cancel()
			ramp.tick(stale)
		})

		do(func() {
			require.Empty(t, rec.ticks)
			require.Empty(t, rec.completed)
		})
	})
}

// TestRamp_RestartCancelsPreviousRun ensures only the latest run reports progress.
func TestRamp_RestartCancelsPreviousRun(t *testing.T) {
	t.Parallel()

	withLoop(t, func(t *testing.T, loop *eventloop.Loop, do func(func())) {
		var (
			ramp        = NewRamp(loop.Post)
			first, last recorder
		)

		do(func() {
			require.NoError(t, ramp.Start(RampSpec{
				From: 0, To: 50, Step: 10, Interval: 100 * time.Millisecond, Ceiling: 1000,
			}, first.callbacks()))
		})

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		do(func() {
			require.NoError(t, ramp.Start(RampSpec{
				From: 100, To: 120, Step: 10, Interval: 100 * time.Millisecond, Ceiling: 1000,
			}, last.callbacks()))
		})

		time.Sleep(time.Minute)
		synctest.Wait()

		do(func() {
			require.Equal(t, []float64{10}, first.ticks)
			require.Empty(t, first.completed)
			require.Equal(t, []float64{110, 120}, last.ticks)
			require.Equal(t, []float64{120}, last.completed)
		})
	})
}

// TestRampSpec_Validate rejects specs that cannot make progress.
func TestRampSpec_Validate(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, RampSpec{Step: 0, Interval: time.Second}.Validate(), ErrInvalidStep)
	require.ErrorIs(t, RampSpec{Step: -1, Interval: time.Second}.Validate(), ErrInvalidStep)
	require.ErrorIs(t, RampSpec{Step: 1}.Validate(), ErrInvalidInterval)
	require.NoError(t, RampSpec{Step: 1, Interval: time.Millisecond}.Validate())
}

// TestDelay_FiresOnceAndCancels covers the fixed-duration timer.
func TestDelay_FiresOnceAndCancels(t *testing.T) {
	t.Parallel()

	withLoop(t, func(t *testing.T, loop *eventloop.Loop, do func(func())) {
		var (
			delay = NewDelay(loop.Post)
			fired []string
		)

		do(func() {
			delay.Start(time.Second, func() { fired = append(fired, "first") })
			require.True(t, delay.Active())
		})

		time.Sleep(500 * time.Millisecond)
		synctest.Wait()

		do(func() {
			// Restarting replaces the pending run.
			delay.Start(time.Second, func() { fired = append(fired, "second") })
		})

		time.Sleep(2 * time.Second)
		synctest.Wait()

		do(func() {
			require.Equal(t, []string{"second"}, fired)
			require.False(t, delay.Active())

			delay.Start(time.Second, func() { fired = append(fired, "third") })
			delay.Cancel()
			delay.Cancel()
		})

		time.Sleep(2 * time.Second)
		synctest.Wait()

		do(func() {
			require.Equal(t, []string{"second"}, fired)
		})
	})
}
