package kiosk

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/brie-blaster/internal/domain/panel"
)

// TestBroadcaster_SubscribeStartsWithLatest verifies a new subscriber first
// receives the current snapshot, then every published one.
func TestBroadcaster_SubscribeStartsWithLatest(t *testing.T) {
	t.Parallel()

	b := newBroadcaster(panel.Snapshot{Screen: "/antenna"})
	b.Publish(panel.Snapshot{Screen: "/login"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := b.Subscribe(ctx)
	require.NoError(t, err)

	require.Equal(t, "/login", (<-ch).Screen)

	b.Publish(panel.Snapshot{Screen: "/warn"})
	require.Equal(t, "/warn", (<-ch).Screen)
}

// TestBroadcaster_SlowSubscriberKeepsNewest verifies a full buffer drops the
// oldest snapshots instead of blocking Publish.
func TestBroadcaster_SlowSubscriberKeepsNewest(t *testing.T) {
	t.Parallel()

	b := newBroadcaster(panel.Snapshot{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := b.Subscribe(ctx)
	require.NoError(t, err)

	for i := range 3 * subscriberBuffer {
		b.Publish(panel.Snapshot{CurrentReading: float64(i)})
	}

	require.Len(t, ch, subscriberBuffer)

	var last panel.Snapshot
	for range subscriberBuffer {
		last = <-ch
	}

	require.InDelta(t, float64(3*subscriberBuffer-1), last.CurrentReading, 0)
}

// TestBroadcaster_SnapshotIsACopy verifies callers cannot alter the stored target.
func TestBroadcaster_SnapshotIsACopy(t *testing.T) {
	t.Parallel()

	target := 450.0
	b := newBroadcaster(panel.Snapshot{TargetReading: &target})

	got, err := b.Snapshot(context.Background())
	require.NoError(t, err)

	*got.TargetReading = 9000

	again, err := b.Snapshot(context.Background())
	require.NoError(t, err)
	require.InDelta(t, 450, *again.TargetReading, 0)
}

// TestBroadcaster_Close verifies Close ends every stream and refuses new work.
func TestBroadcaster_Close(t *testing.T) {
	t.Parallel()

	b := newBroadcaster(panel.Snapshot{})

	ch, err := b.Subscribe(context.Background())
	require.NoError(t, err)

	<-ch

	b.Close()
	b.Close()

	_, ok := <-ch
	require.False(t, ok)

	_, err = b.Subscribe(context.Background())
	require.ErrorIs(t, err, errBroadcasterClosed)

	_, err = b.Snapshot(context.Background())
	require.ErrorIs(t, err, errBroadcasterClosed)
}

// TestBroadcaster_CancelUnsubscribes verifies a cancelled subscriber's channel is closed.
func TestBroadcaster_CancelUnsubscribes(t *testing.T) {
	t.Parallel()

	b := newBroadcaster(panel.Snapshot{})

	ctx, cancel := context.WithCancel(context.Background())

	ch, err := b.Subscribe(ctx)
	require.NoError(t, err)

	<-ch
	cancel()

	_, ok := <-ch
	require.False(t, ok)
}
