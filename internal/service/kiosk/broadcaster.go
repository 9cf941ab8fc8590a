package kiosk

import (
	"context"
	"errors"
	"sync"

	"github.com/oshokin/brie-blaster/internal/domain/panel"
	"github.com/oshokin/brie-blaster/internal/logger"
)

// subscriberBuffer is the number of snapshots a slow monitor may lag behind.
const subscriberBuffer = 16

// errBroadcasterClosed is returned once the kiosk stopped publishing.
var errBroadcasterClosed = errors.New("snapshot broadcaster is closed")

// broadcaster keeps the latest snapshot and fans every new one out to the
// monitor subscribers. It is safe for concurrent use.
type broadcaster struct {
	// latest is the last published snapshot.
	latest panel.Snapshot
	// subscribers receive every published snapshot.
	subscribers map[chan panel.Snapshot]struct{}
	// closed is set by Close.
	closed bool
	// mu protects every field above.
	mu sync.RWMutex
}

// newBroadcaster creates a broadcaster starting from initial.
func newBroadcaster(initial panel.Snapshot) *broadcaster {
	return &broadcaster{
		latest:      initial,
		subscribers: make(map[chan panel.Snapshot]struct{}),
	}
}

// Publish stores s and hands it to every subscriber. A subscriber whose
// buffer is full loses its oldest pending snapshot.
func (b *broadcaster) Publish(s panel.Snapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	b.latest = *s.Clone()

	for ch := range b.subscribers {
		deliver(ch, *s.Clone())
	}
}

// Snapshot returns the latest snapshot.
func (b *broadcaster) Snapshot(context.Context) (panel.Snapshot, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return panel.Snapshot{}, errBroadcasterClosed
	}

	return *b.latest.Clone(), nil
}

// Subscribe returns a channel that starts with the latest snapshot.
// The channel is closed when ctx is done or the broadcaster is closed.
func (b *broadcaster) Subscribe(ctx context.Context) (<-chan panel.Snapshot, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, errBroadcasterClosed
	}

	ch := make(chan panel.Snapshot, subscriberBuffer)
	ch <- *b.latest.Clone()
	b.subscribers[ch] = struct{}{}

	logger.DebugKV(ctx, "Snapshot subscriber added", "subscribers", len(b.subscribers))

	go func() {
		<-ctx.Done()
		b.unsubscribe(ch)
	}()

	return ch, nil
}

// Close closes every subscriber channel; later calls are no-ops.
func (b *broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	b.closed = true

	for ch := range b.subscribers {
		close(ch)
		delete(b.subscribers, ch)
	}
}

// unsubscribe removes and closes ch unless Close already did.
func (b *broadcaster) unsubscribe(ch chan panel.Snapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subscribers[ch]; !ok {
		return
	}

	delete(b.subscribers, ch)
	close(ch)
}

// deliver sends s without blocking, dropping the oldest pending snapshot if needed.
func deliver(ch chan panel.Snapshot, s panel.Snapshot) {
	for {
		select {
		case ch <- s:
			return
		default:
		}

		select {
		case <-ch:
		default:
		}
	}
}
