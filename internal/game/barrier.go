package game

import (
	"context"
	"sync"
	"time"
)

// barrier is the per-question synchronization point: every connected client
// waits on it until all players have answered or the timeout elapses. Release
// wakes all current waiters at once and is idempotent; reset re-arms the
// barrier for the next question.
type barrier struct {
	mu       sync.Mutex
	ch       chan struct{}
	released bool
}

func newBarrier() *barrier {
	return &barrier{ch: make(chan struct{})}
}

func (b *barrier) release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.released {
		b.released = true
		close(b.ch)
	}
}

// reset re-arms the barrier. Must only be called on a question boundary,
// otherwise waiters of the finished question could hang on the new channel.
func (b *barrier) reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ch = make(chan struct{})
	b.released = false
}

// wait blocks until the barrier is released, the timeout elapses or ctx is
// cancelled. Waiting carries no side effects: a cancelled waiter neither
// blocks other waiters nor changes barrier state.
func (b *barrier) wait(ctx context.Context, timeout time.Duration) (timedOut bool, err error) {
	b.mu.Lock()
	ch := b.ch
	released := b.released
	b.mu.Unlock()

	if released {
		return false, nil
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-ch:
		return false, nil
	case <-timer.C:
		return true, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}
