package game

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBarrierReleaseWakesAllWaiters(t *testing.T) {
	b := newBarrier()

	const waiters = 5
	var wg sync.WaitGroup
	results := make(chan bool, waiters)

	for i := 0; i < waiters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			timedOut, err := b.wait(context.Background(), 5*time.Second)
			require.NoError(t, err)
			results <- timedOut
		}()
	}

	time.Sleep(20 * time.Millisecond)
	b.release()
	wg.Wait()

	for i := 0; i < waiters; i++ {
		assert.False(t, <-results, "waiter should not have timed out")
	}
}

func TestBarrierWaitAfterRelease(t *testing.T) {
	b := newBarrier()
	b.release()

	start := time.Now()
	timedOut, err := b.wait(context.Background(), 5*time.Second)
	require.NoError(t, err)
	assert.False(t, timedOut)
	assert.Less(t, time.Since(start), time.Second, "released barrier must return immediately")
}

func TestBarrierReleaseIdempotent(t *testing.T) {
	b := newBarrier()
	b.release()
	b.release() // must not panic on double close
}

func TestBarrierTimeout(t *testing.T) {
	b := newBarrier()

	start := time.Now()
	timedOut, err := b.wait(context.Background(), 50*time.Millisecond)
	require.NoError(t, err)
	assert.True(t, timedOut)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestBarrierResetRearms(t *testing.T) {
	b := newBarrier()
	b.release()
	b.reset()

	// After reset a wait must block again instead of returning instantly.
	timedOut, err := b.wait(context.Background(), 50*time.Millisecond)
	require.NoError(t, err)
	assert.True(t, timedOut, "reset barrier must not stay signaled")
}

func TestBarrierCancelledWaiterDoesNotBlockOthers(t *testing.T) {
	b := newBarrier()

	ctx, cancel := context.WithCancel(context.Background())
	cancelled := make(chan error, 1)
	go func() {
		_, err := b.wait(ctx, 5*time.Second)
		cancelled <- err
	}()

	released := make(chan bool, 1)
	go func() {
		timedOut, err := b.wait(context.Background(), 5*time.Second)
		require.NoError(t, err)
		released <- timedOut
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-cancelled:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("cancelled waiter did not return")
	}

	b.release()
	select {
	case timedOut := <-released:
		assert.False(t, timedOut)
	case <-time.After(time.Second):
		t.Fatal("surviving waiter was not released")
	}
}
