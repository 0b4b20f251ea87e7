package keylock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAcquireRelease(t *testing.T) {
	l := New()

	release, err := l.Acquire(context.Background(), "1/2026-04-06/7")
	assert.NoError(t, err)
	release()

	// the key must be reacquirable after release
	release, err = l.Acquire(context.Background(), "1/2026-04-06/7")
	assert.NoError(t, err)
	release()
}

func TestAcquireTimesOutWhileHeld(t *testing.T) {
	l := New()

	release, err := l.Acquire(context.Background(), "k")
	assert.NoError(t, err)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = l.Acquire(ctx, "k")
	assert.ErrorIs(t, err, ErrLockTimeout)
}

func TestDifferentKeysDoNotBlock(t *testing.T) {
	l := New()

	releaseA, err := l.Acquire(context.Background(), "a")
	assert.NoError(t, err)
	defer releaseA()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	releaseB, err := l.Acquire(ctx, "b")
	assert.NoError(t, err)
	releaseB()
}

func TestSerializesSameKey(t *testing.T) {
	l := New()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		active  int
		maxSeen int
	)

	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			release, err := l.Acquire(context.Background(), "same")
			if err != nil {
				t.Error(err)
				return
			}
			defer release()

			mu.Lock()
			active++
			if active > maxSeen {
				maxSeen = active
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			active--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
}

func TestIdleKeysAreDropped(t *testing.T) {
	l := New()

	release, err := l.Acquire(context.Background(), "ephemeral")
	assert.NoError(t, err)
	release()

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.Empty(t, l.locks)
}
