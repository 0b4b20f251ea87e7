// Package keylock provides mutual exclusion keyed by an arbitrary string.
// The attendance engine locks on (student, day, subject) so two
// near-simultaneous scans cannot both open a check-in for the same key.
package keylock

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

// ErrLockTimeout is returned when the lock could not be acquired before the
// context expired. Callers should retry the whole operation.
var ErrLockTimeout = errors.New("timed out acquiring key lock")

type entry struct {
	sem  chan struct{}
	refs int
}

// KeyLock hands out one mutex per key. Idle keys hold no memory.
type KeyLock struct {
	mu    sync.Mutex
	locks map[string]*entry
}

func New() *KeyLock {
	return &KeyLock{locks: make(map[string]*entry)}
}

// Acquire blocks until the key's lock is held or ctx is done. On success the
// returned release function must be called on every exit path.
func (l *KeyLock) Acquire(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	e, ok := l.locks[key]
	if !ok {
		e = &entry{sem: make(chan struct{}, 1)}
		l.locks[key] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.sem <- struct{}{}:
		return func() {
			<-e.sem
			l.put(key, e)
		}, nil
	case <-ctx.Done():
		l.put(key, e)
		return nil, ErrLockTimeout
	}
}

func (l *KeyLock) put(key string, e *entry) {
	l.mu.Lock()
	e.refs--
	if e.refs == 0 {
		delete(l.locks, key)
	}
	l.mu.Unlock()
}
