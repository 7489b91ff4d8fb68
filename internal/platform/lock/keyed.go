// Package lock provides per-key mutual exclusion.
package lock

import (
	"context"
	"sync"
)

// Keyed serializes work per key while letting different keys proceed in
// parallel. Entries are reference counted and removed once no goroutine holds
// or waits for them, so memory stays proportional to active keys.
type Keyed struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	ch   chan struct{}
	refs int
}

// NewKeyed returns an empty Keyed lock.
func NewKeyed() *Keyed {
	return &Keyed{locks: make(map[string]*keyLock)}
}

// Lock acquires the lock for key, waiting until it is free or ctx is done.
// On success the returned function releases the lock and must be called
// exactly once.
func (k *Keyed) Lock(ctx context.Context, key string) (func(), error) {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyLock{ch: make(chan struct{}, 1)}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	select {
	case l.ch <- struct{}{}:
		return func() { k.release(key, l, true) }, nil
	case <-ctx.Done():
		k.release(key, l, false)
		return nil, ctx.Err()
	}
}

func (k *Keyed) release(key string, l *keyLock, held bool) {
	if held {
		<-l.ch
	}
	k.mu.Lock()
	l.refs--
	if l.refs == 0 {
		delete(k.locks, key)
	}
	k.mu.Unlock()
}

// Len returns the number of keys currently held or awaited.
func (k *Keyed) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
