package relay

import (
	"sync"

	"github.com/google/uuid"
)

// keyedLock serializes commands per device. Two concurrent commands to
// the same unit would race on the wire and on the cached state; commands
// to different units proceed in parallel.
type keyedLock struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newKeyedLock() *keyedLock {
	return &keyedLock{locks: make(map[uuid.UUID]*lockEntry)}
}

// Lock acquires the lock for the given key and returns its release func.
func (k *keyedLock) Lock(key uuid.UUID) func() {
	k.mu.Lock()
	entry, ok := k.locks[key]
	if !ok {
		entry = &lockEntry{}
		k.locks[key] = entry
	}
	entry.refs++
	k.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		k.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
