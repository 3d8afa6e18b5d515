package relay

import (
	"sync"
	"testing"

	"github.com/google/uuid"
)

func TestKeyedLockMutualExclusionPerKey(t *testing.T) {
	kl := newKeyedLock()
	key := uuid.New()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := kl.Lock(key)
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	if counter != 50 {
		t.Fatalf("expected 50 increments, got %d", counter)
	}
}

func TestKeyedLockReleasesEntries(t *testing.T) {
	kl := newKeyedLock()

	for i := 0; i < 10; i++ {
		unlock := kl.Lock(uuid.New())
		unlock()
	}

	kl.mu.Lock()
	defer kl.mu.Unlock()
	if len(kl.locks) != 0 {
		t.Fatalf("expected lock table to be empty, got %d entries", len(kl.locks))
	}
}

func TestKeyedLockIndependentKeysDoNotBlock(t *testing.T) {
	kl := newKeyedLock()

	unlockA := kl.Lock(uuid.New())
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlockB := kl.Lock(uuid.New())
		unlockB()
		close(done)
	}()

	<-done
}
