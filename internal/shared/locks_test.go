package shared

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeyedMutexSerialisesSameKey(t *testing.T) {
	km := NewKeyedMutex()

	const workers = 16
	counter := 0
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			unlock := km.Lock(RoleLockKey(1))
			defer unlock()
			counter++
		}()
	}
	wg.Wait()
	require.Equal(t, workers, counter)
}

func TestKeyedMutexIndependentKeys(t *testing.T) {
	km := NewKeyedMutex()

	unlockA := km.Lock(RoleLockKey(1))
	// A held lock on one key must not block a different key.
	done := make(chan struct{})
	go func() {
		unlockB := km.Lock(RoleLockKey(2))
		unlockB()
		close(done)
	}()
	<-done
	unlockA()
}

func TestKeyedMutexReleasesEntries(t *testing.T) {
	km := NewKeyedMutex()
	unlock := km.Lock(PrincipalLockKey(7))
	unlock()

	km.mu.Lock()
	defer km.mu.Unlock()
	require.Empty(t, km.locks)
}

func TestLockKeysAreDistinctPerEntity(t *testing.T) {
	require.NotEqual(t, RoleLockKey(1), RoleLockKey(2))
	require.NotEqual(t, RoleLockKey(1), PrincipalLockKey(1))
}
