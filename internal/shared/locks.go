package shared

import (
	"fmt"
	"sync"
)

// RoleLockKey builds the critical-section key for role membership edits.
func RoleLockKey(roleID int64) string {
	return fmt.Sprintf("rbac:role:%d:lock", roleID)
}

// PrincipalLockKey builds the critical-section key for principal-role edits.
func PrincipalLockKey(principalID int64) string {
	return fmt.Sprintf("rbac:principal:%d:lock", principalID)
}

// KeyedMutex serialises work per string key. Reconciliation calls against the
// same role or principal take the entity's lock so two concurrent edits
// cannot interleave their delete and insert phases. The lock is in-process
// only; it does not protect against a second node.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

// NewKeyedMutex constructs an empty KeyedMutex.
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*keyedLock)}
}

// Lock acquires the mutex for key and returns the matching unlock function.
func (k *KeyedMutex) Lock(key string) (unlock func()) {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyedLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
