package storage

import (
	"sync"
)

// OperationType defines whether an operation is read or write.
// Read operations share the lock; write operations hold it exclusively.
type OperationType int

const (
	// ReadOperation indicates an operation that only reads data.
	ReadOperation OperationType = iota

	// WriteOperation indicates an operation that modifies data.
	WriteOperation
)

// LockManager serializes access to the in-memory task collection.
// Every store operation goes through Execute so that the lock type always
// matches what the operation does, and the unlock is never forgotten.
type LockManager struct {
	mu sync.RWMutex
}

// NewLockManager creates a new lock manager instance.
func NewLockManager() *LockManager {
	return &LockManager{}
}

// Execute runs fn while holding the lock appropriate for opType.
//
// Example:
//
//	err := locks.Execute(ReadOperation, func() error {
//	    // Safe to read data here
//	    return nil
//	})
func (lm *LockManager) Execute(opType OperationType, fn func() error) error {
	switch opType {
	case ReadOperation:
		lm.mu.RLock()
		defer lm.mu.RUnlock()
	case WriteOperation:
		lm.mu.Lock()
		defer lm.mu.Unlock()
	}
	return fn()
}

// Read runs fn under the read lock and returns its result.
func Read[T any](lm *LockManager, fn func() T) T {
	lm.mu.RLock()
	defer lm.mu.RUnlock()
	return fn()
}

// Write runs fn under the write lock and returns its result.
func Write[T any](lm *LockManager, fn func() T) T {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return fn()
}
