package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"
)

// Constants for file locking.
const (
	lockTimeout    = 3 * time.Second
	lockMaxRetries = 3
	lockRetryDelay = 100 * time.Millisecond
)

// JSONFileSlot stores the slot value as the entire content of a file.
// Writes go to a temp file that is renamed over the target while an
// exclusive lock on <path>.lock is held, so readers in other processes
// never observe a partial write.
type JSONFileSlot struct {
	path        string
	fs          FileSystem
	lockFactory FileLockFactory
	fileLock    FileLock
}

// JSONFileSlotOption modifies JSONFileSlot configuration.
type JSONFileSlotOption func(*JSONFileSlot)

// WithFileSystem sets a custom FileSystem implementation.
func WithFileSystem(fsys FileSystem) JSONFileSlotOption {
	return func(s *JSONFileSlot) {
		s.fs = fsys
	}
}

// WithFileLockFactory sets a custom FileLockFactory implementation.
func WithFileLockFactory(factory FileLockFactory) JSONFileSlotOption {
	return func(s *JSONFileSlot) {
		s.lockFactory = factory
	}
}

// NewJSONFileSlot creates a slot backed by the file at path.
// The file is not created until the first Write.
func NewJSONFileSlot(path string, opts ...JSONFileSlotOption) (*JSONFileSlot, error) {
	s := &JSONFileSlot{path: path}
	for _, opt := range opts {
		opt(s)
	}
	if s.fs == nil {
		s.fs = OSFileSystem{}
	}
	if s.lockFactory == nil {
		s.lockFactory = FlockFactory{}
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	s.fileLock = s.lockFactory.New(s.lockPath())
	return s, nil
}

// Path returns the file the slot writes to.
func (s *JSONFileSlot) Path() string {
	return s.path
}

func (s *JSONFileSlot) lockPath() string {
	return s.path + ".lock"
}

// acquireLock attempts to acquire the exclusive file lock with retry logic.
func (s *JSONFileSlot) acquireLock(ctx context.Context) error {
	for i := 0; i < lockMaxRetries; i++ {
		locked, err := s.fileLock.TryLockContext(ctx, lockRetryDelay)
		if err != nil {
			return fmt.Errorf("failed to acquire lock: %w", err)
		}
		if locked {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(lockRetryDelay):
		}
	}

	return fmt.Errorf("failed to acquire lock after %d attempts", lockMaxRetries)
}

func (s *JSONFileSlot) withLock(fn func() error) error {
	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()

	if err := s.acquireLock(ctx); err != nil {
		return err
	}
	defer func() { _ = s.fileLock.Unlock() }()

	return fn()
}

// Read implements Slot.Read. A missing or empty file reads as ErrSlotEmpty.
func (s *JSONFileSlot) Read() ([]byte, error) {
	var data []byte
	err := s.withLock(func() error {
		if _, err := s.fs.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
			return ErrSlotEmpty
		}

		content, err := s.fs.ReadFile(s.path)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		if len(content) == 0 {
			return ErrSlotEmpty
		}
		data = content
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Write implements Slot.Write.
func (s *JSONFileSlot) Write(data []byte) error {
	return s.withLock(func() error {
		tmpFile := s.path + ".tmp"
		if err := s.fs.WriteFile(tmpFile, data, 0o644); err != nil {
			return fmt.Errorf("failed to write temp file: %w", err)
		}

		if err := s.fs.Rename(tmpFile, s.path); err != nil {
			_ = s.fs.Remove(tmpFile)
			return fmt.Errorf("failed to rename file: %w", err)
		}
		return nil
	})
}

// Close removes the lock file. Data is already on disk after every Write.
func (s *JSONFileSlot) Close() error {
	_ = s.fs.Remove(s.lockPath())
	return nil
}
