package storage

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// memFS is an in-memory FileSystem with injectable errors.
type memFS struct {
	mu    sync.RWMutex
	files map[string][]byte

	ReadFileError  error
	WriteFileError error
	RenameError    error
}

func newMemFS() *memFS {
	return &memFS{files: make(map[string][]byte)}
}

type memFileInfo struct {
	name string
	size int64
}

func (fi memFileInfo) Name() string       { return fi.name }
func (fi memFileInfo) Size() int64        { return fi.size }
func (fi memFileInfo) Mode() fs.FileMode  { return 0o644 }
func (fi memFileInfo) ModTime() time.Time { return time.Time{} }
func (fi memFileInfo) IsDir() bool        { return false }
func (fi memFileInfo) Sys() interface{}   { return nil }

func (m *memFS) Stat(name string) (fs.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	content, ok := m.files[name]
	if !ok {
		return nil, os.ErrNotExist
	}
	return memFileInfo{name: filepath.Base(name), size: int64(len(content))}, nil
}

func (m *memFS) ReadFile(name string) ([]byte, error) {
	if m.ReadFileError != nil {
		return nil, m.ReadFileError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	content, ok := m.files[name]
	if !ok {
		return nil, os.ErrNotExist
	}
	return append([]byte(nil), content...), nil
}

func (m *memFS) WriteFile(name string, data []byte, _ fs.FileMode) error {
	if m.WriteFileError != nil {
		return m.WriteFileError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[name] = append([]byte(nil), data...)
	return nil
}

func (m *memFS) Rename(oldpath, newpath string) error {
	if m.RenameError != nil {
		return m.RenameError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	content, ok := m.files[oldpath]
	if !ok {
		return os.ErrNotExist
	}
	m.files[newpath] = content
	delete(m.files, oldpath)
	return nil
}

func (m *memFS) Remove(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[name]; !ok {
		return os.ErrNotExist
	}
	delete(m.files, name)
	return nil
}

func (m *memFS) MkdirAll(string, fs.FileMode) error { return nil }

func (m *memFS) exists(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.files[name]
	return ok
}

// fakeLock records lock traffic and can be told to fail.
type fakeLock struct {
	mu        sync.Mutex
	held      bool
	lockErr   error
	neverGets bool

	LockAttempts   int
	UnlockAttempts int
}

func (l *fakeLock) TryLockContext(ctx context.Context, _ time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.LockAttempts++
	if l.lockErr != nil {
		return false, l.lockErr
	}
	if l.held || l.neverGets {
		return false, nil
	}
	l.held = true
	return true, nil
}

func (l *fakeLock) Unlock() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.UnlockAttempts++
	l.held = false
	return nil
}

type fakeLockFactory struct {
	locks map[string]*fakeLock
}

func newFakeLockFactory() *fakeLockFactory {
	return &fakeLockFactory{locks: make(map[string]*fakeLock)}
}

func (f *fakeLockFactory) New(path string) FileLock {
	if l, ok := f.locks[path]; ok {
		return l
	}
	l := &fakeLock{}
	f.locks[path] = l
	return l
}
