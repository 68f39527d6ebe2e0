// Package storage provides the persistent slot that backs the task store.
// A slot holds a single value: the JSON-serialized task collection. It is
// read once when the store is loaded and rewritten after every mutation.
package storage

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultKey is the slot key the task collection is stored under.
const DefaultKey = "tasks"

// ErrSlotEmpty is returned by Read when no value has been stored yet.
var ErrSlotEmpty = errors.New("slot is empty")

// Slot defines the low-level interface for persisting the task collection.
// The value is opaque to the slot; callers own its encoding.
type Slot interface {
	// Read returns the stored value, or ErrSlotEmpty if nothing was written
	Read() ([]byte, error)

	// Write replaces the stored value
	Write(data []byte) error

	// Close releases any resources held by the slot
	Close() error
}

// Backend names a Slot implementation.
type Backend string

const (
	BackendJSON   Backend = "json"
	BackendSQLite Backend = "sqlite"
	BackendMemory Backend = "memory"
)

// ParseBackend parses a backend name as found in configuration.
func ParseBackend(s string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(s))); b {
	case BackendJSON, BackendSQLite, BackendMemory:
		return b, nil
	case "":
		return BackendJSON, nil
	default:
		return "", fmt.Errorf("unknown storage backend %q (use json, sqlite or memory)", s)
	}
}

// Open creates the slot for the given backend. path is ignored by the
// memory backend.
func Open(backend Backend, path string) (Slot, error) {
	switch backend {
	case BackendJSON, "":
		if path == "" {
			return nil, errors.New("json backend requires a file path")
		}
		return NewJSONFileSlot(path)
	case BackendSQLite:
		if path == "" {
			return nil, errors.New("sqlite backend requires a database path")
		}
		return NewSQLiteSlot(path, DefaultKey)
	case BackendMemory:
		return NewMemorySlot(nil), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
