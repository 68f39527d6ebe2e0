package storage

import "sync"

// MemorySlot keeps the slot value in process memory. Useful for tests and
// for sessions that should not persist.
type MemorySlot struct {
	mu   sync.Mutex
	data []byte

	// WriteError, when set, is returned by Write without storing anything.
	WriteError error
	// Writes counts successful writes.
	Writes int
}

// NewMemorySlot creates a slot holding a copy of initial (nil means empty).
func NewMemorySlot(initial []byte) *MemorySlot {
	s := &MemorySlot{}
	if initial != nil {
		s.data = append([]byte(nil), initial...)
	}
	return s
}

// Read implements Slot.Read.
func (s *MemorySlot) Read() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.data) == 0 {
		return nil, ErrSlotEmpty
	}
	return append([]byte(nil), s.data...), nil
}

// Write implements Slot.Write.
func (s *MemorySlot) Write(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.WriteError != nil {
		return s.WriteError
	}
	s.data = append([]byte(nil), data...)
	s.Writes++
	return nil
}

// Close implements Slot.Close.
func (s *MemorySlot) Close() error {
	return nil
}
