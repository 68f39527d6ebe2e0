// Package store provides the task repository: an ordered, in-memory task
// collection that is mirrored to a persistent slot after every change.
//
// Lifecycle:
//
//	s := store.New(slot)
//	_ = s.Load()       // read the persisted collection once
//	s.Upsert(task)     // every mutation saves the whole collection
//	_ = s.Close()
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/arthur-debert/nanotasks/nanotasks/storage"
	"github.com/arthur-debert/nanotasks/types"
)

// Store owns every task record. Accessors hand out copies.
type Store struct {
	slot   storage.Slot
	locks  *storage.LockManager
	logger *slog.Logger
	now    func() time.Time

	tasks   []types.Task
	lastID  types.ID
	saveErr error
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for load and save diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithClock sets the time source used to mint ids.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New creates an empty store bound to slot. Call Load to read the
// persisted collection.
func New(slot storage.Slot, opts ...Option) *Store {
	s := &Store{
		slot:  slot,
		locks: storage.NewLockManager(),
		now:   time.Now,
		tasks: []types.Task{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Load replaces the in-memory collection with the persisted one.
// An absent, empty or unparseable value yields an empty collection and no
// error; malformed data is only logged. Other slot failures are returned,
// but the store is still left usable with an empty collection.
func (s *Store) Load() error {
	return s.locks.Execute(storage.WriteOperation, func() error {
		s.tasks = []types.Task{}
		s.lastID = 0

		data, err := s.slot.Read()
		if errors.Is(err, storage.ErrSlotEmpty) {
			s.logger.Debug("no persisted tasks")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read tasks: %w", err)
		}

		tasks, err := Decode(data)
		if err != nil {
			s.logger.Warn("discarding unparseable persisted tasks", "error", err, "bytes", len(data))
			return nil
		}

		seen := make(map[types.ID]bool, len(tasks))
		for _, t := range tasks {
			if seen[t.ID] {
				s.logger.Warn("dropping task with duplicate id", "id", t.ID, "title", t.Title)
				continue
			}
			seen[t.ID] = true
			s.tasks = append(s.tasks, t)
			s.lastID = max(s.lastID, t.ID)
		}

		s.logger.Debug("tasks loaded", "count", len(s.tasks))
		return nil
	})
}

// Save writes the full collection to the slot and returns the slot error.
// Use it to retry after a failed automatic save; the result also becomes
// LastSaveError.
func (s *Store) Save() error {
	return s.locks.Execute(storage.WriteOperation, func() error {
		s.saveErr = s.save()
		return s.saveErr
	})
}

// save is called with the lock held.
func (s *Store) save() error {
	data, err := Encode(s.tasks)
	if err != nil {
		return err
	}
	if err := s.slot.Write(data); err != nil {
		return fmt.Errorf("failed to write tasks: %w", err)
	}
	return nil
}

// persist is the best-effort save that follows every mutation. Failures
// are logged and remembered; memory stays the source of truth.
func (s *Store) persist(op string) {
	if err := s.save(); err != nil {
		s.saveErr = err
		s.logger.Error("failed to persist tasks", "operation", op, "error", err)
		return
	}
	s.saveErr = nil
}

// LastSaveError returns the error of the most recent automatic save, or
// nil if it succeeded.
func (s *Store) LastSaveError() error {
	return storage.Read(s.locks, func() error { return s.saveErr })
}

// Upsert replaces the task with the same id, or appends it.
// A zero id is replaced by a freshly minted one.
func (s *Store) Upsert(task types.Task) types.Task {
	return storage.Write(s.locks, func() types.Task {
		if task.ID == 0 {
			task.ID = s.mintID()
		}

		if i := s.indexOf(task.ID); i >= 0 {
			s.tasks[i] = task
			s.logger.Debug("task replaced", "id", task.ID)
		} else {
			s.tasks = append(s.tasks, task)
			s.lastID = max(s.lastID, task.ID)
			s.logger.Debug("task added", "id", task.ID)
		}

		s.persist("upsert")
		return task
	})
}

// Remove deletes the task with id. It reports whether a task was removed.
func (s *Store) Remove(id types.ID) bool {
	return storage.Write(s.locks, func() bool {
		i := s.indexOf(id)
		if i < 0 {
			return false
		}
		s.tasks = slices.Delete(s.tasks, i, i+1)
		s.persist("remove")
		return true
	})
}

// ToggleCompleted flips the completed flag of the task with id and returns
// the updated task. It is a no-op if no such task exists.
func (s *Store) ToggleCompleted(id types.ID) (types.Task, bool) {
	type result struct {
		task types.Task
		ok   bool
	}
	r := storage.Write(s.locks, func() result {
		i := s.indexOf(id)
		if i < 0 {
			return result{}
		}
		s.tasks[i].Completed = !s.tasks[i].Completed
		s.persist("toggle")
		return result{task: s.tasks[i], ok: true}
	})
	return r.task, r.ok
}

// Get returns the task with id.
func (s *Store) Get(id types.ID) (types.Task, bool) {
	type result struct {
		task types.Task
		ok   bool
	}
	r := storage.Read(s.locks, func() result {
		if i := s.indexOf(id); i >= 0 {
			return result{task: s.tasks[i], ok: true}
		}
		return result{}
	})
	return r.task, r.ok
}

// All returns a copy of the collection in insertion order.
func (s *Store) All() []types.Task {
	return storage.Read(s.locks, func() []types.Task {
		return slices.Clone(s.tasks)
	})
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	return storage.Read(s.locks, func() int { return len(s.tasks) })
}

// NextID mints a new unique id: the current time in milliseconds, bumped
// past the last id handed out so ids stay monotonic within a process.
func (s *Store) NextID() types.ID {
	return storage.Write(s.locks, s.mintID)
}

func (s *Store) mintID() types.ID {
	id := max(types.ID(s.now().UnixMilli()), s.lastID+1)
	for s.indexOf(id) >= 0 {
		id++
	}
	s.lastID = id
	return id
}

func (s *Store) indexOf(id types.ID) int {
	return slices.IndexFunc(s.tasks, func(t types.Task) bool { return t.ID == id })
}

// Close releases the slot.
func (s *Store) Close() error {
	return s.slot.Close()
}

// Encode serializes tasks in the persisted slot format.
func Encode(tasks []types.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []types.Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tasks: %w", err)
	}
	return data, nil
}

// Decode parses the persisted slot format.
func Decode(data []byte) ([]types.Task, error) {
	var tasks []types.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("failed to parse tasks: %w", err)
	}
	return tasks, nil
}
