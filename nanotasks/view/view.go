// Package view derives the pending and completed task lists shown by every
// surface. Projections are recomputed on each call and never mutate the
// store.
package view

import (
	"slices"

	"github.com/arthur-debert/nanotasks/types"
)

// Source supplies the current task collection. Implementations must
// return a slice the caller may reorder.
type Source interface {
	All() []types.Task
}

// Projector derives display lists from a Source.
type Projector struct {
	src Source
}

// New creates a projector over src.
func New(src Source) *Projector {
	return &Projector{src: src}
}

// Lists holds both projections taken from the same snapshot.
type Lists struct {
	Pending   []types.Task `json:"pending" yaml:"pending"`
	Completed []types.Task `json:"completed" yaml:"completed"`
}

// Pending returns the tasks not yet completed, highest priority first.
func (p *Projector) Pending() []types.Task {
	return Filter(p.src.All(), types.StatusPending)
}

// CompletedList returns the completed tasks, highest priority first.
func (p *Projector) CompletedList() []types.Task {
	return Filter(p.src.All(), types.StatusCompleted)
}

// Partition returns both lists from a single snapshot of the store.
func (p *Projector) Partition() Lists {
	all := p.src.All()
	return Lists{
		Pending:   Filter(all, types.StatusPending),
		Completed: Filter(all, types.StatusCompleted),
	}
}

// Filter returns the tasks with the given status, sorted by priority.
// The input slice is left untouched.
func Filter(tasks []types.Task, status types.Status) []types.Task {
	out := make([]types.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Status() == status {
			out = append(out, t)
		}
	}
	SortByPriority(out)
	return out
}

// SortByPriority sorts tasks in place, high before medium before low.
// Tasks of equal priority keep their relative order.
func SortByPriority(tasks []types.Task) {
	slices.SortStableFunc(tasks, func(a, b types.Task) int {
		return a.Priority.Compare(b.Priority)
	})
}

// Stats summarizes the collection.
type Stats struct {
	Total      int                    `json:"total" yaml:"total"`
	Pending    int                    `json:"pending" yaml:"pending"`
	Completed  int                    `json:"completed" yaml:"completed"`
	ByPriority map[types.Priority]int `json:"by_priority" yaml:"by_priority"`
}

// Stats counts tasks by status and, for pending tasks, by priority.
func (p *Projector) Stats() Stats {
	all := p.src.All()
	st := Stats{
		Total:      len(all),
		ByPriority: make(map[types.Priority]int, len(types.Priorities)),
	}
	for _, pr := range types.Priorities {
		st.ByPriority[pr] = 0
	}
	for _, t := range all {
		if t.Completed {
			st.Completed++
			continue
		}
		st.Pending++
		st.ByPriority[t.Priority]++
	}
	return st
}
