package form

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/arthur-debert/nanotasks/types"
)

// fakeRepo is an in-memory Repository.
type fakeRepo struct {
	tasks  []types.Task
	nextID types.ID
}

func (r *fakeRepo) Upsert(task types.Task) types.Task {
	for i := range r.tasks {
		if r.tasks[i].ID == task.ID {
			r.tasks[i] = task
			return task
		}
	}
	r.tasks = append(r.tasks, task)
	return task
}

func (r *fakeRepo) Get(id types.ID) (types.Task, bool) {
	for _, t := range r.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return types.Task{}, false
}

func (r *fakeRepo) NextID() types.ID {
	r.nextID++
	return r.nextID
}

func TestSubmitCreates(t *testing.T) {
	repo := &fakeRepo{}
	c := New(repo)

	c.Stage(Fields{Title: "  Buy milk ", Description: "2 liters", Date: "2024-05-01", Priority: types.PriorityMedium})
	task, err := c.Submit()
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	want := types.Task{ID: 1, Title: "Buy milk", Description: "2 liters", Date: "2024-05-01", Priority: types.PriorityMedium}
	if diff := cmp.Diff(want, task); diff != "" {
		t.Errorf("task mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(Fields{}, c.Fields()); diff != "" {
		t.Errorf("fields should reset after submit (-want +got):\n%s", diff)
	}
	if _, ok := c.Mode().(Creating); !ok {
		t.Errorf("mode = %T, want Creating", c.Mode())
	}
}

func TestSubmitRejectsBlankTitle(t *testing.T) {
	for _, title := range []string{"", "   ", "\t\n"} {
		repo := &fakeRepo{}
		c := New(repo)
		staged := Fields{Title: title, Description: "kept", Date: "2024-05-01", Priority: types.PriorityHigh}
		c.Stage(staged)

		_, err := c.Submit()
		if !errors.Is(err, ErrEmptyTitle) {
			t.Errorf("Submit(%q) error = %v, want ErrEmptyTitle", title, err)
		}
		if len(repo.tasks) != 0 {
			t.Errorf("Submit(%q) changed the collection", title)
		}
		if diff := cmp.Diff(staged, c.Fields()); diff != "" {
			t.Errorf("fields should stay as typed (-want +got):\n%s", diff)
		}
	}
}

func TestSubmitRejectsLongTitle(t *testing.T) {
	repo := &fakeRepo{}
	c := New(repo)
	c.Stage(Fields{Title: strings.Repeat("x", 2000), Date: "2024-05-01"})

	if _, err := c.Submit(); !errors.Is(err, ErrTitleTooLong) {
		t.Errorf("Submit() error = %v, want ErrTitleTooLong", err)
	}
	if len(repo.tasks) != 0 {
		t.Error("an over-long title must not be stored")
	}
}

func TestSubmitRejectsBadDate(t *testing.T) {
	c := New(&fakeRepo{})
	c.Stage(Fields{Title: "x", Date: "05/01/2024"})
	if _, err := c.Submit(); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("Submit() error = %v, want ErrInvalidDate", err)
	}
}

func TestEditPreservesIDAndCompletion(t *testing.T) {
	repo := &fakeRepo{tasks: []types.Task{
		{ID: 10, Title: "Old", Date: "2024-01-01", Completed: true},
		{ID: 11, Title: "Other", Date: "2024-01-01"},
	}}
	c := New(repo)

	c.BeginEdit(repo.tasks[0])
	if id, ok := c.Editing(); !ok || id != 10 {
		t.Fatalf("Editing() = %d, %v", id, ok)
	}
	if got := c.SubmitLabel(); got != "Update task" {
		t.Errorf("SubmitLabel() = %q, want Update task", got)
	}
	if c.Fields().Title != "Old" {
		t.Errorf("BeginEdit should stage the title, got %q", c.Fields().Title)
	}

	c.SetTitle("New")
	c.SetPriority(types.PriorityHigh)
	task, err := c.Submit()
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	want := types.Task{ID: 10, Title: "New", Date: "2024-01-01", Priority: types.PriorityHigh, Completed: true}
	if diff := cmp.Diff(want, task); diff != "" {
		t.Errorf("task mismatch (-want +got):\n%s", diff)
	}
	if len(repo.tasks) != 2 {
		t.Errorf("edit should not add tasks, have %d", len(repo.tasks))
	}
	if got := c.SubmitLabel(); got != "Add task" {
		t.Errorf("SubmitLabel() after submit = %q, want Add task", got)
	}
}

func TestCancel(t *testing.T) {
	c := New(&fakeRepo{})
	c.BeginEdit(types.Task{ID: 3, Title: "x", Date: "2024-01-01"})
	c.Cancel()

	if _, ok := c.Editing(); ok {
		t.Error("Cancel should leave Editing mode")
	}
	if diff := cmp.Diff(Fields{}, c.Fields()); diff != "" {
		t.Errorf("Cancel should clear fields (-want +got):\n%s", diff)
	}
}
