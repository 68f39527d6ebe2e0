package testutil

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/arthur-debert/nanotasks/nanotasks/storage"
	"github.com/arthur-debert/nanotasks/nanotasks/store"
	"github.com/arthur-debert/nanotasks/types"
)

// AssertTaskCount fails if tasks does not hold exactly want entries.
func AssertTaskCount(t *testing.T, tasks []types.Task, want int, context ...string) {
	t.Helper()
	if len(tasks) != want {
		msg := ""
		if len(context) > 0 {
			msg = " " + context[0]
		}
		t.Errorf("expected %d tasks%s, got %d", want, msg, len(tasks))
	}
}

// AssertTaskExists fails if no task in tasks has id.
func AssertTaskExists(t *testing.T, tasks []types.Task, id types.ID) {
	t.Helper()
	for _, task := range tasks {
		if task.ID == id {
			return
		}
	}
	t.Errorf("task %d not found in %d tasks", id, len(tasks))
}

// AssertTaskNotExists fails if a task in tasks has id.
func AssertTaskNotExists(t *testing.T, tasks []types.Task, id types.ID) {
	t.Helper()
	for _, task := range tasks {
		if task.ID == id {
			t.Errorf("task %d (%q) should not be present", id, task.Title)
			return
		}
	}
}

// AssertTitles fails unless tasks carry exactly want titles, in order.
func AssertTitles(t *testing.T, tasks []types.Task, want ...string) {
	t.Helper()
	got := make([]string, 0, len(tasks))
	for _, task := range tasks {
		got = append(got, task.Title)
	}
	if want == nil {
		want = []string{}
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("titles mismatch (-want +got):\n%s", diff)
	}
}

// AssertUniqueIDs fails if any id appears twice.
func AssertUniqueIDs(t *testing.T, tasks []types.Task) {
	t.Helper()
	seen := make(map[types.ID]bool, len(tasks))
	for _, task := range tasks {
		if seen[task.ID] {
			t.Errorf("duplicate task id %d", task.ID)
		}
		seen[task.ID] = true
	}
}

// AssertPersisted fails unless the slot holds exactly want.
func AssertPersisted(t *testing.T, slot storage.Slot, want []types.Task) {
	t.Helper()
	data, err := slot.Read()
	if err != nil {
		t.Fatalf("failed to read slot: %v", err)
	}
	got, err := store.Decode(data)
	if err != nil {
		t.Fatalf("slot holds invalid data: %v", err)
	}
	if want == nil {
		want = []types.Task{}
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("persisted tasks mismatch (-want +got):\n%s", diff)
	}
}
