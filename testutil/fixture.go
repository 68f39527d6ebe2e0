// Package testutil provides a shared task fixture and assertion helpers
// for package tests.
package testutil

import (
	_ "embed"
	"testing"
	"time"

	"github.com/arthur-debert/nanotasks/nanotasks"
	"github.com/arthur-debert/nanotasks/nanotasks/storage"
	"github.com/arthur-debert/nanotasks/types"
)

//go:embed testdata/universe.json
var universeJSON []byte

// Now is the fixed clock used by fixture apps: 2024-05-01 12:00 UTC.
var Now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

// Clock returns Now.
func Clock() time.Time { return Now }

// UniverseData provides typed access to the test fixture data.
type UniverseData struct {
	// Pending
	BuyMilk     types.Task // high
	CallMom     types.Task // medium
	WaterPlants types.Task // low, has description
	FileTaxes   types.Task // high, inserted after BuyMilk
	Unicode     types.Task // medium, stored with the legacy name "média"

	// Completed
	PayRent  types.Task // high
	ReadBook types.Task // low

	// Slot backing the fixture app.
	Slot *storage.MemorySlot

	// All tasks by id.
	ByID map[types.ID]types.Task
}

// LoadUniverse returns an app loaded from the fixture collection.
func LoadUniverse(t *testing.T) (*nanotasks.App, *UniverseData) {
	t.Helper()

	slot := storage.NewMemorySlot(universeJSON)
	app := NewApp(t, slot)

	universe := &UniverseData{
		Slot: slot,
		ByID: make(map[types.ID]types.Task),
	}
	for _, task := range app.Store.All() {
		universe.ByID[task.ID] = task

		switch task.ID {
		case 1700000000001:
			universe.BuyMilk = task
		case 1700000000002:
			universe.CallMom = task
		case 1700000000003:
			universe.WaterPlants = task
		case 1700000000004:
			universe.PayRent = task
		case 1700000000005:
			universe.ReadBook = task
		case 1700000000006:
			universe.FileTaxes = task
		case 1700000000007:
			universe.Unicode = task
		}
	}
	if len(universe.ByID) == 0 {
		t.Fatal("fixture loaded no tasks")
	}

	return app, universe
}

// NewApp opens an app over slot with the fixed clock. A nil slot gets a
// fresh empty memory slot.
func NewApp(t *testing.T, slot storage.Slot) *nanotasks.App {
	t.Helper()

	if slot == nil {
		slot = storage.NewMemorySlot(nil)
	}
	app, err := nanotasks.Open(nanotasks.Options{
		Backend: storage.BackendMemory,
		Slot:    slot,
		Clock:   Clock,
	})
	if err != nil {
		t.Fatalf("failed to open app: %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })
	return app
}

// ByStatus returns the fixture tasks with the given status.
func (u *UniverseData) ByStatus(status types.Status) []types.Task {
	var tasks []types.Task
	for _, task := range u.ByID {
		if task.Status() == status {
			tasks = append(tasks, task)
		}
	}
	return tasks
}
