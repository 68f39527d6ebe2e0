package testutil

import (
	"testing"

	"github.com/arthur-debert/nanotasks/types"
)

func TestLoadUniverse(t *testing.T) {
	app, universe := LoadUniverse(t)

	if app == nil {
		t.Fatal("app should not be nil")
	}
	if len(universe.ByID) != 7 {
		t.Fatalf("expected 7 tasks, got %d", len(universe.ByID))
	}

	if universe.BuyMilk.Title != "Buy milk" {
		t.Errorf("BuyMilk title incorrect: got %q", universe.BuyMilk.Title)
	}
	if universe.Unicode.Priority != types.PriorityMedium {
		t.Errorf("legacy priority should load as medium, got %s", universe.Unicode.Priority)
	}

	if n := len(universe.ByStatus(types.StatusPending)); n != 5 {
		t.Errorf("expected 5 pending tasks, got %d", n)
	}
	if n := len(universe.ByStatus(types.StatusCompleted)); n != 2 {
		t.Errorf("expected 2 completed tasks, got %d", n)
	}

	// loading alone must not rewrite the slot
	if universe.Slot.Writes != 0 {
		t.Errorf("expected no writes after load, got %d", universe.Slot.Writes)
	}
}

func TestNewAppIsEmpty(t *testing.T) {
	app := NewApp(t, nil)
	if app.Store.Len() != 0 {
		t.Errorf("expected empty store, got %d tasks", app.Store.Len())
	}
	if got := app.Store.NextID(); got != types.ID(Now.UnixMilli()) {
		t.Errorf("NextID() = %d, want fixed clock %d", got, Now.UnixMilli())
	}
}
