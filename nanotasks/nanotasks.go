// Package nanotasks wires the task store, the form controller and the view
// projector into a single application handle used by every surface.
//
// Lifecycle:
//
//	app, err := nanotasks.Open(nanotasks.Options{Backend: storage.BackendJSON, Path: "tasks.json"})
//	defer app.Close()
//	app.Form.Stage(form.Fields{Title: "Buy milk", Date: "2024-05-01"})
//	task, err := app.Form.Submit()
//	pending := app.View.Pending()
package nanotasks

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/arthur-debert/nanotasks/formats"
	"github.com/arthur-debert/nanotasks/nanotasks/export"
	"github.com/arthur-debert/nanotasks/nanotasks/form"
	"github.com/arthur-debert/nanotasks/nanotasks/search"
	"github.com/arthur-debert/nanotasks/nanotasks/storage"
	"github.com/arthur-debert/nanotasks/nanotasks/store"
	"github.com/arthur-debert/nanotasks/nanotasks/view"
	"github.com/arthur-debert/nanotasks/types"
)

// Options configures Open.
type Options struct {
	Backend storage.Backend
	Path    string

	// Slot overrides Backend and Path when set.
	Slot storage.Slot

	Logger *slog.Logger
	Clock  func() time.Time
}

// App is an opened task collection with its form and projections.
type App struct {
	Store  *store.Store
	Form   *form.Controller
	View   *view.Projector
	Search *search.Engine

	logger *slog.Logger
}

// Open creates the slot, loads the persisted collection and returns the
// application. A slot read failure is returned together with a usable,
// empty App so callers may decide to continue.
func Open(opts Options) (*App, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	slot := opts.Slot
	if slot == nil {
		var err error
		slot, err = storage.Open(opts.Backend, opts.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s store: %w", opts.Backend, err)
		}
	}

	storeOpts := []store.Option{store.WithLogger(logger)}
	if opts.Clock != nil {
		storeOpts = append(storeOpts, store.WithClock(opts.Clock))
	}
	s := store.New(slot, storeOpts...)

	app := &App{
		Store:  s,
		Form:   form.New(s),
		View:   view.New(s),
		Search: search.New(s),
		logger: logger,
	}

	if err := s.Load(); err != nil {
		return app, err
	}
	logger.Debug("store opened", "backend", opts.Backend, "path", opts.Path, "tasks", s.Len())
	return app, nil
}

// BeginEdit loads the task with id into the form. It reports false if the
// task does not exist.
func (a *App) BeginEdit(id types.ID) bool {
	task, ok := a.Store.Get(id)
	if !ok {
		return false
	}
	a.Form.BeginEdit(task)
	return true
}

// Export writes every task to a zip archive at path.
func (a *App) Export(path string, format *formats.TaskFormat) error {
	tasks := a.Store.All()
	if err := export.CreateArchive(path, tasks, export.Options{Format: format}); err != nil {
		return err
	}
	a.logger.Info("tasks exported", "path", path, "count", len(tasks))
	return nil
}

// Close releases the underlying slot.
func (a *App) Close() error {
	return a.Store.Close()
}
