// Package form implements the task form controller: a single set of staged
// fields reused for creating and editing tasks.
package form

import (
	"errors"
	"strings"

	"github.com/arthur-debert/nanotasks/internal/validation"
	"github.com/arthur-debert/nanotasks/types"
)

var (
	// ErrEmptyTitle is returned by Submit when the title is blank.
	ErrEmptyTitle = validation.ErrTitleRequired
	// ErrTitleTooLong is returned by Submit when the title exceeds
	// validation.MaxTitleLength.
	ErrTitleTooLong = validation.ErrTitleTooLong
	// ErrInvalidDate is returned by Submit when the date is missing or malformed.
	ErrInvalidDate = &validation.Error{Field: "date", Message: "date is required (YYYY-MM-DD)"}
)

// Mode is either Creating or Editing.
type Mode interface {
	isMode()
}

// Creating means Submit will add a new task.
type Creating struct{}

// Editing means Submit will overwrite the task with ID.
type Editing struct {
	ID types.ID
}

func (Creating) isMode() {}
func (Editing) isMode()  {}

// Fields are the staged form values.
type Fields struct {
	Title       string
	Description string
	Date        string
	Priority    types.Priority
}

// Repository is what the controller needs from the task store.
type Repository interface {
	Upsert(task types.Task) types.Task
	Get(id types.ID) (types.Task, bool)
	NextID() types.ID
}

// Controller stages field values and submits them to the repository.
type Controller struct {
	repo   Repository
	fields Fields
	mode   Mode
}

// New creates a controller in Creating mode with default fields.
func New(repo Repository) *Controller {
	return &Controller{repo: repo, mode: Creating{}}
}

// Fields returns the staged values.
func (c *Controller) Fields() Fields {
	return c.fields
}

// Mode returns the current mode.
func (c *Controller) Mode() Mode {
	return c.mode
}

// Editing reports the id being edited, if any.
func (c *Controller) Editing() (types.ID, bool) {
	if e, ok := c.mode.(Editing); ok {
		return e.ID, true
	}
	return 0, false
}

// SubmitLabel is the label of the submit action for the current mode.
func (c *Controller) SubmitLabel() string {
	if _, ok := c.mode.(Editing); ok {
		return "Update task"
	}
	return "Add task"
}

// Stage replaces all staged values without changing the mode.
func (c *Controller) Stage(f Fields) {
	c.fields = f
}

func (c *Controller) SetTitle(s string)            { c.fields.Title = s }
func (c *Controller) SetDescription(s string)      { c.fields.Description = s }
func (c *Controller) SetDate(s string)             { c.fields.Date = s }
func (c *Controller) SetPriority(p types.Priority) { c.fields.Priority = p }

// BeginEdit stages every field from task and switches to Editing mode.
func (c *Controller) BeginEdit(task types.Task) {
	c.fields = Fields{
		Title:       task.Title,
		Description: task.Description,
		Date:        task.Date,
		Priority:    task.Priority,
	}
	c.mode = Editing{ID: task.ID}
}

// Cancel discards staged values and returns to Creating mode.
func (c *Controller) Cancel() {
	c.fields = Fields{}
	c.mode = Creating{}
}

// Submit validates the staged fields and upserts the resulting task.
// On a validation error nothing is stored and the fields stay as typed.
// Editing keeps the target's completed flag.
func (c *Controller) Submit() (types.Task, error) {
	if err := c.Validate(); err != nil {
		return types.Task{}, err
	}

	task := types.Task{
		Title:       strings.TrimSpace(c.fields.Title),
		Description: c.fields.Description,
		Date:        strings.TrimSpace(c.fields.Date),
		Priority:    c.fields.Priority,
	}

	switch m := c.mode.(type) {
	case Editing:
		task.ID = m.ID
		if current, ok := c.repo.Get(m.ID); ok {
			task.Completed = current.Completed
		}
	default:
		task.ID = c.repo.NextID()
	}

	saved := c.repo.Upsert(task)
	c.Cancel()
	return saved, nil
}

// Validate checks the staged fields without submitting them.
func (c *Controller) Validate() error {
	var errs []error
	if err := validation.Title(c.fields.Title); err != nil {
		errs = append(errs, err)
	}
	if err := validation.Date(c.fields.Date); err != nil {
		errs = append(errs, ErrInvalidDate)
	}
	if err := validation.Priority(c.fields.Priority); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
