package types

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ID identifies a task. IDs are derived from the creation time in
// milliseconds and are never reassigned.
type ID int64

// String returns the decimal form of the ID.
func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// ParseID parses a decimal task ID as typed by a user.
func ParseID(s string) (ID, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid task id %q", s)
	}
	return ID(n), nil
}

// Task is the single record type held by the task store.
// The JSON field names are the persisted slot format.
type Task struct {
	ID          ID       `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Date        string   `json:"date" yaml:"date"` // calendar date, YYYY-MM-DD
	Priority    Priority `json:"priority" yaml:"priority"`
	Completed   bool     `json:"completed" yaml:"completed"`
}

// Status returns the list a task belongs to.
func (t Task) Status() Status {
	if t.Completed {
		return StatusCompleted
	}
	return StatusPending
}

// Status names the two mutually exclusive task lists.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// DateLayout is the layout of Task.Date.
const DateLayout = "2006-01-02"

// ParseDate parses a calendar date in DateLayout.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD)", s)
	}
	return d, nil
}
