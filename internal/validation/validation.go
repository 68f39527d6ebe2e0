package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/arthur-debert/nanotasks/types"
)

// MaxTitleLength bounds titles accepted from any surface, in bytes.
const MaxTitleLength = 1024

// Error is a field-level validation failure.
type Error struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var (
	// ErrTitleRequired is returned for a title that is blank after trimming.
	ErrTitleRequired = &Error{Field: "title", Message: "title is required"}
	// ErrTitleTooLong is returned for a title longer than MaxTitleLength.
	ErrTitleTooLong = &Error{Field: "title", Message: fmt.Sprintf("title is longer than %d bytes", MaxTitleLength)}
	// ErrPriority is returned for a priority outside low, medium and high.
	ErrPriority = &Error{Field: "priority", Message: "priority must be low, medium or high"}
)

// Title checks that a title is non-empty after trimming and not too long.
func Title(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrTitleRequired
	}
	if len(title) > MaxTitleLength {
		return ErrTitleTooLong
	}
	return nil
}

// Date checks that date is a calendar date in YYYY-MM-DD form.
func Date(date string) error {
	if strings.TrimSpace(date) == "" {
		return &Error{Field: "date", Message: "date is required"}
	}
	if _, err := types.ParseDate(date); err != nil {
		return &Error{Field: "date", Message: err.Error()}
	}
	return nil
}

// Priority checks that p is one of the known priorities.
func Priority(p types.Priority) error {
	if !p.Valid() {
		return ErrPriority
	}
	return nil
}

// Fields flattens err into a field -> message map. Errors that are not
// field errors are collected under "_".
func Fields(err error) map[string]string {
	if err == nil {
		return nil
	}

	out := make(map[string]string)
	var walk func(error)
	walk = func(e error) {
		if joined, ok := e.(interface{ Unwrap() []error }); ok {
			for _, inner := range joined.Unwrap() {
				walk(inner)
			}
			return
		}
		var fe *Error
		if errors.As(e, &fe) {
			if _, exists := out[fe.Field]; !exists {
				out[fe.Field] = fe.Message
			}
			return
		}
		out["_"] = e.Error()
	}
	walk(err)
	return out
}
