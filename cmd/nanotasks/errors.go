package main

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/arthur-debert/nanotasks/internal/validation"
)

// CLIError represents a user-friendly CLI error with context and suggestions.
type CLIError struct {
	Operation   string   // The operation that failed (e.g., "add task", "list tasks")
	Cause       string   // The underlying cause (e.g., "task not found")
	Details     string   // Additional technical details
	Suggestions []string // Helpful suggestions for the user
	Underlying  error    // Original error for debugging
}

// Error implements the error interface.
func (e *CLIError) Error() string {
	var msg strings.Builder

	// Start with operation context
	if e.Operation != "" {
		msg.WriteString(fmt.Sprintf("Failed to %s", e.Operation))
	} else {
		msg.WriteString("Operation failed")
	}

	// Add the main cause
	if e.Cause != "" {
		msg.WriteString(fmt.Sprintf(": %s", e.Cause))
	}

	// Add technical details if available
	if e.Details != "" {
		msg.WriteString(fmt.Sprintf(" (%s)", e.Details))
	}

	// Add suggestions
	if len(e.Suggestions) > 0 {
		msg.WriteString("\n\nSuggestions:")
		for i, suggestion := range e.Suggestions {
			msg.WriteString(fmt.Sprintf("\n  %d. %s", i+1, suggestion))
		}
	}

	return msg.String()
}

// Unwrap returns the underlying error for error chain compatibility.
func (e *CLIError) Unwrap() error {
	return e.Underlying
}

// Error constructors for common CLI error scenarios

// NewValidationError creates an error for validation failures.
func NewValidationError(operation, field, value string, suggestions ...string) *CLIError {
	return &CLIError{
		Operation:   operation,
		Cause:       fmt.Sprintf("invalid %s: %q", field, value),
		Suggestions: suggestions,
	}
}

// NewNotFoundError creates an error for missing resources.
func NewNotFoundError(operation, resource, id string, suggestions ...string) *CLIError {
	return &CLIError{
		Operation:   operation,
		Cause:       fmt.Sprintf("%s with ID %q not found", resource, id),
		Suggestions: suggestions,
	}
}

// NewConfigError creates an error for configuration issues.
func NewConfigError(operation, issue string, suggestions ...string) *CLIError {
	return &CLIError{
		Operation:   operation,
		Cause:       fmt.Sprintf("configuration error: %s", issue),
		Suggestions: suggestions,
	}
}

// NewStoreError creates an error for store-related issues.
func NewStoreError(operation string, underlying error, suggestions ...string) *CLIError {
	cause := "store operation failed"
	details := ""

	if underlying != nil {
		details = underlying.Error()

		// Provide more user-friendly descriptions for common errors
		errStr := strings.ToLower(underlying.Error())
		switch {
		case strings.Contains(errStr, "no such file"):
			cause = "store file not found"
		case strings.Contains(errStr, "permission denied"):
			cause = "insufficient permissions to access the store"
		case strings.Contains(errStr, "database is locked"), strings.Contains(errStr, "failed to acquire"):
			cause = "store is currently locked by another process"
		case strings.Contains(errStr, "not found"):
			cause = "resource not found"
		case strings.Contains(errStr, "invalid"):
			cause = "invalid data provided"
		}
	}

	return &CLIError{
		Operation:   operation,
		Cause:       cause,
		Details:     details,
		Suggestions: suggestions,
		Underlying:  underlying,
	}
}

// NewFormError creates an error for a rejected form submission. Field
// messages are listed in field order.
func NewFormError(operation string, err error) *CLIError {
	fields := validation.Fields(err)
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	slices.Sort(names)

	causes := make([]string, 0, len(names))
	for _, name := range names {
		causes = append(causes, fields[name])
	}

	return &CLIError{
		Operation: operation,
		Cause:     strings.Join(causes, "; "),
		Suggestions: []string{
			CommonSuggestions.CheckDate,
			CommonSuggestions.CheckPriority,
		},
		Underlying: err,
	}
}

// WrapError wraps an existing error with CLI-friendly context.
func WrapError(operation string, err error, suggestions ...string) error {
	if err == nil {
		return nil
	}

	// If it's already a CLIError, just update the operation
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		if cliErr.Operation == "" {
			cliErr.Operation = operation
		}
		return cliErr
	}

	return NewStoreError(operation, err, suggestions...)
}

// Common error messages and suggestions.
var (
	CommonSuggestions = struct {
		CheckStore    string
		CheckID       string
		CheckConfig   string
		CheckDate     string
		CheckPriority string
		CheckFormat   string
		RunHelp       string
		CheckPerms    string
	}{
		CheckStore:    "Verify --store points to a valid store file and --backend matches it",
		CheckID:       "Verify the task ID exists (try 'list --status all' first)",
		CheckConfig:   "Check nanotasks.yaml or NANOTASKS_* environment variables",
		CheckDate:     "Dates use the YYYY-MM-DD format",
		CheckPriority: "Priorities are low, medium or high",
		CheckFormat:   "Run 'nanotasks export --help' to see available formats",
		RunHelp:       "Run command with --help for usage information",
		CheckPerms:    "Check file permissions and directory access",
	}
)
