// Package formats serializes single tasks into human-editable documents,
// used by export archives and the import command.
package formats

import (
	"fmt"
	"slices"
	"strings"

	"github.com/arthur-debert/nanotasks/types"
)

// TaskFormat defines how a task is serialized to and parsed from a document.
type TaskFormat struct {
	// Name is the format identifier (alphanumeric, dashes, underscores, lowercase).
	Name string

	// Extension is the file extension including the dot (e.g., ".txt", ".md").
	Extension string

	// Serialize renders a task as a document.
	Serialize func(task types.Task) string

	// Parse reads a task back from a document. The ID is set only when the
	// document records one.
	Parse func(document string) (types.Task, error)
}

// registry holds all available task formats.
var registry = make(map[string]*TaskFormat)

// Register adds a new task format to the registry.
func Register(format *TaskFormat) error {
	if !isValidFormatName(format.Name) {
		return fmt.Errorf("invalid format name %q: must be lowercase alphanumeric with dashes and underscores only", format.Name)
	}

	if !strings.HasPrefix(format.Extension, ".") {
		format.Extension = "." + format.Extension
	}

	if _, exists := registry[format.Name]; exists {
		return fmt.Errorf("format %q already registered", format.Name)
	}

	registry[format.Name] = format
	return nil
}

// Get returns a task format by name.
func Get(name string) (*TaskFormat, error) {
	format, exists := registry[strings.ToLower(name)]
	if !exists {
		return nil, fmt.Errorf("unknown format %q (available: %s)", name, strings.Join(List(), ", "))
	}
	return format, nil
}

// ForExtension returns the format registered for a file extension.
func ForExtension(ext string) (*TaskFormat, bool) {
	ext = strings.ToLower(ext)
	for _, f := range registry {
		if f.Extension == ext {
			return f, true
		}
	}
	return nil, false
}

// List returns all registered format names, sorted.
func List() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// isValidFormatName checks if a format name is valid.
func isValidFormatName(name string) bool {
	if name == "" {
		return false
	}

	for _, r := range name {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' && r != '_' {
			return false
		}
	}
	return true
}
