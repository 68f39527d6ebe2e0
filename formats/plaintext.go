package formats

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/arthur-debert/nanotasks/types"
)

// PlainText format implementation
// Serialization: metadata lines (key: value), separator (---), blank line,
// title, blank line, description
// Parsing: metadata section is optional; first line is the title and
// everything after the following blank line is the description.
var PlainText = &TaskFormat{
	Name:      "plaintext",
	Extension: ".txt",
	Serialize: func(task types.Task) string {
		var result strings.Builder

		if task.ID != 0 {
			fmt.Fprintf(&result, "id: %d\n", task.ID)
		}
		fmt.Fprintf(&result, "priority: %s\n", task.Priority)
		fmt.Fprintf(&result, "date: %s\n", task.Date)
		fmt.Fprintf(&result, "completed: %t\n", task.Completed)
		result.WriteString("---\n\n")

		result.WriteString(task.Title)
		result.WriteString("\n")
		if task.Description != "" {
			result.WriteString("\n")
			result.WriteString(task.Description)
			result.WriteString("\n")
		}
		return result.String()
	},
	Parse: func(document string) (types.Task, error) {
		var task types.Task
		if strings.TrimSpace(document) == "" {
			return task, fmt.Errorf("empty document")
		}

		lines := strings.Split(strings.ReplaceAll(document, "\r\n", "\n"), "\n")
		if hasMetadataSection(lines) {
			metadata, start, err := parseMetadataSection(lines)
			if err != nil {
				return task, err
			}
			if err := applyMetadata(&task, metadata); err != nil {
				return task, err
			}
			lines = lines[start:]
		}

		task.Title, task.Description = splitTitle(lines)
		return task, nil
	},
}

func init() {
	if err := Register(PlainText); err != nil {
		panic(fmt.Sprintf("failed to register PlainText format: %v", err))
	}
}

// hasMetadataSection checks if the document starts with a metadata section.
func hasMetadataSection(lines []string) bool {
	if len(lines) < 2 || !strings.Contains(lines[0], ": ") {
		return false
	}

	// Look for separator line within first 20 lines
	for i := 1; i < len(lines) && i < 20; i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return true
		}
	}
	return false
}

// parseMetadataSection parses the metadata lines and returns the index where content starts.
func parseMetadataSection(lines []string) (map[string]string, int, error) {
	metadata := make(map[string]string)
	separatorIndex := -1

	for i := 0; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			separatorIndex = i
			break
		}
	}
	if separatorIndex == -1 {
		return nil, 0, fmt.Errorf("metadata section found but no separator")
	}

	for i := 0; i < separatorIndex; i++ {
		parts := strings.SplitN(lines[i], ": ", 2)
		if len(parts) == 2 {
			metadata[strings.ToLower(strings.TrimSpace(parts[0]))] = strings.TrimSpace(parts[1])
		}
	}

	return metadata, skipBlank(lines, separatorIndex+1), nil
}

// applyMetadata copies known metadata keys onto task. Unknown keys are ignored.
func applyMetadata(task *types.Task, metadata map[string]string) error {
	if v, ok := metadata["id"]; ok && v != "" {
		id, err := types.ParseID(v)
		if err != nil {
			return err
		}
		task.ID = id
	}
	if v, ok := metadata["priority"]; ok {
		p, err := types.ParsePriority(v)
		if err != nil {
			return err
		}
		task.Priority = p
	}
	if v, ok := metadata["date"]; ok {
		task.Date = v
	}
	if v, ok := metadata["completed"]; ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid completed value %q", v)
		}
		task.Completed = b
	}
	return nil
}
