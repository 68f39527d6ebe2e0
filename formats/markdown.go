package formats

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/nanotasks/types"
)

// markdownTitleRegex matches markdown h1 headers (must be at very start, no leading space).
var markdownTitleRegex = regexp.MustCompile(`^#\s+(.+?)[\s]*$`)

// frontMatter is the YAML header of a markdown task document.
type frontMatter struct {
	ID        types.ID       `yaml:"id,omitempty"`
	Date      string         `yaml:"date"`
	Priority  types.Priority `yaml:"priority"`
	Completed bool           `yaml:"completed"`
}

// Markdown format implementation
// Serialization: YAML front matter between --- lines, # Title, blank line, description
// Parsing: front matter is optional; a leading # header is the title,
// otherwise the first line is.
var Markdown = &TaskFormat{
	Name:      "markdown",
	Extension: ".md",
	Serialize: func(task types.Task) string {
		var result strings.Builder

		header, err := yaml.Marshal(frontMatter{
			ID:        task.ID,
			Date:      task.Date,
			Priority:  task.Priority,
			Completed: task.Completed,
		})
		if err == nil {
			result.WriteString("---\n")
			result.Write(header)
			result.WriteString("---\n\n")
		}

		result.WriteString("# ")
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
		if strings.TrimSpace(lines[0]) == "---" {
			end := -1
			for i := 1; i < len(lines); i++ {
				if strings.TrimSpace(lines[i]) == "---" {
					end = i
					break
				}
			}
			if end == -1 {
				return task, fmt.Errorf("front matter is not closed")
			}

			var fm frontMatter
			if err := yaml.Unmarshal([]byte(strings.Join(lines[1:end], "\n")), &fm); err != nil {
				return task, fmt.Errorf("invalid front matter: %w", err)
			}
			task.ID = fm.ID
			task.Date = fm.Date
			task.Priority = fm.Priority
			task.Completed = fm.Completed
			lines = lines[end+1:]
		}

		start := skipBlank(lines, 0)
		if start < len(lines) {
			if matches := markdownTitleRegex.FindStringSubmatch(lines[start]); len(matches) > 1 {
				lines[start] = matches[1]
			}
		}
		task.Title, task.Description = splitTitle(lines[start:])
		return task, nil
	},
}

func init() {
	if err := Register(Markdown); err != nil {
		panic(fmt.Sprintf("failed to register Markdown format: %v", err))
	}
}
