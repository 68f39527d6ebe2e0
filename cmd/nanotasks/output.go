package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/nanotasks/types"
)

// Output formats accepted by --format on list and stats.
var outputFormats = []string{"table", "json", "yaml"}

// OutputFormatter handles formatting command results for different output formats.
type OutputFormatter struct {
	format string
}

// NewOutputFormatter creates a new output formatter.
func NewOutputFormatter(format string) (*OutputFormatter, error) {
	format = strings.ToLower(format)
	for _, f := range outputFormats {
		if f == format {
			return &OutputFormatter{format: format}, nil
		}
	}
	return nil, NewValidationError("format output", "format", format, "Use one of: "+strings.Join(outputFormats, ", "))
}

// Structured reports whether the format is json or yaml.
func (of *OutputFormatter) Structured() bool {
	return of.format != "table"
}

// Format formats data as json or yaml.
func (of *OutputFormatter) Format(data any) (string, error) {
	switch of.format {
	case "json":
		bytes, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return "", err
		}
		return string(bytes) + "\n", nil
	case "yaml":
		bytes, err := yaml.Marshal(data)
		if err != nil {
			return "", err
		}
		return string(bytes), nil
	default:
		return "", fmt.Errorf("format %q is not structured", of.format)
	}
}

var headerStyle = lipgloss.NewStyle().Bold(true)

// formatTaskTable renders tasks as a bordered table.
func formatTaskTable(tasks []types.Task) string {
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []string{t.ID.String(), t.Title, t.Date, t.Priority.Label()})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return lipgloss.NewStyle()
		}).
		Headers("ID", "TITLE", "DATE", "PRIORITY").
		Rows(rows...).
		String() + "\n"
}
