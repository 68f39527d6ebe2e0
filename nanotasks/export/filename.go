package export

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/arthur-debert/nanotasks/formats"
	"github.com/arthur-debert/nanotasks/types"
)

const maxSlugLength = 40

var dashRuns = regexp.MustCompile("-+")

// path returns the archive path of a task document:
// <status>/<id>-<slug><ext>.
func path(task types.Task, format *formats.TaskFormat) string {
	return string(task.Status()) + "/" + Filename(task, format)
}

// Filename creates a filename for a task using the format <id>-<slug><ext>.
// The slug comes from the title, or from the description when the title
// is empty.
func Filename(task types.Task, format *formats.TaskFormat) string {
	source := task.Title
	if source == "" {
		source = task.Description
	}

	ext := format.Extension
	if ext == "" {
		ext = ".txt"
	}
	return task.ID.String() + "-" + Slug(source) + ext
}

// Slug cleans a title for use in a file name:
// lowercase, spaces become dashes, only letters, digits, dash and
// underscore are kept, at most 40 bytes, "untitled" when nothing is left.
func Slug(title string) string {
	result := strings.ToLower(title)
	result = strings.ReplaceAll(result, " ", "-")

	var builder strings.Builder
	for _, r := range result {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			builder.WriteRune(r)
		}
	}

	result = dashRuns.ReplaceAllString(builder.String(), "-")
	result = strings.Trim(result, "-")

	if len(result) > maxSlugLength {
		result = truncate(result, maxSlugLength)
	}
	if result == "" {
		result = "untitled"
	}
	return result
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	cut := 0
	for i := range s {
		if i > n {
			break
		}
		cut = i
	}
	return strings.TrimRight(s[:cut], "-")
}
