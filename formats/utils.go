package formats

import "strings"

// isBlankLine checks if a line contains only whitespace.
func isBlankLine(line string) bool {
	return strings.TrimSpace(line) == ""
}

// skipBlank returns the index of the first non-blank line at or after i.
func skipBlank(lines []string, i int) int {
	for i < len(lines) && isBlankLine(lines[i]) {
		i++
	}
	return i
}

// splitTitle takes the first non-blank line as the title and the rest,
// trimmed, as the description.
func splitTitle(lines []string) (string, string) {
	start := skipBlank(lines, 0)
	if start >= len(lines) {
		return "", ""
	}
	title := strings.TrimSpace(lines[start])
	rest := lines[skipBlank(lines, start+1):]
	return title, strings.TrimSpace(strings.Join(rest, "\n"))
}
