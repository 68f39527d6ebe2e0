package types

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Priority classifies a task for display order.
type Priority int

const (
	// PriorityLow is the zero value so an unset priority defaults to low.
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
)

// Priorities lists every priority in display order.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// rank is the total display order: lower ranks are listed first.
var rank = map[Priority]int{
	PriorityHigh:   0,
	PriorityMedium: 1,
	PriorityLow:    2,
}

// priorityNames also accepts the legacy names written by older clients.
var priorityNames = map[string]Priority{
	"low":    PriorityLow,
	"medium": PriorityMedium,
	"high":   PriorityHigh,
	"baixa":  PriorityLow,
	"media":  PriorityMedium,
	"média":  PriorityMedium,
	"alta":   PriorityHigh,
}

var labelCaser = cases.Title(language.Und)

// String returns the canonical name of the priority.
func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	default:
		return "unknown"
	}
}

// Label returns the display form of the priority ("High").
func (p Priority) Label() string {
	return labelCaser.String(p.String())
}

// Rank returns the position of the priority in display order.
func (p Priority) Rank() int {
	if r, ok := rank[p]; ok {
		return r
	}
	return len(rank)
}

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	_, ok := rank[p]
	return ok
}

// Compare orders priorities for display: high before medium before low.
func (p Priority) Compare(other Priority) int {
	return p.Rank() - other.Rank()
}

// ParsePriority parses a priority name. The empty string yields PriorityLow.
func ParsePriority(s string) (Priority, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return PriorityLow, nil
	}
	if p, ok := priorityNames[s]; ok {
		return p, nil
	}
	return PriorityLow, fmt.Errorf("invalid priority %q (use low, medium or high)", s)
}

// MarshalText implements encoding.TextMarshaler.
func (p Priority) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("invalid priority %d", int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Priority) UnmarshalText(text []byte) error {
	parsed, err := ParsePriority(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// UnmarshalJSON accepts a priority name or null (treated as low).
func (p *Priority) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*p = PriorityLow
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("priority must be a string: %w", err)
	}
	return p.UnmarshalText([]byte(s))
}
