// Package search ranks tasks against a free-text query. It reads the
// collection through the same Source the view projector uses.
package search

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/arthur-debert/nanotasks/nanotasks/view"
	"github.com/arthur-debert/nanotasks/types"
)

// Field names a searchable task field.
type Field string

const (
	FieldTitle       Field = "title"
	FieldDescription Field = "description"
)

// Fields lists every searchable field.
var Fields = []Field{FieldTitle, FieldDescription}

// ParseField parses a field name as typed by a user.
func ParseField(s string) (Field, bool) {
	f := Field(strings.ToLower(strings.TrimSpace(s)))
	return f, slices.Contains(Fields, f)
}

// MatchType describes where the best match was found.
type MatchType string

const (
	MatchExactTitle         MatchType = "exact_title"
	MatchPartialTitle       MatchType = "partial_title"
	MatchExactDescription   MatchType = "exact_description"
	MatchPartialDescription MatchType = "partial_description"
)

// Options configures a search.
type Options struct {
	Query string

	// Fields restricts the search. Empty searches every field.
	Fields []Field

	// Status restricts results to one list. Empty searches both.
	Status types.Status

	CaseSensitive bool

	// ExactMatch requires the whole field to equal the query.
	ExactMatch bool

	// Highlight wraps each match in Marker.
	Highlight bool
	Marker    string

	// Limit caps the number of results; zero means no limit.
	Limit int
}

// Result is one matching task.
type Result struct {
	Task          types.Task       `json:"task" yaml:"task"`
	Score         float64          `json:"score" yaml:"score"`
	MatchType     MatchType        `json:"match_type" yaml:"match_type"`
	MatchedFields []Field          `json:"matched_fields" yaml:"matched_fields"`
	Highlights    map[Field]string `json:"highlights,omitempty" yaml:"highlights,omitempty"`
}

// Engine searches the tasks of a Source.
type Engine struct {
	src view.Source
}

// New creates an engine over src.
func New(src view.Source) *Engine {
	return &Engine{src: src}
}

// Search returns the tasks matching opts, best score first. Ties keep
// display order: higher priority first, then collection order.
func (e *Engine) Search(opts Options) []Result {
	if strings.TrimSpace(opts.Query) == "" {
		return []Result{}
	}

	tasks := e.src.All()
	view.SortByPriority(tasks)

	results := []Result{}
	for _, task := range tasks {
		if opts.Status != "" && task.Status() != opts.Status {
			continue
		}
		if r, ok := match(task, opts); ok {
			results = append(results, r)
		}
	}

	slices.SortStableFunc(results, func(a, b Result) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		}
		return 0
	})

	if opts.Limit > 0 && len(results) > opts.Limit {
		results = results[:opts.Limit]
	}
	return results
}

func match(task types.Task, opts Options) (Result, bool) {
	fields := opts.Fields
	if len(fields) == 0 {
		fields = Fields
	}

	r := Result{Task: task}
	for _, f := range fields {
		text := fieldValue(task, f)
		spans := find(text, opts.Query, opts.CaseSensitive, opts.ExactMatch)
		if len(spans) == 0 {
			continue
		}

		r.MatchedFields = append(r.MatchedFields, f)
		if s := score(text, opts.Query, f, opts); s > r.Score {
			r.Score = s
			r.MatchType = matchType(f, opts.ExactMatch)
		}
		if opts.Highlight {
			if r.Highlights == nil {
				r.Highlights = make(map[Field]string)
			}
			r.Highlights[f] = highlight(text, spans, opts.Marker)
		}
	}
	return r, len(r.MatchedFields) > 0
}

func fieldValue(task types.Task, f Field) string {
	switch f {
	case FieldTitle:
		return task.Title
	case FieldDescription:
		return task.Description
	}
	return ""
}

func matchType(f Field, exact bool) MatchType {
	switch {
	case f == FieldTitle && exact:
		return MatchExactTitle
	case f == FieldTitle:
		return MatchPartialTitle
	case exact:
		return MatchExactDescription
	}
	return MatchPartialDescription
}

// span is a match as byte offsets into the original text.
type span struct {
	start, end int
}

// find returns the non-overlapping matches of query in text. Case folding
// is done rune by rune, so a match may cover a different number of bytes
// than the query.
func find(text, query string, caseSensitive, exact bool) []span {
	if query == "" {
		return nil
	}

	if exact {
		if text == query || (!caseSensitive && strings.EqualFold(text, query)) {
			return []span{{0, len(text)}}
		}
		return nil
	}

	var out []span
	for i := 0; i < len(text); {
		if n := matchAt(text[i:], query, caseSensitive); n > 0 {
			out = append(out, span{i, i + n})
			i += n
			continue
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		i += size
	}
	return out
}

// matchAt returns the number of bytes of s matched by query at its start,
// or 0 when s does not start with query.
func matchAt(s, query string, caseSensitive bool) int {
	if caseSensitive {
		if strings.HasPrefix(s, query) {
			return len(query)
		}
		return 0
	}

	n := 0
	for _, qr := range query {
		if n >= len(s) {
			return 0
		}
		r, size := utf8.DecodeRuneInString(s[n:])
		if r != qr && !strings.EqualFold(string(r), string(qr)) {
			return 0
		}
		n += size
	}
	return n
}

// score rates a match between 0 and 1. Title hits, prefix hits and queries
// covering most of the field rank higher.
func score(text, query string, f Field, opts Options) float64 {
	if opts.ExactMatch {
		return 1
	}

	s := 0.5
	if f == FieldTitle {
		s = 0.8
	}
	if matchAt(text, query, opts.CaseSensitive) > 0 {
		s += 0.2
	}
	if len(text) > 0 && float64(len(query))/float64(len(text)) > 0.5 {
		s += 0.1
	}
	return min(s, 1)
}

func highlight(text string, spans []span, marker string) string {
	if marker == "" {
		marker = "**"
	}

	var b strings.Builder
	last := 0
	for _, sp := range spans {
		b.WriteString(text[last:sp.start])
		b.WriteString(marker)
		b.WriteString(text[sp.start:sp.end])
		b.WriteString(marker)
		last = sp.end
	}
	b.WriteString(text[last:])
	return b.String()
}
