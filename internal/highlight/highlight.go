// Package highlight marks case-insensitive occurrences of the list search
// query in rendered text without disturbing ANSI styling.
package highlight

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/BASIC-BIT/meeting-notes-discord-bot-sub002/internal/ask"
)

var ansiCSI = regexp.MustCompile(`\x1b\[[0-?]*[ -/]*[@-~]`)

type Marker struct {
	query string
	wrap  func(string) string
}

// New builds a Marker rendering matches with style.
func New(query string, style lipgloss.Style) Marker {
	return WithWrap(query, func(s string) string { return style.Render(s) })
}

func WithWrap(query string, wrap func(string) string) Marker {
	if wrap == nil {
		wrap = func(s string) string { return s }
	}
	return Marker{query: strings.TrimSpace(query), wrap: wrap}
}

func (m Marker) Active() bool { return m.query != "" }

type Result struct {
	Text      string
	Count     int
	LineIndex []int
}

// Lines marks every line of input and records which lines matched.
func (m Marker) Lines(input string) Result {
	if !m.Active() {
		return Result{Text: input}
	}

	var out strings.Builder
	lineMatches := make([]int, 0, 16)
	total := 0
	for lineNo, line := range strings.SplitAfter(input, "\n") {
		core, hasNewline := strings.CutSuffix(line, "\n")
		rendered, count := m.ansiText(core)
		out.WriteString(rendered)
		if hasNewline {
			out.WriteByte('\n')
		}
		if count > 0 {
			lineMatches = append(lineMatches, lineNo)
			total += count
		}
	}
	return Result{Text: out.String(), Count: total, LineIndex: lineMatches}
}

// Text marks a single already-styled string.
func (m Marker) Text(s string) (string, int) {
	if !m.Active() {
		return s, 0
	}
	return m.ansiText(s)
}

// Row is a list item with its matches marked.
type Row struct {
	Title   string
	Summary string
	Matches int
}

// Item marks the fields the list filter searches.
func (m Marker) Item(it ask.Item) Row {
	title, tc := m.Text(it.Title)
	summary, sc := m.Text(it.Summary)
	return Row{Title: title, Summary: summary, Matches: tc + sc}
}

func (m Marker) ansiText(s string) (string, int) {
	indices := ansiCSI.FindAllStringIndex(s, -1)
	if len(indices) == 0 {
		return m.plain(s)
	}

	var out strings.Builder
	total := 0
	pos := 0
	for _, idx := range indices {
		if idx[0] > pos {
			plain, count := m.plain(s[pos:idx[0]])
			out.WriteString(plain)
			total += count
		}
		out.WriteString(s[idx[0]:idx[1]])
		pos = idx[1]
	}
	if pos < len(s) {
		plain, count := m.plain(s[pos:])
		out.WriteString(plain)
		total += count
	}
	return out.String(), total
}

// plain matches on lowered bytes, so it only marks when lowering keeps the
// byte length; otherwise the text is returned untouched.
func (m Marker) plain(s string) (string, int) {
	if s == "" {
		return s, 0
	}
	lower := strings.ToLower(s)
	q := strings.ToLower(m.query)
	if len(lower) != len(s) || !strings.Contains(lower, q) {
		return s, 0
	}

	var out strings.Builder
	count := 0
	start := 0
	for {
		rel := strings.Index(lower[start:], q)
		if rel < 0 {
			out.WriteString(s[start:])
			break
		}
		idx := start + rel
		end := idx + len(q)
		out.WriteString(s[start:idx])
		out.WriteString(m.wrap(s[idx:end]))
		count++
		start = end
	}
	return out.String(), count
}
