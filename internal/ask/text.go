package ask

import (
	"strings"
	"unicode/utf8"
)

// TitleLimit is the length auto-derived titles are cut to.
const TitleLimit = 48

// Truncate returns s unchanged when it has at most n characters, otherwise
// the first n characters followed by "...".
func Truncate(s string, n int) string {
	if n < 0 {
		n = 0
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "..."
}

// TitleFromQuestion derives the provisional title shown for a new conversation.
func TitleFromQuestion(question string) string {
	return Truncate(strings.TrimSpace(question), TitleLimit)
}

// DedupeMessages drops repeated ids. The first occurrence wins and relative
// order is preserved.
func DedupeMessages(msgs []Message) []Message {
	seen := make(map[string]struct{}, len(msgs))
	out := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		if _, ok := seen[m.ID]; ok {
			continue
		}
		seen[m.ID] = struct{}{}
		out = append(out, m)
	}
	return out
}

// MergeMessages concatenates a and b and de-duplicates by id.
func MergeMessages(a, b []Message) []Message {
	all := make([]Message, 0, len(a)+len(b))
	all = append(all, a...)
	all = append(all, b...)
	return DedupeMessages(all)
}

// WithoutThinking strips the transient placeholder.
func WithoutThinking(msgs []Message) []Message {
	out := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		if m.IsThinking() {
			continue
		}
		out = append(out, m)
	}
	return out
}

// HasConfirmedEcho reports whether confirmed already contains the user turn
// represented by optimistic. A matching client request id wins; servers that
// do not echo ids are matched on trimmed text.
func HasConfirmedEcho(confirmed []Message, optimistic Message) bool {
	text := strings.TrimSpace(optimistic.Text)
	for _, m := range confirmed {
		if m.Role != RoleUser {
			continue
		}
		if optimistic.ClientRequestID != "" && m.ClientRequestID != "" {
			if m.ClientRequestID == optimistic.ClientRequestID {
				return true
			}
			continue
		}
		if text != "" && strings.TrimSpace(m.Text) == text {
			return true
		}
	}
	return false
}
