package ask

import (
	"sort"
	"strings"
)

// Lists holds the three raw collections the pane can show. A nil slice
// means the collection has not been loaded.
type Lists struct {
	Owned    []Conversation
	Archived []Conversation
	Shared   []SharedConversationSummary
}

// matchesQuery searches title and summary joined without a separator.
func matchesQuery(title, summary, query string) bool {
	return strings.Contains(strings.ToLower(title+summary), query)
}

func normalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// FilterConversations keeps conversations whose title or summary contains
// query, case-insensitively. An empty query returns the input unchanged.
func FilterConversations(in []Conversation, query string) []Conversation {
	q := normalizeQuery(query)
	if q == "" {
		return in
	}
	out := make([]Conversation, 0, len(in))
	for _, c := range in {
		if matchesQuery(c.Title, c.Summary, q) {
			out = append(out, c)
		}
	}
	return out
}

// FilterShared is FilterConversations for the shared list.
func FilterShared(in []SharedConversationSummary, query string) []SharedConversationSummary {
	q := normalizeQuery(query)
	if q == "" {
		return in
	}
	out := make([]SharedConversationSummary, 0, len(in))
	for _, s := range in {
		if matchesQuery(s.Title, s.Summary, q) {
			out = append(out, s)
		}
	}
	return out
}

// Item is a mode-independent row of the visible list.
type Item struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Summary   string `json:"summary,omitempty"`
	UpdatedAt string `json:"updatedAt"`
	OwnerTag  string `json:"ownerTag,omitempty"`
	Shared    bool   `json:"shared"`
	Archived  bool   `json:"archived"`
}

// Visible projects the list for mode after filtering by query.
func (l Lists) Visible(mode ListMode, query string) []Item {
	switch mode {
	case ModeShared:
		filtered := FilterShared(l.Shared, query)
		out := make([]Item, 0, len(filtered))
		for _, s := range filtered {
			out = append(out, Item{
				ID:        s.ConversationID,
				Title:     s.Title,
				Summary:   s.Summary,
				UpdatedAt: s.UpdatedAt,
				OwnerTag:  s.OwnerTag,
				Shared:    true,
			})
		}
		return out
	case ModeArchived:
		return conversationItems(FilterConversations(l.Archived, query))
	default:
		return conversationItems(FilterConversations(l.Owned, query))
	}
}

func conversationItems(in []Conversation) []Item {
	out := make([]Item, 0, len(in))
	for _, c := range in {
		out = append(out, Item{
			ID:        c.ID,
			Title:     c.Title,
			Summary:   c.Summary,
			UpdatedAt: c.UpdatedAt,
			Shared:    c.EffectiveVisibility() != VisibilityPrivate,
			Archived:  c.Archived(),
		})
	}
	return out
}

// CandidateIDs lists the ids eligible to be active in mode.
func (l Lists) CandidateIDs(mode ListMode, query string) []string {
	items := l.Visible(mode, query)
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	return ids
}

// FindConversation looks id up in the owned then archived collections.
func (l Lists) FindConversation(id string) (Conversation, bool) {
	for _, c := range l.Owned {
		if c.ID == id {
			return c, true
		}
	}
	for _, c := range l.Archived {
		if c.ID == id {
			return c, true
		}
	}
	return Conversation{}, false
}

// FindShared looks id up in the shared collection.
func (l Lists) FindShared(id string) (SharedConversationSummary, bool) {
	for _, s := range l.Shared {
		if s.ConversationID == id {
			return s, true
		}
	}
	return SharedConversationSummary{}, false
}

// ResolveNextConversationID keeps current when it is a candidate, otherwise
// picks the first candidate. An empty result means no selection.
func ResolveNextConversationID(current string, candidates []string) string {
	if current != "" {
		for _, id := range candidates {
			if id == current {
				return current
			}
		}
	}
	if len(candidates) == 0 {
		return ""
	}
	return candidates[0]
}

// SortByRecency orders conversations by UpdatedAt, newest first. ISO-8601
// timestamps in the same zone sort lexically.
func SortByRecency(in []Conversation) {
	sort.SliceStable(in, func(i, j int) bool {
		return in[i].UpdatedAt > in[j].UpdatedAt
	})
}

// UpsertConversation replaces c by id or prepends it, then re-sorts.
func UpsertConversation(in []Conversation, c Conversation) []Conversation {
	out := make([]Conversation, 0, len(in)+1)
	replaced := false
	for _, existing := range in {
		if existing.ID == c.ID {
			out = append(out, c)
			replaced = true
			continue
		}
		out = append(out, existing)
	}
	if !replaced {
		out = append([]Conversation{c}, out...)
	}
	SortByRecency(out)
	return out
}

// RemoveConversation drops id from in.
func RemoveConversation(in []Conversation, id string) []Conversation {
	out := make([]Conversation, 0, len(in))
	for _, c := range in {
		if c.ID != id {
			out = append(out, c)
		}
	}
	return out
}
