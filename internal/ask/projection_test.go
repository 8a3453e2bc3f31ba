package ask

import (
	"reflect"
	"testing"
)

func TestFilterConversations(t *testing.T) {
	in := []Conversation{
		{ID: "c1", Title: "Weekly sync", Summary: "Roadmap"},
		{ID: "c2", Title: "Budget review", Summary: "Q3 numbers"},
	}

	if got := FilterConversations(in, ""); !reflect.DeepEqual(got, in) {
		t.Fatalf("empty query should return input unchanged, got %v", got)
	}
	if got := FilterConversations(in, "  "); !reflect.DeepEqual(got, in) {
		t.Fatalf("blank query should return input unchanged, got %v", got)
	}

	got := FilterConversations(in, "ROADMAP")
	if len(got) != 1 || got[0].ID != "c1" {
		t.Fatalf("expected summary match on c1, got %v", got)
	}
	got = FilterConversations(in, "budget")
	if len(got) != 1 || got[0].ID != "c2" {
		t.Fatalf("expected title match on c2, got %v", got)
	}
}

func TestFilterMatchesAcrossTitleAndSummary(t *testing.T) {
	in := []Conversation{{ID: "c1", Title: "Weekly", Summary: "sync notes"}}

	if got := FilterConversations(in, "weeklysync"); len(got) != 1 {
		t.Fatalf("expected match spanning title and summary, got %v", got)
	}
	if got := FilterConversations(in, "weekly sync"); len(got) != 0 {
		t.Fatalf("no separator is inserted between title and summary, got %v", got)
	}
}

func TestSearchWithNoMatchesResolvesToNull(t *testing.T) {
	lists := Lists{Owned: []Conversation{
		{ID: "c1", Title: "Weekly sync"},
		{ID: "c2", Title: "Budget review"},
	}}
	candidates := lists.CandidateIDs(ModeMine, "zzz")
	if len(candidates) != 0 {
		t.Fatalf("expected empty filtered list, got %v", candidates)
	}
	if got := ResolveNextConversationID("c1", candidates); got != "" {
		t.Fatalf("expected no active id, got %q", got)
	}
}

func TestResolveNextConversationID(t *testing.T) {
	cases := []struct {
		current    string
		candidates []string
		want       string
	}{
		{"b", []string{"a", "b"}, "b"},
		{"z", []string{"a", "b"}, "a"},
		{"", []string{"a", "b"}, "a"},
		{"a", nil, ""},
		{"", nil, ""},
	}
	for _, tc := range cases {
		if got := ResolveNextConversationID(tc.current, tc.candidates); got != tc.want {
			t.Fatalf("resolve(%q, %v) = %q, want %q", tc.current, tc.candidates, got, tc.want)
		}
	}
}

func TestCandidateIDsDoNotCrossModes(t *testing.T) {
	lists := Lists{
		Owned:    []Conversation{{ID: "mine-1"}},
		Archived: []Conversation{{ID: "arch-1", ArchivedAt: "2025-01-01T00:00:00Z"}},
		Shared:   []SharedConversationSummary{{ConversationID: "shared-1"}},
	}
	if got := ResolveNextConversationID("mine-1", lists.CandidateIDs(ModeShared, "")); got != "shared-1" {
		t.Fatalf("an owned id must not be valid in shared mode, got %q", got)
	}
	if got := lists.CandidateIDs(ModeArchived, ""); !reflect.DeepEqual(got, []string{"arch-1"}) {
		t.Fatalf("unexpected archived candidates: %v", got)
	}
}

func TestUpsertConversationReplacesAndSorts(t *testing.T) {
	in := []Conversation{
		{ID: "a", UpdatedAt: "2025-01-02T00:00:00Z"},
		{ID: "b", UpdatedAt: "2025-01-01T00:00:00Z"},
	}
	out := UpsertConversation(in, Conversation{ID: "b", Title: "new", UpdatedAt: "2025-01-03T00:00:00Z"})
	if len(out) != 2 || out[0].ID != "b" || out[0].Title != "new" {
		t.Fatalf("expected replaced b first, got %v", out)
	}
	out = UpsertConversation(out, Conversation{ID: "c", UpdatedAt: "2024-12-31T00:00:00Z"})
	if len(out) != 3 || out[2].ID != "c" {
		t.Fatalf("expected c last by recency, got %v", out)
	}
	if in[1].Title != "" {
		t.Fatalf("input slice must not be mutated")
	}
}

func TestParseListMode(t *testing.T) {
	if m, ok := ParseListMode("archived"); !ok || m != ModeArchived {
		t.Fatalf("expected archived, got %q ok=%v", m, ok)
	}
	if m, ok := ParseListMode(""); !ok || m != ModeMine {
		t.Fatalf("expected mine default, got %q ok=%v", m, ok)
	}
	if m, ok := ParseListMode("bogus"); ok || m != ModeMine {
		t.Fatalf("expected mine fallback with ok=false, got %q ok=%v", m, ok)
	}
}
