package route

import (
	"errors"
	"testing"

	"github.com/BASIC-BIT/meeting-notes-discord-bot-sub002/internal/ask"
)

func TestParse(t *testing.T) {
	cases := []struct {
		raw  string
		want Route
	}{
		{"/ask", Route{Mode: ask.ModeMine}},
		{"/ask/", Route{Mode: ask.ModeMine}},
		{"/ask/c1", Route{Mode: ask.ModeMine, ConversationID: "c1"}},
		{"/ask/c1?list=archived", Route{Mode: ask.ModeArchived, ConversationID: "c1"}},
		{"/ask/c2?list=shared&messageId=m7", Route{Mode: ask.ModeShared, ConversationID: "c2", MessageID: "m7"}},
		{"https://portal.example/ask/c3?list=bogus", Route{Mode: ask.ModeMine, ConversationID: "c3"}},
	}
	for _, tc := range cases {
		got, err := Parse(tc.raw)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("Parse(%q) = %+v, want %+v", tc.raw, got, tc.want)
		}
	}
}

func TestParseRejectsForeignPaths(t *testing.T) {
	for _, raw := range []string{"/settings", "/ask/a/b", "/asking"} {
		if _, err := Parse(raw); !errors.Is(err, ErrInvalidPath) {
			t.Fatalf("Parse(%q) expected ErrInvalidPath, got %v", raw, err)
		}
	}
}

func TestRouteStringRoundTrip(t *testing.T) {
	r := Route{Mode: ask.ModeShared, ConversationID: "c 1", MessageID: "m2"}
	got, err := Parse(r.String())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got != r {
		t.Fatalf("round trip mismatch: %+v vs %+v (%s)", got, r, r.String())
	}
	if (Route{Mode: ask.ModeMine}).String() != "/ask" {
		t.Fatalf("mine mode should not add a query")
	}
}

func TestHistoryNavigate(t *testing.T) {
	h := NewHistory(Route{ConversationID: "c1", MessageID: "m9"})
	if h.Current().Mode != ask.ModeMine {
		t.Fatalf("expected default mode mine")
	}

	r := h.NavigateToConversation("c1", ask.ModeMine)
	if r.MessageID != "m9" || h.Len() != 1 {
		t.Fatalf("same destination should be a no-op keeping the deep link: %+v len=%d", r, h.Len())
	}

	r = h.NavigateToConversation("c2", ask.ModeArchived)
	if r.MessageID != "" || r.ConversationID != "c2" || r.Mode != ask.ModeArchived {
		t.Fatalf("unexpected route: %+v", r)
	}

	r = h.NavigateToConversation("", ask.ModeArchived)
	if r.ConversationID != "" {
		t.Fatalf("expected cleared selection: %+v", r)
	}

	if back := h.Back(); back.ConversationID != "c2" {
		t.Fatalf("expected back to c2, got %+v", back)
	}
}
