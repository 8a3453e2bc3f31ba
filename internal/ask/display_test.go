package ask

import (
	"reflect"
	"testing"
)

func TestResolveShareDisplayVisibility(t *testing.T) {
	cases := []struct {
		in      Visibility
		enabled bool
		want    Visibility
	}{
		{VisibilityPublic, false, VisibilityServer},
		{VisibilityPublic, true, VisibilityPublic},
		{VisibilityPrivate, true, VisibilityPrivate},
		{VisibilityPrivate, false, VisibilityPrivate},
		{VisibilityServer, false, VisibilityServer},
		{"", false, VisibilityPrivate},
	}
	for _, tc := range cases {
		if got := ResolveShareDisplayVisibility(tc.in, tc.enabled); got != tc.want {
			t.Fatalf("resolve(%q, %v) = %q, want %q", tc.in, tc.enabled, got, tc.want)
		}
	}
}

func TestShareBadgeLabel(t *testing.T) {
	if ShareBadgeLabel(VisibilityPublic) != "Public" {
		t.Fatalf("expected Public badge")
	}
	if ShareBadgeLabel(VisibilityServer) != "Shared" {
		t.Fatalf("expected Shared badge")
	}
}

func TestDisplayTitle(t *testing.T) {
	active := &Conversation{Title: "Real"}
	opt := &Conversation{Title: "Optimistic"}
	if got := DisplayTitle(active, opt); got != "Real" {
		t.Fatalf("got %q", got)
	}
	if got := DisplayTitle(nil, opt); got != "Optimistic" {
		t.Fatalf("got %q", got)
	}
	if got := DisplayTitle(nil, nil); got != DefaultTitle {
		t.Fatalf("got %q", got)
	}
}

func TestDisplayMessages(t *testing.T) {
	placeholder := ThinkingPlaceholder("now")
	confirmed := []Message{
		{ID: "m1", Role: RoleUser, Text: "first"},
		{ID: "m2", Role: RoleAssistant, Text: "answer"},
	}
	opt := []Message{{ID: "optimistic-1", Role: RoleUser, Text: "second"}}

	got := ids(DisplayMessages(confirmed, nil, true, placeholder))
	if !reflect.DeepEqual(got, []string{"m1", "m2"}) {
		t.Fatalf("no optimistic messages means no placeholder, got %v", got)
	}

	got = ids(DisplayMessages(confirmed, opt, true, placeholder))
	if !reflect.DeepEqual(got, []string{"m1", "m2", "optimistic-1", "thinking"}) {
		t.Fatalf("unexpected pending sequence: %v", got)
	}

	got = ids(DisplayMessages(confirmed, opt, false, placeholder))
	if !reflect.DeepEqual(got, []string{"m1", "m2", "optimistic-1"}) {
		t.Fatalf("unexpected failed sequence: %v", got)
	}

	caughtUp := append(confirmed, Message{ID: "m3", Role: RoleUser, Text: "second"})
	got = ids(DisplayMessages(caughtUp, opt, true, placeholder))
	if !reflect.DeepEqual(got, []string{"m1", "m2", "m3", "thinking"}) {
		t.Fatalf("optimistic duplicate should be dropped once the server caught up: %v", got)
	}
}
