package engine

import (
	"reflect"
	"testing"

	"github.com/BASIC-BIT/meeting-notes-discord-bot-sub002/internal/ask"
)

func kinds(effects []Effect) []EffectKind {
	out := make([]EffectKind, 0, len(effects))
	for _, e := range effects {
		out = append(out, e.Kind)
	}
	return out
}

func findNavigate(effects []Effect) (Effect, bool) {
	for _, e := range effects {
		if e.Kind == EffectNavigate {
			return e, true
		}
	}
	return Effect{}, false
}

func baseInputs() Inputs {
	return Inputs{
		ServerID:       "g1",
		AskAllowed:     true,
		SharingEnabled: true,
		Mode:           ask.ModeMine,
	}
}

func TestReconcileSelectsFirstCandidate(t *testing.T) {
	in := baseInputs()
	in.Candidates = []string{"c1", "c2"}

	_, effects := Reconcile(in, in, true, State{})
	nav, ok := findNavigate(effects)
	if !ok {
		t.Fatalf("expected navigation, got %v", kinds(effects))
	}
	if nav.ConversationID != "c1" || nav.Mode != ask.ModeMine {
		t.Fatalf("unexpected navigation: %+v", nav)
	}
}

func TestReconcileClearsSelectionWhenSearchMatchesNothing(t *testing.T) {
	prev := baseInputs()
	prev.ActiveID = "c1"
	prev.Candidates = []string{"c1"}
	in := prev
	in.Candidates = nil

	_, effects := Reconcile(prev, in, false, State{Query: "zzz"})
	nav, ok := findNavigate(effects)
	if !ok || nav.ConversationID != "" || nav.Mode != ask.ModeMine {
		t.Fatalf("expected navigation to none, got %+v (%v)", nav, ok)
	}
}

func TestReconcileKeepsSelectionWhileLoading(t *testing.T) {
	in := baseInputs()
	in.ActiveID = "c7"
	in.Loading = true
	in.Candidates = []string{"c1"}

	_, effects := Reconcile(in, in, false, State{})
	if _, ok := findNavigate(effects); ok {
		t.Fatalf("navigation while loading: %v", kinds(effects))
	}
}

func TestReconcileKeepsLegitimatelyAbsentConversations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Inputs)
		want   bool
	}{
		{"shared with me", func(in *Inputs) { in.ActiveShared = true }, false},
		{"archived in archived list", func(in *Inputs) { in.Mode = ask.ModeArchived; in.ActiveArchived = true }, false},
		{"archived in mine list", func(in *Inputs) { in.ActiveArchived = true }, true},
		{"plain missing", func(in *Inputs) {}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := baseInputs()
			in.ActiveID = "cX"
			in.Candidates = []string{"c1"}
			tt.mutate(&in)
			_, effects := Reconcile(in, in, false, State{})
			if _, got := findNavigate(effects); got != tt.want {
				t.Fatalf("navigate=%v, want %v", got, tt.want)
			}
		})
	}
}

func TestReconcileCreatingNewSuppressesSelection(t *testing.T) {
	in := baseInputs()
	in.Candidates = []string{"c1"}
	in.CreatingNew = true

	st, effects := Reconcile(in, in, false, State{CreatingNew: true})
	if _, ok := findNavigate(effects); ok {
		t.Fatalf("creation mode should not be overridden")
	}
	if !st.CreatingNew {
		t.Fatalf("creation mode dropped in mine list")
	}
}

func TestReconcileCancelsUnrequestedCreationOutsideMine(t *testing.T) {
	in := baseInputs()
	in.Mode = ask.ModeArchived
	in.CreatingNew = true

	st, _ := Reconcile(in, in, false, State{CreatingNew: true})
	if st.CreatingNew {
		t.Fatalf("expected creation to be cancelled")
	}

	st, _ = Reconcile(in, in, false, State{CreatingNew: true, NewRequested: true})
	if !st.CreatingNew || !st.NewRequested {
		t.Fatalf("requested creation should survive until mine: %+v", st)
	}

	mine := in
	mine.Mode = ask.ModeMine
	st, _ = Reconcile(in, mine, false, st)
	if st.NewRequested {
		t.Fatalf("new-requested flag should clear in mine")
	}
}

func TestReconcileSharingDisabledClearsSelection(t *testing.T) {
	in := baseInputs()
	in.Mode = ask.ModeShared
	in.SharingEnabled = false
	in.ActiveID = "c1"

	_, effects := Reconcile(in, in, false, State{})
	nav, ok := findNavigate(effects)
	if !ok || nav.ConversationID != "" || nav.Mode != ask.ModeShared {
		t.Fatalf("expected cleared selection, got %+v", nav)
	}
}

func TestReconcileServerChangeDropsOptimisticState(t *testing.T) {
	prev := baseInputs()
	in := prev
	in.ServerID = "g2"
	st := State{
		OptimisticMessages:     []ask.Message{{ID: "optimistic-1", Role: ask.RoleUser, Text: "hi"}},
		OptimisticConversation: &ask.Conversation{ID: ask.PendingConversationID},
		CreatingNew:            true,
	}

	next, _ := Reconcile(prev, in, false, st)
	if next.OptimisticMessages != nil || next.OptimisticConversation != nil || next.CreatingNew {
		t.Fatalf("expected reset, got %+v", next)
	}
}

func TestReconcileAccessRevocationDropsOptimisticState(t *testing.T) {
	prev := baseInputs()
	in := prev
	in.AskAllowed = false
	st := State{OptimisticMessages: []ask.Message{{ID: "optimistic-1"}}}

	next, _ := Reconcile(prev, in, false, st)
	if next.OptimisticMessages != nil {
		t.Fatalf("expected optimistic messages to be dropped")
	}
}

func TestReconcileDropsEchoedOptimisticMessages(t *testing.T) {
	prev := baseInputs()
	prev.ActiveID = "c1"
	prev.Candidates = []string{"c1"}
	in := prev
	in.Confirmed = []ask.Message{{ID: "m1", Role: ask.RoleUser, Text: "What's next?", ClientRequestID: "r1"}}
	st := State{
		OptimisticMessages: []ask.Message{{ID: "optimistic-1", Role: ask.RoleUser, Text: "What's next?", ClientRequestID: "r1"}},
		OptimisticTarget:   "c1",
	}

	next, _ := Reconcile(prev, in, false, st)
	if next.OptimisticMessages != nil {
		t.Fatalf("expected echoed message to be dropped, got %+v", next.OptimisticMessages)
	}
}

func TestReconcileKeepsOptimisticMessageOfOtherConversation(t *testing.T) {
	prev := baseInputs()
	prev.ActiveID = "c2"
	prev.Candidates = []string{"c1", "c2"}
	in := prev
	in.Confirmed = []ask.Message{{ID: "m1", Role: ask.RoleUser, Text: "What's next?"}}
	st := State{
		OptimisticMessages: []ask.Message{{ID: "optimistic-1", Role: ask.RoleUser, Text: "What's next?"}},
		OptimisticTarget:   "c1",
	}

	next, _ := Reconcile(prev, in, false, st)
	if len(next.OptimisticMessages) != 1 {
		t.Fatalf("optimistic message of c1 dropped by a c2 echo")
	}
}

func TestReconcileServerChangeResetsMutations(t *testing.T) {
	prev := baseInputs()
	in := prev
	in.ServerID = "g2"
	st := State{
		RenameEditing:      true,
		RenamePending:      true,
		RenameError:        "boom",
		ArchiveConfirmOpen: true,
		ArchivePending:     true,
		ShareOpen:          true,
		SharePending:       true,
		ShareError:         "nope",
	}

	next, _ := Reconcile(prev, in, false, st)
	if next.RenameEditing || next.RenamePending || next.RenameError != "" ||
		next.ArchiveConfirmOpen || next.ArchivePending ||
		next.ShareOpen || next.SharePending || next.ShareError != "" {
		t.Fatalf("mutation state survived server change: %+v", next)
	}
}

func TestReconcileScrollsBottomThenHighlight(t *testing.T) {
	prev := baseInputs()
	prev.ActiveID = "c1"
	prev.Candidates = []string{"c1"}
	prev.DisplayCount = 2
	in := prev
	in.DisplayCount = 4
	in.HighlightedMessageID = "m3"
	in.AskPending = true

	_, effects := Reconcile(prev, in, false, State{})
	var scrolls []Effect
	for _, e := range effects {
		if e.Kind == EffectScrollBottom || e.Kind == EffectScrollToMessage {
			scrolls = append(scrolls, e)
		}
	}
	want := []Effect{
		{Kind: EffectScrollBottom, Smooth: true},
		{Kind: EffectScrollToMessage, MessageID: "m3", Smooth: true, Center: true},
	}
	if !reflect.DeepEqual(scrolls, want) {
		t.Fatalf("scrolls = %+v, want %+v", scrolls, want)
	}
}

func TestReconcileFocusTokenAdvancesOnSelectionChange(t *testing.T) {
	prev := baseInputs()
	prev.ActiveID = "c1"
	prev.Candidates = []string{"c1", "c2"}
	in := prev
	in.ActiveID = "c2"

	st, effects := Reconcile(prev, in, false, State{FocusToken: 3})
	if st.FocusToken != 4 {
		t.Fatalf("focus token = %d, want 4", st.FocusToken)
	}
	found := false
	for _, e := range effects {
		if e.Kind == EffectFocus && e.FocusToken == 4 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected focus effect, got %v", kinds(effects))
	}

	st, effects = Reconcile(in, in, false, st)
	if st.FocusToken != 4 {
		t.Fatalf("token changed without a selection change")
	}
	for _, e := range effects {
		if e.Kind == EffectFocus {
			t.Fatalf("unexpected focus effect")
		}
	}
}

func TestReconcileResetsRenameOnTitleChange(t *testing.T) {
	prev := baseInputs()
	prev.ActiveID = "c1"
	prev.Candidates = []string{"c1"}
	prev.ActiveTitle = "Old"
	in := prev
	in.ActiveTitle = "New"
	st := State{RenameEditing: true, RenameDraft: "typing", RenameError: "boom", ArchiveError: "nope"}

	next, _ := Reconcile(prev, in, false, st)
	if next.RenameEditing || next.RenameDraft != "New" || next.RenameError != "" || next.ArchiveError != "" {
		t.Fatalf("rename state not reset: %+v", next)
	}
}
