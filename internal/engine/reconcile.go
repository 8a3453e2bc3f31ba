package engine

import (
	"github.com/BASIC-BIT/meeting-notes-discord-bot-sub002/internal/ask"
)

// State is the pane-local state the synchronizer owns. The active
// conversation is deliberately absent: it always comes from the router.
type State struct {
	Query string

	OptimisticMessages     []ask.Message
	OptimisticConversation *ask.Conversation
	// OptimisticTarget is the conversation the optimistic turn was asked
	// in; empty for a new conversation.
	OptimisticTarget string
	AskPending             bool
	AskError               string

	CreatingNew  bool
	NewRequested bool

	RenameEditing bool
	RenameDraft   string
	RenameError   string
	RenamePending bool

	ArchiveConfirmOpen bool
	ArchiveError       string
	ArchivePending     bool

	ShareOpen    bool
	ShareError   string
	SharePending bool

	ExportError string

	FocusToken int
}

func (st *State) clearOptimistic() {
	st.OptimisticMessages = nil
	st.OptimisticConversation = nil
	st.OptimisticTarget = ""
}

// resetMutations abandons rename, archive and share work started for
// another server.
func (st *State) resetMutations() {
	st.RenameEditing = false
	st.RenamePending = false
	st.RenameError = ""
	st.ArchiveConfirmOpen = false
	st.ArchivePending = false
	st.ArchiveError = ""
	st.ShareOpen = false
	st.SharePending = false
	st.ShareError = ""
}

// Inputs is a snapshot of everything the rules react to.
type Inputs struct {
	ServerID       string
	AskAllowed     bool
	SharingEnabled bool

	Mode                 ask.ListMode
	ActiveID             string
	HighlightedMessageID string

	Loading    bool
	Candidates []string

	ActiveTitle    string
	ActiveShared   bool
	ActiveArchived bool
	Confirmed      []ask.Message

	CreatingNew  bool
	AskPending   bool
	DisplayCount int
}

func (in Inputs) equal(o Inputs) bool {
	if in.ServerID != o.ServerID || in.AskAllowed != o.AskAllowed || in.SharingEnabled != o.SharingEnabled ||
		in.Mode != o.Mode || in.ActiveID != o.ActiveID || in.HighlightedMessageID != o.HighlightedMessageID ||
		in.Loading != o.Loading || in.ActiveTitle != o.ActiveTitle || in.ActiveShared != o.ActiveShared ||
		in.ActiveArchived != o.ActiveArchived || in.CreatingNew != o.CreatingNew || in.AskPending != o.AskPending ||
		in.DisplayCount != o.DisplayCount {
		return false
	}
	return sameIDs(in.Candidates, o.Candidates) && sameMessageIDs(in.Confirmed, o.Confirmed)
}

func sameIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func sameMessageIDs(a, b []ask.Message) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}

type EffectKind int

const (
	EffectNavigate EffectKind = iota + 1
	EffectFocus
	EffectScrollBottom
	EffectScrollToMessage
)

func (k EffectKind) String() string {
	switch k {
	case EffectNavigate:
		return "navigate"
	case EffectFocus:
		return "focus"
	case EffectScrollBottom:
		return "scroll_bottom"
	case EffectScrollToMessage:
		return "scroll_to_message"
	default:
		return "unknown"
	}
}

// Effect is a side effect requested by Reconcile. Navigation is applied by
// the Session; focus and scroll effects are handed to the rendering layer.
type Effect struct {
	Kind EffectKind

	// EffectNavigate. An empty ConversationID clears the selection.
	ConversationID string
	Mode           ask.ListMode

	// EffectFocus. Only the latest token may fire.
	FocusToken int

	// EffectScrollBottom / EffectScrollToMessage.
	Smooth    bool
	Center    bool
	MessageID string
}

func navigate(id string, mode ask.ListMode) Effect {
	return Effect{Kind: EffectNavigate, ConversationID: id, Mode: mode}
}

// Reconcile restores the pane invariants after any input change. first is
// true on the initial evaluation, when every rule counts as changed.
func Reconcile(prev, in Inputs, first bool, st State) (State, []Effect) {
	var effects []Effect
	navigated := false

	// Guild change or revoked access drops everything speculative.
	serverChanged := first || prev.ServerID != in.ServerID
	accessRevoked := prev.AskAllowed && !in.AskAllowed
	if serverChanged || accessRevoked {
		st.clearOptimistic()
		st.CreatingNew = false
		st.AskPending = false
	}
	if serverChanged {
		st.resetMutations()
	}

	// List-mode guard.
	if in.Mode == ask.ModeShared && !in.SharingEnabled && in.ActiveID != "" {
		effects = append(effects, navigate("", ask.ModeShared))
		navigated = true
	}
	if st.CreatingNew && !st.NewRequested && (in.Mode == ask.ModeShared || in.Mode == ask.ModeArchived) {
		st.CreatingNew = false
	}

	// Active-selection sync.
	if !navigated && !in.Loading && !st.CreatingNew {
		legitAbsent := in.ActiveShared || (in.ActiveArchived && in.Mode == ask.ModeArchived)
		if len(in.Candidates) == 0 {
			if in.ActiveID != "" && !legitAbsent {
				effects = append(effects, navigate("", in.Mode))
				navigated = true
			}
		} else if !contains(in.Candidates, in.ActiveID) && !legitAbsent {
			next := ask.ResolveNextConversationID(in.ActiveID, in.Candidates)
			effects = append(effects, navigate(next, in.Mode))
			navigated = true
		}
	}

	if in.Mode == ask.ModeMine {
		st.NewRequested = false
	}

	// Focus: any change to the selection reissues the token, which cancels
	// a request scheduled for the previous selection.
	if first || prev.ActiveID != in.ActiveID || prev.Mode != in.Mode ||
		prev.CreatingNew != in.CreatingNew || prev.AskPending != in.AskPending {
		st.FocusToken++
		enteringNew := in.CreatingNew && in.Mode == ask.ModeMine
		settled := !in.AskPending && in.Mode == ask.ModeMine && !navigated
		if enteringNew || settled {
			effects = append(effects, Effect{Kind: EffectFocus, FocusToken: st.FocusToken})
		}
	}

	// Rename state follows the active conversation.
	if first || prev.ActiveID != in.ActiveID || prev.ActiveTitle != in.ActiveTitle {
		st.RenameDraft = in.ActiveTitle
		st.RenameEditing = false
		st.RenameError = ""
		st.ArchiveError = ""
	}

	// Optimistic reconciliation once the confirmed list echoes the question.
	if len(st.OptimisticMessages) > 0 && st.OptimisticTarget == in.ActiveID {
		for _, m := range st.OptimisticMessages {
			if ask.HasConfirmedEcho(in.Confirmed, m) {
				st.OptimisticMessages = nil
				break
			}
		}
	}

	if first || prev.DisplayCount != in.DisplayCount {
		effects = append(effects, Effect{Kind: EffectScrollBottom, Smooth: in.AskPending})
		if in.HighlightedMessageID != "" {
			effects = append(effects, Effect{
				Kind:      EffectScrollToMessage,
				MessageID: in.HighlightedMessageID,
				Smooth:    true,
				Center:    true,
			})
		}
	}

	return st, effects
}

func contains(ids []string, id string) bool {
	if id == "" {
		return false
	}
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
