package engine

import (
	"github.com/BASIC-BIT/meeting-notes-discord-bot-sub002/internal/ask"
)

// View is everything the pane renders, derived from the route, the cache
// and the local state.
type View struct {
	ServerID string
	Mode     ask.ListMode
	ActiveID string
	Query    string

	Items    []ask.Item
	Loading  bool
	LoadErr  string
	Title    string
	Messages []ask.Message

	HighlightedMessageID string

	Archived        bool
	SharedWithMe    bool
	ShareVisibility ask.Visibility
	ShowShareBadge  bool
	ShareBadge      string
	ShareOptions    []ask.Visibility

	ComposerEnabled bool
	CanRename       bool
	CanArchive      bool
	CanShare        bool
	CanExport       bool

	State State
}

func (s *Session) View() View {
	r := s.router.Current()
	lists := s.lists()
	in := s.inputs()
	v := View{
		ServerID:             s.access.ServerID,
		Mode:                 r.Mode,
		ActiveID:             r.ConversationID,
		Query:                s.state.Query,
		Loading:              in.Loading,
		Messages:             s.displayMessages(r.ConversationID),
		HighlightedMessageID: r.MessageID,
		SharedWithMe:         in.ActiveShared,
		ShareOptions:         s.ShareOptions(),
		State:                s.State(),
	}
	if !(r.Mode == ask.ModeShared && !s.access.SharingEnabled) {
		v.Items = lists.Visible(r.Mode, s.state.Query)
	}
	if err := s.LoadError(); err != nil {
		v.LoadErr = ErrorText(err, "Failed to load conversations.")
	}

	var active *ask.Conversation
	if c, ok := s.activeConversation(r.ConversationID, lists); ok {
		active = &c
		v.Archived = c.Archived()
		v.ShareVisibility = ask.ResolveShareDisplayVisibility(c.EffectiveVisibility(), s.access.PublicSharingEnabled)
		v.ShowShareBadge = v.ShareVisibility != ask.VisibilityPrivate
		v.ShareBadge = ask.ShareBadgeLabel(v.ShareVisibility)
	}
	v.Title = ask.DisplayTitle(active, s.state.OptimisticConversation)

	v.ComposerEnabled = s.access.ServerID != "" && r.Mode == ask.ModeMine &&
		s.access.AskAllowed && !v.Archived && !s.state.AskPending
	_, mutable := s.mutable()
	_, v.CanRename = s.renamable()
	v.CanArchive = mutable
	v.CanExport = mutable
	_, v.CanShare = s.shareable()
	return v
}
