package engine

import (
	"context"
	"strings"

	"github.com/BASIC-BIT/meeting-notes-discord-bot-sub002/internal/ask"
	"github.com/BASIC-BIT/meeting-notes-discord-bot-sub002/internal/cache"
	"github.com/BASIC-BIT/meeting-notes-discord-bot-sub002/internal/export"
)

// NewConversation enters creation mode. From the shared or archived lists it
// records the request so the mode switch does not cancel it.
func (s *Session) NewConversation() {
	if s.router.Current().Mode != ask.ModeMine {
		s.state.NewRequested = true
	}
	s.state.CreatingNew = true
	s.state.clearOptimistic()
	s.state.AskError = ""
	s.navigate("", ask.ModeMine)
	s.sync()
}

// Select makes id active in the current list mode.
func (s *Session) Select(id string) {
	s.state.CreatingNew = false
	s.navigate(id, s.router.Current().Mode)
	s.sync()
}

// SetMode switches the visible list. The selection sync picks the first
// candidate of the new list.
func (s *Session) SetMode(mode ask.ListMode) {
	if mode == s.router.Current().Mode {
		return
	}
	s.navigate("", mode)
	s.sync()
}

func (s *Session) SetQuery(query string) {
	s.state.Query = query
	s.sync()
}

// Resync re-evaluates the pane after an external route change.
func (s *Session) Resync() { s.sync() }

// mutable returns the active conversation when the user may change it in the
// current mode.
func (s *Session) mutable() (ask.Conversation, bool) {
	r := s.router.Current()
	if s.access.ServerID == "" || r.ConversationID == "" || r.Mode == ask.ModeShared {
		return ask.Conversation{}, false
	}
	return s.activeConversation(r.ConversationID, s.lists())
}

// renamable is mutable restricted to the owner's list.
func (s *Session) renamable() (ask.Conversation, bool) {
	if s.router.Current().Mode != ask.ModeMine {
		return ask.Conversation{}, false
	}
	return s.mutable()
}

// replaceConversation writes c over the cached list and detail records.
func (s *Session) replaceConversation(serverID string, c ask.Conversation) {
	for _, kind := range []cache.Kind{cache.KindOwned, cache.KindArchived} {
		items, st := s.cache.Conversations(serverID, kind)
		if !st.Loaded {
			continue
		}
		for i := range items {
			if items[i].ID == c.ID {
				items[i] = c
				s.cache.SetConversations(serverID, kind, items)
				break
			}
		}
	}
	if t, ok := s.thread(c.ID); ok {
		t.Conversation = c
		s.cache.SetThread(serverID, t)
	}
}

// Rename.

func (s *Session) StartRename() bool {
	c, ok := s.renamable()
	if !ok {
		return false
	}
	s.state.RenameEditing = true
	s.state.RenameDraft = c.Title
	s.state.RenameError = ""
	return true
}

func (s *Session) CancelRename() {
	title := ""
	if c, ok := s.activeConversation(s.router.Current().ConversationID, s.lists()); ok {
		title = c.Title
	}
	s.state.RenameEditing = false
	s.state.RenameDraft = title
	s.state.RenameError = ""
}

type RenameCall struct {
	remote         Remote
	serverID       string
	conversationID string
	title          string
}

func (c RenameCall) Do(ctx context.Context) RenameResult {
	conv, err := c.remote.Rename(ctx, c.serverID, c.conversationID, c.title)
	return RenameResult{Call: c, Conversation: conv, Err: err}
}

type RenameResult struct {
	Call         RenameCall
	Conversation ask.Conversation
	Err          error
}

// BeginRename validates title. An empty title cancels editing and an
// unchanged one closes the editor without a request.
func (s *Session) BeginRename(title string) (RenameCall, bool) {
	c, ok := s.renamable()
	if !ok || s.state.RenamePending {
		return RenameCall{}, false
	}
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		s.CancelRename()
		return RenameCall{}, false
	}
	if trimmed == c.Title {
		s.state.RenameEditing = false
		s.state.RenameError = ""
		return RenameCall{}, false
	}
	s.state.RenamePending = true
	s.state.RenameDraft = trimmed
	s.state.RenameError = ""
	return RenameCall{remote: s.remote, serverID: s.access.ServerID, conversationID: c.ID, title: trimmed}, true
}

func (s *Session) FinishRename(res RenameResult) bool {
	if res.Call.serverID != s.access.ServerID {
		return false
	}
	s.state.RenamePending = false
	if res.Err != nil {
		s.state.RenameError = ErrorText(res.Err, "Failed to rename conversation.")
		s.log.Warn("rename failed", "conversation_id", res.Call.conversationID, "err", res.Err)
		return false
	}
	conv := res.Conversation
	if conv.ID == "" {
		conv.ID = res.Call.conversationID
	}
	s.replaceConversation(res.Call.serverID, conv)
	s.cache.Invalidate(cache.ListKey(res.Call.serverID, cache.KindOwned))
	s.cache.Invalidate(cache.ThreadKey(res.Call.serverID, conv.ID))
	s.state.RenameEditing = false
	s.state.RenameError = ""
	s.log.Info("conversation renamed", "conversation_id", conv.ID)
	s.sync()
	return true
}

// Archive.

func (s *Session) OpenArchive() bool {
	if _, ok := s.mutable(); !ok {
		return false
	}
	s.state.ArchiveConfirmOpen = true
	s.state.ArchiveError = ""
	return true
}

func (s *Session) CloseArchive() {
	s.state.ArchiveConfirmOpen = false
	s.state.ArchiveError = ""
}

type ArchiveCall struct {
	remote         Remote
	serverID       string
	conversationID string
	archived       bool
}

func (c ArchiveCall) Do(ctx context.Context) ArchiveResult {
	conv, err := c.remote.SetArchived(ctx, c.serverID, c.conversationID, c.archived)
	return ArchiveResult{Call: c, Conversation: conv, Err: err}
}

type ArchiveResult struct {
	Call         ArchiveCall
	Conversation ask.Conversation
	Err          error
}

// BeginArchive requests the opposite of the current archived flag.
func (s *Session) BeginArchive() (ArchiveCall, bool) {
	c, ok := s.mutable()
	if !ok || s.state.ArchivePending {
		return ArchiveCall{}, false
	}
	s.state.ArchivePending = true
	s.state.ArchiveError = ""
	return ArchiveCall{remote: s.remote, serverID: s.access.ServerID, conversationID: c.ID, archived: !c.Archived()}, true
}

func (s *Session) FinishArchive(res ArchiveResult) bool {
	serverID := res.Call.serverID
	if serverID != s.access.ServerID {
		return false
	}
	s.state.ArchivePending = false
	if res.Err != nil {
		fallback := "Failed to archive conversation."
		if !res.Call.archived {
			fallback = "Failed to unarchive conversation."
		}
		s.state.ArchiveError = ErrorText(res.Err, fallback)
		s.log.Warn("archive failed", "conversation_id", res.Call.conversationID, "err", res.Err)
		return false
	}

	conv := res.Conversation
	if conv.ID == "" {
		conv.ID = res.Call.conversationID
	}
	from, to := cache.KindOwned, cache.KindArchived
	if !res.Call.archived {
		from, to = to, from
	}
	if items, st := s.cache.Conversations(serverID, from); st.Loaded {
		s.cache.SetConversations(serverID, from, ask.RemoveConversation(items, conv.ID))
	}
	if items, st := s.cache.Conversations(serverID, to); st.Loaded {
		s.cache.SetConversations(serverID, to, ask.UpsertConversation(items, conv))
	}
	if t, ok := s.thread(conv.ID); ok {
		t.Conversation = conv
		s.cache.SetThread(serverID, t)
	}
	s.cache.Invalidate(cache.ListKey(serverID, cache.KindOwned))
	s.cache.Invalidate(cache.ListKey(serverID, cache.KindArchived))
	s.cache.Invalidate(cache.ListKey(serverID, cache.KindShared))
	s.cache.Invalidate(cache.ThreadKey(serverID, conv.ID))
	s.state.ArchiveConfirmOpen = false
	s.state.ArchiveError = ""
	s.log.Info("conversation archive toggled", "conversation_id", conv.ID, "archived", res.Call.archived)

	r := s.router.Current()
	if !res.Call.archived && r.Mode == ask.ModeArchived && r.ConversationID == conv.ID {
		s.navigate(conv.ID, ask.ModeMine)
	}
	s.sync()
	return true
}

// Share.

// ShareOptions lists the visibilities the dialog offers.
func (s *Session) ShareOptions() []ask.Visibility {
	opts := []ask.Visibility{ask.VisibilityPrivate, ask.VisibilityServer}
	if s.access.PublicSharingEnabled {
		opts = append(opts, ask.VisibilityPublic)
	}
	return opts
}

func (s *Session) shareable() (ask.Conversation, bool) {
	c, ok := s.mutable()
	if !ok || !s.access.SharingEnabled || !s.access.AskAllowed || c.Archived() {
		return ask.Conversation{}, false
	}
	return c, true
}

func (s *Session) OpenShare() bool {
	if _, ok := s.shareable(); !ok {
		return false
	}
	s.state.ShareOpen = true
	s.state.ShareError = ""
	return true
}

func (s *Session) CloseShare() {
	s.state.ShareOpen = false
	s.state.ShareError = ""
}

type ShareCall struct {
	remote         Remote
	serverID       string
	conversationID string
	visibility     ask.Visibility
}

func (c ShareCall) Do(ctx context.Context) ShareResult {
	conv, err := c.remote.SetVisibility(ctx, c.serverID, c.conversationID, c.visibility)
	return ShareResult{Call: c, Conversation: conv, Err: err}
}

type ShareResult struct {
	Call         ShareCall
	Conversation ask.Conversation
	Err          error
}

func (s *Session) BeginShare(v ask.Visibility) (ShareCall, bool) {
	c, ok := s.shareable()
	if !ok || s.state.SharePending || !v.Valid() {
		return ShareCall{}, false
	}
	if v == ask.VisibilityPublic && !s.access.PublicSharingEnabled {
		return ShareCall{}, false
	}
	if v == c.EffectiveVisibility() {
		s.CloseShare()
		return ShareCall{}, false
	}
	s.state.SharePending = true
	s.state.ShareError = ""
	return ShareCall{remote: s.remote, serverID: s.access.ServerID, conversationID: c.ID, visibility: v}, true
}

func (s *Session) FinishShare(res ShareResult) bool {
	if res.Call.serverID != s.access.ServerID {
		return false
	}
	s.state.SharePending = false
	if res.Err != nil {
		s.state.ShareError = ErrorText(res.Err, "Failed to update sharing.")
		s.log.Warn("share failed", "conversation_id", res.Call.conversationID, "err", res.Err)
		return false
	}
	conv := res.Conversation
	if conv.ID == "" {
		conv.ID = res.Call.conversationID
	}
	s.replaceConversation(res.Call.serverID, conv)
	s.cache.Invalidate(cache.ListKey(res.Call.serverID, cache.KindShared))
	s.state.ShareOpen = false
	s.state.ShareError = ""
	s.log.Info("conversation visibility changed",
		"conversation_id", conv.ID,
		"visibility", string(conv.EffectiveVisibility()))
	s.sync()
	return true
}

// Export.

// CanExport reports whether the active conversation may be exported.
func (s *Session) CanExport() bool {
	_, ok := s.mutable()
	return ok
}

// Export builds the payload for the active conversation. Only confirmed
// messages are exported.
func (s *Session) Export(format export.Format) (export.Payload, bool) {
	c, ok := s.mutable()
	if !ok {
		return export.Payload{}, false
	}
	t, ok := s.thread(c.ID)
	if !ok {
		s.state.ExportError = "Conversation is still loading."
		return export.Payload{}, false
	}
	p, err := export.BuildPayload(export.Input{
		ServerID:     s.access.ServerID,
		Conversation: t.Conversation,
		Messages:     t.Messages,
		ExportedAt:   s.timestamp(),
	}, format)
	if err != nil {
		s.state.ExportError = ErrorText(err, "Failed to export conversation.")
		s.log.Warn("export failed", "conversation_id", c.ID, "err", err)
		return export.Payload{}, false
	}
	s.state.ExportError = ""
	return p, true
}

// ReportExportError records a delivery failure of an exported payload.
func (s *Session) ReportExportError(err error) {
	s.state.ExportError = ErrorText(err, "Failed to export conversation.")
}
