package engine

import (
	"context"
	"fmt"

	"github.com/BASIC-BIT/meeting-notes-discord-bot-sub002/internal/ask"
	"github.com/BASIC-BIT/meeting-notes-discord-bot-sub002/internal/cache"
)

// RefreshCall fetches every slot the pane currently needs that is missing or
// stale.
type RefreshCall struct {
	remote   Remote
	serverID string
	keys     []cache.Key
}

func (c RefreshCall) Empty() bool { return len(c.keys) == 0 }

func (c RefreshCall) Keys() []cache.Key { return append([]cache.Key(nil), c.keys...) }

type fetched struct {
	key    cache.Key
	list   []ask.Conversation
	shared []ask.SharedConversationSummary
	thread ask.Thread
	err    error
}

type RefreshResult struct {
	Call    RefreshCall
	results []fetched
}

func (c RefreshCall) Do(ctx context.Context) RefreshResult {
	out := RefreshResult{Call: c}
	for _, key := range c.keys {
		f := fetched{key: key}
		switch key.Kind {
		case cache.KindOwned:
			f.list, f.err = c.remote.ListConversations(ctx, c.serverID)
		case cache.KindArchived:
			f.list, f.err = c.remote.ListArchivedConversations(ctx, c.serverID)
		case cache.KindShared:
			f.shared, f.err = c.remote.ListSharedConversations(ctx, c.serverID)
		case cache.KindThread:
			f.thread, f.err = c.remote.GetConversation(ctx, c.serverID, key.ConversationID)
		default:
			f.err = fmt.Errorf("unknown cache kind %q", key.Kind)
		}
		out.results = append(out.results, f)
	}
	return out
}

// BeginRefresh marks the needed slots as fetching and returns the call. Slots
// whose last fetch failed are left alone until Reload.
func (s *Session) BeginRefresh() RefreshCall {
	call := RefreshCall{remote: s.remote, serverID: s.access.ServerID}
	if s.access.ServerID == "" {
		return call
	}
	r := s.router.Current()
	if r.Mode != ask.ModeShared || s.access.SharingEnabled {
		call.keys = append(call.keys, cache.ListKey(s.access.ServerID, cache.ListKindFor(r.Mode)))
	}
	if r.ConversationID != "" {
		call.keys = append(call.keys, cache.ThreadKey(s.access.ServerID, r.ConversationID))
	}
	kept := call.keys[:0]
	for _, key := range call.keys {
		if s.fetching[key] || !s.cache.Status(key).NeedsFetch() {
			continue
		}
		if _, failed := s.failed[key]; failed {
			continue
		}
		s.fetching[key] = true
		kept = append(kept, key)
	}
	call.keys = kept
	if len(kept) > 0 {
		s.sync()
	}
	return call
}

// FinishRefresh stores fetched data. Results for a server that is no longer
// selected are discarded. An unauthorized response revokes ask access.
func (s *Session) FinishRefresh(res RefreshResult) {
	if res.Call.serverID != s.access.ServerID {
		for _, f := range res.results {
			delete(s.fetching, f.key)
		}
		return
	}
	revoked := false
	for _, f := range res.results {
		delete(s.fetching, f.key)
		if f.err != nil {
			s.failed[f.key] = f.err
			s.log.Warn("fetch failed",
				"kind", string(f.key.Kind),
				"conversation_id", f.key.ConversationID,
				"err", f.err)
			if unauthorized(f.err) {
				revoked = true
			}
			continue
		}
		delete(s.failed, f.key)
		switch f.key.Kind {
		case cache.KindOwned, cache.KindArchived:
			ask.SortByRecency(f.list)
			s.cache.SetConversations(res.Call.serverID, f.key.Kind, f.list)
		case cache.KindShared:
			s.cache.SetShared(res.Call.serverID, f.shared)
		case cache.KindThread:
			f.thread.Conversation.ID = f.key.ConversationID
			s.cache.SetThread(res.Call.serverID, f.thread)
		}
	}
	if revoked && s.access.AskAllowed {
		s.log.Warn("ask access revoked", "server_id", s.access.ServerID)
		s.access.AskAllowed = false
	}
	s.sync()
}

// Reload marks the visible list and the active thread stale and forgets
// earlier fetch failures, so the next BeginRefresh fetches them again.
func (s *Session) Reload() {
	if s.access.ServerID == "" {
		return
	}
	r := s.router.Current()
	s.cache.Invalidate(cache.ListKey(s.access.ServerID, cache.ListKindFor(r.Mode)))
	if r.ConversationID != "" {
		s.cache.Invalidate(cache.ThreadKey(s.access.ServerID, r.ConversationID))
	}
	clear(s.failed)
	s.sync()
}

// Refresh fetches until the pane needs nothing more, following selections
// made once lists arrive. It stops at the first fetch error.
func (s *Session) Refresh(ctx context.Context) error {
	for pass := 0; pass < maxSyncPasses; pass++ {
		call := s.BeginRefresh()
		if call.Empty() {
			return nil
		}
		res := call.Do(ctx)
		s.FinishRefresh(res)
		if err := res.Err(); err != nil {
			return err
		}
	}
	return nil
}

// Err returns the first fetch error of the result.
func (r RefreshResult) Err() error {
	for _, f := range r.results {
		if f.err != nil {
			return f.err
		}
	}
	return nil
}

// LoadError returns the last fetch failure for the visible list, if any.
func (s *Session) LoadError() error {
	if s.access.ServerID == "" {
		return nil
	}
	return s.failed[cache.ListKey(s.access.ServerID, cache.ListKindFor(s.router.Current().Mode))]
}
