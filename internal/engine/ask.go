package engine

import (
	"context"
	"strconv"
	"strings"

	"github.com/BASIC-BIT/meeting-notes-discord-bot-sub002/internal/ask"
	"github.com/BASIC-BIT/meeting-notes-discord-bot-sub002/internal/cache"
	"github.com/BASIC-BIT/meeting-notes-discord-bot-sub002/internal/remote"
)

// AskGate holds the inputs of the submission check.
type AskGate struct {
	ServerID   string
	Question   string
	Mode       ask.ListMode
	AskAllowed bool
	Archived   bool
}

// CanSubmitAsk applies the submission checks in order.
func CanSubmitAsk(g AskGate) bool {
	if g.ServerID == "" {
		return false
	}
	if strings.TrimSpace(g.Question) == "" {
		return false
	}
	if g.Mode != ask.ModeMine {
		return false
	}
	if !g.AskAllowed {
		return false
	}
	return !g.Archived
}

func (s *Session) askGate(question string) AskGate {
	r := s.router.Current()
	g := AskGate{
		ServerID:   s.access.ServerID,
		Question:   question,
		Mode:       r.Mode,
		AskAllowed: s.access.AskAllowed,
	}
	if c, ok := s.activeConversation(r.ConversationID, s.lists()); ok {
		g.Archived = c.Archived()
	}
	return g
}

// CanSubmitAsk reports whether question may be sent right now.
func (s *Session) CanSubmitAsk(question string) bool {
	return !s.state.AskPending && CanSubmitAsk(s.askGate(question))
}

// AskCall is an in-flight ask request.
type AskCall struct {
	remote          Remote
	req             remote.AskRequest
	seq             int
	newConversation bool
}

func (c AskCall) Request() remote.AskRequest { return c.req }

// Do performs the network call. It does not touch the Session.
func (c AskCall) Do(ctx context.Context) AskResult {
	resp, err := c.remote.Ask(ctx, c.req)
	return AskResult{Call: c, Response: resp, Err: err}
}

type AskResult struct {
	Call     AskCall
	Response remote.AskResponse
	Err      error
}

// BeginAsk records the optimistic turn and returns the request to run. ok is
// false when the submission is rejected; the state is unchanged then.
func (s *Session) BeginAsk(question string) (AskCall, bool) {
	if !s.CanSubmitAsk(question) {
		return AskCall{}, false
	}
	q := strings.TrimSpace(question)
	now := s.now()
	at := now.UTC().Format(timeLayout)
	requestID := s.newID()
	activeID := s.router.Current().ConversationID

	s.state.OptimisticMessages = []ask.Message{{
		ID:              ask.OptimisticMessagePrefix + strconv.FormatInt(now.UnixMilli(), 10),
		Role:            ask.RoleUser,
		Text:            q,
		CreatedAt:       at,
		ClientRequestID: requestID,
	}}
	s.state.OptimisticTarget = activeID
	if activeID == "" {
		s.state.OptimisticConversation = &ask.Conversation{
			ID:         ask.PendingConversationID,
			Title:      ask.TitleFromQuestion(q),
			CreatedAt:  at,
			UpdatedAt:  at,
			Visibility: ask.VisibilityPrivate,
		}
	}
	s.state.AskPending = true
	s.state.AskError = ""

	s.askSeq++
	call := AskCall{
		remote: s.remote,
		seq:    s.askSeq,
		req: remote.AskRequest{
			ServerID:        s.access.ServerID,
			Question:        q,
			ConversationID:  activeID,
			ClientRequestID: requestID,
		},
		newConversation: activeID == "",
	}
	s.log.Info("ask submitted",
		"server_id", call.req.ServerID,
		"conversation_id", activeID,
		"client_request_id", requestID)
	s.sync()
	return call, true
}

// FinishAsk applies the outcome of an ask request and reports success.
func (s *Session) FinishAsk(res AskResult) bool {
	req := res.Call.req
	if req.ServerID != s.access.ServerID || res.Call.seq != s.askSeq || !s.state.AskPending {
		s.log.Info("ask result dropped",
			"server_id", req.ServerID,
			"current_server_id", s.access.ServerID,
			"client_request_id", req.ClientRequestID)
		return false
	}
	s.state.AskPending = false

	if res.Err != nil {
		s.state.OptimisticConversation = nil
		s.state.AskError = ErrorText(res.Err, "Failed to get a response.")
		s.log.Warn("ask failed",
			"conversation_id", req.ConversationID,
			"client_request_id", req.ClientRequestID,
			"err", res.Err)
		s.sync()
		return false
	}

	conv := res.Response.Conversation
	id := res.Response.ConversationID
	if id == "" {
		id = conv.ID
	}
	conv.ID = id

	s.cache.SetThread(req.ServerID, ask.Thread{Conversation: conv, Messages: res.Response.Messages})
	if owned, st := s.cache.Conversations(req.ServerID, cache.KindOwned); st.Loaded {
		s.cache.SetConversations(req.ServerID, cache.KindOwned, ask.UpsertConversation(owned, conv))
	}
	s.cache.Invalidate(cache.ListKey(req.ServerID, cache.KindOwned))

	s.state.clearOptimistic()
	s.state.CreatingNew = false
	s.state.NewRequested = false
	if res.Call.newConversation {
		s.state.Query = ""
	}
	s.log.Info("ask completed",
		"conversation_id", id,
		"messages", len(res.Response.Messages))

	s.navigate(id, ask.ModeMine)
	s.sync()
	return true
}

// Ask runs the whole pipeline synchronously. It returns the confirmed
// conversation id.
func (s *Session) Ask(ctx context.Context, question string) (string, bool) {
	call, ok := s.BeginAsk(question)
	if !ok {
		return "", false
	}
	res := call.Do(ctx)
	if !s.FinishAsk(res) {
		return "", false
	}
	return s.router.Current().ConversationID, true
}
