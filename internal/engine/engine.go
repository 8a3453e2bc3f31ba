// Package engine keeps the Ask pane consistent: it owns the pane-local
// state, runs the mutation coordinators and reconciles the route with the
// cached conversation lists after every change.
//
// A Session is not safe for concurrent use. Remote calls are split into
// Begin/Do/Finish steps so that only Do runs off the event loop.
package engine

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/BASIC-BIT/meeting-notes-discord-bot-sub002/internal/ask"
	"github.com/BASIC-BIT/meeting-notes-discord-bot-sub002/internal/cache"
	"github.com/BASIC-BIT/meeting-notes-discord-bot-sub002/internal/remote"
	"github.com/BASIC-BIT/meeting-notes-discord-bot-sub002/internal/route"
)

const (
	timeLayout    = "2006-01-02T15:04:05.000Z07:00"
	maxSyncPasses = 4
)

// Remote is the subset of the Chronote API the engine talks to.
type Remote interface {
	ListConversations(ctx context.Context, serverID string) ([]ask.Conversation, error)
	ListArchivedConversations(ctx context.Context, serverID string) ([]ask.Conversation, error)
	ListSharedConversations(ctx context.Context, serverID string) ([]ask.SharedConversationSummary, error)
	GetConversation(ctx context.Context, serverID, conversationID string) (ask.Thread, error)
	Ask(ctx context.Context, req remote.AskRequest) (remote.AskResponse, error)
	Rename(ctx context.Context, serverID, conversationID, title string) (ask.Conversation, error)
	SetArchived(ctx context.Context, serverID, conversationID string, archived bool) (ask.Conversation, error)
	SetVisibility(ctx context.Context, serverID, conversationID string, visibility ask.Visibility) (ask.Conversation, error)
}

// Router exposes the current location and the single navigation primitive.
type Router interface {
	Current() route.Route
	NavigateToConversation(id string, mode ask.ListMode) route.Route
}

// Access describes what the signed-in user may do in the selected server.
type Access struct {
	ServerID             string
	AskAllowed           bool
	SharingEnabled       bool
	PublicSharingEnabled bool
}

type Options struct {
	Remote Remote
	Cache  *cache.Cache
	Router Router
	Access Access
	Logger *log.Logger

	// Now and NewRequestID default to time.Now and uuid.NewString.
	Now          func() time.Time
	NewRequestID func() string
}

type Session struct {
	remote Remote
	cache  *cache.Cache
	router Router
	log    *log.Logger
	now    func() time.Time
	newID  func() string

	access Access
	state  State

	prev   Inputs
	primed bool
	askSeq int

	fetching map[cache.Key]bool
	failed   map[cache.Key]error
	effects  []Effect
}

func New(opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	newID := opts.NewRequestID
	if newID == nil {
		newID = uuid.NewString
	}
	s := &Session{
		remote:   opts.Remote,
		cache:    opts.Cache,
		router:   opts.Router,
		log:      logger,
		now:      now,
		newID:    newID,
		access:   opts.Access,
		fetching: make(map[cache.Key]bool),
		failed:   make(map[cache.Key]error),
	}
	s.sync()
	return s
}

func (s *Session) Access() Access { return s.access }

// State returns a copy of the pane-local state.
func (s *Session) State() State {
	st := s.state
	st.OptimisticMessages = append([]ask.Message(nil), s.state.OptimisticMessages...)
	if s.state.OptimisticConversation != nil {
		c := *s.state.OptimisticConversation
		st.OptimisticConversation = &c
	}
	return st
}

func (s *Session) Route() route.Route { return s.router.Current() }

// SetAccess applies a server switch or a permission change.
func (s *Session) SetAccess(a Access) {
	if a != s.access {
		s.log.Info("access changed",
			"server_id", a.ServerID,
			"ask_allowed", a.AskAllowed,
			"sharing_enabled", a.SharingEnabled)
	}
	s.access = a
	s.sync()
}

// Effects drains the focus and scroll effects produced since the last call.
func (s *Session) Effects() []Effect {
	out := s.effects
	s.effects = nil
	return out
}

// FocusCurrent reports whether a scheduled focus request is still wanted.
func (s *Session) FocusCurrent(token int) bool {
	return token == s.state.FocusToken
}

func (s *Session) timestamp() string {
	return s.now().UTC().Format(timeLayout)
}

func (s *Session) navigate(id string, mode ask.ListMode) {
	cur := s.router.Current()
	if cur.ConversationID == id && cur.Mode == mode {
		return
	}
	s.log.Debug("navigate",
		"from_conversation_id", cur.ConversationID,
		"from_mode", string(cur.Mode),
		"conversation_id", id,
		"mode", string(mode))
	s.router.NavigateToConversation(id, mode)
}

// sync runs Reconcile until the inputs settle. Navigation effects are applied
// here; the rest are queued for the renderer.
func (s *Session) sync() {
	for pass := 0; pass < maxSyncPasses; pass++ {
		in := s.inputs()
		next, effects := Reconcile(s.prev, in, !s.primed, s.state)
		s.prev = in
		s.primed = true
		s.state = next

		navigated := false
		for _, e := range effects {
			if e.Kind == EffectNavigate {
				s.navigate(e.ConversationID, e.Mode)
				navigated = true
				continue
			}
			s.queue(e)
		}
		if !navigated && s.inputs().equal(in) {
			return
		}
	}
	s.log.Warn("sync not settled", "passes", maxSyncPasses)
}

func (s *Session) queue(e Effect) {
	if e.Kind == EffectFocus {
		kept := s.effects[:0]
		for _, prev := range s.effects {
			if prev.Kind != EffectFocus {
				kept = append(kept, prev)
			}
		}
		s.effects = kept
	}
	s.effects = append(s.effects, e)
}

func (s *Session) lists() ask.Lists {
	if s.access.ServerID == "" {
		return ask.Lists{}
	}
	return s.cache.Lists(s.access.ServerID)
}

func (s *Session) candidates(mode ask.ListMode, lists ask.Lists) []string {
	if mode == ask.ModeShared && !s.access.SharingEnabled {
		return nil
	}
	return lists.CandidateIDs(mode, s.state.Query)
}

// thread returns the cached detail for id when it is loaded.
func (s *Session) thread(id string) (ask.Thread, bool) {
	if id == "" || s.access.ServerID == "" {
		return ask.Thread{}, false
	}
	t, st := s.cache.Thread(s.access.ServerID, id)
	if !st.Loaded || t.Conversation.ID != id {
		return ask.Thread{}, false
	}
	return t, true
}

// activeConversation resolves the routed id against the detail cache, then
// the owned and archived lists, then the shared summaries.
func (s *Session) activeConversation(id string, lists ask.Lists) (ask.Conversation, bool) {
	if id == "" {
		return ask.Conversation{}, false
	}
	if t, ok := s.thread(id); ok {
		return t.Conversation, true
	}
	if c, ok := lists.FindConversation(id); ok {
		return c, true
	}
	if sh, ok := lists.FindShared(id); ok {
		return ask.Conversation{
			ID:         sh.ConversationID,
			Title:      sh.Title,
			Summary:    sh.Summary,
			UpdatedAt:  sh.UpdatedAt,
			Visibility: ask.VisibilityServer,
		}, true
	}
	return ask.Conversation{}, false
}

// ownedByUser reports whether id appears in one of the user's own lists.
func ownedByUser(lists ask.Lists, id string) bool {
	_, ok := lists.FindConversation(id)
	return ok
}

// pendingLoad reports whether key is unloaded or being fetched. A slot whose
// last fetch failed is settled, not loading.
func (s *Session) pendingLoad(key cache.Key) bool {
	if s.fetching[key] {
		return true
	}
	if _, failed := s.failed[key]; failed {
		return false
	}
	return !s.cache.Status(key).Loaded
}

func (s *Session) loading(mode ask.ListMode, activeID string, candidates []string) bool {
	if s.access.ServerID == "" {
		return false
	}
	if mode == ask.ModeShared && !s.access.SharingEnabled {
		return false
	}
	if s.pendingLoad(cache.ListKey(s.access.ServerID, cache.ListKindFor(mode))) {
		return true
	}
	if activeID != "" && !contains(candidates, activeID) {
		return s.pendingLoad(cache.ThreadKey(s.access.ServerID, activeID))
	}
	return false
}

func (s *Session) confirmedMessages(activeID string) []ask.Message {
	if t, ok := s.thread(activeID); ok {
		return t.Messages
	}
	return nil
}

// displayMessages shows the optimistic turn only in the conversation it was
// asked in.
func (s *Session) displayMessages(activeID string) []ask.Message {
	var optimistic []ask.Message
	if activeID == s.state.OptimisticTarget {
		optimistic = s.state.OptimisticMessages
	}
	placeholderAt := s.timestamp()
	if n := len(optimistic); n > 0 {
		placeholderAt = optimistic[n-1].CreatedAt
	}
	return ask.DisplayMessages(
		s.confirmedMessages(activeID),
		optimistic,
		s.state.AskPending,
		ask.ThinkingPlaceholder(placeholderAt),
	)
}

func (s *Session) inputs() Inputs {
	r := s.router.Current()
	lists := s.lists()
	candidates := s.candidates(r.Mode, lists)
	in := Inputs{
		ServerID:             s.access.ServerID,
		AskAllowed:           s.access.AskAllowed,
		SharingEnabled:       s.access.SharingEnabled,
		Mode:                 r.Mode,
		ActiveID:             r.ConversationID,
		HighlightedMessageID: r.MessageID,
		Candidates:           candidates,
		Loading:              s.loading(r.Mode, r.ConversationID, candidates),
		Confirmed:            s.confirmedMessages(r.ConversationID),
		CreatingNew:          s.state.CreatingNew,
		AskPending:           s.state.AskPending,
	}
	if c, ok := s.activeConversation(r.ConversationID, lists); ok {
		in.ActiveTitle = c.Title
		in.ActiveArchived = c.Archived()
		_, listed := lists.FindShared(c.ID)
		in.ActiveShared = !ownedByUser(lists, c.ID) &&
			(listed || (!c.Archived() && c.EffectiveVisibility() != ask.VisibilityPrivate))
	}
	in.DisplayCount = len(s.displayMessages(r.ConversationID))
	return in
}
