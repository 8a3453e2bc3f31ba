package route

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/BASIC-BIT/meeting-notes-discord-bot-sub002/internal/ask"
)

var ErrInvalidPath = errors.New("not an ask path")

// BasePath is the path prefix of the ask pane.
const BasePath = "/ask"

// Route is everything the pane reads from the URL.
type Route struct {
	Mode           ask.ListMode
	ConversationID string
	MessageID      string
}

// Parse reads /ask[/<conversationId>][?list=<mode>&messageId=<id>].
func Parse(raw string) (Route, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return Route{}, fmt.Errorf("parse route: %w", err)
	}
	path := strings.TrimRight(u.EscapedPath(), "/")
	if path != BasePath && !strings.HasPrefix(path, BasePath+"/") {
		return Route{}, fmt.Errorf("%w: %s", ErrInvalidPath, u.Path)
	}
	rest := strings.TrimPrefix(strings.TrimPrefix(path, BasePath), "/")
	if strings.Contains(rest, "/") {
		return Route{}, fmt.Errorf("%w: %s", ErrInvalidPath, u.Path)
	}
	id, err := url.PathUnescape(rest)
	if err != nil {
		return Route{}, fmt.Errorf("parse route: %w", err)
	}

	q := u.Query()
	mode, _ := ask.ParseListMode(q.Get("list"))
	return Route{
		Mode:           mode,
		ConversationID: id,
		MessageID:      q.Get("messageId"),
	}, nil
}

func (r Route) String() string {
	path := BasePath
	if r.ConversationID != "" {
		path += "/" + url.PathEscape(r.ConversationID)
	}
	q := url.Values{}
	if r.Mode != "" && r.Mode != ask.ModeMine {
		q.Set("list", string(r.Mode))
	}
	if r.MessageID != "" {
		q.Set("messageId", r.MessageID)
	}
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

// History is an in-memory router. Navigation pushes a new entry.
type History struct {
	mu      sync.Mutex
	entries []Route
}

func NewHistory(start Route) *History {
	if start.Mode == "" {
		start.Mode = ask.ModeMine
	}
	return &History{entries: []Route{start}}
}

func (h *History) Current() Route {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[len(h.entries)-1]
}

// NavigateToConversation selects id (empty for none) in mode. A deep-linked
// message id only survives when the conversation does not change.
func (h *History) NavigateToConversation(id string, mode ask.ListMode) Route {
	h.mu.Lock()
	defer h.mu.Unlock()
	cur := h.entries[len(h.entries)-1]
	next := Route{Mode: mode, ConversationID: id}
	if next.Mode == "" {
		next.Mode = ask.ModeMine
	}
	if id != "" && id == cur.ConversationID {
		next.MessageID = cur.MessageID
	}
	if next == cur {
		return cur
	}
	h.entries = append(h.entries, next)
	return next
}

// Open parses raw and pushes it, as when following a link.
func (h *History) Open(raw string) (Route, error) {
	r, err := Parse(raw)
	if err != nil {
		return Route{}, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, r)
	return r, nil
}

// Back pops the latest entry, keeping at least one.
func (h *History) Back() Route {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) > 1 {
		h.entries = h.entries[:len(h.entries)-1]
	}
	return h.entries[len(h.entries)-1]
}

func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}
