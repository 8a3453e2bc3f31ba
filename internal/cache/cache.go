package cache

import (
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/BASIC-BIT/meeting-notes-discord-bot-sub002/internal/ask"
	"github.com/charmbracelet/log"
)

var ErrNotFound = errors.New("cache entry not found")

type Kind string

const (
	KindOwned    Kind = "owned"
	KindArchived Kind = "archived"
	KindShared   Kind = "shared"
	KindThread   Kind = "thread"
)

// Key addresses one cache slot. ConversationID is only set for KindThread.
type Key struct {
	ServerID       string
	Kind           Kind
	ConversationID string
}

func ListKey(serverID string, kind Kind) Key {
	return Key{ServerID: serverID, Kind: kind}
}

func ThreadKey(serverID, conversationID string) Key {
	return Key{ServerID: serverID, Kind: KindThread, ConversationID: conversationID}
}

// ListKindFor maps a list mode onto the list slot that backs it.
func ListKindFor(mode ask.ListMode) Kind {
	switch mode {
	case ask.ModeShared:
		return KindShared
	case ask.ModeArchived:
		return KindArchived
	default:
		return KindOwned
	}
}

type Entry struct {
	Value     []byte
	Stale     bool
	UpdatedAt time.Time
}

// Store is the raw key-value backing of a Cache.
type Store interface {
	Get(key Key) (Entry, error)
	Set(key Key, value []byte) error
	Invalidate(key Key) error
	Close() error
}

// Status describes a cache slot as seen by readers.
type Status struct {
	Loaded bool
	Stale  bool
}

// NeedsFetch reports whether the slot must be (re)fetched.
func (s Status) NeedsFetch() bool {
	return !s.Loaded || s.Stale
}

// Cache is the typed view over a Store. Write failures are logged and
// swallowed: the cache is an accelerator, never a source of errors for
// the synchronization engine.
type Cache struct {
	store Store
	log   *log.Logger
}

func New(store Store, logger *log.Logger) *Cache {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Cache{store: store, log: logger}
}

func (c *Cache) Close() error {
	return c.store.Close()
}

func get[T any](c *Cache, key Key) (T, Status) {
	var out T
	entry, err := c.store.Get(key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			c.log.Warn("cache read failed", "kind", string(key.Kind), "conversation_id", key.ConversationID, "err", err)
		}
		return out, Status{}
	}
	if err := json.Unmarshal(entry.Value, &out); err != nil {
		c.log.Warn("cache decode failed", "kind", string(key.Kind), "err", err)
		return out, Status{}
	}
	return out, Status{Loaded: true, Stale: entry.Stale}
}

func set[T any](c *Cache, key Key, v T) {
	data, err := json.Marshal(v)
	if err != nil {
		c.log.Error("cache encode failed", "kind", string(key.Kind), "err", err)
		return
	}
	if err := c.store.Set(key, data); err != nil {
		c.log.Error("cache write failed", "kind", string(key.Kind), "conversation_id", key.ConversationID, "err", err)
	}
}

func (c *Cache) Conversations(serverID string, kind Kind) ([]ask.Conversation, Status) {
	return get[[]ask.Conversation](c, ListKey(serverID, kind))
}

func (c *Cache) SetConversations(serverID string, kind Kind, items []ask.Conversation) {
	if items == nil {
		items = []ask.Conversation{}
	}
	set(c, ListKey(serverID, kind), items)
}

func (c *Cache) Shared(serverID string) ([]ask.SharedConversationSummary, Status) {
	return get[[]ask.SharedConversationSummary](c, ListKey(serverID, KindShared))
}

func (c *Cache) SetShared(serverID string, items []ask.SharedConversationSummary) {
	if items == nil {
		items = []ask.SharedConversationSummary{}
	}
	set(c, ListKey(serverID, KindShared), items)
}

func (c *Cache) Thread(serverID, conversationID string) (ask.Thread, Status) {
	return get[ask.Thread](c, ThreadKey(serverID, conversationID))
}

func (c *Cache) SetThread(serverID string, t ask.Thread) {
	if t.Messages == nil {
		t.Messages = []ask.Message{}
	}
	set(c, ThreadKey(serverID, t.Conversation.ID), t)
}

// Status reports the state of key without decoding its value.
func (c *Cache) Status(key Key) Status {
	entry, err := c.store.Get(key)
	if err != nil {
		return Status{}
	}
	return Status{Loaded: true, Stale: entry.Stale}
}

// Invalidate marks key stale so the next refresh refetches it. Readers keep
// seeing the previous value until then.
func (c *Cache) Invalidate(key Key) {
	if err := c.store.Invalidate(key); err != nil && !errors.Is(err, ErrNotFound) {
		c.log.Error("cache invalidate failed", "kind", string(key.Kind), "conversation_id", key.ConversationID, "err", err)
	}
}

// Lists reads the three collections for serverID. Unloaded collections stay nil.
func (c *Cache) Lists(serverID string) ask.Lists {
	var l ask.Lists
	if owned, st := c.Conversations(serverID, KindOwned); st.Loaded {
		l.Owned = owned
	}
	if archived, st := c.Conversations(serverID, KindArchived); st.Loaded {
		l.Archived = archived
	}
	if shared, st := c.Shared(serverID); st.Loaded {
		l.Shared = shared
	}
	return l
}
