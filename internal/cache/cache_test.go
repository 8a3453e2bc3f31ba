package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/BASIC-BIT/meeting-notes-discord-bot-sub002/internal/ask"
)

func TestCacheRoundTripAndInvalidate(t *testing.T) {
	c := New(NewMemoryStore(), nil)

	if _, st := c.Conversations("g1", KindOwned); st.Loaded {
		t.Fatalf("expected empty cache")
	}

	c.SetConversations("g1", KindOwned, []ask.Conversation{{ID: "c1", Title: "Weekly sync"}})
	got, st := c.Conversations("g1", KindOwned)
	if !st.Loaded || st.Stale || len(got) != 1 || got[0].Title != "Weekly sync" {
		t.Fatalf("unexpected read: %v %+v", got, st)
	}

	c.Invalidate(ListKey("g1", KindOwned))
	got, st = c.Conversations("g1", KindOwned)
	if !st.Stale || len(got) != 1 {
		t.Fatalf("invalidated slot should keep its value and report stale: %v %+v", got, st)
	}
	if !st.NeedsFetch() {
		t.Fatalf("stale slot needs fetch")
	}

	if _, st := c.Conversations("g2", KindOwned); st.Loaded {
		t.Fatalf("servers must not share slots")
	}
}

func TestCacheThreadSlotsAreKeyedByConversation(t *testing.T) {
	c := New(NewMemoryStore(), nil)
	c.SetThread("g1", ask.Thread{Conversation: ask.Conversation{ID: "c1"}})
	c.SetThread("g1", ask.Thread{Conversation: ask.Conversation{ID: "c2"}, Messages: []ask.Message{{ID: "m1"}}})

	t1, st := c.Thread("g1", "c1")
	if !st.Loaded || t1.Messages == nil || len(t1.Messages) != 0 {
		t.Fatalf("expected empty, non-nil message slice for c1: %#v", t1)
	}
	t2, _ := c.Thread("g1", "c2")
	if len(t2.Messages) != 1 {
		t.Fatalf("unexpected c2 thread: %#v", t2)
	}

	c.Invalidate(ThreadKey("g1", "c1"))
	if st := c.Status(ThreadKey("g1", "c2")); st.Stale {
		t.Fatalf("invalidating c1 must not touch c2")
	}
}

func TestListsLeavesUnloadedCollectionsNil(t *testing.T) {
	c := New(NewMemoryStore(), nil)
	c.SetShared("g1", nil)
	l := c.Lists("g1")
	if l.Owned != nil || l.Archived != nil {
		t.Fatalf("expected nil owned/archived lists: %#v", l)
	}
	if l.Shared == nil {
		t.Fatalf("expected loaded (empty) shared list")
	}
}

func TestSQLiteStorePersistsAndMarksStaleOnReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.sqlite")
	store, err := OpenSQLite(path, false)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	c := New(store, nil)
	c.SetConversations("g1", KindArchived, []ask.Conversation{{ID: "c9", ArchivedAt: "2025-01-01T00:00:00Z"}})
	if st := c.Status(ListKey("g1", KindArchived)); !st.Loaded || st.Stale {
		t.Fatalf("fresh write should be loaded and not stale: %+v", st)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	store, err = OpenSQLite(path, false)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer store.Close()
	c = New(store, nil)
	got, st := c.Conversations("g1", KindArchived)
	if !st.Loaded || !st.Stale || len(got) != 1 || got[0].ID != "c9" {
		t.Fatalf("expected persisted stale entry, got %v %+v", got, st)
	}
}

func TestSQLiteStoreInvalidateMissing(t *testing.T) {
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "cache.sqlite"), true)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()
	if err := store.Invalidate(ThreadKey("g1", "nope")); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteStorePrune(t *testing.T) {
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "cache.sqlite"), true)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	store.now = func() time.Time { return time.Unix(1000, 0) }
	if err := store.Set(ThreadKey("g1", "old"), []byte(`{}`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	store.now = func() time.Time { return time.Unix(5000, 0) }
	if err := store.Set(ThreadKey("g1", "new"), []byte(`{}`)); err != nil {
		t.Fatalf("set: %v", err)
	}

	n, err := store.Prune("g1", time.Unix(2000, 0))
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 pruned entry, got %d", n)
	}
	if _, err := store.Get(ThreadKey("g1", "new")); err != nil {
		t.Fatalf("newer entry should survive: %v", err)
	}
}
