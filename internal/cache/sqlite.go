package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore persists entries across runs. Entries loaded from a previous
// run start out stale so the first refresh revalidates them.
type SQLiteStore struct {
	dbPath string
	db     *sql.DB
	mu     sync.Mutex
	now    func() time.Time
}

func OpenSQLite(dbPath string, reset bool) (*SQLiteStore, error) {
	if reset {
		_ = os.Remove(dbPath)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	s := &SQLiteStore{dbPath: dbPath, db: db, now: time.Now}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec(`UPDATE entries SET stale = 1;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("mark cached entries stale: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	stmts := []string{
		`PRAGMA journal_mode = WAL;`,
		`CREATE TABLE IF NOT EXISTS entries (
			server_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			conversation_id TEXT NOT NULL DEFAULT '',
			payload BLOB NOT NULL,
			stale INTEGER NOT NULL DEFAULT 0,
			updated_at INTEGER NOT NULL,
			PRIMARY KEY (server_id, kind, conversation_id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_entries_server_kind ON entries(server_id, kind);`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) Get(key Key) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		e       Entry
		stale   int
		updated int64
	)
	err := s.db.QueryRow(`
		SELECT payload, stale, updated_at FROM entries
		WHERE server_id = ? AND kind = ? AND conversation_id = ?
	`, key.ServerID, string(key.Kind), key.ConversationID).Scan(&e.Value, &stale, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, ErrNotFound
		}
		return Entry{}, fmt.Errorf("read %s entry: %w", key.Kind, err)
	}
	e.Stale = stale != 0
	e.UpdatedAt = time.Unix(updated, 0).UTC()
	return e, nil
}

func (s *SQLiteStore) Set(key Key, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(`
		INSERT INTO entries(server_id, kind, conversation_id, payload, stale, updated_at)
		VALUES(?, ?, ?, ?, 0, ?)
		ON CONFLICT(server_id, kind, conversation_id) DO UPDATE SET
			payload=excluded.payload,
			stale=0,
			updated_at=excluded.updated_at
	`, key.ServerID, string(key.Kind), key.ConversationID, value, s.now().Unix()); err != nil {
		return fmt.Errorf("upsert %s entry: %w", key.Kind, err)
	}
	return nil
}

func (s *SQLiteStore) Invalidate(key Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`
		UPDATE entries SET stale = 1
		WHERE server_id = ? AND kind = ? AND conversation_id = ?
	`, key.ServerID, string(key.Kind), key.ConversationID)
	if err != nil {
		return fmt.Errorf("invalidate %s entry: %w", key.Kind, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Prune drops thread entries of serverID that were not refreshed since cutoff.
func (s *SQLiteStore) Prune(serverID string, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`
		DELETE FROM entries
		WHERE server_id = ? AND kind = ? AND updated_at < ?
	`, serverID, string(KindThread), cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("prune thread entries: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count pruned entries: %w", err)
	}
	return n, nil
}
