package src

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ErrStoreClosed is returned for operations on a closed store.
var ErrStoreClosed = errors.New("store is closed")

// StoredMessage is one persisted transcript row.
type StoredMessage struct {
	ID        int64
	ClientID  string
	Kind      string
	Content   string
	CreatedAt time.Time
}

// Store persists finalized transcript messages to SQLite so /history can
// replay them across sessions.
type Store struct {
	db *sql.DB
}

// NewStore opens (and if needed creates) the history database at path.
func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) initSchema() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS messages (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		client_id  TEXT NOT NULL,
		kind       TEXT NOT NULL,
		content    TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_messages_created ON messages(created_at);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// SaveMessage persists one finalized transcript message. Tool batches and
// cards are stored as their JSON form so the row stays self-describing.
func (s *Store) SaveMessage(clientID string, m Message) error {
	if s == nil || s.db == nil {
		return ErrStoreClosed
	}

	content := m.Content
	switch m.Kind {
	case KindTool:
		b, err := json.Marshal(m.Calls)
		if err != nil {
			return fmt.Errorf("encode tool calls: %w", err)
		}
		content = string(b)
	case KindCards:
		b, err := json.Marshal(m.Cards)
		if err != nil {
			return fmt.Errorf("encode cards: %w", err)
		}
		content = string(b)
	}

	_, err := s.db.Exec(
		`INSERT INTO messages (client_id, kind, content, created_at) VALUES (?, ?, ?, ?)`,
		clientID, m.Kind.String(), content, m.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// Recent returns the latest n messages in chronological order.
func (s *Store) Recent(n int) ([]StoredMessage, error) {
	if s == nil || s.db == nil {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.Query(
		`SELECT id, client_id, kind, content, created_at
		 FROM messages ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var msgs []StoredMessage
	for rows.Next() {
		var m StoredMessage
		if err := rows.Scan(&m.ID, &m.ClientID, &m.Kind, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}

	// Newest-first from the query; flip to reading order.
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
