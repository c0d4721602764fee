package store

import (
	"database/sql"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

// Store implements a SQLite store for chats and their messages. It backs the
// demo-mode transport.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the store at the given path.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS chats (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			title TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS messages (
			id TEXT PRIMARY KEY,
			chat_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			content TEXT NOT NULL,
			sender TEXT NOT NULL,
			created_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS messages_by_chat ON messages (chat_id, created_at);
	`)
	if err != nil {
		return nil, errors.Wrap(err, "creating tables")
	}

	return &Store{db: db}, nil
}

// Close the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
