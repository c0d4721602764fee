package store

import (
	"database/sql"
	"fmt"

	"github.com/tavisz/chatterbox/chat"
)

// GetChat returns a single chat by ID.
func (s *Store) GetChat(chatID string) (*chat.Chat, error) {
	row := s.db.QueryRow(`
		SELECT id, user_id, title, created_at, updated_at
		FROM chats
		WHERE id = ?
	`, chatID)

	found, err := scanChat(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("chat not found")
		}
		return nil, fmt.Errorf("querying chat: %w", err)
	}
	return found, nil
}
