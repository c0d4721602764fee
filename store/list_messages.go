package store

import (
	"fmt"

	"github.com/tavisz/chatterbox/chat"
)

// ListMessages returns a chat's messages ordered by created_at ascending.
func (s *Store) ListMessages(chatID string) ([]*chat.Message, error) {
	rows, err := s.db.Query(`
		SELECT id, chat_id, user_id, content, sender, created_at
		FROM messages
		WHERE chat_id = ?
		ORDER BY created_at ASC
	`, chatID)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	return scanMessages(rows)
}
