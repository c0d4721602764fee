package store

import (
	"database/sql"
	"fmt"

	"github.com/tavisz/chatterbox/chat"
)

// ListChatsRequest contains parameters for listing chats.
type ListChatsRequest struct {
	UserID string
}

// ListChats returns the user's chats ordered by updated_at descending, each
// carrying its most recent message as a summary.
func (s *Store) ListChats(req *ListChatsRequest) ([]*chat.Chat, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, title, created_at, updated_at
		FROM chats
		WHERE user_id = ?
		ORDER BY updated_at DESC
	`, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("querying chats: %w", err)
	}
	defer rows.Close()

	var chats []*chat.Chat
	for rows.Next() {
		scanned, err := scanChat(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning chat row: %w", err)
		}
		chats = append(chats, scanned)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chat rows: %w", err)
	}

	for _, c := range chats {
		lastMessage, err := s.lastMessage(c.ID)
		if err != nil {
			return nil, err
		}
		c.LastMessage = lastMessage
	}
	return chats, nil
}

func (s *Store) lastMessage(chatID string) (*chat.Message, error) {
	row := s.db.QueryRow(`
		SELECT id, chat_id, user_id, content, sender, created_at
		FROM messages
		WHERE chat_id = ?
		ORDER BY created_at DESC
		LIMIT 1
	`, chatID)

	message, err := scanMessage(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("querying last message: %w", err)
	}
	return message, nil
}
