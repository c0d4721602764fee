package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tavisz/chatterbox/chat"
)

// CreateChatRequest represents a request to create a new chat.
type CreateChatRequest struct {
	UserID string
	Title  string
}

// CreateChat inserts a new chat and returns it with its assigned identifier.
func (s *Store) CreateChat(req *CreateChatRequest) (*chat.Chat, error) {
	if req.UserID == "" {
		return nil, fmt.Errorf("user id cannot be empty")
	}

	now := time.Now()
	created := &chat.Chat{
		ID:        uuid.New().String(),
		Title:     req.Title,
		CreatedAt: now,
		UpdatedAt: now,
		UserID:    req.UserID,
	}

	_, err := s.db.Exec(`
		INSERT INTO chats (id, user_id, title, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, created.ID, created.UserID, created.Title, created.CreatedAt.UnixMicro(), created.UpdatedAt.UnixMicro())
	if err != nil {
		return nil, fmt.Errorf("inserting chat: %w", err)
	}

	return created, nil
}
