package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tavisz/chatterbox/chat"
)

// CreateMessageRequest represents a request to append a message to a chat.
type CreateMessageRequest struct {
	ChatID  string
	UserID  string
	Content string
	Sender  chat.Sender
}

// CreateMessage inserts a message. The parent chat must exist and belong to
// the requesting user.
func (s *Store) CreateMessage(req *CreateMessageRequest) (*chat.Message, error) {
	parent, err := s.GetChat(req.ChatID)
	if err != nil {
		return nil, err
	}
	if parent.UserID != req.UserID {
		return nil, fmt.Errorf("chat %s does not belong to user %s", req.ChatID, req.UserID)
	}

	message := &chat.Message{
		ID:        uuid.New().String(),
		ChatID:    req.ChatID,
		Content:   req.Content,
		Sender:    req.Sender,
		CreatedAt: time.Now(),
		UserID:    req.UserID,
	}

	_, err = s.db.Exec(`
		INSERT INTO messages (id, chat_id, user_id, content, sender, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, message.ID, message.ChatID, message.UserID, message.Content, string(message.Sender), message.CreatedAt.UnixMicro())
	if err != nil {
		return nil, fmt.Errorf("inserting message: %w", err)
	}

	return message, nil
}
