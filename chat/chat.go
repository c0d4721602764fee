package chat

import "time"

// Sender identifies who authored a message.
type Sender string

const (
	// SenderUser marks a message typed by the user.
	SenderUser Sender = "user"
	// SenderBot marks a message produced by the bot.
	SenderBot Sender = "bot"
)

// Chat represents a conversation thread owned by a single user.
type Chat struct {
	// ID of this chat, assigned by the backend.
	ID string
	// Title displayed in chat lists.
	Title string
	// Time at which the chat was created.
	CreatedAt time.Time
	// Time at which the chat was last updated.
	UpdatedAt time.Time
	// ID of the owning user.
	UserID string
	// The most recent message of this chat, if any.
	LastMessage *Message
}

// Message is a single utterance within a chat. Messages are immutable once
// created; there is no edit operation.
type Message struct {
	ID        string
	ChatID    string
	Content   string
	Sender    Sender
	CreatedAt time.Time
	UserID    string
}

// Session is the authenticated user context. It is injected explicitly into
// the controller rather than read from ambient state.
type Session struct {
	UserID      string
	Email       string
	DisplayName string
}
