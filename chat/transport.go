package chat

import "context"

// Transport is the request/response and push channel against the chat
// backend. The live implementation talks GraphQL to Nhost; the demo
// implementation is backed by a local store.
type Transport interface {
	// CreateChat creates a chat owned by the given user and returns it with
	// its backend-assigned identifier.
	CreateChat(ctx context.Context, userID, title string) (*Chat, error)

	// CreateMessage appends a message to a chat.
	CreateMessage(ctx context.Context, chatID, content string, sender Sender) (*Message, error)

	// DeleteChat removes a chat and all of its messages.
	DeleteChat(ctx context.Context, chatID string) error

	// TouchChat bumps a chat's updated_at timestamp.
	TouchChat(ctx context.Context, chatID string) error

	// ListChats returns the user's chats ordered by updated_at descending.
	ListChats(ctx context.Context) ([]*Chat, error)

	// ListMessages returns a chat's messages ordered by created_at ascending.
	ListMessages(ctx context.Context, chatID string) ([]*Message, error)

	// WatchChats subscribes to the chat list. Each delivery is a full
	// snapshot of the collection, not a delta. The channel is closed when the
	// context is canceled or the subscription ends.
	WatchChats(ctx context.Context) (<-chan []*Chat, error)

	// WatchMessages subscribes to one chat's messages, with the same snapshot
	// semantics as WatchChats.
	WatchMessages(ctx context.Context, chatID string) (<-chan []*Message, error)
}
