// Package demo implements the chat transport against a local SQLite store,
// with no network calls. It is used when no backend is configured.
package demo

import (
	"context"
	"sync"

	"github.com/tavisz/chatterbox/chat"
	"github.com/tavisz/chatterbox/internal/logging"
	"github.com/tavisz/chatterbox/store"
)

const demoUserID = "demo-user"

// Session returns the fabricated demo user session.
func Session() *chat.Session {
	return &chat.Session{
		UserID:      demoUserID,
		Email:       "demo@example.com",
		DisplayName: "Demo User",
	}
}

type messageWatcher struct {
	chatID string
	ch     chan []*chat.Message
}

// Transport implements chat.Transport over a local store. Watchers receive a
// full snapshot of their collection after every write, mirroring the push
// channel semantics of the live backend.
type Transport struct {
	store   *store.Store
	session *chat.Session

	mu              sync.Mutex
	nextWatcherID   int
	chatWatchers    map[int]chan []*chat.Chat
	messageWatchers map[int]messageWatcher
}

// NewTransport instantiates a demo transport over the given store.
func NewTransport(s *store.Store, session *chat.Session) *Transport {
	return &Transport{
		store:           s,
		session:         session,
		chatWatchers:    map[int]chan []*chat.Chat{},
		messageWatchers: map[int]messageWatcher{},
	}
}

// CreateChat creates a chat in the local store.
func (t *Transport) CreateChat(_ context.Context, userID, title string) (*chat.Chat, error) {
	created, err := t.store.CreateChat(&store.CreateChatRequest{UserID: userID, Title: title})
	if err != nil {
		return nil, err
	}
	t.notifyChatWatchers()
	return created, nil
}

// CreateMessage appends a message to a chat in the local store.
func (t *Transport) CreateMessage(_ context.Context, chatID, content string, sender chat.Sender) (*chat.Message, error) {
	message, err := t.store.CreateMessage(&store.CreateMessageRequest{
		ChatID:  chatID,
		UserID:  t.session.UserID,
		Content: content,
		Sender:  sender,
	})
	if err != nil {
		return nil, err
	}
	t.notifyMessageWatchers(chatID)
	return message, nil
}

// DeleteChat removes a chat and its messages from the local store.
func (t *Transport) DeleteChat(_ context.Context, chatID string) error {
	if err := t.store.DeleteChat(chatID); err != nil {
		return err
	}
	t.notifyChatWatchers()
	t.notifyMessageWatchers(chatID)
	return nil
}

// TouchChat bumps a chat's updated_at in the local store.
func (t *Transport) TouchChat(_ context.Context, chatID string) error {
	if err := t.store.TouchChat(chatID); err != nil {
		return err
	}
	t.notifyChatWatchers()
	return nil
}

// ListChats returns the session user's chats.
func (t *Transport) ListChats(_ context.Context) ([]*chat.Chat, error) {
	return t.store.ListChats(&store.ListChatsRequest{UserID: t.session.UserID})
}

// ListMessages returns a chat's messages.
func (t *Transport) ListMessages(_ context.Context, chatID string) ([]*chat.Message, error) {
	return t.store.ListMessages(chatID)
}

// WatchChats registers a chat list watcher. The channel closes when the
// context is canceled.
func (t *Transport) WatchChats(ctx context.Context) (<-chan []*chat.Chat, error) {
	ch := make(chan []*chat.Chat, 8)

	t.mu.Lock()
	id := t.nextWatcherID
	t.nextWatcherID++
	t.chatWatchers[id] = ch
	t.mu.Unlock()

	go func() {
		<-ctx.Done()
		t.mu.Lock()
		delete(t.chatWatchers, id)
		t.mu.Unlock()
		close(ch)
	}()
	return ch, nil
}

// WatchMessages registers a message watcher for one chat. The channel closes
// when the context is canceled.
func (t *Transport) WatchMessages(ctx context.Context, chatID string) (<-chan []*chat.Message, error) {
	ch := make(chan []*chat.Message, 8)

	t.mu.Lock()
	id := t.nextWatcherID
	t.nextWatcherID++
	t.messageWatchers[id] = messageWatcher{chatID: chatID, ch: ch}
	t.mu.Unlock()

	go func() {
		<-ctx.Done()
		t.mu.Lock()
		delete(t.messageWatchers, id)
		t.mu.Unlock()
		close(ch)
	}()
	return ch, nil
}

func (t *Transport) notifyChatWatchers() {
	chats, err := t.store.ListChats(&store.ListChatsRequest{UserID: t.session.UserID})
	if err != nil {
		logging.Get().Error("reading chats for watchers", "error", err)
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	for _, ch := range t.chatWatchers {
		select {
		case ch <- chats:
		default:
			// Slow watcher: drop the snapshot, the next write delivers a
			// fresh one.
		}
	}
}

func (t *Transport) notifyMessageWatchers(chatID string) {
	t.mu.Lock()
	interested := 0
	for _, w := range t.messageWatchers {
		if w.chatID == chatID {
			interested++
		}
	}
	t.mu.Unlock()
	if interested == 0 {
		return
	}

	messages, err := t.store.ListMessages(chatID)
	if err != nil {
		logging.Get().Error("reading messages for watchers", "chat_id", chatID, "error", err)
		return
	}

	// Sends happen under the lock so a watcher cannot be unregistered and
	// closed mid-delivery.
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, w := range t.messageWatchers {
		if w.chatID != chatID {
			continue
		}
		select {
		case w.ch <- messages:
		default:
		}
	}
}
