package chat

import "sync"

// View holds the reconciled, read-only projection of chats and messages that
// is consumed for rendering. Each collection has two slots: the last one-shot
// fetch result and the last push snapshot. A non-empty push snapshot wins
// over the fetch result wholesale; the two are never merged field by field.
type View struct {
	mu sync.Mutex

	fetchedChats []*Chat
	pushedChats  []*Chat

	// Message slots are scoped to a single chat. Writing a slot for a
	// different chat discards both slots of the previous one.
	messagesChatID  string
	fetchedMessages []*Message
	pushedMessages  []*Message
}

// NewView returns an empty view.
func NewView() *View {
	return &View{}
}

// SetFetchedChats records the result of a one-shot chat list fetch.
func (v *View) SetFetchedChats(chats []*Chat) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.fetchedChats = chats
}

// SetPushedChats records a push snapshot of the chat list.
func (v *View) SetPushedChats(chats []*Chat) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.pushedChats = chats
}

// Chats returns the pushed chat list if non-empty, else the fetched list,
// else nothing. An empty result is a valid state, not a failure.
func (v *View) Chats() []*Chat {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.pushedChats) > 0 {
		return v.pushedChats
	}
	return v.fetchedChats
}

// SetFetchedMessages records the result of a one-shot message fetch for the
// given chat.
func (v *View) SetFetchedMessages(chatID string, messages []*Message) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.messagesChatID != chatID {
		v.messagesChatID = chatID
		v.pushedMessages = nil
	}
	v.fetchedMessages = messages
}

// SetPushedMessages records a push snapshot of the given chat's messages.
func (v *View) SetPushedMessages(chatID string, messages []*Message) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.messagesChatID != chatID {
		v.messagesChatID = chatID
		v.fetchedMessages = nil
	}
	v.pushedMessages = messages
}

// Messages returns the reconciled message list for the given chat: pushed if
// non-empty, else fetched. Messages recorded for a different chat are never
// returned.
func (v *View) Messages(chatID string) []*Message {
	v.mu.Lock()
	defer v.mu.Unlock()
	if chatID == "" || v.messagesChatID != chatID {
		return nil
	}
	if len(v.pushedMessages) > 0 {
		return v.pushedMessages
	}
	return v.fetchedMessages
}
