package chat

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func chatList(ids ...string) []*Chat {
	chats := make([]*Chat, 0, len(ids))
	for _, id := range ids {
		chats = append(chats, &Chat{ID: id})
	}
	return chats
}

func messageList(chatID string, ids ...string) []*Message {
	messages := make([]*Message, 0, len(ids))
	for _, id := range ids {
		messages = append(messages, &Message{ID: id, ChatID: chatID})
	}
	return messages
}

func TestViewChatsPushWinsOverFetch(t *testing.T) {
	view := NewView()
	view.SetFetchedChats(chatList("a", "b"))
	view.SetPushedChats(chatList("c"))

	// The push snapshot replaces the fetch result wholesale, even though the
	// fetch result is non-empty and different.
	chats := view.Chats()
	require.Len(t, chats, 1)
	require.Equal(t, "c", chats[0].ID)
}

func TestViewChatsFallsBackToFetch(t *testing.T) {
	view := NewView()
	require.Empty(t, view.Chats())

	view.SetFetchedChats(chatList("a", "b"))
	chats := view.Chats()
	require.Len(t, chats, 2)

	// An empty push snapshot does not shadow the fetch result.
	view.SetPushedChats(nil)
	require.Len(t, view.Chats(), 2)
}

func TestViewMessagesScopedToChat(t *testing.T) {
	view := NewView()
	view.SetFetchedMessages("chat-1", messageList("chat-1", "m1", "m2"))

	require.Len(t, view.Messages("chat-1"), 2)
	require.Empty(t, view.Messages("chat-2"))
	require.Empty(t, view.Messages(""))
}

func TestViewMessagesPushWinsOverFetch(t *testing.T) {
	view := NewView()
	view.SetFetchedMessages("chat-1", messageList("chat-1", "m1"))
	view.SetPushedMessages("chat-1", messageList("chat-1", "m1", "m2"))

	messages := view.Messages("chat-1")
	require.Len(t, messages, 2)
}

func TestViewSelectingAnotherChatDiscardsPreviousMessages(t *testing.T) {
	view := NewView()
	view.SetFetchedMessages("chat-1", messageList("chat-1", "m1"))
	view.SetPushedMessages("chat-2", messageList("chat-2", "m2"))

	// The previous chat's slots are gone; only chat-2 is visible.
	require.Empty(t, view.Messages("chat-1"))
	messages := view.Messages("chat-2")
	require.Len(t, messages, 1)
	require.Equal(t, "m2", messages[0].ID)
}
