package nhost

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tavisz/chatterbox/chat"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return &Client{
		url:        server.URL,
		httpClient: server.Client(),
		token:      func() string { return "test-token" },
	}
}

func decodeRequest(t *testing.T, r *http.Request) graphqlRequest {
	t.Helper()
	request := graphqlRequest{}
	require.NoError(t, json.NewDecoder(r.Body).Decode(&request))
	return request
}

func TestListChatsDecodesSnapshot(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		request := decodeRequest(t, r)
		require.Equal(t, "GetChats", request.OperationName)

		w.Write([]byte(`{"data":{"chats":[{
			"id": "chat-1",
			"title": "First chat",
			"created_at": "2024-03-01T10:00:00+00:00",
			"updated_at": "2024-03-01T10:05:00+00:00",
			"user_id": "user-1",
			"messages": [{
				"id": "msg-9",
				"content": "latest",
				"sender_type": "bot",
				"created_at": "2024-03-01T10:05:00+00:00",
				"chat_id": "chat-1",
				"user_id": "user-1"
			}]
		}]}}`))
	})

	chats, err := client.ListChats(context.Background())
	require.NoError(t, err)
	require.Len(t, chats, 1)
	require.Equal(t, "chat-1", chats[0].ID)
	require.Equal(t, "First chat", chats[0].Title)
	require.NotNil(t, chats[0].LastMessage)
	require.Equal(t, chat.SenderBot, chats[0].LastMessage.Sender)
	require.True(t, chats[0].UpdatedAt.After(chats[0].CreatedAt))
}

func TestCreateChatSendsVariables(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		request := decodeRequest(t, r)
		require.Equal(t, "CreateChat", request.OperationName)
		require.Equal(t, "user-1", request.Variables["userId"])
		require.Equal(t, "A title", request.Variables["title"])

		w.Write([]byte(`{"data":{"insert_chats_one":{
			"id": "chat-2",
			"title": "A title",
			"created_at": "2024-03-01T10:00:00+00:00",
			"updated_at": "2024-03-01T10:00:00+00:00",
			"user_id": "user-1"
		}}}`))
	})

	created, err := client.CreateChat(context.Background(), "user-1", "A title")
	require.NoError(t, err)
	require.Equal(t, "chat-2", created.ID)
}

func TestCreateMessageSendsSender(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		request := decodeRequest(t, r)
		require.Equal(t, "bot", request.Variables["senderType"])

		w.Write([]byte(`{"data":{"insert_messages_one":{
			"id": "msg-1",
			"content": "hi there",
			"sender_type": "bot",
			"created_at": "2024-03-01T10:00:00+00:00",
			"chat_id": "chat-1",
			"user_id": "user-1"
		}}}`))
	})

	message, err := client.CreateMessage(context.Background(), "chat-1", "hi there", chat.SenderBot)
	require.NoError(t, err)
	require.Equal(t, chat.SenderBot, message.Sender)
}

func TestGraphqlErrorsSurface(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors":[{"message":"permission denied"}]}`))
	})

	_, err := client.ListChats(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "permission denied")
}

func TestDeleteChatMissing(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"delete_messages":{"affected_rows":0},"delete_chats_by_pk":null}}`))
	})

	err := client.DeleteChat(context.Background(), "no-such-chat")
	require.Error(t, err)
}
