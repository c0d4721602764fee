package nhost

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/tavisz/chatterbox/chat"
)

const graphqlRequestTimeout = 30 * time.Second

// GraphQL documents for the backend's chat schema.
const (
	getChatsQuery = `
		query GetChats {
			chats(order_by: { updated_at: desc }) {
				id
				title
				created_at
				updated_at
				user_id
				messages(order_by: { created_at: desc }, limit: 1) {
					id
					content
					sender_type
					created_at
					chat_id
					user_id
				}
			}
		}`

	getChatMessagesQuery = `
		query GetChatMessages($chatId: uuid!) {
			messages(
				where: { chat_id: { _eq: $chatId } }
				order_by: { created_at: asc }
			) {
				id
				content
				sender_type
				created_at
				chat_id
				user_id
			}
		}`

	createChatMutation = `
		mutation CreateChat($userId: uuid!, $title: String!) {
			insert_chats_one(object: { user_id: $userId, title: $title }) {
				id
				title
				created_at
				updated_at
				user_id
			}
		}`

	createMessageMutation = `
		mutation CreateMessage($chatId: uuid!, $content: String!, $senderType: String!) {
			insert_messages_one(
				object: { chat_id: $chatId, content: $content, sender_type: $senderType }
			) {
				id
				content
				sender_type
				created_at
				chat_id
				user_id
			}
		}`

	updateChatTimestampMutation = `
		mutation UpdateChatTimestamp($chatId: uuid!) {
			update_chats_by_pk(pk_columns: { id: $chatId }, _set: { updated_at: "now()" }) {
				id
				updated_at
			}
		}`

	deleteChatMutation = `
		mutation DeleteChat($chatId: uuid!) {
			delete_messages(where: { chat_id: { _eq: $chatId } }) {
				affected_rows
			}
			delete_chats_by_pk(id: $chatId) {
				id
			}
		}`
)

// Client implements chat.Transport against the backend's GraphQL API.
type Client struct {
	url          string
	websocketURL string
	httpClient   *http.Client
	token        TokenSource
}

// NewClient instantiates a GraphQL transport for the given backend.
func NewClient(config Config, token TokenSource) *Client {
	return &Client{
		url:          config.graphqlURL(),
		websocketURL: config.graphqlWebsocketURL(),
		httpClient:   &http.Client{Timeout: graphqlRequestTimeout},
		token:        token,
	}
}

type wireMessage struct {
	ID         string    `json:"id"`
	Content    string    `json:"content"`
	SenderType string    `json:"sender_type"`
	CreatedAt  time.Time `json:"created_at"`
	ChatID     string    `json:"chat_id"`
	UserID     string    `json:"user_id"`
}

func (m *wireMessage) toMessage() *chat.Message {
	return &chat.Message{
		ID:        m.ID,
		ChatID:    m.ChatID,
		Content:   m.Content,
		Sender:    chat.Sender(m.SenderType),
		CreatedAt: m.CreatedAt,
		UserID:    m.UserID,
	}
}

type wireChat struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
	UserID    string        `json:"user_id"`
	Messages  []wireMessage `json:"messages"`
}

func (c *wireChat) toChat() *chat.Chat {
	converted := &chat.Chat{
		ID:        c.ID,
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		UserID:    c.UserID,
	}
	if len(c.Messages) > 0 {
		converted.LastMessage = c.Messages[0].toMessage()
	}
	return converted
}

func toChats(wire []wireChat) []*chat.Chat {
	chats := make([]*chat.Chat, 0, len(wire))
	for i := range wire {
		chats = append(chats, wire[i].toChat())
	}
	return chats
}

func toMessages(wire []wireMessage) []*chat.Message {
	messages := make([]*chat.Message, 0, len(wire))
	for i := range wire {
		messages = append(messages, wire[i].toMessage())
	}
	return messages
}

// CreateChat creates a chat owned by the given user.
func (c *Client) CreateChat(ctx context.Context, userID, title string) (*chat.Chat, error) {
	var response struct {
		InsertChatsOne *wireChat `json:"insert_chats_one"`
	}
	variables := map[string]any{"userId": userID, "title": title}
	if err := c.do(ctx, "CreateChat", createChatMutation, variables, &response); err != nil {
		return nil, err
	}
	if response.InsertChatsOne == nil {
		return nil, errors.New("backend returned no chat")
	}
	return response.InsertChatsOne.toChat(), nil
}

// CreateMessage appends a message to a chat. The backend fills in the owning
// user from the bearer token.
func (c *Client) CreateMessage(ctx context.Context, chatID, content string, sender chat.Sender) (*chat.Message, error) {
	var response struct {
		InsertMessagesOne *wireMessage `json:"insert_messages_one"`
	}
	variables := map[string]any{"chatId": chatID, "content": content, "senderType": string(sender)}
	if err := c.do(ctx, "CreateMessage", createMessageMutation, variables, &response); err != nil {
		return nil, err
	}
	if response.InsertMessagesOne == nil {
		return nil, errors.New("backend returned no message")
	}
	return response.InsertMessagesOne.toMessage(), nil
}

// DeleteChat removes a chat, deleting its messages first.
func (c *Client) DeleteChat(ctx context.Context, chatID string) error {
	var response struct {
		DeleteChatsByPk *struct {
			ID string `json:"id"`
		} `json:"delete_chats_by_pk"`
	}
	variables := map[string]any{"chatId": chatID}
	if err := c.do(ctx, "DeleteChat", deleteChatMutation, variables, &response); err != nil {
		return err
	}
	if response.DeleteChatsByPk == nil {
		return errors.New("chat not found")
	}
	return nil
}

// TouchChat bumps a chat's updated_at timestamp.
func (c *Client) TouchChat(ctx context.Context, chatID string) error {
	var response struct {
		UpdateChatsByPk *struct {
			ID string `json:"id"`
		} `json:"update_chats_by_pk"`
	}
	variables := map[string]any{"chatId": chatID}
	return c.do(ctx, "UpdateChatTimestamp", updateChatTimestampMutation, variables, &response)
}

// ListChats returns the authenticated user's chats. Row filtering happens in
// the backend's permission layer, keyed on the bearer token.
func (c *Client) ListChats(ctx context.Context) ([]*chat.Chat, error) {
	var response struct {
		Chats []wireChat `json:"chats"`
	}
	if err := c.do(ctx, "GetChats", getChatsQuery, nil, &response); err != nil {
		return nil, err
	}
	return toChats(response.Chats), nil
}

// ListMessages returns a chat's messages, oldest first.
func (c *Client) ListMessages(ctx context.Context, chatID string) ([]*chat.Message, error) {
	var response struct {
		Messages []wireMessage `json:"messages"`
	}
	variables := map[string]any{"chatId": chatID}
	if err := c.do(ctx, "GetChatMessages", getChatMessagesQuery, variables, &response); err != nil {
		return nil, err
	}
	return toMessages(response.Messages), nil
}

type graphqlRequest struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables,omitempty"`
	OperationName string         `json:"operationName,omitempty"`
}

type graphqlError struct {
	Message string `json:"message"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphqlError  `json:"errors"`
}

func (c *Client) do(ctx context.Context, operationName, query string, variables map[string]any, out any) error {
	payload, err := json.Marshal(graphqlRequest{
		Query:         query,
		Variables:     variables,
		OperationName: operationName,
	})
	if err != nil {
		return errors.Wrap(err, "marshaling request")
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	request.Header.Set("Content-Type", "application/json")
	if token := c.token(); token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return errors.Wrap(err, "performing request")
	}
	defer response.Body.Close()

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		return errors.Wrap(err, "reading response")
	}
	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("graphql request failed with status %d: %s", response.StatusCode, raw)
	}

	decoded := &graphqlResponse{}
	if err := json.Unmarshal(raw, decoded); err != nil {
		return errors.Wrap(err, "unmarshaling response")
	}
	if len(decoded.Errors) > 0 {
		messages := make([]string, 0, len(decoded.Errors))
		for _, e := range decoded.Errors {
			messages = append(messages, e.Message)
		}
		return fmt.Errorf("graphql errors: %s", strings.Join(messages, "; "))
	}
	if out != nil {
		if err := json.Unmarshal(decoded.Data, out); err != nil {
			return errors.Wrap(err, "unmarshaling data")
		}
	}
	return nil
}
