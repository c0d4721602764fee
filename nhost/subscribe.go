package nhost

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/tavisz/chatterbox/chat"
	"github.com/tavisz/chatterbox/internal/logging"
)

// Subscription documents. The backend pushes a full snapshot of the queried
// collection on every change, not a delta.
const (
	chatsSubscription = `
		subscription ChatsSubscription {
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

	messagesSubscription = `
		subscription MessagesSubscription($chatId: uuid!) {
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
)

// wsFrame is a graphql-transport-ws protocol frame.
type wsFrame struct {
	ID      string          `json:"id,omitempty"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// WatchChats subscribes to the chat list over graphql-ws.
func (c *Client) WatchChats(ctx context.Context) (<-chan []*chat.Chat, error) {
	snapshots, err := c.subscribe(ctx, chatsSubscription, nil)
	if err != nil {
		return nil, err
	}

	out := make(chan []*chat.Chat, 8)
	go func() {
		defer close(out)
		for raw := range snapshots {
			var data struct {
				Chats []wireChat `json:"chats"`
			}
			if err := json.Unmarshal(raw, &data); err != nil {
				logging.Get().Error("unmarshaling chats snapshot", "error", err)
				continue
			}
			out <- toChats(data.Chats)
		}
	}()
	return out, nil
}

// WatchMessages subscribes to one chat's messages over graphql-ws.
func (c *Client) WatchMessages(ctx context.Context, chatID string) (<-chan []*chat.Message, error) {
	snapshots, err := c.subscribe(ctx, messagesSubscription, map[string]any{"chatId": chatID})
	if err != nil {
		return nil, err
	}

	out := make(chan []*chat.Message, 8)
	go func() {
		defer close(out)
		for raw := range snapshots {
			var data struct {
				Messages []wireMessage `json:"messages"`
			}
			if err := json.Unmarshal(raw, &data); err != nil {
				logging.Get().Error("unmarshaling messages snapshot", "error", err)
				continue
			}
			out <- toMessages(data.Messages)
		}
	}()
	return out, nil
}

// subscribe opens a graphql-transport-ws connection, performs the init
// handshake, and starts one subscription on it. Each delivered payload is the
// raw "data" object of a next frame. The channel closes when the context is
// canceled or the server completes the subscription.
func (c *Client) subscribe(ctx context.Context, query string, variables map[string]any) (<-chan json.RawMessage, error) {
	conn, _, err := websocket.Dial(ctx, c.websocketURL, &websocket.DialOptions{
		Subprotocols: []string{"graphql-transport-ws"},
	})
	if err != nil {
		return nil, errors.Wrap(err, "dialing websocket")
	}

	initPayload := map[string]any{}
	if token := c.token(); token != "" {
		initPayload["headers"] = map[string]string{"Authorization": "Bearer " + token}
	}
	rawInit, err := json.Marshal(initPayload)
	if err != nil {
		conn.Close(websocket.StatusInternalError, "init")
		return nil, errors.Wrap(err, "marshaling init payload")
	}
	if err := wsjson.Write(ctx, conn, wsFrame{Type: "connection_init", Payload: rawInit}); err != nil {
		conn.Close(websocket.StatusInternalError, "init")
		return nil, errors.Wrap(err, "sending connection_init")
	}

	// Wait for the ack before subscribing.
	for {
		frame := wsFrame{}
		if err := wsjson.Read(ctx, conn, &frame); err != nil {
			conn.Close(websocket.StatusInternalError, "handshake")
			return nil, errors.Wrap(err, "awaiting connection_ack")
		}
		if frame.Type == "connection_ack" {
			break
		}
		if frame.Type == "connection_error" {
			conn.Close(websocket.StatusNormalClosure, "rejected")
			return nil, errors.Errorf("connection rejected: %s", frame.Payload)
		}
	}

	subscribePayload, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		conn.Close(websocket.StatusInternalError, "subscribe")
		return nil, errors.Wrap(err, "marshaling subscribe payload")
	}
	if err := wsjson.Write(ctx, conn, wsFrame{ID: "1", Type: "subscribe", Payload: subscribePayload}); err != nil {
		conn.Close(websocket.StatusInternalError, "subscribe")
		return nil, errors.Wrap(err, "sending subscribe")
	}

	deliveries := make(chan json.RawMessage, 8)
	go func() {
		defer close(deliveries)
		defer conn.Close(websocket.StatusNormalClosure, "done")
		for {
			frame := wsFrame{}
			if err := wsjson.Read(ctx, conn, &frame); err != nil {
				// Context canceled or connection gone; either way the
				// subscription is over.
				return
			}
			switch frame.Type {
			case "next":
				decoded := &graphqlResponse{}
				if err := json.Unmarshal(frame.Payload, decoded); err != nil {
					logging.Get().Error("unmarshaling next frame", "error", err)
					continue
				}
				select {
				case deliveries <- decoded.Data:
				case <-ctx.Done():
					return
				}
			case "ping":
				if err := wsjson.Write(ctx, conn, wsFrame{Type: "pong"}); err != nil {
					return
				}
			case "complete", "error":
				return
			}
		}
	}()
	return deliveries, nil
}
