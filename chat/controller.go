package chat

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/tavisz/chatterbox/internal/logging"
)

const (
	// createPropagationDelay is how long we wait after creating a chat before
	// posting into it, so the backend has propagated the new row.
	createPropagationDelay = 500 * time.Millisecond

	// replyBaseDelay and replyMaxJitter shape the simulated "thinking" time
	// before the bot reply is posted. Purely a UI affordance.
	replyBaseDelay = time.Second
	replyMaxJitter = time.Second

	maxTitleLength = 50
)

// Controller sequences chat operations against the transport. It owns the
// current chat selection and the awaiting-reply flag consumed by the UI.
type Controller struct {
	transport Transport
	session   *Session
	responder *Responder
	view      *View

	// schedule runs fn after d. Tests swap this for a synchronous or queued
	// implementation; production uses time.AfterFunc.
	schedule func(d time.Duration, fn func())
	// jitter returns the random component of the reply delay.
	jitter func() time.Duration

	mu            sync.Mutex
	currentChatID string
	awaitingReply bool
}

// NewController instantiates a controller for the given session.
func NewController(transport Transport, session *Session, responder *Responder) *Controller {
	return &Controller{
		transport: transport,
		session:   session,
		responder: responder,
		view:      NewView(),
		schedule: func(d time.Duration, fn func()) {
			time.AfterFunc(d, fn)
		},
		jitter: func() time.Duration {
			return time.Duration(rand.Int63n(int64(replyMaxJitter)))
		},
	}
}

// View returns the reconciled projection fed by this controller.
func (c *Controller) View() *View {
	return c.view
}

// Session returns the injected user session.
func (c *Controller) Session() *Session {
	return c.session
}

// CurrentChatID returns the selected chat ID, or "" when none is selected.
func (c *Controller) CurrentChatID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentChatID
}

// AwaitingReply reports whether a send sequence is in flight. The flag is a
// UI affordance: it is cleared once the reply request has been dispatched,
// before the reply's own delay elapses.
func (c *Controller) AwaitingReply() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.awaitingReply
}

// SelectChat sets the current chat. Passing "" deselects and leaves the UI in
// an empty state with no active message stream. No network call is made.
func (c *Controller) SelectChat(chatID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentChatID = chatID
}

// CreateChat creates a chat with the given title and selects it. It does not
// send any message.
func (c *Controller) CreateChat(ctx context.Context, title string) (*Chat, error) {
	if c.session == nil || c.session.UserID == "" {
		return nil, ErrAuthRequired
	}
	created, err := c.transport.CreateChat(ctx, c.session.UserID, title)
	if err != nil {
		logging.Get().Error("creating chat", "error", err)
		return nil, &TransportError{Op: "create chat", Err: err}
	}
	c.SelectChat(created.ID)
	return created, nil
}

// DeleteChat deletes a chat; the backend cascades the deletion to its
// messages. When the deleted chat is the selected one, the selection is
// cleared after a successful delete. A failed delete leaves state unchanged
// and propagates to the caller.
func (c *Controller) DeleteChat(ctx context.Context, chatID string) error {
	if err := c.transport.DeleteChat(ctx, chatID); err != nil {
		logging.Get().Error("deleting chat", "chat_id", chatID, "error", err)
		return &TransportError{Op: "delete chat", Err: err}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.currentChatID == chatID {
		c.currentChatID = ""
	}
	return nil
}

// SendUserMessage posts a user message to the current chat and requests the
// automated reply. Whitespace-only text is silently ignored. When no chat is
// selected, a chat titled from the text is created first and the post happens
// after the propagation delay.
func (c *Controller) SendUserMessage(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	c.setAwaitingReply(true)
	if c.CurrentChatID() == "" {
		if _, err := c.CreateChat(ctx, DeriveTitle(text)); err != nil {
			c.setAwaitingReply(false)
			return err
		}
		c.schedule(createPropagationDelay, func() {
			if err := c.postAndRequestReply(ctx, text); err != nil {
				logging.Get().Error("posting message after chat creation", "error", err)
			}
			c.setAwaitingReply(false)
		})
		return nil
	}

	err := c.postAndRequestReply(ctx, text)
	c.setAwaitingReply(false)
	return err
}

// SendBotReply computes a canned reply for the prompt and posts it as the bot
// after a randomized delay. Fire and forget: failures are logged, never
// surfaced.
func (c *Controller) SendBotReply(ctx context.Context, prompt string) {
	reply := c.responder.Reply(prompt)
	c.schedule(replyBaseDelay+c.jitter(), func() {
		if err := c.post(ctx, reply, SenderBot); err != nil {
			logging.Get().Error("sending bot reply", "error", err)
		}
	})
}

// RefreshChats performs the one-shot chat list fetch into the view.
func (c *Controller) RefreshChats(ctx context.Context) error {
	chats, err := c.transport.ListChats(ctx)
	if err != nil {
		return &TransportError{Op: "list chats", Err: err}
	}
	c.view.SetFetchedChats(chats)
	return nil
}

// RefreshMessages performs the one-shot message fetch for a chat into the
// view.
func (c *Controller) RefreshMessages(ctx context.Context, chatID string) error {
	messages, err := c.transport.ListMessages(ctx, chatID)
	if err != nil {
		return &TransportError{Op: "list messages", Err: err}
	}
	c.view.SetFetchedMessages(chatID, messages)
	return nil
}

// WatchChats feeds push snapshots of the chat list into the view until the
// context is canceled.
func (c *Controller) WatchChats(ctx context.Context) error {
	snapshots, err := c.transport.WatchChats(ctx)
	if err != nil {
		return &TransportError{Op: "watch chats", Err: err}
	}
	go func() {
		for snapshot := range snapshots {
			c.view.SetPushedChats(snapshot)
		}
	}()
	return nil
}

// WatchMessages feeds push snapshots of one chat's messages into the view
// until the context is canceled.
func (c *Controller) WatchMessages(ctx context.Context, chatID string) error {
	snapshots, err := c.transport.WatchMessages(ctx, chatID)
	if err != nil {
		return &TransportError{Op: "watch messages", Err: err}
	}
	go func() {
		for snapshot := range snapshots {
			c.view.SetPushedMessages(chatID, snapshot)
		}
	}()
	return nil
}

// postAndRequestReply dispatches the user message, then the reply request.
// The post always precedes the reply dispatch.
func (c *Controller) postAndRequestReply(ctx context.Context, text string) error {
	if err := c.post(ctx, text, SenderUser); err != nil {
		return err
	}
	c.SendBotReply(ctx, text)
	return nil
}

// post creates a message in the current chat and bumps the chat's updated_at.
// The touch is best-effort: its failure never rolls back the message.
func (c *Controller) post(ctx context.Context, content string, sender Sender) error {
	chatID := c.CurrentChatID()
	if chatID == "" {
		return ErrNoActiveChat
	}
	if _, err := c.transport.CreateMessage(ctx, chatID, content, sender); err != nil {
		logging.Get().Error("creating message", "chat_id", chatID, "error", err)
		return &TransportError{Op: "create message", Err: err}
	}
	if err := c.transport.TouchChat(ctx, chatID); err != nil {
		logging.Get().Warn("touching chat timestamp", "chat_id", chatID, "error", err)
	}
	return nil
}

func (c *Controller) setAwaitingReply(value bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.awaitingReply = value
}

// DeriveTitle builds a chat title from the first message: the first 50
// characters, with an ellipsis appended when truncated.
func DeriveTitle(text string) string {
	runes := []rune(text)
	if len(runes) <= maxTitleLength {
		return text
	}
	return string(runes[:maxTitleLength]) + "..."
}
