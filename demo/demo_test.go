package demo

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tavisz/chatterbox/chat"
	"github.com/tavisz/chatterbox/store"
)

func newTestTransport(t *testing.T) *Transport {
	t.Helper()
	s, err := store.New(filepath.Join(t.TempDir(), "chats.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return NewTransport(s, Session())
}

func receiveChats(t *testing.T, ch <-chan []*chat.Chat) []*chat.Chat {
	t.Helper()
	select {
	case snapshot := <-ch:
		return snapshot
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for chat snapshot")
		return nil
	}
}

func TestWatchChatsDeliversSnapshots(t *testing.T) {
	transport := newTestTransport(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := transport.WatchChats(ctx)
	require.NoError(t, err)

	created, err := transport.CreateChat(ctx, demoUserID, "watched chat")
	require.NoError(t, err)

	snapshot := receiveChats(t, ch)
	require.Len(t, snapshot, 1)
	require.Equal(t, created.ID, snapshot[0].ID)

	require.NoError(t, transport.DeleteChat(ctx, created.ID))
	snapshot = receiveChats(t, ch)
	require.Empty(t, snapshot)
}

func TestWatchMessagesScopedToChat(t *testing.T) {
	transport := newTestTransport(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first, err := transport.CreateChat(ctx, demoUserID, "first")
	require.NoError(t, err)
	second, err := transport.CreateChat(ctx, demoUserID, "second")
	require.NoError(t, err)

	ch, err := transport.WatchMessages(ctx, first.ID)
	require.NoError(t, err)

	// A write to another chat produces no snapshot for this watcher.
	_, err = transport.CreateMessage(ctx, second.ID, "elsewhere", chat.SenderUser)
	require.NoError(t, err)

	_, err = transport.CreateMessage(ctx, first.ID, "here", chat.SenderUser)
	require.NoError(t, err)

	select {
	case snapshot := <-ch:
		require.Len(t, snapshot, 1)
		require.Equal(t, "here", snapshot[0].Content)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message snapshot")
	}
}

func TestWatcherChannelClosesOnCancel(t *testing.T) {
	transport := newTestTransport(t)
	ctx, cancel := context.WithCancel(context.Background())

	ch, err := transport.WatchChats(ctx)
	require.NoError(t, err)
	cancel()

	select {
	case _, ok := <-ch:
		require.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("channel not closed after cancel")
	}
}
