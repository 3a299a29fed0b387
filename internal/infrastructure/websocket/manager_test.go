package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"growwithme/internal/domain/entity"
	"growwithme/pkg/errors"
)

type fakeChats struct {
	sent []string
	read []string
}

func (f *fakeChats) Send(ctx context.Context, chatID, senderID, content string) (*entity.Message, error) {
	if chatID == "forbidden" {
		return nil, errors.Forbidden("Not a participant of this chat", nil)
	}
	f.sent = append(f.sent, content)
	return &entity.Message{ID: "m1", ChatID: chatID, SenderID: senderID, Content: content}, nil
}

func (f *fakeChats) MarkRead(ctx context.Context, chatID, userID string) error {
	f.read = append(f.read, chatID)
	return nil
}

func startManager(t *testing.T, chats ChatService) *Manager {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	m := NewManager(chats)
	m.Start(ctx)
	return m
}

func register(t *testing.T, m *Manager, userID string) *Client {
	t.Helper()

	c := &Client{UserID: userID, Send: make(chan []byte, sendBuffer)}
	m.Register <- c
	require.Eventually(t, func() bool { return m.IsOnline(userID) }, time.Second, 5*time.Millisecond)
	return c
}

func receive(t *testing.T, c *Client) map[string]interface{} {
	t.Helper()

	select {
	case raw := <-c.Send:
		var out map[string]interface{}
		require.NoError(t, json.Unmarshal(raw, &out))
		return out
	case <-time.After(time.Second):
		t.Fatal("no frame received")
		return nil
	}
}

func TestManager_SendToUserReachesEveryConnection(t *testing.T) {
	m := startManager(t, nil)
	tab1 := register(t, m, "u1")
	tab2 := register(t, m, "u1")
	other := register(t, m, "u2")

	m.SendToUser("u1", "chat_message", map[string]string{"content": "hi"})

	for _, c := range []*Client{tab1, tab2} {
		frame := receive(t, c)
		assert.Equal(t, "chat_message", frame["type"])
		assert.Equal(t, "hi", frame["data"].(map[string]interface{})["content"])
	}
	assert.Empty(t, other.Send)
}

func TestManager_UnregisterClosesSend(t *testing.T) {
	m := startManager(t, nil)
	c := register(t, m, "u1")

	m.Unregister <- c
	require.Eventually(t, func() bool { return !m.IsOnline("u1") }, time.Second, 5*time.Millisecond)

	_, ok := <-c.Send
	assert.False(t, ok)

	// pushing to an offline user is a no-op
	m.SendToUser("u1", "chat_message", nil)
}

func TestManager_HandleClientMessage(t *testing.T) {
	chats := &fakeChats{}
	m := startManager(t, chats)
	c := register(t, m, "u1")

	m.HandleClientMessage(c, []byte(`{"type":"ping"}`))
	assert.Equal(t, MessageTypePong, receive(t, c)["type"])

	m.HandleClientMessage(c, []byte(`{"type":"send_message","data":{"chatId":"a_b","content":"yo","tempId":"t1"}}`))
	frame := receive(t, c)
	assert.Equal(t, MessageTypeMessageSent, frame["type"])
	assert.Equal(t, "t1", frame["data"].(map[string]interface{})["tempId"])
	assert.Equal(t, []string{"yo"}, chats.sent)

	m.HandleClientMessage(c, []byte(`{"type":"send_message","data":{"chatId":"forbidden","content":"yo"}}`))
	frame = receive(t, c)
	assert.Equal(t, MessageTypeError, frame["type"])
	assert.Equal(t, errors.CodeForbidden, frame["data"].(map[string]interface{})["code"])

	m.HandleClientMessage(c, []byte(`{"type":"mark_read","data":{"chatId":"a_b"}}`))
	assert.Equal(t, []string{"a_b"}, chats.read)

	m.HandleClientMessage(c, []byte(`not json`))
	assert.Equal(t, MessageTypeError, receive(t, c)["type"])

	m.HandleClientMessage(c, []byte(`{"type":"dance"}`))
	assert.Equal(t, MessageTypeError, receive(t, c)["type"])
}

func TestManager_RemoveAfterShutdownDoesNotBlock(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	m := NewManager(nil)
	m.Start(ctx)
	c := register(t, m, "u1")

	cancel()
	select {
	case <-m.Done():
	case <-time.After(time.Second):
		t.Fatal("manager did not stop")
	}

	_, ok := <-c.Send
	assert.False(t, ok, "shutdown closes every client")

	removed := make(chan struct{})
	go func() {
		m.Remove(c)
		close(removed)
	}()
	select {
	case <-removed:
	case <-time.After(time.Second):
		t.Fatal("Remove blocked after shutdown")
	}

	late := &Client{UserID: "u2", Send: make(chan []byte, sendBuffer)}
	assert.False(t, m.Add(late))
	assert.False(t, m.IsOnline("u2"))
}
