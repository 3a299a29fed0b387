package websocket

import (
	"context"
	"encoding/json"
	"time"

	"growwithme/internal/domain/entity"
	"growwithme/internal/usecase"
	"growwithme/pkg/errors"
	"growwithme/pkg/logger"
)

const (
	MessageTypePing          = "ping"
	MessageTypePong          = "pong"
	MessageTypeSendMessage   = "send_message"
	MessageTypeMessageSent   = "message_sent"
	MessageTypeMarkRead      = "mark_read"
	MessageTypeNotifications = "notifications"
	MessageTypeError         = "error"
)

const handlerTimeout = 10 * time.Second

// ChatService is the slice of chat behaviour reachable over the socket.
type ChatService interface {
	Send(ctx context.Context, chatID, senderID, content string) (*entity.Message, error)
	MarkRead(ctx context.Context, chatID, userID string) error
}

type WSMessage struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp string          `json:"timestamp,omitempty"`
}

type outgoing struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp string      `json:"timestamp"`
}

func newMessage(msgType string, data interface{}) outgoing {
	return outgoing{
		Type:      msgType,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

type SendMessageData struct {
	TempID  string `json:"tempId,omitempty"`
	ChatID  string `json:"chatId"`
	Content string `json:"content"`
}

type MarkReadData struct {
	ChatID string `json:"chatId"`
}

// HandleClientMessage dispatches one frame received from the client.
func (m *Manager) HandleClientMessage(client *Client, raw []byte) {
	var msg WSMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		m.sendError(client, "Invalid message format")
		return
	}

	switch msg.Type {
	case MessageTypePing:
		m.sendTo(client, newMessage(MessageTypePong, map[string]string{"status": "alive"}))
	case MessageTypeSendMessage:
		m.handleSendMessage(client, msg.Data)
	case MessageTypeMarkRead:
		m.handleMarkRead(client, msg.Data)
	default:
		logger.Debug("WebSocket: unknown message type %q from %s", msg.Type, client.UserID)
		m.sendError(client, "Unknown message type")
	}
}

func (m *Manager) handleSendMessage(client *Client, data json.RawMessage) {
	var in SendMessageData
	if err := json.Unmarshal(data, &in); err != nil || in.ChatID == "" || in.Content == "" {
		m.sendError(client, "chatId and content are required")
		return
	}
	if m.chats == nil {
		m.sendError(client, "Chat is unavailable")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	sent, err := m.chats.Send(ctx, in.ChatID, client.UserID, in.Content)
	if err != nil {
		m.sendAppError(client, err)
		return
	}
	m.sendTo(client, newMessage(MessageTypeMessageSent, map[string]interface{}{
		"tempId":  in.TempID,
		"message": sent,
	}))
}

func (m *Manager) handleMarkRead(client *Client, data json.RawMessage) {
	var in MarkReadData
	if err := json.Unmarshal(data, &in); err != nil || in.ChatID == "" {
		m.sendError(client, "chatId is required")
		return
	}
	if m.chats == nil {
		m.sendError(client, "Chat is unavailable")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	if err := m.chats.MarkRead(ctx, in.ChatID, client.UserID); err != nil {
		m.sendAppError(client, err)
	}
}

// ForwardNotifications relays every notification set from sub to the
// client until the subscription closes.
func (m *Manager) ForwardNotifications(client *Client, sub *usecase.Subscription) {
	for items := range sub.Updates() {
		m.sendTo(client, newMessage(MessageTypeNotifications, items))
	}
	if err := sub.Err(); err != nil {
		m.sendError(client, "Notification stream closed")
	}
}

// sendTo enqueues a frame for one connection. It tolerates a connection
// that was unregistered concurrently.
func (m *Manager) sendTo(client *Client, msg outgoing) {
	data, err := json.Marshal(msg)
	if err != nil {
		logger.Error("WebSocket: failed to encode %s: %v", msg.Type, err)
		return
	}

	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if _, ok := m.clients[client.UserID][client]; !ok {
		return
	}
	select {
	case client.Send <- data:
	default:
		logger.Warn("WebSocket: send buffer full for user %s", client.UserID)
	}
}

func (m *Manager) sendError(client *Client, message string) {
	m.sendTo(client, newMessage(MessageTypeError, map[string]string{"message": message}))
}

func (m *Manager) sendAppError(client *Client, err error) {
	var appErr *errors.AppError
	if errors.As(err, &appErr) {
		m.sendTo(client, newMessage(MessageTypeError, map[string]string{
			"code":    appErr.Code,
			"message": appErr.Message,
		}))
		return
	}
	logger.Error("WebSocket: request from %s failed: %v", client.UserID, err)
	m.sendError(client, "An unexpected error occurred")
}
