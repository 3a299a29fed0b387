package handler

import (
	"context"
	"net/http"

	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	ws "growwithme/internal/infrastructure/websocket"
	"growwithme/internal/usecase"
	"growwithme/pkg/errors"
	"growwithme/pkg/logger"
	"growwithme/pkg/response"
)

type WebSocketHandler struct {
	wsManager     *ws.Manager
	notifications *usecase.NotificationUseCase
	upgrader      gorillaws.Upgrader
}

// NewWebSocketHandler accepts upgrades from allowedOrigins; "*" allows any.
func NewWebSocketHandler(wsManager *ws.Manager, notifications *usecase.NotificationUseCase, allowedOrigins []string) *WebSocketHandler {
	return &WebSocketHandler{
		wsManager:     wsManager,
		notifications: notifications,
		upgrader: gorillaws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if a == "*" || a == origin {
				return true
			}
		}
		return false
	}
}

// HandleWebSocket upgrades the connection, registers it for chat pushes and
// streams the caller's notifications over it until it closes.
func (h *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	userID := uid(c)
	if userID == "" {
		return response.Error(c, errors.Unauthorized("Authentication required", nil))
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Warn("WebSocket upgrade failed for %s: %v", userID, err)
		return nil
	}

	client := ws.NewClient(userID, conn)
	if !h.wsManager.Add(client) {
		conn.Close()
		return nil
	}

	// the request context ends when the handler returns, the stream must not
	ctx, cancel := context.WithCancel(context.Background())
	sub, err := h.notifications.Subscribe(ctx, userID)
	if err != nil {
		cancel()
		logger.Error("Notification subscription for %s failed: %v", userID, err)
	} else {
		go h.wsManager.ForwardNotifications(client, sub)
	}

	go client.WritePump()
	go func() {
		client.ReadPump(h.wsManager)
		if sub != nil {
			sub.Cancel()
		}
		cancel()
	}()

	return nil
}
