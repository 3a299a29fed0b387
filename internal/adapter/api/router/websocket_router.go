package router

import (
	"github.com/labstack/echo/v4"

	"growwithme/internal/adapter/api/handler"
	"growwithme/internal/adapter/api/middleware"
)

// SetupWebSocketRouter mounts /v1/ws. Browsers cannot set headers on the
// upgrade request, so the token may also come as ?token=.
func SetupWebSocketRouter(e *echo.Echo, wsHandler *handler.WebSocketHandler, authMiddleware *middleware.AuthMiddleware) {
	e.GET("/v1/ws", wsHandler.HandleWebSocket, authMiddleware.Authenticate)
}
