package router

import (
	"github.com/labstack/echo/v4"

	"growwithme/internal/adapter/api/handler"
)

func SetupConnectionRouter(e *echo.Echo, connectionHandler *handler.ConnectionHandler, authed []echo.MiddlewareFunc) {
	connections := e.Group("/v1/connections", authed...)

	connections.GET("", connectionHandler.List)
	connections.DELETE("/:userId", connectionHandler.Disconnect)

	connections.POST("/requests", connectionHandler.SendRequest)
	connections.GET("/requests/incoming", connectionHandler.ListIncoming)
	connections.GET("/requests/outgoing", connectionHandler.ListOutgoing)
	connections.POST("/requests/:id/approve", connectionHandler.Approve)
	connections.POST("/requests/:id/reject", connectionHandler.Reject)
	connections.DELETE("/requests/:id", connectionHandler.Withdraw)
}
