package router

import (
	"github.com/labstack/echo/v4"

	"growwithme/internal/adapter/api/handler"
)

func SetupChatRouter(e *echo.Echo, chatHandler *handler.ChatHandler, authed []echo.MiddlewareFunc) {
	chats := e.Group("/v1/chats", authed...)

	chats.POST("", chatHandler.CreateChat)
	chats.GET("", chatHandler.GetUserChats)
	chats.PUT("/:id/read", chatHandler.MarkChatAsRead)
	chats.POST("/:id/messages", chatHandler.SendMessage)
	chats.GET("/:id/messages", chatHandler.GetChatMessages)
}
