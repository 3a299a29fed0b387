package router

import (
	"github.com/labstack/echo/v4"

	"growwithme/internal/adapter/api/handler"
)

func SetupJoinRequestRouter(e *echo.Echo, joinRequestHandler *handler.JoinRequestHandler, authed []echo.MiddlewareFunc) {
	requests := e.Group("/v1/join-requests", authed...)

	requests.GET("/incoming", joinRequestHandler.ListIncoming)
	requests.GET("/mine", joinRequestHandler.ListMine)
	requests.POST("/:id/approve", joinRequestHandler.Approve)
	requests.POST("/:id/reject", joinRequestHandler.Reject)
}
