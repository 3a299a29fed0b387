package router

import (
	"github.com/labstack/echo/v4"

	"growwithme/internal/adapter/api/handler"
)

func SetupUserRouter(e *echo.Echo, userHandler *handler.UserHandler, authed []echo.MiddlewareFunc) {
	users := e.Group("/v1/users", authed...)

	users.GET("/me", userHandler.GetMe)
	users.PATCH("/me", userHandler.UpdateProfile)
	users.POST("/me/avatar", userHandler.UploadAvatar)
	users.GET("/username-available", userHandler.CheckUsername)
	users.GET("/:id", userHandler.GetProfile)
}
