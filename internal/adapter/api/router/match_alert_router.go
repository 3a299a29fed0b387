package router

import (
	"github.com/labstack/echo/v4"

	"growwithme/internal/adapter/api/handler"
)

func SetupMatchAlertRouter(e *echo.Echo, matchAlertHandler *handler.MatchAlertHandler, authed []echo.MiddlewareFunc) {
	alerts := e.Group("/v1/match-alerts", authed...)

	alerts.GET("", matchAlertHandler.List)
	alerts.POST("", matchAlertHandler.Create)
	alerts.PUT("/:id", matchAlertHandler.Update)
	alerts.PATCH("/:id/active", matchAlertHandler.SetActive)
	alerts.DELETE("/:id", matchAlertHandler.Delete)
}
