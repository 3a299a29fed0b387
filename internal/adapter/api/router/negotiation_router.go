package router

import (
	"github.com/labstack/echo/v4"

	"growwithme/internal/adapter/api/handler"
)

func SetupNegotiationRouter(e *echo.Echo, negotiationHandler *handler.NegotiationHandler, authed []echo.MiddlewareFunc) {
	negotiations := e.Group("/v1/negotiations", authed...)

	negotiations.GET("", negotiationHandler.ListMine)
	negotiations.GET("/leaderboard", negotiationHandler.Leaderboard)
	negotiations.GET("/:id", negotiationHandler.Get)
	negotiations.POST("/:id/offers", negotiationHandler.AppendOffer)
	negotiations.PUT("/:id/status", negotiationHandler.SetStatus)

	e.GET("/v1/founders/:id/investment", negotiationHandler.FounderStats, authed...)
}
