package router

import (
	"github.com/labstack/echo/v4"

	"growwithme/internal/adapter/api/handler"
	"growwithme/internal/adapter/api/middleware"
	"growwithme/internal/infrastructure/ratelimit"
	"growwithme/internal/usecase"
)

// Setup mounts every route. limiter throttles general API traffic per
// caller and may be nil.
func Setup(e *echo.Echo, h *handler.Handlers, authMiddleware *middleware.AuthMiddleware, limiter usecase.RateLimiter) {
	authed := []echo.MiddlewareFunc{authMiddleware.Authenticate}
	optional := []echo.MiddlewareFunc{authMiddleware.OptionalAuth}
	if limiter != nil {
		throttle := middleware.RateLimit(limiter, ratelimit.ActionHTTP)
		authed = append(authed, throttle)
		optional = append(optional, throttle)
	}

	SetupHealthRouter(e, h.Health)
	SetupUserRouter(e, h.User, authed)
	SetupIdeaRouter(e, h, authed, optional)
	SetupJoinRequestRouter(e, h.JoinRequest, authed)
	SetupConnectionRouter(e, h.Connection, authed)
	SetupNegotiationRouter(e, h.Negotiation, authed)
	SetupNotificationRouter(e, h.Notification, authed)
	SetupMatchAlertRouter(e, h.MatchAlert, authed)
	SetupChatRouter(e, h.Chat, authed)
	SetupWebSocketRouter(e, h.WebSocket, authMiddleware)
}

func with(mw []echo.MiddlewareFunc, extra ...echo.MiddlewareFunc) []echo.MiddlewareFunc {
	out := make([]echo.MiddlewareFunc, 0, len(mw)+len(extra))
	out = append(out, mw...)
	return append(out, extra...)
}
