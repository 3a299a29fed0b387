package router

import (
	"github.com/labstack/echo/v4"

	"growwithme/internal/adapter/api/handler"
	"growwithme/internal/adapter/api/middleware"
	"growwithme/internal/domain/entity"
)

// SetupIdeaRouter mounts the idea routes plus the idea-scoped join request,
// team and negotiation routes. Reads work anonymously; private ideas then
// stay hidden.
func SetupIdeaRouter(e *echo.Echo, h *handler.Handlers, authed, optional []echo.MiddlewareFunc) {
	ideas := e.Group("/v1/ideas")

	ideas.GET("", h.Idea.List, optional...)
	ideas.GET("/:id", h.Idea.Get, optional...)
	ideas.GET("/:id/comments", h.Idea.ListComments, optional...)
	ideas.GET("/:id/similar", h.Idea.Similar, optional...)
	ideas.GET("/:id/stats", h.Negotiation.IdeaStats, optional...)

	ideas.POST("", h.Idea.Create, with(authed, middleware.RequireRole(entity.RoleFounder))...)
	ideas.PATCH("/:id", h.Idea.Update, authed...)
	ideas.DELETE("/:id", h.Idea.Delete, authed...)
	ideas.POST("/:id/like", h.Idea.ToggleLike, authed...)
	ideas.POST("/:id/comments", h.Idea.AddComment, authed...)
	ideas.DELETE("/:id/comments/:commentId", h.Idea.DeleteComment, authed...)

	ideas.POST("/:id/join-requests", h.JoinRequest.Request, with(authed, middleware.RequireRole(entity.RoleDeveloper))...)
	ideas.DELETE("/:id/members/:memberId", h.JoinRequest.RemoveMember, authed...)

	ideas.POST("/:id/negotiations", h.Negotiation.Create, with(authed, middleware.RequireRole(entity.RoleInvestor))...)
	ideas.GET("/:id/negotiations", h.Negotiation.ListForIdea, authed...)
}
