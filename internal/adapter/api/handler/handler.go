package handler

import (
	"github.com/labstack/echo/v4"

	"growwithme/internal/adapter/api/middleware"
	"growwithme/pkg/errors"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Health       *HealthHandler
	User         *UserHandler
	Idea         *IdeaHandler
	JoinRequest  *JoinRequestHandler
	Connection   *ConnectionHandler
	Negotiation  *NegotiationHandler
	Notification *NotificationHandler
	MatchAlert   *MatchAlertHandler
	Chat         *ChatHandler
	WebSocket    *WebSocketHandler
}

// bindAndValidate decodes the request body into req and runs its validate
// tags.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return errors.BadRequest("Invalid request body", err)
	}
	return c.Validate(req)
}

func requireParam(c echo.Context, name string) (string, error) {
	v := c.Param(name)
	if v == "" {
		return "", errors.BadRequest(name+" is required", nil)
	}
	return v, nil
}

func uid(c echo.Context) string {
	return middleware.UID(c)
}
