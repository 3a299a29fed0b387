package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"growwithme/pkg/errors"
	"growwithme/pkg/response"
)

// RequireRole admits callers whose profile role is one of roles. It must run
// after Authenticate.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				return response.Error(c, errors.Unauthorized("Authentication required", nil))
			}

			for _, role := range roles {
				if user.Role == role {
					return next(c)
				}
			}
			return response.Error(c, errors.Forbidden(
				"This action requires the "+strings.Join(roles, " or ")+" role", nil))
		}
	}
}
