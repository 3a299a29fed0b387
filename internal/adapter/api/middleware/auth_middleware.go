package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"growwithme/internal/domain/entity"
	"growwithme/internal/usecase"
	"growwithme/pkg/errors"
	"growwithme/pkg/logger"
	"growwithme/pkg/response"
)

const (
	ContextUID  = "uid"
	ContextUser = "user"
)

// ProfileEnsurer loads the caller's profile, creating it on first sight.
type ProfileEnsurer interface {
	EnsureProfile(ctx context.Context, uid string) (*entity.User, error)
}

type AuthMiddleware struct {
	authClient usecase.AuthClient
	profiles   ProfileEnsurer
}

func NewAuthMiddleware(authClient usecase.AuthClient, profiles ProfileEnsurer) *AuthMiddleware {
	return &AuthMiddleware{
		authClient: authClient,
		profiles:   profiles,
	}
}

// bearerToken reads "Authorization: Bearer <token>", falling back to the
// token query parameter browsers must use for websocket upgrades.
func bearerToken(c echo.Context) (string, error) {
	header := c.Request().Header.Get("Authorization")
	if header == "" {
		if token := c.QueryParam("token"); token != "" {
			return token, nil
		}
		return "", errors.Unauthorized("Authorization header is required", nil)
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", errors.Unauthorized("Invalid authorization format", nil)
	}
	return parts[1], nil
}

func (m *AuthMiddleware) identify(c echo.Context, token string) error {
	ctx := c.Request().Context()

	uid, err := m.authClient.VerifyToken(ctx, token)
	if err != nil {
		return errors.Unauthorized("Invalid or expired token", err)
	}

	user, err := m.profiles.EnsureProfile(ctx, uid)
	if err != nil {
		return err
	}

	c.Set(ContextUID, uid)
	c.Set(ContextUser, user)
	return nil
}

func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, err := bearerToken(c)
		if err != nil {
			return response.Error(c, err)
		}
		if err := m.identify(c, token); err != nil {
			return response.Error(c, err)
		}
		return next(c)
	}
}

// OptionalAuth continues anonymously when no credentials are sent. A token
// that is sent but cannot be verified is rejected like in Authenticate.
func (m *AuthMiddleware) OptionalAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if c.Request().Header.Get("Authorization") == "" && c.QueryParam("token") == "" {
			return next(c)
		}

		token, err := bearerToken(c)
		if err == nil {
			err = m.identify(c, token)
		}
		if err != nil {
			logger.Warn("Optional auth failed for %s %s: %v", c.Request().Method, c.Path(), err)
			return response.Error(c, err)
		}
		return next(c)
	}
}

// UID returns the authenticated user id, or "" for anonymous requests.
func UID(c echo.Context) string {
	uid, _ := c.Get(ContextUID).(string)
	return uid
}

// CurrentUser returns the profile loaded by the auth middleware.
func CurrentUser(c echo.Context) *entity.User {
	user, _ := c.Get(ContextUser).(*entity.User)
	return user
}
