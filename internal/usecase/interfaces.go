package usecase

import (
	"context"
	"io"
	"time"

	"growwithme/internal/infrastructure/metrics"
	"growwithme/pkg/errors"
	"growwithme/pkg/logger"
)

// AuthProfile is the identity-provider view of a user.
type AuthProfile struct {
	UID         string
	Email       string
	DisplayName string
	PhotoURL    string
}

type AuthClient interface {
	VerifyToken(ctx context.Context, token string) (string, error)
	GetUser(ctx context.Context, uid string) (*AuthProfile, error)
}

type ObjectStorage interface {
	// Upload stores the object and returns its public URL.
	Upload(ctx context.Context, objectName string, r io.Reader, contentType string) (string, error)
}

// Pusher delivers realtime events to a user's open connections.
type Pusher interface {
	SendToUser(userID, msgType string, payload interface{})
}

type RateLimiter interface {
	Allow(userID, action string) (bool, time.Duration)
}

// throttle spends one token of userID's bucket for action. A nil limiter
// admits everything.
func throttle(limiter RateLimiter, userID, action, message string) error {
	if limiter == nil {
		return nil
	}
	if ok, wait := limiter.Allow(userID, action); !ok {
		logger.Warn("Rate limited %s for user %s, retry in %v", action, userID, wait)
		metrics.RateLimited.WithLabelValues(action).Inc()
		return errors.TooManyRequests(message)
	}
	return nil
}
