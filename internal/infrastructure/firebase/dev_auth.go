package firebase

import (
	"context"
	"fmt"
	"strings"

	"growwithme/internal/usecase"
)

const DevTokenPrefix = "dev:"

// DevAuthClient accepts tokens of the form "dev:<uid>" and never talks to
// Firebase. It exists for local runs against the in-memory store and must
// not be wired in production.
type DevAuthClient struct{}

func NewDevAuthClient() *DevAuthClient {
	return &DevAuthClient{}
}

func (DevAuthClient) VerifyToken(ctx context.Context, token string) (string, error) {
	uid := strings.TrimPrefix(token, DevTokenPrefix)
	if uid == token || uid == "" {
		return "", fmt.Errorf("not a development token")
	}
	return uid, nil
}

func (DevAuthClient) GetUser(ctx context.Context, uid string) (*usecase.AuthProfile, error) {
	return &usecase.AuthProfile{
		UID:         uid,
		Email:       uid + "@dev.local",
		DisplayName: uid,
	}, nil
}
