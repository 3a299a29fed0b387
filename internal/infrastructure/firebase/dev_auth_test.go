package firebase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDevAuthClient(t *testing.T) {
	auth := NewDevAuthClient()
	ctx := context.Background()

	uid, err := auth.VerifyToken(ctx, "dev:alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", uid)

	for _, bad := range []string{"alice", "dev:", ""} {
		_, err := auth.VerifyToken(ctx, bad)
		assert.Error(t, err, bad)
	}

	profile, err := auth.GetUser(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice@dev.local", profile.Email)
}
