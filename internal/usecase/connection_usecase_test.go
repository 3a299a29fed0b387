package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"growwithme/internal/domain/entity"
	"growwithme/internal/infrastructure/ratelimit"
	"growwithme/pkg/errors"
)

func TestConnectionUseCase_RequestIDIsSymmetric(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "alice", entity.RoleFounder)
	f.addUser(t, "bob", entity.RoleDeveloper)

	req, err := f.connections.SendRequest(context.Background(), "bob", "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice_bob", req.ID)
	assert.Equal(t, entity.PairID("alice", "bob"), entity.PairID("bob", "alice"))

	_, err = f.connections.SendRequest(context.Background(), "alice", "bob")
	assert.True(t, errors.IsConflict(err), "reverse request collides with the pending one")
}

func TestConnectionUseCase_ApproveIsSymmetric(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addUser(t, "a", entity.RoleFounder)
	f.addUser(t, "b", entity.RoleInvestor)

	req, err := f.connections.SendRequest(ctx, "a", "b")
	require.NoError(t, err)

	sender, err := f.store.Users().GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, sender.PendingConnections)

	notes := f.notificationsOf(t, "b")
	require.Len(t, notes, 1)
	assert.Equal(t, entity.NotificationConnectionRequest, notes[0].Type)

	_, err = f.connections.Approve(ctx, req.ID, "a")
	assert.True(t, errors.Is(err, errors.CodeForbidden), "sender cannot approve")

	approved, err := f.connections.Approve(ctx, req.ID, "b")
	require.NoError(t, err)
	assert.Equal(t, entity.RequestApproved, approved.Status)

	a, err := f.store.Users().GetByID(ctx, "a")
	require.NoError(t, err)
	b, err := f.store.Users().GetByID(ctx, "b")
	require.NoError(t, err)
	assert.True(t, a.IsConnectedTo("b"))
	assert.True(t, b.IsConnectedTo("a"))
	assert.Empty(t, a.PendingConnections)

	_, err = f.connections.SendRequest(ctx, "b", "a")
	assert.True(t, errors.IsConflict(err), "already connected")

	list, err := f.connections.ListConnections(ctx, "a")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "b", list[0].ID)
}

func TestConnectionUseCase_RejectAndRetry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addUser(t, "a", entity.RoleFounder)
	f.addUser(t, "b", entity.RoleInvestor)

	req, err := f.connections.SendRequest(ctx, "a", "b")
	require.NoError(t, err)

	rejected, err := f.connections.Reject(ctx, req.ID, "b")
	require.NoError(t, err)
	assert.Equal(t, entity.RequestRejected, rejected.Status)

	a, err := f.store.Users().GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, a.PendingConnections)
	assert.False(t, a.IsConnectedTo("b"))

	_, err = f.connections.Approve(ctx, req.ID, "b")
	assert.True(t, errors.IsConflict(err), "no longer pending")

	again, err := f.connections.SendRequest(ctx, "a", "b")
	require.NoError(t, err)
	assert.Equal(t, entity.RequestPending, again.Status)
}

func TestConnectionUseCase_Withdraw(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addUser(t, "a", entity.RoleFounder)
	f.addUser(t, "b", entity.RoleInvestor)

	req, err := f.connections.SendRequest(ctx, "a", "b")
	require.NoError(t, err)

	assert.True(t, errors.Is(f.connections.Withdraw(ctx, req.ID, "b"), errors.CodeForbidden))
	require.NoError(t, f.connections.Withdraw(ctx, req.ID, "a"))

	_, err = f.store.Connections().GetRequest(ctx, req.ID)
	assert.True(t, errors.IsNotFound(err))
	a, err := f.store.Users().GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, a.PendingConnections)

	out, err := f.connections.ListOutgoing(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestConnectionUseCase_Disconnect(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addUser(t, "a", entity.RoleFounder)
	f.addUser(t, "b", entity.RoleInvestor)
	f.connect(t, "a", "b")

	require.NoError(t, f.connections.Disconnect(ctx, "b", "a"))

	a, err := f.store.Users().GetByID(ctx, "a")
	require.NoError(t, err)
	b, err := f.store.Users().GetByID(ctx, "b")
	require.NoError(t, err)
	assert.False(t, a.IsConnectedTo("b"))
	assert.False(t, b.IsConnectedTo("a"))

	assert.True(t, errors.IsNotFound(f.connections.Disconnect(ctx, "a", "b")))
}

func TestConnectionUseCase_Lists(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addUser(t, "a", entity.RoleFounder)
	f.addUser(t, "b", entity.RoleInvestor)
	f.addUser(t, "c", entity.RoleDeveloper)

	_, err := f.connections.SendRequest(ctx, "a", "b")
	require.NoError(t, err)
	_, err = f.connections.SendRequest(ctx, "c", "b")
	require.NoError(t, err)

	in, err := f.connections.ListIncoming(ctx, "b")
	require.NoError(t, err)
	assert.Len(t, in, 2)

	out, err := f.connections.ListOutgoing(ctx, "a")
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestConnectionUseCase_SelfAndRateLimit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addUser(t, "a", entity.RoleFounder)
	f.addUser(t, "b", entity.RoleInvestor)
	f.addUser(t, "c", entity.RoleInvestor)

	_, err := f.connections.SendRequest(ctx, "a", "a")
	assert.True(t, errors.Is(err, errors.CodeBadRequest))

	limited := NewConnectionUseCase(f.store.Connections(), f.store.Users(), f.notifications,
		ratelimit.NewRateLimiterWithPolicies(map[string]ratelimit.Policy{
			ratelimit.ActionConnectionRequest: {MaxTokens: 1, RefillRate: 1, RefillTime: time.Hour},
		}))
	_, err = limited.SendRequest(ctx, "a", "b")
	require.NoError(t, err)
	_, err = limited.SendRequest(ctx, "a", "c")
	assert.True(t, errors.Is(err, errors.CodeTooManyRequests))
}
