package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"growwithme/internal/domain/entity"
	"growwithme/internal/domain/repository"
	"growwithme/pkg/errors"
)

const readDelay = 20 * time.Millisecond

// slowJoinRequests delays reads so concurrent callers all observe the same
// snapshot before any of them writes.
type slowJoinRequests struct {
	repository.JoinRequestRepository
}

func (r slowJoinRequests) GetByID(ctx context.Context, id string) (*entity.JoinRequest, error) {
	req, err := r.JoinRequestRepository.GetByID(ctx, id)
	time.Sleep(readDelay)
	return req, err
}

func (r slowJoinRequests) ListByIdeaAndDeveloper(ctx context.Context, ideaID, developerID string) ([]*entity.JoinRequest, error) {
	list, err := r.JoinRequestRepository.ListByIdeaAndDeveloper(ctx, ideaID, developerID)
	time.Sleep(readDelay)
	return list, err
}

type slowConnections struct {
	repository.ConnectionRepository
}

func (r slowConnections) GetRequest(ctx context.Context, id string) (*entity.ConnectionRequest, error) {
	req, err := r.ConnectionRepository.GetRequest(ctx, id)
	time.Sleep(readDelay)
	return req, err
}

// both runs a and b at the same time and returns their errors.
func both(a, b func() error) (error, error) {
	var wg sync.WaitGroup
	var errA, errB error
	wg.Add(2)
	go func() { defer wg.Done(); errA = a() }()
	go func() { defer wg.Done(); errB = b() }()
	wg.Wait()
	return errA, errB
}

// exactlyOne asserts that one call succeeded and the other lost with CONFLICT.
// It reports whether the first call won.
func exactlyOne(t *testing.T, errA, errB error) bool {
	t.Helper()

	if errA == nil {
		require.Error(t, errB)
		assert.True(t, errors.IsConflict(errB), "got %v", errB)
		return true
	}
	require.NoError(t, errB)
	assert.True(t, errors.IsConflict(errA), "got %v", errA)
	return false
}

func TestJoinRequestUseCase_ConcurrentApproveAndReject(t *testing.T) {
	f, idea := joinFixture(t)
	ctx := context.Background()
	joins := NewJoinRequestUseCase(slowJoinRequests{f.store.JoinRequests()}, f.store.Ideas(), f.store.Users(), f.notifications, nil)

	req, err := joins.Request(ctx, idea.ID, "d1", "")
	require.NoError(t, err)

	approveErr, rejectErr := both(
		func() error { _, err := joins.Approve(ctx, req.ID, "f1"); return err },
		func() error { _, err := joins.Reject(ctx, req.ID, "f1"); return err },
	)
	approved := exactlyOne(t, approveErr, rejectErr)

	stored, err := f.store.JoinRequests().GetByID(ctx, req.ID)
	require.NoError(t, err)
	storedIdea, err := f.store.Ideas().GetByID(ctx, idea.ID)
	require.NoError(t, err)

	devNotes := f.notificationsOf(t, "d1")
	require.Len(t, devNotes, 1)

	if approved {
		assert.Equal(t, entity.RequestApproved, stored.Status)
		assert.Contains(t, storedIdea.Team, "d1")
		assert.Equal(t, "Join request approved", devNotes[0].Title)
	} else {
		assert.Equal(t, entity.RequestRejected, stored.Status)
		assert.NotContains(t, storedIdea.Team, "d1")
		assert.Equal(t, "Join request declined", devNotes[0].Title)
	}
}

func TestJoinRequestUseCase_ConcurrentRequestsLeaveOnePending(t *testing.T) {
	f, idea := joinFixture(t)
	ctx := context.Background()
	joins := NewJoinRequestUseCase(slowJoinRequests{f.store.JoinRequests()}, f.store.Ideas(), f.store.Users(), f.notifications, nil)

	errA, errB := both(
		func() error { _, err := joins.Request(ctx, idea.ID, "d1", "first"); return err },
		func() error { _, err := joins.Request(ctx, idea.ID, "d1", "second"); return err },
	)
	exactlyOne(t, errA, errB)

	list, err := f.store.JoinRequests().ListByIdeaAndDeveloper(ctx, idea.ID, "d1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, entity.RequestPending, list[0].Status)
	assert.Len(t, f.notificationsOf(t, "f1"), 1)
}

func TestConnectionUseCase_ConcurrentApproveAndReject(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "alice", entity.RoleFounder)
	f.addUser(t, "bob", entity.RoleInvestor)
	ctx := context.Background()
	conns := NewConnectionUseCase(slowConnections{f.store.Connections()}, f.store.Users(), f.notifications, nil)

	req, err := conns.SendRequest(ctx, "alice", "bob")
	require.NoError(t, err)

	approveErr, rejectErr := both(
		func() error { _, err := conns.Approve(ctx, req.ID, "bob"); return err },
		func() error { _, err := conns.Reject(ctx, req.ID, "bob"); return err },
	)
	approved := exactlyOne(t, approveErr, rejectErr)

	stored, err := f.store.Connections().GetRequest(ctx, req.ID)
	require.NoError(t, err)
	alice, err := f.store.Users().GetByID(ctx, "alice")
	require.NoError(t, err)
	bob, err := f.store.Users().GetByID(ctx, "bob")
	require.NoError(t, err)

	assert.Empty(t, alice.PendingConnections)
	if approved {
		assert.Equal(t, entity.RequestApproved, stored.Status)
		assert.True(t, alice.IsConnectedTo("bob"))
		assert.True(t, bob.IsConnectedTo("alice"))
	} else {
		assert.Equal(t, entity.RequestRejected, stored.Status)
		assert.False(t, alice.IsConnectedTo("bob"))
		assert.False(t, bob.IsConnectedTo("alice"))
	}
}

func TestConnectionUseCase_WithdrawLosesToApprove(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "alice", entity.RoleFounder)
	f.addUser(t, "bob", entity.RoleInvestor)
	ctx := context.Background()
	conns := NewConnectionUseCase(slowConnections{f.store.Connections()}, f.store.Users(), f.notifications, nil)

	req, err := conns.SendRequest(ctx, "alice", "bob")
	require.NoError(t, err)

	approveErr, withdrawErr := both(
		func() error { _, err := conns.Approve(ctx, req.ID, "bob"); return err },
		func() error { return conns.Withdraw(ctx, req.ID, "alice") },
	)
	approved := exactlyOne(t, approveErr, withdrawErr)

	alice, err := f.store.Users().GetByID(ctx, "alice")
	require.NoError(t, err)
	stored, getErr := f.store.Connections().GetRequest(ctx, req.ID)
	if approved {
		require.NoError(t, getErr)
		assert.Equal(t, entity.RequestApproved, stored.Status)
		assert.True(t, alice.IsConnectedTo("bob"))
	} else {
		assert.True(t, errors.IsNotFound(getErr))
		assert.False(t, alice.IsConnectedTo("bob"))
	}
}
