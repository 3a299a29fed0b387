package usecase

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"growwithme/internal/domain/entity"
	"growwithme/pkg/errors"
)

func createNote(t *testing.T, f *fixture, userID, title string) *entity.Notification {
	t.Helper()

	n, err := f.notifications.Create(context.Background(), NotificationInput{
		UserID:  userID,
		Type:    entity.NotificationMessage,
		Title:   title,
		Message: title,
	})
	require.NoError(t, err)
	return n
}

// nextUpdate waits for a set that satisfies cond, skipping conflated states.
func nextUpdate(t *testing.T, sub *Subscription, cond func([]*entity.Notification) bool) []*entity.Notification {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case items, ok := <-sub.Updates():
			require.True(t, ok, "subscription closed early: %v", sub.Err())
			if cond(items) {
				return items
			}
		case <-deadline:
			t.Fatal("timed out waiting for notification update")
			return nil
		}
	}
}

func TestNotificationUseCase_CreateValidates(t *testing.T) {
	f := newFixture(t)

	_, err := f.notifications.Create(context.Background(), NotificationInput{Type: entity.NotificationMessage})
	assert.True(t, errors.Is(err, errors.CodeBadRequest))

	n := createNote(t, f, "u1", "hello")
	assert.NotEmpty(t, n.ID)
	assert.False(t, n.IsRead)
	assert.False(t, n.CreatedAt.IsZero())
}

func TestNotificationUseCase_ListNewestFirstAndUnread(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := createNote(t, f, "u1", "first")
	time.Sleep(2 * time.Millisecond)
	createNote(t, f, "u1", "second")
	createNote(t, f, "u2", "other")

	list := f.notificationsOf(t, "u1")
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Title)
	assert.Equal(t, "first", list[1].Title)

	require.NoError(t, f.notifications.MarkRead(ctx, first.ID, "u1"))
	count, err := f.notifications.UnreadCount(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	n, err := f.notifications.MarkAllRead(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	count, err = f.notifications.UnreadCount(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestNotificationUseCase_OwnershipChecks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	n := createNote(t, f, "u1", "mine")

	assert.True(t, errors.IsNotFound(f.notifications.MarkRead(ctx, n.ID, "u2")))
	assert.True(t, errors.IsNotFound(f.notifications.Delete(ctx, n.ID, "u2")))

	require.NoError(t, f.notifications.Delete(ctx, n.ID, "u1"))
	assert.Empty(t, f.notificationsOf(t, "u1"))
}

func TestNotificationUseCase_CreateMatchIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alert := &entity.MatchAlert{ID: "alert-1", OwnerID: "owner", Name: "Go devs"}
	matched := &entity.User{ID: "dev", DisplayName: "Dev"}

	created, err := f.notifications.CreateMatch(ctx, alert, matched)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = f.notifications.CreateMatch(ctx, alert, matched)
	require.NoError(t, err)
	assert.False(t, created)

	list := f.notificationsOf(t, "owner")
	require.Len(t, list, 1)
	assert.Equal(t, entity.MatchNotificationID("alert-1", "dev"), list[0].ID)
	assert.Equal(t, entity.NotificationMatchAlert, list[0].Type)
}

func TestNotificationUseCase_SubscribeStreamsSortedSets(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	createNote(t, f, "u1", "old")

	sub, err := f.notifications.Subscribe(ctx, "u1")
	require.NoError(t, err)
	defer sub.Cancel()

	initial := nextUpdate(t, sub, func(items []*entity.Notification) bool { return len(items) == 1 })
	assert.Equal(t, "old", initial[0].Title)

	time.Sleep(2 * time.Millisecond)
	createNote(t, f, "u2", "not mine")
	createNote(t, f, "u1", "new")

	items := nextUpdate(t, sub, func(items []*entity.Notification) bool { return len(items) == 2 })
	assert.Equal(t, "new", items[0].Title)
	assert.Equal(t, "old", items[1].Title)
	for _, n := range items {
		assert.Equal(t, "u1", n.UserID)
	}
}

func TestNotificationUseCase_SubscribeCancel(t *testing.T) {
	f := newFixture(t)

	sub, err := f.notifications.Subscribe(context.Background(), "u1")
	require.NoError(t, err)

	sub.Cancel()

	// drain whatever was buffered, then the channel must be closed
	for range sub.Updates() {
	}
	assert.NoError(t, sub.Err())
}

func TestNotificationUseCase_SubscribeSurfacesListenerFailure(t *testing.T) {
	f := newFixture(t)

	sub, err := f.notifications.Subscribe(context.Background(), "u1")
	require.NoError(t, err)
	defer sub.Cancel()

	boom := stderrors.New("listener lost")
	f.store.FailWatches(boom)

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-sub.Updates():
			if !ok {
				assert.ErrorIs(t, sub.Err(), boom)
				return
			}
		case <-deadline:
			t.Fatal("subscription did not close after listener failure")
		}
	}
}

func TestNotificationUseCase_SubscribeRequiresUser(t *testing.T) {
	f := newFixture(t)

	_, err := f.notifications.Subscribe(context.Background(), "")
	assert.True(t, errors.Is(err, errors.CodeBadRequest))
}
