package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"growwithme/internal/domain/entity"
	"growwithme/internal/infrastructure/ratelimit"
	"growwithme/pkg/errors"
)

func chatFixture(t *testing.T) (*fixture, *entity.Chat) {
	t.Helper()

	f := newFixture(t)
	f.addUser(t, "a", entity.RoleFounder)
	f.addUser(t, "b", entity.RoleDeveloper)
	f.addUser(t, "c", entity.RoleInvestor)

	chat, err := f.chats.Open(context.Background(), "a", "b")
	require.NoError(t, err)
	return f, chat
}

func TestChatUseCase_OpenIsIdempotent(t *testing.T) {
	f, chat := chatFixture(t)
	ctx := context.Background()

	assert.Equal(t, entity.PairID("a", "b"), chat.ID)

	again, err := f.chats.Open(ctx, "b", "a")
	require.NoError(t, err)
	assert.Equal(t, chat.ID, again.ID)

	_, err = f.chats.Open(ctx, "a", "a")
	assert.True(t, errors.Is(err, errors.CodeBadRequest))
	_, err = f.chats.Open(ctx, "a", "ghost")
	assert.True(t, errors.IsNotFound(err))
}

func TestChatUseCase_SendUpdatesUnreadAndNotifies(t *testing.T) {
	f, chat := chatFixture(t)
	ctx := context.Background()

	_, err := f.chats.Send(ctx, chat.ID, "a", "hello")
	require.NoError(t, err)
	msg, err := f.chats.Send(ctx, chat.ID, "a", "<i>are you there?</i>")
	require.NoError(t, err)
	assert.Equal(t, "are you there?", msg.Content)

	stored, err := f.store.Chats().GetByID(ctx, chat.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.UnreadCount["b"])
	assert.Zero(t, stored.UnreadCount["a"])
	assert.Equal(t, "are you there?", stored.LastMessage)

	notes := f.notificationsOf(t, "b")
	require.Len(t, notes, 2)
	assert.Equal(t, entity.NotificationMessage, notes[0].Type)
	assert.Equal(t, "New message from User a", notes[0].Title)
	assert.Empty(t, f.notificationsOf(t, "a"))

	events := f.pusher.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "b", events[0].UserID)
	assert.Equal(t, PushMessage, events[0].Type)

	require.NoError(t, f.chats.MarkRead(ctx, chat.ID, "b"))
	stored, err = f.store.Chats().GetByID(ctx, chat.ID)
	require.NoError(t, err)
	assert.Zero(t, stored.UnreadCount["b"])

	events = f.pusher.Events()
	require.Len(t, events, 3)
	assert.Equal(t, "a", events[2].UserID)
	assert.Equal(t, PushRead, events[2].Type)
}

func TestChatUseCase_MessagesOldestFirst(t *testing.T) {
	f, chat := chatFixture(t)
	ctx := context.Background()

	for _, text := range []string{"one", "two", "three"} {
		_, err := f.chats.Send(ctx, chat.ID, "b", text)
		require.NoError(t, err)
		time.Sleep(time.Millisecond)
	}

	msgs, err := f.chats.Messages(ctx, chat.ID, "a", 2)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "two", msgs[0].Content)
	assert.Equal(t, "three", msgs[1].Content)

	all, err := f.chats.Messages(ctx, chat.ID, "a", 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestChatUseCase_Guards(t *testing.T) {
	f, chat := chatFixture(t)
	ctx := context.Background()

	_, err := f.chats.Send(ctx, chat.ID, "c", "intrude")
	assert.True(t, errors.Is(err, errors.CodeForbidden))
	_, err = f.chats.Messages(ctx, chat.ID, "c", 10)
	assert.True(t, errors.Is(err, errors.CodeForbidden))
	assert.True(t, errors.Is(f.chats.MarkRead(ctx, chat.ID, "c"), errors.CodeForbidden))

	_, err = f.chats.Send(ctx, chat.ID, "a", "   ")
	assert.True(t, errors.Is(err, errors.CodeBadRequest))
	_, err = f.chats.Send(ctx, chat.ID, "a", strings.Repeat("x", MaxMessageLength+1))
	assert.True(t, errors.Is(err, errors.CodeBadRequest))
}

func TestChatUseCase_ListChatsByRecentActivity(t *testing.T) {
	f, ab := chatFixture(t)
	ctx := context.Background()

	ac, err := f.chats.Open(ctx, "a", "c")
	require.NoError(t, err)

	_, err = f.chats.Send(ctx, ab.ID, "a", "first")
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	_, err = f.chats.Send(ctx, ac.ID, "a", "second")
	require.NoError(t, err)

	chats, err := f.chats.ListChats(ctx, "a")
	require.NoError(t, err)
	require.Len(t, chats, 2)
	assert.Equal(t, ac.ID, chats[0].ID)
	assert.Equal(t, ab.ID, chats[1].ID)
}

func TestChatUseCase_RateLimited(t *testing.T) {
	f, chat := chatFixture(t)
	ctx := context.Background()

	limited := NewChatUseCase(f.store.Chats(), f.store.Users(), f.notifications, nil,
		ratelimit.NewRateLimiterWithPolicies(map[string]ratelimit.Policy{
			ratelimit.ActionSendMessage: {MaxTokens: 2, RefillRate: 1, RefillTime: time.Hour},
		}))

	for i := 0; i < 2; i++ {
		_, err := limited.Send(ctx, chat.ID, "a", "hi")
		require.NoError(t, err)
	}
	_, err := limited.Send(ctx, chat.ID, "a", "hi")
	assert.True(t, errors.Is(err, errors.CodeTooManyRequests))
}
