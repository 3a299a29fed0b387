package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"growwithme/internal/adapter/repository/memory"
	"growwithme/internal/domain/entity"
)

type fixture struct {
	store         *memory.Store
	notifications *NotificationUseCase
	ideas         *IdeaUseCase
	negotiations  *NegotiationUseCase
	connections   *ConnectionUseCase
	joinRequests  *JoinRequestUseCase
	chats         *ChatUseCase
	alerts        *MatchAlertUseCase
	watcher       *MatchWatcher
	pusher        *recordingPusher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.New()
	notifications := NewNotificationUseCase(store.Notifications())
	pusher := &recordingPusher{}

	return &fixture{
		store:         store,
		notifications: notifications,
		ideas:         NewIdeaUseCase(store.Ideas(), store.Users(), nil),
		negotiations:  NewNegotiationUseCase(store.Negotiations(), store.Ideas(), store.Users(), notifications, nil),
		connections:   NewConnectionUseCase(store.Connections(), store.Users(), notifications, nil),
		joinRequests:  NewJoinRequestUseCase(store.JoinRequests(), store.Ideas(), store.Users(), notifications, nil),
		chats:         NewChatUseCase(store.Chats(), store.Users(), notifications, pusher, nil),
		alerts:        NewMatchAlertUseCase(store.MatchAlerts()),
		watcher:       NewMatchWatcher(store.Users(), store.MatchAlerts(), store.Ideas(), notifications),
		pusher:        pusher,
	}
}

func (f *fixture) addUser(t *testing.T, id, role string, mods ...func(*entity.User)) *entity.User {
	t.Helper()

	now := time.Now()
	u := &entity.User{
		ID:                 id,
		Email:              id + "@example.com",
		Username:           id,
		DisplayName:        "User " + id,
		Role:               role,
		Skills:             []string{},
		Interests:          []string{},
		Connections:        []string{},
		PendingConnections: []string{},
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	for _, mod := range mods {
		mod(u)
	}
	require.NoError(t, f.store.Users().Create(context.Background(), u))
	return u
}

func (f *fixture) postIdea(t *testing.T, founderID, title, visibility string, skills ...string) *entity.Idea {
	t.Helper()

	idea, err := f.ideas.Post(context.Background(), founderID, CreateIdeaInput{
		Title:       title,
		Description: "Description of " + title,
		Skills:      skills,
		Visibility:  visibility,
	})
	require.NoError(t, err)
	return idea
}

// connect runs the full request and approval flow between two users.
func (f *fixture) connect(t *testing.T, a, b string) {
	t.Helper()

	ctx := context.Background()
	req, err := f.connections.SendRequest(ctx, a, b)
	require.NoError(t, err)
	_, err = f.connections.Approve(ctx, req.ID, b)
	require.NoError(t, err)
}

func (f *fixture) notificationsOf(t *testing.T, userID string) []*entity.Notification {
	t.Helper()

	list, err := f.notifications.List(context.Background(), userID)
	require.NoError(t, err)
	return list
}

type pushed struct {
	UserID  string
	Type    string
	Payload interface{}
}

type recordingPusher struct {
	mu     sync.Mutex
	events []pushed
}

func (p *recordingPusher) SendToUser(userID, msgType string, payload interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, pushed{UserID: userID, Type: msgType, Payload: payload})
}

func (p *recordingPusher) Events() []pushed {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]pushed(nil), p.events...)
}

func ptr[T any](v T) *T {
	return &v
}
