package usecase

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"growwithme/internal/adapter/repository/memory"
	"growwithme/internal/domain/entity"
	"growwithme/pkg/errors"
)

type fakeAuth struct {
	profiles map[string]*AuthProfile
}

func (f *fakeAuth) VerifyToken(ctx context.Context, token string) (string, error) {
	if _, ok := f.profiles[token]; ok {
		return token, nil
	}
	return "", stderrors.New("invalid token")
}

func (f *fakeAuth) GetUser(ctx context.Context, uid string) (*AuthProfile, error) {
	if p, ok := f.profiles[uid]; ok {
		return p, nil
	}
	return nil, stderrors.New("no such user")
}

type fakeStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	fail    error
}

func (s *fakeStorage) Upload(ctx context.Context, objectName string, r io.Reader, contentType string) (string, error) {
	if s.fail != nil {
		return "", s.fail
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[objectName] = data
	return "https://storage.example.com/" + objectName, nil
}

func newUserFixture(t *testing.T) (*UserUseCase, *memory.Store, *fakeStorage) {
	t.Helper()

	store := memory.New()
	auth := &fakeAuth{profiles: map[string]*AuthProfile{
		"u1": {UID: "u1", Email: "u1@example.com", DisplayName: "Ada", PhotoURL: "https://img/u1.png"},
		"u2": {UID: "u2", Email: "u2@example.com", DisplayName: "Grace"},
	}}
	storage := &fakeStorage{objects: map[string][]byte{}}
	return NewUserUseCase(store.Users(), auth, storage), store, storage
}

func TestUserUseCase_EnsureProfileSeedsFromAuth(t *testing.T) {
	uc, _, _ := newUserFixture(t)
	ctx := context.Background()

	user, err := uc.EnsureProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1@example.com", user.Email)
	assert.Equal(t, "Ada", user.DisplayName)
	assert.Equal(t, "https://img/u1.png", user.AvatarURL)
	assert.NotNil(t, user.Connections)

	again, err := uc.EnsureProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, user.CreatedAt.Unix(), again.CreatedAt.Unix())

	_, err = uc.EnsureProfile(ctx, "stranger")
	assert.True(t, errors.Is(err, errors.CodeUnauthorized))
}

func TestUserUseCase_UpdateProfile(t *testing.T) {
	uc, _, _ := newUserFixture(t)
	ctx := context.Background()

	_, err := uc.EnsureProfile(ctx, "u1")
	require.NoError(t, err)

	user, err := uc.UpdateProfile(ctx, "u1", UpdateProfileInput{
		Username:   ptr("ada_l"),
		Role:       ptr(entity.RoleFounder),
		Location:   ptr("London, UK"),
		Phone:      ptr("+441234567890"),
		Experience: ptr("10 years"),
		Skills:     []string{" Go ", "", "<b>Rust</b>"},
	})
	require.NoError(t, err)
	assert.Equal(t, "ada_l", user.Username)
	assert.Equal(t, entity.RoleFounder, user.Role)
	assert.Equal(t, []string{"Go", "Rust"}, user.Skills)
	assert.Equal(t, "Ada", user.DisplayName, "untouched fields are kept")
}

func TestUserUseCase_UpdateProfileValidation(t *testing.T) {
	uc, _, _ := newUserFixture(t)
	ctx := context.Background()

	_, err := uc.EnsureProfile(ctx, "u1")
	require.NoError(t, err)

	tests := []struct {
		name  string
		input UpdateProfileInput
	}{
		{"username too short", UpdateProfileInput{Username: ptr("ab")}},
		{"username uppercase", UpdateProfileInput{Username: ptr("Ada")}},
		{"unknown role", UpdateProfileInput{Role: ptr("admin")}},
		{"location digits", UpdateProfileInput{Location: ptr("221B Baker Street")}},
		{"phone letters", UpdateProfileInput{Phone: ptr("call me")}},
		{"empty display name", UpdateProfileInput{DisplayName: ptr("  ")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.UpdateProfile(ctx, "u1", tt.input)
			assert.True(t, errors.Is(err, errors.CodeValidation), "got %v", err)
		})
	}
}

func TestUserUseCase_UsernameUniqueness(t *testing.T) {
	uc, _, _ := newUserFixture(t)
	ctx := context.Background()

	for _, uid := range []string{"u1", "u2"} {
		_, err := uc.EnsureProfile(ctx, uid)
		require.NoError(t, err)
	}

	ok, err := uc.IsUsernameAvailable(ctx, "ada")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = uc.UpdateProfile(ctx, "u1", UpdateProfileInput{Username: ptr("ada")})
	require.NoError(t, err)

	ok, err = uc.IsUsernameAvailable(ctx, "ada")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = uc.UpdateProfile(ctx, "u2", UpdateProfileInput{Username: ptr("ada")})
	assert.True(t, errors.IsConflict(err))

	_, err = uc.UpdateProfile(ctx, "u1", UpdateProfileInput{Username: ptr("ada")})
	assert.NoError(t, err, "keeping your own username is allowed")

	_, err = uc.IsUsernameAvailable(ctx, "no")
	assert.True(t, errors.Is(err, errors.CodeValidation))
}

func TestUserUseCase_UploadAvatar(t *testing.T) {
	uc, store, storage := newUserFixture(t)
	ctx := context.Background()

	_, err := uc.EnsureProfile(ctx, "u1")
	require.NoError(t, err)

	_, err = uc.UploadAvatar(ctx, "u1", strings.NewReader("x"), "application/pdf")
	assert.True(t, errors.Is(err, errors.CodeBadRequest))

	url, err := uc.UploadAvatar(ctx, "u1", bytes.NewReader([]byte("png-bytes")), "image/png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "https://storage.example.com/avatars/u1/"))
	assert.True(t, strings.HasSuffix(url, ".png"))
	assert.Len(t, storage.objects, 1)

	user, err := store.Users().GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, url, user.AvatarURL)

	storage.fail = stderrors.New("bucket down")
	_, err = uc.UploadAvatar(ctx, "u1", strings.NewReader("x"), "image/jpeg")
	assert.True(t, errors.Is(err, errors.CodeInternal))
}
