package usecase

import (
	"context"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"growwithme/internal/domain/entity"
	"growwithme/internal/domain/repository"
	"growwithme/pkg/errors"
	"growwithme/pkg/logger"
	"growwithme/pkg/textfilter"
)

const usernameCheckTimeout = 10 * time.Second

var (
	usernamePattern = regexp.MustCompile(`^[a-z0-9_]{3,20}$`)
	phonePattern    = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
	locationPattern = regexp.MustCompile(`^[\p{L} ,]+$`)

	avatarExtensions = map[string]string{
		"image/jpeg": "jpg",
		"image/png":  "png",
		"image/webp": "webp",
		"image/gif":  "gif",
	}
)

type UserUseCase struct {
	userRepo repository.UserRepository
	auth     AuthClient
	storage  ObjectStorage
}

func NewUserUseCase(userRepo repository.UserRepository, auth AuthClient, storage ObjectStorage) *UserUseCase {
	return &UserUseCase{
		userRepo: userRepo,
		auth:     auth,
		storage:  storage,
	}
}

// EnsureProfile returns the user's profile, seeding it from the identity
// provider the first time the user is seen.
func (uc *UserUseCase) EnsureProfile(ctx context.Context, uid string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, uid)
	if err == nil {
		return user, nil
	}
	if !errors.IsNotFound(err) {
		return nil, err
	}

	now := time.Now()
	user = &entity.User{
		ID:                 uid,
		Skills:             []string{},
		Interests:          []string{},
		Connections:        []string{},
		PendingConnections: []string{},
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if uc.auth != nil {
		profile, err := uc.auth.GetUser(ctx, uid)
		if err != nil {
			return nil, errors.Unauthorized("Unknown user", err)
		}
		user.Email = profile.Email
		user.DisplayName = profile.DisplayName
		user.AvatarURL = profile.PhotoURL
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		if errors.IsConflict(err) {
			// created concurrently by another request
			return uc.userRepo.GetByID(ctx, uid)
		}
		return nil, err
	}
	logger.Info("Created profile for user %s", uid)
	return user, nil
}

func (uc *UserUseCase) GetProfile(ctx context.Context, id string) (*entity.User, error) {
	return uc.userRepo.GetByID(ctx, id)
}

// UpdateProfileInput is a partial update: nil fields are left untouched.
type UpdateProfileInput struct {
	Username        *string
	DisplayName     *string
	Role            *string
	Bio             *string
	Location        *string
	Phone           *string
	Experience      *string
	Skills          []string
	Interests       []string
	InvestorDomains []string
}

func validRole(role string) bool {
	switch role {
	case entity.RoleFounder, entity.RoleDeveloper, entity.RoleInvestor:
		return true
	}
	return false
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(textfilter.StripHTML(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (uc *UserUseCase) UpdateProfile(ctx context.Context, uid string, input UpdateProfileInput) (*entity.User, error) {
	fields := map[string]interface{}{}

	if input.Username != nil {
		username := strings.TrimSpace(*input.Username)
		if !usernamePattern.MatchString(username) {
			return nil, errors.Validation("Username must be 3-20 lowercase letters, digits or underscores")
		}
		if textfilter.ContainsAbusiveText(strings.ReplaceAll(username, "_", " ")) {
			return nil, errors.Validation("Username contains inappropriate language")
		}
		existing, err := uc.userRepo.GetByUsername(ctx, username)
		if err == nil && existing.ID != uid {
			return nil, errors.Conflict("username is already taken")
		}
		if err != nil && !errors.IsNotFound(err) {
			return nil, err
		}
		fields["username"] = username
	}
	if input.DisplayName != nil {
		name := strings.TrimSpace(textfilter.StripHTML(*input.DisplayName))
		if name == "" {
			return nil, errors.Validation("Display name cannot be empty")
		}
		if textfilter.ContainsAbusiveText(name) {
			return nil, errors.Validation("Display name contains inappropriate language")
		}
		fields["displayName"] = name
	}
	if input.Role != nil {
		if !validRole(*input.Role) {
			return nil, errors.Validation("Role must be founder, developer or investor")
		}
		fields["role"] = *input.Role
	}
	if input.Bio != nil {
		bio := strings.TrimSpace(textfilter.StripHTML(*input.Bio))
		if textfilter.ContainsAbusiveText(bio) {
			return nil, errors.Validation("Bio contains inappropriate language")
		}
		fields["bio"] = bio
	}
	if input.Location != nil {
		location := strings.TrimSpace(*input.Location)
		if location != "" && !locationPattern.MatchString(location) {
			return nil, errors.Validation("Location may only contain letters, spaces and commas")
		}
		fields["location"] = location
	}
	if input.Phone != nil {
		phone := strings.TrimSpace(*input.Phone)
		if phone != "" && !phonePattern.MatchString(phone) {
			return nil, errors.Validation("Phone number is invalid")
		}
		fields["phone"] = phone
	}
	if input.Experience != nil {
		fields["experience"] = strings.TrimSpace(textfilter.StripHTML(*input.Experience))
	}
	if input.Skills != nil {
		fields["skills"] = cleanList(input.Skills)
	}
	if input.Interests != nil {
		fields["interests"] = cleanList(input.Interests)
	}
	if input.InvestorDomains != nil {
		fields["investorDomains"] = cleanList(input.InvestorDomains)
	}

	if len(fields) > 0 {
		fields["updatedAt"] = time.Now()
		if err := uc.userRepo.Update(ctx, uid, fields); err != nil {
			return nil, err
		}
	}
	return uc.userRepo.GetByID(ctx, uid)
}

func (uc *UserUseCase) IsUsernameAvailable(ctx context.Context, username string) (bool, error) {
	username = strings.TrimSpace(username)
	if !usernamePattern.MatchString(username) {
		return false, errors.Validation("Username must be 3-20 lowercase letters, digits or underscores")
	}

	ctx, cancel := context.WithTimeout(ctx, usernameCheckTimeout)
	defer cancel()

	_, err := uc.userRepo.GetByUsername(ctx, username)
	if errors.IsNotFound(err) {
		return true, nil
	}
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return false, errors.Timeout("Username check", err)
		}
		return false, err
	}
	return false, nil
}

func (uc *UserUseCase) UploadAvatar(ctx context.Context, uid string, r io.Reader, contentType string) (string, error) {
	if uc.storage == nil {
		return "", errors.Internal("Avatar storage is not configured", nil)
	}
	ext, ok := avatarExtensions[contentType]
	if !ok {
		return "", errors.BadRequest("Avatar must be a JPEG, PNG, WebP or GIF image", nil)
	}
	if _, err := uc.userRepo.GetByID(ctx, uid); err != nil {
		return "", err
	}

	url, err := uc.storage.Upload(ctx, "avatars/"+uid+"/"+uuid.New().String()+"."+ext, r, contentType)
	if err != nil {
		return "", errors.Internal("Failed to upload avatar", err)
	}
	if err := uc.userRepo.Update(ctx, uid, map[string]interface{}{
		"avatarUrl": url,
		"updatedAt": time.Now(),
	}); err != nil {
		return "", err
	}
	return url, nil
}
