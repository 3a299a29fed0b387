package memory

import (
	"context"
	"fmt"
	"time"

	"growwithme/internal/domain/entity"
	"growwithme/internal/domain/repository"
	"growwithme/pkg/errors"
)

type userRepository struct {
	s *Store
}

func (s *Store) Users() repository.UserRepository {
	return &userRepository{s: s}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	r.s.mu.Lock()
	if _, ok := r.s.users[user.ID]; ok {
		r.s.mu.Unlock()
		return errors.Conflict("user already exists")
	}
	r.s.users[user.ID] = cloneUser(user)
	r.s.mu.Unlock()

	r.s.changed()
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	return cloneUser(u), nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, errors.NotFound("User", nil)
}

func (r *userRepository) GetMany(ctx context.Context, ids []string) ([]*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*entity.User
	for _, id := range ids {
		if u, ok := r.s.users[id]; ok {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

func (r *userRepository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	r.s.mu.Lock()
	u, ok := r.s.users[id]
	if !ok {
		r.s.mu.Unlock()
		return errors.NotFound("User", nil)
	}
	next := cloneUser(u)
	if err := applyUserFields(next, fields); err != nil {
		r.s.mu.Unlock()
		return err
	}
	r.s.users[id] = next
	r.s.mu.Unlock()

	r.s.changed()
	return nil
}

func (r *userRepository) List(ctx context.Context) ([]*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.userSnapshot(), nil
}

func (r *userRepository) Watch(ctx context.Context, fn func([]*entity.User)) error {
	return watch(ctx, r.s, func() []*entity.User {
		r.s.mu.RLock()
		defer r.s.mu.RUnlock()
		return r.s.userSnapshot()
	}, fn)
}

func (s *Store) userSnapshot() []*entity.User {
	out := make([]*entity.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, cloneUser(u))
	}
	return sortByID(out, func(u *entity.User) string { return u.ID })
}

func applyUserFields(u *entity.User, fields map[string]interface{}) error {
	for key, value := range fields {
		var ok bool
		switch key {
		case "username":
			u.Username, ok = value.(string)
		case "displayName":
			u.DisplayName, ok = value.(string)
		case "avatarUrl":
			u.AvatarURL, ok = value.(string)
		case "role":
			u.Role, ok = value.(string)
		case "bio":
			u.Bio, ok = value.(string)
		case "location":
			u.Location, ok = value.(string)
		case "phone":
			u.Phone, ok = value.(string)
		case "experience":
			u.Experience, ok = value.(string)
		case "skills":
			u.Skills, ok = value.([]string)
		case "interests":
			u.Interests, ok = value.([]string)
		case "investorDomains":
			u.InvestorDomains, ok = value.([]string)
		case "updatedAt":
			u.UpdatedAt, ok = value.(time.Time)
		default:
			return errors.Internal("Failed to update user", fmt.Errorf("unsupported field %q", key))
		}
		if !ok {
			return errors.Internal("Failed to update user", fmt.Errorf("field %q has type %T", key, value))
		}
	}
	return nil
}
