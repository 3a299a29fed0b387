package repository

import (
	"context"

	"growwithme/internal/domain/entity"
)

type UserRepository interface {
	// Create fails with a CONFLICT AppError when the id is taken.
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	GetMany(ctx context.Context, ids []string) ([]*entity.User, error)
	// Update merges fields into the document; absent fields are untouched.
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	List(ctx context.Context) ([]*entity.User, error)
	// Watch calls fn with the full user set on every change until ctx ends.
	Watch(ctx context.Context, fn func([]*entity.User)) error
}
