package repository

import (
	"context"

	"growwithme/internal/domain/entity"
)

type IdeaRepository interface {
	Create(ctx context.Context, idea *entity.Idea) error
	GetByID(ctx context.Context, id string) (*entity.Idea, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, id string) error

	// ListPage returns up to limit ideas ordered by status then id, starting
	// after the idea with id afterID (from the beginning when empty).
	ListPage(ctx context.Context, afterID string, limit int) ([]*entity.Idea, error)
	ListAll(ctx context.Context) ([]*entity.Idea, error)
	CountByFounder(ctx context.Context, founderID string) (int, error)

	// ToggleLike adds or removes userID atomically and reports the new state.
	ToggleLike(ctx context.Context, ideaID, userID string) (bool, error)

	// AddComment and DeleteComment keep the idea's comment array and the
	// comments subcollection in step within one atomic write.
	AddComment(ctx context.Context, comment *entity.Comment) error
	DeleteComment(ctx context.Context, ideaID, commentID string) error
	ListComments(ctx context.Context, ideaID string) ([]*entity.Comment, error)
}
