package repository

import (
	"context"

	"growwithme/internal/domain/entity"
)

type MatchAlertRepository interface {
	Create(ctx context.Context, alert *entity.MatchAlert) error
	GetByID(ctx context.Context, id string) (*entity.MatchAlert, error)
	Update(ctx context.Context, alert *entity.MatchAlert) error
	Delete(ctx context.Context, id string) error
	ListByOwner(ctx context.Context, ownerID string) ([]*entity.MatchAlert, error)
	ListActive(ctx context.Context) ([]*entity.MatchAlert, error)
	WatchActive(ctx context.Context, fn func([]*entity.MatchAlert)) error
}
