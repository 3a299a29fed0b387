package repository

import (
	"context"

	"growwithme/internal/domain/entity"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification) error
	// CreateIfAbsent reports false when a notification with the same id exists.
	CreateIfAbsent(ctx context.Context, notification *entity.Notification) (bool, error)
	GetByID(ctx context.Context, id string) (*entity.Notification, error)
	// Update rewrites an existing notification in place.
	Update(ctx context.Context, notification *entity.Notification) error
	Delete(ctx context.Context, id string) error

	ListByUser(ctx context.Context, userID string) ([]*entity.Notification, error)
	FindByJoinRequest(ctx context.Context, userID, joinRequestID string) (*entity.Notification, error)
	FindMatch(ctx context.Context, alertID, matchedUserID string) (*entity.Notification, error)

	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, userID string) (int, error)

	// WatchByUser calls fn with the user's full notification set on every
	// change until ctx ends. Ordering of the delivered slice is unspecified.
	WatchByUser(ctx context.Context, userID string, fn func([]*entity.Notification)) error
}
