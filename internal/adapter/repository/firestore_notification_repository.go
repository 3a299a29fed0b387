package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"growwithme/internal/domain/entity"
	"growwithme/internal/domain/repository"
	"growwithme/pkg/errors"
)

type firestoreNotificationRepository struct {
	client *firestore.Client
}

func NewFirestoreNotificationRepository(client *firestore.Client) repository.NotificationRepository {
	return &firestoreNotificationRepository{
		client: client,
	}
}

func (r *firestoreNotificationRepository) notifications() *firestore.CollectionRef {
	return r.client.Collection(notificationsCollection)
}

func (r *firestoreNotificationRepository) Create(ctx context.Context, n *entity.Notification) error {
	if _, err := r.notifications().Doc(n.ID).Set(ctx, n); err != nil {
		return errors.Internal("Failed to create notification", err)
	}
	return nil
}

func (r *firestoreNotificationRepository) CreateIfAbsent(ctx context.Context, n *entity.Notification) (bool, error) {
	_, err := r.notifications().Doc(n.ID).Create(ctx, n)
	if err != nil {
		if isAlreadyExists(err) {
			return false, nil
		}
		return false, errors.Internal("Failed to create notification", err)
	}
	return true, nil
}

func (r *firestoreNotificationRepository) GetByID(ctx context.Context, id string) (*entity.Notification, error) {
	doc, err := r.notifications().Doc(id).Get(ctx)
	if err != nil {
		return nil, getError(err, "Notification")
	}

	var n entity.Notification
	if err := doc.DataTo(&n); err != nil {
		return nil, errors.Internal("Failed to parse notification data", err)
	}
	return &n, nil
}

func (r *firestoreNotificationRepository) Update(ctx context.Context, n *entity.Notification) error {
	ref := r.notifications().Doc(n.ID)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(ref); err != nil {
			return err
		}
		return tx.Set(ref, n)
	})
	if err != nil {
		return writeError(err, "Notification", "update")
	}
	return nil
}

func (r *firestoreNotificationRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.notifications().Doc(id).Delete(ctx); err != nil {
		return errors.Internal("Failed to delete notification", err)
	}
	return nil
}

func (r *firestoreNotificationRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Notification, error) {
	return queryAll[entity.Notification](ctx, r.notifications().Where("userId", "==", userID), "notifications")
}

func (r *firestoreNotificationRepository) first(ctx context.Context, q firestore.Query) (*entity.Notification, error) {
	iter := q.Limit(1).Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err != nil {
		if err == iterator.Done {
			return nil, errors.NotFound("Notification", nil)
		}
		return nil, errors.Internal("Failed to query notifications", err)
	}

	var n entity.Notification
	if err := doc.DataTo(&n); err != nil {
		return nil, errors.Internal("Failed to parse notification data", err)
	}
	return &n, nil
}

func (r *firestoreNotificationRepository) FindByJoinRequest(ctx context.Context, userID, joinRequestID string) (*entity.Notification, error) {
	q := r.notifications().
		Where("userId", "==", userID).
		Where("data."+entity.DataJoinRequestID, "==", joinRequestID)
	return r.first(ctx, q)
}

func (r *firestoreNotificationRepository) FindMatch(ctx context.Context, alertID, matchedUserID string) (*entity.Notification, error) {
	q := r.notifications().
		Where("type", "==", entity.NotificationMatchAlert).
		Where("data."+entity.DataAlertID, "==", alertID).
		Where("data."+entity.DataMatchedUserID, "==", matchedUserID)
	return r.first(ctx, q)
}

func (r *firestoreNotificationRepository) MarkRead(ctx context.Context, id string) error {
	_, err := r.notifications().Doc(id).Update(ctx, []firestore.Update{
		{Path: "isRead", Value: true},
	})
	if err != nil {
		return writeError(err, "Notification", "mark read")
	}
	return nil
}

func (r *firestoreNotificationRepository) MarkAllRead(ctx context.Context, userID string) (int, error) {
	docs, err := r.notifications().
		Where("userId", "==", userID).
		Where("isRead", "==", false).
		Select().
		Documents(ctx).GetAll()
	if err != nil {
		return 0, errors.Internal("Failed to query unread notifications", err)
	}

	for start := 0; start < len(docs); start += maxWritesPerTransaction {
		end := start + maxWritesPerTransaction
		if end > len(docs) {
			end = len(docs)
		}
		chunk := docs[start:end]

		err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
			for _, doc := range chunk {
				if err := tx.Update(doc.Ref, []firestore.Update{{Path: "isRead", Value: true}}); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return start, errors.Internal("Failed to mark notifications read", err)
		}
	}
	return len(docs), nil
}

func (r *firestoreNotificationRepository) WatchByUser(ctx context.Context, userID string, fn func([]*entity.Notification)) error {
	return watchQuery(ctx, r.notifications().Where("userId", "==", userID), "notifications", fn)
}
