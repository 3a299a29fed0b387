package repository

import (
	"context"

	"cloud.google.com/go/firestore"

	"growwithme/internal/domain/entity"
	"growwithme/internal/domain/repository"
	"growwithme/pkg/errors"
)

type firestoreMatchAlertRepository struct {
	client *firestore.Client
}

func NewFirestoreMatchAlertRepository(client *firestore.Client) repository.MatchAlertRepository {
	return &firestoreMatchAlertRepository{
		client: client,
	}
}

func (r *firestoreMatchAlertRepository) alerts() *firestore.CollectionRef {
	return r.client.Collection(matchAlertsCollection)
}

func (r *firestoreMatchAlertRepository) Create(ctx context.Context, alert *entity.MatchAlert) error {
	if _, err := r.alerts().Doc(alert.ID).Set(ctx, alert); err != nil {
		return errors.Internal("Failed to create match alert", err)
	}
	return nil
}

func (r *firestoreMatchAlertRepository) GetByID(ctx context.Context, id string) (*entity.MatchAlert, error) {
	doc, err := r.alerts().Doc(id).Get(ctx)
	if err != nil {
		return nil, getError(err, "Match alert")
	}

	var alert entity.MatchAlert
	if err := doc.DataTo(&alert); err != nil {
		return nil, errors.Internal("Failed to parse match alert data", err)
	}
	return &alert, nil
}

func (r *firestoreMatchAlertRepository) Update(ctx context.Context, alert *entity.MatchAlert) error {
	if _, err := r.alerts().Doc(alert.ID).Set(ctx, alert); err != nil {
		return errors.Internal("Failed to update match alert", err)
	}
	return nil
}

func (r *firestoreMatchAlertRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.alerts().Doc(id).Delete(ctx); err != nil {
		return errors.Internal("Failed to delete match alert", err)
	}
	return nil
}

func (r *firestoreMatchAlertRepository) ListByOwner(ctx context.Context, ownerID string) ([]*entity.MatchAlert, error) {
	return queryAll[entity.MatchAlert](ctx, r.alerts().Where("ownerId", "==", ownerID), "match alerts")
}

func (r *firestoreMatchAlertRepository) ListActive(ctx context.Context) ([]*entity.MatchAlert, error) {
	return queryAll[entity.MatchAlert](ctx, r.alerts().Where("active", "==", true), "match alerts")
}

func (r *firestoreMatchAlertRepository) WatchActive(ctx context.Context, fn func([]*entity.MatchAlert)) error {
	return watchQuery(ctx, r.alerts().Where("active", "==", true), "match alerts", fn)
}
