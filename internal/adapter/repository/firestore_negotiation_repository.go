package repository

import (
	"context"

	"cloud.google.com/go/firestore"

	"growwithme/internal/domain/entity"
	"growwithme/internal/domain/repository"
	"growwithme/pkg/errors"
)

type firestoreNegotiationRepository struct {
	client *firestore.Client
}

func NewFirestoreNegotiationRepository(client *firestore.Client) repository.NegotiationRepository {
	return &firestoreNegotiationRepository{
		client: client,
	}
}

func (r *firestoreNegotiationRepository) negotiations() *firestore.CollectionRef {
	return r.client.Collection(negotiationsCollection)
}

func (r *firestoreNegotiationRepository) Create(ctx context.Context, n *entity.Negotiation) error {
	_, err := r.negotiations().Doc(n.ID).Create(ctx, n)
	if err != nil {
		if isAlreadyExists(err) {
			return errors.Conflict("negotiation already exists")
		}
		return errors.Internal("Failed to create negotiation", err)
	}
	return nil
}

func (r *firestoreNegotiationRepository) GetByID(ctx context.Context, id string) (*entity.Negotiation, error) {
	doc, err := r.negotiations().Doc(id).Get(ctx)
	if err != nil {
		return nil, getError(err, "Negotiation")
	}

	var n entity.Negotiation
	if err := doc.DataTo(&n); err != nil {
		return nil, errors.Internal("Failed to parse negotiation data", err)
	}
	return &n, nil
}

func (r *firestoreNegotiationRepository) Mutate(ctx context.Context, id string, fn func(*entity.Negotiation) error) (*entity.Negotiation, error) {
	ref := r.negotiations().Doc(id)
	var result entity.Negotiation

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			return err
		}
		var n entity.Negotiation
		if err := doc.DataTo(&n); err != nil {
			return err
		}
		if err := fn(&n); err != nil {
			return err
		}
		result = n
		return tx.Set(ref, &n)
	})
	if err != nil {
		return nil, writeError(err, "Negotiation", "update")
	}
	return &result, nil
}

func (r *firestoreNegotiationRepository) ListByInvestor(ctx context.Context, investorID string) ([]*entity.Negotiation, error) {
	return queryAll[entity.Negotiation](ctx, r.negotiations().Where("investorId", "==", investorID), "negotiations")
}

func (r *firestoreNegotiationRepository) ListByFounder(ctx context.Context, founderID string) ([]*entity.Negotiation, error) {
	return queryAll[entity.Negotiation](ctx, r.negotiations().Where("founderId", "==", founderID), "negotiations")
}

func (r *firestoreNegotiationRepository) ListByIdea(ctx context.Context, ideaID string) ([]*entity.Negotiation, error) {
	return queryAll[entity.Negotiation](ctx, r.negotiations().Where("ideaId", "==", ideaID), "negotiations")
}

func (r *firestoreNegotiationRepository) ListByStatus(ctx context.Context, status string) ([]*entity.Negotiation, error) {
	return queryAll[entity.Negotiation](ctx, r.negotiations().Where("status", "==", status), "negotiations")
}
