package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"growwithme/internal/domain/entity"
	"growwithme/internal/domain/repository"
	"growwithme/pkg/errors"
)

type firestoreJoinRequestRepository struct {
	client *firestore.Client
}

func NewFirestoreJoinRequestRepository(client *firestore.Client) repository.JoinRequestRepository {
	return &firestoreJoinRequestRepository{
		client: client,
	}
}

func (r *firestoreJoinRequestRepository) requests() *firestore.CollectionRef {
	return r.client.Collection(joinRequestsCollection)
}

func (r *firestoreJoinRequestRepository) Create(ctx context.Context, req *entity.JoinRequest) error {
	pending := r.requests().
		Where("ideaId", "==", req.IdeaID).
		Where("developerId", "==", req.DeveloperID).
		Where("status", "==", entity.RequestPending).
		Limit(1)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		docs, err := tx.Documents(pending).GetAll()
		if err != nil {
			return err
		}
		if len(docs) > 0 {
			return errors.Conflict("join request already pending")
		}
		return tx.Create(r.requests().Doc(req.ID), req)
	})
	if err != nil {
		if isAlreadyExists(err) {
			return errors.Conflict("join request already exists")
		}
		return writeError(err, "Join request", "create")
	}
	return nil
}

func (r *firestoreJoinRequestRepository) GetByID(ctx context.Context, id string) (*entity.JoinRequest, error) {
	doc, err := r.requests().Doc(id).Get(ctx)
	if err != nil {
		return nil, getError(err, "Join request")
	}

	var req entity.JoinRequest
	if err := doc.DataTo(&req); err != nil {
		return nil, errors.Internal("Failed to parse join request data", err)
	}
	return &req, nil
}

func (r *firestoreJoinRequestRepository) ListByFounder(ctx context.Context, founderID string) ([]*entity.JoinRequest, error) {
	return queryAll[entity.JoinRequest](ctx, r.requests().Where("founderId", "==", founderID), "join requests")
}

func (r *firestoreJoinRequestRepository) ListByDeveloper(ctx context.Context, developerID string) ([]*entity.JoinRequest, error) {
	return queryAll[entity.JoinRequest](ctx, r.requests().Where("developerId", "==", developerID), "join requests")
}

func (r *firestoreJoinRequestRepository) ListByIdeaAndDeveloper(ctx context.Context, ideaID, developerID string) ([]*entity.JoinRequest, error) {
	q := r.requests().Where("ideaId", "==", ideaID).Where("developerId", "==", developerID)
	return queryAll[entity.JoinRequest](ctx, q, "join requests")
}

func (r *firestoreJoinRequestRepository) Approve(ctx context.Context, req *entity.JoinRequest) error {
	reqRef := r.requests().Doc(req.ID)
	ideaRef := r.client.Collection(ideasCollection).Doc(req.IdeaID)
	now := time.Now()

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if err := requirePending(tx, reqRef, "join request"); err != nil {
			return err
		}
		if _, err := tx.Get(ideaRef); err != nil {
			return err
		}
		if err := tx.Update(reqRef, []firestore.Update{
			{Path: "status", Value: entity.RequestApproved},
			{Path: "updatedAt", Value: now},
		}); err != nil {
			return err
		}
		return tx.Update(ideaRef, []firestore.Update{
			{Path: "team", Value: firestore.ArrayUnion(req.DeveloperID)},
			{Path: "updatedAt", Value: now},
		})
	})
	if err != nil {
		return writeError(err, "Join request", "approve")
	}
	return nil
}

func (r *firestoreJoinRequestRepository) Reject(ctx context.Context, id string) error {
	reqRef := r.requests().Doc(id)
	now := time.Now()

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if err := requirePending(tx, reqRef, "join request"); err != nil {
			return err
		}
		return tx.Update(reqRef, []firestore.Update{
			{Path: "status", Value: entity.RequestRejected},
			{Path: "updatedAt", Value: now},
		})
	})
	if err != nil {
		return writeError(err, "Join request", "reject")
	}
	return nil
}

func (r *firestoreJoinRequestRepository) RemoveMember(ctx context.Context, ideaID, developerID string) error {
	ideaRef := r.client.Collection(ideasCollection).Doc(ideaID)
	approved := r.requests().
		Where("ideaId", "==", ideaID).
		Where("developerId", "==", developerID).
		Where("status", "==", entity.RequestApproved)
	now := time.Now()

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(ideaRef); err != nil {
			return err
		}
		docs, err := tx.Documents(approved).GetAll()
		if err != nil {
			return err
		}

		if err := tx.Update(ideaRef, []firestore.Update{
			{Path: "team", Value: firestore.ArrayRemove(developerID)},
			{Path: "updatedAt", Value: now},
		}); err != nil {
			return err
		}
		for _, doc := range docs {
			if err := tx.Update(doc.Ref, []firestore.Update{
				{Path: "status", Value: entity.RequestRejected},
				{Path: "updatedAt", Value: now},
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return writeError(err, "Idea", "remove member from")
	}
	return nil
}
