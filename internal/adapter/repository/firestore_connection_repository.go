package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"growwithme/internal/domain/entity"
	"growwithme/internal/domain/repository"
	"growwithme/pkg/errors"
)

type firestoreConnectionRepository struct {
	client *firestore.Client
}

func NewFirestoreConnectionRepository(client *firestore.Client) repository.ConnectionRepository {
	return &firestoreConnectionRepository{
		client: client,
	}
}

func (r *firestoreConnectionRepository) requests() *firestore.CollectionRef {
	return r.client.Collection(connectionRequestsCollection)
}

func (r *firestoreConnectionRepository) user(id string) *firestore.DocumentRef {
	return r.client.Collection(usersCollection).Doc(id)
}

func (r *firestoreConnectionRepository) CreateRequest(ctx context.Context, req *entity.ConnectionRequest) error {
	reqRef := r.requests().Doc(req.ID)
	senderRef := r.user(req.SenderID)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		existing, err := tx.Get(reqRef)
		if err != nil && !isNotFound(err) {
			return err
		}
		if existing != nil && existing.Exists() {
			var current entity.ConnectionRequest
			if err := existing.DataTo(&current); err != nil {
				return err
			}
			if current.Status == entity.RequestPending {
				return errors.Conflict("connection request already pending")
			}
		}

		senderDoc, err := tx.Get(senderRef)
		if err != nil {
			return err
		}
		var sender entity.User
		if err := senderDoc.DataTo(&sender); err != nil {
			return err
		}
		if sender.IsConnectedTo(req.ReceiverID) {
			return errors.Conflict("users are already connected")
		}

		if err := tx.Set(reqRef, req); err != nil {
			return err
		}
		return tx.Update(senderRef, []firestore.Update{
			{Path: "pendingConnections", Value: firestore.ArrayUnion(req.ReceiverID)},
		})
	})
	if err != nil {
		return writeError(err, "User", "create connection request for")
	}
	return nil
}

func (r *firestoreConnectionRepository) GetRequest(ctx context.Context, id string) (*entity.ConnectionRequest, error) {
	doc, err := r.requests().Doc(id).Get(ctx)
	if err != nil {
		return nil, getError(err, "Connection request")
	}

	var req entity.ConnectionRequest
	if err := doc.DataTo(&req); err != nil {
		return nil, errors.Internal("Failed to parse connection request data", err)
	}
	return &req, nil
}

func (r *firestoreConnectionRepository) ListIncoming(ctx context.Context, userID string) ([]*entity.ConnectionRequest, error) {
	q := r.requests().Where("receiverId", "==", userID).Where("status", "==", entity.RequestPending)
	return queryAll[entity.ConnectionRequest](ctx, q, "connection requests")
}

func (r *firestoreConnectionRepository) ListOutgoing(ctx context.Context, userID string) ([]*entity.ConnectionRequest, error) {
	q := r.requests().Where("senderId", "==", userID).Where("status", "==", entity.RequestPending)
	return queryAll[entity.ConnectionRequest](ctx, q, "connection requests")
}

func (r *firestoreConnectionRepository) Approve(ctx context.Context, req *entity.ConnectionRequest) error {
	now := time.Now()
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if err := requirePending(tx, r.requests().Doc(req.ID), "connection request"); err != nil {
			return err
		}
		if err := tx.Update(r.requests().Doc(req.ID), []firestore.Update{
			{Path: "status", Value: entity.RequestApproved},
			{Path: "updatedAt", Value: now},
		}); err != nil {
			return err
		}
		if err := tx.Update(r.user(req.SenderID), []firestore.Update{
			{Path: "connections", Value: firestore.ArrayUnion(req.ReceiverID)},
			{Path: "pendingConnections", Value: firestore.ArrayRemove(req.ReceiverID)},
			{Path: "updatedAt", Value: now},
		}); err != nil {
			return err
		}
		return tx.Update(r.user(req.ReceiverID), []firestore.Update{
			{Path: "connections", Value: firestore.ArrayUnion(req.SenderID)},
			{Path: "updatedAt", Value: now},
		})
	})
	if err != nil {
		return writeError(err, "Connection request", "approve")
	}
	return nil
}

func (r *firestoreConnectionRepository) Reject(ctx context.Context, req *entity.ConnectionRequest) error {
	now := time.Now()
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if err := requirePending(tx, r.requests().Doc(req.ID), "connection request"); err != nil {
			return err
		}
		if err := tx.Update(r.requests().Doc(req.ID), []firestore.Update{
			{Path: "status", Value: entity.RequestRejected},
			{Path: "updatedAt", Value: now},
		}); err != nil {
			return err
		}
		return tx.Update(r.user(req.SenderID), []firestore.Update{
			{Path: "pendingConnections", Value: firestore.ArrayRemove(req.ReceiverID)},
		})
	})
	if err != nil {
		return writeError(err, "Connection request", "reject")
	}
	return nil
}

func (r *firestoreConnectionRepository) Withdraw(ctx context.Context, req *entity.ConnectionRequest) error {
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if err := requirePending(tx, r.requests().Doc(req.ID), "connection request"); err != nil {
			return err
		}
		if err := tx.Delete(r.requests().Doc(req.ID)); err != nil {
			return err
		}
		return tx.Update(r.user(req.SenderID), []firestore.Update{
			{Path: "pendingConnections", Value: firestore.ArrayRemove(req.ReceiverID)},
		})
	})
	if err != nil {
		return writeError(err, "Connection request", "withdraw")
	}
	return nil
}

func (r *firestoreConnectionRepository) Disconnect(ctx context.Context, userA, userB string) error {
	now := time.Now()
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if err := tx.Update(r.user(userA), []firestore.Update{
			{Path: "connections", Value: firestore.ArrayRemove(userB)},
			{Path: "updatedAt", Value: now},
		}); err != nil {
			return err
		}
		return tx.Update(r.user(userB), []firestore.Update{
			{Path: "connections", Value: firestore.ArrayRemove(userA)},
			{Path: "updatedAt", Value: now},
		})
	})
	if err != nil {
		return writeError(err, "User", "disconnect")
	}
	return nil
}
