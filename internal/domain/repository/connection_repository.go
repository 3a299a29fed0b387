package repository

import (
	"context"

	"growwithme/internal/domain/entity"
)

type ConnectionRepository interface {
	// CreateRequest writes the pair-keyed request and the sender's pending
	// mirror. It fails with CONFLICT when a pending request already exists.
	CreateRequest(ctx context.Context, req *entity.ConnectionRequest) error
	GetRequest(ctx context.Context, id string) (*entity.ConnectionRequest, error)
	ListIncoming(ctx context.Context, userID string) ([]*entity.ConnectionRequest, error)
	ListOutgoing(ctx context.Context, userID string) ([]*entity.ConnectionRequest, error)

	// Approve, Reject and Withdraw each clear the sender's pending mirror in
	// the same batch. Approve also adds the edge on both endpoints. All three
	// fail with CONFLICT when the stored request is no longer pending.
	Approve(ctx context.Context, req *entity.ConnectionRequest) error
	Reject(ctx context.Context, req *entity.ConnectionRequest) error
	Withdraw(ctx context.Context, req *entity.ConnectionRequest) error

	Disconnect(ctx context.Context, userA, userB string) error
}
