package repository

import (
	"context"

	"growwithme/internal/domain/entity"
)

type JoinRequestRepository interface {
	// Create fails with CONFLICT while another request for the same idea and
	// developer is pending.
	Create(ctx context.Context, req *entity.JoinRequest) error
	GetByID(ctx context.Context, id string) (*entity.JoinRequest, error)
	ListByFounder(ctx context.Context, founderID string) ([]*entity.JoinRequest, error)
	ListByDeveloper(ctx context.Context, developerID string) ([]*entity.JoinRequest, error)
	ListByIdeaAndDeveloper(ctx context.Context, ideaID, developerID string) ([]*entity.JoinRequest, error)

	// Approve marks the request approved and adds the developer to the
	// idea's team atomically. Approve and Reject fail with CONFLICT when the
	// stored request is no longer pending.
	Approve(ctx context.Context, req *entity.JoinRequest) error
	Reject(ctx context.Context, id string) error
	// RemoveMember drops developerID from the team and flips every approved
	// request for the pair to rejected in one batch.
	RemoveMember(ctx context.Context, ideaID, developerID string) error
}
