package repository

import (
	"context"

	"growwithme/internal/domain/entity"
)

type NegotiationRepository interface {
	// Create is create-if-absent: an existing id yields a CONFLICT AppError.
	Create(ctx context.Context, negotiation *entity.Negotiation) error
	GetByID(ctx context.Context, id string) (*entity.Negotiation, error)
	// Mutate runs fn inside a transaction against the current document and
	// persists the result unless fn returns an error.
	Mutate(ctx context.Context, id string, fn func(*entity.Negotiation) error) (*entity.Negotiation, error)

	ListByInvestor(ctx context.Context, investorID string) ([]*entity.Negotiation, error)
	ListByFounder(ctx context.Context, founderID string) ([]*entity.Negotiation, error)
	ListByIdea(ctx context.Context, ideaID string) ([]*entity.Negotiation, error)
	ListByStatus(ctx context.Context, status string) ([]*entity.Negotiation, error)
}
