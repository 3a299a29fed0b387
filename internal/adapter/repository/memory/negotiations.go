package memory

import (
	"context"

	"growwithme/internal/domain/entity"
	"growwithme/internal/domain/repository"
	"growwithme/pkg/errors"
)

type negotiationRepository struct {
	s *Store
}

func (s *Store) Negotiations() repository.NegotiationRepository {
	return &negotiationRepository{s: s}
}

func (r *negotiationRepository) Create(ctx context.Context, n *entity.Negotiation) error {
	r.s.mu.Lock()
	if _, ok := r.s.negotiations[n.ID]; ok {
		r.s.mu.Unlock()
		return errors.Conflict("negotiation already exists")
	}
	r.s.negotiations[n.ID] = cloneNegotiation(n)
	r.s.mu.Unlock()

	r.s.changed()
	return nil
}

func (r *negotiationRepository) GetByID(ctx context.Context, id string) (*entity.Negotiation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n, ok := r.s.negotiations[id]
	if !ok {
		return nil, errors.NotFound("Negotiation", nil)
	}
	return cloneNegotiation(n), nil
}

func (r *negotiationRepository) Mutate(ctx context.Context, id string, fn func(*entity.Negotiation) error) (*entity.Negotiation, error) {
	r.s.mu.Lock()
	n, ok := r.s.negotiations[id]
	if !ok {
		r.s.mu.Unlock()
		return nil, errors.NotFound("Negotiation", nil)
	}
	next := cloneNegotiation(n)
	if err := fn(next); err != nil {
		r.s.mu.Unlock()
		return nil, err
	}
	r.s.negotiations[id] = cloneNegotiation(next)
	r.s.mu.Unlock()

	r.s.changed()
	return next, nil
}

func (r *negotiationRepository) filter(match func(*entity.Negotiation) bool) []*entity.Negotiation {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*entity.Negotiation
	for _, n := range r.s.negotiations {
		if match(n) {
			out = append(out, cloneNegotiation(n))
		}
	}
	return sortByID(out, func(n *entity.Negotiation) string { return n.ID })
}

func (r *negotiationRepository) ListByInvestor(ctx context.Context, investorID string) ([]*entity.Negotiation, error) {
	return r.filter(func(n *entity.Negotiation) bool { return n.InvestorID == investorID }), nil
}

func (r *negotiationRepository) ListByFounder(ctx context.Context, founderID string) ([]*entity.Negotiation, error) {
	return r.filter(func(n *entity.Negotiation) bool { return n.FounderID == founderID }), nil
}

func (r *negotiationRepository) ListByIdea(ctx context.Context, ideaID string) ([]*entity.Negotiation, error) {
	return r.filter(func(n *entity.Negotiation) bool { return n.IdeaID == ideaID }), nil
}

func (r *negotiationRepository) ListByStatus(ctx context.Context, status string) ([]*entity.Negotiation, error) {
	return r.filter(func(n *entity.Negotiation) bool { return n.Status == status }), nil
}
