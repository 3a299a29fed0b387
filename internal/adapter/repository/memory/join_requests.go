package memory

import (
	"context"
	"time"

	"growwithme/internal/domain/entity"
	"growwithme/internal/domain/repository"
	"growwithme/pkg/errors"
)

type joinRequestRepository struct {
	s *Store
}

func (s *Store) JoinRequests() repository.JoinRequestRepository {
	return &joinRequestRepository{s: s}
}

func (r *joinRequestRepository) Create(ctx context.Context, req *entity.JoinRequest) error {
	r.s.mu.Lock()
	if _, ok := r.s.joinRequests[req.ID]; ok {
		r.s.mu.Unlock()
		return errors.Conflict("join request already exists")
	}
	for _, existing := range r.s.joinRequests {
		if existing.IdeaID == req.IdeaID && existing.DeveloperID == req.DeveloperID &&
			existing.Status == entity.RequestPending {
			r.s.mu.Unlock()
			return errors.Conflict("join request already pending")
		}
	}
	c := *req
	r.s.joinRequests[req.ID] = &c
	r.s.mu.Unlock()

	r.s.changed()
	return nil
}

func (r *joinRequestRepository) GetByID(ctx context.Context, id string) (*entity.JoinRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	req, ok := r.s.joinRequests[id]
	if !ok {
		return nil, errors.NotFound("Join request", nil)
	}
	c := *req
	return &c, nil
}

func (r *joinRequestRepository) filter(match func(*entity.JoinRequest) bool) []*entity.JoinRequest {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*entity.JoinRequest
	for _, req := range r.s.joinRequests {
		if match(req) {
			c := *req
			out = append(out, &c)
		}
	}
	return sortByID(out, func(j *entity.JoinRequest) string { return j.ID })
}

func (r *joinRequestRepository) ListByFounder(ctx context.Context, founderID string) ([]*entity.JoinRequest, error) {
	return r.filter(func(j *entity.JoinRequest) bool { return j.FounderID == founderID }), nil
}

func (r *joinRequestRepository) ListByDeveloper(ctx context.Context, developerID string) ([]*entity.JoinRequest, error) {
	return r.filter(func(j *entity.JoinRequest) bool { return j.DeveloperID == developerID }), nil
}

func (r *joinRequestRepository) ListByIdeaAndDeveloper(ctx context.Context, ideaID, developerID string) ([]*entity.JoinRequest, error) {
	return r.filter(func(j *entity.JoinRequest) bool {
		return j.IdeaID == ideaID && j.DeveloperID == developerID
	}), nil
}

func (r *joinRequestRepository) Approve(ctx context.Context, req *entity.JoinRequest) error {
	r.s.mu.Lock()
	stored, ok := r.s.joinRequests[req.ID]
	if !ok {
		r.s.mu.Unlock()
		return errors.NotFound("Join request", nil)
	}
	if stored.Status != entity.RequestPending {
		r.s.mu.Unlock()
		return errors.Conflict("join request is no longer pending")
	}
	idea, ok := r.s.ideas[req.IdeaID]
	if !ok {
		r.s.mu.Unlock()
		return errors.NotFound("Idea", nil)
	}

	now := time.Now()
	nextReq := *stored
	nextReq.Status = entity.RequestApproved
	nextReq.UpdatedAt = now
	nextIdea := cloneIdea(idea)
	nextIdea.Team = addString(nextIdea.Team, req.DeveloperID)
	nextIdea.UpdatedAt = now

	r.s.joinRequests[req.ID] = &nextReq
	r.s.ideas[req.IdeaID] = nextIdea
	r.s.mu.Unlock()

	r.s.changed()
	return nil
}

func (r *joinRequestRepository) Reject(ctx context.Context, id string) error {
	r.s.mu.Lock()
	stored, ok := r.s.joinRequests[id]
	if !ok {
		r.s.mu.Unlock()
		return errors.NotFound("Join request", nil)
	}
	if stored.Status != entity.RequestPending {
		r.s.mu.Unlock()
		return errors.Conflict("join request is no longer pending")
	}
	next := *stored
	next.Status = entity.RequestRejected
	next.UpdatedAt = time.Now()
	r.s.joinRequests[id] = &next
	r.s.mu.Unlock()

	r.s.changed()
	return nil
}

func (r *joinRequestRepository) RemoveMember(ctx context.Context, ideaID, developerID string) error {
	r.s.mu.Lock()
	idea, ok := r.s.ideas[ideaID]
	if !ok {
		r.s.mu.Unlock()
		return errors.NotFound("Idea", nil)
	}

	now := time.Now()
	nextIdea := cloneIdea(idea)
	nextIdea.Team = removeString(nextIdea.Team, developerID)
	nextIdea.UpdatedAt = now
	r.s.ideas[ideaID] = nextIdea

	for id, req := range r.s.joinRequests {
		if req.IdeaID == ideaID && req.DeveloperID == developerID && req.Status == entity.RequestApproved {
			next := *req
			next.Status = entity.RequestRejected
			next.UpdatedAt = now
			r.s.joinRequests[id] = &next
		}
	}
	r.s.mu.Unlock()

	r.s.changed()
	return nil
}
