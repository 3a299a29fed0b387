package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"growwithme/internal/domain/entity"
	"growwithme/internal/domain/repository"
	"growwithme/internal/infrastructure/metrics"
	"growwithme/internal/infrastructure/ratelimit"
	"growwithme/pkg/errors"
	"growwithme/pkg/textfilter"
)

type JoinRequestUseCase struct {
	joinRequestRepo repository.JoinRequestRepository
	ideaRepo        repository.IdeaRepository
	userRepo        repository.UserRepository
	notifications   *NotificationUseCase
	rateLimiter     RateLimiter
}

func NewJoinRequestUseCase(
	joinRequestRepo repository.JoinRequestRepository,
	ideaRepo repository.IdeaRepository,
	userRepo repository.UserRepository,
	notifications *NotificationUseCase,
	rateLimiter RateLimiter,
) *JoinRequestUseCase {
	return &JoinRequestUseCase{
		joinRequestRepo: joinRequestRepo,
		ideaRepo:        ideaRepo,
		userRepo:        userRepo,
		notifications:   notifications,
		rateLimiter:     rateLimiter,
	}
}

func (uc *JoinRequestUseCase) Request(ctx context.Context, ideaID, developerID, message string) (*entity.JoinRequest, error) {
	idea, err := uc.ideaRepo.GetByID(ctx, ideaID)
	if err != nil {
		return nil, err
	}
	developer, err := uc.userRepo.GetByID(ctx, developerID)
	if err != nil {
		return nil, err
	}
	if !idea.VisibleTo(developer) {
		return nil, errors.NotFound("Idea", nil)
	}
	if idea.FounderID == developerID {
		return nil, errors.BadRequest("Founders cannot request to join their own idea", nil)
	}
	if idea.HasMember(developerID) {
		return nil, errors.Conflict("already a member of this team")
	}

	existing, err := uc.joinRequestRepo.ListByIdeaAndDeveloper(ctx, ideaID, developerID)
	if err != nil {
		return nil, err
	}
	for _, r := range existing {
		if r.Status == entity.RequestPending {
			return nil, errors.Conflict("join request already pending")
		}
	}

	if uc.rateLimiter != nil {
		if ok, _ := uc.rateLimiter.Allow(developerID, ratelimit.ActionJoinRequest); !ok {
			metrics.RateLimited.WithLabelValues(ratelimit.ActionJoinRequest).Inc()
			return nil, errors.TooManyRequests("Too many join requests, please wait")
		}
	}

	now := time.Now()
	req := &entity.JoinRequest{
		ID:              uuid.New().String(),
		IdeaID:          idea.ID,
		IdeaTitle:       idea.Title,
		DeveloperID:     developer.ID,
		DeveloperName:   developer.Name(),
		DeveloperAvatar: developer.AvatarURL,
		FounderID:       idea.FounderID,
		FounderName:     idea.FounderName,
		Message:         textfilter.Clean(message),
		Status:          entity.RequestPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.joinRequestRepo.Create(ctx, req); err != nil {
		return nil, err
	}

	uc.notifications.notify(ctx, NotificationInput{
		UserID:  req.FounderID,
		Type:    entity.NotificationJoinRequest,
		Title:   "New join request",
		Message: fmt.Sprintf("%s wants to join \"%s\"", req.DeveloperName, req.IdeaTitle),
		Data: map[string]interface{}{
			entity.DataJoinRequestID: req.ID,
			entity.DataIdeaID:        req.IdeaID,
			entity.DataSenderID:      req.DeveloperID,
		},
	})
	return req, nil
}

func (uc *JoinRequestUseCase) pendingForFounder(ctx context.Context, id, founderID string) (*entity.JoinRequest, error) {
	req, err := uc.joinRequestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.FounderID != founderID {
		return nil, errors.Forbidden("Only the founder can respond to this request", nil)
	}
	if req.Status != entity.RequestPending {
		return nil, errors.Conflict("join request is no longer pending")
	}
	return req, nil
}

func (uc *JoinRequestUseCase) Approve(ctx context.Context, id, founderID string) (*entity.JoinRequest, error) {
	req, err := uc.pendingForFounder(ctx, id, founderID)
	if err != nil {
		return nil, err
	}
	if err := uc.joinRequestRepo.Approve(ctx, req); err != nil {
		return nil, err
	}
	req.Status = entity.RequestApproved

	if err := uc.notifications.RespondToJoinRequest(ctx, req, true); err != nil {
		return nil, err
	}
	return req, nil
}

func (uc *JoinRequestUseCase) Reject(ctx context.Context, id, founderID string) (*entity.JoinRequest, error) {
	req, err := uc.pendingForFounder(ctx, id, founderID)
	if err != nil {
		return nil, err
	}
	if err := uc.joinRequestRepo.Reject(ctx, req.ID); err != nil {
		return nil, err
	}
	req.Status = entity.RequestRejected

	if err := uc.notifications.RespondToJoinRequest(ctx, req, false); err != nil {
		return nil, err
	}
	return req, nil
}

func (uc *JoinRequestUseCase) RemoveMember(ctx context.Context, ideaID, founderID, memberID string) error {
	idea, err := uc.ideaRepo.GetByID(ctx, ideaID)
	if err != nil {
		return err
	}
	if idea.FounderID != founderID {
		return errors.Forbidden("Only the founder can remove team members", nil)
	}
	if memberID == founderID {
		return errors.BadRequest("The founder cannot be removed from the team", nil)
	}
	if !idea.HasMember(memberID) {
		return errors.NotFound("Team member", nil)
	}
	return uc.joinRequestRepo.RemoveMember(ctx, ideaID, memberID)
}

func newestRequestsFirst(list []*entity.JoinRequest) []*entity.JoinRequest {
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list
}

func (uc *JoinRequestUseCase) ListIncoming(ctx context.Context, founderID string) ([]*entity.JoinRequest, error) {
	list, err := uc.joinRequestRepo.ListByFounder(ctx, founderID)
	if err != nil {
		return nil, err
	}
	return newestRequestsFirst(list), nil
}

func (uc *JoinRequestUseCase) ListMine(ctx context.Context, developerID string) ([]*entity.JoinRequest, error) {
	list, err := uc.joinRequestRepo.ListByDeveloper(ctx, developerID)
	if err != nil {
		return nil, err
	}
	return newestRequestsFirst(list), nil
}
