package usecase

import (
	"context"
	"time"

	"growwithme/internal/domain/entity"
	"growwithme/internal/domain/repository"
	"growwithme/internal/infrastructure/metrics"
	"growwithme/internal/infrastructure/ratelimit"
	"growwithme/pkg/errors"
)

type ConnectionUseCase struct {
	connectionRepo repository.ConnectionRepository
	userRepo       repository.UserRepository
	notifications  *NotificationUseCase
	rateLimiter    RateLimiter
}

func NewConnectionUseCase(
	connectionRepo repository.ConnectionRepository,
	userRepo repository.UserRepository,
	notifications *NotificationUseCase,
	rateLimiter RateLimiter,
) *ConnectionUseCase {
	return &ConnectionUseCase{
		connectionRepo: connectionRepo,
		userRepo:       userRepo,
		notifications:  notifications,
		rateLimiter:    rateLimiter,
	}
}

func (uc *ConnectionUseCase) SendRequest(ctx context.Context, fromID, toID string) (*entity.ConnectionRequest, error) {
	if fromID == toID {
		return nil, errors.BadRequest("Cannot connect with yourself", nil)
	}
	if uc.rateLimiter != nil {
		if ok, _ := uc.rateLimiter.Allow(fromID, ratelimit.ActionConnectionRequest); !ok {
			metrics.RateLimited.WithLabelValues(ratelimit.ActionConnectionRequest).Inc()
			return nil, errors.TooManyRequests("Too many connection requests, please wait")
		}
	}

	sender, err := uc.userRepo.GetByID(ctx, fromID)
	if err != nil {
		return nil, err
	}
	receiver, err := uc.userRepo.GetByID(ctx, toID)
	if err != nil {
		return nil, err
	}
	if sender.IsConnectedTo(receiver.ID) {
		return nil, errors.Conflict("users are already connected")
	}

	now := time.Now()
	req := &entity.ConnectionRequest{
		ID:           entity.PairID(sender.ID, receiver.ID),
		SenderID:     sender.ID,
		SenderName:   sender.Name(),
		ReceiverID:   receiver.ID,
		ReceiverName: receiver.Name(),
		Status:       entity.RequestPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.connectionRepo.CreateRequest(ctx, req); err != nil {
		return nil, err
	}

	uc.notifications.notify(ctx, NotificationInput{
		UserID:  receiver.ID,
		Type:    entity.NotificationConnectionRequest,
		Title:   "New connection request",
		Message: sender.Name() + " wants to connect with you",
		Data: map[string]interface{}{
			entity.DataConnectionID: req.ID,
			entity.DataSenderID:     sender.ID,
		},
	})
	return req, nil
}

func (uc *ConnectionUseCase) pendingRequest(ctx context.Context, id string) (*entity.ConnectionRequest, error) {
	req, err := uc.connectionRepo.GetRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Status != entity.RequestPending {
		return nil, errors.Conflict("connection request is no longer pending")
	}
	return req, nil
}

// Approve adds the edge on both endpoints at once.
func (uc *ConnectionUseCase) Approve(ctx context.Context, id, actorID string) (*entity.ConnectionRequest, error) {
	req, err := uc.pendingRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.ReceiverID != actorID {
		return nil, errors.Forbidden("Only the receiver can approve this request", nil)
	}
	if err := uc.connectionRepo.Approve(ctx, req); err != nil {
		return nil, err
	}
	req.Status = entity.RequestApproved

	uc.notifications.notify(ctx, NotificationInput{
		UserID:  req.SenderID,
		Type:    entity.NotificationConnectionRequest,
		Title:   "Connection accepted",
		Message: req.ReceiverName + " accepted your connection request",
		Data: map[string]interface{}{
			entity.DataConnectionID: req.ID,
			entity.DataStatus:       req.Status,
		},
	})
	return req, nil
}

func (uc *ConnectionUseCase) Reject(ctx context.Context, id, actorID string) (*entity.ConnectionRequest, error) {
	req, err := uc.pendingRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.ReceiverID != actorID {
		return nil, errors.Forbidden("Only the receiver can reject this request", nil)
	}
	if err := uc.connectionRepo.Reject(ctx, req); err != nil {
		return nil, err
	}
	req.Status = entity.RequestRejected
	return req, nil
}

func (uc *ConnectionUseCase) Withdraw(ctx context.Context, id, actorID string) error {
	req, err := uc.pendingRequest(ctx, id)
	if err != nil {
		return err
	}
	if req.SenderID != actorID {
		return errors.Forbidden("Only the sender can withdraw this request", nil)
	}
	return uc.connectionRepo.Withdraw(ctx, req)
}

func (uc *ConnectionUseCase) Disconnect(ctx context.Context, userID, otherID string) error {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !user.IsConnectedTo(otherID) {
		return errors.NotFound("Connection", nil)
	}
	return uc.connectionRepo.Disconnect(ctx, userID, otherID)
}

func (uc *ConnectionUseCase) ListConnections(ctx context.Context, userID string) ([]*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return uc.userRepo.GetMany(ctx, user.Connections)
}

func (uc *ConnectionUseCase) ListIncoming(ctx context.Context, userID string) ([]*entity.ConnectionRequest, error) {
	return uc.connectionRepo.ListIncoming(ctx, userID)
}

func (uc *ConnectionUseCase) ListOutgoing(ctx context.Context, userID string) ([]*entity.ConnectionRequest, error) {
	return uc.connectionRepo.ListOutgoing(ctx, userID)
}
