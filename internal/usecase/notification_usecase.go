package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"growwithme/internal/domain/entity"
	"growwithme/internal/domain/repository"
	"growwithme/internal/infrastructure/metrics"
	"growwithme/pkg/errors"
	"growwithme/pkg/logger"
)

type NotificationUseCase struct {
	notificationRepo repository.NotificationRepository
}

func NewNotificationUseCase(notificationRepo repository.NotificationRepository) *NotificationUseCase {
	return &NotificationUseCase{
		notificationRepo: notificationRepo,
	}
}

type NotificationInput struct {
	UserID  string
	Type    string
	Title   string
	Message string
	Data    map[string]interface{}
}

func (uc *NotificationUseCase) Create(ctx context.Context, input NotificationInput) (*entity.Notification, error) {
	if input.UserID == "" || input.Type == "" {
		return nil, errors.BadRequest("Notification requires a recipient and a type", nil)
	}

	n := &entity.Notification{
		ID:        uuid.New().String(),
		UserID:    input.UserID,
		Type:      input.Type,
		Title:     input.Title,
		Message:   input.Message,
		Data:      input.Data,
		IsRead:    false,
		CreatedAt: time.Now(),
	}
	if err := uc.notificationRepo.Create(ctx, n); err != nil {
		return nil, err
	}

	metrics.NotificationsCreated.WithLabelValues(n.Type).Inc()
	return n, nil
}

// notify is Create for side effects of another operation: a failed
// notification is logged and never fails the caller.
func (uc *NotificationUseCase) notify(ctx context.Context, input NotificationInput) {
	if _, err := uc.Create(ctx, input); err != nil {
		logger.Error("Failed to create %s notification for user %s: %v", input.Type, input.UserID, err)
	}
}

func sortNewestFirst(items []*entity.Notification) {
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID > items[j].ID
	})
}

func (uc *NotificationUseCase) List(ctx context.Context, userID string) ([]*entity.Notification, error) {
	items, err := uc.notificationRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(items)
	return items, nil
}

func (uc *NotificationUseCase) UnreadCount(ctx context.Context, userID string) (int, error) {
	items, err := uc.notificationRepo.ListByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, n := range items {
		if !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (uc *NotificationUseCase) owned(ctx context.Context, id, userID string) (*entity.Notification, error) {
	n, err := uc.notificationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.UserID != userID {
		// other users' notifications are indistinguishable from missing ones
		return nil, errors.NotFound("Notification", nil)
	}
	return n, nil
}

func (uc *NotificationUseCase) MarkRead(ctx context.Context, id, userID string) error {
	if _, err := uc.owned(ctx, id, userID); err != nil {
		return err
	}
	return uc.notificationRepo.MarkRead(ctx, id)
}

func (uc *NotificationUseCase) MarkAllRead(ctx context.Context, userID string) (int, error) {
	return uc.notificationRepo.MarkAllRead(ctx, userID)
}

func (uc *NotificationUseCase) Delete(ctx context.Context, id, userID string) error {
	if _, err := uc.owned(ctx, id, userID); err != nil {
		return err
	}
	return uc.notificationRepo.Delete(ctx, id)
}

// RespondToJoinRequest rewrites the notifications tied to a join request
// once the founder decides. The developer's entry becomes a
// join_request_response (created when missing) and the founder's original
// join_request entry is reworded and marked read.
func (uc *NotificationUseCase) RespondToJoinRequest(ctx context.Context, req *entity.JoinRequest, approved bool) error {
	verb := "declined"
	title := "Join request declined"
	if approved {
		verb = "approved"
		title = "Join request approved"
	}
	now := time.Now()

	devMessage := fmt.Sprintf("%s %s your request to join \"%s\"", req.FounderName, verb, req.IdeaTitle)
	existing, err := uc.notificationRepo.FindByJoinRequest(ctx, req.DeveloperID, req.ID)
	switch {
	case errors.IsNotFound(err):
		if _, err := uc.Create(ctx, NotificationInput{
			UserID:  req.DeveloperID,
			Type:    entity.NotificationJoinRequestResponse,
			Title:   title,
			Message: devMessage,
			Data: map[string]interface{}{
				entity.DataJoinRequestID: req.ID,
				entity.DataIdeaID:        req.IdeaID,
				entity.DataStatus:        req.Status,
			},
		}); err != nil {
			return err
		}
	case err != nil:
		return err
	default:
		existing.Type = entity.NotificationJoinRequestResponse
		existing.Title = title
		existing.Message = devMessage
		existing.IsRead = false
		existing.CreatedAt = now
		if existing.Data == nil {
			existing.Data = map[string]interface{}{}
		}
		existing.Data[entity.DataStatus] = req.Status
		if err := uc.notificationRepo.Update(ctx, existing); err != nil {
			return err
		}
	}

	original, err := uc.notificationRepo.FindByJoinRequest(ctx, req.FounderID, req.ID)
	if errors.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}
	original.Title = title
	original.Message = fmt.Sprintf("You %s %s's request to join \"%s\"", verb, req.DeveloperName, req.IdeaTitle)
	original.IsRead = true
	if original.Data == nil {
		original.Data = map[string]interface{}{}
	}
	original.Data[entity.DataStatus] = req.Status
	return uc.notificationRepo.Update(ctx, original)
}

// CreateMatch writes the single notification an alert may produce for one
// matched user. It reports false when that notification already exists.
func (uc *NotificationUseCase) CreateMatch(ctx context.Context, alert *entity.MatchAlert, matched *entity.User) (bool, error) {
	_, err := uc.notificationRepo.FindMatch(ctx, alert.ID, matched.ID)
	if err == nil {
		return false, nil
	}
	if !errors.IsNotFound(err) {
		return false, err
	}

	n := &entity.Notification{
		ID:      entity.MatchNotificationID(alert.ID, matched.ID),
		UserID:  alert.OwnerID,
		Type:    entity.NotificationMatchAlert,
		Title:   "New match for " + alert.Name,
		Message: fmt.Sprintf("%s matches your alert \"%s\"", matched.Name(), alert.Name),
		Data: map[string]interface{}{
			entity.DataAlertID:       alert.ID,
			entity.DataMatchedUserID: matched.ID,
		},
		CreatedAt: time.Now(),
	}
	created, err := uc.notificationRepo.CreateIfAbsent(ctx, n)
	if err != nil {
		return false, err
	}
	if created {
		metrics.NotificationsCreated.WithLabelValues(n.Type).Inc()
	}
	return created, nil
}

// Subscription streams a user's notifications. Every update carries the
// complete set, newest first. Only the latest undelivered set is kept, so a
// slow reader skips intermediate states rather than blocking the listener.
type Subscription struct {
	updates chan []*entity.Notification
	cancel  context.CancelFunc
	done    chan struct{}

	mu  sync.Mutex
	err error
}

func (s *Subscription) Updates() <-chan []*entity.Notification {
	return s.updates
}

// Cancel stops the listener and waits for the stream to close.
func (s *Subscription) Cancel() {
	s.cancel()
	<-s.done
}

// Err reports why the stream closed. It is nil after Cancel or while open.
func (s *Subscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Subscription) publish(items []*entity.Notification) {
	select {
	case s.updates <- items:
	default:
		select {
		case <-s.updates:
		default:
		}
		s.updates <- items
	}
}

func (uc *NotificationUseCase) Subscribe(ctx context.Context, userID string) (*Subscription, error) {
	if userID == "" {
		return nil, errors.BadRequest("User id is required", nil)
	}

	ctx, cancel := context.WithCancel(ctx)
	sub := &Subscription{
		updates: make(chan []*entity.Notification, 1),
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	metrics.ActiveSubscriptions.Inc()
	go func() {
		defer metrics.ActiveSubscriptions.Dec()
		defer close(sub.done)
		defer close(sub.updates)

		err := uc.notificationRepo.WatchByUser(ctx, userID, func(items []*entity.Notification) {
			sortNewestFirst(items)
			sub.publish(items)
		})
		if err != nil {
			logger.Error("Notification subscription for user %s closed: %v", userID, err)
			sub.mu.Lock()
			sub.err = err
			sub.mu.Unlock()
		}
	}()

	return sub, nil
}
