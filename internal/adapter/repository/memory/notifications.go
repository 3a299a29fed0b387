package memory

import (
	"context"

	"growwithme/internal/domain/entity"
	"growwithme/internal/domain/repository"
	"growwithme/pkg/errors"
)

type notificationRepository struct {
	s *Store
}

func (s *Store) Notifications() repository.NotificationRepository {
	return &notificationRepository{s: s}
}

func (r *notificationRepository) Create(ctx context.Context, n *entity.Notification) error {
	r.s.mu.Lock()
	r.s.notifications[n.ID] = cloneNotification(n)
	r.s.mu.Unlock()

	r.s.changed()
	return nil
}

func (r *notificationRepository) CreateIfAbsent(ctx context.Context, n *entity.Notification) (bool, error) {
	r.s.mu.Lock()
	if _, ok := r.s.notifications[n.ID]; ok {
		r.s.mu.Unlock()
		return false, nil
	}
	r.s.notifications[n.ID] = cloneNotification(n)
	r.s.mu.Unlock()

	r.s.changed()
	return true, nil
}

func (r *notificationRepository) GetByID(ctx context.Context, id string) (*entity.Notification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n, ok := r.s.notifications[id]
	if !ok {
		return nil, errors.NotFound("Notification", nil)
	}
	return cloneNotification(n), nil
}

func (r *notificationRepository) Update(ctx context.Context, n *entity.Notification) error {
	r.s.mu.Lock()
	if _, ok := r.s.notifications[n.ID]; !ok {
		r.s.mu.Unlock()
		return errors.NotFound("Notification", nil)
	}
	r.s.notifications[n.ID] = cloneNotification(n)
	r.s.mu.Unlock()

	r.s.changed()
	return nil
}

func (r *notificationRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	delete(r.s.notifications, id)
	r.s.mu.Unlock()

	r.s.changed()
	return nil
}

func (s *Store) notificationsWhere(match func(*entity.Notification) bool) []*entity.Notification {
	var out []*entity.Notification
	for _, n := range s.notifications {
		if match(n) {
			out = append(out, cloneNotification(n))
		}
	}
	return sortByID(out, func(n *entity.Notification) string { return n.ID })
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Notification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.notificationsWhere(func(n *entity.Notification) bool { return n.UserID == userID }), nil
}

func (r *notificationRepository) first(match func(*entity.Notification) bool) (*entity.Notification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	found := r.s.notificationsWhere(match)
	if len(found) == 0 {
		return nil, errors.NotFound("Notification", nil)
	}
	return found[0], nil
}

func (r *notificationRepository) FindByJoinRequest(ctx context.Context, userID, joinRequestID string) (*entity.Notification, error) {
	return r.first(func(n *entity.Notification) bool {
		return n.UserID == userID && n.Data[entity.DataJoinRequestID] == joinRequestID
	})
}

func (r *notificationRepository) FindMatch(ctx context.Context, alertID, matchedUserID string) (*entity.Notification, error) {
	return r.first(func(n *entity.Notification) bool {
		return n.Type == entity.NotificationMatchAlert &&
			n.Data[entity.DataAlertID] == alertID &&
			n.Data[entity.DataMatchedUserID] == matchedUserID
	})
}

func (r *notificationRepository) MarkRead(ctx context.Context, id string) error {
	r.s.mu.Lock()
	n, ok := r.s.notifications[id]
	if !ok {
		r.s.mu.Unlock()
		return errors.NotFound("Notification", nil)
	}
	next := cloneNotification(n)
	next.IsRead = true
	r.s.notifications[id] = next
	r.s.mu.Unlock()

	r.s.changed()
	return nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID string) (int, error) {
	r.s.mu.Lock()
	count := 0
	for id, n := range r.s.notifications {
		if n.UserID == userID && !n.IsRead {
			next := cloneNotification(n)
			next.IsRead = true
			r.s.notifications[id] = next
			count++
		}
	}
	r.s.mu.Unlock()

	if count > 0 {
		r.s.changed()
	}
	return count, nil
}

func (r *notificationRepository) WatchByUser(ctx context.Context, userID string, fn func([]*entity.Notification)) error {
	return watch(ctx, r.s, func() []*entity.Notification {
		r.s.mu.RLock()
		defer r.s.mu.RUnlock()
		return r.s.notificationsWhere(func(n *entity.Notification) bool { return n.UserID == userID })
	}, fn)
}
