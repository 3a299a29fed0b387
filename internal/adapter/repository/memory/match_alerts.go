package memory

import (
	"context"

	"growwithme/internal/domain/entity"
	"growwithme/internal/domain/repository"
	"growwithme/pkg/errors"
)

type matchAlertRepository struct {
	s *Store
}

func (s *Store) MatchAlerts() repository.MatchAlertRepository {
	return &matchAlertRepository{s: s}
}

func (r *matchAlertRepository) Create(ctx context.Context, alert *entity.MatchAlert) error {
	r.s.mu.Lock()
	r.s.alerts[alert.ID] = cloneAlert(alert)
	r.s.mu.Unlock()

	r.s.changed()
	return nil
}

func (r *matchAlertRepository) GetByID(ctx context.Context, id string) (*entity.MatchAlert, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.alerts[id]
	if !ok {
		return nil, errors.NotFound("Match alert", nil)
	}
	return cloneAlert(a), nil
}

func (r *matchAlertRepository) Update(ctx context.Context, alert *entity.MatchAlert) error {
	return r.Create(ctx, alert)
}

func (r *matchAlertRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	delete(r.s.alerts, id)
	r.s.mu.Unlock()

	r.s.changed()
	return nil
}

func (s *Store) alertsWhere(match func(*entity.MatchAlert) bool) []*entity.MatchAlert {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*entity.MatchAlert
	for _, a := range s.alerts {
		if match(a) {
			out = append(out, cloneAlert(a))
		}
	}
	return sortByID(out, func(a *entity.MatchAlert) string { return a.ID })
}

func (r *matchAlertRepository) ListByOwner(ctx context.Context, ownerID string) ([]*entity.MatchAlert, error) {
	return r.s.alertsWhere(func(a *entity.MatchAlert) bool { return a.OwnerID == ownerID }), nil
}

func (r *matchAlertRepository) ListActive(ctx context.Context) ([]*entity.MatchAlert, error) {
	return r.s.alertsWhere(func(a *entity.MatchAlert) bool { return a.Active }), nil
}

func (r *matchAlertRepository) WatchActive(ctx context.Context, fn func([]*entity.MatchAlert)) error {
	return watch(ctx, r.s, func() []*entity.MatchAlert {
		return r.s.alertsWhere(func(a *entity.MatchAlert) bool { return a.Active })
	}, fn)
}
