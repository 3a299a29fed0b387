package usecase

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"growwithme/internal/domain/entity"
	"growwithme/internal/domain/repository"
	"growwithme/internal/infrastructure/metrics"
	"growwithme/pkg/logger"
)

var firstNumber = regexp.MustCompile(`\d+`)

// ExperienceYears reads the first number in free text such as "5+ years".
// Text without a number counts as zero.
func ExperienceYears(text string) int {
	m := firstNumber.FindString(text)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return n
}

func overlaps(want, have []string) bool {
	set := make(map[string]struct{}, len(have))
	for _, h := range have {
		set[strings.ToLower(strings.TrimSpace(h))] = struct{}{}
	}
	for _, w := range want {
		if _, ok := set[strings.ToLower(strings.TrimSpace(w))]; ok {
			return true
		}
	}
	return false
}

func locationMatches(locations []string, location string) bool {
	location = strings.ToLower(location)
	for _, l := range locations {
		l = strings.ToLower(strings.TrimSpace(l))
		if l != "" && strings.Contains(location, l) {
			return true
		}
	}
	return false
}

// MatchesAlert applies every criterion set on the alert. ideaCount is only
// consulted when the alert sets a minimum idea count. An alert never matches
// its owner.
func MatchesAlert(alert *entity.MatchAlert, user *entity.User, ideaCount func() (int, error)) (bool, error) {
	if user.ID == alert.OwnerID {
		return false, nil
	}
	c := alert.Criteria

	if len(c.Roles) > 0 && !overlaps(c.Roles, []string{user.Role}) {
		return false, nil
	}
	if len(c.Locations) > 0 && !locationMatches(c.Locations, user.Location) {
		return false, nil
	}
	if len(c.Interests) > 0 && !overlaps(c.Interests, user.Interests) {
		return false, nil
	}
	if len(c.Skills) > 0 && !overlaps(c.Skills, user.Skills) {
		return false, nil
	}
	if c.MinExperienceYears > 0 && ExperienceYears(user.Experience) < c.MinExperienceYears {
		return false, nil
	}
	if len(c.InvestorDomains) > 0 && user.Role == entity.RoleInvestor &&
		!overlaps(c.InvestorDomains, user.InvestorDomains) {
		return false, nil
	}
	if c.MinIdeaCount > 0 {
		n, err := ideaCount()
		if err != nil {
			return false, err
		}
		if n < c.MinIdeaCount {
			return false, nil
		}
	}
	return true, nil
}

// MatchWatcher turns active match alerts into notifications for the users
// they match.
type MatchWatcher struct {
	userRepo      repository.UserRepository
	alertRepo     repository.MatchAlertRepository
	ideaRepo      repository.IdeaRepository
	notifications *NotificationUseCase

	mu         sync.Mutex
	users      []*entity.User
	alerts     []*entity.MatchAlert
	haveUsers  bool
	haveAlerts bool
}

func NewMatchWatcher(
	userRepo repository.UserRepository,
	alertRepo repository.MatchAlertRepository,
	ideaRepo repository.IdeaRepository,
	notifications *NotificationUseCase,
) *MatchWatcher {
	return &MatchWatcher{
		userRepo:      userRepo,
		alertRepo:     alertRepo,
		ideaRepo:      ideaRepo,
		notifications: notifications,
	}
}

// EvaluateAll runs one pass over every active alert and every user and
// returns how many new match notifications were written.
func (w *MatchWatcher) EvaluateAll(ctx context.Context) (int, error) {
	alerts, err := w.alertRepo.ListActive(ctx)
	if err != nil {
		return 0, err
	}
	users, err := w.userRepo.List(ctx)
	if err != nil {
		return 0, err
	}
	return w.evaluate(ctx, alerts, users)
}

func (w *MatchWatcher) evaluate(ctx context.Context, alerts []*entity.MatchAlert, users []*entity.User) (int, error) {
	counts := make(map[string]int)
	countFor := func(userID string) func() (int, error) {
		return func() (int, error) {
			if n, ok := counts[userID]; ok {
				return n, nil
			}
			n, err := w.ideaRepo.CountByFounder(ctx, userID)
			if err != nil {
				return 0, err
			}
			counts[userID] = n
			return n, nil
		}
	}

	created := 0
	for _, alert := range alerts {
		if !alert.Active {
			continue
		}
		for _, user := range users {
			if err := ctx.Err(); err != nil {
				return created, err
			}
			metrics.MatchEvaluations.Inc()

			ok, err := MatchesAlert(alert, user, countFor(user.ID))
			if err != nil {
				logger.Error("Match evaluation of alert %s against user %s failed: %v", alert.ID, user.ID, err)
				continue
			}
			if !ok {
				continue
			}

			isNew, err := w.notifications.CreateMatch(ctx, alert, user)
			if err != nil {
				logger.Error("Failed to record match of alert %s for user %s: %v", alert.ID, user.ID, err)
				continue
			}
			if isNew {
				created++
				metrics.MatchesEmitted.Inc()
			}
		}
	}
	return created, nil
}

// Run keeps live listeners on users and active alerts and re-evaluates on
// every change. It returns nil when ctx ends, or the first listener error.
func (w *MatchWatcher) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	changed := make(chan struct{}, 1)
	signal := func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	}

	g.Go(func() error {
		return w.userRepo.Watch(ctx, func(users []*entity.User) {
			w.mu.Lock()
			w.users, w.haveUsers = users, true
			w.mu.Unlock()
			signal()
		})
	})
	g.Go(func() error {
		return w.alertRepo.WatchActive(ctx, func(alerts []*entity.MatchAlert) {
			w.mu.Lock()
			w.alerts, w.haveAlerts = alerts, true
			w.mu.Unlock()
			signal()
		})
	})
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-changed:
			}

			w.mu.Lock()
			users, alerts, ready := w.users, w.alerts, w.haveUsers && w.haveAlerts
			w.mu.Unlock()
			if !ready {
				continue
			}

			n, err := w.evaluate(ctx, alerts, users)
			if err != nil && ctx.Err() == nil {
				logger.Error("Match evaluation pass failed: %v", err)
			}
			if n > 0 {
				logger.Info("Match watcher emitted %d notifications", n)
			}
		}
	})

	logger.Info("Match watcher started")
	err := g.Wait()
	logger.Info("Match watcher stopped")
	return err
}
