package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"growwithme/internal/domain/entity"
)

func TestExperienceYears(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"5+ years", 5},
		{"about 12 years in fintech", 12},
		{"junior", 0},
		{"", 0},
		{"3-5 years", 3},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, ExperienceYears(tt.text))
		})
	}
}

func TestMatchesAlert(t *testing.T) {
	noIdeas := func() (int, error) { return 0, nil }
	twoIdeas := func() (int, error) { return 2, nil }

	dev := &entity.User{
		ID:         "dev",
		Role:       entity.RoleDeveloper,
		Location:   "Berlin, Germany",
		Skills:     []string{"Go", "Postgres"},
		Interests:  []string{"fintech"},
		Experience: "6 years",
	}
	investor := &entity.User{
		ID:              "inv",
		Role:            entity.RoleInvestor,
		InvestorDomains: []string{"climate"},
	}

	tests := []struct {
		name      string
		criteria  entity.MatchCriteria
		user      *entity.User
		ideaCount func() (int, error)
		want      bool
	}{
		{"role match", entity.MatchCriteria{Roles: []string{"developer"}}, dev, noIdeas, true},
		{"role mismatch", entity.MatchCriteria{Roles: []string{"investor"}}, dev, noIdeas, false},
		{"location substring", entity.MatchCriteria{Locations: []string{"berlin"}}, dev, noIdeas, true},
		{"location miss", entity.MatchCriteria{Locations: []string{"Paris"}}, dev, noIdeas, false},
		{"skill case insensitive", entity.MatchCriteria{Skills: []string{"go"}}, dev, noIdeas, true},
		{"interest miss", entity.MatchCriteria{Interests: []string{"gaming"}}, dev, noIdeas, false},
		{"experience enough", entity.MatchCriteria{MinExperienceYears: 5}, dev, noIdeas, true},
		{"experience short", entity.MatchCriteria{MinExperienceYears: 7}, dev, noIdeas, false},
		{"investor domains ignored for developers", entity.MatchCriteria{InvestorDomains: []string{"health"}}, dev, noIdeas, true},
		{"investor domain match", entity.MatchCriteria{InvestorDomains: []string{"Climate"}}, investor, noIdeas, true},
		{"investor domain miss", entity.MatchCriteria{InvestorDomains: []string{"health"}}, investor, noIdeas, false},
		{"idea count met", entity.MatchCriteria{MinIdeaCount: 2}, dev, twoIdeas, true},
		{"idea count short", entity.MatchCriteria{MinIdeaCount: 3}, dev, twoIdeas, false},
		{"all criteria", entity.MatchCriteria{Roles: []string{"developer"}, Skills: []string{"postgres"}, MinExperienceYears: 6}, dev, noIdeas, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alert := &entity.MatchAlert{ID: "a", OwnerID: "owner", Criteria: tt.criteria, Active: true}
			got, err := MatchesAlert(alert, tt.user, tt.ideaCount)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatchesAlert_NeverMatchesOwner(t *testing.T) {
	owner := &entity.User{ID: "owner", Role: entity.RoleFounder}
	alert := &entity.MatchAlert{OwnerID: "owner", Criteria: entity.MatchCriteria{Roles: []string{"founder"}}}

	got, err := MatchesAlert(alert, owner, func() (int, error) { return 0, nil })
	require.NoError(t, err)
	assert.False(t, got)
}

func TestMatchWatcher_EvaluateAllDeduplicates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addUser(t, "owner", entity.RoleInvestor)
	f.addUser(t, "f1", entity.RoleFounder)
	f.addUser(t, "f2", entity.RoleFounder)
	f.addUser(t, "d1", entity.RoleDeveloper)
	f.postIdea(t, "f1", "Solar grid", entity.VisibilityPublic)

	_, err := f.alerts.Create(ctx, "owner", MatchAlertInput{
		Name:     "Founders with ideas",
		Criteria: entity.MatchCriteria{Roles: []string{"founder"}, MinIdeaCount: 1},
	})
	require.NoError(t, err)

	n, err := f.watcher.EvaluateAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = f.watcher.EvaluateAll(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "second pass must not repeat notifications")

	notes := f.notificationsOf(t, "owner")
	require.Len(t, notes, 1)
	assert.Equal(t, "f1", notes[0].Data[entity.DataMatchedUserID])
}

func TestMatchWatcher_SkipsInactiveAlerts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addUser(t, "owner", entity.RoleInvestor)
	f.addUser(t, "d1", entity.RoleDeveloper)

	_, err := f.alerts.Create(ctx, "owner", MatchAlertInput{
		Name:     "Developers",
		Criteria: entity.MatchCriteria{Roles: []string{"developer"}},
		Active:   ptr(false),
	})
	require.NoError(t, err)

	n, err := f.watcher.EvaluateAll(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestMatchWatcher_RunReactsToChanges(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())

	f.addUser(t, "owner", entity.RoleInvestor)
	_, err := f.alerts.Create(ctx, "owner", MatchAlertInput{
		Name:     "Rust developers",
		Criteria: entity.MatchCriteria{Skills: []string{"rust"}},
	})
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- f.watcher.Run(ctx) }()

	f.addUser(t, "d1", entity.RoleDeveloper, func(u *entity.User) {
		u.Skills = []string{"Rust"}
	})

	assert.Eventually(t, func() bool {
		return len(f.notificationsOf(t, "owner")) == 1
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
