package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"growwithme/internal/domain/entity"
	"growwithme/internal/domain/repository"
	"growwithme/pkg/errors"
	"growwithme/pkg/textfilter"
)

type MatchAlertUseCase struct {
	alertRepo repository.MatchAlertRepository
}

func NewMatchAlertUseCase(alertRepo repository.MatchAlertRepository) *MatchAlertUseCase {
	return &MatchAlertUseCase{
		alertRepo: alertRepo,
	}
}

type MatchAlertInput struct {
	Name     string
	Criteria entity.MatchCriteria
	Active   *bool
}

func hasAnyCriterion(c entity.MatchCriteria) bool {
	return len(c.Roles) > 0 || len(c.Locations) > 0 || len(c.Interests) > 0 ||
		len(c.Skills) > 0 || c.MinExperienceYears > 0 || len(c.InvestorDomains) > 0 ||
		c.MinIdeaCount > 0
}

func validateAlert(input MatchAlertInput) (string, error) {
	name := strings.TrimSpace(textfilter.StripHTML(input.Name))
	if name == "" {
		return "", errors.BadRequest("Alert name is required", nil)
	}
	if !hasAnyCriterion(input.Criteria) {
		return "", errors.BadRequest("Alert needs at least one criterion", nil)
	}
	for _, role := range input.Criteria.Roles {
		if !validRole(strings.ToLower(role)) {
			return "", errors.BadRequest("Unknown role in criteria: "+role, nil)
		}
	}
	if input.Criteria.MinExperienceYears < 0 || input.Criteria.MinIdeaCount < 0 {
		return "", errors.BadRequest("Minimums cannot be negative", nil)
	}
	return name, nil
}

func (uc *MatchAlertUseCase) Create(ctx context.Context, ownerID string, input MatchAlertInput) (*entity.MatchAlert, error) {
	name, err := validateAlert(input)
	if err != nil {
		return nil, err
	}

	active := true
	if input.Active != nil {
		active = *input.Active
	}
	now := time.Now()
	alert := &entity.MatchAlert{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Name:      name,
		Criteria:  input.Criteria,
		Active:    active,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.alertRepo.Create(ctx, alert); err != nil {
		return nil, err
	}
	return alert, nil
}

func (uc *MatchAlertUseCase) List(ctx context.Context, ownerID string) ([]*entity.MatchAlert, error) {
	return uc.alertRepo.ListByOwner(ctx, ownerID)
}

func (uc *MatchAlertUseCase) owned(ctx context.Context, id, ownerID string) (*entity.MatchAlert, error) {
	alert, err := uc.alertRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if alert.OwnerID != ownerID {
		return nil, errors.NotFound("Match alert", nil)
	}
	return alert, nil
}

func (uc *MatchAlertUseCase) Update(ctx context.Context, id, ownerID string, input MatchAlertInput) (*entity.MatchAlert, error) {
	alert, err := uc.owned(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	name, err := validateAlert(input)
	if err != nil {
		return nil, err
	}

	alert.Name = name
	alert.Criteria = input.Criteria
	if input.Active != nil {
		alert.Active = *input.Active
	}
	alert.UpdatedAt = time.Now()
	if err := uc.alertRepo.Update(ctx, alert); err != nil {
		return nil, err
	}
	return alert, nil
}

func (uc *MatchAlertUseCase) SetActive(ctx context.Context, id, ownerID string, active bool) (*entity.MatchAlert, error) {
	alert, err := uc.owned(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	alert.Active = active
	alert.UpdatedAt = time.Now()
	if err := uc.alertRepo.Update(ctx, alert); err != nil {
		return nil, err
	}
	return alert, nil
}

func (uc *MatchAlertUseCase) Delete(ctx context.Context, id, ownerID string) error {
	if _, err := uc.owned(ctx, id, ownerID); err != nil {
		return err
	}
	return uc.alertRepo.Delete(ctx, id)
}
