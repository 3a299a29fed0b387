package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"growwithme/internal/domain/entity"
	"growwithme/internal/domain/repository"
	"growwithme/internal/infrastructure/metrics"
	"growwithme/internal/infrastructure/ratelimit"
	"growwithme/pkg/errors"
	"growwithme/pkg/textfilter"
)

const negotiationLookupTimeout = 5 * time.Second

type NegotiationUseCase struct {
	negotiationRepo repository.NegotiationRepository
	ideaRepo        repository.IdeaRepository
	userRepo        repository.UserRepository
	notifications   *NotificationUseCase
	rateLimiter     RateLimiter
}

func NewNegotiationUseCase(
	negotiationRepo repository.NegotiationRepository,
	ideaRepo repository.IdeaRepository,
	userRepo repository.UserRepository,
	notifications *NotificationUseCase,
	rateLimiter RateLimiter,
) *NegotiationUseCase {
	return &NegotiationUseCase{
		negotiationRepo: negotiationRepo,
		ideaRepo:        ideaRepo,
		userRepo:        userRepo,
		notifications:   notifications,
		rateLimiter:     rateLimiter,
	}
}

type OfferInput struct {
	Amount  float64
	Equity  float64
	Message string
}

func validTerms(amount, equity float64) bool {
	return amount > 0 && equity > 0 && equity <= 100
}

// CreateRequest opens the single negotiation an investor may hold on an idea.
func (uc *NegotiationUseCase) CreateRequest(ctx context.Context, ideaID, investorID string) (*entity.Negotiation, error) {
	idea, err := uc.ideaRepo.GetByID(ctx, ideaID)
	if err != nil {
		return nil, err
	}
	if idea.FounderID == investorID {
		return nil, errors.BadRequest("Founders cannot invest in their own idea", nil)
	}
	investor, err := uc.userRepo.GetByID(ctx, investorID)
	if err != nil {
		return nil, err
	}
	if !idea.VisibleTo(investor) {
		return nil, errors.NotFound("Idea", nil)
	}

	now := time.Now()
	n := &entity.Negotiation{
		ID:           entity.NegotiationID(idea.ID, investor.ID),
		IdeaID:       idea.ID,
		IdeaTitle:    idea.Title,
		InvestorID:   investor.ID,
		InvestorName: investor.Name(),
		FounderID:    idea.FounderID,
		FounderName:  idea.FounderName,
		Status:       entity.NegotiationPending,
		Offers:       []entity.Offer{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.negotiationRepo.Create(ctx, n); err != nil {
		return nil, err
	}
	metrics.NegotiationTransitions.WithLabelValues(n.Status).Inc()

	uc.notifications.notify(ctx, NotificationInput{
		UserID:  n.FounderID,
		Type:    entity.NotificationNegotiationUpdate,
		Title:   "New investment request",
		Message: fmt.Sprintf("%s wants to invest in \"%s\"", n.InvestorName, n.IdeaTitle),
		Data: map[string]interface{}{
			entity.DataNegotiationID: n.ID,
			entity.DataIdeaID:        n.IdeaID,
			entity.DataStatus:        n.Status,
		},
	})
	return n, nil
}

// AppendOffer records an offer from either party and moves the negotiation
// to active. Closed negotiations refuse new offers.
func (uc *NegotiationUseCase) AppendOffer(ctx context.Context, id, actorID string, input OfferInput) (*entity.Negotiation, error) {
	if !validTerms(input.Amount, input.Equity) {
		return nil, errors.BadRequest("Amount must be positive and equity between 0 and 100", nil)
	}
	message := textfilter.Clean(input.Message)
	if err := throttle(uc.rateLimiter, actorID, ratelimit.ActionNegotiation, "Too many offers, please wait"); err != nil {
		return nil, err
	}

	var party string
	n, err := uc.negotiationRepo.Mutate(ctx, id, func(n *entity.Negotiation) error {
		party = n.PartyOf(actorID)
		if party == "" {
			return errors.Forbidden("Not a party to this negotiation", nil)
		}
		if n.IsTerminal() {
			return errors.Conflict("negotiation is closed")
		}

		now := time.Now()
		n.Offers = append(n.Offers, entity.Offer{
			Amount:    input.Amount,
			Equity:    input.Equity,
			Message:   message,
			From:      party,
			CreatedAt: now,
		})
		n.Status = entity.NegotiationActive
		n.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.NegotiationTransitions.WithLabelValues(n.Status).Inc()

	sender := n.FounderName
	if party == entity.PartyInvestor {
		sender = n.InvestorName
	}
	uc.notifications.notify(ctx, NotificationInput{
		UserID:  n.Counterparty(party),
		Type:    entity.NotificationNegotiationUpdate,
		Title:   "New offer on " + n.IdeaTitle,
		Message: fmt.Sprintf("%s offered %.2f for %.2f%% equity", sender, input.Amount, input.Equity),
		Data: map[string]interface{}{
			entity.DataNegotiationID: n.ID,
			entity.DataIdeaID:        n.IdeaID,
			entity.DataStatus:        n.Status,
		},
	})
	return n, nil
}

type StatusInput struct {
	Status          string
	FinalInvestment *float64
	FinalEquity     *float64
}

// SetStatus closes a negotiation. Accepting requires the final terms.
// Both parties are notified either way.
func (uc *NegotiationUseCase) SetStatus(ctx context.Context, id, actorID string, input StatusInput) (*entity.Negotiation, error) {
	switch input.Status {
	case entity.NegotiationAccepted:
		if input.FinalInvestment == nil || input.FinalEquity == nil {
			return nil, errors.BadRequest("Final investment and equity are required to accept", nil)
		}
		if !validTerms(*input.FinalInvestment, *input.FinalEquity) {
			return nil, errors.BadRequest("Final investment must be positive and equity between 0 and 100", nil)
		}
	case entity.NegotiationRejected:
	default:
		return nil, errors.BadRequest("Status must be accepted or rejected", nil)
	}

	n, err := uc.negotiationRepo.Mutate(ctx, id, func(n *entity.Negotiation) error {
		if n.PartyOf(actorID) == "" {
			return errors.Forbidden("Not a party to this negotiation", nil)
		}
		if n.IsTerminal() {
			return errors.Conflict("negotiation is closed")
		}

		n.Status = input.Status
		if input.Status == entity.NegotiationAccepted {
			investment, equity := *input.FinalInvestment, *input.FinalEquity
			n.FinalInvestment = &investment
			n.FinalEquity = &equity
		}
		n.UpdatedAt = time.Now()
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.NegotiationTransitions.WithLabelValues(n.Status).Inc()

	title := "Negotiation rejected"
	message := fmt.Sprintf("The negotiation on \"%s\" was rejected", n.IdeaTitle)
	if n.Status == entity.NegotiationAccepted {
		title = "Negotiation accepted"
		message = fmt.Sprintf("The negotiation on \"%s\" was accepted: %.2f for %.2f%% equity",
			n.IdeaTitle, *n.FinalInvestment, *n.FinalEquity)
	}
	for _, userID := range []string{n.FounderID, n.InvestorID} {
		uc.notifications.notify(ctx, NotificationInput{
			UserID:  userID,
			Type:    entity.NotificationNegotiationUpdate,
			Title:   title,
			Message: message,
			Data: map[string]interface{}{
				entity.DataNegotiationID: n.ID,
				entity.DataIdeaID:        n.IdeaID,
				entity.DataStatus:        n.Status,
			},
		})
	}
	return n, nil
}

func lookupError(ctx context.Context, err error) error {
	if ctx.Err() == context.DeadlineExceeded {
		return errors.Timeout("Negotiation lookup", err)
	}
	return err
}

func (uc *NegotiationUseCase) Get(ctx context.Context, id, userID string) (*entity.Negotiation, error) {
	ctx, cancel := context.WithTimeout(ctx, negotiationLookupTimeout)
	defer cancel()

	n, err := uc.negotiationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(ctx, err)
	}
	if n.PartyOf(userID) == "" {
		return nil, errors.Forbidden("Not a party to this negotiation", nil)
	}
	return n, nil
}

// ListMine returns every negotiation the user takes part in, most recently
// updated first.
func (uc *NegotiationUseCase) ListMine(ctx context.Context, userID string) ([]*entity.Negotiation, error) {
	ctx, cancel := context.WithTimeout(ctx, negotiationLookupTimeout)
	defer cancel()

	asInvestor, err := uc.negotiationRepo.ListByInvestor(ctx, userID)
	if err != nil {
		return nil, lookupError(ctx, err)
	}
	asFounder, err := uc.negotiationRepo.ListByFounder(ctx, userID)
	if err != nil {
		return nil, lookupError(ctx, err)
	}

	seen := make(map[string]struct{}, len(asInvestor)+len(asFounder))
	out := make([]*entity.Negotiation, 0, len(asInvestor)+len(asFounder))
	for _, n := range append(asInvestor, asFounder...) {
		if _, dup := seen[n.ID]; dup {
			continue
		}
		seen[n.ID] = struct{}{}
		out = append(out, n)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

// ListForIdea is the founder's view of all negotiations on one idea.
func (uc *NegotiationUseCase) ListForIdea(ctx context.Context, ideaID, userID string) ([]*entity.Negotiation, error) {
	ctx, cancel := context.WithTimeout(ctx, negotiationLookupTimeout)
	defer cancel()

	idea, err := uc.ideaRepo.GetByID(ctx, ideaID)
	if err != nil {
		return nil, lookupError(ctx, err)
	}
	if idea.FounderID != userID {
		return nil, errors.Forbidden("Only the founder can list negotiations for this idea", nil)
	}
	list, err := uc.negotiationRepo.ListByIdea(ctx, ideaID)
	if err != nil {
		return nil, lookupError(ctx, err)
	}
	return list, nil
}

func (uc *NegotiationUseCase) accepted(ctx context.Context) ([]*entity.Negotiation, error) {
	return uc.negotiationRepo.ListByStatus(ctx, entity.NegotiationAccepted)
}

// AcceptedCountByIdea counts accepted negotiations per idea.
func (uc *NegotiationUseCase) AcceptedCountByIdea(ctx context.Context) (map[string]int, error) {
	list, err := uc.accepted(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, n := range list {
		counts[n.IdeaID]++
	}
	return counts, nil
}

// TotalInvestedByFounder sums final investments of accepted negotiations
// per founder.
func (uc *NegotiationUseCase) TotalInvestedByFounder(ctx context.Context) (map[string]float64, error) {
	list, err := uc.accepted(ctx)
	if err != nil {
		return nil, err
	}
	totals := make(map[string]float64)
	for _, n := range list {
		if n.FinalInvestment != nil {
			totals[n.FounderID] += *n.FinalInvestment
		}
	}
	return totals, nil
}

func (uc *NegotiationUseCase) AcceptedCountForIdea(ctx context.Context, ideaID string) (int, error) {
	counts, err := uc.AcceptedCountByIdea(ctx)
	if err != nil {
		return 0, err
	}
	return counts[ideaID], nil
}

func (uc *NegotiationUseCase) TotalInvestedForFounder(ctx context.Context, founderID string) (float64, error) {
	totals, err := uc.TotalInvestedByFounder(ctx)
	if err != nil {
		return 0, err
	}
	return totals[founderID], nil
}
