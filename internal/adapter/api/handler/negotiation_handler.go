package handler

import (
	"github.com/labstack/echo/v4"

	"growwithme/internal/usecase"
	"growwithme/pkg/response"
)

type NegotiationHandler struct {
	negotiationUseCase *usecase.NegotiationUseCase
}

func NewNegotiationHandler(negotiationUseCase *usecase.NegotiationUseCase) *NegotiationHandler {
	return &NegotiationHandler{
		negotiationUseCase: negotiationUseCase,
	}
}

type offerRequest struct {
	Amount  float64 `json:"amount" validate:"gt=0"`
	Equity  float64 `json:"equity" validate:"gt=0,lte=100"`
	Message string  `json:"message" validate:"max=1000"`
}

type statusRequest struct {
	Status          string   `json:"status" validate:"required,oneof=accepted rejected"`
	FinalInvestment *float64 `json:"finalInvestment" validate:"omitempty,gt=0"`
	FinalEquity     *float64 `json:"finalEquity" validate:"omitempty,gt=0,lte=100"`
}

// Create opens a negotiation on the idea in the :id path parameter.
func (h *NegotiationHandler) Create(c echo.Context) error {
	ideaID, err := requireParam(c, "id")
	if err != nil {
		return response.Error(c, err)
	}

	n, err := h.negotiationUseCase.CreateRequest(c.Request().Context(), ideaID, uid(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, n)
}

func (h *NegotiationHandler) Get(c echo.Context) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return response.Error(c, err)
	}

	n, err := h.negotiationUseCase.Get(c.Request().Context(), id, uid(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, n)
}

func (h *NegotiationHandler) ListMine(c echo.Context) error {
	list, err := h.negotiationUseCase.ListMine(c.Request().Context(), uid(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, list)
}

func (h *NegotiationHandler) ListForIdea(c echo.Context) error {
	ideaID, err := requireParam(c, "id")
	if err != nil {
		return response.Error(c, err)
	}

	list, err := h.negotiationUseCase.ListForIdea(c.Request().Context(), ideaID, uid(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, list)
}

func (h *NegotiationHandler) AppendOffer(c echo.Context) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return response.Error(c, err)
	}
	var req offerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	n, err := h.negotiationUseCase.AppendOffer(c.Request().Context(), id, uid(c), usecase.OfferInput{
		Amount:  req.Amount,
		Equity:  req.Equity,
		Message: req.Message,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, n)
}

func (h *NegotiationHandler) SetStatus(c echo.Context) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return response.Error(c, err)
	}
	var req statusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	n, err := h.negotiationUseCase.SetStatus(c.Request().Context(), id, uid(c), usecase.StatusInput{
		Status:          req.Status,
		FinalInvestment: req.FinalInvestment,
		FinalEquity:     req.FinalEquity,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, n)
}

// IdeaStats reports how many negotiations on the idea were accepted.
func (h *NegotiationHandler) IdeaStats(c echo.Context) error {
	ideaID, err := requireParam(c, "id")
	if err != nil {
		return response.Error(c, err)
	}

	count, err := h.negotiationUseCase.AcceptedCountForIdea(c.Request().Context(), ideaID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]interface{}{
		"ideaId":        ideaID,
		"acceptedCount": count,
	})
}

// FounderStats reports the total accepted investment across a founder's
// ideas.
func (h *NegotiationHandler) FounderStats(c echo.Context) error {
	founderID, err := requireParam(c, "id")
	if err != nil {
		return response.Error(c, err)
	}

	total, err := h.negotiationUseCase.TotalInvestedForFounder(c.Request().Context(), founderID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]interface{}{
		"founderId":     founderID,
		"totalInvested": total,
	})
}

func (h *NegotiationHandler) Leaderboard(c echo.Context) error {
	ctx := c.Request().Context()

	byIdea, err := h.negotiationUseCase.AcceptedCountByIdea(ctx)
	if err != nil {
		return response.Error(c, err)
	}
	byFounder, err := h.negotiationUseCase.TotalInvestedByFounder(ctx)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]interface{}{
		"acceptedByIdea":    byIdea,
		"investedByFounder": byFounder,
	})
}
