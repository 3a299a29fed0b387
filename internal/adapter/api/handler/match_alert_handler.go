package handler

import (
	"github.com/labstack/echo/v4"

	"growwithme/internal/domain/entity"
	"growwithme/internal/usecase"
	"growwithme/pkg/response"
)

type MatchAlertHandler struct {
	matchAlertUseCase *usecase.MatchAlertUseCase
}

func NewMatchAlertHandler(matchAlertUseCase *usecase.MatchAlertUseCase) *MatchAlertHandler {
	return &MatchAlertHandler{
		matchAlertUseCase: matchAlertUseCase,
	}
}

type matchAlertRequest struct {
	Name     string               `json:"name" validate:"required,max=100"`
	Criteria entity.MatchCriteria `json:"criteria"`
	Active   *bool                `json:"active"`
}

type activeRequest struct {
	Active *bool `json:"active" validate:"required"`
}

func (r matchAlertRequest) input() usecase.MatchAlertInput {
	return usecase.MatchAlertInput{
		Name:     r.Name,
		Criteria: r.Criteria,
		Active:   r.Active,
	}
}

func (h *MatchAlertHandler) List(c echo.Context) error {
	list, err := h.matchAlertUseCase.List(c.Request().Context(), uid(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, list)
}

func (h *MatchAlertHandler) Create(c echo.Context) error {
	var req matchAlertRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	alert, err := h.matchAlertUseCase.Create(c.Request().Context(), uid(c), req.input())
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, alert)
}

func (h *MatchAlertHandler) Update(c echo.Context) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return response.Error(c, err)
	}
	var req matchAlertRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	alert, err := h.matchAlertUseCase.Update(c.Request().Context(), id, uid(c), req.input())
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, alert)
}

func (h *MatchAlertHandler) SetActive(c echo.Context) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return response.Error(c, err)
	}
	var req activeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	alert, err := h.matchAlertUseCase.SetActive(c.Request().Context(), id, uid(c), *req.Active)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, alert)
}

func (h *MatchAlertHandler) Delete(c echo.Context) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return response.Error(c, err)
	}

	if err := h.matchAlertUseCase.Delete(c.Request().Context(), id, uid(c)); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"message": "Match alert deleted"})
}
