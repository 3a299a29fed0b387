package handler

import (
	"github.com/labstack/echo/v4"

	"growwithme/internal/usecase"
	"growwithme/pkg/response"
)

type JoinRequestHandler struct {
	joinRequestUseCase *usecase.JoinRequestUseCase
}

func NewJoinRequestHandler(joinRequestUseCase *usecase.JoinRequestUseCase) *JoinRequestHandler {
	return &JoinRequestHandler{
		joinRequestUseCase: joinRequestUseCase,
	}
}

type joinRequestRequest struct {
	Message string `json:"message" validate:"max=1000"`
}

// Request asks to join the idea in the :id path parameter.
func (h *JoinRequestHandler) Request(c echo.Context) error {
	ideaID, err := requireParam(c, "id")
	if err != nil {
		return response.Error(c, err)
	}
	var req joinRequestRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	jr, err := h.joinRequestUseCase.Request(c.Request().Context(), ideaID, uid(c), req.Message)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, jr)
}

func (h *JoinRequestHandler) Approve(c echo.Context) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return response.Error(c, err)
	}

	jr, err := h.joinRequestUseCase.Approve(c.Request().Context(), id, uid(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, jr)
}

func (h *JoinRequestHandler) Reject(c echo.Context) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return response.Error(c, err)
	}

	jr, err := h.joinRequestUseCase.Reject(c.Request().Context(), id, uid(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, jr)
}

func (h *JoinRequestHandler) RemoveMember(c echo.Context) error {
	ideaID, err := requireParam(c, "id")
	if err != nil {
		return response.Error(c, err)
	}
	memberID, err := requireParam(c, "memberId")
	if err != nil {
		return response.Error(c, err)
	}

	if err := h.joinRequestUseCase.RemoveMember(c.Request().Context(), ideaID, uid(c), memberID); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"message": "Member removed"})
}

func (h *JoinRequestHandler) ListIncoming(c echo.Context) error {
	list, err := h.joinRequestUseCase.ListIncoming(c.Request().Context(), uid(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, list)
}

func (h *JoinRequestHandler) ListMine(c echo.Context) error {
	list, err := h.joinRequestUseCase.ListMine(c.Request().Context(), uid(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, list)
}
