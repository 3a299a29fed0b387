package handler

import (
	"github.com/labstack/echo/v4"

	"growwithme/internal/domain/entity"
	"growwithme/internal/usecase"
	"growwithme/pkg/response"
)

type ConnectionHandler struct {
	connectionUseCase *usecase.ConnectionUseCase
}

func NewConnectionHandler(connectionUseCase *usecase.ConnectionUseCase) *ConnectionHandler {
	return &ConnectionHandler{
		connectionUseCase: connectionUseCase,
	}
}

type connectionRequestRequest struct {
	ReceiverID string `json:"receiverId" validate:"required"`
}

func (h *ConnectionHandler) SendRequest(c echo.Context) error {
	var req connectionRequestRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	cr, err := h.connectionUseCase.SendRequest(c.Request().Context(), uid(c), req.ReceiverID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, cr)
}

func (h *ConnectionHandler) Approve(c echo.Context) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return response.Error(c, err)
	}

	cr, err := h.connectionUseCase.Approve(c.Request().Context(), id, uid(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, cr)
}

func (h *ConnectionHandler) Reject(c echo.Context) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return response.Error(c, err)
	}

	cr, err := h.connectionUseCase.Reject(c.Request().Context(), id, uid(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, cr)
}

func (h *ConnectionHandler) Withdraw(c echo.Context) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return response.Error(c, err)
	}

	if err := h.connectionUseCase.Withdraw(c.Request().Context(), id, uid(c)); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"message": "Connection request withdrawn"})
}

func (h *ConnectionHandler) Disconnect(c echo.Context) error {
	otherID, err := requireParam(c, "userId")
	if err != nil {
		return response.Error(c, err)
	}

	if err := h.connectionUseCase.Disconnect(c.Request().Context(), uid(c), otherID); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"message": "Disconnected"})
}

func (h *ConnectionHandler) List(c echo.Context) error {
	users, err := h.connectionUseCase.ListConnections(c.Request().Context(), uid(c))
	if err != nil {
		return response.Error(c, err)
	}

	out := make([]*entity.User, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	return response.Success(c, out)
}

func (h *ConnectionHandler) ListIncoming(c echo.Context) error {
	list, err := h.connectionUseCase.ListIncoming(c.Request().Context(), uid(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, list)
}

func (h *ConnectionHandler) ListOutgoing(c echo.Context) error {
	list, err := h.connectionUseCase.ListOutgoing(c.Request().Context(), uid(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, list)
}
