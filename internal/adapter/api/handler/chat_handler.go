package handler

import (
	"github.com/labstack/echo/v4"

	"growwithme/internal/usecase"
	"growwithme/pkg/response"
	"growwithme/pkg/utils"
)

type ChatHandler struct {
	chatUseCase *usecase.ChatUseCase
}

func NewChatHandler(chatUseCase *usecase.ChatUseCase) *ChatHandler {
	return &ChatHandler{
		chatUseCase: chatUseCase,
	}
}

type createChatRequest struct {
	RecipientID string `json:"recipientId" validate:"required"`
}

type sendMessageRequest struct {
	Content string `json:"content" validate:"required"`
}

// CreateChat opens (or returns) the direct chat with the recipient.
func (h *ChatHandler) CreateChat(c echo.Context) error {
	var req createChatRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	chat, err := h.chatUseCase.Open(c.Request().Context(), uid(c), req.RecipientID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, chat)
}

func (h *ChatHandler) GetUserChats(c echo.Context) error {
	chats, err := h.chatUseCase.ListChats(c.Request().Context(), uid(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, chats)
}

func (h *ChatHandler) SendMessage(c echo.Context) error {
	chatID, err := requireParam(c, "id")
	if err != nil {
		return response.Error(c, err)
	}
	var req sendMessageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	msg, err := h.chatUseCase.Send(c.Request().Context(), chatID, uid(c), req.Content)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, msg)
}

func (h *ChatHandler) GetChatMessages(c echo.Context) error {
	chatID, err := requireParam(c, "id")
	if err != nil {
		return response.Error(c, err)
	}

	limit := utils.GetLimit(c, usecase.DefaultMessageLimit, 200)
	msgs, err := h.chatUseCase.Messages(c.Request().Context(), chatID, uid(c), limit)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, msgs)
}

func (h *ChatHandler) MarkChatAsRead(c echo.Context) error {
	chatID, err := requireParam(c, "id")
	if err != nil {
		return response.Error(c, err)
	}

	if err := h.chatUseCase.MarkRead(c.Request().Context(), chatID, uid(c)); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"message": "Chat marked as read"})
}
