package repository

import (
	"context"

	"growwithme/internal/domain/entity"
)

type ChatRepository interface {
	// GetOrCreate returns the stored chat with chat.ID, creating it first
	// when absent.
	GetOrCreate(ctx context.Context, chat *entity.Chat) (*entity.Chat, error)
	GetByID(ctx context.Context, id string) (*entity.Chat, error)
	ListByUser(ctx context.Context, userID string) ([]*entity.Chat, error)

	// AddMessage inserts the message and updates the chat's last message and
	// unread counters for every participant except the sender in one batch.
	AddMessage(ctx context.Context, chat *entity.Chat, message *entity.Message) error
	ListMessages(ctx context.Context, chatID string, limit int) ([]*entity.Message, error)
	MarkRead(ctx context.Context, chatID, userID string) error
}
