package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"growwithme/internal/domain/entity"
	"growwithme/internal/domain/repository"
	"growwithme/internal/infrastructure/metrics"
	"growwithme/internal/infrastructure/ratelimit"
	"growwithme/pkg/errors"
	"growwithme/pkg/logger"
	"growwithme/pkg/textfilter"
)

const (
	DefaultMessageLimit = 50
	MaxMessageLength    = 2000

	PushMessage = "chat_message"
	PushRead    = "chat_read"
)

type ChatUseCase struct {
	chatRepo      repository.ChatRepository
	userRepo      repository.UserRepository
	notifications *NotificationUseCase
	pusher        Pusher
	rateLimiter   RateLimiter
}

func NewChatUseCase(
	chatRepo repository.ChatRepository,
	userRepo repository.UserRepository,
	notifications *NotificationUseCase,
	pusher Pusher,
	rateLimiter RateLimiter,
) *ChatUseCase {
	return &ChatUseCase{
		chatRepo:      chatRepo,
		userRepo:      userRepo,
		notifications: notifications,
		pusher:        pusher,
		rateLimiter:   rateLimiter,
	}
}

// Open returns the direct chat between two users, creating it on first use.
func (uc *ChatUseCase) Open(ctx context.Context, userID, otherID string) (*entity.Chat, error) {
	if userID == otherID {
		return nil, errors.BadRequest("Cannot open a chat with yourself", nil)
	}
	if _, err := uc.userRepo.GetByID(ctx, otherID); err != nil {
		return nil, err
	}

	now := time.Now()
	return uc.chatRepo.GetOrCreate(ctx, &entity.Chat{
		ID:            entity.PairID(userID, otherID),
		Participants:  []string{userID, otherID},
		UnreadCount:   map[string]int{userID: 0, otherID: 0},
		LastMessageAt: now,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
}

func (uc *ChatUseCase) participantChat(ctx context.Context, chatID, userID string) (*entity.Chat, error) {
	chat, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.HasParticipant(userID) {
		return nil, errors.Forbidden("Not a participant of this chat", nil)
	}
	return chat, nil
}

func (uc *ChatUseCase) Send(ctx context.Context, chatID, senderID, content string) (*entity.Message, error) {
	if uc.rateLimiter != nil {
		if ok, wait := uc.rateLimiter.Allow(senderID, ratelimit.ActionSendMessage); !ok {
			logger.Warn("Send rate limited: user %s must wait %v", senderID, wait)
			metrics.RateLimited.WithLabelValues(ratelimit.ActionSendMessage).Inc()
			return nil, errors.TooManyRequests("Rate limit exceeded. Please wait before sending more messages")
		}
	}

	chat, err := uc.participantChat(ctx, chatID, senderID)
	if err != nil {
		return nil, err
	}

	text := textfilter.Clean(content)
	if text == "" {
		return nil, errors.BadRequest("Message cannot be empty", nil)
	}
	if len(text) > MaxMessageLength {
		return nil, errors.BadRequest("Message is too long", nil)
	}

	msg := &entity.Message{
		ID:        uuid.New().String(),
		ChatID:    chat.ID,
		SenderID:  senderID,
		Content:   text,
		CreatedAt: time.Now(),
	}
	if err := uc.chatRepo.AddMessage(ctx, chat, msg); err != nil {
		return nil, err
	}

	senderName := "Someone"
	if sender, err := uc.userRepo.GetByID(ctx, senderID); err == nil {
		senderName = sender.Name()
	}
	for _, recipient := range chat.Participants {
		if recipient == senderID {
			continue
		}
		if uc.pusher != nil {
			uc.pusher.SendToUser(recipient, PushMessage, msg)
		}
		uc.notifications.notify(ctx, NotificationInput{
			UserID:  recipient,
			Type:    entity.NotificationMessage,
			Title:   "New message from " + senderName,
			Message: preview(text),
			Data: map[string]interface{}{
				entity.DataChatID:   chat.ID,
				entity.DataSenderID: senderID,
			},
		})
	}
	return msg, nil
}

func preview(text string) string {
	const max = 80
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}

// Messages returns the latest limit messages, oldest first.
func (uc *ChatUseCase) Messages(ctx context.Context, chatID, userID string, limit int) ([]*entity.Message, error) {
	if _, err := uc.participantChat(ctx, chatID, userID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultMessageLimit
	}
	return uc.chatRepo.ListMessages(ctx, chatID, limit)
}

func (uc *ChatUseCase) MarkRead(ctx context.Context, chatID, userID string) error {
	chat, err := uc.participantChat(ctx, chatID, userID)
	if err != nil {
		return err
	}
	if err := uc.chatRepo.MarkRead(ctx, chatID, userID); err != nil {
		return err
	}

	if uc.pusher != nil {
		for _, p := range chat.Participants {
			if p != userID {
				uc.pusher.SendToUser(p, PushRead, map[string]string{"chatId": chatID, "userId": userID})
			}
		}
	}
	return nil
}

func (uc *ChatUseCase) ListChats(ctx context.Context, userID string) ([]*entity.Chat, error) {
	return uc.chatRepo.ListByUser(ctx, userID)
}
