package memory

import (
	"context"
	"sort"

	"growwithme/internal/domain/entity"
	"growwithme/internal/domain/repository"
	"growwithme/pkg/errors"
)

type chatRepository struct {
	s *Store
}

func (s *Store) Chats() repository.ChatRepository {
	return &chatRepository{s: s}
}

func (r *chatRepository) GetOrCreate(ctx context.Context, chat *entity.Chat) (*entity.Chat, error) {
	r.s.mu.Lock()
	if existing, ok := r.s.chats[chat.ID]; ok {
		r.s.mu.Unlock()
		return cloneChat(existing), nil
	}
	r.s.chats[chat.ID] = cloneChat(chat)
	r.s.mu.Unlock()

	r.s.changed()
	return cloneChat(chat), nil
}

func (r *chatRepository) GetByID(ctx context.Context, id string) (*entity.Chat, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.chats[id]
	if !ok {
		return nil, errors.NotFound("Chat", nil)
	}
	return cloneChat(c), nil
}

func (r *chatRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Chat, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*entity.Chat
	for _, c := range r.s.chats {
		if c.HasParticipant(userID) {
			out = append(out, cloneChat(c))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].LastMessageAt.Equal(out[j].LastMessageAt) {
			return out[i].LastMessageAt.After(out[j].LastMessageAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *chatRepository) AddMessage(ctx context.Context, chat *entity.Chat, message *entity.Message) error {
	r.s.mu.Lock()
	stored, ok := r.s.chats[chat.ID]
	if !ok {
		r.s.mu.Unlock()
		return errors.NotFound("Chat", nil)
	}

	next := cloneChat(stored)
	next.LastMessage = message.Content
	next.LastSenderID = message.SenderID
	next.LastMessageAt = message.CreatedAt
	next.UpdatedAt = message.CreatedAt
	for _, p := range next.Participants {
		if p != message.SenderID {
			next.UnreadCount[p]++
		}
	}

	m := *message
	r.s.chats[chat.ID] = next
	r.s.messages[chat.ID] = append(r.s.messages[chat.ID], &m)
	r.s.mu.Unlock()

	r.s.changed()
	return nil
}

func (r *chatRepository) ListMessages(ctx context.Context, chatID string, limit int) ([]*entity.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	all := r.s.messages[chatID]
	start := 0
	if limit > 0 && len(all) > limit {
		start = len(all) - limit
	}
	out := make([]*entity.Message, 0, len(all)-start)
	for _, m := range all[start:] {
		c := *m
		out = append(out, &c)
	}
	return out, nil
}

func (r *chatRepository) MarkRead(ctx context.Context, chatID, userID string) error {
	r.s.mu.Lock()
	c, ok := r.s.chats[chatID]
	if !ok {
		r.s.mu.Unlock()
		return errors.NotFound("Chat", nil)
	}
	next := cloneChat(c)
	next.UnreadCount[userID] = 0
	r.s.chats[chatID] = next
	r.s.mu.Unlock()

	r.s.changed()
	return nil
}
