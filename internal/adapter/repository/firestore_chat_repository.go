package repository

import (
	"context"
	"sort"

	"cloud.google.com/go/firestore"

	"growwithme/internal/domain/entity"
	"growwithme/internal/domain/repository"
	"growwithme/pkg/errors"
)

type firestoreChatRepository struct {
	client *firestore.Client
}

func NewFirestoreChatRepository(client *firestore.Client) repository.ChatRepository {
	return &firestoreChatRepository{
		client: client,
	}
}

func (r *firestoreChatRepository) chats() *firestore.CollectionRef {
	return r.client.Collection(chatsCollection)
}

func (r *firestoreChatRepository) GetOrCreate(ctx context.Context, chat *entity.Chat) (*entity.Chat, error) {
	ref := r.chats().Doc(chat.ID)
	var result entity.Chat

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err == nil {
			return doc.DataTo(&result)
		}
		if !isNotFound(err) {
			return err
		}
		result = *chat
		return tx.Create(ref, chat)
	})
	if err != nil {
		return nil, errors.Internal("Failed to open chat", err)
	}
	return &result, nil
}

func (r *firestoreChatRepository) GetByID(ctx context.Context, id string) (*entity.Chat, error) {
	doc, err := r.chats().Doc(id).Get(ctx)
	if err != nil {
		return nil, getError(err, "Chat")
	}

	var chat entity.Chat
	if err := doc.DataTo(&chat); err != nil {
		return nil, errors.Internal("Failed to parse chat data", err)
	}
	return &chat, nil
}

func (r *firestoreChatRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Chat, error) {
	chats, err := queryAll[entity.Chat](ctx, r.chats().Where("participants", "array-contains", userID), "chats")
	if err != nil {
		return nil, err
	}
	// Sorted here to avoid a composite index on participants + lastMessageAt.
	sort.SliceStable(chats, func(i, j int) bool {
		return chats[i].LastMessageAt.After(chats[j].LastMessageAt)
	})
	return chats, nil
}

func (r *firestoreChatRepository) AddMessage(ctx context.Context, chat *entity.Chat, message *entity.Message) error {
	chatRef := r.chats().Doc(chat.ID)
	msgRef := chatRef.Collection(messagesCollection).Doc(message.ID)

	updates := []firestore.Update{
		{Path: "lastMessage", Value: message.Content},
		{Path: "lastSenderId", Value: message.SenderID},
		{Path: "lastMessageAt", Value: message.CreatedAt},
		{Path: "updatedAt", Value: message.CreatedAt},
	}
	for _, participant := range chat.Participants {
		if participant == message.SenderID {
			continue
		}
		updates = append(updates, firestore.Update{
			FieldPath: firestore.FieldPath{"unreadCount", participant},
			Value:     firestore.Increment(1),
		})
	}

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if err := tx.Create(msgRef, message); err != nil {
			return err
		}
		return tx.Update(chatRef, updates)
	})
	if err != nil {
		return writeError(err, "Chat", "send message to")
	}
	return nil
}

func (r *firestoreChatRepository) ListMessages(ctx context.Context, chatID string, limit int) ([]*entity.Message, error) {
	q := r.chats().Doc(chatID).Collection(messagesCollection).OrderBy("createdAt", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}

	messages, err := queryAll[entity.Message](ctx, q, "messages")
	if err != nil {
		return nil, err
	}
	// newest page, oldest first
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func (r *firestoreChatRepository) MarkRead(ctx context.Context, chatID, userID string) error {
	_, err := r.chats().Doc(chatID).Update(ctx, []firestore.Update{
		{FieldPath: firestore.FieldPath{"unreadCount", userID}, Value: 0},
	})
	if err != nil {
		return writeError(err, "Chat", "mark read")
	}
	return nil
}
