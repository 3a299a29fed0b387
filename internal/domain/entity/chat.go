package entity

import "time"

type Chat struct {
	ID            string         `json:"id" firestore:"id"`
	Participants  []string       `json:"participants" firestore:"participants"`
	LastMessage   string         `json:"lastMessage,omitempty" firestore:"lastMessage,omitempty"`
	LastSenderID  string         `json:"lastSenderId,omitempty" firestore:"lastSenderId,omitempty"`
	LastMessageAt time.Time      `json:"lastMessageAt" firestore:"lastMessageAt"`
	UnreadCount   map[string]int `json:"unreadCount" firestore:"unreadCount"` // userID -> unread messages
	CreatedAt     time.Time      `json:"createdAt" firestore:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt" firestore:"updatedAt"`
}

func (c *Chat) HasParticipant(userID string) bool {
	return containsString(c.Participants, userID)
}
