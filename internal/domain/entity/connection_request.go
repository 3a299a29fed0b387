package entity

import (
	"sort"
	"strings"
	"time"
)

type ConnectionRequest struct {
	ID           string    `json:"id" firestore:"id"`
	SenderID     string    `json:"senderId" firestore:"senderId"`
	SenderName   string    `json:"senderName" firestore:"senderName"`
	ReceiverID   string    `json:"receiverId" firestore:"receiverId"`
	ReceiverName string    `json:"receiverName" firestore:"receiverName"`
	Status       string    `json:"status" firestore:"status"`
	CreatedAt    time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" firestore:"updatedAt"`
}

// PairID joins two user ids in sorted order, so PairID(a, b) == PairID(b, a).
// Connection requests and direct chats are keyed by it.
func PairID(a, b string) string {
	ids := []string{a, b}
	sort.Strings(ids)
	return strings.Join(ids, "_")
}
