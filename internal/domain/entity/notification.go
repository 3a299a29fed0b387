package entity

import "time"

const (
	NotificationConnectionRequest   = "connection_request"
	NotificationMessage             = "message"
	NotificationNegotiationUpdate   = "negotiation_update"
	NotificationJoinRequest         = "join_request"
	NotificationJoinRequestResponse = "join_request_response"
	NotificationMatchAlert          = "match_alert"
)

// Payload keys stored in Notification.Data.
const (
	DataJoinRequestID = "joinRequestId"
	DataIdeaID        = "ideaId"
	DataNegotiationID = "negotiationId"
	DataConnectionID  = "connectionRequestId"
	DataChatID        = "chatId"
	DataAlertID       = "alertId"
	DataMatchedUserID = "matchedUserId"
	DataSenderID      = "senderId"
	DataStatus        = "status"
)

type Notification struct {
	ID        string                 `json:"id" firestore:"id"`
	UserID    string                 `json:"userId" firestore:"userId"`
	Type      string                 `json:"type" firestore:"type"`
	Title     string                 `json:"title" firestore:"title"`
	Message   string                 `json:"message" firestore:"message"`
	Data      map[string]interface{} `json:"data,omitempty" firestore:"data,omitempty"`
	IsRead    bool                   `json:"isRead" firestore:"isRead"`
	CreatedAt time.Time              `json:"createdAt" firestore:"createdAt"`
}

// MatchNotificationID is the deterministic id of the single notification a
// match alert may produce for one matched user.
func MatchNotificationID(alertID, matchedUserID string) string {
	return "match_" + alertID + "_" + matchedUserID
}
