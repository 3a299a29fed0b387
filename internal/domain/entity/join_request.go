package entity

import "time"

const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestRejected = "rejected"
)

type JoinRequest struct {
	ID              string    `json:"id" firestore:"id"`
	IdeaID          string    `json:"ideaId" firestore:"ideaId"`
	IdeaTitle       string    `json:"ideaTitle" firestore:"ideaTitle"`
	DeveloperID     string    `json:"developerId" firestore:"developerId"`
	DeveloperName   string    `json:"developerName" firestore:"developerName"`
	DeveloperAvatar string    `json:"developerAvatar,omitempty" firestore:"developerAvatar,omitempty"`
	FounderID       string    `json:"founderId" firestore:"founderId"`
	FounderName     string    `json:"founderName" firestore:"founderName"`
	Message         string    `json:"message,omitempty" firestore:"message,omitempty"`
	Status          string    `json:"status" firestore:"status"`
	CreatedAt       time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt" firestore:"updatedAt"`
}
