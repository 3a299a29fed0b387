package entity

import (
	"time"
)

const (
	RoleFounder   = "founder"
	RoleDeveloper = "developer"
	RoleInvestor  = "investor"
)

type User struct {
	ID          string `json:"id" firestore:"id"`
	Email       string `json:"email" firestore:"email"`
	Username    string `json:"username" firestore:"username"`
	DisplayName string `json:"displayName" firestore:"displayName"`
	AvatarURL   string `json:"avatarUrl,omitempty" firestore:"avatarUrl,omitempty"`
	Role        string `json:"role" firestore:"role"`
	Bio         string `json:"bio,omitempty" firestore:"bio,omitempty"`
	Location    string `json:"location,omitempty" firestore:"location,omitempty"`
	Phone       string `json:"phone,omitempty" firestore:"phone,omitempty"`

	Skills          []string `json:"skills" firestore:"skills"`
	Interests       []string `json:"interests" firestore:"interests"`
	Experience      string   `json:"experience,omitempty" firestore:"experience,omitempty"`
	InvestorDomains []string `json:"investorDomains,omitempty" firestore:"investorDomains,omitempty"`

	// Connections is this endpoint's half of the undirected connection graph.
	Connections []string `json:"connections" firestore:"connections"`
	// PendingConnections mirrors outgoing requests that are still pending.
	PendingConnections []string `json:"pendingConnections" firestore:"pendingConnections"`

	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" firestore:"updatedAt"`
}

func (u *User) IsConnectedTo(userID string) bool {
	return containsString(u.Connections, userID)
}

// Name is the best human-readable label for notifications.
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	if u.Username != "" {
		return u.Username
	}
	return "Someone"
}

// Public strips contact details and pending requests before the profile is
// shown to another user.
func (u *User) Public() *User {
	c := *u
	c.Email = ""
	c.Phone = ""
	c.PendingConnections = nil
	return &c
}

func containsString(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
