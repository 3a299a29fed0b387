package entity

import "time"

type MatchCriteria struct {
	Roles              []string `json:"roles,omitempty" firestore:"roles,omitempty"`
	Locations          []string `json:"locations,omitempty" firestore:"locations,omitempty"`
	Interests          []string `json:"interests,omitempty" firestore:"interests,omitempty"`
	Skills             []string `json:"skills,omitempty" firestore:"skills,omitempty"`
	MinExperienceYears int      `json:"minExperienceYears,omitempty" firestore:"minExperienceYears,omitempty"`
	InvestorDomains    []string `json:"investorDomains,omitempty" firestore:"investorDomains,omitempty"`
	MinIdeaCount       int      `json:"minIdeaCount,omitempty" firestore:"minIdeaCount,omitempty"`
}

type MatchAlert struct {
	ID        string        `json:"id" firestore:"id"`
	OwnerID   string        `json:"ownerId" firestore:"ownerId"`
	Name      string        `json:"name" firestore:"name"`
	Criteria  MatchCriteria `json:"criteria" firestore:"criteria"`
	Active    bool          `json:"active" firestore:"active"`
	CreatedAt time.Time     `json:"createdAt" firestore:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt" firestore:"updatedAt"`
}
