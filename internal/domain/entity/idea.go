package entity

import "time"

const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"

	IdeaStatusRecruiting = "recruiting"
)

type InvestmentDetails struct {
	TargetAmount  float64 `json:"targetAmount" firestore:"targetAmount"`
	EquityPercent float64 `json:"equityPercent" firestore:"equityPercent"`
}

type Idea struct {
	ID              string            `json:"id" firestore:"id"`
	FounderID       string            `json:"founderId" firestore:"founderId"`
	FounderName     string            `json:"founderName" firestore:"founderName"`
	FounderUsername string            `json:"founderUsername" firestore:"founderUsername"`
	FounderAvatar   string            `json:"founderAvatar,omitempty" firestore:"founderAvatar,omitempty"`
	Title           string            `json:"title" firestore:"title"`
	Description     string            `json:"description" firestore:"description"`
	Skills          []string          `json:"skills" firestore:"skills"`
	Status          string            `json:"status" firestore:"status"`
	Visibility      string            `json:"visibility" firestore:"visibility"`
	Team            []string          `json:"team" firestore:"team"`
	Likes           []string          `json:"likes" firestore:"likes"`
	Comments        []Comment         `json:"comments" firestore:"comments"`
	Investment      InvestmentDetails `json:"investment" firestore:"investment"`
	CreatedAt       time.Time         `json:"createdAt" firestore:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt" firestore:"updatedAt"`
}

func (i *Idea) IsPrivate() bool {
	return i.Visibility == VisibilityPrivate
}

func (i *Idea) HasMember(userID string) bool {
	return containsString(i.Team, userID)
}

func (i *Idea) LikedBy(userID string) bool {
	return containsString(i.Likes, userID)
}

// VisibleTo applies the visibility rule: public ideas are visible to anyone,
// private ideas only to the founder or a user connected to the founder.
// A nil viewer is anonymous.
func (i *Idea) VisibleTo(viewer *User) bool {
	if !i.IsPrivate() {
		return true
	}
	if viewer == nil {
		return false
	}
	return viewer.ID == i.FounderID || viewer.IsConnectedTo(i.FounderID)
}

type Comment struct {
	ID           string    `json:"id" firestore:"id"`
	IdeaID       string    `json:"ideaId" firestore:"ideaId"`
	AuthorID     string    `json:"authorId" firestore:"authorId"`
	AuthorName   string    `json:"authorName" firestore:"authorName"`
	AuthorAvatar string    `json:"authorAvatar,omitempty" firestore:"authorAvatar,omitempty"`
	Text         string    `json:"text" firestore:"text"`
	CreatedAt    time.Time `json:"createdAt" firestore:"createdAt"`
}
