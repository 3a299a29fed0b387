package entity

import "time"

const (
	NegotiationPending  = "pending"
	NegotiationActive   = "active"
	NegotiationAccepted = "accepted"
	NegotiationRejected = "rejected"

	PartyFounder  = "founder"
	PartyInvestor = "investor"
)

type Offer struct {
	Amount    float64   `json:"amount" firestore:"amount"`
	Equity    float64   `json:"equity" firestore:"equity"`
	Message   string    `json:"message,omitempty" firestore:"message,omitempty"`
	From      string    `json:"from" firestore:"from"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
}

type Negotiation struct {
	ID              string    `json:"id" firestore:"id"`
	IdeaID          string    `json:"ideaId" firestore:"ideaId"`
	IdeaTitle       string    `json:"ideaTitle" firestore:"ideaTitle"`
	InvestorID      string    `json:"investorId" firestore:"investorId"`
	InvestorName    string    `json:"investorName" firestore:"investorName"`
	FounderID       string    `json:"founderId" firestore:"founderId"`
	FounderName     string    `json:"founderName" firestore:"founderName"`
	Status          string    `json:"status" firestore:"status"`
	Offers          []Offer   `json:"offers" firestore:"offers"`
	FinalInvestment *float64  `json:"finalInvestment,omitempty" firestore:"finalInvestment,omitempty"`
	FinalEquity     *float64  `json:"finalEquity,omitempty" firestore:"finalEquity,omitempty"`
	CreatedAt       time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt" firestore:"updatedAt"`
}

// NegotiationID derives the document id; one negotiation per idea and investor.
func NegotiationID(ideaID, investorID string) string {
	return ideaID + "_" + investorID
}

func (n *Negotiation) IsTerminal() bool {
	return n.Status == NegotiationAccepted || n.Status == NegotiationRejected
}

// PartyOf returns which side userID is on, or "" for outsiders.
func (n *Negotiation) PartyOf(userID string) string {
	switch userID {
	case n.FounderID:
		return PartyFounder
	case n.InvestorID:
		return PartyInvestor
	}
	return ""
}

// Counterparty returns the user id on the other side of party.
func (n *Negotiation) Counterparty(party string) string {
	if party == PartyFounder {
		return n.InvestorID
	}
	return n.FounderID
}
