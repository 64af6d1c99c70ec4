package entity

import (
	"time"
)

const (
	OfferStatusPending   = "pending"
	OfferStatusAccepted  = "accepted"
	OfferStatusRejected  = "rejected"
	OfferStatusWithdrawn = "withdrawn"
)

type Offer struct {
	ID            string      `json:"id" firestore:"id"`
	JobRequestID  string      `json:"job_request_id" firestore:"jobRequestId"`
	ProviderID    string      `json:"provider_id" firestore:"providerId"`
	Budget        BudgetRange `json:"budget" firestore:"budget"`
	Message       string      `json:"message,omitempty" firestore:"message,omitempty"`
	EstimatedDays int         `json:"estimated_days,omitempty" firestore:"estimatedDays,omitempty"`

	Status string `json:"status" firestore:"status"` // "pending", "accepted", "rejected", "withdrawn"

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// Terminal reports whether the offer is in an absorbing state; no operation
// may transition out of accepted, rejected or withdrawn.
func (o *Offer) Terminal() bool {
	return o.Status != OfferStatusPending
}
