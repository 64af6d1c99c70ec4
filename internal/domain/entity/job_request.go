package entity

import (
	"time"
)

const (
	JobStatusOpen       = "open"
	JobStatusAssigned   = "assigned"
	JobStatusInProgress = "in_progress"
	JobStatusCompleted  = "completed"
	JobStatusCancelled  = "cancelled"
)

// BudgetRange is an inclusive money range in the platform currency.
type BudgetRange struct {
	Min float64 `json:"min" firestore:"min"`
	Max float64 `json:"max" firestore:"max"`
}

func (b BudgetRange) Valid() bool {
	return b.Min > 0 && b.Max >= b.Min
}

// Contains reports whether other is a sub-range of b.
func (b BudgetRange) Contains(other BudgetRange) bool {
	return other.Min >= b.Min && other.Max <= b.Max
}

type JobRequest struct {
	ID          string      `json:"id" firestore:"id"`
	SeekerID    string      `json:"seeker_id" firestore:"seekerId"`
	Title       string      `json:"title" firestore:"title"`
	Description string      `json:"description,omitempty" firestore:"description,omitempty"`
	Category    string      `json:"category,omitempty" firestore:"category,omitempty"`
	Budget      BudgetRange `json:"budget" firestore:"budget"`

	Status     string `json:"status" firestore:"status"` // "open", "assigned", "in_progress", "completed", "cancelled"
	AssignedTo string `json:"assigned_to,omitempty" firestore:"assignedTo,omitempty"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}
