package repository

import (
	"context"

	"naafe/internal/domain/entity"
)

type OfferRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Offer, error)
	ListByJobRequestID(ctx context.Context, jobRequestID string) ([]*entity.Offer, error)
	ListByProviderID(ctx context.Context, providerID string, limit, offset int) ([]*entity.Offer, int64, error)
	Update(ctx context.Context, offer *entity.Offer) error

	// CreateIfNoActive persists the offer unless the provider already has an
	// offer on the same job request in a non-terminal state (pending or
	// accepted); in that case it fails with CONFLICT.
	CreateIfNoActive(ctx context.Context, offer *entity.Offer) error

	// TransitionStatus flips the offer status iff it currently equals from;
	// otherwise it fails with INVALID_STATE. Check and write are atomic.
	TransitionStatus(ctx context.Context, id, from, to string) (*entity.Offer, error)

	// AcceptPending sets the offer to accepted and its job request to
	// assigned in a single transaction, guarded by offer.status == pending
	// and job.status == open. When two accepts race on one job, the job
	// document is the serialization point: exactly one wins.
	AcceptPending(ctx context.Context, offerID string) (*entity.Offer, *entity.JobRequest, error)

	// RejectSiblingPending moves every other pending offer on the job request
	// to rejected and returns how many were affected. Idempotent.
	RejectSiblingPending(ctx context.Context, jobRequestID, acceptedOfferID string) (int, error)
}
