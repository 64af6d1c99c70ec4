package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"naafe/internal/domain/entity"
	"naafe/internal/domain/repository"
	"naafe/pkg/errors"
)

type firestoreOfferRepository struct {
	client *firestore.Client
}

func NewFirestoreOfferRepository(client *firestore.Client) repository.OfferRepository {
	return &firestoreOfferRepository{
		client: client,
	}
}

func (r *firestoreOfferRepository) GetByID(ctx context.Context, id string) (*entity.Offer, error) {
	doc, err := r.client.Collection("offers").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Offer", err)
		}
		return nil, errors.Internal("Failed to get offer", err)
	}

	var offer entity.Offer
	if err := doc.DataTo(&offer); err != nil {
		return nil, errors.Internal("Failed to parse offer data", err)
	}

	return &offer, nil
}

func (r *firestoreOfferRepository) ListByJobRequestID(ctx context.Context, jobRequestID string) ([]*entity.Offer, error) {
	query := r.client.Collection("offers").Where("jobRequestId", "==", jobRequestID).OrderBy("createdAt", firestore.Asc)

	iter := query.Documents(ctx)
	var offers []*entity.Offer

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate offers", err)
		}

		var offer entity.Offer
		if err := doc.DataTo(&offer); err != nil {
			return nil, errors.Internal("Failed to parse offer data", err)
		}

		offers = append(offers, &offer)
	}

	return offers, nil
}

func (r *firestoreOfferRepository) ListByProviderID(ctx context.Context, providerID string, limit, offset int) ([]*entity.Offer, int64, error) {
	query := r.client.Collection("offers").Where("providerId", "==", providerID).OrderBy("createdAt", firestore.Desc)

	countDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count offers", err)
	}
	total := int64(len(countDocs))

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	var offers []*entity.Offer

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to iterate offers", err)
		}

		var offer entity.Offer
		if err := doc.DataTo(&offer); err != nil {
			return nil, 0, errors.Internal("Failed to parse offer data", err)
		}

		offers = append(offers, &offer)
	}

	return offers, total, nil
}

func (r *firestoreOfferRepository) Update(ctx context.Context, offer *entity.Offer) error {
	offer.UpdatedAt = time.Now()

	_, err := r.client.Collection("offers").Doc(offer.ID).Set(ctx, offer)
	if err != nil {
		return errors.Internal("Failed to update offer", err)
	}

	return nil
}

// CreateIfNoActive enforces the at-most-one non-terminal offer per
// (jobRequest, provider) invariant inside a transaction, so racing submits
// from the same provider cannot both land.
func (r *firestoreOfferRepository) CreateIfNoActive(ctx context.Context, offer *entity.Offer) error {
	if offer.ID == "" {
		offer.ID = uuid.New().String()
	}

	now := time.Now()
	offer.CreatedAt = now
	offer.UpdatedAt = now
	offer.Status = entity.OfferStatusPending

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		query := r.client.Collection("offers").
			Where("jobRequestId", "==", offer.JobRequestID).
			Where("providerId", "==", offer.ProviderID).
			Where("status", "in", []string{entity.OfferStatusPending, entity.OfferStatusAccepted}).
			Limit(1)

		iter := tx.Documents(query)
		_, err := iter.Next()
		if err == nil {
			return errors.Conflict("You already have an active offer on this job request")
		}
		if err != iterator.Done {
			return err
		}

		return tx.Set(r.client.Collection("offers").Doc(offer.ID), offer)
	})

	if err != nil {
		if errors.Is(err, "CONFLICT") {
			return err
		}
		return errors.Internal("Failed to create offer", err)
	}

	return nil
}

func (r *firestoreOfferRepository) TransitionStatus(ctx context.Context, id, from, to string) (*entity.Offer, error) {
	var updated entity.Offer

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		docRef := r.client.Collection("offers").Doc(id)
		doc, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Offer", err)
			}
			return err
		}

		var offer entity.Offer
		if err := doc.DataTo(&offer); err != nil {
			return err
		}

		if offer.Status != from {
			return errors.InvalidState("Offer is not " + from)
		}

		offer.Status = to
		offer.UpdatedAt = time.Now()
		updated = offer

		return tx.Set(docRef, offer)
	})

	if err != nil {
		if errors.Is(err, "NOT_FOUND") || errors.Is(err, "INVALID_STATE") {
			return nil, err
		}
		return nil, errors.Internal("Failed to transition offer status", err)
	}

	return &updated, nil
}

// AcceptPending writes the offer and job request transitions together. The
// job document serializes racing accepts on different offers of the same
// job: the loser observes the job no longer open.
func (r *firestoreOfferRepository) AcceptPending(ctx context.Context, offerID string) (*entity.Offer, *entity.JobRequest, error) {
	var acceptedOffer entity.Offer
	var assignedJob entity.JobRequest

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		offerRef := r.client.Collection("offers").Doc(offerID)
		offerDoc, err := tx.Get(offerRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Offer", err)
			}
			return err
		}

		var offer entity.Offer
		if err := offerDoc.DataTo(&offer); err != nil {
			return err
		}

		if offer.Status != entity.OfferStatusPending {
			return errors.InvalidState("Offer is not pending")
		}

		jobRef := r.client.Collection("jobRequests").Doc(offer.JobRequestID)
		jobDoc, err := tx.Get(jobRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Job request", err)
			}
			return err
		}

		var job entity.JobRequest
		if err := jobDoc.DataTo(&job); err != nil {
			return err
		}

		if job.Status != entity.JobStatusOpen {
			return errors.InvalidState("Job request is not open")
		}

		now := time.Now()

		offer.Status = entity.OfferStatusAccepted
		offer.UpdatedAt = now

		job.Status = entity.JobStatusAssigned
		job.AssignedTo = offer.ProviderID
		job.UpdatedAt = now

		if err := tx.Set(offerRef, offer); err != nil {
			return err
		}
		if err := tx.Set(jobRef, job); err != nil {
			return err
		}

		acceptedOffer = offer
		assignedJob = job
		return nil
	})

	if err != nil {
		if errors.Is(err, "NOT_FOUND") || errors.Is(err, "INVALID_STATE") {
			return nil, nil, err
		}
		return nil, nil, errors.Internal("Failed to accept offer", err)
	}

	return &acceptedOffer, &assignedJob, nil
}

// RejectSiblingPending flips each remaining pending offer individually with
// the same CAS used everywhere else, so re-running after a partial failure
// only touches offers still pending.
func (r *firestoreOfferRepository) RejectSiblingPending(ctx context.Context, jobRequestID, acceptedOfferID string) (int, error) {
	query := r.client.Collection("offers").
		Where("jobRequestId", "==", jobRequestID).
		Where("status", "==", entity.OfferStatusPending)

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return 0, errors.Internal("Failed to query sibling offers", err)
	}

	rejected := 0
	for _, doc := range docs {
		if doc.Ref.ID == acceptedOfferID {
			continue
		}

		if _, err := r.TransitionStatus(ctx, doc.Ref.ID, entity.OfferStatusPending, entity.OfferStatusRejected); err != nil {
			if errors.Is(err, "INVALID_STATE") {
				// Already flipped by a concurrent run.
				continue
			}
			return rejected, err
		}
		rejected++
	}

	return rejected, nil
}
