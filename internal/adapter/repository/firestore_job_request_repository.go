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

type firestoreJobRequestRepository struct {
	client *firestore.Client
}

func NewFirestoreJobRequestRepository(client *firestore.Client) repository.JobRequestRepository {
	return &firestoreJobRequestRepository{
		client: client,
	}
}

func (r *firestoreJobRequestRepository) Create(ctx context.Context, job *entity.JobRequest) error {
	if job.ID == "" {
		job.ID = uuid.New().String()
	}

	now := time.Now()
	job.CreatedAt = now
	job.UpdatedAt = now
	job.Status = entity.JobStatusOpen

	_, err := r.client.Collection("jobRequests").Doc(job.ID).Set(ctx, job)
	if err != nil {
		return errors.Internal("Failed to create job request", err)
	}

	return nil
}

func (r *firestoreJobRequestRepository) GetByID(ctx context.Context, id string) (*entity.JobRequest, error) {
	doc, err := r.client.Collection("jobRequests").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Job request", err)
		}
		return nil, errors.Internal("Failed to get job request", err)
	}

	var job entity.JobRequest
	if err := doc.DataTo(&job); err != nil {
		return nil, errors.Internal("Failed to parse job request data", err)
	}

	return &job, nil
}

func (r *firestoreJobRequestRepository) ListBySeekerID(ctx context.Context, seekerID string, limit, offset int) ([]*entity.JobRequest, int64, error) {
	query := r.client.Collection("jobRequests").Where("seekerId", "==", seekerID).OrderBy("createdAt", firestore.Desc)
	return r.listJobs(ctx, query, limit, offset)
}

func (r *firestoreJobRequestRepository) ListOpen(ctx context.Context, category string, limit, offset int) ([]*entity.JobRequest, int64, error) {
	query := r.client.Collection("jobRequests").Where("status", "==", entity.JobStatusOpen)
	if category != "" {
		query = query.Where("category", "==", category)
	}
	return r.listJobs(ctx, query.OrderBy("createdAt", firestore.Desc), limit, offset)
}

func (r *firestoreJobRequestRepository) listJobs(ctx context.Context, query firestore.Query, limit, offset int) ([]*entity.JobRequest, int64, error) {
	countDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count job requests", err)
	}
	total := int64(len(countDocs))

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	var jobs []*entity.JobRequest

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to iterate job requests", err)
		}

		var job entity.JobRequest
		if err := doc.DataTo(&job); err != nil {
			return nil, 0, errors.Internal("Failed to parse job request data", err)
		}

		jobs = append(jobs, &job)
	}

	return jobs, total, nil
}

func (r *firestoreJobRequestRepository) Update(ctx context.Context, job *entity.JobRequest) error {
	job.UpdatedAt = time.Now()

	_, err := r.client.Collection("jobRequests").Doc(job.ID).Set(ctx, job)
	if err != nil {
		return errors.Internal("Failed to update job request", err)
	}

	return nil
}

func (r *firestoreJobRequestRepository) TransitionStatus(ctx context.Context, id, from, to string) (*entity.JobRequest, error) {
	var updated entity.JobRequest

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		docRef := r.client.Collection("jobRequests").Doc(id)
		doc, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Job request", err)
			}
			return err
		}

		var job entity.JobRequest
		if err := doc.DataTo(&job); err != nil {
			return err
		}

		if job.Status != from {
			return errors.InvalidState("Job request is not " + from)
		}

		job.Status = to
		job.UpdatedAt = time.Now()
		updated = job

		return tx.Set(docRef, job)
	})

	if err != nil {
		if errors.Is(err, "NOT_FOUND") || errors.Is(err, "INVALID_STATE") {
			return nil, err
		}
		return nil, errors.Internal("Failed to transition job request status", err)
	}

	return &updated, nil
}
