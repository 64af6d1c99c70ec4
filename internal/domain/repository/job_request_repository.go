package repository

import (
	"context"

	"naafe/internal/domain/entity"
)

type JobRequestRepository interface {
	Create(ctx context.Context, job *entity.JobRequest) error
	GetByID(ctx context.Context, id string) (*entity.JobRequest, error)
	ListBySeekerID(ctx context.Context, seekerID string, limit, offset int) ([]*entity.JobRequest, int64, error)
	ListOpen(ctx context.Context, category string, limit, offset int) ([]*entity.JobRequest, int64, error)
	Update(ctx context.Context, job *entity.JobRequest) error

	// TransitionStatus performs the precondition check and the status write as
	// one atomic unit against the store. It fails with INVALID_STATE when the
	// job is not in the from status.
	TransitionStatus(ctx context.Context, id, from, to string) (*entity.JobRequest, error)
}
