package usecase

import (
	"context"

	"naafe/internal/domain/entity"
	"naafe/internal/domain/repository"
	"naafe/pkg/errors"
)

type JobRequestUseCase struct {
	jobRequestRepo repository.JobRequestRepository
	userRepo       repository.UserRepository
}

func NewJobRequestUseCase(
	jobRequestRepo repository.JobRequestRepository,
	userRepo repository.UserRepository,
) *JobRequestUseCase {
	return &JobRequestUseCase{
		jobRequestRepo: jobRequestRepo,
		userRepo:       userRepo,
	}
}

type CreateJobRequestInput struct {
	Title       string  `json:"title" validate:"required,min=3,max=120"`
	Description string  `json:"description" validate:"required,min=10"`
	Category    string  `json:"category" validate:"required"`
	BudgetMin   float64 `json:"budget_min" validate:"required,gt=0"`
	BudgetMax   float64 `json:"budget_max" validate:"required,gt=0"`
}

func (uc *JobRequestUseCase) Create(ctx context.Context, seekerID string, input CreateJobRequestInput) (*entity.JobRequest, error) {
	seeker, err := uc.userRepo.GetByID(ctx, seekerID)
	if err != nil {
		return nil, err
	}
	if !seeker.HasRole(entity.RoleSeeker) {
		return nil, errors.Forbidden("Only seekers can post job requests", nil)
	}

	budget := entity.BudgetRange{Min: input.BudgetMin, Max: input.BudgetMax}
	if !budget.Valid() {
		return nil, errors.Validation("Budget minimum must be positive and not exceed the maximum")
	}

	job := &entity.JobRequest{
		SeekerID:    seekerID,
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Budget:      budget,
	}

	if err := uc.jobRequestRepo.Create(ctx, job); err != nil {
		return nil, err
	}

	return job, nil
}

func (uc *JobRequestUseCase) GetByID(ctx context.Context, id string) (*entity.JobRequest, error) {
	return uc.jobRequestRepo.GetByID(ctx, id)
}

func (uc *JobRequestUseCase) ListOpen(ctx context.Context, category string, limit, offset int) ([]*entity.JobRequest, int64, error) {
	return uc.jobRequestRepo.ListOpen(ctx, category, limit, offset)
}

func (uc *JobRequestUseCase) ListMine(ctx context.Context, seekerID string, limit, offset int) ([]*entity.JobRequest, int64, error) {
	return uc.jobRequestRepo.ListBySeekerID(ctx, seekerID, limit, offset)
}

// Cancel withdraws an open job request. Anything past open is already
// committed to a provider and cannot be cancelled here.
func (uc *JobRequestUseCase) Cancel(ctx context.Context, jobRequestID, callerID string) (*entity.JobRequest, error) {
	job, err := uc.jobRequestRepo.GetByID(ctx, jobRequestID)
	if err != nil {
		return nil, err
	}
	if job.SeekerID != callerID {
		return nil, errors.Forbidden("Only the job request owner can cancel it", nil)
	}

	return uc.jobRequestRepo.TransitionStatus(ctx, jobRequestID, entity.JobStatusOpen, entity.JobStatusCancelled)
}

// Start moves an assigned job into progress. Only the assigned provider
// may start it.
func (uc *JobRequestUseCase) Start(ctx context.Context, jobRequestID, callerID string) (*entity.JobRequest, error) {
	job, err := uc.jobRequestRepo.GetByID(ctx, jobRequestID)
	if err != nil {
		return nil, err
	}
	if job.AssignedTo != callerID {
		return nil, errors.Forbidden("Only the assigned provider can start this job", nil)
	}

	return uc.jobRequestRepo.TransitionStatus(ctx, jobRequestID, entity.JobStatusAssigned, entity.JobStatusInProgress)
}

// Complete closes out a job in progress. The seeker confirms completion.
func (uc *JobRequestUseCase) Complete(ctx context.Context, jobRequestID, callerID string) (*entity.JobRequest, error) {
	job, err := uc.jobRequestRepo.GetByID(ctx, jobRequestID)
	if err != nil {
		return nil, err
	}
	if job.SeekerID != callerID {
		return nil, errors.Forbidden("Only the job request owner can complete it", nil)
	}

	return uc.jobRequestRepo.TransitionStatus(ctx, jobRequestID, entity.JobStatusInProgress, entity.JobStatusCompleted)
}
