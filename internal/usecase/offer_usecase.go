package usecase

import (
	"context"

	"naafe/internal/domain/entity"
	"naafe/internal/domain/repository"
	"naafe/internal/infrastructure/ratelimit"
	"naafe/pkg/errors"
	"naafe/pkg/logger"
)

type OfferUseCase struct {
	offerRepo        repository.OfferRepository
	jobRequestRepo   repository.JobRequestRepository
	userRepo         repository.UserRepository
	conversationRepo repository.ConversationRepository
	notificationUC   *NotificationUseCase
	rateLimiter      *ratelimit.RateLimiter
}

func NewOfferUseCase(
	offerRepo repository.OfferRepository,
	jobRequestRepo repository.JobRequestRepository,
	userRepo repository.UserRepository,
	conversationRepo repository.ConversationRepository,
	notificationUC *NotificationUseCase,
	rateLimiter *ratelimit.RateLimiter,
) *OfferUseCase {
	return &OfferUseCase{
		offerRepo:        offerRepo,
		jobRequestRepo:   jobRequestRepo,
		userRepo:         userRepo,
		conversationRepo: conversationRepo,
		notificationUC:   notificationUC,
		rateLimiter:      rateLimiter,
	}
}

type CreateOfferInput struct {
	JobRequestID  string  `json:"job_request_id" validate:"required"`
	BudgetMin     float64 `json:"budget_min" validate:"required,gt=0"`
	BudgetMax     float64 `json:"budget_max" validate:"required,gt=0"`
	Message       string  `json:"message" validate:"max=2000"`
	EstimatedDays int     `json:"estimated_days" validate:"required,gt=0"`
}

type UpdateOfferInput struct {
	BudgetMin     float64 `json:"budget_min" validate:"required,gt=0"`
	BudgetMax     float64 `json:"budget_max" validate:"required,gt=0"`
	Message       string  `json:"message" validate:"max=2000"`
	EstimatedDays int     `json:"estimated_days" validate:"required,gt=0"`
}

// AcceptOfferResult carries everything the accept flow produced so the
// caller can respond without re-reading.
type AcceptOfferResult struct {
	Offer        *entity.Offer        `json:"offer"`
	JobRequest   *entity.JobRequest   `json:"job_request"`
	Conversation *entity.Conversation `json:"conversation"`
}

func (uc *OfferUseCase) CreateOffer(ctx context.Context, providerID string, input CreateOfferInput) (*entity.Offer, error) {
	provider, err := uc.userRepo.GetByID(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if !provider.HasRole(entity.RoleProvider) {
		return nil, errors.Forbidden("Only providers can submit offers", nil)
	}

	job, err := uc.jobRequestRepo.GetByID(ctx, input.JobRequestID)
	if err != nil {
		return nil, err
	}
	if job.Status != entity.JobStatusOpen {
		return nil, errors.InvalidState("Job request is not open")
	}
	if job.SeekerID == providerID {
		return nil, errors.Forbidden("You cannot submit an offer on your own job request", nil)
	}

	budget := entity.BudgetRange{Min: input.BudgetMin, Max: input.BudgetMax}
	if !budget.Valid() {
		return nil, errors.Validation("Budget minimum must be positive and not exceed the maximum")
	}
	if !job.Budget.Contains(budget) {
		return nil, errors.Validation("Offer budget must fall within the job request budget range")
	}

	if uc.rateLimiter != nil {
		if allowed, _ := uc.rateLimiter.Allow(providerID, ratelimit.ActionCreateOffer); !allowed {
			return nil, errors.TooManyRequests("Too many offers, slow down")
		}
	}

	offer := &entity.Offer{
		JobRequestID:  input.JobRequestID,
		ProviderID:    providerID,
		Budget:        budget,
		Message:       input.Message,
		EstimatedDays: input.EstimatedDays,
	}

	if err := uc.offerRepo.CreateIfNoActive(ctx, offer); err != nil {
		return nil, err
	}

	if err := uc.notificationUC.Notify(ctx, job.SeekerID,
		entity.NotificationOfferReceived,
		"New offer received",
		provider.Username+" sent an offer on \""+job.Title+"\"",
		job.ID,
	); err != nil {
		logger.LogDispatchError(job.SeekerID, "offer_received", err)
	}

	return offer, nil
}

// UpdateOffer lets the provider revise a still pending offer. Terminal
// offers are immutable.
func (uc *OfferUseCase) UpdateOffer(ctx context.Context, offerID, providerID string, input UpdateOfferInput) (*entity.Offer, error) {
	offer, err := uc.offerRepo.GetByID(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if offer.ProviderID != providerID {
		return nil, errors.Forbidden("Only the offer owner can update it", nil)
	}
	if offer.Terminal() {
		return nil, errors.InvalidState("Offer is not pending")
	}

	job, err := uc.jobRequestRepo.GetByID(ctx, offer.JobRequestID)
	if err != nil {
		return nil, err
	}

	budget := entity.BudgetRange{Min: input.BudgetMin, Max: input.BudgetMax}
	if !budget.Valid() {
		return nil, errors.Validation("Budget minimum must be positive and not exceed the maximum")
	}
	if !job.Budget.Contains(budget) {
		return nil, errors.Validation("Offer budget must fall within the job request budget range")
	}

	offer.Budget = budget
	offer.Message = input.Message
	offer.EstimatedDays = input.EstimatedDays

	if err := uc.offerRepo.Update(ctx, offer); err != nil {
		return nil, err
	}

	return offer, nil
}

// AcceptOffer runs the full acceptance flow: the offer and job transition
// together atomically, then the remaining pending offers are rejected, the
// conversation is opened and the provider is notified. A failure after the
// transition is returned to the caller; the sibling rejections and the
// conversation stay individually reachable through RejectOffer and
// StartNegotiation, so the state can be repaired without re-running the
// transition. Only the notification is fire-and-forget.
func (uc *OfferUseCase) AcceptOffer(ctx context.Context, offerID, seekerID string) (*AcceptOfferResult, error) {
	offer, err := uc.offerRepo.GetByID(ctx, offerID)
	if err != nil {
		return nil, err
	}

	job, err := uc.jobRequestRepo.GetByID(ctx, offer.JobRequestID)
	if err != nil {
		return nil, err
	}
	if job.SeekerID != seekerID {
		return nil, errors.Forbidden("Only the job request owner can accept offers", nil)
	}

	acceptedOffer, assignedJob, err := uc.offerRepo.AcceptPending(ctx, offerID)
	if err != nil {
		return nil, err
	}

	if _, err := uc.offerRepo.RejectSiblingPending(ctx, assignedJob.ID, acceptedOffer.ID); err != nil {
		logger.Error("Failed to reject sibling offers for job %s: %v", assignedJob.ID, err)
		return nil, errors.Internal("Offer was accepted but rejecting the remaining offers failed", err)
	}

	conv, _, err := uc.conversationRepo.GetOrCreate(ctx, &entity.Conversation{
		JobRequestID: assignedJob.ID,
		SeekerID:     assignedJob.SeekerID,
		ProviderID:   acceptedOffer.ProviderID,
		Participants: []string{assignedJob.SeekerID, acceptedOffer.ProviderID},
	})
	if err != nil {
		logger.Error("Failed to open conversation for job %s: %v", assignedJob.ID, err)
		return nil, errors.Internal("Offer was accepted but opening the conversation failed", err)
	}

	if err := uc.notificationUC.Notify(ctx, acceptedOffer.ProviderID,
		entity.NotificationOfferAccepted,
		"Offer accepted",
		"Your offer on \""+assignedJob.Title+"\" was accepted",
		conv.ID,
	); err != nil {
		logger.LogDispatchError(acceptedOffer.ProviderID, "offer_accepted", err)
	}

	return &AcceptOfferResult{
		Offer:        acceptedOffer,
		JobRequest:   assignedJob,
		Conversation: conv,
	}, nil
}

func (uc *OfferUseCase) RejectOffer(ctx context.Context, offerID, seekerID string) (*entity.Offer, error) {
	offer, err := uc.offerRepo.GetByID(ctx, offerID)
	if err != nil {
		return nil, err
	}

	job, err := uc.jobRequestRepo.GetByID(ctx, offer.JobRequestID)
	if err != nil {
		return nil, err
	}
	if job.SeekerID != seekerID {
		return nil, errors.Forbidden("Only the job request owner can reject offers", nil)
	}

	rejected, err := uc.offerRepo.TransitionStatus(ctx, offerID, entity.OfferStatusPending, entity.OfferStatusRejected)
	if err != nil {
		return nil, err
	}

	if err := uc.notificationUC.Notify(ctx, rejected.ProviderID,
		entity.NotificationOfferRejected,
		"Offer declined",
		"Your offer on \""+job.Title+"\" was declined",
		"",
	); err != nil {
		logger.LogDispatchError(rejected.ProviderID, "offer_rejected", err)
	}

	return rejected, nil
}

func (uc *OfferUseCase) WithdrawOffer(ctx context.Context, offerID, providerID string) (*entity.Offer, error) {
	offer, err := uc.offerRepo.GetByID(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if offer.ProviderID != providerID {
		return nil, errors.Forbidden("Only the offer owner can withdraw it", nil)
	}

	return uc.offerRepo.TransitionStatus(ctx, offerID, entity.OfferStatusPending, entity.OfferStatusWithdrawn)
}

func (uc *OfferUseCase) GetByID(ctx context.Context, offerID, callerID string) (*entity.Offer, error) {
	offer, err := uc.offerRepo.GetByID(ctx, offerID)
	if err != nil {
		return nil, err
	}

	job, err := uc.jobRequestRepo.GetByID(ctx, offer.JobRequestID)
	if err != nil {
		return nil, err
	}
	if offer.ProviderID != callerID && job.SeekerID != callerID {
		return nil, errors.Forbidden("You do not have access to this offer", nil)
	}

	return offer, nil
}

// ListForJobRequest lists every offer on a job request. Only the job
// request owner sees the full list.
func (uc *OfferUseCase) ListForJobRequest(ctx context.Context, jobRequestID, callerID string) ([]*entity.Offer, error) {
	job, err := uc.jobRequestRepo.GetByID(ctx, jobRequestID)
	if err != nil {
		return nil, err
	}
	if job.SeekerID != callerID {
		return nil, errors.Forbidden("Only the job request owner can list its offers", nil)
	}

	return uc.offerRepo.ListByJobRequestID(ctx, jobRequestID)
}

func (uc *OfferUseCase) ListMine(ctx context.Context, providerID string, limit, offset int) ([]*entity.Offer, int64, error) {
	return uc.offerRepo.ListByProviderID(ctx, providerID, limit, offset)
}
