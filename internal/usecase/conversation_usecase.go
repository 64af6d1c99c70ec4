package usecase

import (
	"context"

	"naafe/internal/domain/entity"
	"naafe/internal/domain/repository"
	"naafe/internal/infrastructure/ratelimit"
	"naafe/pkg/errors"

	ws "naafe/internal/infrastructure/websocket"
)

type ConversationUseCase struct {
	conversationRepo repository.ConversationRepository
	offerRepo        repository.OfferRepository
	jobRequestRepo   repository.JobRequestRepository
	pusher           Pusher
	rateLimiter      *ratelimit.RateLimiter
}

func NewConversationUseCase(
	conversationRepo repository.ConversationRepository,
	offerRepo repository.OfferRepository,
	jobRequestRepo repository.JobRequestRepository,
	pusher Pusher,
	rateLimiter *ratelimit.RateLimiter,
) *ConversationUseCase {
	return &ConversationUseCase{
		conversationRepo: conversationRepo,
		offerRepo:        offerRepo,
		jobRequestRepo:   jobRequestRepo,
		pusher:           pusher,
		rateLimiter:      rateLimiter,
	}
}

// StartNegotiation opens the conversation for a pending offer before any
// acceptance, so the two sides can discuss terms. Either side of the offer
// may open it. An accepted offer qualifies too, which lets an acceptance
// that failed after its transition recover its conversation.
func (uc *ConversationUseCase) StartNegotiation(ctx context.Context, offerID, callerID string) (*entity.Conversation, error) {
	offer, err := uc.offerRepo.GetByID(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if offer.Status != entity.OfferStatusPending && offer.Status != entity.OfferStatusAccepted {
		return nil, errors.InvalidState("Offer is not pending")
	}

	job, err := uc.jobRequestRepo.GetByID(ctx, offer.JobRequestID)
	if err != nil {
		return nil, err
	}
	if callerID != job.SeekerID && callerID != offer.ProviderID {
		return nil, errors.Forbidden("You do not have access to this offer", nil)
	}

	if uc.rateLimiter != nil {
		if allowed, _ := uc.rateLimiter.Allow(callerID, ratelimit.ActionStartConversation); !allowed {
			return nil, errors.TooManyRequests("Too many conversations started, slow down")
		}
	}

	conv, _, err := uc.conversationRepo.GetOrCreate(ctx, &entity.Conversation{
		JobRequestID: job.ID,
		SeekerID:     job.SeekerID,
		ProviderID:   offer.ProviderID,
		Participants: []string{job.SeekerID, offer.ProviderID},
	})
	if err != nil {
		return nil, err
	}

	return conv, nil
}

// CanAccess is the authorization gate for every message read or write.
func (uc *ConversationUseCase) CanAccess(ctx context.Context, conversationID, userID string) (bool, error) {
	conv, err := uc.conversationRepo.GetByID(ctx, conversationID)
	if err != nil {
		return false, err
	}
	return conv.HasParticipant(userID), nil
}

func (uc *ConversationUseCase) Get(ctx context.Context, conversationID, callerID string) (*entity.Conversation, error) {
	conv, err := uc.conversationRepo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conv.HasParticipant(callerID) {
		return nil, errors.Forbidden("You do not have access to this conversation", nil)
	}
	return conv, nil
}

func (uc *ConversationUseCase) ListMine(ctx context.Context, userID string, limit, offset int) ([]*entity.Conversation, int64, error) {
	return uc.conversationRepo.ListByUserID(ctx, userID, limit, offset)
}

// MarkMessagesAsRead flips the caller's unread messages and tells the other
// participant's session so delivered checkmarks update live.
func (uc *ConversationUseCase) MarkMessagesAsRead(ctx context.Context, conversationID, userID string) (int, error) {
	conv, err := uc.conversationRepo.GetByID(ctx, conversationID)
	if err != nil {
		return 0, err
	}
	if !conv.HasParticipant(userID) {
		return 0, errors.Forbidden("You do not have access to this conversation", nil)
	}

	count, err := uc.conversationRepo.MarkMessagesAsRead(ctx, conversationID, userID)
	if err != nil {
		return 0, err
	}

	if count > 0 && uc.pusher != nil {
		other := conv.OtherParticipant(userID)
		uc.pusher.SendToUser(other, ws.NewEvent(ws.EventMessagesRead, map[string]interface{}{
			"conversation_id": conversationID,
			"reader_id":       userID,
			"count":           count,
		}))
	}

	return count, nil
}
