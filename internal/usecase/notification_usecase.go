package usecase

import (
	"context"

	"naafe/internal/domain/entity"
	"naafe/internal/domain/repository"
	"naafe/pkg/logger"

	ws "naafe/internal/infrastructure/websocket"
)

type NotificationUseCase struct {
	notificationRepo repository.NotificationRepository
	pusher           Pusher
}

func NewNotificationUseCase(
	notificationRepo repository.NotificationRepository,
	pusher Pusher,
) *NotificationUseCase {
	return &NotificationUseCase{
		notificationRepo: notificationRepo,
		pusher:           pusher,
	}
}

// Notify persists the notification and then attempts a real-time push.
// Persistence is the source of truth: a failed push is logged and
// swallowed, so the caller's operation never fails because a socket is
// down.
func (uc *NotificationUseCase) Notify(ctx context.Context, userID, notifType, title, message, relatedChatID string) error {
	notification := &entity.Notification{
		UserID:        userID,
		Type:          notifType,
		Title:         title,
		Message:       message,
		RelatedChatID: relatedChatID,
	}

	if err := uc.notificationRepo.Create(ctx, notification); err != nil {
		return err
	}

	eventType, ok := pushEventFor(notifType)
	if !ok {
		return nil
	}

	if uc.pusher == nil {
		return nil
	}

	delivered := uc.pusher.SendToUser(userID, ws.NewEvent(eventType, map[string]interface{}{
		"id":              notification.ID,
		"type":            notification.Type,
		"title":           notification.Title,
		"message":         notification.Message,
		"related_chat_id": notification.RelatedChatID,
	}))
	if !delivered {
		logger.Debug("Notification push skipped, user %s offline", userID)
	}

	return nil
}

func pushEventFor(notifType string) (string, bool) {
	switch notifType {
	case entity.NotificationOfferReceived:
		return ws.EventNotifyOfferCreated, true
	case entity.NotificationOfferAccepted:
		return ws.EventNotifyOfferAccept, true
	case entity.NotificationNewMessage:
		return ws.EventNotifyNewMessage, true
	default:
		return "", false
	}
}

func (uc *NotificationUseCase) List(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]*entity.Notification, int64, error) {
	return uc.notificationRepo.ListByUserID(ctx, userID, unreadOnly, limit, offset)
}

func (uc *NotificationUseCase) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return uc.notificationRepo.CountUnread(ctx, userID)
}

func (uc *NotificationUseCase) MarkAllRead(ctx context.Context, userID, notifType string) (int, error) {
	return uc.notificationRepo.MarkAllRead(ctx, userID, notifType)
}
