package repository

import (
	"context"

	"naafe/internal/domain/entity"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification) error
	ListByUserID(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]*entity.Notification, int64, error)
	CountUnread(ctx context.Context, userID string) (int64, error)

	// MarkAllRead is scoped to one user; notifType narrows it to a single
	// type when non-empty. Returns the count affected.
	MarkAllRead(ctx context.Context, userID, notifType string) (int, error)
}
