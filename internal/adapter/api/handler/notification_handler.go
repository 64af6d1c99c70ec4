package handler

import (
	"naafe/internal/usecase"
	"naafe/pkg/response"
	"naafe/pkg/utils"

	"github.com/labstack/echo/v4"
)

type NotificationHandler struct {
	notificationUseCase *usecase.NotificationUseCase
}

func NewNotificationHandler(notificationUseCase *usecase.NotificationUseCase) *NotificationHandler {
	return &NotificationHandler{
		notificationUseCase: notificationUseCase,
	}
}

func (h *NotificationHandler) List(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)
	uid := c.Get("uid").(string)
	unreadOnly := c.QueryParam("unread") == "true"

	notifications, total, err := h.notificationUseCase.List(c.Request().Context(), uid, unreadOnly, pagination.Limit, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.SuccessPaginated(c, notifications, total, pagination.Limit, pagination.Offset)
}

func (h *NotificationHandler) UnreadCount(c echo.Context) error {
	uid := c.Get("uid").(string)

	count, err := h.notificationUseCase.UnreadCount(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]interface{}{
		"unread": count,
	})
}

func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	uid := c.Get("uid").(string)
	notifType := c.QueryParam("type")

	count, err := h.notificationUseCase.MarkAllRead(c.Request().Context(), uid, notifType)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]interface{}{
		"marked_read": count,
	})
}
