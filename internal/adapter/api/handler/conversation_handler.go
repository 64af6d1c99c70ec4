package handler

import (
	"naafe/internal/usecase"
	"naafe/pkg/response"
	"naafe/pkg/utils"

	"github.com/labstack/echo/v4"
)

type ConversationHandler struct {
	conversationUseCase *usecase.ConversationUseCase
	messageUseCase      *usecase.MessageUseCase
}

func NewConversationHandler(conversationUseCase *usecase.ConversationUseCase, messageUseCase *usecase.MessageUseCase) *ConversationHandler {
	return &ConversationHandler{
		conversationUseCase: conversationUseCase,
		messageUseCase:      messageUseCase,
	}
}

type startNegotiationRequest struct {
	OfferID string `json:"offer_id" validate:"required"`
}

type sendMessageRequest struct {
	Content string `json:"content" validate:"required,max=5000"`
}

// StartNegotiation opens the conversation for a pending offer so the two
// sides can talk before any acceptance.
func (h *ConversationHandler) StartNegotiation(c echo.Context) error {
	var req startNegotiationRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	uid := c.Get("uid").(string)

	conv, err := h.conversationUseCase.StartNegotiation(c.Request().Context(), req.OfferID, uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, conv)
}

func (h *ConversationHandler) Get(c echo.Context) error {
	uid := c.Get("uid").(string)

	conv, err := h.conversationUseCase.Get(c.Request().Context(), c.Param("id"), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, conv)
}

func (h *ConversationHandler) ListMine(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)
	uid := c.Get("uid").(string)

	conversations, total, err := h.conversationUseCase.ListMine(c.Request().Context(), uid, pagination.Limit, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.SuccessPaginated(c, conversations, total, pagination.Limit, pagination.Offset)
}

func (h *ConversationHandler) GetMessages(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)
	uid := c.Get("uid").(string)

	messages, total, err := h.messageUseCase.GetMessages(c.Request().Context(), c.Param("id"), uid, pagination.Limit, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.SuccessPaginated(c, messages, total, pagination.Limit, pagination.Offset)
}

// SendMessage is the REST fallback for clients without a live socket.
func (h *ConversationHandler) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	uid := c.Get("uid").(string)

	message, err := h.messageUseCase.SendMessage(c.Request().Context(), c.Param("id"), uid, req.Content)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, message)
}

func (h *ConversationHandler) MarkRead(c echo.Context) error {
	uid := c.Get("uid").(string)

	count, err := h.conversationUseCase.MarkMessagesAsRead(c.Request().Context(), c.Param("id"), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]interface{}{
		"marked_read": count,
	})
}
