package handler

import (
	"naafe/internal/usecase"
	"naafe/pkg/response"
	"naafe/pkg/utils"

	"github.com/labstack/echo/v4"
)

type OfferHandler struct {
	offerUseCase *usecase.OfferUseCase
}

func NewOfferHandler(offerUseCase *usecase.OfferUseCase) *OfferHandler {
	return &OfferHandler{
		offerUseCase: offerUseCase,
	}
}

func (h *OfferHandler) Create(c echo.Context) error {
	var req usecase.CreateOfferInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	uid := c.Get("uid").(string)

	offer, err := h.offerUseCase.CreateOffer(c.Request().Context(), uid, req)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, offer)
}

func (h *OfferHandler) Get(c echo.Context) error {
	uid := c.Get("uid").(string)

	offer, err := h.offerUseCase.GetByID(c.Request().Context(), c.Param("id"), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, offer)
}

func (h *OfferHandler) Update(c echo.Context) error {
	var req usecase.UpdateOfferInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	uid := c.Get("uid").(string)

	offer, err := h.offerUseCase.UpdateOffer(c.Request().Context(), c.Param("id"), uid, req)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, offer)
}

func (h *OfferHandler) Accept(c echo.Context) error {
	uid := c.Get("uid").(string)

	result, err := h.offerUseCase.AcceptOffer(c.Request().Context(), c.Param("id"), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, result)
}

func (h *OfferHandler) Reject(c echo.Context) error {
	uid := c.Get("uid").(string)

	offer, err := h.offerUseCase.RejectOffer(c.Request().Context(), c.Param("id"), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, offer)
}

func (h *OfferHandler) Withdraw(c echo.Context) error {
	uid := c.Get("uid").(string)

	offer, err := h.offerUseCase.WithdrawOffer(c.Request().Context(), c.Param("id"), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, offer)
}

func (h *OfferHandler) ListForJobRequest(c echo.Context) error {
	uid := c.Get("uid").(string)

	offers, err := h.offerUseCase.ListForJobRequest(c.Request().Context(), c.Param("id"), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, offers)
}

func (h *OfferHandler) ListMine(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)
	uid := c.Get("uid").(string)

	offers, total, err := h.offerUseCase.ListMine(c.Request().Context(), uid, pagination.Limit, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.SuccessPaginated(c, offers, total, pagination.Limit, pagination.Offset)
}
