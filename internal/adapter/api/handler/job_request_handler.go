package handler

import (
	"naafe/internal/usecase"
	"naafe/pkg/response"
	"naafe/pkg/utils"

	"github.com/labstack/echo/v4"
)

type JobRequestHandler struct {
	jobRequestUseCase *usecase.JobRequestUseCase
}

func NewJobRequestHandler(jobRequestUseCase *usecase.JobRequestUseCase) *JobRequestHandler {
	return &JobRequestHandler{
		jobRequestUseCase: jobRequestUseCase,
	}
}

func (h *JobRequestHandler) Create(c echo.Context) error {
	var req usecase.CreateJobRequestInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	uid := c.Get("uid").(string)

	job, err := h.jobRequestUseCase.Create(c.Request().Context(), uid, req)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, job)
}

func (h *JobRequestHandler) Get(c echo.Context) error {
	job, err := h.jobRequestUseCase.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, job)
}

func (h *JobRequestHandler) ListOpen(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)
	category := c.QueryParam("category")

	jobs, total, err := h.jobRequestUseCase.ListOpen(c.Request().Context(), category, pagination.Limit, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.SuccessPaginated(c, jobs, total, pagination.Limit, pagination.Offset)
}

func (h *JobRequestHandler) ListMine(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)
	uid := c.Get("uid").(string)

	jobs, total, err := h.jobRequestUseCase.ListMine(c.Request().Context(), uid, pagination.Limit, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.SuccessPaginated(c, jobs, total, pagination.Limit, pagination.Offset)
}

func (h *JobRequestHandler) Cancel(c echo.Context) error {
	uid := c.Get("uid").(string)

	job, err := h.jobRequestUseCase.Cancel(c.Request().Context(), c.Param("id"), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, job)
}

func (h *JobRequestHandler) Start(c echo.Context) error {
	uid := c.Get("uid").(string)

	job, err := h.jobRequestUseCase.Start(c.Request().Context(), c.Param("id"), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, job)
}

func (h *JobRequestHandler) Complete(c echo.Context) error {
	uid := c.Get("uid").(string)

	job, err := h.jobRequestUseCase.Complete(c.Request().Context(), c.Param("id"), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, job)
}
