package rest

import (
	"context"
	"net/http"
	"time"

	"splitHub/business/assignment"
	"splitHub/domain"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	AssignmentService interface {
		Assign(ctx context.Context, req assignment.AssignRequest) (domain.AssignmentResult, error)
		RecordConversion(ctx context.Context, req assignment.ConversionRequest) (domain.ConversionResult, error)
	}

	AssignmentHandler struct {
		validate *validator.Validate
		service  AssignmentService
		timeout  time.Duration
	}

	AssignmentRequest struct {
		ExperimentID  string         `json:"experiment_id" validate:"required_without=ExperimentKey"`
		ExperimentKey string         `json:"experiment_key" validate:"required_without=ExperimentID"`
		VisitorID     string         `json:"visitor_id" validate:"required,max=255"`
		Context       map[string]any `json:"context"`
	}

	ConversionRequest struct {
		ExperimentID  string         `json:"experiment_id" validate:"required_without=ExperimentKey"`
		ExperimentKey string         `json:"experiment_key" validate:"required_without=ExperimentID"`
		VisitorID     string         `json:"visitor_id" validate:"required,max=255"`
		Revenue       float64        `json:"revenue" validate:"gte=0"`
		Context       map[string]any `json:"context"`
	}
)

func NewAssignmentHandler(svc AssignmentService, timeout time.Duration) *AssignmentHandler {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &AssignmentHandler{
		validate: validator.New(),
		service:  svc,
		timeout:  timeout,
	}
}

// POST /api/v1/assignments
func (h *AssignmentHandler) Assign(c echo.Context) error {
	var req AssignmentRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}
	if err := h.validate.Struct(&req); err != nil {
		return badRequest(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	res, err := h.service.Assign(ctx, assignment.AssignRequest{
		ExperimentID:  req.ExperimentID,
		ExperimentKey: req.ExperimentKey,
		VisitorID:     req.VisitorID,
		Context:       req.Context,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(res))
}

// POST /api/v1/conversions
func (h *AssignmentHandler) Convert(c echo.Context) error {
	var req ConversionRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}
	if err := h.validate.Struct(&req); err != nil {
		return badRequest(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	res, err := h.service.RecordConversion(ctx, assignment.ConversionRequest{
		ExperimentID:  req.ExperimentID,
		ExperimentKey: req.ExperimentKey,
		VisitorID:     req.VisitorID,
		Revenue:       req.Revenue,
		Context:       req.Context,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(res))
}
