package rest

import (
	"context"
	"net/http"
	"strconv"

	"splitHub/business/assignment"
	"splitHub/domain"
	"splitHub/pkg/response"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type DebugService interface {
	DebugScores(ctx context.Context, experimentID string, samples int) (domain.ExperimentDebug, error)
}

type ExperimentAdminHandler struct {
	validate    *validator.Validate
	debug       DebugService
	experiments assignment.ExperimentRepository
	cfgRepo     assignment.ConfigRepository
}

func NewExperimentAdminHandler(
	debug DebugService,
	experiments assignment.ExperimentRepository,
	cfgRepo assignment.ConfigRepository,
) *ExperimentAdminHandler {
	return &ExperimentAdminHandler{
		validate:    validator.New(),
		debug:       debug,
		experiments: experiments,
		cfgRepo:     cfgRepo,
	}
}

// GET /api/v1/admin/experiments/:id/debug?samples=1000
func (h *ExperimentAdminHandler) Debug(c echo.Context) error {
	samples := 0
	if raw := c.QueryParam("samples"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return c.JSON(http.StatusBadRequest, response.Error("INVALID_REQUEST", "invalid samples", nil))
		}
		samples = n
	}

	out, err := h.debug.DebugScores(c.Request().Context(), c.Param("id"), samples)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(out))
}

// GET /api/v1/admin/experiments/:id/bandit-config
func (h *ExperimentAdminHandler) GetConfig(c echo.Context) error {
	ctx := c.Request().Context()

	cfg, ok, err := h.cfgRepo.GetConfig(ctx, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	if !ok {
		return c.JSON(http.StatusNotFound, response.Error("CONFIG_NOT_FOUND", "bandit config not found", nil))
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(cfg))
}

// PUT /api/v1/admin/experiments/:id/bandit-config
// body: BanditConfig JSON; omitted fields fall back to the service defaults
func (h *ExperimentAdminHandler) UpsertConfig(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	var body domain.BanditConfig
	if err := c.Bind(&body); err != nil {
		return badRequest(c, err)
	}
	body.ExperimentID = id
	if err := h.validate.Struct(&body); err != nil {
		return badRequest(c, err)
	}
	if _, err := h.experiments.GetExperiment(ctx, id); err != nil {
		return writeError(c, err)
	}

	if err := h.cfgRepo.UpsertConfig(ctx, body); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(body))
}
