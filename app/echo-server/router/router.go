package router

import (
	"splitHub/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetAssignmentRoutes(api *echo.Group, handler *rest.AssignmentHandler) {
	api.POST("/assignments", handler.Assign)
	api.POST("/conversions", handler.Convert)
}

func SetExperimentAdminRoutes(api *echo.Group, handler *rest.ExperimentAdminHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	admin := api.Group("/admin/experiments", authRequired, adminOnly)

	admin.GET("/:id/debug", handler.Debug)
	admin.GET("/:id/bandit-config", handler.GetConfig)
	admin.PUT("/:id/bandit-config", handler.UpsertConfig)
}
