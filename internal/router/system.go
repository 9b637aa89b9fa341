package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/breezi/internal/handler"
)

// registerSystemRoutes registers endpoints that are not procedures.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)
}
