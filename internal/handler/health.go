package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/breezi/internal/server"
	"github.com/deppfellow/breezi/internal/sqlerr"
)

const defaultHealthTimeout = 5 * time.Second

// HealthHandler serves GET /status for load balancers and uptime monitors.
type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

// CheckResult is the outcome of one dependency check.
type CheckResult struct {
	Status       string `json:"status"`
	ResponseTime string `json:"response_time"`

	// Error is the storage failure kind, never the driver message.
	Error string `json:"error,omitempty"`
}

// HealthResponse is the body of GET /status.
type HealthResponse struct {
	Status      string                 `json:"status"`
	Timestamp   time.Time              `json:"timestamp"`
	Environment string                 `json:"environment"`
	Database    string                 `json:"database"`
	Checks      map[string]CheckResult `json:"checks,omitempty"`
}

// CheckHealth answers 200 when storage answers a ping within the configured
// timeout and 503 otherwise. With health checks disabled it only reports
// liveness.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()
	logger := h.requestLogger(c, "health_check")
	h.transaction(c, "health")

	response := HealthResponse{
		Status:      "healthy",
		Timestamp:   time.Now().UTC(),
		Environment: h.server.Config.Primary.Env,
		Database:    h.server.Repositories.Driver(),
	}

	checksCfg := h.server.Config.Observability.HealthChecks
	if !checksCfg.Enabled {
		return c.JSON(http.StatusOK, response)
	}

	timeout := checksCfg.Timeout
	if timeout <= 0 {
		timeout = defaultHealthTimeout
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), timeout)
	defer cancel()

	response.Checks = make(map[string]CheckResult, 1)

	dbStart := time.Now()
	if err := h.server.Repositories.Ping(ctx); err != nil {
		kind := sqlerr.KindOf(err).String()
		response.Status = "unhealthy"
		response.Checks["database"] = CheckResult{
			Status:       "unhealthy",
			ResponseTime: time.Since(dbStart).String(),
			Error:        kind,
		}

		logger.Error().
			Err(err).
			Str("storage_kind", kind).
			Dur("response_time", time.Since(dbStart)).
			Msg("database health check failed")

		h.recordEvent("HealthCheckError", map[string]any{
			"check_type":       "database",
			"operation":        "health_check",
			"error_type":       "database_unhealthy",
			"response_time_ms": time.Since(dbStart).Milliseconds(),
			"storage_kind":     kind,
		})

		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	response.Checks["database"] = CheckResult{
		Status:       "healthy",
		ResponseTime: time.Since(dbStart).String(),
	}

	logger.Debug().
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")

	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to write JSON response: %w", err)
	}
	return nil
}
