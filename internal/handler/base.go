package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"

	"github.com/deppfellow/breezi/internal/middleware"
	"github.com/deppfellow/breezi/internal/server"
)

// Handler holds the dependencies shared by all handlers.
type Handler struct {
	server *server.Server
}

func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

// requestLogger returns the request scoped logger tagged with operation.
func (h Handler) requestLogger(c echo.Context, operation string) zerolog.Logger {
	return middleware.GetLogger(c).With().
		Str("operation", operation).
		Str("route", c.Path()).
		Logger()
}

// transaction returns the New Relic transaction of the request, tagged with
// the handler name. It is nil when the agent is off.
func (h Handler) transaction(c echo.Context, name string) *newrelic.Transaction {
	txn := newrelic.FromContext(c.Request().Context())
	if txn != nil {
		txn.AddAttribute("handler.name", name)
	}
	return txn
}

// recordEvent sends a custom event to New Relic when the agent is running.
func (h Handler) recordEvent(eventType string, params map[string]any) {
	if app := h.server.LoggerService.GetApplication(); app != nil {
		app.RecordCustomEvent(eventType, params)
	}
}
