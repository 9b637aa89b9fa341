package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/breezi/internal/bindings"
	"github.com/deppfellow/breezi/internal/rpc"
	"github.com/deppfellow/breezi/internal/server"
)

// ProcedureParam is the route parameter holding the procedure name.
const ProcedureParam = "procedure"

// RPCHandler exposes the dispatcher over HTTP.
type RPCHandler struct {
	Handler
	dispatcher *rpc.Dispatcher
}

func NewRPCHandler(s *server.Server, dispatcher *rpc.Dispatcher) *RPCHandler {
	return &RPCHandler{
		Handler:    NewHandler(s),
		dispatcher: dispatcher,
	}
}

// Call handles POST /rpc/:procedure. The body is the procedure input; the
// reply is the procedure output with status 200, or an ErrorResponse left
// to the global error handler.
func (h *RPCHandler) Call(c echo.Context) error {
	name := c.Param(ProcedureParam)
	h.transaction(c, "rpc."+name)

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		// BodyLimit surfaces oversized bodies here as an echo 413.
		return fmt.Errorf("read request body: %w", err)
	}

	out, resp := h.dispatcher.Dispatch(c.Request().Context(), name, body)
	if resp != nil {
		return resp
	}

	return c.JSON(http.StatusOK, out)
}

// List handles GET /rpc with the procedure manifest.
func (h *RPCHandler) List(c echo.Context) error {
	h.transaction(c, "rpc.list")

	c.Response().Header().Set("Cache-Control", "no-cache")
	return c.JSON(http.StatusOK, bindings.Manifest(h.dispatcher.Registry().Procedures()))
}
