package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/breezi/internal/handler"
	"github.com/deppfellow/breezi/internal/middleware"
)

// registerRPCRoutes mounts the dispatcher under /rpc with size limited
// request bodies. The limit is attached per route: group middleware would
// register catch-all routes that answer a wrong method with 404.
func registerRPCRoutes(r *echo.Echo, h *handler.Handlers, m *middleware.Middlewares) {
	rpc := r.Group("/rpc")

	rpc.GET("", h.RPC.List)
	rpc.POST("/:"+handler.ProcedureParam, h.RPC.Call, m.Global.BodyLimit())
}
