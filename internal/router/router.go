// Package router builds the echo instance: global middlewares, the /rpc
// group, system routes and the optional single page application.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/breezi/internal/handler"
	"github.com/deppfellow/breezi/internal/middleware"
	"github.com/deppfellow/breezi/internal/server"
)

// NewRouter returns the configured echo instance for s.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
		middlewares.Global.Secure(),
	)

	if middlewares.Global.CORSEnabled() {
		router.Use(middlewares.Global.CORS())
	}

	registerSystemRoutes(router, h)
	registerRPCRoutes(router, h, middlewares)
	registerStaticRoutes(router, s.Config.Server.StaticDir)

	return router
}
