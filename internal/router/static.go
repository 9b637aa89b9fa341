package router

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
)

// registerStaticRoutes serves dir as a single page application: unknown GET
// paths fall back to index.html, except under /assets where a miss is a 404.
// Nothing is registered when dir is empty.
func registerStaticRoutes(r *echo.Echo, dir string) {
	if dir == "" {
		return
	}

	r.StaticFS("/assets", os.DirFS(filepath.Join(dir, "assets")))

	r.Use(echoMiddleware.StaticWithConfig(echoMiddleware.StaticConfig{
		Root:       ".",
		Filesystem: http.FS(os.DirFS(dir)),
		HTML5:      true,
		Skipper: func(c echo.Context) bool {
			p := c.Request().URL.Path
			return p == "/rpc" ||
				strings.HasPrefix(p, "/rpc/") ||
				strings.HasPrefix(p, "/assets/") ||
				p == "/status"
		},
	}))
}
