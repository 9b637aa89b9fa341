package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/deppfellow/breezi/internal/errs"
	"github.com/deppfellow/breezi/internal/rpc"
	"github.com/deppfellow/breezi/internal/server"
)

// GlobalMiddlewares are applied to every route.
type GlobalMiddlewares struct {
	server *server.Server
}

func NewGlobalMiddlewares(s *server.Server) *GlobalMiddlewares {
	return &GlobalMiddlewares{server: s}
}

// CORS allows every origin unless server.cors_allowed_origins narrows it.
func (global *GlobalMiddlewares) CORS() echo.MiddlewareFunc {
	origins := global.server.Config.Server.CORSAllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, RequestIDHeader},
	})
}

// CORSEnabled reports whether the CORS middleware should be installed.
func (global *GlobalMiddlewares) CORSEnabled() bool {
	return global.server.Config.Server.CORS
}

// RequestLogger logs one line per request at a level chosen by status.
func (global *GlobalMiddlewares) RequestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogError:   true,
		LogLatency: true,
		LogHost:    true,
		LogMethod:  true,
		LogURIPath: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			statusCode := v.Status
			if v.Error != nil {
				var resp *errs.ErrorResponse
				var echoErr *echo.HTTPError
				if errors.As(v.Error, &resp) {
					statusCode = resp.StatusCode()
				} else if errors.As(v.Error, &echoErr) {
					statusCode = echoErr.Code
				}
			}

			logger := GetLogger(c)

			var e *zerolog.Event
			switch {
			case statusCode >= 500:
				e = logger.Error().Err(v.Error)
			case statusCode >= 400:
				e = logger.Warn()
			default:
				e = logger.Info()
			}

			e.
				Dur("latency", v.Latency).
				Int("status", statusCode).
				Str("method", v.Method).
				Str("uri", v.URI).
				Str("host", v.Host).
				Str("user_agent", c.Request().UserAgent()).
				Msg("API")

			return nil
		},
	})
}

// Recover turns a panic in any handler into an error for
// GlobalErrorHandler.
func (global *GlobalMiddlewares) Recover() echo.MiddlewareFunc {
	return middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			GetLogger(c).Error().
				Err(err).
				Bytes("stack", stack).
				Msg("recovered from panic")
			return err
		},
	})
}

// Secure sets the usual hardening headers.
func (global *GlobalMiddlewares) Secure() echo.MiddlewareFunc {
	return middleware.Secure()
}

// BodyLimit rejects request bodies larger than server.max_body_size.
func (global *GlobalMiddlewares) BodyLimit() echo.MiddlewareFunc {
	return middleware.BodyLimit(global.server.Config.Server.MaxBodySize)
}

// GlobalErrorHandler renders every error escaping a route as an
// ErrorResponse. Responses built by the dispatcher pass through unchanged,
// echo errors (unknown route, body too large) are mapped by status and
// anything else is classified like a handler error.
func (global *GlobalMiddlewares) GlobalErrorHandler(err error, c echo.Context) {
	resp := ToErrorResponse(err)

	logger := GetLogger(c)
	event := logger.Warn()
	if resp.Reason == errs.ReasonInternal {
		event = logger.Error().Stack()
	}
	event.
		Err(err).
		Int("status", resp.StatusCode()).
		Str("reason", string(resp.Reason)).
		Msg(resp.Message)

	if c.Response().Committed {
		return
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(resp.StatusCode())
	} else {
		err = c.JSON(resp.StatusCode(), resp)
	}
	if err != nil {
		logger.Error().Err(err).Msg("failed to write error response")
	}
}

// ToErrorResponse maps any error reaching the HTTP boundary onto the closed
// reason set.
func ToErrorResponse(err error) *errs.ErrorResponse {
	var resp *errs.ErrorResponse
	if errors.As(err, &resp) && resp != nil {
		return resp
	}

	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		switch echoErr.Code {
		case http.StatusNotFound:
			return errs.NotFound("Route not found")
		case http.StatusMethodNotAllowed:
			return errs.BadRequest("Method not allowed")
		case http.StatusRequestEntityTooLarge:
			return errs.BadRequest("Request body too large")
		}

		message := http.StatusText(echoErr.Code)
		if msg, ok := echoErr.Message.(string); ok && echoErr.Code < http.StatusInternalServerError {
			message = msg
		}
		return errs.FromStatus(echoErr.Code, message)
	}

	return rpc.Classify(err)
}
