// Package middleware contains the echo middlewares shared by every route,
// including the global error handler that renders every failure as an
// errs.ErrorResponse.
package middleware
