// Package errs defines the single error shape returned to RPC clients.
//
// Every failure a caller can observe (malformed input, field validation,
// storage trouble, programming defects) is expressed as one *ErrorResponse
// carrying a Reason from a closed set. Field-level detail only travels in
// the payload of the Invalid reason.
//
//   - Return a consistent error shape to API clients (JSON).
//   - Keep field-level validation detail keyed by field name.
//   - Never leak internal detail (queries, paths, stack traces).
//   - Play nicely with Go's standard errors package (errors.As).
package errs
