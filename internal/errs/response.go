package errs

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Invalidation describes why one specific field failed validation.
//
// Example:
//
//	{ "code": "length", "message": "Given value is not a valid length",
//	  "value": "", "rules": { "min": "5", "max": "1024" } }
type Invalidation struct {
	// Code is the public rule code (e.g. "length", "email", "pattern match").
	Code string `json:"code"`

	// Message is the human-readable default message.
	Message string `json:"message"`

	// Value echoes the offending input back for client display.
	Value any `json:"value"`

	// Rules holds the rule parameters, never the value itself.
	Rules map[string]string `json:"rules"`
}

// NewInvalidation builds an Invalidation, copying rules so the caller's map
// can never be mutated through the response.
func NewInvalidation(code, message string, value any, rules map[string]string) Invalidation {
	copied := make(map[string]string, len(rules))
	for k, v := range rules {
		copied[k] = v
	}
	return Invalidation{
		Code:    code,
		Message: message,
		Value:   value,
		Rules:   copied,
	}
}

// Invalidations maps a field name to the single Invalidation kept for it.
type Invalidations map[string]Invalidation

// Fields returns the invalid field names sorted alphabetically.
func (iv Invalidations) Fields() []string {
	fields := make([]string, 0, len(iv))
	for field := range iv {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

// Has reports whether field has an invalidation.
func (iv Invalidations) Has(field string) bool {
	_, ok := iv[field]
	return ok
}

// IsEmpty reports whether no field is invalid.
func (iv Invalidations) IsEmpty() bool {
	return len(iv) == 0
}

// ErrorResponse is the wire-level failure shape shared by every procedure.
//
// It implements the error interface so it can travel through ordinary Go
// error returns and be recovered with errors.As at the transport boundary.
// Values are only produced by the constructors in this package and are never
// modified afterwards.
type ErrorResponse struct {
	Reason Reason `json:"reason"`

	// Payload is non-nil only when Reason is ReasonInvalid.
	Payload Invalidations `json:"payload"`

	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *ErrorResponse) Error() string {
	if e.Reason == ReasonInvalid && len(e.Payload) > 0 {
		return fmt.Sprintf("%s: %s (%s)", e.Reason, e.Message, strings.Join(e.Payload.Fields(), ", "))
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Message)
}

// Is makes errors.Is match any *ErrorResponse with the same Reason.
func (e *ErrorResponse) Is(target error) bool {
	t, ok := target.(*ErrorResponse)
	if !ok {
		return false
	}
	return t.Reason == e.Reason
}

// StatusCode returns the HTTP status for the response's reason.
func (e *ErrorResponse) StatusCode() int {
	return e.Reason.HTTPStatus()
}

func newResponse(reason Reason, message string) *ErrorResponse {
	return &ErrorResponse{
		Reason:    reason,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}
