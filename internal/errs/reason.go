package errs

import (
	"fmt"
	"net/http"
)

// Reason is the discriminated top-level classification of a failed call.
//
// The set is closed: only the constants below are valid. Invalid is the only
// reason that carries a payload.
type Reason string

const (
	ReasonBadRequest         Reason = "BadRequest"
	ReasonInvalid            Reason = "Invalid"
	ReasonUnauthorized       Reason = "Unauthorized"
	ReasonForbidden          Reason = "Forbidden"
	ReasonNotFound           Reason = "NotFound"
	ReasonConflict           Reason = "Conflict"
	ReasonInternal           Reason = "Internal"
	ReasonServiceUnavailable Reason = "ServiceUnavailable"
	ReasonGatewayTimeout     Reason = "GatewayTimeout"
)

// reasonStatus maps every reason to the HTTP status the transport answers with.
var reasonStatus = map[Reason]int{
	ReasonBadRequest:         http.StatusBadRequest,
	ReasonInvalid:            http.StatusBadRequest,
	ReasonUnauthorized:       http.StatusUnauthorized,
	ReasonForbidden:          http.StatusForbidden,
	ReasonNotFound:           http.StatusNotFound,
	ReasonConflict:           http.StatusConflict,
	ReasonInternal:           http.StatusInternalServerError,
	ReasonServiceUnavailable: http.StatusServiceUnavailable,
	ReasonGatewayTimeout:     http.StatusGatewayTimeout,
}

// Reasons returns the closed set of reasons in a stable order.
func Reasons() []Reason {
	return []Reason{
		ReasonBadRequest,
		ReasonInvalid,
		ReasonUnauthorized,
		ReasonForbidden,
		ReasonNotFound,
		ReasonConflict,
		ReasonInternal,
		ReasonServiceUnavailable,
		ReasonGatewayTimeout,
	}
}

// IsValid reports whether r belongs to the closed reason set.
func (r Reason) IsValid() bool {
	_, ok := reasonStatus[r]
	return ok
}

// HTTPStatus returns the HTTP status code for r.
// Unknown reasons are answered as 500.
func (r Reason) HTTPStatus() int {
	if status, ok := reasonStatus[r]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func (r Reason) String() string {
	return string(r)
}

// MarshalText implements encoding.TextMarshaler.
func (r Reason) MarshalText() ([]byte, error) {
	if !r.IsValid() {
		return nil, fmt.Errorf("errs: unknown reason %q", string(r))
	}
	return []byte(r), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Reason) UnmarshalText(text []byte) error {
	candidate := Reason(text)
	if !candidate.IsValid() {
		return fmt.Errorf("errs: unknown reason %q", string(text))
	}
	*r = candidate
	return nil
}
