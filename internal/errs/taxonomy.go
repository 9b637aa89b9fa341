package errs

import "net/http"

// Fixed messages. Field-level detail lives in the Invalid payload, never in
// the top-level message.
const (
	InvalidMessage  = "One or more fields are invalid"
	InternalMessage = "Internal server error"
)

// StorageKind classifies a storage failure. Driver-specific errors are turned
// into a StorageKind by package sqlerr; this package only maps kinds to
// responses.
type StorageKind int

const (
	// StorageUnknown is anything the storage classifier did not recognise.
	StorageUnknown StorageKind = iota
	// StorageProtocol is a malformed query or a wire protocol error.
	StorageProtocol
	// StorageDecode is a row/column decoding error.
	StorageDecode
	// StorageNotFound means the requested record does not exist.
	StorageNotFound
	// StorageConflict is a unique or primary key violation.
	StorageConflict
	// StoragePoolClosed means the connection pool was already closed.
	StoragePoolClosed
	// StorageIO is an I/O or transport failure talking to the database.
	StorageIO
	// StoragePoolTimeout means waiting for a pooled connection timed out.
	StoragePoolTimeout
)

var storageKindNames = map[StorageKind]string{
	StorageUnknown:     "unknown",
	StorageProtocol:    "protocol",
	StorageDecode:      "decode",
	StorageNotFound:    "not_found",
	StorageConflict:    "conflict",
	StoragePoolClosed:  "pool_closed",
	StorageIO:          "io",
	StoragePoolTimeout: "pool_timeout",
}

func (k StorageKind) String() string {
	if name, ok := storageKindNames[k]; ok {
		return name
	}
	return storageKindNames[StorageUnknown]
}

// FromValidation converts a non-empty field → Invalidation map into an
// Invalid response. The map is copied; the caller keeps ownership of its own.
func FromValidation(invalid Invalidations) *ErrorResponse {
	payload := make(Invalidations, len(invalid))
	for field, inv := range invalid {
		payload[field] = NewInvalidation(inv.Code, inv.Message, inv.Value, inv.Rules)
	}

	resp := newResponse(ReasonInvalid, InvalidMessage)
	resp.Payload = payload
	return resp
}

// FromStorageFailure maps a storage failure kind to a response.
//
// The mapping is total: the default arm answers Internal with the fixed
// message so no driver detail ever reaches a caller.
func FromStorageFailure(kind StorageKind) *ErrorResponse {
	switch kind {
	case StorageProtocol:
		return newResponse(ReasonBadRequest, "Protocol error - Bad Request")
	case StorageDecode:
		return newResponse(ReasonBadRequest, "Decode error - Bad Request")
	case StorageNotFound:
		return newResponse(ReasonNotFound, "Entry not found")
	case StorageConflict:
		return newResponse(ReasonConflict, "Entry already exists")
	case StoragePoolClosed:
		return newResponse(ReasonServiceUnavailable, "Database pool closed - Service Unavailable")
	case StorageIO:
		return newResponse(ReasonServiceUnavailable, "Database I/O error - Service Unavailable")
	case StoragePoolTimeout:
		return newResponse(ReasonGatewayTimeout, "Database pool timed out (504 Gateway Timeout)")
	default:
		return Internal()
	}
}

// FromUnexpected is the fatal arm for anything not already classified,
// including recovered panics. Its detail never reaches the response.
func FromUnexpected(any) *ErrorResponse {
	return Internal()
}

// Internal returns an Internal response with the fixed message.
func Internal() *ErrorResponse {
	return newResponse(ReasonInternal, InternalMessage)
}

// BadRequest returns a BadRequest response, e.g. for a malformed payload.
func BadRequest(message string) *ErrorResponse {
	return newResponse(ReasonBadRequest, message)
}

// NotFound returns a NotFound response, e.g. for an unknown procedure.
func NotFound(message string) *ErrorResponse {
	return newResponse(ReasonNotFound, message)
}

// FromStatus maps a bare HTTP status (e.g. from the router itself) onto the
// closed reason set. Statuses without a dedicated reason fall back to
// BadRequest for 4xx and Internal for everything else.
func FromStatus(status int, message string) *ErrorResponse {
	switch {
	case status == http.StatusUnauthorized:
		return newResponse(ReasonUnauthorized, message)
	case status == http.StatusForbidden:
		return newResponse(ReasonForbidden, message)
	case status == http.StatusNotFound:
		return newResponse(ReasonNotFound, message)
	case status == http.StatusConflict:
		return newResponse(ReasonConflict, message)
	case status == http.StatusServiceUnavailable:
		return newResponse(ReasonServiceUnavailable, message)
	case status == http.StatusGatewayTimeout:
		return newResponse(ReasonGatewayTimeout, message)
	case status >= 400 && status < 500:
		return newResponse(ReasonBadRequest, message)
	default:
		return Internal()
	}
}
