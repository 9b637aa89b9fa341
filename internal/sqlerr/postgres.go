package sqlerr

import (
	"errors"
	"io"
	"net"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/puddle/v2"

	"github.com/deppfellow/breezi/internal/errs"
)

// SQLSTATE codes and classes that get a dedicated kind.
// See https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgUniqueViolation     = "23505"
	pgProtocolViolation   = "08P01"
	pgAdminShutdown       = "57P01"
	pgCrashShutdown       = "57P02"
	pgCannotConnectNow    = "57P03"
	pgClassConnection     = "08"
	pgClassDataException  = "22"
	pgClassSyntaxOrAccess = "42"
	pgClassResources      = "53"
)

// ClassifyPg maps an error returned by pgx / pgxpool to a storage kind.
//
// Behavior:
//   - ErrNoRows => NotFound
//   - closed pool => PoolClosed
//   - timeouts and cancellations (pool acquire, query deadline) => PoolTimeout
//   - *pgconn.PgError => by SQLSTATE (unique => Conflict, syntax => Protocol, ...)
//   - scan failures => Decode
//   - network / EOF / connect errors => IO
//   - anything else => Unknown
func ClassifyPg(err error) errs.StorageKind {
	if err == nil {
		return errs.StorageUnknown
	}

	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return errs.StorageNotFound
	case errors.Is(err, puddle.ErrClosedPool):
		return errs.StoragePoolClosed
	}
	if kind, ok := classifyContext(err); ok {
		return kind
	}
	if pgconn.Timeout(err) {
		return errs.StoragePoolTimeout
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return classifySQLState(pgErr.Code)
	}

	var scanErr pgx.ScanArgError
	if errors.As(err, &scanErr) {
		return errs.StorageDecode
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return errs.StorageIO
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return errs.StorageIO
	}

	return errs.StorageUnknown
}

func classifySQLState(code string) errs.StorageKind {
	switch code {
	case pgUniqueViolation:
		return errs.StorageConflict
	case pgProtocolViolation:
		return errs.StorageProtocol
	case pgAdminShutdown, pgCrashShutdown, pgCannotConnectNow:
		return errs.StorageIO
	}

	switch {
	case strings.HasPrefix(code, pgClassSyntaxOrAccess):
		return errs.StorageProtocol
	case strings.HasPrefix(code, pgClassDataException):
		return errs.StorageDecode
	case strings.HasPrefix(code, pgClassConnection), strings.HasPrefix(code, pgClassResources):
		return errs.StorageIO
	default:
		return errs.StorageUnknown
	}
}

// FromPg classifies a pgx error and tags it. It returns nil for a nil error.
func FromPg(op string, err error) error {
	if err == nil {
		return nil
	}
	return New(op, ClassifyPg(err), err)
}
