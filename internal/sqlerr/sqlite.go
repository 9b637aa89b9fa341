package sqlerr

import (
	"database/sql"
	"errors"
	"strings"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/deppfellow/breezi/internal/errs"
)

// ClassifySQLite maps an error returned by database/sql over the modernc
// SQLite driver to a storage kind.
func ClassifySQLite(err error) errs.StorageKind {
	if err == nil {
		return errs.StorageUnknown
	}

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return errs.StorageNotFound
	case errors.Is(err, sql.ErrConnDone):
		return errs.StoragePoolClosed
	}
	if kind, ok := classifyContext(err); ok {
		return kind
	}

	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		return classifySQLiteCode(sqliteErr.Code())
	}

	// database/sql reports these as plain formatted errors.
	msg := err.Error()
	switch {
	case strings.Contains(strings.ToLower(msg), "unique constraint failed"):
		return errs.StorageConflict
	case strings.Contains(msg, "sql: database is closed"):
		return errs.StoragePoolClosed
	case strings.Contains(msg, "sql: Scan error"),
		strings.Contains(msg, "sql: expected") && strings.Contains(msg, "destination arguments"):
		return errs.StorageDecode
	}

	return errs.StorageUnknown
}

func classifySQLiteCode(code int) errs.StorageKind {
	switch code {
	case sqlite3lib.SQLITE_CONSTRAINT_UNIQUE, sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY:
		return errs.StorageConflict
	}

	// Extended result codes carry the primary code in the low byte.
	switch code & 0xff {
	case sqlite3lib.SQLITE_ERROR:
		return errs.StorageProtocol
	case sqlite3lib.SQLITE_MISMATCH, sqlite3lib.SQLITE_RANGE, sqlite3lib.SQLITE_TOOBIG:
		return errs.StorageDecode
	case sqlite3lib.SQLITE_BUSY, sqlite3lib.SQLITE_LOCKED:
		return errs.StoragePoolTimeout
	case sqlite3lib.SQLITE_IOERR, sqlite3lib.SQLITE_CANTOPEN, sqlite3lib.SQLITE_FULL,
		sqlite3lib.SQLITE_CORRUPT, sqlite3lib.SQLITE_NOTADB, sqlite3lib.SQLITE_READONLY:
		return errs.StorageIO
	default:
		return errs.StorageUnknown
	}
}

// FromSQLite classifies a SQLite error and tags it. It returns nil for a nil
// error.
func FromSQLite(op string, err error) error {
	if err == nil {
		return nil
	}
	return New(op, ClassifySQLite(err), err)
}
