package sqlerr_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/puddle/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/breezi/internal/errs"
	"github.com/deppfellow/breezi/internal/sqlerr"
)

func TestClassifyPg(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want errs.StorageKind
	}{
		{"no rows", pgx.ErrNoRows, errs.StorageNotFound},
		{"wrapped no rows", fmt.Errorf("get user: %w", pgx.ErrNoRows), errs.StorageNotFound},
		{"closed pool", fmt.Errorf("acquire: %w", puddle.ErrClosedPool), errs.StoragePoolClosed},
		{"deadline", fmt.Errorf("acquire: %w", context.DeadlineExceeded), errs.StoragePoolTimeout},
		{"cancelled", fmt.Errorf("query: %w", context.Canceled), errs.StoragePoolTimeout},
		{"unique violation", &pgconn.PgError{Code: "23505", TableName: "users"}, errs.StorageConflict},
		{"syntax error", &pgconn.PgError{Code: "42601"}, errs.StorageProtocol},
		{"undefined column", &pgconn.PgError{Code: "42703"}, errs.StorageProtocol},
		{"protocol violation", &pgconn.PgError{Code: "08P01"}, errs.StorageProtocol},
		{"invalid text representation", &pgconn.PgError{Code: "22P02"}, errs.StorageDecode},
		{"connection failure", &pgconn.PgError{Code: "08006"}, errs.StorageIO},
		{"admin shutdown", &pgconn.PgError{Code: "57P01"}, errs.StorageIO},
		{"too many connections", &pgconn.PgError{Code: "53300"}, errs.StorageIO},
		{"check violation", &pgconn.PgError{Code: "23514"}, errs.StorageUnknown},
		{"scan error", pgx.ScanArgError{ColumnIndex: 1, Err: errors.New("cannot scan")}, errs.StorageDecode},
		{"network error", &net.OpError{Op: "read", Net: "tcp", Err: errors.New("connection reset")}, errs.StorageIO},
		{"eof", fmt.Errorf("read: %w", io.ErrUnexpectedEOF), errs.StorageIO},
		{"unknown", errors.New("something odd"), errs.StorageUnknown},
		{"nil", nil, errs.StorageUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, sqlerr.ClassifyPg(tc.err))
		})
	}
}

func TestClassifySQLite_Sentinels(t *testing.T) {
	t.Parallel()

	assert.Equal(t, errs.StorageNotFound, sqlerr.ClassifySQLite(sql.ErrNoRows))
	assert.Equal(t, errs.StoragePoolClosed, sqlerr.ClassifySQLite(sql.ErrConnDone))
	assert.Equal(t, errs.StoragePoolClosed, sqlerr.ClassifySQLite(errors.New("sql: database is closed")))
	assert.Equal(t, errs.StoragePoolTimeout, sqlerr.ClassifySQLite(context.DeadlineExceeded))
	assert.Equal(t, errs.StoragePoolTimeout, sqlerr.ClassifySQLite(fmt.Errorf("insert: %w", context.Canceled)))
	assert.Equal(t, errs.StorageDecode, sqlerr.ClassifySQLite(
		errors.New(`sql: Scan error on column index 0, name "id": converting NULL to string is unsupported`)))
	assert.Equal(t, errs.StorageUnknown, sqlerr.ClassifySQLite(errors.New("boom")))
}

func TestFailure(t *testing.T) {
	t.Parallel()

	t.Run("keeps kind and cause through wrapping", func(t *testing.T) {
		t.Parallel()

		err := fmt.Errorf("service: %w", sqlerr.FromPg("user.insert", puddle.ErrClosedPool))

		assert.True(t, sqlerr.IsFailure(err))
		assert.Equal(t, errs.StoragePoolClosed, sqlerr.KindOf(err))
		assert.ErrorIs(t, err, puddle.ErrClosedPool)

		var f *sqlerr.Failure
		require.ErrorAs(t, err, &f)
		assert.Equal(t, "user.insert", f.Op)
		assert.Contains(t, f.Error(), "pool_closed")
	})

	t.Run("nil stays nil", func(t *testing.T) {
		t.Parallel()

		assert.NoError(t, sqlerr.FromPg("op", nil))
		assert.NoError(t, sqlerr.FromSQLite("op", nil))
	})

	t.Run("untagged errors are unknown", func(t *testing.T) {
		t.Parallel()

		assert.False(t, sqlerr.IsFailure(errors.New("x")))
		assert.Equal(t, errs.StorageUnknown, sqlerr.KindOf(errors.New("x")))
	})
}
