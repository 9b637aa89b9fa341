package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	// Registers the "sqlite" database/sql driver.
	_ "modernc.org/sqlite"
)

// SQLite wraps a database/sql handle over a SQLite file.
type SQLite struct {
	DB   *sql.DB
	path string
	log  *zerolog.Logger
}

// sqliteDSN enables WAL, foreign keys and a busy timeout on every
// connection of the pool.
func sqliteDSN(path string) string {
	return path + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
}

// OpenSQLite opens (creating it and its parent directory when missing) the
// SQLite database at path and applies the embedded migrations.
func OpenSQLite(ctx context.Context, path string, logger *zerolog.Logger) (*SQLite, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)

	if dir := filepath.Dir(cleanPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	sqlDB, err := sql.Open("sqlite", sqliteDSN(cleanPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	from, to, err := migrateSQLite(ctx, sqlDB)
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	logger.Info().
		Str("driver", "sqlite").
		Str("path", cleanPath).
		Int64("schema_from", from).
		Int64("schema_to", to).
		Msg("connected to the database")

	return &SQLite{DB: sqlDB, path: cleanPath, log: logger}, nil
}

// Path returns the database file path.
func (s *SQLite) Path() string {
	return s.path
}

// Ping checks the handle is still usable.
func (s *SQLite) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

// Close closes the handle.
func (s *SQLite) Close() error {
	if s == nil || s.DB == nil {
		return nil
	}
	s.log.Info().Msg("closing sqlite database")
	return s.DB.Close()
}
