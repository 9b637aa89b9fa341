package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5"
	tern "github.com/jackc/tern/v2/migrate"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"

	"github.com/deppfellow/breezi/internal/config"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrations embed.FS

// Migrate brings the Postgres schema up to date with tern.
func Migrate(ctx context.Context, logger *zerolog.Logger, cfg *config.Config) error {
	conn, err := pgx.Connect(ctx, PostgresDSN(cfg.Database))
	if err != nil {
		return err
	}
	defer conn.Close(ctx)

	m, err := tern.NewMigrator(ctx, conn, "schema_version")
	if err != nil {
		return fmt.Errorf("constructing database migrator: %w", err)
	}

	subtree, err := fs.Sub(migrations, "migrations/postgres")
	if err != nil {
		return fmt.Errorf("retrieving database migrations subtree: %w", err)
	}

	if err := m.LoadMigrations(subtree); err != nil {
		return fmt.Errorf("loading database migrations: %w", err)
	}

	from, err := m.GetCurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("retrieving current database migration version: %w", err)
	}

	if err := m.Migrate(ctx); err != nil {
		return err
	}

	if from == int32(len(m.Migrations)) {
		logger.Info().Msgf("database schema up to date, version %d", len(m.Migrations))
	} else {
		logger.Info().Msgf("migrated database schema, from %d to %d", from, len(m.Migrations))
	}
	return nil
}

// migrateSQLite applies every pending embedded SQLite migration with goose.
// It returns the schema version before and after the run.
func migrateSQLite(ctx context.Context, db *sql.DB) (int64, int64, error) {
	subtree, err := fs.Sub(migrations, "migrations/sqlite")
	if err != nil {
		return 0, 0, fmt.Errorf("retrieving sqlite migrations subtree: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, db, subtree)
	if err != nil {
		return 0, 0, fmt.Errorf("constructing sqlite migrator: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("applying sqlite migrations: %w", err)
	}

	to, err := provider.GetDBVersion(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("retrieving sqlite schema version: %w", err)
	}

	from := to
	if len(results) > 0 {
		from = results[0].Source.Version - 1
	}
	return from, to, nil
}
