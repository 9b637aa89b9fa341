package repository

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/deppfellow/breezi/internal/config"
	"github.com/deppfellow/breezi/internal/database"
	loggerConfig "github.com/deppfellow/breezi/internal/logger"
	"github.com/deppfellow/breezi/internal/sqlerr"
)

// Repositories is the container for all repository instances, bound to one
// storage backend.
type Repositories struct {
	User UserRepository

	driver   string
	storage  Storage
	classify func(op string, err error) error
}

// NewSQLiteRepositories binds the repositories to a SQLite handle.
func NewSQLiteRepositories(db *database.SQLite) *Repositories {
	return &Repositories{
		User:     NewSQLiteUserRepository(db.DB),
		driver:   config.DriverSQLite,
		storage:  db,
		classify: sqlerr.FromSQLite,
	}
}

// NewPostgresRepositories binds the repositories to a Postgres pool.
func NewPostgresRepositories(db *database.Database) *Repositories {
	return &Repositories{
		User:     NewPostgresUserRepository(db.Pool),
		driver:   config.DriverPostgres,
		storage:  db,
		classify: sqlerr.FromPg,
	}
}

// Open connects to the backend selected by cfg.Database.Driver and returns
// the repositories bound to it. Postgres migrations are run by the caller
// (database.Migrate); SQLite migrations are applied on open.
func Open(ctx context.Context, cfg *config.Config, logger *zerolog.Logger, loggerService *loggerConfig.LoggerService) (*Repositories, error) {
	switch cfg.Database.Driver {
	case config.DriverSQLite:
		db, err := database.OpenSQLite(ctx, cfg.Database.Path, logger)
		if err != nil {
			return nil, err
		}
		return NewSQLiteRepositories(db), nil

	case config.DriverPostgres:
		db, err := database.New(cfg, logger, loggerService)
		if err != nil {
			return nil, err
		}
		return NewPostgresRepositories(db), nil

	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}

// Driver names the backend in use.
func (r *Repositories) Driver() string {
	return r.driver
}

// Ping checks the backend. Failures are tagged like any other storage error.
func (r *Repositories) Ping(ctx context.Context) error {
	return r.classify("storage.ping", r.storage.Ping(ctx))
}

// Close releases the backend.
func (r *Repositories) Close() error {
	return r.storage.Close()
}
