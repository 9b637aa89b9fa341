package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deppfellow/breezi/internal/model"
	"github.com/deppfellow/breezi/internal/sqlerr"
)

// PostgresUserRepository stores users in Postgres.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresUserRepository returns a repository over pool.
func NewPostgresUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

func (r *PostgresUserRepository) Insert(ctx context.Context, registration model.UserRegistration) (string, error) {
	id := uuid.New()

	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (id, username, password, email) VALUES (@id, @username, @password, @email)`,
		pgx.NamedArgs{
			"id":       id,
			"username": registration.Username,
			"password": registration.Password,
			"email":    registration.Email,
		},
	)
	if err != nil {
		return "", sqlerr.FromPg("user.insert", err)
	}

	return id.String(), nil
}

func (r *PostgresUserRepository) Get(ctx context.Context, id string) (model.User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id::text AS id, username, password, email FROM users WHERE id = @id`,
		pgx.NamedArgs{"id": id},
	)
	if err != nil {
		return model.User{}, sqlerr.FromPg("user.get", err)
	}

	user, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[model.User])
	if err != nil {
		return model.User{}, sqlerr.FromPg("user.get", err)
	}

	return user, nil
}
