package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/deppfellow/breezi/internal/errs"
	"github.com/deppfellow/breezi/internal/model"
	"github.com/deppfellow/breezi/internal/sqlerr"
)

// SQLiteUserRepository stores users in SQLite.
type SQLiteUserRepository struct {
	db *sql.DB
}

// NewSQLiteUserRepository returns a repository over db.
func NewSQLiteUserRepository(db *sql.DB) *SQLiteUserRepository {
	return &SQLiteUserRepository{db: db}
}

func (r *SQLiteUserRepository) Insert(ctx context.Context, registration model.UserRegistration) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", sqlerr.FromSQLite("user.insert", err)
	}
	if r == nil || r.db == nil {
		return "", sqlerr.New("user.insert", errs.StoragePoolClosed, fmt.Errorf("storage is not configured"))
	}

	id := uuid.NewString()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, username, password, email, created_at) VALUES (?, ?, ?, ?, ?)`,
		id,
		registration.Username,
		registration.Password,
		registration.Email,
		time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return "", sqlerr.FromSQLite("user.insert", err)
	}

	return id, nil
}

func (r *SQLiteUserRepository) Get(ctx context.Context, id string) (model.User, error) {
	if err := ctx.Err(); err != nil {
		return model.User{}, sqlerr.FromSQLite("user.get", err)
	}
	if r == nil || r.db == nil {
		return model.User{}, sqlerr.New("user.get", errs.StoragePoolClosed, fmt.Errorf("storage is not configured"))
	}

	var user model.User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, password, email FROM users WHERE id = ?`,
		id,
	).Scan(&user.ID, &user.Username, &user.Password, &user.Email)
	if err != nil {
		return model.User{}, sqlerr.FromSQLite("user.get", err)
	}

	return user, nil
}
