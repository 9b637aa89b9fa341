// Package repository handles all interactions with the database.
//
// It holds the raw SQL for each backend and returns driver errors tagged by
// package sqlerr, so the service layer never sees driver types.
package repository

import (
	"context"

	"github.com/deppfellow/breezi/internal/model"
)

// UserRepository persists users.
type UserRepository interface {
	// Insert stores a new user under a freshly generated UUID v4 and returns
	// that id. A taken username is a conflict.
	Insert(ctx context.Context, registration model.UserRegistration) (string, error)

	// Get reads the user with the given id.
	Get(ctx context.Context, id string) (model.User, error)
}

// Storage is a backend handle the repositories run on.
type Storage interface {
	Ping(ctx context.Context) error
	Close() error
}
