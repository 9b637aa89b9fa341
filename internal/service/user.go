package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/deppfellow/breezi/internal/model"
	"github.com/deppfellow/breezi/internal/repository"
)

// UserService registers and reads users.
type UserService struct {
	users  repository.UserRepository
	logger *zerolog.Logger
}

// NewUserService returns a service backed by users.
func NewUserService(users repository.UserRepository, logger *zerolog.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

// Register stores a new user and returns its id.
func (s *UserService) Register(ctx context.Context, registration model.UserRegistration) (string, error) {
	id, err := s.users.Insert(ctx, registration)
	if err != nil {
		return "", err
	}

	s.logger.Info().
		Str("event", "user_registered").
		Str("user_id", id).
		Str("username", registration.Username).
		Msg("user registered")

	return id, nil
}

// Get returns the public profile of the user with the given id.
func (s *UserService) Get(ctx context.Context, lookup model.UserLookup) (model.UserProfile, error) {
	user, err := s.users.Get(ctx, lookup.ID)
	if err != nil {
		return model.UserProfile{}, err
	}
	return user.Profile(), nil
}
