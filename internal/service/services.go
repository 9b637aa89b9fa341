package service

import (
	"github.com/rs/zerolog"

	"github.com/deppfellow/breezi/internal/model"
	"github.com/deppfellow/breezi/internal/repository"
	"github.com/deppfellow/breezi/internal/rpc"
)

// Procedure names exposed under /rpc.
const (
	ProcedureRegister = "register"
	ProcedureUser     = "user"
)

// Services is the container for all services.
type Services struct {
	User *UserService
}

// NewServices wires the services to the repositories.
func NewServices(repos *repository.Repositories, logger *zerolog.Logger) *Services {
	return &Services{
		User: NewUserService(repos.User, logger),
	}
}

// Procedures returns every procedure the services expose.
func (s *Services) Procedures() []rpc.Procedure {
	return []rpc.Procedure{
		rpc.Mutation(ProcedureRegister, model.UserRegistrationSchema, s.User.Register),
		rpc.Query(ProcedureUser, model.UserLookupSchema, s.User.Get),
	}
}

// NewRegistry builds the procedure registry for s. Duplicate names panic,
// since they can only come from a wiring mistake.
func (s *Services) NewRegistry() *rpc.Registry {
	reg := rpc.NewRegistry()
	reg.MustRegister(s.Procedures()...)
	return reg
}
