package handler

import (
	"github.com/deppfellow/breezi/internal/rpc"
	"github.com/deppfellow/breezi/internal/server"
)

// Handlers is the container for all HTTP handlers.
type Handlers struct {
	Health *HealthHandler
	RPC    *RPCHandler
}

func NewHandlers(s *server.Server, dispatcher *rpc.Dispatcher) *Handlers {
	return &Handlers{
		Health: NewHealthHandler(s),
		RPC:    NewRPCHandler(s, dispatcher),
	}
}
