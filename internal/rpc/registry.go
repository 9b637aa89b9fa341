package rpc

import (
	"errors"
	"fmt"
	"sort"
)

// ErrSealed is returned when registering after the registry was handed to a
// Dispatcher.
var ErrSealed = errors.New("rpc: registry is sealed")

// Registry maps procedure names to procedures.
//
// It is filled during startup and sealed when a Dispatcher is built from it.
// After sealing it is only read, so concurrent calls share it without
// locking.
type Registry struct {
	procedures map[string]Procedure
	sealed     bool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{procedures: make(map[string]Procedure)}
}

// Register adds p. A duplicate or empty name is a configuration error.
func (r *Registry) Register(p Procedure) error {
	if r.sealed {
		return ErrSealed
	}
	if p == nil {
		return errors.New("rpc: nil procedure")
	}

	name := p.Name()
	if name == "" {
		return errors.New("rpc: procedure name is required")
	}
	if _, dup := r.procedures[name]; dup {
		return fmt.Errorf("rpc: procedure %q is already registered", name)
	}

	r.procedures[name] = p
	return nil
}

// MustRegister is like Register but panics on error. It is meant for startup
// wiring where a bad registration must stop the process.
func (r *Registry) MustRegister(procedures ...Procedure) {
	for _, p := range procedures {
		if err := r.Register(p); err != nil {
			panic(err)
		}
	}
}

// Resolve returns the procedure registered under name.
func (r *Registry) Resolve(name string) (Procedure, bool) {
	p, ok := r.procedures[name]
	return p, ok
}

// Procedures returns every registered procedure sorted by name.
func (r *Registry) Procedures() []Procedure {
	out := make([]Procedure, 0, len(r.procedures))
	for _, p := range r.procedures {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Len returns the number of registered procedures.
func (r *Registry) Len() int {
	return len(r.procedures)
}

func (r *Registry) seal() {
	r.sealed = true
}
