// Package rpc maps procedure names to typed handlers and runs each call
// through decode, validation and invocation.
//
// Handlers never see transport types. They receive a context and an already
// validated request value and return either an output value or an error.
// Errors are classified once, by the Dispatcher, into an *errs.ErrorResponse.
package rpc

import (
	"context"
	"encoding/json"
	"reflect"

	"github.com/deppfellow/breezi/internal/errs"
	"github.com/deppfellow/breezi/internal/validation"
)

// Kind tells clients whether a procedure reads or writes.
type Kind string

const (
	KindQuery    Kind = "query"
	KindMutation Kind = "mutation"
)

// Handler is the typed body of a procedure. in has already passed the
// procedure's rule table.
type Handler[Req, Res any] func(ctx context.Context, in Req) (Res, error)

// Procedure is a registered, type-erased procedure.
//
// Procedures are built with Query or Mutation; the unexported methods keep
// decoding and validation inside this package.
type Procedure interface {
	// Name is the unique name clients call the procedure by.
	Name() string

	// Kind reports whether the procedure is a query or a mutation.
	Kind() Kind

	// Input describes the request type and its rule table.
	Input() validation.Descriptor

	// Output names the result type.
	Output() string

	decode(payload []byte) (any, error)
	validate(v *validation.Validator, in any) errs.Invalidations
	invoke(ctx context.Context, in any) (any, error)
}

type procedure[Req, Res any] struct {
	name    string
	kind    Kind
	schema  validation.Schema[Req]
	handler Handler[Req, Res]
}

// Query declares a read-only procedure.
func Query[Req, Res any](name string, schema validation.Schema[Req], h Handler[Req, Res]) Procedure {
	return &procedure[Req, Res]{name: name, kind: KindQuery, schema: schema, handler: h}
}

// Mutation declares a procedure that changes state.
func Mutation[Req, Res any](name string, schema validation.Schema[Req], h Handler[Req, Res]) Procedure {
	return &procedure[Req, Res]{name: name, kind: KindMutation, schema: schema, handler: h}
}

func (p *procedure[Req, Res]) Name() string {
	return p.name
}

func (p *procedure[Req, Res]) Kind() Kind {
	return p.kind
}

func (p *procedure[Req, Res]) Input() validation.Descriptor {
	return p.schema.Describe()
}

func (p *procedure[Req, Res]) Output() string {
	t := reflect.TypeFor[Res]()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

func (p *procedure[Req, Res]) decode(payload []byte) (any, error) {
	var in Req
	if err := json.Unmarshal(payload, &in); err != nil {
		return nil, err
	}
	return in, nil
}

func (p *procedure[Req, Res]) validate(v *validation.Validator, in any) errs.Invalidations {
	return validation.Validate(v, p.schema, in.(Req))
}

func (p *procedure[Req, Res]) invoke(ctx context.Context, in any) (any, error) {
	return p.handler(ctx, in.(Req))
}
