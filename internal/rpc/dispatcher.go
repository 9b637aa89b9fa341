package rpc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"
	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/deppfellow/breezi/internal/errs"
	loggerConfig "github.com/deppfellow/breezi/internal/logger"
	"github.com/deppfellow/breezi/internal/sqlerr"
	"github.com/deppfellow/breezi/internal/validation"
)

// Fixed client messages for transport level rejections.
const (
	MsgUnknownProcedure = "Unknown procedure"
	MsgEmptyPayload     = "Request body is empty"
	MsgMalformedPayload = "Malformed request body"
)

// Dispatcher runs one call through resolve, decode, validate and invoke.
//
// Every call ends in exactly one of an output value or one ErrorResponse.
// Invalid and BadRequest rejections happen before the handler runs, so no
// storage side effect is ever attempted for them.
type Dispatcher struct {
	registry  *Registry
	validator *validation.Validator
	logger    zerolog.Logger

	slowThreshold time.Duration
}

// Option customises a Dispatcher.
type Option func(*Dispatcher)

// WithSlowThreshold makes the dispatcher warn about calls slower than d.
func WithSlowThreshold(d time.Duration) Option {
	return func(disp *Dispatcher) {
		disp.slowThreshold = d
	}
}

// NewDispatcher seals reg and checks every procedure's rule table against
// the validator's pattern cache, so a broken table fails startup instead of
// a request.
func NewDispatcher(reg *Registry, v *validation.Validator, logger zerolog.Logger, opts ...Option) (*Dispatcher, error) {
	for _, p := range reg.Procedures() {
		if err := v.Check(p.Input()); err != nil {
			return nil, fmt.Errorf("rpc: procedure %s: %w", p.Name(), err)
		}
	}
	reg.seal()

	d := &Dispatcher{
		registry:  reg,
		validator: v,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Registry returns the sealed registry.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Dispatch calls the procedure named name with the JSON payload.
//
// The request-scoped logger is taken from ctx (zerolog.Ctx) when present.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, payload []byte) (any, *errs.ErrorResponse) {
	start := time.Now()
	logger := loggerConfig.FromContext(ctx, d.logger).With().Str("procedure", name).Logger()

	txn := newrelic.FromContext(ctx)
	if txn != nil {
		txn.AddAttribute("rpc.procedure", name)
	}

	proc, ok := d.registry.Resolve(name)
	if !ok {
		logger.Warn().Msg("unknown procedure")
		return nil, errs.NotFound(MsgUnknownProcedure)
	}

	logger = logger.With().Str("kind", string(proc.Kind())).Logger()

	in, resp := d.decode(proc, payload)
	if resp != nil {
		logger.Warn().Str("reason", string(resp.Reason)).Msg("request decoding failed")
		return nil, resp
	}

	validationStart := time.Now()
	invalid := proc.validate(d.validator, in)
	validationDuration := time.Since(validationStart)

	if txn != nil {
		txn.AddAttribute("validation.duration_ms", validationDuration.Milliseconds())
	}

	if !invalid.IsEmpty() {
		logger.Info().
			Strs("fields", invalid.Fields()).
			Dur("validation_duration", validationDuration).
			Msg("request validation failed")

		if txn != nil {
			txn.AddAttribute("validation.status", "failed")
		}
		return nil, errs.FromValidation(invalid)
	}

	if txn != nil {
		txn.AddAttribute("validation.status", "success")
	}

	handlerStart := time.Now()
	out, err := d.invoke(ctx, proc, in)
	handlerDuration := time.Since(handlerStart)
	totalDuration := time.Since(start)

	if txn != nil {
		txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
		txn.AddAttribute("total.duration_ms", totalDuration.Milliseconds())
	}

	if err != nil {
		resp := Classify(err)

		event := logger.Error()
		if resp.Reason != errs.ReasonInternal {
			event = logger.Warn()
		}
		event.
			Stack().
			Err(err).
			Str("reason", string(resp.Reason)).
			Dur("handler_duration", handlerDuration).
			Dur("total_duration", totalDuration).
			Msg("handler execution failed")

		if txn != nil {
			txn.NoticeError(nrpkgerrors.Wrap(err))
			txn.AddAttribute("handler.status", "error")
		}
		return nil, resp
	}

	if txn != nil {
		txn.AddAttribute("handler.status", "success")
	}

	event := logger.Info()
	if d.slowThreshold > 0 && totalDuration > d.slowThreshold {
		event = logger.Warn().Bool("slow", true)
	}
	event.
		Dur("validation_duration", validationDuration).
		Dur("handler_duration", handlerDuration).
		Dur("total_duration", totalDuration).
		Msg("request completed successfully")

	return out, nil
}

// decode parses payload into the procedure's request type. Only a JSON
// object is accepted.
func (d *Dispatcher) decode(proc Procedure, payload []byte) (any, *errs.ErrorResponse) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return nil, errs.BadRequest(MsgEmptyPayload)
	}
	if trimmed[0] != '{' {
		return nil, errs.BadRequest(MsgMalformedPayload)
	}

	in, err := proc.decode(trimmed)
	if err != nil {
		return nil, errs.BadRequest(MsgMalformedPayload)
	}
	return in, nil
}

// invoke runs the handler, turning a panic into an error so it is
// classified like any other unexpected failure.
func (d *Dispatcher) invoke(ctx context.Context, proc Procedure, in any) (out any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = pkgerrors.WithStack(&panicError{value: r})
		}
	}()

	if cerr := ctx.Err(); cerr != nil {
		return nil, cerr
	}
	return proc.invoke(ctx, in)
}

// Classify maps a handler error onto the closed reason set.
//
// An *errs.ErrorResponse returned by a handler is passed through, a tagged
// storage failure goes through errs.FromStorageFailure, a cancelled or timed
// out context becomes GatewayTimeout, and anything else is Internal.
func Classify(err error) *errs.ErrorResponse {
	var resp *errs.ErrorResponse
	if errors.As(err, &resp) && resp != nil {
		return resp
	}

	var failure *sqlerr.Failure
	if errors.As(err, &failure) {
		return errs.FromStorageFailure(failure.Kind)
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.FromStorageFailure(errs.StoragePoolTimeout)
	}

	return errs.FromUnexpected(err)
}

type panicError struct {
	value any
}

func (p *panicError) Error() string {
	return fmt.Sprintf("handler panic: %v", p.value)
}
