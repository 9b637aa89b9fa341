// Package sqlerr specifically handles database driver errors.
//
// It inspects the errors returned by the Postgres (pgx) and SQLite drivers
// and tags them with an errs.StorageKind. Repositories return the tagged
// *Failure; the RPC dispatcher later turns the kind into a client response
// with errs.FromStorageFailure. Driver detail stays in the wrapped error for
// logging and never reaches a caller.
package sqlerr

import (
	"context"
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"

	"github.com/deppfellow/breezi/internal/errs"
)

// Failure is a storage error tagged with its kind.
type Failure struct {
	// Kind is the classified failure kind.
	Kind errs.StorageKind

	// Op names the repository operation that failed (e.g. "user.insert").
	Op string

	err error
}

func (f *Failure) Error() string {
	if f.err == nil {
		return fmt.Sprintf("%s: %s", f.Op, f.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", f.Op, f.Kind, f.err)
}

// Unwrap returns the driver error.
func (f *Failure) Unwrap() error {
	return f.err
}

// New tags err with kind. The result carries a stack trace (pkg/errors) so
// the request logger can print where the failure surfaced.
func New(op string, kind errs.StorageKind, err error) error {
	return pkgerrors.WithStack(&Failure{Kind: kind, Op: op, err: err})
}

// KindOf reports the kind of the first *Failure in err's chain, or
// errs.StorageUnknown if there is none.
func KindOf(err error) errs.StorageKind {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return errs.StorageUnknown
}

// IsFailure reports whether err carries a tagged storage failure.
func IsFailure(err error) bool {
	var f *Failure
	return errors.As(err, &f)
}

// classifyContext handles the context errors shared by every driver. A
// cancelled call is answered like a timed out one, whichever layer saw it.
func classifyContext(err error) (errs.StorageKind, bool) {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.StoragePoolTimeout, true
	}
	return errs.StorageUnknown, false
}
