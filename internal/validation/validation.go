// Package validation contains the logic for validating
// request data.
//
// Every request type declares an explicit rule table (a Schema): the
// ordered list of its fields and, per field, the ordered rules that apply.
// Tables are built once at startup and are inspectable, so the same
// declarations drive request validation and the bindings export.
//
// Validation collects every invalid field but keeps only the first failing
// rule per field, and reports the outcome as errs.Invalidations the client
// can render next to each form input.
package validation
