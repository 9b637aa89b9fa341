package validation

import (
	"fmt"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/deppfellow/breezi/internal/errs"
)

// Validator evaluates rules against field values.
//
// It owns no mutable state: the pattern cache is injected and read-only, and
// the go-playground validator instance is safe for concurrent use. Evaluation
// never performs I/O and never reads the clock.
type Validator struct {
	patterns *PatternCache
	std      *validator.Validate
}

// New returns a Validator backed by the given pattern cache.
func New(patterns *PatternCache) *Validator {
	return &Validator{
		patterns: patterns,
		std:      validator.New(),
	}
}

// Patterns returns the cache the validator was built with.
func (v *Validator) Patterns() *PatternCache {
	return v.patterns
}

// Check verifies at startup that every pattern rule in d names a cached
// pattern and every length rule has sane bounds.
func (v *Validator) Check(d Descriptor) error {
	for _, f := range d.Fields {
		for _, r := range f.Rules {
			switch r.Kind {
			case KindPattern:
				if _, ok := v.patterns.Get(r.Pattern); !ok {
					return fmt.Errorf("schema %s: field %s: unknown pattern %q", d.Name, f.Name, r.Pattern)
				}
			case KindLength:
				if r.Min < 0 || r.Max < r.Min {
					return fmt.Errorf("schema %s: field %s: invalid length bounds [%d, %d]", d.Name, f.Name, r.Min, r.Max)
				}
			case KindEmail:
			default:
				return fmt.Errorf("schema %s: field %s: unknown rule kind %q", d.Name, f.Name, r.Kind)
			}
		}
	}
	return nil
}

// Evaluate runs one rule against one value. It returns nil when the value is
// accepted, or the Invalidation describing the violation.
func (v *Validator) Evaluate(rule Rule, value string) *errs.Invalidation {
	if v.accepts(rule, value) {
		return nil
	}

	code := rule.Code()
	inv := errs.NewInvalidation(
		code,
		fmt.Sprintf("Given value is not a valid %s", code),
		value,
		rule.Params(v.patterns),
	)
	return &inv
}

func (v *Validator) accepts(rule Rule, value string) bool {
	switch rule.Kind {
	case KindLength:
		n := utf8.RuneCountInString(value)
		return n >= rule.Min && n <= rule.Max

	case KindEmail:
		return v.std.Var(value, "email") == nil

	case KindPattern:
		re, ok := v.patterns.Get(rule.Pattern)
		if !ok {
			// Unreachable for schemas that passed Check.
			panic(fmt.Sprintf("validation: pattern %q is not cached", rule.Pattern))
		}
		return re.MatchString(value)

	default:
		panic(fmt.Sprintf("validation: unknown rule kind %q", rule.Kind))
	}
}

// Validate runs the whole rule table of s against in.
//
// Every field is visited in declaration order and its rules run in declaration
// order. At most one Invalidation is kept per field (the first rule that
// fails), and a failing field never stops the remaining fields from being
// checked. The result is nil when nothing failed.
func Validate[T any](v *Validator, s Schema[T], in T) errs.Invalidations {
	var invalid errs.Invalidations

	for _, f := range s.fields {
		value := f.Value(in)
		for _, rule := range f.Rules {
			inv := v.Evaluate(rule, value)
			if inv == nil {
				continue
			}
			if invalid == nil {
				invalid = make(errs.Invalidations)
			}
			invalid[f.Name] = *inv
			break
		}
	}

	return invalid
}
