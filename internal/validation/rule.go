package validation

import (
	"strconv"
)

// RuleKind identifies a rule family. The kind doubles as the rule's internal
// code.
type RuleKind string

const (
	// KindLength checks the character count of a value against [Min, Max].
	KindLength RuleKind = "length"

	// KindEmail checks that a value is a syntactically valid email address.
	KindEmail RuleKind = "email"

	// KindPattern checks a value against a named pattern from the
	// PatternCache. Its internal code is never shown to clients; see Code.
	KindPattern RuleKind = "regex"
)

// PatternMatchCode is the public code reported for pattern rule violations.
const PatternMatchCode = "pattern match"

// Rule is one declared validation rule. Rules are plain values so schemas stay
// inspectable; the predicate lives in Validator.Evaluate.
type Rule struct {
	Kind RuleKind

	// Min and Max bound the length for KindLength.
	Min int
	Max int

	// Pattern names the PatternCache entry for KindPattern.
	Pattern string
}

// Length declares that a value must have between min and max characters.
func Length(min, max int) Rule {
	return Rule{Kind: KindLength, Min: min, Max: max}
}

// Email declares that a value must be a valid email address.
func Email() Rule {
	return Rule{Kind: KindEmail}
}

// Pattern declares that a value must match the named cached pattern.
func Pattern(name string) Rule {
	return Rule{Kind: KindPattern, Pattern: name}
}

// Code returns the public code for the rule.
func (r Rule) Code() string {
	if r.Kind == KindPattern {
		return PatternMatchCode
	}
	return string(r.Kind)
}

// Params returns the rule parameters as strings, never including the value
// under test. Pattern rules resolve their expression through patterns.
func (r Rule) Params(patterns *PatternCache) map[string]string {
	switch r.Kind {
	case KindLength:
		return map[string]string{
			"min": strconv.Itoa(r.Min),
			"max": strconv.Itoa(r.Max),
		}
	case KindPattern:
		params := map[string]string{}
		if re, ok := patterns.Get(r.Pattern); ok {
			params["pattern"] = re.String()
		}
		return params
	default:
		return map[string]string{}
	}
}
