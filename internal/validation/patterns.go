package validation

import (
	"fmt"
	"regexp"
	"sort"
)

// PatternCache holds compiled regular expressions by name.
//
// It is built once before serving begins and is read-only afterwards, so
// validators may share it across goroutines without locking. Patterns are
// never compiled on the request path.
type PatternCache struct {
	patterns map[string]*regexp.Regexp
}

// NewPatternCache compiles every expression in exprs, keyed by name.
func NewPatternCache(exprs map[string]string) (*PatternCache, error) {
	patterns := make(map[string]*regexp.Regexp, len(exprs))
	for name, expr := range exprs {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("compile pattern %q: %w", name, err)
		}
		patterns[name] = re
	}
	return &PatternCache{patterns: patterns}, nil
}

// MustPatternCache is like NewPatternCache but panics on a bad expression.
// Intended for package-level declarations of fixed patterns.
func MustPatternCache(exprs map[string]string) *PatternCache {
	cache, err := NewPatternCache(exprs)
	if err != nil {
		panic(err)
	}
	return cache
}

// Get returns the compiled pattern registered under name.
func (c *PatternCache) Get(name string) (*regexp.Regexp, bool) {
	if c == nil {
		return nil, false
	}
	re, ok := c.patterns[name]
	return re, ok
}

// Names returns the registered pattern names, sorted.
func (c *PatternCache) Names() []string {
	if c == nil {
		return nil
	}
	names := make([]string, 0, len(c.patterns))
	for name := range c.patterns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
