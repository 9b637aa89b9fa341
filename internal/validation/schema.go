package validation

import (
	"fmt"
)

// Field declares one field of request type T: its wire name, how to read its
// raw value, and its rules in declaration order.
type Field[T any] struct {
	Name  string
	Value func(T) string
	Rules []Rule
}

// FieldOf declares a field of T.
func FieldOf[T any](name string, value func(T) string, rules ...Rule) Field[T] {
	return Field[T]{Name: name, Value: value, Rules: rules}
}

// Schema is the rule table of request type T. Fields are kept in declaration
// order, which is also the order validation visits them.
type Schema[T any] struct {
	name   string
	fields []Field[T]
}

// NewSchema builds the rule table for T. It fails on duplicate or empty field
// names so a broken table is caught at startup.
func NewSchema[T any](name string, fields ...Field[T]) (Schema[T], error) {
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if f.Name == "" {
			return Schema[T]{}, fmt.Errorf("schema %s: field name is required", name)
		}
		if f.Value == nil {
			return Schema[T]{}, fmt.Errorf("schema %s: field %s has no value accessor", name, f.Name)
		}
		if _, dup := seen[f.Name]; dup {
			return Schema[T]{}, fmt.Errorf("schema %s: duplicate field %s", name, f.Name)
		}
		seen[f.Name] = struct{}{}
	}
	return Schema[T]{name: name, fields: fields}, nil
}

// MustSchema is like NewSchema but panics on an invalid table.
func MustSchema[T any](name string, fields ...Field[T]) Schema[T] {
	s, err := NewSchema(name, fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Name returns the request type name.
func (s Schema[T]) Name() string {
	return s.name
}

// Fields returns the declared fields in order.
func (s Schema[T]) Fields() []Field[T] {
	return s.fields
}

// FieldDescriptor is the type-erased view of a declared field.
type FieldDescriptor struct {
	Name  string
	Rules []Rule
}

// Descriptor is the type-erased view of a Schema, used by the bindings export
// and by startup checks.
type Descriptor struct {
	Name   string
	Fields []FieldDescriptor
}

// Describe returns the type-erased view of s.
func (s Schema[T]) Describe() Descriptor {
	fields := make([]FieldDescriptor, 0, len(s.fields))
	for _, f := range s.fields {
		fields = append(fields, FieldDescriptor{Name: f.Name, Rules: f.Rules})
	}
	return Descriptor{Name: s.name, Fields: fields}
}
