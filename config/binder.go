package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ValidationError reports a configuration binding failure, naming the
// offending field and the reason: a missing required field, a type
// coercion failure, or a constraint violation.
type ValidationError struct {
	Field  string
	Reason string
	Cause  error
}

func (e ValidationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("configuration field %q: %s: %v", e.Field, e.Reason, e.Cause)
	}
	return fmt.Sprintf("configuration field %q: %s", e.Field, e.Reason)
}

func (e ValidationError) Unwrap() error {
	return e.Cause
}

// Binder converts raw configuration values into typed nodes. It is
// stateless and re-runnable; the same binder can serve any number of
// Bind calls.
type Binder struct {
	validate *validator.Validate
}

// NewBinder creates a binder.
func NewBinder() *Binder {
	return &Binder{validate: validator.New()}
}

// Bind populates a Node from the source according to the schema.
// Coercion is structural: string values are parsed into the declared
// kind before failing. Binding fails closed: a present value that
// cannot coerce or violates its constraint is an error even when a
// default exists.
func (b *Binder) Bind(src Source, schema Schema) (*Node, error) {
	values := make(map[string]any, len(schema.Fields))

	for _, field := range schema.Fields {
		raw, present := src.Lookup(field.Name)
		if !present {
			if field.Default != nil {
				coerced, err := coerce(field.Default, field.Kind)
				if err != nil {
					return nil, ValidationError{Field: field.Name,
						Reason: fmt.Sprintf("default does not coerce to %s", field.Kind), Cause: err}
				}
				values[field.Name] = coerced
				continue
			}
			if field.Required {
				return nil, ValidationError{Field: field.Name, Reason: "required field is missing"}
			}
			continue
		}

		coerced, err := coerce(raw, field.Kind)
		if err != nil {
			return nil, ValidationError{Field: field.Name,
				Reason: fmt.Sprintf("value %v does not coerce to %s", raw, field.Kind), Cause: err}
		}

		if field.Constraint != "" {
			if err := b.validate.Var(coerced, field.Constraint); err != nil {
				return nil, ValidationError{Field: field.Name,
					Reason: fmt.Sprintf("value %v violates constraint %q", coerced, field.Constraint), Cause: err}
			}
		}

		values[field.Name] = coerced
	}

	return &Node{values: values}, nil
}

// coerce converts a raw value to the declared kind, attempting
// structural conversion of strings before failing.
func coerce(raw any, kind Kind) (any, error) {
	switch kind {
	case String:
		switch v := raw.(type) {
		case string:
			return v, nil
		case int, int64, float64, bool:
			return fmt.Sprintf("%v", v), nil
		}
	case Int:
		switch v := raw.(type) {
		case int:
			return v, nil
		case int64:
			return int(v), nil
		case float64:
			if v == float64(int(v)) {
				return int(v), nil
			}
			return nil, fmt.Errorf("%v is not an integer", v)
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return nil, err
			}
			return n, nil
		}
	case Float:
		switch v := raw.(type) {
		case float64:
			return v, nil
		case int:
			return float64(v), nil
		case int64:
			return float64(v), nil
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return nil, err
			}
			return f, nil
		}
	case Bool:
		switch v := raw.(type) {
		case bool:
			return v, nil
		case string:
			t, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return nil, err
			}
			return t, nil
		}
	case Duration:
		switch v := raw.(type) {
		case time.Duration:
			return v, nil
		case int:
			return time.Duration(v) * time.Second, nil
		case string:
			d, err := time.ParseDuration(strings.TrimSpace(v))
			if err != nil {
				return nil, err
			}
			return d, nil
		}
	case Strings:
		switch v := raw.(type) {
		case []string:
			return v, nil
		case []any:
			out := make([]string, len(v))
			for i, item := range v {
				s, ok := item.(string)
				if !ok {
					return nil, fmt.Errorf("element %d is %T, not string", i, item)
				}
				out[i] = s
			}
			return out, nil
		case string:
			if strings.TrimSpace(v) == "" {
				return []string{}, nil
			}
			parts := strings.Split(v, ",")
			for i := range parts {
				parts[i] = strings.TrimSpace(parts[i])
			}
			return parts, nil
		}
	}

	return nil, fmt.Errorf("cannot convert %T to %s", raw, kind)
}

// Node is a typed, validated configuration object produced by binding.
// Getters return the zero value for fields absent from the schema or
// the source; presence can be checked with Has.
type Node struct {
	values map[string]any
}

// Has reports whether the field was bound.
func (n *Node) Has(name string) bool {
	_, ok := n.values[name]
	return ok
}

// String returns a string field.
func (n *Node) String(name string) string {
	v, _ := n.values[name].(string)
	return v
}

// Int returns an int field.
func (n *Node) Int(name string) int {
	v, _ := n.values[name].(int)
	return v
}

// Float returns a float field.
func (n *Node) Float(name string) float64 {
	v, _ := n.values[name].(float64)
	return v
}

// Bool returns a bool field.
func (n *Node) Bool(name string) bool {
	v, _ := n.values[name].(bool)
	return v
}

// Duration returns a duration field.
func (n *Node) Duration(name string) time.Duration {
	v, _ := n.values[name].(time.Duration)
	return v
}

// Strings returns a string-list field.
func (n *Node) Strings(name string) []string {
	v, _ := n.values[name].([]string)
	return v
}
