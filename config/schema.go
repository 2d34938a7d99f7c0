package config

import "fmt"

// Kind is the expected type of a configuration field.
type Kind int

const (
	String Kind = iota
	Int
	Float
	Bool
	Duration
	Strings
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Int:
		return "int"
	case Float:
		return "float"
	case Bool:
		return "bool"
	case Duration:
		return "duration"
	case Strings:
		return "string list"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Field declares one entry of a configuration schema.
type Field struct {
	// Name is the hierarchical key of the field, e.g. "server.port".
	Name string

	// Kind is the expected type the raw value must coerce to.
	Kind Kind

	// Default is used only when the field is absent from the source.
	// A malformed present value always fails binding; it is never
	// silently replaced by the default.
	Default any

	// Required marks the field as mandatory when no default exists.
	Required bool

	// Constraint is an optional validation rule applied to the coerced
	// value, in go-playground/validator syntax, e.g. "min=1,max=65535"
	// or "oneof=debug info warn error".
	Constraint string
}

// Schema declares the shape a Source is bound against.
type Schema struct {
	Fields []Field
}
