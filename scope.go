package cask

import (
	"encoding/json"
	"fmt"
)

// Scope specifies the lifetime of a component managed by the container.
// The scope determines when instances are created and who owns them.
type Scope int

const (
	// Singleton specifies that a single instance of the component is
	// constructed during ApplicationContext startup and shared by
	// reference for the lifetime of the context.
	// Singleton components must not depend on Request components.
	Singleton Scope = iota

	// Request specifies that a fresh instance of the component is
	// constructed for each request scope and torn down when the scope
	// closes. In web applications this typically means one instance
	// per HTTP request.
	Request
)

// String returns the string representation of the Scope.
func (s Scope) String() string {
	switch s {
	case Singleton:
		return "Singleton"
	case Request:
		return "Request"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// IsValid checks if the scope is a known value.
func (s Scope) IsValid() bool {
	return s >= Singleton && s <= Request
}

// MarshalText implements encoding.TextMarshaler.
func (s Scope) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Scope) UnmarshalText(text []byte) error {
	switch string(text) {
	case "Singleton", "singleton":
		*s = Singleton
	case "Request", "request", "per-request":
		*s = Request
	default:
		return &InvalidScopeError{Value: string(text)}
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (s Scope) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Scope) UnmarshalJSON(data []byte) error {
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	return s.UnmarshalText([]byte(v))
}
