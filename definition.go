package cask

import (
	"fmt"

	"github.com/cask-framework/cask/config"
)

// Requirement declares a single dependency of a component: a target
// declared type, an optional qualifier to pick between candidates of
// the same type, and whether the dependency may be absent.
type Requirement struct {
	// Type is the declared type the dependency must provide.
	Type string

	// Qualifier selects a specific definition when several share the
	// declared type. Empty means the type match must be unique.
	Qualifier string

	// Optional marks the requirement as nullable: zero matching
	// candidates is recorded as absent rather than failing resolution.
	Optional bool
}

func (r Requirement) String() string {
	if r.Qualifier != "" {
		return fmt.Sprintf("%s[%s]", r.Type, r.Qualifier)
	}
	return r.Type
}

// Factory constructs a component from its already-resolved
// dependencies. Factories must not perform lookups outside the
// requirements declared on their definition.
type Factory func(d *Deps) (any, error)

// Definition describes a component before it is constructed: its
// identity, the types it provides, its scope, and its declared
// dependency requirements. Definitions are static data; the container
// never inspects component values at runtime to infer any of this.
// A Definition is immutable once registered.
type Definition struct {
	// Name is the stable identity of the component, unique across the
	// registry. Usually derived from the primary type, e.g. "db.Pool".
	Name string

	// Type is the primary declared type of the component.
	Type string

	// Provides lists additional declared types the component can
	// satisfy, typically interfaces the concrete value implements.
	Provides []string

	// Qualifier disambiguates this definition when several definitions
	// declare the same type.
	Qualifier string

	// Scope is the lifetime policy of constructed instances.
	Scope Scope

	// Requires declares the component's dependencies.
	Requires []Requirement

	// Factory constructs the component. Exactly one of Factory and
	// Instance must be set.
	Factory Factory

	// Instance is a pre-built value registered without a factory. It
	// enters the live table already constructed and must be
	// Singleton-scoped.
	Instance any
}

// declaredTypes returns the full capability set of the definition.
func (d *Definition) declaredTypes() []string {
	types := make([]string, 0, len(d.Provides)+1)
	types = append(types, d.Type)
	types = append(types, d.Provides...)
	return types
}

// provides reports whether the definition declares the given type.
func (d *Definition) provides(typ string) bool {
	if d.Type == typ {
		return true
	}
	for _, p := range d.Provides {
		if p == typ {
			return true
		}
	}
	return false
}

// validate checks the definition is well formed before registration.
func (d *Definition) validate() error {
	if d == nil {
		return InvalidDefinitionError{Cause: ErrNilDefinition}
	}
	if d.Name == "" {
		return InvalidDefinitionError{Cause: ErrEmptyName}
	}
	if d.Type == "" {
		return InvalidDefinitionError{Name: d.Name, Cause: ErrEmptyType}
	}
	if !d.Scope.IsValid() {
		return InvalidDefinitionError{Name: d.Name, Cause: InvalidScopeError{Value: int(d.Scope)}}
	}
	if d.Factory == nil && d.Instance == nil {
		return InvalidDefinitionError{Name: d.Name, Cause: ErrNilFactory}
	}
	if d.Factory != nil && d.Instance != nil {
		return InvalidDefinitionError{Name: d.Name,
			Cause: fmt.Errorf("definition cannot have both a factory and an instance")}
	}
	if d.Instance != nil && d.Scope != Singleton {
		return InvalidDefinitionError{Name: d.Name,
			Cause: fmt.Errorf("instance definitions must be singleton-scoped, got %s", d.Scope)}
	}
	if d.Instance != nil && len(d.Requires) > 0 {
		return InvalidDefinitionError{Name: d.Name,
			Cause: fmt.Errorf("instance definitions cannot declare requirements")}
	}
	for _, req := range d.Requires {
		if req.Type == "" {
			return InvalidDefinitionError{Name: d.Name,
				Cause: fmt.Errorf("requirement with empty type")}
		}
	}
	return nil
}

// depKey identifies a declared requirement inside a Deps value.
type depKey struct {
	typ       string
	qualifier string
}

// Deps carries the resolved dependency instances handed to a Factory.
// Values are keyed by the requirement's declared type and qualifier
// exactly as written on the Definition.
type Deps struct {
	consumer *Definition
	values   map[depKey]any
	declared map[depKey]bool
	cfg      *config.Node
}

// Get returns the instance resolved for a declared mandatory
// requirement. It panics if the requirement was never declared on the
// definition; that is a programming error in the definition, not a
// runtime condition.
func (d *Deps) Get(typ string, qualifier ...string) any {
	key := depKey{typ: typ, qualifier: first(qualifier)}
	if !d.declared[key] {
		panic(fmt.Sprintf("cask: component %q requested undeclared dependency %s",
			d.consumer.Name, Requirement{Type: key.typ, Qualifier: key.qualifier}))
	}
	return d.values[key]
}

// Lookup returns the instance resolved for a declared requirement and
// whether it is present. Optional requirements that resolved to no
// candidate report false.
func (d *Deps) Lookup(typ string, qualifier ...string) (any, bool) {
	key := depKey{typ: typ, qualifier: first(qualifier)}
	v, ok := d.values[key]
	return v, ok
}

// Config returns the configuration bound during startup, or nil when
// the context was built without configuration.
func (d *Deps) Config() *config.Node {
	return d.cfg
}

func first(qualifier []string) string {
	if len(qualifier) > 0 {
		return qualifier[0]
	}
	return ""
}
