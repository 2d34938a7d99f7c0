package cask

// Registry is the in-memory store of component definitions. It maps
// identity to Definition and keeps a declared-type index in stable
// discovery order. Registration is append-only during the scanning
// phase; the registry freezes once the context enters resolution.
//
// Registry is not safe for concurrent mutation; startup is a single
// sequential phase by design.
type Registry struct {
	defs   map[string]*Definition
	order  []*Definition            // discovery order
	byType map[string][]*Definition // declared type -> candidates, discovery order
	frozen bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		defs:   make(map[string]*Definition),
		byType: make(map[string][]*Definition),
	}
}

// Register adds a definition. Two definitions with the same identity
// fail with DuplicateComponentError regardless of registration order.
// Registering into a frozen registry fails with ErrRegistryFrozen.
func (r *Registry) Register(def *Definition) error {
	if r.frozen {
		return ErrRegistryFrozen
	}
	if err := def.validate(); err != nil {
		return err
	}
	if _, exists := r.defs[def.Name]; exists {
		return DuplicateComponentError{Name: def.Name}
	}

	r.defs[def.Name] = def
	r.order = append(r.order, def)
	for _, typ := range def.declaredTypes() {
		r.byType[typ] = append(r.byType[typ], def)
	}
	return nil
}

// Lookup returns the definition with the given identity.
func (r *Registry) Lookup(name string) (*Definition, bool) {
	def, ok := r.defs[name]
	return def, ok
}

// ByType returns every definition declaring the given type, in
// discovery order. The caller must disambiguate multiple matches.
func (r *Registry) ByType(typ string) []*Definition {
	defs := r.byType[typ]
	out := make([]*Definition, len(defs))
	copy(out, defs)
	return out
}

// Definitions returns all registered definitions in discovery order.
func (r *Registry) Definitions() []*Definition {
	out := make([]*Definition, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered definitions.
func (r *Registry) Len() int {
	return len(r.order)
}

// freeze makes the registry read-only. Called by the context when the
// resolution phase begins.
func (r *Registry) freeze() {
	r.frozen = true
}
