package cask

// ModuleOption represents a registration action within a module.
type ModuleOption func(*Registry) error

// NewModule creates a named group of related registrations. Modules
// compose: a module may include other modules alongside individual
// definitions. A failing registration is wrapped in a ModuleError
// naming the module, so nested modules produce a chain of names.
//
// Example:
//
//	var DatabaseModule = cask.NewModule("database",
//	    cask.Provide(&cask.Definition{Name: "db.Pool", Type: "db.Pool", Factory: newPool}),
//	    cask.Provide(&cask.Definition{Name: "db.Users", Type: "db.Users",
//	        Requires: []cask.Requirement{{Type: "db.Pool"}},
//	        Factory:  newUserStore,
//	    }),
//	)
func NewModule(name string, opts ...ModuleOption) ModuleOption {
	return func(r *Registry) error {
		for _, opt := range opts {
			if opt == nil {
				continue
			}
			if err := opt(r); err != nil {
				return ModuleError{Module: name, Cause: err}
			}
		}
		return nil
	}
}

// Provide creates a ModuleOption registering a single definition.
func Provide(def *Definition) ModuleOption {
	return func(r *Registry) error {
		return r.Register(def)
	}
}

// ProvideInstance creates a ModuleOption registering a pre-built
// singleton value under the given identity and declared type.
func ProvideInstance(name, typ string, value any) ModuleOption {
	return func(r *Registry) error {
		return r.Register(&Definition{
			Name:     name,
			Type:     typ,
			Scope:    Singleton,
			Instance: value,
		})
	}
}
