package cask

import (
	"errors"

	"github.com/cask-framework/cask/internal/graph"
)

// binding is the resolved target of a single requirement. Target is
// empty when an optional requirement resolved to no candidate.
type binding struct {
	req    Requirement
	target string
}

func (b binding) absent() bool {
	return b.target == ""
}

// plan is the output of the resolve phase: for every definition, the
// concrete identity each requirement resolved to, plus a deterministic
// topological construction order over all definitions.
type plan struct {
	reg      *Registry
	order    []string
	bindings map[string][]binding
}

// match resolves a requirement against the registry: exact qualifier
// match when a qualifier is given, otherwise a unique declared-type
// match. Zero matches yield MissingDependencyError for mandatory
// requirements and an absent binding for optional ones; multiple
// matches without disambiguation yield AmbiguousDependencyError.
func match(reg *Registry, consumer string, req Requirement) (*Definition, error) {
	candidates := reg.ByType(req.Type)

	if req.Qualifier != "" {
		qualified := candidates[:0:0]
		for _, c := range candidates {
			if c.Qualifier == req.Qualifier {
				qualified = append(qualified, c)
			}
		}
		candidates = qualified
	}

	switch len(candidates) {
	case 0:
		if req.Optional {
			return nil, nil
		}
		return nil, MissingDependencyError{Consumer: consumer, Requirement: req}
	case 1:
		return candidates[0], nil
	default:
		names := make([]string, len(candidates))
		for i, c := range candidates {
			names[i] = c.Name
		}
		return nil, AmbiguousDependencyError{Consumer: consumer, Requirement: req, Candidates: names}
	}
}

// resolve builds the dependency graph over the frozen registry and
// computes the construction order.
//
// Mandatory edges are added first; a cycle among them is fatal. A
// resolved optional edge that would close a cycle is instead recorded
// as absent, in discovery order, so the outcome is deterministic.
func resolve(reg *Registry) (*plan, error) {
	g := graph.New()
	bindings := make(map[string][]binding, reg.Len())

	type optionalEdge struct {
		from string
		idx  int // index into bindings[from]
	}
	var optionals []optionalEdge

	for _, def := range reg.Definitions() {
		g.AddNode(def.Name)

		resolved := make([]binding, 0, len(def.Requires))
		for _, req := range def.Requires {
			target, err := match(reg, def.Name, req)
			if err != nil {
				return nil, err
			}
			if target == nil {
				resolved = append(resolved, binding{req: req})
				continue
			}

			if def.Scope == Singleton && target.Scope == Request {
				return nil, ScopeConflictError{
					Consumer:        def.Name,
					ConsumerScope:   def.Scope,
					Dependency:      target.Name,
					DependencyScope: target.Scope,
				}
			}

			resolved = append(resolved, binding{req: req, target: target.Name})
			if req.Optional {
				optionals = append(optionals, optionalEdge{from: def.Name, idx: len(resolved) - 1})
				continue
			}

			if err := g.AddEdge(def.Name, target.Name); err != nil {
				return nil, err
			}
		}
		bindings[def.Name] = resolved
	}

	// Optional edges only influence ordering. One that closes a cycle
	// is dropped and the requirement recorded absent.
	for _, opt := range optionals {
		b := bindings[opt.from][opt.idx]
		if err := g.AddEdge(opt.from, b.target); err != nil {
			var cycle *graph.CycleError
			if !errors.As(err, &cycle) {
				return nil, err
			}
			bindings[opt.from][opt.idx] = binding{req: b.req}
		}
	}

	order, err := g.Sort()
	if err != nil {
		return nil, err
	}

	return &plan{reg: reg, order: order, bindings: bindings}, nil
}
