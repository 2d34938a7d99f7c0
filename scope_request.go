package cask

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// RequestScope owns the request-scoped instances of one external
// request. Instances are constructed lazily on first lookup, with
// their dependency subgraph resolved against the same plan as
// singletons: singleton dependencies are shared with the context,
// request-scoped dependencies are fresh in this scope.
//
// Each scope is isolated; simultaneous requests may construct their
// subgraphs concurrently. Close tears the scope's instances down in
// strict reverse construction order.
type RequestScope struct {
	id  string
	ctx context.Context
	app *ApplicationContext

	mu        sync.Mutex
	instances map[string]*Instance
	life      *lifecycle

	closed atomic.Bool
}

func newRequestScope(app *ApplicationContext, ctx context.Context) *RequestScope {
	if ctx == nil {
		ctx = context.Background()
	}

	s := &RequestScope{
		id:        uuid.NewString(),
		app:       app,
		instances: make(map[string]*Instance),
		life:      newLifecycle(app.log),
	}
	s.ctx = context.WithValue(ctx, scopeContextKey{}, s)
	return s
}

// ID returns the unique identity of this scope.
func (s *RequestScope) ID() string {
	return s.id
}

// Context returns the scope's context, carrying the scope itself for
// retrieval with ScopeFromContext.
func (s *RequestScope) Context() context.Context {
	return s.ctx
}

// Get resolves a component by declared type and optional qualifier.
// Singletons are shared with the application context; request-scoped
// components are constructed in this scope on first lookup.
func (s *RequestScope) Get(typ string, qualifier ...string) (any, error) {
	if s.closed.Load() {
		return nil, ErrScopeClosed
	}

	def, err := match(s.app.registry, "", Requirement{Type: typ, Qualifier: first(qualifier)})
	if err != nil {
		return nil, err
	}
	if def.Scope == Singleton {
		return s.app.instances[def.Name].value, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	inst, err := s.instance(def)
	if err != nil {
		return nil, err
	}
	return inst.value, nil
}

// instance returns the scope's instance for a request-scoped
// definition, constructing it and its request-scoped dependencies
// first. Caller holds s.mu. Recursion terminates because the resolved
// graph is acyclic.
func (s *RequestScope) instance(def *Definition) (*Instance, error) {
	if inst, ok := s.instances[def.Name]; ok {
		return inst, nil
	}

	values := make(map[depKey]any)
	declared := make(map[depKey]bool)

	for _, b := range s.app.plan.bindings[def.Name] {
		key := depKey{typ: b.req.Type, qualifier: b.req.Qualifier}
		declared[key] = true
		if b.absent() {
			continue
		}

		target, ok := s.app.registry.Lookup(b.target)
		if !ok {
			return nil, fmt.Errorf("resolved dependency %q of %q is not registered", b.target, def.Name)
		}

		if target.Scope == Singleton {
			values[key] = s.app.instances[target.Name].value
			continue
		}

		dep, err := s.instance(target)
		if err != nil {
			return nil, err
		}
		values[key] = dep.value
	}

	deps := &Deps{consumer: def, values: values, declared: declared, cfg: s.app.cfg}
	inst, err := s.life.construct(s.ctx, def, deps)
	if err != nil {
		return nil, err
	}
	s.instances[def.Name] = inst
	return inst, nil
}

// Close tears down the scope's instances in reverse construction
// order, best-effort, and returns the joined hook failures. Close is
// idempotent.
func (s *RequestScope) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if errs := s.life.shutdown(s.ctx); len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// scopeContextKey is the key for storing the current scope in context.
type scopeContextKey struct{}

// ScopeFromContext retrieves the request scope attached to a context,
// typically by the httpware middleware.
func ScopeFromContext(ctx context.Context) (*RequestScope, error) {
	scope, ok := ctx.Value(scopeContextKey{}).(*RequestScope)
	if !ok || scope == nil {
		return nil, ErrNoScope
	}
	if scope.closed.Load() {
		return nil, ErrScopeClosed
	}
	return scope, nil
}
