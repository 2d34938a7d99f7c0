package cask

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/cask-framework/cask/config"
)

// ApplicationContext is the container facade. It owns the registry of
// component definitions, the resolved construction order, and the
// table of live singleton instances, and it is the single source of
// truth other subsystems query for a dependency by type and qualifier.
//
// A context is constructed with New, started exactly once with Start,
// queried concurrently with Get and Scope once Start has returned
// successfully, and torn down with Shutdown.
type ApplicationContext struct {
	log     *zap.Logger
	scanner *Scanner
	modules []ModuleOption

	cfgSource config.Source
	cfgSchema config.Schema
	cfg       *config.Node

	registry  *Registry
	plan      *plan
	instances map[string]*Instance
	life      *lifecycle

	started atomic.Bool
	ready   atomic.Bool
	closed  atomic.Bool
}

// New creates an application context. Nothing is scanned or
// constructed until Start.
func New(opts ...Option) *ApplicationContext {
	c := &ApplicationContext{
		log:       zap.NewNop(),
		scanner:   NewScanner(),
		registry:  NewRegistry(),
		instances: make(map[string]*Instance),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	c.life = newLifecycle(c.log)
	return c
}

// Config returns the configuration bound during startup, or nil.
func (c *ApplicationContext) Config() *config.Node {
	return c.cfg
}

// Definitions returns every registered definition in discovery order.
func (c *ApplicationContext) Definitions() []*Definition {
	return c.registry.Definitions()
}

// Start runs the startup sequence: bind configuration, apply modules
// and scan sources into the registry, freeze the registry, resolve the
// dependency graph, and construct every singleton in dependency order.
//
// The context either starts fully or not at all: any error during
// scan, resolve, or construct is fatal, instances already brought up
// are torn down best-effort, and the error names the failing phase and
// first cause. Calling Start a second time is a programming error
// reported as ErrAlreadyStarted, distinct from startup failures.
func (c *ApplicationContext) Start(ctx context.Context) error {
	if !c.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if c.cfg == nil && c.cfgSource != nil {
		node, err := config.NewBinder().Bind(c.cfgSource, c.cfgSchema)
		if err != nil {
			return StartupError{Phase: "config", Cause: err}
		}
		c.cfg = node
	}

	for _, mod := range c.modules {
		if err := mod(c.registry); err != nil {
			return StartupError{Phase: "scan", Cause: err}
		}
	}
	if err := c.scanner.Scan(c.registry); err != nil {
		return StartupError{Phase: "scan", Cause: err}
	}

	c.registry.freeze()
	p, err := resolve(c.registry)
	if err != nil {
		return StartupError{Phase: "resolve", Cause: err}
	}
	c.plan = p

	c.log.Info("starting application context",
		zap.Int("definitions", c.registry.Len()))

	for _, name := range p.order {
		def, ok := c.registry.Lookup(name)
		if !ok || def.Scope != Singleton {
			continue
		}

		inst, err := c.life.construct(ctx, def, c.deps(def))
		if err != nil {
			// Never expose a partially started context: unwind what
			// came up, best-effort.
			c.life.shutdown(ctx)
			c.closed.Store(true)
			return StartupError{Phase: "construct", Cause: err}
		}
		c.instances[name] = inst
	}

	c.ready.Store(true)
	c.log.Info("application context started",
		zap.Int("singletons", len(c.instances)))
	return nil
}

// Get resolves a singleton component by declared type and optional
// qualifier. It is safe for concurrent use once Start has returned
// successfully. Request-scoped components cannot be resolved from the
// root context; use Scope.
func (c *ApplicationContext) Get(typ string, qualifier ...string) (any, error) {
	if c.closed.Load() {
		return nil, ErrContextClosed
	}
	if !c.ready.Load() {
		return nil, ErrNotStarted
	}

	def, err := match(c.registry, "", Requirement{Type: typ, Qualifier: first(qualifier)})
	if err != nil {
		return nil, err
	}
	if def.Scope == Request {
		return nil, fmt.Errorf("component %q: %w", def.Name, ErrRequestScoped)
	}

	return c.instances[def.Name].value, nil
}

// Scope opens a new request scope. Request-scoped components resolved
// through it are constructed fresh for this scope and torn down when
// the scope closes; singleton dependencies are shared with the
// context. Scopes may be created and used concurrently.
func (c *ApplicationContext) Scope(ctx context.Context) (*RequestScope, error) {
	if c.closed.Load() {
		return nil, ErrContextClosed
	}
	if !c.ready.Load() {
		return nil, ErrNotStarted
	}
	return newRequestScope(c, ctx), nil
}

// Shutdown tears down every singleton in strict reverse construction
// order, best-effort: a failing hook is logged and remaining hooks
// still run. The returned error joins all hook failures. Shutdown is
// idempotent.
func (c *ApplicationContext) Shutdown(ctx context.Context) error {
	if !c.started.Load() {
		return ErrNotStarted
	}
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	c.log.Info("shutting down application context")
	if errs := c.life.shutdown(ctx); len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// deps assembles the resolved dependency values for a singleton
// definition from the live-instance table.
func (c *ApplicationContext) deps(def *Definition) *Deps {
	values := make(map[depKey]any)
	declared := make(map[depKey]bool)

	for _, b := range c.plan.bindings[def.Name] {
		key := depKey{typ: b.req.Type, qualifier: b.req.Qualifier}
		declared[key] = true
		if b.absent() {
			continue
		}
		values[key] = c.instances[b.target].value
	}

	return &Deps{consumer: def, values: values, declared: declared, cfg: c.cfg}
}
