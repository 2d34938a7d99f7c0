package cask

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// State tags the lifecycle position of a live component instance.
type State int

const (
	StateUnconstructed State = iota
	StateConstructed
	StateReady
	StateDestroyed
)

func (s State) String() string {
	switch s {
	case StateUnconstructed:
		return "unconstructed"
	case StateConstructed:
		return "constructed"
	case StateReady:
		return "ready"
	case StateDestroyed:
		return "destroyed"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Initializer is the post-construction hook. OnReady runs after the
// component and all of its mandatory dependencies are constructed, in
// dependency order. A failure here is a fatal startup error.
type Initializer interface {
	OnReady(ctx context.Context) error
}

// Finalizer is the pre-destruction hook. OnShutdown runs in strict
// reverse construction order at context shutdown, or at scope close
// for request-scoped components. Failures are logged and do not stop
// remaining teardown hooks.
type Finalizer interface {
	OnShutdown(ctx context.Context) error
}

// Instance is a live component produced from a Definition.
type Instance struct {
	def   *Definition
	value any
	state State
}

// Definition returns the definition this instance was produced from.
func (i *Instance) Definition() *Definition {
	return i.def
}

// Value returns the underlying component value.
func (i *Instance) Value() any {
	return i.value
}

// State returns the current lifecycle state.
func (i *Instance) State() State {
	return i.state
}

// lifecycle drives instances through
// unconstructed -> constructed -> ready -> destroyed and remembers
// construction order for reverse teardown. One lifecycle exists for
// the context's singletons and one per request scope.
type lifecycle struct {
	log         *zap.Logger
	constructed []*Instance
}

func newLifecycle(log *zap.Logger) *lifecycle {
	return &lifecycle{log: log}
}

// construct invokes the definition's factory with the resolved
// dependencies, then runs the OnReady hook. Instance definitions skip
// the factory but still run the hook.
func (l *lifecycle) construct(ctx context.Context, def *Definition, deps *Deps) (*Instance, error) {
	inst := &Instance{def: def, state: StateUnconstructed}

	if def.Instance != nil {
		inst.value = def.Instance
	} else {
		value, err := def.Factory(deps)
		if err != nil {
			return nil, LifecycleHookError{Component: def.Name, Phase: "construct", Cause: err}
		}
		inst.value = value
	}
	inst.state = StateConstructed
	l.constructed = append(l.constructed, inst)

	if init, ok := inst.value.(Initializer); ok {
		if err := init.OnReady(ctx); err != nil {
			return nil, LifecycleHookError{Component: def.Name, Phase: "ready", Cause: err}
		}
	}
	inst.state = StateReady

	l.log.Debug("component ready",
		zap.String("component", def.Name),
		zap.Stringer("scope", def.Scope))

	return inst, nil
}

// shutdown tears down every constructed instance in reverse order,
// best-effort: a failing hook is logged and teardown continues. The
// returned slice collects the failures.
func (l *lifecycle) shutdown(ctx context.Context) []error {
	var errs []error

	for i := len(l.constructed) - 1; i >= 0; i-- {
		inst := l.constructed[i]
		if inst.state == StateDestroyed {
			continue
		}

		if fin, ok := inst.value.(Finalizer); ok {
			if err := fin.OnShutdown(ctx); err != nil {
				hookErr := LifecycleHookError{Component: inst.def.Name, Phase: "shutdown", Cause: err}
				l.log.Error("shutdown hook failed",
					zap.String("component", inst.def.Name),
					zap.Error(err))
				errs = append(errs, hookErr)
			}
		}
		inst.state = StateDestroyed
	}

	l.constructed = nil
	return errs
}
