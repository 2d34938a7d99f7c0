package cask

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cask-framework/cask/internal/graph"
)

// ========================================
// Core Error Values (Sentinel Errors)
// ========================================
// These are base errors that are wrapped in typed errors when returned.

var (
	// Context lifecycle errors.
	ErrAlreadyStarted = errors.New("application context already started")
	ErrNotStarted     = errors.New("application context not started")
	ErrContextClosed  = errors.New("application context has been shut down")
	ErrScopeClosed    = errors.New("request scope has been closed")

	// Registration errors.
	ErrRegistryFrozen = errors.New("registry is read-only once resolution has begun")
	ErrNilDefinition  = errors.New("definition cannot be nil")
	ErrNilFactory     = errors.New("definition has neither a factory nor an instance")
	ErrEmptyName      = errors.New("definition name cannot be empty")
	ErrEmptyType      = errors.New("definition type cannot be empty")

	// Lookup errors.
	ErrRequestScoped = errors.New("request-scoped component must be resolved from a request scope")
	ErrNoScope       = errors.New("no request scope attached to context")
)

var (
	_ error = DuplicateComponentError{}
	_ error = MissingDependencyError{}
	_ error = AmbiguousDependencyError{}
	_ error = ScopeConflictError{}
	_ error = InvalidDefinitionError{}
	_ error = InvalidScopeError{}
	_ error = LifecycleHookError{}
	_ error = ModuleError{}
	_ error = StartupError{}
)

// CyclicDependencyError reports a dependency cycle among definitions.
// It names every definition on the cycle in edge order.
type CyclicDependencyError = graph.CycleError

// DuplicateComponentError indicates two definitions share an identity.
type DuplicateComponentError struct {
	Name string
}

func (e DuplicateComponentError) Error() string {
	return fmt.Sprintf("duplicate component definition %q", e.Name)
}

// MissingDependencyError indicates a requirement resolved to zero
// candidate definitions. Consumer is empty for direct lookups.
type MissingDependencyError struct {
	Consumer    string
	Requirement Requirement
}

func (e MissingDependencyError) Error() string {
	var b strings.Builder
	b.WriteString("no component provides type ")
	b.WriteString(e.Requirement.Type)
	if e.Requirement.Qualifier != "" {
		fmt.Fprintf(&b, " (qualifier %q)", e.Requirement.Qualifier)
	}
	if e.Consumer != "" {
		fmt.Fprintf(&b, ", required by %q", e.Consumer)
	}
	return b.String()
}

// AmbiguousDependencyError indicates a requirement matched more than
// one definition and no qualifier disambiguates them.
type AmbiguousDependencyError struct {
	Consumer    string
	Requirement Requirement
	Candidates  []string
}

func (e AmbiguousDependencyError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "ambiguous dependency on type %s", e.Requirement.Type)
	if e.Requirement.Qualifier != "" {
		fmt.Fprintf(&b, " (qualifier %q)", e.Requirement.Qualifier)
	}
	if e.Consumer != "" {
		fmt.Fprintf(&b, " required by %q", e.Consumer)
	}
	fmt.Fprintf(&b, ": %d candidates [%s]; add a qualifier to disambiguate",
		len(e.Candidates), strings.Join(e.Candidates, ", "))
	return b.String()
}

// ScopeConflictError indicates a component has an invalid dependency
// due to scope constraints: a Singleton cannot depend on a Request
// component, because the singleton would capture one request's value.
type ScopeConflictError struct {
	Consumer        string
	ConsumerScope   Scope
	Dependency      string
	DependencyScope Scope
}

func (e ScopeConflictError) Error() string {
	return fmt.Sprintf("scope conflict: %q (%s) cannot depend on %q (%s)",
		e.Consumer, e.ConsumerScope, e.Dependency, e.DependencyScope)
}

// InvalidDefinitionError indicates a malformed definition was handed
// to the scanner or registry.
type InvalidDefinitionError struct {
	Name  string
	Cause error
}

func (e InvalidDefinitionError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("invalid definition %q: %v", e.Name, e.Cause)
	}
	return fmt.Sprintf("invalid definition: %v", e.Cause)
}

func (e InvalidDefinitionError) Unwrap() error {
	return e.Cause
}

// InvalidScopeError indicates an unknown scope value.
type InvalidScopeError struct {
	Value any
}

func (e InvalidScopeError) Error() string {
	return fmt.Sprintf("invalid component scope: %v", e.Value)
}

// LifecycleHookError wraps a failure from a component factory or
// lifecycle hook. Phase is one of "construct", "ready", "shutdown".
type LifecycleHookError struct {
	Component string
	Phase     string
	Cause     error
}

func (e LifecycleHookError) Error() string {
	return fmt.Sprintf("component %q failed during %s: %v", e.Component, e.Phase, e.Cause)
}

func (e LifecycleHookError) Unwrap() error {
	return e.Cause
}

// ModuleError wraps errors from module registration.
type ModuleError struct {
	Module string
	Cause  error
}

func (e ModuleError) Error() string {
	return fmt.Sprintf("module %q: %v", e.Module, e.Cause)
}

func (e ModuleError) Unwrap() error {
	return e.Cause
}

// StartupError wraps the first fatal cause encountered by Start.
// Phase is one of "config", "scan", "resolve", "construct".
type StartupError struct {
	Phase string
	Cause error
}

func (e StartupError) Error() string {
	return fmt.Sprintf("context startup failed during %s phase: %v", e.Phase, e.Cause)
}

func (e StartupError) Unwrap() error {
	return e.Cause
}
