// Package cask is a dependency-injection container for Go applications.
// It discovers component definitions, resolves a deterministic
// construction order over their dependency graph, manages component
// lifecycle, and binds external configuration into typed objects
// consumed by components.
//
// # Overview
//
// cask works from explicit, static component definitions: every
// component declares its identity, the types it provides, its scope,
// and its dependency requirements as plain data. The container never
// uses runtime reflection to infer any of this.
//
//   - Two scopes: Singleton (one instance per context) and Request
//     (one instance per request scope)
//   - Deterministic construction order with discovery-order tie-break
//   - Cycle detection naming the full cycle path
//   - Explicit two-phase lifecycle hooks: OnReady and OnShutdown
//   - Schema-driven configuration binding with fail-closed coercion
//
// # Basic Usage
//
// Declare definitions, hand them to a context, start it, and resolve:
//
//	app := cask.New(cask.WithSources(cask.Defs(
//	    &cask.Definition{
//	        Name:    "log.Logger",
//	        Type:    "log.Logger",
//	        Factory: func(d *cask.Deps) (any, error) { return newLogger() },
//	    },
//	    &cask.Definition{
//	        Name:     "user.Service",
//	        Type:     "user.Service",
//	        Requires: []cask.Requirement{{Type: "log.Logger"}},
//	        Factory: func(d *cask.Deps) (any, error) {
//	            return newUserService(d.Get("log.Logger").(*Logger)), nil
//	        },
//	    },
//	)))
//
//	if err := app.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer app.Shutdown(ctx)
//
//	svc, err := app.Get("user.Service")
//
// # Startup
//
// Start sequences configuration binding, scanning, graph resolution,
// and singleton construction as a single sequential phase. The context
// either starts fully or not at all; a failure during any phase tears
// down what was already constructed and reports the first fatal cause.
//
// # Request Scopes
//
// Request-scoped components are constructed fresh per scope and torn
// down when the scope closes:
//
//	scope, err := app.Scope(r.Context())
//	defer scope.Close()
//	tx, err := scope.Get("db.Tx")
//
// The httpware package attaches a scope to every HTTP request.
package cask
