package cask_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cask-framework/cask"
)

func requestDef(rec *recorder, name, typ string, reqs ...cask.Requirement) *cask.Definition {
	d := trackedDef(rec, name, typ, reqs...)
	d.Scope = cask.Request
	return d
}

func startScoped(t *testing.T, rec *recorder, defs ...*cask.Definition) *cask.ApplicationContext {
	t.Helper()
	app := cask.New(cask.WithSources(cask.Defs(defs...)))
	require.NoError(t, app.Start(context.Background()))
	t.Cleanup(func() { _ = app.Shutdown(context.Background()) })
	return app
}

func TestRequestScope_FreshInstancePerScope(t *testing.T) {
	rec := &recorder{}
	app := startScoped(t, rec, requestDef(rec, "tx", "db.Tx"))

	first, err := app.Scope(context.Background())
	require.NoError(t, err)
	defer first.Close()

	second, err := app.Scope(context.Background())
	require.NoError(t, err)
	defer second.Close()

	v1, err := first.Get("db.Tx")
	require.NoError(t, err)
	v2, err := second.Get("db.Tx")
	require.NoError(t, err)

	assert.NotSame(t, v1.(*tracked), v2.(*tracked))
	assert.NotEqual(t, first.ID(), second.ID())
}

func TestRequestScope_CachedWithinScope(t *testing.T) {
	rec := &recorder{}
	app := startScoped(t, rec, requestDef(rec, "tx", "db.Tx"))

	scope, err := app.Scope(context.Background())
	require.NoError(t, err)
	defer scope.Close()

	v1, err := scope.Get("db.Tx")
	require.NoError(t, err)
	v2, err := scope.Get("db.Tx")
	require.NoError(t, err)
	assert.Same(t, v1.(*tracked), v2.(*tracked))
}

func TestRequestScope_SingletonDependencyShared(t *testing.T) {
	rec := &recorder{}
	app := startScoped(t, rec,
		trackedDef(rec, "pool", "db.Pool"),
		requestDef(rec, "tx", "db.Tx", cask.Requirement{Type: "db.Pool"}),
	)

	scopeA, err := app.Scope(context.Background())
	require.NoError(t, err)
	defer scopeA.Close()
	scopeB, err := app.Scope(context.Background())
	require.NoError(t, err)
	defer scopeB.Close()

	txA, err := scopeA.Get("db.Tx")
	require.NoError(t, err)
	txB, err := scopeB.Get("db.Tx")
	require.NoError(t, err)

	poolA := txA.(*tracked).deps["db.Pool"].(*tracked)
	poolB := txB.(*tracked).deps["db.Pool"].(*tracked)
	assert.Same(t, poolA, poolB)

	shared, err := app.Get("db.Pool")
	require.NoError(t, err)
	assert.Same(t, shared.(*tracked), poolA)
}

func TestRequestScope_RequestDependencyFreshPerScope(t *testing.T) {
	rec := &recorder{}
	app := startScoped(t, rec,
		requestDef(rec, "session", "web.Session"),
		requestDef(rec, "handler", "web.Handler", cask.Requirement{Type: "web.Session"}),
	)

	scopeA, err := app.Scope(context.Background())
	require.NoError(t, err)
	defer scopeA.Close()
	scopeB, err := app.Scope(context.Background())
	require.NoError(t, err)
	defer scopeB.Close()

	hA, err := scopeA.Get("web.Handler")
	require.NoError(t, err)
	hB, err := scopeB.Get("web.Handler")
	require.NoError(t, err)

	sessA := hA.(*tracked).deps["web.Session"].(*tracked)
	sessB := hB.(*tracked).deps["web.Session"].(*tracked)
	assert.NotSame(t, sessA, sessB)

	// Within one scope the session is shared between lookups.
	direct, err := scopeA.Get("web.Session")
	require.NoError(t, err)
	assert.Same(t, direct.(*tracked), sessA)
}

func TestRequestScope_CloseTearsDownInReverseOrder(t *testing.T) {
	rec := &recorder{}
	app := startScoped(t, rec,
		requestDef(rec, "session", "web.Session"),
		requestDef(rec, "handler", "web.Handler", cask.Requirement{Type: "web.Session"}),
	)

	scope, err := app.Scope(context.Background())
	require.NoError(t, err)
	_, err = scope.Get("web.Handler")
	require.NoError(t, err)
	require.NoError(t, scope.Close())

	assert.Equal(t, []string{
		"construct:session", "ready:session",
		"construct:handler", "ready:handler",
		"shutdown:handler", "shutdown:session",
	}, rec.all())
}

func TestRequestScope_CloseIsIdempotentAndBestEffort(t *testing.T) {
	rec := &recorder{}
	boom := errors.New("rollback failed")

	failing := &cask.Definition{
		Name:  "tx",
		Type:  "db.Tx",
		Scope: cask.Request,
		Factory: func(*cask.Deps) (any, error) {
			return &tracked{name: "tx", rec: rec, failShutdown: boom}, nil
		},
	}
	app := startScoped(t, rec, failing, requestDef(rec, "other", "pkg.Other"))

	scope, err := app.Scope(context.Background())
	require.NoError(t, err)
	_, err = scope.Get("db.Tx")
	require.NoError(t, err)
	_, err = scope.Get("pkg.Other")
	require.NoError(t, err)

	err = scope.Close()
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, rec.all(), "shutdown:other")

	assert.NoError(t, scope.Close())
}

func TestRequestScope_GetAfterClose(t *testing.T) {
	rec := &recorder{}
	app := startScoped(t, rec, requestDef(rec, "tx", "db.Tx"))

	scope, err := app.Scope(context.Background())
	require.NoError(t, err)
	require.NoError(t, scope.Close())

	_, err = scope.Get("db.Tx")
	assert.ErrorIs(t, err, cask.ErrScopeClosed)
}

func TestRequestScope_ScopeFromContext(t *testing.T) {
	rec := &recorder{}
	app := startScoped(t, rec, requestDef(rec, "tx", "db.Tx"))

	scope, err := app.Scope(context.Background())
	require.NoError(t, err)
	defer scope.Close()

	got, err := cask.ScopeFromContext(scope.Context())
	require.NoError(t, err)
	assert.Equal(t, scope.ID(), got.ID())

	_, err = cask.ScopeFromContext(context.Background())
	assert.ErrorIs(t, err, cask.ErrNoScope)
}

func TestRequestScope_ConcurrentScopes(t *testing.T) {
	rec := &recorder{}
	app := startScoped(t, rec,
		trackedDef(rec, "pool", "db.Pool"),
		requestDef(rec, "tx", "db.Tx", cask.Requirement{Type: "db.Pool"}),
	)

	var wg sync.WaitGroup
	seen := make(chan *tracked, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			scope, err := app.Scope(context.Background())
			if !assert.NoError(t, err) {
				return
			}
			defer scope.Close()

			v, err := scope.Get("db.Tx")
			if assert.NoError(t, err) {
				seen <- v.(*tracked)
			}
		}()
	}
	wg.Wait()
	close(seen)

	distinct := make(map[*tracked]bool)
	for tx := range seen {
		distinct[tx] = true
	}
	assert.Len(t, distinct, 16)
}

func TestScopeAfterContextShutdown(t *testing.T) {
	app := cask.New()
	require.NoError(t, app.Start(context.Background()))
	require.NoError(t, app.Shutdown(context.Background()))

	_, err := app.Scope(context.Background())
	assert.ErrorIs(t, err, cask.ErrContextClosed)
}
