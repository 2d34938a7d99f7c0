// Package httpware glues the container to an HTTP server: a middleware
// that opens a request scope per incoming request, a chi router
// constructor with the middleware mounted, and a handler wrapper that
// resolves its controller from the request's scope.
package httpware

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/cask-framework/cask"
)

// Config holds the configuration for the scope middleware.
type Config struct {
	// Logger reports scope close failures and handler errors.
	// Defaults to a no-op logger.
	Logger *zap.Logger

	// ErrorHandler is called when resolution inside a handler fails.
	// If nil, a default handler returning 500 is used.
	ErrorHandler func(http.ResponseWriter, *http.Request, error)
}

// Option configures the middleware and handler wrappers.
type Option func(*Config)

// WithLogger sets the logger used for close failures.
func WithLogger(log *zap.Logger) Option {
	return func(c *Config) {
		if log != nil {
			c.Logger = log
		}
	}
}

// WithErrorHandler sets the error handler for resolution failures.
func WithErrorHandler(h func(http.ResponseWriter, *http.Request, error)) Option {
	return func(c *Config) {
		c.ErrorHandler = h
	}
}

func defaultConfig() *Config {
	return &Config{
		Logger: zap.NewNop(),
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		},
	}
}

// ScopeMiddleware opens a request scope for each request and attaches
// it to the request context, where handlers retrieve it with
// cask.ScopeFromContext. The scope is closed when the request
// completes; close failures are logged, not surfaced to the client.
func ScopeMiddleware(app *cask.ApplicationContext, opts ...Option) func(http.Handler) http.Handler {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scope, err := app.Scope(r.Context())
			if err != nil {
				cfg.ErrorHandler(w, r, err)
				return
			}
			defer func() {
				if err := scope.Close(); err != nil {
					cfg.Logger.Error("failed to close request scope",
						zap.String("scope", scope.ID()),
						zap.Error(err))
				}
			}()

			next.ServeHTTP(w, r.WithContext(scope.Context()))
		})
	}
}

// NewRouter creates a chi router with the scope middleware mounted.
func NewRouter(app *cask.ApplicationContext, opts ...Option) *chi.Mux {
	r := chi.NewRouter()
	r.Use(ScopeMiddleware(app, opts...))
	return r
}

// Handle wraps a controller method for resolution from the request's
// scope. The controller is looked up by declared type and asserted to
// T; resolution or assertion failures go to the error handler.
//
//	r.Get("/users/{id}", httpware.Handle[*UserController]("user.Controller",
//	    (*UserController).GetByID))
func Handle[T any](typ string, method func(T, http.ResponseWriter, *http.Request), opts ...Option) http.HandlerFunc {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		scope, err := cask.ScopeFromContext(r.Context())
		if err != nil {
			cfg.ErrorHandler(w, r, err)
			return
		}

		v, err := scope.Get(typ)
		if err != nil {
			cfg.ErrorHandler(w, r, err)
			return
		}

		controller, ok := v.(T)
		if !ok {
			cfg.ErrorHandler(w, r, fmt.Errorf("component %q is %T, not the expected controller type", typ, v))
			return
		}

		method(controller, w, r)
	}
}
