package router

import (
	"log/slog"

	"github.com/dbonates/quark/core/handler"
)

// Option configures a Router during creation.
type Option func(*Router)

// WithRecover sets the function mapping downstream errors to responses.
// The default is Recover.
func WithRecover(fn RecoverFunc) Option {
	return func(r *Router) {
		if fn != nil {
			r.recover = fn
		}
	}
}

// WithMiddleware adds middleware run inside the recovery middleware for
// every request, matched or not.
func WithMiddleware(middlewares ...handler.Middleware) Option {
	return func(r *Router) {
		r.middleware = append(r.middleware, middlewares...)
	}
}

// WithFallback sets the responder for unmatched requests. Routes.Fallback
// takes precedence.
func WithFallback(fallback handler.Responder) Option {
	return func(r *Router) {
		if fallback != nil {
			r.fallback = fallback
		}
	}
}

// WithLogger sets a custom logger for the router.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) {
		if logger != nil {
			r.logger = logger
		}
	}
}
