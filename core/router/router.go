package router

import (
	"context"
	"io"
	"log/slog"

	"github.com/dbonates/quark/core/handler"
	"github.com/dbonates/quark/core/message"
)

// Router dispatches requests to routes through a middleware chain whose
// outermost link is always the recovery middleware.
type Router struct {
	middleware []handler.Middleware
	fallback   handler.Responder
	recover    RecoverFunc
	matcher    *TrieMatcher
	logger     *slog.Logger
}

// New builds a router from the routes registered by build.
// It panics if a route pattern is invalid.
func New(build func(r *Routes), opts ...Option) *Router {
	r := &Router{
		fallback: notFound,
		recover:  Recover,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)), // No-op logger by default
	}

	for _, opt := range opts {
		opt(r)
	}

	routes := newRoutes()
	if build != nil {
		build(routes)
	}
	if routes.fallback != nil {
		r.fallback = routes.fallback
	}

	r.middleware = append([]handler.Middleware{Recovery(r.recover, r.logger)}, r.middleware...)
	r.matcher = NewTrieMatcher(routes.routes)

	return r
}

// Respond implements handler.Responder.
func (r *Router) Respond(ctx context.Context, req *message.Request) (*message.Response, error) {
	var responder handler.Responder = r.fallback
	if route := r.matcher.Match(req); route != nil {
		responder = route
	}
	return handler.Chain(r.middleware, responder).Respond(ctx, req)
}

// Routes returns the registered routes.
func (r *Router) Routes() []*Route {
	return r.matcher.Routes()
}
