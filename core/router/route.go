package router

import (
	"context"
	"maps"
	"slices"

	"github.com/dbonates/quark/core/handler"
	"github.com/dbonates/quark/core/message"
)

// Route binds a path pattern to one responder per method.
type Route struct {
	Path       string
	Middleware []handler.Middleware
	Actions    map[string]handler.Responder

	// Fallback answers methods without an action. Nil means 405.
	Fallback handler.Responder
}

// Respond runs the action for the request method through the route
// middleware.
func (r *Route) Respond(ctx context.Context, req *message.Request) (*message.Response, error) {
	action, ok := r.Actions[req.Method]
	if !ok {
		action = r.Fallback
	}
	if action == nil {
		action = methodNotAllowed
	}
	return handler.Chain(r.Middleware, action).Respond(ctx, req)
}

// Methods returns the methods with an action, sorted.
func (r *Route) Methods() []string {
	return slices.Sorted(maps.Keys(r.Actions))
}

var methodNotAllowed = handler.ResponderFunc(func(context.Context, *message.Request) (*message.Response, error) {
	return nil, message.ErrMethodNotAllowed
})

var notFound = handler.ResponderFunc(func(context.Context, *message.Request) (*message.Response, error) {
	return nil, message.ErrNotFound
})
