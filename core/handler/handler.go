package handler

import (
	"context"

	"github.com/dbonates/quark/core/message"
)

// Responder turns a request into a response.
type Responder interface {
	Respond(ctx context.Context, req *message.Request) (*message.Response, error)
}

// ResponderFunc adapts a function to Responder.
type ResponderFunc func(ctx context.Context, req *message.Request) (*message.Response, error)

// Respond calls f.
func (f ResponderFunc) Respond(ctx context.Context, req *message.Request) (*message.Response, error) {
	return f(ctx, req)
}

// Middleware intercepts a request on its way to next. It may answer on its
// own, modify the request before calling next, or modify the response after.
type Middleware interface {
	Respond(ctx context.Context, req *message.Request, next Responder) (*message.Response, error)
}

// MiddlewareFunc adapts a function to Middleware.
type MiddlewareFunc func(ctx context.Context, req *message.Request, next Responder) (*message.Response, error)

// Respond calls f.
func (f MiddlewareFunc) Respond(ctx context.Context, req *message.Request, next Responder) (*message.Response, error) {
	return f(ctx, req, next)
}
