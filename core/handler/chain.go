package handler

import (
	"context"

	"github.com/dbonates/quark/core/message"
)

// Chain builds a single responder from a middleware stack and an endpoint.
// The first middleware is the outermost: Chain([m1, m2], e) behaves as
// m1(m2(e)).
func Chain(middlewares []Middleware, endpoint Responder) Responder {
	next := endpoint

	// Wrap in reverse order so the first middleware runs first.
	for i := len(middlewares) - 1; i >= 0; i-- {
		next = link{middleware: middlewares[i], next: next}
	}

	return next
}

type link struct {
	middleware Middleware
	next       Responder
}

func (l link) Respond(ctx context.Context, req *message.Request) (*message.Response, error) {
	return l.middleware.Respond(ctx, req, l.next)
}
