// Package handler defines the two building blocks of request processing:
// Responder, which produces a response for a request, and Middleware, which
// wraps a Responder.
//
// # Composition
//
// Chain folds a middleware stack around an endpoint. The first middleware in
// the slice sees the request first and the response last:
//
//	r := handler.Chain([]handler.Middleware{logging, auth}, endpoint)
//	res, err := r.Respond(ctx, req) // logging -> auth -> endpoint
//
// Plain functions are adapted with ResponderFunc and MiddlewareFunc:
//
//	hello := handler.ResponderFunc(func(ctx context.Context, req *message.Request) (*message.Response, error) {
//		return message.NewResponse(http.StatusOK, message.BufferBody("hello")), nil
//	})
//
// A middleware that returns without calling next short-circuits the chain.
// Errors travel back outwards and are turned into responses by the router's
// recovery middleware or the server.
package handler
