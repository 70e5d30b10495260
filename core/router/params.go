package router

import (
	"context"

	"github.com/dbonates/quark/core/handler"
	"github.com/dbonates/quark/core/message"
)

// PathParametersKey is the request storage key holding the path parameters
// of the matched route.
const PathParametersKey = "pathParameters"

// PathParameters returns the path parameters bound for req.
func PathParameters(req *message.Request) map[string]string {
	params, _ := req.Storage[PathParametersKey].(map[string]string)
	return params
}

// Param returns the named path parameter, or "".
func Param(req *message.Request, name string) string {
	return PathParameters(req)[name]
}

// pathParameters merges params into the request storage before the route
// runs.
func pathParameters(params map[string]string) handler.Middleware {
	return handler.MiddlewareFunc(func(ctx context.Context, req *message.Request, next handler.Responder) (*message.Response, error) {
		stored := PathParameters(req)
		if stored == nil {
			stored = make(map[string]string, len(params))
			req.SetValue(PathParametersKey, stored)
		}
		for k, v := range params {
			stored[k] = v
		}
		return next.Respond(ctx, req)
	})
}
