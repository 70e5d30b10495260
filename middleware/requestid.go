package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/dbonates/quark/core/handler"
	"github.com/dbonates/quark/core/message"
)

// RequestIDKey is the request Storage key holding the request ID.
const RequestIDKey = "requestID"

// RequestIDConfig configures the request ID middleware.
type RequestIDConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(req *message.Request) bool
	// Generator creates new request IDs (default: UUID v4)
	Generator func() string
	// HeaderName is the request and response header carrying the ID (default: "X-Request-ID")
	HeaderName string
	// UseExisting reuses an incoming request ID instead of generating a new one
	UseExisting bool
}

// RequestID creates a request ID middleware with default configuration.
// Incoming IDs are reused.
func RequestID() handler.Middleware {
	return RequestIDWithConfig(RequestIDConfig{UseExisting: true})
}

// RequestIDWithConfig creates a request ID middleware that stores the ID in
// the request Storage and echoes it in the response headers.
func RequestIDWithConfig(cfg RequestIDConfig) handler.Middleware {
	if cfg.Generator == nil {
		cfg.Generator = func() string {
			return uuid.New().String()
		}
	}
	if cfg.HeaderName == "" {
		cfg.HeaderName = "X-Request-ID"
	}

	return handler.MiddlewareFunc(func(ctx context.Context, req *message.Request, next handler.Responder) (*message.Response, error) {
		if cfg.Skip != nil && cfg.Skip(req) {
			return next.Respond(ctx, req)
		}

		var id string
		if cfg.UseExisting {
			id = req.Headers.Get(cfg.HeaderName)
		}
		if id == "" {
			id = cfg.Generator()
		}
		req.SetValue(RequestIDKey, id)

		res, err := next.Respond(ctx, req)
		if res != nil {
			res.Headers.Set(cfg.HeaderName, id)
		}
		return res, err
	})
}

// GetRequestID returns the request ID stored by the RequestID middleware.
func GetRequestID(req *message.Request) (string, bool) {
	id, ok := req.Storage[RequestIDKey].(string)
	return id, ok && id != ""
}
