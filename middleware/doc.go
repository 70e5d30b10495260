// Package middleware provides interceptors for cross-cutting concerns of
// quark applications.
//
// Every constructor returns a handler.Middleware that can be passed to
// handler.Chain, router.WithMiddleware, a route registration or
// server.WithMiddleware. Most middleware come in two forms: a default
// constructor and a WithConfig constructor taking a configuration struct
// whose zero fields fall back to defaults. Every configuration has a Skip
// predicate to bypass the middleware for selected requests.
//
// # Built-in server middleware
//
// The server installs three of them, in this order, unless disabled in its
// configuration:
//
//   - Logging: logs the start and completion of every request
//   - Session: loads the session named by the "quark-session" cookie and saves it after the response
//   - ContentNegotiation: decodes request bodies and encodes response content by media type
//
// # Content negotiation
//
// Handlers read decoded request content with GetContent and hand values back
// with SetContent; the middleware picks the encoding from the Accept header:
//
//	func echo(ctx context.Context, req *message.Request) (*message.Response, error) {
//		content, ok := middleware.GetContent(req)
//		if !ok {
//			return nil, message.ErrBadRequest
//		}
//		res := message.NewResponse(http.StatusOK, nil)
//		middleware.SetContent(res, content)
//		return res, nil
//	}
//
// # Other middleware
//
// RequestID, ClientIP, Tracing, Metrics, BodyLimit and SecurityHeaders are
// opt-in. Values stored on the request are read back with GetRequestID,
// GetClientIP, GetSession, GetContent and GetLanguage.
package middleware
