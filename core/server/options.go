package server

import (
	"log/slog"

	"github.com/dbonates/quark/core/handler"
	"github.com/dbonates/quark/core/session"
	"github.com/dbonates/quark/core/stream"
)

// Option configures server behavior.
type Option func(*Server)

// WithHost makes the server accept from h instead of binding a TCP
// listener. The server closes h on shutdown if h implements io.Closer.
func WithHost(h stream.Host) Option {
	return func(s *Server) {
		s.host = h
	}
}

// WithLogger sets a custom logger for server operations and the built-in
// logging middleware.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithFailure sets the callback receiving errors that end a connection or
// fail an accept. The default logs them to standard error.
func WithFailure(fn func(error)) Option {
	return func(s *Server) {
		if fn != nil {
			s.failure = fn
		}
	}
}

// WithSessionStore sets the store behind the built-in session middleware.
// The default is an in-memory store.
func WithSessionStore(store session.Store) Option {
	return func(s *Server) {
		if store != nil {
			s.sessions = store
		}
	}
}

// WithSessionOptions configures the session manager of the built-in
// session middleware.
func WithSessionOptions(opts ...session.Option) Option {
	return func(s *Server) {
		s.sessionOpts = append(s.sessionOpts, opts...)
	}
}

// WithMiddleware appends middleware after the built-in log, session and
// content negotiation middleware.
func WithMiddleware(middlewares ...handler.Middleware) Option {
	return func(s *Server) {
		s.middleware = append(s.middleware, middlewares...)
	}
}
