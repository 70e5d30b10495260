package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/dbonates/quark/core/handler"
	"github.com/dbonates/quark/core/logger"
	"github.com/dbonates/quark/core/message"
)

// LoggingConfig configures the request/response logging middleware.
type LoggingConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(req *message.Request) bool

	// Logger is the slog logger to use (default: slog.Default())
	Logger *slog.Logger

	// LogLevel for request logging (default: slog.LevelInfo)
	LogLevel slog.Level

	// LogHeaders enables logging of request headers (default: false for security)
	LogHeaders bool

	// SensitiveHeaders is a list of header names to redact (default: common auth headers)
	SensitiveHeaders []string

	// SlowRequestThreshold logs slow requests at warning level (default: 5s)
	SlowRequestThreshold time.Duration

	// Component name for structured logging
	Component string
}

// Logging creates a logging middleware with default configuration.
func Logging() handler.Middleware {
	return LoggingWithConfig(LoggingConfig{})
}

// LoggingWithLogger creates a logging middleware with a custom logger.
func LoggingWithLogger(log *slog.Logger) handler.Middleware {
	return LoggingWithConfig(LoggingConfig{Logger: log})
}

// LoggingWithConfig creates a logging middleware that records the start and
// completion of every request. Completed requests with a 5xx status or an
// error are logged at error level, 4xx and slow requests at warning level.
func LoggingWithConfig(cfg LoggingConfig) handler.Middleware {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.LogLevel == 0 {
		cfg.LogLevel = slog.LevelInfo
	}
	if cfg.SensitiveHeaders == nil {
		cfg.SensitiveHeaders = []string{
			"Authorization",
			"Cookie",
			"X-Api-Key",
			"X-Auth-Token",
			"X-Csrf-Token",
		}
	}
	if cfg.SlowRequestThreshold <= 0 {
		cfg.SlowRequestThreshold = 5 * time.Second
	}
	if cfg.Component == "" {
		cfg.Component = "http"
	}

	sensitive := make(message.Headers, len(cfg.SensitiveHeaders))
	for _, name := range cfg.SensitiveHeaders {
		sensitive.Set(name, "")
	}

	return handler.MiddlewareFunc(func(ctx context.Context, req *message.Request, next handler.Responder) (*message.Response, error) {
		if cfg.Skip != nil && cfg.Skip(req) {
			return next.Respond(ctx, req)
		}

		start := time.Now()

		attrs := []slog.Attr{
			logger.Component(cfg.Component),
			logger.Method(req.Method),
			logger.Path(req.Path()),
		}
		if addr := req.RemoteAddr(); addr != "" {
			attrs = append(attrs, logger.RemoteAddr(addr))
		}
		if id, ok := GetRequestID(req); ok {
			attrs = append(attrs, logger.RequestID(id))
		}
		if q := req.URI.RawQuery; q != "" {
			attrs = append(attrs, slog.String("query", q))
		}
		if ua := req.Headers.Get("User-Agent"); ua != "" {
			attrs = append(attrs, logger.UserAgent(ua))
		}
		if cfg.LogHeaders {
			attrs = append(attrs, headerGroup(req.Headers, sensitive))
		}

		cfg.Logger.LogAttrs(ctx, cfg.LogLevel, "HTTP request started", attrs...)

		res, err := next.Respond(ctx, req)
		duration := time.Since(start)

		status := 0
		switch {
		case res != nil:
			status = res.Status
		case err != nil:
			status, _ = message.StatusOf(err)
		}

		done := append(attrs, logger.StatusCode(status), logger.Duration(duration))
		if err != nil {
			done = append(done, logger.Error(err))
		}

		level := cfg.LogLevel
		switch {
		case err != nil && status == 0, status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		case duration > cfg.SlowRequestThreshold:
			level = slog.LevelWarn
			done = append(done, slog.Bool("slow_request", true))
		}

		cfg.Logger.LogAttrs(ctx, level, "HTTP request completed", done...)
		return res, err
	})
}

func headerGroup(h message.Headers, sensitive message.Headers) slog.Attr {
	attrs := make([]any, 0, len(h))
	for _, key := range h.Keys() {
		value := h[key]
		if sensitive.Has(key) {
			value = "[REDACTED]"
		}
		attrs = append(attrs, slog.String(key, value))
	}
	return slog.Group("headers", attrs...)
}
