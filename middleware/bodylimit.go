package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/dbonates/quark/core/handler"
	"github.com/dbonates/quark/core/message"
	"github.com/dbonates/quark/core/stream"
)

// Common size constants for convenience
const (
	// KB represents 1 kilobyte
	KB int64 = 1024
	// MB represents 1 megabyte
	MB = 1024 * KB
	// GB represents 1 gigabyte
	GB = 1024 * MB
)

// BodyLimitConfig configures the body size limit middleware.
type BodyLimitConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(req *message.Request) bool

	// MaxSize is the maximum allowed size in bytes (default: 4MB)
	MaxSize int64

	// ContentTypeLimit allows setting different limits per content type
	// Example: {"application/json": 1 * MB, "multipart/form-data": 10 * MB}
	ContentTypeLimit map[string]int64
}

// BodyLimit creates a body limit middleware with the default 4MB limit.
func BodyLimit() handler.Middleware {
	return BodyLimitWithConfig(BodyLimitConfig{})
}

// BodyLimitWithSize creates a body limit middleware with a custom limit.
func BodyLimitWithSize(maxSize int64) handler.Middleware {
	return BodyLimitWithConfig(BodyLimitConfig{MaxSize: maxSize})
}

// BodyLimitWithConfig creates a middleware rejecting request bodies larger
// than the configured limit with ErrRequestEntityTooLarge. Buffered bodies are
// checked up front; chunked bodies fail while being read.
func BodyLimitWithConfig(cfg BodyLimitConfig) handler.Middleware {
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = 4 * MB
	}

	return handler.MiddlewareFunc(func(ctx context.Context, req *message.Request, next handler.Responder) (*message.Response, error) {
		if cfg.Skip != nil && cfg.Skip(req) {
			return next.Respond(ctx, req)
		}

		maxSize := cfg.MaxSize
		if limit, ok := cfg.ContentTypeLimit[req.ContentType()]; ok {
			maxSize = limit
		}

		if v := req.Headers.Get("Content-Length"); v != "" {
			length, err := strconv.ParseInt(v, 10, 64)
			if err == nil && length > maxSize {
				return nil, tooLarge(length, maxSize)
			}
		}

		if body, ok := req.Body.(message.ReaderBody); ok {
			req.Body = message.ReaderBody{Stream: &limitedStream{in: body.Stream, limit: maxSize}}
		}

		return next.Respond(ctx, req)
	})
}

func tooLarge(size, limit int64) message.HTTPError {
	msg := fmt.Sprintf("Request body too large. Maximum allowed: %s", formatBytes(limit))
	if size > 0 {
		msg = fmt.Sprintf("Request body too large. Size: %s, Maximum allowed: %s", formatBytes(size), formatBytes(limit))
	}
	return message.ErrRequestEntityTooLarge.WithMessage(msg)
}

// limitedStream fails with ErrRequestEntityTooLarge once more than limit
// bytes are available.
type limitedStream struct {
	in    stream.InputStream
	limit int64
	read  int64
}

func (l *limitedStream) Closed() bool {
	return l.in.Closed()
}

func (l *limitedStream) Close() error {
	return l.in.Close()
}

func (l *limitedStream) Read(p []byte, deadline time.Time) (int, error) {
	if l.read >= l.limit {
		var probe [1]byte
		n, err := l.in.Read(probe[:], deadline)
		if n > 0 {
			return 0, tooLarge(0, l.limit)
		}
		return 0, err
	}

	if remaining := l.limit - l.read; int64(len(p)) > remaining {
		p = p[:remaining]
	}
	n, err := l.in.Read(p, deadline)
	l.read += int64(n)
	return n, err
}

// formatBytes formats bytes into a human-readable string
func formatBytes(bytes int64) string {
	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d bytes", bytes)
	}
}
