package middleware

import (
	"context"
	"net"
	"strings"

	"github.com/dbonates/quark/core/handler"
	"github.com/dbonates/quark/core/message"
)

// ClientIPKey is the request Storage key holding the client IP.
const ClientIPKey = "clientIP"

// Proxy headers checked by ClientIP, most trusted first.
var clientIPHeaders = []string{
	"CF-Connecting-IP",
	"DO-Connecting-IP",
	"X-Forwarded-For",
	"X-Real-IP",
}

// ClientIPConfig configures the client IP extraction middleware.
type ClientIPConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(req *message.Request) bool
	// HeaderName specifies the response header name for the client IP (default: "X-Client-IP")
	HeaderName string
	// StoreInHeader determines whether to include the IP in response headers
	StoreInHeader bool
	// ValidateFunc rejects requests with message.ErrForbidden when it returns an error
	ValidateFunc func(req *message.Request, ip string) error
}

// ClientIP creates a client IP extraction middleware with default configuration.
func ClientIP() handler.Middleware {
	return ClientIPWithConfig(ClientIPConfig{})
}

// ClientIPWithConfig creates a middleware that resolves the client address
// from proxy headers or the connection's remote address and stores it in
// the request Storage.
func ClientIPWithConfig(cfg ClientIPConfig) handler.Middleware {
	if cfg.HeaderName == "" {
		cfg.HeaderName = "X-Client-IP"
	}

	return handler.MiddlewareFunc(func(ctx context.Context, req *message.Request, next handler.Responder) (*message.Response, error) {
		if cfg.Skip != nil && cfg.Skip(req) {
			return next.Respond(ctx, req)
		}

		ip := resolveClientIP(req)
		req.SetValue(ClientIPKey, ip)

		if cfg.ValidateFunc != nil {
			if err := cfg.ValidateFunc(req, ip); err != nil {
				return nil, message.ErrForbidden.WithError(err)
			}
		}

		res, err := next.Respond(ctx, req)
		if res != nil && cfg.StoreInHeader && ip != "" {
			res.Headers.Set(cfg.HeaderName, ip)
		}
		return res, err
	})
}

// GetClientIP returns the client IP stored by the ClientIP middleware.
func GetClientIP(req *message.Request) (string, bool) {
	ip, ok := req.Storage[ClientIPKey].(string)
	return ip, ok && ip != ""
}

// resolveClientIP returns the first valid address among the proxy headers,
// then the remote address. X-Forwarded-For contributes its leftmost entry.
// Without a valid address the raw remote address is returned.
func resolveClientIP(req *message.Request) string {
	for _, name := range clientIPHeaders {
		v := req.Headers.Get(name)
		if v == "" {
			continue
		}
		if first, _, found := strings.Cut(v, ","); found {
			v = first
		}
		if ip := normalizeIP(v); ip != "" {
			return ip
		}
	}

	remote := req.RemoteAddr()
	host := remote
	if h, _, err := net.SplitHostPort(remote); err == nil {
		host = h
	}
	if ip := normalizeIP(host); ip != "" {
		return ip
	}
	return remote
}

func normalizeIP(s string) string {
	ip := net.ParseIP(strings.TrimSpace(s))
	if ip == nil || ip.IsUnspecified() {
		return ""
	}
	return ip.String()
}
