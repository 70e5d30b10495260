package middleware_test

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"testing"

	"github.com/dbonates/quark/core/handler"
	"github.com/dbonates/quark/core/message"
)

// testLogHandler captures log entries for testing
type testLogHandler struct {
	mu      sync.Mutex
	entries []map[string]any
}

func (h *testLogHandler) Enabled(context.Context, slog.Level) bool {
	return true
}

func (h *testLogHandler) Handle(_ context.Context, r slog.Record) error {
	entry := make(map[string]any)
	entry["level"] = r.Level.String()
	entry["msg"] = r.Message

	r.Attrs(func(a slog.Attr) bool {
		entry[a.Key] = a.Value.Any()
		return true
	})

	h.mu.Lock()
	h.entries = append(h.entries, entry)
	h.mu.Unlock()
	return nil
}

func (h *testLogHandler) WithAttrs([]slog.Attr) slog.Handler {
	return h
}

func (h *testLogHandler) WithGroup(string) slog.Handler {
	return h
}

// serve runs req through mw in front of endpoint.
func serve(mw handler.Middleware, endpoint handler.ResponderFunc, req *message.Request) (*message.Response, error) {
	return handler.Chain([]handler.Middleware{mw}, endpoint).Respond(context.Background(), req)
}

func status(code int) handler.ResponderFunc {
	return func(context.Context, *message.Request) (*message.Response, error) {
		return message.NewResponse(code, nil), nil
	}
}

func fail(err error) handler.ResponderFunc {
	return func(context.Context, *message.Request) (*message.Response, error) {
		return nil, err
	}
}

func mustAtoi(t *testing.T, s string) int {
	t.Helper()
	n, err := strconv.Atoi(s)
	if err != nil {
		t.Fatalf("atoi %q: %v", s, err)
	}
	return n
}
