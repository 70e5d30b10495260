package middleware_test

import (
	"errors"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbonates/quark/core/handler"
	"github.com/dbonates/quark/core/message"
	"github.com/dbonates/quark/middleware"
)

func TestLogging(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		endpoint  handler.ResponderFunc
		wantLevel string
		wantCode  int64
		wantError bool
	}{
		{name: "success", endpoint: status(http.StatusOK), wantLevel: "INFO", wantCode: 200},
		{name: "client error", endpoint: status(http.StatusNotFound), wantLevel: "WARN", wantCode: 404},
		{name: "server error", endpoint: status(http.StatusBadGateway), wantLevel: "ERROR", wantCode: 502},
		{name: "http error", endpoint: fail(message.ErrForbidden), wantLevel: "WARN", wantCode: 403, wantError: true},
		{name: "plain error", endpoint: fail(errors.New("boom")), wantLevel: "ERROR", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			logs := &testLogHandler{}
			mw := middleware.LoggingWithLogger(slog.New(logs))

			req := message.NewRequest(http.MethodGet, "/items?page=2", nil)
			req.SetValue(message.RemoteAddrKey, "10.0.0.1:5000")
			_, _ = serve(mw, tt.endpoint, req)

			require.Len(t, logs.entries, 2)

			started := logs.entries[0]
			assert.Equal(t, "HTTP request started", started["msg"])
			assert.Equal(t, "INFO", started["level"])
			assert.Equal(t, "GET", started["method"])
			assert.Equal(t, "/items", started["path"])
			assert.Equal(t, "page=2", started["query"])
			assert.Equal(t, "10.0.0.1:5000", started["remote_addr"])
			assert.Equal(t, "http", started["component"])

			completed := logs.entries[1]
			assert.Equal(t, "HTTP request completed", completed["msg"])
			assert.Equal(t, tt.wantLevel, completed["level"])
			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, completed["status_code"])
			} else {
				assert.NotContains(t, completed, "status_code")
			}
			assert.Contains(t, completed, "duration")
			if tt.wantError {
				assert.Contains(t, completed, "error")
			} else {
				assert.NotContains(t, completed, "error")
			}
		})
	}
}

func TestLoggingSkip(t *testing.T) {
	t.Parallel()

	logs := &testLogHandler{}
	mw := middleware.LoggingWithConfig(middleware.LoggingConfig{
		Logger: slog.New(logs),
		Skip: func(req *message.Request) bool {
			return req.Path() == "/health"
		},
	})

	res, err := serve(mw, status(http.StatusOK), message.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.Status)
	assert.Empty(t, logs.entries)
}

func TestLoggingRedactsHeaders(t *testing.T) {
	t.Parallel()

	logs := &testLogHandler{}
	mw := middleware.LoggingWithConfig(middleware.LoggingConfig{
		Logger:     slog.New(logs),
		LogHeaders: true,
	})

	req := message.NewRequest(http.MethodGet, "/", nil)
	req.Headers.Set("Authorization", "Bearer secret")
	req.Headers.Set("Accept", "text/plain")
	_, err := serve(mw, status(http.StatusOK), req)
	require.NoError(t, err)

	require.NotEmpty(t, logs.entries)
	headers, ok := logs.entries[0]["headers"].([]slog.Attr)
	require.True(t, ok)

	values := make(map[string]string)
	for _, a := range headers {
		values[a.Key] = a.Value.String()
	}
	assert.Equal(t, "[REDACTED]", values["Authorization"])
	assert.Equal(t, "text/plain", values["Accept"])
}
