package middleware_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbonates/quark/core/message"
	"github.com/dbonates/quark/middleware"
)

func TestRequestID(t *testing.T) {
	t.Parallel()

	t.Run("generates uuid", func(t *testing.T) {
		t.Parallel()

		var seen string
		endpoint := func(_ context.Context, req *message.Request) (*message.Response, error) {
			seen, _ = middleware.GetRequestID(req)
			return message.NewResponse(http.StatusOK, nil), nil
		}

		res, err := serve(middleware.RequestID(), endpoint, message.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)

		_, parseErr := uuid.Parse(seen)
		assert.NoError(t, parseErr)
		assert.Equal(t, seen, res.Headers.Get("X-Request-ID"))
	})

	t.Run("reuses incoming id", func(t *testing.T) {
		t.Parallel()

		req := message.NewRequest(http.MethodGet, "/", nil)
		req.Headers.Set("X-Request-ID", "abc-123")

		res, err := serve(middleware.RequestID(), status(http.StatusOK), req)
		require.NoError(t, err)
		assert.Equal(t, "abc-123", res.Headers.Get("X-Request-ID"))

		id, ok := middleware.GetRequestID(req)
		assert.True(t, ok)
		assert.Equal(t, "abc-123", id)
	})

	t.Run("custom generator and header", func(t *testing.T) {
		t.Parallel()

		mw := middleware.RequestIDWithConfig(middleware.RequestIDConfig{
			Generator:  func() string { return "fixed" },
			HeaderName: "X-Trace",
		})
		req := message.NewRequest(http.MethodGet, "/", nil)
		req.Headers.Set("X-Trace", "ignored")

		res, err := serve(mw, status(http.StatusOK), req)
		require.NoError(t, err)
		assert.Equal(t, "fixed", res.Headers.Get("X-Trace"))
	})

	t.Run("missing", func(t *testing.T) {
		t.Parallel()

		_, ok := middleware.GetRequestID(message.NewRequest(http.MethodGet, "/", nil))
		assert.False(t, ok)
	})
}
