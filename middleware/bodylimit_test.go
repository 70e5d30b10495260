package middleware_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbonates/quark/core/message"
	"github.com/dbonates/quark/core/stream"
	"github.com/dbonates/quark/middleware"
)

func TestBodyLimit(t *testing.T) {
	t.Parallel()

	readAll := func(_ context.Context, req *message.Request) (*message.Response, error) {
		if body, ok := req.Body.(message.ReaderBody); ok {
			data, err := stream.ReadAll(body.Stream, stream.Never)
			if err != nil {
				return nil, err
			}
			return message.NewResponse(http.StatusOK, message.BufferBody(data)), nil
		}
		return message.NewResponse(http.StatusOK, req.Body), nil
	}

	tests := []struct {
		name    string
		body    message.Body
		limit   int64
		wantErr bool
	}{
		{name: "buffer within limit", body: message.BufferBody("12345"), limit: 5},
		{name: "buffer over limit", body: message.BufferBody("123456"), limit: 5, wantErr: true},
		{name: "reader within limit", body: message.ReaderBody{Stream: stream.NewDrainString("12345")}, limit: 5},
		{name: "reader over limit", body: message.ReaderBody{Stream: stream.NewDrainString("123456")}, limit: 5, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res, err := serve(middleware.BodyLimitWithSize(tt.limit), readAll, message.NewRequest(http.MethodPost, "/", tt.body))
			if tt.wantErr {
				require.ErrorIs(t, err, message.ErrRequestEntityTooLarge)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, message.BufferBody("12345"), res.Body)
		})
	}
}

func TestBodyLimitPerContentType(t *testing.T) {
	t.Parallel()

	mw := middleware.BodyLimitWithConfig(middleware.BodyLimitConfig{
		MaxSize:          2,
		ContentTypeLimit: map[string]int64{"application/json": 1 * middleware.KB},
	})

	req := message.NewRequest(http.MethodPost, "/", message.BufferBody(`{"a":1}`))
	req.Headers.Set("Content-Type", "application/json")
	_, err := serve(mw, status(http.StatusOK), req)
	require.NoError(t, err)

	req = message.NewRequest(http.MethodPost, "/", message.BufferBody("abc"))
	req.Headers.Set("Content-Type", "text/plain")
	_, err = serve(mw, status(http.StatusOK), req)
	require.ErrorIs(t, err, message.ErrRequestEntityTooLarge)
	assert.Contains(t, err.Error(), "Maximum allowed: 2 bytes")
}
