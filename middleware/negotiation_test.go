package middleware_test

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/dbonates/quark/core/message"
	"github.com/dbonates/quark/core/stream"
	"github.com/dbonates/quark/middleware"
)

// echoContent answers with the decoded request content.
func echoContent(_ context.Context, req *message.Request) (*message.Response, error) {
	content, ok := middleware.GetContent(req)
	if !ok {
		content = map[string]any{"empty": true}
	}
	res := message.NewResponse(http.StatusOK, nil)
	middleware.SetContent(res, content)
	return res, nil
}

func TestContentNegotiationRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		contentType string
		body        message.Body
		wantErr     error
		want        any
	}{
		{
			name:        "json buffer",
			contentType: "application/json; charset=utf-8",
			body:        message.BufferBody(`{"name":"quark"}`),
			want:        map[string]any{"name": "quark"},
		},
		{
			name:        "json reader",
			contentType: "application/json",
			body:        message.ReaderBody{Stream: stream.NewDrainString(`[1,2]`)},
			want:        []any{float64(1), float64(2)},
		},
		{
			name:        "form",
			contentType: "application/x-www-form-urlencoded",
			body:        message.BufferBody("a=1&b=2"),
			want:        url.Values{"a": {"1"}, "b": {"2"}},
		},
		{
			name:        "unsupported media type",
			contentType: "text/csv",
			body:        message.BufferBody("a,b"),
			wantErr:     message.ErrUnsupportedMediaType,
		},
		{
			name:        "malformed json",
			contentType: "application/json",
			body:        message.BufferBody(`{"name":`),
			wantErr:     message.ErrBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := message.NewRequest(http.MethodPost, "/", tt.body)
			req.Headers.Set("Content-Type", tt.contentType)

			var got any
			res, err := serve(middleware.ContentNegotiation(), func(_ context.Context, req *message.Request) (*message.Response, error) {
				got, _ = middleware.GetContent(req)
				return message.NewResponse(http.StatusNoContent, nil), nil
			}, req)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, res)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestContentNegotiationSkipsEmptyBody(t *testing.T) {
	t.Parallel()

	req := message.NewRequest(http.MethodGet, "/", nil)
	req.Headers.Set("Content-Type", "text/csv")

	res, err := serve(middleware.ContentNegotiation(), status(http.StatusOK), req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.Status)
}

func TestContentNegotiationPassthrough(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		config      middleware.ContentNegotiationConfig
		contentType string
		wantErr     error
	}{
		{
			name:        "multipart by default",
			contentType: "multipart/form-data; boundary=XX",
		},
		{
			name:        "octet stream by default",
			contentType: "application/octet-stream",
		},
		{
			name:        "configured type",
			config:      middleware.ContentNegotiationConfig{Passthrough: []string{"text/csv"}},
			contentType: "text/csv",
		},
		{
			name:        "configured list replaces the default",
			config:      middleware.ContentNegotiationConfig{Passthrough: []string{"text/csv"}},
			contentType: "multipart/form-data; boundary=XX",
			wantErr:     message.ErrUnsupportedMediaType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := message.NewRequest(http.MethodPost, "/", message.BufferBody("--XX--\r\n"))
			req.Headers.Set("Content-Type", tt.contentType)

			var reached bool
			var body message.Body
			res, err := serve(middleware.ContentNegotiationWithConfig(tt.config), func(_ context.Context, req *message.Request) (*message.Response, error) {
				reached = true
				body = req.Body
				_, decoded := middleware.GetContent(req)
				assert.False(t, decoded)
				return message.NewResponse(http.StatusOK, nil), nil
			}, req)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.False(t, reached)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, res.Status)
			assert.True(t, reached)
			assert.Equal(t, message.BufferBody("--XX--\r\n"), body)
		})
	}
}

func TestContentNegotiationKeepsReaderBodyReadable(t *testing.T) {
	t.Parallel()

	req := message.NewRequest(http.MethodPost, "/", message.ReaderBody{Stream: stream.NewDrainString(`{"a":1}`)})
	req.Headers.Set("Content-Type", "application/json")

	var body message.Body
	_, err := serve(middleware.ContentNegotiation(), func(_ context.Context, req *message.Request) (*message.Response, error) {
		body = req.Body
		return message.NewResponse(http.StatusOK, nil), nil
	}, req)
	require.NoError(t, err)
	assert.Equal(t, message.BufferBody(`{"a":1}`), body)
}

func TestContentNegotiationResponse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		accept   string
		content  any
		wantErr  error
		wantType string
		wantBody string
	}{
		{
			name:     "no accept header uses first type",
			content:  map[string]string{"a": "1"},
			wantType: "application/json; charset=utf-8",
			wantBody: `{"a":"1"}`,
		},
		{
			name:     "wildcard",
			accept:   "*/*",
			content:  map[string]string{"a": "1"},
			wantType: "application/json; charset=utf-8",
			wantBody: `{"a":"1"}`,
		},
		{
			name:     "q values prefer form",
			accept:   "application/json;q=0.5, application/x-www-form-urlencoded",
			content:  map[string]string{"a": "1"},
			wantType: "application/x-www-form-urlencoded; charset=utf-8",
			wantBody: "a=1",
		},
		{
			name:     "subtype wildcard",
			accept:   "text/html, application/*;q=0.8",
			content:  []int{1, 2},
			wantType: "application/json; charset=utf-8",
			wantBody: "[1,2]",
		},
		{
			name:    "nothing acceptable",
			accept:  "text/html, application/json;q=0",
			content: "x",
			wantErr: message.ErrNotAcceptable,
		},
		{
			name:    "unencodable content",
			accept:  "application/x-www-form-urlencoded",
			content: []int{1},
			wantErr: message.ErrInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := message.NewRequest(http.MethodGet, "/", nil)
			if tt.accept != "" {
				req.Headers.Set("Accept", tt.accept)
			}

			res, err := serve(middleware.ContentNegotiation(), func(context.Context, *message.Request) (*message.Response, error) {
				res := message.NewResponse(http.StatusOK, nil)
				middleware.SetContent(res, tt.content)
				return res, nil
			}, req)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, res.Headers.Get("Content-Type"))
			assert.Equal(t, message.BufferBody(tt.wantBody), res.Body)
			assert.Equal(t, len(tt.wantBody), mustAtoi(t, res.Headers.Get("Content-Length")))
		})
	}
}

func TestContentNegotiationEcho(t *testing.T) {
	t.Parallel()

	req := message.NewRequest(http.MethodPost, "/echo", message.BufferBody("name=quark"))
	req.Headers.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Headers.Set("Accept", "application/json")

	res, err := serve(middleware.ContentNegotiation(), echoContent, req)
	require.NoError(t, err)
	assert.Equal(t, message.BufferBody(`{"name":["quark"]}`), res.Body)
}

func TestContentNegotiationLanguage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header string
		want   language.Tag
	}{
		{name: "exact", header: "de", want: language.German},
		{name: "weighted", header: "fr;q=0.5, de;q=0.9", want: language.German},
		{name: "regional variant", header: "fr-CA", want: language.French},
		{name: "fallback", header: "ja", want: language.English},
		{name: "missing", header: "", want: language.English},
	}

	mw := middleware.ContentNegotiationWithConfig(middleware.ContentNegotiationConfig{
		Languages: []language.Tag{language.English, language.German, language.French},
	})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := message.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Headers.Set("Accept-Language", tt.header)
			}

			var got language.Tag
			res, err := serve(mw, func(_ context.Context, req *message.Request) (*message.Response, error) {
				got, _ = middleware.GetLanguage(req)
				return message.NewResponse(http.StatusOK, nil), nil
			}, req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.String(), res.Headers.Get("Content-Language"))
		})
	}
}
