package message_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbonates/quark/core/message"
	"github.com/dbonates/quark/core/stream"
)

func TestHeadersCaseInsensitive(t *testing.T) {
	t.Parallel()

	h := make(message.Headers)
	h.Set("content-type", "text/plain")

	assert.Equal(t, "text/plain", h.Get("Content-Type"))
	assert.Equal(t, "text/plain", h.Get("CONTENT-TYPE"))
	assert.True(t, h.Has("Content-type"))

	h.Set("CONTENT-TYPE", "application/json")
	assert.Len(t, h, 1)
	assert.Equal(t, "application/json", h["Content-Type"])

	h.Set("X-B", "2")
	h.Set("X-A", "1")
	assert.Equal(t, []string{"Content-Type", "X-A", "X-B"}, h.Keys())

	h.Del("content-type")
	assert.False(t, h.Has("Content-Type"))
}

func TestBodyFraming(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		body     message.Body
		length   string
		encoding string
	}{
		{name: "buffer", body: message.BufferBody("foo"), length: "3"},
		{name: "nil body", body: nil, length: "0"},
		{name: "reader", body: message.ReaderBody{Stream: stream.NewDrainString("foo")}, encoding: "chunked"},
		{name: "writer", body: message.WriterBody(func(stream.OutputStream) error { return nil }), encoding: "chunked"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := message.NewResponse(http.StatusOK, tt.body)
			assert.Equal(t, tt.length, res.Headers.Get("Content-Length"))
			assert.Equal(t, tt.encoding, res.Headers.Get("Transfer-Encoding"))

			req := message.NewRequest(http.MethodPost, "/", tt.body)
			assert.Equal(t, tt.length, req.Headers.Get("Content-Length"))
			assert.Equal(t, tt.encoding, req.Headers.Get("Transfer-Encoding"))
		})
	}
}

func TestSetBodyReplacesFraming(t *testing.T) {
	t.Parallel()

	res := message.NewResponse(http.StatusOK, message.WriterBody(func(stream.OutputStream) error { return nil }))
	res.SetBody(message.BufferBody("hello"))

	assert.Equal(t, "5", res.Headers.Get("Content-Length"))
	assert.False(t, res.Headers.Has("Transfer-Encoding"))
}

func TestRequestKeepAlive(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		version    message.Version
		connection string
		want       bool
	}{
		{name: "http/1.1 default", version: message.HTTP11, want: true},
		{name: "http/1.1 close", version: message.HTTP11, connection: "close", want: false},
		{name: "http/1.1 Close mixed case", version: message.HTTP11, connection: "Close", want: false},
		{name: "http/1.0 default", version: message.Version{Major: 1}, want: false},
		{name: "http/1.0 keep-alive", version: message.Version{Major: 1}, connection: "keep-alive", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := message.NewRequest(http.MethodGet, "/", nil)
			req.Version = tt.version
			if tt.connection != "" {
				req.Headers.Set("Connection", tt.connection)
			}
			assert.Equal(t, tt.want, req.IsKeepAlive())
		})
	}
}

func TestRequestCookies(t *testing.T) {
	t.Parallel()

	req := message.NewRequest(http.MethodGet, "/path?x=1", nil)
	assert.Nil(t, req.Cookies())

	req.Headers.Set("Cookie", "a=1; b=2")
	cookies := req.Cookies()
	require.Len(t, cookies, 2)
	assert.Equal(t, "a", cookies[0].Name)
	assert.Equal(t, "2", req.Cookie("b").Value)
	assert.Nil(t, req.Cookie("c"))
	assert.Equal(t, "/path", req.Path())
}

func TestResponseCookies(t *testing.T) {
	t.Parallel()

	res := message.NewResponse(http.StatusOK, nil)
	res.SetCookie(&http.Cookie{Name: "foo", Value: "bar"})
	res.SetCookie(&http.Cookie{Name: "foo", Value: "bar"})
	res.SetCookie(&http.Cookie{Name: "a", Value: "b", Path: "/"})

	assert.Equal(t, []string{"a=b; Path=/", "foo=bar"}, res.CookieLines())

	cookies := res.Cookies()
	require.Len(t, cookies, 2)
	assert.Equal(t, "a", cookies[0].Name)
	assert.Equal(t, "/", cookies[0].Path)
}

func TestResponseUpgrade(t *testing.T) {
	t.Parallel()

	res := message.NewResponse(http.StatusSwitchingProtocols, nil)
	_, ok := res.Upgrade()
	assert.False(t, ok)

	called := false
	res.SetUpgrade(func(*message.Request, stream.Stream) error {
		called = true
		return nil
	})

	fn, ok := res.Upgrade()
	require.True(t, ok)
	require.NoError(t, fn(nil, nil))
	assert.True(t, called)
}

func TestReasonPhrase(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "OK", message.NewResponse(200, nil).ReasonPhrase())
	assert.Equal(t, "Bad Request", message.NewResponse(400, nil).ReasonPhrase())
	assert.Equal(t, "Enhance Your Calm", message.NewResponse(420, nil).ReasonPhrase())
	assert.Equal(t, "Status 599", message.NewResponse(599, nil).ReasonPhrase())
}

func TestHTTPError(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	err := fmt.Errorf("handler: %w", message.ErrBadRequest.WithError(cause))

	status, ok := message.StatusOf(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.ErrorIs(t, err, message.ErrBadRequest)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, message.ErrNotFound)
	assert.Equal(t, "handler: Bad Request: boom", err.Error())

	_, ok = message.StatusOf(errors.New("plain"))
	assert.False(t, ok)

	assert.Equal(t, 419, message.ErrAuthenticationTimeout.StatusCode())
	assert.Equal(t, "Authentication Timeout", message.ErrAuthenticationTimeout.Error())
}
