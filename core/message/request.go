package message

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// RemoteAddrKey is the Storage key under which the server records the
// peer address of the connection a request arrived on.
const RemoteAddrKey = "remoteAddress"

// Request is an HTTP request.
type Request struct {
	Method  string
	URI     *url.URL
	Version Version
	Headers Headers
	Body    Body

	// Storage carries per-request values through the middleware chain.
	Storage map[string]any
}

// NewRequest builds an HTTP/1.1 request. A nil body is an empty buffer.
// It panics if uri cannot be parsed.
func NewRequest(method, uri string, body Body) *Request {
	u, err := url.ParseRequestURI(uri)
	if err != nil {
		panic(err)
	}
	if body == nil {
		body = BufferBody(nil)
	}

	req := &Request{
		Method:  method,
		URI:     u,
		Version: HTTP11,
		Headers: make(Headers),
		Body:    body,
		Storage: make(map[string]any),
	}
	setFraming(req.Headers, body)
	return req
}

// SetBody replaces the body and its framing header.
func (r *Request) SetBody(body Body) {
	r.Body = body
	setFraming(r.Headers, body)
}

// Path returns the request path, "/" when the URI has none.
func (r *Request) Path() string {
	if r.URI == nil || r.URI.Path == "" {
		return "/"
	}
	return r.URI.Path
}

// IsKeepAlive reports whether the connection may serve another request
// after this one.
func (r *Request) IsKeepAlive() bool {
	conn := strings.ToLower(r.Headers.Get("Connection"))
	if r.Version.Major == 1 && r.Version.Minor == 0 {
		return conn == "keep-alive"
	}
	return conn != "close"
}

// ContentType returns the media type of the body without parameters.
func (r *Request) ContentType() string {
	return mediaType(r.Headers.Get("Content-Type"))
}

// Cookies parses the Cookie header.
func (r *Request) Cookies() []*http.Cookie {
	raw := r.Headers.Get("Cookie")
	if raw == "" {
		return nil
	}
	cookies, err := http.ParseCookie(raw)
	if err != nil {
		return nil
	}
	return cookies
}

// Cookie returns the named cookie, or nil.
func (r *Request) Cookie(name string) *http.Cookie {
	for _, c := range r.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// RemoteAddr returns the peer address recorded by the server, or "".
func (r *Request) RemoteAddr() string {
	addr, _ := r.Storage[RemoteAddrKey].(string)
	return addr
}

// Value returns Storage[key].
func (r *Request) Value(key string) (any, bool) {
	if r.Storage == nil {
		return nil, false
	}
	v, ok := r.Storage[key]
	return v, ok
}

// SetValue sets Storage[key].
func (r *Request) SetValue(key string, v any) {
	if r.Storage == nil {
		r.Storage = make(map[string]any)
	}
	r.Storage[key] = v
}

func mediaType(v string) string {
	if i := strings.IndexByte(v, ';'); i >= 0 {
		v = v[:i]
	}
	return strings.ToLower(strings.TrimSpace(v))
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
