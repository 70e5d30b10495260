package message

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/dbonates/quark/core/stream"
)

const upgradeKey = "response-connection-upgrade"

// UpgradeFunc takes over a connection after its response has been written.
// The stream is closed by the server once the function returns.
type UpgradeFunc func(req *Request, s stream.Stream) error

// Response is an HTTP response.
type Response struct {
	Version Version
	Status  int
	Headers Headers

	// CookieHeaders is the set of Set-Cookie values, one header line each.
	CookieHeaders map[string]struct{}

	Body Body

	// Storage carries per-response values back through the middleware chain.
	Storage map[string]any
}

// NewResponse builds an HTTP/1.1 response. A nil body is an empty buffer.
func NewResponse(status int, body Body) *Response {
	if body == nil {
		body = BufferBody(nil)
	}
	res := &Response{
		Version:       HTTP11,
		Status:        status,
		Headers:       make(Headers),
		CookieHeaders: make(map[string]struct{}),
		Body:          body,
		Storage:       make(map[string]any),
	}
	setFraming(res.Headers, body)
	return res
}

// SetBody replaces the body and its framing header.
func (r *Response) SetBody(body Body) {
	r.Body = body
	setFraming(r.Headers, body)
}

// ReasonPhrase returns the standard text for the status code.
func (r *Response) ReasonPhrase() string {
	if text := http.StatusText(r.Status); text != "" {
		return text
	}
	if text, ok := extraStatusText[r.Status]; ok {
		return text
	}
	return "Status " + strconv.Itoa(r.Status)
}

// SetCookie adds c to the outgoing cookie set.
func (r *Response) SetCookie(c *http.Cookie) {
	if r.CookieHeaders == nil {
		r.CookieHeaders = make(map[string]struct{})
	}
	if v := c.String(); v != "" {
		r.CookieHeaders[v] = struct{}{}
	}
}

// CookieLines returns the Set-Cookie values in sorted order.
func (r *Response) CookieLines() []string {
	lines := make([]string, 0, len(r.CookieHeaders))
	for v := range r.CookieHeaders {
		lines = append(lines, v)
	}
	sort.Strings(lines)
	return lines
}

// Cookies parses the outgoing cookie set. Malformed lines are skipped.
func (r *Response) Cookies() []*http.Cookie {
	var cookies []*http.Cookie
	for _, line := range r.CookieLines() {
		c, err := http.ParseSetCookie(line)
		if err != nil {
			continue
		}
		cookies = append(cookies, c)
	}
	return cookies
}

// SetUpgrade registers fn to take over the connection after the response.
func (r *Response) SetUpgrade(fn UpgradeFunc) {
	if r.Storage == nil {
		r.Storage = make(map[string]any)
	}
	r.Storage[upgradeKey] = fn
}

// Upgrade returns the registered upgrade function, if any.
func (r *Response) Upgrade() (UpgradeFunc, bool) {
	fn, ok := r.Storage[upgradeKey].(UpgradeFunc)
	return fn, ok && fn != nil
}

// extraStatusText covers the non-standard codes the HTTP errors use.
var extraStatusText = map[int]string{
	419: "Authentication Timeout",
	420: "Enhance Your Calm",
}
