// Package message defines the HTTP request and response values exchanged between the
// wire codecs, the router and application responders.
//
// Bodies are one of three variants: a BufferBody of known length (framed with
// Content-Length), a ReaderBody streaming from an input stream, or a WriterBody callback
// that produces output at serialization time. The last two are framed as chunked.
//
//	res := message.NewResponse(http.StatusOK, message.BufferBody("hello"))
//	res.Headers.Set("Content-Type", "text/plain")
//
// Both messages carry a free-form Storage map that middleware use to thread computed
// values (path parameters, sessions, negotiated content) through the chain.
//
// HTTP-domain failures are reported with HTTPError values; any error exposing a
// StatusCode() int method is treated the same way.
package message
