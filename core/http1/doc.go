// Package http1 reads and writes HTTP/1.1 messages over streams.
//
// RequestParser turns bytes from an InputStream into message.Request values,
// one per call. ResponseSerializer and RequestSerializer write messages back
// out, framing ReaderBody and WriterBody payloads with chunked encoding.
package http1
