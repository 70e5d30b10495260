package message

import "github.com/dbonates/quark/core/stream"

// Body is the payload of a message: a BufferBody, a ReaderBody or a WriterBody.
type Body interface {
	isBody()
}

// BufferBody is a body of known length.
type BufferBody []byte

// ReaderBody streams its content from an input stream of unknown length.
type ReaderBody struct {
	Stream stream.InputStream
}

// WriterBody produces its content at serialization time by writing to the
// given output stream.
type WriterBody func(w stream.OutputStream) error

func (BufferBody) isBody() {}
func (ReaderBody) isBody() {}
func (WriterBody) isBody() {}

// IsEmpty reports whether b is nil or an empty buffer.
func IsEmpty(b Body) bool {
	if b == nil {
		return true
	}
	buf, ok := b.(BufferBody)
	return ok && len(buf) == 0
}

// setFraming writes the Content-Length or Transfer-Encoding header for b.
func setFraming(h Headers, b Body) {
	switch body := b.(type) {
	case BufferBody:
		h.Del("Transfer-Encoding")
		h.Set("Content-Length", itoa(len(body)))
	case ReaderBody, WriterBody:
		h.Del("Content-Length")
		h.Set("Transfer-Encoding", "chunked")
	}
}
