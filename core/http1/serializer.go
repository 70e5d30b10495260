package http1

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/dbonates/quark/core/message"
	"github.com/dbonates/quark/core/stream"
)

// ResponseSerializer writes responses to a stream.
type ResponseSerializer struct {
	out        stream.OutputStream
	bufferSize int
}

// NewResponseSerializer returns a serializer writing to out. bufferSize is
// the chunk size used when copying a ReaderBody.
func NewResponseSerializer(out stream.OutputStream, bufferSize int) *ResponseSerializer {
	if bufferSize <= 0 {
		bufferSize = stream.DefaultBufferSize
	}
	return &ResponseSerializer{out: out, bufferSize: bufferSize}
}

// Serialize writes res and flushes the stream.
func (s *ResponseSerializer) Serialize(res *message.Response, deadline time.Time) error {
	var head bytes.Buffer
	fmt.Fprintf(&head, "%s %d %s\r\n", res.Version, res.Status, res.ReasonPhrase())
	writeHeaders(&head, res.Headers)
	for _, line := range res.CookieLines() {
		head.WriteString("Set-Cookie: ")
		head.WriteString(line)
		head.WriteString("\r\n")
	}
	head.WriteString("\r\n")

	if err := s.out.Write(head.Bytes(), deadline); err != nil {
		return err
	}
	if err := writeBody(s.out, res.Body, s.bufferSize, deadline); err != nil {
		return err
	}
	return s.out.Flush(deadline)
}

// RequestSerializer writes requests to a stream.
type RequestSerializer struct {
	out        stream.OutputStream
	bufferSize int
}

// NewRequestSerializer returns a serializer writing to out.
func NewRequestSerializer(out stream.OutputStream, bufferSize int) *RequestSerializer {
	if bufferSize <= 0 {
		bufferSize = stream.DefaultBufferSize
	}
	return &RequestSerializer{out: out, bufferSize: bufferSize}
}

// Serialize writes req and flushes the stream.
func (s *RequestSerializer) Serialize(req *message.Request, deadline time.Time) error {
	target := "/"
	if req.URI != nil {
		target = req.URI.RequestURI()
	}

	var head bytes.Buffer
	fmt.Fprintf(&head, "%s %s %s\r\n", req.Method, target, req.Version)
	writeHeaders(&head, req.Headers)
	head.WriteString("\r\n")

	if err := s.out.Write(head.Bytes(), deadline); err != nil {
		return err
	}
	if err := writeBody(s.out, req.Body, s.bufferSize, deadline); err != nil {
		return err
	}
	return s.out.Flush(deadline)
}

func writeHeaders(buf *bytes.Buffer, h message.Headers) {
	for _, k := range h.Keys() {
		buf.WriteString(k)
		buf.WriteString(": ")
		buf.WriteString(h[k])
		buf.WriteString("\r\n")
	}
}

func writeBody(out stream.OutputStream, body message.Body, bufferSize int, deadline time.Time) error {
	switch b := body.(type) {
	case nil:
		return nil
	case message.BufferBody:
		if len(b) == 0 {
			return nil
		}
		return out.Write(b, deadline)
	case message.ReaderBody:
		bs := NewBodyStream(out)
		buf := make([]byte, bufferSize)
		for !b.Stream.Closed() {
			n, err := b.Stream.Read(buf, deadline)
			if n > 0 {
				if werr := bs.Write(buf[:n], deadline); werr != nil {
					return werr
				}
			}
			if err != nil {
				if stream.IsClosed(err) {
					break
				}
				return err
			}
		}
		return bs.finish(deadline)
	case message.WriterBody:
		bs := NewBodyStream(out)
		if err := b(bs); err != nil {
			return err
		}
		return bs.finish(deadline)
	default:
		return fmt.Errorf("http1: unsupported body type %T", body)
	}
}

// BodyStream is the OutputStream handed to a WriterBody. Every Write
// becomes one chunk on the underlying stream.
type BodyStream struct {
	out    stream.OutputStream
	closed bool
}

// NewBodyStream returns a chunked writer over out.
func NewBodyStream(out stream.OutputStream) *BodyStream {
	return &BodyStream{out: out}
}

// Closed implements stream.OutputStream.
func (b *BodyStream) Closed() bool {
	return b.closed || b.out.Closed()
}

// Close ends the body. The underlying stream stays open.
func (b *BodyStream) Close() error {
	b.closed = true
	return nil
}

// Write implements stream.OutputStream.
func (b *BodyStream) Write(p []byte, deadline time.Time) error {
	if b.closed {
		return stream.ErrClosedStream
	}
	if len(p) == 0 {
		return nil
	}
	chunk := make([]byte, 0, len(p)+12)
	chunk = strconv.AppendInt(chunk, int64(len(p)), 16)
	chunk = append(chunk, '\r', '\n')
	chunk = append(chunk, p...)
	chunk = append(chunk, '\r', '\n')
	return b.out.Write(chunk, deadline)
}

// Flush implements stream.OutputStream.
func (b *BodyStream) Flush(deadline time.Time) error {
	if b.closed {
		return stream.ErrClosedStream
	}
	return b.out.Flush(deadline)
}

// finish writes the terminating chunk and closes the body.
func (b *BodyStream) finish(deadline time.Time) error {
	b.closed = true
	return b.out.Write([]byte("0\r\n\r\n"), deadline)
}
