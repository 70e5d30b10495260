package http1

import (
	"bufio"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dbonates/quark/core/message"
	"github.com/dbonates/quark/core/stream"
)

// RequestParser reads requests from a stream, one at a time.
//
// The parser buffers input, so a stream must be read through a single
// parser for its whole life.
type RequestParser struct {
	src     *streamReader
	br      *bufio.Reader
	pending io.ReadCloser
}

// NewRequestParser returns a parser reading from in with a buffer of
// bufferSize bytes.
func NewRequestParser(in stream.InputStream, bufferSize int) *RequestParser {
	if bufferSize <= 0 {
		bufferSize = stream.DefaultBufferSize
	}
	src := &streamReader{in: in}
	return &RequestParser{
		src: src,
		br:  bufio.NewReaderSize(src, bufferSize),
	}
}

// Parse reads the next request. Whatever the previous request left of its
// body is discarded first.
//
// Stream errors are returned unchanged. Malformed input yields
// message.ErrBadRequest wrapping the cause.
func (p *RequestParser) Parse(deadline time.Time) (*message.Request, error) {
	p.src.deadline = deadline

	if p.pending != nil {
		_, err := io.Copy(io.Discard, p.pending)
		p.pending = nil
		if err != nil {
			return nil, classify(err)
		}
	}

	hr, err := http.ReadRequest(p.br)
	if err != nil {
		return nil, classify(err)
	}

	req := &message.Request{
		Method:  hr.Method,
		URI:     hr.URL,
		Version: message.Version{Major: hr.ProtoMajor, Minor: hr.ProtoMinor},
		Headers: make(message.Headers, len(hr.Header)+2),
		Storage: make(map[string]any),
	}
	for k, vs := range hr.Header {
		req.Headers.Set(k, strings.Join(vs, ", "))
	}
	// ReadRequest moves these out of the header map.
	if hr.Host != "" {
		req.Headers.Set("Host", hr.Host)
	}
	if len(hr.TransferEncoding) > 0 {
		req.Headers.Set("Transfer-Encoding", strings.Join(hr.TransferEncoding, ", "))
	}

	switch {
	case hr.Body == nil || hr.Body == http.NoBody:
		req.Body = message.BufferBody(nil)
	case len(hr.TransferEncoding) > 0:
		p.pending = hr.Body
		req.Body = message.ReaderBody{Stream: &bodyReader{body: hr.Body, src: p.src}}
	default:
		data, err := io.ReadAll(hr.Body)
		if err != nil {
			return nil, classify(err)
		}
		req.Body = message.BufferBody(data)
	}

	return req, nil
}

// classify keeps stream errors as they are and turns anything else into a
// bad request.
func classify(err error) error {
	if isStreamError(err) {
		return err
	}
	return message.ErrBadRequest.WithError(err)
}

func isStreamError(err error) bool {
	return errors.Is(err, stream.ErrClosedStream) ||
		errors.Is(err, stream.ErrTimeout) ||
		errors.Is(err, stream.ErrBrokenPipe)
}

// streamReader adapts an InputStream to io.Reader. The deadline applies to
// every read until it is changed.
type streamReader struct {
	in       stream.InputStream
	deadline time.Time
}

func (r *streamReader) Read(p []byte) (int, error) {
	return r.in.Read(p, r.deadline)
}

// bodyReader exposes a decoded chunked body as an InputStream. It closes
// when the body is exhausted.
type bodyReader struct {
	body   io.ReadCloser
	src    *streamReader
	closed bool
}

func (b *bodyReader) Closed() bool {
	return b.closed
}

func (b *bodyReader) Close() error {
	b.closed = true
	return nil
}

func (b *bodyReader) Read(p []byte, deadline time.Time) (int, error) {
	if b.closed {
		return 0, stream.ErrClosedStream
	}
	b.src.deadline = deadline
	n, err := b.body.Read(p)
	switch {
	case errors.Is(err, io.EOF):
		b.closed = true
		if n > 0 {
			return n, nil
		}
		return 0, stream.ErrClosedStream
	case err != nil:
		return n, classify(err)
	}
	return n, nil
}
