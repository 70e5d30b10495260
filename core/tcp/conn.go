package tcp

import (
	"bufio"
	"net"
	"sync/atomic"
	"time"

	"github.com/dbonates/quark/core/stream"
)

// Conn is a stream.Stream over a net.Conn.
type Conn struct {
	conn   net.Conn
	w      *bufio.Writer
	closed atomic.Bool
}

var _ stream.Stream = (*Conn)(nil)

// NewConn wraps conn. Writes are buffered in bufferSize bytes.
func NewConn(conn net.Conn, bufferSize int) *Conn {
	if bufferSize <= 0 {
		bufferSize = stream.DefaultBufferSize
	}
	return &Conn{
		conn: conn,
		w:    bufio.NewWriterSize(conn, bufferSize),
	}
}

// RemoteAddr returns the peer address.
func (c *Conn) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

// LocalAddr returns the local address.
func (c *Conn) LocalAddr() net.Addr {
	return c.conn.LocalAddr()
}

// Closed reports whether the stream has been closed locally or by the peer.
func (c *Conn) Closed() bool {
	return c.closed.Load()
}

// Close closes the underlying connection. It is safe to call more than once.
func (c *Conn) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	return c.conn.Close()
}

// Read reads directly from the socket.
func (c *Conn) Read(p []byte, deadline time.Time) (int, error) {
	if c.Closed() {
		return 0, stream.ErrClosedStream
	}
	if err := c.conn.SetReadDeadline(deadline); err != nil {
		return 0, c.fail(err, nil)
	}

	n, err := c.conn.Read(p)
	if err != nil {
		return n, c.fail(err, p[:n])
	}
	return n, nil
}

// Write buffers p; it reaches the socket when the buffer fills or on Flush.
func (c *Conn) Write(p []byte, deadline time.Time) error {
	if c.Closed() {
		return stream.ErrClosedStream
	}
	if err := c.conn.SetWriteDeadline(deadline); err != nil {
		return c.fail(err, nil)
	}

	n, err := c.w.Write(p)
	if err != nil {
		return c.fail(err, p[:n])
	}
	return nil
}

// Flush writes any buffered data to the socket.
func (c *Conn) Flush(deadline time.Time) error {
	if c.Closed() {
		return stream.ErrClosedStream
	}
	if err := c.conn.SetWriteDeadline(deadline); err != nil {
		return c.fail(err, nil)
	}
	if err := c.w.Flush(); err != nil {
		return c.fail(err, nil)
	}
	return nil
}

// fail maps err and closes the connection unless it was a timeout.
func (c *Conn) fail(err error, data []byte) error {
	mapped := mapError(err)
	if mapped != stream.ErrTimeout {
		_ = c.Close()
	}
	if mapped == stream.ErrClosedStream || mapped == stream.ErrTimeout {
		return &stream.PartialError{Err: mapped, Data: data}
	}
	return mapped
}
