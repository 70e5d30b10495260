package stream

import (
	"bytes"
	"sync"
	"time"
)

// Drain is an in-memory Stream. Reads consume the input it was created with;
// writes are collected and exposed by Bytes.
//
// A read that finds the input exhausted closes the drain, the same way a
// network stream closes when the peer hangs up. A Drain is safe for
// concurrent use.
type Drain struct {
	mu     sync.Mutex
	in     []byte
	out    bytes.Buffer
	closed bool
}

// NewDrain returns a drain that will read input.
func NewDrain(input []byte) *Drain {
	return &Drain{in: input}
}

// NewDrainString is NewDrain for string input.
func NewDrainString(input string) *Drain {
	return NewDrain([]byte(input))
}

// Bytes returns everything written to the drain so far.
func (d *Drain) Bytes() []byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	return bytes.Clone(d.out.Bytes())
}

// String returns everything written to the drain so far.
func (d *Drain) String() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.out.String()
}

// Closed implements InputStream and OutputStream.
func (d *Drain) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

// Close implements InputStream and OutputStream.
func (d *Drain) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

// Read implements InputStream.
func (d *Drain) Read(p []byte, _ time.Time) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return 0, ErrClosedStream
	}
	if len(d.in) == 0 {
		d.closed = true
		return 0, ErrClosedStream
	}
	n := copy(p, d.in)
	d.in = d.in[n:]
	return n, nil
}

// Write implements OutputStream.
func (d *Drain) Write(p []byte, _ time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosedStream
	}
	d.out.Write(p)
	return nil
}

// Flush implements OutputStream.
func (d *Drain) Flush(_ time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosedStream
	}
	return nil
}
