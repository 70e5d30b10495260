package stream

import "time"

// Never is the deadline that disables timeouts.
var Never time.Time

// After returns a deadline d from now. A non-positive d yields Never.
func After(d time.Duration) time.Time {
	if d <= 0 {
		return Never
	}
	return time.Now().Add(d)
}

// InputStream is the readable half of a Stream.
type InputStream interface {
	Closed() bool
	Close() error
	// Read reads up to len(p) bytes into p. It fails with ErrClosedStream once the
	// stream is closed and with ErrTimeout when the deadline elapses.
	Read(p []byte, deadline time.Time) (int, error)
}

// OutputStream is the writable half of a Stream.
type OutputStream interface {
	Closed() bool
	Close() error
	// Write writes all of p or fails with ErrClosedStream, ErrTimeout or ErrBrokenPipe.
	Write(p []byte, deadline time.Time) error
	Flush(deadline time.Time) error
}

// Stream is a bidirectional byte stream.
type Stream interface {
	InputStream
	OutputStream
}

// Host produces streams for incoming connections.
type Host interface {
	Accept(deadline time.Time) (Stream, error)
}

// ReadAll reads from in until it is closed and returns everything read.
// Reaching the closed state is not an error.
func ReadAll(in InputStream, deadline time.Time) ([]byte, error) {
	var out []byte
	buf := make([]byte, DefaultBufferSize)
	for !in.Closed() {
		n, err := in.Read(buf, deadline)
		out = append(out, buf[:n]...)
		if err != nil {
			if IsClosed(err) {
				break
			}
			return out, err
		}
	}
	return out, nil
}
