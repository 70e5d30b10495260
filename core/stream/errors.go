package stream

import (
	"errors"
	"fmt"
)

// DefaultBufferSize is the chunk size used when a caller does not choose one.
const DefaultBufferSize = 2048

var (
	// ErrClosedStream is returned by operations on a closed stream.
	ErrClosedStream = errors.New("stream closed")
	// ErrTimeout is returned when an operation's deadline elapses.
	ErrTimeout = errors.New("stream deadline exceeded")
	// ErrBrokenPipe is returned when the peer went away during a write.
	ErrBrokenPipe = errors.New("broken pipe")
)

// PartialError reports a stream failure together with the bytes
// produced by the failed call before it stopped.
type PartialError struct {
	Err  error
	Data []byte
}

// Error implements the error interface.
func (e *PartialError) Error() string {
	if len(e.Data) == 0 {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s (after %d bytes)", e.Err, len(e.Data))
}

// Unwrap allows errors.Is to match the sentinel.
func (e *PartialError) Unwrap() error {
	return e.Err
}

// IsClosed reports whether err means the stream is closed.
func IsClosed(err error) bool {
	return errors.Is(err, ErrClosedStream)
}

// IsTimeout reports whether err means a deadline elapsed.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsBrokenPipe reports whether err means the peer hung up during a write.
func IsBrokenPipe(err error) bool {
	return errors.Is(err, ErrBrokenPipe)
}
