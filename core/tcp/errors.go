package tcp

import (
	"errors"
	"io"
	"net"
	"os"
	"syscall"

	"github.com/dbonates/quark/core/stream"
)

var (
	ErrInvalidPort = errors.New("invalid tcp port")
	ErrListen      = errors.New("failed to listen on")
)

// mapError translates socket errors into the stream error taxonomy.
// Errors it does not recognise are returned unchanged.
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, os.ErrDeadlineExceeded):
		return stream.ErrTimeout
	case errors.Is(err, syscall.EPIPE), errors.Is(err, syscall.ECONNRESET):
		return stream.ErrBrokenPipe
	case errors.Is(err, io.EOF), errors.Is(err, net.ErrClosed), errors.Is(err, io.ErrUnexpectedEOF):
		return stream.ErrClosedStream
	}

	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return stream.ErrTimeout
	}
	return err
}
