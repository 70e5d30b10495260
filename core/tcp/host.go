package tcp

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/dbonates/quark/core/stream"
)

const (
	// DefaultBacklog is the listen queue length used when Config.Backlog is not set.
	DefaultBacklog = 128
)

// Config describes the listening socket.
type Config struct {
	Host       string
	Port       int
	Backlog    int
	ReusePort  bool
	BufferSize int
}

// Address returns the host:port string for the config.
func (c Config) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Host accepts TCP connections and hands them out as streams.
type Host struct {
	listener   net.Listener
	bufferSize int
	closed     atomic.Bool
}

var _ stream.Host = (*Host)(nil)

// Listen binds and listens according to cfg.
func Listen(cfg Config) (*Host, error) {
	if cfg.Port < 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPort, cfg.Port)
	}
	if cfg.Backlog <= 0 {
		cfg.Backlog = DefaultBacklog
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = stream.DefaultBufferSize
	}

	l, err := listen(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrListen, cfg.Address(), err)
	}

	return &Host{listener: l, bufferSize: cfg.BufferSize}, nil
}

// Accept waits for the next connection. A zero deadline waits forever.
func (h *Host) Accept(deadline time.Time) (stream.Stream, error) {
	if h.closed.Load() {
		return nil, stream.ErrClosedStream
	}

	if dl, ok := h.listener.(interface{ SetDeadline(time.Time) error }); ok {
		if err := dl.SetDeadline(deadline); err != nil {
			return nil, mapError(err)
		}
	}

	conn, err := h.listener.Accept()
	if err != nil {
		if h.closed.Load() || errors.Is(err, net.ErrClosed) {
			return nil, stream.ErrClosedStream
		}
		return nil, mapError(err)
	}

	return NewConn(conn, h.bufferSize), nil
}

// Addr returns the bound address.
func (h *Host) Addr() net.Addr {
	return h.listener.Addr()
}

// Close stops listening. Accepted streams are not affected.
func (h *Host) Close() error {
	if h.closed.Swap(true) {
		return nil
	}
	return h.listener.Close()
}
