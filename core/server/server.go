package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dbonates/quark/core/handler"
	"github.com/dbonates/quark/core/http1"
	"github.com/dbonates/quark/core/logger"
	"github.com/dbonates/quark/core/message"
	"github.com/dbonates/quark/core/session"
	"github.com/dbonates/quark/core/stream"
	"github.com/dbonates/quark/core/tcp"
	"github.com/dbonates/quark/middleware"
)

// Server accepts streams from a host and serves HTTP/1.1 exchanges on each
// of them in its own goroutine.
type Server struct {
	mu          sync.Mutex
	config      Config
	host        stream.Host
	responder   handler.Responder
	logger      *slog.Logger
	failure     func(error)
	sessions    session.Store
	sessionOpts []session.Option
	middleware  []handler.Middleware

	conns   map[*conn]struct{}
	wg      sync.WaitGroup
	running bool
	closing atomic.Bool
}

// conn is a stream owned by one connection goroutine.
type conn struct {
	stream stream.Stream
	ctx    context.Context
	cancel context.CancelFunc
	// idle is set while the connection waits for the next request.
	idle atomic.Bool
}

var stderr = slog.New(slog.NewTextHandler(os.Stderr, nil))

// LogFailure is the default failure callback. It logs err to standard error.
func LogFailure(err error) {
	stderr.Error("connection failed", logger.Component("server"), logger.Error(err))
}

// New creates a server dispatching to responder. The enabled built-in
// middleware are chained in front of it in a fixed order: log, session,
// content negotiation, then the middleware given with WithMiddleware.
func New(cfg Config, responder handler.Responder, opts ...Option) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if responder == nil {
		return nil, ErrNilResponder
	}

	s := &Server{
		config:  cfg,
		logger:  slog.Default(),
		failure: LogFailure,
		conns:   make(map[*conn]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	var chain []handler.Middleware
	if cfg.Log {
		chain = append(chain, middleware.LoggingWithLogger(s.logger))
	}
	if cfg.Session {
		chain = append(chain, middleware.SessionWithConfig(middleware.SessionConfig{
			Store:   s.sessions,
			Options: s.sessionOpts,
			Logger:  s.logger,
		}))
	}
	if cfg.ContentNegotiation {
		chain = append(chain, middleware.ContentNegotiation())
	}
	chain = append(chain, s.middleware...)
	s.responder = handler.Chain(chain, responder)

	return s, nil
}

// Start binds the listening host, unless one was injected with WithHost, and
// accepts connections until ctx is cancelled or the server is shut down.
// Errors ending a connection and failed accepts go to the failure callback;
// the accept loop keeps running. Start returns ctx.Err() on cancellation and
// nil after Shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrServerAlreadyRunning
	}
	if s.host == nil {
		h, err := tcp.Listen(s.config.tcp())
		if err != nil {
			s.mu.Unlock()
			return fmt.Errorf("failed to listen on %s: %w", s.config.Address(), err)
		}
		s.host = h
	}
	s.running = true
	s.closing.Store(false)
	host := s.host
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "starting server",
		logger.Component("server"),
		logger.Addr(s.address()),
	)

	stop := context.AfterFunc(ctx, func() {
		closeHost(host)
	})
	defer stop()

	err := s.serve(ctx, host)
	if errors.Is(err, ErrServerClosed) {
		return nil
	}
	return err
}

// Stop gracefully shuts down the server, waiting up to the configured
// shutdown timeout for open connections.
func (s *Server) Stop() error {
	timeout := s.config.ShutdownTimeout
	if timeout <= 0 {
		timeout = DefaultShutdownTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.Shutdown(ctx)
}

// Shutdown stops accepting, closes idle connections and waits for the active
// ones to finish their current exchange. When ctx expires first, the
// remaining streams are closed and ctx.Err() is returned.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.closing.Store(true)
	host := s.host
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "shutting down server gracefully", logger.Component("server"))

	closeHost(host)
	s.closeConns(true)

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	var err error
	select {
	case <-done:
		s.logger.InfoContext(ctx, "server shutdown complete", logger.Component("server"))
	case <-ctx.Done():
		s.closeConns(false)
		err = ctx.Err()
		s.logger.ErrorContext(ctx, "server shutdown error", logger.Component("server"), logger.Error(err))
	}

	s.mu.Lock()
	s.running = false
	s.host = nil
	s.mu.Unlock()

	return err
}

// Run returns a function suitable for errgroup that starts the server and
// shuts it down gracefully when ctx is cancelled.
func (s *Server) Run(ctx context.Context) func() error {
	return func() error {
		errCh := make(chan error, 1)
		go func() {
			errCh <- s.Start(ctx)
		}()

		select {
		case <-ctx.Done():
			if stopErr := s.Stop(); stopErr != nil {
				s.logger.Error("failed to stop server during context cancellation", logger.Error(stopErr))
			}
			<-errCh
			return nil
		case err := <-errCh:
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
	}
}

// Addr returns the address the server listens on, or nil before Start
// binds it.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h, ok := s.host.(interface{ Addr() net.Addr }); ok {
		return h.Addr()
	}
	return nil
}

func (s *Server) address() string {
	if addr := s.Addr(); addr != nil {
		return addr.String()
	}
	return s.config.Address()
}

func (s *Server) serve(ctx context.Context, host stream.Host) error {
	var delay time.Duration
	for {
		st, err := host.Accept(stream.Never)
		if err != nil {
			switch {
			case ctx.Err() != nil:
				return ctx.Err()
			case stream.IsClosed(err), s.closing.Load():
				return ErrServerClosed
			case stream.IsTimeout(err):
				continue
			}

			s.failure(fmt.Errorf("accept: %w", err))
			delay = backoff(delay)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
			continue
		}
		delay = 0

		c, ok := s.track(ctx, st)
		if !ok {
			_ = st.Close()
			continue
		}

		go func() {
			defer s.untrack(c)
			if err := s.process(c); err != nil {
				s.failure(err)
			}
		}()
	}
}

// track registers a new connection unless the server is shutting down.
// Registration happens under the lock that Shutdown takes before waiting,
// so no connection is added once the wait has begun.
func (s *Server) track(ctx context.Context, st stream.Stream) (*conn, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closing.Load() {
		return nil, false
	}
	connCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	c := &conn{stream: st, ctx: connCtx, cancel: cancel}
	s.conns[c] = struct{}{}
	s.wg.Add(1)
	return c, true
}

func (s *Server) untrack(c *conn) {
	c.cancel()
	s.mu.Lock()
	delete(s.conns, c)
	s.mu.Unlock()
	s.wg.Done()
}

// closeConns closes idle connections, or every connection when idleOnly is
// false.
func (s *Server) closeConns(idleOnly bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.conns {
		if idleOnly && !c.idle.Load() {
			continue
		}
		if !idleOnly {
			c.cancel()
		}
		_ = c.stream.Close()
	}
}

// Process serves sequential exchanges on st until the stream is closed, an
// upgrade takes it over, or an error cannot be recovered into a response.
// HTTP errors are answered with their status. Any other error is answered
// with a 500 response and then returned. A broken pipe or an error on a
// closed stream ends the loop silently.
func (s *Server) Process(ctx context.Context, st stream.Stream) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	return s.process(&conn{stream: st, cancel: cancel, ctx: ctx})
}

func (s *Server) process(c *conn) error {
	st := c.stream
	parser := http1.NewRequestParser(st, s.config.BufferSize)
	serializer := http1.NewResponseSerializer(st, s.config.BufferSize)

	for !st.Closed() {
		c.idle.Store(true)
		if s.closing.Load() {
			_ = st.Close()
			return nil
		}

		keepAlive, err := s.exchange(c, parser, serializer)
		if err != nil {
			// recover closes the stream unless it may serve another request.
			if err := s.recover(c, serializer, err, keepAlive); err != nil {
				return err
			}
			continue
		}
		if !keepAlive {
			_ = st.Close()
			return nil
		}
	}
	return nil
}

// exchange reads one request, dispatches it and writes the response. The
// returned flag reports whether the connection may serve another request,
// also when an error is returned.
func (s *Server) exchange(c *conn, parser *http1.RequestParser, serializer *http1.ResponseSerializer) (bool, error) {
	st := c.stream

	req, err := parser.Parse(stream.After(s.config.ReadTimeout))
	c.idle.Store(false)
	if err != nil {
		return false, err
	}

	if peer, ok := st.(interface{ RemoteAddr() net.Addr }); ok {
		if addr := peer.RemoteAddr(); addr != nil {
			req.SetValue(message.RemoteAddrKey, addr.String())
		}
	}

	keepAlive := req.IsKeepAlive() && !s.closing.Load()

	res, err := s.responder.Respond(c.ctx, req)
	if err != nil {
		return keepAlive, err
	}
	if res == nil {
		return keepAlive, ErrNilResponse
	}

	if !keepAlive {
		res.Headers.Set("Connection", "close")
	}

	if err := serializer.Serialize(res, stream.After(s.config.WriteTimeout)); err != nil {
		return false, err
	}

	if upgrade, ok := res.Upgrade(); ok {
		err := upgrade(req, st)
		_ = st.Close()
		if err != nil {
			return false, fmt.Errorf("%w: %w", ErrUpgrade, err)
		}
		return false, nil
	}

	return keepAlive, nil
}

// recover ends or continues the connection after a failed exchange.
func (s *Server) recover(c *conn, serializer *http1.ResponseSerializer, err error, keepAlive bool) error {
	st := c.stream

	switch {
	case errors.Is(err, ErrUpgrade):
		return err
	case stream.IsBrokenPipe(err):
		_ = st.Close()
		return nil
	case st.Closed():
		return nil
	case stream.IsTimeout(err):
		_ = st.Close()
		return nil
	}

	res, residual := Recover(err)
	if !keepAlive {
		res.Headers.Set("Connection", "close")
	}

	if werr := serializer.Serialize(res, stream.After(s.config.WriteTimeout)); werr != nil {
		_ = st.Close()
		switch {
		case residual != nil:
			return residual
		case stream.IsBrokenPipe(werr), stream.IsClosed(werr), stream.IsTimeout(werr):
			return nil
		default:
			return werr
		}
	}

	if residual != nil || !keepAlive {
		_ = st.Close()
	}
	return residual
}

// Recover maps err to the response sent in its place. HTTP errors map to
// their status. Anything else maps to a 500 response and is returned as the
// residual error.
func Recover(err error) (*message.Response, error) {
	if status, ok := message.StatusOf(err); ok {
		return message.NewResponse(status, nil), nil
	}
	return message.NewResponse(http.StatusInternalServerError, nil), err
}

func backoff(delay time.Duration) time.Duration {
	if delay == 0 {
		return 5 * time.Millisecond
	}
	if delay *= 2; delay > maxAcceptDelay {
		delay = maxAcceptDelay
	}
	return delay
}

func closeHost(h stream.Host) {
	if c, ok := h.(io.Closer); ok {
		_ = c.Close()
	}
}
