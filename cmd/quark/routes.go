package main

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dbonates/quark/core/binder"
	"github.com/dbonates/quark/core/health"
	"github.com/dbonates/quark/core/message"
	"github.com/dbonates/quark/core/router"
	"github.com/dbonates/quark/core/session"
	"github.com/dbonates/quark/core/stream"
	"github.com/dbonates/quark/middleware"
)

const (
	visitsKey   = "visits"
	echoIdle    = 5 * time.Minute
	echoQuit    = "quit"
	upgradeName = "echo"
)

func newRouter(log *slog.Logger, store session.Store) *router.Router {
	return router.New(func(r *router.Routes) {
		r.Get("/health/live", health.Liveness)
		r.Get("/health/ready", health.Readiness(log, storeReady(store)))
		r.Get("/ping", health.NoContent)

		r.Get("/", index)
		r.Get("/hello/:name", hello)
		r.Post("/echo", echo)
		r.Get("/visits", visits)
		r.Get("/files/*", files)
		r.Get("/upgrade/echo", upgradeEcho)
	}, router.WithLogger(log))
}

// storeReady probes the session store with a token that never exists.
func storeReady(store session.Store) health.Check {
	return func(ctx context.Context) error {
		_, err := store.Get(ctx, "readiness-probe")
		if err == nil || errors.Is(err, session.ErrNotFound) {
			return nil
		}
		return err
	}
}

func text(status int, body string) *message.Response {
	res := message.NewResponse(status, message.BufferBody(body))
	res.Headers.Set("Content-Type", "text/plain; charset=utf-8")
	return res
}

func index(context.Context, *message.Request) (*message.Response, error) {
	return text(http.StatusOK, "quark\n"), nil
}

type helloParams struct {
	Name     string `path:"name"`
	Greeting string `query:"greeting"`
}

func hello(_ context.Context, req *message.Request) (*message.Response, error) {
	in := helloParams{Greeting: "Hello"}
	if err := binder.Bind(req, &in, binder.Path(), binder.Query()); err != nil {
		return nil, err
	}
	res := message.NewResponse(http.StatusOK, nil)
	middleware.SetContent(res, map[string]string{
		"message": in.Greeting + ", " + in.Name + "!",
	})
	return res, nil
}

// echo returns the decoded request content re-encoded in the negotiated type.
func echo(_ context.Context, req *message.Request) (*message.Response, error) {
	content, ok := middleware.GetContent(req)
	if !ok {
		return nil, message.ErrBadRequest.WithMessage("request body is required")
	}
	res := message.NewResponse(http.StatusOK, nil)
	middleware.SetContent(res, content)
	return res, nil
}

// visits counts requests made within the caller's session.
func visits(_ context.Context, req *message.Request) (*message.Response, error) {
	sess, ok := middleware.GetSession(req)
	if !ok {
		return nil, message.ErrServiceUnavailable.WithMessage("sessions are disabled")
	}
	n, _ := sess.Get(visitsKey)
	count, _ := n.(int)
	count++
	sess.Set(visitsKey, count)

	res := message.NewResponse(http.StatusOK, nil)
	middleware.SetContent(res, map[string]int{visitsKey: count})
	return res, nil
}

// files streams the requested path back as a chunked body.
func files(_ context.Context, req *message.Request) (*message.Response, error) {
	name := strings.TrimPrefix(req.Path(), "/files/")
	if name == "" || strings.Contains(name, "..") {
		return nil, message.ErrNotFound
	}
	res := message.NewResponse(http.StatusOK, message.WriterBody(func(w stream.OutputStream) error {
		for _, part := range strings.Split(name, "/") {
			if err := w.Write([]byte(part+"\n"), stream.Never); err != nil {
				return err
			}
		}
		return nil
	}))
	res.Headers.Set("Content-Type", "text/plain; charset=utf-8")
	return res, nil
}

// upgradeEcho switches the connection to a line echo protocol. Each line
// received is written back until the peer sends "quit" or goes away.
func upgradeEcho(_ context.Context, req *message.Request) (*message.Response, error) {
	if !strings.EqualFold(req.Headers.Get("Upgrade"), upgradeName) {
		return nil, message.ErrBadRequest.WithMessage("expected Upgrade: " + upgradeName)
	}
	res := message.NewResponse(http.StatusSwitchingProtocols, nil)
	res.Headers.Set("Upgrade", upgradeName)
	res.Headers.Set("Connection", "Upgrade")
	res.SetUpgrade(echoLines)
	return res, nil
}

func echoLines(_ *message.Request, s stream.Stream) error {
	var pending []byte
	buf := make([]byte, stream.DefaultBufferSize)

	for !s.Closed() {
		n, err := s.Read(buf, stream.After(echoIdle))
		pending = append(pending, buf[:n]...)

		for {
			i := bytes.IndexByte(pending, '\n')
			if i < 0 {
				break
			}
			line := pending[:i+1]
			pending = pending[i+1:]
			if strings.TrimSpace(string(line)) == echoQuit {
				return nil
			}
			if err := s.Write(line, stream.After(echoIdle)); err != nil {
				return err
			}
			if err := s.Flush(stream.After(echoIdle)); err != nil {
				return err
			}
		}

		if err != nil {
			if stream.IsClosed(err) || stream.IsTimeout(err) || stream.IsBrokenPipe(err) {
				return nil
			}
			return err
		}
	}
	return nil
}
