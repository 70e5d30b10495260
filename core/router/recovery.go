package router

import (
	"context"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/dbonates/quark/core/handler"
	"github.com/dbonates/quark/core/logger"
	"github.com/dbonates/quark/core/message"
)

// RecoverFunc maps an error raised downstream to a response. Returning an
// error re-raises it.
type RecoverFunc func(err error) (*message.Response, error)

// Recover answers HTTP-domain errors with an empty response carrying their
// status and re-raises anything else.
func Recover(err error) (*message.Response, error) {
	if status, ok := message.StatusOf(err); ok {
		return message.NewResponse(status, nil), nil
	}
	return nil, err
}

// RecoverAll is Recover with a 500 response for errors outside the
// HTTP domain.
func RecoverAll(err error) (*message.Response, error) {
	if res, rerr := Recover(err); rerr == nil {
		return res, nil
	}
	return message.NewResponse(http.StatusInternalServerError, nil), nil
}

// Recovery returns a middleware that passes downstream errors and panics to
// fn. Panics are converted to *PanicError first.
func Recovery(fn RecoverFunc, log *slog.Logger) handler.Middleware {
	if fn == nil {
		fn = Recover
	}
	return recovery{recover: fn, logger: log}
}

type recovery struct {
	recover RecoverFunc
	logger  *slog.Logger
}

func (m recovery) Respond(ctx context.Context, req *message.Request, next handler.Responder) (res *message.Response, err error) {
	defer func() {
		v := recover()
		if v == nil {
			return
		}
		p := &PanicError{Value: v, Stack: debug.Stack()}
		if m.logger != nil {
			m.logger.ErrorContext(ctx, "panic recovered",
				logger.Method(req.Method),
				logger.Path(req.Path()),
				slog.Any("value", p.Value),
				slog.String("stack", string(p.Stack)),
			)
		}
		res, err = m.recover(p)
	}()

	res, err = next.Respond(ctx, req)
	if err == nil && res == nil {
		err = ErrNilResponse
	}
	if err != nil {
		return m.recover(err)
	}
	return res, nil
}
