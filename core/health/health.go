package health

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dbonates/quark/core/handler"
	"github.com/dbonates/quark/core/logger"
	"github.com/dbonates/quark/core/message"
)

// Check reports whether a dependency is usable.
type Check func(ctx context.Context) error

// Liveness always answers 200 "ALIVE".
func Liveness(context.Context, *message.Request) (*message.Response, error) {
	return plain("ALIVE"), nil
}

// NoContent answers 204 without a body.
func NoContent(context.Context, *message.Request) (*message.Response, error) {
	return message.NewResponse(http.StatusNoContent, nil), nil
}

// Readiness runs every check in order. It answers "READY" when all pass and
// fails with message.ErrServiceUnavailable on the first failure.
func Readiness(log *slog.Logger, checks ...Check) handler.ResponderFunc {
	if log == nil {
		log = logger.Discard()
	}
	return func(ctx context.Context, _ *message.Request) (*message.Response, error) {
		for _, check := range checks {
			if err := check(ctx); err != nil {
				log.ErrorContext(ctx, "readiness check failed", logger.Error(err))
				return nil, message.ErrServiceUnavailable.WithError(err)
			}
		}
		return plain("READY"), nil
	}
}

func plain(s string) *message.Response {
	res := message.NewResponse(http.StatusOK, message.BufferBody(s))
	res.Headers.Set("Content-Type", "text/plain; charset=utf-8")
	return res
}
