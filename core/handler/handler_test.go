package handler_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbonates/quark/core/handler"
	"github.com/dbonates/quark/core/message"
)

func trace(name string, calls *[]string) handler.Middleware {
	return handler.MiddlewareFunc(func(ctx context.Context, req *message.Request, next handler.Responder) (*message.Response, error) {
		*calls = append(*calls, name+":before")
		res, err := next.Respond(ctx, req)
		*calls = append(*calls, name+":after")
		return res, err
	})
}

func TestChainOrder(t *testing.T) {
	t.Parallel()

	var calls []string
	endpoint := handler.ResponderFunc(func(context.Context, *message.Request) (*message.Response, error) {
		calls = append(calls, "endpoint")
		return message.NewResponse(http.StatusOK, nil), nil
	})

	r := handler.Chain([]handler.Middleware{trace("m1", &calls), trace("m2", &calls), trace("m3", &calls)}, endpoint)
	res, err := r.Respond(context.Background(), message.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.Status)

	assert.Equal(t, []string{
		"m1:before", "m2:before", "m3:before",
		"endpoint",
		"m3:after", "m2:after", "m1:after",
	}, calls)
}

func TestChainWithoutMiddleware(t *testing.T) {
	t.Parallel()

	endpoint := handler.ResponderFunc(func(context.Context, *message.Request) (*message.Response, error) {
		return message.NewResponse(http.StatusAccepted, nil), nil
	})

	res, err := handler.Chain(nil, endpoint).Respond(context.Background(), message.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, res.Status)
}

func TestChainShortCircuit(t *testing.T) {
	t.Parallel()

	errDenied := errors.New("denied")
	deny := handler.MiddlewareFunc(func(context.Context, *message.Request, handler.Responder) (*message.Response, error) {
		return nil, errDenied
	})
	endpoint := handler.ResponderFunc(func(context.Context, *message.Request) (*message.Response, error) {
		t.Fatal("endpoint must not be called")
		return nil, nil
	})

	_, err := handler.Chain([]handler.Middleware{deny}, endpoint).Respond(context.Background(), message.NewRequest(http.MethodGet, "/", nil))
	assert.ErrorIs(t, err, errDenied)
}
