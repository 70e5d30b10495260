package middleware

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/dbonates/quark/core/handler"
	"github.com/dbonates/quark/core/message"
)

const instrumentationName = "github.com/dbonates/quark/middleware"

// TracingConfig configures the tracing middleware.
type TracingConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(req *message.Request) bool
	// TracerProvider creates the tracer (default: otel.GetTracerProvider())
	TracerProvider trace.TracerProvider
	// Propagator extracts the parent span context from request headers
	// (default: otel.GetTextMapPropagator())
	Propagator propagation.TextMapPropagator
	// SpanName names the server span (default: "METHOD /path")
	SpanName func(req *message.Request) string
}

// Tracing creates a tracing middleware using the global OpenTelemetry providers.
func Tracing() handler.Middleware {
	return TracingWithConfig(TracingConfig{})
}

// TracingWithConfig creates a middleware that runs every request inside a
// server span. The parent span context is extracted from the request headers
// and the span records the response status. Errors and 5xx responses mark the
// span as failed.
func TracingWithConfig(cfg TracingConfig) handler.Middleware {
	if cfg.TracerProvider == nil {
		cfg.TracerProvider = otel.GetTracerProvider()
	}
	if cfg.Propagator == nil {
		cfg.Propagator = otel.GetTextMapPropagator()
	}
	if cfg.SpanName == nil {
		cfg.SpanName = func(req *message.Request) string {
			return req.Method + " " + req.Path()
		}
	}

	tracer := cfg.TracerProvider.Tracer(instrumentationName)

	return handler.MiddlewareFunc(func(ctx context.Context, req *message.Request, next handler.Responder) (*message.Response, error) {
		if cfg.Skip != nil && cfg.Skip(req) {
			return next.Respond(ctx, req)
		}

		ctx = cfg.Propagator.Extract(ctx, headerCarrier(req.Headers))

		attrs := []attribute.KeyValue{
			attribute.String("http.request.method", req.Method),
			attribute.String("url.path", req.Path()),
			attribute.String("network.protocol.version", req.Version.String()),
		}
		if addr := req.RemoteAddr(); addr != "" {
			attrs = append(attrs, attribute.String("client.address", addr))
		}

		spanCtx, span := tracer.Start(ctx, cfg.SpanName(req),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(attrs...),
		)
		defer span.End()

		res, err := next.Respond(spanCtx, req)

		status := 0
		switch {
		case res != nil:
			status = res.Status
		case err != nil:
			status, _ = message.StatusOf(err)
		}
		if status != 0 {
			span.SetAttributes(attribute.Int("http.response.status_code", status))
		}

		switch {
		case err != nil:
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		case status >= 500:
			span.SetStatus(codes.Error, http.StatusText(status))
		}

		return res, err
	})
}

// headerCarrier adapts message.Headers to propagation.TextMapCarrier.
type headerCarrier message.Headers

func (c headerCarrier) Get(key string) string {
	return message.Headers(c).Get(key)
}

func (c headerCarrier) Set(key, value string) {
	message.Headers(c).Set(key, value)
}

func (c headerCarrier) Keys() []string {
	return message.Headers(c).Keys()
}
