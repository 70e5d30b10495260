package middleware

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/dbonates/quark/core/handler"
	"github.com/dbonates/quark/core/message"
)

// MetricsConfig configures the metrics middleware.
type MetricsConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(req *message.Request) bool
	// MeterProvider creates the meter (default: otel.GetMeterProvider())
	MeterProvider metric.MeterProvider
}

// Metrics creates a metrics middleware using the global meter provider.
func Metrics() handler.Middleware {
	return MetricsWithConfig(MetricsConfig{})
}

// MetricsWithConfig creates a middleware recording a request counter
// (http.server.requests) and a duration histogram in seconds
// (http.server.request.duration), both keyed by method and status code.
// It panics if the instruments cannot be created.
func MetricsWithConfig(cfg MetricsConfig) handler.Middleware {
	if cfg.MeterProvider == nil {
		cfg.MeterProvider = otel.GetMeterProvider()
	}

	meter := cfg.MeterProvider.Meter(instrumentationName)

	requests, err := meter.Int64Counter("http.server.requests",
		metric.WithDescription("Number of handled HTTP requests."),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		panic(fmt.Sprintf("metrics middleware: %v", err))
	}

	duration, err := meter.Float64Histogram("http.server.request.duration",
		metric.WithDescription("Duration of HTTP requests."),
		metric.WithUnit("s"),
	)
	if err != nil {
		panic(fmt.Sprintf("metrics middleware: %v", err))
	}

	return handler.MiddlewareFunc(func(ctx context.Context, req *message.Request, next handler.Responder) (*message.Response, error) {
		if cfg.Skip != nil && cfg.Skip(req) {
			return next.Respond(ctx, req)
		}

		start := time.Now()
		res, err := next.Respond(ctx, req)
		elapsed := time.Since(start)

		status := 0
		switch {
		case res != nil:
			status = res.Status
		case err != nil:
			if status, _ = message.StatusOf(err); status == 0 {
				status = 500
			}
		}

		attrs := metric.WithAttributes(
			attribute.String("http.request.method", req.Method),
			attribute.Int("http.response.status_code", status),
		)
		requests.Add(ctx, 1, attrs)
		duration.Record(ctx, elapsed.Seconds(), attrs)

		return res, err
	})
}
