// Package logger provides structured logging helpers built on log/slog.
//
// Attribute helpers give common fields a consistent key and drop empty
// values:
//
//	log.Info("request completed",
//		logger.Method(req.Method),
//		logger.Path(req.Path()),
//		logger.StatusCode(res.Status),
//		logger.Error(err), // omitted when err is nil
//	)
//
// NewHandler decorates any slog.Handler so that records logged with a
// context carrying an OpenTelemetry span get an "otel" group holding the
// trace_id and span_id. New builds a text or JSON logger with that
// decoration already applied.
package logger
