// Package health provides responders for service health monitoring.
//
// Responders:
//   - Liveness: process is running (no dependency checks)
//   - Readiness: all dependencies are available
//   - NoContent: returns 204 for minimal overhead
//
// Usage:
//
//	r := router.New(func(r *router.Routes) {
//		r.Get("/health/live", health.Liveness)
//		r.Get("/health/ready", health.Readiness(logger, store.Ping))
//		r.Get("/ping", health.NoContent)
//	})
//
// Dependency checks follow the func(context.Context) error signature:
//
//	func checkStore(ctx context.Context) error {
//		_, err := store.Get(ctx, "probe")
//		if errors.Is(err, session.ErrNotFound) {
//			return nil
//		}
//		return err
//	}
package health
