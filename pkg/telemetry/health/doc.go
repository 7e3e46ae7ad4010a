// Package health serves liveness and readiness endpoints for long-running
// vgen processes such as watch mode.
//
// Components register named checks; readiness runs them concurrently
// with a per-check timeout and reports "degraded" when any fails.
//
//	checker := health.New(2 * time.Second)
//	checker.RegisterCheck("last_run", func(ctx context.Context) error {
//	    return lastRunErr()
//	})
//	checker.Mount(mux)
package health
