// Package resource bounds the resources a triangulation process may use.
//
// A Controller manages three limits:
//
//   - Memory: a budget for mesh construction (non-blocking, fail-fast)
//   - Workers: concurrent batch-location goroutines shared by all callers
//   - IO: a token bucket for snapshot reads and writes
//
// # Memory
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 1 << 30,
//	})
//
//	if err := rc.AcquireMemory(est); err != nil {
//	    // ErrMemoryLimitExceeded
//	}
//	defer rc.ReleaseMemory(est)
//
// # Workers
//
//	n := rc.AcquireWorkers(ctx, want)
//	defer rc.ReleaseWorkers(n)
//
// # IO
//
//	w := resource.NewRateLimitedWriter(ctx, dst, rc)
//	r := resource.NewRateLimitedReader(ctx, src, rc)
//
// All methods are safe for concurrent use and treat a nil Controller as
// unlimited.
package resource
