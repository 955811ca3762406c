package delaunay

import (
	"log/slog"

	"github.com/hupe1980/delaunay/codec"
	"github.com/hupe1980/delaunay/hull"
	"github.com/hupe1980/delaunay/internal/resource"
	"github.com/hupe1980/delaunay/locate"
)

type options struct {
	codec            codec.Codec
	metricsCollector MetricsCollector
	logger           *Logger

	oracle      hull.Oracle
	hullEpsilon float64
	allPoints   bool
	deduplicate bool

	epsilon        float64
	bruteforce     bool
	gridResolution int
	onCycle        func(w *locate.LocationCycleWarning)

	limits resource.Config
	rc     *resource.Controller
}

// Option configures Build and Load.
type Option func(*options)

// WithCodec configures the codec used by Save and Load.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &delaunay.BasicMetricsCollector{}
//	tri, _ := delaunay.Build(ctx, points, delaunay.WithMetricsCollector(metrics))
//	stats := metrics.GetStats()
//	fmt.Printf("Builds: %d, Avg latency: %dns\n", stats.BuildCount, stats.BuildAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := delaunay.NewJSONLogger(slog.LevelInfo)
//	tri, _ := delaunay.Build(ctx, points, delaunay.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithHullOracle replaces the built-in quickhull for both the input hull and
// the lifted hull.
func WithHullOracle(oracle hull.Oracle) Option {
	return func(o *options) {
		o.oracle = oracle
	}
}

// WithHullEpsilon sets the relative affine-rank tolerance the built-in hull
// uses to pick its initial simplex.
// Ignored when WithHullOracle is set.
func WithHullEpsilon(eps float64) Option {
	return func(o *options) {
		o.hullEpsilon = eps
	}
}

// WithAllPoints triangulates every input point instead of only the vertices
// of the input's convex hull. Interior points then become mesh vertices.
func WithAllPoints() Option {
	return func(o *options) {
		o.allPoints = true
	}
}

// WithDeduplicate collapses identical input points onto the first index.
// Without it duplicates keep their own index and are reported as coplanar.
func WithDeduplicate() Option {
	return func(o *options) {
		o.deduplicate = true
	}
}

// WithEpsilon sets the barycentric tolerance of point location.
func WithEpsilon(eps float64) Option {
	return func(o *options) {
		o.epsilon = eps
	}
}

// WithBruteforce makes every query scan the mesh instead of walking.
func WithBruteforce() Option {
	return func(o *options) {
		o.bruteforce = true
	}
}

// WithGridResolution fixes the number of seed-grid cells per axis.
func WithGridResolution(k int) Option {
	return func(o *options) {
		o.gridResolution = k
	}
}

// WithOnCycle registers a hook for walks that revisit a simplex. The hook is
// called in addition to logging and metrics, possibly concurrently.
func WithOnCycle(fn func(w *locate.LocationCycleWarning)) Option {
	return func(o *options) {
		o.onCycle = fn
	}
}

// WithMaxWorkers bounds the number of goroutines used by LocateBatch across
// all concurrent callers of one Triangulation.
func WithMaxWorkers(n int) Option {
	return func(o *options) {
		o.limits.MaxWorkers = int64(n)
	}
}

// WithIOLimit rate limits snapshot reads and writes.
func WithIOLimit(bytesPerSec int64) Option {
	return func(o *options) {
		o.limits.IOLimitBytesPerSec = bytesPerSec
	}
}

// WithMemoryLimit rejects builds and loads whose estimated working memory
// exceeds bytes with ErrMemoryLimitExceeded.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.limits.MemoryLimitBytes = bytes
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		codec:            codec.Default,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		hullEpsilon:      hull.DefaultOptions.Epsilon,
		epsilon:          locate.DefaultOptions.Epsilon,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}

	if o.oracle == nil {
		o.oracle = hull.NewIncremental(func(ho *hull.Options) { ho.Epsilon = o.hullEpsilon })
	}
	o.rc = resource.NewController(o.limits)

	return o
}
