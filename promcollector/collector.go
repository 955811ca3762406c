// Package promcollector exports triangulation metrics to Prometheus.
//
//	reg := prometheus.NewRegistry()
//	c, err := promcollector.New(reg, "palette")
//	...
//	tri, err := delaunay.Build(ctx, points, delaunay.WithMetricsCollector(c))
package promcollector

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/delaunay"
)

var _ delaunay.MetricsCollector = (*Collector)(nil)

// Collector implements delaunay.MetricsCollector on Prometheus metrics.
type Collector struct {
	opLatency      *prometheus.HistogramVec
	builds         *prometheus.CounterVec
	simplices      prometheus.Counter
	locates        *prometheus.CounterVec
	batchQueries   *prometheus.CounterVec
	cycleFallbacks prometheus.Counter
	snapshots      *prometheus.CounterVec
	snapshotBytes  *prometheus.CounterVec
}

// New creates a Collector and registers its metrics with reg. A nil reg
// uses prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer, namespace string) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &Collector{
		opLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_latency_seconds",
			Help:      "Latency of triangulation operations",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 12),
		}, []string{"op", "status"}),
		builds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "builds_total",
			Help:      "Triangulations built",
		}, []string{"dimension", "status"}),
		simplices: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "simplices_built_total",
			Help:      "Simplices produced by successful builds",
		}),
		locates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "locates_total",
			Help:      "Single point-location queries",
		}, []string{"result"}),
		batchQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batch_queries_total",
			Help:      "Queries answered by batch location",
		}, []string{"result"}),
		cycleFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "walk_cycle_fallbacks_total",
			Help:      "Walks that revisited a simplex and fell back to bruteforce",
		}),
		snapshots: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshots_total",
			Help:      "Snapshot saves and loads",
		}, []string{"op", "status"}),
		snapshotBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_bytes_total",
			Help:      "Encoded bytes written or read by snapshots",
		}, []string{"op"}),
	}

	for _, col := range []prometheus.Collector{
		c.opLatency, c.builds, c.simplices, c.locates,
		c.batchQueries, c.cycleFallbacks, c.snapshots, c.snapshotBytes,
	} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// MustNew is like New but panics on registration errors.
func MustNew(reg prometheus.Registerer, namespace string) *Collector {
	c, err := New(reg, namespace)
	if err != nil {
		panic(err)
	}
	return c
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func result(found bool) string {
	if found {
		return "found"
	}
	return "not_found"
}

// RecordBuild implements delaunay.MetricsCollector.
func (c *Collector) RecordBuild(dim, _, simplices int, d time.Duration, err error) {
	c.opLatency.WithLabelValues("build", status(err)).Observe(d.Seconds())
	c.builds.WithLabelValues(strconv.Itoa(dim), status(err)).Inc()
	if err == nil {
		c.simplices.Add(float64(simplices))
	}
}

// RecordLocate implements delaunay.MetricsCollector.
func (c *Collector) RecordLocate(found bool, d time.Duration) {
	c.opLatency.WithLabelValues("locate", "success").Observe(d.Seconds())
	c.locates.WithLabelValues(result(found)).Inc()
}

// RecordBatchLocate implements delaunay.MetricsCollector.
func (c *Collector) RecordBatchLocate(count, found int, d time.Duration, err error) {
	c.opLatency.WithLabelValues("locate_batch", status(err)).Observe(d.Seconds())
	if err != nil {
		return
	}
	c.batchQueries.WithLabelValues("found").Add(float64(found))
	c.batchQueries.WithLabelValues("not_found").Add(float64(count - found))
}

// RecordCycleFallback implements delaunay.MetricsCollector.
func (c *Collector) RecordCycleFallback() {
	c.cycleFallbacks.Inc()
}

// RecordSnapshot implements delaunay.MetricsCollector.
func (c *Collector) RecordSnapshot(op string, bytes int, d time.Duration, err error) {
	c.opLatency.WithLabelValues("snapshot_"+op, status(err)).Observe(d.Seconds())
	c.snapshots.WithLabelValues(op, status(err)).Inc()
	if err == nil {
		c.snapshotBytes.WithLabelValues(op).Add(float64(bytes))
	}
}
