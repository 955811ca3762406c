package delaunay

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; package
// promcollector provides a Prometheus implementation.
type MetricsCollector interface {
	// RecordBuild is called after each triangulation build.
	// simplices is zero when err is non-nil.
	RecordBuild(dim, points, simplices int, duration time.Duration, err error)

	// RecordLocate is called after each single-point query.
	RecordLocate(found bool, duration time.Duration)

	// RecordBatchLocate is called after each batch query.
	// found counts the queries that resolved to a simplex.
	RecordBatchLocate(count, found int, duration time.Duration, err error)

	// RecordCycleFallback is called when a walk revisits a simplex and the
	// query falls back to bruteforce.
	RecordCycleFallback()

	// RecordSnapshot is called after each save ("save") or load ("load").
	RecordSnapshot(op string, bytes int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordBuild(int, int, int, time.Duration, error)  {}
func (NoopMetricsCollector) RecordLocate(bool, time.Duration)                 {}
func (NoopMetricsCollector) RecordBatchLocate(int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordCycleFallback()                             {}
func (NoopMetricsCollector) RecordSnapshot(string, int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	BuildCount       atomic.Int64
	BuildErrors      atomic.Int64
	BuildTotalNanos  atomic.Int64
	SimplicesBuilt   atomic.Int64
	LocateCount      atomic.Int64
	LocateNotFound   atomic.Int64
	LocateTotalNanos atomic.Int64
	BatchCount       atomic.Int64
	BatchQueries     atomic.Int64
	BatchNotFound    atomic.Int64
	BatchErrors      atomic.Int64
	CycleFallbacks   atomic.Int64
	SnapshotSaves    atomic.Int64
	SnapshotLoads    atomic.Int64
	SnapshotErrors   atomic.Int64
	SnapshotBytes    atomic.Int64
}

// RecordBuild implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBuild(_, _, simplices int, duration time.Duration, err error) {
	b.BuildCount.Add(1)
	b.BuildTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.BuildErrors.Add(1)
		return
	}
	b.SimplicesBuilt.Add(int64(simplices))
}

// RecordLocate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLocate(found bool, duration time.Duration) {
	b.LocateCount.Add(1)
	b.LocateTotalNanos.Add(duration.Nanoseconds())
	if !found {
		b.LocateNotFound.Add(1)
	}
}

// RecordBatchLocate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBatchLocate(count, found int, _ time.Duration, err error) {
	b.BatchCount.Add(1)
	b.BatchQueries.Add(int64(count))
	b.BatchNotFound.Add(int64(count - found))
	if err != nil {
		b.BatchErrors.Add(1)
	}
}

// RecordCycleFallback implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCycleFallback() {
	b.CycleFallbacks.Add(1)
}

// RecordSnapshot implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSnapshot(op string, bytes int, _ time.Duration, err error) {
	if op == "load" {
		b.SnapshotLoads.Add(1)
	} else {
		b.SnapshotSaves.Add(1)
	}
	if err != nil {
		b.SnapshotErrors.Add(1)
		return
	}
	b.SnapshotBytes.Add(int64(bytes))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		BuildCount:     b.BuildCount.Load(),
		BuildErrors:    b.BuildErrors.Load(),
		BuildAvgNanos:  avg(b.BuildTotalNanos.Load(), b.BuildCount.Load()),
		SimplicesBuilt: b.SimplicesBuilt.Load(),
		LocateCount:    b.LocateCount.Load(),
		LocateNotFound: b.LocateNotFound.Load(),
		LocateAvgNanos: avg(b.LocateTotalNanos.Load(), b.LocateCount.Load()),
		BatchCount:     b.BatchCount.Load(),
		BatchQueries:   b.BatchQueries.Load(),
		BatchNotFound:  b.BatchNotFound.Load(),
		BatchErrors:    b.BatchErrors.Load(),
		CycleFallbacks: b.CycleFallbacks.Load(),
		SnapshotSaves:  b.SnapshotSaves.Load(),
		SnapshotLoads:  b.SnapshotLoads.Load(),
		SnapshotErrors: b.SnapshotErrors.Load(),
		SnapshotBytes:  b.SnapshotBytes.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	BuildCount     int64
	BuildErrors    int64
	BuildAvgNanos  int64
	SimplicesBuilt int64
	LocateCount    int64
	LocateNotFound int64
	LocateAvgNanos int64
	BatchCount     int64
	BatchQueries   int64
	BatchNotFound  int64
	BatchErrors    int64
	CycleFallbacks int64
	SnapshotSaves  int64
	SnapshotLoads  int64
	SnapshotErrors int64
	SnapshotBytes  int64
}
