package delaunay

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/hupe1980/delaunay/locate"
	"github.com/hupe1980/delaunay/mesh"
	"github.com/hupe1980/delaunay/pointset"
	"github.com/hupe1980/delaunay/triangulate"
)

// Triangulation is a Delaunay mesh together with its point-location index.
// It is immutable and safe for concurrent use.
type Triangulation struct {
	mesh  *mesh.Mesh
	index *locate.Index
	opts  options
}

// Build triangulates points. By default only the vertices of the points'
// convex hull are triangulated; see WithAllPoints.
func Build(ctx context.Context, points [][]float64, optFns ...Option) (*Triangulation, error) {
	opts := applyOptions(optFns)

	ps, err := pointset.FromSlice(points, func(o *pointset.Options) { o.Deduplicate = opts.deduplicate })
	if err != nil {
		err = fmt.Errorf("delaunay: %w", err)
		opts.logger.LogBuild(ctx, len(points), 0, 0, 0, err)
		opts.metricsCollector.RecordBuild(dimOf(points), len(points), 0, 0, err)
		return nil, err
	}

	return build(ctx, ps, opts)
}

// BuildFromPointSet triangulates an existing point set, which is frozen.
func BuildFromPointSet(ctx context.Context, ps *pointset.PointSet, optFns ...Option) (*Triangulation, error) {
	return build(ctx, ps, applyOptions(optFns))
}

func build(ctx context.Context, ps *pointset.PointSet, opts options) (*Triangulation, error) {
	start := time.Now()
	logger := opts.logger.WithDimension(ps.Dim())

	m, vertices, err := triangulatePoints(ctx, ps, opts)
	elapsed := time.Since(start)

	if err != nil {
		logger.LogBuild(ctx, ps.Len(), 0, 0, elapsed, err)
		opts.metricsCollector.RecordBuild(ps.Dim(), ps.Len(), 0, elapsed, err)
		return nil, err
	}

	t, err := newTriangulation(m, opts)
	if err != nil {
		return nil, err
	}

	logger.LogBuild(ctx, ps.Len(), vertices, m.Len(), elapsed, nil)
	logger.LogCoplanar(ctx, m.Coplanar())
	opts.metricsCollector.RecordBuild(ps.Dim(), ps.Len(), m.Len(), elapsed, nil)

	return t, nil
}

// triangulatePoints runs hull, lift and lower-hull extraction under the
// memory budget.
func triangulatePoints(ctx context.Context, ps *pointset.PointSet, opts options) (*mesh.Mesh, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	est := estimateBuildBytes(ps.Len(), ps.Dim())
	if err := opts.rc.AcquireMemory(est); err != nil {
		return nil, 0, fmt.Errorf("delaunay: build of %d points needs about %d bytes: %w", ps.Len(), est, err)
	}
	defer opts.rc.ReleaseMemory(est)

	var indices []int
	if opts.allPoints {
		indices = make([]int, ps.Len())
		for i := range indices {
			indices[i] = i
		}
	} else {
		h, err := opts.oracle.ComputeHull(ps)
		if err != nil {
			return nil, 0, fmt.Errorf("delaunay: input hull: %w", err)
		}
		indices = h.Vertices
	}

	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	m, err := triangulate.New(func(o *triangulate.Options) { o.Oracle = opts.oracle }).Triangulate(ps, indices)
	if err != nil {
		return nil, 0, fmt.Errorf("delaunay: %w", err)
	}

	return m, len(indices), nil
}

// estimateBuildBytes approximates the peak working memory of a build: the
// lifted copy of the points plus hull facets with normals and neighbor rows.
func estimateBuildBytes(n, dim int) int64 {
	k := int64(dim + 1)
	facets := int64(n) * k * 4
	return int64(n)*k*8 + facets*(k*8+2*k*8)
}

func newTriangulation(m *mesh.Mesh, opts options) (*Triangulation, error) {
	t := &Triangulation{mesh: m, opts: opts}

	ix, err := locate.New(m, func(o *locate.Options) {
		o.Epsilon = opts.epsilon
		o.Bruteforce = opts.bruteforce
		o.GridResolution = opts.gridResolution
		o.OnCycle = t.onCycle
	})
	if err != nil {
		return nil, fmt.Errorf("delaunay: %w", err)
	}

	t.index = ix
	return t, nil
}

func (t *Triangulation) onCycle(w *locate.LocationCycleWarning) {
	t.opts.logger.LogLocateFallback(context.Background(), w.Start, w.Simplex, w.Steps)
	t.opts.metricsCollector.RecordCycleFallback()
	if t.opts.onCycle != nil {
		t.opts.onCycle(w)
	}
}

// Mesh returns the simplicial mesh.
func (t *Triangulation) Mesh() *mesh.Mesh { return t.mesh }

// Index returns the point-location index.
func (t *Triangulation) Index() *locate.Index { return t.index }

// Dim returns the point dimension.
func (t *Triangulation) Dim() int { return t.mesh.Dim() }

// Len returns the number of simplices.
func (t *Triangulation) Len() int { return t.mesh.Len() }

// Vertices returns the indices of points used by at least one simplex.
func (t *Triangulation) Vertices() []int { return t.mesh.Vertices() }

// Locate returns the simplex containing p with its barycentric weights.
func (t *Triangulation) Locate(p []float64) (locate.Location, bool) {
	start := time.Now()
	loc, ok := t.index.Locate(p)
	t.opts.metricsCollector.RecordLocate(ok, time.Since(start))
	return loc, ok
}

// LocateBruteforce answers by scanning every simplex in mesh order.
func (t *Triangulation) LocateBruteforce(p []float64) (locate.Location, bool) {
	start := time.Now()
	loc, ok := t.index.LocateBruteforce(p)
	t.opts.metricsCollector.RecordLocate(ok, time.Since(start))
	return loc, ok
}

// LocateTolerant retries with a doubling tolerance up to maxEps, for points
// that fall just outside the mesh through rounding.
func (t *Triangulation) LocateTolerant(p []float64, maxEps float64) (locate.Location, bool) {
	start := time.Now()
	loc, ok := t.index.LocateTolerant(p, maxEps)
	t.opts.metricsCollector.RecordLocate(ok, time.Since(start))
	return loc, ok
}

// NewCursor returns a per-goroutine query handle that seeds each walk with
// the previous answer.
func (t *Triangulation) NewCursor() *locate.Cursor { return t.index.NewCursor() }

// Barycentric returns the barycentric coordinates of p in simplex s.
func (t *Triangulation) Barycentric(s int, p []float64) ([]float64, bool) {
	return t.index.Barycentric(s, p)
}

// LocateBatch locates all points concurrently, using at most the worker
// slots granted by WithMaxWorkers.
func (t *Triangulation) LocateBatch(ctx context.Context, points [][]float64) ([]locate.Location, error) {
	start := time.Now()

	workers, err := t.opts.rc.AcquireWorkers(ctx, batchWorkers(len(points)))
	if err != nil {
		t.recordBatch(ctx, len(points), nil, start, err)
		return nil, err
	}
	defer t.opts.rc.ReleaseWorkers(workers)

	locs, err := t.index.LocateBatch(ctx, points, workers)
	t.recordBatch(ctx, len(points), locs, start, err)
	return locs, err
}

func (t *Triangulation) recordBatch(ctx context.Context, count int, locs []locate.Location, start time.Time, err error) {
	found := 0
	for _, l := range locs {
		if l.Found() {
			found++
		}
	}
	t.opts.logger.LogBatchLocate(ctx, count, found, err)
	t.opts.metricsCollector.RecordBatchLocate(count, found, time.Since(start), err)
}

// batchWorkers asks for one worker per 256 queries, at most GOMAXPROCS.
func batchWorkers(n int) int {
	return max(1, min(runtime.GOMAXPROCS(0), (n+255)/256))
}

func dimOf(points [][]float64) int {
	if len(points) == 0 {
		return 0
	}
	return len(points[0])
}
