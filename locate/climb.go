package locate

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/hupe1980/delaunay/geom"
	"github.com/hupe1980/delaunay/internal/pool"
)

// buildPlanes records, for every simplex, the hyperplane through its lifted
// vertices with the normal pointing down the lift axis. Simplices without
// such a plane get a zero normal and an infinite offset so that their
// distance is always -Inf.
func (ix *Index) buildPlanes() {
	lift := ix.mesh.Lift()
	if lift.IsZero() {
		return
	}

	d := ix.dim
	stride := d + 2
	ix.planes = make([]float64, ix.mesh.Len()*stride)

	lifted := make([][]float64, d+1)
	for i := range lifted {
		lifted[i] = make([]float64, d+1)
	}

	for s := range ix.mesh.Len() {
		row := ix.planes[s*stride : (s+1)*stride]
		row[d+1] = math.Inf(1)

		if ix.Degenerate(s) {
			continue
		}

		for i, v := range ix.mesh.Simplex(s) {
			lift.Apply(ix.points.At(v), lifted[i])
		}

		h, ok := geom.HyperplaneThrough(lifted)
		if !ok || h.Normal[d] == 0 {
			continue
		}
		if h.Normal[d] > 0 {
			h.Flip()
		}

		copy(row, h.Normal)
		row[d+1] = h.Offset
	}
}

// planeDistance returns how far the lifted query lies below the lifted plane
// of s. It is positive exactly when the query is inside the circumsphere.
func (ix *Index) planeDistance(s int, lifted []float64) float64 {
	stride := ix.dim + 2
	row := ix.planes[s*stride : (s+1)*stride]
	return floats.Dot(row[:ix.dim+1], lifted) - row[ix.dim+1]
}

// climb moves from start to neighbors with a larger plane distance until it
// reaches a simplex whose circumsphere contains p or no neighbor improves.
// The directed walk then starts from a simplex close to p.
func (ix *Index) climb(p []float64, start int, wc *pool.WalkContext) int {
	lifted := ix.mesh.Lift().Apply(p, wc.Lifted)

	s := start
	best := ix.planeDistance(s, lifted)

	for best <= 0 {
		next, step := -1, best
		if !math.IsInf(best, -1) {
			step += ix.opts.Epsilon * (1 + math.Abs(best))
		}

		for _, t := range ix.mesh.Neighbors(s) {
			if t < 0 {
				continue
			}
			if dist := ix.planeDistance(t, lifted); dist > step {
				next, step = t, dist
			}
		}

		if next < 0 {
			break
		}
		s, best = next, step
	}

	return s
}
