package locate

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"

	"github.com/hupe1980/delaunay/internal/pool"
)

// Locate returns the simplex containing p. Points of the wrong dimension or
// with non-finite coordinates are never found.
func (ix *Index) Locate(p []float64) (Location, bool) {
	return ix.locate(p, -1, ix.opts.Epsilon)
}

// LocateBruteforce scans the mesh in order and returns the first simplex
// containing p.
func (ix *Index) LocateBruteforce(p []float64) (Location, bool) {
	if !validQuery(p, ix.dim) {
		return NotFound, false
	}

	wc := pool.Get(ix.dim)
	defer pool.Put(wc)

	return ix.bruteforce(p, ix.opts.Epsilon, wc)
}

// LocateTolerant retries Locate with the tolerance doubled each time until the
// point is found or the tolerance exceeds maxEps.
func (ix *Index) LocateTolerant(p []float64, maxEps float64) (Location, bool) {
	for eps := ix.opts.Epsilon; eps <= maxEps; eps *= 2 {
		if loc, ok := ix.locate(p, -1, eps); ok {
			return loc, true
		}
		if eps == 0 {
			break
		}
	}
	return NotFound, false
}

// locate runs a walk from start (or the grid seed if start < 0).
func (ix *Index) locate(p []float64, start int, eps float64) (Location, bool) {
	if !validQuery(p, ix.dim) {
		return NotFound, false
	}

	wc := pool.Get(ix.dim)
	defer pool.Put(wc)

	if ix.opts.Bruteforce {
		return ix.bruteforce(p, eps, wc)
	}

	if start < 0 || ix.Degenerate(start) {
		start = ix.grid.seed(p)
	}
	if start < 0 {
		return ix.bruteforce(p, eps, wc)
	}
	if ix.planes != nil {
		start = ix.climb(p, start, wc)
	}

	s, res := ix.walk(p, start, eps, wc)
	switch res {
	case walkInside:
		s = ix.lowestContaining(p, s, eps, wc)
		ix.barycentric(s, p, wc.Bary, wc.Delta)
		return ix.location(s, wc.Bary), true
	case walkOutside:
		return NotFound, false
	case walkCycle:
		if ix.opts.OnCycle != nil {
			ix.opts.OnCycle(&LocationCycleWarning{
				Point:   slices.Clone(p),
				Start:   start,
				Simplex: s,
				Steps:   len(wc.Path),
			})
		}
	}

	wc.Reset()
	return ix.bruteforce(p, eps, wc)
}

type walkResult int

const (
	walkInside walkResult = iota
	walkOutside
	walkCycle
	walkDegenerate
)

// walk steps from start towards p across the facet with the most negative
// barycentric coordinate.
func (ix *Index) walk(p []float64, start int, eps float64, wc *pool.WalkContext) (int, walkResult) {
	s := start
	for {
		if ix.Degenerate(s) {
			return s, walkDegenerate
		}
		if wc.Visit(s) {
			return s, walkCycle
		}

		ix.barycentric(s, p, wc.Bary, wc.Delta)

		slot, b := minCoord(wc.Bary)
		if b >= -eps {
			return s, walkInside
		}

		next := ix.mesh.Neighbor(s, slot)
		if next < 0 {
			return s, walkOutside
		}
		s = next
	}
}

// lowestContaining returns the lowest-index simplex containing p among s and
// the simplices reachable from it through facets p lies on.
//
// A query at a vertex is answered from the vertex star instead.
func (ix *Index) lowestContaining(p []float64, s int, eps float64, wc *pool.WalkContext) int {
	if v := ix.vertexAt(p, s, eps, wc); v >= 0 {
		first := ix.mesh.FirstInStar(v, func(t int) bool {
			if ix.Degenerate(t) {
				return false
			}
			ix.barycentric(t, p, wc.Bary, wc.Delta)
			return within(wc.Bary, eps)
		})
		if first >= 0 {
			return first
		}
	}

	best := s
	queue := append(wc.Queue[:0], s)

	for head := 0; head < len(queue); head++ {
		u := queue[head]
		ix.barycentric(u, p, wc.Bary, wc.Delta)

		// Neighbor candidates are collected first: testing them reuses Bary.
		mark := len(queue)
		for slot, b := range wc.Bary {
			if b > eps {
				continue
			}
			t := ix.mesh.Neighbor(u, slot)
			if t < 0 || ix.Degenerate(t) || wc.Visit(t) {
				continue
			}
			queue = append(queue, t)
		}

		kept := mark
		for _, t := range queue[mark:] {
			ix.barycentric(t, p, wc.Bary, wc.Delta)
			if within(wc.Bary, eps) {
				queue[kept] = t
				kept++
				best = min(best, t)
			}
		}
		queue = queue[:kept]
	}

	wc.Queue = queue

	return best
}

// vertexAt returns the vertex of s that p coincides with, or -1.
func (ix *Index) vertexAt(p []float64, s int, eps float64, wc *pool.WalkContext) int {
	ix.barycentric(s, p, wc.Bary, wc.Delta)

	slot := floats.MaxIdx(wc.Bary)
	if wc.Bary[slot] < 1-eps {
		return -1
	}
	return ix.mesh.Simplex(s)[slot]
}

// bruteforce scans all simplices in mesh order. A second pass tests the
// neighbors of degenerate simplices with tolerance √eps, catching points
// that fall into a gap left by a flat simplex.
func (ix *Index) bruteforce(p []float64, eps float64, wc *pool.WalkContext) (Location, bool) {
	if !ix.inBounds(p, eps) {
		return NotFound, false
	}

	n := ix.mesh.Len()
	for s := range n {
		if ix.Degenerate(s) {
			continue
		}
		ix.barycentric(s, p, wc.Bary, wc.Delta)
		if within(wc.Bary, eps) {
			return ix.location(s, wc.Bary), true
		}
	}

	if ix.NumDegenerate() == 0 {
		return NotFound, false
	}

	loose := math.Sqrt(eps)
	for s, ok := ix.degenerate.NextSet(0); ok; s, ok = ix.degenerate.NextSet(s + 1) {
		for _, t := range ix.mesh.Neighbors(int(s)) {
			if t < 0 || ix.Degenerate(t) {
				continue
			}
			ix.barycentric(t, p, wc.Bary, wc.Delta)
			if within(wc.Bary, loose) {
				return ix.location(t, wc.Bary), true
			}
		}
	}

	return NotFound, false
}
