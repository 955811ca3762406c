package locate

import (
	"math"
)

// seedGrid maps a point to a simplex near it. Each cell holds the
// non-degenerate simplex whose centroid is closest to the cell centre; cells
// without a centroid inherit the seed of the nearest filled cell.
type seedGrid struct {
	k     int
	lo    []float64
	scale []float64 // cells per unit length, per axis
	cells []int32
}

func newSeedGrid(ix *Index, opts Options) seedGrid {
	d := ix.dim
	n := ix.mesh.Len()

	kmax := max(1, int(math.Floor(math.Pow(float64(max(opts.MaxGridCells, 1)), 1/float64(d)))))
	k := opts.GridResolution
	if k <= 0 {
		k = int(math.Floor(math.Pow(float64(n), 1/float64(d))))
	}
	k = min(max(k, 1), kmax)

	total := 1
	for range d {
		total *= k
	}

	g := seedGrid{
		k:     k,
		lo:    ix.lo,
		scale: make([]float64, d),
		cells: make([]int32, total),
	}

	for a := range d {
		if span := ix.hi[a] - ix.lo[a]; span > 0 {
			g.scale[a] = float64(k) / span
		}
	}

	for c := range g.cells {
		g.cells[c] = -1
	}

	best := make([]float64, total)
	centroid := make([]float64, d)
	centre := make([]float64, d)

	for s := range n {
		if ix.Degenerate(s) {
			continue
		}

		ix.mesh.Centroid(s, centroid)
		c := g.cell(centroid)
		g.cellCentre(c, centre)

		var dist float64
		for a := range d {
			diff := centroid[a] - centre[a]
			dist += diff * diff
		}

		if g.cells[c] < 0 || dist < best[c] {
			g.cells[c] = int32(s)
			best[c] = dist
		}
	}

	g.flood()

	return g
}

// cell returns the linear index of the cell containing p, clamping points
// outside the box to the nearest cell.
func (g *seedGrid) cell(p []float64) int {
	idx := 0
	for a, x := range p {
		c := int(math.Floor((x - g.lo[a]) * g.scale[a]))
		c = min(max(c, 0), g.k-1)
		idx = idx*g.k + c
	}
	return idx
}

func (g *seedGrid) cellCentre(c int, dst []float64) {
	for a := len(dst) - 1; a >= 0; a-- {
		coord := c % g.k
		c /= g.k
		if g.scale[a] > 0 {
			dst[a] = g.lo[a] + (float64(coord)+0.5)/g.scale[a]
		} else {
			dst[a] = g.lo[a]
		}
	}
}

// flood fills empty cells by multi-source breadth-first search over
// axis-adjacent cells, visiting sources in cell order.
func (g *seedGrid) flood() {
	queue := make([]int, 0, len(g.cells))
	for c, s := range g.cells {
		if s >= 0 {
			queue = append(queue, c)
		}
	}

	stride := make([]int, len(g.lo))
	step := 1
	for a := len(stride) - 1; a >= 0; a-- {
		stride[a] = step
		step *= g.k
	}

	for head := 0; head < len(queue); head++ {
		c := queue[head]
		for _, st := range stride {
			coord := (c / st) % g.k
			if coord > 0 && g.cells[c-st] < 0 {
				g.cells[c-st] = g.cells[c]
				queue = append(queue, c-st)
			}
			if coord < g.k-1 && g.cells[c+st] < 0 {
				g.cells[c+st] = g.cells[c]
				queue = append(queue, c+st)
			}
		}
	}
}

// seed returns the start simplex for p, or -1 if every simplex is degenerate.
func (g *seedGrid) seed(p []float64) int {
	return int(g.cells[g.cell(p)])
}
