package locate

import (
	"math"

	"github.com/bits-and-blooms/bitset"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/hupe1980/delaunay/geom"
	"github.com/hupe1980/delaunay/mesh"
	"github.com/hupe1980/delaunay/pointset"
)

// Index locates points in a mesh.
type Index struct {
	mesh   *mesh.Mesh
	points *pointset.PointSet
	dim    int
	opts   Options

	// transforms holds T⁻¹ for every simplex, dim*dim values each, where the
	// columns of T are v_j - v_dim.
	transforms []float64
	degenerate *bitset.BitSet

	// planes holds the lifted plane of every simplex, dim+2 values each:
	// the normal then the offset. Nil without a recorded lift.
	planes []float64

	lo, hi []float64
	grid   seedGrid
}

// New builds an Index over m.
func New(m *mesh.Mesh, optFns ...func(o *Options)) (*Index, error) {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	if m.Len() == 0 {
		return nil, &geom.DegenerateInputError{Dimension: m.Dim(), Reason: "empty mesh"}
	}

	ix := &Index{
		mesh:       m,
		points:     m.Points(),
		dim:        m.Dim(),
		opts:       opts,
		transforms: make([]float64, m.Len()*m.Dim()*m.Dim()),
		degenerate: bitset.New(uint(m.Len())),
	}

	ix.buildTransforms()
	if opts.Climb {
		ix.buildPlanes()
	}
	ix.lo, ix.hi = m.Bounds()
	ix.grid = newSeedGrid(ix, opts)

	return ix, nil
}

func (ix *Index) buildTransforms() {
	d := ix.dim
	t := mat.NewDense(d, d, nil)
	var inv mat.Dense

	for s := range ix.mesh.Len() {
		simplex := ix.mesh.Simplex(s)
		ref := ix.points.At(simplex[d])

		for j := 0; j < d; j++ {
			v := ix.points.At(simplex[j])
			for i := 0; i < d; i++ {
				t.Set(i, j, v[i]-ref[i])
			}
		}

		// Inverse reports singular and ill-conditioned matrices alike.
		if err := inv.Inverse(t); err != nil {
			ix.degenerate.Set(uint(s))
			continue
		}

		dst := ix.transforms[s*d*d : (s+1)*d*d]
		for j := 0; j < d; j++ {
			for i := 0; i < d; i++ {
				dst[j*d+i] = inv.At(j, i)
			}
		}
	}
}

// Mesh returns the indexed mesh.
func (ix *Index) Mesh() *mesh.Mesh { return ix.mesh }

// Epsilon returns the default barycentric tolerance.
func (ix *Index) Epsilon() float64 { return ix.opts.Epsilon }

// Degenerate reports whether simplex s is flat within numerical precision.
// Degenerate simplices are never reported as containing a point.
func (ix *Index) Degenerate(s int) bool { return ix.degenerate.Test(uint(s)) }

// NumDegenerate returns the number of degenerate simplices.
func (ix *Index) NumDegenerate() int { return int(ix.degenerate.Count()) }

// GridResolution returns the number of seed-grid cells per axis.
func (ix *Index) GridResolution() int { return ix.grid.k }

// barycentric writes the coordinates of p in simplex s into dst (length
// dim+1) using delta (length dim) as scratch.
func (ix *Index) barycentric(s int, p, dst, delta []float64) {
	d := ix.dim
	ref := ix.points.At(ix.mesh.Simplex(s)[d])
	floats.SubTo(delta, p, ref)

	tinv := ix.transforms[s*d*d : (s+1)*d*d]
	var sum float64
	for j := 0; j < d; j++ {
		b := floats.Dot(tinv[j*d:(j+1)*d], delta)
		dst[j] = b
		sum += b
	}
	dst[d] = 1 - sum
}

// Barycentric returns the barycentric coordinates of p in simplex s. The
// second result is false for degenerate or out-of-range simplices and for
// points of the wrong dimension.
func (ix *Index) Barycentric(s int, p []float64) ([]float64, bool) {
	if s < 0 || s >= ix.mesh.Len() || len(p) != ix.dim || ix.Degenerate(s) {
		return nil, false
	}

	dst := make([]float64, ix.dim+1)
	ix.barycentric(s, p, dst, make([]float64, ix.dim))

	return dst, true
}

func (ix *Index) inBounds(p []float64, eps float64) bool {
	for k, x := range p {
		if x < ix.lo[k]-eps || x > ix.hi[k]+eps {
			return false
		}
	}
	return true
}

func (ix *Index) location(s int, bary []float64) Location {
	return Location{
		Simplex:  s,
		Vertices: append([]int(nil), ix.mesh.Simplex(s)...),
		Weights:  append([]float64(nil), bary...),
	}
}

func validQuery(p []float64, dim int) bool {
	if len(p) != dim {
		return false
	}
	for _, x := range p {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

// minCoord returns the slot and value of the smallest coordinate, preferring
// the lower slot on ties.
func minCoord(b []float64) (int, float64) {
	idx := floats.MinIdx(b)
	return idx, b[idx]
}

// within reports whether every coordinate lies in [-eps, 1+eps].
func within(b []float64, eps float64) bool {
	for _, x := range b {
		if x < -eps || x > 1+eps {
			return false
		}
	}
	return true
}
