package geom

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// degenerateRatio bounds |normal| against the Hadamard bound of the edge
// vectors. Below it the points are treated as affinely dependent.
const degenerateRatio = 1e-14

// Hyperplane is an oriented hyperplane Normal·x = Offset with unit Normal.
type Hyperplane struct {
	Normal []float64
	Offset float64

	// Cond is the Hadamard bound of the spanning edges over the length of the
	// unnormalized normal. Distance errors grow with it; it is 1 for
	// orthogonal edges and unbounded for nearly dependent points.
	Cond float64
}

// Distance returns the signed distance of p from the plane.
func (h Hyperplane) Distance(p []float64) float64 {
	return floats.Dot(h.Normal, p) - h.Offset
}

// Flip reverses the orientation in place.
func (h *Hyperplane) Flip() {
	floats.Scale(-1, h.Normal)
	h.Offset = -h.Offset
}

// HyperplaneThrough returns the hyperplane spanned by d points of dimension d.
// The normal is computed from the cofactor expansion of the edge matrix, so its
// orientation depends only on the order of pts: for any p, the sign of
// Distance(p) is (-1)^(d-1) times Orientation(pts..., p). The second result is
// false if the points are affinely dependent.
func HyperplaneThrough(pts [][]float64) (Hyperplane, bool) {
	d := len(pts)
	if d < MinDimension {
		return Hyperplane{}, false
	}

	rows := d - 1
	edges := make([]float64, rows*d)
	bound := 1.0

	for i := 1; i < d; i++ {
		row := edges[(i-1)*d : i*d]
		floats.SubTo(row, pts[i], pts[0])
		bound *= floats.Norm(row, 2)
	}

	if bound == 0 {
		return Hyperplane{}, false
	}

	normal := make([]float64, d)
	minor := mat.NewDense(rows, rows, nil)

	for j := 0; j < d; j++ {
		for r := 0; r < rows; r++ {
			c := 0
			for k := 0; k < d; k++ {
				if k == j {
					continue
				}
				minor.Set(r, c, edges[r*d+k])
				c++
			}
		}

		det := mat.Det(minor)
		if j%2 == 1 {
			det = -det
		}
		normal[j] = det
	}

	norm := floats.Norm(normal, 2)
	if norm == 0 || math.IsNaN(norm) || norm < degenerateRatio*bound {
		return Hyperplane{}, false
	}

	floats.Scale(1/norm, normal)

	return Hyperplane{Normal: normal, Offset: floats.Dot(normal, pts[0]), Cond: bound / norm}, true
}

// MaxAbs returns the largest absolute coordinate over all points.
func MaxAbs(n int, at func(i int) []float64) float64 {
	var m float64
	for i := 0; i < n; i++ {
		for _, x := range at(i) {
			if a := math.Abs(x); a > m {
				m = a
			}
		}
	}
	return m
}

// Bounds returns the per-axis minimum and maximum over all points.
func Bounds(dim, n int, at func(i int) []float64) (lo, hi []float64) {
	lo = make([]float64, dim)
	hi = make([]float64, dim)
	for k := range lo {
		lo[k] = math.Inf(1)
		hi[k] = math.Inf(-1)
	}
	for i := 0; i < n; i++ {
		for k, x := range at(i) {
			lo[k] = math.Min(lo[k], x)
			hi[k] = math.Max(hi[k], x)
		}
	}
	return lo, hi
}
