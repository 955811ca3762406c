package hull

import (
	"fmt"
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/delaunay/geom"
	"github.com/hupe1980/delaunay/pointset"
	"github.com/hupe1980/delaunay/testutil"
)

func mustPointSet(t testing.TB, pts [][]float64) *pointset.PointSet {
	t.Helper()
	ps, err := pointset.FromSlice(pts)
	require.NoError(t, err)
	ps.Freeze()
	return ps
}

// checkHull verifies closure, orientation and that every input point lies
// inside the hull.
func checkHull(t *testing.T, ps *pointset.PointSet, h *Hull, tol float64) {
	t.Helper()

	require.Equal(t, ps.Dim(), h.Dim)
	require.NotEmpty(t, h.Facets)

	for fi, f := range h.Facets {
		require.Len(t, f.Vertices, h.Dim)
		require.Len(t, f.Neighbors, h.Dim)
		assert.InDelta(t, 1.0, math.Sqrt(dot(f.Normal, f.Normal)), 1e-9)

		for _, v := range f.Vertices {
			assert.InDelta(t, 0.0, dot(f.Normal, ps.At(v))-f.Offset, tol, "facet %d vertex %d off plane", fi, v)
		}

		for slot, g := range f.Neighbors {
			require.GreaterOrEqual(t, g, 0)
			require.Less(t, g, len(h.Facets))

			other := h.Facets[g]
			back := slices.Index(other.Neighbors, fi)
			require.GreaterOrEqual(t, back, 0, "facet %d -> %d not symmetric", fi, g)

			ridge := without(f.Vertices, slot)
			otherRidge := without(other.Vertices, back)
			assert.Equal(t, ridge, otherRidge, "facets %d and %d disagree on shared ridge", fi, g)
		}
	}

	for i := 0; i < ps.Len(); i++ {
		for fi, f := range h.Facets {
			assert.LessOrEqual(t, dot(f.Normal, ps.At(i))-f.Offset, tol, "point %d outside facet %d", i, fi)
		}
	}

	assert.True(t, slices.IsSorted(h.Vertices))
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func without(verts []int, slot int) []int {
	out := make([]int, 0, len(verts)-1)
	for i, v := range verts {
		if i != slot {
			out = append(out, v)
		}
	}
	slices.Sort(out)
	return out
}

func TestIncremental_Square(t *testing.T) {
	ps := mustPointSet(t, testutil.UnitSquareWithCentre())

	h, err := NewIncremental().ComputeHull(ps)
	require.NoError(t, err)

	checkHull(t, ps, h, 1e-12)
	assert.Equal(t, []int{0, 1, 2, 3}, h.Vertices)
	assert.Len(t, h.Facets, 4)
}

func TestIncremental_Cube(t *testing.T) {
	rng := testutil.NewRNG(1)
	pts := append(testutil.CubeCorners(3), rng.UniformRangePoints(40, 3, 0.1, 0.9)...)
	ps := mustPointSet(t, pts)

	h, err := NewIncremental().ComputeHull(ps)
	require.NoError(t, err)

	checkHull(t, ps, h, 1e-12)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7}, h.Vertices)
	assert.Len(t, h.Facets, 12)

	for _, f := range h.Facets {
		axisAligned := 0
		for _, x := range f.Normal {
			if math.Abs(math.Abs(x)-1) < 1e-9 {
				axisAligned++
			}
		}
		assert.Equal(t, 1, axisAligned)
	}
}

func TestIncremental_Random(t *testing.T) {
	for _, dim := range []int{2, 3, 4, 5, 6} {
		t.Run(fmt.Sprintf("dim=%d", dim), func(t *testing.T) {
			rng := testutil.NewRNG(int64(dim))
			ps := mustPointSet(t, rng.GaussianPoints(200, dim))

			h, err := NewIncremental().ComputeHull(ps)
			require.NoError(t, err)

			checkHull(t, ps, h, 1e-9)
			assert.GreaterOrEqual(t, len(h.Vertices), dim+1)
		})
	}
}

func TestIncremental_Sphere(t *testing.T) {
	rng := testutil.NewRNG(99)
	ps := mustPointSet(t, rng.SpherePoints(60, 3))

	h, err := NewIncremental().ComputeHull(ps)
	require.NoError(t, err)

	checkHull(t, ps, h, 1e-9)
	assert.Len(t, h.Vertices, 60, "every point on a sphere is extreme")
	// Closed triangulated 2-sphere: F = 2V - 4.
	assert.Len(t, h.Facets, 2*60-4)
}

func TestIncremental_Lattice(t *testing.T) {
	ps := mustPointSet(t, testutil.GridPoints(4, 3))

	h, err := NewIncremental().ComputeHull(ps)
	require.NoError(t, err)

	checkHull(t, ps, h, 1e-12)
	for _, v := range h.Vertices {
		p := ps.At(v)
		onBoundary := false
		for _, x := range p {
			if x == 0 || x == 1 {
				onBoundary = true
			}
		}
		assert.True(t, onBoundary, "vertex %v is interior", p)
	}
	assert.Contains(t, h.Vertices, 0)
	assert.Contains(t, h.Vertices, 63)
}

// liftedCube lifts the corners of the unit cube and interior random points
// onto the paraboloid, offsets every height by up to noise and appends an
// apex above them. The lifted corners are cofacial when noise is zero.
func liftedCube(dim, interior int, noise float64) [][]float64 {
	rng := testutil.NewRNG(int64(dim))
	pts := append(testutil.CubeCorners(dim), rng.UniformRangePoints(interior, dim, 0.1, 0.9)...)

	lifted := make([][]float64, 0, len(pts)+1)
	for _, p := range pts {
		q := make([]float64, dim+1)
		for k, x := range p {
			q[k] = 2*x - 1
			q[dim] += q[k] * q[k]
		}
		q[dim] += noise * rng.Float64()
		lifted = append(lifted, q)
	}

	apex := make([]float64, dim+1)
	apex[dim] = float64(dim) + 1
	return append(lifted, apex)
}

func TestIncremental_CofacialLift(t *testing.T) {
	for _, dim := range []int{3, 4, 5} {
		for _, noise := range []float64{0, 1e-9} {
			t.Run(fmt.Sprintf("dim=%d/noise=%g", dim, noise), func(t *testing.T) {
				ps := mustPointSet(t, liftedCube(dim, 10*dim, noise))

				h, err := NewIncremental().ComputeHull(ps)
				require.NoError(t, err)

				// Every lifted point is extreme.
				assert.Len(t, h.Vertices, ps.Len())

				var worst float64
				for _, f := range h.Facets {
					require.InDelta(t, 1.0, math.Sqrt(dot(f.Normal, f.Normal)), 1e-9)
					for i := 0; i < ps.Len(); i++ {
						worst = math.Max(worst, dot(f.Normal, ps.At(i))-f.Offset)
					}
				}
				assert.Less(t, worst, 1e-9, "hull is not convex")

				for fi, f := range h.Facets {
					for slot, g := range f.Neighbors {
						back := slices.Index(h.Facets[g].Neighbors, fi)
						require.GreaterOrEqual(t, back, 0)
						assert.Equal(t, without(f.Vertices, slot), without(h.Facets[g].Vertices, back))
					}
				}
			})
		}
	}
}

func TestIncremental_Errors(t *testing.T) {
	t.Run("insufficient", func(t *testing.T) {
		ps := mustPointSet(t, [][]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})

		_, err := NewIncremental().ComputeHull(ps)

		var insufficient *geom.InsufficientPointsError
		require.ErrorAs(t, err, &insufficient)
		assert.Equal(t, 3, insufficient.Dimension)
		assert.Equal(t, 3, insufficient.Count)
	})

	t.Run("coplanar", func(t *testing.T) {
		ps := mustPointSet(t, [][]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0}, {0.5, 0.2, 0}})

		_, err := NewIncremental().ComputeHull(ps)

		var degenerate *geom.DegenerateInputError
		require.ErrorAs(t, err, &degenerate)
		assert.Equal(t, 2, degenerate.Rank)
	})

	t.Run("identical", func(t *testing.T) {
		ps := mustPointSet(t, [][]float64{{1, 1}, {1, 1}, {1, 1}, {1, 1}})

		_, err := NewIncremental().ComputeHull(ps)
		assert.ErrorIs(t, err, geom.ErrDegenerateInput)
	})
}

func TestIncremental_Deterministic(t *testing.T) {
	rng := testutil.NewRNG(7)
	pts := rng.UniformPoints(300, 4)

	a, err := NewIncremental().ComputeHull(mustPointSet(t, pts))
	require.NoError(t, err)
	b, err := NewIncremental().ComputeHull(mustPointSet(t, pts))
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestOracleFunc(t *testing.T) {
	called := false
	var o Oracle = OracleFunc(func(ps *pointset.PointSet) (*Hull, error) {
		called = true
		return &Hull{Dim: ps.Dim()}, nil
	})

	h, err := o.ComputeHull(mustPointSet(t, [][]float64{{0, 0}, {1, 0}, {0, 1}}))
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, 2, h.Dim)
}

func BenchmarkIncremental(b *testing.B) {
	for _, dim := range []int{3, 6} {
		b.Run(fmt.Sprintf("dim=%d", dim), func(b *testing.B) {
			rng := testutil.NewRNG(1)
			ps := mustPointSet(b, rng.UniformPoints(2000, dim))
			oracle := NewIncremental()

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := oracle.ComputeHull(ps); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
