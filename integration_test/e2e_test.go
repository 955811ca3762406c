package integration_test

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/hupe1980/delaunay"
	"github.com/hupe1980/delaunay/blobstore"
	"github.com/hupe1980/delaunay/mesh"
	"github.com/hupe1980/delaunay/testutil"
)

// simplexVolume returns the unsigned volume of simplex s times d!.
func simplexVolume(m *mesh.Mesh, s int) float64 {
	d := m.Dim()
	verts := m.Simplex(s)
	origin := m.Points().At(verts[0])

	a := mat.NewDense(d, d, nil)
	for i, v := range verts[1:] {
		p := m.Points().At(v)
		for k := range d {
			a.Set(i, k, p[k]-origin[k])
		}
	}

	return math.Abs(mat.Det(a))
}

func factorial(n int) float64 {
	f := 1.0
	for i := 2; i <= n; i++ {
		f *= float64(i)
	}
	return f
}

func TestE2E_UnitCubeVolume(t *testing.T) {
	for dim := 2; dim <= 5; dim++ {
		t.Run(fmt.Sprintf("dim=%d", dim), func(t *testing.T) {
			rng := testutil.NewRNG(int64(dim))
			points := testutil.CubeCorners(dim)
			points = append(points, rng.UniformRangePoints(20*dim, dim, 0.1, 0.9)...)

			tri, err := delaunay.Build(context.Background(), points, delaunay.WithAllPoints())
			require.NoError(t, err)
			require.NoError(t, tri.Mesh().Validate())

			// The simplices tile the cube exactly.
			var vol float64
			for s := range tri.Len() {
				vol += simplexVolume(tri.Mesh(), s)
			}
			assert.InDelta(t, 1.0, vol/factorial(dim), 1e-9)

			// Every input point is a vertex.
			assert.Len(t, tri.Vertices(), len(points))

			// Every query in the cube is found, the same way by both strategies.
			for _, q := range rng.UniformRangePoints(1000, dim, 0.001, 0.999) {
				walk, okWalk := tri.Locate(q)
				brute, okBrute := tri.LocateBruteforce(q)
				require.True(t, okBrute, "query %v", q)
				require.True(t, okWalk, "query %v", q)
				require.Equal(t, brute.Simplex, walk.Simplex, "query %v", q)
			}
		})
	}
}

// Lattices and the colour cube are cospherical everywhere. Their
// triangulations still tile the box, and no query inside lies in the
// interior of two simplices.
func TestE2E_CosphericalPartition(t *testing.T) {
	cases := map[string][][]float64{
		"3-lattice":   testutil.GridPoints(5, 3),
		"4-lattice":   testutil.GridPoints(3, 4),
		"colour cube": testutil.NewRNG(31).ColourCube(60),
	}

	for name, points := range cases {
		t.Run(name, func(t *testing.T) {
			dim := len(points[0])

			tri, err := delaunay.Build(context.Background(), points, delaunay.WithAllPoints())
			require.NoError(t, err)
			require.NoError(t, tri.Mesh().Validate())

			var vol float64
			for s := range tri.Len() {
				vol += simplexVolume(tri.Mesh(), s)
			}
			assert.InDelta(t, 1.0, vol/factorial(dim), 1e-9)

			rng := testutil.NewRNG(int64(dim))
			for _, q := range rng.UniformRangePoints(300, dim, 0.001, 0.999) {
				walk, okWalk := tri.Locate(q)
				brute, okBrute := tri.LocateBruteforce(q)
				require.True(t, okBrute, "query %v", q)
				require.True(t, okWalk, "query %v", q)
				require.Equal(t, brute.Simplex, walk.Simplex, "query %v", q)

				hits := 0
				for s := range tri.Len() {
					b, ok := tri.Barycentric(s, q)
					if !ok {
						continue
					}
					inside := true
					for _, x := range b {
						if x <= 1e-9 {
							inside = false
							break
						}
					}
					if inside {
						hits++
					}
				}
				assert.LessOrEqual(t, hits, 1, "query %v", q)
			}
		})
	}
}

func TestE2E_PartitionAndCompleteness(t *testing.T) {
	rng := testutil.NewRNG(77)
	points := rng.UniformPoints(80, 3)

	tri, err := delaunay.Build(context.Background(), points, delaunay.WithAllPoints())
	require.NoError(t, err)

	for _, q := range rng.UniformRangePoints(10000, 3, -0.2, 1.2) {
		walk, okWalk := tri.Locate(q)
		brute, okBrute := tri.LocateBruteforce(q)
		require.Equal(t, okBrute, okWalk, "query %v", q)
		require.Equal(t, brute.Simplex, walk.Simplex, "query %v", q)

		if !okWalk {
			continue
		}

		// Weights are a partition of unity that reproduce the query.
		var sum float64
		recon := make([]float64, 3)
		for i, v := range walk.Vertices {
			sum += walk.Weights[i]
			for k, x := range tri.Mesh().Points().At(v) {
				recon[k] += walk.Weights[i] * x
			}
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
		assert.InDeltaSlice(t, q, recon, 1e-9)

		b, ok := tri.Barycentric(walk.Simplex, q)
		require.True(t, ok)
		assert.InDeltaSlice(t, walk.Weights, b, 1e-12)
	}
}

func TestE2E_Restart(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	rng := testutil.NewRNG(11)
	points := rng.ColourCube(200)

	tri, err := delaunay.Build(ctx, points)
	require.NoError(t, err)
	require.NoError(t, tri.Save(ctx, blobstore.NewLocalStore(dir), "palette"))

	// A fresh store instance on the same directory sees the snapshot.
	store := blobstore.NewLocalStore(dir)
	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"palette"}, names)

	loaded, err := delaunay.Load(ctx, store, "palette")
	require.NoError(t, err)
	require.True(t, tri.Mesh().Equal(loaded.Mesh()))

	queries := rng.UniformPoints(1000, 5)
	want, err := tri.LocateBatch(ctx, queries)
	require.NoError(t, err)
	got, err := loaded.LocateBatch(ctx, queries)
	require.NoError(t, err)

	for i := range queries {
		assert.Equal(t, want[i].Simplex, got[i].Simplex)
		assert.Equal(t, want[i].Weights, got[i].Weights)
	}

	require.NoError(t, store.Delete(ctx, "palette"))
	_, err = delaunay.Load(ctx, store, "palette")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}
