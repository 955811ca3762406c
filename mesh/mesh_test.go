package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/delaunay/pointset"
	"github.com/hupe1980/delaunay/testutil"
)

// squareMesh is the unit square split into four triangles around its centre.
func squareMesh(t *testing.T, optFns ...func(o *Options)) *Mesh {
	t.Helper()

	ps, err := pointset.FromSlice(testutil.UnitSquareWithCentre())
	require.NoError(t, err)

	m, err := New(ps,
		[][]int{{0, 1, 4}, {0, 2, 4}, {1, 3, 4}, {2, 3, 4}},
		[][]int{{2, 1, -1}, {3, 0, -1}, {3, 0, -1}, {2, 1, -1}},
		optFns...,
	)
	require.NoError(t, err)

	return m
}

func TestMesh_Accessors(t *testing.T) {
	m := squareMesh(t, func(o *Options) {
		o.Lift = Lift{Centre: []float64{0.5, 0.5}, Scale: 0.5}
		o.Coplanar = []int{7, 5}
	})

	assert.Equal(t, 2, m.Dim())
	assert.Equal(t, 4, m.Len())
	assert.Equal(t, []int{1, 3, 4}, m.Simplex(2))
	assert.Equal(t, []int{3, 0, -1}, m.Neighbors(2))
	assert.Equal(t, 0, m.Neighbor(2, 1))
	assert.Equal(t, NoNeighbor, m.Neighbor(2, 2))
	assert.Equal(t, []int{0, 1, 2, 3, 4}, m.Vertices())
	assert.Equal(t, []int{5, 7}, m.Coplanar())
	assert.True(t, m.Points().Frozen())

	assert.InDeltaSlice(t, []float64{0.5, 0.5 / 3}, m.Centroid(0, nil), 1e-12)

	lo, hi := m.Bounds()
	assert.Equal(t, []float64{0, 0}, lo)
	assert.Equal(t, []float64{1, 1}, hi)

	require.NoError(t, m.Validate())
}

func TestMesh_Star(t *testing.T) {
	m := squareMesh(t)

	centre := m.Star(4)
	assert.Equal(t, []uint32{0, 1, 2, 3}, centre.ToArray())

	corner := m.Star(3)
	assert.Equal(t, []uint32{2, 3}, corner.ToArray())

	// Stars are copies.
	corner.Add(0)
	assert.Equal(t, uint64(2), m.Star(3).GetCardinality())

	assert.True(t, m.Star(99).IsEmpty())
}

func TestMesh_StarQueries(t *testing.T) {
	m := squareMesh(t)

	assert.Equal(t, 4, m.StarSize(4))
	assert.Equal(t, 2, m.StarSize(0))
	assert.Equal(t, 0, m.StarSize(-1))
	assert.Equal(t, 0, m.StarSize(99))

	var seen []int
	first := m.FirstInStar(4, func(s int) bool {
		seen = append(seen, s)
		return s >= 2
	})
	assert.Equal(t, 2, first)
	assert.Equal(t, []int{0, 1, 2}, seen, "visited in ascending order")

	assert.Equal(t, -1, m.FirstInStar(3, func(int) bool { return false }))
	assert.Equal(t, -1, m.FirstInStar(99, func(int) bool { return true }))
}

func TestMesh_Canonicalize(t *testing.T) {
	ps, err := pointset.FromSlice(testutil.UnitSquareWithCentre())
	require.NoError(t, err)

	// Same square, simplices shuffled and vertex tuples unsorted.
	m, err := New(ps,
		[][]int{{4, 3, 2}, {4, 1, 0}, {3, 4, 1}, {2, 0, 4}},
		[][]int{{-1, 3, 2}, {-1, 3, 2}, {1, -1, 0}, {1, 0, -1}},
		func(o *Options) { o.Canonicalize = true },
	)
	require.NoError(t, err)
	require.NoError(t, m.Validate())

	assert.True(t, m.Equal(squareMesh(t)))
}

func TestMesh_Errors(t *testing.T) {
	ps, err := pointset.FromSlice(testutil.UnitSquareWithCentre())
	require.NoError(t, err)

	tests := []struct {
		name      string
		simplices [][]int
		neighbors [][]int
	}{
		{"row count", [][]int{{0, 1, 4}}, nil},
		{"arity", [][]int{{0, 1}}, [][]int{{-1, -1}}},
		{"vertex range", [][]int{{0, 1, 9}}, [][]int{{-1, -1, -1}}},
		{"neighbor range", [][]int{{0, 1, 4}}, [][]int{{-1, 5, -1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(ps, tt.simplices, tt.neighbors)
			assert.ErrorIs(t, err, ErrInvalidMesh)
		})
	}
}

func TestMesh_Validate(t *testing.T) {
	ps, err := pointset.FromSlice(testutil.UnitSquareWithCentre())
	require.NoError(t, err)

	t.Run("asymmetric", func(t *testing.T) {
		m, err := New(ps,
			[][]int{{0, 1, 4}, {0, 2, 4}},
			[][]int{{-1, 1, -1}, {-1, -1, -1}},
		)
		require.NoError(t, err)
		assert.ErrorIs(t, m.Validate(), ErrInvalidMesh)
	})

	t.Run("wrong facet", func(t *testing.T) {
		m, err := New(ps,
			[][]int{{0, 1, 4}, {0, 2, 4}},
			[][]int{{1, -1, -1}, {1, -1, -1}},
		)
		require.NoError(t, err)
		assert.ErrorIs(t, m.Validate(), ErrInvalidMesh)
	})

	t.Run("self", func(t *testing.T) {
		m, err := New(ps, [][]int{{0, 1, 4}}, [][]int{{0, -1, -1}})
		require.NoError(t, err)
		assert.ErrorIs(t, m.Validate(), ErrInvalidMesh)
	})

	t.Run("repeated vertex", func(t *testing.T) {
		m, err := New(ps, [][]int{{0, 4, 4}}, [][]int{{-1, -1, -1}})
		require.NoError(t, err)
		assert.ErrorIs(t, m.Validate(), ErrInvalidMesh)
	})
}

func TestLift(t *testing.T) {
	l := Lift{Centre: []float64{1, 1}, Scale: 2}

	got := l.Apply([]float64{3, -1}, nil)
	assert.Equal(t, []float64{1, -1, 2}, got)

	buf := make([]float64, 3)
	l.Apply([]float64{1, 1}, buf)
	assert.Equal(t, []float64{0, 0, 0}, buf)

	assert.False(t, l.IsZero())
	assert.True(t, Lift{}.IsZero())
	assert.True(t, l.Equal(Lift{Centre: []float64{1, 1}, Scale: 2}))
	assert.False(t, l.Equal(Lift{Centre: []float64{1, 0}, Scale: 2}))
}
