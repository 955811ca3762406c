package pointset

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/delaunay/geom"
)

func TestPointSet_Add(t *testing.T) {
	ps, err := New(3)
	require.NoError(t, err)

	i, err := ps.Add([]float64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, 0, i)

	i, err = ps.Add([]float64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, 1, i, "duplicates get distinct indices by default")

	assert.Equal(t, 2, ps.Len())
	assert.Equal(t, 3, ps.Dim())
	assert.Equal(t, []float64{1, 2, 3}, ps.At(1))
}

func TestPointSet_Deduplicate(t *testing.T) {
	ps, err := New(2, func(o *Options) { o.Deduplicate = true })
	require.NoError(t, err)

	a, _ := ps.Add([]float64{0, 1})
	b, _ := ps.Add([]float64{1, 0})
	c, _ := ps.Add([]float64{0, 1})
	d, _ := ps.Add([]float64{math.Copysign(0, -1), 1})

	assert.Equal(t, 0, a)
	assert.Equal(t, 1, b)
	assert.Equal(t, 0, c)
	assert.Equal(t, 0, d)
	assert.Equal(t, 2, ps.Len())
}

func TestPointSet_Errors(t *testing.T) {
	tests := []struct {
		name     string
		point    []float64
		sentinel error
	}{
		{"nan", []float64{math.NaN(), 0}, geom.ErrInvalidCoordinate},
		{"+inf", []float64{0, math.Inf(1)}, geom.ErrInvalidCoordinate},
		{"-inf", []float64{math.Inf(-1), 0}, geom.ErrInvalidCoordinate},
		{"short", []float64{0}, geom.ErrDimensionMismatch},
		{"long", []float64{0, 0, 0}, geom.ErrDimensionMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ps, err := New(2)
			require.NoError(t, err)
			ps.Add([]float64{5, 5})

			_, err = ps.Add(tt.point)
			assert.ErrorIs(t, err, tt.sentinel)
			assert.Equal(t, 1, ps.Len(), "rejected points are not stored")
		})
	}

	t.Run("coordinate details", func(t *testing.T) {
		ps, _ := New(2)
		ps.Add([]float64{0, 0})
		_, err := ps.Add([]float64{1, math.Inf(1)})

		var coordErr *geom.InvalidCoordinateError
		require.ErrorAs(t, err, &coordErr)
		assert.Equal(t, 1, coordErr.Index)
		assert.Equal(t, 1, coordErr.Axis)
	})

	t.Run("dimension", func(t *testing.T) {
		_, err := New(1)
		assert.ErrorIs(t, err, geom.ErrInvalidDimension)
	})
}

func TestPointSet_Freeze(t *testing.T) {
	ps, _ := New(2)
	ps.Add([]float64{0, 0})
	ps.Freeze()

	assert.True(t, ps.Frozen())
	_, err := ps.Add([]float64{1, 1})
	assert.ErrorIs(t, err, ErrFrozen)
}

func TestFromSlice(t *testing.T) {
	ps, err := FromSlice([][]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	require.NoError(t, err)
	assert.Equal(t, 3, ps.Len())
	assert.Equal(t, []float64{0, 0, 0, 1, 0, 0, 0, 1, 0}, ps.Coords())

	_, err = FromSlice([][]float64{{0, 0}, {1, 0, 0}})
	assert.ErrorIs(t, err, geom.ErrDimensionMismatch)

	_, err = FromSlice(nil)
	assert.ErrorIs(t, err, geom.ErrInsufficientPoints)
}

func TestPointSet_Subset(t *testing.T) {
	ps, _ := FromSlice([][]float64{{0, 0}, {1, 0}, {0, 1}})

	sub, err := ps.Subset([]int{2, 0})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1}, sub.At(0))
	assert.Equal(t, []float64{0, 0}, sub.At(1))
	assert.True(t, sub.Frozen())

	_, err = ps.Subset([]int{3})
	assert.Error(t, err)
}

func TestPointSet_AtIsCapped(t *testing.T) {
	ps, _ := FromSlice([][]float64{{0, 0}, {1, 1}})
	p := ps.At(0)
	_ = append(p, 42)
	assert.Equal(t, []float64{1, 1}, ps.At(1))
}
