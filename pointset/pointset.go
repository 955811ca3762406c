// Package pointset holds the input points of a triangulation.
//
// A PointSet is append-only: every accepted point receives the next index and
// keeps it for the lifetime of the set. Once frozen, the set is read-only and
// safe for concurrent use.
package pointset

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/hupe1980/delaunay/geom"
)

// ErrFrozen is returned when adding to a frozen PointSet.
var ErrFrozen = errors.New("pointset: frozen")

// Options configures a PointSet.
type Options struct {
	// Deduplicate makes Add return the index of an identical existing point
	// instead of appending a copy.
	Deduplicate bool

	// Capacity preallocates storage for this many points.
	Capacity int
}

// DefaultOptions are used by New.
var DefaultOptions = Options{}

// PointSet is an indexed collection of fixed-dimension points.
type PointSet struct {
	dim    int
	coords []float64
	frozen bool
	opts   Options
	seen   map[string]int
}

// New creates an empty PointSet of the given dimension.
func New(dim int, optFns ...func(o *Options)) (*PointSet, error) {
	if dim < geom.MinDimension {
		return nil, fmt.Errorf("%w: %d (minimum %d)", geom.ErrInvalidDimension, dim, geom.MinDimension)
	}

	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	ps := &PointSet{
		dim:    dim,
		coords: make([]float64, 0, opts.Capacity*dim),
		opts:   opts,
	}

	if opts.Deduplicate {
		ps.seen = make(map[string]int, opts.Capacity)
	}

	return ps, nil
}

// FromSlice builds a PointSet from pts. The dimension is taken from the first
// point; all points must share it.
func FromSlice(pts [][]float64, optFns ...func(o *Options)) (*PointSet, error) {
	if len(pts) == 0 {
		return nil, &geom.InsufficientPointsError{}
	}

	ps, err := New(len(pts[0]), append([]func(*Options){func(o *Options) { o.Capacity = len(pts) }}, optFns...)...)
	if err != nil {
		return nil, err
	}

	if err := ps.AddAll(pts); err != nil {
		return nil, err
	}

	return ps, nil
}

// Dim returns the point dimension.
func (ps *PointSet) Dim() int { return ps.dim }

// Len returns the number of points.
func (ps *PointSet) Len() int { return len(ps.coords) / ps.dim }

// At returns point i. The slice aliases internal storage and must not be modified.
func (ps *PointSet) At(i int) []float64 {
	return ps.coords[i*ps.dim : (i+1)*ps.dim : (i+1)*ps.dim]
}

// Coords returns the flat row-major coordinate storage. It must not be modified.
func (ps *PointSet) Coords() []float64 { return ps.coords }

// Frozen reports whether the set is read-only.
func (ps *PointSet) Frozen() bool { return ps.frozen }

// Freeze makes the set read-only.
func (ps *PointSet) Freeze() { ps.frozen = true }

// Add appends p and returns its index. With deduplication enabled an
// identical existing point's index is returned instead.
func (ps *PointSet) Add(p []float64) (int, error) {
	if ps.frozen {
		return -1, ErrFrozen
	}

	if len(p) != ps.dim {
		return -1, &geom.DimensionMismatchError{Expected: ps.dim, Actual: len(p)}
	}

	next := ps.Len()
	for axis, x := range p {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return -1, &geom.InvalidCoordinateError{Index: next, Axis: axis, Value: x}
		}
	}

	if ps.seen != nil {
		key := pointKey(p)
		if i, ok := ps.seen[key]; ok {
			return i, nil
		}
		ps.seen[key] = next
	}

	ps.coords = append(ps.coords, p...)

	return next, nil
}

// AddAll adds every point, stopping at the first error.
func (ps *PointSet) AddAll(pts [][]float64) error {
	for _, p := range pts {
		if _, err := ps.Add(p); err != nil {
			return err
		}
	}
	return nil
}

// Subset returns a frozen PointSet holding the given points in order.
func (ps *PointSet) Subset(indices []int) (*PointSet, error) {
	sub := &PointSet{
		dim:    ps.dim,
		coords: make([]float64, 0, len(indices)*ps.dim),
		frozen: true,
	}

	n := ps.Len()
	for _, i := range indices {
		if i < 0 || i >= n {
			return nil, fmt.Errorf("pointset: index %d out of range [0, %d)", i, n)
		}
		sub.coords = append(sub.coords, ps.At(i)...)
	}

	return sub, nil
}

// pointKey is exact on bit patterns with -0 folded into +0.
func pointKey(p []float64) string {
	var sb strings.Builder
	for _, x := range p {
		if x == 0 {
			x = 0
		}
		sb.WriteString(strconv.FormatUint(math.Float64bits(x), 16))
		sb.WriteByte(':')
	}
	return sb.String()
}
