// Package triangulate builds Delaunay triangulations through the lifting map.
//
// Points are normalized, lifted onto the paraboloid z = |x'|² and handed to a
// hull.Oracle one dimension up. The lower facets of the lifted hull project
// to the Delaunay simplices. A synthetic apex above the lifted centroid keeps
// the lifted set full-dimensional when all inputs are cospherical.
//
// Cospherical inputs make the lifted points cofacial. The lifted points are
// handed to the oracle in lexicographic order and the built-in oracle never
// treats a point on a facet plane as visible, breaking furthest-point ties by
// the lower index. That selects one of the valid triangulations of every
// cospherical cell, and always the same one for the same input.
package triangulate

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/hupe1980/delaunay/geom"
	"github.com/hupe1980/delaunay/hull"
	"github.com/hupe1980/delaunay/mesh"
	"github.com/hupe1980/delaunay/pointset"
)

// Options configures a Triangulator.
type Options struct {
	// Oracle computes the lifted hull. Defaults to hull.NewIncremental().
	Oracle hull.Oracle

	// Epsilon is the relative tolerance of the affine rank check.
	Epsilon float64

	// VerticalTolerance is the minimum downward component of a lower facet's
	// unit normal. Steeper facets project to flat simplices and are dropped.
	VerticalTolerance float64
}

// DefaultOptions are used by New.
var DefaultOptions = Options{
	Epsilon:           1e-12,
	VerticalTolerance: 1e-10,
}

// Triangulator turns point sets into Delaunay meshes.
type Triangulator struct {
	opts Options
}

// New creates a Triangulator.
func New(optFns ...func(o *Options)) *Triangulator {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Oracle == nil {
		opts.Oracle = hull.NewIncremental()
	}

	return &Triangulator{opts: opts}
}

// Triangulate is a convenience wrapper around New().Triangulate.
func Triangulate(ps *pointset.PointSet, indices []int, optFns ...func(o *Options)) (*mesh.Mesh, error) {
	return New(optFns...).Triangulate(ps, indices)
}

// Triangulate computes the Delaunay triangulation of the given points of ps.
// Indices that end up in no simplex are reported by Mesh.Coplanar.
// The point set is frozen but otherwise not modified.
func (t *Triangulator) Triangulate(ps *pointset.PointSet, indices []int) (*mesh.Mesh, error) {
	dim, n := ps.Dim(), len(indices)

	if n < dim+1 {
		return nil, &geom.InsufficientPointsError{Dimension: dim, Count: n}
	}

	seen := make(map[int]struct{}, n)
	for _, i := range indices {
		if i < 0 || i >= ps.Len() {
			return nil, fmt.Errorf("triangulate: index %d out of range [0, %d)", i, ps.Len())
		}
		if _, dup := seen[i]; dup {
			return nil, fmt.Errorf("triangulate: index %d given twice", i)
		}
		seen[i] = struct{}{}
	}

	ps.Freeze()

	scale := maxAbsOf(ps, indices)
	basis := geom.AffineBasis(dim, indices, ps.At, t.opts.Epsilon*scale*float64(dim))
	if len(basis) < dim+1 {
		return nil, &geom.DegenerateInputError{Dimension: dim, Rank: len(basis) - 1}
	}

	sorted := slices.Clone(indices)
	slices.SortFunc(sorted, func(a, b int) int {
		if c := geom.LexCompare(ps.At(a), ps.At(b)); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})

	// Identical points are adjacent after sorting; the lowest index is kept.
	order := sorted[:1]
	for _, i := range sorted[1:] {
		if geom.LexCompare(ps.At(i), ps.At(order[len(order)-1])) != 0 {
			order = append(order, i)
		}
	}

	lift, lifted, err := t.lift(ps, order)
	if err != nil {
		return nil, err
	}

	h, err := t.opts.Oracle.ComputeHull(lifted)
	if err != nil {
		return nil, fmt.Errorf("triangulate: lifted hull: %w", err)
	}

	apex := len(order)
	lowerID := make([]int, len(h.Facets))
	count := 0

	for fi, f := range h.Facets {
		lowerID[fi] = mesh.NoNeighbor
		if slices.Contains(f.Vertices, apex) || f.Normal[dim] >= -t.opts.VerticalTolerance {
			continue
		}
		lowerID[fi] = count
		count++
	}

	if count == 0 {
		return nil, &geom.DegenerateInputError{Dimension: dim, Rank: dim, Reason: "no lower facets"}
	}

	simplices := make([][]int, 0, count)
	neighbors := make([][]int, 0, count)
	used := make(map[int]struct{}, n)

	for fi, f := range h.Facets {
		if lowerID[fi] == mesh.NoNeighbor {
			continue
		}

		simplex := make([]int, len(f.Vertices))
		for i, v := range f.Vertices {
			simplex[i] = order[v]
			used[order[v]] = struct{}{}
		}

		nbrs := make([]int, len(f.Neighbors))
		for i, g := range f.Neighbors {
			nbrs[i] = lowerID[g]
		}

		simplices = append(simplices, simplex)
		neighbors = append(neighbors, nbrs)
	}

	var coplanar []int
	for _, i := range indices {
		if _, ok := used[i]; !ok {
			coplanar = append(coplanar, i)
		}
	}

	return mesh.New(ps, simplices, neighbors, func(o *mesh.Options) {
		o.Lift = lift
		o.Coplanar = coplanar
		o.Canonicalize = true
	})
}

// lift builds the lifted point set in the given order, followed by the apex.
func (t *Triangulator) lift(ps *pointset.PointSet, order []int) (mesh.Lift, *pointset.PointSet, error) {
	dim := ps.Dim()
	lo, hi := geom.Bounds(dim, len(order), func(i int) []float64 { return ps.At(order[i]) })

	centre := make([]float64, dim)
	var half float64
	for k := range centre {
		centre[k] = (lo[k] + hi[k]) / 2
		half = math.Max(half, (hi[k]-lo[k])/2)
	}

	l := mesh.Lift{Centre: centre, Scale: half}

	lifted, err := pointset.New(dim+1, func(o *pointset.Options) { o.Capacity = len(order) + 1 })
	if err != nil {
		return mesh.Lift{}, nil, err
	}

	apex := make([]float64, dim+1)
	buf := make([]float64, dim+1)
	zmax := math.Inf(-1)

	for _, i := range order {
		l.Apply(ps.At(i), buf)

		for k := 0; k < dim; k++ {
			apex[k] += buf[k]
		}
		zmax = math.Max(zmax, buf[dim])

		if _, err := lifted.Add(buf); err != nil {
			return mesh.Lift{}, nil, err
		}
	}

	for k := 0; k < dim; k++ {
		apex[k] /= float64(len(order))
	}
	apex[dim] = zmax + 1

	if _, err := lifted.Add(apex); err != nil {
		return mesh.Lift{}, nil, err
	}

	lifted.Freeze()

	return l, lifted, nil
}

func maxAbsOf(ps *pointset.PointSet, indices []int) float64 {
	return geom.MaxAbs(len(indices), func(i int) []float64 { return ps.At(indices[i]) })
}
