package hull

import (
	"github.com/hupe1980/delaunay/pointset"
)

// Oracle computes the convex hull of a point set.
type Oracle interface {
	ComputeHull(ps *pointset.PointSet) (*Hull, error)
}

// OracleFunc adapts a function to the Oracle interface.
type OracleFunc func(ps *pointset.PointSet) (*Hull, error)

// ComputeHull calls f(ps).
func (f OracleFunc) ComputeHull(ps *pointset.PointSet) (*Hull, error) { return f(ps) }

// Facet is a (Dim-1)-simplex on the hull boundary.
type Facet struct {
	// Vertices holds Dim point indices.
	Vertices []int

	// Neighbors[i] is the facet sharing every vertex except Vertices[i].
	Neighbors []int

	// Normal is the outward unit normal; Normal·x - Offset is the signed
	// distance of x from the facet plane. It is zero for facets too thin to
	// carry a floating-point plane.
	Normal []float64
	Offset float64
}

// Hull is the boundary of a convex hull.
type Hull struct {
	Dim int

	// Vertices lists the point indices on the hull in ascending order.
	Vertices []int

	Facets []Facet
}
