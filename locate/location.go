package locate

// Location is the result of a point-location query.
type Location struct {
	// Simplex is the mesh index of the containing simplex, -1 if not found.
	Simplex int

	// Vertices are the point indices of the simplex.
	Vertices []int

	// Weights are the barycentric coordinates of the query; Weights[i]
	// belongs to Vertices[i] and they sum to one.
	Weights []float64
}

// NotFound is the Location of a point outside the mesh.
var NotFound = Location{Simplex: -1}

// Found reports whether the query hit a simplex.
func (l Location) Found() bool { return l.Simplex >= 0 }

// Interpolate returns the weighted sum of per-vertex values.
func (l Location) Interpolate(values func(vertex int) float64) float64 {
	var sum float64
	for i, v := range l.Vertices {
		sum += l.Weights[i] * values(v)
	}
	return sum
}
