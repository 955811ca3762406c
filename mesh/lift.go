package mesh

import "slices"

// Lift is the paraboloid map used to build the mesh. A point x is normalized
// to x' = (x - Centre) / Scale and lifted to (x', |x'|²).
type Lift struct {
	Centre []float64
	Scale  float64
}

// IsZero reports whether no lift was recorded.
func (l Lift) IsZero() bool { return l.Scale == 0 }

// Apply writes the lifted image of p into dst (length len(p)+1) and returns it.
// A nil dst is allocated.
func (l Lift) Apply(p, dst []float64) []float64 {
	d := len(p)
	if dst == nil {
		dst = make([]float64, d+1)
	}

	var z float64
	for k, x := range p {
		v := (x - l.Centre[k]) / l.Scale
		dst[k] = v
		z += v * v
	}
	dst[d] = z

	return dst
}

// Equal reports whether both lifts are identical.
func (l Lift) Equal(other Lift) bool {
	return l.Scale == other.Scale && slices.Equal(l.Centre, other.Centre)
}
