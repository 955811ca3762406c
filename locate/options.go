package locate

import "fmt"

// Options configures an Index.
type Options struct {
	// Epsilon is the barycentric tolerance: a point is inside a simplex if
	// every coordinate is at least -Epsilon.
	Epsilon float64

	// Bruteforce disables the walk and scans the mesh for every query.
	Bruteforce bool

	// Climb moves the walk's starting simplex uphill in lifted plane
	// distance first. It needs a mesh with a recorded lift.
	Climb bool

	// GridResolution fixes the number of seed-grid cells per axis.
	// Zero picks about Len()^(1/Dim).
	GridResolution int

	// MaxGridCells caps the total number of seed-grid cells.
	MaxGridCells int

	// OnCycle is called when a walk revisits a simplex and the query falls
	// back to bruteforce. It may be called concurrently.
	OnCycle func(w *LocationCycleWarning)
}

// DefaultOptions are used by New.
var DefaultOptions = Options{
	Epsilon:      1e-10,
	Climb:        true,
	MaxGridCells: 1 << 16,
}

// LocationCycleWarning reports a walk that revisited a simplex. The query is
// still answered, by bruteforce.
type LocationCycleWarning struct {
	Point   []float64
	Start   int // simplex the walk started in
	Simplex int // simplex entered a second time
	Steps   int
}

func (w *LocationCycleWarning) Error() string {
	return fmt.Sprintf("locate: walk from simplex %d revisited simplex %d after %d steps", w.Start, w.Simplex, w.Steps)
}
