package testutil

import (
	"math"
	"math/rand"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// FillUniformRange fills dst with random values in range [minVal, maxVal).
func (r *RNG) FillUniformRange(dst []float64, minVal, maxVal float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	span := maxVal - minVal
	for i := range dst {
		dst[i] = minVal + r.rand.Float64()*span
	}
}

// UniformPoints generates points with coordinates in [0, 1).
// Uses a single backing array for efficiency.
func (r *RNG) UniformPoints(num, dim int) [][]float64 {
	return r.UniformRangePoints(num, dim, 0, 1)
}

// UniformRangePoints generates points with coordinates in [minVal, maxVal).
func (r *RNG) UniformRangePoints(num, dim int, minVal, maxVal float64) [][]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]float64, num*dim)
	points := make([][]float64, num)
	span := maxVal - minVal

	for i := range num {
		p := data[i*dim : (i+1)*dim]
		for j := range p {
			p[j] = minVal + r.rand.Float64()*span
		}
		points[i] = p
	}

	return points
}

// GaussianPoints generates points from a standard normal distribution.
func (r *RNG) GaussianPoints(num, dim int) [][]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]float64, num*dim)
	points := make([][]float64, num)

	for i := range num {
		p := data[i*dim : (i+1)*dim]
		for j := range p {
			p[j] = r.rand.NormFloat64()
		}
		points[i] = p
	}

	return points
}

// SpherePoints generates points on the unit sphere centred at the origin.
// Every subset of dim+1 of them is cospherical, which makes the Delaunay
// triangulation maximally ambiguous.
func (r *RNG) SpherePoints(num, dim int) [][]float64 {
	points := r.GaussianPoints(num, dim)

	for _, p := range points {
		var norm float64
		for _, x := range p {
			norm += x * x
		}
		if norm == 0 {
			p[0], norm = 1, 1
		}
		inv := 1 / math.Sqrt(norm)
		for j := range p {
			p[j] *= inv
		}
	}

	return points
}

// ClusteredPoints generates points scattered around random centres in the
// unit cube with the given Gaussian spread.
func (r *RNG) ClusteredPoints(num, dim, clusters int, spread float64) [][]float64 {
	centres := r.UniformPoints(clusters, dim)

	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]float64, num*dim)
	points := make([][]float64, num)

	for i := range num {
		c := centres[i%clusters]
		p := data[i*dim : (i+1)*dim]
		for j := range p {
			p[j] = c[j] + r.rand.NormFloat64()*spread
		}
		points[i] = p
	}

	return points
}

// Shuffle permutes points in place.
func (r *RNG) Shuffle(points [][]float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Shuffle(len(points), func(i, j int) { points[i], points[j] = points[j], points[i] })
}

// GridPoints returns the k^dim lattice points with spacing 1/(k-1) in the
// unit cube, in row-major order. Lattices are heavily cospherical.
func GridPoints(k, dim int) [][]float64 {
	total := 1
	for range dim {
		total *= k
	}

	points := make([][]float64, total)
	step := 1.0
	if k > 1 {
		step = 1 / float64(k-1)
	}

	for i := range total {
		p := make([]float64, dim)
		rem := i
		for j := dim - 1; j >= 0; j-- {
			p[j] = float64(rem%k) * step
			rem /= k
		}
		points[i] = p
	}

	return points
}

// CubeCorners returns the 2^dim corners of the unit cube.
func CubeCorners(dim int) [][]float64 {
	return GridPoints(2, dim)
}

// UnitSquareWithCentre returns the corners of the unit square followed by its
// centre, which is index 4.
func UnitSquareWithCentre() [][]float64 {
	return [][]float64{
		{0, 0},
		{1, 0},
		{0, 1},
		{1, 1},
		{0.5, 0.5},
	}
}

// ColourCube returns the corners of the RGBXY unit cube plus n random interior
// points, a typical palette-recolouring input.
func (r *RNG) ColourCube(n int) [][]float64 {
	points := CubeCorners(5)
	for _, p := range r.UniformRangePoints(n, 5, 0.05, 0.95) {
		points = append(points, p)
	}
	return points
}
