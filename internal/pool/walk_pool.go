// Package pool provides pooled scratch space for simplex walks so that
// concurrent queries do not allocate on the hot path.
package pool

import (
	"sync"

	"github.com/bits-and-blooms/bitset"
)

const (
	// DefaultSimplices is the initial capacity of the visited bitset.
	DefaultSimplices = 4096

	// maxRetainedSimplices caps the bitset size kept across Put calls.
	maxRetainedSimplices = DefaultSimplices * 256
)

// WalkContext holds per-query buffers for a walk through a simplex mesh.
type WalkContext struct {
	// Visited marks simplices entered by the current walk.
	Visited *bitset.BitSet

	// Path lists the simplices in Visited so Reset only touches those bits.
	Path []int

	// Queue is scratch space for breadth-first searches over neighbors.
	Queue []int

	// Bary receives barycentric coordinates, Delta holds p minus the reference vertex.
	Bary  []float64
	Delta []float64

	// Lifted holds the paraboloid image of the query.
	Lifted []float64
}

var walkContextPool = sync.Pool{
	New: func() any {
		return &WalkContext{
			Visited: bitset.New(DefaultSimplices),
			Path:    make([]int, 0, 64),
			Queue:   make([]int, 0, 16),
		}
	},
}

// Get retrieves a WalkContext sized for dim-dimensional points.
func Get(dim int) *WalkContext {
	wc := walkContextPool.Get().(*WalkContext)
	wc.Reset()
	wc.Bary = resize(wc.Bary, dim+1)
	wc.Delta = resize(wc.Delta, dim)
	wc.Lifted = resize(wc.Lifted, dim+1)
	return wc
}

// Put returns a WalkContext to the pool.
func Put(wc *WalkContext) {
	if wc.Visited.Len() > maxRetainedSimplices {
		wc.Visited = bitset.New(DefaultSimplices)
		wc.Path = wc.Path[:0]
	}
	walkContextPool.Put(wc)
}

// Reset clears the marks set since the previous Reset.
func (wc *WalkContext) Reset() {
	for _, s := range wc.Path {
		wc.Visited.Clear(uint(s))
	}
	wc.Path = wc.Path[:0]
	wc.Queue = wc.Queue[:0]
}

// Visit marks simplex s and reports whether it had been visited already.
// The bitset grows as needed.
func (wc *WalkContext) Visit(s int) bool {
	if wc.Visited.Test(uint(s)) {
		return true
	}
	wc.Visited.Set(uint(s))
	wc.Path = append(wc.Path, s)
	return false
}

func resize(buf []float64, n int) []float64 {
	if cap(buf) < n {
		return make([]float64, n)
	}
	return buf[:n]
}
