package mesh

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/delaunay/pointset"
)

// ErrInvalidMesh is returned by New and Validate for inconsistent topology.
var ErrInvalidMesh = errors.New("mesh: invalid")

// NoNeighbor marks a facet on the hull boundary.
const NoNeighbor = -1

// Options configures New.
type Options struct {
	// Lift is recorded on the mesh unchanged.
	Lift Lift

	// Coplanar lists input indices that are not vertices of any simplex.
	Coplanar []int

	// Canonicalize sorts the vertices of each simplex (permuting neighbor
	// slots with them), sorts simplices lexicographically and remaps
	// neighbor references.
	Canonicalize bool
}

// Mesh is an immutable simplicial complex over a PointSet.
// It is safe for concurrent use.
type Mesh struct {
	points    *pointset.PointSet
	dim       int
	simplices []int // flat, stride dim+1
	neighbors []int // flat, stride dim+1
	stars     []*roaring.Bitmap
	vertices  []int
	coplanar  []int
	lift      Lift
}

// New builds a mesh over points from simplices and their neighbor tables.
// The point set is frozen.
func New(points *pointset.PointSet, simplices, neighbors [][]int, optFns ...func(o *Options)) (*Mesh, error) {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}

	dim := points.Dim()
	k := dim + 1

	if len(simplices) != len(neighbors) {
		return nil, fmt.Errorf("%w: %d simplices but %d neighbor rows", ErrInvalidMesh, len(simplices), len(neighbors))
	}

	n := points.Len()
	for s := range simplices {
		if len(simplices[s]) != k || len(neighbors[s]) != k {
			return nil, fmt.Errorf("%w: simplex %d has %d vertices and %d neighbors, want %d",
				ErrInvalidMesh, s, len(simplices[s]), len(neighbors[s]), k)
		}
		for i := range k {
			if v := simplices[s][i]; v < 0 || v >= n {
				return nil, fmt.Errorf("%w: simplex %d vertex %d out of range", ErrInvalidMesh, s, v)
			}
			if t := neighbors[s][i]; t < NoNeighbor || t >= len(simplices) {
				return nil, fmt.Errorf("%w: simplex %d neighbor %d out of range", ErrInvalidMesh, s, t)
			}
		}
	}

	points.Freeze()

	m := &Mesh{
		points:    points,
		dim:       dim,
		simplices: make([]int, 0, len(simplices)*k),
		neighbors: make([]int, 0, len(simplices)*k),
		coplanar:  slices.Sorted(slices.Values(opts.Coplanar)),
		lift:      opts.Lift,
	}

	if opts.Canonicalize {
		simplices, neighbors = canonicalize(simplices, neighbors)
	}

	for s := range simplices {
		m.simplices = append(m.simplices, simplices[s]...)
		m.neighbors = append(m.neighbors, neighbors[s]...)
	}

	m.buildStars()

	return m, nil
}

func (m *Mesh) buildStars() {
	m.stars = make([]*roaring.Bitmap, m.points.Len())

	for s := range m.Len() {
		for _, v := range m.Simplex(s) {
			if m.stars[v] == nil {
				m.stars[v] = roaring.New()
				m.vertices = append(m.vertices, v)
			}
			m.stars[v].Add(uint32(s))
		}
	}

	for _, b := range m.stars {
		if b != nil {
			b.RunOptimize()
		}
	}

	slices.Sort(m.vertices)
}

// canonicalize returns canonical copies of simplices and neighbors.
func canonicalize(simplices, neighbors [][]int) ([][]int, [][]int) {
	count := len(simplices)
	verts := make([][]int, count)
	nbrs := make([][]int, count)

	for s := range simplices {
		k := len(simplices[s])
		perm := make([]int, k)
		for i := range perm {
			perm[i] = i
		}
		slices.SortFunc(perm, func(a, b int) int {
			return cmp.Compare(simplices[s][a], simplices[s][b])
		})

		verts[s] = make([]int, k)
		nbrs[s] = make([]int, k)
		for i, p := range perm {
			verts[s][i] = simplices[s][p]
			nbrs[s][i] = neighbors[s][p]
		}
	}

	order := make([]int, count)
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return slices.Compare(verts[a], verts[b])
	})

	inv := make([]int, count)
	for pos, s := range order {
		inv[s] = pos
	}

	outVerts := make([][]int, count)
	outNbrs := make([][]int, count)
	for pos, s := range order {
		outVerts[pos] = verts[s]
		row := nbrs[s]
		for i, t := range row {
			if t != NoNeighbor {
				row[i] = inv[t]
			}
		}
		outNbrs[pos] = row
	}

	return outVerts, outNbrs
}

// Dim returns the point dimension.
func (m *Mesh) Dim() int { return m.dim }

// Len returns the number of simplices.
func (m *Mesh) Len() int { return len(m.simplices) / (m.dim + 1) }

// Points returns the underlying (frozen) point set.
func (m *Mesh) Points() *pointset.PointSet { return m.points }

// Simplex returns the vertex indices of simplex i. The slice must not be modified.
func (m *Mesh) Simplex(i int) []int {
	k := m.dim + 1
	return m.simplices[i*k : (i+1)*k : (i+1)*k]
}

// Neighbors returns the neighbor row of simplex i. The slice must not be modified.
func (m *Mesh) Neighbors(i int) []int {
	k := m.dim + 1
	return m.neighbors[i*k : (i+1)*k : (i+1)*k]
}

// Neighbor returns the simplex across the facet of i opposite its vertex
// slot facet, or NoNeighbor.
func (m *Mesh) Neighbor(i, facet int) int {
	return m.neighbors[i*(m.dim+1)+facet]
}

// Vertices returns the point indices used by at least one simplex, ascending.
func (m *Mesh) Vertices() []int { return slices.Clone(m.vertices) }

// Star returns the simplices incident to vertex v.
// The bitmap is a copy and may be modified by the caller.
func (m *Mesh) Star(v int) *roaring.Bitmap {
	if v < 0 || v >= len(m.stars) || m.stars[v] == nil {
		return roaring.New()
	}
	return m.stars[v].Clone()
}

// StarSize returns the number of simplices incident to vertex v.
func (m *Mesh) StarSize(v int) int {
	if v < 0 || v >= len(m.stars) || m.stars[v] == nil {
		return 0
	}
	return int(m.stars[v].GetCardinality())
}

// FirstInStar returns the lowest-index simplex incident to v for which keep
// returns true, or -1.
func (m *Mesh) FirstInStar(v int, keep func(s int) bool) int {
	if v < 0 || v >= len(m.stars) || m.stars[v] == nil {
		return -1
	}

	it := m.stars[v].Iterator()
	for it.HasNext() {
		if s := int(it.Next()); keep(s) {
			return s
		}
	}
	return -1
}

// Coplanar returns input indices that were not used as vertices.
func (m *Mesh) Coplanar() []int { return slices.Clone(m.coplanar) }

// Lift returns the paraboloid map the mesh was built with.
func (m *Mesh) Lift() Lift { return m.lift }

// Centroid writes the centroid of simplex i into dst and returns it.
func (m *Mesh) Centroid(i int, dst []float64) []float64 {
	if dst == nil {
		dst = make([]float64, m.dim)
	}
	clear(dst)

	simplex := m.Simplex(i)
	for _, v := range simplex {
		for k, x := range m.points.At(v) {
			dst[k] += x
		}
	}

	inv := 1 / float64(len(simplex))
	for k := range dst {
		dst[k] *= inv
	}

	return dst
}

// Bounds returns the bounding box of the mesh vertices.
func (m *Mesh) Bounds() (lo, hi []float64) {
	lo = make([]float64, m.dim)
	hi = make([]float64, m.dim)
	for k := range lo {
		lo[k] = math.Inf(1)
		hi[k] = math.Inf(-1)
	}

	for _, v := range m.vertices {
		for k, x := range m.points.At(v) {
			lo[k] = math.Min(lo[k], x)
			hi[k] = math.Max(hi[k], x)
		}
	}

	return lo, hi
}

// Validate checks that neighbor references are symmetric and that every pair
// of neighbors shares exactly the facet their slots name.
func (m *Mesh) Validate() error {
	k := m.dim + 1

	for s := range m.Len() {
		simplex := m.Simplex(s)
		sorted := slices.Sorted(slices.Values(simplex))
		for i := 1; i < k; i++ {
			if sorted[i] == sorted[i-1] {
				return fmt.Errorf("%w: simplex %d repeats vertex %d", ErrInvalidMesh, s, sorted[i])
			}
		}

		for i, t := range m.Neighbors(s) {
			if t == NoNeighbor {
				continue
			}
			if t == s {
				return fmt.Errorf("%w: simplex %d is its own neighbor", ErrInvalidMesh, s)
			}

			back := slices.Index(m.Neighbors(t), s)
			if back < 0 {
				return fmt.Errorf("%w: simplex %d lists %d as neighbor but not vice versa", ErrInvalidMesh, s, t)
			}

			if !sameFacet(simplex, i, m.Simplex(t), back) {
				return fmt.Errorf("%w: simplices %d and %d do not share facet %d/%d", ErrInvalidMesh, s, t, i, back)
			}
		}
	}

	return nil
}

// sameFacet compares a without a[i] to b without b[j] as multisets. Both
// tuples may be in any order.
func sameFacet(a []int, i int, b []int, j int) bool {
	fa := make([]int, 0, len(a)-1)
	fb := make([]int, 0, len(b)-1)
	for x := range a {
		if x != i {
			fa = append(fa, a[x])
		}
	}
	for x := range b {
		if x != j {
			fb = append(fb, b[x])
		}
	}
	slices.Sort(fa)
	slices.Sort(fb)
	return slices.Equal(fa, fb)
}

// Equal reports whether two meshes have identical points, topology, lift and
// coplanar list.
func (m *Mesh) Equal(other *Mesh) bool {
	if other == nil {
		return false
	}
	return m.dim == other.dim &&
		slices.Equal(m.points.Coords(), other.points.Coords()) &&
		slices.Equal(m.simplices, other.simplices) &&
		slices.Equal(m.neighbors, other.neighbors) &&
		slices.Equal(m.coplanar, other.coplanar) &&
		m.lift.Equal(other.lift)
}
