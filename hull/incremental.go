package hull

import (
	"math"
	"slices"
	"strconv"

	"github.com/hupe1980/delaunay/geom"
	"github.com/hupe1980/delaunay/internal/visited"
	"github.com/hupe1980/delaunay/pointset"
)

// Options configures Incremental.
type Options struct {
	// Epsilon is the relative tolerance of the affine rank check that picks
	// the initial simplex. It is scaled by the largest absolute coordinate
	// and the dimension.
	Epsilon float64
}

// slackFactor turns a facet's condition number into the distance below which
// the floating-point side test is not trusted.
const slackFactor = 1e-12

// DefaultOptions are used by NewIncremental.
var DefaultOptions = Options{
	Epsilon: 1e-12,
}

// Incremental is a quickhull implementation of Oracle.
// It holds no state between calls and is safe for concurrent use.
//
// A point is visible from a facet only if it lies strictly above the facet's
// plane. The side test is exact: floating-point distances decide unless they
// fall inside the facet's error bound, in which case geom.Orientation does.
// Points on a facet plane are never visible, so cofacial input does not fold
// the hull.
type Incremental struct {
	opts Options
}

// NewIncremental creates an incremental hull oracle.
func NewIncremental(optFns ...func(o *Options)) *Incremental {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Incremental{opts: opts}
}

// ComputeHull implements Oracle.
func (h *Incremental) ComputeHull(ps *pointset.PointSet) (*Hull, error) {
	dim, n := ps.Dim(), ps.Len()
	if n < dim+1 {
		return nil, &geom.InsufficientPointsError{Dimension: dim, Count: n}
	}

	scale := geom.MaxAbs(n, ps.At)
	eps := h.opts.Epsilon * scale * float64(dim)

	all := make([]int, n)
	for i := range all {
		all[i] = i
	}

	basis := geom.AffineBasis(dim, all, ps.At, eps)
	if len(basis) < dim+1 {
		return nil, &geom.DegenerateInputError{Dimension: dim, Rank: len(basis) - 1}
	}

	b := newBuilder(ps, scale*math.Sqrt(float64(dim)))
	if err := b.initSimplex(basis); err != nil {
		return nil, err
	}

	b.run()

	return b.result(), nil
}

// facetPlane orients a facet: p is above it when sign*Orientation(verts, p)
// is positive. Outside ±slack the sign of plane.Distance gives the same answer.
type facetPlane struct {
	plane geom.Hyperplane
	sign  int
	slack float64
}

// facet is the arena representation of a hull facet.
type facet struct {
	verts []int
	nbrs  []int
	facetPlane
	outside []int
	alive   bool
}

// horizonRidge is the ridge between a visible facet and its non-visible
// neighbor across slot.
type horizonRidge struct {
	visible int
	slot    int
	other   int
}

type builder struct {
	ps       *pointset.PointSet
	dim      int
	radius   float64
	interior []float64

	facets   []facet
	free     []int
	stack    []int
	deferred []int
	added    int

	// Scratch reused across iterations.
	vis     *visited.Set
	nonVis  *visited.Set
	queue   []int
	horizon []horizonRidge
	ridges  map[string]ridgeEnd
	keyBuf  []byte
	pts     [][]float64
}

// ridgeEnd is a side ridge of a cone facet: horizon position and slot.
type ridgeEnd struct {
	cone int
	slot int
}

func newBuilder(ps *pointset.PointSet, radius float64) *builder {
	dim := ps.Dim()
	return &builder{
		ps:       ps,
		dim:      dim,
		radius:   radius,
		interior: make([]float64, dim),
		vis:      visited.New(64),
		nonVis:   visited.New(64),
		ridges:   make(map[string]ridgeEnd),
		pts:      make([][]float64, dim+1),
	}
}

// alloc takes a facet slot from the free list or grows the arena.
func (b *builder) alloc() int {
	if n := len(b.free); n > 0 {
		id := b.free[n-1]
		b.free = b.free[:n-1]
		f := &b.facets[id]
		f.verts = f.verts[:0]
		f.nbrs = f.nbrs[:0]
		f.outside = f.outside[:0]
		f.alive = true
		return id
	}

	b.facets = append(b.facets, facet{
		verts: make([]int, 0, b.dim),
		nbrs:  make([]int, 0, b.dim),
		alive: true,
	})

	return len(b.facets) - 1
}

func (b *builder) release(id int) {
	b.facets[id].alive = false
	b.free = append(b.free, id)
}

// plane orients the facet through verts away from the interior point. It
// reports false if the interior lies in the facet's affine hull.
func (b *builder) plane(verts []int) (facetPlane, bool) {
	for i, v := range verts {
		b.pts[i] = b.ps.At(v)
	}
	b.pts[b.dim] = b.interior

	sign := -geom.Orientation(b.pts)
	if sign == 0 {
		return facetPlane{}, false
	}

	h, ok := geom.HyperplaneThrough(b.pts[:b.dim])
	if !ok {
		// Too thin for a floating-point plane; every side test goes exact.
		return facetPlane{
			plane: geom.Hyperplane{Normal: make([]float64, b.dim)},
			sign:  sign,
			slack: math.Inf(1),
		}, true
	}

	// Distance has the sign of Orientation times (-1)^(dim-1).
	parity := 1
	if b.dim%2 == 0 {
		parity = -1
	}
	if sign*parity < 0 {
		h.Flip()
	}

	return facetPlane{plane: h, sign: sign, slack: slackFactor * (h.Cond + 1) * b.radius}, true
}

// side classifies p against facet id: 1 above, -1 below and 0 on its plane.
// The floating-point distance is returned alongside.
func (b *builder) side(id, p int) (int, float64) {
	f := &b.facets[id]
	pt := b.ps.At(p)

	d := f.plane.Distance(pt)
	switch {
	case d > f.slack:
		return 1, d
	case d < -f.slack:
		return -1, d
	}

	for i, v := range f.verts {
		b.pts[i] = b.ps.At(v)
	}
	b.pts[b.dim] = pt

	return f.sign * geom.Orientation(b.pts), d
}

func (b *builder) above(id, p int) bool {
	s, _ := b.side(id, p)
	return s > 0
}

func (b *builder) initSimplex(basis []int) error {
	simplex := slices.Sorted(slices.Values(basis))

	for _, v := range simplex {
		for k, x := range b.ps.At(v) {
			b.interior[k] += x
		}
	}
	for k := range b.interior {
		b.interior[k] /= float64(len(simplex))
	}

	// Facet i omits simplex[i]; its slot holding simplex[j] faces facet j.
	for i := range simplex {
		id := b.alloc()
		f := &b.facets[id]
		for j, v := range simplex {
			if j == i {
				continue
			}
			f.verts = append(f.verts, v)
			f.nbrs = append(f.nbrs, j)
		}

		fp, ok := b.plane(f.verts)
		if !ok {
			return &geom.DegenerateInputError{Dimension: b.dim, Rank: b.dim, Reason: "initial simplex is flat"}
		}
		f.facetPlane = fp
	}

	inSimplex := make(map[int]struct{}, len(simplex))
	for _, v := range simplex {
		inSimplex[v] = struct{}{}
	}

	initial := make([]int, len(simplex))
	for id := range initial {
		initial[id] = id
	}

	for p := 0; p < b.ps.Len(); p++ {
		if _, ok := inSimplex[p]; ok {
			continue
		}
		b.assignTo(p, initial)
	}

	for id := len(simplex) - 1; id >= 0; id-- {
		if len(b.facets[id].outside) > 0 {
			b.stack = append(b.stack, id)
		}
	}

	return nil
}

// assignTo puts p on the outside set of the facet in ids it is furthest
// above, preferring the earlier facet on ties, and returns that facet.
// Points above no candidate are dropped and -1 is returned.
func (b *builder) assignTo(p int, ids []int) int {
	best, bestDist := -1, 0.0

	for _, id := range ids {
		if s, d := b.side(id, p); s > 0 && (best < 0 || d > bestDist) {
			best, bestDist = id, d
		}
	}

	if best >= 0 {
		b.facets[best].outside = append(b.facets[best].outside, p)
	}

	return best
}

// furthest returns the position in f.outside of the point furthest above f.
func (b *builder) furthest(f *facet) int {
	best := 0
	bestDist := f.plane.Distance(b.ps.At(f.outside[0]))

	for i := 1; i < len(f.outside); i++ {
		d := f.plane.Distance(b.ps.At(f.outside[i]))
		if d > bestDist || (d == bestDist && f.outside[i] < f.outside[best]) {
			best, bestDist = i, d
		}
	}

	return best
}

func (b *builder) run() {
	b.drain()

	// Points that could not be attached are retried against the grown hull
	// until a round makes no progress. Usually a later, more extreme point
	// has swallowed them by then.
	for len(b.deferred) > 0 {
		before := b.added
		pending := b.deferred
		b.deferred = nil

		var live []int
		for id := range b.facets {
			if b.facets[id].alive {
				live = append(live, id)
			}
		}

		for _, p := range pending {
			if id := b.assignTo(p, live); id >= 0 {
				b.stack = append(b.stack, id)
			}
		}

		b.drain()

		if b.added == before {
			return
		}
	}
}

func (b *builder) drain() {
	for len(b.stack) > 0 {
		id := b.stack[len(b.stack)-1]
		b.stack = b.stack[:len(b.stack)-1]

		f := &b.facets[id]
		if !f.alive || len(f.outside) == 0 {
			continue
		}

		pos := b.furthest(f)
		eye := f.outside[pos]

		if b.addPoint(id, eye) {
			b.added++
			continue
		}

		// The eye would span a flat cone facet with the current horizon.
		f = &b.facets[id]
		f.outside = slices.Delete(f.outside, pos, pos+1)
		b.deferred = append(b.deferred, eye)
		if len(f.outside) > 0 {
			b.stack = append(b.stack, id)
		}
	}
}

// addPoint replaces the facets visible from eye with a cone from eye to the
// horizon. It reports false without modifying the hull if a cone facet would
// be degenerate.
func (b *builder) addPoint(start, eye int) bool {
	b.vis.Reset()
	b.nonVis.Reset()
	b.queue = append(b.queue[:0], start)
	b.horizon = b.horizon[:0]
	b.vis.Mark(start)

	for head := 0; head < len(b.queue); head++ {
		v := b.queue[head]
		for slot, g := range b.facets[v].nbrs {
			switch {
			case b.vis.Has(g):
				continue
			case b.nonVis.Has(g):
			case b.above(g, eye):
				b.vis.Mark(g)
				b.queue = append(b.queue, g)
				continue
			default:
				b.nonVis.Mark(g)
			}
			b.horizon = append(b.horizon, horizonRidge{visible: v, slot: slot, other: g})
		}
	}

	// Planes and side ridges are resolved before the hull is touched so a
	// failure can back out.
	dim := b.dim
	planes := make([]facetPlane, len(b.horizon))
	pairs := make([]ridgeEnd, len(b.horizon)*dim)
	verts := make([]int, dim)
	clear(b.ridges)

	for i, r := range b.horizon {
		copy(verts, b.facets[r.visible].verts)
		verts[r.slot] = eye

		fp, ok := b.plane(verts)
		if !ok {
			return false
		}
		planes[i] = fp

		for s := range verts {
			if s == r.slot {
				continue
			}
			key := b.ridgeKey(verts, s)
			if end, ok := b.ridges[key]; ok {
				pairs[i*dim+s] = end
				pairs[end.cone*dim+end.slot] = ridgeEnd{cone: i, slot: s}
				delete(b.ridges, key)
			} else {
				b.ridges[key] = ridgeEnd{cone: i, slot: s}
			}
		}
	}

	if len(b.ridges) > 0 {
		return false
	}

	created := make([]int, len(b.horizon))
	for i := range created {
		created[i] = b.alloc()
	}

	for i, r := range b.horizon {
		id := created[i]
		nf := &b.facets[id]
		nf.verts = append(nf.verts, b.facets[r.visible].verts...)
		nf.verts[r.slot] = eye
		nf.facetPlane = planes[i]

		for s := range nf.verts {
			if s == r.slot {
				nf.nbrs = append(nf.nbrs, r.other)
			} else {
				nf.nbrs = append(nf.nbrs, created[pairs[i*dim+s].cone])
			}
		}

		// Two facets share at most one ridge, so exactly one slot matches.
		other := b.facets[r.other].nbrs
		for s, g := range other {
			if g == r.visible {
				other[s] = id
				break
			}
		}
	}

	for _, v := range b.queue {
		for _, p := range b.facets[v].outside {
			if p != eye {
				b.assignTo(p, created)
			}
		}
		b.release(v)
	}

	for i := len(created) - 1; i >= 0; i-- {
		if len(b.facets[created[i]].outside) > 0 {
			b.stack = append(b.stack, created[i])
		}
	}

	return true
}

// ridgeKey encodes verts without verts[skip] as an order-independent key.
func (b *builder) ridgeKey(verts []int, skip int) string {
	sorted := make([]int, 0, len(verts)-1)
	for i, v := range verts {
		if i != skip {
			sorted = append(sorted, v)
		}
	}
	slices.Sort(sorted)

	b.keyBuf = b.keyBuf[:0]
	for _, v := range sorted {
		b.keyBuf = strconv.AppendInt(b.keyBuf, int64(v), 36)
		b.keyBuf = append(b.keyBuf, ',')
	}

	return string(b.keyBuf)
}

// result compacts the live facets in arena order.
func (b *builder) result() *Hull {
	remap := make([]int, len(b.facets))
	count := 0
	for id := range b.facets {
		if b.facets[id].alive {
			remap[id] = count
			count++
		} else {
			remap[id] = -1
		}
	}

	out := &Hull{Dim: b.dim, Facets: make([]Facet, 0, count)}
	seen := make(map[int]struct{})

	for id := range b.facets {
		f := &b.facets[id]
		if !f.alive {
			continue
		}

		nbrs := make([]int, len(f.nbrs))
		for i, g := range f.nbrs {
			nbrs[i] = remap[g]
		}

		for _, v := range f.verts {
			seen[v] = struct{}{}
		}

		out.Facets = append(out.Facets, Facet{
			Vertices:  slices.Clone(f.verts),
			Neighbors: nbrs,
			Normal:    slices.Clone(f.plane.Normal),
			Offset:    f.plane.Offset,
		})
	}

	out.Vertices = make([]int, 0, len(seen))
	for v := range seen {
		out.Vertices = append(out.Vertices, v)
	}
	slices.Sort(out.Vertices)

	return out
}
