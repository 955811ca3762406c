package locate

// Cursor is a per-caller query handle that starts each walk where the
// previous successful query ended. Queries with spatial coherence, such as
// neighboring pixels, then take only a few steps.
//
// A Cursor is not safe for concurrent use; create one per goroutine.
type Cursor struct {
	ix   *Index
	last int
}

// NewCursor creates a Cursor over ix.
func (ix *Index) NewCursor() *Cursor {
	return &Cursor{ix: ix, last: -1}
}

// Locate behaves like Index.Locate.
func (c *Cursor) Locate(p []float64) (Location, bool) {
	loc, ok := c.ix.locate(p, c.last, c.ix.opts.Epsilon)
	if ok {
		c.last = loc.Simplex
	}
	return loc, ok
}

// Last returns the simplex found by the previous successful query, or -1.
func (c *Cursor) Last() int { return c.last }

// Reset forgets the previous result.
func (c *Cursor) Reset() { c.last = -1 }
