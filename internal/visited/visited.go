// Package visited provides an epoch-stamped membership set for dense integer
// ids. Reset is O(1): it advances the epoch instead of clearing storage.
package visited

// Set records which ids were marked since the last Reset.
type Set struct {
	stamps []uint32
	epoch  uint32
	count  int
}

// New creates a set sized for ids below capacity. It grows on demand.
func New(capacity int) *Set {
	return &Set{
		stamps: make([]uint32, capacity),
		epoch:  1,
	}
}

// Mark adds id to the set and reports whether it was absent before.
func (s *Set) Mark(id int) bool {
	if id >= len(s.stamps) {
		s.grow(id + 1)
	}

	if s.stamps[id] == s.epoch {
		return false
	}

	s.stamps[id] = s.epoch
	s.count++

	return true
}

// Has reports whether id was marked since the last Reset.
func (s *Set) Has(id int) bool {
	return id < len(s.stamps) && s.stamps[id] == s.epoch
}

// Len returns the number of ids marked since the last Reset.
func (s *Set) Len() int { return s.count }

// Reset forgets all marks.
func (s *Set) Reset() {
	s.count = 0
	s.epoch++
	if s.epoch == 0 {
		// Wrapped around: stale stamps could alias the new epoch.
		clear(s.stamps)
		s.epoch = 1
	}
}

func (s *Set) grow(n int) {
	newCap := max(2*len(s.stamps), n)
	stamps := make([]uint32, newCap)
	copy(stamps, s.stamps)
	s.stamps = stamps
}
