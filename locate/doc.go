// Package locate answers point-location queries on a simplex mesh.
//
// An Index precomputes the inverse barycentric transform of every simplex and
// a coarse seed grid over the mesh bounding box. Queries start at the grid
// cell's seed simplex and walk towards the point, always crossing the facet
// with the most negative barycentric coordinate. Walks that revisit a
// simplex, or that enter a simplex whose transform could not be inverted,
// fall back to a bruteforce scan, so every query has a definite answer.
//
// When a point lies on a facet shared by several simplices, the lowest mesh
// index among them is reported by both strategies.
//
// The Index is read-only after New and safe for concurrent use. A Cursor
// remembers the last simplex found and is owned by a single goroutine.
package locate
