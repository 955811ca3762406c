// Package hull computes convex hulls of point sets in arbitrary dimension.
//
// The Oracle interface decouples the triangulation pipeline from the hull
// algorithm. Incremental is the default implementation: a quickhull variant
// with conflict lists, an explicit work stack and a facet arena, so that no
// step recurses and facet storage is recycled as the hull grows.
//
// Ties are broken deterministically. Among points at equal distance from a
// facet the one with the lower index is processed first, and a point within
// tolerance of a facet plane does not see that facet. Feeding the same
// PointSet twice yields identical hulls.
package hull
