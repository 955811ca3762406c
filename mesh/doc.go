// Package mesh provides SimplexMesh, the immutable result of a Delaunay
// triangulation.
//
// A Mesh stores simplices as sorted tuples of point indices together with a
// neighbor table: Neighbor(s, i) is the simplex across the facet opposite the
// i-th vertex of s, or -1 on the hull boundary. Per-vertex stars are kept as
// roaring bitmaps.
package mesh
