// Package geom provides the shared geometric primitives and error types used by
// the hull, triangulation and location packages.
//
// Hyperplanes are computed from cofactor determinants (gonum/mat) so that the
// normal of a facet depends only on the order of its vertices, which keeps hull
// construction deterministic for identical input.
package geom
