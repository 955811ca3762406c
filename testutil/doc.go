// Package testutil provides testing utilities for delaunay.
//
// This package is intended for use in tests and benchmarks only.
// It provides seeded generators for point clouds, including adversarial
// layouts (cospherical, lattice, clustered) that stress the tolerance policy
// of hull construction and point location.
//
// # Random Point Generation
//
//	rng := testutil.NewRNG(seed)
//	pts := rng.UniformPoints(1000, 5)    // uniform in [0, 1)^5
//	sphere := rng.SpherePoints(200, 3)   // all on the unit sphere
//
// # Fixed Scenarios
//
//	square := testutil.UnitSquareWithCentre()
package testutil
