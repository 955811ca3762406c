package geom

import (
	"gonum.org/v1/gonum/floats"
)

// AffineBasis greedily selects up to dim+1 affinely independent points from the
// candidates. The first pick is the lexicographically smallest candidate (the
// earliest on ties); each further pick is the candidate furthest from the affine
// span of the points already chosen, again preferring the earliest on ties.
// Selection stops when no candidate is further than tol from the span.
//
// The returned slice holds positions into candidates; its length minus one is
// the affine rank that was found.
func AffineBasis(dim int, candidates []int, at func(i int) []float64, tol float64) []int {
	if len(candidates) == 0 {
		return nil
	}

	first := 0
	for c := 1; c < len(candidates); c++ {
		if lexLess(at(candidates[c]), at(candidates[first])) {
			first = c
		}
	}

	chosen := []int{first}
	origin := at(candidates[first])
	basis := make([][]float64, 0, dim)
	residual := make([]float64, dim)

	for len(chosen) <= dim {
		best, bestDist := -1, tol
		for c := range candidates {
			dist := spanDistance(residual, at(candidates[c]), origin, basis)
			if dist > bestDist {
				best, bestDist = c, dist
			}
		}

		if best < 0 {
			break
		}

		spanDistance(residual, at(candidates[best]), origin, basis)
		dir := make([]float64, dim)
		floats.ScaleTo(dir, 1/floats.Norm(residual, 2), residual)
		basis = append(basis, dir)
		chosen = append(chosen, best)
	}

	return chosen
}

// spanDistance writes the component of p-origin orthogonal to basis into dst
// and returns its length. Gram-Schmidt is applied twice for stability.
func spanDistance(dst, p, origin []float64, basis [][]float64) float64 {
	floats.SubTo(dst, p, origin)
	for pass := 0; pass < 2; pass++ {
		for _, q := range basis {
			floats.AddScaled(dst, -floats.Dot(dst, q), q)
		}
	}
	return floats.Norm(dst, 2)
}

func lexLess(a, b []float64) bool { return LexCompare(a, b) < 0 }

// LexCompare orders points by coordinates, first axis most significant.
func LexCompare(a, b []float64) int {
	for k := range a {
		switch {
		case a[k] < b[k]:
			return -1
		case a[k] > b[k]:
			return 1
		}
	}
	return 0
}
