package geom

import (
	"math"
	"math/big"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// orientRatio bounds the floating-point determinant against the Hadamard bound
// of its rows. Closer to zero the sign is recomputed in rational arithmetic.
const orientRatio = 1e-12

// Orientation returns the sign of det[p1-p0, ..., pd-p0] for d+1 points of
// dimension d: +1, -1, or 0 when the points are affinely dependent.
//
// The sign is exact. A floating-point determinant is used when it is clearly
// away from zero; otherwise the coordinates are converted to rationals.
func Orientation(pts [][]float64) int {
	d := len(pts) - 1
	if d < 1 {
		return 0
	}

	a := mat.NewDense(d, d, nil)
	bound := 1.0

	for i := 1; i <= d; i++ {
		row := a.RawRowView(i - 1)
		floats.SubTo(row, pts[i], pts[0])
		bound *= floats.Norm(row, 2)
	}

	if det := mat.Det(a); bound > 0 && math.Abs(det) > orientRatio*bound {
		if det > 0 {
			return 1
		}
		return -1
	}

	return exactOrientation(pts)
}

// exactOrientation evaluates the orientation determinant by fraction-exact
// Gaussian elimination.
func exactOrientation(pts [][]float64) int {
	d := len(pts) - 1

	origin := make([]*big.Rat, d)
	for k, x := range pts[0][:d] {
		origin[k] = new(big.Rat).SetFloat64(x)
	}

	m := make([][]*big.Rat, d)
	for i := range m {
		m[i] = make([]*big.Rat, d)
		for k, x := range pts[i+1][:d] {
			r := new(big.Rat).SetFloat64(x)
			m[i][k] = r.Sub(r, origin[k])
		}
	}

	sign := 1
	f, t := new(big.Rat), new(big.Rat)

	for c := range d {
		p := c
		for p < d && m[p][c].Sign() == 0 {
			p++
		}
		if p == d {
			return 0
		}
		if p != c {
			m[p], m[c] = m[c], m[p]
			sign = -sign
		}
		sign *= m[c][c].Sign()

		for r := c + 1; r < d; r++ {
			if m[r][c].Sign() == 0 {
				continue
			}
			f.Quo(m[r][c], m[c][c])
			for k := c; k < d; k++ {
				m[r][k].Sub(m[r][k], t.Mul(f, m[c][k]))
			}
		}
	}

	return sign
}
