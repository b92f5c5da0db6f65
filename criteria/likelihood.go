package criteria

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Surface is the likelihood of the first N points evaluated on a grid of
// parameters. Value(i, j) is at (A[i], B[j]), rescaled so that the maximum
// is one.
type Surface struct {
	A, B  []float64
	N     int
	Value *mat.Dense
}

// LikelihoodSurfaces returns one surface per prefix of x, for n = 1..len(x).
// The log likelihood is accumulated point by point over the grid and each
// surface is exponentiated after subtracting its maximum, so that long
// prefixes do not underflow.
func LikelihoodSurfaces(x, as, bs []float64) []Surface {
	if len(as) == 0 || len(bs) == 0 {
		panic("criteria: empty grid")
	}
	ll := mat.NewDense(len(as), len(bs), nil)
	raw := ll.RawMatrix().Data
	surfaces := make([]Surface, 0, len(x))
	for n, v := range x {
		for i, a := range as {
			row := ll.RawRowView(i)
			for j, b := range bs {
				row[j] += LogDensity(v, Draw{A: a, B: b})
			}
		}
		top := floats.Max(raw)
		val := mat.NewDense(len(as), len(bs), nil)
		dst := val.RawMatrix().Data
		for i, l := range raw {
			dst[i] = math.Exp(l - top)
		}
		surfaces = append(surfaces, Surface{A: as, B: bs, N: n + 1, Value: val})
	}
	return surfaces
}
