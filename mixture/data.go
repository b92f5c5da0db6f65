// Package mixture fits a K-component isotropic Gaussian mixture to points in
// the plane, either by blocked Gibbs sampling or by mean-field variational
// updates, and evaluates the resulting predictive densities.
//
// Every component has identity covariance; only the mixing weights and the
// component means are inferred.
package mixture

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
)

// Cluster describes N points drawn from Normal(Mean, I).
type Cluster struct {
	Mean []float64
	N    int
}

// Generate draws the observation set for the given clusters. Row i of x is
// an observation and labels[i] the index of the cluster that produced it.
// Clusters are laid out consecutively.
func Generate(rnd *rand.Rand, clusters []Cluster) (x *mat.Dense, labels []int) {
	if len(clusters) == 0 {
		panic("mixture: no clusters")
	}
	dim := len(clusters[0].Mean)
	var total int
	for _, c := range clusters {
		if len(c.Mean) != dim {
			panic("mixture: cluster dimension mismatch")
		}
		total += c.N
	}
	if total == 0 {
		panic("mixture: no observations")
	}
	eye := mat.NewDiagDense(dim, nil)
	for i := 0; i < dim; i++ {
		eye.SetDiag(i, 1)
	}
	x = mat.NewDense(total, dim, nil)
	labels = make([]int, 0, total)
	var row int
	for k, c := range clusters {
		n, ok := distmv.NewNormal(c.Mean, eye, rnd)
		if !ok {
			panic("mixture: bad covariance")
		}
		for i := 0; i < c.N; i++ {
			n.Rand(x.RawRowView(row))
			labels = append(labels, k)
			row++
		}
	}
	return x, labels
}

// Density is a function of a point in the plane.
type Density func(x []float64) float64

// MeanLogDensity returns the average log density of the rows of x.
func MeanLogDensity(p Density, x mat.Matrix) float64 {
	r, c := x.Dims()
	row := make([]float64, c)
	var sum float64
	for i := 0; i < r; i++ {
		mat.Row(row, i, x)
		sum += math.Log(p(row))
	}
	return sum / float64(r)
}
