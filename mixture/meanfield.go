package mixture

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/mathext"
	"gonum.org/v1/gonum/stat/distuv"
)

// Variational is the mean-field approximation of the posterior:
// Dirichlet(Phi) on the weights and Normal(Mu_k, I/Tau_k) on each mean.
type Variational struct {
	Phi []float64
	Mu  *mat.Dense
	Tau []float64

	// Change is the largest absolute change of a mean coordinate in the
	// update that produced this state. It is zero for the initial state.
	Change float64
}

// Predictive returns the predictive density of the approximation,
//
//	sum_k Phi_k/sum(Phi) N(x | Mu_k, (1+Tau_k)/Tau_k I)
func (v Variational) Predictive(x []float64) float64 {
	total := floats.Sum(v.Phi)
	var p float64
	for k, phi := range v.Phi {
		p += phi / total * unitNormal(x, v.Mu.RawRowView(k), (1+v.Tau[k])/v.Tau[k])
	}
	return p
}

// MeanField runs coordinate-ascent updates of the variational parameters.
// It stops after a fixed number of iterations; Change is recorded but not
// used as a stopping rule.
type MeanField struct {
	K int
}

// Init returns Phi = Tau = 1 and means jittered by U(0, 0.1) around the
// origin so that the components are distinguishable.
func (m MeanField) Init(rnd *rand.Rand, dim int) Variational {
	if m.K <= 0 {
		panic("mixture: non-positive number of components")
	}
	v := Variational{
		Phi: make([]float64, m.K),
		Mu:  mat.NewDense(m.K, dim, nil),
		Tau: make([]float64, m.K),
	}
	jitter := distuv.Uniform{Min: 0, Max: 0.1, Src: rnd}
	for k := 0; k < m.K; k++ {
		v.Phi[k] = 1
		v.Tau[k] = 1
		mu := v.Mu.RawRowView(k)
		for d := range mu {
			mu[d] = jitter.Rand()
		}
	}
	return v
}

// Responsibilities returns the N×K matrix of expected memberships,
// softmax over k of
//
//	psi(Phi_k) - psi(sum Phi) - 1/Tau_k - ||x_i - Mu_k||^2 / 2
func Responsibilities(x mat.Matrix, v Variational) *mat.Dense {
	n, _ := x.Dims()
	k := len(v.Phi)
	psiSum := mathext.Digamma(floats.Sum(v.Phi))
	prior := make([]float64, k)
	for j := range prior {
		prior[j] = mathext.Digamma(v.Phi[j]) - psiSum - 1/v.Tau[j]
	}
	y := mat.NewDense(n, k, nil)
	var row []float64
	for i := 0; i < n; i++ {
		row = mat.Row(row, i, x)
		l := y.RawRowView(i)
		for j := range l {
			d := floats.Distance(row, v.Mu.RawRowView(j), 2)
			l[j] = prior[j] - d*d/2
		}
		lse := floats.LogSumExp(l)
		for j := range l {
			l[j] = math.Exp(l[j] - lse)
		}
	}
	return y
}

// Step returns the state after one update:
//
//	Phi_k += sum_i Y_ik
//	Mu_k   = (Tau_k Mu_k + sum_i x_i Y_ik) / (Tau_k + sum_i Y_ik)
//	Tau_k += sum_i Y_ik
//
// The mean update uses the precision from before the step. The input state
// is not modified.
func (m MeanField) Step(x mat.Matrix, v Variational) Variational {
	_, dim := x.Dims()
	y := Responsibilities(x, v)

	// xy[k] = sum_i x_i Y_ik
	var xy mat.Dense
	xy.Mul(y.T(), x)

	next := Variational{
		Phi: make([]float64, m.K),
		Mu:  mat.NewDense(m.K, dim, nil),
		Tau: make([]float64, m.K),
	}
	for k := 0; k < m.K; k++ {
		nk := mat.Sum(y.ColView(k))
		next.Phi[k] = v.Phi[k] + nk
		next.Tau[k] = v.Tau[k] + nk
		mu := next.Mu.RawRowView(k)
		old := v.Mu.RawRowView(k)
		for d := range mu {
			mu[d] = (v.Tau[k]*old[d] + xy.At(k, d)) / (v.Tau[k] + nk)
			next.Change = math.Max(next.Change, math.Abs(mu[d]-old[d]))
		}
	}
	return next
}

// Run performs iters updates from Init. Entry t of the returned history is
// the state after t updates.
func (m MeanField) Run(rnd *rand.Rand, x mat.Matrix, iters int) []Variational {
	_, dim := x.Dims()
	hist := make([]Variational, 0, iters+1)
	v := m.Init(rnd, dim)
	hist = append(hist, v)
	for t := 0; t < iters; t++ {
		v = m.Step(x, v)
		hist = append(hist, v)
	}
	return hist
}
