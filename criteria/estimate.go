package criteria

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// LogDensities returns the K×n matrix whose (k, i) element is
// log p(x_i | draw_k).
func LogDensities(x []float64, draws []Draw) *mat.Dense {
	if len(draws) == 0 || len(x) == 0 {
		panic("criteria: no draws or no data")
	}
	l := mat.NewDense(len(draws), len(x), nil)
	for k, d := range draws {
		row := l.RawRowView(k)
		for i, v := range x {
			row[i] = LogDensity(v, d)
		}
	}
	return l
}

// Loss estimates computed from one set of posterior draws.
type Loss struct {
	Train float64 // T, the Bayes training loss
	Gen   float64 // G, the Bayes generalization loss on held-out data
	AIC   float64
	WAIC  float64
	ISCV  float64
}

// Estimate computes the losses from draws of the posterior given train.
// The generalization loss is measured on test; if test is empty Gen is NaN.
//
//	T    = -1/n sum_i log E_w[p(x_i|w)]
//	AIC  = T + d/n
//	WAIC = T + 1/n sum_i V_w[log p(x_i|w)]
//	ISCV = 1/n sum_i log E_w[1/p(x_i|w)]
//
// Posterior averages are taken in the log domain. V_w is the population
// variance over the draws.
func Estimate(train, test []float64, draws []Draw) Loss {
	l := LogDensities(train, draws)
	n := float64(len(train))
	loss := Loss{
		Train: trainLoss(l),
		Gen:   math.NaN(),
	}
	if len(test) > 0 {
		loss.Gen = trainLoss(LogDensities(test, draws))
	}
	loss.AIC = loss.Train + NumParams/n

	k, cols := l.Dims()
	col := make([]float64, k)
	var penalty, cv float64
	for i := 0; i < cols; i++ {
		mat.Col(col, i, l)
		penalty += stat.PopVariance(col, nil)
		floats.Scale(-1, col)
		cv += floats.LogSumExp(col) - math.Log(float64(k))
	}
	loss.WAIC = loss.Train + penalty/n
	loss.ISCV = cv / n
	return loss
}

// trainLoss returns -1/n sum_i log(1/K sum_k exp(l_ki)).
func trainLoss(l *mat.Dense) float64 {
	k, n := l.Dims()
	col := make([]float64, k)
	logK := math.Log(float64(k))
	var sum float64
	for i := 0; i < n; i++ {
		mat.Col(col, i, l)
		sum += floats.LogSumExp(col) - logK
	}
	return -sum / float64(n)
}

// Information holds the free-energy based criteria, all normalized by n.
type Information struct {
	F    float64 // Free energy by thermodynamic integration
	BIC  float64
	WBIC float64
}

// BIC returns T + d log(n) / (2n), with the Bayes training loss T from draws
// of the posterior at inverse temperature one.
func BIC(x []float64, draws []Draw) float64 {
	n := float64(len(x))
	return trainLoss(LogDensities(x, draws)) + float64(NumParams)/2*math.Log(n)/n
}

// WBIC returns the posterior mean of -1/n sum_i log p(x_i|w). The draws must
// come from the posterior at inverse temperature WBICBeta(n).
func WBIC(x []float64, draws []Draw) float64 {
	var sum float64
	for _, d := range draws {
		sum -= LogLikelihood(x, d)
	}
	return sum / float64(len(draws)) / float64(len(x))
}

// WBICBeta returns the inverse temperature 1/log(n).
func WBICBeta(n int) float64 {
	return 1 / math.Log(float64(n))
}

// FreeEnergyStep returns the contribution of one rung of the temperature
// ladder to the normalized free energy,
//
//	-1/n log E_beta[exp(delta * L(w))]
//
// where L is the log likelihood and the draws come from the posterior at the
// rung's inverse temperature beta.
func FreeEnergyStep(x []float64, draws []Draw, delta float64) float64 {
	l := make([]float64, len(draws))
	for k, d := range draws {
		l[k] = delta * LogLikelihood(x, d)
	}
	return -(floats.LogSumExp(l) - math.Log(float64(len(draws)))) / float64(len(x))
}
