// Package distribution provides the target densities sampled by the chains in
// package mcmc. Targets only need to be known up to a normalizing constant;
// the ones that also know their normalized density implement Prober so the
// sampled histogram can be compared against the truth.
package distribution

// LogProber is an unnormalized log density.
type LogProber interface {
	LogProb(x []float64) float64
}

// ScoreInputer computes the gradient of the log density with respect to the
// input, storing it into deriv. If deriv is nil a new slice is allocated.
type ScoreInputer interface {
	ScoreInput(deriv, x []float64) []float64
}

// Prober is a normalized density.
type Prober interface {
	Prob(x []float64) float64
}

// Target is a log density with a gradient, as needed by gradient-informed
// proposals.
type Target interface {
	LogProber
	ScoreInputer
}
