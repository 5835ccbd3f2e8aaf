// Package qual precomputes the PHRED-to-log-probability tables the scoring
// algorithms and the consensus builder read from, and the log-space helpers
// (log1mexp) used to move between a result's p_log and a plain probability.
package qual

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// PHREDMAX is the highest PHRED score the tables cover; PHRED is clamped to
// [0, PHREDMAX] everywhere in this package and its callers.
const PHREDMAX = 46

// NN is the log-probability assigned to a one-sided N: log(0.25).
const NN = -1.3862943611198906 // math.Log(0.25), computed here to document the constant

// Match[a][b] and Mismatch[a][b] are indexed by clamped PHRED scores and
// hold, respectively, the log-probability that two bases with those
// qualities are the same underlying base and that they differ, under the
// simple Bayesian model shared by SimpleBayes and as the fallback basis for
// the algorithm-specific variants that lack a retrievable source table (see
// DESIGN.md).
var Match [PHREDMAX + 1][PHREDMAX + 1]float64
var Mismatch [PHREDMAX + 1][PHREDMAX + 1]float64

// Score[q] is log(1 - p(q)), the log-probability that a base with PHRED q is
// correct. Score[0] is the -2 sentinel the original tables use, since p(0)=1
// makes log(1-p) undefined.
var Score [PHREDMAX + 1]float64

// ScoreErr[q] is log(p(q)), the log-probability that a base with PHRED q is
// wrong.
var ScoreErr [PHREDMAX + 1]float64

func init() {
	for q := 0; q <= PHREDMAX; q++ {
		p := Probability(uint8(q))
		if q == 0 {
			Score[q] = -2
		} else {
			Score[q] = math.Log(1 - p)
		}
		ScoreErr[q] = math.Log(p)
	}
	for a := 0; a <= PHREDMAX; a++ {
		pa := Probability(uint8(a))
		for b := 0; b <= PHREDMAX; b++ {
			pb := Probability(uint8(b))
			Match[a][b] = math.Log((1-pa)*(1-pb) + pa*pb/3)
			Mismatch[a][b] = math.Log((1-pa)*pb/3 + (1-pb)*pa/3 + 2*pa*pb/9)
		}
	}
}

// Clamp restricts phred to [0, PHREDMAX].
func Clamp(phred uint8) uint8 {
	if phred > PHREDMAX {
		return PHREDMAX
	}
	return phred
}

// Probability converts a (clamped) PHRED score to an error probability,
// p = 10^(-phred/10).
func Probability(phred uint8) float64 {
	return math.Pow(10, -float64(Clamp(phred))/10)
}

// Log1mexp computes log(1 - exp(-p)) for p > 0 using Mächler's formulation,
// which stays numerically stable across the full range instead of naively
// evaluating exp then log.
func Log1mexp(p float64) float64 {
	if p <= 0 {
		return math.Inf(-1)
	}
	if p > math.Ln2 {
		return math.Log1p(-math.Exp(-p))
	}
	return math.Log(-math.Expm1(-p))
}

// MeanLogProb returns the arithmetic mean of a slice of log-probabilities,
// the quantity assemble.Result.Quality is computed from.
func MeanLogProb(logProbs []float64) float64 {
	if len(logProbs) == 0 {
		return 0
	}
	return floats.Sum(logProbs) / float64(len(logProbs))
}
