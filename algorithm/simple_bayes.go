package algorithm

import (
	"math"

	"github.com/ngseq/pastitch/qual"
	"github.com/ngseq/pastitch/seq"
)

// simpleBayes is the default scoring model: a naive-Bayes estimate of
// match/mismatch probability driven by a single error-rate parameter q.
// Grounded on original_source/algo_simple_bayes.c.
type simpleBayes struct {
	q         float64
	pMatch    float64
	pMismatch float64
}

// NewSimpleBayes builds the default scoring algorithm with error-rate
// parameter q (0,1), default 0.36 as in panda_algorithm_simple_bayes_new.
func NewSimpleBayes(q float64) Scorer {
	return &simpleBayes{
		q:         q,
		pMatch:    math.Log(0.25 * (1 - 2*q + q*q)),
		pMismatch: math.Log((3*q - 2*q*q) / 18.0),
	}
}

func (s *simpleBayes) OverlapLogProb(forward, reverse seq.QRead, overlapLen int) float64 {
	var matches, mismatches, unknowns int
	for i := 0; i < overlapLen; i++ {
		findex, rindex := overlapIndices(len(forward), len(reverse), overlapLen, i)
		if !inRange(findex, rindex, len(forward), len(reverse)) {
			continue
		}
		f, r := forward[findex].Nt, reverse[rindex].Nt
		switch {
		case isN(f, r):
			unknowns++
		case f.Matches(r):
			matches++
		default:
			mismatches++
		}
	}
	residual := float64(len(forward)+len(reverse)-2*overlapLen+unknowns) * qual.NN
	return residual + float64(matches)*s.pMatch + float64(mismatches)*s.pMismatch
}

func (s *simpleBayes) MatchLogProb(match bool, aPHRED, bPHRED uint8) float64 {
	a, b := qual.Clamp(aPHRED), qual.Clamp(bPHRED)
	if match {
		return qual.Match[a][b]
	}
	return qual.Mismatch[a][b]
}

func (s *simpleBayes) UnpairedNLogProb() float64 {
	return qual.NN
}
