package algorithm

import (
	"math"

	"github.com/ngseq/pastitch/qual"
	"github.com/ngseq/pastitch/seq"
)

// stitch is the only non-probabilistic scorer (ported from audy/stitch): a
// simple +1/-1/0 per-position integer score, normalized by read length and
// logged. It participates in the same Scorer interface as the probabilistic
// variants. Grounded on original_source/algo_stitch.c.
type stitch struct{}

// NewStitch builds the stitch scorer. It takes no parameters.
func NewStitch() Scorer {
	return &stitch{}
}

func (s *stitch) OverlapLogProb(forward, reverse seq.QRead, overlapLen int) float64 {
	var score int
	for i := 0; i < overlapLen; i++ {
		findex, rindex := overlapIndices(len(forward), len(reverse), overlapLen, i)
		if !inRange(findex, rindex, len(forward), len(reverse)) {
			continue
		}
		f, r := forward[findex].Nt, reverse[rindex].Nt
		switch {
		case isN(f, r):
			// no change
		case f.Matches(r):
			score++
		default:
			score--
		}
	}
	return math.Log(float64(score) / float64(len(forward)+len(reverse)))
}

// MatchLogProb: stitch doesn't reconstruct quality scores, so it falls
// back to the plain Bayesian tables, exactly as algo_stitch.c's comment
// says.
func (s *stitch) MatchLogProb(match bool, aPHRED, bPHRED uint8) float64 {
	a, b := qual.Clamp(aPHRED), qual.Clamp(bPHRED)
	if match {
		return qual.Match[a][b]
	}
	return qual.Mismatch[a][b]
}

func (s *stitch) UnpairedNLogProb() float64 {
	return qual.NN
}
