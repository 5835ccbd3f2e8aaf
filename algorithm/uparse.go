package algorithm

import (
	"math"

	"github.com/ngseq/pastitch/qual"
	"github.com/ngseq/pastitch/seq"
)

// uparse mirrors USEARCH/UPARSE's overlap merge scoring. Grounded on
// original_source/algo_uparse.c. The UPARSE-specific match/mismatch
// matrices are approximated by qual.Match/qual.Mismatch (see DESIGN.md);
// pMatch/pMismatch below use UPARSE's own closed-form derivation, which is
// retrievable directly from the source and kept exact.
type uparse struct {
	q         float64
	pMatch    float64
	pMismatch float64
}

// NewUPARSE builds the UPARSE-style scorer with error-rate parameter q,
// default 0.36 as in panda_algorithm_uparse_new.
func NewUPARSE(q float64) Scorer {
	return &uparse{
		q:         q,
		pMatch:    math.Log(1 - q*q*(1-2*q+4*q*q/3)),
		pMismatch: math.Log(1 - 4*q/3/(2*q-4*q*q/3)),
	}
}

func (u *uparse) OverlapLogProb(forward, reverse seq.QRead, overlapLen int) float64 {
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
	base := float64(matches)*u.pMatch + float64(mismatches)*u.pMismatch
	if overlapLen >= len(forward) && overlapLen >= len(reverse) {
		return qual.NN*float64(unknowns) + base
	}
	return qual.NN*float64(len(forward)+len(reverse)-2*overlapLen+unknowns) + base
}

func (u *uparse) MatchLogProb(match bool, aPHRED, bPHRED uint8) float64 {
	a, b := qual.Clamp(aPHRED), qual.Clamp(bPHRED)
	if match {
		return qual.Match[a][b]
	}
	return qual.Mismatch[a][b]
}

func (u *uparse) UnpairedNLogProb() float64 {
	return qual.NN
}
