package algorithm

import (
	"github.com/ngseq/pastitch/qual"
	"github.com/ngseq/pastitch/seq"
)

// pear mirrors PEAR's overlap assembler scoring. Grounded on
// original_source/algo_pear.c. The PEAR-specific match/mismatch matrices
// (qual_match_pear, qual_mismatch_pear) are not derivable from the retrieved
// source subset (see DESIGN.md); they are approximated by qual.Match and
// qual.Mismatch, the general Bayesian tables.
type pear struct {
	randomBaseLogP float64
}

// NewPEAR builds the PEAR-style scorer. randomBaseLogP defaults to
// math.Log(0.25), the probability of guessing a random base.
func NewPEAR(randomBaseLogP float64) Scorer {
	return &pear{randomBaseLogP: randomBaseLogP}
}

func (p *pear) OverlapLogProb(forward, reverse seq.QRead, overlapLen int) float64 {
	var probability float64
	for i := 0; i < overlapLen; i++ {
		findex, rindex := overlapIndices(len(forward), len(reverse), overlapLen, i)
		if !inRange(findex, rindex, len(forward), len(reverse)) {
			continue
		}
		f, r := forward[findex], reverse[rindex]
		switch {
		case isN(f.Nt, r.Nt):
			probability -= p.randomBaseLogP
		case f.Nt.Matches(r.Nt):
			probability += qual.Match[qual.Clamp(f.Phred)][qual.Clamp(r.Phred)]
		default:
			probability += qual.Mismatch[qual.Clamp(f.Phred)][qual.Clamp(r.Phred)]
		}
	}
	return probability
}

func (p *pear) MatchLogProb(match bool, aPHRED, bPHRED uint8) float64 {
	a, b := qual.Clamp(aPHRED), qual.Clamp(bPHRED)
	if match {
		return qual.Match[a][b]
	}
	return qual.Mismatch[a][b]
}

func (p *pear) UnpairedNLogProb() float64 {
	return qual.NN
}
