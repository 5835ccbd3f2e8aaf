package algorithm

import (
	"github.com/ngseq/pastitch/qual"
	"github.com/ngseq/pastitch/seq"
)

// rdpMLE mirrors the RDP maximum-likelihood merge scoring contributed by
// Qiong Wang. Grounded on original_source/algo_rdp_mle.c. The
// qual_mismatch_rdp_mle / qual_mismatch_assembled_rdp_mle matrices are not
// derivable from the retrieved source subset (see DESIGN.md); both are
// approximated by qual.Mismatch, the general Bayesian mismatch table.
type rdpMLE struct{}

// NewRDPMLE builds the RDP-MLE scorer. It takes no parameters.
func NewRDPMLE() Scorer {
	return &rdpMLE{}
}

func (rdp *rdpMLE) OverlapLogProb(forward, reverse seq.QRead, overlapLen int) float64 {
	var probability float64
	for i := 0; i < overlapLen; i++ {
		findex, rindex := overlapIndices(len(forward), len(reverse), overlapLen, i)
		if !inRange(findex, rindex, len(forward), len(reverse)) {
			continue
		}
		f, r := forward[findex], reverse[rindex]
		fq, rq := qual.Clamp(f.Phred), qual.Clamp(r.Phred)
		if f.Nt.Matches(r.Nt) {
			probability += qual.Match[fq][rq] - qual.NN
		} else {
			probability += qual.Mismatch[fq][rq] - qual.NN
		}
	}
	return probability
}

// MatchLogProb uses the maximum of the two PHREDs for matches, per
// algo_rdp_mle.c's observation that independence assumptions don't hold on
// the data it was tuned against.
func (rdp *rdpMLE) MatchLogProb(match bool, aPHRED, bPHRED uint8) float64 {
	a, b := qual.Clamp(aPHRED), qual.Clamp(bPHRED)
	if match {
		max := a
		if b > max {
			max = b
		}
		return qual.Score[max]
	}
	return qual.Mismatch[a][b]
}

func (rdp *rdpMLE) UnpairedNLogProb() float64 {
	return qual.NN
}
