package algorithm

import (
	"math"

	"github.com/ngseq/pastitch/qual"
	"github.com/ngseq/pastitch/seq"
)

// flash mirrors FLASH's overlap scoring (Magoc & Biggers). Grounded on
// original_source/algo_flash.c. Unlike the other variants this is not a
// normalized log-probability: it is log(mismatches/realOverlap), a pure
// ranking score that is -Inf when there are zero mismatches (Open Question
// #1, see DESIGN.md and SPEC_FULL.md §7). realOverlap only counts
// positions that were actually in range on both reads, a denominator kept
// distinct from the other variants' full overlapLen (Open Question #2).
type flash struct{}

// NewFLASH builds the FLASH-style scorer. It takes no parameters.
func NewFLASH() Scorer {
	return &flash{}
}

func (f *flash) OverlapLogProb(forward, reverse seq.QRead, overlapLen int) float64 {
	var mismatches, realOverlap int
	for i := 0; i < overlapLen; i++ {
		findex, rindex := overlapIndices(len(forward), len(reverse), overlapLen, i)
		if !inRange(findex, rindex, len(forward), len(reverse)) {
			continue
		}
		fb, rb := forward[findex], reverse[rindex]
		if isN(fb.Nt, rb.Nt) || !fb.Nt.Matches(rb.Nt) {
			mismatches++
		}
		realOverlap++
	}
	return math.Log(float64(mismatches) / float64(realOverlap))
}

func (f *flash) MatchLogProb(match bool, aPHRED, bPHRED uint8) float64 {
	a, b := int(qual.Clamp(aPHRED)), int(qual.Clamp(bPHRED))
	var score int
	if match {
		if a > b {
			score = a
		} else {
			score = b
		}
	} else {
		score = a - b
		if score < 0 {
			score = -score
		}
		if score < 2 {
			score = 2
		}
	}
	return qual.Score[score]
}

func (f *flash) UnpairedNLogProb() float64 {
	return qual.NN
}
