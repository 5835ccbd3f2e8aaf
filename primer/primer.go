// Package primer implements the probabilistic local primer aligner (C4):
// locating the 3' end of a possibly-degenerate primer template within a
// read. Grounded on original_source/offset.c's computeoffset.
package primer

import (
	"math"

	"github.com/ngseq/pastitch/nt"
	"github.com/ngseq/pastitch/qual"
	"github.com/ngseq/pastitch/seq"
)

// baseScore reports, for read position i, the base call and the
// log-probabilities that it is correct / incorrect. ComputeOffsetQual and
// ComputeOffsetResult each supply one, matching the C source's two
// `base_score` callback implementations (qual_base_score, result_base_score).
type baseScore func(i int) (base nt.Base, prob, notProb float64)

// Aligner holds a reusable circular probability buffer sized to the
// longest primer configured, so an assemble.Assembler can align many pairs
// against the same primer set without reallocating per call (spec.md §3,
// "Lifecycles... all per-pair scratch is reused").
type Aligner struct {
	prob []float64
}

// NewAligner returns an Aligner with no preallocated capacity; the buffer
// grows (and is reused) on first use.
func NewAligner() *Aligner {
	return &Aligner{}
}

// ensure grows a.prob to at least n slots without discarding capacity,
// mirroring the k-mer table's touched-slots reuse discipline.
func (a *Aligner) ensure(n int) []float64 {
	if cap(a.prob) < n {
		a.prob = make([]float64, n)
	}
	return a.prob[:n]
}

// computeOffset is the shared core of ComputeOffsetQual/ComputeOffsetResult:
// a circular buffer of partial alignment log-probabilities indexed by start
// offset modulo the primer length, exactly as computeoffset in offset.c.
// Returns the 1-based index just past the last primer base on success, or 0.
func (a *Aligner) computeOffset(threshold, penalty float64, reverse bool, seqLength int, primer []nt.Base, score baseScore) int {
	primerLen := len(primer)
	if primerLen > seqLength || primerLen == 0 {
		return 0
	}
	probabilities := a.ensure(primerLen)
	for i := range probabilities {
		probabilities[i] = math.Inf(-1)
	}
	bestPr := math.Exp(float64(primerLen) * threshold)
	bestIndex := 0

	circ := func(index int) int {
		return ((index % primerLen) + primerLen) % primerLen
	}

	for index := 0; index < seqLength; index++ {
		slot := circ(index)
		lastPr := math.Exp(probabilities[slot]/float64(index+1)) - float64(index)*penalty
		if lastPr > bestPr {
			bestPr = lastPr
			bestIndex = index + 1
		}
		probabilities[slot] = 0

		maxX := index
		if primerLen <= index {
			maxX = primerLen - 1
		}
		for x := maxX; x >= 0; x-- {
			if primer[x] == nt.N {
				continue
			}
			readPos := index
			if reverse {
				readPos = seqLength - index - 1
			}
			base, p, notP := score(readPos)
			contribution := notP
			if base&primer[x] != 0 {
				contribution = p
			}
			probabilities[circ(index-x)] += contribution
		}
	}
	return bestIndex
}

// ComputeOffsetQual aligns primer against a caller-owned QRead using PHRED-
// derived scores (qual.Score / qual.ScoreErr), the "reads with PHRED"
// branch of spec.md §4.3.
func (a *Aligner) ComputeOffsetQual(read seq.QRead, primer []nt.Base, thresholdLog, penalty float64, reverse bool) int {
	return a.computeOffset(thresholdLog, penalty, reverse, len(read), primer, func(i int) (nt.Base, float64, float64) {
		b := read[i]
		phred := qual.Clamp(b.Phred)
		return b.Nt, qual.Score[phred], qual.ScoreErr[phred]
	})
}

// ComputeOffsetResult aligns primer against a reconstructed ResultRead,
// deriving scores from the consensus p_log via qual.Log1mexp, the
// "consensus p_log" branch of spec.md §4.3 (used when primers are trimmed
// after assembly, primers_after=true).
func (a *Aligner) ComputeOffsetResult(result seq.ResultRead, primer []nt.Base, thresholdLog, penalty float64, reverse bool) int {
	return a.computeOffset(thresholdLog, penalty, reverse, len(result), primer, func(i int) (nt.Base, float64, float64) {
		b := result[i]
		return b.Nt, b.PLog, qual.Log1mexp(-b.PLog)
	})
}
