// Package algorithm provides the pluggable overlap-scoring models: one
// Scorer implementation per variant (SimpleBayes, PEAR, FLASH, UPARSE,
// RDP-MLE, Stitch). Each is an immutable value after construction, built
// once and shared by every assemble.Assembler that uses it (spec.md §5,
// "the algorithm object is immutable after first use").
package algorithm

import (
	"github.com/ngseq/pastitch/nt"
	"github.com/ngseq/pastitch/seq"
)

// Scorer is the capability set every scoring algorithm exposes: the
// log-probability of a full candidate overlap, the log-probability of a
// single base pair within it, and the log-probability of an unpaired (or
// N-adjacent) position. This replaces the C source's struct-of-function-
// pointers class with a small Go interface (spec.md §9, "Polymorphic
// algorithm dispatch").
type Scorer interface {
	// OverlapLogProb scores a candidate overlap of the given length between
	// the 3' end of forward and the 3' end of reverse (reverse is indexed
	// from its end, matching the read orientation spec.md §3 describes).
	OverlapLogProb(forward, reverse seq.QRead, overlapLen int) float64
	// MatchLogProb scores a single aligned base pair.
	MatchLogProb(match bool, aPHRED, bPHRED uint8) float64
	// UnpairedNLogProb is the constant log-probability assigned to a
	// position outside the overlap, or where one side is N.
	UnpairedNLogProb() float64
}

// overlapIndices returns the forward/reverse read indices for overlap
// position i of an overlap of length overlapLen, exactly as every C
// variant computes findex/rindex.
func overlapIndices(forwardLen, reverseLen, overlapLen, i int) (findex, rindex int) {
	return forwardLen + i - overlapLen, reverseLen - i - 1
}

func inRange(findex, rindex, forwardLen, reverseLen int) bool {
	return findex >= 0 && rindex >= 0 && findex < forwardLen && rindex < reverseLen
}

// isN reports whether either side of a base pair is the fully-ambiguous N,
// matching PANDA_NT_IS_N's exact-equality test (a merely degenerate call
// like R={A,G} is not treated as N).
func isN(f, r nt.Base) bool {
	return f == nt.N || r == nt.N
}
