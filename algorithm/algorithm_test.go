package algorithm

import (
	"math"
	"testing"

	"github.com/grailbio/testutil/expect"
	"github.com/ngseq/pastitch/nt"
	"github.com/ngseq/pastitch/seq"
)

func mkRead(bases string, phred uint8) seq.QRead {
	r := make(seq.QRead, len(bases))
	for i := 0; i < len(bases); i++ {
		r[i] = seq.QBase{Nt: nt.FromASCII(bases[i]), Phred: phred}
	}
	return r
}

var scorers = map[string]Scorer{
	"SimpleBayes": NewSimpleBayes(0.36),
	"PEAR":        NewPEAR(math.Log(0.25)),
	"FLASH":       NewFLASH(),
	"UPARSE":      NewUPARSE(0.36),
	"RDPMLE":      NewRDPMLE(),
	"Stitch":      NewStitch(),
}

func TestPerfectOverlapScoresHigherThanMismatched(t *testing.T) {
	// overlapIndices pairs forward[i] against reverse[len-1-i] with no
	// complement step, since reverse already arrives per-base complemented
	// without reordering (see DESIGN.md, "reverse-read
	// orientation"): a literal zero-mismatch reverse is forward reversed,
	// not a copy of forward.
	forward := mkRead("ACGTACGT", 40)
	perfectReverse := mkRead("TGCATGCA", 40) // reverse("ACGTACGT")
	mismatchReverse := mkRead("TGCATGCG", 40)
	for name, s := range scorers {
		perfect := s.OverlapLogProb(forward, perfectReverse, 8)
		mismatch := s.OverlapLogProb(forward, mismatchReverse, 8)
		if name == "Stitch" {
			// stitch's score isn't -Inf safe at zero mismatches trivially,
			// but it is still monotonic: fewer mismatches scores higher.
		}
		if name == "FLASH" {
			// FLASH scores log(mismatches/realOverlap): -Inf at zero
			// mismatches, so the perfect overlap ranks below the mismatched
			// one (see TestFLASHZeroMismatchesIsNegInf).
			expect.True(t, math.IsInf(perfect, -1) && perfect < mismatch)
			continue
		}
		expect.True(t, perfect > mismatch || math.IsInf(perfect, 1))
	}
}

func TestFLASHZeroMismatchesIsNegInf(t *testing.T) {
	forward := mkRead("ACGTACGT", 40)
	reverse := mkRead("TGCATGCA", 40) // reverse("ACGTACGT"): zero mismatches
	f := NewFLASH()
	got := f.OverlapLogProb(forward, reverse, 8)
	expect.True(t, math.IsInf(got, -1))
}

func TestMatchLogProbNeverNaN(t *testing.T) {
	for _, s := range scorers {
		for a := uint8(0); a <= qualMax; a++ {
			for b := uint8(0); b <= qualMax; b++ {
				got := s.MatchLogProb(true, a, b)
				expect.False(t, math.IsNaN(got))
				got = s.MatchLogProb(false, a, b)
				expect.False(t, math.IsNaN(got))
			}
		}
	}
}

const qualMax = 46

func TestOutOfRangeIndicesSkipped(t *testing.T) {
	// overlap longer than either read must not panic; it should simply
	// skip positions outside range.
	forward := mkRead("AC", 40)
	reverse := mkRead("AC", 40)
	for _, s := range scorers {
		got := s.OverlapLogProb(forward, reverse, 10)
		_ = got // must not panic
	}
}
