package assemble

import (
	"math"
	"testing"

	"github.com/grailbio/testutil/expect"
	"github.com/ngseq/pastitch/algorithm"
	"github.com/ngseq/pastitch/nt"
	"github.com/ngseq/pastitch/qual"
	"github.com/ngseq/pastitch/seq"
)

func mkRead(bases string, phred uint8) seq.QRead {
	r := make(seq.QRead, len(bases))
	for i := range bases {
		r[i] = seq.QBase{Nt: nt.FromASCII(bases[i]), Phred: phred}
	}
	return r
}

func mkPrimer(bases string) []nt.Base {
	p := make([]nt.Base, len(bases))
	for i := range bases {
		p[i] = nt.FromASCII(bases[i])
	}
	return p
}

func mkId(tag string) Id {
	return Id{Instrument: "M00001", Run: 1, Flowcell: "FC1", Lane: 1, Tile: 1, X: 0, Y: 0, Tag: tag}
}

// S1 — a clean, fully-overlapping pair. The reverse read arrives per-base
// complemented without reordering (see DESIGN.md, "reverse-read
// orientation"), so a read whose amplicon is the palindrome
// ACGTACGT·ACGTACGT has a reverse array equal to reverse(forward).
func TestS1PerfectOverlap(t *testing.T) {
	a, err := NewAssembler(Opts{MinOverlap: 4, Threshold: 0.6, Algorithm: algorithm.NewSimpleBayes(0.36)})
	expect.True(t, err == nil)

	forward := mkRead("ACGTACGT", 40)
	reverse := mkRead("TGCATGCA", 40) // reverse("ACGTACGT")
	result, rej, ok := a.Assemble(mkId("s1"), forward, reverse)
	expect.True(t, ok)
	expect.EQ(t, rej, Rejection{})
	expect.EQ(t, result.OverlapLen, 8)
	expect.EQ(t, result.OverlapMismatches, 0)
	expect.EQ(t, len(result.Consensus), 8)
	for i, b := range result.Consensus {
		expect.EQ(t, b.Nt, forward[i].Nt)
	}
	expect.True(t, math.Exp(result.Quality) > 0.99)
}

// S2 — one high-confidence mismatch inside the overlap. A single PHRED-40
// disagreement is a very strong signal under qual.Mismatch, so the overlap
// is padded with flanking forward-only/reverse-only material (both
// perfectly confident) to keep the averaged consensus quality above
// threshold, while still exercising the tie-break-to-forward rule at the
// mismatched position.
func TestS2OneMismatchInOverlap(t *testing.T) {
	a, err := NewAssembler(Opts{MinOverlap: 8, MaxOverlap: 8, Threshold: 0.6, Algorithm: algorithm.NewSimpleBayes(0.36)})
	expect.True(t, err == nil)

	forward := mkRead("TTTTTTTTTT"+"ACGTACGT", 40)
	reverse := mkRead("GGGGGGGGGG"+"TGCGTGCA", 40) // core differs from reverse("ACGTACGT") at one base
	result, rej, ok := a.Assemble(mkId("s2"), forward, reverse)
	expect.True(t, ok)
	expect.EQ(t, rej, Rejection{})
	expect.EQ(t, result.OverlapLen, 8)
	expect.EQ(t, result.OverlapMismatches, 1)
	// Mismatch lands at consensus position 14 (10 prefix + relative
	// position 4); both sides tie at PHRED 40, so the forward call wins.
	expect.EQ(t, result.Consensus[14].Nt, nt.A)
	quality := math.Exp(result.Quality)
	expect.True(t, quality > 0.6)
	expect.True(t, quality < 0.95) // visibly reduced by the one mismatch
}

// S3 — forward and reverse share no compatible bases at any offset
// (all-A against all-T); every candidate overlap scores worse than leaving
// the pair entirely unaligned, so assembly fails outright.
func TestS3NoCompatibleOverlapFails(t *testing.T) {
	a, err := NewAssembler(Opts{MinOverlap: 2, Threshold: 0.6, Algorithm: algorithm.NewSimpleBayes(0.36)})
	expect.True(t, err == nil)

	forward := mkRead("AAAAAAAA", 40)
	reverse := mkRead("TTTTTTTT", 40)
	_, rej, ok := a.Assemble(mkId("s3"), forward, reverse)
	expect.False(t, ok)
	expect.EQ(t, rej.Kind, FailedAlignment)
}

// S4 — both reads carry a primer prefix that must be located and trimmed
// (step 2) before the remaining material assembles normally, exercising
// C4 via ComputeOffsetQual for both ends.
func TestS4PrimerTrimming(t *testing.T) {
	a, err := NewAssembler(Opts{
		MinOverlap:      2,
		Threshold:       0.6,
		Algorithm:       algorithm.NewSimpleBayes(0.36),
		ForwardPrimer:   mkPrimer("GCGC"),
		ReversePrimer:   mkPrimer("ATAT"),
		PrimerThreshold: 0.5,
		PrimerPenalty:   0,
	})
	expect.True(t, err == nil)

	forward := mkRead("GCGC"+"ACGTACGT", 40)
	reverse := mkRead("ATAT"+"TGCATGCA", 40) // primer + reverse("ACGTACGT")
	result, rej, ok := a.Assemble(mkId("s4"), forward, reverse)
	expect.True(t, ok)
	expect.EQ(t, rej, Rejection{})
	expect.EQ(t, result.ForwardOffset, 4)
	expect.EQ(t, result.ReverseOffset, 4)
	expect.EQ(t, result.OverlapLen, 8)
	expect.EQ(t, result.OverlapMismatches, 0)
	expect.EQ(t, len(result.Consensus), 8)
	for i, b := range result.Consensus {
		expect.EQ(t, b.Nt, nt.FromASCII("ACGTACGT"[i]))
	}
}

// S5 — one side is N at a position where B-cliff masking (or the sequencer
// itself) has already zeroed that base's PHRED; the mate's high-confidence
// call should pass straight through as the consensus base, scored by
// qual.Score rather than the full two-sided match table.
func TestS5NResolvedByConfidentMate(t *testing.T) {
	a, err := NewAssembler(Opts{MinOverlap: 8, MaxOverlap: 8, Threshold: 0.6, Algorithm: algorithm.NewSimpleBayes(0.36)})
	expect.True(t, err == nil)

	forward := mkRead("ACGTNCGT", 40)
	forward[4].Phred = 0
	reverse := mkRead("TGCATGCA", 40) // reverse("ACGTACGT"); reverse[3] == 'A'

	result, rej, ok := a.Assemble(mkId("s5"), forward, reverse)
	expect.True(t, ok)
	expect.EQ(t, rej, Rejection{})
	expect.EQ(t, result.OverlapMismatches, 0)
	expect.EQ(t, result.Consensus[4].Nt, nt.A)
	expect.EQ(t, result.Consensus[4].PLog, qual.Score[40])
	expect.EQ(t, result.Degenerates, 0)
}

// S6 — a single high-confidence mismatch with no flanking material to
// dilute it drags the consensus quality below Threshold.
func TestS6LowQualityRejected(t *testing.T) {
	a, err := NewAssembler(Opts{MinOverlap: 8, MaxOverlap: 8, Threshold: 0.6, Algorithm: algorithm.NewSimpleBayes(0.36)})
	expect.True(t, err == nil)

	forward := mkRead("ACGTACGT", 40)
	reverse := mkRead("TGCGTGCA", 40) // one base off from reverse("ACGTACGT")
	_, rej, ok := a.Assemble(mkId("s6"), forward, reverse)
	expect.False(t, ok)
	expect.EQ(t, rej.Kind, LowQuality)
}

// Invariant: a successfully assembled consensus is never longer than the
// sum of both reads' lengths, nor shorter than the accepted overlap.
func TestInvariantConsensusLengthBounds(t *testing.T) {
	a, err := NewAssembler(Opts{MinOverlap: 4, Threshold: 0.6})
	expect.True(t, err == nil)
	forward := mkRead("ACGTACGT", 40)
	reverse := mkRead("TGCATGCA", 40)
	result, _, ok := a.Assemble(mkId("bounds"), forward, reverse)
	expect.True(t, ok)
	expect.True(t, len(result.Consensus) >= result.OverlapLen)
	expect.True(t, len(result.Consensus) <= len(forward)+len(reverse))
}

// Invariant: OverlapLen is always within [MinOverlap, min(len(forward),
// len(reverse))] on a successful assembly.
func TestInvariantOverlapLenBounds(t *testing.T) {
	a, err := NewAssembler(Opts{MinOverlap: 4, Threshold: 0.6})
	expect.True(t, err == nil)
	forward := mkRead("ACGTACGT", 40)
	reverse := mkRead("TGCATGCA", 40)
	result, _, ok := a.Assemble(mkId("overlap-bounds"), forward, reverse)
	expect.True(t, ok)
	expect.True(t, result.OverlapLen >= 4)
	expect.True(t, result.OverlapLen <= 8)
}

// Invariant: the k-mer table is fully zeroed after each call, so repeated
// runs (and runs against unrelated sequences) see the same outcome — the
// table never silently accumulates cross-pair state.
func TestInvariantKmerTableResetBetweenPairs(t *testing.T) {
	a, err := NewAssembler(Opts{MinOverlap: 4, Threshold: 0.6})
	expect.True(t, err == nil)
	forward := mkRead("ACGTACGT", 40)
	reverse := mkRead("TGCATGCA", 40)

	first, _, ok := a.Assemble(mkId("reset-1"), forward, reverse)
	expect.True(t, ok)
	for _, slot := range a.kmers.table {
		expect.EQ(t, slot, uint16(0))
	}
	second, _, ok := a.Assemble(mkId("reset-2"), forward, reverse)
	expect.True(t, ok)
	expect.EQ(t, first.OverlapLen, second.OverlapLen)
	expect.EQ(t, first.OverlapMismatches, second.OverlapMismatches)
}

// Invariant: Quality is a mean log-probability and must never be positive.
func TestInvariantQualityNeverPositive(t *testing.T) {
	a, err := NewAssembler(Opts{MinOverlap: 4, Threshold: 0.01})
	expect.True(t, err == nil)
	forward := mkRead("ACGTACGT", 40)
	reverse := mkRead("TGCATGCA", 40)
	result, _, ok := a.Assemble(mkId("quality-neg"), forward, reverse)
	expect.True(t, ok)
	expect.True(t, result.Quality <= 0)
}

// Invariant: the consensus PLog tables (qual.Match, qual.Mismatch) hold
// log-probabilities (never positive), and a full two-sided agreement scores
// better (less negative) than a two-sided disagreement at equal PHRED.
func TestInvariantPLogNeverPositiveAndMatchBeatsMismatch(t *testing.T) {
	expect.True(t, qual.Match[40][40] <= 0)
	expect.True(t, qual.Mismatch[40][40] <= 0)
	expect.True(t, qual.Match[40][40] > qual.Mismatch[40][40])
}

// Invariant: assembling the same pair twice with fresh Assemblers built
// from the same Opts value produces identical results (no hidden global
// mutable state leaking between independent configurations).
func TestInvariantClonedConfigEquivalence(t *testing.T) {
	opts := Opts{MinOverlap: 4, Threshold: 0.6, Algorithm: algorithm.NewSimpleBayes(0.36)}
	a1, err := NewAssembler(opts)
	expect.True(t, err == nil)
	a2, err := NewAssembler(opts)
	expect.True(t, err == nil)

	forward := mkRead("ACGTACGT", 40)
	reverse := mkRead("TGCATGCA", 40)
	r1, rej1, ok1 := a1.Assemble(mkId("clone-1"), forward, reverse)
	r2, rej2, ok2 := a2.Assemble(mkId("clone-2"), forward, reverse)
	expect.EQ(t, ok1, ok2)
	expect.EQ(t, rej1, rej2)
	expect.EQ(t, r1.OverlapLen, r2.OverlapLen)
	expect.EQ(t, r1.Quality, r2.Quality)
}

// Invariant: a read pair where one side has zero length can never produce
// a valid overlap and must fail alignment rather than panicking.
func TestInvariantZeroLengthReadFailsAlignment(t *testing.T) {
	a, err := NewAssembler(Opts{MinOverlap: 2, Threshold: 0.6})
	expect.True(t, err == nil)
	forward := mkRead("", 40)
	reverse := mkRead("ACGT", 40)
	_, rej, ok := a.Assemble(mkId("zero-len"), forward, reverse)
	expect.False(t, ok)
	expect.EQ(t, rej.Kind, FailedAlignment)
}

// Invariant: when forward and reverse are exactly the same length as the
// discovered overlap, the consensus length equals that overlap exactly
// (no forward-only prefix or reverse-only suffix).
func TestInvariantExactOverlapBoundary(t *testing.T) {
	a, err := NewAssembler(Opts{MinOverlap: 8, MaxOverlap: 8, Threshold: 0.6})
	expect.True(t, err == nil)
	forward := mkRead("ACGTACGT", 40)
	reverse := mkRead("TGCATGCA", 40)
	result, _, ok := a.Assemble(mkId("exact-boundary"), forward, reverse)
	expect.True(t, ok)
	expect.EQ(t, len(result.Consensus), result.OverlapLen)
}

// Invariant: a primer longer than the read it's searched against can never
// align, so ComputeOffsetQual reports offset 0 (the C4 contract's "no
// alignment" sentinel) and assembly is rejected for want of the primer.
func TestInvariantPrimerLongerThanReadRejected(t *testing.T) {
	a, err := NewAssembler(Opts{
		MinOverlap:      2,
		Threshold:       0.6,
		ForwardPrimer:   mkPrimer("GCGCGCGCGCGC"),
		PrimerThreshold: 0.5,
		PrimerPenalty:   0,
	})
	expect.True(t, err == nil)
	forward := mkRead("GC", 40)
	reverse := mkRead("ACGT", 40)
	_, rej, ok := a.Assemble(mkId("primer-too-long"), forward, reverse)
	expect.False(t, ok)
	expect.EQ(t, rej.Kind, NoForwardPrimer)
}

// Invariant: bCliffMask zeroes a trailing run of PHRED==2 calls (Illumina's
// "dark cycle" sentinel) and stops at the first base that isn't PHRED==2,
// leaving earlier bases untouched.
func TestInvariantBCliffMasking(t *testing.T) {
	read := mkRead("ACGTACGT", 40)
	read[5].Phred = 2
	read[6].Phred = 2
	read[7].Phred = 2
	bCliffMask(read)
	expect.EQ(t, read[4].Phred, uint8(40))
	expect.EQ(t, read[5].Phred, uint8(0))
	expect.EQ(t, read[6].Phred, uint8(0))
	expect.EQ(t, read[7].Phred, uint8(0))

	// A PHRED==2 run broken by a real call in the middle only masks the
	// trailing run, not the interrupted one.
	read2 := mkRead("ACGTACGT", 40)
	read2[5].Phred = 2
	read2[6].Phred = 40
	read2[7].Phred = 2
	bCliffMask(read2)
	expect.EQ(t, read2[5].Phred, uint8(2))
	expect.EQ(t, read2[6].Phred, uint8(40))
	expect.EQ(t, read2[7].Phred, uint8(0))
}
