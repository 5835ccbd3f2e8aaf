// Package assemble implements the core overlap-discovery and consensus
// engine (C5): the k-mer candidate index, the candidate-overlap bitmap,
// consensus reconstruction with B-cliff masking, and the typed Result/
// Rejection outcome of assembling one read pair. Grounded on
// original_source/assembler.c's align()/assemble_seq(), generalized from
// one fixed scoring rule to the algorithm.Scorer interface, the way
// fusion/stitcher.go generalizes a fixed k-mer vote into a pluggable
// Stitch call.
package assemble

import (
	"fmt"
	"math"

	"github.com/dgryski/go-farm"
	"github.com/ngseq/pastitch/nt"
	"github.com/ngseq/pastitch/primer"
	"github.com/ngseq/pastitch/qual"
	"github.com/ngseq/pastitch/seq"
	"github.com/willf/bitset"
	"golang.org/x/sys/unix"
)

// minOpenFiles is the minimum RLIMIT_NOFILE a process needs headroom for:
// cmd/pastitch opens the two input FASTQ streams plus the FASTA/failed
// output streams once per run, not per Assembler, so this is a generous
// floor rather than a tight per-worker budget.
const minOpenFiles = 64

// Assembler owns the mutable per-pair scratch state: the reusable primer
// Aligner, the k-mer position table, and the forward/reverse/consensus
// scratch buffers. An Assembler is not safe for concurrent use (spec.md §5,
// "single-threaded per instance"); pipeline.Run gives each worker its own.
type Assembler struct {
	opts   Opts
	aligner *primer.Aligner
	kmers  *kmerTable

	scratchForward seq.QRead
	scratchReverse seq.QRead
	consensus      seq.ResultRead

	// Stats accumulates this Assembler's outcomes; pipeline merges Stats
	// across workers with Counters.Merge.
	Stats Counters
}

// NewAssembler validates opts and returns a ready Assembler. Mirrors
// assembler_support.c's mutually-exclusive primer/trim setters: configuring
// both a primer and a trim count on the same end is rejected.
func NewAssembler(opts Opts) (*Assembler, error) {
	if opts.MinOverlap < 2 {
		opts.MinOverlap = DefaultOpts.MinOverlap
	}
	if opts.NumKmers <= 0 {
		opts.NumKmers = DefaultOpts.NumKmers
	}
	if opts.Threshold <= 0 {
		opts.Threshold = DefaultOpts.Threshold
	}
	if opts.PrimerThreshold <= 0 {
		opts.PrimerThreshold = DefaultOpts.PrimerThreshold
	}
	if opts.Algorithm == nil {
		opts.Algorithm = DefaultOpts.Algorithm
	}
	if len(opts.ForwardPrimer) > 0 && opts.ForwardTrim > 0 {
		return nil, errMutuallyExclusive("forward primer and forward trim")
	}
	if len(opts.ReversePrimer) > 0 && opts.ReverseTrim > 0 {
		return nil, errMutuallyExclusive("reverse primer and reverse trim")
	}
	if err := checkResourceLimits(); err != nil {
		return nil, err
	}
	return &Assembler{
		opts:    opts,
		aligner: primer.NewAligner(),
		kmers:   newKmerTable(opts.NumKmers),
	}, nil
}

type errMutuallyExclusive string

func (e errMutuallyExclusive) Error() string {
	return "assemble: mutually exclusive options set: " + string(e)
}

// checkResourceLimits fails construction early if the process' open-file
// budget is too tight to run a pipeline at all, rather than surfacing an
// opaque "too many open files" deep inside a worker mid-run. Mirrors the
// "only resource exhaustion at construction is fatal" design note: every
// other failure mode is a typed Rejection, never a panic or a late error.
func checkResourceLimits() error {
	var rlimit unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &rlimit); err != nil {
		return fmt.Errorf("assemble: Getrlimit(RLIMIT_NOFILE): %w", err)
	}
	if rlimit.Cur < minOpenFiles {
		return fmt.Errorf("assemble: RLIMIT_NOFILE too low (cur=%d, want >= %d)", rlimit.Cur, minOpenFiles)
	}
	return nil
}

// fingerprint hashes a consensus's bases with farm.Hash64, the same digest
// fusion/kmer_index.go's hashKmer built its k-mer index on, repurposed here
// as a cheap per-Result correlation key.
func fingerprint(consensus seq.ResultRead) uint64 {
	buf := make([]byte, len(consensus))
	for i, b := range consensus {
		buf[i] = byte(b.Nt)
	}
	return farm.Hash64(buf)
}

// Assemble attempts to assemble one read pair, spec.md §4.4's seven-step
// algorithm. forward and reverse are never retained or mutated: they are
// copied into scratch before any B-cliff masking (spec.md §9, "B-cliff
// mutation on the input").
func (a *Assembler) Assemble(id Id, forward, reverse seq.QRead) (Result, Rejection, bool) {
	result, rej, ok := a.assemble(id, forward, reverse)
	a.Stats.record(ok, result.OverlapLen, rej)
	return result, rej, ok
}

func (a *Assembler) assemble(id Id, forward, reverse seq.QRead) (Result, Rejection, bool) {
	// Step 1 — pre-check hook.
	for _, c := range a.opts.Checkers {
		if !c.Pre(id, forward, reverse) {
			return Result{}, Rejection{Kind: BadRead, Checker: c.Name()}, false
		}
	}
	if a.opts.DisallowAmbiguous && (containsN(forward) || containsN(reverse)) {
		return Result{}, Rejection{Kind: BadRead}, false
	}

	a.scratchForward = ensureQRead(a.scratchForward, len(forward))
	copy(a.scratchForward, forward)
	a.scratchReverse = ensureQRead(a.scratchReverse, len(reverse))
	copy(a.scratchReverse, reverse)

	// Step 2 — forward/reverse offset. Both sides are searched the same
	// way, scanning ascending from position 0: assembler.c's own internal
	// offset-finding loop (distinct from the exported, orientation-aware
	// computeoffset that C4/primer.ComputeOffsetQual generalizes) has no
	// reverse flag at all and indexes result->reverse[index] directly,
	// because the reverse read reaching this point already has its
	// primer-adjacent end at index 0 (see DESIGN.md, "reverse-read
	// orientation"). When PrimersAfter is set, primers are instead located
	// in the consensus at step 5.5, and raw offsets fall back to the
	// configured trim counts here.
	forwardPrimer, reversePrimer := a.opts.ForwardPrimer, a.opts.ReversePrimer
	if a.opts.PrimersAfter {
		forwardPrimer, reversePrimer = nil, nil
	}
	forwardOffset, ok := a.resolveOffset(a.scratchForward, forwardPrimer, a.opts.ForwardTrim)
	if !ok {
		return Result{}, Rejection{Kind: NoForwardPrimer}, false
	}
	reverseOffset, ok := a.resolveOffset(a.scratchReverse, reversePrimer, a.opts.ReverseTrim)
	if !ok {
		return Result{}, Rejection{Kind: NoReversePrimer}, false
	}

	// B-cliff mask, before step 3 per spec.md §4.4 step 5.2.
	bCliffMask(a.scratchForward)
	bCliffMask(a.scratchReverse)

	minOverlap := a.opts.MinOverlap
	bitmapLen := min(len(a.scratchForward), len(a.scratchReverse)) - minOverlap + 1
	if bitmapLen < 0 {
		bitmapLen = 0
	}
	candidates := bitset.New(uint(bitmapLen))

	// Step 3 — candidate enumeration via k-mer index.
	kmerScanForward(a.scratchForward, func(p int, kmer uint32) {
		if !a.kmers.store(kmer, uint16(p+1)) {
			a.Stats.LostKmers++
		}
	})
	kmerScanReverse(a.scratchReverse, func(pr int, kmer uint32) {
		a.kmers.positions(kmer, func(pf1 uint16) {
			pf := int(pf1) - 1
			overlap := len(a.scratchForward) + len(a.scratchReverse) - pf - pr - KmerLen
			idx := overlap - minOverlap
			if idx >= 0 && idx < bitmapLen {
				candidates.Set(uint(idx))
			}
		})
	})
	if candidates.None() {
		for i := 0; i < bitmapLen; i++ {
			candidates.Set(uint(i))
		}
		a.Stats.Slow++
	}
	a.kmers.reset(a.scratchForward)

	// Step 4 — score candidates.
	best := qual.NN * float64(len(a.scratchForward)+len(a.scratchReverse))
	bestOverlap := -1
	examined := 0
	for i, has := candidates.NextSet(0); has; i, has = candidates.NextSet(i + 1) {
		overlap := int(i) + minOverlap
		if a.opts.MaxOverlap != 0 && overlap > a.opts.MaxOverlap {
			continue
		}
		examined++
		score := a.opts.Algorithm.OverlapLogProb(a.scratchForward, a.scratchReverse, overlap)
		if score > best {
			best = score
			bestOverlap = overlap
		}
	}
	if bestOverlap < 0 {
		return Result{}, Rejection{Kind: FailedAlignment}, false
	}
	overlap := bestOverlap

	// Step 5 — consensus reconstruction.
	df := len(a.scratchForward) - forwardOffset - overlap
	dr := len(a.scratchReverse) - reverseOffset - overlap
	consensusLen := df + overlap + dr
	if consensusLen <= 0 {
		return Result{}, Rejection{Kind: NegativeSequenceLength}, false
	}
	if a.opts.MaxLen > 0 && consensusLen > a.opts.MaxLen {
		return Result{}, Rejection{Kind: SequenceTooLong}, false
	}
	if a.opts.MinLen > 0 && consensusLen < a.opts.MinLen {
		return Result{}, Rejection{Kind: BadRead}, false
	}

	a.consensus = ensureResultRead(a.consensus, consensusLen)
	pos := 0
	degenerates := 0
	mismatches := 0

	// 5.1 — forward-only prefix.
	prefixLen := df
	if prefixLen < 0 {
		prefixLen = 0
	}
	for i := 0; i < prefixLen; i++ {
		fb := a.scratchForward[forwardOffset+i]
		plog := qual.Score[qual.Clamp(fb.Phred)]
		a.consensus[pos] = seq.ResultBase{Nt: fb.Nt, PLog: plog}
		if fb.Nt.IsDegenerate() {
			degenerates++
		}
		pos++
	}

	// 5.3 — overlap region. Index formulas ported directly from
	// assembler.c's align() (VEEZ(x)=max(x,0), WEDGEZ(x)=min(x,0)); `pos`
	// tracks result->sequence[index] with index == prefixLen+i, since
	// both loops write into the same consensus buffer sequentially.
	veez := func(x int) int {
		if x < 0 {
			return 0
		}
		return x
	}
	wedgez := func(x int) int {
		if x > 0 {
			return 0
		}
		return x
	}
	overlapCount := overlap + wedgez(df) + wedgez(dr)
	for i := 0; i < overlapCount; i++ {
		fIdx := forwardOffset + veez(df) + i
		rIdx := len(a.scratchReverse) - i - 1 + wedgez(df)
		if fIdx < 0 || fIdx >= len(a.scratchForward) || rIdx < 0 || rIdx >= len(a.scratchReverse) {
			continue
		}
		f := a.scratchForward[fIdx]
		r := a.scratchReverse[rIdx]
		ismatch := f.Nt&r.Nt != 0

		var consNt nt.Base
		switch {
		case ismatch:
			consNt = f.Nt & r.Nt
		case f.Phred < r.Phred:
			consNt = r.Nt
		default:
			consNt = f.Nt
		}

		var plog float64
		switch {
		case f.Phred == 0 && r.Phred == 0:
			plog = qual.NN
		case f.Phred == 0:
			if ismatch {
				plog = qual.Score[qual.Clamp(r.Phred)]
			} else {
				plog = qual.NN
			}
		case r.Phred == 0:
			if ismatch {
				plog = qual.Score[qual.Clamp(f.Phred)]
			} else {
				plog = qual.NN
			}
		default:
			fp, rp := qual.Clamp(f.Phred), qual.Clamp(r.Phred)
			if ismatch {
				plog = qual.Match[fp][rp]
			} else {
				plog = qual.Mismatch[fp][rp]
			}
		}

		if consNt.IsDegenerate() {
			degenerates++
		}
		if !ismatch {
			mismatches++
		}
		a.consensus[pos] = seq.ResultBase{Nt: consNt, PLog: plog}
		pos++
	}

	// 5.4 — reverse-only suffix. The reverse read reaching assemble is
	// already per-base complemented by the input decoder (see DESIGN.md,
	// "reverse-read orientation"), so no further complement is applied
	// here; assembler.c's corresponding loop reads result->reverse[rindex]
	// directly for the same reason.
	for i := 0; i < veez(dr); i++ {
		rIdx := len(a.scratchReverse) - overlap - i - 1
		if rIdx < 0 || rIdx >= len(a.scratchReverse) {
			continue
		}
		rb := a.scratchReverse[rIdx]
		plog := qual.Score[qual.Clamp(rb.Phred)]
		if rb.Nt.IsDegenerate() {
			degenerates++
		}
		a.consensus[pos] = seq.ResultBase{Nt: rb.Nt, PLog: plog}
		pos++
	}

	quality := qual.MeanLogProb(plogsOf(a.consensus[:consensusLen]))

	// Step 6 — threshold.
	if math.Exp(quality) < a.opts.Threshold {
		return Result{}, Rejection{Kind: LowQuality}, false
	}

	// Step 5.5 — primers_after: locate primers in the finished consensus
	// instead of the raw reads, spec.md §4.3's "consensus p_log" branch
	// (primer.ComputeOffsetResult, deriving scores from p_log via
	// qual.Log1mexp instead of a raw PHRED). Unlike step 2, the reverse
	// primer genuinely is searched tail-first here: by this point the
	// reverse-only suffix has been appended in forward-like order, so the
	// reverse primer sits near the consensus's 3' end, not its 0 index.
	trimStart, trimEnd := 0, consensusLen
	if a.opts.PrimersAfter {
		consensusSlice := a.consensus[:consensusLen]
		if len(a.opts.ForwardPrimer) > 0 {
			raw := a.aligner.ComputeOffsetResult(consensusSlice, a.opts.ForwardPrimer, math.Log(a.opts.PrimerThreshold), a.opts.PrimerPenalty, false)
			if raw == 0 {
				return Result{}, Rejection{Kind: NoForwardPrimer}, false
			}
			trimStart = raw - 1
		}
		if len(a.opts.ReversePrimer) > 0 {
			raw := a.aligner.ComputeOffsetResult(consensusSlice, a.opts.ReversePrimer, math.Log(a.opts.PrimerThreshold), a.opts.PrimerPenalty, true)
			if raw == 0 {
				return Result{}, Rejection{Kind: NoReversePrimer}, false
			}
			trimEnd = consensusLen - (raw - 1)
		}
		if trimStart >= trimEnd {
			return Result{}, Rejection{Kind: NegativeSequenceLength}, false
		}
	}

	trimmed := a.consensus[trimStart:trimEnd]
	consensusCopy := make(seq.ResultRead, len(trimmed))
	copy(consensusCopy, trimmed)
	if trimStart != 0 || trimEnd != consensusLen {
		degenerates = 0
		for _, b := range trimmed {
			if b.Nt.IsDegenerate() {
				degenerates++
			}
		}
		quality = qual.MeanLogProb(plogsOf(trimmed))
	}

	result := Result{
		Id:                id,
		Forward:           append(seq.QRead(nil), a.scratchForward...),
		Reverse:           append(seq.QRead(nil), a.scratchReverse...),
		Consensus:         consensusCopy,
		ForwardOffset:     forwardOffset,
		ReverseOffset:     reverseOffset,
		Quality:           quality,
		Degenerates:       degenerates,
		OverlapLen:        overlap,
		OverlapMismatches: mismatches,
		OverlapsExamined:  examined,
		Fingerprint:       fingerprint(consensusCopy),
	}

	// Step 7 — post-check hook, always returning ModuleRejected
	// explicitly on veto (spec.md §9's flagged assemble_seq bug, fixed).
	for _, c := range a.opts.Checkers {
		if !c.Post(&result) {
			return Result{}, Rejection{Kind: ModuleRejected, Checker: c.Name()}, false
		}
	}

	return result, Rejection{}, true
}

// resolveOffset implements spec.md §4.4 step 2 for one side: locate a
// configured primer via C4, or apply a fixed trim count. Always scans
// ascending (reverse=false in C4's contract), matching assembler.c's
// internal offset loop for both forward and reverse reads.
func (a *Assembler) resolveOffset(read seq.QRead, primerBases []nt.Base, trim int) (int, bool) {
	if len(primerBases) == 0 {
		return trim, true
	}
	raw := a.aligner.ComputeOffsetQual(read, primerBases, math.Log(a.opts.PrimerThreshold), a.opts.PrimerPenalty, false)
	if raw == 0 {
		return 0, false
	}
	return raw - 1, true
}

func containsN(read seq.QRead) bool {
	for _, b := range read {
		if b.Nt == nt.N {
			return true
		}
	}
	return false
}

// bCliffMask walks read from its 3' end, zeroing PHRED==2 runs (Illumina's
// "no information" sentinel) to PHRED==0, stopping at the first base whose
// PHRED isn't 2 (spec.md §4.4 step 5.2).
func bCliffMask(read seq.QRead) {
	for i := len(read) - 1; i >= 0; i-- {
		if read[i].Phred != 2 {
			return
		}
		read[i].Phred = 0
	}
}

func ensureQRead(dst seq.QRead, n int) seq.QRead {
	if cap(dst) < n {
		dst = make(seq.QRead, n)
	}
	return dst[:n]
}

// plogsOf extracts the per-base log-probabilities from a consensus slice
// for qual.MeanLogProb to reduce.
func plogsOf(rs seq.ResultRead) []float64 {
	out := make([]float64, len(rs))
	for i, b := range rs {
		out[i] = b.PLog
	}
	return out
}

func ensureResultRead(dst seq.ResultRead, n int) seq.ResultRead {
	if cap(dst) < n {
		dst = make(seq.ResultRead, n)
	}
	return dst[:n]
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
