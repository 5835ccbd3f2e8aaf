package assemble

import (
	"github.com/ngseq/pastitch/algorithm"
	"github.com/ngseq/pastitch/nt"
	"github.com/ngseq/pastitch/seq"
)

// KmerLen is the fixed k-mer length the candidate-overlap index is built
// on. spec.md §4.4 step 3 fixes k=8; unlike NumKmers this is not part of
// Opts because the teacher's own kmer.go ties its hash width to a single
// package constant rather than a runtime field.
const KmerLen = 8

// Checker is the pre/post veto hook, spec.md §6's "module" concept
// (module.c's module_checkseq). Defined here, rather than in the module
// package that implements it, to avoid a cycle: module.Registry needs
// assemble.Id/Result in scope to implement this interface, so assemble
// cannot import module back.
type Checker interface {
	// Name identifies the checker for ModuleRejectedCount bookkeeping.
	Name() string
	// Pre runs at step 1, before any offset computation, and may veto a
	// pair outright (e.g. on barcode or length grounds).
	Pre(id Id, forward, reverse seq.QRead) bool
	// Post runs at step 7, after a candidate consensus has cleared
	// Threshold, and may still veto it. A vetoed Result is reported as
	// Rejection{Kind: ModuleRejected, Checker: Name()} unconditionally,
	// unlike assembler.c's assemble_seq, which silently continued past a
	// checker veto (spec.md §9; see DESIGN.md).
	Post(r *Result) bool
}

// Opts configures one Assembler. Unlike fusion.Opts, which is a single
// package-wide read-only configuration, Opts here is a plain value: many
// Assemblers (one per worker) share one Opts value's Algorithm, but hold
// private Aligner/k-mer scratch state (spec.md §5, "Many assembler
// instances ... share one immutable Opts and Algorithm").
type Opts struct {
	// MinOverlap is the minimum acceptable overlap length. Must be >= 2.
	MinOverlap int
	// MaxOverlap is the maximum overlap length to consider; 0 means
	// unconstrained (min(len(forward), len(reverse))).
	MaxOverlap int
	// Threshold is the minimum acceptable consensus quality (not log): a
	// result is accepted only if exp of its mean per-base log-probability
	// of correctness is at least Threshold.
	Threshold float64

	// ForwardPrimer, if non-empty, is located (via primer.Aligner) at the
	// 5' end of the forward read and consumed before assembly.
	ForwardPrimer []nt.Base
	// ReversePrimer is the same for the reverse read.
	ReversePrimer []nt.Base
	// ForwardTrim unconditionally removes this many leading forward bases
	// instead of locating ForwardPrimer. Mutually exclusive with
	// ForwardPrimer (assembler_support.c's setters are mutually
	// exclusive; NewAssembler rejects setting both).
	ForwardTrim int
	// ReverseTrim is the same for the reverse read.
	ReverseTrim int
	// PrimersAfter, when true, locates primers in the reconstructed
	// consensus after assembly instead of trimming each raw read first
	// (spec.md §4.3's "consensus p_log" branch).
	PrimersAfter bool
	// PrimerPenalty is the per-position length penalty applied while
	// scanning for a primer (offset.c's computeoffset `penalty` term).
	PrimerPenalty float64
	// PrimerThreshold is a per-base match probability (not log); a located
	// primer is accepted only if its alignment score exceeds
	// PrimerThreshold raised to the primer length.
	PrimerThreshold float64

	// NumKmers is the number of candidate read positions stored per
	// distinct k-mer value before further occurrences of that k-mer are
	// dropped (counted in Counters.LostKmers). Default 2.
	NumKmers int

	// Algorithm selects the overlap-scoring model. Immutable once
	// assigned; shared by every Assembler built from this Opts.
	Algorithm algorithm.Scorer

	// DisallowAmbiguous rejects, as BadRead, any pair whose forward or
	// reverse read contains an N call. Other degenerate IUPAC calls, and
	// the consensus itself, are not checked.
	DisallowAmbiguous bool
	// MinLen/MaxLen bound the assembled consensus length; 0 means
	// unconstrained. A consensus shorter than MinLen or longer than
	// MaxLen is rejected (MaxLen violations report SequenceTooLong).
	MinLen int
	MaxLen int

	// Checkers run, in order, twice per pair: Pre before assembly begins
	// (the first veto produces a BadRead Rejection), and Post after a
	// candidate consensus clears Threshold (the first veto produces a
	// ModuleRejected Rejection).
	Checkers []Checker
}

// DefaultOpts mirrors pandaseq's command-line defaults (assembler_support.c,
// panda_assembler_new) translated into Opts fields.
var DefaultOpts = Opts{
	MinOverlap:      2,
	MaxOverlap:      0,
	Threshold:       0.6,
	PrimerPenalty:   0.5,
	PrimerThreshold: 0.6,
	NumKmers:        2,
	Algorithm:       algorithm.NewSimpleBayes(0.36),
}

// QBase and ResultBase are re-exported aliases so callers of assemble
// rarely need to import seq directly.
type QBase = seq.QBase
type ResultBase = seq.ResultBase
type ResultRead = seq.ResultRead
