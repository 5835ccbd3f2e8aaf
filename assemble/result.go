package assemble

import "github.com/ngseq/pastitch/seq"

// QRead is the same quality-read representation used across the core
// packages; kept as an alias here so callers of assemble don't need to
// import seq directly for the common case.
type QRead = seq.QRead

// Result is a successfully assembled pair, spec.md §3's "Result".
type Result struct {
	Id       Id
	Forward  seq.QRead
	Reverse  seq.QRead
	Consensus seq.ResultRead

	ForwardOffset int
	ReverseOffset int

	Quality           float64
	Degenerates       int
	OverlapLen        int
	OverlapMismatches int
	OverlapsExamined  int

	// Fingerprint is a farm.Hash64 digest of the consensus bases, a cheap
	// stable key for correlating a Result across logs and re-runs without
	// carrying the full sequence. Distinct from pairout's highwayhash
	// fingerprint of rejected (forward, reverse) pairs: this one is taken
	// after assembly, over the accepted consensus, not the raw reads.
	Fingerprint uint64
}

// RejectionKind enumerates the ways an attempted assembly can fail,
// spec.md §3's typed rejection union (never an exception).
type RejectionKind int

const (
	// NoForwardPrimer means the forward primer could not be located above
	// threshold.
	NoForwardPrimer RejectionKind = iota
	// NoReversePrimer means the reverse primer could not be located above
	// threshold.
	NoReversePrimer
	// FailedAlignment means no candidate overlap scored above the
	// null-alignment baseline.
	FailedAlignment
	// NegativeSequenceLength means the consensus would have length <= 0
	// once primer/trim offsets are applied (forward remainder + overlap +
	// reverse remainder), or that locating primers in the consensus
	// (PrimersAfter) left nothing.
	NegativeSequenceLength
	// SequenceTooLong means the assembled consensus exceeded Opts.MaxLen.
	SequenceTooLong
	// LowQuality means exp of the consensus's mean log-probability fell
	// below Opts.Threshold.
	LowQuality
	// ModuleRejected means a registered Checker vetoed the assembled
	// result in its post-check hook.
	ModuleRejected
	// BadRead means a Checker's Pre hook vetoed the pair, DisallowAmbiguous
	// found an N in a read (both before assembly begins), or the consensus
	// length fell below Opts.MinLen.
	BadRead
)

func (k RejectionKind) String() string {
	switch k {
	case NoForwardPrimer:
		return "no_forward_primer"
	case NoReversePrimer:
		return "no_reverse_primer"
	case FailedAlignment:
		return "failed_alignment"
	case NegativeSequenceLength:
		return "negative_sequence_length"
	case SequenceTooLong:
		return "sequence_too_long"
	case LowQuality:
		return "low_quality"
	case ModuleRejected:
		return "module_rejected"
	case BadRead:
		return "bad_read"
	default:
		return "unknown_rejection"
	}
}

// Rejection carries a RejectionKind plus the optional name of the Checker
// that produced a veto (ModuleRejected from Post, BadRead from Pre), for
// diagnostic logging.
type Rejection struct {
	Kind    RejectionKind
	Checker string
}

func (r Rejection) Error() string {
	if r.Checker != "" {
		return r.Kind.String() + ": " + r.Checker
	}
	return r.Kind.String()
}
