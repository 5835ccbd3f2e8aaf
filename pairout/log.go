package pairout

import (
	"github.com/grailbio/base/log"
	"github.com/ngseq/pastitch/assemble"
)

// LogWriter is the "Logger" spec.md §6 and §7 name: a thin base/log-backed
// emitter for the typed rejection codes spec.md §7's table lists,
// following markduplicates' convention of routing diagnostic detail
// through log.Debug and user-facing problems through log.Error.
type LogWriter struct{}

// code maps a RejectionKind to spec.md §7's logging code. FailedAlignment
// has no code of its own ("(none)" in the table) since it is the expected
// outcome of exhausting every candidate overlap, not a distinct failure
// mode worth a dedicated alert.
func code(k assemble.RejectionKind) string {
	switch k {
	case assemble.NoForwardPrimer:
		return "NO_FORWARD_PRIMER"
	case assemble.NoReversePrimer:
		return "NO_REVERSE_PRIMER"
	case assemble.NegativeSequenceLength:
		return "NEGATIVE_SEQUENCE_LENGTH"
	case assemble.SequenceTooLong:
		return "SEQUENCE_TOO_LONG"
	case assemble.LowQuality:
		return "LOW_QUALITY_REJECT"
	case assemble.BadRead:
		return "PARSE_FAILURE/BAD_NT"
	case assemble.ModuleRejected:
		return "MODULE_REJECTED"
	default:
		return ""
	}
}

// LogRejection logs one rejected pair at Debug (FailedAlignment, the
// routine "no overlap found" case) or Error (every other rejection kind,
// each of which signals a data or configuration problem worth surfacing).
func (LogWriter) LogRejection(id assemble.Id, rej assemble.Rejection) {
	c := code(rej.Kind)
	if rej.Kind == assemble.FailedAlignment {
		log.Debug.Printf("%s: %s (%s)", id.String(), rej.Kind.String(), c)
		return
	}
	if rej.Checker != "" {
		log.Error.Printf("%s: %s %s (checker=%s)", id.String(), c, rej.Kind.String(), rej.Checker)
		return
	}
	log.Error.Printf("%s: %s %s", id.String(), c, rej.Kind.String())
}

// LogCounters logs a final summary of run-level statistics, the
// human-readable counterpart to cmd/pastitch's machine-readable output.
func (LogWriter) LogCounters(c assemble.Counters) {
	log.Printf("ok=%d no_forward_primer=%d no_reverse_primer=%d no_alignment=%d "+
		"low_quality=%d bad_read=%d degenerate=%d longest_overlap=%d slow=%d lost_kmers=%d",
		c.OKCount, c.NoForwardPrimerCount, c.NoReversePrimerCount, c.NoAlignmentCount,
		c.LowQualityCount, c.BadReadCount, c.DegenerateCount, c.LongestOverlap, c.Slow, c.LostKmers)
	for checker, n := range c.ModuleRejectedCount {
		log.Printf("module_rejected[%s]=%d", checker, n)
	}
}
