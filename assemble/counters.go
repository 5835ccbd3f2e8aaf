package assemble

// Counters accumulates run-level assembly statistics, spec.md §7's
// reporting surface. The value type and Merge method follow
// fusion/stats.go's Stats/Merge shape so per-worker Counters can be
// combined without a mutex.
type Counters struct {
	// OKCount is the number of pairs successfully assembled.
	OKCount int
	// NoForwardPrimerCount is the number of pairs rejected for want of a
	// locatable forward primer.
	NoForwardPrimerCount int
	// NoReversePrimerCount is the number of pairs rejected for want of a
	// locatable reverse primer.
	NoReversePrimerCount int
	// NoAlignmentCount is the number of pairs where no candidate overlap
	// scored above the null-alignment baseline.
	NoAlignmentCount int
	// LowQualityCount is the number of pairs rejected for low consensus
	// quality.
	LowQualityCount int
	// BadReadCount is the number of BadRead rejections (Pre veto, N with
	// DisallowAmbiguous, or a consensus shorter than MinLen).
	BadReadCount int
	// DegenerateCount is the number of pairs rejected for length reasons
	// (SequenceTooLong, NegativeSequenceLength).
	DegenerateCount int
	// ModuleRejectedCount tallies ModuleRejected outcomes per Checker name.
	ModuleRejectedCount map[string]int
	// OverlapCount[n] is the number of assembled pairs whose overlap
	// length was exactly n.
	OverlapCount []int
	// LongestOverlap is the largest overlap length seen across all
	// assembled pairs.
	LongestOverlap int
	// LostKmers is a diagnostic count of k-mer collisions dropped because
	// all NUM_KMERS storage slots for that k-mer were already occupied.
	LostKmers int
	// Slow is the number of pairs that fell back to exhaustive overlap
	// scoring because the k-mer candidate bitmap came back empty.
	Slow int
}

// record folds a single outcome into the counters, choosing the field by
// Rejection.Kind (or OKCount when ok is true).
func (c *Counters) record(ok bool, overlapLen int, rej Rejection) {
	if ok {
		c.OKCount++
		if overlapLen >= len(c.OverlapCount) {
			grown := make([]int, overlapLen+1)
			copy(grown, c.OverlapCount)
			c.OverlapCount = grown
		}
		c.OverlapCount[overlapLen]++
		if overlapLen > c.LongestOverlap {
			c.LongestOverlap = overlapLen
		}
		return
	}
	switch rej.Kind {
	case NoForwardPrimer:
		c.NoForwardPrimerCount++
	case NoReversePrimer:
		c.NoReversePrimerCount++
	case FailedAlignment:
		c.NoAlignmentCount++
	case LowQuality:
		c.LowQualityCount++
	case BadRead:
		c.BadReadCount++
	case NegativeSequenceLength, SequenceTooLong:
		c.DegenerateCount++
	case ModuleRejected:
		if c.ModuleRejectedCount == nil {
			c.ModuleRejectedCount = map[string]int{}
		}
		c.ModuleRejectedCount[rej.Checker]++
	}
}

// Merge adds the field values of two Counters (LongestOverlap takes the
// larger of the two) and returns a new Counters, following Stats.Merge's
// accumulator shape.
func (c Counters) Merge(o Counters) Counters {
	c.OKCount += o.OKCount
	c.NoForwardPrimerCount += o.NoForwardPrimerCount
	c.NoReversePrimerCount += o.NoReversePrimerCount
	c.NoAlignmentCount += o.NoAlignmentCount
	c.LowQualityCount += o.LowQualityCount
	c.BadReadCount += o.BadReadCount
	c.DegenerateCount += o.DegenerateCount
	c.LostKmers += o.LostKmers
	c.Slow += o.Slow
	if len(o.OverlapCount) > len(c.OverlapCount) {
		grown := make([]int, len(o.OverlapCount))
		copy(grown, c.OverlapCount)
		c.OverlapCount = grown
	}
	for i, n := range o.OverlapCount {
		c.OverlapCount[i] += n
	}
	if o.LongestOverlap > c.LongestOverlap {
		c.LongestOverlap = o.LongestOverlap
	}
	if len(o.ModuleRejectedCount) > 0 {
		merged := make(map[string]int, len(c.ModuleRejectedCount)+len(o.ModuleRejectedCount))
		for k, n := range c.ModuleRejectedCount {
			merged[k] = n
		}
		for k, n := range o.ModuleRejectedCount {
			merged[k] += n
		}
		c.ModuleRejectedCount = merged
	}
	return c
}
