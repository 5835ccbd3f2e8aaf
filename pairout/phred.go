package pairout

import (
	"math"

	"github.com/ngseq/pastitch/qual"
)

// plogToPhredASCII recovers a PHRED+33 ASCII quality character from a
// consensus base's natural-log probability of correctness, the inverse of
// the PHRED-to-probability direction qual.Probability encodes. Uses
// qual.Log1mexp for the same numerical-stability reason the rest of the
// package relies on it: log(1-p) computed naively loses all precision as p
// approaches 1, which is exactly the regime a confident consensus call
// falls in.
func plogToPhredASCII(plog float64) byte {
	if plog >= 0 {
		return qual.PHREDMAX + 33
	}
	logErr := qual.Log1mexp(-plog)
	phred := -10 * logErr / math.Ln10
	if math.IsInf(phred, 1) || phred > float64(qual.PHREDMAX) {
		phred = float64(qual.PHREDMAX)
	}
	if phred < 0 {
		phred = 0
	}
	return byte(phred) + 33
}
