// Package seq defines the two read representations the core passes between
// components: QRead, a sequence of (nt, PHRED) pairs as delivered by the
// input iterator, and ResultRead, the reconstructed consensus where each
// position carries a log-probability instead of a PHRED score. Both are
// plain slices so the assembler can allocate them once and reuse them
// across pairs.
package seq

import "github.com/ngseq/pastitch/nt"

// QBase is a single quality-annotated nucleotide: a base call paired with
// its PHRED score as decoded (consumers clamp it with qual.Clamp).
type QBase struct {
	Nt    nt.Base
	Phred uint8
}

// QRead is a finite ordered sequence of quality bases, §3's "Read".
type QRead []QBase

// ResultBase is a single reconstructed consensus position: a base call
// paired with the log-probability that the call is correct (see DESIGN.md,
// "ResultBase.PLog sign convention").
type ResultBase struct {
	Nt   nt.Base
	PLog float64
}

// ResultRead is the reconstructed consensus sequence of an assembled pair.
type ResultRead []ResultBase

// CopyFromASCII decodes seq/qual (FASTQ-style, PHRED ASCII-33 encoded) into
// dst, reusing dst's backing array when possible. pairio uses it to decode
// the forward mate of each pair.
func CopyFromASCII(seqBytes, qualBytes []byte, dst QRead) QRead {
	n := len(seqBytes)
	if cap(dst) < n {
		dst = make(QRead, n)
	}
	dst = dst[:n]
	for i := 0; i < n; i++ {
		phred := uint8(0)
		if i < len(qualBytes) {
			phred = qualBytes[i] - 33
		}
		dst[i] = QBase{Nt: nt.FromASCII(seqBytes[i]), Phred: phred}
	}
	return dst
}

// CopyFromASCIIComplement decodes seq/qual the same way CopyFromASCII does,
// but through nt.FromASCIIComplement instead of nt.FromASCII: each output
// base is the per-position complement of the input letter. Position order
// is NOT reversed (see DESIGN.md, "reverse-read orientation") — the reverse
// mate arrives from the sequencer already laid out this way, so the decode
// step must not reorder it a second time.
func CopyFromASCIIComplement(seqBytes, qualBytes []byte, dst QRead) QRead {
	n := len(seqBytes)
	if cap(dst) < n {
		dst = make(QRead, n)
	}
	dst = dst[:n]
	for i := 0; i < n; i++ {
		phred := uint8(0)
		if i < len(qualBytes) {
			phred = qualBytes[i] - 33
		}
		dst[i] = QBase{Nt: nt.FromASCIIComplement(seqBytes[i]), Phred: phred}
	}
	return dst
}
