// Package pairout serializes assemble.Result/Rejection values to the
// output streams spec.md §1 and §6 call "Output serialization" and
// "Rejection sink": a FASTA (or FASTQ) consensus writer built on
// biogo/biogo's sequence types, a fingerprinted failed-pair writer, and a
// typed-event logger.
package pairout

import (
	"fmt"
	"io"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
	"github.com/ngseq/pastitch/assemble"
)

// FASTAWriter emits assembled consensus reads as FASTA records, one per
// Result, with the per-base mean quality folded into the description line
// (FASTA carries no native per-base quality field).
type FASTAWriter struct {
	w *fasta.Writer
}

// NewFASTAWriter wraps w, wrapping lines at width bases (0 disables
// wrapping, writing one line per record).
func NewFASTAWriter(w io.Writer, width int) *FASTAWriter {
	return &FASTAWriter{w: fasta.NewWriter(w, width)}
}

// Emit writes r's consensus as one FASTA record, spec.md §6's "Output
// sink". The description carries the pair's Id, overlap length and
// mismatch count, the assembled quality, and a farm.Hash64 fingerprint of
// the consensus for correlating this record with diagnostic logs, mirroring
// the annotation pandaseq's own FASTA output includes.
func (fw *FASTAWriter) Emit(r assemble.Result) error {
	letters := make([]alphabet.Letter, len(r.Consensus))
	for i, b := range r.Consensus {
		letters[i] = alphabet.Letter(b.Nt.ToASCII())
	}
	desc := fmt.Sprintf("%s overlap=%d mismatches=%d quality=%.4f fingerprint=%016x",
		r.Id.String(), r.OverlapLen, r.OverlapMismatches, r.Quality, r.Fingerprint)
	s := linear.NewSeq(desc, letters, alphabet.DNA)
	_, err := fw.w.Write(s)
	return err
}

// FASTQWriter emits assembled consensus reads as FASTQ records, recovering
// a PHRED score per base from each ResultBase's log-probability so the
// consensus can round-trip through tools that expect per-base quality.
type FASTQWriter struct {
	w io.Writer
}

// NewFASTQWriter wraps w.
func NewFASTQWriter(w io.Writer) *FASTQWriter {
	return &FASTQWriter{w: w}
}

// Emit writes r's consensus as one FASTQ record. PLog (a natural-log
// probability of correctness) is converted to a PHRED score via
// phred = -10*log10(1-p), clamped to qual.PHREDMAX, mirroring the
// sequencer-facing PHRED encoding the rest of the pipeline consumes.
func (fw *FASTQWriter) Emit(r assemble.Result) error {
	seqBytes := make([]byte, len(r.Consensus))
	qualBytes := make([]byte, len(r.Consensus))
	for i, b := range r.Consensus {
		seqBytes[i] = b.Nt.ToASCII()
		qualBytes[i] = plogToPhredASCII(b.PLog)
	}
	_, err := fmt.Fprintf(fw.w, "@%s\n%s\n+\n%s\n", r.Id.String(), seqBytes, qualBytes)
	return err
}
