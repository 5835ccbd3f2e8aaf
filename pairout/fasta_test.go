package pairout

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ngseq/pastitch/assemble"
	"github.com/ngseq/pastitch/nt"
	"github.com/ngseq/pastitch/seq"
)

func mkResult(bases string) assemble.Result {
	cons := make(seq.ResultRead, len(bases))
	for i := range bases {
		cons[i] = seq.ResultBase{Nt: nt.FromASCII(bases[i]), PLog: -0.01}
	}
	return assemble.Result{
		Id:                assemble.Id{Instrument: "M1", Tag: "t1"},
		Consensus:         cons,
		OverlapLen:        len(bases),
		OverlapMismatches: 0,
		Quality:           -0.01,
	}
}

func TestFASTAWriterEmitsConsensus(t *testing.T) {
	var buf bytes.Buffer
	w := NewFASTAWriter(&buf, 0)
	if err := w.Emit(mkResult("ACGTACGT")); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, ">") {
		t.Fatalf("expected a FASTA header line, got %q", out)
	}
	if !strings.Contains(out, "ACGTACGT") {
		t.Fatalf("expected the consensus sequence in output, got %q", out)
	}
	if !strings.Contains(out, "overlap=8") {
		t.Fatalf("expected overlap annotation, got %q", out)
	}
}

func TestFASTQWriterRoundTripsBases(t *testing.T) {
	var buf bytes.Buffer
	w := NewFASTQWriter(&buf)
	if err := w.Emit(mkResult("ACGT")); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 FASTQ lines, got %d: %v", len(lines), lines)
	}
	if lines[1] != "ACGT" {
		t.Errorf("got seq line %q, want ACGT", lines[1])
	}
	if lines[2] != "+" {
		t.Errorf("got unk line %q, want +", lines[2])
	}
	if len(lines[3]) != 4 {
		t.Errorf("qual line length mismatch: %q", lines[3])
	}
}

func TestPlogToPhredASCIIClampsAtZero(t *testing.T) {
	c := plogToPhredASCII(0)
	if c != byte(46+33) {
		t.Errorf("plog=0 (certainty) should clamp to PHREDMAX, got %d", c-33)
	}
}
