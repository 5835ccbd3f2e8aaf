package pairout

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ngseq/pastitch/assemble"
	"github.com/ngseq/pastitch/nt"
	"github.com/ngseq/pastitch/seq"
)

func mkQRead(bases string) assemble.QRead {
	r := make(seq.QRead, len(bases))
	for i := range bases {
		r[i] = seq.QBase{Nt: nt.FromASCII(bases[i]), Phred: 40}
	}
	return r
}

func TestFingerprintStableAndDistinguishing(t *testing.T) {
	f1 := mkQRead("ACGT")
	r1 := mkQRead("TGCA")
	f2 := mkQRead("ACGA")

	if Fingerprint(f1, r1) != Fingerprint(f1, r1) {
		t.Fatal("fingerprint must be deterministic for identical input")
	}
	if Fingerprint(f1, r1) == Fingerprint(f2, r1) {
		t.Fatal("fingerprint should differ for different forward reads")
	}
}

func TestFailedWriterEmitsLine(t *testing.T) {
	var buf bytes.Buffer
	w := NewFailedWriter(&buf)
	id := assemble.Id{Instrument: "M1", Tag: "t1"}
	rej := assemble.Rejection{Kind: assemble.FailedAlignment}
	if err := w.EmitFailed(id, mkQRead("ACGT"), mkQRead("TGCA"), rej); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "failed_alignment") {
		t.Fatalf("expected rejection kind in output, got %q", out)
	}
}
