package pairout

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/minio/highwayhash"
	"github.com/ngseq/pastitch/assemble"
)

// FailedWriter is the "Rejection sink" spec.md §6 names: it records a pair
// that failed to assemble, tagged with a stable fingerprint so downstream
// log correlation/dedup can group repeated failures for the same input
// without re-reading the sequence bytes.
type FailedWriter struct {
	w io.Writer
}

// NewFailedWriter wraps w.
func NewFailedWriter(w io.Writer) *FailedWriter {
	return &FailedWriter{w: w}
}

var fingerprintSeed [highwayhash.Size]byte

// Fingerprint computes a stable 8-byte identifier for a rejected pair from
// its forward/reverse base calls, the same technique fusion's
// groupCandidatesByGenePair uses (highwayhash.Sum over a flattened byte
// buffer with an all-zero seed) to key failures for correlation across
// runs without storing full sequences.
func Fingerprint(forward, reverse assemble.QRead) uint64 {
	buf := make([]byte, 0, len(forward)+len(reverse))
	for _, b := range forward {
		buf = append(buf, byte(b.Nt))
	}
	for _, b := range reverse {
		buf = append(buf, byte(b.Nt))
	}
	sum := highwayhash.Sum(buf, fingerprintSeed[:])
	return binary.LittleEndian.Uint64(sum[:8])
}

// EmitFailed writes one rejected pair as a single log-friendly line: the
// pair Id, the RejectionKind (and vetoing Checker name, if any), and the
// pair's fingerprint.
func (fw *FailedWriter) EmitFailed(id assemble.Id, forward, reverse assemble.QRead, rej assemble.Rejection) error {
	fp := Fingerprint(forward, reverse)
	_, err := fmt.Fprintf(fw.w, "%s\t%s\t%016x\n", id.String(), rej.Error(), fp)
	return err
}
