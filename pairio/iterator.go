package pairio

import (
	"io"

	"github.com/ngseq/pastitch/assemble"
	"github.com/ngseq/pastitch/seq"
)

// PairIterator drives a forward/reverse FASTQ stream pair as the ordered
// "next_pair()" source spec.md §6 describes: each call to Next decodes one
// record from each stream, parses the forward identifier into an
// assemble.Id, and hands back quality-annotated reads ready for
// assemble.Assembler.Assemble. Scratch buffers are reused across calls, so
// the Id/QRead/QRead returned by one Next are only valid until the next.
type PairIterator struct {
	pairs        *pairScanner
	fwdRaw       rawRead
	revRaw       rawRead
	forward      seq.QRead
	reverse      seq.QRead
	forwardBytes []byte
	err          error
}

// NewPairIterator builds a PairIterator over two already-open streams. r1
// and r2 should be positioned at the start of their respective FASTQ
// content; callers that need transparent gzip/bzip2 decompression should
// wrap r1/r2 with Open first.
func NewPairIterator(r1, r2 io.Reader) *PairIterator {
	return &PairIterator{pairs: newPairScanner(r1, r2)}
}

// Open decompresses path's contents (by extension: .gz via
// klauspost/compress/gzip, .bz2 via the standard library) if needed,
// returning a plain io.Reader suitable for NewPairIterator. f is the
// already-open underlying file.
func Open(path string, f io.Reader) (io.Reader, error) {
	return openCompressed(path, f)
}

// Next decodes the next forward/reverse pair. The returned Id, forward and
// reverse reads are valid only until the next call to Next. ok is false
// once either stream is exhausted; callers should then check Err.
func (p *PairIterator) Next() (id assemble.Id, forward, reverse seq.QRead, ok bool) {
	if p.err != nil {
		return assemble.Id{}, nil, nil, false
	}
	if !p.pairs.scan(&p.fwdRaw, &p.revRaw) {
		p.err = p.pairs.Err()
		return assemble.Id{}, nil, nil, false
	}
	id = ParseId(p.fwdRaw.ID)
	p.forward = seq.CopyFromASCII([]byte(p.fwdRaw.Seq), []byte(p.fwdRaw.Qual), p.forward)
	p.reverse = seq.CopyFromASCIIComplement([]byte(p.revRaw.Seq), []byte(p.revRaw.Qual), p.reverse)
	return id, p.forward, p.reverse, true
}

// Err returns the first error encountered by the underlying streams, or nil
// if iteration ended because both streams were simply exhausted together.
func (p *PairIterator) Err() error {
	if p.err == nil {
		return nil
	}
	return p.err
}
