// Package pairio adapts encoding/fastq's line-oriented FASTQ scanner into
// the paired-read input iterator assemble.Assembler consumes: transparent
// gzip/bzip2 decompression, identifier parsing into assemble.Id, and
// ASCII-to-nt.Base/PHRED decoding for both mates (spec.md §1 "Input
// decoding", §6 "Input iterator").
package pairio

import (
	"bufio"
	"errors"
	"io"
)

var (
	// ErrShort is returned when a truncated FASTQ file is encountered.
	ErrShort = errors.New("pairio: short FASTQ file")
	// ErrInvalid is returned when a malformed FASTQ record is encountered.
	ErrInvalid = errors.New("pairio: invalid FASTQ file")
	// ErrDiscordant is returned when the forward and reverse streams run out
	// of sync (one ends before the other).
	ErrDiscordant = errors.New("pairio: discordant FASTQ pairs")
)

// rawRead is one raw FASTQ record: identifier, sequence, the (usually
// unused) "+" line, and the quality string. Kept distinct from
// assemble.QRead because decoding needs to know which mate it is (forward
// decodes by identity, reverse decodes per-base-complemented) before the
// ASCII bytes become nt.Base/PHRED pairs.
type rawRead struct {
	ID, Seq, Unk, Qual string
}

var errEOF = errors.New("pairio: eof")

// scanner reads one FASTQ stream four lines at a time. Not threadsafe;
// mirrors encoding/fastq.Scanner's structure, trimmed to the fields pairio
// always needs (id/seq/qual; the "+" line is validated and kept in Unk).
type scanner struct {
	b   *bufio.Scanner
	err error
}

func newScanner(r io.Reader) *scanner {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 1<<20)
	return &scanner{b: s}
}

func (s *scanner) scan(read *rawRead) bool {
	if s.err != nil {
		return false
	}
	if !s.b.Scan() {
		if s.err = s.b.Err(); s.err == nil {
			s.err = errEOF
		}
		return false
	}
	id := s.b.Bytes()
	if len(id) == 0 || id[0] != '@' {
		s.err = ErrInvalid
		return false
	}
	read.ID = string(id[1:])
	if !s.next() {
		return false
	}
	read.Seq = s.b.Text()
	if !s.next() {
		return false
	}
	unk := s.b.Bytes()
	if len(unk) == 0 || unk[0] != '+' {
		s.err = ErrInvalid
		return false
	}
	read.Unk = string(unk)
	if !s.next() {
		return false
	}
	read.Qual = s.b.Text()
	return true
}

func (s *scanner) next() bool {
	ok := s.b.Scan()
	if !ok {
		if s.err = s.b.Err(); s.err == nil {
			s.err = ErrShort
		}
	}
	return ok
}

func (s *scanner) Err() error {
	if s.err == errEOF {
		return nil
	}
	return s.err
}

// pairScanner composes a forward/reverse scanner pair, exactly as
// encoding/fastq.PairScanner does.
type pairScanner struct {
	forward, reverse *scanner
	err              error
}

func newPairScanner(forward, reverse io.Reader) *pairScanner {
	return &pairScanner{forward: newScanner(forward), reverse: newScanner(reverse)}
}

func (p *pairScanner) scan(f, r *rawRead) bool {
	ok1 := p.forward.scan(f)
	ok2 := p.reverse.scan(r)
	if ok1 != ok2 {
		p.err = ErrDiscordant
	}
	return ok1 && ok2
}

func (p *pairScanner) Err() error {
	if err := p.forward.Err(); err != nil {
		return err
	}
	if err := p.reverse.Err(); err != nil {
		return err
	}
	return p.err
}
