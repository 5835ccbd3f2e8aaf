package assemble

import (
	"github.com/ngseq/pastitch/nt"
	"github.com/ngseq/pastitch/seq"
)

// kmerSlots is 4^KmerLen, the number of distinct 2-bit-packed k-mer codes.
const kmerSlots = 1 << (2 * KmerLen)

// kmerTable is the flat position index assembler.c builds per pair: for
// every N-free k-mer seen while scanning the forward read, it
// records (up to NumKmers) 1-based start positions, so the reverse scan
// can look up forward candidates for each of its own k-mers in O(1).
//
// The whole table is never cleared between pairs — assembler.c avoids an
// O(4^k) reset by re-walking the forward read's own k-mers and zeroing
// exactly the slots it touched; kmerTable.reset does the same.
type kmerTable struct {
	numKmers int
	table    []uint16 // numKmers slots per k-mer code
}

func newKmerTable(numKmers int) *kmerTable {
	return &kmerTable{
		numKmers: numKmers,
		table:    make([]uint16, kmerSlots*numKmers),
	}
}

// store records a 1-based position for kmer in the first free slot,
// reporting false (a lost k-mer, purely diagnostic) if all slots are
// already occupied.
func (t *kmerTable) store(kmer uint32, pos1 uint16) bool {
	base := int(kmer) * t.numKmers
	for j := 0; j < t.numKmers; j++ {
		if t.table[base+j] == 0 {
			t.table[base+j] = pos1
			return true
		}
	}
	return false
}

// positions calls fn once per stored (nonzero) 1-based position for kmer.
func (t *kmerTable) positions(kmer uint32, fn func(pos1 uint16)) {
	base := int(kmer) * t.numKmers
	for j := 0; j < t.numKmers; j++ {
		if p := t.table[base+j]; p != 0 {
			fn(p)
		}
	}
}

// reset zeroes exactly the slots a forward scan of read would have
// touched, by re-running the same scan.
func (t *kmerTable) reset(read seq.QRead) {
	kmerScanForward(read, func(_ int, kmer uint32) {
		base := int(kmer) * t.numKmers
		for j := 0; j < t.numKmers; j++ {
			t.table[base+j] = 0
		}
	})
}

// baseCode maps a nucleotide to its 2-bit k-mer code. Any degenerate or N
// call folds to 0 (matching the ternary chain in assembler.c's
// FOREACH_KMER, which only cares about N for the "bad" countdown — the
// code itself is irrelevant once a window spans an N, since it will be
// suppressed).
func baseCode(b nt.Base) uint32 {
	switch b {
	case nt.T:
		return 3
	case nt.G:
		return 2
	case nt.C:
		return 1
	default:
		return 0
	}
}

// kmerScanForward reports every N-free KmerLen-length window of
// read, ascending, as (start position, packed code). An N anywhere in the
// last KmerLen bases suppresses the window covering it and the next
// KmerLen-1 windows (spec.md §4.4 step 3).
func kmerScanForward(read seq.QRead, fn func(pos int, kmer uint32)) {
	var kmer uint32
	const mask = uint32(1)<<(2*KmerLen) - 1
	bad := KmerLen
	for p := 0; p < len(read); p++ {
		b := read[p].Nt
		kmer = ((kmer << 2) | baseCode(b)) & mask
		if b == nt.N {
			bad = KmerLen
		} else if bad > 0 {
			bad--
		}
		if bad == 0 && p >= KmerLen-1 {
			fn(p-KmerLen+1, kmer)
		}
	}
}

// kmerScanReverse is kmerScanForward run from the read's 3' end backward,
// matching assembler.c's FOREACH_KMER_REVERSE traversal order. Each window
// is packed in that backward reading order and reported by its 0-based
// position p (the window covers read[p-KmerLen+1..p]), so positions come in
// descending order. Candidate overlaps are later scored by walking the
// bitmap in ascending overlap order, whatever order they were found in.
func kmerScanReverse(read seq.QRead, fn func(pos int, kmer uint32)) {
	var kmer uint32
	const mask = uint32(1)<<(2*KmerLen) - 1
	bad := KmerLen
	n := len(read)
	for i := 0; i < n; i++ {
		p := n - 1 - i
		b := read[p].Nt
		kmer = ((kmer << 2) | baseCode(b)) & mask
		if b == nt.N {
			bad = KmerLen
		} else if bad > 0 {
			bad--
		}
		if bad == 0 && i >= KmerLen-1 {
			fn(p, kmer)
		}
	}
}
