// Package nt implements the 4-bit nucleotide set used throughout the
// assembler: a base is a subset of {A,C,G,T} represented as a bitmask, so a
// single degenerate IUPAC letter and an unambiguous call share one type.
package nt

import "math/bits"

// Base is a 4-bit set; bit 0 is A, bit 1 is C, bit 2 is G, bit 3 is T.
// Z is the empty set (an unrecognized input character); N is the full set
// (fully ambiguous).
type Base uint8

const (
	Z Base = 0
	A Base = 1 << 0
	C Base = 1 << 1
	G Base = 1 << 2
	T Base = 1 << 3
	N Base = A | C | G | T
)

// ntchar maps a Base value (0-15) to its IUPAC ASCII letter.
var ntchar = [16]byte{'N', 'A', 'C', 'M', 'G', 'R', 'S', 'V', 'T', 'W', 'Y', 'H', 'K', 'D', 'B', 'N'}

// asciiForward and asciiReverse are 32-entry tables indexed by c&0x1F,
// covering '@'..'_' where the uppercase IUPAC letters fall.
var asciiForward [32]Base
var asciiReverse [32]Base

func init() {
	set := func(tbl *[32]Base, c byte, b Base) {
		tbl[c&0x1F] = b
	}
	for _, tbl := range []*[32]Base{&asciiForward, &asciiReverse} {
		for i := range tbl {
			tbl[i] = Z
		}
	}
	fwd := map[byte]Base{
		'A': A, 'B': C | G | T, 'C': C, 'D': A | G | T, 'G': G,
		'H': A | C | T, 'K': G | T, 'M': A | C, 'N': A | C | G | T,
		'R': A | G, 'S': C | G, 'T': T, 'U': T, 'V': A | C | G,
		'W': A | T, 'X': A | C | G | T, 'Y': C | T,
	}
	rev := map[byte]Base{
		'A': T, 'B': G | C | A, 'C': G, 'D': T | C | A, 'G': C,
		'H': T | G | A, 'K': C | A, 'M': T | G, 'N': A | C | G | T,
		'R': T | C, 'S': G | C, 'T': A, 'U': A, 'V': T | G | C,
		'W': T | A, 'X': A | C | G | T, 'Y': G | A,
	}
	for c, b := range fwd {
		set(&asciiForward, c, b)
	}
	for c, b := range rev {
		set(&asciiReverse, c, b)
	}
}

// FromASCII looks up the nt.Base for an ASCII IUPAC letter. The table is
// indexed by c&0x1F, as in panda_nt_from_ascii, so a lowercase letter maps
// to the same value as its uppercase form. Unknown letters map to Z.
func FromASCII(c byte) Base {
	return asciiForward[c&0x1F]
}

// FromASCIIComplement looks up the complement of the nt.Base for an ASCII
// IUPAC letter in one step, as panda_nt_from_ascii_complement does for
// building a reverse-complemented read without an intermediate Base value.
func FromASCIIComplement(c byte) Base {
	return asciiReverse[c&0x1F]
}

// ToASCII returns the IUPAC letter for b. Any value outside [0,15] maps to
// 'N', matching panda_nt_to_ascii's defensive bound check.
func (b Base) ToASCII() byte {
	if b > 15 {
		return 'N'
	}
	return ntchar[b]
}

func (b Base) String() string {
	return string(b.ToASCII())
}

// Popcount returns the number of bases this set admits.
func (b Base) Popcount() int {
	return bits.OnesCount8(uint8(b))
}

// IsDegenerate reports whether b denotes more than one possible base.
func (b Base) IsDegenerate() bool {
	return b.Popcount() != 1
}

// Matches reports whether a and b share at least one possible base.
func (a Base) Matches(b Base) bool {
	return a&b != 0
}

// Complement returns the reverse complement of the 4-bit word: A<->T,
// C<->G, preserving degeneracy (e.g. R={A,G} complements to Y={C,T}).
func (b Base) Complement() Base {
	var out Base
	if b&A != 0 {
		out |= T
	}
	if b&T != 0 {
		out |= A
	}
	if b&C != 0 {
		out |= G
	}
	if b&G != 0 {
		out |= C
	}
	return out
}

// Set is a sequence of nt.Base values, as decoded from an ASCII read.
type Set []Base

// DecodeASCII decodes an ASCII sequence in place into a Set, reusing dst's
// storage when it has enough capacity (mirrors the per-pair scratch-buffer
// reuse the assembler relies on elsewhere).
func DecodeASCII(seq []byte, dst Set) Set {
	if cap(dst) < len(seq) {
		dst = make(Set, len(seq))
	}
	dst = dst[:len(seq)]
	for i, c := range seq {
		dst[i] = FromASCII(c)
	}
	return dst
}

// DecodeASCIIComplement decodes seq into its reverse complement Set: output
// position i holds the complement of seq's base at len(seq)-1-i.
func DecodeASCIIComplement(seq []byte, dst Set) Set {
	if cap(dst) < len(seq) {
		dst = make(Set, len(seq))
	}
	dst = dst[:len(seq)]
	n := len(seq)
	for i, c := range seq {
		dst[n-1-i] = FromASCIIComplement(c)
	}
	return dst
}
