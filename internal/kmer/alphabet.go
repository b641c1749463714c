// Package kmer implements the bit-packed k-mer codec: encoding, sliding
// extension, reverse, complement and canonical-form selection, all on a
// single uint64 word.
package kmer

import "errors"

// ErrIllegalBase means a byte outside the alphabet was seen.
var ErrIllegalBase = errors.New("kmer: illegal base")

// ErrKOverflow means K*UnitLen would not fit a uint64 (K > 32 for DNA).
var ErrKOverflow = errors.New("kmer: K overflow, word cannot hold that many units")

// ErrInvalidK means K < 1.
var ErrInvalidK = errors.New("kmer: K must be >= 1")

// Alphabet parameterizes the codec: how many bits a symbol occupies, and
// the byte<->unit mappings. DNA is the only instance the job needs, but
// nothing below assumes UnitLen == 2 other than the complement-is-NOT
// shortcut, which Alphabet.ComplementIsBitwiseNot documents explicitly.
type Alphabet struct {
	Name    string
	UnitLen uint // bits per symbol

	// encode maps an input byte to its unit value, or ok=false if the
	// byte is not part of the alphabet.
	encode func(b byte) (unit uint64, ok bool)

	// decode maps a unit value back to its canonical output byte.
	decode func(unit uint64) byte

	// ComplementIsBitwiseNot holds when complement(unit) == ^unit (masked
	// to UnitLen bits) for every valid unit, which lets Complement use a
	// single bitwise NOT instead of a per-unit table lookup.
	ComplementIsBitwiseNot bool
}

// DNA is the four-letter nucleotide alphabet used by the job:
// A=00 C=01 G=10 T=11. This encoding is chosen so that bitwise
// complement of the packed unit equals the biological complement
// (A<->T, C<->G), i.e. 00^11=11, 01^11=10.
var DNA = Alphabet{
	Name:    "DNA",
	UnitLen: 2,
	encode: func(b byte) (uint64, bool) {
		switch b {
		case 'A', 'a':
			return 0, true
		case 'C', 'c':
			return 1, true
		case 'G', 'g':
			return 2, true
		case 'T', 't':
			return 3, true
		default:
			return 0, false
		}
	},
	decode: func(u uint64) byte {
		return dnaBit2Base[u&3]
	},
	ComplementIsBitwiseNot: true,
}

var dnaBit2Base = [4]byte{'A', 'C', 'G', 'T'}

// MaxK returns the largest k that fits a 64-bit word for this alphabet.
func (a Alphabet) MaxK() int {
	return 64 / int(a.UnitLen)
}
