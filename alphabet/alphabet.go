// Package alphabet implements the compile-time symbol-to-rank translation
// used by the rest of the indexing engine, and the maximal-run character
// range iterator used to split sequences at wildcards. Ported from
// original_source's src/sequences/alphabet.hpp (GttlAlphabet) and
// src/sequences/char_range.hpp (GttlCharRange), generalized from C++
// consteval tables to Go package-init-time arrays, grounded on the teacher's
// pattern of init()-populated 256-entry lookup tables in fusion/kmer.go.
package alphabet

// Rank is an 8-bit unsigned symbol rank in [0,size) for non-special
// symbols, or equal to size for the reserved undefined/padding rank.
type Rank = uint8

// Alphabet is a compile-time function from characters to small ranks, and
// the reverse mapping back to a canonical printable character.
type Alphabet struct {
	name          string
	size          int
	undefined     Rank
	charToRank    [256]Rank
	rankToChar    []byte
}

// Size returns the number of non-special symbols in the alphabet.
func (a *Alphabet) Size() int { return a.size }

// Undefined returns the reserved undefined/padding rank, equal to Size().
func (a *Alphabet) Undefined() Rank { return a.undefined }

// Name returns a short identifier ("dna" or "protein").
func (a *Alphabet) Name() string { return a.name }

// Rank returns the rank for an input character; unknown characters map to
// Undefined().
func (a *Alphabet) Rank(c byte) Rank { return a.charToRank[c] }

// Char returns the canonical printable character for a rank in [0,size),
// or a placeholder '?' for the undefined rank.
func (a *Alphabet) Char(r Rank) byte {
	if int(r) < len(a.rankToChar) {
		return a.rankToChar[r]
	}
	return '?'
}

// EncodeInto ranks every byte of seq into dst, which must be at least
// len(seq) long. Returns the number of non-special (non-undefined) ranks
// written.
func (a *Alphabet) EncodeInto(dst []byte, seq []byte) int {
	nonSpecial := 0
	for i, c := range seq {
		r := a.charToRank[c]
		dst[i] = r
		if r != a.undefined {
			nonSpecial++
		}
	}
	return nonSpecial
}

func build(name string, symbols string, undefined Rank) *Alphabet {
	a := &Alphabet{name: name, size: len(symbols), undefined: undefined}
	for i := range a.charToRank {
		a.charToRank[i] = undefined
	}
	a.rankToChar = make([]byte, len(symbols))
	for i := 0; i < len(symbols); i++ {
		c := symbols[i]
		a.charToRank[c] = Rank(i)
		// Accept lowercase as an alias of the same rank, matching
		// spec.md 4.B's "A a C c G g T t U u" acceptance list.
		if c >= 'A' && c <= 'Z' {
			a.charToRank[c+('a'-'A')] = Rank(i)
		}
		a.rankToChar[i] = c
	}
	return a
}

// DNA is the 4-symbol nucleotide alphabet (A,C,G,T), with U accepted as an
// alias of T, undefined rank 4 (padding/wildcard).
var DNA = buildDNA()

func buildDNA() *Alphabet {
	a := build("dna", "ACGT", 4)
	a.charToRank['U'] = 3
	a.charToRank['u'] = 3
	return a
}

// Protein is the 20-symbol standard amino acid alphabet, undefined rank 20.
var Protein = build("protein", "ACDEFGHIKLMNPQRSTVWY", 20)

// complementRank maps a DNA rank to its Watson-Crick complement rank;
// undefined maps to itself.
var complementRank = [5]Rank{3, 2, 1, 0, 4} // A<->T, C<->G, pad->pad

// Complement returns the Watson-Crick complement of a DNA rank. Calling it
// on a non-DNA rank (e.g. protein) is a programming error and panics.
func Complement(r Rank) Rank {
	if int(r) >= len(complementRank) {
		panic("alphabet: Complement called on out-of-range rank")
	}
	return complementRank[r]
}

// ReverseComplementInto writes the reverse complement of src (DNA ranks)
// into dst, which must be the same length as src. src and dst may overlap
// only if they are identical (in place).
func ReverseComplementInto(dst, src []Rank) {
	n := len(src)
	if &dst[0] == &src[0] {
		for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
			dst[i], dst[j] = Complement(src[j]), Complement(src[i])
		}
		if n%2 == 1 {
			dst[n/2] = Complement(src[n/2])
		}
		return
	}
	for i := 0; i < n; i++ {
		dst[i] = Complement(src[n-1-i])
	}
}

// sniffSet is the set of characters whose presence in the first bytes of a
// sequence marks the file as protein rather than DNA, per spec.md 6:
// "presence of any of L I F E Q P X Z".
var sniffSet = map[byte]bool{'L': true, 'I': true, 'F': true, 'E': true, 'Q': true, 'P': true, 'X': true, 'Z': true}

// SniffLimit is the maximum number of bytes of the first sequence examined
// for protein/DNA auto-detection.
const SniffLimit = 1000

// Sniff scans at most SniffLimit bytes of seq and returns Protein if any
// protein-only marker character is present, else DNA.
func Sniff(seq []byte) *Alphabet {
	n := len(seq)
	if n > SniffLimit {
		n = SniffLimit
	}
	for i := 0; i < n; i++ {
		c := seq[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		if sniffSet[c] {
			return Protein
		}
	}
	return DNA
}
