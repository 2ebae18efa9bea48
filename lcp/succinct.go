package lcp

import "math/bits"

// Succinct is the unary-coded PLCP bitvector serialization of spec.md
// 4.G: text position pos contributes plcp[pos]-plcp[pos-1]+1 zero bits
// (plcp[0] zero bits for pos 0) followed by a one bit, so the i-th text
// position's PLCP value is recovered as select1(i) - 2i. Total size is
// 2T+1 bits, since plcp[T] is 0.
type Succinct struct {
	words []uint64
	nbits int

	// sampleRate-spaced select1 samples: sampleOnes[k] is the bit
	// position of the (k*sampleRate)-th one bit, letting Select1 skip to
	// the nearest sample and then scan forward word-by-word using
	// popcount instead of a linear bit-by-bit walk.
	sampleOnes []uint32
}

const selectSampleRate = 64

// BuildSuccinct encodes plcp (as produced by ComputePLCP, in text order)
// into the unary bitvector plus a sampled select1 index.
func BuildSuccinct(plcp []int) *Succinct {
	nbits := 0
	prev := 0
	for i, v := range plcp {
		key := v + i
		nbits += key - prev + 1
		prev = key
	}
	s := &Succinct{words: make([]uint64, (nbits+63)/64), nbits: nbits}

	pos := 0
	prev = 0
	oneIndex := 0
	for i, v := range plcp {
		key := v + i
		pos += key - prev + 1
		prev = key
		onePos := pos - 1
		s.words[onePos/64] |= 1 << uint(onePos%64)
		if oneIndex%selectSampleRate == 0 {
			s.sampleOnes = append(s.sampleOnes, uint32(onePos))
		}
		oneIndex++
	}
	return s
}

// Len returns the bitvector's length in bits.
func (s *Succinct) Len() int { return s.nbits }

// Bit reports whether bit i is set.
func (s *Succinct) Bit(i int) bool {
	return s.words[i/64]&(1<<uint(i%64)) != 0
}

// Select1 returns the bit position of the i-th one bit (0-indexed).
func (s *Succinct) Select1(i int) int {
	sampleIdx := i / selectSampleRate
	pos := int(s.sampleOnes[sampleIdx])
	remaining := i - sampleIdx*selectSampleRate

	wordIdx := pos / 64
	// Clear bits below pos in the starting word so the scan below always
	// lands on the next one bit, including pos itself when remaining==0.
	w := s.words[wordIdx] &^ ((1 << uint(pos%64)) - 1)
	for {
		cnt := bits.OnesCount64(w)
		if remaining < cnt {
			for {
				bit := bits.TrailingZeros64(w)
				if remaining == 0 {
					return wordIdx*64 + bit
				}
				w &^= 1 << uint(bit)
				remaining--
			}
		}
		remaining -= cnt
		wordIdx++
		w = s.words[wordIdx]
	}
}

// PLCP returns the PLCP value of text position i, recovered as
// Select1(i) - 2i.
func (s *Succinct) PLCP(i int) int {
	return s.Select1(i) - 2*i
}
