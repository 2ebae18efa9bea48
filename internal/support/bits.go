package support

import "math/bits"

// Log2Ceil returns ceil(log2(n)) for n>=1, and 0 for n==0 or n==1.
func Log2Ceil(n uint64) int {
	if n <= 1 {
		return 0
	}
	return bits.Len64(n - 1)
}

// BitWidthFor returns the number of bits needed to represent values in
// [0, n], i.e. ceil(log2(n+1)).
func BitWidthFor(n uint64) int {
	return Log2Ceil(n + 1)
}

// PopcountByte is a 256-entry table of bit counts, read by PopcountBytes.
// Built once at package init per spec.md 9 "Compile-time character
// tables" guidance.
var PopcountByte [256]uint8

func init() {
	for i := range PopcountByte {
		PopcountByte[i] = uint8(bits.OnesCount8(uint8(i)))
	}
}

// PopcountBytes sums set bits across a byte slice using the precomputed
// table, avoiding a math/bits call per byte.
func PopcountBytes(b []byte) uint64 {
	var total uint64
	for _, c := range b {
		total += uint64(PopcountByte[c])
	}
	return total
}
