// Package radix implements the hybrid MSB/LSB radix sort core of
// spec.md's component E, over plain uint64 keys and over fixed-width
// bitpack records, plus a parallel top-level fan-out/merge.
//
// Grounded on original_source's src/utilities/lsb_radix_sort.hpp (the
// per-pass counting-sort kernel and the bits2split group-size table) and
// src/utilities/bits2split.hpp (the bit-group split table, reproduced
// here as a small closed-form computation rather than the generated
// literal array — see bitGroupSplit's doc comment). The fork/join
// parallel entry points are grounded on internal/support.WorkerPool,
// itself grounded on cmd/bio-pamtool/cmd/view.go's NumCPU/WaitGroup
// fan-out.
package radix

import (
	"sort"

	"github.com/biocore/esa/bitpack"
	"github.com/biocore/esa/internal/support"
)

// smallSortThreshold is the array length below which a plain comparison
// sort beats further radix partitioning.
const smallSortThreshold = 32

// bigBucketFraction is the spec.md 4.E "N/10" threshold: a bucket
// produced by an MSB pass is only recursed into (rather than finished
// with an LSB pass) when it holds more than N/bigBucketFraction elements
// of the original top-level array.
const bigBucketFraction = 10

// bitGroupSplit returns a sequence of 1..7 group sizes in [5,9] summing
// to remainingBits, matching original_source's generated bits2split
// table. Rather than porting that table literally, it is reproduced by
// the same rule the generator follows: use ceil(b/9) groups (the fewest
// groups whose sizes can all stay <=9 while also being >=5), and make the
// groups as equal as possible, with any remainder distributed to the
// last groups (so a fixed-shift LSB pass sequence processes the smaller
// groups first).
func bitGroupSplit(remainingBits int) []int {
	if remainingBits <= 9 {
		return []int{remainingBits}
	}
	numGroups := (remainingBits + 8) / 9 // ceil(remainingBits/9)
	base := remainingBits / numGroups
	rem := remainingBits % numGroups
	groups := make([]int, numGroups)
	for i := range groups {
		groups[i] = base
		if i >= numGroups-rem {
			groups[i]++
		}
	}
	return groups
}

// --- uint64 keys ---

// SortUint64 sorts a in place using the MSB/LSB hybrid radix sort: an MSB
// pass over the top 8 bits recurses into buckets holding more than
// len(a)/bigBucketFraction elements, and finishes smaller buckets with an
// LSB pass sequence over the remaining bits.
func SortUint64(a []uint64) {
	if len(a) <= 1 {
		return
	}
	buf := make([]uint64, len(a))
	sortUint64(a, buf, 0, len(a))
}

func sortUint64(a, buf []uint64, bitsAlreadySorted, topN int) {
	n := len(a)
	if n <= 1 {
		return
	}
	if n <= smallSortThreshold {
		sort.Sort(uint64Slice(a))
		return
	}
	remaining := 64 - bitsAlreadySorted
	if remaining <= 0 {
		return
	}
	if remaining <= 8 {
		lsbRadixUint64(a, buf, bitsAlreadySorted, remaining)
		return
	}
	shift := remaining - 8
	var count [256]int
	for _, v := range a {
		count[(v>>uint(shift))&0xff]++
	}
	nonzero := 0
	for _, c := range count {
		if c > 0 {
			nonzero++
		}
	}
	if nonzero <= 1 {
		// Every key shares the same top byte at this shift; move on
		// without permuting.
		if n > topN/bigBucketFraction {
			sortUint64(a, buf, bitsAlreadySorted+8, topN)
		} else {
			lsbRadixUint64(a, buf, bitsAlreadySorted+8, remaining-8)
		}
		return
	}
	starts := partitionUint64(a, buf[:n], count[:], shift)
	copy(a, buf[:n])
	for i := 0; i < 256; i++ {
		lo := starts[i]
		hi := n
		if i+1 < 256 {
			hi = starts[i+1]
		}
		if hi <= lo {
			continue
		}
		bucket := a[lo:hi]
		bucketBuf := buf[lo:hi]
		if len(bucket) > topN/bigBucketFraction {
			sortUint64(bucket, bucketBuf, bitsAlreadySorted+8, topN)
		} else {
			lsbRadixUint64(bucket, bucketBuf, bitsAlreadySorted+8, remaining-8)
		}
	}
}

// partitionUint64 scatters src into dest ordered by the 8-bit key at
// shift, and returns the start offset of each of the 256 buckets.
func partitionUint64(src, dest []uint64, count []int, shift int) [256]int {
	var starts [256]int
	cum := 0
	for i := 0; i < 256; i++ {
		starts[i] = cum
		cum += count[i]
	}
	cursor := starts
	for _, v := range src {
		k := (v >> uint(shift)) & 0xff
		dest[cursor[k]] = v
		cursor[k]++
	}
	return starts
}

// lsbRadixUint64 finishes sorting a using a sequence of stable LSB
// counting-sort passes sized by bitGroupSplit, over the remainingBits
// bits immediately below the bitsAlreadySorted already-partitioned
// prefix.
func lsbRadixUint64(a, buf []uint64, bitsAlreadySorted, remainingBits int) {
	n := len(a)
	if n <= 1 || remainingBits <= 0 {
		return
	}
	if n <= smallSortThreshold {
		sort.Sort(uint64Slice(a))
		return
	}
	groups := bitGroupSplit(remainingBits)
	shift := 64 - (bitsAlreadySorted + remainingBits)
	src, dst := a, buf[:n]
	swapped := false
	for _, bits := range groups {
		permuted := lsbPassUint64(dst, src, shift, bits)
		if permuted {
			src, dst = dst, src
			swapped = !swapped
		}
		shift += bits
	}
	if swapped {
		copy(a, src)
	}
}

// lsbPassUint64 performs one stable counting-sort pass over 'bits' bits
// of src starting at bit position shift, writing the permuted result to
// dest. It returns false (and leaves dest untouched) when every element
// falls in the same bucket, letting the caller skip the swap.
func lsbPassUint64(dest, src []uint64, shift, bits int) bool {
	numBuckets := 1 << uint(bits)
	mask := uint64(numBuckets - 1)
	count := make([]int, numBuckets)
	for _, v := range src {
		count[(v>>uint(shift))&mask]++
	}
	nonzero := 0
	for _, c := range count {
		if c > 0 {
			nonzero++
		}
	}
	if nonzero <= 1 {
		return false
	}
	cum := 0
	for i := range count {
		c := count[i]
		count[i] = cum
		cum += c
	}
	for _, v := range src {
		k := (v >> uint(shift)) & mask
		dest[count[k]] = v
		count[k]++
	}
	return true
}

type uint64Slice []uint64

func (s uint64Slice) Len() int           { return len(s) }
func (s uint64Slice) Less(i, j int) bool { return s[i] < s[j] }
func (s uint64Slice) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }

// SortUint64Parallel divides a into workers near-equal parts, sorts each
// concurrently, then merges the sorted runs with a chain of workers-1
// merges (spec.md 4.E's parallel top-level). Each merge writes into a
// scratch buffer of len(a) elements and copies the result back into a;
// the merges are not in place.
func SortUint64Parallel(a []uint64, workers int) {
	if workers <= 1 || len(a) <= smallSortThreshold {
		SortUint64(a)
		return
	}
	bounds := splitBounds(len(a), workers)
	pool := support.NewWorkerPool(len(bounds) - 1)
	pool.RunRange(len(bounds)-1, func(shard, lo, hi int) {
		for i := lo; i < hi; i++ {
			SortUint64(a[bounds[i]:bounds[i+1]])
		}
	})
	merged := a[bounds[0]:bounds[1]]
	scratch := make([]uint64, len(a))
	for i := 1; i < len(bounds)-1; i++ {
		next := a[bounds[i]:bounds[i+1]]
		out := scratch[:len(merged)+len(next)]
		mergeUint64(out, merged, next)
		copy(a[bounds[0]:bounds[0]+len(out)], out)
		merged = a[bounds[0] : bounds[0]+len(out)]
	}
}

func splitBounds(n, parts int) []int {
	if parts < 1 {
		parts = 1
	}
	if parts > n {
		parts = n
	}
	if parts < 1 {
		parts = 1
	}
	bounds := make([]int, parts+1)
	base := n / parts
	rem := n % parts
	pos := 0
	for i := 0; i < parts; i++ {
		bounds[i] = pos
		size := base
		if i < rem {
			size++
		}
		pos += size
	}
	bounds[parts] = n
	return bounds
}

func mergeUint64(out, a, b []uint64) {
	i, j, k := 0, 0, 0
	for i < len(a) && j < len(b) {
		if a[i] <= b[j] {
			out[k] = a[i]
			i++
		} else {
			out[k] = b[j]
			j++
		}
		k++
	}
	for i < len(a) {
		out[k] = a[i]
		i++
		k++
	}
	for j < len(b) {
		out[k] = b[j]
		j++
		k++
	}
}

// --- fixed-width packed records ---

// SortRecords sorts the unitSize-byte records packed contiguously in a
// (as produced by bitpack.Packer.Encode) into ascending bitpack.Compare
// order, using a sequence of unitSize stable LSD byte passes (the
// byte-granularity analogue of SortUint64's bit-group passes): the least
// significant byte (index unitSize-1) is processed first and the most
// significant (field 0's leading byte) last, so field 0 dominates the
// final order. This realizes spec.md 4.E's "multi-byte packed records"
// call shape; the original's little-endian byte-index reversal is moot
// here since Go byte slices already hold the record in its logical
// big-endian, field-0-first layout.
func SortRecords(a []byte, unitSize int) {
	n := len(a) / unitSize
	if n <= 1 {
		return
	}
	if n <= smallSortThreshold {
		insertionSortRecords(a, unitSize)
		return
	}
	buf := make([]byte, len(a))
	src, dst := a, buf
	swapped := false
	for byteIndex := unitSize - 1; byteIndex >= 0; byteIndex-- {
		if recordPass(dst, src, unitSize, byteIndex) {
			src, dst = dst, src
			swapped = !swapped
		}
	}
	if swapped {
		copy(a, src)
	}
}

func recordPass(dest, src []byte, unitSize, byteIndex int) bool {
	n := len(src) / unitSize
	var count [256]int
	for i := 0; i < n; i++ {
		count[src[i*unitSize+byteIndex]]++
	}
	nonzero := 0
	for _, c := range count {
		if c > 0 {
			nonzero++
		}
	}
	if nonzero <= 1 {
		return false
	}
	var starts [256]int
	cum := 0
	for i := 0; i < 256; i++ {
		starts[i] = cum
		cum += count[i]
	}
	for i := 0; i < n; i++ {
		rec := src[i*unitSize : i*unitSize+unitSize]
		k := rec[byteIndex]
		d := starts[k]
		copy(dest[d*unitSize:d*unitSize+unitSize], rec)
		starts[k]++
	}
	return true
}

func insertionSortRecords(a []byte, unitSize int) {
	n := len(a) / unitSize
	tmp := make([]byte, unitSize)
	for i := 1; i < n; i++ {
		copy(tmp, a[i*unitSize:(i+1)*unitSize])
		j := i - 1
		for j >= 0 && bitpack.Compare(a[j*unitSize:(j+1)*unitSize], tmp) > 0 {
			copy(a[(j+1)*unitSize:(j+2)*unitSize], a[j*unitSize:(j+1)*unitSize])
			j--
		}
		copy(a[(j+1)*unitSize:(j+2)*unitSize], tmp)
	}
}

// SortRecordsParallel is SortRecords's parallel top-level: workers
// near-equal shards sorted concurrently, merged with a chain of
// workers-1 merges through a scratch buffer of len(a) bytes (not in
// place).
func SortRecordsParallel(a []byte, unitSize, workers int) {
	n := len(a) / unitSize
	if workers <= 1 || n <= smallSortThreshold {
		SortRecords(a, unitSize)
		return
	}
	bounds := splitBounds(n, workers)
	pool := support.NewWorkerPool(len(bounds) - 1)
	pool.RunRange(len(bounds)-1, func(shard, lo, hi int) {
		for i := lo; i < hi; i++ {
			SortRecords(a[bounds[i]*unitSize:bounds[i+1]*unitSize], unitSize)
		}
	})
	scratch := make([]byte, len(a))
	mergedLo, mergedHi := bounds[0], bounds[1]
	for i := 1; i < len(bounds)-1; i++ {
		nextLo, nextHi := bounds[i], bounds[i+1]
		out := scratch[:(mergedHi-mergedLo+nextHi-nextLo)*unitSize]
		mergeRecords(out, a[mergedLo*unitSize:mergedHi*unitSize], a[nextLo*unitSize:nextHi*unitSize], unitSize)
		copy(a[mergedLo*unitSize:mergedLo*unitSize+len(out)], out)
		mergedHi = mergedLo + len(out)/unitSize
	}
}

func mergeRecords(out, a, b []byte, unitSize int) {
	na, nb := len(a)/unitSize, len(b)/unitSize
	i, j, k := 0, 0, 0
	for i < na && j < nb {
		ra := a[i*unitSize : (i+1)*unitSize]
		rb := b[j*unitSize : (j+1)*unitSize]
		if bitpack.Compare(ra, rb) <= 0 {
			copy(out[k*unitSize:(k+1)*unitSize], ra)
			i++
		} else {
			copy(out[k*unitSize:(k+1)*unitSize], rb)
			j++
		}
		k++
	}
	for i < na {
		copy(out[k*unitSize:(k+1)*unitSize], a[i*unitSize:(i+1)*unitSize])
		i++
		k++
	}
	for j < nb {
		copy(out[k*unitSize:(k+1)*unitSize], b[j*unitSize:(j+1)*unitSize])
		j++
		k++
	}
}
