// Package sais implements the linear-time SA-IS (induced-sorting) suffix
// array constructor of spec.md's component F: the deep core of the
// indexing engine.
//
// Grounded on the classic two-phase SA-IS algorithm (classify L/S types,
// scan LMS substrings, induce-sort, recurse on the reduced problem,
// induce-sort the final order), structurally following
// _examples/xiles84-dnatools/sais.go's recursive shape but rewritten
// against this module's Array/esaerr/alphabet conventions. Each
// recursion level allocates its own scratch (s, sa, isS, the bucket
// arrays); see DESIGN.md for why the spec's scratch-reuse/guard-bit
// variant was not ported.
//
// Multi-sequence input: padding/wildcard ranks are folded in as the
// single largest symbol of the working alphabet, so every suffix that
// starts at a padding or wildcard position sorts after every suffix that
// starts at a real character (the empty suffix still sorts last, see
// below). Among themselves those suffixes are ordered by the ranks that
// follow, like any other suffix; their linear position is not used as a
// tie-break. multiseq.Build does not keep special ranks apart: a wildcard
// run inside a sequence, or an empty sequence between two others, puts
// several of them next to each other. The single trailing sentinel every
// SA-IS run needs is kept uniquely minimal (the classic requirement) and
// the resulting SA[0] is rotated to SA[T] afterward (see
// rotateSentinelToEnd) to match spec.md §3's SA[T]=T convention, which
// the classic construction does not produce on its own.
// original_source's tools/suffixarrays/sk_sain.hpp implements a far more
// elaborate "special symbol acts as its own position" mechanism
// (GTTL_SAIN_MULTISEQ) that orders special positions by position; it is
// not ported here — see DESIGN.md.
package sais

import (
	"github.com/biocore/esa/esaerr"
	"github.com/biocore/esa/multiseq"
)

// Array abstracts over the two concrete suffix-array storage widths
// spec.md's data model names: 32-bit when T<2^30, else 64-bit.
type Array interface {
	Len() int
	Get(i int) int64
	Set(i int, v int64)
}

// Int32Array is the SuftabBaseType realization used for T < 2^30.
type Int32Array []int32

func (a Int32Array) Len() int           { return len(a) }
func (a Int32Array) Get(i int) int64    { return int64(a[i]) }
func (a Int32Array) Set(i int, v int64) { a[i] = int32(v) }

// Int64Array is the SuftabBaseType realization used for T >= 2^30.
type Int64Array []int64

func (a Int64Array) Len() int           { return len(a) }
func (a Int64Array) Get(i int) int64    { return a[i] }
func (a Int64Array) Set(i int, v int64) { a[i] = v }

// widthThreshold is spec.md 4.F/3's 2^30 cutoff between 32-bit and
// 64-bit suftab storage.
const widthThreshold = 1 << 30

// WidthFor returns 4 or 8, the byte width of a single suftab entry for a
// text of length t (t = T+1, including the empty-suffix slot).
func WidthFor(t int) int {
	if t < widthThreshold {
		return 4
	}
	return 8
}

// NewArray allocates a zeroed Array of the width WidthFor(t) selects.
func NewArray(t int) Array {
	if WidthFor(t) == 4 {
		return make(Int32Array, t)
	}
	return make(Int64Array, t)
}

// BuildPlain constructs the suffix array of a plain byte sequence over
// the 256-ary alphabet (spec.md 4.F's first code path). The returned
// Array has length len(seq)+1, with Get(Len()-1) == int64(len(seq)) (the
// empty suffix).
func BuildPlain(seq []byte) (Array, error) {
	if len(seq) == 0 {
		return nil, esaerr.New(esaerr.EmptyInput, "sais: empty input sequence")
	}
	s := make([]int, len(seq)+1)
	for i, c := range seq {
		s[i] = int(c) + 1
	}
	s[len(seq)] = 0
	return buildFromInts(s, 257)
}

// BuildMultiSeq constructs the suffix array of a multiseq.MultiSeq over
// its constant small alphabet (4 or 20), with the padding/wildcard rank
// folded in as the alphabet's top symbol (spec.md 4.F's second code
// path).
func BuildMultiSeq(m *multiseq.MultiSeq) (Array, error) {
	concat := m.Concat()
	if len(concat) == 0 {
		return nil, esaerr.New(esaerr.EmptyInput, "sais: empty multi-sequence input")
	}
	alphaSize := m.Alphabet().Size()
	if alphaSize > 62 {
		// Only DNA (4) and protein (20) are used as "constant small
		// alphabet" inputs to this code path; anything larger should
		// use BuildPlain instead.
		return nil, esaerr.New(esaerr.AlphabetTooLarge, "sais: alphabet size %d too large for the constant-alphabet code path", alphaSize)
	}
	s := make([]int, len(concat)+1)
	for i, r := range concat {
		s[i] = int(r) + 1 // ranks 0..size-1 -> 1..size; undefined (==size) -> size+1
	}
	s[len(concat)] = 0
	return buildFromInts(s, alphaSize+3)
}

// buildFromInts runs the recursive SA-IS construction over s (already
// shifted so that 0 is the unique trailing sentinel) with alphabet size
// k, rotates the sentinel's suffix from the front to the back (see
// rotateSentinelToEnd), and copies the result into an Array of the width
// WidthFor selects.
func buildFromInts(s []int, k int) (Array, error) {
	sa := saisRecursive(s, k)
	rotateSentinelToEnd(sa)
	arr := NewArray(len(sa))
	for i, v := range sa {
		arr.Set(i, int64(v))
	}
	return arr, nil
}

// rotateSentinelToEnd moves sa[0] to sa[len(sa)-1], shifting every other
// entry down by one.
//
// The classic SA-IS construction requires a uniquely minimal trailing
// sentinel, and under that convention the sentinel's suffix (the empty
// suffix) is always lexicographically smallest and therefore always
// lands at SA[0] -- a fact independent of the input, since the sentinel
// compares as less than every real character at the first position
// where any other suffix runs out of shared prefix with it. spec.md §3
// requires the opposite convention (SA[T]=T, the empty suffix sorts
// last, confirmed by its worked example S1). Re-deriving L/S types
// against a maximal sentinel instead would also invert the relative
// order of any two real suffixes that happen to be prefixes of one
// another (e.g. "a" vs "aa" within "aaaa"), which is not what spec.md
// asks for -- only the degenerate empty suffix is special-cased, so the
// two conventions are reconciled with a single rotation of the already
// correct classic result instead of a different sentinel value.
func rotateSentinelToEnd(sa []int) {
	sentinel := sa[0]
	copy(sa, sa[1:])
	sa[len(sa)-1] = sentinel
}

// saisRecursive implements the classic SA-IS algorithm: classify
// S-type/L-type positions, extract LMS positions, induce-sort to
// discover the relative order of LMS substrings, recurse on the reduced
// problem when that order is not already unique, then induce-sort the
// final suffix array from the correctly ordered LMS positions.
func saisRecursive(s []int, k int) []int {
	n := len(s)
	sa := make([]int, n)
	if n == 1 {
		sa[0] = 0
		return sa
	}

	isS := classifyTypes(s)
	lmsPositions := collectLMS(isS)

	induceSortLMS(s, sa, isS, k, lmsPositions)
	sortedLMS := extractLMSOrder(sa, isS)

	lmsNames := make([]int, n)
	for i := range lmsNames {
		lmsNames[i] = -1
	}
	numNames := nameLMSSubstrings(s, isS, sortedLMS, lmsNames)

	var orderedLMS []int
	if numNames < len(lmsPositions) {
		reduced := make([]int, len(lmsPositions))
		for i, pos := range lmsPositions {
			reduced[i] = lmsNames[pos]
		}
		// The reduced problem's classification only ever reads s[i+1]
		// for i<n-1, so the last element does not need to be a unique
		// minimum the way the top-level sentinel does; forcing
		// isS[n-1]=true in classifyTypes is sufficient.
		reducedSA := saisRecursive(reduced, numNames)
		orderedLMS = make([]int, len(lmsPositions))
		for i, idx := range reducedSA {
			orderedLMS[i] = lmsPositions[idx]
		}
	} else {
		orderedLMS = make([]int, len(lmsPositions))
		for _, pos := range lmsPositions {
			orderedLMS[lmsNames[pos]] = pos
		}
	}

	for i := range sa {
		sa[i] = -1
	}
	induceSortLMS(s, sa, isS, k, orderedLMS)
	return sa
}

// classifyTypes computes, for each position, whether it is S-type (true)
// or L-type (false): position n-1 is always S-type, and position i is
// S-type iff s[i]<s[i+1], or s[i]==s[i+1] and i+1 is S-type.
func classifyTypes(s []int) []bool {
	n := len(s)
	isS := make([]bool, n)
	isS[n-1] = true
	for i := n - 2; i >= 0; i-- {
		switch {
		case s[i] < s[i+1]:
			isS[i] = true
		case s[i] > s[i+1]:
			isS[i] = false
		default:
			isS[i] = isS[i+1]
		}
	}
	return isS
}

func isLMS(isS []bool, i int) bool {
	return i > 0 && isS[i] && !isS[i-1]
}

func collectLMS(isS []bool) []int {
	var lms []int
	for i := 1; i < len(isS); i++ {
		if isLMS(isS, i) {
			lms = append(lms, i)
		}
	}
	return lms
}

// bucketSizes/bucketHeads/bucketTails implement the standard SA-IS
// bucket bookkeeping: bucket c holds every position whose first symbol
// is c, heads point at the first free slot from the left, tails from the
// right.
func bucketSizes(s []int, k int) []int {
	bs := make([]int, k)
	for _, c := range s {
		bs[c]++
	}
	return bs
}

func bucketHeads(bs []int) []int {
	heads := make([]int, len(bs))
	sum := 0
	for i, v := range bs {
		heads[i] = sum
		sum += v
	}
	return heads
}

func bucketTails(bs []int) []int {
	tails := make([]int, len(bs))
	sum := 0
	for i, v := range bs {
		sum += v
		tails[i] = sum - 1
	}
	return tails
}

// induceSortLMS places lmsPositions at the tail of their buckets (in
// reverse input order) and then induces every L-type and S-type position
// from that seed, in the standard two-pass SA-IS order.
func induceSortLMS(s []int, sa []int, isS []bool, k int, lmsPositions []int) {
	bs := bucketSizes(s, k)

	tails := bucketTails(bs)
	for i := len(lmsPositions) - 1; i >= 0; i-- {
		pos := lmsPositions[i]
		c := s[pos]
		sa[tails[c]] = pos
		tails[c]--
	}

	heads := bucketHeads(bs)
	for i := range sa {
		pos := sa[i]
		if pos > 0 && !isS[pos-1] {
			c := s[pos-1]
			sa[heads[c]] = pos - 1
			heads[c]++
		}
	}

	tails = bucketTails(bs)
	for i := len(sa) - 1; i >= 0; i-- {
		pos := sa[i]
		if pos > 0 && isS[pos-1] {
			c := s[pos-1]
			sa[tails[c]] = pos - 1
			tails[c]--
		}
	}
}

// extractLMSOrder reads off the LMS positions in the order they ended up
// in sa after induceSortLMS's seed pass.
func extractLMSOrder(sa []int, isS []bool) []int {
	var sorted []int
	for _, pos := range sa {
		if pos > 0 && isLMS(isS, pos) {
			sorted = append(sorted, pos)
		}
	}
	return sorted
}

// nameLMSSubstrings assigns each LMS position the ordinal of its LMS
// substring among the distinct substrings seen in sortedLMS order,
// returning the number of distinct names.
func nameLMSSubstrings(s []int, isS []bool, sortedLMS []int, lmsNames []int) int {
	name := 0
	prev := -1
	for _, pos := range sortedLMS {
		if prev != -1 && !lmsSubstringsEqual(s, isS, prev, pos) {
			name++
		}
		lmsNames[pos] = name
		prev = pos
	}
	if len(sortedLMS) == 0 {
		return 0
	}
	return name + 1
}

func lmsSubstringsEqual(s []int, isS []bool, i, j int) bool {
	n := len(s)
	for d := 0; ; d++ {
		if i+d >= n || j+d >= n {
			return false
		}
		if s[i+d] != s[j+d] || isS[i+d] != isS[j+d] {
			return false
		}
		if d > 0 {
			iLMS := isLMS(isS, i+d)
			jLMS := isLMS(isS, j+d)
			if iLMS || jLMS {
				return iLMS && jLMS
			}
		}
	}
}
