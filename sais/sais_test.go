package sais

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/biocore/esa/alphabet"
	"github.com/biocore/esa/esaerr"
	"github.com/biocore/esa/multiseq"
)

// bruteForceSA computes the suffix array of seq+sentinel the naive way,
// for cross-checking BuildPlain on small inputs. The empty suffix
// (index len(seq)) is special-cased to sort last, matching spec.md §3's
// SA[T]=T convention rather than plain string comparison (where "" is
// always the minimum).
func bruteForceSA(seq []byte) []int {
	n := len(seq) + 1
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	suffix := func(i int) string {
		if i == len(seq) {
			return ""
		}
		return string(seq[i:])
	}
	less := func(a, b int) bool {
		if a == len(seq) {
			return false
		}
		if b == len(seq) {
			return true
		}
		return suffix(a) < suffix(b)
	}
	sort.Slice(idx, func(a, b int) bool { return less(idx[a], idx[b]) })
	return idx
}

func toIntSlice(a Array) []int {
	out := make([]int, a.Len())
	for i := range out {
		out[i] = int(a.Get(i))
	}
	return out
}

func checkAgainstBruteForce(t *testing.T, seq []byte) {
	t.Helper()
	got, err := BuildPlain(seq)
	if err != nil {
		t.Fatal(err)
	}
	want := bruteForceSA(seq)
	gotSlice := toIntSlice(got)
	if len(gotSlice) != len(want) {
		t.Fatalf("length mismatch: got %d want %d", len(gotSlice), len(want))
	}
	for i := range want {
		if gotSlice[i] != want[i] {
			t.Fatalf("seq=%q: SA[%d] = %d, want %d\ngot:  %v\nwant: %v", seq, i, gotSlice[i], want[i], gotSlice, want)
		}
	}
}

func TestBuildPlainSmallExamples(t *testing.T) {
	cases := []string{
		"banana",
		"mississippi",
		"abcabcabc",
		"aaaaaa",
		"abacabad",
		"zyxwvutsrqponmlkjihgfedcba",
		"a",
		"ab",
		"ba",
	}
	for _, c := range cases {
		checkAgainstBruteForce(t, []byte(c))
	}
}

func TestBuildPlainRandom(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	alpha := []byte("ACGT")
	for trial := 0; trial < 20; trial++ {
		n := rnd.Intn(200) + 1
		seq := make([]byte, n)
		for i := range seq {
			seq[i] = alpha[rnd.Intn(len(alpha))]
		}
		checkAgainstBruteForce(t, seq)
	}
}

func TestBuildPlainEmptyInput(t *testing.T) {
	_, err := BuildPlain(nil)
	if !esaerr.Is(err, esaerr.EmptyInput) {
		t.Fatalf("expected EmptyInput, got %v", err)
	}
}

func TestLastEntryIsEmptySuffix(t *testing.T) {
	seq := []byte("mississippi")
	got, err := BuildPlain(seq)
	if err != nil {
		t.Fatal(err)
	}
	last := got.Get(got.Len() - 1)
	if last != int64(len(seq)) {
		t.Fatalf("SA[T] = %d, want %d (the empty suffix must sort last)", last, len(seq))
	}
}

func TestWidthFor(t *testing.T) {
	if WidthFor(100) != 4 {
		t.Fatal("expected 4-byte width for small T")
	}
	if WidthFor(1 << 31) != 8 {
		t.Fatal("expected 8-byte width for large T")
	}
}

func TestBuildMultiSeqOrdersLikeConcat(t *testing.T) {
	m, err := multiseq.Build(alphabet.DNA, []multiseq.Record{
		{Name: "a", Seq: []byte("ACGTACGT")},
		{Name: "b", Seq: []byte("GGTACG")},
	}, multiseq.Options{})
	if err != nil {
		t.Fatal(err)
	}
	sa, err := BuildMultiSeq(m)
	if err != nil {
		t.Fatal(err)
	}
	concat := m.Concat()
	// Every suffix must be <= the next one lexicographically, comparing
	// ranks directly (padding/undefined sorts as the largest symbol, so
	// this is the suffix order over the shifted alphabet BuildMultiSeq
	// uses, not a plain byte comparison).
	for i := 1; i < sa.Len(); i++ {
		prevPos := int(sa.Get(i - 1))
		curPos := int(sa.Get(i))
		if !suffixLessOrEqual(concat, prevPos, curPos) {
			t.Fatalf("suffix at SA[%d]=%d is not <= suffix at SA[%d]=%d", i-1, prevPos, i, curPos)
		}
	}
}

// suffixLessOrEqual compares the suffixes of concat starting at i and j.
// The position len(concat) denotes the empty suffix, which sorts after
// every real suffix (spec.md §3's SA[T]=T), not before as plain
// string/slice comparison would have it.
func suffixLessOrEqual(concat []alphabet.Rank, i, j int) bool {
	if i == len(concat) {
		return j == len(concat)
	}
	if j == len(concat) {
		return true
	}
	for i < len(concat) && j < len(concat) {
		if concat[i] != concat[j] {
			return concat[i] < concat[j]
		}
		i++
		j++
	}
	return i >= len(concat)
}
