package lcp

import (
	"math/rand"
	"testing"

	"github.com/biocore/esa/sais"
)

// naiveLCP computes the LCP table the slow, obviously-correct way: for
// each adjacent pair of suffixes in SA order, count matching characters.
func naiveLCP(sa sais.Array, text []byte) []int {
	n := sa.Len()
	out := make([]int, n)
	for r := 1; r < n; r++ {
		a := int(sa.Get(r - 1))
		b := int(sa.Get(r))
		h := 0
		for a+h < len(text) && b+h < len(text) && text[a+h] == text[b+h] {
			h++
		}
		out[r] = h
	}
	return out
}

func tableToSlice(t *Table) []int {
	out := make([]int, t.Len())
	for i := range out {
		out[i] = t.Get(i)
	}
	return out
}

func assertEqual(t *testing.T, got, want []int, label string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s: length mismatch got %d want %d", label, len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("%s: LCP[%d] = %d, want %d\ngot:  %v\nwant: %v", label, i, got[i], want[i], got, want)
		}
	}
}

type memSAReader struct{ sa sais.Array }

func (m memSAReader) Len() int { return m.sa.Len() }
func (m memSAReader) At(rank int) (int, error) {
	return int(m.sa.Get(rank)), nil
}

func testAllVariants(t *testing.T, text []byte) {
	t.Helper()
	sa, err := sais.BuildPlain(text)
	if err != nil {
		t.Fatal(err)
	}
	want := naiveLCP(sa, text)

	tab13, err := BuildKasai13n(sa, text)
	if err != nil {
		t.Fatal(err)
	}
	assertEqual(t, tableToSlice(tab13), want, "Kasai-13n")

	tab9, err := BuildKasai9n(memSAReader{sa}, text)
	if err != nil {
		t.Fatal(err)
	}
	assertEqual(t, tableToSlice(tab9), want, "Kasai-9n")

	tabP, err := BuildPLCP5n(sa, text)
	if err != nil {
		t.Fatal(err)
	}
	assertEqual(t, tableToSlice(tabP), want, "PLCP-5n")
}

func TestLCPVariantsSmallExamples(t *testing.T) {
	for _, s := range []string{"banana", "mississippi", "abcabcabc", "aaaaaa", "abacabad", "a", "ab"} {
		testAllVariants(t, []byte(s))
	}
}

func TestLCPVariantsRandom(t *testing.T) {
	rnd := rand.New(rand.NewSource(11))
	alpha := []byte("ACGT")
	for trial := 0; trial < 15; trial++ {
		n := rnd.Intn(150) + 1
		seq := make([]byte, n)
		for i := range seq {
			seq[i] = alpha[rnd.Intn(len(alpha))]
		}
		testAllVariants(t, seq)
	}
}

func TestLCPBoundaryZero(t *testing.T) {
	sa, err := sais.BuildPlain([]byte("mississippi"))
	if err != nil {
		t.Fatal(err)
	}
	tab, err := BuildKasai13n(sa, []byte("mississippi"))
	if err != nil {
		t.Fatal(err)
	}
	if tab.Get(0) != 0 {
		t.Fatalf("LCP[0] = %d, want 0", tab.Get(0))
	}
	if tab.Get(tab.Len()-1) != 0 {
		t.Fatalf("LCP[T] = %d, want 0", tab.Get(tab.Len()-1))
	}
}

func TestSaturatedTiers(t *testing.T) {
	tab := newTable(5)
	tab.set(0, 10)
	tab.set(1, 254)
	tab.set(2, 255)
	tab.set(3, 65534)
	tab.set(4, 200000)
	want := []int{10, 254, 255, 65534, 200000}
	got := tableToSlice(tab)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("tier mismatch at %d: got %d want %d", i, got[i], want[i])
		}
	}
	if tab.primary[2] != 255 || tab.ll2[2] != 255 {
		t.Fatalf("expected entry 2 to saturate only the primary byte")
	}
	if tab.primary[4] != 255 || tab.ll2[4] != 65535 || tab.ll4[4] != 200000 {
		t.Fatalf("expected entry 4 to saturate through to the ll4 tier")
	}
}

func TestSuccinctMatchesComputePLCP(t *testing.T) {
	rnd := rand.New(rand.NewSource(13))
	alpha := []byte("ACGT")
	for trial := 0; trial < 10; trial++ {
		n := rnd.Intn(120) + 1
		seq := make([]byte, n)
		for i := range seq {
			seq[i] = alpha[rnd.Intn(len(alpha))]
		}
		sa, err := sais.BuildPlain(seq)
		if err != nil {
			t.Fatal(err)
		}
		plcp := ComputePLCP(sa, seq)
		succ := BuildSuccinct(plcp)
		if succ.Len() > 2*sa.Len()+1 {
			t.Fatalf("succinct bitvector length %d exceeds 2T+1=%d", succ.Len(), 2*sa.Len()+1)
		}
		for i, want := range plcp {
			if got := succ.PLCP(i); got != want {
				t.Fatalf("trial %d: PLCP(%d) = %d, want %d", trial, i, got, want)
			}
		}
	}
}
