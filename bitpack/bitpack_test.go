package bitpack

import (
	"math/rand"
	"testing"

	"github.com/biocore/esa/esaerr"
)

func TestRoundTrip(t *testing.T) {
	widths := []int{20, 18, 2, 24}
	p, err := NewPacker(8, widths)
	if err != nil {
		t.Fatal(err)
	}
	rnd := rand.New(rand.NewSource(1))
	for trial := 0; trial < 2000; trial++ {
		values := make([]uint64, len(widths))
		for i, w := range widths {
			values[i] = uint64(rnd.Int63n(int64(bits2max(w)) + 1))
		}
		rec, err := p.Encode(values)
		if err != nil {
			t.Fatal(err)
		}
		for i := range values {
			if got := p.DecodeAt(rec, i); got != values[i] {
				t.Fatalf("field %d: got %d want %d", i, got, values[i])
			}
		}
	}
}

func TestOrderPreservation(t *testing.T) {
	p, err := NewPacker(9, []int{8, 8, 8, 8, 40})
	if err != nil {
		t.Fatal(err)
	}
	rnd := rand.New(rand.NewSource(2))
	for trial := 0; trial < 500; trial++ {
		u := randomTuple(rnd, p)
		v := randomTuple(rnd, p)
		ru, _ := p.Encode(u)
		rv, _ := p.Encode(v)
		want := tupleCompare(u, v)
		got := Compare(ru, rv)
		if sign(got) != sign(want) {
			t.Fatalf("tuple order mismatch: u=%v v=%v memcmp=%d tuple=%d", u, v, got, want)
		}
	}
}

func TestOverflowWidth9(t *testing.T) {
	p, err := NewPacker(9, []int{32, 32, 8})
	if err != nil {
		t.Fatal(err)
	}
	values := []uint64{0xdeadbeef, 0xfeedface, 0xab}
	rec, err := p.Encode(values)
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range values {
		if got := p.DecodeAt(rec, i); got != want {
			t.Fatalf("field %d: got %x want %x", i, got, want)
		}
	}
}

func TestEncodeOverflowError(t *testing.T) {
	p, err := NewPacker(8, []int{4, 4})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.Encode([]uint64{16, 0}); !esaerr.Is(err, esaerr.BitOverflow) {
		t.Fatalf("expected BitOverflow, got %v", err)
	}
}

func TestBitBudgetExceeded(t *testing.T) {
	if _, err := NewPacker(8, []int{40, 40}); !esaerr.Is(err, esaerr.BitOverflow) {
		t.Fatalf("expected BitOverflow at construction, got %v", err)
	}
}

func randomTuple(rnd *rand.Rand, p *Packer) []uint64 {
	values := make([]uint64, p.NumFields())
	for i, f := range p.fields {
		values[i] = uint64(rnd.Int63n(int64(f.mask) + 1))
	}
	return values
}

func tupleCompare(a, b []uint64) int {
	for i := range a {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

func sign(x int) int {
	switch {
	case x < 0:
		return -1
	case x > 0:
		return 1
	default:
		return 0
	}
}
