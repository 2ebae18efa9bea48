// Package lcp builds the LCP (longest common prefix) table of spec.md's
// component G: LCP[i] is the length of the common prefix shared by the
// suffixes at SA[i-1] and SA[i], with LCP[0] = LCP[T] = 0.
//
// Three interchangeable construction strategies are provided, grounded on
// the classic Kasai/Manzini-Puglisi family of linear-time algorithms
// rather than any one teacher file (the teacher repo has no LCP array of
// its own): Kasai-13n keeps SA and its inverse resident; Kasai-9n streams
// SA through a SAReader instead of holding it as a Go slice, grounded on
// the sequential/random-access split `encoding/bam`'s sharded readers use
// to keep only the working set in RAM; PLCP-5n computes the PLCP array in
// text order first and only permutes into rank order when the caller asks
// for the standard Table, matching spec.md 4.G's "without the permutation"
// succinct-output carve-out.
package lcp

import (
	"github.com/biocore/esa/esaerr"
	"github.com/biocore/esa/sais"
)

// Table is the saturated three-tier LCP serialization of spec.md 4.G: a
// primary byte stream saturated at 255, a 16-bit overflow stream saturated
// at 65535, and a 32-bit second-overflow stream holding the true value.
//
// The overflow streams are kept parallel to the primary stream (one slot
// per entry, populated only where the previous tier saturated) rather
// than the sparser event-list layout a persisted on-disk format could
// use; this trades a few bytes of unused overflow-stream space for a
// Get that never needs a rank structure over the primary stream, which
// this package's only consumer (traverse, indexio) always wants anyway.
type Table struct {
	primary []byte
	ll2     []uint16
	ll4     []uint32
}

func newTable(n int) *Table {
	return &Table{primary: make([]byte, n)}
}

func (t *Table) set(i, v int) {
	switch {
	case v < 255:
		t.primary[i] = byte(v)
	case v < 65535:
		t.primary[i] = 255
		if t.ll2 == nil {
			t.ll2 = make([]uint16, len(t.primary))
		}
		t.ll2[i] = uint16(v)
	default:
		t.primary[i] = 255
		if t.ll2 == nil {
			t.ll2 = make([]uint16, len(t.primary))
		}
		t.ll2[i] = 65535
		if t.ll4 == nil {
			t.ll4 = make([]uint32, len(t.primary))
		}
		t.ll4[i] = uint32(v)
	}
}

// FromValues rebuilds a Table from already-decoded LCP values, saturating
// each entry through the same three-tier rule BuildKasai13n/BuildPLCP5n
// use. Used by indexio to reconstitute a Table after replaying
// base.lcp/.ll2/.ll4's sparse on-disk overflow streams back into dense
// per-index values.
func FromValues(values []int) *Table {
	t := newTable(len(values))
	for i, v := range values {
		t.set(i, v)
	}
	return t
}

// Get returns LCP[i].
func (t *Table) Get(i int) int {
	v := t.primary[i]
	if v < 255 {
		return int(v)
	}
	v2 := t.ll2[i]
	if v2 < 65535 {
		return int(v2)
	}
	return int(t.ll4[i])
}

// Len returns T+1, the number of entries (including LCP[0]=LCP[T]=0).
func (t *Table) Len() int { return len(t.primary) }

// Primary exposes the saturated byte stream, e.g. for indexio to persist
// base.lcp/base.ll2/base.ll4 directly.
func (t *Table) Primary() []byte  { return t.primary }
func (t *Table) LL2() []uint16    { return t.ll2 }
func (t *Table) LL4() []uint32    { return t.ll4 }

// BuildKasai13n runs classic Kasai's algorithm with SA and its inverse
// resident in memory, scanning text positions in increasing order so each
// successive h value drops by at most one before being re-extended
// (spec.md 4.G "Kasai-13n").
func BuildKasai13n(sa sais.Array, text []byte) (*Table, error) {
	n := sa.Len()
	if n == 0 {
		return nil, esaerr.New(esaerr.EmptyInput, "lcp: empty suffix array")
	}
	isa := make([]int, n)
	for i := 0; i < n; i++ {
		isa[sa.Get(i)] = i
	}
	return kasai(n, text, isa, func(rank int) int { return int(sa.Get(rank)) }), nil
}

// SAReader is the streamed suffix-array access spec.md 4.G's Kasai-9n
// variant reads through (realized by suftabview.Reader's on-demand
// packed-record lookup): only ISA and the output stay resident, SA itself
// is fetched one record at a time.
type SAReader interface {
	Len() int
	At(rank int) (int, error)
}

// BuildKasai9n is BuildKasai13n with SA accessed through a SAReader
// instead of a resident sais.Array, so only ISA (and the output) need to
// fit in RAM (spec.md 4.G "Kasai-9n").
func BuildKasai9n(sa SAReader, text []byte) (*Table, error) {
	n := sa.Len()
	if n == 0 {
		return nil, esaerr.New(esaerr.EmptyInput, "lcp: empty suffix array")
	}
	isa := make([]int, n)
	for i := 0; i < n; i++ {
		v, err := sa.At(i)
		if err != nil {
			return nil, esaerr.Wrap(esaerr.InputIo, err, "lcp: reading SA record %d", i)
		}
		isa[v] = i
	}
	var readErr error
	t := kasai(n, text, isa, func(rank int) int {
		if readErr != nil {
			return 0
		}
		v, err := sa.At(rank)
		if err != nil {
			readErr = err
			return 0
		}
		return v
	})
	if readErr != nil {
		return nil, esaerr.Wrap(esaerr.InputIo, readErr, "lcp: streaming SA during Kasai-9n")
	}
	return t, nil
}

// kasai holds the shared scan: saAt(rank) returns SA[rank], abstracting
// over whether SA is a resident sais.Array or a streamed SAReader.
func kasai(n int, text []byte, isa []int, saAt func(rank int) int) *Table {
	t := newTable(n)
	textLen := len(text)
	h := 0
	// i ranges only over real text positions; isa[textLen] (the empty
	// suffix's rank) is handled separately below, since text has no
	// position textLen to extend a match from.
	for i := 0; i < textLen; i++ {
		r := isa[i]
		if r > 0 {
			j := saAt(r - 1)
			for i+h < textLen && j+h < textLen && text[i+h] == text[j+h] {
				h++
			}
			t.set(r, h)
			if h > 0 {
				h--
			}
		} else {
			h = 0
		}
	}
	t.set(isa[textLen], 0)
	t.set(0, 0)
	return t
}

// ComputePLCP computes the PLCP array in text order (spec.md 4.G's
// Φ[i] = SA[ISA[i]-1] followed by the match-extension recurrence),
// without permuting it into rank order. The succinct serialization
// (Succinct, below) is built directly from this array; BuildPLCP5n
// permutes it into a Table when the caller wants the standard
// rank-indexed form instead.
func ComputePLCP(sa sais.Array, text []byte) []int {
	n := sa.Len()
	phi := make([]int, n)
	prev := -1
	for r := 0; r < n; r++ {
		cur := int(sa.Get(r))
		phi[cur] = prev
		prev = cur
	}
	plcp := make([]int, n)
	textLen := len(text)
	l := 0
	// i ranges only over real text positions; phi[textLen] corresponds to
	// the empty suffix and is fixed to 0 below rather than walked through
	// the match-extension recurrence, since text has no position textLen
	// to compare from.
	for i := 0; i < textLen; i++ {
		if phi[i] == -1 {
			l = 0
		} else {
			j := phi[i]
			for i+l < textLen && j+l < textLen && text[i+l] == text[j+l] {
				l++
			}
		}
		plcp[i] = l
		if l > 0 {
			l--
		}
	}
	plcp[textLen] = 0
	return plcp
}

// BuildPLCP5n computes the PLCP array and permutes it through SA into the
// standard rank-indexed Table (spec.md 4.G "PLCP-5n").
func BuildPLCP5n(sa sais.Array, text []byte) (*Table, error) {
	n := sa.Len()
	if n == 0 {
		return nil, esaerr.New(esaerr.EmptyInput, "lcp: empty suffix array")
	}
	plcp := ComputePLCP(sa, text)
	t := newTable(n)
	for r := 1; r < n; r++ {
		t.set(r, plcp[sa.Get(r)])
	}
	t.set(0, 0)
	return t, nil
}
