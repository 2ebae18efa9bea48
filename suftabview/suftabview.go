// Package suftabview implements spec.md component I, the bit-packed
// suftab view: converting each linear suffix-array entry SA[i] into a
// (seqnum, relpos) pair located inside a multiseq.MultiSeq, packed into
// bitpack records of the smallest byte width that fits b_num+b_len bits.
//
// Two access patterns are provided, matching spec.md 4.I exactly: Build
// does a two-pass linear build (every position in text order is located
// once, since scanning increasing positions through a MultiSeq's sorted
// offsets is itself linear), producing a packed array held fully in
// memory; Convert does a single on-demand lookup, for callers that want
// one record at a time without materializing the whole view. lcp's
// Kasai-9n path reads a built View through Reader instead.
package suftabview

import (
	"github.com/biocore/esa/bitpack"
	"github.com/biocore/esa/esaerr"
	"github.com/biocore/esa/multiseq"
	"github.com/biocore/esa/sais"
)

// View is the packed (seqnum, relpos) array, one record per suffix-array
// entry, each record bitpack.WidthForBits(b_num+b_len) bytes wide.
type View struct {
	packer *bitpack.Packer
	data   []byte
	n      int
}

// Build performs spec.md 4.I's two-pass linear build: the first pass
// walks the multi-sequence's sorted offsets once to precompute, for every
// text position in increasing order, which sequence it falls in (a single
// forward sweep, since positions and offsets are both sorted); the second
// pass writes SA[i]'s (seqnum, relpos) pair in packed form.
func Build(sa sais.Array, m *multiseq.MultiSeq) (*View, error) {
	bNum, bLen := m.BNum(), m.BLen()
	packer, err := bitpack.NewPacker(bitpack.WidthForBits(bNum+bLen), []int{bNum, bLen})
	if err != nil {
		return nil, esaerr.Wrap(esaerr.ConfigInvalid, err, "suftabview: building packer for b_num=%d b_len=%d", bNum, bLen)
	}

	total := m.TotalLength()
	seqOf := make([]int32, total+1) // seqOf[pos] = which sequence pos falls in, or -1 for the sentinel/empty-suffix position
	seqOf[total] = -1
	seqIdx := 0
	pos := 0
	for seqIdx < m.SeqCount() {
		length := m.SeqLen(seqIdx)
		for k := 0; k < length; k++ {
			seqOf[pos] = int32(seqIdx)
			pos++
		}
		if pos < total {
			seqOf[pos] = -1 // padding separator
			pos++
		}
		seqIdx++
	}

	n := sa.Len()
	v := &View{packer: packer, data: make([]byte, n*packer.Width()), n: n}
	for i := 0; i < n; i++ {
		textPos := int(sa.Get(i))
		seqnum, relpos := locate(m, seqOf, textPos)
		rec := v.data[i*packer.Width() : (i+1)*packer.Width()]
		if err := packer.EncodeInto(rec, []uint64{uint64(seqnum), uint64(relpos)}); err != nil {
			return nil, esaerr.Wrap(esaerr.BitOverflow, err, "suftabview: encoding record %d", i)
		}
	}
	return v, nil
}

// locate resolves a single text position to (seqnum, relpos), using the
// precomputed seqOf sweep when available and falling back to
// MultiSeq.LocateSeq for padding separators and the sentinel/empty-suffix
// position (which has no sequence of its own). LocateSeq reports the
// sentinel as the last sequence with relpos equal to that sequence's
// length, which fits the b_num/b_len fields and decodes back to T.
func locate(m *multiseq.MultiSeq, seqOf []int32, textPos int) (seqnum, relpos int) {
	if textPos >= len(seqOf) || seqOf[textPos] == -1 {
		// A padding separator or the sentinel: fall back to the authoritative binary
		// search, which still returns a well-defined (if conventional)
		// owner for a non-content position.
		return m.LocateSeq(textPos)
	}
	seqnum = int(seqOf[textPos])
	relpos = textPos - m.SeqOffset(seqnum)
	return seqnum, relpos
}

// Len returns the number of packed records (T+1).
func (v *View) Len() int { return v.n }

// At decodes the (seqnum, relpos) pair at suffix-array rank i.
func (v *View) At(i int) (seqnum, relpos int) {
	rec := v.data[i*v.packer.Width() : (i+1)*v.packer.Width()]
	return int(v.packer.DecodeAt(rec, 0)), int(v.packer.DecodeAt(rec, 1))
}

// Width returns the packed record's byte width k.
func (v *View) Width() int { return v.packer.Width() }

// Record returns the raw packed bytes at rank i, e.g. for radix.SortRecords
// or indexio serialization.
func (v *View) Record(i int) []byte {
	return v.data[i*v.packer.Width() : (i+1)*v.packer.Width()]
}

// Convert computes a single (seqnum, relpos) pair on demand from a linear
// text position, without building or consulting a View — spec.md 4.I's
// "per-record on-demand lookup into the cumulative offset table" path,
// for callers that only need one lookup rather than the whole packed
// array (traverse reads a View or Reader through its SeqLocator instead).
func Convert(m *multiseq.MultiSeq, textPos int) (seqnum, relpos int) {
	return m.LocateSeq(textPos)
}

// Reader adapts a View back into the flat linear-position form lcp's
// Kasai-9n streamed variant consumes (lcp.SAReader): each At(rank) call
// decodes the packed (seqnum, relpos) record and reconstitutes the
// original SA[rank] text position via the multi-sequence's offset table,
// exercising the packed view exactly the way spec.md 4.G's "streamed from
// disk record-by-record via the packed view" Kasai-9n path describes.
type Reader struct {
	view *View
	m    *multiseq.MultiSeq
}

// NewReader wraps a View for flat-position streamed access.
func NewReader(view *View, m *multiseq.MultiSeq) *Reader {
	return &Reader{view: view, m: m}
}

func (r *Reader) Len() int { return r.view.Len() }

func (r *Reader) At(rank int) (int, error) {
	seqnum, relpos := r.view.At(rank)
	if seqnum >= r.m.SeqCount() {
		return r.m.TotalLength(), nil // not produced by Build, which encodes the sentinel via LocateSeq
	}
	return r.m.SeqOffset(seqnum) + relpos, nil
}
