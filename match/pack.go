package match

import (
	"github.com/minio/highwayhash"

	"github.com/biocore/esa/bitpack"
	"github.com/biocore/esa/esaerr"
	"github.com/biocore/esa/internal/support"
	"github.com/biocore/esa/multiseq"
	"github.com/biocore/esa/radix"
)

// dedupHashKey is the fixed all-zero HighwayHash key used to fingerprint
// records during dedup: dedupRecords only needs a fast, stable
// cheap-reject, not a keyed/adversarial-resistant hash, matching
// fusion/postprocess.go's groupCandidatesByGenePair use of the same
// zero-seed convention.
var dedupHashKey [highwayhash.Size]byte

// Table is a sorted, deduplicated packed-record view of a Match list, per
// spec.md 4.K: each record is R(k',5) = (ref_seqnum, query_seqnum,
// ref_endpos, query_endpos, length-ℓmin), byte widths k' in {8,9} chosen
// at construction, ordered so a byte-wise comparison of two records
// reproduces lexicographic order on that tuple.
type Table struct {
	packer      *bitpack.Packer
	minMatchLen int
	data        []byte
}

// BuildTable packs matches against ref/query's derived bit widths (so
// ref_seqnum/query_seqnum/*_endpos never overflow their fields for any
// match the two containers could produce), sorts by byte order, and
// dedups exact-duplicate records. minMatchLen is the ℓ_min subtracted from
// every stored length field.
func BuildTable(ref, query *multiseq.MultiSeq, matches []Match, minMatchLen int) (*Table, error) {
	widths := []int{
		ref.BNum(), query.BNum(),
		ref.BLen(), query.BLen(),
		support.BitWidthFor(uint64(maxLengthField(matches, minMatchLen))),
	}
	if widths[4] < 1 {
		widths[4] = 1
	}
	total := 0
	for _, w := range widths {
		total += w
	}
	byteWidth := bitpack.WidthForBits(total)
	if byteWidth < 8 {
		byteWidth = 8
	}
	if byteWidth > 9 {
		// spec.md 4.K restricts k' to {8,9}; a record set that cannot
		// possibly fit either width is a configuration error, not
		// something a wider k' could silently repair down the line.
		return nil, esaerr.New(esaerr.BitOverflow, "match: packed record needs %d bits, exceeds the 9-byte budget for k'", total)
	}

	packer, err := bitpack.NewPacker(byteWidth, widths)
	if err != nil {
		return nil, err
	}

	data := make([]byte, len(matches)*byteWidth)
	rec := make([]byte, byteWidth)
	for i, m := range matches {
		length := m.Length - minMatchLen
		if length < 0 {
			return nil, esaerr.New(esaerr.ConfigInvalid, "match: match length %d is shorter than the minimum %d", m.Length, minMatchLen)
		}
		values := []uint64{
			uint64(m.RefSeqnum), uint64(m.QuerySeqnum),
			uint64(m.RefEnd), uint64(m.QueryEnd),
			uint64(length),
		}
		if err := packer.EncodeInto(rec, values); err != nil {
			return nil, esaerr.Wrap(esaerr.BitOverflow, err, "match: packing record %d", i)
		}
		copy(data[i*byteWidth:(i+1)*byteWidth], rec)
	}

	radix.SortRecords(data, byteWidth)
	data, err = dedupRecords(data, byteWidth)
	if err != nil {
		return nil, err
	}

	return &Table{packer: packer, minMatchLen: minMatchLen, data: data}, nil
}

func maxLengthField(matches []Match, minMatchLen int) uint64 {
	var max uint64
	for _, m := range matches {
		length := uint64(m.Length - minMatchLen)
		if length > max {
			max = length
		}
	}
	return max
}

// dedupRecords removes exact-duplicate records from an already-sorted byte
// slice. A HighwayHash fingerprint per record lets most comparisons
// against the previous record short-circuit on a single uint64 mismatch
// before falling back to a full byte compare -- sorted duplicates are
// always adjacent, so only a one-record lookback is ever needed. Grounded
// on fusion/postprocess.go's groupCandidatesByGenePair, which hashes a
// composite key with HighwayHash to bucket candidates; applied here as a
// cheap-reject in front of an exact compare rather than as the dedup key
// itself (a fingerprint collision must never silently drop a distinct
// record).
func dedupRecords(data []byte, unitSize int) ([]byte, error) {
	n := len(data) / unitSize
	if n <= 1 {
		return data, nil
	}
	h, err := highwayhash.New64(dedupHashKey[:])
	if err != nil {
		return nil, esaerr.Wrap(esaerr.ConfigInvalid, err, "match: initializing dedup hash")
	}
	hashOf := func(rec []byte) uint64 {
		h.Reset()
		h.Write(rec)
		return h.Sum64()
	}
	out := data[:unitSize]
	prevHash := hashOf(data[:unitSize])
	for i := 1; i < n; i++ {
		rec := data[i*unitSize : (i+1)*unitSize]
		rh := hashOf(rec)
		last := out[len(out)-unitSize:]
		if rh == prevHash && bitpack.Compare(rec, last) == 0 {
			continue
		}
		out = append(out, rec...)
		prevHash = rh
	}
	return out, nil
}

// Len returns the number of records remaining after dedup.
func (t *Table) Len() int { return len(t.data) / t.packer.Width() }

// At decodes record i.
func (t *Table) At(i int) Match {
	w := t.packer.Width()
	rec := t.data[i*w : (i+1)*w]
	var fields [5]uint64
	t.packer.DecodeAll(rec, fields[:])
	return Match{
		RefSeqnum:   int(fields[0]),
		QuerySeqnum: int(fields[1]),
		RefEnd:      int(fields[2]),
		QueryEnd:    int(fields[3]),
		Length:      int(fields[4]) + t.minMatchLen,
	}
}
