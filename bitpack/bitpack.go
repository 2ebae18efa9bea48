// Package bitpack implements the order-preserving fixed-width packed record
// format used throughout the indexing engine: a byte array of width
// k in [MinWidth,MaxWidth] = 4..16 bytes holding n ordered unsigned-integer fields so that a
// byte-wise comparison of two records reproduces the lexicographic order of
// their field tuples. Ported from original_source's GttlBitPacker/BytesUnit
// pair (src/utilities/bitpacker.hpp, src/utilities/bytes_unit.hpp): field 0
// occupies the most significant bits of the record, field n-1 the least,
// and on hosts where k exceeds 8 the low-order bits of the final field
// spill into the bytes following the 64-bit prefix.
package bitpack

import (
	"encoding/binary"

	"github.com/biocore/esa/esaerr"
)

// MaxFields bounds the number of fields a single Packer may hold.
const MaxFields = 8

// MinWidth and MaxWidth bound the supported packed-record byte widths:
// spec.md 4.I's suftab-view records need k as small as 4 bytes, while
// component A's general bit-packer and the hashed k-mer record of 4.C
// go up to 16.
const (
	MinWidth = 4
	MaxWidth = 16
)

// field describes one bit-group's placement within the record: it starts
// at bit offset 'bitOffset' (counted from the most significant bit of the
// whole record) and spans 'width' bits.
type field struct {
	width     int
	bitOffset int
	mask      uint64
}

// Packer describes the bit-width layout of a fixed-width packed record.
type Packer struct {
	fields []field
	size   int // byte width k
}

// NewPacker builds a Packer for the given field bit-widths, placed into a
// record of byteWidth bytes, field 0 at the most significant end. A field
// may be 0 bits wide (it then always holds 0). It fails with BitOverflow if
// a width is outside [0,64] or the widths do not fit, or ConfigInvalid if
// byteWidth is not one of the supported sizes.
func NewPacker(byteWidth int, widths []int) (*Packer, error) {
	if byteWidth < MinWidth || byteWidth > MaxWidth {
		return nil, esaerr.New(esaerr.ConfigInvalid, "unsupported packed record width %d", byteWidth)
	}
	if len(widths) < 2 || len(widths) > MaxFields {
		return nil, esaerr.New(esaerr.ConfigInvalid, "packed record needs 2..%d fields, got %d", MaxFields, len(widths))
	}
	total := 0
	fields := make([]field, len(widths))
	for i, w := range widths {
		if w < 0 || w > 64 {
			return nil, esaerr.New(esaerr.BitOverflow, "bit width %d out of range", w)
		}
		fields[i] = field{width: w, bitOffset: total, mask: bits2max(w)}
		total += w
	}
	if total > 8*byteWidth {
		return nil, esaerr.New(esaerr.BitOverflow, "bit widths sum to %d, exceeds %d-byte budget", total, 8*byteWidth)
	}
	return &Packer{fields: fields, size: byteWidth}, nil
}

func bits2max(w int) uint64 {
	if w >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << uint(w)) - 1
}

// NumFields returns the number of fields this Packer encodes.
func (p *Packer) NumFields() int { return len(p.fields) }

// Width returns the packed record's byte width.
func (p *Packer) Width() int { return p.size }

// Encode packs values into a new record of Width() bytes. It fails with
// BitOverflow if any value exceeds the mask for its field.
func (p *Packer) Encode(values []uint64) ([]byte, error) {
	rec := make([]byte, p.size)
	if err := p.EncodeInto(rec, values); err != nil {
		return nil, err
	}
	return rec, nil
}

// EncodeInto packs values into the caller-supplied buffer, which must be
// at least Width() bytes; any trailing bytes beyond the occupied bits are
// zeroed.
func (p *Packer) EncodeInto(rec []byte, values []uint64) error {
	if len(rec) < p.size {
		return esaerr.New(esaerr.ConfigInvalid, "record buffer too small")
	}
	if len(values) != len(p.fields) {
		return esaerr.New(esaerr.ConfigInvalid, "expected %d values, got %d", len(p.fields), len(values))
	}
	for i := range rec[:p.size] {
		rec[i] = 0
	}
	totalBits := p.size * 8
	for i, f := range p.fields {
		if values[i] > f.mask {
			return esaerr.New(esaerr.BitOverflow, "field %d value %d exceeds %d-bit width", i, values[i], f.width)
		}
		writeBits(rec, totalBits, f.bitOffset, f.width, values[i])
	}
	return nil
}

// writeBits stores the low 'width' bits of v into rec at bit offset
// bitOffset, counted from the most significant bit of a totalBits-bit
// big-endian record.
func writeBits(rec []byte, totalBits, bitOffset, width int, v uint64) {
	// Bit position (from MSB=0) of the highest bit of this field.
	remaining := width
	// Walk from the most significant bit of the field to the least.
	bitPos := bitOffset
	for remaining > 0 {
		byteIdx := bitPos / 8
		bitInByte := bitPos % 8          // 0 == MSB of the byte
		freeInByte := 8 - bitInByte       // bits available in this byte from bitInByte
		take := remaining
		if take > freeInByte {
			take = freeInByte
		}
		// Extract the 'take' highest remaining bits of v.
		shift := remaining - take
		chunk := byte(v>>uint(shift)) & bits2maxByte(take)
		// Place chunk into byte at position bitInByte (MSB-first).
		destShift := freeInByte - take
		rec[byteIdx] |= chunk << uint(destShift)
		remaining -= take
		bitPos += take
	}
	_ = totalBits
}

func bits2maxByte(w int) byte {
	if w >= 8 {
		return 0xff
	}
	return byte((1 << uint(w)) - 1)
}

// readBits is the mirror of writeBits.
func readBits(rec []byte, bitOffset, width int) uint64 {
	var v uint64
	remaining := width
	bitPos := bitOffset
	for remaining > 0 {
		byteIdx := bitPos / 8
		bitInByte := bitPos % 8
		freeInByte := 8 - bitInByte
		take := remaining
		if take > freeInByte {
			take = freeInByte
		}
		destShift := freeInByte - take
		chunk := (rec[byteIdx] >> uint(destShift)) & bits2maxByte(take)
		v = (v << uint(take)) | uint64(chunk)
		remaining -= take
		bitPos += take
	}
	return v
}

// DecodeAt returns the value of field idx from a packed record.
func (p *Packer) DecodeAt(rec []byte, idx int) uint64 {
	f := p.fields[idx]
	return readBits(rec, f.bitOffset, f.width)
}

// DecodeAll decodes every field of rec into dst, which must have length
// NumFields().
func (p *Packer) DecodeAll(rec []byte, dst []uint64) {
	for i := range p.fields {
		dst[i] = p.DecodeAt(rec, i)
	}
}

// Compare returns -1, 0 or 1 according to the lexicographic order of a's
// and b's decoded field tuples, computed directly from the packed bytes
// (memcmp semantics), without decoding.
func Compare(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}

// WidthForBits returns the smallest byte width k in [MinWidth,MaxWidth]
// such that totalBits <= 8*k (spec.md 4.I's "smallest k" rule).
func WidthForBits(totalBits int) int {
	for k := MinWidth; k <= MaxWidth; k++ {
		if totalBits <= 8*k {
			return k
		}
	}
	return 0
}

// PutUint64BE and Uint64BE are small re-exports for callers that need to
// treat the first 8 bytes of a record as a plain sortable integer key
// without going through the field decoder.
func PutUint64BE(b []byte, v uint64) { binary.BigEndian.PutUint64(b, v) }
func Uint64BE(b []byte) uint64       { return binary.BigEndian.Uint64(b) }
