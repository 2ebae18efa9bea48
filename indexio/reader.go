package indexio

import (
	"encoding/binary"
	"io"
	"os"
	"path/filepath"

	"github.com/golang/snappy"

	"github.com/biocore/esa/bitpack"
	"github.com/biocore/esa/esaerr"
	"github.com/biocore/esa/lcp"
	"github.com/biocore/esa/sais"
)

// Reader opens a committed on-disk index (base.prj present) for read-only
// access to its streams.
type Reader struct {
	dir, base string
	Header    Header
}

// Open parses base.prj and returns a Reader for its sibling streams. It
// fails with InputIo if base.prj is missing, matching spec.md §7's "the
// .prj file is written last, so its presence signals a complete index" --
// a Reader can only ever observe a complete index.
func Open(dir, base string) (*Reader, error) {
	h, err := readPrj(filepath.Join(dir, base+".prj"))
	if err != nil {
		return nil, err
	}
	return &Reader{dir: dir, base: base, Header: h}, nil
}

func (r *Reader) path(ext string) string { return filepath.Join(r.dir, r.base+ext) }

// Tis reads base.tis in full.
func (r *Reader) Tis() ([]byte, error) {
	b, err := os.ReadFile(r.path(".tis"))
	if err != nil {
		return nil, esaerr.Wrap(esaerr.InputIo, err, "indexio: reading .tis")
	}
	return b, nil
}

// Suf reads base.suf in full into a sais.Array sized by the header's
// sizeof_suftab_entry field.
func (r *Reader) Suf() (sais.Array, error) {
	raw, err := os.ReadFile(r.path(".suf"))
	if err != nil {
		return nil, esaerr.Wrap(esaerr.InputIo, err, "indexio: reading .suf")
	}
	width := r.Header.SizeofSuftabEntry
	if width != 4 && width != 8 {
		return nil, esaerr.New(esaerr.InputFormat, "indexio: .prj sizeof_suftab_entry=%d, want 4 or 8", width)
	}
	if len(raw)%width != 0 {
		return nil, esaerr.New(esaerr.InputFormat, "indexio: .suf length %d is not a multiple of entry width %d", len(raw), width)
	}
	n := len(raw) / width
	if width == 4 {
		a := make(sais.Int32Array, n)
		for i := 0; i < n; i++ {
			a[i] = int32(binary.LittleEndian.Uint32(raw[i*4:]))
		}
		return a, nil
	}
	a := make(sais.Int64Array, n)
	for i := 0; i < n; i++ {
		a[i] = int64(binary.LittleEndian.Uint64(raw[i*8:]))
	}
	return a, nil
}

// Bsf reads base.bsf's raw packed records. compress must match the
// Options.Compress the index was written with: when true the stream is
// read through snappy's stream decoder; nothing in the file is inspected
// to detect it. The record width is not a parameter: BsfRecordWidth
// derives it from the header's sequences_number_bits/sequences_length_bits.
func (r *Reader) Bsf(compress bool) ([]byte, error) {
	f, err := os.Open(r.path(".bsf"))
	if err != nil {
		return nil, esaerr.Wrap(esaerr.InputIo, err, "indexio: opening .bsf")
	}
	defer f.Close()
	var src io.Reader = f
	if compress {
		src = snappy.NewReader(f)
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, esaerr.Wrap(esaerr.InputIo, err, "indexio: reading .bsf")
	}
	return data, nil
}

// BsfRecordWidth returns the packed suftab record's byte width implied by
// the header's bit-width fields, per bitpack.WidthForBits.
func (r *Reader) BsfRecordWidth() int {
	return bitpack.WidthForBits(r.Header.SequencesNumberBits + r.Header.SequencesLengthBits)
}

// LCP reads base.lcp/.ll2/.ll4 and reconstitutes an in-memory lcp.Table,
// replaying the sparse on-disk overflow streams back into the Table's
// dense parallel-array form (the inverse of WriteLCP's conversion).
func (r *Reader) LCP() (*lcp.Table, error) {
	primary, err := os.ReadFile(r.path(".lcp"))
	if err != nil {
		return nil, esaerr.Wrap(esaerr.InputIo, err, "indexio: reading .lcp")
	}
	ll2raw, err := os.ReadFile(r.path(".ll2"))
	if err != nil {
		return nil, esaerr.Wrap(esaerr.InputIo, err, "indexio: reading .ll2")
	}
	ll4raw, err := os.ReadFile(r.path(".ll4"))
	if err != nil {
		return nil, esaerr.Wrap(esaerr.InputIo, err, "indexio: reading .ll4")
	}
	if len(ll2raw)%2 != 0 {
		return nil, esaerr.New(esaerr.InputFormat, "indexio: .ll2 length %d is odd", len(ll2raw))
	}
	if len(ll4raw)%4 != 0 {
		return nil, esaerr.New(esaerr.InputFormat, "indexio: .ll4 length %d is not a multiple of 4", len(ll4raw))
	}

	values := make([]int, len(primary))
	ll2i, ll4i := 0, 0
	for i, b := range primary {
		if b < 255 {
			values[i] = int(b)
			continue
		}
		if ll2i >= len(ll2raw)/2 {
			return nil, esaerr.New(esaerr.InputFormat, "indexio: .ll2 stream exhausted before .lcp's 255 markers")
		}
		v2 := binary.LittleEndian.Uint16(ll2raw[ll2i*2:])
		ll2i++
		if v2 < 65535 {
			values[i] = int(v2)
			continue
		}
		if ll4i >= len(ll4raw)/4 {
			return nil, esaerr.New(esaerr.InputFormat, "indexio: .ll4 stream exhausted before .ll2's 65535 markers")
		}
		values[i] = int(binary.LittleEndian.Uint32(ll4raw[ll4i*4:]))
		ll4i++
	}
	return lcp.FromValues(values), nil
}
