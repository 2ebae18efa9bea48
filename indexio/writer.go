// Package indexio implements spec.md §6's on-disk enhanced-suffix-array
// layout: base.prj/.tis/.suf/.bsf/.lcp/.ll2/.ll4/.lls, written through a
// Writer whose Commit call is always the last one in its lifecycle (it
// writes base.prj only after every other stream is flushed and fsynced),
// so the presence of base.prj signals a complete index per spec.md §7.
//
// Grounded on encoding/bampair's diskMateShard (src: disk_mate_shard.go)
// for the open-file-then-wrap-in-a-streaming-codec shape, and on
// cmd/bio-bam-sort/sorter/sortshard.go for the optional snappy block
// codec applied to a packed-record stream.
package indexio

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"

	"github.com/golang/snappy"

	"github.com/biocore/esa/esaerr"
	"github.com/biocore/esa/lcp"
	"github.com/biocore/esa/sais"
	"github.com/biocore/esa/suftabview"
)

// Options configures a Writer.
type Options struct {
	// Compress wraps the .bsf stream in a snappy stream codec
	// (github.com/golang/snappy); esa-index sets it from -compress-bsf.
	Compress bool
}

// Writer emits one on-disk index under dir/base.*. Streams may be written
// in any order; Commit must be called last.
type Writer struct {
	dir, base string
	opts      Options
	written   map[string]bool
	committed bool
}

// NewWriter prepares a Writer for dir/base.*; dir must already exist.
func NewWriter(dir, base string, opts Options) *Writer {
	return &Writer{dir: dir, base: base, opts: opts, written: map[string]bool{}}
}

func (w *Writer) path(ext string) string { return filepath.Join(w.dir, w.base+ext) }

func (w *Writer) createFile(ext string) (*os.File, error) {
	if w.committed {
		return nil, esaerr.New(esaerr.ConfigInvalid, "indexio: writer for %s already committed", w.base)
	}
	f, err := os.Create(w.path(ext))
	if err != nil {
		return nil, esaerr.Wrap(esaerr.InputIo, err, "indexio: creating %s", w.path(ext))
	}
	return f, nil
}

func (w *Writer) finish(ext string, f *os.File) error {
	if err := f.Sync(); err != nil {
		f.Close()
		return esaerr.Wrap(esaerr.InputIo, err, "indexio: syncing %s", w.path(ext))
	}
	if err := f.Close(); err != nil {
		return esaerr.Wrap(esaerr.InputIo, err, "indexio: closing %s", w.path(ext))
	}
	w.written[ext] = true
	return nil
}

// WriteTis writes base.tis: the raw rank-encoded concatenation, one byte
// per symbol (alphabet.Rank is a true uint8 alias, so ranks is already a
// valid []byte).
func (w *Writer) WriteTis(ranks []byte) error {
	f, err := w.createFile(".tis")
	if err != nil {
		return err
	}
	if _, err := f.Write(ranks); err != nil {
		f.Close()
		return esaerr.Wrap(esaerr.InputIo, err, "indexio: writing .tis")
	}
	return w.finish(".tis", f)
}

// WriteSuf writes base.suf: T+1 raw 32- or 64-bit entries. "Host byte
// order" per spec.md §6 is realized as little-endian throughout, the
// overwhelmingly common host order among this module's build targets and
// the one every other fixed-width stream in this package already commits
// to; a true runtime-native byte order has no portable stdlib spelling
// before encoding/binary.NativeEndian, which does not exist on every Go
// version this module targets.
func (w *Writer) WriteSuf(sa sais.Array) error {
	f, err := w.createFile(".suf")
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	width := sais.WidthFor(sa.Len())
	buf := make([]byte, width)
	for i := 0; i < sa.Len(); i++ {
		v := sa.Get(i)
		if width == 4 {
			binary.LittleEndian.PutUint32(buf, uint32(v))
		} else {
			binary.LittleEndian.PutUint64(buf, uint64(v))
		}
		if _, err := bw.Write(buf); err != nil {
			f.Close()
			return esaerr.Wrap(esaerr.InputIo, err, "indexio: writing .suf")
		}
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return esaerr.Wrap(esaerr.InputIo, err, "indexio: flushing .suf")
	}
	return w.finish(".suf", f)
}

// WriteBsf writes base.bsf: the packed suftab view's T+1 fixed-width
// records, optionally snappy-block-compressed.
func (w *Writer) WriteBsf(view *suftabview.View) error {
	f, err := w.createFile(".bsf")
	if err != nil {
		return err
	}
	var dst io.WriteCloser = nopCloser{f}
	if w.opts.Compress {
		dst = snappy.NewBufferedWriter(f)
	}
	for i := 0; i < view.Len(); i++ {
		if _, err := dst.Write(view.Record(i)); err != nil {
			dst.Close()
			f.Close()
			return esaerr.Wrap(esaerr.InputIo, err, "indexio: writing .bsf")
		}
	}
	if err := dst.Close(); err != nil {
		f.Close()
		return esaerr.Wrap(esaerr.InputIo, err, "indexio: closing .bsf codec")
	}
	return w.finish(".bsf", f)
}

// WriteLCP writes base.lcp/.ll2/.ll4: the primary saturated byte stream
// verbatim, and the two overflow streams converted from the in-memory
// lcp.Table's dense parallel arrays into spec.md §6's sparse event-list
// layout (count = number of saturated entries in the tier below), written
// in ascending-index order so a reader can replay them against the
// primary stream's 255/65535 markers.
func (w *Writer) WriteLCP(t *lcp.Table) error {
	f, err := w.createFile(".lcp")
	if err != nil {
		return err
	}
	if _, err := f.Write(t.Primary()); err != nil {
		f.Close()
		return esaerr.Wrap(esaerr.InputIo, err, "indexio: writing .lcp")
	}
	if err := w.finish(".lcp", f); err != nil {
		return err
	}

	ll2 := t.LL2()
	f2, err := w.createFile(".ll2")
	if err != nil {
		return err
	}
	bw2 := bufio.NewWriter(f2)
	buf2 := make([]byte, 2)
	for i, b := range t.Primary() {
		if b != 255 {
			continue
		}
		binary.LittleEndian.PutUint16(buf2, ll2[i])
		if _, err := bw2.Write(buf2); err != nil {
			f2.Close()
			return esaerr.Wrap(esaerr.InputIo, err, "indexio: writing .ll2")
		}
	}
	if err := bw2.Flush(); err != nil {
		f2.Close()
		return esaerr.Wrap(esaerr.InputIo, err, "indexio: flushing .ll2")
	}
	if err := w.finish(".ll2", f2); err != nil {
		return err
	}

	ll4 := t.LL4()
	f4, err := w.createFile(".ll4")
	if err != nil {
		return err
	}
	bw4 := bufio.NewWriter(f4)
	buf4 := make([]byte, 4)
	for i, b := range t.Primary() {
		if b != 255 || ll2[i] != 65535 {
			continue
		}
		binary.LittleEndian.PutUint32(buf4, ll4[i])
		if _, err := bw4.Write(buf4); err != nil {
			f4.Close()
			return esaerr.Wrap(esaerr.InputIo, err, "indexio: writing .ll4")
		}
	}
	if err := bw4.Flush(); err != nil {
		f4.Close()
		return esaerr.Wrap(esaerr.InputIo, err, "indexio: flushing .ll4")
	}
	return w.finish(".ll4", f4)
}

// WriteSuccinct writes base.lls, the PLCP bitvector alternative to
// base.lcp/.ll2/.ll4.
func (w *Writer) WriteSuccinct(s *lcp.Succinct) error {
	f, err := w.createFile(".lls")
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	if err := binary.Write(bw, binary.LittleEndian, int64(s.Len())); err != nil {
		f.Close()
		return esaerr.Wrap(esaerr.InputIo, err, "indexio: writing .lls header")
	}
	nbytes := (s.Len() + 7) / 8
	buf := make([]byte, nbytes)
	for i := 0; i < s.Len(); i++ {
		if s.Bit(i) {
			buf[i/8] |= 1 << uint(i%8)
		}
	}
	if _, err := bw.Write(buf); err != nil {
		f.Close()
		return esaerr.Wrap(esaerr.InputIo, err, "indexio: writing .lls bitvector")
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return esaerr.Wrap(esaerr.InputIo, err, "indexio: flushing .lls")
	}
	return w.finish(".lls", f)
}

// Commit writes base.prj last, per spec.md §7: its presence signals a
// complete index, so it must never be written before every other
// requested stream has been flushed and fsynced. Calling Commit twice, or
// calling any Write* method after Commit, is a ConfigInvalid error.
func (w *Writer) Commit(h Header) error {
	if w.committed {
		return esaerr.New(esaerr.ConfigInvalid, "indexio: writer for %s already committed", w.base)
	}
	f, err := os.Create(w.path(".prj"))
	if err != nil {
		return esaerr.Wrap(esaerr.InputIo, err, "indexio: creating %s", w.path(".prj"))
	}
	bw := bufio.NewWriter(f)
	if err := writePrj(bw, h); err != nil {
		f.Close()
		return esaerr.Wrap(esaerr.InputIo, err, "indexio: writing .prj")
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return esaerr.Wrap(esaerr.InputIo, err, "indexio: flushing .prj")
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return esaerr.Wrap(esaerr.InputIo, err, "indexio: syncing .prj")
	}
	w.committed = true
	return f.Close()
}

type nopCloser struct{ *os.File }

func (nopCloser) Close() error { return nil }
