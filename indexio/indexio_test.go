package indexio

import (
	"testing"

	"github.com/biocore/esa/alphabet"
	"github.com/biocore/esa/lcp"
	"github.com/biocore/esa/multiseq"
	"github.com/biocore/esa/sais"
	"github.com/biocore/esa/suftabview"
)

type fixture struct {
	m    *multiseq.MultiSeq
	sa   sais.Array
	lcpT *lcp.Table
	view *suftabview.View
}

func buildFixture(t *testing.T) fixture {
	t.Helper()
	m, err := multiseq.Build(alphabet.DNA, []multiseq.Record{
		{Name: "a", Seq: []byte("ACGTACGTTGCA")},
		{Name: "b", Seq: []byte("TTGGCCAACGTA")},
	}, multiseq.Options{})
	if err != nil {
		t.Fatal(err)
	}
	sa, err := sais.BuildMultiSeq(m)
	if err != nil {
		t.Fatal(err)
	}
	lcpT, err := lcp.BuildKasai13n(sa, m.Concat())
	if err != nil {
		t.Fatal(err)
	}
	view, err := suftabview.Build(sa, m)
	if err != nil {
		t.Fatal(err)
	}
	return fixture{m: m, sa: sa, lcpT: lcpT, view: view}
}

func headerFor(f fixture) Header {
	return Header{
		ReverseComplement:   false,
		NonspecialSuffixes:  int64(f.m.TotalLength()),
		SequencesNumber:     f.m.SeqCount(),
		SequencesNumberBits: f.m.BNum(),
		SequencesLengthBits: f.m.BLen(),
		SizeofSuftabEntry:   sais.WidthFor(f.sa.Len()),
		InputFiles:          []string{"a.fasta", "b.fasta"},
	}
}

func TestWriteThenReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	f := buildFixture(t)

	w := NewWriter(dir, "base", Options{})
	if err := w.WriteTis(f.m.Concat()); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteSuf(f.sa); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteBsf(f.view); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteLCP(f.lcpT); err != nil {
		t.Fatal(err)
	}
	if err := w.Commit(headerFor(f)); err != nil {
		t.Fatal(err)
	}

	r, err := Open(dir, "base")
	if err != nil {
		t.Fatal(err)
	}
	if r.Header.SequencesNumber != f.m.SeqCount() {
		t.Fatalf("sequences_number: got %d, want %d", r.Header.SequencesNumber, f.m.SeqCount())
	}
	if len(r.Header.InputFiles) != 2 {
		t.Fatalf("expected 2 inputfile lines, got %+v", r.Header.InputFiles)
	}

	tis, err := r.Tis()
	if err != nil {
		t.Fatal(err)
	}
	if len(tis) != len(f.m.Concat()) {
		t.Fatalf("tis length mismatch: got %d, want %d", len(tis), len(f.m.Concat()))
	}
	for i, b := range tis {
		if b != f.m.Concat()[i] {
			t.Fatalf("tis[%d]: got %d, want %d", i, b, f.m.Concat()[i])
		}
	}

	suf, err := r.Suf()
	if err != nil {
		t.Fatal(err)
	}
	if suf.Len() != f.sa.Len() {
		t.Fatalf("suf length mismatch: got %d, want %d", suf.Len(), f.sa.Len())
	}
	for i := 0; i < suf.Len(); i++ {
		if suf.Get(i) != f.sa.Get(i) {
			t.Fatalf("suf[%d]: got %d, want %d", i, suf.Get(i), f.sa.Get(i))
		}
	}

	gotLCP, err := r.LCP()
	if err != nil {
		t.Fatal(err)
	}
	if gotLCP.Len() != f.lcpT.Len() {
		t.Fatalf("lcp length mismatch: got %d, want %d", gotLCP.Len(), f.lcpT.Len())
	}
	for i := 0; i < gotLCP.Len(); i++ {
		if gotLCP.Get(i) != f.lcpT.Get(i) {
			t.Fatalf("lcp[%d]: got %d, want %d", i, gotLCP.Get(i), f.lcpT.Get(i))
		}
	}
}

func TestWriteBsfCompressedRoundTrip(t *testing.T) {
	dir := t.TempDir()
	f := buildFixture(t)

	w := NewWriter(dir, "base", Options{Compress: true})
	if err := w.WriteTis(f.m.Concat()); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteSuf(f.sa); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteBsf(f.view); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteLCP(f.lcpT); err != nil {
		t.Fatal(err)
	}
	if err := w.Commit(headerFor(f)); err != nil {
		t.Fatal(err)
	}

	r, err := Open(dir, "base")
	if err != nil {
		t.Fatal(err)
	}
	raw, err := r.Bsf(true)
	if err != nil {
		t.Fatal(err)
	}
	width := r.BsfRecordWidth()
	if width != f.view.Width() {
		t.Fatalf("record width mismatch: got %d, want %d", width, f.view.Width())
	}
	if len(raw) != f.view.Len()*width {
		t.Fatalf("bsf length mismatch: got %d, want %d", len(raw), f.view.Len()*width)
	}
	for i := 0; i < f.view.Len(); i++ {
		want := f.view.Record(i)
		got := raw[i*width : (i+1)*width]
		for j := range want {
			if got[j] != want[j] {
				t.Fatalf("bsf record %d byte %d mismatch: got %d, want %d", i, j, got[j], want[j])
			}
		}
	}
}

func TestCommitTwiceFails(t *testing.T) {
	dir := t.TempDir()
	f := buildFixture(t)
	w := NewWriter(dir, "base", Options{})
	if err := w.WriteTis(f.m.Concat()); err != nil {
		t.Fatal(err)
	}
	if err := w.Commit(headerFor(f)); err != nil {
		t.Fatal(err)
	}
	if err := w.Commit(headerFor(f)); err == nil {
		t.Fatal("expected error committing twice")
	}
}

func TestWriteAfterCommitFails(t *testing.T) {
	dir := t.TempDir()
	f := buildFixture(t)
	w := NewWriter(dir, "base", Options{})
	if err := w.Commit(headerFor(f)); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteTis(f.m.Concat()); err == nil {
		t.Fatal("expected error writing after commit")
	}
}

func TestOpenMissingPrjFails(t *testing.T) {
	dir := t.TempDir()
	if _, err := Open(dir, "base"); err == nil {
		t.Fatal("expected error opening an index with no base.prj")
	}
}
