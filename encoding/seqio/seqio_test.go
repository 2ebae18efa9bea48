package seqio

import (
	"strings"
	"testing"
)

func TestFastaRoundTrip(t *testing.T) {
	in := ">chr1 some comment\nACGTAC\nGAGGAC\n>chr2\nACGT\n"
	r, err := NewReader(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	var got []Record
	for {
		rec, ok := r.Next()
		if !ok {
			break
		}
		got = append(got, rec)
	}
	if err := r.Err(); err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}
	if got[0].Name != "chr1" || string(got[0].Seq) != "ACGTACGAGGAC" {
		t.Fatalf("record 0 = %+v", got[0])
	}
	if got[1].Name != "chr2" || string(got[1].Seq) != "ACGT" {
		t.Fatalf("record 1 = %+v", got[1])
	}
}

func TestFastqRoundTrip(t *testing.T) {
	in := "@r1\nACGT\n+\nIIII\n@r2 extra\nGGCC\n+\nFFFF\n"
	r, err := NewReader(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	var got []Record
	for {
		rec, ok := r.Next()
		if !ok {
			break
		}
		got = append(got, rec)
	}
	if err := r.Err(); err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}
	if got[0].Name != "r1" || string(got[0].Seq) != "ACGT" || string(got[0].Qual) != "IIII" {
		t.Fatalf("record 0 = %+v", got[0])
	}
	if got[1].Name != "r2" || string(got[1].Seq) != "GGCC" {
		t.Fatalf("record 1 = %+v", got[1])
	}
}

func TestFastqTruncated(t *testing.T) {
	in := "@r1\nACGT\n+\n"
	r, err := NewReader(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := r.Next(); ok {
		t.Fatal("expected truncation to be detected")
	}
	if r.Err() == nil {
		t.Fatal("expected a truncation error")
	}
}
