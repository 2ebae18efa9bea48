package ringhash

import (
	"math/rand"
	"testing"

	"github.com/biocore/esa/alphabet"
)

func TestCyclicBufferShift(t *testing.T) {
	buf := NewCyclicBuffer(3)
	for _, v := range []uint8{1, 2, 3} {
		buf.Append(v)
	}
	if !buf.Full() {
		t.Fatal("expected full buffer")
	}
	old := buf.Shift(4)
	if old != 1 {
		t.Fatalf("Shift returned %d, want 1", old)
	}
	want := []uint8{2, 3, 4}
	for i, w := range want {
		if buf.At(i) != w {
			t.Fatalf("At(%d) = %d, want %d", i, buf.At(i), w)
		}
	}
}

func TestIntCoderRollForwardMatchesFromScratch(t *testing.T) {
	const k = 5
	coder := NewIntCoder(alphabet.DNA, k)
	rnd := rand.New(rand.NewSource(1))
	seq := make([]alphabet.Rank, 200)
	for i := range seq {
		seq[i] = alphabet.Rank(rnd.Intn(4))
	}
	code := coder.Encode(seq[:k])
	for i := 0; i+k < len(seq); i++ {
		code = coder.RollForward(code, seq[i], seq[i+k])
		want := coder.Encode(seq[i+1 : i+1+k])
		if code != want {
			t.Fatalf("position %d: rolled code %d != from-scratch %d", i+1, code, want)
		}
	}
}

func TestIntCoderDistinctForDistinctKmers(t *testing.T) {
	coder := NewIntCoder(alphabet.DNA, 4)
	a := coder.Encode([]alphabet.Rank{0, 1, 2, 3})
	b := coder.Encode([]alphabet.Rank{0, 1, 2, 0})
	if a == b {
		t.Fatal("expected distinct codes for distinct k-mers")
	}
}

func TestMaxK(t *testing.T) {
	if MaxK(alphabet.DNA) != 32 {
		t.Fatalf("MaxK(DNA) = %d, want 32", MaxK(alphabet.DNA))
	}
	if got := MaxK(alphabet.Protein); got != 12 {
		t.Fatalf("MaxK(Protein) = %d, want 12", got)
	}
}

func TestIntCoderReverseComplementRoll(t *testing.T) {
	const k = 6
	coder := NewIntCoder(alphabet.DNA, k)
	rnd := rand.New(rand.NewSource(2))
	seq := make([]alphabet.Rank, 100)
	for i := range seq {
		seq[i] = alphabet.Rank(rnd.Intn(4))
	}
	rc := coder.EncodeReverseComplement(seq[:k])
	for i := 0; i+k < len(seq); i++ {
		rc = coder.RollReverseComplement(rc, seq[i], seq[i+k])
		want := coder.EncodeReverseComplement(seq[i+1 : i+1+k])
		if rc != want {
			t.Fatalf("position %d: rolled rc %d != from-scratch %d", i+1, rc, want)
		}
	}
}

func TestCanonicalPalindrome(t *testing.T) {
	// ACGT is its own reverse complement.
	coder := NewIntCoder(alphabet.DNA, 4)
	seq := []alphabet.Rank{0, 1, 2, 3}
	fwd := coder.Encode(seq)
	rc := coder.EncodeReverseComplement(seq)
	if fwd != rc {
		t.Fatalf("ACGT palindrome: fwd %d != rc %d", fwd, rc)
	}
	if Canonical(fwd, rc) != fwd {
		t.Fatal("canonical of equal codes should equal either")
	}
}

// TestNtHashRollingMatchesFromScratch checks spec.md's testable property 5
// ("rolling-hash consistency"): hash values produced by the rolling
// iterator equal the from-scratch hash of each k-mer, using the sequence
// ACGTAC with k=3 from spec.md's scenario S4.
func TestNtHashRollingMatchesFromScratch(t *testing.T) {
	const k = 3
	seq := []uint8{0, 1, 2, 3, 0, 1} // A C G T A C
	h := NewNtHash(k)
	fh := h.FirstHashValue(seq[:k]) // hash("ACG")
	want := h.FirstHashValue(seq[1 : 1+k])
	got := h.NextHashValue(seq[0], fh, seq[k])
	if got != want {
		t.Fatalf("roll(hash(ACG), A, T) = %d, want hash(CGT) = %d", got, want)
	}
}

func TestNtHashRollingLongSequence(t *testing.T) {
	const k = 16
	rnd := rand.New(rand.NewSource(3))
	seq := make([]uint8, 500)
	for i := range seq {
		seq[i] = uint8(rnd.Intn(4))
	}
	h := NewNtHash(k)
	fh := h.FirstHashValue(seq[:k])
	for i := 0; i+k < len(seq); i++ {
		fh = h.NextHashValue(seq[i], fh, seq[i+k])
		want := h.FirstHashValue(seq[i+1 : i+1+k])
		if fh != want {
			t.Fatalf("position %d: rolled %d != from-scratch %d", i+1, fh, want)
		}
	}
}
