// Package multiseq implements the multi-sequence container of spec.md's
// component D: a concatenated, rank-encoded, padded sequence store with
// per-sequence offsets/lengths and derived bit-width metadata, built
// linearly from a stream of encoding/seqio records.
//
// Grounded on fusion/gene_db.go's eager-load-then-freeze container shape
// and, for the concatenation+padding layout itself, original_source's
// src/sequences/multiseq.hpp (ported to Go slices instead of raw pointer
// arithmetic).
package multiseq

import (
	"fmt"
	"strings"

	"github.com/biocore/esa/alphabet"
	"github.com/biocore/esa/esaerr"
	"github.com/biocore/esa/internal/support"
)

// MultiSeq is an immutable container of one or more rank-encoded
// sequences, concatenated with a single padding rank between every pair.
type MultiSeq struct {
	alpha   *alphabet.Alphabet
	concat  []alphabet.Rank
	offsets []int // offsets[i] is the start of sequence i in concat
	lengths []int
	headers []string
	bNum    int
	bLen    int
}

// Record is the minimal shape multiseq.Build consumes: a sequence name
// and its raw character bytes (as produced by encoding/seqio.Record).
type Record struct {
	Name string
	Seq  []byte
}

// Options controls Build.
type Options struct {
	// AppendReverseComplement, when true, makes every even-indexed input
	// sequence immediately followed by its reverse complement at the next
	// odd index, per spec.md 4.D. Build rejects it with ConfigInvalid
	// unless the alphabet is alphabet.DNA.
	AppendReverseComplement bool
}

// Build ingests records in order and returns the resulting MultiSeq. It
// returns an *esaerr.Error of kind EmptyInput if records is empty, and of
// kind AlphabetTooLarge if alpha's size plus one undefined rank would not
// fit the 8-bit Rank type (never true for the two built-in alphabets, but
// checked since Build is the one place a caller-supplied alphabet enters
// the system).
func Build(alpha *alphabet.Alphabet, records []Record, opts Options) (*MultiSeq, error) {
	if len(records) == 0 {
		return nil, esaerr.New(esaerr.EmptyInput, "multiseq: no input sequences")
	}
	if alpha.Size()+1 > 256 {
		return nil, esaerr.New(esaerr.AlphabetTooLarge, "multiseq: alphabet size %d exceeds 255", alpha.Size())
	}
	if opts.AppendReverseComplement && alpha != alphabet.DNA {
		return nil, esaerr.New(esaerr.ConfigInvalid, "multiseq: reverse-complement pairing requires the DNA alphabet")
	}

	type item struct {
		name string
		ranks []alphabet.Rank
	}
	items := make([]item, 0, len(records)*2)
	for _, rec := range records {
		ranks := make([]alphabet.Rank, len(rec.Seq))
		alpha.EncodeInto(ranks, rec.Seq)
		items = append(items, item{name: rec.Name, ranks: ranks})
		if opts.AppendReverseComplement {
			rc := make([]alphabet.Rank, len(ranks))
			alphabet.ReverseComplementInto(rc, ranks)
			items = append(items, item{name: rec.Name + "_revcomp", ranks: rc})
		}
	}

	total := 0
	for _, it := range items {
		total += len(it.ranks)
	}
	total += len(items) - 1 // one padding rank between every adjacent pair

	m := &MultiSeq{
		alpha:   alpha,
		concat:  make([]alphabet.Rank, 0, total),
		offsets: make([]int, len(items)),
		lengths: make([]int, len(items)),
		headers: make([]string, len(items)),
	}
	maxLen := 0
	for i, it := range items {
		if i > 0 {
			m.concat = append(m.concat, alpha.Undefined())
		}
		m.offsets[i] = len(m.concat)
		m.concat = append(m.concat, it.ranks...)
		m.lengths[i] = len(it.ranks)
		m.headers[i] = it.name
		if len(it.ranks) > maxLen {
			maxLen = len(it.ranks)
		}
	}

	if len(m.concat) > 0 {
		if m.concat[0] == alpha.Undefined() || m.concat[len(m.concat)-1] == alpha.Undefined() {
			return nil, esaerr.New(esaerr.InputFormat, "multiseq: empty sequence at boundary produces a leading or trailing padding rank")
		}
	}

	if len(items) == 1 {
		m.bNum = 0
	} else {
		m.bNum = support.BitWidthFor(uint64(len(items) - 1))
	}
	m.bLen = support.BitWidthFor(uint64(maxLen))
	return m, nil
}

// SeqCount returns the number of stored sequences.
func (m *MultiSeq) SeqCount() int { return len(m.offsets) }

// TotalLength returns len(concat), i.e. T in spec.md's notation.
func (m *MultiSeq) TotalLength() int { return len(m.concat) }

// SeqPtr returns the rank slice for sequence i, borrowing from the
// underlying concatenation (do not mutate).
func (m *MultiSeq) SeqPtr(i int) []alphabet.Rank {
	return m.concat[m.offsets[i] : m.offsets[i]+m.lengths[i]]
}

// SeqLen returns the length of sequence i.
func (m *MultiSeq) SeqLen(i int) int { return m.lengths[i] }

// SeqOffset returns the start offset of sequence i within Concat().
func (m *MultiSeq) SeqOffset(i int) int { return m.offsets[i] }

// SeqName returns the header of sequence i.
func (m *MultiSeq) SeqName(i int) string { return m.headers[i] }

// Concat returns the full concatenated rank vector (read-only).
func (m *MultiSeq) Concat() []alphabet.Rank { return m.concat }

// Alphabet returns the alphabet used to encode this container.
func (m *MultiSeq) Alphabet() *alphabet.Alphabet { return m.alpha }

// BNum returns ceil(log2(S)) (0 when S==1), the bit-width needed to store
// a sequence number.
func (m *MultiSeq) BNum() int { return m.bNum }

// BLen returns ceil(log2(max_i len_i + 1)), the bit-width needed to store
// a relative position within the longest sequence.
func (m *MultiSeq) BLen() int { return m.bLen }

// SequencesBits returns BNum()+BLen(), the total bit-width of a (seqnum,
// relpos) pair as used by the packed suftab view.
func (m *MultiSeq) SequencesBits() int { return m.bNum + m.bLen }

// LocateSeq maps a global concat offset (in [0, T]) back to its
// (seqnum, relpos) pair. Offsets that fall on a padding rank return the
// seqnum of the sequence immediately preceding it and relpos equal to
// that sequence's length (an "end of sequence" sentinel position); the
// final offset T (the empty suffix) maps to the last sequence's length.
func (m *MultiSeq) LocateSeq(globalPos int) (seqnum, relpos int) {
	// Binary search over offsets: find the last sequence whose offset is
	// <= globalPos.
	lo, hi := 0, len(m.offsets)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if m.offsets[mid] <= globalPos {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	rel := globalPos - m.offsets[lo]
	if rel > m.lengths[lo] {
		rel = m.lengths[lo]
	}
	return lo, rel
}

// Statistics returns linear-time descriptive text about the container,
// per spec.md 4.D.
func (m *MultiSeq) Statistics() string {
	var b strings.Builder
	fmt.Fprintf(&b, "alphabet: %s (size %d)\n", m.alpha.Name(), m.alpha.Size())
	fmt.Fprintf(&b, "sequences: %d\n", m.SeqCount())
	fmt.Fprintf(&b, "total length (concat): %d\n", m.TotalLength())
	minLen, maxLen, sum := -1, 0, 0
	for _, l := range m.lengths {
		if minLen < 0 || l < minLen {
			minLen = l
		}
		if l > maxLen {
			maxLen = l
		}
		sum += l
	}
	if minLen < 0 {
		minLen = 0
	}
	avg := 0.0
	if len(m.lengths) > 0 {
		avg = float64(sum) / float64(len(m.lengths))
	}
	fmt.Fprintf(&b, "sequence length: min=%d max=%d mean=%.1f\n", minLen, maxLen, avg)
	fmt.Fprintf(&b, "b_num=%d b_len=%d sequences_bits=%d\n", m.bNum, m.bLen, m.SequencesBits())
	return b.String()
}
