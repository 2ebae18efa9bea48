// Package match implements spec.md component K: the sorted-match-list
// bridge between hashed k-mer seeds and local colinear chaining.
//
// Ported from original_source's SortedMatchList (src/sequences/
// sorted_match_list.hpp): seeds are extended bidirectionally to maximal
// exact matches, packed into fixed-width order-preserving records, sorted
// and deduplicated, then handed to the chainer in chain.go.
package match

import (
	"github.com/biocore/esa/alphabet"
	"github.com/biocore/esa/esaerr"
	"github.com/biocore/esa/multiseq"
)

// Seed is one shared-k-mer hit between a reference and a query sequence,
// as produced by matching two minimizer.Record streams on Hash.
type Seed struct {
	RefSeqnum, QuerySeqnum int
	RefPos, QueryPos       int
}

// Match is one maximal exact match surviving seed extension.
type Match struct {
	RefSeqnum, QuerySeqnum int
	// RefEnd and QueryEnd are the last matched position (inclusive) in
	// each sequence.
	RefEnd, QueryEnd int
	Length           int
}

// Extender extends seeds of a fixed qgram length into maximal exact
// matches between a reference and a query multiseq.MultiSeq (the same
// container, for a self-match index).
type Extender struct {
	ref, query  *multiseq.MultiSeq
	qgramLength int
	minMatchLen int
}

// NewExtender validates that minMatchLength is at least qgramLength (a
// seed shorter than the match threshold can never survive extension) and
// that ref/query share an alphabet (extension compares ranks directly, so
// mixing alphabets would silently compare unrelated encodings).
func NewExtender(ref, query *multiseq.MultiSeq, qgramLength, minMatchLength int) (*Extender, error) {
	if qgramLength <= 0 {
		return nil, esaerr.New(esaerr.ConfigInvalid, "match: qgram length must be positive, got %d", qgramLength)
	}
	if minMatchLength < qgramLength {
		return nil, esaerr.New(esaerr.ConfigInvalid, "match: minimum match length %d is smaller than qgram length %d", minMatchLength, qgramLength)
	}
	if ref.Alphabet() != query.Alphabet() {
		return nil, esaerr.New(esaerr.IncompatiblePair, "match: ref alphabet %q does not match query alphabet %q", ref.Alphabet().Name(), query.Alphabet().Name())
	}
	return &Extender{ref: ref, query: query, qgramLength: qgramLength, minMatchLen: minMatchLength}, nil
}

// ExtendAll extends every seed and returns the matches meeting the
// minimum-length threshold. Unlike the original's matching_characters /
// matching_characters_wc template split (a compile-time choice between a
// wildcard-aware and a plain comparator, picked per self-match/check-bounds
// instantiation), extension here always treats the alphabet's undefined
// (padding) rank as a non-match: Go slices are bounds-checked by the
// runtime regardless, so there is no unchecked-pointer fast path to
// preserve, and treating padding as a non-match is what actually stops
// extension at a sequence boundary in every call shape (self-match,
// cross-match, or either sequence ending early).
func (e *Extender) ExtendAll(seeds []Seed) []Match {
	threshold := e.minMatchLen - e.qgramLength
	var out []Match
	for _, s := range seeds {
		left, right, ok := e.maximizeOnBothEnds(s, threshold)
		if !ok {
			continue
		}
		length := left + e.qgramLength + right
		out = append(out, Match{
			RefSeqnum:   s.RefSeqnum,
			QuerySeqnum: s.QuerySeqnum,
			RefEnd:      s.RefPos + e.qgramLength - 1 + right,
			QueryEnd:    s.QueryPos + e.qgramLength - 1 + right,
			Length:      length,
		})
	}
	return out
}

// maximizeOnBothEnds extends the seed's qgram left and right until a
// mismatch or a sequence boundary, per original_source's
// maximize_on_both_ends. It bails out early (ok=false) once left+right can
// no longer reach threshold, before paying for the qgram-core equality
// check, mirroring the original's ordering of the cheap extension loop
// before the core verification.
func (e *Extender) maximizeOnBothEnds(s Seed, threshold int) (left, right int, ok bool) {
	refRanks := e.ref.SeqPtr(s.RefSeqnum)
	queryRanks := e.query.SeqPtr(s.QuerySeqnum)
	undefined := e.ref.Alphabet().Undefined()
	k := e.qgramLength

	for left < s.RefPos && left < s.QueryPos {
		a := refRanks[s.RefPos-left-1]
		b := queryRanks[s.QueryPos-left-1]
		if a != b || a == undefined {
			break
		}
		left++
	}
	for s.RefPos+k+right < len(refRanks) && s.QueryPos+k+right < len(queryRanks) {
		a := refRanks[s.RefPos+k+right]
		b := queryRanks[s.QueryPos+k+right]
		if a != b || a == undefined {
			break
		}
		right++
	}
	if left+right < threshold {
		return left, right, false
	}
	if !e.coreMatches(s, refRanks, queryRanks) {
		return left, right, false
	}
	return left, right, true
}

func (e *Extender) coreMatches(s Seed, refRanks, queryRanks []alphabet.Rank) bool {
	k := e.qgramLength
	for i := 0; i < k; i++ {
		if refRanks[s.RefPos+i] != queryRanks[s.QueryPos+i] {
			return false
		}
	}
	return true
}
