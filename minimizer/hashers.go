package minimizer

import (
	farm "github.com/dgryski/go-farm"

	"github.com/biocore/esa/alphabet"
	"github.com/biocore/esa/ringhash"
)

// kmerHash is the per-position hash result windowedMinimize consumes: the
// ordering key, and (canonical DNA mode only) which strand it came from
// and whether the two strands tied.
type kmerHash struct {
	hash       uint64
	rc         bool
	palindrome bool
}

// hashAtFunc returns the kmerHash for the k-mer starting at position i of
// a run, for i = 0, 1, 2, ... in strictly increasing order -- the two
// nt-Hash constructors below assume sequential access so they can roll a
// hash forward instead of recomputing it from scratch each step;
// farmHashAt hashes each k-mer from scratch.
type hashAtFunc func(i int) kmerHash

// dnaCanonicalHashAt rolls both the forward and reverse-complement
// nt-Hash values in lockstep (ringhash.NtHash), reporting the smaller of
// the two as the ordering key per spec.md 4.J/4.C's canonical mode, and
// flagging a palindrome when they tie.
func dnaCanonicalHashAt(run []alphabet.Rank, k int) hashAtFunc {
	nt := ringhash.NewNtHash(k)
	var fhVal, rhVal uint64
	started := false
	return func(i int) kmerHash {
		if !started {
			fhVal = nt.FirstHashValue(run[i : i+k])
			rc := make([]alphabet.Rank, k)
			for j := 0; j < k; j++ {
				rc[j] = alphabet.Complement(run[i+k-1-j])
			}
			rhVal = nt.FirstHashValue(rc)
			started = true
		} else {
			charOut, charIn := run[i-1], run[i+k-1]
			fhVal = nt.NextHashValue(charOut, fhVal, charIn)
			rhVal = nt.NextComplHashValue(alphabet.Complement(charOut), rhVal, alphabet.Complement(charIn))
		}
		return kmerHash{
			hash:       ringhash.CanonicalHash(fhVal, rhVal),
			rc:         rhVal < fhVal,
			palindrome: fhVal == rhVal,
		}
	}
}

// dnaForwardHashAt rolls only the forward-strand nt-Hash, for non-canonical
// DNA minimizers.
func dnaForwardHashAt(run []alphabet.Rank, k int) hashAtFunc {
	nt := ringhash.NewNtHash(k)
	var fhVal uint64
	started := false
	return func(i int) kmerHash {
		if !started {
			fhVal = nt.FirstHashValue(run[i : i+k])
			started = true
		} else {
			fhVal = nt.NextHashValue(run[i-1], fhVal, run[i+k-1])
		}
		return kmerHash{hash: fhVal}
	}
}

// farmHashAt hashes each protein k-mer window with go-farm, recomputed
// from scratch every step rather than rolled: nt-Hash's rotate-left-1
// seed-table design is DNA (4-symbol) specific (ringhash.NewNtHash builds
// a 5-entry seed table indexed by rank), so protein minimizers use
// go-farm as SPEC_FULL.md's "alternate Hasher implementation for non-DNA
// k-mers" instead, at the cost of O(k) work per position rather than
// O(1).
func farmHashAt(run []alphabet.Rank, k int) hashAtFunc {
	return func(i int) kmerHash {
		return kmerHash{hash: farm.Hash64(run[i : i+k])}
	}
}
