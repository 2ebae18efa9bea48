// Package minimizer implements spec.md component J: windowed minimizer
// extraction over a multiseq.MultiSeq, producing (hash, seqnum, pos)
// triples via a monotonic sliding-window-minimum deque.
//
// Ported from original_source's enumerate_minimizer (src/sequences/
// enumerate_minimizer.hpp): sequences are split into maximal non-wildcard
// runs via alphabet.CharRangeIter, each run is scanned with a rolling
// hash (ringhash.NtHash for DNA, go-farm for protein per SPEC_FULL.md's
// "alternate Hasher" note), and the current window minimum is emitted
// once per position once it has changed since the last emission (the
// original's front_was_moved flag). Canonical-mode palindromic k-mers
// (forward hash == reverse-complement hash) are buffered and flushed at
// the end of their run instead of competing in the windowed scan, to
// avoid biasing the window toward whichever strand's rolling hash happens
// to update first.
package minimizer

import (
	"github.com/biocore/esa/alphabet"
	"github.com/biocore/esa/esaerr"
	"github.com/biocore/esa/internal/support"
	"github.com/biocore/esa/multiseq"
	"github.com/biocore/esa/radix"
)

// Record is one extracted minimizer: Pos is always the forward-sequence
// start offset of its k-mer (relative to the owning sequence, not the
// multiseq concatenation) -- unlike the original's seqnum-encodes-strand
// trick (storing seqnum+1 and a seqlen-adjusted reverse coordinate for
// the reverse-complement orientation), RC records the strand explicitly.
// A caller that needs the original's reverse coordinate can recover it as
// seqlen-(Pos+k), since seqlen is already available from the MultiSeq the
// pipeline was run against.
type Record struct {
	Hash   uint64
	Seqnum int32
	Pos    int32
	RC     bool
}

// Options configures a Pipeline.
type Options struct {
	// K is the k-mer length, W the window size in k-mers (spec.md 4.J).
	K, W int
	// Canonical enables dual forward/reverse-complement hashing with
	// palindrome buffering; valid only for the DNA alphabet.
	Canonical bool
	// SortByHash performs the optional final radix sort by hash value
	// spec.md 4.J's Concurrency section describes.
	SortByHash bool
	// Workers bounds the per-sequence fan-out; <=0 means runtime.NumCPU().
	Workers int
}

// Pipeline extracts minimizers from a MultiSeq built over a fixed
// alphabet with fixed K/W/Canonical settings.
type Pipeline struct {
	alpha *alphabet.Alphabet
	opts  Options
}

// NewPipeline validates opts against alpha and returns a ready Pipeline.
func NewPipeline(alpha *alphabet.Alphabet, opts Options) (*Pipeline, error) {
	if opts.K <= 0 || opts.W <= 0 {
		return nil, esaerr.New(esaerr.ConfigInvalid, "minimizer: k and w must be positive (got k=%d w=%d)", opts.K, opts.W)
	}
	if opts.Canonical && alpha != alphabet.DNA {
		return nil, esaerr.New(esaerr.ConfigInvalid, "minimizer: canonical hashing requires the DNA alphabet, got %q", alpha.Name())
	}
	return &Pipeline{alpha: alpha, opts: opts}, nil
}

// Run extracts minimizers from every sequence in m, per spec.md 5's
// fork/join concurrency model: each worker owns a disjoint contiguous
// range of sequence indices and appends to its own Record slice; after
// join, the largest per-worker slice becomes the destination (reserved to
// the combined total) and the rest are appended to it in input order.
func (p *Pipeline) Run(m *multiseq.MultiSeq) ([]Record, error) {
	if m.Alphabet() != p.alpha {
		return nil, esaerr.New(esaerr.IncompatiblePair, "minimizer: pipeline alphabet %q does not match container alphabet %q", p.alpha.Name(), m.Alphabet().Name())
	}

	pool := support.NewWorkerPool(p.opts.Workers)
	shardResults := make([][]Record, pool.N())
	pool.RunRange(m.SeqCount(), func(shard, lo, hi int) {
		var buf []Record
		for seqnum := lo; seqnum < hi; seqnum++ {
			buf = p.scanSequence(m.SeqPtr(seqnum), seqnum, buf)
		}
		shardResults[shard] = buf
	})

	result := mergeShards(shardResults)
	if p.opts.SortByHash {
		sortRecordsByHash(result)
	}
	return result, nil
}

// mergeShards implements spec.md 4.J's merge rule.
func mergeShards(shards [][]Record) []Record {
	largest, total := -1, 0
	for i, s := range shards {
		total += len(s)
		if largest == -1 || len(s) > len(shards[largest]) {
			largest = i
		}
	}
	if largest == -1 {
		return nil
	}
	dest := make([]Record, 0, total)
	dest = append(dest, shards[largest]...)
	for i, s := range shards {
		if i == largest {
			continue
		}
		dest = append(dest, s...)
	}
	return dest
}

// scanSequence splits ranks at wildcard runs and scans every surviving
// run, skipping runs too short to ever fill a window.
func (p *Pipeline) scanSequence(ranks []alphabet.Rank, seqnum int, dst []Record) []Record {
	minRunLen := p.opts.W + p.opts.K - 1
	it := alphabet.NewCharRangeIter(ranks, alphabet.NonSpecial(p.alpha.Undefined()), true, false)
	for {
		rg, ok := it.Next()
		if !ok {
			return dst
		}
		if rg.Length < minRunLen {
			continue
		}
		run := ranks[rg.Start : rg.Start+rg.Length]
		dst = p.scanRun(run, seqnum, rg.Start, dst)
	}
}

// scanRun picks the hash family for this run and performs the windowed
// minimum scan (spec.md 4.J steps 2-5).
func (p *Pipeline) scanRun(run []alphabet.Rank, seqnum, runOffset int, dst []Record) []Record {
	k, w := p.opts.K, p.opts.W
	var hashAt hashAtFunc
	switch {
	case p.opts.Canonical:
		hashAt = dnaCanonicalHashAt(run, k)
	case p.alpha == alphabet.DNA:
		hashAt = dnaForwardHashAt(run, k)
	default:
		hashAt = farmHashAt(run, k)
	}
	return windowedMinimize(len(run)-k+1, w, hashAt, seqnum, runOffset, dst)
}

// windowedMinimize is the monotonic-deque scan itself (spec.md 4.J steps
// 3-5), independent of which hash family produced hashAt.
func windowedMinimize(nKmers, w int, hashAt hashAtFunc, seqnum, runOffset int, dst []Record) []Record {
	dq := newMonotoneDeque(w + 1)
	var palindromes []Record
	frontWasMoved := true
	prevFrontPos := -1

	for i := 0; i < nKmers; i++ {
		kh := hashAt(i)

		if kh.palindrome {
			palindromes = append(palindromes,
				Record{Hash: kh.hash, Seqnum: int32(seqnum), Pos: int32(runOffset + i), RC: false},
				Record{Hash: kh.hash, Seqnum: int32(seqnum), Pos: int32(runOffset + i), RC: true})
		} else {
			for !dq.empty() && dq.backHash() > kh.hash {
				dq.popBack()
			}
			dq.pushBack(dequeEntry{hash: kh.hash, pos: i, rc: kh.rc})
		}
		for !dq.empty() && dq.front().pos <= i-w {
			dq.popFront()
		}
		if dq.empty() {
			continue
		}

		f := dq.front()
		if f.pos != prevFrontPos {
			frontWasMoved = true
			prevFrontPos = f.pos
		}
		if i >= w-1 && frontWasMoved {
			dst = append(dst, Record{Hash: f.hash, Seqnum: int32(seqnum), Pos: int32(runOffset + f.pos), RC: f.rc})
			frontWasMoved = false
		}
	}
	return append(dst, palindromes...)
}

func sortRecordsByHash(records []Record) {
	keys := make([]uint64, len(records))
	for i, r := range records {
		keys[i] = r.Hash
	}
	// radix.SortUint64 sorts the hash values themselves; records are
	// reordered to match by sorting (hash, original-index) pairs packed
	// into a single uint64 is not safe here (hashes already use the full
	// 64 bits), so pair each hash with its record index using a stable
	// sort keyed on the radix-sorted hash value instead.
	combined := make([]uint64, len(records))
	copy(combined, keys)
	radix.SortUint64(combined)

	// Bucket original indices by hash value to rebuild the permutation;
	// duplicate hash values keep their relative input order (this loop
	// consumes indices from each bucket in input order, matching a stable
	// sort).
	buckets := make(map[uint64][]int, len(records))
	for i, h := range keys {
		buckets[h] = append(buckets[h], i)
	}
	sorted := make([]Record, len(records))
	for i, h := range combined {
		idxs := buckets[h]
		sorted[i] = records[idxs[0]]
		buckets[h] = idxs[1:]
	}
	copy(records, sorted)
}
