package match

import "sort"

// Chain is a maximal colinear run of matches, ordered from first to last
// along both sequences.
type Chain struct {
	Matches []Match
	Score   int64
}

// ChainOptions tunes the colinear-chaining DP.
type ChainOptions struct {
	// MaxPrevious bounds how many predecessor candidates the DP considers
	// per element (spec.md 4.K's "max_previous look-back window").
	MaxPrevious int
}

const defaultMaxPrevious = 50

// Chains segments a deduplicated Table by (ref_seqnum, query_seqnum) and
// runs colinear chaining independently within each segment, per spec.md
// 4.K. Ported from original_source's LocalChainer (src/sequences/
// local_chainer.hpp): within a segment, score each edge i->j as
// length(j) - gapPenalty(ref_gap,query_gap), prune edges whose two-sided
// gap imbalance exceeds max(100, 0.3*max(ref_gap,query_gap)), run the DP
// both forwards and backwards and keep whichever direction scores higher,
// then reconstruct chains by marking which elements are referenced as
// another element's predecessor -- unreferenced elements are candidate
// chain ends, walked back in descending-score order.
func Chains(t *Table, opts ChainOptions) []Chain {
	if opts.MaxPrevious <= 0 {
		opts.MaxPrevious = defaultMaxPrevious
	}
	var out []Chain
	n := t.Len()
	for lo := 0; lo < n; {
		hi := lo + 1
		for hi < n && sameSegment(t.At(lo), t.At(hi)) {
			hi++
		}
		out = append(out, chainSegment(t, lo, hi, opts)...)
		lo = hi
	}
	return out
}

func sameSegment(a, b Match) bool {
	return a.RefSeqnum == b.RefSeqnum && a.QuerySeqnum == b.QuerySeqnum
}

// gapPenalty is original_source's gap_function: the average of the two
// sequences' gaps between consecutive matches.
func gapPenalty(refGap, queryGap int) int64 {
	return int64(refGap+queryGap) / 2
}

// gapImbalanceOK implements the pruning check "diff<100 ||
// diff/max(ref_gap,query_gap)<=0.3" from local_chainer.hpp.
func gapImbalanceOK(refGap, queryGap int) bool {
	diff := refGap - queryGap
	if diff < 0 {
		diff = -diff
	}
	m := refGap
	if queryGap > m {
		m = queryGap
	}
	if diff < 100 {
		return true
	}
	if m == 0 {
		return false
	}
	return float64(diff)/float64(m) <= 0.3
}

// chainSegment runs the bidirectional DP over elements [lo,hi) of t,
// already known to share (ref_seqnum, query_seqnum), and reconstructs the
// winning direction's chains.
func chainSegment(t *Table, lo, hi int, opts ChainOptions) []Chain {
	elems := make([]Match, hi-lo)
	for i := range elems {
		elems[i] = t.At(lo + i)
	}
	// Elements within a segment are already in endpos byte order (the
	// table's global sort order) which for a fixed seqnum pair orders by
	// (ref_endpos, query_endpos) -- the order local_chain_scores assumes.

	fwdScore, fwdPred := localChainScores(elems, opts.MaxPrevious, false)
	bwdScore, bwdPred := localChainScores(elems, opts.MaxPrevious, true)

	fwdTotal := totalScore(fwdScore)
	bwdTotal := totalScore(bwdScore)

	if bwdTotal > fwdTotal {
		// Backwards chaining computes predecessors in the reverse
		// direction; reverse the links so every caller sees a uniform
		// forward (upwards) predecessor chain, per local_chainer.hpp's
		// handling of the downwards-chaining case.
		pred := reversePredecessors(bwdPred)
		return reconstructChains(elems, bwdScore, pred)
	}
	return reconstructChains(elems, fwdScore, fwdPred)
}

func totalScore(score []int64) int64 {
	var total int64
	for _, s := range score {
		total += s
	}
	return total
}

// localChainScores runs the DP once, in the forward direction (lowest
// index to highest) when backwards is false, or in the reverse direction
// when true, per local_chainer.hpp's upwards_chaining / downwards_chaining
// template parameter. pred[i] is the index (within elems) of i's chosen
// predecessor, or -1 if i starts its own chain.
func localChainScores(elems []Match, maxPrevious int, backwards bool) (score []int64, pred []int) {
	n := len(elems)
	score = make([]int64, n)
	pred = make([]int, n)
	for i := range pred {
		pred[i] = -1
	}

	order := make([]int, n)
	if backwards {
		for i := range order {
			order[i] = n - 1 - i
		}
	} else {
		for i := range order {
			order[i] = i
		}
	}

	for oi, i := range order {
		m := elems[i]
		score[i] = int64(m.Length)
		best := oi - maxPrevious
		if best < 0 {
			best = 0
		}
		for oj := best; oj < oi; oj++ {
			j := order[oj]
			refGap, queryGap, ok := gapBetween(elems[j], m, backwards)
			if !ok || !gapImbalanceOK(refGap, queryGap) {
				continue
			}
			cand := score[j] + int64(m.Length) - gapPenalty(refGap, queryGap)
			if cand > score[i] {
				score[i] = cand
				pred[i] = j
			}
		}
	}
	return score, pred
}

// gapBetween returns the reference/query gap between predecessor a and
// successor b along the chaining direction, or ok=false if b does not
// extend strictly past a in both sequences (a prerequisite for a colinear
// edge).
func gapBetween(a, b Match, backwards bool) (refGap, queryGap int, ok bool) {
	if backwards {
		a, b = b, a
	}
	if b.RefEnd <= a.RefEnd || b.QueryEnd <= a.QueryEnd {
		return 0, 0, false
	}
	return b.RefEnd - a.RefEnd, b.QueryEnd - a.QueryEnd, true
}

// reversePredecessors flips a backwards-DP predecessor array (where
// pred[i] points toward higher indices) into the forward convention (where
// pred[i] points toward lower indices), by making each element point back
// at whichever element chose it as predecessor.
func reversePredecessors(pred []int) []int {
	out := make([]int, len(pred))
	for i := range out {
		out[i] = -1
	}
	for i, p := range pred {
		if p != -1 {
			out[p] = i
		}
	}
	return out
}

// reconstructChains finds elements never referenced as another's
// predecessor (candidate chain ends), sorts them by descending score, and
// walks each one back through pred, accumulating matches and marking
// visited elements so a later, lower-scoring chain end cannot re-claim
// them -- original_source's "marked" bit packed into predecessor, realized
// here as a plain visited slice since Go has no pressure to share storage
// between the two.
func reconstructChains(elems []Match, score []int64, pred []int) []Chain {
	n := len(elems)
	referenced := make([]bool, n)
	for _, p := range pred {
		if p != -1 {
			referenced[p] = true
		}
	}
	ends := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if !referenced[i] {
			ends = append(ends, i)
		}
	}
	sort.Slice(ends, func(a, b int) bool { return score[ends[a]] > score[ends[b]] })

	visited := make([]bool, n)
	var chains []Chain
	for _, end := range ends {
		if visited[end] {
			continue
		}
		var members []Match
		total := score[end]
		for i := end; i != -1 && !visited[i]; i = pred[i] {
			visited[i] = true
			members = append(members, elems[i])
		}
		// members were collected end-to-start; reverse into sequence order.
		for l, r := 0, len(members)-1; l < r; l, r = l+1, r-1 {
			members[l], members[r] = members[r], members[l]
		}
		chains = append(chains, Chain{Matches: members, Score: total})
	}
	sort.Slice(chains, func(i, j int) bool { return chains[i].Score > chains[j].Score })
	return chains
}
