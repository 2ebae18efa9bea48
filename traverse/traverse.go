// Package traverse implements spec.md component H, the bottom-up
// lcp-interval traversal: a single linear scan of the suffix array and
// LCP table that emits leaf-edge and branching-edge events describing the
// implicit lcp-interval tree, without ever materializing the tree itself.
//
// Ported directly from original_source/src/indexes/bottom_up_traversal.hpp's
// explicit-stack scan (spec.md 4.H), generalized from its two
// function-pointer callback templates to Go function values
// (LeafEdgeFunc/BranchingEdgeFunc) and from its caller-supplied
// BytesUnit/GttlBitPacker suftab decoding to the SeqLocator interface,
// which suftabview.View and suftabview.Reader already satisfy.
package traverse

// Interval is one node of the implicit lcp-interval tree: the closed
// suffix-array range [LB,RB] (both ends inclusive) sharing an LCP of at least LCP characters.
// RB is only known once the interval is popped (completed); Info is an
// arbitrary caller-owned payload a LeafEdgeFunc/BranchingEdgeFunc can
// stash on the stack frame and later read back (the teacher's
// interface{}-as-payload idiom used where the original's C++ template
// parameter would be, since this module targets a pre-generics Go style
// throughout).
type Interval struct {
	LCP  int
	LB   int
	RB   int
	Info interface{}
}

// LeafEdgeFunc is called once for each suffix that hangs directly off an
// lcp-interval as a leaf (not inside a deeper branching child). top is the
// currently open interval the edge descends from; seqnum/relpos locate
// the leaf's suffix; lastChild reports whether this is the final child
// edge of top; firstEdge is true for the leaf edge that opens a new
// interval and for the very first edge under the root interval, and false
// otherwise.
type LeafEdgeFunc func(firstEdge bool, top *Interval, seqnum, relpos int, lastChild bool)

// BranchingEdgeFunc is called once for each completed child interval
// that attaches to its parent. parent is the interval the edge attaches
// to; child is the just-completed interval (its RB is already set); when
// firstEdge is true, child's Info has not been populated by any callback
// yet and must not be read (mirroring the original's "child not used for
// first_edge=true" contract, where the very first branching edge under a
// newly opened interval carries no prior sibling state).
type BranchingEdgeFunc func(firstEdge bool, parent, child *Interval, lastChild bool)

// LCPTable is the minimal read access this package needs into an LCP
// table; lcp.Table satisfies it directly.
type LCPTable interface {
	Get(i int) int
	Len() int
}

// SeqLocator resolves a suffix-array rank to its owning sequence and
// relative position; suftabview.View and suftabview.Reader both satisfy
// it already (At(rank int) (seqnum, relpos int)).
type SeqLocator interface {
	At(rank int) (seqnum, relpos int)
}

// Walk performs the bottom-up scan over ranks [0,nonspecial), invoking
// onLeafEdge/onBranchingEdge as each interval opens, grows, or completes.
// Either callback may be nil to skip that event class.
func Walk(lcpTable LCPTable, suftab SeqLocator, nonspecial int, onLeafEdge LeafEdgeFunc, onBranchingEdge BranchingEdgeFunc) {
	firstEdgeFromRoot := true
	var lastInterval *Interval
	stack := []*Interval{{LCP: 0, LB: 0}}

	top := func() *Interval { return stack[len(stack)-1] }
	pop := func() *Interval {
		iv := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return iv
	}
	nextFirstEdge := func() bool {
		if top().LCP > 0 || !firstEdgeFromRoot {
			return false
		}
		firstEdgeFromRoot = false
		return true
	}

	for intervalBound := 0; intervalBound < nonspecial; intervalBound++ {
		lcpvalue := lcpTable.Get(intervalBound + 1)
		seqnum, relpos := suftab.At(intervalBound)

		if lcpvalue <= top().LCP {
			lastChild := lcpvalue < top().LCP
			firstEdge := nextFirstEdge()
			if onLeafEdge != nil {
				onLeafEdge(firstEdge, top(), seqnum, relpos, lastChild)
			}
		}

		// lastInterval's fields stay valid across the pop/push churn below
		// even though it no longer sits on the stack: unlike the C++
		// original's BUItvinfo* pointing into a realloc'd contiguous
		// array (forcing it to snapshot lcp/lb/rb into locals before any
		// push_back that might invalidate the pointer), Go's stack holds
		// *Interval pointers into individually heap-allocated structs, so
		// growing the slice never moves the pointee.
		for lcpvalue < top().LCP {
			lastInterval = pop()
			lastInterval.RB = intervalBound
			if lcpvalue <= top().LCP {
				lastChild := lcpvalue < top().LCP
				firstEdge := nextFirstEdge()
				if onBranchingEdge != nil {
					onBranchingEdge(firstEdge, top(), lastInterval, lastChild)
				}
				lastInterval = nil
			}
		}

		if lcpvalue > top().LCP {
			if lastInterval != nil {
				completed := lastInterval
				stack = append(stack, &Interval{LCP: lcpvalue, LB: completed.LB})
				if onBranchingEdge != nil {
					onBranchingEdge(true, top(), completed, false)
				}
				lastInterval = nil
			} else {
				stack = append(stack, &Interval{LCP: lcpvalue, LB: intervalBound})
				if onLeafEdge != nil {
					onLeafEdge(true, top(), seqnum, relpos, false)
				}
			}
		}
	}
}
