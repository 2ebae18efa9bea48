package traverse

import (
	"reflect"
	"testing"
)

type sliceLCP []int

func (s sliceLCP) Get(i int) int { return s[i] }
func (s sliceLCP) Len() int      { return len(s) }

type identityLocator struct{}

func (identityLocator) At(rank int) (int, int) { return 0, rank }

type event struct {
	Kind                            string
	FirstEdge                       bool
	TopLCP, TopLB                   int
	Seqnum, Relpos                  int
	ChildLCP, ChildLB, ChildRB      int
	LastChild                       bool
}

func recordEvents(lcp sliceLCP, nonspecial int) []event {
	var events []event
	onLeaf := func(firstEdge bool, top *Interval, seqnum, relpos int, lastChild bool) {
		events = append(events, event{Kind: "leaf", FirstEdge: firstEdge, TopLCP: top.LCP, TopLB: top.LB, Seqnum: seqnum, Relpos: relpos, LastChild: lastChild})
	}
	onBranch := func(firstEdge bool, parent, child *Interval, lastChild bool) {
		events = append(events, event{Kind: "branch", FirstEdge: firstEdge, TopLCP: parent.LCP, TopLB: parent.LB, ChildLCP: child.LCP, ChildLB: child.LB, ChildRB: child.RB, LastChild: lastChild})
	}
	Walk(lcp, identityLocator{}, nonspecial, onLeaf, onBranch)
	return events
}

// TestWalkMatchesHandTracedSequence pins Walk's event sequence against a
// hand-traced run of the same stack algorithm over a crafted LCP array
// (values chosen so the final LCP read is 0, closing every open interval
// back down to the root, as spec.md 4.H's LCP[0]=LCP[T]=0 boundary
// convention requires for a clean traversal).
func TestWalkMatchesHandTracedSequence(t *testing.T) {
	lcp := sliceLCP{0, 1, 3, 1, 0, 2, 0}
	got := recordEvents(lcp, 6)
	want := []event{
		{Kind: "leaf", FirstEdge: true, TopLCP: 1, TopLB: 0, Seqnum: 0, Relpos: 0, LastChild: false},
		{Kind: "leaf", FirstEdge: true, TopLCP: 3, TopLB: 1, Seqnum: 0, Relpos: 1, LastChild: false},
		{Kind: "leaf", FirstEdge: false, TopLCP: 3, TopLB: 1, Seqnum: 0, Relpos: 2, LastChild: true},
		{Kind: "branch", FirstEdge: false, TopLCP: 1, TopLB: 0, ChildLCP: 3, ChildLB: 1, ChildRB: 2, LastChild: false},
		{Kind: "leaf", FirstEdge: false, TopLCP: 1, TopLB: 0, Seqnum: 0, Relpos: 3, LastChild: true},
		{Kind: "branch", FirstEdge: true, TopLCP: 0, TopLB: 0, ChildLCP: 1, ChildLB: 0, ChildRB: 3, LastChild: false},
		{Kind: "leaf", FirstEdge: true, TopLCP: 2, TopLB: 4, Seqnum: 0, Relpos: 4, LastChild: false},
		{Kind: "leaf", FirstEdge: false, TopLCP: 2, TopLB: 4, Seqnum: 0, Relpos: 5, LastChild: true},
		{Kind: "branch", FirstEdge: false, TopLCP: 0, TopLB: 0, ChildLCP: 2, ChildLB: 4, ChildRB: 5, LastChild: false},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("event sequence mismatch:\ngot:  %+v\nwant: %+v", got, want)
	}
}

// TestWalkAllDistinctIsAllLeavesAtRoot checks the degenerate case where
// every adjacent suffix pair shares no prefix at all: every suffix must
// report as a direct leaf edge of the root interval, and no branching
// edge ever fires.
func TestWalkAllDistinctIsAllLeavesAtRoot(t *testing.T) {
	lcp := sliceLCP{0, 0, 0, 0, 0, 0}
	got := recordEvents(lcp, 5)
	if len(got) != 5 {
		t.Fatalf("expected 5 leaf events, got %d: %+v", len(got), got)
	}
	for i, e := range got {
		if e.Kind != "leaf" || e.TopLCP != 0 || e.TopLB != 0 || e.Relpos != i {
			t.Fatalf("event %d: unexpected shape %+v", i, e)
		}
		if e.FirstEdge != (i == 0) {
			t.Fatalf("event %d: FirstEdge = %v, want %v", i, e.FirstEdge, i == 0)
		}
	}
}

// TestWalkEmptyRange checks nonspecial=0 emits nothing and does not panic.
func TestWalkEmptyRange(t *testing.T) {
	lcp := sliceLCP{0}
	got := recordEvents(lcp, 0)
	if len(got) != 0 {
		t.Fatalf("expected no events, got %+v", got)
	}
}
