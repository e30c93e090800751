package highlight

import (
	"testing"
	"time"

	"astnav/internal/asttree"
)

func spanAt(line int) *asttree.Span {
	return &asttree.Span{
		Start: asttree.Point{Line: line},
		End:   asttree.Point{Line: line + 1},
	}
}

func chain(spans ...*asttree.Span) *asttree.DisplayNode {
	var parent *asttree.DisplayNode
	for i, s := range spans {
		n := &asttree.DisplayNode{Depth: i, Span: s, Parent: parent}
		parent = n
	}
	return parent
}

func TestRequestSpanlessClears(t *testing.T) {
	syn := NewSynchronizer(NewScheduler(0))

	req := syn.Request(&asttree.DisplayNode{Label: "body"})
	if req.Span != nil || req.Trail != nil {
		t.Fatalf("span-less selection produced %+v, want a clearing request", req)
	}

	if req := syn.Request(nil); req.Span != nil || req.Node != nil {
		t.Fatalf("nil selection produced %+v, want a clearing request", req)
	}
}

func TestRequestTrailSkipsAndDedups(t *testing.T) {
	shared := spanAt(1)
	// root(10) > dup(1) > dup(1) > group(no span) > node(4)
	node := chain(spanAt(10), shared, shared, nil, spanAt(4))

	req := NewSynchronizer(NewScheduler(0)).Request(node)
	if req.Span == nil {
		t.Fatalf("request lost the node span")
	}
	if len(req.Trail) != 2 {
		t.Fatalf("trail = %d entries, want 2 (dup collapsed, span-less skipped)", len(req.Trail))
	}
	if req.Trail[0].Span != *shared {
		t.Fatalf("innermost trail span = %v, want %v", req.Trail[0].Span, *shared)
	}
	if req.Trail[1].Span != (asttree.Span{Start: asttree.Point{Line: 10}, End: asttree.Point{Line: 11}}) {
		t.Fatalf("outermost trail span = %v", req.Trail[1].Span)
	}
}

func TestRequestTrailCapped(t *testing.T) {
	spans := make([]*asttree.Span, MaxTrail+4)
	for i := range spans {
		spans[i] = spanAt(i * 2)
	}
	node := chain(spans...)

	req := NewSynchronizer(NewScheduler(0)).Request(node)
	if len(req.Trail) != MaxTrail {
		t.Fatalf("trail = %d entries, want cap %d", len(req.Trail), MaxTrail)
	}
}

func TestRequestDedupAgainstOwnSpan(t *testing.T) {
	shared := spanAt(3)
	node := chain(spanAt(0), shared, shared)

	req := NewSynchronizer(NewScheduler(0)).Request(node)
	// The parent sharing the node's own span must not enter the trail.
	if len(req.Trail) != 1 {
		t.Fatalf("trail = %d entries, want 1", len(req.Trail))
	}
	if req.Trail[0].Span.Start.Line != 0 {
		t.Fatalf("trail entry = %v, want the root span", req.Trail[0].Span)
	}
}

func TestSelectSchedulesAndFlushes(t *testing.T) {
	sched := NewScheduler(200 * time.Millisecond)
	syn := NewSynchronizer(sched)

	node := chain(spanAt(0), spanAt(2))
	seq := syn.Select(node, at(0))

	req, ok := sched.Flush(seq, at(200))
	if !ok {
		t.Fatalf("scheduled selection never flushed")
	}
	if req.Node != node || req.Span == nil {
		t.Fatalf("flushed request = %+v, want the selected node with its span", req)
	}
	if req.Depth != node.Depth {
		t.Fatalf("request depth = %d, want %d", req.Depth, node.Depth)
	}
}

func TestImmediateCancelsPending(t *testing.T) {
	sched := NewScheduler(200 * time.Millisecond)
	syn := NewSynchronizer(sched)

	node := chain(spanAt(0), spanAt(2))
	seq := syn.Select(node, at(0))

	imm := syn.Immediate(node)
	if imm.Span == nil {
		t.Fatalf("immediate request lost its span")
	}
	if _, ok := sched.Flush(seq, at(300)); ok {
		t.Fatalf("debounced flush applied after an immediate selection superseded it")
	}
}
