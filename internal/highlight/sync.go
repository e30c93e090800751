package highlight

import (
	"time"

	"astnav/internal/asttree"
)

// MaxTrail caps how many ancestor spans a request carries.
const MaxTrail = 5

// Synchronizer turns display-row selections into highlight requests and
// feeds them to the scheduler. It never touches the rendered view.
type Synchronizer struct {
	sched *Scheduler
}

func NewSynchronizer(sched *Scheduler) *Synchronizer {
	return &Synchronizer{sched: sched}
}

// Select schedules a debounced highlight for node and returns the sequence
// number the eventual flush must present.
func (s *Synchronizer) Select(node *asttree.DisplayNode, now time.Time) uint64 {
	return s.sched.Schedule(s.Request(node), now)
}

// Immediate cancels any pending update and returns the request for node so
// the caller can apply it in the same step, bypassing the debounce.
func (s *Synchronizer) Immediate(node *asttree.DisplayNode) Request {
	s.sched.CancelPending()
	return s.Request(node)
}

// Request builds the highlight request for node: its cached span, its
// depth, and the ancestor trail for rainbow mode, stamped with the current
// session generation. A nil node or a span-less node yields a clearing
// request.
func (s *Synchronizer) Request(node *asttree.DisplayNode) Request {
	req := Request{Gen: s.sched.Gen()}
	if node == nil {
		return req
	}
	req.Node = node
	req.Depth = node.Depth
	if node.Span != nil {
		span := *node.Span
		req.Span = &span
		req.Trail = trail(node)
	}
	return req
}

// trail collects ancestor spans innermost first, skipping span-less rows
// and collapsing runs of ancestors that share a span, capped at MaxTrail.
func trail(node *asttree.DisplayNode) []TrailEntry {
	var out []TrailEntry
	last := *node.Span
	for a := node.Parent; a != nil && len(out) < MaxTrail; a = a.Parent {
		if a.Span == nil {
			continue
		}
		if *a.Span == last {
			continue
		}
		out = append(out, TrailEntry{Span: *a.Span, Depth: a.Depth})
		last = *a.Span
	}
	return out
}
