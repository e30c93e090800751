package highlight

import (
	"time"

	"astnav/internal/asttree"
)

// DefaultDelay is the quiet period before a scheduled highlight applies.
const DefaultDelay = 200 * time.Millisecond

// Request is one pending highlight update for the source pane.
type Request struct {
	// Node is the selected display row, lookup only.
	Node *asttree.DisplayNode
	// Span is the region to paint; nil means clear the highlight.
	Span *asttree.Span
	// Depth picks the rainbow color for the active span.
	Depth int
	// Trail holds ancestor spans, innermost first, for rainbow mode.
	Trail []TrailEntry
	// Seq orders requests; a flush must present the sequence number of the
	// schedule that armed it.
	Seq uint64
	// Gen ties the request to the file-load session that produced it.
	Gen uint64
}

// TrailEntry is one ancestor span in a request's rainbow trail.
type TrailEntry struct {
	Span  asttree.Span
	Depth int
}

// Scheduler coalesces highlight requests: a single pending slot, strictly
// last-write-wins. It runs no timers itself; the host event loop arms one
// deferred callback per Schedule and presents the returned sequence number
// to Flush when the callback fires. Superseded or stale callbacks resolve
// to nothing and are never rendered.
type Scheduler struct {
	delay time.Duration

	pending    Request
	hasPending bool
	due        time.Time

	seq uint64
	gen uint64
}

func NewScheduler(delay time.Duration) *Scheduler {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Scheduler{delay: delay}
}

// Delay returns the debounce quiet period.
func (s *Scheduler) Delay() time.Duration { return s.delay }

// Gen returns the current session generation. Trees and the requests built
// from them carry it; a flush only honors requests from the live session.
func (s *Scheduler) Gen() uint64 { return s.gen }

// Schedule supersedes any pending request with req and restarts the quiet
// period from now. The returned sequence number identifies this schedule;
// only a Flush presenting it can apply the request.
func (s *Scheduler) Schedule(req Request, now time.Time) uint64 {
	s.seq++
	req.Seq = s.seq
	s.pending = req
	s.hasPending = true
	s.due = now.Add(s.delay)
	return s.seq
}

// Flush resolves a fired callback. It yields the pending request only when
// seq still identifies it, the quiet period has elapsed, and the request
// belongs to the live session; anything else reports false.
func (s *Scheduler) Flush(seq uint64, now time.Time) (Request, bool) {
	if !s.hasPending || s.pending.Seq != seq {
		return Request{}, false
	}
	if s.pending.Gen != s.gen {
		return Request{}, false
	}
	if now.Before(s.due) {
		return Request{}, false
	}
	req := s.pending
	s.pending = Request{}
	s.hasPending = false
	return req, true
}

// CancelPending drops any pending request without applying it.
func (s *Scheduler) CancelPending() {
	s.pending = Request{}
	s.hasPending = false
}

// Invalidate tears down the current session on file switch or view close:
// the pending slot clears and the generation bumps, so callbacks still in
// flight for the old session resolve stale at Flush.
func (s *Scheduler) Invalidate() {
	s.CancelPending()
	s.gen++
}
