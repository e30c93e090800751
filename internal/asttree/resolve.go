package asttree

// Resolver computes source spans for syntax nodes, synthesizing missing end
// positions from descendants. One resolver serves one build; the memo
// assumes the tree does not change underneath it.
type Resolver struct {
	ends map[SyntaxNode]endMemo
}

type endMemo struct {
	point Point
	ok    bool
}

func NewResolver() *Resolver {
	return &Resolver{ends: make(map[SyntaxNode]endMemo)}
}

// Resolve returns the span of node. A node without a start position has no
// span. A missing end is synthesized as the maximum end among all
// descendants; when no descendant records an end either, the span is empty
// at the start point. The returned end never precedes the start.
func (r *Resolver) Resolve(node SyntaxNode) (Span, bool) {
	if node == nil {
		return Span{}, false
	}
	start, ok := node.Start()
	if !ok {
		return Span{}, false
	}
	end, ok := node.End()
	if !ok {
		end, ok = r.maxDescendantEnd(node)
		if !ok {
			end = start
		}
	}
	if end.Before(start) {
		end = start
	}
	return Span{Start: start, End: end}, true
}

// maxDescendantEnd walks the subtree below node for the largest recorded
// end. A child with its own end is taken at face value (its end bounds its
// subtree); only end-less children are descended into. Results are memoized
// so shared or deeply nested subtrees are walked once.
func (r *Resolver) maxDescendantEnd(node SyntaxNode) (Point, bool) {
	if memo, hit := r.ends[node]; hit {
		return memo.point, memo.ok
	}

	var best Point
	found := false
	consider := func(p Point) {
		if !found || best.Before(p) {
			best = p
			found = true
		}
	}

	for _, attr := range node.Attrs() {
		for _, child := range attr.Value.Nodes() {
			if child == nil {
				continue
			}
			if end, ok := child.End(); ok {
				consider(end)
				continue
			}
			if end, ok := r.maxDescendantEnd(child); ok {
				consider(end)
			}
		}
	}

	r.ends[node] = endMemo{point: best, ok: found}
	return best, found
}
