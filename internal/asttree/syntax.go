package asttree

// SyntaxNode is a parsed syntax-tree node as the display layer sees it.
// Implementations come from a parser adapter; the display layer only reads
// them and never extends the underlying tree's lifetime on its own.
type SyntaxNode interface {
	// Kind returns the grammar type tag of the node.
	Kind() string
	// Attrs returns the node's attributes in declared order.
	Attrs() []Attr
	// Start returns the recorded start position, if any.
	Start() (Point, bool)
	// End returns the recorded end position, if any. Nodes may record a
	// start without an end; the resolver synthesizes one.
	End() (Point, bool)
}

// Attr is a single named attribute of a syntax node.
type Attr struct {
	Name  string
	Value Value
}

type valueKind uint8

const (
	valueScalar valueKind = iota
	valueNode
	valueSeq
)

// Value holds exactly one of a scalar, a child node, or an ordered
// sequence of child nodes. The zero value is an empty scalar.
type Value struct {
	kind   valueKind
	scalar string
	node   SyntaxNode
	seq    []SyntaxNode
}

func ScalarValue(s string) Value     { return Value{kind: valueScalar, scalar: s} }
func NodeValue(n SyntaxNode) Value   { return Value{kind: valueNode, node: n} }
func SeqValue(ns []SyntaxNode) Value { return Value{kind: valueSeq, seq: ns} }

func (v Value) IsScalar() bool { return v.kind == valueScalar }
func (v Value) IsNode() bool   { return v.kind == valueNode }
func (v Value) IsSeq() bool    { return v.kind == valueSeq }

// Scalar returns the scalar text; empty for non-scalar values.
func (v Value) Scalar() string {
	if v.kind != valueScalar {
		return ""
	}
	return v.scalar
}

// Node returns the single child node; nil for other kinds.
func (v Value) Node() SyntaxNode {
	if v.kind != valueNode {
		return nil
	}
	return v.node
}

// Seq returns the child sequence; nil for other kinds.
func (v Value) Seq() []SyntaxNode {
	if v.kind != valueSeq {
		return nil
	}
	return v.seq
}

// Nodes returns every child node the value carries, regardless of kind.
func (v Value) Nodes() []SyntaxNode {
	switch v.kind {
	case valueNode:
		if v.node == nil {
			return nil
		}
		return []SyntaxNode{v.node}
	case valueSeq:
		return v.seq
	default:
		return nil
	}
}

// Point is a source position, zero-indexed, with columns counted in runes.
type Point struct {
	Line int
	Col  int
}

// Before reports whether p precedes q in the source.
func (p Point) Before(q Point) bool {
	if p.Line != q.Line {
		return p.Line < q.Line
	}
	return p.Col < q.Col
}

// Span is a half-open source region [Start, End). It may cross lines.
type Span struct {
	Start Point
	End   Point
}

// Contains reports whether inner lies within s, non-strict at boundaries.
func (s Span) Contains(inner Span) bool {
	return !inner.Start.Before(s.Start) && !s.End.Before(inner.End)
}

// Empty reports whether the span covers no text.
func (s Span) Empty() bool {
	return s.Start == s.End
}
