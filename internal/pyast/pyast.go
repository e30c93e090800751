// Package pyast parses Python source with tree-sitter and snapshots the
// result into asttree syntax nodes. Snapshots hold no reference to the
// underlying C tree, which is closed before Parse returns.
package pyast

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	python "github.com/smacker/go-tree-sitter/python"

	"astnav/internal/asttree"
)

// atomKinds are shown as leaves carrying their source text instead of being
// expanded into grammar-internal children.
var atomKinds = map[string]bool{
	"identifier": true,
	"integer":    true,
	"float":      true,
	"string":     true,
	"comment":    true,
	"true":       true,
	"false":      true,
	"none":       true,
}

// Node is an immutable snapshot of one parsed node.
type Node struct {
	kind  string
	attrs []asttree.Attr
	start asttree.Point
	end   asttree.Point
}

func (n *Node) Kind() string                 { return n.kind }
func (n *Node) Attrs() []asttree.Attr        { return n.attrs }
func (n *Node) Start() (asttree.Point, bool) { return n.start, true }
func (n *Node) End() (asttree.Point, bool)   { return n.end, true }

// Parse parses Python source into a snapshot tree. Columns in the returned
// positions count runes, not bytes, so they line up with rendered lines. The
// source should use Unix line endings.
func Parse(ctx context.Context, src []byte) (asttree.SyntaxNode, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse python: %w", err)
	}
	if tree == nil {
		return nil, errors.New("parse python: parser returned no tree")
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, errors.New("parse python: parser returned no root")
	}

	c := &converter{
		src:   src,
		lines: strings.Split(string(src), "\n"),
	}
	return c.node(root), nil
}

type converter struct {
	src   []byte
	lines []string
}

// node converts one tree-sitter node. Scalar attributes fold into the parent
// (a name field, a fielded operator token, atom text); named children group
// into runs by field so sibling order stays the grammar's declared order.
func (c *converter) node(n *sitter.Node) *Node {
	out := &Node{
		kind:  n.Type(),
		start: c.point(n.StartPoint()),
		end:   c.point(n.EndPoint()),
	}

	if atomKinds[out.kind] {
		out.attrs = []asttree.Attr{{Name: "text", Value: asttree.ScalarValue(n.Content(c.src))}}
		return out
	}

	var (
		runField string
		runNodes []asttree.SyntaxNode
	)
	flush := func() {
		if len(runNodes) == 0 {
			return
		}
		if runField != "" && len(runNodes) == 1 {
			out.attrs = append(out.attrs, asttree.Attr{Name: runField, Value: asttree.NodeValue(runNodes[0])})
		} else {
			out.attrs = append(out.attrs, asttree.Attr{Name: runField, Value: asttree.SeqValue(runNodes)})
		}
		runField = ""
		runNodes = nil
	}

	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		field := n.FieldNameForChild(i)

		if !child.IsNamed() {
			// Unfielded tokens are punctuation; fielded ones carry
			// meaning, like the operator of a binary expression.
			if field != "" {
				flush()
				out.attrs = append(out.attrs, asttree.Attr{Name: field, Value: asttree.ScalarValue(child.Content(c.src))})
			}
			continue
		}

		if field == "name" && atomKinds[child.Type()] {
			flush()
			out.attrs = append(out.attrs, asttree.Attr{Name: "name", Value: asttree.ScalarValue(child.Content(c.src))})
			continue
		}

		if len(runNodes) > 0 && field != runField {
			flush()
		}
		runField = field
		runNodes = append(runNodes, c.node(child))
	}
	flush()

	return out
}

func (c *converter) point(p sitter.Point) asttree.Point {
	row := int(p.Row)
	if row >= len(c.lines) {
		return asttree.Point{Line: row}
	}
	return asttree.Point{Line: row, Col: byteToRuneIndex(c.lines[row], int(p.Column))}
}

func byteToRuneIndex(s string, b int) int {
	if b <= 0 {
		return 0
	}
	if b >= len(s) {
		return utf8.RuneCountInString(s)
	}
	return utf8.RuneCountInString(s[:b])
}
