package asttree

import (
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

// DisplayNode is one row of the navigable tree.
type DisplayNode struct {
	// Label is the full row text: "field: kind (summary)".
	Label string
	// Kind is the short name used in breadcrumbs: the node type, the field
	// name for synthetic group rows, or the file name for the root.
	Kind string
	// Field is the field-name prefix, empty when the node is unfielded.
	Field string
	// Summary is the bounded scalar rendering, empty when the node carries
	// no scalar attributes.
	Summary string
	// Depth is the nesting level; the root is 0.
	Depth int

	Parent   *DisplayNode
	Children []*DisplayNode

	// Syntax is a lookup-only reference to the originating node. It is nil
	// for the file root and for synthetic group rows. The parse step owns
	// the underlying tree.
	Syntax SyntaxNode
	// Span is the resolved source extent, nil when the node has no
	// position info. Selecting a span-less node clears the highlight.
	Span *Span
}

// Tree is a built display tree plus the generation token tying highlight
// requests to the file load that produced them.
type Tree struct {
	Root  *DisplayNode
	Gen   uint64
	Nodes int
}

// DefaultScalarWidth bounds rendered scalar values in labels.
const DefaultScalarWidth = 24

// Config controls a build.
type Config struct {
	// RootLabel, when set, adds a span-less root row (the file name) above
	// the top syntax node.
	RootLabel string
	// ScalarWidth caps the rendered width of each scalar attribute value;
	// zero means DefaultScalarWidth.
	ScalarWidth int
	// Gen is recorded on the tree for stale-request detection.
	Gen uint64
}

// Build produces the display tree for a parsed syntax tree. The input is
// never mutated; the caller guarantees root came from a successful parse.
func Build(root SyntaxNode, cfg Config) *Tree {
	if cfg.ScalarWidth <= 0 {
		cfg.ScalarWidth = DefaultScalarWidth
	}
	b := &builder{res: NewResolver(), cfg: cfg}

	var top *DisplayNode
	switch {
	case cfg.RootLabel != "":
		top = &DisplayNode{Label: cfg.RootLabel, Kind: cfg.RootLabel}
		b.count++
		if root != nil {
			b.node(top, "", root)
		}
	case root != nil:
		top = b.node(nil, "", root)
	default:
		top = &DisplayNode{}
		b.count++
	}

	return &Tree{Root: top, Gen: cfg.Gen, Nodes: b.count}
}

type builder struct {
	res   *Resolver
	cfg   Config
	count int
}

// node builds the row for one syntax node and recurses into its non-scalar
// attributes in declared order.
func (b *builder) node(parent *DisplayNode, field string, n SyntaxNode) *DisplayNode {
	d := &DisplayNode{
		Kind:    n.Kind(),
		Field:   field,
		Summary: b.summary(n),
		Syntax:  n,
	}
	d.Label = composeLabel(d.Field, d.Kind, d.Summary)
	b.attach(parent, d)

	if span, ok := b.res.Resolve(n); ok {
		d.Span = &span
	}

	for _, attr := range n.Attrs() {
		switch {
		case attr.Value.IsNode():
			if child := attr.Value.Node(); child != nil {
				b.node(d, attr.Name, child)
			}
		case attr.Value.IsSeq():
			b.seq(d, attr.Name, attr.Value.Seq())
		}
	}
	return d
}

// seq flattens a sequence attribute. Empty sequences are skipped, a single
// element inlines as a direct child, and more than one element goes under a
// synthetic group row named after the field. Unfielded sequences attach
// their elements directly; the parent is their natural group.
func (b *builder) seq(parent *DisplayNode, field string, nodes []SyntaxNode) {
	if len(nodes) == 0 {
		return
	}
	if len(nodes) == 1 {
		b.node(parent, field, nodes[0])
		return
	}

	group := parent
	if field != "" {
		group = &DisplayNode{Label: field, Kind: field}
		b.attach(parent, group)
	}
	for _, n := range nodes {
		if n != nil {
			b.node(group, "", n)
		}
	}
}

func (b *builder) attach(parent *DisplayNode, d *DisplayNode) {
	d.Parent = parent
	if parent != nil {
		d.Depth = parent.Depth + 1
		parent.Children = append(parent.Children, d)
	}
	b.count++
}

// summary renders the node's scalar attributes: "name" scalars bare, leaf
// text quoted, anything else as field=value.
func (b *builder) summary(n SyntaxNode) string {
	var parts []string
	for _, attr := range n.Attrs() {
		if !attr.Value.IsScalar() {
			continue
		}
		v := boundScalar(attr.Value.Scalar(), b.cfg.ScalarWidth)
		switch attr.Name {
		case "name":
			parts = append(parts, v)
		case "text", "":
			parts = append(parts, strconv.Quote(v))
		default:
			parts = append(parts, attr.Name+"="+v)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func composeLabel(field string, kind string, summary string) string {
	var sb strings.Builder
	if field != "" {
		sb.WriteString(field)
		sb.WriteString(": ")
	}
	sb.WriteString(kind)
	if summary != "" {
		sb.WriteByte(' ')
		sb.WriteString(summary)
	}
	return sb.String()
}

// boundScalar flattens whitespace and truncates to width display cells.
func boundScalar(s string, width int) string {
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\t", " ")
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 3 {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, "...")
}
