// Package treeview renders the syntax tree pane: the display tree flattened
// to visible rows with cursor, fold state, and fuzzy search over labels.
package treeview

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"astnav/internal/asttree"
	"astnav/internal/textutil"
)

// Styles groups the lipgloss styles the pane draws with.
type Styles struct {
	Guide   lipgloss.Style
	Field   lipgloss.Style
	Kind    lipgloss.Style
	Summary lipgloss.Style
	Group   lipgloss.Style
	Empty   lipgloss.Style

	// SelectionBG is merged into every part of the cursor row.
	SelectionBG lipgloss.Color
}

// Model is the tree pane state. The zero value is unusable; call New.
type Model struct {
	styles     Styles
	depthColor func(int) (string, bool)

	width  int
	height int

	tree     *asttree.Tree
	order    []*asttree.DisplayNode
	orderIdx map[*asttree.DisplayNode]int
	expanded map[*asttree.DisplayNode]bool

	rows   []*asttree.DisplayNode
	cursor int
	offset int

	query      string
	queryRaw   []rune
	queryLower []rune
	matches    []*asttree.DisplayNode
}

func New(styles Styles) Model {
	return Model{styles: styles}
}

// SetStyles swaps the style set, for theme changes at runtime.
func (m *Model) SetStyles(styles Styles) {
	m.styles = styles
}

// SetDepthColor injects the lookup used to tint row kinds by nesting depth.
// The lookup reports false when depth coloring is off.
func (m *Model) SetDepthColor(fn func(int) (string, bool)) {
	m.depthColor = fn
}

func (m *Model) SetSize(width int, height int) {
	m.width = width
	m.height = height
	m.ensureCursor()
}

// SetTree replaces the displayed tree. The root and its direct children
// start expanded; cursor, scroll, and search state reset.
func (m *Model) SetTree(t *asttree.Tree) {
	m.tree = t
	m.order = nil
	m.orderIdx = make(map[*asttree.DisplayNode]int)
	m.expanded = make(map[*asttree.DisplayNode]bool)
	m.cursor = 0
	m.offset = 0
	m.clearSearch()

	if t == nil || t.Root == nil {
		m.rows = nil
		return
	}

	var walk func(n *asttree.DisplayNode)
	walk = func(n *asttree.DisplayNode) {
		m.orderIdx[n] = len(m.order)
		m.order = append(m.order, n)
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(t.Root)

	m.expanded[t.Root] = true
	for _, c := range t.Root.Children {
		if len(c.Children) > 0 {
			m.expanded[c] = true
		}
	}
	m.refresh(nil)
}

// Selected returns the cursor row, nil when no tree is loaded.
func (m *Model) Selected() *asttree.DisplayNode {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	return m.rows[m.cursor]
}

func (m *Model) MoveCursor(delta int) {
	if len(m.rows) == 0 {
		m.cursor = 0
		m.offset = 0
		return
	}
	m.cursor += delta
	m.ensureCursor()
}

func (m *Model) MoveToStart() {
	m.cursor = 0
	m.ensureCursor()
}

func (m *Model) MoveToEnd() {
	if len(m.rows) > 0 {
		m.cursor = len(m.rows) - 1
	}
	m.ensureCursor()
}

// PageSize is the row count of one visible page.
func (m *Model) PageSize() int {
	return max(1, m.height)
}

// Toggle flips the fold state of the cursor row.
func (m *Model) Toggle() {
	n := m.Selected()
	if n == nil || len(n.Children) == 0 {
		return
	}
	m.expanded[n] = !m.expanded[n]
	m.refresh(n)
}

// ExpandOrDescend expands a collapsed cursor row, otherwise steps into the
// first child.
func (m *Model) ExpandOrDescend() {
	n := m.Selected()
	if n == nil || len(n.Children) == 0 {
		return
	}
	if !m.expanded[n] {
		m.expanded[n] = true
		m.refresh(n)
		return
	}
	m.MoveCursor(1)
}

// CollapseOrAscend collapses an expanded cursor row, otherwise jumps to the
// parent row.
func (m *Model) CollapseOrAscend() {
	n := m.Selected()
	if n == nil {
		return
	}
	if len(n.Children) > 0 && m.expanded[n] {
		m.expanded[n] = false
		m.refresh(n)
		return
	}
	if n.Parent != nil {
		m.refresh(n.Parent)
	}
}

func (m *Model) ExpandAll() {
	n := m.Selected()
	for _, node := range m.order {
		if len(node.Children) > 0 {
			m.expanded[node] = true
		}
	}
	m.refresh(n)
}

// CollapseAll folds everything below the root's direct children.
func (m *Model) CollapseAll() {
	m.expanded = make(map[*asttree.DisplayNode]bool)
	if m.tree != nil && m.tree.Root != nil {
		m.expanded[m.tree.Root] = true
	}
	m.cursor = 0
	m.offset = 0
	m.refresh(nil)
}

// SetQuery recomputes search matches and jumps to the best scoring one.
// Matches keep tree order so NextMatch and PrevMatch walk the document.
func (m *Model) SetQuery(q string) {
	m.query = q
	m.queryRaw = trimRunes(q)
	m.queryLower = lowerRunes(m.queryRaw)
	m.matches = m.matches[:0]

	if len(m.queryLower) == 0 || m.tree == nil {
		return
	}

	best := -1
	bestScore := 0
	for _, n := range m.order {
		score, ok := fuzzyScore(n.Label, m.queryRaw, m.queryLower)
		if !ok {
			continue
		}
		m.matches = append(m.matches, n)
		if best < 0 || score > bestScore {
			best = len(m.matches) - 1
			bestScore = score
		}
	}
	if best >= 0 {
		m.focusNode(m.matches[best])
	}
}

// ClearQuery drops search state without moving the cursor.
func (m *Model) ClearQuery() {
	m.clearSearch()
}

func (m *Model) clearSearch() {
	m.query = ""
	m.queryRaw = nil
	m.queryLower = nil
	m.matches = nil
}

func (m *Model) MatchCount() int {
	return len(m.matches)
}

// MatchIndex is the 1-based position of the cursor row among the matches,
// zero when the cursor is not on a match.
func (m *Model) MatchIndex() int {
	sel := m.Selected()
	if sel == nil {
		return 0
	}
	for i, n := range m.matches {
		if n == sel {
			return i + 1
		}
	}
	return 0
}

// NextMatch moves to the first match after the cursor, wrapping at the end.
func (m *Model) NextMatch() {
	if len(m.matches) == 0 {
		return
	}
	pos := -1
	if sel := m.Selected(); sel != nil {
		pos = m.orderIdx[sel]
	}
	for _, n := range m.matches {
		if m.orderIdx[n] > pos {
			m.focusNode(n)
			return
		}
	}
	m.focusNode(m.matches[0])
}

// PrevMatch moves to the last match before the cursor, wrapping at the top.
func (m *Model) PrevMatch() {
	if len(m.matches) == 0 {
		return
	}
	pos := len(m.order)
	if sel := m.Selected(); sel != nil {
		pos = m.orderIdx[sel]
	}
	for i := len(m.matches) - 1; i >= 0; i-- {
		if m.orderIdx[m.matches[i]] < pos {
			m.focusNode(m.matches[i])
			return
		}
	}
	m.focusNode(m.matches[len(m.matches)-1])
}

// focusNode expands ancestors so n is visible and puts the cursor on it.
func (m *Model) focusNode(n *asttree.DisplayNode) {
	for p := n.Parent; p != nil; p = p.Parent {
		m.expanded[p] = true
	}
	m.refresh(n)
}

// refresh rebuilds the visible rows and keeps the cursor on focus, falling
// back to its nearest visible ancestor.
func (m *Model) refresh(focus *asttree.DisplayNode) {
	m.rows = m.rows[:0]
	if m.tree != nil && m.tree.Root != nil {
		m.appendVisible(m.tree.Root)
	}
	for focus != nil {
		if idx, ok := m.rowIndex(focus); ok {
			m.cursor = idx
			break
		}
		focus = focus.Parent
	}
	m.ensureCursor()
}

func (m *Model) appendVisible(n *asttree.DisplayNode) {
	m.rows = append(m.rows, n)
	if !m.expanded[n] {
		return
	}
	for _, c := range n.Children {
		m.appendVisible(c)
	}
}

func (m *Model) rowIndex(n *asttree.DisplayNode) (int, bool) {
	for i, row := range m.rows {
		if row == n {
			return i, true
		}
	}
	return 0, false
}

func (m *Model) ensureCursor() {
	if len(m.rows) == 0 {
		m.cursor = 0
		m.offset = 0
		return
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}

	page := m.PageSize()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+page {
		m.offset = m.cursor - page + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
	maxOffset := max(0, len(m.rows)-page)
	if m.offset > maxOffset {
		m.offset = maxOffset
	}
}

// View renders the pane at the size set by SetSize.
func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	if len(m.rows) == 0 {
		return m.styles.Empty.Width(m.width).Height(m.height).Render("no syntax tree")
	}

	start := textutil.Clamp(m.offset, 0, len(m.rows)-1)
	end := min(len(m.rows), start+m.height)

	lines := make([]string, 0, m.height)
	for i := start; i < end; i++ {
		lines = append(lines, m.renderRow(m.rows[i], i == m.cursor))
	}
	for len(lines) < m.height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// renderRow styles one row in segments: indent guide, field prefix, kind,
// scalar summary. Search hits add emphasis on top of whichever segment they
// land in, so segment runs split wherever either changes.
func (m Model) renderRow(n *asttree.DisplayNode, selected bool) string {
	glyph := "  "
	if len(n.Children) > 0 {
		if m.expanded[n] {
			glyph = "▾ "
		} else {
			glyph = "▸ "
		}
	}
	prefix := strings.Repeat("  ", n.Depth) + glyph

	fieldPart := ""
	if n.Field != "" {
		fieldPart = n.Field + ": "
	}
	sumPart := ""
	if n.Summary != "" {
		sumPart = " " + n.Summary
	}
	label := fieldPart + n.Kind + sumPart

	avail := m.width - lipgloss.Width(prefix)
	if avail <= 0 {
		return textutil.Truncate(prefix, m.width)
	}
	label = textutil.Truncate(label, avail)
	runes := []rune(label)

	fieldLen := len([]rune(fieldPart))
	kindEnd := fieldLen + len([]rune(n.Kind))
	partAt := func(i int) int {
		if i < fieldLen {
			return 0
		}
		if i < kindEnd {
			return 1
		}
		return 2
	}

	guideStyle := m.styles.Guide
	fieldStyle := m.styles.Field
	kindStyle := m.styles.Kind
	sumStyle := m.styles.Summary
	if n.Syntax == nil && n.Parent != nil {
		kindStyle = m.styles.Group
	}
	if m.depthColor != nil {
		if hex, ok := m.depthColor(n.Depth); ok {
			kindStyle = kindStyle.Background(lipgloss.Color(hex))
		}
	}
	if selected {
		guideStyle = guideStyle.Background(m.styles.SelectionBG)
		fieldStyle = fieldStyle.Background(m.styles.SelectionBG)
		kindStyle = kindStyle.Background(m.styles.SelectionBG)
		sumStyle = sumStyle.Background(m.styles.SelectionBG)
	}

	emphasis := emphasisMask(len(runes), fuzzyPositions(label, m.queryLower))

	var b strings.Builder
	b.WriteString(guideStyle.Render(prefix))
	for i := 0; i < len(runes); {
		part := partAt(i)
		emph := emphasisAt(emphasis, i)
		j := i + 1
		for j < len(runes) {
			if partAt(j) != part || emphasisAt(emphasis, j) != emph {
				break
			}
			j++
		}
		style := fieldStyle
		switch part {
		case 1:
			style = kindStyle
		case 2:
			style = sumStyle
		}
		if emph {
			style = style.Bold(true).Underline(true)
		}
		b.WriteString(style.Render(string(runes[i:j])))
		i = j
	}

	return textutil.PadRight(b.String(), m.width)
}
