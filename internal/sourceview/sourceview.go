// Package sourceview renders the source pane: chroma-highlighted lines with
// a line number gutter and painted span layers on top.
package sourceview

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	chstyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"astnav/internal/asttree"
	"astnav/internal/textutil"
)

// Layer is one painted span. Later layers win where they overlap, and the
// active layer is additionally drawn bold.
type Layer struct {
	Span   asttree.Span
	Color  string
	Active bool
}

// Styles groups the lipgloss styles of the pane chrome.
type Styles struct {
	Gutter lipgloss.Style
	Empty  lipgloss.Style
}

type tokSpan struct {
	start int
	end   int
	tt    chroma.TokenType
}

// Model is the source pane state. The zero value is unusable; call New.
type Model struct {
	styles Styles

	lexer chroma.Lexer
	style *chroma.Style
	cache map[chroma.TokenType]lipgloss.Style

	lines  [][]rune
	tokens [][]tokSpan

	width  int
	height int
	offset int

	layers []Layer
}

func New(styles Styles) Model {
	return Model{
		styles: styles,
		style:  chstyles.Fallback,
		cache:  make(map[chroma.TokenType]lipgloss.Style),
	}
}

// SetStyles swaps the chrome styles, for theme changes at runtime.
func (m *Model) SetStyles(styles Styles) {
	m.styles = styles
}

// SetLanguage picks the chroma lexer by name. Unknown names disable token
// coloring but everything else keeps working.
func (m *Model) SetLanguage(name string) {
	m.lexer = lexers.Get(name)
	if m.lexer != nil {
		m.lexer = chroma.Coalesce(m.lexer)
	}
}

// SetStyle switches the chroma style and drops the derived style cache.
func (m *Model) SetStyle(cs *chroma.Style) {
	if cs == nil {
		cs = chstyles.Fallback
	}
	m.style = cs
	m.cache = make(map[chroma.TokenType]lipgloss.Style)
}

// SetSource replaces the displayed text. The source should use Unix line
// endings; tabs render as single spaces so columns stay aligned with parser
// positions.
func (m *Model) SetSource(src string) {
	raw := strings.Split(src, "\n")
	m.lines = make([][]rune, len(raw))
	for i, line := range raw {
		rs := []rune(line)
		for j, r := range rs {
			if r == '\t' {
				rs[j] = ' '
			}
		}
		m.lines[i] = rs
	}
	m.offset = 0
	m.layers = nil
	m.tokenize(src)
}

func (m *Model) tokenize(src string) {
	m.tokens = make([][]tokSpan, len(m.lines))
	if m.lexer == nil {
		return
	}

	it, err := m.lexer.Tokenise(nil, src)
	if err != nil {
		return
	}

	for i, toks := range chroma.SplitTokensIntoLines(it.Tokens()) {
		if i >= len(m.tokens) {
			break
		}
		col := 0
		spans := make([]tokSpan, 0, len(toks))
		for _, tok := range toks {
			v := strings.TrimSuffix(tok.Value, "\n")
			if v == "" {
				continue
			}
			n := utf8.RuneCountInString(v)
			spans = append(spans, tokSpan{start: col, end: col + n, tt: tok.Type})
			col += n
		}
		m.tokens[i] = spans
	}
}

func (m *Model) SetSize(width int, height int) {
	m.width = width
	m.height = height
	m.clampOffset()
}

func (m *Model) LineCount() int {
	return len(m.lines)
}

// PageSize is the line count of one visible page.
func (m *Model) PageSize() int {
	return max(1, m.height)
}

// SetLayers replaces the painted spans and scrolls the active one into view
// when it is off screen.
func (m *Model) SetLayers(layers []Layer) {
	m.layers = layers
	for i := len(layers) - 1; i >= 0; i-- {
		if !layers[i].Active {
			continue
		}
		line := layers[i].Span.Start.Line
		if line < m.offset || line >= m.offset+m.height {
			m.ScrollTo(line)
		}
		break
	}
}

func (m *Model) ClearLayers() {
	m.layers = nil
}

// ScrollTo places line in the upper quarter of the viewport.
func (m *Model) ScrollTo(line int) {
	m.offset = line - m.height/4
	m.clampOffset()
}

func (m *Model) ScrollBy(delta int) {
	m.offset += delta
	m.clampOffset()
}

func (m *Model) clampOffset() {
	m.offset = textutil.Clamp(m.offset, 0, max(0, len(m.lines)-m.PageSize()))
}

// View renders the pane at the size set by SetSize.
func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	if len(m.lines) == 0 {
		return m.styles.Empty.Width(m.width).Height(m.height).Render("no source loaded")
	}

	gutterW := len(fmt.Sprintf("%d", len(m.lines))) + 1
	if gutterW < 4 {
		gutterW = 4
	}
	textW := max(0, m.width-gutterW)

	end := min(len(m.lines), m.offset+m.height)
	lines := make([]string, 0, m.height)
	for i := m.offset; i < end; i++ {
		lines = append(lines, m.renderLine(i, gutterW, textW))
	}
	for len(lines) < m.height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// renderLine merges two per-rune channels into styled segments: the chroma
// token type and the topmost covering layer. Blank lines inside a layer get
// a single painted cell so multi-line spans read as one block.
func (m Model) renderLine(idx int, gutterW int, textW int) string {
	gutter := m.styles.Gutter.Render(fmt.Sprintf("%*d ", gutterW-1, idx+1))

	runes := m.visibleRunes(idx, textW)
	if len(runes) == 0 {
		for li := len(m.layers) - 1; li >= 0; li-- {
			if _, _, ok := layerRange(m.layers[li], idx, 1); ok {
				return gutter + m.layerStyle(li, lipgloss.NewStyle()).Render(" ")
			}
		}
		return gutter
	}

	mask := make([]int, len(runes))
	for i := range mask {
		mask[i] = -1
	}
	for li, l := range m.layers {
		if s, e, ok := layerRange(l, idx, len(runes)); ok {
			for i := s; i < e; i++ {
				mask[i] = li
			}
		}
	}

	spans := m.tokens[idx]
	si := 0
	tokenAt := func(i int) chroma.TokenType {
		for si < len(spans) && i >= spans[si].end {
			si++
		}
		if si < len(spans) && i >= spans[si].start {
			return spans[si].tt
		}
		return chroma.Text
	}

	var b strings.Builder
	b.WriteString(gutter)
	for i := 0; i < len(runes); {
		tt := tokenAt(i)
		li := mask[i]
		j := i + 1
		for j < len(runes) {
			if mask[j] != li || tokenAt(j) != tt {
				break
			}
			j++
		}
		style := m.styleFor(tt)
		if li >= 0 {
			style = m.layerStyle(li, style)
		}
		b.WriteString(style.Render(string(runes[i:j])))
		i = j
	}
	return b.String()
}

// visibleRunes clips line idx to textW display cells, tabs already spaced.
func (m Model) visibleRunes(idx int, textW int) []rune {
	runes := m.lines[idx]
	w := 0
	for i, r := range runes {
		rw := runewidth.RuneWidth(r)
		if w+rw > textW {
			return runes[:i]
		}
		w += rw
	}
	return runes
}

// layerRange reports the rune range layer l paints on line, if any. lineLen
// 1 stands in for a blank line.
func layerRange(l Layer, line int, lineLen int) (int, int, bool) {
	sp := l.Span
	if line < sp.Start.Line || line > sp.End.Line {
		return 0, 0, false
	}
	start := 0
	if line == sp.Start.Line {
		start = sp.Start.Col
	}
	end := lineLen
	if line == sp.End.Line && sp.End.Col < lineLen {
		end = sp.End.Col
	}
	if start >= end {
		return 0, 0, false
	}
	return start, end, true
}

func (m Model) layerStyle(li int, base lipgloss.Style) lipgloss.Style {
	l := m.layers[li]
	s := base
	if l.Color != "" {
		s = s.Background(lipgloss.Color(l.Color))
	}
	if l.Active {
		s = s.Bold(true)
	}
	return s
}

// styleFor derives a lipgloss style from the chroma entry for tt, cached
// until the next SetStyle.
func (m Model) styleFor(tt chroma.TokenType) lipgloss.Style {
	if s, ok := m.cache[tt]; ok {
		return s
	}
	entry := m.style.Get(tt)
	s := lipgloss.NewStyle()
	if entry.Colour.IsSet() {
		s = s.Foreground(lipgloss.Color(entry.Colour.String()))
	}
	if entry.Bold == chroma.Yes {
		s = s.Bold(true)
	}
	if entry.Italic == chroma.Yes {
		s = s.Italic(true)
	}
	if entry.Underline == chroma.Yes {
		s = s.Underline(true)
	}
	m.cache[tt] = s
	return s
}
