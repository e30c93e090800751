package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"astnav/internal/asttree"
	"astnav/internal/highlight"
	"astnav/internal/pyast"
	"astnav/internal/readfile"
	"astnav/internal/sourceview"
	"astnav/internal/treeview"
)

type config struct {
	DarkTheme  string
	LightTheme string
	Light      bool
	Rainbow    bool
	Palette    string
	Debounce   time.Duration
	EditorCmd  string
	Debug      bool
}

type focusArea int

const (
	focusTree focusArea = iota
	focusSource
)

type promptKind int

const (
	promptNone promptKind = iota
	promptOpen
	promptSearch
)

// Pane split is expressed in twentieths of the width so resize steps stay
// proportional across terminal sizes.
const (
	shareTotal   = 20
	minTreeShare = 2
	maxTreeShare = 18
)

type model struct {
	cfg   config
	theme *Theme
	ui    UIPalette

	width  int
	height int

	dark      bool
	treeShare int
	focus     focusArea

	tree   treeview.Model
	source sourceview.Model

	palette *highlight.Palette
	sched   *highlight.Scheduler
	sync    *highlight.Synchronizer

	displayTree *asttree.Tree
	file        string
	lastSel     *asttree.DisplayNode

	prompt     textinput.Model
	promptKind promptKind

	infoPath string
	infoLoc  string

	status string
	errMsg string
}

// flushMsg asks the scheduler whether the debounced request with this seq is
// still the pending one. Stale seqs are dropped in Flush.
type flushMsg struct {
	seq uint64
}

func flushCmd(delay time.Duration, seq uint64) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg { return flushMsg{seq: seq} })
}

func newModel(cfg config, theme *Theme) model {
	dark := !cfg.Light
	palette := highlight.NewPalette(theme.Rainbow(dark))
	palette.SetEnabled(cfg.Rainbow)
	sched := highlight.NewScheduler(cfg.Debounce)

	prompt := textinput.New()
	prompt.CharLimit = 512

	m := model{
		cfg:       cfg,
		theme:     theme,
		dark:      dark,
		treeShare: shareTotal / 2,
		tree:      treeview.New(treeview.Styles{}),
		source:    sourceview.New(sourceview.Styles{}),
		palette:   palette,
		sched:     sched,
		sync:      highlight.NewSynchronizer(sched),
		prompt:    prompt,
	}
	m.tree.SetDepthColor(palette.Color)
	m.source.SetLanguage("python")
	m.applyStyles()
	return m
}

// applyStyles rebuilds everything derived from the active mode's chroma
// style. Called once at startup and again on every theme flip.
func (m *model) applyStyles() {
	m.ui = m.theme.UI(m.dark)
	m.tree.SetStyles(treeStyles(m.ui))
	m.source.SetStyles(sourceStyles(m.ui))
	m.source.SetStyle(m.theme.Style(m.dark))
	m.palette.SetColors(m.theme.Rainbow(m.dark))
	m.prompt.Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(m.ui.Accent))
}

// loadFile reads, parses, and installs path. The model keeps its current
// file on error.
func (m *model) loadFile(path string) error {
	src, err := readfile.ReadNormalized(path)
	if err != nil {
		return err
	}
	root, err := pyast.Parse(context.Background(), src)
	if err != nil {
		return err
	}
	m.install(path, src, root)
	return nil
}

// install replaces the displayed file. Invalidating first retags the
// scheduler generation so flushes scheduled against the old tree are
// dropped, then the new root is highlighted immediately.
func (m *model) install(path string, src []byte, root asttree.SyntaxNode) {
	m.sched.Invalidate()
	t := asttree.Build(root, asttree.Config{
		RootLabel: filepath.Base(path),
		Gen:       m.sched.Gen(),
	})
	m.displayTree = t
	m.file = path
	m.tree.SetTree(t)
	m.source.SetSource(string(src))
	m.lastSel = nil
	m.infoPath = ""
	m.infoLoc = ""
	if sel := m.tree.Selected(); sel != nil {
		m.lastSel = sel
		m.applyRequest(m.sync.Immediate(sel))
	}
}

// scheduleHighlight debounces the highlight for the current tree selection.
// A no-op when the selection did not actually change.
func (m *model) scheduleHighlight() tea.Cmd {
	sel := m.tree.Selected()
	if sel == nil || sel == m.lastSel {
		return nil
	}
	m.lastSel = sel
	seq := m.sync.Select(sel, time.Now())
	return flushCmd(m.sched.Delay(), seq)
}

// selectImmediate skips the debounce, for explicit selection.
func (m *model) selectImmediate() {
	sel := m.tree.Selected()
	if sel == nil {
		return
	}
	m.lastSel = sel
	m.applyRequest(m.sync.Immediate(sel))
}

func (m *model) repaintSelection() {
	if m.lastSel == nil {
		return
	}
	m.applyRequest(m.sync.Immediate(m.lastSel))
}

// applyRequest paints a highlight request into the source pane and updates
// the info bar. A spanless node clears the highlight but keeps its
// breadcrumb.
func (m *model) applyRequest(req highlight.Request) {
	if req.Node == nil {
		return
	}
	m.infoPath = asttree.Breadcrumb(req.Node)
	if req.Span == nil {
		m.source.ClearLayers()
		m.infoLoc = ""
		return
	}

	// Ancestor spans paint outermost first so the deeper entries win where
	// they overlap; the selected span goes on top.
	layers := make([]sourceview.Layer, 0, len(req.Trail)+1)
	for i := len(req.Trail) - 1; i >= 0; i-- {
		t := req.Trail[i]
		color, ok := m.palette.Color(t.Depth)
		if !ok {
			continue
		}
		layers = append(layers, sourceview.Layer{Span: t.Span, Color: color})
	}
	active, ok := m.palette.Color(req.Depth)
	if !ok {
		active = m.theme.HighlightBG(m.dark)
	}
	layers = append(layers, sourceview.Layer{Span: *req.Span, Color: active, Active: true})
	m.source.SetLayers(layers)

	sp := *req.Span
	m.infoLoc = fmt.Sprintf("%04d:%03d -> %04d:%03d", sp.Start.Line+1, sp.Start.Col, sp.End.Line+1, sp.End.Col)
}

func (m *model) applyLayout() {
	treeW, srcW, contentH := m.layout()
	m.tree.SetSize(treeW, contentH)
	m.source.SetSize(srcW, contentH)
	m.prompt.Width = max(16, m.width-16)
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.applyLayout()
		return m, nil

	case flushMsg:
		if req, ok := m.sched.Flush(msg.seq, time.Now()); ok {
			m.applyRequest(req)
		}
		return m, nil

	case tea.KeyMsg:
		m.status = ""
		m.errMsg = ""

		if m.promptKind != promptNone {
			return m.updatePrompt(msg)
		}

		switch msg.String() {
		case "ctrl+c", "ctrl+q":
			return m, tea.Quit
		case "esc":
			if m.tree.MatchCount() > 0 {
				m.tree.ClearQuery()
				return m, nil
			}
			return m, tea.Quit
		case "tab":
			if m.focus == focusTree {
				m.focus = focusSource
			} else {
				m.focus = focusTree
			}
			return m, nil
		case "ctrl+o":
			m.openPrompt(promptOpen)
			return m, nil
		case "ctrl+r":
			m.palette.SetEnabled(!m.palette.Enabled())
			m.repaintSelection()
			if m.palette.Enabled() {
				m.status = "rainbow on"
			} else {
				m.status = "rainbow off"
			}
			return m, nil
		case "ctrl+d":
			m.dark = !m.dark
			m.applyStyles()
			m.repaintSelection()
			m.status = "theme: " + m.theme.StyleName(m.dark)
			return m, nil
		case "ctrl+left":
			m.treeShare = max(minTreeShare, m.treeShare-1)
			m.applyLayout()
			return m, nil
		case "ctrl+right":
			m.treeShare = min(maxTreeShare, m.treeShare+1)
			m.applyLayout()
			return m, nil
		}

		if m.focus == focusSource {
			m.handleSourceKey(msg.String())
			return m, nil
		}
		return m, m.handleTreeKey(msg.String())
	}

	return m, nil
}

// handleTreeKey runs one tree-pane key. Every cursor move funnels through
// scheduleHighlight so scrubbing stays debounced.
func (m *model) handleTreeKey(key string) tea.Cmd {
	switch key {
	case "up", "k":
		m.tree.MoveCursor(-1)
	case "down", "j":
		m.tree.MoveCursor(1)
	case "pgup":
		m.tree.MoveCursor(-m.tree.PageSize())
	case "pgdown":
		m.tree.MoveCursor(m.tree.PageSize())
	case "home":
		m.tree.MoveToStart()
	case "end":
		m.tree.MoveToEnd()
	case "enter":
		m.selectImmediate()
		return nil
	case " ":
		m.tree.Toggle()
	case "right", "l":
		m.tree.ExpandOrDescend()
	case "left", "h":
		m.tree.CollapseOrAscend()
	case "e":
		m.tree.ExpandAll()
	case "c":
		m.tree.CollapseAll()
	case "/":
		m.openPrompt(promptSearch)
		return nil
	case "n":
		m.tree.NextMatch()
		m.noteMatch()
	case "N":
		m.tree.PrevMatch()
		m.noteMatch()
	case "y":
		m.copyLocation()
		return nil
	case "o":
		m.openInEditor()
		return nil
	default:
		return nil
	}
	return m.scheduleHighlight()
}

func (m *model) handleSourceKey(key string) {
	switch key {
	case "up", "k":
		m.source.ScrollBy(-1)
	case "down", "j":
		m.source.ScrollBy(1)
	case "pgup":
		m.source.ScrollBy(-m.source.PageSize())
	case "pgdown":
		m.source.ScrollBy(m.source.PageSize())
	case "home":
		m.source.ScrollBy(-m.source.LineCount())
	case "end":
		m.source.ScrollBy(m.source.LineCount())
	}
}

func (m model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		if m.promptKind == promptSearch {
			m.tree.ClearQuery()
		}
		m.closePrompt()
		return m, nil
	case "enter":
		value := strings.TrimSpace(m.prompt.Value())
		kind := m.promptKind
		m.closePrompt()
		switch kind {
		case promptOpen:
			if value == "" {
				return m, nil
			}
			if err := m.loadFile(value); err != nil {
				m.errMsg = "open failed: " + err.Error()
				return m, nil
			}
			m.status = fmt.Sprintf("loaded %s (%d nodes)", filepath.Base(value), m.displayTree.Nodes)
		case promptSearch:
			if value != "" {
				m.noteMatch()
			}
			return m, m.scheduleHighlight()
		}
		return m, nil
	}

	prev := m.prompt.Value()
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	if m.promptKind == promptSearch && m.prompt.Value() != prev {
		// Live search: the cursor jumps to the best match as the query
		// grows, and the highlight follows through the debounce.
		m.tree.SetQuery(m.prompt.Value())
		return m, tea.Batch(cmd, m.scheduleHighlight())
	}
	return m, cmd
}

func (m *model) openPrompt(kind promptKind) {
	m.promptKind = kind
	switch kind {
	case promptOpen:
		m.prompt.Prompt = "open> "
		m.prompt.SetValue(m.file)
	case promptSearch:
		m.prompt.Prompt = "find> "
		m.prompt.SetValue("")
	}
	m.prompt.CursorEnd()
	m.prompt.Focus()
}

func (m *model) closePrompt() {
	m.promptKind = promptNone
	m.prompt.Blur()
	m.prompt.SetValue("")
}

func (m *model) noteMatch() {
	if n := m.tree.MatchCount(); n > 0 {
		m.status = fmt.Sprintf("match %d of %d", m.tree.MatchIndex(), n)
	} else {
		m.status = "no matches"
	}
}

func (m *model) copyLocation() {
	sel := m.tree.Selected()
	if sel == nil || sel.Span == nil {
		m.status = "no source position"
		return
	}
	loc := fmt.Sprintf("%s:%d:%d", m.file, sel.Span.Start.Line+1, sel.Span.Start.Col+1)
	if err := copyToClipboard(loc); err != nil {
		m.errMsg = "copy failed: " + err.Error()
		return
	}
	m.status = "copied " + loc
}

func (m *model) openInEditor() {
	sel := m.tree.Selected()
	if sel == nil || sel.Span == nil {
		m.status = "no source position"
		return
	}
	if err := openLocation(m.file, sel.Span.Start.Line+1, sel.Span.Start.Col+1, m.cfg.EditorCmd); err != nil {
		m.errMsg = "open failed: " + err.Error()
		return
	}
	m.status = "opened " + filepath.Base(m.file)
}
