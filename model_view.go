package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"astnav/internal/sourceview"
	"astnav/internal/textutil"
	"astnav/internal/treeview"
)

func (m model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}

	header := m.renderHeader()
	main := lipgloss.JoinHorizontal(lipgloss.Top, m.tree.View(), " ", m.source.View())
	info := m.renderInfoBar()
	footer := m.renderFooter()
	return lipgloss.JoinVertical(lipgloss.Left, header, main, info, footer)
}

// renderHeader is one line: the input prompt while one is open, otherwise
// the file and session summary.
func (m model) renderHeader() string {
	if m.promptKind != promptNone {
		promptStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.ui.Text)).Background(lipgloss.Color(m.ui.BarBG)).Padding(0, 1)
		return promptStyle.Render(m.prompt.View())
	}

	titleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.ui.Header)).Bold(true)
	fileStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.ui.Text))
	metaStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.ui.Muted))

	file := "no file (ctrl+o to open)"
	if m.file != "" {
		file = m.file
	}
	meta := "  " + m.theme.StyleName(m.dark)
	if m.displayTree != nil {
		meta += fmt.Sprintf("  %d nodes", m.displayTree.Nodes)
	}
	if m.palette.Enabled() {
		meta += "  rainbow"
	}

	fileW := max(0, m.width-lipgloss.Width("astnav")-2-lipgloss.Width(meta))
	return titleStyle.Render("astnav") + "  " + fileStyle.Render(textutil.Truncate(file, fileW)) + metaStyle.Render(meta)
}

// renderInfoBar shows the selected node's breadcrumb on the left and its
// span on the right, on a full-width bar.
func (m model) renderInfoBar() string {
	if m.width <= 0 {
		return ""
	}
	bar := lipgloss.NewStyle().Background(lipgloss.Color(m.ui.BarBG))
	pathStyle := bar.Foreground(lipgloss.Color(m.ui.Text))
	locStyle := bar.Foreground(lipgloss.Color(m.ui.Accent)).Bold(true)

	loc := textutil.Truncate(m.infoLoc, m.width)
	locW := lipgloss.Width(loc)
	path := textutil.Truncate(m.infoPath, max(0, m.width-locW-1))
	gap := max(0, m.width-lipgloss.Width(path)-locW)
	return pathStyle.Render(path) + bar.Render(strings.Repeat(" ", gap)) + locStyle.Render(loc)
}

// renderFooter is the help line, displaced by a transient status or error.
func (m model) renderFooter() string {
	if m.errMsg != "" {
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.ui.Error))
		return errStyle.Render(textutil.Truncate(m.errMsg, m.width))
	}
	if m.status != "" {
		statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.ui.Accent))
		return statusStyle.Render(textutil.Truncate(m.status, m.width))
	}

	footerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.ui.Muted))
	text := "up/down move  space fold  enter select  / find  n/N match  y copy  o editor  tab pane  ctrl+o open  ctrl+r rainbow  ctrl+d theme  esc quit"
	if m.focus == focusSource {
		text = "up/down scroll  pgup/pgdn page  tab pane  ctrl+o open  ctrl+r rainbow  ctrl+d theme  esc quit"
	}
	return footerStyle.Render(textutil.Truncate(text, m.width))
}

// layout splits the content area: header, info bar, and footer take one
// line each, the panes share the rest by treeShare twentieths with one
// column of gap.
func (m model) layout() (treeWidth int, sourceWidth int, contentHeight int) {
	contentH := max(1, m.height-3)
	avail := max(0, m.width-1)
	treeW := avail * m.treeShare / shareTotal
	return treeW, avail - treeW, contentH
}

func treeStyles(ui UIPalette) treeview.Styles {
	return treeview.Styles{
		Guide:       lipgloss.NewStyle().Foreground(lipgloss.Color(ui.Dim)),
		Field:       lipgloss.NewStyle().Foreground(lipgloss.Color(ui.Field)),
		Kind:        lipgloss.NewStyle().Foreground(lipgloss.Color(ui.Text)),
		Summary:     lipgloss.NewStyle().Foreground(lipgloss.Color(ui.Muted)),
		Group:       lipgloss.NewStyle().Foreground(lipgloss.Color(ui.Group)).Italic(true),
		Empty:       lipgloss.NewStyle().Foreground(lipgloss.Color(ui.Muted)),
		SelectionBG: lipgloss.Color(ui.SelectionBG),
	}
}

func sourceStyles(ui UIPalette) sourceview.Styles {
	return sourceview.Styles{
		Gutter: lipgloss.NewStyle().Foreground(lipgloss.Color(ui.Dim)),
		Empty:  lipgloss.NewStyle().Foreground(lipgloss.Color(ui.Muted)),
	}
}
