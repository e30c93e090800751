package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	chroma "github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
)

// Theme carries the dark and light chroma styles plus the rainbow depth
// palettes. The model flips between the two styles at runtime; nothing is
// read from a global.
type Theme struct {
	darkName  string
	lightName string
	dark      *chroma.Style
	light     *chroma.Style
	rainbow   []string
}

// Active-span background while rainbow mode is off, one per mode.
const (
	darkHighlightBG  = "#770000"
	lightHighlightBG = "#FF0000"
)

// Rainbow mode cycles over these by depth. A node at depth n and the span it
// selects share entry n modulo the palette length.
var (
	darkRainbow  = []string{"#770000", "#660066", "#005555", "#444400", "#330033", "#333333"}
	lightRainbow = []string{"#FF0000", "#EE00EE", "#00DDDD", "#CCCC00", "#BB00BB", "#AAAAAA"}
)

// LoadTheme resolves both style names against the chroma catalog. A non-empty
// rainbow override replaces the built-in depth palettes for both modes.
func LoadTheme(darkName string, lightName string, rainbow []string) (*Theme, error) {
	dark, darkResolved, err := lookupStyle(darkName, "github-dark")
	if err != nil {
		return nil, err
	}
	light, lightResolved, err := lookupStyle(lightName, "xcode")
	if err != nil {
		return nil, err
	}
	for _, c := range rainbow {
		if _, _, _, ok := parseHexRGB(c); !ok {
			return nil, fmt.Errorf("invalid palette color %q (want #RRGGBB)", c)
		}
	}
	return &Theme{
		darkName:  darkResolved,
		lightName: lightResolved,
		dark:      dark,
		light:     light,
		rainbow:   rainbow,
	}, nil
}

func (t *Theme) StyleName(dark bool) string {
	if dark {
		return t.darkName
	}
	return t.lightName
}

func (t *Theme) Style(dark bool) *chroma.Style {
	if dark {
		return t.dark
	}
	return t.light
}

// HighlightBG is the flat active-span background used while rainbow mode is
// off.
func (t *Theme) HighlightBG(dark bool) string {
	if dark {
		return darkHighlightBG
	}
	return lightHighlightBG
}

// Rainbow returns the depth palette for the mode.
func (t *Theme) Rainbow(dark bool) []string {
	if len(t.rainbow) > 0 {
		return t.rainbow
	}
	if dark {
		return darkRainbow
	}
	return lightRainbow
}

// UIPalette is the chrome derived from the active chroma style: everything
// outside the highlighted source text itself.
type UIPalette struct {
	Text        string
	Muted       string
	Dim         string
	Header      string
	Accent      string
	Field       string
	Group       string
	BarBG       string
	SelectionBG string
	Error       string
}

// UI derives the chrome palette for the mode. Token types the style leaves
// unset fall back to tones of the style's base colors so every catalog theme
// yields a usable palette.
func (t *Theme) UI(dark bool) UIPalette {
	style := t.Style(dark)

	baseBG := pickBackground(style, "#2E3440", chroma.Background, chroma.LineHighlight)
	baseFG := pickForeground(style, "#D8DEE9", chroma.Text, chroma.Background)
	comment := pickForeground(style, adjustTone(baseFG, -60), chroma.Comment)

	return UIPalette{
		Text:        baseFG,
		Muted:       pickForeground(style, adjustTone(baseFG, -48), chroma.LineNumbers, chroma.Comment),
		Dim:         pickForeground(style, adjustTone(comment, -10), chroma.Comment),
		Header:      pickForeground(style, adjustTone(baseFG, -20), chroma.NameClass, chroma.Keyword),
		Accent:      pickForeground(style, baseFG, chroma.NameFunction, chroma.Keyword),
		Field:       pickForeground(style, adjustTone(baseFG, -30), chroma.NameAttribute, chroma.Name),
		Group:       comment,
		BarBG:       adjustTone(baseBG, autoDelta(baseBG, 12, -12)),
		SelectionBG: pickBackground(style, autoSelection(baseBG), chroma.LineHighlight),
		Error:       pickForeground(style, "#BF616A", chroma.Error),
	}
}

// ListThemes returns the chroma catalog names, sorted, for -themes.
func ListThemes() []string {
	names := styles.Names()
	sort.Strings(names)
	return names
}

func lookupStyle(name string, fallback string) (*chroma.Style, string, error) {
	requested := strings.TrimSpace(name)
	if requested == "" {
		requested = fallback
	}

	lookup := normalizeThemeName(requested)
	names := styles.Names()
	available := make(map[string]struct{}, len(names))
	for _, n := range names {
		available[n] = struct{}{}
	}
	unknownThemeErr := func() error {
		sort.Strings(names)
		return fmt.Errorf("unknown theme %q. try one of: %s", requested, strings.Join(topThemeHints(names), ", "))
	}
	if _, ok := available[lookup]; !ok {
		return nil, "", unknownThemeErr()
	}

	style := styles.Get(lookup)
	if style == nil {
		return nil, "", unknownThemeErr()
	}
	return style, lookup, nil
}

func normalizeThemeName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	switch n {
	case "solarized":
		return "solarized-dark"
	case "one-dark":
		return "onedark"
	case "github-light":
		return "github"
	default:
		return n
	}
}

func pickForeground(style *chroma.Style, fallback string, types ...chroma.TokenType) string {
	for _, tt := range types {
		entry := style.Get(tt)
		if entry.Colour.IsSet() {
			return entry.Colour.String()
		}
	}
	return fallback
}

func pickBackground(style *chroma.Style, fallback string, types ...chroma.TokenType) string {
	for _, tt := range types {
		entry := style.Get(tt)
		if entry.Background.IsSet() {
			return entry.Background.String()
		}
	}
	return fallback
}

func topThemeHints(all []string) []string {
	wanted := []string{"github-dark", "xcode", "nord", "dracula", "monokai", "github", "solarized-dark", "solarized-light", "gruvbox", "onedark"}
	set := map[string]bool{}
	for _, n := range all {
		set[n] = true
	}
	out := make([]string, 0, len(wanted))
	for _, name := range wanted {
		if set[name] {
			out = append(out, name)
		}
	}
	if len(out) == 0 {
		limit := min(8, len(all))
		return all[:limit]
	}
	return out
}

func autoSelection(bg string) string {
	return adjustTone(bg, autoDelta(bg, 18, -18))
}

func autoDelta(bg string, darkDelta int, lightDelta int) int {
	r, g, b, ok := parseHexRGB(bg)
	if !ok {
		return darkDelta
	}
	l := 0.2126*float64(r) + 0.7152*float64(g) + 0.0722*float64(b)
	if l < 128 {
		return darkDelta
	}
	return lightDelta
}

func adjustTone(hex string, delta int) string {
	r, g, b, ok := parseHexRGB(hex)
	if !ok {
		return hex
	}
	r = clamp8(r + delta)
	g = clamp8(g + delta)
	b = clamp8(b + delta)
	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}

func parseHexRGB(hex string) (int, int, int, bool) {
	h := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(h) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	r := int((v >> 16) & 0xFF)
	g := int((v >> 8) & 0xFF)
	b := int(v & 0xFF)
	return r, g, b, true
}

func clamp8(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
