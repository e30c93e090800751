package highlight

// Palette maps nesting depth to a rainbow color, cycling past the end of
// the color list. While disabled every lookup reports no color and default
// styling applies.
type Palette struct {
	colors  []string
	enabled bool
}

func NewPalette(colors []string) *Palette {
	return &Palette{colors: colors}
}

func (p *Palette) SetEnabled(on bool) { p.enabled = on }

func (p *Palette) Enabled() bool { return p.enabled }

// SetColors swaps the color list, keeping the enabled state. Used when the
// dark/light mode flips.
func (p *Palette) SetColors(colors []string) {
	p.colors = colors
}

// Color returns the color for depth while the palette is enabled. The
// mapping is stable and periodic: depth d and d+len(colors) share a color.
func (p *Palette) Color(depth int) (string, bool) {
	if !p.enabled || len(p.colors) == 0 {
		return "", false
	}
	if depth < 0 {
		depth = 0
	}
	return p.colors[depth%len(p.colors)], true
}
