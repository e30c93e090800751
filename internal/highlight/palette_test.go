package highlight

import "testing"

func TestPaletteCyclic(t *testing.T) {
	p := NewPalette([]string{"#100000", "#001000", "#000010"})
	p.SetEnabled(true)

	for d := 0; d < 9; d++ {
		a, ok := p.Color(d)
		if !ok {
			t.Fatalf("Color(%d) reported no color while enabled", d)
		}
		b, ok := p.Color(d + 3)
		if !ok || a != b {
			t.Fatalf("Color(%d) = %q, Color(%d) = %q, want periodic", d, a, d+3, b)
		}
	}
}

func TestPaletteDisabled(t *testing.T) {
	p := NewPalette([]string{"#100000"})
	for d := 0; d < 4; d++ {
		if c, ok := p.Color(d); ok {
			t.Fatalf("Color(%d) = %q while disabled, want none", d, c)
		}
	}
}

func TestPaletteEmpty(t *testing.T) {
	p := NewPalette(nil)
	p.SetEnabled(true)
	if c, ok := p.Color(0); ok {
		t.Fatalf("empty palette produced %q", c)
	}
}

func TestPaletteSetColorsKeepsState(t *testing.T) {
	p := NewPalette([]string{"#111111"})
	p.SetEnabled(true)
	p.SetColors([]string{"#222222"})

	c, ok := p.Color(0)
	if !ok || c != "#222222" {
		t.Fatalf("Color(0) = %q ok=%v after SetColors, want #222222", c, ok)
	}

	if c, _ := p.Color(5); c != "#222222" {
		t.Fatalf("Color(5) = %q, want cycle over the new list", c)
	}
}
