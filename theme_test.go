package main

import (
	"reflect"
	"sort"
	"testing"
)

func TestLoadThemeDefaults(t *testing.T) {
	theme, err := LoadTheme("", "", nil)
	if err != nil {
		t.Fatalf("LoadTheme returned error: %v", err)
	}
	if got := theme.StyleName(true); got != "github-dark" {
		t.Fatalf("dark style = %q, want github-dark", got)
	}
	if got := theme.StyleName(false); got != "xcode" {
		t.Fatalf("light style = %q, want xcode", got)
	}
}

func TestLoadThemeUnknown(t *testing.T) {
	if _, err := LoadTheme("this-theme-does-not-exist", "", nil); err == nil {
		t.Fatalf("expected unknown dark theme error")
	}
	if _, err := LoadTheme("", "this-theme-does-not-exist", nil); err == nil {
		t.Fatalf("expected unknown light theme error")
	}
}

func TestLoadThemeNormalizesAliases(t *testing.T) {
	theme, err := LoadTheme("one-dark", "github-light", nil)
	if err != nil {
		t.Fatalf("LoadTheme returned error: %v", err)
	}
	if got := theme.StyleName(true); got != "onedark" {
		t.Fatalf("dark style = %q, want onedark", got)
	}
	if got := theme.StyleName(false); got != "github" {
		t.Fatalf("light style = %q, want github", got)
	}
}

func TestLoadThemeRejectsBadPaletteColor(t *testing.T) {
	if _, err := LoadTheme("", "", []string{"#123456", "red"}); err == nil {
		t.Fatalf("expected invalid palette color error")
	}
}

func TestRainbowPerMode(t *testing.T) {
	theme, err := LoadTheme("", "", nil)
	if err != nil {
		t.Fatalf("LoadTheme returned error: %v", err)
	}
	dark := theme.Rainbow(true)
	light := theme.Rainbow(false)
	if len(dark) != 6 || len(light) != 6 {
		t.Fatalf("palette sizes = %d, %d, want 6, 6", len(dark), len(light))
	}
	if dark[0] != "#770000" || light[0] != "#FF0000" {
		t.Fatalf("first palette entries = %q, %q", dark[0], light[0])
	}
}

func TestRainbowOverrideAppliesToBothModes(t *testing.T) {
	override := []string{"#111111", "#222222"}
	theme, err := LoadTheme("", "", override)
	if err != nil {
		t.Fatalf("LoadTheme returned error: %v", err)
	}
	if !reflect.DeepEqual(theme.Rainbow(true), override) {
		t.Fatalf("dark rainbow = %v, want override", theme.Rainbow(true))
	}
	if !reflect.DeepEqual(theme.Rainbow(false), override) {
		t.Fatalf("light rainbow = %v, want override", theme.Rainbow(false))
	}
}

func TestUIPaletteCoreColors(t *testing.T) {
	theme, err := LoadTheme("", "", nil)
	if err != nil {
		t.Fatalf("LoadTheme returned error: %v", err)
	}
	for _, dark := range []bool{true, false} {
		ui := theme.UI(dark)
		if ui.Text == "" || ui.SelectionBG == "" || ui.BarBG == "" || ui.Error == "" {
			t.Fatalf("ui palette missing core colors (dark=%v): %+v", dark, ui)
		}
	}
}

func TestHighlightBGPerMode(t *testing.T) {
	theme, err := LoadTheme("", "", nil)
	if err != nil {
		t.Fatalf("LoadTheme returned error: %v", err)
	}
	if theme.HighlightBG(true) == theme.HighlightBG(false) {
		t.Fatalf("highlight backgrounds should differ per mode")
	}
}

func TestParseHexRGB(t *testing.T) {
	r, g, b, ok := parseHexRGB("#1A2B3C")
	if !ok || r != 0x1A || g != 0x2B || b != 0x3C {
		t.Fatalf("parseHexRGB = %d,%d,%d,%v", r, g, b, ok)
	}
	if _, _, _, ok := parseHexRGB("1A2B3C"); !ok {
		t.Fatalf("expected bare hex to parse")
	}
	if _, _, _, ok := parseHexRGB("#12"); ok {
		t.Fatalf("expected short hex to fail")
	}
	if _, _, _, ok := parseHexRGB("red"); ok {
		t.Fatalf("expected named color to fail")
	}
}

func TestListThemesSorted(t *testing.T) {
	names := ListThemes()
	if len(names) == 0 {
		t.Fatalf("expected at least one theme")
	}
	if !sort.StringsAreSorted(names) {
		t.Fatalf("themes not sorted: %v", names)
	}
}
