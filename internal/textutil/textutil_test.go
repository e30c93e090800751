package textutil

import (
	"strings"
	"testing"
)

func TestTruncateFlattensWhitespace(t *testing.T) {
	got := Truncate("a\tb\r\nc", 40)
	if got != "a    b c" {
		t.Fatalf("got %q", got)
	}
}

func TestTruncateAddsEllipsis(t *testing.T) {
	got := Truncate(strings.Repeat("x", 20), 10)
	if got != "xxxxxxx..." {
		t.Fatalf("got %q", got)
	}
}

func TestTruncateTinyWidth(t *testing.T) {
	if got := Truncate("abcdef", 2); got != "ab" {
		t.Fatalf("got %q", got)
	}
	if got := Truncate("abcdef", 0); got != "" {
		t.Fatalf("got %q", got)
	}
}

func TestTruncateWideRunes(t *testing.T) {
	// CJK runes occupy two cells each.
	got := Truncate("漢字漢字漢字", 7)
	if got != "漢字..." {
		t.Fatalf("got %q", got)
	}
}

func TestPadRight(t *testing.T) {
	if got := PadRight("ab", 5); got != "ab   " {
		t.Fatalf("got %q", got)
	}
	if got := PadRight("abcdef", 3); got != "abcdef" {
		t.Fatalf("got %q", got)
	}
	if got := PadRight("ab", 0); got != "" {
		t.Fatalf("got %q", got)
	}
}

func TestPadRightIgnoresANSI(t *testing.T) {
	styled := "\x1b[31mab\x1b[0m"
	got := PadRight(styled, 4)
	if got != styled+"  " {
		t.Fatalf("got %q", got)
	}
}

func TestClamp(t *testing.T) {
	cases := []struct {
		v, lo, hi, want int
	}{
		{5, 0, 10, 5},
		{-1, 0, 10, 0},
		{11, 0, 10, 10},
	}
	for _, tc := range cases {
		if got := Clamp(tc.v, tc.lo, tc.hi); got != tc.want {
			t.Fatalf("Clamp(%d, %d, %d) = %d, want %d", tc.v, tc.lo, tc.hi, got, tc.want)
		}
	}
}
