package treeview

import (
	"strings"
	"unicode"
)

// fuzzyScore matches query as a subsequence of text and scores the hit.
// Boundary and adjacent hits score higher, exact-case hits earn a bonus,
// and longer rows drag the score down so tight labels rank first.
func fuzzyScore(text string, queryRaw []rune, queryLower []rune) (int, bool) {
	if len(queryLower) == 0 {
		return 0, true
	}

	qi := 0
	last := -2
	score := 0
	runeIdx := 0
	var prev rune
	caseMatches := 0

	for _, raw := range text {
		r := lowerRuneFast(raw)

		if qi < len(queryLower) && r == queryLower[qi] {
			bonus := 10
			if runeIdx == 0 || isBoundaryRune(prev) {
				bonus += 8
			}
			if last+1 == runeIdx {
				bonus += 6
			}
			if raw == queryRaw[qi] {
				bonus += 4
				caseMatches++
			}

			score += bonus
			last = runeIdx
			qi++
		}

		prev = r
		runeIdx++
	}

	if qi != len(queryLower) {
		return 0, false
	}

	if runeIdx > len(queryLower) {
		score -= runeIdx - len(queryLower)
	}
	if runeIdx < 40 {
		score += 40 - runeIdx
	}
	if caseMatches > 0 {
		score += caseMatches * 3
	}

	return score, true
}

// fuzzyPositions returns the rune indexes the query hits, or nil when the
// query does not match.
func fuzzyPositions(text string, queryLower []rune) []int {
	if len(queryLower) == 0 {
		return nil
	}

	out := make([]int, 0, len(queryLower))
	qi := 0
	idx := 0
	for _, raw := range text {
		if qi >= len(queryLower) {
			break
		}
		if lowerRuneFast(raw) == queryLower[qi] {
			out = append(out, idx)
			qi++
		}
		idx++
	}
	if qi != len(queryLower) {
		return nil
	}
	return out
}

func emphasisMask(runeLen int, positions []int) []bool {
	if runeLen <= 0 || len(positions) == 0 {
		return nil
	}
	mask := make([]bool, runeLen)
	for _, pos := range positions {
		if pos >= 0 && pos < runeLen {
			mask[pos] = true
		}
	}
	return mask
}

func emphasisAt(mask []bool, idx int) bool {
	return idx >= 0 && idx < len(mask) && mask[idx]
}

func trimRunes(s string) []rune {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return []rune(s)
}

func lowerRunes(r []rune) []rune {
	if len(r) == 0 {
		return nil
	}
	out := make([]rune, len(r))
	for i := range r {
		out[i] = lowerRuneFast(r[i])
	}
	return out
}

func lowerRuneFast(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	if r <= unicode.MaxASCII {
		return r
	}
	return unicode.ToLower(r)
}

func isBoundaryRune(r rune) bool {
	switch r {
	case '_', '-', '/', '.', ':':
		return true
	}
	if r <= unicode.MaxASCII {
		return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
	}
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
