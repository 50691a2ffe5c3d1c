// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdftable

import (
	"sort"
	"strings"
)

// ExtractText lays chars out in reading order. Chars whose baselines are
// within YTolerance share a line; a space separates chars further apart
// than XTolerance; lines are joined with "\n".
func ExtractText(chars []Char, s Settings) string {
	if len(chars) == 0 {
		return ""
	}
	s = s.withDefaults()

	lines := groupLines(chars, s.YTolerance)
	out := make([]string, 0, len(lines))
	for _, ln := range lines {
		out = append(out, lineText(ln, s.XTolerance))
	}
	return strings.Join(out, "\n")
}

// Lines returns the reading-order text lines of a page.
func Lines(page Page, s Settings) []string {
	text := ExtractText(page.Chars, s)
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

func groupLines(chars []Char, tol float64) [][]Char {
	sorted := make([]Char, len(chars))
	copy(sorted, chars)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Y > sorted[j].Y })

	var lines [][]Char
	var lineY float64
	for _, c := range sorted {
		if len(lines) > 0 && lineY-c.Y <= tol {
			lines[len(lines)-1] = append(lines[len(lines)-1], c)
			continue
		}
		lines = append(lines, []Char{c})
		lineY = c.Y
	}

	for _, ln := range lines {
		sort.SliceStable(ln, func(i, j int) bool { return ln[i].X < ln[j].X })
	}
	return lines
}

func lineText(line []Char, tol float64) string {
	var b strings.Builder
	for i, c := range line {
		if i > 0 {
			prev := line[i-1]
			if c.X-(prev.X+prev.W) > tol && !strings.HasSuffix(b.String(), " ") {
				b.WriteByte(' ')
			}
		}
		b.WriteString(c.S)
	}
	return b.String()
}
