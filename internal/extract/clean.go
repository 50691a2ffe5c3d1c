// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/pdiddy/ecn-parties/pkg/types"
)

// CleanText tidies a cell value: NUL bytes removed, whitespace runs
// collapsed to one space, ends trimmed, and Devanagari composed to NFC.
// Whitespace is any Unicode space, so no-break and em spaces collapse too.
// It returns nil when nothing is left.
func CleanText(s string) *string {
	s = strings.ReplaceAll(s, "\x00", "")
	s = strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
	s = norm.NFC.String(s)
	if s == "" {
		return nil
	}
	return types.Str(s)
}

// truncate returns the first n runes of s.
func truncate(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
