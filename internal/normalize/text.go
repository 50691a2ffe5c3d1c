// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var devanagariDigits = strings.NewReplacer(
	"०", "0", "१", "1", "२", "2", "३", "3", "४", "4",
	"५", "5", "६", "6", "७", "7", "८", "8", "९", "9",
)

// Digits replaces Devanagari digits with ASCII digits.
func Digits(s string) string {
	return devanagariDigits.Replace(s)
}

var citationMarker = regexp.MustCompile(`\[cite_start\]|\[cite:\s*\d+\]`)

// StripCitations removes "[cite_start]" and "[cite: N]" markers left by
// copy-paste tools, and trims the result.
func StripCitations(s string) string {
	return strings.TrimSpace(citationMarker.ReplaceAllString(s, ""))
}

// dateSeparator splits BS dates written with the danda (।) or a dot.
var dateSeparator = regexp.MustCompile(`[।.]`)

// BSDate rewrites a Bikram Sambat date such as "२०७३।७।३" or "2073.7.3" as
// "2073-07-03". The calendar is unchanged. ok is false when s is not a
// three-part numeric date.
func BSDate(s string) (date string, ok bool) {
	s = Digits(StripCitations(s))
	if s == "" {
		return "", false
	}

	parts := dateSeparator.Split(s, -1)
	if len(parts) != 3 {
		return "", false
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 {
			return "", false
		}
		nums[i] = n
	}
	if nums[1] < 1 || nums[1] > 12 || nums[2] < 1 || nums[2] > 32 {
		return "", false
	}
	return fmt.Sprintf("%04d-%02d-%02d", nums[0], nums[1], nums[2]), true
}
