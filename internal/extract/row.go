// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/ecn-parties/internal/pdftable"
	"github.com/pdiddy/ecn-parties/pkg/types"
)

const (
	// minRowCells is the fewest cells a data row can have.
	minRowCells = 3
	// minRowText is the fewest characters of joined cell text a data row can have.
	minRowText = 5
	// rawRowLimit caps the _rawRow debugging copy.
	rawRowLimit = 200
)

// headerMarkers appear in the ECN table header: serial number, registration
// number, and name.
var headerMarkers = []string{"सि.न", "दर्ता नं", "नाम"}

// isHeader reports whether row looks like the table header.
func isHeader(row []pdftable.Cell) bool {
	text := joinCells(row)
	for _, m := range headerMarkers {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}

// joinCells joins the non-empty cell texts with a space.
func joinCells(row []pdftable.Cell) string {
	parts := make([]string, 0, len(row))
	for _, c := range row {
		if c.Present && c.Text != "" {
			parts = append(parts, c.Text)
		}
	}
	return strings.Join(parts, " ")
}

// skipRow reports whether row is too short to carry party data: fewer than
// three cells, or a divider with under five characters of text.
func skipRow(row []pdftable.Cell) bool {
	if len(row) < minRowCells {
		return true
	}
	return utf8.RuneCountInString(strings.TrimSpace(joinCells(row))) < minRowText
}

// cellValue returns the cleaned text of column i, or nil when the row has no
// such column or the cell is missing.
func cellValue(row []pdftable.Cell, i int) *string {
	if i >= len(row) || !row[i].Present {
		return nil
	}
	return CleanText(validText(row[i].Text))
}

// validText replaces each run of bytes that is not UTF-8, typically a glyph
// the font could not map, with U+FFFD.
func validText(s string) string {
	return strings.ToValidUTF8(s, "\uFFFD")
}

// invalidCells returns the indexes of present cells whose text is not UTF-8.
func invalidCells(row []pdftable.Cell) []int {
	var out []int
	for i, c := range row {
		if c.Present && !utf8.ValidString(c.Text) {
			out = append(out, i)
		}
	}
	return out
}

// rawRow renders row as a JSON array, null for missing cells, capped at
// rawRowLimit characters.
func rawRow(row []pdftable.Cell) string {
	vals := make([]*string, len(row))
	for i, c := range row {
		if c.Present {
			vals[i] = types.Str(validText(c.Text))
		}
	}
	data, err := json.Marshal(vals)
	if err != nil {
		return ""
	}
	return truncate(string(data), rawRowLimit)
}

// rowMeta is the provenance stamped on a mapped row.
type rowMeta struct {
	page        int
	row         int
	dataSource  string
	extractedAt string
}

// mapRow maps the cells of one table row positionally onto a Party.
// Columns 0-7 are registration number, Nepali name, application date (BS),
// registration date (BS), headquarters, contact info, leadership, and
// symbol name; every other field is left for manual completion.
func mapRow(row []pdftable.Cell, meta rowMeta) (p types.Party, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("mapping row: %v", r)
		}
	}()

	p = types.Party{
		RegistrationNumber: cellValue(row, 0),
		NameNepali:         cellValue(row, 1),
		ApplicationDateBs:  cellValue(row, 2),
		RegistrationDateBs: cellValue(row, 3),
		Headquarters:       cellValue(row, 4),
		ContactInfo:        cellValue(row, 5),
		LeadershipInfo:     cellValue(row, 6),
		SymbolNameNepali:   cellValue(row, 7),

		IsActive:           true,
		IsMajorParty:       false,
		DataSource:         meta.dataSource,
		VerificationStatus: types.VerificationPending,

		PageNumber:  meta.page,
		RowIndex:    meta.row,
		RawRow:      rawRow(row),
		ExtractedAt: meta.extractedAt,
	}
	return p, nil
}

// hasIdentity reports whether p carries a Nepali name or a registration number.
func hasIdentity(p types.Party) bool {
	return p.NameNepali != nil || p.RegistrationNumber != nil
}
