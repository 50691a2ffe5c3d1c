// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdfsource

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/ecn-parties/internal/pdftable"
)

// --- test helpers ---

// buildPDF assembles a minimal PDF with one page per content stream. The
// page tree claims count pages, so a count above len(streams) leaves the
// trailing pages missing. All pages share a WinAnsi Helvetica as /F1 with a
// uniform 600-unit advance.
func buildPDF(t *testing.T, count int, streams ...string) []byte {
	t.Helper()

	var objs []string
	kids := make([]string, len(streams))
	for i := range streams {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}
	objs = append(objs,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), count),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding"+
			" /FirstChar 32 /LastChar 126 /Widths ["+strings.TrimSpace(strings.Repeat("600 ", 95))+"] >>",
	)
	for i, s := range streams {
		objs = append(objs,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792]"+
				" /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(s)+1, s),
		)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, o := range objs {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, o)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objs)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)
	return buf.Bytes()
}

func openBytes(t *testing.T, data []byte) *Document {
	t.Helper()
	d, err := NewDocument(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	return d
}

// gridText is a 2x2 table from x 100-500, y 600-700 in device space with
// "AAAAA" in the top-left cell and "BBBBB" in the bottom-right one. scale
// multiplies every user-space coordinate.
func gridText(scale float64) string {
	return fmt.Sprintf("BT /F1 10 Tf %g %g Td (AAAAA) Tj ET\nBT /F1 10 Tf %g %g Td (BBBBB) Tj ET\n",
		110*scale, 665*scale, 310*scale, 615*scale)
}

// cellRects draws the grid as four stroked cell rectangles.
func cellRects(scale float64) string {
	var b strings.Builder
	for _, x := range []float64{100, 300} {
		for _, y := range []float64{600, 650} {
			fmt.Fprintf(&b, "%g %g %g %g re S\n", x*scale, y*scale, 200*scale, 50*scale)
		}
	}
	return b.String()
}

// strokedLines draws the grid as separate m/l segments.
func strokedLines() string {
	var b strings.Builder
	for _, y := range []int{600, 650, 700} {
		fmt.Fprintf(&b, "100 %d m 500 %d l S\n", y, y)
	}
	for _, x := range []int{100, 300, 500} {
		fmt.Fprintf(&b, "%d 600 m %d 700 l S\n", x, x)
	}
	return b.String()
}

func cellTexts(tbl pdftable.Table) [][]string {
	out := make([][]string, len(tbl.Rows))
	for i, row := range tbl.Rows {
		for _, c := range row {
			out[i] = append(out[i], c.Text)
		}
	}
	return out
}

// --- Open / NewDocument / Close ---

func TestOpen_Missing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.pdf"))
	assert.ErrorContains(t, err, "opening PDF")
}

func TestOpen_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grid.pdf")
	require.NoError(t, os.WriteFile(path, buildPDF(t, 1, cellRects(1)+gridText(1)), 0o644))

	d, err := Open(path)
	require.NoError(t, err)
	defer d.Close()
	assert.Equal(t, 1, d.NumPages())
}

func TestNewDocument_NotAPDF(t *testing.T) {
	data := []byte("this is not a pdf file at all")
	_, err := NewDocument(bytes.NewReader(data), int64(len(data)))
	assert.ErrorContains(t, err, "reading PDF")
}

func TestClose_NoFile(t *testing.T) {
	d := &Document{}
	assert.NoError(t, d.Close())
}

// --- Page ---

func TestPage_RuledGrids(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "cell rectangles",
			content: cellRects(1) + gridText(1),
		},
		{
			name:    "scaled by cm",
			content: "q 0.5 0 0 0.5 0 0 cm\n" + cellRects(2) + gridText(2) + "Q\n",
		},
		{
			name:    "stroked line segments",
			content: strokedLines() + gridText(1),
		},
		{
			name:    "filled hairline rules",
			content: "100 699.75 400 0.5 re f\n100 649.75 400 0.5 re f\n100 599.75 400 0.5 re f\n" +
				"99.75 600 0.5 100 re f\n299.75 600 0.5 100 re f\n499.75 600 0.5 100 re f\n" + gridText(1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := openBytes(t, buildPDF(t, 1, tt.content))
			page, err := d.Page(1)
			require.NoError(t, err)
			assert.Equal(t, 1, page.Number)
			assert.NotEmpty(t, page.Rects)

			tables := pdftable.FindTables(page, pdftable.DefaultSettings())
			require.Len(t, tables, 1)
			assert.Equal(t, [][]string{{"AAAAA", ""}, {"", "BBBBB"}}, cellTexts(tables[0]))
			assert.InDelta(t, 100, tables[0].BBox.X0, 1)
			assert.InDelta(t, 700, tables[0].BBox.Y1, 1)
		})
	}
}

func TestPage_RestoredMatrix(t *testing.T) {
	// Rules are drawn scaled; the text after Q is back in page space.
	data := buildPDF(t, 1, "q 0.5 0 0 0.5 0 0 cm\n"+cellRects(2)+"Q\n"+gridText(1))
	page, err := openBytes(t, data).Page(1)
	require.NoError(t, err)

	tables := pdftable.FindTables(page, pdftable.DefaultSettings())
	require.Len(t, tables, 1)
	assert.Equal(t, [][]string{{"AAAAA", ""}, {"", "BBBBB"}}, cellTexts(tables[0]))
}

func TestPage_MalformedStreamIsAnError(t *testing.T) {
	// Tj without an operand makes the reader panic.
	d := openBytes(t, buildPDF(t, 1, "BT /F1 10 Tf Tj ET"))

	var err error
	assert.NotPanics(t, func() { _, err = d.Page(1) })
	assert.ErrorContains(t, err, "reading page 1")
}

func TestPage_MissingPageIsEmpty(t *testing.T) {
	d := openBytes(t, buildPDF(t, 2, cellRects(1)+gridText(1)))
	require.Equal(t, 2, d.NumPages())

	page, err := d.Page(2)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Number)
	assert.Empty(t, page.Chars)
	assert.Empty(t, page.Rects)
}

func TestPage_OutOfRange(t *testing.T) {
	d := openBytes(t, buildPDF(t, 1, gridText(1)))
	for _, n := range []int{0, 2} {
		_, err := d.Page(n)
		assert.ErrorContains(t, err, "out of range")
	}
}

func TestPage_TextOnly(t *testing.T) {
	page, err := openBytes(t, buildPDF(t, 1, gridText(1))).Page(1)
	require.NoError(t, err)
	assert.Empty(t, page.Rects)
	assert.Empty(t, pdftable.FindTables(page, pdftable.DefaultSettings()))
	assert.Equal(t, []string{"AAAAA", "BBBBB"}, pdftable.Lines(page, pdftable.Settings{}))
}
