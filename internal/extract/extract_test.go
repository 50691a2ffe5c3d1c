// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pdiddy/ecn-parties/internal/pdftable"
	"github.com/pdiddy/ecn-parties/pkg/types"
)

// --- fake source ---

type fakeSource struct {
	pages []pdftable.Page
	errs  map[int]error
}

func (f *fakeSource) NumPages() int { return len(f.pages) }

func (f *fakeSource) Page(n int) (pdftable.Page, error) {
	if err := f.errs[n]; err != nil {
		return pdftable.Page{}, err
	}
	return f.pages[n-1], nil
}

const (
	colWidth  = 200.0
	rowHeight = 20.0
	gridLeft  = 10.0
	gridTop   = 800.0
)

// tablePage draws a ruled grid sized to rows and writes each cell's text
// one rune per char inside it.
func tablePage(rows [][]string) pdftable.Page {
	ncols := 0
	for _, r := range rows {
		if len(r) > ncols {
			ncols = len(r)
		}
	}
	right := gridLeft + float64(ncols)*colWidth
	bottom := gridTop - float64(len(rows))*rowHeight

	var page pdftable.Page
	for i := 0; i <= len(rows); i++ {
		y := gridTop - float64(i)*rowHeight
		page.Rects = append(page.Rects, pdftable.Rect{X0: gridLeft, Y0: y, X1: right, Y1: y})
	}
	for j := 0; j <= ncols; j++ {
		x := gridLeft + float64(j)*colWidth
		page.Rects = append(page.Rects, pdftable.Rect{X0: x, Y0: bottom, X1: x, Y1: gridTop})
	}

	for i, row := range rows {
		y := gridTop - float64(i+1)*rowHeight + 5
		for j, cell := range row {
			x := gridLeft + float64(j)*colWidth + 2
			page.Chars = append(page.Chars, runeChars(cell, x, y)...)
		}
	}
	return page
}

// textPage writes each line as free text, top to bottom, with no ruling.
func textPage(lines ...string) pdftable.Page {
	var page pdftable.Page
	for i, ln := range lines {
		page.Chars = append(page.Chars, runeChars(ln, 10, 700-float64(i)*20)...)
	}
	return page
}

func runeChars(s string, x, y float64) []pdftable.Char {
	var out []pdftable.Char
	for _, r := range s {
		out = append(out, pdftable.Char{S: string(r), X: x, Y: y, W: 5, Size: 10})
		x += 5
	}
	return out
}

func fixedNow() time.Time {
	return time.Date(2026, 10, 15, 9, 30, 0, 123456000, time.Local)
}

var ecnHeader = []string{"दर्ता नं.", "दलको नाम", "निवेदन मिति", "दर्ता मिति", "ठेगाना", "सम्पर्क", "अध्यक्ष", "चिन्ह"}

// --- Extract ---

func TestExtract_TableRows(t *testing.T) {
	src := &fakeSource{pages: []pdftable.Page{tablePage([][]string{
		ecnHeader,
		{"१", "नेपाली काँग्रेस", "२०७३।७।३", "२०७३।८।१", "काठमाडौं", "०१-४२२७०००", "अध्यक्षः शेरबहादुर देउवा", "रुख"},
		{"२", "राष्ट्रिय जनमोर्चा", "२०७४।१।५", "", "भक्तपुर", "", "", ""},
	})}}

	var out bytes.Buffer
	res, err := Extract(context.Background(), src, Options{Now: fixedNow, Logger: zaptest.NewLogger(t)}, &out)
	require.NoError(t, err)

	require.Len(t, res.Parties, 2)
	assert.Equal(t, 1, res.Pages)
	assert.Equal(t, 1, res.Tables)
	assert.False(t, res.HasFailures())
	assert.Empty(t, res.Candidates)

	first := res.Parties[0]
	assert.Equal(t, "१", types.Deref(first.RegistrationNumber))
	assert.Equal(t, "नेपाली काँग्रेस", types.Deref(first.NameNepali))
	assert.Equal(t, "२०७३।७।३", types.Deref(first.ApplicationDateBs))
	assert.Equal(t, "२०७३।८।१", types.Deref(first.RegistrationDateBs))
	assert.Equal(t, "काठमाडौं", types.Deref(first.Headquarters))
	assert.Equal(t, "०१-४२२७०००", types.Deref(first.ContactInfo))
	assert.Equal(t, "अध्यक्षः शेरबहादुर देउवा", types.Deref(first.LeadershipInfo))
	assert.Equal(t, "रुख", types.Deref(first.SymbolNameNepali))

	assert.Nil(t, first.Name)
	assert.Nil(t, first.Province)
	assert.Nil(t, first.ChairpersonNameNepali)
	assert.Nil(t, first.FoundedYear)
	assert.True(t, first.IsActive)
	assert.False(t, first.IsMajorParty)
	assert.Equal(t, types.DefaultDataSource, first.DataSource)
	assert.Equal(t, types.VerificationPending, first.VerificationStatus)
	assert.Equal(t, 1, first.PageNumber)
	assert.Equal(t, 1, first.RowIndex, "row index counts from 1 after the header")
	assert.Equal(t, "2026-10-15T09:30:00.123456", first.ExtractedAt)
	assert.Contains(t, first.RawRow, "नेपाली काँग्रेस")

	second := res.Parties[1]
	assert.Equal(t, 2, second.RowIndex)
	assert.Nil(t, second.RegistrationDateBs, "empty cell becomes null")
	assert.Nil(t, second.SymbolNameNepali)

	assert.Contains(t, out.String(), "Processing page 1/1...")
	assert.Contains(t, out.String(), "  ✓ Extracted: नेपाली काँग्रेस\n")
	assert.Contains(t, out.String(), "  ✓ Extracted: राष्ट्रिय जनमोर्चा\n")
}

func TestExtract_NoHeaderKeepsFirstRow(t *testing.T) {
	src := &fakeSource{pages: []pdftable.Page{tablePage([][]string{
		{"५", "नेपाल मजदुर किसान", "२०७३।७।३"},
		{"६", "नयाँ शक्ति नेपाल", "२०७३।७।४"},
	})}}

	res, err := Extract(context.Background(), src, Options{DataSource: "TEST"}, &bytes.Buffer{})
	require.NoError(t, err)
	require.Len(t, res.Parties, 2)
	assert.Equal(t, "५", types.Deref(res.Parties[0].RegistrationNumber))
	assert.Equal(t, 1, res.Parties[0].RowIndex)
	assert.Equal(t, "TEST", res.Parties[0].DataSource)
	assert.Nil(t, res.Parties[0].Headquarters, "columns past the row width are null")
}

func TestExtract_SkipsRows(t *testing.T) {
	tests := []struct {
		name string
		rows [][]string
	}{
		{
			name: "fewer than three cells",
			rows: [][]string{{"१", "नेपाली काँग्रेस"}, {"२", "राष्ट्रिय जनमोर्चा"}},
		},
		{
			name: "divider rows",
			rows: [][]string{{"-", "", "-"}, {"", "", "ab"}},
		},
		{
			name: "no name and no registration number",
			rows: [][]string{{"", "", "२०७३।७।३", "काठमाडौं"}, {"", "", "२०७४।१।१", "ललितपुर"}},
		},
		{
			name: "header only",
			rows: [][]string{ecnHeader, {"", "", ""}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &fakeSource{pages: []pdftable.Page{tablePage(tt.rows)}}
			res, err := Extract(context.Background(), src, Options{}, &bytes.Buffer{})
			require.NoError(t, err)
			assert.Empty(t, res.Parties)
			assert.Zero(t, res.RowErrors)
		})
	}
}

func TestExtract_UnmappedGlyphKeepsRow(t *testing.T) {
	page := tablePage([][]string{
		{"१", "bad name", "२०७३।७।३"},
		{"२", "राष्ट्रिय जनमोर्चा", "२०७४।१।५"},
	})
	// A glyph the font could not map, inside the first row's name cell.
	page.Chars = append(page.Chars, pdftable.Char{
		S: "\xff", X: gridLeft + colWidth + 150, Y: gridTop - rowHeight + 5, W: 5, Size: 10,
	})
	src := &fakeSource{pages: []pdftable.Page{page}}

	core, logs := observer.New(zap.WarnLevel)
	var out bytes.Buffer
	res, err := Extract(context.Background(), src, Options{Logger: zap.New(core)}, &out)
	require.NoError(t, err)
	assert.Zero(t, res.RowErrors)
	assert.False(t, res.HasFailures())

	require.Len(t, res.Parties, 2)
	assert.Equal(t, "bad name \uFFFD", types.Deref(res.Parties[0].NameNepali))
	assert.Equal(t, "१", types.Deref(res.Parties[0].RegistrationNumber))
	assert.True(t, utf8.ValidString(res.Parties[0].RawRow))
	assert.Equal(t, "राष्ट्रिय जनमोर्चा", types.Deref(res.Parties[1].NameNepali))
	assert.NotContains(t, out.String(), "⚠ Error processing row")

	warned := logs.FilterMessage("invalid UTF-8 replaced").All()
	require.Len(t, warned, 1)
	assert.Equal(t, int64(1), warned[0].ContextMap()["row"])
}

func TestExtract_UnreadablePageContinues(t *testing.T) {
	src := &fakeSource{
		pages: []pdftable.Page{
			{},
			tablePage([][]string{ecnHeader, {"३", "नेपाल सद्भावना", "२०७३।७।३"}}),
		},
		errs: map[int]error{1: errors.New("malformed content stream")},
	}

	var out bytes.Buffer
	res, err := Extract(context.Background(), src, Options{}, &out)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Pages)
	assert.Equal(t, 1, res.PageErrors)
	require.Len(t, res.Parties, 1)
	assert.Equal(t, 2, res.Parties[0].PageNumber)
	assert.Contains(t, out.String(), "Skipping page 1: malformed content stream")
}

func TestExtract_LineScan(t *testing.T) {
	src := &fakeSource{pages: []pdftable.Page{
		textPage("राष्ट्रिय स्वतन्त्र पार्टी नेपाल", "पार्टी", "अन्य सूचना यहाँ छ"),
		tablePage([][]string{ecnHeader, {"७", "जनता समाजवादी पार्टी, नेपाल", "२०७७।१।१"}}),
		textPage("लोकतान्त्रिक समाजवादी पार्टी नेपाल"),
	}}

	var out bytes.Buffer
	res, err := Extract(context.Background(), src, Options{}, &out)
	require.NoError(t, err)

	require.Len(t, res.Parties, 1)
	require.Len(t, res.Candidates, 1, "scan stops once a table row produced a record")
	assert.Equal(t, Candidate{Page: 1, Line: "राष्ट्रिय स्वतन्त्र पार्टी नेपाल"}, res.Candidates[0])
	assert.Contains(t, out.String(), "  Found potential party: राष्ट्रिय स्वतन्त्र पार्टी नेपाल\n")
	assert.NotContains(t, out.String(), "लोकतान्त्रिक")
}

func TestExtract_ProgressEchoIsCapped(t *testing.T) {
	longName := strings.Repeat("क", nameLogLimit+5)
	longLine := "पार्टी" + strings.Repeat("ख", lineLogLimit)

	table := tablePage([][]string{
		{"१", "", "२०७३।७।३"},
		{"२", "राष्ट्रिय जनमोर्चा", "२०७४।१।५"},
	})
	// Narrow glyphs so the whole name fits the name cell.
	for i, r := range []rune(longName) {
		table.Chars = append(table.Chars, pdftable.Char{
			S: string(r), X: gridLeft + colWidth + 2 + float64(i)*3, Y: gridTop - rowHeight + 5, W: 3, Size: 10,
		})
	}
	src := &fakeSource{pages: []pdftable.Page{textPage(longLine), table}}

	var out bytes.Buffer
	res, err := Extract(context.Background(), src, Options{}, &out)
	require.NoError(t, err)
	require.Len(t, res.Parties, 2)
	assert.Equal(t, longName, types.Deref(res.Parties[0].NameNepali), "the record keeps the full name")
	assert.Equal(t, longLine, res.Candidates[0].Line)

	assert.Contains(t, out.String(), "  ✓ Extracted: "+strings.Repeat("क", nameLogLimit)+"\n")
	assert.Contains(t, out.String(), "  Found potential party: "+string([]rune(longLine)[:lineLogLimit])+"\n")
}

func TestExtract_LineScanAlwaysOnFirstPage(t *testing.T) {
	src := &fakeSource{pages: []pdftable.Page{
		tablePage([][]string{ecnHeader, {"७", "जनता समाजवादी पार्टी, नेपाल", "२०७७।१।१"}}),
	}}

	res, err := Extract(context.Background(), src, Options{}, &bytes.Buffer{})
	require.NoError(t, err)
	require.Len(t, res.Parties, 1)
	require.Len(t, res.Candidates, 1, "the table row text itself is scanned on page 1")
	assert.Contains(t, res.Candidates[0].Line, "जनता समाजवादी पार्टी")
}

func TestExtract_EmptyDocument(t *testing.T) {
	_, err := Extract(context.Background(), &fakeSource{}, Options{}, &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrEmptyDocument)
}

func TestExtract_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := &fakeSource{pages: []pdftable.Page{textPage("x")}}
	_, err := Extract(ctx, src, Options{}, &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
}

// --- CleanText ---

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want *string
	}{
		{name: "empty", in: "", want: nil},
		{name: "whitespace only", in: " \n\t ", want: nil},
		{name: "nul only", in: "\x00\x00", want: nil},
		{name: "trims", in: "  काठमाडौं  ", want: types.Str("काठमाडौं")},
		{name: "collapses runs", in: "नेपाली\n  काँग्रेस", want: types.Str("नेपाली काँग्रेस")},
		{name: "removes nul", in: "ने\x00पाल", want: types.Str("नेपाल")},
		{name: "composes nukta", in: "न\u093c", want: types.Str("\u0929")},
		{name: "no-break spaces", in: "नेपाली\u00a0\u00a0काँग्रेस", want: types.Str("नेपाली काँग्रेस")},
		{name: "em space", in: "नेपाली\u2003काँग्रेस", want: types.Str("नेपाली काँग्रेस")},
		{name: "vertical tabs", in: "नेपाली\v\vकाँग्रेस", want: types.Str("नेपाली काँग्रेस")},
		{name: "line separator", in: "\u2028नेपाली\u3000काँग्रेस\u0085", want: types.Str("नेपाली काँग्रेस")},
		{name: "keeps zero-width joiner", in: "र\u094d\u200dय", want: types.Str("र\u094d\u200dय")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanText(tt.in))
		})
	}
}

func TestRawRow_Truncated(t *testing.T) {
	long := make([]pdftable.Cell, 0, 40)
	for i := 0; i < 40; i++ {
		long = append(long, pdftable.Cell{Text: "नेपाल", Present: true})
	}
	got := rawRow(long)
	assert.Equal(t, rawRowLimit, len([]rune(got)))

	short := rawRow([]pdftable.Cell{{Text: "१", Present: true}, {}})
	assert.Equal(t, `["१",null]`, short)
}
