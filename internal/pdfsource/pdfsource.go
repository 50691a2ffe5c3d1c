// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdfsource reads PDF pages into the glyph and ruling primitives
// that package pdftable works on. Glyphs come from github.com/ledongthuc/pdf;
// ruling lines and rectangles come from the graphics extractor of
// github.com/tsawler/tabula, which applies the current transformation
// matrix and follows m/l/re paths through to their stroke or fill. Only the
// embedded text layer is read, image-only pages come back without chars.
package pdfsource

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"
	"github.com/tsawler/tabula/graphicsstate"

	"github.com/pdiddy/ecn-parties/internal/pdftable"
)

// Document is an open PDF file.
type Document struct {
	file   io.Closer
	reader *pdf.Reader
}

// Open opens the PDF at path.
func Open(path string) (*Document, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF %s: %w", path, err)
	}
	return &Document{file: f, reader: r}, nil
}

// NewDocument reads a PDF from r, which holds size bytes.
func NewDocument(r io.ReaderAt, size int64) (*Document, error) {
	pr, err := pdf.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("reading PDF: %w", err)
	}
	return &Document{reader: pr}, nil
}

// Close releases the underlying file, if any.
func (d *Document) Close() error {
	if d.file == nil {
		return nil
	}
	return d.file.Close()
}

// NumPages returns the number of pages.
func (d *Document) NumPages() int {
	return d.reader.NumPage()
}

// Page returns the chars and ruling rectangles of page n (1-based). The
// reader panics on some malformed content streams; Page turns that into an
// error.
func (d *Document) Page(n int) (page pdftable.Page, err error) {
	page.Number = n
	if n < 1 || n > d.NumPages() {
		return page, fmt.Errorf("page %d out of range (1-%d)", n, d.NumPages())
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("reading page %d: %v", n, r)
		}
	}()

	p := d.reader.Page(n)
	if p.V.IsNull() {
		return page, nil
	}

	content := p.Content()
	page.Chars = make([]pdftable.Char, 0, len(content.Text))
	for _, t := range content.Text {
		page.Chars = append(page.Chars, pdftable.Char{
			S:    t.S,
			X:    t.X,
			Y:    t.Y,
			W:    t.W,
			Size: t.FontSize,
		})
	}

	page.Rects, err = rulings(p.V.Key("Contents"))
	if err != nil {
		return page, fmt.Errorf("reading rulings on page %d: %w", n, err)
	}
	return page, nil
}

// rulings returns the horizontal and vertical lines and the rectangles
// painted by a page's content streams, in device space. Lines come back as
// zero-width rects.
func rulings(contents pdf.Value) ([]pdftable.Rect, error) {
	data, err := streamBytes(contents)
	if err != nil {
		return nil, err
	}

	ge := graphicsstate.NewGraphicsExtractor()
	// pdftable drops short edges itself; thin filled rules must survive here.
	ge.MinLineLength = 0
	ge.MinRectWidth = 0
	ge.MinRectHeight = 0
	if err := ge.ExtractFromBytes(data); err != nil {
		return nil, err
	}

	grid := ge.GetGridLines()
	rects := ge.GetFilteredRectangles()
	out := make([]pdftable.Rect, 0, len(grid.Horizontals)+len(grid.Verticals)+len(rects))
	for _, l := range grid.Horizontals {
		out = append(out, lineRect(l))
	}
	for _, l := range grid.Verticals {
		out = append(out, lineRect(l))
	}
	for _, r := range rects {
		out = append(out, pdftable.Rect{
			X0: r.BBox.X,
			Y0: r.BBox.Y,
			X1: r.BBox.X + r.BBox.Width,
			Y1: r.BBox.Y + r.BBox.Height,
		})
	}
	return out, nil
}

// lineRect snaps a near-horizontal or near-vertical line onto its axis.
func lineRect(l graphicsstate.ExtractedLine) pdftable.Rect {
	r := pdftable.Rect{X0: l.Start.X, Y0: l.Start.Y, X1: l.End.X, Y1: l.End.Y}
	switch {
	case l.IsHorizontal:
		mid := (r.Y0 + r.Y1) / 2
		r.Y0, r.Y1 = mid, mid
	case l.IsVertical:
		mid := (r.X0 + r.X1) / 2
		r.X0, r.X1 = mid, mid
	}
	return r
}

// streamBytes returns the decoded page content. A Contents array is joined
// in order, since the graphics state carries across its streams.
func streamBytes(contents pdf.Value) ([]byte, error) {
	var streams []pdf.Value
	switch contents.Kind() {
	case pdf.Null:
		return nil, nil
	case pdf.Array:
		for i := 0; i < contents.Len(); i++ {
			streams = append(streams, contents.Index(i))
		}
	default:
		streams = append(streams, contents)
	}

	var buf bytes.Buffer
	for i, s := range streams {
		rc := s.Reader()
		_, err := io.Copy(&buf, rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("content stream %d: %w", i, err)
		}
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}
