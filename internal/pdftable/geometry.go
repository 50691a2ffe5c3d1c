// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdftable finds ruled tables on a PDF page and reads their cell text.
// It works on positioned glyphs and drawn rectangles only; turning a PDF
// file into those primitives is the job of package pdfsource.
//
// Coordinates are PDF user space: origin bottom-left, y grows upward. The
// "top" of a box is therefore its larger y.
package pdftable

// Char is one positioned glyph. Y is the baseline.
type Char struct {
	S    string
	X    float64
	Y    float64
	W    float64
	Size float64
}

func (c Char) midX() float64 { return c.X + c.W/2 }

// midY approximates the vertical centre of the glyph from its baseline.
func (c Char) midY() float64 { return c.Y + c.Size/3 }

// Rect is an axis-aligned rectangle. Ruling lines are drawn as thin rects.
type Rect struct {
	X0, Y0, X1, Y1 float64
}

// norm returns r with X0 <= X1 and Y0 <= Y1.
func (r Rect) norm() Rect {
	if r.X0 > r.X1 {
		r.X0, r.X1 = r.X1, r.X0
	}
	if r.Y0 > r.Y1 {
		r.Y0, r.Y1 = r.Y1, r.Y0
	}
	return r
}

// contains reports whether the centre of c lies inside r. The left and
// bottom borders are exclusive so a char on a shared border lands in one cell.
func (r Rect) contains(c Char) bool {
	x, y := c.midX(), c.midY()
	return x >= r.X0 && x < r.X1 && y > r.Y0 && y <= r.Y1
}

// Page is the input to table detection for one PDF page.
type Page struct {
	// Number is the 1-based page number.
	Number int
	Chars  []Char
	Rects  []Rect
}

// Settings tunes table detection. Zero fields take the DefaultSettings value.
type Settings struct {
	// SnapTolerance merges parallel ruling lines closer than this.
	SnapTolerance float64
	// JoinTolerance joins collinear line segments separated by at most this gap.
	JoinTolerance float64
	// EdgeMinLength drops line segments shorter than this.
	EdgeMinLength float64
	// IntersectionTolerance lets a line stop short of a crossing line.
	IntersectionTolerance float64
	// XTolerance is the horizontal gap that separates two words.
	XTolerance float64
	// YTolerance is the baseline difference within which chars share a line.
	YTolerance float64
}

// DefaultSettings returns the "lines" strategy with a snap tolerance of 3.
func DefaultSettings() Settings {
	return Settings{
		SnapTolerance:         3,
		JoinTolerance:         3,
		EdgeMinLength:         3,
		IntersectionTolerance: 3,
		XTolerance:            3,
		YTolerance:            3,
	}
}

func (s Settings) withDefaults() Settings {
	d := DefaultSettings()
	if s.SnapTolerance <= 0 {
		s.SnapTolerance = d.SnapTolerance
	}
	if s.JoinTolerance <= 0 {
		s.JoinTolerance = d.JoinTolerance
	}
	if s.EdgeMinLength <= 0 {
		s.EdgeMinLength = d.EdgeMinLength
	}
	if s.IntersectionTolerance <= 0 {
		s.IntersectionTolerance = d.IntersectionTolerance
	}
	if s.XTolerance <= 0 {
		s.XTolerance = d.XTolerance
	}
	if s.YTolerance <= 0 {
		s.YTolerance = d.YTolerance
	}
	return s
}
