// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdftable

import "sort"

// Cell is one table cell. Present is false where the grid has no cell at
// that column, typically under a horizontally merged cell.
type Cell struct {
	Text    string
	Present bool
}

// Table is a ruled table found on a page.
type Table struct {
	BBox Rect
	Rows [][]Cell
}

// ColCount returns the number of columns.
func (t Table) ColCount() int {
	if len(t.Rows) == 0 {
		return 0
	}
	return len(t.Rows[0])
}

// FindTables detects the ruled tables on page and returns them ordered top
// to bottom, then left to right.
func FindTables(page Page, s Settings) []Table {
	s = s.withDefaults()
	edges := pageEdges(page.Rects, s)
	xs := intersections(edges, s.IntersectionTolerance)
	groups := groupCells(findCells(xs))

	tables := make([]Table, 0, len(groups))
	for _, g := range groups {
		tables = append(tables, buildTable(g, page.Chars, s))
	}
	return tables
}

func buildTable(cells []Rect, chars []Char, s Settings) Table {
	bbox := cells[0]
	colSet := make(map[float64]bool)
	rowSet := make(map[float64]bool)
	for _, c := range cells {
		bbox = union(bbox, c)
		colSet[c.X0] = true
		rowSet[c.Y1] = true
	}

	cols := sortedKeys(colSet, false)
	tops := sortedKeys(rowSet, true)

	colIndex := make(map[float64]int, len(cols))
	for i, x := range cols {
		colIndex[x] = i
	}
	rowIndex := make(map[float64]int, len(tops))
	for i, y := range tops {
		rowIndex[y] = i
	}

	rows := make([][]Cell, len(tops))
	for i := range rows {
		rows[i] = make([]Cell, len(cols))
	}

	var inside []Char
	for _, ch := range chars {
		if bbox.contains(ch) {
			inside = append(inside, ch)
		}
	}

	for _, c := range cells {
		var mine []Char
		for _, ch := range inside {
			if c.contains(ch) {
				mine = append(mine, ch)
			}
		}
		rows[rowIndex[c.Y1]][colIndex[c.X0]] = Cell{
			Text:    ExtractText(mine, s),
			Present: true,
		}
	}

	return Table{BBox: bbox, Rows: rows}
}

func union(a, b Rect) Rect {
	if b.X0 < a.X0 {
		a.X0 = b.X0
	}
	if b.Y0 < a.Y0 {
		a.Y0 = b.Y0
	}
	if b.X1 > a.X1 {
		a.X1 = b.X1
	}
	if b.Y1 > a.Y1 {
		a.Y1 = b.Y1
	}
	return a
}

func sortedKeys(m map[float64]bool, desc bool) []float64 {
	out := make([]float64, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	if desc {
		sort.Sort(sort.Reverse(sort.Float64Slice(out)))
	} else {
		sort.Float64s(out)
	}
	return out
}
