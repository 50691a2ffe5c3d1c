// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdftable

import "sort"

type point struct {
	x, y float64
}

// crossing records which edges meet at an intersection point.
type crossing struct {
	v map[int]bool
	h map[int]bool
}

// intersections returns every point where a vertical and a horizontal edge
// cross, allowing either to stop up to tol short of the other.
func intersections(edges []edge, tol float64) map[point]*crossing {
	out := make(map[point]*crossing)
	for vi, v := range edges {
		if v.orient != vertical {
			continue
		}
		for hi, h := range edges {
			if h.orient != horizontal {
				continue
			}
			if h.pos < v.start-tol || h.pos > v.end+tol {
				continue
			}
			if v.pos < h.start-tol || v.pos > h.end+tol {
				continue
			}
			p := point{x: v.pos, y: h.pos}
			c, ok := out[p]
			if !ok {
				c = &crossing{v: make(map[int]bool), h: make(map[int]bool)}
				out[p] = c
			}
			c.v[vi] = true
			c.h[hi] = true
		}
	}
	return out
}

// sortedPoints orders points top to bottom, then left to right.
func sortedPoints(xs map[point]*crossing) []point {
	pts := make([]point, 0, len(xs))
	for p := range xs {
		pts = append(pts, p)
	}
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].y != pts[j].y {
			return pts[i].y > pts[j].y
		}
		return pts[i].x < pts[j].x
	})
	return pts
}

// connected reports whether a and b lie on a common edge.
func connected(xs map[point]*crossing, a, b point) bool {
	ca, cb := xs[a], xs[b]
	if ca == nil || cb == nil {
		return false
	}
	shared := func(m1, m2 map[int]bool) bool {
		for k := range m1 {
			if m2[k] {
				return true
			}
		}
		return false
	}
	switch {
	case a.x == b.x:
		return shared(ca.v, cb.v)
	case a.y == b.y:
		return shared(ca.h, cb.h)
	}
	return false
}

// findCells returns, for each intersection, the smallest rectangle it is
// the top-left corner of whose other three corners are connected
// intersections.
func findCells(xs map[point]*crossing) []Rect {
	pts := sortedPoints(xs)
	var cells []Rect
	for i, pt := range pts {
		rest := pts[i+1:]
		var below, right []point
		for _, p := range rest {
			if p.x == pt.x {
				below = append(below, p)
			}
			if p.y == pt.y {
				right = append(right, p)
			}
		}

	search:
		for _, b := range below {
			if !connected(xs, pt, b) {
				continue
			}
			for _, r := range right {
				if !connected(xs, pt, r) {
					continue
				}
				br := point{x: r.x, y: b.y}
				if _, ok := xs[br]; !ok {
					continue
				}
				if connected(xs, br, r) && connected(xs, br, b) {
					cells = append(cells, Rect{X0: pt.x, Y0: br.y, X1: br.x, Y1: pt.y})
					break search
				}
			}
		}
	}
	return cells
}

// groupCells partitions cells into tables: cells sharing a corner belong to
// the same table. Groups of a single cell are dropped. Groups are ordered
// by their top-left cell.
func groupCells(cells []Rect) [][]Rect {
	parent := make([]int, len(cells))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}

	owner := make(map[point]int)
	for i, c := range cells {
		for _, p := range []point{{c.X0, c.Y1}, {c.X1, c.Y1}, {c.X0, c.Y0}, {c.X1, c.Y0}} {
			if j, ok := owner[p]; ok {
				parent[find(i)] = find(j)
				continue
			}
			owner[p] = i
		}
	}

	byRoot := make(map[int][]Rect)
	var roots []int
	for i, c := range cells {
		r := find(i)
		if _, ok := byRoot[r]; !ok {
			roots = append(roots, r)
		}
		byRoot[r] = append(byRoot[r], c)
	}

	var groups [][]Rect
	for _, r := range roots {
		if len(byRoot[r]) > 1 {
			groups = append(groups, byRoot[r])
		}
	}
	sort.SliceStable(groups, func(i, j int) bool {
		ti, tj := topLeft(groups[i]), topLeft(groups[j])
		if ti.y != tj.y {
			return ti.y > tj.y
		}
		return ti.x < tj.x
	})
	return groups
}

func topLeft(cells []Rect) point {
	tl := point{x: cells[0].X0, y: cells[0].Y1}
	for _, c := range cells[1:] {
		if c.Y1 > tl.y || (c.Y1 == tl.y && c.X0 < tl.x) {
			tl = point{x: c.X0, y: c.Y1}
		}
	}
	return tl
}
