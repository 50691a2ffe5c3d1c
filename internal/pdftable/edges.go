// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdftable

import "sort"

type orientation int

const (
	horizontal orientation = iota
	vertical
)

// edge is a ruling line segment. For a horizontal edge pos is y and
// start/end span x; for a vertical edge pos is x and start/end span y.
type edge struct {
	orient     orientation
	pos        float64
	start, end float64
}

func (e edge) length() float64 { return e.end - e.start }

// rectEdges returns the four borders of r.
func rectEdges(r Rect) []edge {
	r = r.norm()
	return []edge{
		{orient: horizontal, pos: r.Y0, start: r.X0, end: r.X1},
		{orient: horizontal, pos: r.Y1, start: r.X0, end: r.X1},
		{orient: vertical, pos: r.X0, start: r.Y0, end: r.Y1},
		{orient: vertical, pos: r.X1, start: r.Y0, end: r.Y1},
	}
}

// pageEdges collects, snaps, joins, and filters the ruling lines of a page.
func pageEdges(rects []Rect, s Settings) []edge {
	var edges []edge
	for _, r := range rects {
		edges = append(edges, rectEdges(r)...)
	}
	edges = snapEdges(edges, s.SnapTolerance)
	edges = joinEdges(edges, s.JoinTolerance)
	return filterEdges(edges, s.EdgeMinLength)
}

// snapEdges clusters parallel edges whose positions are within tol of the
// previous member and moves every member to the cluster mean.
func snapEdges(edges []edge, tol float64) []edge {
	out := make([]edge, 0, len(edges))
	for _, o := range []orientation{horizontal, vertical} {
		group := byOrientation(edges, o)
		sort.SliceStable(group, func(i, j int) bool { return group[i].pos < group[j].pos })

		for i := 0; i < len(group); {
			j := i + 1
			sum := group[i].pos
			for j < len(group) && group[j].pos-group[j-1].pos <= tol {
				sum += group[j].pos
				j++
			}
			mean := sum / float64(j-i)
			for k := i; k < j; k++ {
				e := group[k]
				e.pos = mean
				out = append(out, e)
			}
			i = j
		}
	}
	return out
}

// joinEdges merges collinear edges that overlap or are separated by at most tol.
func joinEdges(edges []edge, tol float64) []edge {
	type lineKey struct {
		orient orientation
		pos    float64
	}
	lines := make(map[lineKey][]edge)
	var keys []lineKey
	for _, e := range edges {
		k := lineKey{e.orient, e.pos}
		if _, ok := lines[k]; !ok {
			keys = append(keys, k)
		}
		lines[k] = append(lines[k], e)
	}

	var out []edge
	for _, k := range keys {
		segs := lines[k]
		sort.Slice(segs, func(i, j int) bool { return segs[i].start < segs[j].start })
		cur := segs[0]
		for _, next := range segs[1:] {
			if next.start <= cur.end+tol {
				if next.end > cur.end {
					cur.end = next.end
				}
				continue
			}
			out = append(out, cur)
			cur = next
		}
		out = append(out, cur)
	}
	return out
}

func filterEdges(edges []edge, minLength float64) []edge {
	out := edges[:0]
	for _, e := range edges {
		if e.length() >= minLength {
			out = append(out, e)
		}
	}
	return out
}

func byOrientation(edges []edge, o orientation) []edge {
	var out []edge
	for _, e := range edges {
		if e.orient == o {
			out = append(out, e)
		}
	}
	return out
}
