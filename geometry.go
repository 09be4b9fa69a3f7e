/*
Copyright © 2024 the Centerline authors.
This file is part of Centerline.

Centerline is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Centerline is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Centerline.  If not, see <http://www.gnu.org/licenses/>.
*/

package centerline

import (
	"math"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/index/rtree"
)

// segment is an indexed straight line between two planar points. It
// embeds a geom.LineString so it can be stored in an rtree.
type segment struct {
	geom.LineString
	index int
}

func newSegment(a, b geom.Point, index int) *segment {
	return &segment{LineString: geom.LineString{a, b}, index: index}
}

func (s *segment) a() geom.Point { return s.LineString[0] }
func (s *segment) b() geom.Point { return s.LineString[1] }

// segmentIndex returns a spatial index of the segments of the polyline
// through ps.
func segmentIndex(ps []geom.Point) *rtree.Rtree {
	t := rtree.NewTree(25, 50)
	for i := 1; i < len(ps); i++ {
		t.Insert(newSegment(ps[i-1], ps[i], i-1))
	}
	return t
}

func cross(o, a, b geom.Point) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

// intersection returns the point where segments p1-p2 and q1-q2 meet,
// together with the fraction t along p1-p2. Touching end points count as
// meeting. Parallel segments do not meet.
func intersection(p1, p2, q1, q2 geom.Point) (pt geom.Point, t float64, ok bool) {
	rx, ry := p2.X-p1.X, p2.Y-p1.Y
	sx, sy := q2.X-q1.X, q2.Y-q1.Y
	den := rx*sy - ry*sx
	if den == 0 {
		return geom.Point{}, 0, false
	}
	qpx, qpy := q1.X-p1.X, q1.Y-p1.Y
	t = (qpx*sy - qpy*sx) / den
	u := (qpx*ry - qpy*rx) / den
	const eps = 1e-12
	if t < -eps || t > 1+eps || u < -eps || u > 1+eps {
		return geom.Point{}, 0, false
	}
	return geom.Point{X: p1.X + t*rx, Y: p1.Y + t*ry}, t, true
}

// crosses reports whether segments p1-p2 and q1-q2 cross at a single
// point interior to both.
func crosses(p1, p2, q1, q2 geom.Point) bool {
	d1 := cross(q1, q2, p1)
	d2 := cross(q1, q2, p2)
	d3 := cross(p1, p2, q1)
	d4 := cross(p1, p2, q2)
	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}

// touches reports whether segments p1-p2 and q1-q2 share any point.
func touches(p1, p2, q1, q2 geom.Point) bool {
	if crosses(p1, p2, q1, q2) {
		return true
	}
	on := func(a, b, p geom.Point) bool {
		return cross(a, b, p) == 0 &&
			p.X >= math.Min(a.X, b.X) && p.X <= math.Max(a.X, b.X) &&
			p.Y >= math.Min(a.Y, b.Y) && p.Y <= math.Max(a.Y, b.Y)
	}
	return on(q1, q2, p1) || on(q1, q2, p2) || on(p1, p2, q1) || on(p1, p2, q2)
}

func dist(a, b geom.Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// segmentDistance returns the distance from p to the segment a-b.
func segmentDistance(p, a, b geom.Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return dist(p, a)
	}
	t := math.Max(0, math.Min(1, ((p.X-a.X)*dx+(p.Y-a.Y)*dy)/l2))
	return dist(p, geom.Point{X: a.X + t*dx, Y: a.Y + t*dy})
}

// nearestDistance returns the distance from p to the nearest segment in
// index, or NaN if index is empty. The rtree nearest neighbor is ranked
// by bounding box, so it only bounds the search.
func nearestDistance(p geom.Point, index *rtree.Rtree) float64 {
	if index.Size() == 0 {
		return math.NaN()
	}
	s := index.NearestNeighbor(p).(*segment)
	d := segmentDistance(p, s.a(), s.b())
	for _, g := range index.SearchIntersect(rtree.ToRect(p, d)) {
		s := g.(*segment)
		d = math.Min(d, segmentDistance(p, s.a(), s.b()))
	}
	return d
}
