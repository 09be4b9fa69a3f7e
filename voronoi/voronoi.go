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

// Package voronoi computes planar Voronoi diagrams as a set of vertices
// and ridges, where each ridge separates the cells of two input points.
package voronoi

import (
	"errors"
	"fmt"
	"math"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/index/rtree"
	"github.com/fogleman/delaunay"
)

// Infinity marks the vertex index of the unbounded end of a ridge.
const Infinity = -1

// ErrDegenerate is returned when the input points do not span the plane,
// for example when there are fewer than three distinct points or all
// points are collinear.
var ErrDegenerate = errors.New("voronoi: degenerate input")

// Ridge is the boundary between the cells of two input points.
type Ridge struct {
	// Points holds the indices of the two input points the ridge
	// separates.
	Points [2]int

	// Vertices holds indices into Diagram.Vertices. For an unbounded
	// ridge the second index is Infinity.
	Vertices [2]int
}

// Finite reports whether both ends of the ridge are Voronoi vertices.
func (r Ridge) Finite() bool {
	return r.Vertices[0] != Infinity && r.Vertices[1] != Infinity
}

// Diagram is a Voronoi diagram.
type Diagram struct {
	Points   []geom.Point
	Vertices []geom.Point
	Ridges   []Ridge
}

// Segment returns the end points of a finite ridge.
func (d *Diagram) Segment(r Ridge) (a, b geom.Point) {
	return d.Vertices[r.Vertices[0]], d.Vertices[r.Vertices[1]]
}

// Diagrammer is implemented by types that can compute Voronoi diagrams.
type Diagrammer interface {
	Diagram(points []geom.Point) (*Diagram, error)
}

// Delaunay computes Voronoi diagrams as the dual of a Delaunay
// triangulation. Vertices closer together than Tolerance are merged, and
// ridges that collapse to a single vertex are dropped. A zero Tolerance
// uses a small fraction of the extent of the input.
type Delaunay struct {
	Tolerance float64
}

// Compute returns the Voronoi diagram of points using the default
// Delaunay diagrammer.
func Compute(points []geom.Point) (*Diagram, error) {
	return Delaunay{}.Diagram(points)
}

// Diagram implements Diagrammer.
func (dl Delaunay) Diagram(points []geom.Point) (*Diagram, error) {
	if len(points) < 3 {
		return nil, fmt.Errorf("%w: %d points", ErrDegenerate, len(points))
	}
	pts := make([]delaunay.Point, len(points))
	for i, p := range points {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			return nil, fmt.Errorf("voronoi: point %d is not finite", i)
		}
		pts[i] = delaunay.Point{X: p.X, Y: p.Y}
	}
	b := geom.LineString(points).Bounds()
	tri, err := delaunay.Triangulate(pts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDegenerate, err)
	}
	if len(tri.Triangles) == 0 {
		return nil, ErrDegenerate
	}

	tol := dl.Tolerance
	if tol <= 0 {
		tol = 1e-9 * math.Max(1, math.Max(b.Max.X-b.Min.X, b.Max.Y-b.Min.Y))
	}
	m := newMerger(tol)

	// Voronoi vertex index of each triangle.
	ntri := len(tri.Triangles) / 3
	triVertex := make([]int, ntri)
	for t := 0; t < ntri; t++ {
		a := pts[tri.Triangles[3*t]]
		bb := pts[tri.Triangles[3*t+1]]
		c := pts[tri.Triangles[3*t+2]]
		cc, ok := circumcenter(a, bb, c)
		if !ok {
			triVertex[t] = Infinity
			continue
		}
		triVertex[t] = m.add(cc)
	}

	d := &Diagram{Points: points, Vertices: m.vertices}
	seen := make(map[[2]int]int)
	for e, o := range tri.Halfedges {
		if o != -1 && o < e {
			continue
		}
		p0, p1 := tri.Triangles[e], tri.Triangles[nextHalfedge(e)]
		v0 := triVertex[e/3]
		v1 := Infinity
		if o != -1 {
			v1 = triVertex[o/3]
		}
		if v0 == Infinity {
			v0, v1 = v1, Infinity
		}
		if v0 == Infinity || v0 == v1 {
			continue
		}
		key := [2]int{p0, p1}
		if p1 < p0 {
			key = [2]int{p1, p0}
		}
		r := Ridge{Points: key, Vertices: [2]int{v0, v1}}
		if i, ok := seen[key]; ok {
			// Two ridges between the same pair of points can only arise
			// from merged vertices; keep the finite one.
			if !d.Ridges[i].Finite() && r.Finite() {
				d.Ridges[i] = r
			}
			continue
		}
		seen[key] = len(d.Ridges)
		d.Ridges = append(d.Ridges, r)
	}
	return d, nil
}

func nextHalfedge(e int) int {
	if e%3 == 2 {
		return e - 2
	}
	return e + 1
}

// circumcenter returns the center of the circle through a, b and c,
// or false if they are collinear.
func circumcenter(a, b, c delaunay.Point) (geom.Point, bool) {
	dx, dy := b.X-a.X, b.Y-a.Y
	ex, ey := c.X-a.X, c.Y-a.Y
	bl := dx*dx + dy*dy
	cl := ex*ex + ey*ey
	den := 2 * (dx*ey - dy*ex)
	if den == 0 {
		return geom.Point{}, false
	}
	x := a.X + (ey*bl-dy*cl)/den
	y := a.Y + (dx*cl-ex*bl)/den
	if math.IsInf(x, 0) || math.IsInf(y, 0) || math.IsNaN(x) || math.IsNaN(y) {
		return geom.Point{}, false
	}
	return geom.Point{X: x, Y: y}, true
}

// vertex is a Voronoi vertex stored in the merger's rtree.
type vertex struct {
	geom.Point
	index int
}

// merger deduplicates points that lie within a tolerance of one another.
type merger struct {
	tol      float64
	tree     *rtree.Rtree
	vertices []geom.Point
}

func newMerger(tol float64) *merger {
	return &merger{tol: tol, tree: rtree.NewTree(25, 50)}
}

// add returns the index of the earliest vertex within the tolerance of
// p, adding p as a new vertex if there is none.
func (m *merger) add(p geom.Point) int {
	match := -1
	for _, g := range m.tree.SearchIntersect(rtree.ToRect(p, m.tol)) {
		v := g.(*vertex)
		if math.Hypot(v.X-p.X, v.Y-p.Y) <= m.tol && (match < 0 || v.index < match) {
			match = v.index
		}
	}
	if match >= 0 {
		return match
	}
	i := len(m.vertices)
	m.vertices = append(m.vertices, p)
	m.tree.Insert(&vertex{Point: p, index: i})
	return i
}
