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
	"fmt"
	"math"
	"sort"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/index/rtree"
	"github.com/spatialmodel/centerline/geodesy"
	"github.com/spatialmodel/centerline/voronoi"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Graph is the centerline graph: the Voronoi vertices lying strictly
// inside the channel polygon, joined by the Voronoi ridges between them.
// Edge weights are geodesic distances. Node IDs are indices into the
// Voronoi diagram vertices.
type Graph struct {
	g *simple.WeightedUndirectedGraph

	ids      []int64 // sorted node IDs
	relative map[int64]geom.Point
	coords   map[int64]Coordinate

	// component maps node ID to connected component index.
	component map[int64]int
	nComp     int
}

// Edge is an edge of the centerline graph.
type Edge struct {
	From, To int64
	Weight   float64
}

// buildGraph keeps the finite ridges of d whose end points both lie
// strictly inside poly and that do not cross its boundary.
func buildGraph(d *voronoi.Diagram, poly geom.Polygon, ring []geom.Point, frame *geodesy.Frame) (*Graph, error) {
	edges := segmentIndex(ring)
	inside := make(map[int]bool)
	isInside := func(v int) bool {
		in, ok := inside[v]
		if !ok {
			in = d.Vertices[v].Within(poly) == geom.Inside
			inside[v] = in
		}
		return in
	}

	gr := &Graph{
		g:        simple.NewWeightedUndirectedGraph(0, math.Inf(1)),
		relative: make(map[int64]geom.Point),
		coords:   make(map[int64]Coordinate),
	}
	for _, r := range d.Ridges {
		if !r.Finite() {
			continue
		}
		v0, v1 := r.Vertices[0], r.Vertices[1]
		if v0 == v1 || !isInside(v0) || !isInside(v1) {
			continue
		}
		a, b := d.Vertices[v0], d.Vertices[v1]
		if crossesBoundary(a, b, edges) {
			continue
		}
		ca, cb := gr.addNode(int64(v0), a, frame), gr.addNode(int64(v1), b, frame)
		w := frame.Ellipsoid.Distance(ca, cb)
		gr.g.SetWeightedEdge(gr.g.NewWeightedEdge(simple.Node(v0), simple.Node(v1), w))
	}
	if len(gr.ids) == 0 {
		return nil, fmt.Errorf("%w: no Voronoi ridges lie inside the bank polygon", ErrNoCenterlinePath)
	}
	sort.Slice(gr.ids, func(i, j int) bool { return gr.ids[i] < gr.ids[j] })

	gr.component = make(map[int64]int, len(gr.ids))
	comps := topo.ConnectedComponents(gr.g)
	for i, c := range comps {
		for _, n := range c {
			gr.component[n.ID()] = i
		}
	}
	gr.nComp = len(comps)
	return gr, nil
}

func (gr *Graph) addNode(id int64, p geom.Point, frame *geodesy.Frame) Coordinate {
	if c, ok := gr.coords[id]; ok {
		return c
	}
	c := frame.FromRelative(p)
	gr.ids = append(gr.ids, id)
	gr.relative[id] = p
	gr.coords[id] = c
	return c
}

// crossesBoundary reports whether segment a-b meets any polygon edge.
func crossesBoundary(a, b geom.Point, edges *rtree.Rtree) bool {
	for _, g := range edges.SearchIntersect(geom.LineString{a, b}.Bounds()) {
		s := g.(*segment)
		if touches(a, b, s.a(), s.b()) {
			return true
		}
	}
	return false
}

// Nodes returns the node IDs in increasing order.
func (gr *Graph) Nodes() []int64 { return gr.ids }

// NumNodes returns the number of nodes.
func (gr *Graph) NumNodes() int { return len(gr.ids) }

// NumEdges returns the number of edges.
func (gr *Graph) NumEdges() int { return gr.g.Edges().Len() }

// NumComponents returns the number of connected components.
func (gr *Graph) NumComponents() int { return gr.nComp }

// Coordinate returns the decimal-degree position of node id.
func (gr *Graph) Coordinate(id int64) Coordinate { return gr.coords[id] }

// Relative returns the relative-plane position of node id.
func (gr *Graph) Relative(id int64) geom.Point { return gr.relative[id] }

// Connected reports whether nodes a and b are in the same component.
func (gr *Graph) Connected(a, b int64) bool {
	ca, oka := gr.component[a]
	cb, okb := gr.component[b]
	return oka && okb && ca == cb
}

// Edges returns the edges of the graph ordered by node IDs.
func (gr *Graph) Edges() []Edge {
	var out []Edge
	for _, id := range gr.ids {
		to := graph.NodesOf(gr.g.From(id))
		for _, n := range to {
			if n.ID() <= id {
				continue
			}
			w, _ := gr.g.Weight(id, n.ID())
			out = append(out, Edge{From: id, To: n.ID(), Weight: w})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		return out[i].To < out[j].To
	})
	return out
}
