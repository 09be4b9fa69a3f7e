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

	"github.com/ctessum/geom"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
)

// route is a path through the centerline graph.
type route struct {
	nodes      []int64
	weight     float64
	start, end int64
}

// nearestNode returns the node closest to p in the relative plane.
// Ties go to the lower node ID.
func (gr *Graph) nearestNode(p geom.Point) int64 {
	best, bestD := int64(-1), math.Inf(1)
	for _, id := range gr.ids {
		if d := dist(gr.relative[id], p); d < bestD {
			best, bestD = id, d
		}
	}
	return best
}

// candidates returns the distinct nodes nearest to each end of seg and
// to its midpoint.
func (gr *Graph) candidates(seg [2]geom.Point) []int64 {
	mid := geom.Point{X: (seg[0].X + seg[1].X) / 2, Y: (seg[0].Y + seg[1].Y) / 2}
	var out []int64
	seen := make(map[int64]bool)
	for _, p := range []geom.Point{seg[0], seg[1], mid} {
		id := gr.nearestNode(p)
		if id >= 0 && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// findRoute returns the shortest path between any start candidate near
// top and any end candidate near bottom. Among equally short paths the
// one with fewer nodes is chosen.
func findRoute(gr *Graph, top, bottom [2]geom.Point) (*route, error) {
	starts := gr.candidates(top)
	ends := gr.candidates(bottom)
	const eps = 1e-9

	var best *route
	for _, s := range starts {
		var shortest *path.Shortest
		for _, e := range ends {
			if s == e || !gr.Connected(s, e) {
				continue
			}
			if shortest == nil {
				sp := path.DijkstraFrom(simple.Node(s), gr.g)
				shortest = &sp
			}
			nodes, w := shortest.To(e)
			if len(nodes) == 0 || math.IsInf(w, 1) {
				continue
			}
			if best != nil {
				tol := eps * math.Max(1, best.weight)
				if w > best.weight+tol {
					continue
				}
				if math.Abs(w-best.weight) <= tol && len(nodes) >= len(best.nodes) {
					continue
				}
			}
			r := &route{nodes: make([]int64, len(nodes)), weight: w, start: s, end: e}
			for i, n := range nodes {
				r.nodes[i] = n.ID()
			}
			best = r
		}
	}
	if best == nil {
		return nil, fmt.Errorf("%w: none of the start nodes %v is connected to any of the end nodes %v",
			ErrNoCenterlinePath, starts, ends)
	}
	return best, nil
}
