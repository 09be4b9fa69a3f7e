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
	"github.com/ctessum/geom"
)

// Polygon is the closed outline of the channel: the left bank forward,
// the right bank reversed, and the first point repeated at the end.
type Polygon struct {
	Ring []Coordinate

	// TopBank joins the first points of the left and right banks and
	// BottomBank joins their last points.
	TopBank, BottomBank [2]Coordinate
}

// NewPolygon builds the bounding polygon of a channel from its banks.
// Banks of unequal length are used as given.
func NewPolygon(left, right []Coordinate) *Polygon {
	ring := make([]Coordinate, 0, len(left)+len(right)+1)
	ring = append(ring, left...)
	for i := len(right) - 1; i >= 0; i-- {
		ring = append(ring, right[i])
	}
	ring = append(ring, left[0])
	return &Polygon{
		Ring:       ring,
		TopBank:    [2]Coordinate{left[0], right[0]},
		BottomBank: [2]Coordinate{left[len(left)-1], right[len(right)-1]},
	}
}

// planarPolygon builds the planar version of a closed ring.
func planarPolygon(ring []geom.Point) geom.Polygon {
	return geom.Polygon{ring}
}

// selfIntersections returns the number of pairs of non-adjacent edges of
// the closed ring that touch each other.
func selfIntersections(ring []geom.Point) int {
	n := len(ring) - 1 // number of edges
	if n < 4 {
		return 0
	}
	index := segmentIndex(ring)
	var count int
	for i := 0; i < n; i++ {
		a, b := ring[i], ring[i+1]
		if a == b {
			continue
		}
		for _, g := range index.SearchIntersect(geom.LineString{a, b}.Bounds()) {
			s := g.(*segment)
			j := s.index
			if j <= i+1 || (i == 0 && j == n-1) {
				continue
			}
			if s.a() == s.b() {
				continue
			}
			if touches(a, b, s.a(), s.b()) {
				count++
			}
		}
	}
	return count
}
