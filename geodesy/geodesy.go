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

// Package geodesy holds the ellipsoidal distance, area and projection
// primitives used by the centerline pipeline. All distances are in meters
// and all areas in square meters.
package geodesy

import (
	"fmt"
	"math"
)

// Coordinate is a latitude/longitude pair in decimal degrees.
type Coordinate struct {
	Lat, Lon float64
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%.8f, %.8f)", c.Lat, c.Lon)
}

// Valid reports whether c is finite and within the latitude and
// longitude ranges.
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lon) || math.IsInf(c.Lat, 0) || math.IsInf(c.Lon, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// Inverse solves the inverse geodesic problem, returning the distance
// between a and b and the azimuth at a in degrees clockwise from north.
func (e *Ellipsoid) Inverse(a, b Coordinate) (s12, azi1 float64) {
	var azi2 float64
	e.g.Inverse(a.Lat, a.Lon, b.Lat, b.Lon, &s12, &azi1, &azi2)
	return s12, azi1
}

// Direct solves the direct geodesic problem: the coordinate reached by
// travelling s12 meters from a along azimuth azi1.
func (e *Ellipsoid) Direct(a Coordinate, azi1, s12 float64) Coordinate {
	var lat2, lon2, azi2 float64
	e.g.Direct(a.Lat, a.Lon, azi1, s12, &lat2, &lon2, &azi2)
	return Coordinate{Lat: lat2, Lon: lon2}
}

// Distance returns the geodesic distance between a and b.
func (e *Ellipsoid) Distance(a, b Coordinate) float64 {
	if a == b {
		return 0
	}
	s12, _ := e.Inverse(a, b)
	return s12
}

// Length returns the geodesic length of the polyline through cs.
func (e *Ellipsoid) Length(cs []Coordinate) float64 {
	var length float64
	for i := 1; i < len(cs); i++ {
		length += e.Distance(cs[i-1], cs[i])
	}
	return length
}

// Interpolate returns the point a fraction f of the way along the
// geodesic from a to b.
func (e *Ellipsoid) Interpolate(a, b Coordinate, f float64) Coordinate {
	switch {
	case f <= 0 || a == b:
		return a
	case f >= 1:
		return b
	}
	s12, azi1 := e.Inverse(a, b)
	return e.Direct(a, azi1, s12*f)
}

// PolygonArea returns the unsigned geodesic area of the ring. The ring
// may or may not repeat its first point at the end. The result is only
// meaningful for simple rings; for self-intersecting rings it is the
// absolute value of the signed area sum, which is deterministic but
// approximate.
func (e *Ellipsoid) PolygonArea(ring []Coordinate) float64 {
	if len(ring) > 1 && ring[0] == ring[len(ring)-1] {
		ring = ring[:len(ring)-1]
	}
	if len(ring) < 3 {
		return 0
	}
	if e.F == 0 {
		return sphericalArea(e.A, ring)
	}
	p := e.g.PolygonInit(false)
	for _, c := range ring {
		p.AddPoint(c.Lat, c.Lon)
	}
	var area, perimeter float64
	p.Compute(false, true, &area, &perimeter)
	return math.Abs(area)
}

// sphericalArea returns the area of a ring with great circle edges on a
// sphere of radius r. The excess of each edge is measured against the
// equator. The polygon routines of the geodesic package divide by the
// eccentricity, so they cannot be used when it is zero.
func sphericalArea(r float64, ring []Coordinate) float64 {
	const rad = math.Pi / 180
	var excess float64
	for i, a := range ring {
		b := ring[(i+1)%len(ring)]
		dlon := math.Remainder((b.Lon-a.Lon)*rad, 2*math.Pi)
		t1, t2 := math.Tan(a.Lat*rad/2), math.Tan(b.Lat*rad/2)
		excess += 2 * math.Atan2(math.Tan(dlon/2)*(t1+t2), 1+t1*t2)
	}
	area := math.Abs(excess) * r * r
	// The smaller of the two regions the ring divides the sphere into.
	return math.Min(area, 4*math.Pi*r*r-area)
}

// Distance returns the geodesic distance in meters between a and b on
// the named ellipsoid.
func Distance(a, b Coordinate, ellipsoid string) (float64, error) {
	e, err := Lookup(ellipsoid)
	if err != nil {
		return math.NaN(), err
	}
	return e.Distance(a, b), nil
}

// PolygonArea returns the geodesic area in square meters of the polygon
// on the named ellipsoid.
func PolygonArea(polygon []Coordinate, ellipsoid string) (float64, error) {
	e, err := Lookup(ellipsoid)
	if err != nil {
		return math.NaN(), err
	}
	return e.PolygonArea(polygon), nil
}
