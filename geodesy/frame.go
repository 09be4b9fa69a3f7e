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

package geodesy

import (
	"math"
	"sync"

	"github.com/ctessum/geom"
	"github.com/golang/groupcache/lru"
	"github.com/spatialmodel/centerline/internal/hash"
)

// cacheSize is the number of transformed sequences a Frame keeps.
const cacheSize = 64

// Frame is a local planar frame in meters anchored at an origin
// coordinate. X increases to the east of the origin and Y to the north.
// The mapping is an azimuthal equidistant projection: the distance of a
// point from the origin in the plane equals its geodesic distance from
// the origin, and its bearing is preserved.
type Frame struct {
	Origin    Coordinate
	Ellipsoid *Ellipsoid

	mu    sync.Mutex
	cache *lru.Cache
}

// NewFrame returns a frame anchored at origin on ellipsoid e.
func NewFrame(origin Coordinate, e *Ellipsoid) *Frame {
	return &Frame{
		Origin:    origin,
		Ellipsoid: e,
		cache:     lru.New(cacheSize),
	}
}

// ToRelative returns the planar position of c.
func (f *Frame) ToRelative(c Coordinate) geom.Point {
	if c == f.Origin {
		return geom.Point{}
	}
	s, azi := f.Ellipsoid.Inverse(f.Origin, c)
	rad := azi * math.Pi / 180
	return geom.Point{X: s * math.Sin(rad), Y: s * math.Cos(rad)}
}

// FromRelative returns the coordinate at planar position p.
func (f *Frame) FromRelative(p geom.Point) Coordinate {
	s := math.Hypot(p.X, p.Y)
	if s == 0 {
		return f.Origin
	}
	azi := math.Atan2(p.X, p.Y) * 180 / math.Pi
	return f.Ellipsoid.Direct(f.Origin, azi, s)
}

// Sequence returns the planar positions of cs. Results are cached by the
// contents of cs, so repeated calls with the same sequence are cheap.
// The returned slice must not be modified by the caller.
func (f *Frame) Sequence(cs []Coordinate) []geom.Point {
	key := sequenceKey(cs)
	f.mu.Lock()
	if v, ok := f.cache.Get(key); ok {
		f.mu.Unlock()
		return v.([]geom.Point)
	}
	f.mu.Unlock()

	out := make([]geom.Point, len(cs))
	for i, c := range cs {
		out[i] = f.ToRelative(c)
	}

	f.mu.Lock()
	f.cache.Add(key, out)
	f.mu.Unlock()
	return out
}

// Coordinates returns the coordinates of planar positions ps.
func (f *Frame) Coordinates(ps []geom.Point) []Coordinate {
	out := make([]Coordinate, len(ps))
	for i, p := range ps {
		out[i] = f.FromRelative(p)
	}
	return out
}

func sequenceKey(cs []Coordinate) string {
	v := make([]float64, 0, 2*len(cs))
	for _, c := range cs {
		v = append(v, c.Lat, c.Lon)
	}
	return hash.Floats("seq", v)
}
