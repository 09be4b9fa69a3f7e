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

	"github.com/spatialmodel/centerline/geodesy"
)

// geodesicSegment caches the inverse solution of one path segment.
type geodesicSegment struct {
	a, b   Coordinate
	length float64
	azi    float64
}

func segmentsOf(path []Coordinate, e *geodesy.Ellipsoid) []geodesicSegment {
	segs := make([]geodesicSegment, len(path)-1)
	for i := range segs {
		a, b := path[i], path[i+1]
		segs[i] = geodesicSegment{a: a, b: b}
		if a != b {
			segs[i].length, segs[i].azi = e.Inverse(a, b)
		}
	}
	return segs
}

// ResampleEqualDistance walks path with a divider of the given opening
// [m] and returns the points where the divider lands. Consecutive output
// points are separated by exactly increment along the ellipsoid, except
// for the last pair: the final output point is always the end of path.
// The first point of path is always kept.
func ResampleEqualDistance(path []Coordinate, increment float64, e *geodesy.Ellipsoid) ([]Coordinate, error) {
	if !(increment > 0) {
		return nil, fmt.Errorf("%w: equal-distance increment must be positive but is %g", ErrInvalidConfig, increment)
	}
	if len(path) == 0 {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidInput)
	}
	out := []Coordinate{path[0]}
	if len(path) == 1 {
		return out, nil
	}
	segs := segmentsOf(path, e)
	cur := path[0] // current divider position
	seg, frac := 0, 0.0
	for seg < len(segs) {
		// Find the first segment whose far end is at least increment away.
		for seg < len(segs) && e.Distance(cur, segs[seg].b) < increment {
			seg++
			frac = 0
		}
		if seg == len(segs) {
			break
		}
		s := segs[seg]
		lo, hi := frac, 1.0
		for i := 0; i < 60 && hi-lo > 1e-15; i++ {
			m := (lo + hi) / 2
			if e.Distance(cur, atSegment(s, m, e)) < increment {
				lo = m
			} else {
				hi = m
			}
		}
		next := atSegment(s, hi, e)
		out = append(out, next)
		cur, frac = next, hi
	}
	if last := path[len(path)-1]; out[len(out)-1] != last {
		if e.Distance(out[len(out)-1], last) < 1e-6*increment {
			out[len(out)-1] = last
		} else {
			out = append(out, last)
		}
	}
	return out, nil
}

func atSegment(s geodesicSegment, f float64, e *geodesy.Ellipsoid) Coordinate {
	switch {
	case f <= 0:
		return s.a
	case f >= 1:
		return s.b
	}
	return e.Direct(s.a, s.azi, s.length*f)
}

// ResampleEvenlySpaced returns n points at equal fractions of the
// geodesic length of path. The first and last points are copies of the
// ends of path. For n == 1 the result is the path start.
func ResampleEvenlySpaced(path []Coordinate, n int, e *geodesy.Ellipsoid) ([]Coordinate, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPointCount, n)
	}
	if len(path) == 0 {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidInput)
	}
	out := make([]Coordinate, n)
	out[0] = path[0]
	if n == 1 {
		return out, nil
	}
	if len(path) == 1 {
		for i := range out {
			out[i] = path[0]
		}
		return out, nil
	}
	segs := segmentsOf(path, e)
	cum := make([]float64, len(segs)+1)
	for i, s := range segs {
		cum[i+1] = cum[i] + s.length
	}
	total := cum[len(cum)-1]
	seg := 0
	for k := 1; k < n-1; k++ {
		target := total * float64(k) / float64(n-1)
		for seg < len(segs)-1 && cum[seg+1] < target {
			seg++
		}
		s := segs[seg]
		if s.length == 0 {
			out[k] = s.a
			continue
		}
		f := math.Min(1, math.Max(0, (target-cum[seg])/s.length))
		out[k] = atSegment(s, f, e)
	}
	out[n-1] = path[len(path)-1]
	return out, nil
}
