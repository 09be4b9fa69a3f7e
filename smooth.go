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

	"github.com/ctessum/geom"
	"gonum.org/v1/gonum/mat"
)

// Smooth applies a Savitzky-Golay filter to ps: each interior point is
// replaced by the value at that point of a least-squares polynomial of
// the given degree fitted to the surrounding window of points. Near the
// ends the window is shifted inward rather than truncated. The first and
// last points are returned unchanged. The input is not modified, so
// smoothing the same input twice gives identical results.
func Smooth(ps []geom.Point, window, degree int) ([]geom.Point, error) {
	if err := validateSmoothing(window, degree); err != nil {
		return nil, err
	}
	n := len(ps)
	out := append([]geom.Point(nil), ps...)
	if n < 3 {
		return out, nil
	}
	w := window
	if w > n {
		w = n
		if w%2 == 0 {
			w--
		}
	}
	deg := degree
	if deg > w-1 {
		deg = w - 1
	}
	half := w / 2

	weights := make(map[int][]float64)
	for i := 1; i < n-1; i++ {
		s := i - half
		if s < 0 {
			s = 0
		}
		if s > n-w {
			s = n - w
		}
		off := i - s
		c, ok := weights[off]
		if !ok {
			var err error
			c, err = savitzkyGolay(w, deg, off)
			if err != nil {
				return nil, err
			}
			weights[off] = c
		}
		var x, y float64
		for j, cj := range c {
			x += cj * ps[s+j].X
			y += cj * ps[s+j].Y
		}
		out[i] = geom.Point{X: x, Y: y}
	}
	return out, nil
}

// savitzkyGolay returns the filter weights that evaluate a least-squares
// polynomial fitted to w equally spaced samples at sample off.
func savitzkyGolay(w, degree, off int) ([]float64, error) {
	a := mat.NewDense(w, degree+1, nil)
	for j := 0; j < w; j++ {
		t := float64(j - off)
		v := 1.0
		for k := 0; k <= degree; k++ {
			a.Set(j, k, v)
			v *= t
		}
	}
	eye := mat.NewDense(w, w, nil)
	for j := 0; j < w; j++ {
		eye.Set(j, j, 1)
	}
	var pinv mat.Dense
	if err := pinv.Solve(a, eye); err != nil {
		return nil, fmt.Errorf("centerline: smoothing window %d degree %d: %v", w, degree, err)
	}
	return mat.Row(nil, 0, &pinv), nil
}
