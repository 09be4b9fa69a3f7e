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
	"errors"
	"testing"

	"github.com/ctessum/geom"
	"github.com/spatialmodel/centerline/geodesy"
)

func straightPath(n int, step float64) []Coordinate {
	f := geodesy.NewFrame(testOrigin, geodesy.WGS84)
	ps := make([]geom.Point, n)
	for i := range ps {
		ps[i] = geom.Point{X: step * float64(i), Y: 0.01 * float64(i%3)}
	}
	return f.Coordinates(ps)
}

func TestResampleEvenlySpaced(t *testing.T) {
	e := geodesy.WGS84
	path := straightPath(100, 1)
	out, err := ResampleEvenlySpaced(path, 5, e)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 5 {
		t.Fatalf("want 5 points but have %d", len(out))
	}
	if out[0] != path[0] || out[4] != path[99] {
		t.Errorf("ends should match the path exactly: %v, %v", out[0], out[4])
	}
	total := e.Length(path)
	// The path zigzags a little, so straight-line spacing is close to
	// but not exactly a quarter of the arc length.
	for i := 1; i < len(out); i++ {
		if d := e.Distance(out[i-1], out[i]); !near(d, total/4, 0.05) {
			t.Errorf("segment %d: want about %g but have %g", i, total/4, d)
		}
	}

	one, err := ResampleEvenlySpaced(path, 1, e)
	if err != nil {
		t.Fatal(err)
	}
	if len(one) != 1 || one[0] != path[0] {
		t.Errorf("want the start point but have %v", one)
	}

	for _, n := range []int{0, -3} {
		if _, err := ResampleEvenlySpaced(path, n, e); !errors.Is(err, ErrInvalidPointCount) {
			t.Errorf("n=%d: want ErrInvalidPointCount but have %v", n, err)
		}
	}

	many, err := ResampleEvenlySpaced(path[:2], 7, e)
	if err != nil {
		t.Fatal(err)
	}
	d := e.Distance(path[0], path[1]) / 6
	for i := 1; i < len(many); i++ {
		if have := e.Distance(many[i-1], many[i]); !near(have, d, 1e-7) {
			t.Errorf("segment %d: want %g but have %g", i, d, have)
		}
	}
}

func TestResampleEqualDistance(t *testing.T) {
	e := geodesy.WGS84
	path := straightPath(100, 1)
	const inc = 7.0
	out, err := ResampleEqualDistance(path, inc, e)
	if err != nil {
		t.Fatal(err)
	}
	if out[0] != path[0] || out[len(out)-1] != path[len(path)-1] {
		t.Errorf("ends should match the path exactly")
	}
	for i := 1; i < len(out)-1; i++ {
		if d := e.Distance(out[i-1], out[i]); !near(d, inc, 1e-6) {
			t.Errorf("segment %d: want %g but have %g", i, inc, d)
		}
	}
	if d := e.Distance(out[len(out)-2], out[len(out)-1]); d > inc+1e-6 {
		t.Errorf("last segment %g is longer than the increment", d)
	}

	// An increment longer than the path keeps only the ends.
	out, err = ResampleEqualDistance(path, 1000, e)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 || out[0] != path[0] || out[1] != path[len(path)-1] {
		t.Errorf("want the two ends but have %v", out)
	}

	if _, err = ResampleEqualDistance(path, 0, e); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("want ErrInvalidConfig but have %v", err)
	}
}

func TestInterpolateBank(t *testing.T) {
	e := geodesy.WGS84
	bank := straightPath(3, 10)
	out := InterpolateBank(bank, 4, e)
	if len(out) != 11 {
		t.Fatalf("want 11 points but have %d", len(out))
	}
	if out[0] != bank[0] || out[5] != bank[1] || out[10] != bank[2] {
		t.Error("original points should be kept")
	}
	d := e.Distance(bank[0], bank[1]) / 5
	for i := 1; i <= 5; i++ {
		if have := e.Distance(out[i-1], out[i]); !near(have, d, 1e-6) {
			t.Errorf("segment %d: want %g but have %g", i, d, have)
		}
	}
	if len(InterpolateBank(bank, 0, e)) != 3 {
		t.Error("n=0 should leave the bank unchanged")
	}
}
