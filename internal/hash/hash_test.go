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

package hash

import (
	"math"
	"testing"
)

func TestFloats(t *testing.T) {
	a := Floats("rel", []float64{1, 2, 3})
	b := Floats("rel", []float64{1, 2, 3})
	if a != b {
		t.Errorf("want %s but have %s", a, b)
	}
	if c := Floats("abs", []float64{1, 2, 3}); c == a {
		t.Errorf("label should change key %s", c)
	}
	if c := Floats("rel", []float64{1, 2}); c == a {
		t.Errorf("length should change key %s", c)
	}
	n1 := Floats("rel", []float64{math.NaN()})
	n2 := Floats("rel", []float64{math.NaN()})
	if n1 != n2 {
		t.Errorf("NaN keys differ: %s != %s", n1, n2)
	}
}

type stringer struct{}

func (stringer) String() string { return "fixed" }

func TestHash(t *testing.T) {
	type pt struct{ X, Y float64 }
	a := Hash([]pt{{1, 2}, {3, 4}})
	b := Hash([]pt{{1, 2}, {3, 4}})
	if a != b {
		t.Errorf("want %s but have %s", a, b)
	}
	if c := Hash([]pt{{1, 2}}); c == a {
		t.Errorf("different objects share key %s", c)
	}
	if have := Hash(stringer{}); have != "fixed" {
		t.Errorf("want fixed but have %s", have)
	}
}

func TestHashUnexported(t *testing.T) {
	// gob cannot encode structs without exported fields.
	type opts struct{ span float64 }
	a := Hash(opts{span: 1})
	if a != Hash(opts{span: 1}) {
		t.Error("equal values should share a key")
	}
	if a == Hash(opts{span: 2}) {
		t.Errorf("different values share key %s", a)
	}
}
