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
	"math"
	"testing"

	"github.com/ctessum/geom"
	"github.com/kr/pretty"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/centerline/geodesy"
)

var testOrigin = Coordinate{Lat: 45, Lon: -93}

// planarBanks converts planar bank positions [m] around testOrigin to
// coordinates.
func planarBanks(left, right []geom.Point) (l, r []Coordinate) {
	f := geodesy.NewFrame(testOrigin, geodesy.WGS84)
	return f.Coordinates(left), f.Coordinates(right)
}

// parallelBanks returns two straight banks 50 m apart with 20 points
// each, flowing east, with the left bank to the north.
func parallelBanks() (left, right []Coordinate) {
	var l, r []geom.Point
	for i := 0; i < 20; i++ {
		x := 10 * float64(i)
		l = append(l, geom.Point{X: x, Y: 50})
		r = append(r, geom.Point{X: x, Y: 0})
	}
	return planarBanks(l, r)
}

func quietConfig() *Config {
	c := DefaultConfig()
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	c.Log = log
	return c
}

func near(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestParallelBanks(t *testing.T) {
	left, right := parallelBanks()
	r, err := New(left, right, quietConfig())
	if err != nil {
		t.Fatal(err)
	}
	if !r.PolygonSimple {
		t.Error("polygon should be simple")
	}
	if !near(r.Area, 190*50, 0.5) {
		t.Errorf("area: want %g but have %g", 190.*50, r.Area)
	}
	if !near(r.LeftBankLength, 190, 1e-6) || !near(r.RightBankLength, 190, 1e-6) {
		t.Errorf("bank lengths: %g, %g", r.LeftBankLength, r.RightBankLength)
	}

	f := geodesy.NewFrame(testOrigin, geodesy.WGS84)
	poly := planarPolygon(r.PolygonRelative)
	for i, c := range r.CenterlineVoronoi {
		p := f.ToRelative(c)
		if !near(p.Y, 25, 1e-3) {
			t.Errorf("centerline point %d: want y=25 but have %+v", i, p)
		}
		if r.CenterlineVoronoiRelative[i].Within(poly) != geom.Inside {
			t.Errorf("centerline point %d is not inside the polygon", i)
		}
	}
	if !near(r.Length(Voronoi), 180, 1e-3) {
		t.Errorf("voronoi length: want 180 but have %g", r.Length(Voronoi))
	}
	if len(r.CenterlineEvenlySpaced) != 20 || len(r.CenterlineSmoothed) != 20 {
		t.Errorf("want 20 evenly spaced and smoothed points but have %d and %d",
			len(r.CenterlineEvenlySpaced), len(r.CenterlineSmoothed))
	}
	if len(r.CenterlineEqualDistance) != 19 {
		t.Errorf("want 19 equal-distance points but have %d", len(r.CenterlineEqualDistance))
	}

	if len(r.Width) != 20 {
		t.Fatalf("want 20 width records but have %d", len(r.Width))
	}
	for _, w := range r.Width {
		if !w.Valid || w.Ambiguous || w.NoIntersection || w.Crossing {
			t.Errorf("record %d should be valid and unflagged: %# v", w.Index, pretty.Formatter(w))
			continue
		}
		if !near(w.Width, 50, 1e-3) || !near(w.LeftDistance, 25, 1e-3) || !near(w.RightDistance, 25, 1e-3) {
			t.Errorf("record %d: want 25+25=50 but have %g+%g=%g", w.Index, w.LeftDistance, w.RightDistance, w.Width)
		}
		if w.Width != w.LeftDistance+w.RightDistance {
			t.Errorf("record %d: width is not the sum of its sides", w.Index)
		}
		if lp := f.ToRelative(w.Left); !near(lp.Y, 50, 1e-3) {
			t.Errorf("record %d: left intersection %+v is not on the left bank", w.Index, lp)
		}
	}
}

func TestRelativeFromOneFrame(t *testing.T) {
	left, right := parallelBanks()
	r, err := New(left, right, quietConfig())
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range CenterlineKinds {
		want := r.Frame.Sequence(r.Centerline(k))
		have := r.CenterlineRelative(k)
		if diff := pretty.Diff(want, have); len(diff) != 0 {
			t.Errorf("%v: %v", k, diff)
		}
	}
	if r.Frame.Origin != r.LeftBank[0] {
		t.Errorf("frame origin %v is not the first left bank point %v", r.Frame.Origin, r.LeftBank[0])
	}
}

func TestNoCenterlinePath(t *testing.T) {
	left, right := planarBanks(
		[]geom.Point{{X: 40, Y: 1}, {X: 60, Y: 1}},
		[]geom.Point{{X: 0, Y: 0}, {X: 100, Y: 0}},
	)
	_, err := New(left, right, quietConfig())
	if !errors.Is(err, ErrNoCenterlinePath) {
		t.Errorf("want ErrNoCenterlinePath but have %v", err)
	}
}

func TestInvalidInput(t *testing.T) {
	left, right := parallelBanks()
	tests := []struct {
		name        string
		left, right []Coordinate
		want        error
	}{
		{name: "short left", left: left[:1], right: right, want: ErrInvalidInput},
		{name: "empty right", left: left, right: nil, want: ErrInvalidInput},
		{name: "NaN", left: append([]Coordinate{{Lat: math.NaN(), Lon: 0}}, left...), right: right, want: ErrInvalidInput},
		{name: "out of range", left: left, right: append([]Coordinate{{Lat: 91, Lon: 0}}, right...), want: ErrInvalidInput},
		{name: "swapped direction", left: left, right: reversed(right), want: ErrInvalidInput},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := New(test.left, test.right, quietConfig())
			if !errors.Is(err, test.want) {
				t.Errorf("want %v but have %v", test.want, err)
			}
		})
	}
}

func TestInvalidEllipsoid(t *testing.T) {
	left, right := parallelBanks()
	c := quietConfig()
	c.Ellipsoid = "nope"
	_, err := New(left, right, c)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("want ErrInvalidConfig but have %v", err)
	}
	var ie InvalidEllipsoidError
	if !errors.As(err, &ie) || ie.Name != "nope" {
		t.Errorf("want InvalidEllipsoidError for \"nope\" but have %v", err)
	}
}

func TestOpposingBankDirection(t *testing.T) {
	left, right := parallelBanks()
	want, err := New(left, right, quietConfig())
	if err != nil {
		t.Fatal(err)
	}
	c := quietConfig()
	c.BankDirection = Opposing
	have, err := New(left, reversed(right), c)
	if err != nil {
		t.Fatal(err)
	}
	if diff := pretty.Diff(want.CenterlineVoronoi, have.CenterlineVoronoi); len(diff) != 0 {
		t.Error(diff)
	}
}

func TestInterpolatedBanks(t *testing.T) {
	left, right := parallelBanks()
	c := quietConfig()
	c.InterpolateBanks = true
	c.InterpolateN = 1
	r, err := New(left, right, c)
	if err != nil {
		t.Fatal(err)
	}
	if len(r.LeftBank) != 39 || len(r.RightBank) != 39 {
		t.Errorf("want 39 points per bank but have %d and %d", len(r.LeftBank), len(r.RightBank))
	}
	// Interpolation does not change the default evenly spaced count.
	if len(r.CenterlineEvenlySpaced) != 20 {
		t.Errorf("want 20 evenly spaced points but have %d", len(r.CenterlineEvenlySpaced))
	}
	for _, w := range r.Width {
		if w.Valid && !near(w.Width, 50, 1e-3) {
			t.Errorf("record %d: want width 50 but have %g", w.Index, w.Width)
		}
	}
}

func TestWidthsOnDemand(t *testing.T) {
	left, right := parallelBanks()
	r, err := New(left, right, quietConfig())
	if err != nil {
		t.Fatal(err)
	}
	before := append([]WidthRecord(nil), r.Width...)
	w, err := r.Widths(WidthOptions{Centerline: EqualDistance, Slope: Direct, SlopeWindow: 1, Span: 100})
	if err != nil {
		t.Fatal(err)
	}
	if len(w) != len(r.CenterlineEqualDistance) {
		t.Errorf("want %d records but have %d", len(r.CenterlineEqualDistance), len(w))
	}
	for _, rec := range w {
		if !rec.Valid || !near(rec.Width, 50, 1e-3) {
			t.Errorf("record %d: %# v", rec.Index, pretty.Formatter(rec))
		}
	}
	if diff := pretty.Diff(before, r.Width); len(diff) != 0 {
		t.Errorf("Widths modified the river: %v", diff)
	}

	// A short span misses both banks.
	w, err = r.Widths(WidthOptions{Centerline: Voronoi, Slope: Average, SlopeWindow: 3, Span: 5})
	if err != nil {
		t.Fatal(err)
	}
	for _, rec := range w {
		if rec.Valid || !rec.NoIntersection || !math.IsNaN(rec.Width) {
			t.Errorf("record %d should be invalid: %# v", rec.Index, pretty.Formatter(rec))
		}
	}

	if _, err = r.Widths(WidthOptions{Span: -1, SlopeWindow: 3}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("want ErrInvalidConfig but have %v", err)
	}
}

func TestSmoothIdempotent(t *testing.T) {
	left, right := parallelBanks()
	r, err := New(left, right, quietConfig())
	if err != nil {
		t.Fatal(err)
	}
	a, err := r.Smooth(r.Config.SmoothingWindow, r.Config.SmoothingDegree)
	if err != nil {
		t.Fatal(err)
	}
	b, err := r.Smooth(r.Config.SmoothingWindow, r.Config.SmoothingDegree)
	if err != nil {
		t.Fatal(err)
	}
	if diff := pretty.Diff(a, b); len(diff) != 0 {
		t.Error(diff)
	}
	if diff := pretty.Diff(a, r.CenterlineSmoothed); len(diff) != 0 {
		t.Error(diff)
	}
}

// arcBanks returns the banks of a channel bending three quarters of the
// way around a point, flowing counterclockwise with the inner bank of
// radius 100 m on the left and the outer bank of radius 140 m on the
// right. A radial line through a vertex on one side of the bend also
// meets both banks on the opposite side.
func arcBanks() (left, right []Coordinate) {
	var l, r []geom.Point
	for deg := 0; deg <= 270; deg += 5 {
		a := float64(deg) * math.Pi / 180
		l = append(l, geom.Point{X: 100 * math.Cos(a), Y: 100 * math.Sin(a)})
		r = append(r, geom.Point{X: 140 * math.Cos(a), Y: 140 * math.Sin(a)})
	}
	return planarBanks(l, r)
}

func TestCurvedChannel(t *testing.T) {
	left, right := arcBanks()
	r, err := New(left, right, quietConfig())
	if err != nil {
		t.Fatal(err)
	}
	if !r.PolygonSimple {
		t.Error("polygon should be simple")
	}
	// The sector polygons cover sin(5°)/5° of the true annulus sector.
	want := 0.75 * math.Pi * (140*140 - 100*100) * math.Sin(5*math.Pi/180) / (5 * math.Pi / 180)
	if !near(r.Area, want, want*0.005) {
		t.Errorf("area: want %g but have %g", want, r.Area)
	}

	poly := planarPolygon(r.PolygonRelative)
	for i, p := range r.CenterlineVoronoiRelative {
		if p.Within(poly) != geom.Inside {
			t.Errorf("voronoi centerline point %d %+v is not inside the polygon", i, p)
		}
	}
	f := geodesy.NewFrame(testOrigin, geodesy.WGS84)
	for i, c := range r.CenterlineSmoothed {
		p := f.ToRelative(c)
		if rad := math.Hypot(p.X, p.Y); rad <= 100 || rad >= 140 {
			t.Errorf("smoothed point %d at radius %g is outside the channel", i, rad)
		}
	}

	n := len(r.Width)
	if n != len(r.CenterlineSmoothed) {
		t.Fatalf("want %d width records but have %d", len(r.CenterlineSmoothed), n)
	}
	for _, w := range r.Width {
		if w.Ambiguous {
			t.Errorf("record %d should not reach the far side of the bend: %# v", w.Index, pretty.Formatter(w))
		}
		if w.Index < 3 || w.Index >= n-3 {
			continue
		}
		if !w.Valid {
			t.Errorf("record %d should be valid: %# v", w.Index, pretty.Formatter(w))
			continue
		}
		if !near(w.Width, 40, 1.5) {
			t.Errorf("record %d: want width about 40 but have %g", w.Index, w.Width)
		}
	}

	// A transect long enough to cross the bend meets both banks twice.
	wide, err := r.Widths(WidthOptions{Centerline: Smoothed, Slope: Average, SlopeWindow: 3, Span: 400})
	if err != nil {
		t.Fatal(err)
	}
	var ambiguous int
	for _, w := range wide {
		if w.Ambiguous {
			ambiguous++
		}
	}
	if ambiguous == 0 {
		t.Error("transects spanning the bend should be ambiguous")
	}
}

func TestWidthsCached(t *testing.T) {
	left, right := parallelBanks()
	r, err := New(left, right, quietConfig())
	if err != nil {
		t.Fatal(err)
	}
	o := r.Config.widthOptions()
	a, err := r.Widths(o)
	if err != nil {
		t.Fatal(err)
	}
	if diff := pretty.Diff(r.Width, a); len(diff) != 0 {
		t.Errorf("cached widths differ: %v", diff)
	}
	if r.widthCache.Len() != 1 {
		t.Errorf("want 1 cached option set but have %d", r.widthCache.Len())
	}
	a[0].Width = -1
	b, err := r.Widths(o)
	if err != nil {
		t.Fatal(err)
	}
	if b[0].Width == -1 || r.Width[0].Width == -1 {
		t.Error("changing returned widths changed the cache")
	}

	o.Slope = Direct
	if _, err := r.Widths(o); err != nil {
		t.Fatal(err)
	}
	if r.widthCache.Len() != 2 {
		t.Errorf("want 2 cached option sets but have %d", r.widthCache.Len())
	}
}
