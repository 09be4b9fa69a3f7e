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
	"sync"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/index/rtree"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/centerline/geodesy"
)

// WidthOptions holds the width measurement settings.
type WidthOptions struct {
	// Centerline is the centerline representation to measure along.
	Centerline CenterlineKind

	// Span is the half-length [m] of each transect. Zero means
	// autoSpanFactor times the largest distance from a centerline vertex
	// to its nearest point on either bank.
	Span float64

	Slope SlopeMode

	// SlopeWindow is the number of centerline points whose segment
	// directions are averaged when Slope is Average.
	SlopeWindow int

	// RemoveIntersections drops records whose transects cross another
	// transect. Otherwise they are only flagged.
	RemoveIntersections bool
}

func (o WidthOptions) validate() error {
	switch {
	case o.Centerline < Voronoi || o.Centerline > Smoothed:
		return fmt.Errorf("%w: %v", ErrInvalidConfig, o.Centerline)
	case o.Slope != Average && o.Slope != Direct:
		return fmt.Errorf("%w: %v", ErrInvalidConfig, o.Slope)
	case o.Span < 0 || math.IsNaN(o.Span) || math.IsInf(o.Span, 0):
		return fmt.Errorf("%w: transect span must be a non-negative number but is %g", ErrInvalidConfig, o.Span)
	case o.SlopeWindow < 1:
		return fmt.Errorf("%w: slope window must be at least 1 but is %d", ErrInvalidConfig, o.SlopeWindow)
	}
	return nil
}

// WidthRecord is the width measurement at one centerline vertex.
type WidthRecord struct {
	// Index is the position of the vertex in the centerline.
	Index int

	Centerline         Coordinate
	CenterlineRelative geom.Point

	// Left and Right are where the transect meets each bank. They are
	// NaN when the bank was not met.
	Left, Right                 Coordinate
	LeftRelative, RightRelative geom.Point

	// LeftDistance and RightDistance [m] are the geodesic distances from
	// the vertex to the bank intersections, and Width is their sum.
	// All three are NaN for records that are not Valid.
	LeftDistance, RightDistance, Width float64

	// Valid is true when the transect met both banks.
	Valid bool

	// Ambiguous is set when the transect met a bank more than once;
	// the intersection nearest the vertex is used.
	Ambiguous bool

	// NoIntersection is set when the transect missed a bank within its
	// span.
	NoIntersection bool

	// Crossing is set when the measured part of the transect crosses the
	// measured part of another transect.
	Crossing bool
}

var nan = math.NaN()

func invalidCoordinate() Coordinate { return Coordinate{Lat: nan, Lon: nan} }

// widthEngine measures widths along one centerline.
type widthEngine struct {
	frame       *geodesy.Frame
	left, right *rtree.Rtree
	span        float64
	opts        WidthOptions
}

// autoSpanFactor scales the largest nearest-bank distance into the
// default transect span. It leaves room for transects that meet the
// banks obliquely without reaching distant meander loops.
const autoSpanFactor = 3

// newWidthEngine returns an engine for the banks left and right. The
// relative centerline cl sets the span when o.Span is zero.
func newWidthEngine(frame *geodesy.Frame, left, right, cl []geom.Point, o WidthOptions) *widthEngine {
	e := &widthEngine{
		frame: frame,
		left:  segmentIndex(left),
		right: segmentIndex(right),
		span:  o.Span,
		opts:  o,
	}
	if e.span == 0 {
		e.span = e.autoSpan(cl)
	}
	return e
}

func (e *widthEngine) autoSpan(cl []geom.Point) float64 {
	var reach float64
	for _, v := range cl {
		for _, bank := range []*rtree.Rtree{e.left, e.right} {
			if d := nearestDistance(v, bank); d > reach {
				reach = d
			}
		}
	}
	return autoSpanFactor * reach
}

// measureWidths returns one record per centerline vertex, in order,
// unless RemoveIntersections drops some.
func measureWidths(e *widthEngine, cl []Coordinate, rel []geom.Point, nprocs int, log logrus.FieldLogger) []WidthRecord {
	records := make([]WidthRecord, len(cl))

	var wg sync.WaitGroup
	wg.Add(nprocs)
	for pp := 0; pp < nprocs; pp++ {
		go func(pp int) {
			for ii := pp; ii < len(cl); ii += nprocs {
				records[ii] = e.measure(ii, cl, rel)
			}
			wg.Done()
		}(pp)
	}
	wg.Wait()

	crossing := flagCrossings(records)

	var ambiguous, missing int
	for _, r := range records {
		if r.Ambiguous {
			ambiguous++
		}
		if r.NoIntersection {
			missing++
		}
		log.WithFields(logrus.Fields{
			"index": r.Index,
			"left":  r.LeftDistance,
			"right": r.RightDistance,
			"valid": r.Valid,
		}).Debug("centerline: width")
	}
	fields := logrus.Fields{
		"centerline":     e.opts.Centerline.String(),
		"points":         len(records),
		"ambiguous":      ambiguous,
		"noIntersection": missing,
		"crossing":       crossing,
		"span":           e.span,
	}
	if ambiguous > 0 || missing > 0 || crossing > 0 {
		log.WithFields(fields).Warn("centerline: some widths are degraded")
	}

	if e.opts.RemoveIntersections && crossing > 0 {
		kept := records[:0]
		for _, r := range records {
			if !r.Crossing {
				kept = append(kept, r)
			}
		}
		records = kept
	}
	fields["records"] = len(records)
	log.WithFields(fields).Info("centerline: measured widths")
	return records
}

func (e *widthEngine) measure(i int, cl []Coordinate, rel []geom.Point) WidthRecord {
	r := WidthRecord{
		Index:              i,
		Centerline:         cl[i],
		CenterlineRelative: rel[i],
		Left:               invalidCoordinate(),
		Right:              invalidCoordinate(),
		LeftRelative:       geom.Point{X: nan, Y: nan},
		RightRelative:      geom.Point{X: nan, Y: nan},
		LeftDistance:       nan,
		RightDistance:      nan,
		Width:              nan,
	}
	t, ok := tangent(rel, i, e.opts.Slope, e.opts.SlopeWindow)
	if !ok {
		r.NoIntersection = true
		return r
	}
	v := rel[i]
	n := geom.Point{X: -t.Y, Y: t.X}
	p1 := geom.Point{X: v.X - e.span*n.X, Y: v.Y - e.span*n.Y}
	p2 := geom.Point{X: v.X + e.span*n.X, Y: v.Y + e.span*n.Y}

	lp, lAmb, lok := nearestCrossing(p1, p2, v, e.left)
	rp, rAmb, rok := nearestCrossing(p1, p2, v, e.right)
	r.Ambiguous = lAmb || rAmb
	if lok {
		r.LeftRelative = lp
		r.Left = e.frame.FromRelative(lp)
		r.LeftDistance = e.frame.Ellipsoid.Distance(cl[i], r.Left)
	}
	if rok {
		r.RightRelative = rp
		r.Right = e.frame.FromRelative(rp)
		r.RightDistance = e.frame.Ellipsoid.Distance(cl[i], r.Right)
	}
	if !lok || !rok {
		r.NoIntersection = true
		r.LeftDistance, r.RightDistance = nan, nan
		return r
	}
	r.Width = r.LeftDistance + r.RightDistance
	r.Valid = true
	return r
}

type bankHit struct {
	p     geom.Point
	d     float64
	index int
}

// nearestCrossing returns the intersection of transect p1-p2 with the
// bank nearest to v. Equidistant intersections are resolved in favor of
// the lowest bank segment index. ambiguous is true if the transect meets
// the bank at more than one distinct point.
func nearestCrossing(p1, p2, v geom.Point, bank *rtree.Rtree) (p geom.Point, ambiguous, ok bool) {
	var hits []bankHit
	for _, g := range bank.SearchIntersect(geom.LineString{p1, p2}.Bounds()) {
		s := g.(*segment)
		pt, _, met := intersection(p1, p2, s.a(), s.b())
		if !met {
			continue
		}
		hits = append(hits, bankHit{p: pt, d: dist(pt, v), index: s.index})
	}
	if len(hits) == 0 {
		return geom.Point{}, false, false
	}
	// Hits within tol of each other are the same crossing, as happens
	// when the transect passes through a shared bank vertex.
	const tol = 1e-9
	best := hits[0]
	for _, h := range hits[1:] {
		if h.d < best.d-tol || (h.d <= best.d+tol && h.index < best.index) {
			best = h
		}
	}
	distinct := 1
	for _, h := range hits {
		if dist(h.p, best.p) > tol {
			distinct++
		}
	}
	return best.p, distinct > 1, true
}

// tangent returns the unit direction of the centerline at vertex i.
func tangent(ps []geom.Point, i int, mode SlopeMode, window int) (geom.Point, bool) {
	n := len(ps)
	if n < 2 {
		return geom.Point{}, false
	}
	var tx, ty float64
	switch mode {
	case Direct:
		j := i
		if j == n-1 {
			j = n - 2
		}
		tx, ty = ps[j+1].X-ps[j].X, ps[j+1].Y-ps[j].Y
		if tx == 0 && ty == 0 {
			lo, hi := max(i-1, 0), min(i+1, n-1)
			tx, ty = ps[hi].X-ps[lo].X, ps[hi].Y-ps[lo].Y
		}
	default:
		h := window / 2
		if h < 1 {
			h = 1
		}
		lo, hi := max(i-h, 0), min(i+h, n-1)
		for k := lo; k < hi; k++ {
			dx, dy := ps[k+1].X-ps[k].X, ps[k+1].Y-ps[k].Y
			if l := math.Hypot(dx, dy); l > 0 {
				tx += dx / l
				ty += dy / l
			}
		}
	}
	l := math.Hypot(tx, ty)
	if l == 0 || math.IsNaN(l) {
		return geom.Point{}, false
	}
	return geom.Point{X: tx / l, Y: ty / l}, true
}

// flagCrossings sets Crossing on valid records whose measured transects
// cross one another and returns the number flagged.
func flagCrossings(records []WidthRecord) int {
	index := rtree.NewTree(25, 50)
	for i, r := range records {
		if r.Valid {
			index.Insert(newSegment(r.LeftRelative, r.RightRelative, i))
		}
	}
	for i, r := range records {
		if !r.Valid {
			continue
		}
		a, b := r.LeftRelative, r.RightRelative
		for _, g := range index.SearchIntersect(geom.LineString{a, b}.Bounds()) {
			s := g.(*segment)
			if s.index <= i {
				continue
			}
			if crosses(a, b, s.a(), s.b()) {
				records[i].Crossing = true
				records[s.index].Crossing = true
			}
		}
	}
	var count int
	for _, r := range records {
		if r.Crossing {
			count++
		}
	}
	return count
}
