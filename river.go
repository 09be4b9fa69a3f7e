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

// Package centerline extracts the centerline of a river channel from
// its left and right bank coordinates and measures the channel width
// along it.
//
// The bank points are joined into a bounding polygon, the Voronoi
// diagram of the bank points is computed, and the Voronoi ridges lying
// inside the polygon form a graph whose shortest path between the
// upstream and downstream ends of the channel is the centerline. The
// centerline is then resampled and smoothed, and widths are measured
// along transects perpendicular to it.
package centerline

import (
	"fmt"
	"sync"

	"github.com/ctessum/geom"
	"github.com/golang/groupcache/lru"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/centerline/geodesy"
	"github.com/spatialmodel/centerline/internal/hash"
	"github.com/spatialmodel/centerline/voronoi"
)

// widthCacheSize is the number of width option sets a River keeps
// measurements for.
const widthCacheSize = 16

// River holds the results of a centerline analysis. All fields are
// computed by New and must not be modified.
type River struct {
	Config    Config
	Ellipsoid *geodesy.Ellipsoid

	// Frame is the relative plane anchored at the first left bank point.
	// Every relative-plane field below is produced by it.
	Frame *geodesy.Frame

	LeftBank, RightBank                 []Coordinate
	LeftBankRelative, RightBankRelative []geom.Point
	LeftBankLength, RightBankLength     float64

	Polygon         *Polygon
	PolygonRelative []geom.Point

	// PolygonSimple is false if the bank polygon intersects itself, in
	// which case the area and widths are approximate.
	PolygonSimple bool

	// Area [m²] enclosed by the bank polygon.
	Area float64

	// Diagram is the Voronoi diagram of the bank points in the relative
	// plane, and VoronoiVertices are its vertices in decimal degrees.
	Diagram         *voronoi.Diagram
	VoronoiVertices []Coordinate

	Graph *Graph

	StartNode, EndNode                 Coordinate
	StartNodeRelative, EndNodeRelative geom.Point

	CenterlineVoronoi       []Coordinate
	CenterlineEqualDistance []Coordinate
	CenterlineEvenlySpaced  []Coordinate
	CenterlineSmoothed      []Coordinate

	CenterlineVoronoiRelative       []geom.Point
	CenterlineEqualDistanceRelative []geom.Point
	CenterlineEvenlySpacedRelative  []geom.Point
	CenterlineSmoothedRelative      []geom.Point

	// Width holds the widths measured with the options in Config.
	Width []WidthRecord

	lengths [4]float64

	// inputPoints is the larger bank point count before interpolation.
	inputPoints int

	widthMu    sync.Mutex
	widthCache *lru.Cache
}

// New runs the centerline analysis on the given banks. A nil config
// means DefaultConfig().
func New(left, right []Coordinate, config *Config) (*River, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if err := validateBank("left", left); err != nil {
		return nil, err
	}
	if err := validateBank("right", right); err != nil {
		return nil, err
	}
	r := &River{Config: *config}
	log := r.Config.log()
	r.Ellipsoid = geodesy.MustLookup(r.Config.Ellipsoid)

	r.LeftBank = append([]Coordinate(nil), left...)
	r.RightBank = append([]Coordinate(nil), right...)
	if r.Config.BankDirection == Opposing {
		r.RightBank = reversed(r.RightBank)
	}
	r.inputPoints = max(len(r.LeftBank), len(r.RightBank))
	if r.Config.InterpolateBanks {
		r.LeftBank = InterpolateBank(r.LeftBank, r.Config.InterpolateN, r.Ellipsoid)
		r.RightBank = InterpolateBank(r.RightBank, r.Config.InterpolateN, r.Ellipsoid)
	}

	r.Frame = geodesy.NewFrame(r.LeftBank[0], r.Ellipsoid)
	r.LeftBankRelative = r.Frame.Sequence(r.LeftBank)
	r.RightBankRelative = r.Frame.Sequence(r.RightBank)
	if err := checkBankOrder(r.LeftBankRelative, r.RightBankRelative); err != nil {
		return nil, err
	}
	r.LeftBankLength = r.Ellipsoid.Length(r.LeftBank)
	r.RightBankLength = r.Ellipsoid.Length(r.RightBank)
	log.WithFields(logrus.Fields{
		"leftPoints":  len(r.LeftBank),
		"rightPoints": len(r.RightBank),
		"leftLength":  r.LeftBankLength,
		"rightLength": r.RightBankLength,
		"ellipsoid":   r.Ellipsoid.Name,
	}).Info("centerline: loaded banks")

	if err := r.buildPolygon(log); err != nil {
		return nil, err
	}
	if err := r.buildGraph(log); err != nil {
		return nil, err
	}
	if err := r.findCenterline(log); err != nil {
		return nil, err
	}
	if err := r.resample(log); err != nil {
		return nil, err
	}
	w, err := r.Widths(r.Config.widthOptions())
	if err != nil {
		return nil, err
	}
	r.Width = w
	return r, nil
}

func (r *River) buildPolygon(log logrus.FieldLogger) error {
	r.Polygon = NewPolygon(r.LeftBank, r.RightBank)
	r.PolygonRelative = r.Frame.Sequence(r.Polygon.Ring)
	r.Area = r.Ellipsoid.PolygonArea(r.Polygon.Ring)
	n := selfIntersections(r.PolygonRelative)
	r.PolygonSimple = n == 0
	fields := logrus.Fields{
		"points": len(r.Polygon.Ring),
		"area":   r.Area,
	}
	if n > 0 {
		log.WithFields(fields).WithField("selfIntersections", n).
			Warn("centerline: bank polygon intersects itself; area and widths are approximate")
	}
	log.WithFields(fields).Info("centerline: built bank polygon")
	return nil
}

func (r *River) buildGraph(log logrus.FieldLogger) error {
	points := make([]geom.Point, 0, len(r.LeftBankRelative)+len(r.RightBankRelative))
	points = append(points, r.LeftBankRelative...)
	points = append(points, r.RightBankRelative...)
	d, err := r.Config.diagrammer().Diagram(points)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNoCenterlinePath, err)
	}
	r.Diagram = d
	r.VoronoiVertices = r.Frame.Coordinates(d.Vertices)

	g, err := buildGraph(d, planarPolygon(r.PolygonRelative), r.PolygonRelative, r.Frame)
	if err != nil {
		return err
	}
	r.Graph = g
	log.WithFields(logrus.Fields{
		"vertices":   len(d.Vertices),
		"ridges":     len(d.Ridges),
		"nodes":      g.NumNodes(),
		"edges":      g.NumEdges(),
		"components": g.NumComponents(),
	}).Info("centerline: built centerline graph")
	return nil
}

func (r *River) findCenterline(log logrus.FieldLogger) error {
	top := [2]geom.Point{r.LeftBankRelative[0], r.RightBankRelative[0]}
	bottom := [2]geom.Point{r.LeftBankRelative[len(r.LeftBankRelative)-1], r.RightBankRelative[len(r.RightBankRelative)-1]}
	rt, err := findRoute(r.Graph, top, bottom)
	if err != nil {
		return err
	}
	r.StartNode = r.Graph.Coordinate(rt.start)
	r.EndNode = r.Graph.Coordinate(rt.end)
	r.StartNodeRelative = r.Graph.Relative(rt.start)
	r.EndNodeRelative = r.Graph.Relative(rt.end)
	r.CenterlineVoronoi = make([]Coordinate, len(rt.nodes))
	for i, id := range rt.nodes {
		r.CenterlineVoronoi[i] = r.Graph.Coordinate(id)
	}
	log.WithFields(logrus.Fields{
		"start":  r.StartNode.String(),
		"end":    r.EndNode.String(),
		"points": len(rt.nodes),
		"length": rt.weight,
	}).Info("centerline: found centerline path")
	return nil
}

func (r *River) resample(log logrus.FieldLogger) error {
	var err error
	r.CenterlineEqualDistance, err = ResampleEqualDistance(r.CenterlineVoronoi, r.Config.EqualDistance, r.Ellipsoid)
	if err != nil {
		return err
	}
	n := r.Config.EvenlySpacedPoints
	if n == 0 {
		n = r.inputPoints
	}
	r.CenterlineEvenlySpaced, err = ResampleEvenlySpaced(r.CenterlineVoronoi, n, r.Ellipsoid)
	if err != nil {
		return err
	}
	r.CenterlineVoronoiRelative = r.Frame.Sequence(r.CenterlineVoronoi)
	r.CenterlineEqualDistanceRelative = r.Frame.Sequence(r.CenterlineEqualDistance)
	r.CenterlineEvenlySpacedRelative = r.Frame.Sequence(r.CenterlineEvenlySpaced)

	smoothed, err := Smooth(r.CenterlineEvenlySpacedRelative, r.Config.SmoothingWindow, r.Config.SmoothingDegree)
	if err != nil {
		return err
	}
	r.CenterlineSmoothed = r.Frame.Coordinates(smoothed)
	// Keep the ends exact rather than round-tripped through the plane.
	r.CenterlineSmoothed[0] = r.CenterlineEvenlySpaced[0]
	r.CenterlineSmoothed[len(smoothed)-1] = r.CenterlineEvenlySpaced[len(smoothed)-1]
	r.CenterlineSmoothedRelative = r.Frame.Sequence(r.CenterlineSmoothed)

	for _, k := range CenterlineKinds {
		r.lengths[k] = r.Ellipsoid.Length(r.Centerline(k))
	}
	log.WithFields(logrus.Fields{
		"voronoiLength":       r.lengths[Voronoi],
		"equalDistancePoints": len(r.CenterlineEqualDistance),
		"evenlySpacedPoints":  len(r.CenterlineEvenlySpaced),
		"smoothedLength":      r.lengths[Smoothed],
	}).Info("centerline: resampled centerline")
	return nil
}

// Centerline returns the centerline representation of kind k in decimal
// degrees.
func (r *River) Centerline(k CenterlineKind) []Coordinate {
	switch k {
	case Voronoi:
		return r.CenterlineVoronoi
	case EqualDistance:
		return r.CenterlineEqualDistance
	case EvenlySpaced:
		return r.CenterlineEvenlySpaced
	case Smoothed:
		return r.CenterlineSmoothed
	}
	return nil
}

// CenterlineRelative returns the centerline representation of kind k in
// the relative plane.
func (r *River) CenterlineRelative(k CenterlineKind) []geom.Point {
	switch k {
	case Voronoi:
		return r.CenterlineVoronoiRelative
	case EqualDistance:
		return r.CenterlineEqualDistanceRelative
	case EvenlySpaced:
		return r.CenterlineEvenlySpacedRelative
	case Smoothed:
		return r.CenterlineSmoothedRelative
	}
	return nil
}

// Length returns the geodesic length [m] of centerline representation k.
func (r *River) Length(k CenterlineKind) float64 {
	if k < Voronoi || k > Smoothed {
		return 0
	}
	return r.lengths[k]
}

// Widths measures channel widths with the given options. Measurements
// are cached by options, and each call returns a new slice.
func (r *River) Widths(o WidthOptions) ([]WidthRecord, error) {
	if err := o.validate(); err != nil {
		return nil, err
	}
	key := hash.Hash(o)
	r.widthMu.Lock()
	if r.widthCache == nil {
		r.widthCache = lru.New(widthCacheSize)
	}
	v, ok := r.widthCache.Get(key)
	r.widthMu.Unlock()
	if ok {
		r.Config.log().WithField("centerline", o.Centerline.String()).Debug("centerline: reusing widths")
		return append([]WidthRecord(nil), v.([]WidthRecord)...), nil
	}

	rel := r.CenterlineRelative(o.Centerline)
	e := newWidthEngine(r.Frame, r.LeftBankRelative, r.RightBankRelative, rel, o)
	w := measureWidths(e, r.Centerline(o.Centerline), rel, r.Config.nprocs(), r.Config.log())

	r.widthMu.Lock()
	r.widthCache.Add(key, w)
	r.widthMu.Unlock()
	return append([]WidthRecord(nil), w...), nil
}

// Smooth recomputes the smoothed centerline from the evenly spaced one
// with a different window and degree, without modifying r.
func (r *River) Smooth(window, degree int) ([]Coordinate, error) {
	s, err := Smooth(r.CenterlineEvenlySpacedRelative, window, degree)
	if err != nil {
		return nil, err
	}
	out := r.Frame.Coordinates(s)
	out[0] = r.CenterlineEvenlySpaced[0]
	out[len(out)-1] = r.CenterlineEvenlySpaced[len(out)-1]
	return out, nil
}
