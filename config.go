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
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/centerline/geodesy"
	"github.com/spatialmodel/centerline/voronoi"
)

// BankDirection tells how the right bank is ordered relative to the
// left bank.
type BankDirection int

const (
	// Matching means both banks are listed upstream to downstream.
	Matching BankDirection = iota

	// Opposing means the right bank is listed downstream to upstream;
	// it is reversed before use.
	Opposing
)

func (b BankDirection) String() string {
	switch b {
	case Matching:
		return "Matching"
	case Opposing:
		return "Opposing"
	default:
		return fmt.Sprintf("BankDirection(%d)", int(b))
	}
}

// SlopeMode selects how the centerline direction at a vertex is found
// when casting a transect.
type SlopeMode int

const (
	// Average uses the mean tangent over a window of neighboring
	// centerline vertices.
	Average SlopeMode = iota

	// Direct uses the tangent of the adjacent centerline segments only.
	Direct
)

func (s SlopeMode) String() string {
	switch s {
	case Average:
		return "Average"
	case Direct:
		return "Direct"
	default:
		return fmt.Sprintf("SlopeMode(%d)", int(s))
	}
}

// CenterlineKind identifies one of the centerline representations.
type CenterlineKind int

// Centerline representations.
const (
	Voronoi CenterlineKind = iota
	EqualDistance
	EvenlySpaced
	Smoothed
)

// CenterlineKinds lists every centerline representation.
var CenterlineKinds = []CenterlineKind{Voronoi, EqualDistance, EvenlySpaced, Smoothed}

func (k CenterlineKind) String() string {
	switch k {
	case Voronoi:
		return "Voronoi"
	case EqualDistance:
		return "EqualDistance"
	case EvenlySpaced:
		return "EvenlySpaced"
	case Smoothed:
		return "Smoothed"
	default:
		return fmt.Sprintf("CenterlineKind(%d)", int(k))
	}
}

// ParseBankDirection parses a BankDirection name, ignoring case.
func ParseBankDirection(s string) (BankDirection, error) {
	for _, b := range []BankDirection{Matching, Opposing} {
		if strings.EqualFold(s, b.String()) {
			return b, nil
		}
	}
	return 0, fmt.Errorf("%w: bank direction %q is not Matching or Opposing", ErrInvalidConfig, s)
}

// ParseSlopeMode parses a SlopeMode name, ignoring case.
func ParseSlopeMode(s string) (SlopeMode, error) {
	for _, m := range []SlopeMode{Average, Direct} {
		if strings.EqualFold(s, m.String()) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: transect slope %q is not Average or Direct", ErrInvalidConfig, s)
}

// ParseCenterlineKind parses a CenterlineKind name, ignoring case.
func ParseCenterlineKind(s string) (CenterlineKind, error) {
	for _, k := range CenterlineKinds {
		if strings.EqualFold(s, k.String()) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: centerline type %q is not one of %v", ErrInvalidConfig, s, CenterlineKinds)
}

// Config holds the parameters of a river analysis.
type Config struct {
	// Ellipsoid is the name of the reference ellipsoid used for all
	// geodesic calculations.
	Ellipsoid string

	// BankDirection tells whether the right bank needs to be reversed.
	BankDirection BankDirection

	// InterpolateBanks, when true, inserts InterpolateN geodesically
	// interpolated points between each pair of consecutive bank points
	// before the polygon is built.
	InterpolateBanks bool
	InterpolateN     int

	// EqualDistance is the spacing [m] of the equal-distance centerline.
	EqualDistance float64

	// EvenlySpacedPoints is the number of points in the evenly-spaced
	// centerline. Zero means the larger of the two bank point counts
	// before interpolation.
	EvenlySpacedPoints int

	// SmoothingWindow is the number of points in the smoothing window
	// and SmoothingDegree the degree of the local polynomial fit.
	SmoothingWindow int
	SmoothingDegree int

	// TransectSpan is the half-length [m] of the width transects.
	// Zero sets it to three times the largest distance from a
	// centerline vertex to the nearest bank.
	TransectSpan float64

	TransectSlope SlopeMode

	// SlopeWindow is the number of centerline points averaged when
	// TransectSlope is Average.
	SlopeWindow int

	// WidthCenterline is the centerline representation the default
	// widths are measured along.
	WidthCenterline CenterlineKind

	// RemoveIntersections drops width records whose transects cross
	// another transect instead of only flagging them.
	RemoveIntersections bool

	// NumProcessors is the number of goroutines used for width
	// calculations. Zero means runtime.GOMAXPROCS(0).
	NumProcessors int

	// Diagrammer computes the Voronoi diagram of the bank points. Nil
	// means voronoi.Delaunay{}.
	Diagrammer voronoi.Diagrammer

	Log logrus.FieldLogger
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Ellipsoid:       "WGS84",
		BankDirection:   Matching,
		InterpolateN:    5,
		EqualDistance:   10,
		SmoothingWindow: 11,
		SmoothingDegree: 3,
		TransectSlope:   Average,
		SlopeWindow:     3,
		WidthCenterline: Smoothed,
	}
}

// Validate checks the configuration for bad values.
func (c *Config) Validate() error {
	if _, err := geodesy.Lookup(c.Ellipsoid); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	switch {
	case c.BankDirection != Matching && c.BankDirection != Opposing:
		return fmt.Errorf("%w: %v", ErrInvalidConfig, c.BankDirection)
	case c.InterpolateBanks && c.InterpolateN < 1:
		return fmt.Errorf("%w: InterpolateN must be at least 1 but is %d", ErrInvalidConfig, c.InterpolateN)
	case !(c.EqualDistance > 0):
		return fmt.Errorf("%w: EqualDistance must be positive but is %g", ErrInvalidConfig, c.EqualDistance)
	case c.EvenlySpacedPoints < 0:
		return fmt.Errorf("%w: EvenlySpacedPoints must not be negative but is %d", ErrInvalidConfig, c.EvenlySpacedPoints)
	case c.NumProcessors < 0:
		return fmt.Errorf("%w: NumProcessors must not be negative but is %d", ErrInvalidConfig, c.NumProcessors)
	}
	if err := validateSmoothing(c.SmoothingWindow, c.SmoothingDegree); err != nil {
		return err
	}
	return c.widthOptions().validate()
}

func validateSmoothing(window, degree int) error {
	switch {
	case degree < 0:
		return fmt.Errorf("%w: SmoothingDegree must not be negative but is %d", ErrInvalidConfig, degree)
	case window < 1 || window%2 == 0:
		return fmt.Errorf("%w: SmoothingWindow must be a positive odd number but is %d", ErrInvalidConfig, window)
	case window <= degree:
		return fmt.Errorf("%w: SmoothingWindow (%d) must be larger than SmoothingDegree (%d)", ErrInvalidConfig, window, degree)
	}
	return nil
}

func (c *Config) log() logrus.FieldLogger {
	if c.Log == nil {
		return logrus.StandardLogger()
	}
	return c.Log
}

func (c *Config) nprocs() int {
	if c.NumProcessors > 0 {
		return c.NumProcessors
	}
	return runtime.GOMAXPROCS(0)
}

func (c *Config) diagrammer() voronoi.Diagrammer {
	if c.Diagrammer == nil {
		return voronoi.Delaunay{}
	}
	return c.Diagrammer
}

func (c *Config) widthOptions() WidthOptions {
	return WidthOptions{
		Centerline:          c.WidthCenterline,
		Span:                c.TransectSpan,
		Slope:               c.TransectSlope,
		SlopeWindow:         c.SlopeWindow,
		RemoveIntersections: c.RemoveIntersections,
	}
}
