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

package centerlineutil

import (
	"io"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/spatialmodel/centerline"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary holds summary statistics of a river analysis.
type Summary struct {
	Version   string
	Ellipsoid string

	LeftBankPoints, RightBankPoints int
	LeftBankLength, RightBankLength float64 // [m]

	Area          float64 // [m²]
	PolygonSimple bool

	GraphNodes, GraphEdges int

	// Start and End are the centerline end points as [latitude, longitude].
	Start, End [2]float64

	// CenterlineLength [m] and CenterlinePoints are keyed by centerline
	// representation.
	CenterlineLength map[string]float64
	CenterlinePoints map[string]int

	Width WidthSummary
}

// WidthSummary holds statistics of the valid width records. The
// statistics are zero when there are no valid records.
type WidthSummary struct {
	Centerline string

	Records, Valid, Ambiguous, NoIntersection, Crossing int

	Mean, StdDev, Min, Median, Max float64 // [m]
}

// NewSummary computes summary statistics for r.
func NewSummary(r *centerline.River) *Summary {
	s := &Summary{
		Version:          centerline.Version,
		Ellipsoid:        r.Ellipsoid.Name,
		LeftBankPoints:   len(r.LeftBank),
		RightBankPoints:  len(r.RightBank),
		LeftBankLength:   r.LeftBankLength,
		RightBankLength:  r.RightBankLength,
		Area:             r.Area,
		PolygonSimple:    r.PolygonSimple,
		GraphNodes:       r.Graph.NumNodes(),
		GraphEdges:       r.Graph.NumEdges(),
		Start:            [2]float64{r.StartNode.Lat, r.StartNode.Lon},
		End:              [2]float64{r.EndNode.Lat, r.EndNode.Lon},
		CenterlineLength: make(map[string]float64),
		CenterlinePoints: make(map[string]int),
	}
	for _, k := range centerline.CenterlineKinds {
		s.CenterlineLength[k.String()] = r.Length(k)
		s.CenterlinePoints[k.String()] = len(r.Centerline(k))
	}
	s.Width = summarizeWidths(r.Width)
	s.Width.Centerline = r.Config.WidthCenterline.String()
	return s
}

func summarizeWidths(records []centerline.WidthRecord) WidthSummary {
	var ws WidthSummary
	ws.Records = len(records)
	var widths []float64
	for _, w := range records {
		if w.Valid {
			ws.Valid++
			widths = append(widths, w.Width)
		}
		if w.Ambiguous {
			ws.Ambiguous++
		}
		if w.NoIntersection {
			ws.NoIntersection++
		}
		if w.Crossing {
			ws.Crossing++
		}
	}
	if len(widths) == 0 {
		return ws
	}
	sort.Float64s(widths)
	ws.Mean, ws.StdDev = stat.MeanStdDev(widths, nil)
	if len(widths) == 1 {
		ws.StdDev = 0
	}
	ws.Min = floats.Min(widths)
	ws.Max = floats.Max(widths)
	ws.Median = stat.Quantile(0.5, stat.Empirical, widths, nil)
	return ws
}

// Write writes s to w in TOML format.
func (s *Summary) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(s)
}
