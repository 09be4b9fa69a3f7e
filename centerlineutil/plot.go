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
	"fmt"
	"image/color"
	"math"

	"github.com/ctessum/geom"
	"github.com/spatialmodel/centerline"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// PlotOptions selects the optional layers of a plot.
type PlotOptions struct {
	// Voronoi draws the Voronoi ridges that lie inside the bank polygon.
	Voronoi bool

	// Transects draws the width transects of valid width records.
	// Crossing transects are drawn in a different color.
	Transects bool

	// Centerline is the centerline representation to draw.
	Centerline centerline.CenterlineKind
}

var (
	bankColor       = color.RGBA{R: 60, G: 60, B: 60, A: 255}
	voronoiColor    = color.RGBA{R: 170, G: 170, B: 220, A: 255}
	centerlineColor = color.RGBA{R: 30, G: 90, B: 200, A: 255}
	transectColor   = color.RGBA{R: 40, G: 160, B: 80, A: 255}
	crossingColor   = color.RGBA{R: 210, G: 50, B: 50, A: 255}
)

// plotWidth is the width of a rendered plot. The height follows the
// aspect ratio of the river so that both axes share a scale.
const plotWidth = 8 * vg.Inch

// Plot renders the banks, the chosen centerline and the optional layers
// of r in relative coordinates to file. The file extension sets the
// image format.
func Plot(r *centerline.River, file string, o PlotOptions) error {
	p := plot.New()
	p.Title.Text = "River centerline"
	p.X.Label.Text = "East [m]"
	p.Y.Label.Text = "North [m]"

	if o.Voronoi {
		for _, e := range r.Graph.Edges() {
			err := addLine(p, []geom.Point{r.Graph.Relative(e.From), r.Graph.Relative(e.To)}, voronoiColor, 0.5, "")
			if err != nil {
				return err
			}
		}
	}
	if err := addLine(p, r.LeftBankRelative, bankColor, 1, "Left bank"); err != nil {
		return err
	}
	if err := addLine(p, r.RightBankRelative, bankColor, 1, "Right bank"); err != nil {
		return err
	}
	if o.Transects {
		for _, w := range r.Width {
			if !w.Valid {
				continue
			}
			c := transectColor
			if w.Crossing {
				c = crossingColor
			}
			if err := addLine(p, []geom.Point{w.LeftRelative, w.RightRelative}, c, 0.5, ""); err != nil {
				return err
			}
		}
	}
	legend := fmt.Sprintf("Centerline (%v)", o.Centerline)
	if err := addLine(p, r.CenterlineRelative(o.Centerline), centerlineColor, 1.5, legend); err != nil {
		return err
	}

	s, err := plotter.NewScatter(plotter.XYs{
		{X: r.StartNodeRelative.X, Y: r.StartNodeRelative.Y},
		{X: r.EndNodeRelative.X, Y: r.EndNodeRelative.Y},
	})
	if err != nil {
		return err
	}
	s.GlyphStyle.Color = centerlineColor
	s.GlyphStyle.Radius = vg.Points(3)
	p.Add(s)
	p.Legend.Add("Start and end", s)

	height := plotWidth
	b := geom.LineString(r.PolygonRelative).Bounds()
	if dx, dy := b.Max.X-b.Min.X, b.Max.Y-b.Min.Y; dx > 0 && dy > 0 {
		height = vg.Length(math.Max(0.25, math.Min(4, dy/dx))) * plotWidth
	}
	if err := p.Save(plotWidth, height, file); err != nil {
		return fmt.Errorf("centerline: saving plot: %v", err)
	}
	return nil
}

func addLine(p *plot.Plot, ps []geom.Point, c color.Color, width float64, legend string) error {
	if len(ps) < 2 {
		return nil
	}
	xys := make(plotter.XYs, len(ps))
	for i, pt := range ps {
		xys[i].X, xys[i].Y = pt.X, pt.Y
	}
	l, err := plotter.NewLine(xys)
	if err != nil {
		return err
	}
	l.LineStyle.Color = c
	l.LineStyle.Width = vg.Points(width)
	p.Add(l)
	if legend != "" {
		p.Legend.Add(legend, l)
	}
	return nil
}

