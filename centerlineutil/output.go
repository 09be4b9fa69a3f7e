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
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/geojson"
	"github.com/ctessum/geom/encoding/shp"
	"github.com/ctessum/geom/proj"
	goshp "github.com/jonas-p/go-shp"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/centerline"
	"github.com/tealeg/xlsx"
)

// Write writes every output set in o.
func Write(r *centerline.River, o *Outputs, log logrus.FieldLogger) error {
	outputs := []struct {
		name, path string
		write      func() error
	}{
		{"centerline CSV", o.CenterlineCSV, func() error {
			return writeFile(o.CenterlineCSV, func(f *os.File) error {
				return WriteCenterlineCSV(f, r, o.CenterlineType, o.Unit)
			})
		}},
		{"width CSV", o.WidthCSV, func() error {
			return writeFile(o.WidthCSV, func(f *os.File) error {
				return WriteWidthCSV(f, r.Width, o.Unit, o.Reference)
			})
		}},
		{"spreadsheet", o.XLSX, func() error { return WriteXLSX(o.XLSX, r, o.Unit, o.Reference) }},
		{"shapefiles", o.ShapefileDir, func() error { return WriteShapefiles(o.ShapefileDir, r, o.Projection) }},
		{"GeoJSON", o.GeoJSON, func() error {
			return writeFile(o.GeoJSON, func(f *os.File) error { return WriteGeoJSON(f, r) })
		}},
		{"summary", o.Summary, func() error {
			return writeFile(o.Summary, func(f *os.File) error { return NewSummary(r).Write(f) })
		}},
	}
	var n int
	for _, out := range outputs {
		if out.path == "" {
			continue
		}
		if err := out.write(); err != nil {
			return fmt.Errorf("centerline: writing %s: %v", out.name, err)
		}
		log.WithField("path", out.path).Infof("centerline: wrote %s", out.name)
		n++
	}
	if n == 0 {
		log.Warn("centerline: no output files are configured")
	}
	return nil
}

// writeFile creates path and passes it to write.
func writeFile(path string, write func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// table is tabular output. Cells hold int, float64, bool or string
// values.
type table struct {
	header []string
	rows   [][]interface{}
}

func coordinateCells(c centerline.Coordinate, p geom.Point, unit CoordinateUnit) []interface{} {
	if unit == Relative {
		return []interface{}{p.X, p.Y}
	}
	return []interface{}{c.Lat, c.Lon}
}

func coordinateHeader(prefix string, unit CoordinateUnit) []string {
	if unit == Relative {
		return []string{prefix + "x", prefix + "y"}
	}
	return []string{prefix + "latitude", prefix + "longitude"}
}

func centerlineTable(r *centerline.River, kind centerline.CenterlineKind, unit CoordinateUnit) *table {
	t := &table{header: append([]string{"index"}, coordinateHeader("", unit)...)}
	cs, ps := r.Centerline(kind), r.CenterlineRelative(kind)
	for i := range cs {
		t.rows = append(t.rows, append([]interface{}{i}, coordinateCells(cs[i], ps[i], unit)...))
	}
	return t
}

func widthTable(records []centerline.WidthRecord, unit CoordinateUnit, ref CoordinateReference) *table {
	t := new(table)
	t.header = []string{"index"}
	if ref == BanksReference {
		t.header = append(t.header, coordinateHeader("left_", unit)...)
		t.header = append(t.header, coordinateHeader("right_", unit)...)
	} else {
		t.header = append(t.header, coordinateHeader("", unit)...)
	}
	t.header = append(t.header, "width", "left_distance", "right_distance",
		"valid", "ambiguous", "no_intersection", "crossing")
	for _, w := range records {
		row := []interface{}{w.Index}
		if ref == BanksReference {
			row = append(row, coordinateCells(w.Left, w.LeftRelative, unit)...)
			row = append(row, coordinateCells(w.Right, w.RightRelative, unit)...)
		} else {
			row = append(row, coordinateCells(w.Centerline, w.CenterlineRelative, unit)...)
		}
		row = append(row, w.Width, w.LeftDistance, w.RightDistance,
			w.Valid, w.Ambiguous, w.NoIntersection, w.Crossing)
		t.rows = append(t.rows, row)
	}
	return t
}

func formatCell(v interface{}) string {
	switch v := v.(type) {
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case string:
		return v
	default:
		panic(fmt.Errorf("centerline: invalid cell type %T", v))
	}
}

func (t *table) writeCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.header); err != nil {
		return err
	}
	rec := make([]string, len(t.header))
	for _, row := range t.rows {
		for i, v := range row {
			rec[i] = formatCell(v)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (t *table) addSheet(f *xlsx.File, name string) error {
	sheet, err := f.AddSheet(name)
	if err != nil {
		return err
	}
	row := sheet.AddRow()
	for _, h := range t.header {
		row.AddCell().SetString(h)
	}
	for _, r := range t.rows {
		row := sheet.AddRow()
		for _, v := range r {
			cell := row.AddCell()
			switch v := v.(type) {
			case int:
				cell.SetInt(v)
			case float64:
				// Spreadsheets have no NaN, so missing values stay empty.
				if !math.IsNaN(v) {
					cell.SetFloat(v)
				}
			default:
				cell.SetString(formatCell(v))
			}
		}
	}
	return nil
}

// WriteCenterlineCSV writes the kind centerline of r to w.
func WriteCenterlineCSV(w io.Writer, r *centerline.River, kind centerline.CenterlineKind, unit CoordinateUnit) error {
	return centerlineTable(r, kind, unit).writeCSV(w)
}

// WriteWidthCSV writes width records to w. Missing values are written
// as NaN.
func WriteWidthCSV(w io.Writer, records []centerline.WidthRecord, unit CoordinateUnit, ref CoordinateReference) error {
	return widthTable(records, unit, ref).writeCSV(w)
}

// WriteXLSX writes a spreadsheet with one sheet per centerline
// representation and a sheet of widths.
func WriteXLSX(path string, r *centerline.River, unit CoordinateUnit, ref CoordinateReference) error {
	f := xlsx.NewFile()
	for _, k := range centerline.CenterlineKinds {
		if err := centerlineTable(r, k, unit).addSheet(f, k.String()); err != nil {
			return err
		}
	}
	if err := widthTable(r.Width, unit, ref).addSheet(f, "Width"); err != nil {
		return err
	}
	return f.Save(path)
}

// geographicWKT is the spatial reference of unprojected shapefile output.
const geographicWKT = `GEOGCS["GCS_WGS_1984",DATUM["D_WGS_1984",SPHEROID["WGS_1984",6378137,298.257223563]],PRIMEM["Greenwich",0],UNIT["Degree",0.017453292519943295]]`

// projector converts coordinates to shapefile points.
type projector struct {
	t   proj.Transformer
	prj string
}

// newProjector returns a projector to the spatial reference s, given in
// Proj4 or WKT format. An empty s keeps longitude and latitude.
func newProjector(s string) (*projector, error) {
	if s == "" {
		return &projector{prj: geographicWKT}, nil
	}
	src, err := proj.Parse("+proj=longlat +datum=WGS84")
	if err != nil {
		return nil, err
	}
	dst, err := proj.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("centerline: parsing Output.Projection: %v", err)
	}
	t, err := src.NewTransform(dst)
	if err != nil {
		return nil, fmt.Errorf("centerline: creating output projection: %v", err)
	}
	p := &projector{t: t}
	if ts := strings.TrimSpace(s); strings.HasPrefix(ts, "PROJCS") || strings.HasPrefix(ts, "GEOGCS") {
		p.prj = ts
	}
	return p, nil
}

func (p *projector) points(cs []centerline.Coordinate) ([]geom.Point, error) {
	out := make([]geom.Point, len(cs))
	for i, c := range cs {
		out[i] = geom.Point{X: c.Lon, Y: c.Lat}
		if p.t == nil {
			continue
		}
		var err error
		if out[i].X, out[i].Y, err = p.t(c.Lon, c.Lat); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// writePrj writes the .prj file of the shapefile at shpPath. Nothing is
// written for Proj4 spatial references, which have no WKT form here.
func (p *projector) writePrj(shpPath string) error {
	if p.prj == "" {
		return nil
	}
	f, err := os.Create(strings.TrimSuffix(shpPath, filepath.Ext(shpPath)) + ".prj")
	if err != nil {
		return err
	}
	fmt.Fprint(f, p.prj)
	return f.Close()
}

// WriteShapefiles writes banks.shp, polygon.shp, centerline.shp and
// widths.shp to dir. Width transects are written for valid records only.
func WriteShapefiles(dir string, r *centerline.River, projection string) error {
	p, err := newProjector(projection)
	if err != nil {
		return err
	}

	type bankRec struct {
		geom.LineString
		Bank   string
		Length float64
	}
	fname := filepath.Join(dir, "banks.shp")
	e, err := shp.NewEncoder(fname, bankRec{})
	if err != nil {
		return err
	}
	for _, b := range []struct {
		name   string
		cs     []centerline.Coordinate
		length float64
	}{{"left", r.LeftBank, r.LeftBankLength}, {"right", r.RightBank, r.RightBankLength}} {
		ls, err := p.points(b.cs)
		if err != nil {
			e.Close()
			return err
		}
		if err := e.Encode(bankRec{LineString: ls, Bank: b.name, Length: b.length}); err != nil {
			e.Close()
			return err
		}
	}
	e.Close()
	if err := p.writePrj(fname); err != nil {
		return err
	}

	type polygonRec struct {
		geom.Polygon
		Area   float64
		Simple int
	}
	fname = filepath.Join(dir, "polygon.shp")
	e, err = shp.NewEncoder(fname, polygonRec{})
	if err != nil {
		return err
	}
	ring, err := p.points(r.Polygon.Ring)
	if err != nil {
		e.Close()
		return err
	}
	var simple int
	if r.PolygonSimple {
		simple = 1
	}
	err = e.Encode(polygonRec{Polygon: geom.Polygon{ring}, Area: r.Area, Simple: simple})
	e.Close()
	if err != nil {
		return err
	}
	if err := p.writePrj(fname); err != nil {
		return err
	}

	type centerlineRec struct {
		geom.LineString
		Type   string
		Length float64
		Points int
	}
	fname = filepath.Join(dir, "centerline.shp")
	e, err = shp.NewEncoder(fname, centerlineRec{})
	if err != nil {
		return err
	}
	for _, k := range centerline.CenterlineKinds {
		cs := r.Centerline(k)
		if len(cs) < 2 {
			continue
		}
		ls, err := p.points(cs)
		if err != nil {
			e.Close()
			return err
		}
		err = e.Encode(centerlineRec{LineString: ls, Type: k.String(), Length: r.Length(k), Points: len(cs)})
		if err != nil {
			e.Close()
			return err
		}
	}
	e.Close()
	if err := p.writePrj(fname); err != nil {
		return err
	}

	fname = filepath.Join(dir, "widths.shp")
	e, err = shp.NewEncoderFromFields(fname, goshp.POLYLINE,
		goshp.NumberField("Index", 10),
		goshp.FloatField("Width", 14, 4),
		goshp.FloatField("LeftDist", 14, 4),
		goshp.FloatField("RightDist", 14, 4),
		goshp.NumberField("Ambiguous", 1),
		goshp.NumberField("Crossing", 1),
	)
	if err != nil {
		return err
	}
	for _, w := range r.Width {
		if !w.Valid {
			continue
		}
		ls, err := p.points([]centerline.Coordinate{w.Left, w.Centerline, w.Right})
		if err != nil {
			e.Close()
			return err
		}
		err = e.EncodeFields(geom.LineString(ls), w.Index, w.Width, w.LeftDistance, w.RightDistance,
			flag(w.Ambiguous), flag(w.Crossing))
		if err != nil {
			e.Close()
			return err
		}
	}
	e.Close()
	return p.writePrj(fname)
}

func flag(b bool) int {
	if b {
		return 1
	}
	return 0
}

type feature struct {
	Type       string                 `json:"type"`
	Geometry   *geojson.Geometry      `json:"geometry"`
	Properties map[string]interface{} `json:"properties"`
}

type featureCollection struct {
	Type     string     `json:"type"`
	Features []*feature `json:"features"`
}

func lonLat(cs []centerline.Coordinate) []geom.Point {
	out := make([]geom.Point, len(cs))
	for i, c := range cs {
		out[i] = geom.Point{X: c.Lon, Y: c.Lat}
	}
	return out
}

// number returns v, or nil for NaN, which JSON cannot hold.
func number(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}

// WriteGeoJSON writes the banks, polygon, centerlines and width
// transects of r to w as a GeoJSON feature collection.
func WriteGeoJSON(w io.Writer, r *centerline.River) error {
	fc := &featureCollection{Type: "FeatureCollection"}
	add := func(g geom.Geom, props map[string]interface{}) error {
		gj, err := geojson.ToGeoJSON(g)
		if err != nil {
			return err
		}
		fc.Features = append(fc.Features, &feature{Type: "Feature", Geometry: gj, Properties: props})
		return nil
	}
	if err := add(geom.LineString(lonLat(r.LeftBank)), map[string]interface{}{
		"kind": "bank", "bank": "left", "length": r.LeftBankLength}); err != nil {
		return err
	}
	if err := add(geom.LineString(lonLat(r.RightBank)), map[string]interface{}{
		"kind": "bank", "bank": "right", "length": r.RightBankLength}); err != nil {
		return err
	}
	if err := add(geom.Polygon{lonLat(r.Polygon.Ring)}, map[string]interface{}{
		"kind": "polygon", "area": r.Area, "simple": r.PolygonSimple}); err != nil {
		return err
	}
	for _, k := range centerline.CenterlineKinds {
		cs := r.Centerline(k)
		if len(cs) < 2 {
			continue
		}
		if err := add(geom.LineString(lonLat(cs)), map[string]interface{}{
			"kind": "centerline", "type": k.String(), "length": r.Length(k)}); err != nil {
			return err
		}
	}
	for _, wr := range r.Width {
		props := map[string]interface{}{
			"kind":            "width",
			"index":           wr.Index,
			"width":           number(wr.Width),
			"left_distance":   number(wr.LeftDistance),
			"right_distance":  number(wr.RightDistance),
			"valid":           wr.Valid,
			"ambiguous":       wr.Ambiguous,
			"no_intersection": wr.NoIntersection,
			"crossing":        wr.Crossing,
		}
		var g geom.Geom = geom.Point{X: wr.Centerline.Lon, Y: wr.Centerline.Lat}
		if wr.Valid {
			g = geom.LineString(lonLat([]centerline.Coordinate{wr.Left, wr.Centerline, wr.Right}))
		}
		if err := add(g, props); err != nil {
			return err
		}
	}
	enc := json.NewEncoder(w)
	return enc.Encode(fc)
}
