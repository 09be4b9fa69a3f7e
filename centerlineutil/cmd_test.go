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
	"bytes"
	"encoding/csv"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
	"github.com/spatialmodel/centerline"
	"github.com/tealeg/xlsx"
)

func TestVersion(t *testing.T) {
	buf := new(bytes.Buffer)
	Root.SetOutput(buf)
	defer Root.SetOutput(nil)
	Root.SetArgs([]string{"version"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	if want := "centerline v" + centerline.Version; !strings.Contains(buf.String(), want) {
		t.Errorf("%q does not contain %q", buf.String(), want)
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	defer setCfg(map[string]interface{}{
		"LogLevel":             "error",
		"Input.File":           writeBanks(t, dir),
		"Output.CenterlineCSV": filepath.Join(dir, "centerline.csv"),
		"Output.WidthCSV":      filepath.Join(dir, "widths.csv"),
		"Output.XLSX":          filepath.Join(dir, "river.xlsx"),
		"Output.Shapefile":     dir,
		"Output.GeoJSON":       filepath.Join(dir, "river.geojson"),
		"Output.Summary":       filepath.Join(dir, "summary.toml"),
	})()
	Root.SetArgs([]string{"run"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}

	t.Run("centerline", func(t *testing.T) {
		recs := readCSV(t, filepath.Join(dir, "centerline.csv"))
		if strings.Join(recs[0], ",") != "index,latitude,longitude" {
			t.Errorf("header: %v", recs[0])
		}
		if len(recs) != 21 {
			t.Errorf("want 20 points but have %d", len(recs)-1)
		}
	})
	t.Run("widths", func(t *testing.T) {
		recs := readCSV(t, filepath.Join(dir, "widths.csv"))
		if len(recs) != 21 {
			t.Fatalf("want 20 widths but have %d", len(recs)-1)
		}
		col := index(recs[0], "width")
		for _, rec := range recs[1:] {
			w, err := strconv.ParseFloat(rec[col], 64)
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(w-50) > 0.1 {
				t.Errorf("width %s: want 50 but have %g", rec[0], w)
			}
		}
	})
	t.Run("summary", func(t *testing.T) {
		var s Summary
		if _, err := toml.DecodeFile(filepath.Join(dir, "summary.toml"), &s); err != nil {
			t.Fatal(err)
		}
		if s.Width.Records != 20 || s.Width.Valid != 20 {
			t.Errorf("width records: %+v", s.Width)
		}
		if math.Abs(s.Width.Mean-50) > 0.1 || math.Abs(s.Width.Median-50) > 0.1 {
			t.Errorf("width statistics: %+v", s.Width)
		}
		if math.Abs(s.Area-190*50) > 1 {
			t.Errorf("area: %g", s.Area)
		}
		if math.Abs(s.CenterlineLength["Voronoi"]-180) > 0.01 {
			t.Errorf("centerline length: %v", s.CenterlineLength)
		}
	})
	t.Run("geojson", func(t *testing.T) {
		b, err := os.ReadFile(filepath.Join(dir, "river.geojson"))
		if err != nil {
			t.Fatal(err)
		}
		var fc struct {
			Type     string
			Features []struct {
				Geometry struct {
					Type string
				}
				Properties map[string]interface{}
			}
		}
		if err := json.Unmarshal(b, &fc); err != nil {
			t.Fatal(err)
		}
		// Two banks, the polygon, four centerlines and 20 transects.
		if fc.Type != "FeatureCollection" || len(fc.Features) != 27 {
			t.Errorf("%s with %d features", fc.Type, len(fc.Features))
		}
		if g := fc.Features[2].Geometry.Type; g != "Polygon" {
			t.Errorf("feature 2 is a %s", g)
		}
	})
	t.Run("xlsx", func(t *testing.T) {
		f, err := xlsx.OpenFile(filepath.Join(dir, "river.xlsx"))
		if err != nil {
			t.Fatal(err)
		}
		if len(f.Sheets) != 5 {
			t.Errorf("want 5 sheets but have %d", len(f.Sheets))
		}
		sheet, ok := f.Sheet["Width"]
		if !ok {
			t.Fatal("missing Width sheet")
		}
		if len(sheet.Rows) != 21 {
			t.Errorf("want 21 rows but have %d", len(sheet.Rows))
		}
		if v := sheet.Rows[0].Cells[3].Value; v != "width" {
			t.Errorf("header cell: %s", v)
		}
	})
	t.Run("shapefile", func(t *testing.T) {
		for _, name := range []string{"banks", "polygon", "centerline", "widths"} {
			for _, ext := range []string{".shp", ".dbf", ".shx", ".prj"} {
				if _, err := os.Stat(filepath.Join(dir, name+ext)); err != nil {
					t.Error(err)
				}
			}
		}
		d, err := shp.NewDecoder(filepath.Join(dir, "widths.shp"))
		if err != nil {
			t.Fatal(err)
		}
		defer d.Close()
		type widthRec struct {
			geom.Geom
			Index int
			Width float64
		}
		var n int
		for {
			var rec widthRec
			if more := d.DecodeRow(&rec); !more {
				break
			}
			if math.Abs(rec.Width-50) > 0.1 {
				t.Errorf("record %d: width %g", rec.Index, rec.Width)
			}
			n++
		}
		if err := d.Error(); err != nil {
			t.Fatal(err)
		}
		if n != 20 {
			t.Errorf("want 20 transects but have %d", n)
		}
	})
}

func TestWidthCommand(t *testing.T) {
	dir := t.TempDir()
	defer setCfg(map[string]interface{}{
		"LogLevel":                   "error",
		"Input.File":                 writeBanks(t, dir),
		"Output.CoordinateUnit":      "relative",
		"Output.CoordinateReference": "Banks",
	})()
	buf := new(bytes.Buffer)
	Root.SetOutput(buf)
	defer Root.SetOutput(nil)
	Root.SetArgs([]string{"width"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	recs, err := csv.NewReader(buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 21 {
		t.Fatalf("want 20 widths but have %d", len(recs)-1)
	}
	if want := "index,left_x,left_y,right_x,right_y"; !strings.HasPrefix(strings.Join(recs[0], ","), want) {
		t.Errorf("header %v should begin with %s", recs[0], want)
	}
	// The relative plane is anchored at the first left bank point, so
	// the left bank intersections are on y = 0 and the right ones on y = -50.
	for _, rec := range recs[1:] {
		ly, _ := strconv.ParseFloat(rec[2], 64)
		ry, _ := strconv.ParseFloat(rec[4], 64)
		if math.Abs(ly) > 0.1 || math.Abs(ry+50) > 0.1 {
			t.Errorf("row %s: left y %g, right y %g", rec[0], ly, ry)
		}
	}
}

func TestPlotCommand(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "river.png")
	defer setCfg(map[string]interface{}{
		"LogLevel":     "error",
		"Input.File":   writeBanks(t, dir),
		"Plot.File":    file,
		"Plot.Voronoi": true,
	})()
	Root.SetArgs([]string{"plot"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	fi, err := os.Stat(file)
	if err != nil {
		t.Fatal(err)
	}
	if fi.Size() == 0 {
		t.Error("empty plot")
	}
}

func TestRunMissingInput(t *testing.T) {
	defer setCfg(map[string]interface{}{"LogLevel": "error", "Input.File": ""})()
	Root.SetArgs([]string{"run"})
	Root.SilenceUsage = true
	defer func() { Root.SilenceUsage = false }()
	if err := Root.Execute(); err == nil {
		t.Error("run without an input file should fail")
	}
}

func readCSV(t *testing.T, path string) [][]string {
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	recs, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	return recs
}

func index(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	return -1
}
