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
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/centerline"
)

// CoordinateUnit is the unit of coordinates in tabular output.
type CoordinateUnit int

const (
	// Decimal is latitude and longitude in decimal degrees.
	Decimal CoordinateUnit = iota

	// Relative is meters east and north of the first left bank point.
	Relative
)

func (u CoordinateUnit) String() string {
	if u == Relative {
		return "relative"
	}
	return "decimal"
}

// CoordinateReference selects which coordinates identify a width row.
type CoordinateReference int

const (
	// CenterlineReference locates width rows by their centerline point.
	CenterlineReference CoordinateReference = iota

	// BanksReference locates width rows by their bank intersections.
	BanksReference
)

// Outputs holds the output settings of the run command.
type Outputs struct {
	CenterlineCSV  string
	CenterlineType centerline.CenterlineKind
	Unit           CoordinateUnit
	Reference      CoordinateReference
	WidthCSV       string
	XLSX           string
	ShapefileDir   string
	GeoJSON        string
	Summary        string

	// Projection is the spatial reference of shapefile output. Empty
	// means longitude and latitude.
	Projection string
}

// Logger returns a logger writing to w at the level and in the format
// set by the LogLevel and LogFormat options.
func Logger(cfg *viper.Viper, w io.Writer) (*logrus.Logger, error) {
	log := logrus.New()
	log.Out = w
	level, err := logrus.ParseLevel(cfg.GetString("LogLevel"))
	if err != nil {
		return nil, fmt.Errorf("centerline: invalid LogLevel: %v", err)
	}
	log.SetLevel(level)
	switch strings.ToLower(cfg.GetString("LogFormat")) {
	case "", "text":
		log.Formatter = &logrus.TextFormatter{}
	case "json":
		log.Formatter = &logrus.JSONFormatter{}
	default:
		return nil, fmt.Errorf("centerline: LogFormat must be text or json but is `%s`", cfg.GetString("LogFormat"))
	}
	return log, nil
}

// RiverConfig creates a new river configuration from the values in cfg.
func RiverConfig(cfg *viper.Viper) (*centerline.Config, error) {
	c := centerline.DefaultConfig()
	var err error
	c.Ellipsoid = cfg.GetString("Ellipsoid")
	if c.BankDirection, err = centerline.ParseBankDirection(cfg.GetString("BankDirection")); err != nil {
		return nil, err
	}
	c.InterpolateBanks = cfg.GetBool("InterpolateBanks")
	c.InterpolateN = cfg.GetInt("InterpolateN")
	c.EqualDistance = cfg.GetFloat64("EqualDistance")
	c.EvenlySpacedPoints = cfg.GetInt("EvenlySpacedPoints")
	c.SmoothingWindow = cfg.GetInt("SmoothingWindow")
	c.SmoothingDegree = cfg.GetInt("SmoothingDegree")
	c.TransectSpan = cfg.GetFloat64("TransectSpan")
	if c.TransectSlope, err = centerline.ParseSlopeMode(cfg.GetString("TransectSlope")); err != nil {
		return nil, err
	}
	c.SlopeWindow = cfg.GetInt("SlopeWindow")
	if c.WidthCenterline, err = centerline.ParseCenterlineKind(cfg.GetString("WidthCenterline")); err != nil {
		return nil, err
	}
	c.RemoveIntersections = cfg.GetBool("RemoveIntersections")
	c.NumProcessors = cfg.GetInt("NumProcessors")
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// InputConfig returns the bank CSV location and layout from cfg.
func InputConfig(cfg *viper.Viper) (file string, cols Columns, cutoff int, err error) {
	file = os.ExpandEnv(cfg.GetString("Input.File"))
	if file == "" {
		return "", cols, 0, fmt.Errorf(`centerline: you need to specify an input file (for example: --Input.File="banks.csv")`)
	}
	cols = Columns{
		LeftLatitude:   cfg.GetString("Input.LeftLatitude"),
		LeftLongitude:  cfg.GetString("Input.LeftLongitude"),
		RightLatitude:  cfg.GetString("Input.RightLatitude"),
		RightLongitude: cfg.GetString("Input.RightLongitude"),
	}
	cutoff = cfg.GetInt("Input.Cutoff")
	if cutoff < 0 {
		return "", cols, 0, fmt.Errorf("centerline: Input.Cutoff must not be negative but is %d", cutoff)
	}
	return file, cols, cutoff, nil
}

// LoadRiver reads the banks configured in cfg and runs the centerline
// analysis on them.
func LoadRiver(cfg *viper.Viper, log logrus.FieldLogger) (*centerline.River, error) {
	file, cols, cutoff, err := InputConfig(cfg)
	if err != nil {
		return nil, err
	}
	c, err := RiverConfig(cfg)
	if err != nil {
		return nil, err
	}
	c.Log = log
	left, right, err := ReadBankFile(file, cols, cutoff)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"file":        file,
		"leftPoints":  len(left),
		"rightPoints": len(right),
	}).Info("centerline: read banks")
	return centerline.New(left, right, c)
}

// OutputConfig returns the output settings in cfg. It checks that the
// directory of each output file exists.
func OutputConfig(cfg *viper.Viper) (*Outputs, error) {
	o := &Outputs{
		CenterlineCSV: os.ExpandEnv(cfg.GetString("Output.CenterlineCSV")),
		WidthCSV:      os.ExpandEnv(cfg.GetString("Output.WidthCSV")),
		XLSX:          os.ExpandEnv(cfg.GetString("Output.XLSX")),
		ShapefileDir:  os.ExpandEnv(cfg.GetString("Output.Shapefile")),
		GeoJSON:       os.ExpandEnv(cfg.GetString("Output.GeoJSON")),
		Summary:       os.ExpandEnv(cfg.GetString("Output.Summary")),
		Projection:    cfg.GetString("Output.Projection"),
	}
	var err error
	if o.CenterlineType, err = centerline.ParseCenterlineKind(cfg.GetString("Output.CenterlineType")); err != nil {
		return nil, err
	}
	switch u := cfg.GetString("Output.CoordinateUnit"); strings.ToLower(u) {
	case "decimal":
		o.Unit = Decimal
	case "relative":
		o.Unit = Relative
	default:
		return nil, fmt.Errorf("centerline: Output.CoordinateUnit must be decimal or relative but is `%s`", u)
	}
	switch ref := cfg.GetString("Output.CoordinateReference"); strings.ToLower(ref) {
	case "centerline":
		o.Reference = CenterlineReference
	case "banks":
		o.Reference = BanksReference
	default:
		return nil, fmt.Errorf("centerline: Output.CoordinateReference must be Centerline or Banks but is `%s`", ref)
	}
	for _, f := range []string{o.CenterlineCSV, o.WidthCSV, o.XLSX, o.GeoJSON, o.Summary} {
		if err := checkOutputFile(f); err != nil {
			return nil, err
		}
	}
	if o.ShapefileDir != "" {
		if _, err := os.Stat(o.ShapefileDir); err != nil {
			return nil, fmt.Errorf("centerline: the Output.Shapefile directory doesn't exist: %v", err)
		}
	}
	return o, nil
}

// checkOutputFile makes sure that the directory of f exists, if f is set.
func checkOutputFile(f string) error {
	if f == "" {
		return nil
	}
	if _, err := os.Stat(filepath.Dir(f)); err != nil {
		return fmt.Errorf("centerline: the output directory of %s doesn't exist: %v", f, err)
	}
	return nil
}

// PlotConfig returns the plot settings in cfg. An empty
// Plot.CenterlineType draws the centerline the widths of r were
// measured along.
func PlotConfig(cfg *viper.Viper, r *centerline.River) (file string, o PlotOptions, err error) {
	o = PlotOptions{
		Voronoi:    cfg.GetBool("Plot.Voronoi"),
		Transects:  cfg.GetBool("Plot.Transects"),
		Centerline: r.Config.WidthCenterline,
	}
	if k := cfg.GetString("Plot.CenterlineType"); k != "" {
		if o.Centerline, err = centerline.ParseCenterlineKind(k); err != nil {
			return "", o, err
		}
	}
	file = os.ExpandEnv(cfg.GetString("Plot.File"))
	if file == "" {
		return "", o, fmt.Errorf("centerline: Plot.File must be set")
	}
	if err := checkOutputFile(file); err != nil {
		return "", o, err
	}
	return file, o, nil
}
