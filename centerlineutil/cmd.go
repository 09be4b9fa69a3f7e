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
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/lnashier/viper"
	"github.com/skratchdot/open-golang/open"
	"github.com/spatialmodel/centerline"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	riverSets := []*pflag.FlagSet{runCmd.Flags(), widthCmd.Flags(), plotCmd.Flags()}

	// Options are the configuration options available to the centerline
	// commands.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "LogLevel",
			usage: `
              LogLevel is the minimum level of log messages to print
              (debug, info, warn or error).`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "LogFormat",
			usage: `
              LogFormat is the format of log messages, text or json.`,
			defaultVal: "text",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Input.File",
			usage: `
              Input.File is the path to a CSV file holding the bank
              coordinates in decimal degrees, one column each for the left
              bank latitude and longitude and the right bank latitude and
              longitude. Environment variables are expanded.`,
			shorthand:  "i",
			defaultVal: "",
			flagsets:   riverSets,
		},
		{
			name: "Input.LeftLatitude",
			usage: `
              Input.LeftLatitude is the CSV column holding left bank latitudes.`,
			defaultVal: "llat",
			flagsets:   riverSets,
		},
		{
			name: "Input.LeftLongitude",
			usage: `
              Input.LeftLongitude is the CSV column holding left bank longitudes.`,
			defaultVal: "llong",
			flagsets:   riverSets,
		},
		{
			name: "Input.RightLatitude",
			usage: `
              Input.RightLatitude is the CSV column holding right bank latitudes.`,
			defaultVal: "rlat",
			flagsets:   riverSets,
		},
		{
			name: "Input.RightLongitude",
			usage: `
              Input.RightLongitude is the CSV column holding right bank longitudes.`,
			defaultVal: "rlong",
			flagsets:   riverSets,
		},
		{
			name: "Input.Cutoff",
			usage: `
              Input.Cutoff, when greater than zero, is the number of CSV
              data rows to read; the rest of the file is ignored.`,
			defaultVal: 0,
			flagsets:   riverSets,
		},
		{
			name: "Ellipsoid",
			usage: `
              Ellipsoid is the reference ellipsoid used for geodesic
              calculations, for example WGS84, GRS80, clrk66 or sphere.`,
			defaultVal: "WGS84",
			flagsets:   riverSets,
		},
		{
			name: "BankDirection",
			usage: `
              BankDirection is Matching if both banks are listed in the
              same direction along the river, or Opposing if the right bank
              is listed in the reverse direction.`,
			defaultVal: "Matching",
			flagsets:   riverSets,
		},
		{
			name: "InterpolateBanks",
			usage: `
              InterpolateBanks specifies whether to add geodesically
              interpolated points between the input bank points.`,
			defaultVal: false,
			flagsets:   riverSets,
		},
		{
			name: "InterpolateN",
			usage: `
              InterpolateN is the number of points added between each
              pair of bank points when InterpolateBanks is true.`,
			defaultVal: 5,
			flagsets:   riverSets,
		},
		{
			name: "EqualDistance",
			usage: `
              EqualDistance is the spacing in meters between the points
              of the equal-distance centerline.`,
			defaultVal: 10.0,
			flagsets:   riverSets,
		},
		{
			name: "EvenlySpacedPoints",
			usage: `
              EvenlySpacedPoints is the number of points in the evenly
              spaced centerline. 0 means the larger bank point count
              before interpolation.`,
			defaultVal: 0,
			flagsets:   riverSets,
		},
		{
			name: "SmoothingWindow",
			usage: `
              SmoothingWindow is the odd number of points in the
              smoothing filter window.`,
			defaultVal: 11,
			flagsets:   riverSets,
		},
		{
			name: "SmoothingDegree",
			usage: `
              SmoothingDegree is the degree of the polynomial fit within
              each smoothing window. It must be less than SmoothingWindow.`,
			defaultVal: 3,
			flagsets:   riverSets,
		},
		{
			name: "TransectSpan",
			usage: `
              TransectSpan is the distance in meters a width transect
              extends to each side of the centerline. 0 means three times
              the largest distance from the centerline to the nearest bank.`,
			defaultVal: 0.0,
			flagsets:   riverSets,
		},
		{
			name: "TransectSlope",
			usage: `
              TransectSlope is Average to orient transects by the mean
              centerline direction over SlopeWindow points, or Direct to
              use the adjacent centerline segment only.`,
			defaultVal: "Average",
			flagsets:   riverSets,
		},
		{
			name: "SlopeWindow",
			usage: `
              SlopeWindow is the number of centerline points averaged
              when TransectSlope is Average.`,
			defaultVal: 3,
			flagsets:   riverSets,
		},
		{
			name: "WidthCenterline",
			usage: `
              WidthCenterline is the centerline widths are measured along:
              Voronoi, EqualDistance, EvenlySpaced or Smoothed.`,
			defaultVal: "Smoothed",
			flagsets:   riverSets,
		},
		{
			name: "RemoveIntersections",
			usage: `
              RemoveIntersections specifies whether width measurements
              whose transects cross other transects are dropped rather
              than flagged.`,
			defaultVal: false,
			flagsets:   riverSets,
		},
		{
			name: "NumProcessors",
			usage: `
              NumProcessors is the number of processors to use for width
              calculations. 0 means all available processors.`,
			defaultVal: 0,
			flagsets:   riverSets,
		},
		{
			name: "Output.CenterlineCSV",
			usage: `
              Output.CenterlineCSV is the path of a CSV file to write the
              Output.CenterlineType centerline to.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Output.CenterlineType",
			usage: `
              Output.CenterlineType is the centerline written to
              Output.CenterlineCSV: Voronoi, EqualDistance, EvenlySpaced
              or Smoothed.`,
			defaultVal: "Smoothed",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Output.CoordinateUnit",
			usage: `
              Output.CoordinateUnit is decimal for coordinates in decimal
              degrees or relative for meters east and north of the first
              left bank point.`,
			defaultVal: "decimal",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), widthCmd.Flags()},
		},
		{
			name: "Output.CoordinateReference",
			usage: `
              Output.CoordinateReference is Centerline to locate width
              rows by their centerline point or Banks to locate them by
              their bank intersections.`,
			defaultVal: "Centerline",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), widthCmd.Flags()},
		},
		{
			name: "Output.WidthCSV",
			usage: `
              Output.WidthCSV is the path of a CSV file to write widths to.
              The width command writes to standard output if it is empty.`,
			shorthand:  "o",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), widthCmd.Flags()},
		},
		{
			name: "Output.XLSX",
			usage: `
              Output.XLSX is the path of a spreadsheet to write every
              centerline and the widths to.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Output.Shapefile",
			usage: `
              Output.Shapefile is a directory to write bank, polygon,
              centerline and width shapefiles to.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Output.GeoJSON",
			usage: `
              Output.GeoJSON is the path of a GeoJSON file to write every
              result geometry to, in decimal degrees.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Output.Summary",
			usage: `
              Output.Summary is the path of a TOML file to write summary
              statistics to.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Output.Projection",
			usage: `
              Output.Projection is the spatial reference of the output
              shapefiles in Proj4 or WKT format. If it is empty, shapefile
              coordinates are longitude and latitude.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Plot.File",
			usage: `
              Plot.File is the path of the image to render. The extension
              (png, svg, pdf, eps, jpg) sets the format.`,
			defaultVal: "centerline.png",
			flagsets:   []*pflag.FlagSet{plotCmd.Flags()},
		},
		{
			name: "Plot.Voronoi",
			usage: `
              Plot.Voronoi specifies whether to draw the Voronoi ridges
              inside the bank polygon.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{plotCmd.Flags()},
		},
		{
			name: "Plot.Transects",
			usage: `
              Plot.Transects specifies whether to draw the width transects.`,
			defaultVal: true,
			flagsets:   []*pflag.FlagSet{plotCmd.Flags()},
		},
		{
			name: "Plot.CenterlineType",
			usage: `
              Plot.CenterlineType is the centerline to draw: Voronoi,
              EqualDistance, EvenlySpaced or Smoothed. If it is empty, the
              centerline set by WidthCenterline is drawn.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{plotCmd.Flags()},
		},
		{
			name: "Plot.Open",
			usage: `
              Plot.Open specifies whether to open the rendered image with
              the default viewer.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{plotCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("CENTERLINE")
	Cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(runCmd)
	Root.AddCommand(widthCmd)
	Root.AddCommand(plotCmd)
}

// setConfig loads a .env file from the working directory if there is
// one, then finds and reads in the configuration file, if there is one.
func setConfig() error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("centerline: problem reading .env file: %v", err)
	}
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(os.ExpandEnv(cfgpath))
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("centerline: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "centerline",
	Short: "River centerline and width extraction.",
	Long: `centerline finds the centerline of a river from the coordinates of its
left and right banks, and measures the river width along it.
Use the subcommands specified below to access the functionality.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'CENTERLINE_var' where 'var' is the
name of the variable to be set, with dots replaced by underscores. Environment
variables can also be listed in a .env file in the working directory.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of centerline.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("centerline v%s\n", centerline.Version)
	},
	DisableAutoGenTag: true,
}

// runCmd computes the centerline and widths and writes every configured
// output.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Compute the centerline and widths of a river.",
	Long: `run reads the banks from Input.File, computes the river centerline
and widths, and writes the outputs selected by the Output.* options.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := Logger(Cfg, cmd.OutOrStderr())
		if err != nil {
			return err
		}
		r, err := LoadRiver(Cfg, log)
		if err != nil {
			return err
		}
		o, err := OutputConfig(Cfg)
		if err != nil {
			return err
		}
		return Write(r, o, log)
	},
	DisableAutoGenTag: true,
}

// widthCmd writes only the width table.
var widthCmd = &cobra.Command{
	Use:   "width",
	Short: "Measure the width of a river.",
	Long: `width reads the banks from Input.File, measures the river width along
the WidthCenterline centerline, and writes the widths as CSV to
Output.WidthCSV or to standard output.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := Logger(Cfg, cmd.OutOrStderr())
		if err != nil {
			return err
		}
		r, err := LoadRiver(Cfg, log)
		if err != nil {
			return err
		}
		o, err := OutputConfig(Cfg)
		if err != nil {
			return err
		}
		if o.WidthCSV == "" {
			return WriteWidthCSV(cmd.OutOrStdout(), r.Width, o.Unit, o.Reference)
		}
		return writeFile(o.WidthCSV, func(f *os.File) error {
			return WriteWidthCSV(f, r.Width, o.Unit, o.Reference)
		})
	},
	DisableAutoGenTag: true,
}

// plotCmd renders the banks, centerline and transects to an image.
var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Plot the centerline of a river.",
	Long: `plot reads the banks from Input.File, computes the river centerline
and widths, and renders them to Plot.File.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := Logger(Cfg, cmd.OutOrStderr())
		if err != nil {
			return err
		}
		r, err := LoadRiver(Cfg, log)
		if err != nil {
			return err
		}
		file, o, err := PlotConfig(Cfg, r)
		if err != nil {
			return err
		}
		if err := Plot(r, file, o); err != nil {
			return err
		}
		log.WithField("file", file).Info("centerline: wrote plot")
		if Cfg.GetBool("Plot.Open") {
			return open.Run(file)
		}
		return nil
	},
	DisableAutoGenTag: true,
}
