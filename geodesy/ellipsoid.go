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

package geodesy

import (
	"errors"
	"fmt"
	"sort"

	"github.com/tidwall/geodesic"
)

// ErrInvalidEllipsoid is matched by every InvalidEllipsoidError.
var ErrInvalidEllipsoid = errors.New("geodesy: invalid ellipsoid")

// InvalidEllipsoidError is returned when an ellipsoid name is not in the
// table of known reference ellipsoids.
type InvalidEllipsoidError struct {
	Name string
}

func (e InvalidEllipsoidError) Error() string {
	return fmt.Sprintf("geodesy: unknown ellipsoid %q; valid names are %v", e.Name, EllipsoidNames())
}

// Is allows errors.Is(err, ErrInvalidEllipsoid).
func (e InvalidEllipsoidError) Is(target error) bool {
	return target == ErrInvalidEllipsoid
}

type ellipsoidDef struct {
	a, b, rf    float64
	ellipseName string
}

// ellipsoidDefs uses the proj naming convention. Either the semi-minor
// axis b or the reciprocal flattening rf is given.
var ellipsoidDefs = map[string]ellipsoidDef{
	"MERIT":    {a: 6378137.0, rf: 298.257, ellipseName: "MERIT 1983"},
	"SGS85":    {a: 6378136.0, rf: 298.257, ellipseName: "Soviet Geodetic System 85"},
	"GRS80":    {a: 6378137.0, rf: 298.257222101, ellipseName: "GRS 1980(IUGG, 1980)"},
	"IAU76":    {a: 6378140.0, rf: 298.257, ellipseName: "IAU 1976"},
	"airy":     {a: 6377563.396, b: 6356256.910, ellipseName: "Airy 1830"},
	"APL4.9":   {a: 6378137.0, rf: 298.25, ellipseName: "Appl. Physics. 1965"},
	"NWL9D":    {a: 6378145.0, rf: 298.25, ellipseName: "Naval Weapons Lab., 1965"},
	"mod_airy": {a: 6377340.189, b: 6356034.446, ellipseName: "Modified Airy"},
	"andrae":   {a: 6377104.43, rf: 300.0, ellipseName: "Andrae 1876 (Den., Iclnd.)"},
	"aust_SA":  {a: 6378160.0, rf: 298.25, ellipseName: "Australian Natl & S. Amer. 1969"},
	"GRS67":    {a: 6378160.0, rf: 298.2471674270, ellipseName: "GRS 67(IUGG 1967)"},
	"bessel":   {a: 6377397.155, rf: 299.1528128, ellipseName: "Bessel 1841"},
	"bess_nam": {a: 6377483.865, rf: 299.1528128, ellipseName: "Bessel 1841 (Namibia)"},
	"clrk66":   {a: 6378206.4, b: 6356583.8, ellipseName: "Clarke 1866"},
	"clrk80":   {a: 6378249.145, rf: 293.4663, ellipseName: "Clarke 1880 mod."},
	"evrst30":  {a: 6377276.345, rf: 300.8017, ellipseName: "Everest 1830"},
	"fschr60":  {a: 6378166.0, rf: 298.3, ellipseName: "Fischer (Mercury Datum) 1960"},
	"helmert":  {a: 6378200.0, rf: 298.3, ellipseName: "Helmert 1906"},
	"hough":    {a: 6378270.0, rf: 297.0, ellipseName: "Hough"},
	"intl":     {a: 6378388.0, rf: 297.0, ellipseName: "International 1909 (Hayford)"},
	"krass":    {a: 6378245.0, rf: 298.3, ellipseName: "Krassovsky, 1942"},
	"new_intl": {a: 6378157.5, b: 6356772.2, ellipseName: "New International 1967"},
	"WGS60":    {a: 6378165.0, rf: 298.3, ellipseName: "WGS 60"},
	"WGS66":    {a: 6378145.0, rf: 298.25, ellipseName: "WGS 66"},
	"WGS72":    {a: 6378135.0, rf: 298.26, ellipseName: "WGS 72"},
	"WGS84":    {a: 6378137.0, rf: 298.257223563, ellipseName: "WGS 84"},
	"sphere":   {a: 6370997.0, b: 6370997.0, ellipseName: "Normal Sphere (r=6370997)"},
}

// EllipsoidNames returns the sorted names of the known ellipsoids.
func EllipsoidNames() []string {
	names := make([]string, 0, len(ellipsoidDefs))
	for n := range ellipsoidDefs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Ellipsoid is a reference ellipsoid on which geodesic problems are solved.
type Ellipsoid struct {
	// Name is the short name the ellipsoid was looked up by.
	Name string

	// Title is the descriptive name of the ellipsoid.
	Title string

	// A is the equatorial radius [m] and F is the flattening.
	A, F float64

	g *geodesic.Ellipsoid
}

// Lookup returns the named reference ellipsoid.
func Lookup(name string) (*Ellipsoid, error) {
	def, ok := ellipsoidDefs[name]
	if !ok {
		return nil, InvalidEllipsoidError{Name: name}
	}
	var f float64
	switch {
	case def.rf != 0:
		f = 1 / def.rf
	case def.b != 0:
		f = (def.a - def.b) / def.a
	}
	g := geodesic.NewEllipsoid(def.a, f)
	if f == 0 {
		g = geodesic.NewSpherical(def.a)
	}
	return &Ellipsoid{
		Name:  name,
		Title: def.ellipseName,
		A:     def.a,
		F:     f,
		g:     g,
	}, nil
}

// MustLookup is like Lookup but panics on an unknown name. It is meant
// for package-level variables and tests.
func MustLookup(name string) *Ellipsoid {
	e, err := Lookup(name)
	if err != nil {
		panic(err)
	}
	return e
}

// WGS84 is the default reference ellipsoid.
var WGS84 = MustLookup("WGS84")
