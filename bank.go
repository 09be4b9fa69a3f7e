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

	"github.com/ctessum/geom"
	"github.com/spatialmodel/centerline/geodesy"
)

// Coordinate is a latitude/longitude pair in decimal degrees.
type Coordinate = geodesy.Coordinate

// validateBank checks that a bank sequence has at least two valid
// coordinates.
func validateBank(name string, bank []Coordinate) error {
	if len(bank) < 2 {
		return fmt.Errorf("%w: %s bank has %d points; at least 2 are required", ErrInvalidInput, name, len(bank))
	}
	for i, c := range bank {
		if !c.Valid() {
			return fmt.Errorf("%w: %s bank point %d %v is not a valid latitude/longitude", ErrInvalidInput, name, i, c)
		}
	}
	return nil
}

// reversed returns a reversed copy of cs.
func reversed(cs []Coordinate) []Coordinate {
	out := make([]Coordinate, len(cs))
	for i, c := range cs {
		out[len(cs)-1-i] = c
	}
	return out
}

// InterpolateBank returns a copy of bank with n geodesically
// interpolated points inserted between each pair of consecutive points.
func InterpolateBank(bank []Coordinate, n int, e *geodesy.Ellipsoid) []Coordinate {
	if n <= 0 || len(bank) < 2 {
		return append([]Coordinate(nil), bank...)
	}
	out := make([]Coordinate, 0, len(bank)+(len(bank)-1)*n)
	for i := 0; i < len(bank)-1; i++ {
		a, b := bank[i], bank[i+1]
		out = append(out, a)
		if a == b {
			continue
		}
		for k := 1; k <= n; k++ {
			out = append(out, e.Interpolate(a, b, float64(k)/float64(n+1)))
		}
	}
	return append(out, bank[len(bank)-1])
}

// checkBankOrder returns an error if the segment joining the first
// points of the banks crosses the segment joining their last points,
// which happens when one bank is listed in the opposite direction.
func checkBankOrder(left, right []geom.Point) error {
	if crosses(left[0], right[0], left[len(left)-1], right[len(right)-1]) {
		return fmt.Errorf("%w: the bank end caps cross; the right bank appears to be "+
			"listed in the opposite direction of the left bank (see BankDirection)", ErrInvalidInput)
	}
	return nil
}
