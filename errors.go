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
	"errors"

	"github.com/spatialmodel/centerline/geodesy"
)

// Failure kinds returned by the pipeline. Returned errors wrap one of
// these, so callers can test them with errors.Is.
var (
	// ErrInvalidInput is returned for malformed or too-short bank
	// sequences.
	ErrInvalidInput = errors.New("centerline: invalid input")

	// ErrNoCenterlinePath is returned when the centerline graph is empty
	// or no start node is connected to an end node. It usually means the
	// bank sampling is too sparse or the polygon is malformed.
	ErrNoCenterlinePath = errors.New("centerline: no centerline path")

	// ErrInvalidPointCount is returned when a resampling point count is
	// not positive.
	ErrInvalidPointCount = errors.New("centerline: invalid point count")

	// ErrInvalidConfig is returned by Config.Validate.
	ErrInvalidConfig = errors.New("centerline: invalid configuration")
)

// InvalidEllipsoidError is returned for unknown ellipsoid names.
type InvalidEllipsoidError = geodesy.InvalidEllipsoidError
