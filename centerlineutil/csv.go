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
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spatialmodel/centerline"
	"github.com/spf13/cast"
)

// Columns names the bank coordinate columns of a CSV file.
type Columns struct {
	LeftLatitude, LeftLongitude   string
	RightLatitude, RightLongitude string
}

// DefaultColumns are the column names used when none are configured.
var DefaultColumns = Columns{
	LeftLatitude:   "llat",
	LeftLongitude:  "llong",
	RightLatitude:  "rlat",
	RightLongitude: "rlong",
}

// ReadBankFile reads bank coordinates from the CSV file at path.
// See ReadBanks.
func ReadBankFile(path string, cols Columns, cutoff int) (left, right []centerline.Coordinate, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("centerline: opening bank file: %v", err)
	}
	defer f.Close()
	return ReadBanks(f, cols, cutoff)
}

// ReadBanks reads left and right bank coordinates in decimal degrees
// from CSV data with a header row. A row whose left or right pair is
// empty adds a point to the other bank only, so the banks may differ in
// length. If cutoff is greater than zero only the first cutoff data rows
// are read.
func ReadBanks(r io.Reader, cols Columns, cutoff int) (left, right []centerline.Coordinate, err error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("centerline: reading bank file header: %v", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	var col [4]int
	for i, name := range []string{cols.LeftLatitude, cols.LeftLongitude, cols.RightLatitude, cols.RightLongitude} {
		j, ok := idx[name]
		if !ok {
			return nil, nil, fmt.Errorf("%w: bank file has no column `%s`", centerline.ErrInvalidInput, name)
		}
		col[i] = j
	}

	for row := 1; cutoff <= 0 || row <= cutoff; row++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, nil, fmt.Errorf("centerline: reading bank file: %v", err)
		}
		c, ok, err := pair(rec, col[0], col[1])
		if err != nil {
			return nil, nil, fmt.Errorf("centerline: left bank, data row %d: %w", row, err)
		} else if ok {
			left = append(left, c)
		}
		c, ok, err = pair(rec, col[2], col[3])
		if err != nil {
			return nil, nil, fmt.Errorf("centerline: right bank, data row %d: %w", row, err)
		} else if ok {
			right = append(right, c)
		}
	}
	return left, right, nil
}

// pair parses the coordinate in columns lat and lon of rec. ok is false
// if both cells are empty.
func pair(rec []string, lat, lon int) (c centerline.Coordinate, ok bool, err error) {
	cell := func(i int) string {
		if i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
		return ""
	}
	a, b := cell(lat), cell(lon)
	if a == "" && b == "" {
		return c, false, nil
	} else if a == "" || b == "" {
		return c, false, fmt.Errorf("%w: latitude `%s` and longitude `%s` must both be set", centerline.ErrInvalidInput, a, b)
	}
	if c.Lat, err = cast.ToFloat64E(a); err != nil {
		return c, false, fmt.Errorf("%w: %v", centerline.ErrInvalidInput, err)
	}
	if c.Lon, err = cast.ToFloat64E(b); err != nil {
		return c, false, fmt.Errorf("%w: %v", centerline.ErrInvalidInput, err)
	}
	return c, true, nil
}
