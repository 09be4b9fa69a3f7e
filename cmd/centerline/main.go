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

// Command centerline is a command-line interface for river centerline
// and width extraction.
package main

import (
	"fmt"
	"os"

	"github.com/spatialmodel/centerline/centerlineutil"
)

func main() {
	if err := centerlineutil.Root.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}
