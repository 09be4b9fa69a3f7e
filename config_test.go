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
	"testing"
)

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{"ellipsoid", func(c *Config) { c.Ellipsoid = "" }},
		{"direction", func(c *Config) { c.BankDirection = 7 }},
		{"interpolateN", func(c *Config) { c.InterpolateBanks = true; c.InterpolateN = 0 }},
		{"equalDistance", func(c *Config) { c.EqualDistance = 0 }},
		{"evenlySpaced", func(c *Config) { c.EvenlySpacedPoints = -1 }},
		{"window", func(c *Config) { c.SmoothingWindow = 10 }},
		{"degree", func(c *Config) { c.SmoothingDegree = 11 }},
		{"span", func(c *Config) { c.TransectSpan = -5 }},
		{"slope", func(c *Config) { c.TransectSlope = 9 }},
		{"slopeWindow", func(c *Config) { c.SlopeWindow = 0 }},
		{"centerline", func(c *Config) { c.WidthCenterline = 9 }},
		{"nprocs", func(c *Config) { c.NumProcessors = -1 }},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := DefaultConfig()
			test.modify(c)
			if err := c.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("want ErrInvalidConfig but have %v", err)
			}
		})
	}
}

func TestParseEnums(t *testing.T) {
	if s, err := ParseSlopeMode("direct"); err != nil || s != Direct {
		t.Errorf("have %v, %v", s, err)
	}
	if b, err := ParseBankDirection("Opposing"); err != nil || b != Opposing {
		t.Errorf("have %v, %v", b, err)
	}
	for _, k := range CenterlineKinds {
		have, err := ParseCenterlineKind(k.String())
		if err != nil || have != k {
			t.Errorf("%v: have %v, %v", k, have, err)
		}
	}
	if _, err := ParseCenterlineKind("spline"); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("want ErrInvalidConfig but have %v", err)
	}
}
