// seehuhn.de/go/sld - render styled layer descriptors
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package param

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"

	"seehuhn.de/go/sld"
	"seehuhn.de/go/sld/filter"
)

var (
	errNotPositive = errors.New("must be positive")
	errNegative    = errors.New("must not be negative")
	errOpacity     = errors.New("must be between 0 and 1")
)

// Float evaluates v as a number.  If v is nil, def is returned.
func (v *Value) Float(f filter.Feature, def float64) (float64, error) {
	if v == nil {
		return def, nil
	}
	x, err := v.typed(f, "float", func(s string) (any, error) {
		return v.parseFloat(s)
	})
	if err != nil {
		return 0, err
	}
	return x.(float64), nil
}

// Positive evaluates v as a number greater than zero.
func (v *Value) Positive(f filter.Feature, def float64) (float64, error) {
	if v == nil {
		return def, nil
	}
	x, err := v.typed(f, "positive", func(s string) (any, error) {
		x, err := v.parseFloat(s)
		if err == nil && !(x > 0) {
			err = &sld.EvaluationError{Param: v.Name, Value: s, Err: errNotPositive}
		}
		return x, err
	})
	if err != nil {
		return 0, err
	}
	return x.(float64), nil
}

// NonNegative evaluates v as a number which is zero or larger.
func (v *Value) NonNegative(f filter.Feature, def float64) (float64, error) {
	if v == nil {
		return def, nil
	}
	x, err := v.typed(f, "nonnegative", func(s string) (any, error) {
		x, err := v.parseFloat(s)
		if err == nil && x < 0 {
			err = &sld.EvaluationError{Param: v.Name, Value: s, Err: errNegative}
		}
		return x, err
	})
	if err != nil {
		return 0, err
	}
	return x.(float64), nil
}

// Opacity evaluates v as a number between 0 and 1.  The value "random"
// gives a random opacity between 0.5 and 1.
func (v *Value) Opacity(f filter.Feature, def float64) (float64, error) {
	if v == nil {
		return def, nil
	}
	x, err := v.typed(f, "opacity", func(s string) (any, error) {
		if isRandom(s) {
			return 0.5 + rand.Float64()/2, nil
		}
		x, err := v.parseFloat(s)
		if err == nil && (x < 0 || x > 1) {
			err = &sld.EvaluationError{Param: v.Name, Value: s, Err: errOpacity}
		}
		return x, err
	})
	if err != nil {
		return 0, err
	}
	return x.(float64), nil
}

// Color evaluates v as a colour literal, see [ParseColor].  The value
// "random" gives a random opaque colour.
func (v *Value) Color(f filter.Feature, def color.NRGBA) (color.NRGBA, error) {
	if v == nil {
		return def, nil
	}
	x, err := v.typed(f, "color", func(s string) (any, error) {
		if isRandom(s) {
			return color.NRGBA{
				R: uint8(rand.IntN(256)),
				G: uint8(rand.IntN(256)),
				B: uint8(rand.IntN(256)),
				A: 255,
			}, nil
		}
		c, _, err := ParseColor(s)
		if err != nil {
			return c, &sld.EvaluationError{Param: v.Name, Value: s, Err: err}
		}
		return c, nil
	})
	if err != nil {
		return color.NRGBA{}, err
	}
	return x.(color.NRGBA), nil
}

// Enum evaluates v and checks that the result is one of the allowed
// keywords.  Keywords are compared case-insensitively and returned in the
// spelling given in allowed.
func (v *Value) Enum(f filter.Feature, def string, allowed ...string) (string, error) {
	if v == nil {
		return def, nil
	}
	x, err := v.typed(f, "enum:"+strings.Join(allowed, ","), func(s string) (any, error) {
		for _, a := range allowed {
			if strings.EqualFold(s, a) {
				return a, nil
			}
		}
		return "", &sld.EvaluationError{
			Param: v.Name,
			Value: s,
			Err:   fmt.Errorf("must be one of %s", strings.Join(allowed, ", ")),
		}
	})
	if err != nil {
		return "", err
	}
	return x.(string), nil
}

// DashArray evaluates v as a list of non-negative lengths.  The entries may
// be separated by commas, semicolons or spaces.  A list with an odd number
// of entries is repeated once, as in PostScript.
func (v *Value) DashArray(f filter.Feature) ([]float64, error) {
	if v == nil {
		return nil, nil
	}
	x, err := v.typed(f, "dash", func(s string) (any, error) {
		fields := strings.FieldsFunc(s, func(r rune) bool {
			return r == ',' || r == ';' || r == ' ' || r == '\t' || r == '\n'
		})
		dash := make([]float64, 0, len(fields))
		for _, fld := range fields {
			d, err := strconv.ParseFloat(fld, 64)
			if err != nil || d < 0 || math.IsInf(d, 0) {
				return nil, &sld.EvaluationError{Param: v.Name, Value: s, Err: errors.New("invalid dash array")}
			}
			dash = append(dash, d)
		}
		if len(dash)%2 == 1 {
			dash = append(dash, dash...)
		}
		return dash, nil
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(x.([]float64)), nil
}

func (v *Value) parseFloat(s string) (float64, error) {
	x, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, &sld.EvaluationError{Param: v.Name, Value: s, Err: errors.New("not a number")}
	}
	return x, nil
}

// ParseColor parses a colour literal of the form #RRGGBB or #AARRGGBB.
// The prefix may also be written "0x".  hasAlpha tells whether the alpha
// component was given; if not, the colour is opaque.
func ParseColor(s string) (c color.NRGBA, hasAlpha bool, err error) {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "#"):
		s = s[1:]
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		s = s[2:]
	default:
		return c, false, fmt.Errorf("colour %q: missing '#'", s)
	}
	if len(s) != 6 && len(s) != 8 {
		return c, false, fmt.Errorf("colour %q: need 6 or 8 hex digits", s)
	}
	x, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return c, false, fmt.Errorf("colour %q: %w", s, err)
	}
	c = color.NRGBA{R: uint8(x >> 16), G: uint8(x >> 8), B: uint8(x), A: 255}
	if len(s) == 8 {
		c.A = uint8(x >> 24)
		hasAlpha = true
	}
	return c, hasAlpha, nil
}

// FormatColor writes c as #RRGGBB, or #AARRGGBB if c is not opaque.
func FormatColor(c color.NRGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.A, c.R, c.G, c.B)
}
