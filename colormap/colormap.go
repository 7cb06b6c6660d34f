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

// Package colormap maps raster sample values to colours.
//
// Two functions are provided, as in Symbology Encoding: [Categorize]
// assigns a colour to every interval between thresholds, and [Interpolate]
// blends linearly between colours given at sample points.  Results are
// packed ARGB values, alpha in the most significant byte.
package colormap

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"slices"
	"strings"

	"seehuhn.de/go/sld"
	"seehuhn.de/go/sld/param"
)

// Ramp maps a sample to a packed ARGB colour.  fallbackAlpha is used for
// colours whose literal did not specify an alpha value.
type Ramp interface {
	Lookup(sample float32, fallbackAlpha uint8) uint32
}

// Entry is a colour of a ramp.
type Entry struct {
	R, G, B, A uint8

	// HasAlpha is set if the alpha value was given explicitly.
	HasAlpha bool
}

// ParseEntry parses a colour literal, see [param.ParseColor].
func ParseEntry(s string) (Entry, error) {
	c, hasAlpha, err := param.ParseColor(s)
	if err != nil {
		return Entry{}, err
	}
	return Entry{R: c.R, G: c.G, B: c.B, A: c.A, HasAlpha: hasAlpha}, nil
}

// MustEntry is like [ParseEntry] but panics on invalid input.  It is meant
// for colour constants.
func MustEntry(s string) Entry {
	e, err := ParseEntry(s)
	if err != nil {
		panic(err)
	}
	return e
}

// String gives the literal form of e.
func (e Entry) String() string {
	if e.HasAlpha {
		return fmt.Sprintf("#%02x%02x%02x%02x", e.A, e.R, e.G, e.B)
	}
	return fmt.Sprintf("#%02x%02x%02x", e.R, e.G, e.B)
}

func (e Entry) alpha(fallback uint8) uint8 {
	if e.HasAlpha {
		return e.A
	}
	return fallback
}

func (e Entry) pack(fallback uint8) uint32 {
	return pack(e.alpha(fallback), e.R, e.G, e.B)
}

func pack(a, r, g, b uint8) uint32 {
	return uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// Unpack converts a packed ARGB value to a colour.
func Unpack(argb uint32) color.NRGBA {
	return color.NRGBA{
		A: uint8(argb >> 24),
		R: uint8(argb >> 16),
		G: uint8(argb >> 8),
		B: uint8(argb),
	}
}

// BelongTo says to which interval a threshold itself belongs.
type BelongTo int

const (
	// Succeeding places a sample equal to a threshold in the interval
	// above the threshold.  This is the default.
	Succeeding BelongTo = iota

	// Preceding places a sample equal to a threshold in the interval
	// below the threshold.
	Preceding
)

func (b BelongTo) String() string {
	if b == Preceding {
		return "preceding"
	}
	return "succeeding"
}

// ParseBelongTo parses the value of the thresholdsBelongTo attribute.
func ParseBelongTo(s string) (BelongTo, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "succeeding":
		return Succeeding, nil
	case "preceding":
		return Preceding, nil
	}
	return 0, fmt.Errorf("invalid thresholdsBelongTo value %q", s)
}

// Categorize assigns Values[i] to the samples between Thresholds[i-1] and
// Thresholds[i].  Thresholds must be increasing.
type Categorize struct {
	Thresholds []float64
	Values     []Entry
	BelongTo   BelongTo
}

// NewCategorize checks that there is one more value than thresholds.
func NewCategorize(thresholds []float64, values []Entry, belongTo BelongTo) (*Categorize, error) {
	if len(values) == 0 || len(thresholds) != len(values)-1 {
		return nil, &sld.ConstructionError{
			What: "Categorize",
			Err:  fmt.Errorf("%d thresholds for %d values", len(thresholds), len(values)),
		}
	}
	return &Categorize{
		Thresholds: slices.Clone(thresholds),
		Values:     slices.Clone(values),
		BelongTo:   belongTo,
	}, nil
}

// Lookup returns the colour of the interval containing sample.
func (c *Categorize) Lookup(sample float32, fallbackAlpha uint8) uint32 {
	// thresholds are compared at sample precision, so that a sample
	// written as 0.7 equals the threshold 0.7
	k := 0
	for i, t := range c.Thresholds {
		t32 := float32(t)
		var above bool
		if c.BelongTo == Preceding {
			above = t32 < sample
		} else {
			above = t32 <= sample
		}
		if !above {
			break
		}
		k = i + 1
	}
	return c.Values[k].pack(fallbackAlpha)
}

// Mode is the interpolation mode of [Interpolate].
type Mode int

const (
	Linear Mode = iota
	Cosine
	Cubic
)

var modeNames = []string{Linear: "linear", Cosine: "cosine", Cubic: "cubic"}

func (m Mode) String() string {
	if m >= 0 && int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Method is the interpolation method of [Interpolate].
type Method int

const (
	ColorMethod Method = iota
	NumericMethod
)

func (m Method) String() string {
	if m == NumericMethod {
		return "numeric"
	}
	return "color"
}

// ParseMode parses the mode attribute.  The empty string means linear.
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Linear, nil
	}
	for i, n := range modeNames {
		if n == s {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("invalid interpolation mode %q", s)
}

// ParseMethod parses the method attribute.  The empty string means color.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "color":
		return ColorMethod, nil
	case "numeric":
		return NumericMethod, nil
	}
	return 0, fmt.Errorf("invalid interpolation method %q", s)
}

// Point is a sample value with its colour.
type Point struct {
	Data float64
	Entry
}

// Interpolate blends the colours of neighbouring points.  Samples below
// the first point get the colour of the first point, samples above the
// last point that of the last point.
//
// Only linear interpolation of colours is implemented.  The other modes
// and methods are accepted and treated as linear and color.
type Interpolate struct {
	Points   []Point
	Fallback Entry
	Mode     Mode
	Method   Method
}

var errNoPoints = errors.New("no interpolation points")

// NewInterpolate sorts the points by their data value.  A warning is
// logged for modes and methods which are not implemented.
func NewInterpolate(points []Point, fallback Entry, mode Mode, method Method) (*Interpolate, error) {
	if len(points) == 0 {
		return nil, &sld.ConstructionError{What: "Interpolate", Err: errNoPoints}
	}
	if mode != Linear {
		sld.Logger().Warn("interpolation mode not supported, using linear", "mode", mode)
	}
	if method != ColorMethod {
		sld.Logger().Warn("interpolation method not supported, using color", "method", method)
	}
	pts := slices.Clone(points)
	slices.SortStableFunc(pts, func(a, b Point) int {
		switch {
		case a.Data < b.Data:
			return -1
		case a.Data > b.Data:
			return 1
		}
		return 0
	})
	return &Interpolate{Points: pts, Fallback: fallback, Mode: mode, Method: method}, nil
}

// Lookup returns the interpolated colour for sample.  NaN samples get the
// fallback colour, or transparent black if no fallback is set.
func (ip *Interpolate) Lookup(sample float32, fallbackAlpha uint8) uint32 {
	if sample != sample {
		if ip.Fallback == (Entry{}) {
			return 0
		}
		return ip.Fallback.pack(fallbackAlpha)
	}
	pts := ip.Points
	if sample < float32(pts[0].Data) {
		return pts[0].pack(fallbackAlpha)
	}

	k := 0
	for k < len(pts) && float32(pts[k].Data) <= sample {
		k++
	}
	if k == len(pts) {
		return pts[k-1].pack(fallbackAlpha)
	}
	next, prev := pts[k], pts[k-1]

	s := float64(sample)
	hi, lo := float64(float32(next.Data)), float64(float32(prev.Data))
	f := min(max((hi-s)/(hi-lo), 0), 1)
	mix := func(a, b uint8) uint8 {
		return uint8(math.Round((1-f)*float64(a) + f*float64(b)))
	}
	return pack(
		mix(next.alpha(fallbackAlpha), prev.alpha(fallbackAlpha)),
		mix(next.R, prev.R),
		mix(next.G, prev.G),
		mix(next.B, prev.B),
	)
}
