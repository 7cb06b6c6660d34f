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

package colormap

import (
	"image"
	"math"
)

// Grid is a rectangular array of samples in row-major order.  NaN marks
// cells without data.
type Grid struct {
	W, H int
	Data []float32
}

// At returns the sample at (x, y), clamping the coordinates to the grid.
func (g *Grid) At(x, y int) float32 {
	x = min(max(x, 0), g.W-1)
	y = min(max(y, 0), g.H-1)
	return g.Data[y*g.W+x]
}

// Classify colours every cell of g using ramp.  Colours without explicit
// alpha get the alpha round(opacity*255).  Cells without data are
// transparent, unless ramp is an [Interpolate] with a fallback colour.
func Classify(g *Grid, ramp Ramp, opacity float64) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, g.W, g.H))
	alpha := uint8(math.Round(min(max(opacity, 0), 1) * 255))

	var noData uint32
	if ip, ok := ramp.(*Interpolate); ok && ip.Fallback != (Entry{}) {
		noData = ip.Fallback.pack(alpha)
	}

	for y := range g.H {
		for x := range g.W {
			s := g.Data[y*g.W+x]
			argb := noData
			if !math.IsNaN(float64(s)) {
				argb = ramp.Lookup(s, alpha)
			}
			i := img.PixOffset(x, y)
			img.Pix[i+0] = uint8(argb >> 16)
			img.Pix[i+1] = uint8(argb >> 8)
			img.Pix[i+2] = uint8(argb)
			img.Pix[i+3] = uint8(argb >> 24)
		}
	}
	return img
}

// Gamma applies a gamma correction to the colour channels of img.  Values
// above one brighten the image, values below one darken it.  Non-positive
// values and one leave the image unchanged.
func Gamma(img *image.NRGBA, gamma float64) {
	if gamma <= 0 || gamma == 1 {
		return
	}
	var table [256]uint8
	for i := range table {
		table[i] = uint8(math.Round(255 * math.Pow(float64(i)/255, 1/gamma)))
	}
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = table[img.Pix[i+0]]
		img.Pix[i+1] = table[img.Pix[i+1]]
		img.Pix[i+2] = table[img.Pix[i+2]]
	}
}

// Relief describes shaded relief: the surface given by the samples is lit
// by a light source at the given azimuth (degrees clockwise from north) and
// altitude (degrees above the horizon).
type Relief struct {
	// Factor exaggerates the height differences.  Zero means one.
	Factor   float64
	Azimuth  float64
	Altitude float64

	// BrightnessOnly keeps the hue of the classified colours and only
	// changes their brightness.  Otherwise the shading is blended with
	// the colours.
	BrightnessOnly bool
}

// DefaultRelief lights the surface from the north-west, at 45 degrees.
var DefaultRelief = Relief{Factor: 1, Azimuth: 315, Altitude: 45}

// Shade modulates the colours of img by the illumination of the surface
// described by g.  img and g must have the same size.  Slopes are estimated
// with the 3×3 Sobel operator.
func (r Relief) Shade(img *image.NRGBA, g *Grid) {
	factor := r.Factor
	if factor == 0 {
		factor = 1
	}
	az := (360 - r.Azimuth + 90) * math.Pi / 180
	zenith := (90 - r.Altitude) * math.Pi / 180
	sinZ, cosZ := math.Sincos(zenith)

	h := func(x, y int) float64 {
		v := float64(g.At(x, y))
		if math.IsNaN(v) {
			return 0
		}
		return v * factor
	}
	for y := range g.H {
		for x := range g.W {
			dzdx := ((h(x+1, y-1) + 2*h(x+1, y) + h(x+1, y+1)) -
				(h(x-1, y-1) + 2*h(x-1, y) + h(x-1, y+1))) / 8
			dzdy := ((h(x-1, y+1) + 2*h(x, y+1) + h(x+1, y+1)) -
				(h(x-1, y-1) + 2*h(x, y-1) + h(x+1, y-1))) / 8
			slope := math.Atan(math.Hypot(dzdx, dzdy))
			aspect := math.Atan2(dzdy, -dzdx)
			light := cosZ*math.Cos(slope) + sinZ*math.Sin(slope)*math.Cos(az-aspect)
			light = min(max(light, 0), 1)

			i := img.PixOffset(x, y)
			for c := range 3 {
				v := float64(img.Pix[i+c])
				if r.BrightnessOnly {
					v *= light
				} else {
					v = (v + 255*light) / 2
				}
				img.Pix[i+c] = uint8(math.Round(v))
			}
		}
	}
}
