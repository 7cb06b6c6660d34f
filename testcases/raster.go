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

package testcases

import (
	"math"

	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/sld/colormap"
	"seehuhn.de/go/sld/render"
	"seehuhn.de/go/sld/style"
)

var rasterCases = []TestCase{
	{
		Name:       "grey",
		Width:      64,
		Height:     64,
		Symbolizer: &style.RasterSymbolizer{},
		Geometry:   ramp(),
	},
	{
		Name:   "categorize",
		Width:  64,
		Height: 64,
		Symbolizer: &style.RasterSymbolizer{
			ColorMap: &colormap.Categorize{
				Thresholds: []float64{64, 128, 192},
				Values: []colormap.Entry{
					colormap.MustEntry("#000080"),
					colormap.MustEntry("#008000"),
					colormap.MustEntry("#808000"),
					colormap.MustEntry("#ffffff"),
				},
			},
		},
		Geometry: ramp(),
	},
	{
		Name:   "interpolate",
		Width:  64,
		Height: 64,
		Symbolizer: &style.RasterSymbolizer{
			ColorMap: &colormap.Interpolate{
				Points: []colormap.Point{
					{Data: 0, Entry: colormap.MustEntry("#0000ff")},
					{Data: 255, Entry: colormap.MustEntry("#ff0000")},
				},
			},
		},
		Geometry: ramp(),
	},
	{
		Name:   "half_opacity",
		Width:  64,
		Height: 64,
		Symbolizer: &style.RasterSymbolizer{
			Opacity: lit("opacity", "0.5"),
		},
		Geometry: ramp(),
	},
	{
		Name:   "relief",
		Width:  64,
		Height: 64,
		Symbolizer: &style.RasterSymbolizer{
			ColorMap: &colormap.Interpolate{
				Points: []colormap.Point{
					{Data: 0, Entry: colormap.MustEntry("#40a040")},
					{Data: 100, Entry: colormap.MustEntry("#c0a080")},
				},
			},
			Relief: &colormap.DefaultRelief,
		},
		Geometry: hill(),
	},
}

// ramp returns a 16×16 grid rising from 0 on the left to 255 on the right,
// covering the whole canvas.
func ramp() *render.Coverage {
	const n = 16
	g := &colormap.Grid{W: n, H: n, Data: make([]float32, n*n)}
	for y := range n {
		for x := range n {
			g.Data[y*n+x] = float32(x * 255 / (n - 1))
		}
	}
	return &render.Coverage{Grid: g, Bounds: pixelBounds(64, 64)}
}

// hill returns a 32×32 grid with a round hill in the middle.
func hill() *render.Coverage {
	const n = 32
	g := &colormap.Grid{W: n, H: n, Data: make([]float32, n*n)}
	for y := range n {
		for x := range n {
			dx, dy := float64(x-n/2), float64(y-n/2)
			g.Data[y*n+x] = float32(100 * math.Exp(-(dx*dx+dy*dy)/64))
		}
	}
	return &render.Coverage{Grid: g, Bounds: pixelBounds(64, 64)}
}

// pixelBounds returns the bounds of a w×h canvas.  Row 0 of a grid is drawn
// at URy, which for the pixel grid is the top edge y = 0.
func pixelBounds(w, h float64) rect.Rect {
	return rect.Rect{LLx: 0, LLy: h, URx: w, URy: 0}
}
