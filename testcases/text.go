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
	"seehuhn.de/go/sld/filter"
	"seehuhn.de/go/sld/param"
	"seehuhn.de/go/sld/render"
	"seehuhn.de/go/sld/style"
)

var font14 = &style.Font{Params: style.Params{}.
	Lit(style.ParamFontFamily, "sans-serif").
	Lit(style.ParamFontSize, "14")}

var textCases = []TestCase{
	{
		Name:   "point",
		Width:  96,
		Height: 32,
		Symbolizer: &style.TextSymbolizer{
			Label: lit("label", "Abc"),
			Font:  font14,
		},
		Geometry: render.Point(pt(8, 16)),
	},
	{
		Name:   "point_centred",
		Width:  96,
		Height: 32,
		Symbolizer: &style.TextSymbolizer{
			Label: lit("label", "Abc"),
			Font:  font14,
			Placement: &style.PointPlacement{
				AnchorX: lit("anchor-x", "0.5"),
				AnchorY: lit("anchor-y", "0.5"),
			},
		},
		Geometry: render.Point(pt(48, 16)),
	},
	{
		Name:   "halo",
		Width:  96,
		Height: 32,
		Symbolizer: &style.TextSymbolizer{
			Label: lit("label", "Abc"),
			Font:  font14,
			Fill:  fill("#ffffff"),
			Halo:  &style.Halo{Radius: lit("radius", "2"), Fill: fill("#000000")},
		},
		Geometry: render.Point(pt(8, 16)),
	},
	{
		Name:   "rotated",
		Width:  64,
		Height: 64,
		Symbolizer: &style.TextSymbolizer{
			Label:     lit("label", "Abc"),
			Font:      font14,
			Placement: &style.PointPlacement{Rotation: lit("rotation", "-45")},
		},
		Geometry: render.Point(pt(16, 48)),
	},
	{
		Name:   "property_label",
		Width:  96,
		Height: 32,
		Symbolizer: &style.TextSymbolizer{
			Label: param.New("label", param.Text("No."), param.Expr{Expression: filter.Property("number")}),
			Font:  font14,
		},
		Geometry: render.Point(pt(8, 16)),
		Props:    map[string]any{"number": 7},
	},
	{
		Name:   "along_line",
		Width:  128,
		Height: 64,
		Symbolizer: &style.TextSymbolizer{
			Label:     lit("label", "Road"),
			Font:      font14,
			Placement: &style.LinePlacement{Gap: lit("gap", "12")},
		},
		Geometry: render.LineString{pt(8, 48), pt(64, 16), pt(120, 48)},
	},
	{
		Name:   "above_line",
		Width:  128,
		Height: 64,
		Symbolizer: &style.TextSymbolizer{
			Label: lit("label", "Road"),
			Font:  font14,
			Placement: &style.LinePlacement{
				PerpendicularOffset: lit("perpendicular-offset", "above"),
			},
		},
		Geometry: render.LineString{pt(120, 40), pt(8, 40)},
	},
}
