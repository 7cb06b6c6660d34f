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

package style

import (
	"seehuhn.de/go/sld/colormap"
	"seehuhn.de/go/sld/param"
)

// Symbolizer is one of [*PointSymbolizer], [*LineSymbolizer],
// [*PolygonSymbolizer], [*TextSymbolizer] and [*RasterSymbolizer].
type Symbolizer interface {
	common() *Common
}

// Common holds the fields shared by all symbolizers.
type Common struct {
	Name string

	// Geometry names the feature property holding the geometry to draw.
	// The empty string selects the default geometry of the feature.
	Geometry string

	Scale ScaleRange
}

func (c *Common) common() *Common { return c }

// Base returns the fields shared by all symbolizers.
func Base(s Symbolizer) *Common {
	return s.common()
}

// PointSymbolizer draws a graphic at a point.
type PointSymbolizer struct {
	Common
	Graphic *Graphic
}

// LineSymbolizer strokes a line.  A nil Stroke draws a solid black line one
// unit wide.
type LineSymbolizer struct {
	Common
	Stroke *Stroke

	// PerpendicularOffset shifts the line to the left (positive) or right
	// (negative) of its direction.
	PerpendicularOffset *param.Value
}

// PolygonSymbolizer fills and outlines an area.  A nil Fill leaves the
// interior unpainted, and a nil Stroke omits the outline.
type PolygonSymbolizer struct {
	Common
	Fill   *Fill
	Stroke *Stroke
}

// TextSymbolizer draws a label.
type TextSymbolizer struct {
	Common
	Label *param.Value
	Font  *Font
	Halo  *Halo

	// Fill gives the text colour.  If Fill is nil, black text is drawn.
	Fill *Fill

	// Placement is nil, a [*PointPlacement] or a [*LinePlacement].
	Placement LabelPlacement
}

// RasterSymbolizer colours a grid of samples.
type RasterSymbolizer struct {
	Common
	Opacity *param.Value

	// ColorMap maps samples to colours.  If ColorMap is nil, samples
	// between 0 and 255 are drawn as grey levels.
	ColorMap colormap.Ramp

	// Gamma adjusts the contrast of the output.  Zero and one leave the
	// image unchanged.
	Gamma float64

	// Relief enables shaded relief, using the samples as heights.
	Relief *colormap.Relief
}

var (
	_ Symbolizer = (*PointSymbolizer)(nil)
	_ Symbolizer = (*LineSymbolizer)(nil)
	_ Symbolizer = (*PolygonSymbolizer)(nil)
	_ Symbolizer = (*TextSymbolizer)(nil)
	_ Symbolizer = (*RasterSymbolizer)(nil)
)
