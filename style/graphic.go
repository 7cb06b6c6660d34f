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
	"strings"

	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/sld/filter"
	"seehuhn.de/go/sld/param"
)

// Graphic is a symbol built from marks and external images.
type Graphic struct {
	// Sources are tried in order.  The first source determines the size
	// of the graphic, and all sources are drawn.
	Sources []GraphicSource

	Opacity  *param.Value
	Size     *param.Value
	Rotation *param.Value

	DisplacementX *param.Value
	DisplacementY *param.Value
}

// GraphicSource is either a [*Mark] or an [*ExternalGraphic].
type GraphicSource interface {
	isGraphicSource()
}

// Mark is a well-known shape.
type Mark struct {
	// WellKnownName is one of "square", "circle", "triangle", "star",
	// "cross" and "x", or a glyph reference of the form
	// "CHAR:<font>:<code>".
	WellKnownName string

	Fill   *Fill
	Stroke *Stroke
}

// ExternalGraphic refers to an image file.
type ExternalGraphic struct {
	URL    string
	Format string
	Title  string
}

func (*Mark) isGraphicSource()            {}
func (*ExternalGraphic) isGraphicSource() {}

// IsSVG reports whether the image is an SVG document.
func (e *ExternalGraphic) IsSVG() bool {
	return isSVG(e.Format, e.URL)
}

func isSVG(format, url string) bool {
	if strings.Contains(strings.ToLower(format), "svg") {
		return true
	}
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		url = url[:i]
	}
	return strings.HasSuffix(strings.ToLower(url), ".svg")
}

// GraphicParams is a [Graphic] evaluated for one feature.
type GraphicParams struct {
	Opacity float64

	// Size is the width of the graphic.  The height follows from the
	// natural aspect ratio of the first source.  Zero means that the size
	// is not specified.
	Size float64

	// Rotation is the clockwise rotation in degrees.
	Rotation float64

	Displacement vec.Vec2
}

// Resolve evaluates the numeric parameters of the graphic for f.
func (g *Graphic) Resolve(f filter.Feature) (GraphicParams, error) {
	var res GraphicParams
	var err error
	if res.Opacity, err = g.Opacity.Opacity(f, 1); err != nil {
		return res, err
	}
	if res.Size, err = g.Size.Float(f, 0); err != nil {
		return res, err
	}
	if res.Rotation, err = g.Rotation.Float(f, 0); err != nil {
		return res, err
	}
	if res.Displacement.X, err = g.DisplacementX.Float(f, 0); err != nil {
		return res, err
	}
	if res.Displacement.Y, err = g.DisplacementY.Float(f, 0); err != nil {
		return res, err
	}
	return res, nil
}
