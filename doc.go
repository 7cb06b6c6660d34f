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

// Package sld resolves Styled Layer Descriptor documents into rendering
// instructions and composites the resulting symbols into raster images.
//
// The root package holds what all sub-packages share: the error types
// reported during evaluation and construction, and the package-wide logger.
// The work is done in the sub-packages:
//
//   - [seehuhn.de/go/sld/style]: the style tree, rule selection and label
//     placement
//   - [seehuhn.de/go/sld/param]: parameter values and their typed evaluation
//   - [seehuhn.de/go/sld/colormap]: the Categorize and Interpolate functions
//   - [seehuhn.de/go/sld/mark]: well-known marks as raster images
//   - [seehuhn.de/go/sld/graphic]: sizing, rotation and compositing of
//     graphics, together with the external graphic cache
//   - [seehuhn.de/go/sld/render]: symbolizer dispatch onto a canvas
package sld
