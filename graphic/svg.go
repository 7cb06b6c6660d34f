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

package graphic

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"math"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"seehuhn.de/go/sld"
)

// svgDoc is an SVG document together with the size of its view box.
type svgDoc struct {
	url  string
	data []byte
	w, h float64
}

var errEmptyViewBox = errors.New("SVG has no size")

// parseSVG reads an SVG document.  Parser panics are converted into
// errors.
func parseSVG(data []byte, mode oksvg.ErrorMode) (icon *oksvg.SvgIcon, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("SVG parser: %v", r)
		}
	}()
	return oksvg.ReadIconStream(bytes.NewReader(data), mode)
}

func newSVGDoc(u string, data []byte) (*svgDoc, error) {
	icon, err := parseSVG(data, oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, err
	}
	doc := &svgDoc{url: u, data: data, w: icon.ViewBox.W, h: icon.ViewBox.H}
	if !(doc.w > 0 && doc.h > 0) {
		return nil, errEmptyViewBox
	}
	return doc, nil
}

// natural returns the size of the view box, in whole pixels.
func (d *svgDoc) natural() image.Point {
	return image.Pt(int(math.Ceil(d.w)), int(math.Ceil(d.h)))
}

// drawVector renders the document into the w×h box centred in dst, rotated
// by deg degrees clockwise about the centre of dst.  Nothing is drawn if
// rendering fails.
func (d *svgDoc) drawVector(dst *image.RGBA, w, h int, deg float64) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &sld.CompositingError{Source: d.url, Err: fmt.Errorf("%v", r)}
		}
	}()

	icon, err := parseSVG(d.data, oksvg.StrictErrorMode)
	if err != nil {
		return &sld.CompositingError{Source: d.url, Err: err}
	}

	b := dst.Bounds()
	cx, cy := float64(b.Dx())/2, float64(b.Dy())/2
	sx, sy := float64(w)/icon.ViewBox.W, float64(h)/icon.ViewBox.H
	tx := cx - float64(w)/2 - icon.ViewBox.X*sx
	ty := cy - float64(h)/2 - icon.ViewBox.Y*sy
	sin, cos := math.Sincos(deg * math.Pi / 180)
	icon.Transform = rasterx.Matrix2D{
		A: cos * sx,
		B: sin * sx,
		C: -sin * sy,
		D: cos * sy,
		E: cos*(tx-cx) - sin*(ty-cy) + cx,
		F: sin*(tx-cx) + cos*(ty-cy) + cy,
	}

	scratch := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	scanner := rasterx.NewScannerGV(b.Dx(), b.Dy(), scratch, scratch.Bounds())
	dasher := rasterx.NewDasher(b.Dx(), b.Dy(), scanner)
	icon.Draw(dasher, 1.0)

	draw.Draw(dst, b, scratch, image.Point{}, draw.Over)
	return nil
}

// rasterize renders the document at w×h pixels, ignoring unsupported
// SVG features.
func (d *svgDoc) rasterize(w, h int) (img *image.RGBA, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &sld.CompositingError{Source: d.url, Err: fmt.Errorf("%v", r)}
		}
	}()

	icon, err := parseSVG(d.data, oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, err
	}
	icon.SetTarget(0, 0, float64(w), float64(h))
	img = image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	dasher := rasterx.NewDasher(w, h, scanner)
	icon.Draw(dasher, 1.0)
	return img, nil
}
