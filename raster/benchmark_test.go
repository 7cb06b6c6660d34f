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

package raster

import (
	"fmt"
	"image"
	"image/color"
	"testing"

	"golang.org/x/image/vector"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/pdf/graphics"
)

// BenchmarkCircle fills a disc and compares with x/image/vector.
func BenchmarkCircle(b *testing.B) {
	for _, size := range []int{16, 64, 256} {
		b.Run(fmt.Sprintf("raster/%d", size), func(b *testing.B) {
			r := New(rect.Rect{URx: float64(size), URy: float64(size)})
			dst := image.NewAlpha(image.Rect(0, 0, size, size))
			disc := Ellipse(1, 1, float64(size-2), float64(size-2))
			b.ReportAllocs()
			for b.Loop() {
				r.Fill(disc, NonZero, func(y, xMin int, coverage []float32) {
					row := dst.Pix[y*dst.Stride+xMin:]
					for i, c := range coverage {
						row[i] = uint8(c * 255)
					}
				})
			}
		})

		b.Run(fmt.Sprintf("vector/%d", size), func(b *testing.B) {
			z := vector.NewRasterizer(size, size)
			dst := image.NewAlpha(image.Rect(0, 0, size, size))
			src := image.NewUniform(color.Alpha{A: 255})
			const k = 0.5522847498
			rad := float32(size-2) / 2
			c := float32(size) / 2
			b.ReportAllocs()
			for b.Loop() {
				z.Reset(size, size)
				z.MoveTo(c+rad, c)
				z.CubeTo(c+rad, c+k*rad, c+k*rad, c+rad, c, c+rad)
				z.CubeTo(c-k*rad, c+rad, c-rad, c+k*rad, c-rad, c)
				z.CubeTo(c-rad, c-k*rad, c-k*rad, c-rad, c, c-rad)
				z.CubeTo(c+k*rad, c-rad, c+rad, c-k*rad, c+rad, c)
				z.ClosePath()
				z.Draw(dst, dst.Bounds(), src, image.Point{})
			}
		})
	}
}

// BenchmarkStarOutline strokes a star mark with round joins.
func BenchmarkStarOutline(b *testing.B) {
	r := New(rect.Rect{URx: 64, URy: 64})
	r.Width = 3
	r.Join = graphics.LineJoinRound
	star := Polygon(pt(32, 4), pt(39, 24), pt(60, 24), pt(43, 37), pt(49, 58),
		pt(32, 45), pt(15, 58), pt(21, 37), pt(4, 24), pt(25, 24))
	emit := func(int, int, []float32) {}
	b.ReportAllocs()
	for b.Loop() {
		r.Stroke(star, emit)
	}
}
