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

// Package graphic turns graphics, made of marks and external images, into
// raster images.
package graphic

import (
	"context"
	"image"
	"math"
	"sync"

	"golang.org/x/sync/singleflight"
	"seehuhn.de/go/geom/matrix"

	"seehuhn.de/go/sld"
	"seehuhn.de/go/sld/canvas"
	"seehuhn.de/go/sld/filter"
	"seehuhn.de/go/sld/fonts"
	"seehuhn.de/go/sld/mark"
	"seehuhn.de/go/sld/style"
)

// DefaultSize is the size of graphics which specify neither a size nor an
// external image.
const DefaultSize = 6

// Compositor draws graphics.  A Compositor is safe for concurrent use.
// Use [NewCompositor] to create a Compositor.
type Compositor struct {
	Cache   *Cache
	Fetcher *Fetcher
	Marks   *mark.Rasterizer

	docMu    sync.Mutex
	docs     map[string]*svgDoc
	docGroup singleflight.Group
}

// NewCompositor returns a compositor storing decoded images in cache.  If
// cache is nil, a new cache is allocated.  If fetcher is nil, relative
// names are resolved against the working directory.
func NewCompositor(cache *Cache, fetcher *Fetcher, reg *fonts.Registry) *Compositor {
	if cache == nil {
		cache = NewCache()
	}
	if fetcher == nil {
		fetcher = NewFetcher("")
	}
	c := &Compositor{
		Cache:   cache,
		Fetcher: fetcher,
		docs:    make(map[string]*svgDoc),
	}
	c.Marks = &mark.Rasterizer{Fonts: reg, Symbols: c}
	return c
}

// Size computes the width and height of a graphic.  An explicit size gives
// the width, and the height follows the aspect ratio of natural, if known.
// Without an explicit size, the natural size is used.  If neither is
// available, or the result is empty, the graphic is [DefaultSize] square.
func Size(size float64, natural image.Point) (w, h int) {
	hasNatural := natural.X > 0 && natural.Y > 0
	switch {
	case size > 0:
		w = int(size)
		h = w
		if hasNatural {
			h = int(math.Round(float64(natural.Y) / float64(natural.X) * float64(w)))
		}
	case hasNatural:
		w, h = natural.X, natural.Y
	}
	if w <= 0 || h <= 0 {
		w, h = DefaultSize, DefaultSize
	}
	return w, h
}

// Padded returns the size of the image holding a w×h graphic rotated by
// deg degrees.  Rotated graphics get a square image large enough for every
// rotation angle.
func Padded(w, h int, deg float64) (int, int) {
	if deg == 0 {
		return w, h
	}
	s := int(math.Ceil(2 * float64(max(w, h)) / math.Sqrt2))
	return s, s
}

// Composite evaluates the parameters of g for f and draws it.
func (c *Compositor) Composite(ctx context.Context, g *style.Graphic, f filter.Feature) (*image.RGBA, error) {
	p, err := g.Resolve(f)
	if err != nil {
		return nil, err
	}
	return c.Draw(ctx, g.Sources, p, f)
}

// Draw draws the sources into a new image.  The first source determines
// the size.  Every source is scaled to fit, rotated about the centre of the
// image, and drawn over the previous ones.  An empty list draws a square
// mark.
func (c *Compositor) Draw(ctx context.Context, sources []style.GraphicSource, p style.GraphicParams, f filter.Feature) (*image.RGBA, error) {
	if len(sources) == 0 {
		sources = []style.GraphicSource{&style.Mark{WellKnownName: "square"}}
	}

	loaded := make([]external, len(sources))
	var natural image.Point
	for i, s := range sources {
		if e, ok := s.(*style.ExternalGraphic); ok {
			loaded[i] = c.external(ctx, e)
			if i == 0 {
				natural = loaded[i].natural()
			}
		}
	}

	w, h := Size(p.Size, natural)
	sx, sy := Padded(w, h, p.Rotation)
	dst, cv := canvas.NewRGBA(sx, sy)

	for i, s := range sources {
		switch s := s.(type) {
		case *style.Mark:
			img, err := c.mark(ctx, s, w, f)
			if err != nil {
				return nil, err
			}
			place(cv, img, w, h, p.Rotation)
		case *style.ExternalGraphic:
			ext := loaded[i]
			if ext.doc == nil {
				place(cv, ext.img, w, h, p.Rotation)
				continue
			}
			err := ext.doc.drawVector(dst, w, h, p.Rotation)
			if err == nil {
				continue
			}
			sld.Logger().Warn("SVG rendering failed, using raster fallback", "url", s.URL, "error", err)
			img, err := c.Cache.GetOrLoad(Key{URL: s.URL, W: w, H: h}, func() (image.Image, error) {
				return ext.doc.rasterize(w, h)
			})
			if err != nil {
				sld.Logger().Warn("cannot render SVG", "url", s.URL, "error", err)
				img = transparent()
			}
			place(cv, img, w, h, p.Rotation)
		}
	}

	if p.Opacity < 1 {
		fade(dst, p.Opacity)
	}
	return dst, nil
}

func (c *Compositor) mark(ctx context.Context, m *style.Mark, size int, f filter.Feature) (*image.RGBA, error) {
	fill, err := m.Fill.Resolve(f)
	if err != nil {
		return nil, err
	}
	stroke, err := m.Stroke.ResolveWith(f, mark.DefaultStroke)
	if err != nil {
		return nil, err
	}
	return c.Marks.Rasterize(ctx, m.WellKnownName, size, fill, stroke)
}

// place draws img scaled to fit a w×h box, rotated by deg degrees about the
// centre of the canvas.
func place(cv *canvas.Image, img image.Image, w, h int, deg float64) {
	b := img.Bounds()
	iw, ih := float64(b.Dx()), float64(b.Dy())
	if iw <= 0 || ih <= 0 {
		return
	}
	scale := float64(h) / ih
	if iw > ih {
		scale = float64(w) / iw
	}
	size := cv.Dst.Bounds().Size()
	m := canvas.Concat(canvas.Translation(-iw/2, -ih/2), matrix.Matrix{scale, 0, 0, scale, 0, 0})
	m = canvas.Concat(m, canvas.Rotation(deg))
	m = canvas.Concat(m, canvas.Translation(float64(size.X)/2, float64(size.Y)/2))
	cv.DrawImage(img, m)
}

// fade multiplies all pixels by the opacity.
func fade(img *image.RGBA, opacity float64) {
	o := max(opacity, 0)
	for i, v := range img.Pix {
		img.Pix[i] = uint8(math.Round(float64(v) * o))
	}
}

func transparent() *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, 1, 1))
}
