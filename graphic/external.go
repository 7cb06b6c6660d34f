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
	"context"
	"fmt"
	"image"

	"seehuhn.de/go/sld"
	"seehuhn.de/go/sld/style"
)

// external is a loaded external graphic.  Exactly one of img and doc is
// set.
type external struct {
	img image.Image
	doc *svgDoc
}

func (e external) natural() image.Point {
	if e.doc != nil {
		return e.doc.natural()
	}
	return e.img.Bounds().Size()
}

// external loads an external graphic.  Resources which cannot be loaded
// are replaced by a transparent pixel.
func (c *Compositor) external(ctx context.Context, e *style.ExternalGraphic) external {
	if e.IsSVG() {
		doc, err := c.svg(ctx, e.URL)
		if err == nil {
			return external{doc: doc}
		}
		sld.Logger().Warn("cannot load external graphic", "url", e.URL, "error", err)
		return external{img: transparent()}
	}

	img, err := c.raster(ctx, e.URL)
	if err != nil {
		sld.Logger().Warn("cannot load external graphic", "url", e.URL, "error", err)
		return external{img: transparent()}
	}
	return external{img: img}
}

// raster returns the decoded image at u.  SVG documents which are not
// recognisable from their name are rendered at their natural size.
func (c *Compositor) raster(ctx context.Context, u string) (image.Image, error) {
	return c.Cache.GetOrLoad(Key{URL: u}, func() (image.Image, error) {
		data, err := c.Fetcher.Fetch(ctx, u)
		if err != nil {
			return nil, err
		}
		if looksLikeSVG(data) {
			doc, err := newSVGDoc(u, data)
			if err != nil {
				return nil, err
			}
			n := doc.natural()
			return doc.rasterize(n.X, n.Y)
		}
		img, err := Decode(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", u, err)
		}
		return img, nil
	})
}

// svg returns the parsed SVG document at u.  Documents are read once, and
// concurrent requests share a single download.
func (c *Compositor) svg(ctx context.Context, u string) (*svgDoc, error) {
	c.docMu.Lock()
	doc, ok := c.docs[u]
	c.docMu.Unlock()
	if ok {
		return doc, nil
	}

	v, err, _ := c.docGroup.Do(u, func() (any, error) {
		data, err := c.Fetcher.Fetch(ctx, u)
		if err != nil {
			return nil, err
		}
		doc, err := newSVGDoc(u, data)
		if err != nil {
			return nil, err
		}
		c.docMu.Lock()
		c.docs[u] = doc
		c.docMu.Unlock()
		return doc, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*svgDoc), nil
}

// Load returns the image at u for use as a w×h mark.  SVG documents are
// rendered at this size; raster images are returned at their natural
// size.
func (c *Compositor) Load(ctx context.Context, u string, w, h int) (image.Image, error) {
	if !(&style.ExternalGraphic{URL: u}).IsSVG() {
		return c.raster(ctx, u)
	}
	doc, err := c.svg(ctx, u)
	if err != nil {
		return nil, err
	}
	return c.Cache.GetOrLoad(Key{URL: u, W: w, H: h}, func() (image.Image, error) {
		return doc.rasterize(w, h)
	})
}
