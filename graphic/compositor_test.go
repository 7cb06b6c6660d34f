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
	"image"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"seehuhn.de/go/sld"
	"seehuhn.de/go/sld/param"
	"seehuhn.de/go/sld/style"
)

func TestSize(t *testing.T) {
	cases := []struct {
		size    float64
		natural image.Point
		w, h    int
	}{
		{20, image.Point{}, 20, 20},
		{20, image.Pt(40, 20), 20, 10},
		{20, image.Pt(8, 8), 20, 20},
		{0, image.Pt(7, 3), 7, 3},
		{0, image.Point{}, 6, 6},
		{-3, image.Point{}, 6, 6},
		{10, image.Pt(100, 1), 6, 6},
	}
	for _, c := range cases {
		w, h := Size(c.size, c.natural)
		if w != c.w || h != c.h {
			t.Errorf("Size(%g, %v) = %d×%d, want %d×%d", c.size, c.natural, w, h, c.w, c.h)
		}
	}
}

func TestPadded(t *testing.T) {
	if w, h := Padded(20, 20, 0); w != 20 || h != 20 {
		t.Errorf("unrotated: %d×%d", w, h)
	}
	// ceil(2*20/√2) = ceil(28.28)
	if w, h := Padded(20, 20, 45); w != 29 || h != 29 {
		t.Errorf("rotated: %d×%d", w, h)
	}
	if w, h := Padded(10, 20, -90); w != 29 || h != 29 {
		t.Errorf("rotated, portrait: %d×%d", w, h)
	}
}

func redSquare() *style.Mark {
	return &style.Mark{
		WellKnownName: "square",
		Fill:          &style.Fill{Params: style.Params{}.Lit(style.ParamFill, "#ff0000")},
		Stroke:        &style.Stroke{Params: style.Params{}.Lit(style.ParamStrokeOpacity, "0")},
	}
}

func TestCompositeMark(t *testing.T) {
	c := NewCompositor(nil, nil, nil)
	g := &style.Graphic{
		Sources: []style.GraphicSource{redSquare()},
		Size:    param.Lit("Size", "20"),
	}
	img, err := c.Composite(context.Background(), g, nil)
	if err != nil {
		t.Fatal(err)
	}
	if img.Rect != image.Rect(0, 0, 20, 20) {
		t.Fatalf("bounds %v", img.Rect)
	}
	if got := img.RGBAAt(0, 0); got != (color.RGBA{R: 0xff, A: 0xff}) {
		t.Errorf("corner %v", got)
	}

	g.Rotation = param.Lit("Rotation", "45")
	img, err = c.Composite(context.Background(), g, nil)
	if err != nil {
		t.Fatal(err)
	}
	if img.Rect != image.Rect(0, 0, 29, 29) {
		t.Fatalf("rotated bounds %v", img.Rect)
	}
	if a := img.RGBAAt(0, 0).A; a != 0 {
		t.Errorf("rotated corner alpha %d", a)
	}
	if got := img.RGBAAt(14, 14); got.R < 0xf0 || got.A < 0xf0 || got.G != 0 {
		t.Errorf("rotated centre %v", got)
	}
	// the tip of the diamond reaches the top edge
	if a := img.RGBAAt(14, 2).A; a == 0 {
		t.Error("rotated square too small")
	}
}

func TestCompositeDefault(t *testing.T) {
	c := NewCompositor(nil, nil, nil)
	img, err := c.Composite(context.Background(), &style.Graphic{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if img.Rect.Size() != image.Pt(DefaultSize, DefaultSize) {
		t.Errorf("size %v", img.Rect)
	}
	if img.RGBAAt(3, 3).A != 0xff {
		t.Error("default square not drawn")
	}
}

func TestCompositeOpacity(t *testing.T) {
	c := NewCompositor(nil, nil, nil)
	g := &style.Graphic{
		Sources: []style.GraphicSource{redSquare()},
		Size:    param.Lit("Size", "4"),
		Opacity: param.Lit("Opacity", "0.5"),
	}
	img, err := c.Composite(context.Background(), g, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := img.RGBAAt(2, 2); got != (color.RGBA{R: 0x80, A: 0x80}) {
		t.Errorf("got %v", got)
	}
}

func TestCompositeEvaluationError(t *testing.T) {
	c := NewCompositor(nil, nil, nil)
	g := &style.Graphic{Size: param.Prop("Size", "size")}
	if _, err := c.Composite(context.Background(), g, nil); err == nil {
		t.Error("missing feature accepted")
	}
}

func TestCompositeExternal(t *testing.T) {
	dir := t.TempDir()
	data := pngData(t, 8, 4, color.NRGBA{G: 0xff, A: 0xff})
	if err := os.WriteFile(filepath.Join(dir, "wide.png"), data, 0o644); err != nil {
		t.Fatal(err)
	}
	c := NewCompositor(nil, NewFetcher(dir), nil)

	g := &style.Graphic{Sources: []style.GraphicSource{&style.ExternalGraphic{URL: "wide.png", Format: "image/png"}}}
	img, err := c.Composite(context.Background(), g, nil)
	if err != nil {
		t.Fatal(err)
	}
	if img.Rect.Size() != image.Pt(8, 4) {
		t.Errorf("natural size: %v", img.Rect)
	}
	if got := img.RGBAAt(1, 1); got != (color.RGBA{G: 0xff, A: 0xff}) {
		t.Errorf("pixel %v", got)
	}

	g.Size = param.Lit("Size", "16")
	img, err = c.Composite(context.Background(), g, nil)
	if err != nil {
		t.Fatal(err)
	}
	if img.Rect.Size() != image.Pt(16, 8) {
		t.Errorf("explicit size: %v", img.Rect)
	}
	if c.Cache.Len() != 1 {
		t.Errorf("cache has %d entries", c.Cache.Len())
	}
}

func TestCompositeMissing(t *testing.T) {
	c := NewCompositor(nil, NewFetcher(t.TempDir()), nil)
	g := &style.Graphic{
		Sources: []style.GraphicSource{&style.ExternalGraphic{URL: "missing.png"}},
		Size:    param.Lit("Size", "10"),
	}
	img, err := c.Composite(context.Background(), g, nil)
	if err != nil {
		t.Fatal(err)
	}
	if img.Rect.Size() != image.Pt(10, 10) {
		t.Errorf("size %v", img.Rect)
	}
	for i, v := range img.Pix {
		if v != 0 {
			t.Fatalf("byte %d is %d", i, v)
		}
	}
}

const redSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10" width="10" height="10">
<rect x="0" y="0" width="10" height="10" fill="#ff0000"/>
</svg>`

// oksvg does not support text, so the strict parser rejects this document.
const textSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10" width="10" height="10">
<rect x="0" y="0" width="10" height="10" fill="#ff0000"/>
<text x="1" y="8">A</text>
</svg>`

type recorder struct {
	mu   sync.Mutex
	msgs []string
}

func (r *recorder) Enabled(context.Context, slog.Level) bool { return true }
func (r *recorder) WithAttrs([]slog.Attr) slog.Handler      { return r }
func (r *recorder) WithGroup(string) slog.Handler           { return r }
func (r *recorder) Handle(_ context.Context, rec slog.Record) error {
	r.mu.Lock()
	r.msgs = append(r.msgs, rec.Message)
	r.mu.Unlock()
	return nil
}

func (r *recorder) has(prefix string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.msgs {
		if strings.HasPrefix(m, prefix) {
			return true
		}
	}
	return false
}

func TestCompositeSVG(t *testing.T) {
	dir := t.TempDir()
	for name, body := range map[string]string{"red.svg": redSVG, "text.svg": textSVG} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	rec := &recorder{}
	sld.SetLogger(slog.New(rec))
	defer sld.SetLogger(nil)

	c := NewCompositor(nil, NewFetcher(dir), nil)
	for _, name := range []string{"red.svg", "text.svg"} {
		g := &style.Graphic{
			Sources: []style.GraphicSource{&style.ExternalGraphic{URL: name}},
			Size:    param.Lit("Size", "20"),
		}
		img, err := c.Composite(context.Background(), g, nil)
		if err != nil {
			t.Fatal(err)
		}
		if img.Rect.Size() != image.Pt(20, 20) {
			t.Errorf("%s: size %v", name, img.Rect)
		}
		if got := img.RGBAAt(10, 10); got.R < 0xf0 || got.A < 0xf0 {
			t.Errorf("%s: centre %v", name, got)
		}
	}

	if !rec.has("SVG rendering failed") {
		t.Error("fallback not logged")
	}
	if _, ok := c.Cache.Get(Key{URL: "text.svg", W: 20, H: 20}); !ok {
		t.Error("fallback raster not cached")
	}
	if _, ok := c.Cache.Get(Key{URL: "red.svg", W: 20, H: 20}); ok {
		t.Error("vector rendering used the raster path")
	}
}
