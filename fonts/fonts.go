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

// Package fonts keeps track of the typefaces available for labels and
// glyph marks.
package fonts

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"

	"seehuhn.de/go/sld"
)

// Variant selects the weight and slant of a typeface.
type Variant int

// These are the supported variants.
const (
	Regular Variant = iota
	Bold
	Italic
	BoldItalic
)

// VariantFor maps the values of the font-weight and font-style parameters
// to a variant.
func VariantFor(weight, style string) Variant {
	v := Regular
	if strings.EqualFold(weight, "bold") {
		v |= Bold
	}
	if strings.EqualFold(style, "italic") || strings.EqualFold(style, "oblique") {
		v |= Italic
	}
	return v
}

// Registry maps family names to parsed fonts.  A Registry is safe for
// concurrent use.  The zero value is ready to use and knows the generic
// families "sans-serif", "serif", "monospace" and "dialog".
type Registry struct {
	mu       sync.Mutex
	families map[string]*[4]*opentype.Font
	files    map[string]error
	builtin  *[4]*opentype.Font
	mono     *[4]*opentype.Font
}

// Register loads the font file at path.  Each path is read at most once:
// later calls return the result of the first call.  Failures are logged.
func (r *Registry) Register(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.files == nil {
		r.files = make(map[string]error)
	}
	if err, seen := r.files[path]; seen {
		return err
	}

	err := r.loadFile(path)
	if err != nil {
		sld.Logger().Warn("cannot register font", "path", path, "error", err)
	}
	r.files[path] = err
	return err
}

func (r *Registry) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	_, err = r.add(data)
	return err
}

// RegisterData adds a font from memory and returns its family name.
func (r *Registry) RegisterData(data []byte) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.add(data)
}

// add must be called with r.mu held.
func (r *Registry) add(data []byte) (string, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return "", err
	}
	var buf sfnt.Buffer
	family, err := f.Name(&buf, sfnt.NameIDFamily)
	if err != nil {
		return "", fmt.Errorf("font family: %w", err)
	}
	sub, _ := f.Name(&buf, sfnt.NameIDSubfamily)
	v := VariantFor(subfamilyWeight(sub), subfamilyStyle(sub))

	if r.families == nil {
		r.families = make(map[string]*[4]*opentype.Font)
	}
	key := strings.ToLower(family)
	fam := r.families[key]
	if fam == nil {
		fam = new([4]*opentype.Font)
		r.families[key] = fam
	}
	fam[v] = f
	return family, nil
}

func subfamilyWeight(sub string) string {
	if strings.Contains(strings.ToLower(sub), "bold") {
		return "bold"
	}
	return "normal"
}

func subfamilyStyle(sub string) string {
	s := strings.ToLower(sub)
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		return "italic"
	}
	return "normal"
}

// Has reports whether the family has been registered.
func (r *Registry) Has(family string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.families[strings.ToLower(family)]
	return ok
}

// Font returns the font for the given family and variant.  Unknown
// families and missing variants fall back to the built-in Go fonts.
func (r *Registry) Font(family string, v Variant) *opentype.Font {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(strings.TrimSpace(family))
	if fam := r.families[key]; fam != nil {
		if f := fam[v]; f != nil {
			return f
		}
		if f := fam[Regular]; f != nil {
			return f
		}
	}

	switch key {
	case "monospace", "monospaced", "courier":
		if r.mono == nil {
			r.mono = &[4]*opentype.Font{mustParse(gomono.TTF)}
		}
		return r.mono[0]
	}
	if r.builtin == nil {
		r.builtin = &[4]*opentype.Font{
			Regular:    mustParse(goregular.TTF),
			Bold:       mustParse(gobold.TTF),
			Italic:     mustParse(goitalic.TTF),
			BoldItalic: mustParse(gobolditalic.TTF),
		}
	}
	return r.builtin[v]
}

// Face returns a new face for drawing text.  Faces are not safe for
// concurrent use, so every caller gets its own.
func (r *Registry) Face(family string, v Variant, size float64) (font.Face, error) {
	return opentype.NewFace(r.Font(family, v), &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}

func mustParse(ttf []byte) *opentype.Font {
	f, err := opentype.Parse(ttf)
	if err != nil {
		panic(err)
	}
	return f
}
