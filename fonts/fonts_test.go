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

package fonts

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

func TestVariantFor(t *testing.T) {
	cases := []struct {
		weight, style string
		want          Variant
	}{
		{"normal", "normal", Regular},
		{"bold", "normal", Bold},
		{"normal", "oblique", Italic},
		{"BOLD", "italic", BoldItalic},
	}
	for _, c := range cases {
		if got := VariantFor(c.weight, c.style); got != c.want {
			t.Errorf("%s/%s: got %d, want %d", c.weight, c.style, got, c.want)
		}
	}
}

func TestRegisterOnce(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "bold.ttf")
	if err := os.WriteFile(good, gobold.TTF, 0o644); err != nil {
		t.Fatal(err)
	}
	bad := filepath.Join(dir, "broken.ttf")
	if err := os.WriteFile(bad, []byte("not a font"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := &Registry{}
	if err := r.Register(good); err != nil {
		t.Fatal(err)
	}
	if !r.Has("Go") {
		t.Error("family Go not registered")
	}

	err1 := r.Register(bad)
	if err1 == nil {
		t.Fatal("broken font accepted")
	}

	// A repaired file is not looked at again.
	if err := os.WriteFile(bad, goregular.TTF, 0o644); err != nil {
		t.Fatal(err)
	}
	if err2 := r.Register(bad); err2 != err1 {
		t.Errorf("second registration: got %v, want %v", err2, err1)
	}
}

func TestFace(t *testing.T) {
	r := &Registry{}
	face, err := r.Face("no such family", Bold, 20)
	if err != nil {
		t.Fatal(err)
	}
	defer face.Close()

	m := face.Metrics()
	if m.Ascent.Ceil() < 10 || m.Ascent.Ceil() > 20 {
		t.Errorf("unexpected ascent %v", m.Ascent)
	}
	if _, ok := face.GlyphAdvance('A'); !ok {
		t.Error("no glyph for 'A'")
	}

	if r.Font("serif", Italic) == r.Font("serif", Regular) {
		t.Error("italic variant missing")
	}
}
