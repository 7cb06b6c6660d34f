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

package param

import (
	"errors"
	"image/color"
	"slices"
	"testing"

	"seehuhn.de/go/sld"
	"seehuhn.de/go/sld/filter"
)

var feature = &filter.Map{
	FID: "f1",
	Props: map[string]any{
		"width": 2.5,
		"kind":  "river",
		"col":   "#00ff00",
	},
}

func TestEvaluate(t *testing.T) {
	v := New("label",
		Text("  Name: "),
		Expr{filter.Property("kind")},
		Text(" (x) "),
	)
	if v.IsSimple() {
		t.Error("value with expression reported as simple")
	}
	got, err := v.Evaluate(feature)
	if err != nil {
		t.Fatal(err)
	}
	if got != "Name:river(x)" {
		t.Errorf("got %q", got)
	}

	if got, _ := Lit("x", "  12 ").Evaluate(nil); got != "12" {
		t.Errorf("literal: got %q", got)
	}
}

func TestEvaluateError(t *testing.T) {
	v := Prop("stroke", "missing")
	_, err := v.Evaluate(feature)
	var ee *sld.EvaluationError
	if !errors.As(err, &ee) || ee.Param != "stroke" {
		t.Fatalf("got %v", err)
	}
}

func TestFloat(t *testing.T) {
	var none *Value
	if x, err := none.Float(feature, 7); x != 7 || err != nil {
		t.Errorf("nil value: %g, %v", x, err)
	}

	x, err := Prop("stroke-width", "width").Positive(feature, 1)
	if err != nil || x != 2.5 {
		t.Errorf("positive: %g, %v", x, err)
	}

	cases := []struct {
		text string
		fn   func(*Value) error
	}{
		{"abc", func(v *Value) error { _, err := v.Float(nil, 0); return err }},
		{"0", func(v *Value) error { _, err := v.Positive(nil, 0); return err }},
		{"-1", func(v *Value) error { _, err := v.NonNegative(nil, 0); return err }},
		{"1.5", func(v *Value) error { _, err := v.Opacity(nil, 0); return err }},
		{"-0.1", func(v *Value) error { _, err := v.Opacity(nil, 0); return err }},
	}
	for _, c := range cases {
		v := Lit("p", c.text)
		err := c.fn(v)
		var ee *sld.EvaluationError
		if !errors.As(err, &ee) {
			t.Errorf("%q: got %v, want an EvaluationError", c.text, err)
		}
		// the failure is remembered for simple values
		if err2 := c.fn(v); err2 == nil || err2.Error() != err.Error() {
			t.Errorf("%q: second evaluation gave %v", c.text, err2)
		}
	}
}

func TestRandom(t *testing.T) {
	v := Lit("opacity", "random")
	seen := map[float64]bool{}
	for range 50 {
		x, err := v.Opacity(nil, 1)
		if err != nil {
			t.Fatal(err)
		}
		if x < 0.5 || x > 1 {
			t.Fatalf("random opacity %g out of range", x)
		}
		seen[x] = true
	}
	if len(seen) < 2 {
		t.Error("random opacity is memoised")
	}

	c := Lit("fill", "Random")
	colours := map[color.NRGBA]bool{}
	for range 50 {
		col, err := c.Color(nil, color.NRGBA{})
		if err != nil {
			t.Fatal(err)
		}
		if col.A != 255 {
			t.Errorf("random colour %v is not opaque", col)
		}
		colours[col] = true
	}
	if len(colours) < 2 {
		t.Error("random colour is memoised")
	}
}

func TestColor(t *testing.T) {
	cases := []struct {
		in       string
		want     color.NRGBA
		hasAlpha bool
	}{
		{"#ff0000", color.NRGBA{R: 255, A: 255}, false},
		{"#80FF0000", color.NRGBA{R: 255, A: 0x80}, true},
		{"0x0000ff", color.NRGBA{B: 255, A: 255}, false},
	}
	for _, c := range cases {
		got, hasAlpha, err := ParseColor(c.in)
		if err != nil {
			t.Errorf("%s: %v", c.in, err)
			continue
		}
		if got != c.want || hasAlpha != c.hasAlpha {
			t.Errorf("%s: got %v/%t, want %v/%t", c.in, got, hasAlpha, c.want, c.hasAlpha)
		}
		if back, _, _ := ParseColor(FormatColor(got)); back != got {
			t.Errorf("%s: FormatColor gives %s", c.in, FormatColor(got))
		}
	}

	for _, bad := range []string{"ff0000", "#ff00", "#gg0000", ""} {
		if _, _, err := ParseColor(bad); err == nil {
			t.Errorf("%q accepted", bad)
		}
	}

	col, err := Prop("fill", "col").Color(feature, color.NRGBA{})
	if err != nil || col != (color.NRGBA{G: 255, A: 255}) {
		t.Errorf("colour from property: %v, %v", col, err)
	}
}

func TestEnum(t *testing.T) {
	got, err := Lit("stroke-linejoin", "Round").Enum(nil, "mitre", "mitre", "round", "bevel")
	if err != nil || got != "round" {
		t.Errorf("got %q, %v", got, err)
	}
	if _, err := Lit("stroke-linejoin", "square").Enum(nil, "mitre", "mitre", "round", "bevel"); err == nil {
		t.Error("invalid keyword accepted")
	}
}

func TestDashArray(t *testing.T) {
	cases := []struct {
		in   string
		want []float64
	}{
		{"4 2", []float64{4, 2}},
		{"5,3;1", []float64{5, 3, 1, 5, 3, 1}},
		{"3", []float64{3, 3}},
		{"", []float64{}},
	}
	for _, c := range cases {
		got, err := Lit("stroke-dasharray", c.in).DashArray(nil)
		if err != nil {
			t.Errorf("%q: %v", c.in, err)
			continue
		}
		if !slices.Equal(got, c.want) {
			t.Errorf("%q: got %v, want %v", c.in, got, c.want)
		}
	}

	if _, err := Lit("stroke-dasharray", "1 -2").DashArray(nil); err == nil {
		t.Error("negative dash accepted")
	}
}
