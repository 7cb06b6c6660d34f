// Command export renders the test cases to the reference PNG images used by
// the render package tests, and writes a JSON summary of the cases.
// Run from the module root directory.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"image/png"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"seehuhn.de/go/sld/canvas"
	"seehuhn.de/go/sld/fonts"
	"seehuhn.de/go/sld/graphic"
	"seehuhn.de/go/sld/render"
	"seehuhn.de/go/sld/style"
	"seehuhn.de/go/sld/testcases"
)

func main() {
	refDir := flag.String("o", "render/testdata/reference", "output directory")
	flag.Parse()

	if err := os.MkdirAll(*refDir, 0755); err != nil {
		panic(err)
	}

	reg := &fonts.Registry{}
	g := graphic.NewCompositor(nil, nil, reg)

	var out struct {
		TestCases []jsonTestCase `json:"testcases"`
	}
	for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
		for _, tc := range testcases.All[category] {
			name := category + "_" + tc.Name
			if err := writePNG(tc, g, reg, filepath.Join(*refDir, name+".png")); err != nil {
				panic(fmt.Errorf("%s: %w", name, err))
			}
			out.TestCases = append(out.TestCases, toJSON(name, tc))
		}
	}

	f, err := os.Create(filepath.Join(*refDir, "testcases.json"))
	if err != nil {
		panic(err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		panic(err)
	}
}

func writePNG(tc testcases.TestCase, g *graphic.Compositor, reg *fonts.Registry, fname string) error {
	img, c := canvas.NewRGBA(tc.Width, tc.Height)
	if err := tc.Draw(context.Background(), c, g, reg); err != nil {
		return err
	}

	f, err := os.Create(fname)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

type jsonTestCase struct {
	Name       string `json:"name"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Symbolizer string `json:"symbolizer"`
	Geometry   string `json:"geometry"`
}

func toJSON(name string, tc testcases.TestCase) jsonTestCase {
	jtc := jsonTestCase{
		Name:   name,
		Width:  tc.Width,
		Height: tc.Height,
	}
	switch tc.Symbolizer.(type) {
	case *style.PointSymbolizer:
		jtc.Symbolizer = "point"
	case *style.LineSymbolizer:
		jtc.Symbolizer = "line"
	case *style.PolygonSymbolizer:
		jtc.Symbolizer = "polygon"
	case *style.TextSymbolizer:
		jtc.Symbolizer = "text"
	case *style.RasterSymbolizer:
		jtc.Symbolizer = "raster"
	}
	switch tc.Geometry.(type) {
	case render.Point:
		jtc.Geometry = "point"
	case render.LineString:
		jtc.Geometry = "linestring"
	case render.Polygon:
		jtc.Geometry = "polygon"
	case render.Collection:
		jtc.Geometry = "collection"
	case *render.Coverage:
		jtc.Geometry = "coverage"
	}
	return jtc
}
