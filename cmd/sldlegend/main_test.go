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

package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"seehuhn.de/go/sld/render"
)

const testStyle = `<?xml version="1.0" encoding="UTF-8"?>
<StyledLayerDescriptor version="1.1.0" xmlns="http://www.opengis.net/sld">
  <NamedLayer>
    <Name>test</Name>
    <UserStyle>
      <Name>test</Name>
      <FeatureTypeStyle>
        <Name>main</Name>
        <Rule>
          <Name>water</Name>
          <Title>Water</Title>
          <Filter xmlns="http://www.opengis.net/ogc">
            <PropertyIsEqualTo>
              <PropertyName>kind</PropertyName>
              <Literal>water</Literal>
            </PropertyIsEqualTo>
          </Filter>
          <PolygonSymbolizer>
            <Fill><SvgParameter name="fill">#0000ff</SvgParameter></Fill>
          </PolygonSymbolizer>
        </Rule>
        <Rule>
          <Name>road</Name>
          <Filter xmlns="http://www.opengis.net/ogc">
            <PropertyIsEqualTo>
              <PropertyName>kind</PropertyName>
              <Literal>road</Literal>
            </PropertyIsEqualTo>
          </Filter>
          <LineSymbolizer>
            <Stroke>
              <SvgParameter name="stroke">#ff0000</SvgParameter>
              <SvgParameter name="stroke-width">3</SvgParameter>
            </Stroke>
          </LineSymbolizer>
        </Rule>
        <Rule>
          <Name>other</Name>
          <ElseFilter/>
          <PointSymbolizer>
            <Graphic>
              <Mark><WellKnownName>circle</WellKnownName></Mark>
              <Size>8</Size>
            </Graphic>
          </PointSymbolizer>
        </Rule>
      </FeatureTypeStyle>
    </UserStyle>
  </NamedLayer>
</StyledLayerDescriptor>
`

const testFeatures = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "id": "lake",
     "geometry": {"type": "Polygon", "coordinates": [
       [[0, 0], [40, 0], [40, 30], [0, 30], [0, 0]],
       [[10, 10], [20, 10], [20, 20], [10, 20], [10, 10]]]},
     "properties": {"kind": "water"}},
    {"type": "Feature", "id": "main-street",
     "geometry": {"type": "MultiLineString", "coordinates": [
       [[0, 50], [100, 50]], [[50, 0], [50, 100]]]},
     "properties": {"kind": "road", "lanes": 2}},
    {"type": "Feature", "id": 7,
     "geometry": {"type": "Point", "coordinates": [90, 90]},
     "properties": {"kind": "tower"}}
  ]
}`

func TestReadFeatures(t *testing.T) {
	probes, err := readFeatures(strings.NewReader(testFeatures))
	if err != nil {
		t.Fatal(err)
	}
	if len(probes) != 3 {
		t.Fatalf("got %d features", len(probes))
	}

	lake := probes[0]
	poly, ok := lake.Props[render.DefaultGeometry].(render.Polygon)
	if !ok || len(poly) != 2 || len(poly[0]) != 5 {
		t.Errorf("lake geometry %#v", lake.Props[render.DefaultGeometry])
	}
	if lake.bounds.URx != 40 || lake.bounds.URy != 30 {
		t.Errorf("lake bounds %v", lake.bounds)
	}

	street := probes[1]
	coll, ok := street.Props[render.DefaultGeometry].(render.Collection)
	if !ok || len(coll) != 2 {
		t.Fatalf("street geometry %#v", street.Props[render.DefaultGeometry])
	}
	if _, ok := coll[0].(render.LineString); !ok {
		t.Errorf("street part %T", coll[0])
	}
	if v, _ := street.Property("lanes"); v != 2.0 {
		t.Errorf("lanes = %v", v)
	}

	tower := probes[2]
	if tower.FID != "7" {
		t.Errorf("id %q", tower.FID)
	}
	if p, ok := tower.Props[render.DefaultGeometry].(render.Point); !ok || p.X != 90 || p.Y != 90 {
		t.Errorf("tower geometry %#v", tower.Props[render.DefaultGeometry])
	}

	bounds, ok := union(probes)
	if !ok || bounds.LLx != 0 || bounds.LLy != 0 || bounds.URx != 100 || bounds.URy != 100 {
		t.Errorf("union %v", bounds)
	}
}

func TestReadFeaturesErrors(t *testing.T) {
	for _, in := range []string{
		`{"type": "Feature"}`,
		`{"type": "FeatureCollection", "features": [{"geometry": {"type": "Blob"}}]}`,
		`[1, 2]`,
	} {
		if _, err := readFeatures(strings.NewReader(in)); err == nil {
			t.Errorf("%s accepted", in)
		}
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	stylePath := filepath.Join(dir, "style.sld")
	featurePath := filepath.Join(dir, "features.geojson")
	if err := os.WriteFile(stylePath, []byte(testStyle), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(featurePath, []byte(testFeatures), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	cfg.Map.Width = 120
	cfg.Map.Height = 120
	opt := options{
		stylePath: stylePath,
		legend:    filepath.Join(dir, "legend.png"),
		features:  featurePath,
		mapPath:   filepath.Join(dir, "map.png"),
	}
	out := &bytes.Buffer{}
	if err := run(cfg, opt, out); err != nil {
		t.Fatal(err)
	}

	want := "lake\ttest/main/water\n" +
		"main-street\ttest/main/road\n" +
		"7\ttest/main/other\n"
	if out.String() != want {
		t.Errorf("classification:\n%s\nwant:\n%s", out, want)
	}

	fd, err := os.Open(opt.legend)
	if err != nil {
		t.Fatal(err)
	}
	defer fd.Close()
	cfgImg, err := png.DecodeConfig(fd)
	if err != nil {
		t.Fatal(err)
	}
	// three rows, each at least one cell high
	if cfgImg.Height < 3*cfg.Cell || cfgImg.Width <= cfg.Cell {
		t.Errorf("legend is %dx%d", cfgImg.Width, cfgImg.Height)
	}

	mapFd, err := os.Open(opt.mapPath)
	if err != nil {
		t.Fatal(err)
	}
	defer mapFd.Close()
	img, err := png.Decode(mapFd)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 120 || b.Dy() != 120 {
		t.Errorf("map bounds %v", b)
	}
	// the centre of the map lies on both roads
	r, g, b, _ := img.At(60, 60).RGBA()
	if r < 0xc000 || g > 0x4000 || b > 0x4000 {
		t.Errorf("map centre is %04x %04x %04x, want red", r, g, b)
	}
}

func TestRunMissingStyle(t *testing.T) {
	opt := options{stylePath: filepath.Join(t.TempDir(), "missing.sld")}
	if err := run(DefaultConfig(), opt, &bytes.Buffer{}); err == nil {
		t.Error("missing style accepted")
	}
}
