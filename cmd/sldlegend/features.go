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
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/tidwall/geojson"
	"github.com/tidwall/geojson/geometry"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/sld/filter"
	"seehuhn.de/go/sld/render"
)

// featureCollection is the outer structure of a GeoJSON document.  The
// geometries are passed on to geojson.Parse.
type featureCollection struct {
	Type     string `json:"type"`
	Features []struct {
		ID         any             `json:"id"`
		Geometry   json.RawMessage `json:"geometry"`
		Properties map[string]any  `json:"properties"`
	} `json:"features"`
}

// probe is a feature read from a GeoJSON file, together with the bounding
// box of its geometry.
type probe struct {
	*filter.Map
	bounds rect.Rect
}

// readFeatures reads a GeoJSON FeatureCollection.  The geometry of each
// feature is stored in the property [render.DefaultGeometry].
func readFeatures(r io.Reader) ([]probe, error) {
	var fc featureCollection
	if err := json.NewDecoder(r).Decode(&fc); err != nil {
		return nil, fmt.Errorf("geojson: %w", err)
	}
	if fc.Type != "FeatureCollection" {
		return nil, fmt.Errorf("geojson: expected a FeatureCollection, got %q", fc.Type)
	}

	res := make([]probe, 0, len(fc.Features))
	for i, f := range fc.Features {
		id := fmt.Sprint(i)
		if f.ID != nil {
			id = fmt.Sprint(f.ID)
		}
		props := make(map[string]any, len(f.Properties)+1)
		for k, v := range f.Properties {
			props[k] = v
		}
		p := probe{Map: &filter.Map{FID: id, Props: props}}

		if len(f.Geometry) > 0 && string(f.Geometry) != "null" {
			obj, err := geojson.Parse(string(f.Geometry), nil)
			if err != nil {
				return nil, fmt.Errorf("feature %q: %w", id, err)
			}
			g, err := convert(obj)
			if err != nil {
				return nil, fmt.Errorf("feature %q: %w", id, err)
			}
			props[render.DefaultGeometry] = g
			r := obj.Rect()
			p.bounds = rect.Rect{LLx: r.Min.X, LLy: r.Min.Y, URx: r.Max.X, URy: r.Max.Y}
		}
		res = append(res, p)
	}
	return res, nil
}

// convert translates a GeoJSON geometry.  Multi-geometries and geometry
// collections become a [render.Collection].
func convert(obj geojson.Object) (render.Geometry, error) {
	switch g := obj.(type) {
	case *geojson.Point:
		p := g.Base()
		return render.Point{X: p.X, Y: p.Y}, nil
	case *geojson.LineString:
		return render.LineString(points(g.Base())), nil
	case *geojson.Polygon:
		poly := g.Base()
		rings := [][]vec.Vec2{points(poly.Exterior)}
		for _, hole := range poly.Holes {
			rings = append(rings, points(hole))
		}
		return render.Polygon(rings), nil
	}

	var res render.Collection
	var err error
	obj.ForEach(func(child geojson.Object) bool {
		if child == obj {
			err = fmt.Errorf("unsupported geometry %T", obj)
			return false
		}
		var sub render.Geometry
		sub, err = convert(child)
		if err != nil {
			return false
		}
		res = append(res, sub)
		return true
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

type series interface {
	NumPoints() int
	PointAt(index int) geometry.Point
}

func points(s series) []vec.Vec2 {
	res := make([]vec.Vec2, s.NumPoints())
	for i := range res {
		p := s.PointAt(i)
		res[i] = vec.Vec2{X: p.X, Y: p.Y}
	}
	return res
}

// union returns the smallest rectangle containing the bounds of all
// probes with a geometry.
func union(probes []probe) (rect.Rect, bool) {
	res := rect.Rect{
		LLx: math.Inf(1), LLy: math.Inf(1),
		URx: math.Inf(-1), URy: math.Inf(-1),
	}
	found := false
	for _, p := range probes {
		if _, ok := p.Props[render.DefaultGeometry]; !ok {
			continue
		}
		res.LLx = min(res.LLx, p.bounds.LLx)
		res.LLy = min(res.LLy, p.bounds.LLy)
		res.URx = max(res.URx, p.bounds.URx)
		res.URy = max(res.URy, p.bounds.URy)
		found = true
	}
	return res, found
}
