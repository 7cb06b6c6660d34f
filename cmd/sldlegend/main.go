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

// Command sldlegend draws the legend of a styled layer descriptor.
//
// Usage:
//
//	sldlegend [-config file.yaml] [-o legend.png] [-features f.geojson [-map map.png]] style.sld
//
// The legend shows one sample symbol for every rule, next to the rule
// title.  Output files ending in ".pdf" are written as PDF, all others as
// PNG.  With -features, the rules matching each GeoJSON feature are
// listed on standard output, and -map draws the features.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/document"

	"seehuhn.de/go/sld"
	"seehuhn.de/go/sld/canvas"
	"seehuhn.de/go/sld/fonts"
	"seehuhn.de/go/sld/graphic"
	"seehuhn.de/go/sld/render"
	"seehuhn.de/go/sld/sldxml"
	"seehuhn.de/go/sld/style"
)

type options struct {
	stylePath string
	legend    string
	features  string
	mapPath   string
}

func main() {
	configFile := flag.String("config", "", "YAML configuration file")
	legendFile := flag.String("o", "legend.png", "legend output file, PNG or PDF")
	featureFile := flag.String("features", "", "GeoJSON feature collection to classify")
	mapFile := flag.String("map", "", "draw the features into this PNG file")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [options] style.sld\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 || (*mapFile != "" && *featureFile == "") {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := LoadConfig(*configFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "sldlegend:", err)
		os.Exit(1)
	}
	level, _ := cfg.Level()
	sld.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	opt := options{
		stylePath: flag.Arg(0),
		legend:    *legendFile,
		features:  *featureFile,
		mapPath:   *mapFile,
	}
	if err := run(cfg, opt, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "sldlegend:", err)
		os.Exit(1)
	}
}

func run(cfg *Config, opt options, stdout io.Writer) error {
	ctx := context.Background()
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	styles, err := readStyles(opt.stylePath)
	if err != nil {
		return err
	}

	reg := &fonts.Registry{}
	for _, path := range cfg.Fonts {
		if err := reg.Register(path); err != nil {
			return err
		}
	}
	base := cfg.BaseDir
	if base == "" {
		base = filepath.Dir(opt.stylePath)
	}
	fetcher := graphic.NewFetcher(base)
	fetcher.Timeout = cfg.FetchTimeout
	comp := graphic.NewCompositor(graphic.NewCache(), fetcher, reg)
	defer func() {
		hits, misses := comp.Cache.Stats()
		sld.Logger().Debug("graphic cache", "entries", comp.Cache.Len(), "hits", hits, "misses", misses)
	}()

	if opt.legend != "" {
		face, err := reg.Face("sans-serif", fonts.Regular, cfg.FontSize)
		if err != nil {
			return err
		}
		l := newLegend(styles, cfg.Cell, face)
		if err := writeLegend(ctx, l, opt.legend, comp, reg); err != nil {
			return err
		}
	}

	if opt.features == "" {
		return nil
	}
	fd, err := os.Open(opt.features)
	if err != nil {
		return err
	}
	probes, err := readFeatures(fd)
	fd.Close()
	if err != nil {
		return err
	}
	classify(stdout, styles, probes, cfg.Scale)

	if opt.mapPath == "" {
		return nil
	}
	bounds, ok := union(probes)
	if !ok {
		return fmt.Errorf("%s: no geometries", opt.features)
	}
	img, c := canvas.NewRGBA(cfg.Map.Width, cfg.Map.Height)
	r := render.New(c, fit(bounds, cfg.Map.Width, cfg.Map.Height), cfg.Scale, comp, reg)
	skipped, err := drawMap(ctx, r, styles, probes, cfg.Map.Width, cfg.Map.Height)
	if err != nil {
		return err
	}
	if skipped > 0 {
		sld.Logger().Warn("symbolizers skipped", "file", opt.mapPath, "count", skipped)
	}
	return writePNG(opt.mapPath, img)
}

func readStyles(path string) ([]*style.Style, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fd.Close()
	styles, err := sldxml.Decode(fd)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(styles) == 0 {
		return nil, fmt.Errorf("%s: no styles", path)
	}
	return styles, nil
}

// classify writes one line per feature, listing the matching rules as
// style/feature type style/rule.
func classify(w io.Writer, styles []*style.Style, probes []probe, scale float64) {
	for _, p := range probes {
		var names []string
		for _, s := range styles {
			for j, fts := range s.FeatureTypeStyles {
				ftsName := fts.Name
				if ftsName == "" {
					ftsName = fmt.Sprint(j + 1)
				}
				for _, r := range fts.Matching(p.Map, scale) {
					names = append(names, s.Name+"/"+ftsName+"/"+r.Name)
				}
			}
		}
		if len(names) == 0 {
			names = []string{"-"}
		}
		fmt.Fprintf(w, "%s\t%s\n", p.FID, strings.Join(names, " "))
	}
}

func writeLegend(ctx context.Context, l *legend, path string, comp *graphic.Compositor, reg *fonts.Registry) error {
	var skipped int
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		paper := &pdf.Rectangle{URx: float64(l.Width), URy: float64(l.Height)}
		page, err := document.CreateSinglePage(path, paper, pdf.V1_7, nil)
		if err != nil {
			return err
		}
		c := canvas.NewPDF(page, float64(l.Height))
		skipped, err = l.Draw(ctx, render.New(c, matrix.Identity, 0, comp, reg))
		if err != nil {
			return err
		}
		if err := page.Close(); err != nil {
			return err
		}
	} else {
		img, c := canvas.NewRGBA(l.Width, l.Height)
		var err error
		skipped, err = l.Draw(ctx, render.New(c, matrix.Identity, 0, comp, reg))
		if err != nil {
			return err
		}
		if err := writePNG(path, img); err != nil {
			return err
		}
	}
	if skipped > 0 {
		sld.Logger().Warn("symbolizers skipped", "file", path, "count", skipped)
	}
	return nil
}

func writePNG(path string, img image.Image) error {
	fd, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(fd, img); err != nil {
		fd.Close()
		return err
	}
	return fd.Close()
}
