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
	"log/slog"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestParseConfig(t *testing.T) {
	in := `
scale: 25000
cell: 32
fonts: [a.ttf, b.otf]
fetch_timeout: 2s
timeout: 1m
log_level: debug
map:
  width: 800
`
	cfg, err := ParseConfig(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Scale != 25000 || cfg.Cell != 32 {
		t.Errorf("scale %g, cell %d", cfg.Scale, cfg.Cell)
	}
	if len(cfg.Fonts) != 2 || cfg.Fonts[1] != "b.otf" {
		t.Errorf("fonts %v", cfg.Fonts)
	}
	if cfg.FetchTimeout != 2*time.Second || cfg.Timeout != time.Minute {
		t.Errorf("timeouts %v %v", cfg.FetchTimeout, cfg.Timeout)
	}
	if l, err := cfg.Level(); err != nil || l != slog.LevelDebug {
		t.Errorf("level %v, %v", l, err)
	}
	// unset values keep their defaults
	if cfg.FontSize != 12 || cfg.Map.Width != 800 || cfg.Map.Height != 512 {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestParseConfigEmpty(t *testing.T) {
	cfg, err := ParseConfig(strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(cfg, DefaultConfig()) {
		t.Errorf("got %+v", cfg)
	}
}

func TestParseConfigErrors(t *testing.T) {
	for _, in := range []string{
		"cell: 0",
		"scale: -1",
		"log_level: loud",
		"colour: red",
		"timeout: soon",
		"map: {width: 0}",
	} {
		if _, err := ParseConfig(strings.NewReader(in)); err == nil {
			t.Errorf("%q accepted", in)
		}
	}
}

func TestLoadConfigDefault(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil || cfg.Cell != 24 {
		t.Errorf("got %+v, %v", cfg, err)
	}
}
