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
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the settings read from the YAML configuration file.
type Config struct {
	// Scale is the scale denominator used to select rules.
	Scale float64 `yaml:"scale"`

	// Cell is the edge length of a legend symbol, in pixels.
	Cell     int     `yaml:"cell"`
	FontSize float64 `yaml:"font_size"`

	// Fonts lists additional font files.
	Fonts []string `yaml:"fonts"`

	// BaseDir resolves relative graphic URLs.  The default is the
	// directory of the style file.
	BaseDir      string        `yaml:"base_dir"`
	FetchTimeout time.Duration `yaml:"fetch_timeout"`

	// Timeout limits the whole run.  Zero means no limit.
	Timeout time.Duration `yaml:"timeout"`

	LogLevel string `yaml:"log_level"`

	Map struct {
		Width  int `yaml:"width"`
		Height int `yaml:"height"`
	} `yaml:"map"`
}

// DefaultConfig returns the settings used when no file is given.
func DefaultConfig() *Config {
	cfg := &Config{
		Scale:        10000,
		Cell:         24,
		FontSize:     12,
		FetchTimeout: 10 * time.Second,
		LogLevel:     "warn",
	}
	cfg.Map.Width = 512
	cfg.Map.Height = 512
	return cfg
}

// LoadConfig reads the configuration file at path.  Settings missing from
// the file keep their default values.  An empty path gives the defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	fd, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fd.Close()
	return ParseConfig(fd)
}

// ParseConfig reads a configuration from r.  Unknown keys are an error.
func ParseConfig(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.check(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func (c *Config) check() error {
	switch {
	case c.Scale < 0:
		return fmt.Errorf("negative scale %g", c.Scale)
	case c.Cell <= 0:
		return fmt.Errorf("invalid cell size %d", c.Cell)
	case c.FontSize <= 0:
		return fmt.Errorf("invalid font size %g", c.FontSize)
	case c.Map.Width <= 0 || c.Map.Height <= 0:
		return fmt.Errorf("invalid map size %dx%d", c.Map.Width, c.Map.Height)
	}
	_, err := c.Level()
	return err
}

// Level returns the log level named by LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, err
	}
	return l, nil
}
