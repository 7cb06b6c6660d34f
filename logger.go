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

package sld

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// discard drops every record.  Enabled reports false, so callers skip
// formatting altogether.
type discard struct{}

func (discard) Enabled(context.Context, slog.Level) bool  { return false }
func (discard) Handle(context.Context, slog.Record) error { return nil }
func (discard) WithAttrs([]slog.Attr) slog.Handler        { return discard{} }
func (discard) WithGroup(string) slog.Handler             { return discard{} }

var current atomic.Pointer[slog.Logger]

func init() {
	current.Store(slog.New(discard{}))
}

// SetLogger sets the logger used by this package and all its sub-packages.
// By default nothing is logged.  Passing nil restores the silent default.
//
// The levels used are:
//   - [slog.LevelDebug]: recoverable lookups, for example a symbol URL
//     which could not be loaded before falling back to a well-known mark
//   - [slog.LevelWarn]: skipped symbolizers, SVG graphics rendered through
//     the raster fallback, unsupported interpolation modes, fonts which
//     could not be registered
//
// SetLogger may be called concurrently with rendering.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(discard{})
	}
	current.Store(l)
}

// Logger returns the logger set by [SetLogger].
func Logger() *slog.Logger {
	return current.Load()
}
