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

package graphic

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder
)

// Fetcher reads external graphics from the web or from the file system.
type Fetcher struct {
	// Client is used for http and https URLs.  If Client is nil,
	// http.DefaultClient is used.
	Client *http.Client

	// Timeout limits the duration of a single download.  Zero means no
	// limit beyond the one set by the caller's context.
	Timeout time.Duration

	// BaseDir is the directory used to resolve relative file names.
	BaseDir string

	// MaxBytes limits the size of a resource.
	MaxBytes int64
}

// NewFetcher returns a fetcher resolving relative names against baseDir,
// with a timeout of ten seconds and a size limit of 16 MiB.
func NewFetcher(baseDir string) *Fetcher {
	return &Fetcher{
		Timeout:  10 * time.Second,
		BaseDir:  baseDir,
		MaxBytes: 16 << 20,
	}
}

var errTooLarge = errors.New("resource too large")

// Fetch returns the contents of the resource at u.
func (f *Fetcher) Fetch(ctx context.Context, u string) ([]byte, error) {
	parsed, err := url.Parse(u)
	if err == nil && (parsed.Scheme == "http" || parsed.Scheme == "https") {
		return f.download(ctx, u)
	}

	name := u
	if err == nil && parsed.Scheme == "file" {
		name = parsed.Path
	} else if err == nil && len(parsed.Scheme) > 1 {
		return nil, fmt.Errorf("%s: unsupported scheme %q", u, parsed.Scheme)
	}
	if !filepath.IsAbs(name) && f.BaseDir != "" {
		name = filepath.Join(f.BaseDir, name)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fd, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer fd.Close()
	return f.readAll(fd)
}

func (f *Fetcher) download(ctx context.Context, u string) ([]byte, error) {
	if f.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: %s", u, resp.Status)
	}
	return f.readAll(resp.Body)
}

func (f *Fetcher) readAll(r io.Reader) ([]byte, error) {
	if f.MaxBytes <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, f.MaxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > f.MaxBytes {
		return nil, errTooLarge
	}
	return data, nil
}

// Decode decodes a raster image in one of the registered formats: PNG,
// JPEG, GIF, BMP, TIFF and WebP.
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	return img, err
}

// looksLikeSVG reports whether data starts like an XML or SVG document.
func looksLikeSVG(data []byte) bool {
	head := strings.TrimSpace(string(data[:min(len(data), 512)]))
	return strings.HasPrefix(head, "<?xml") || strings.HasPrefix(head, "<svg")
}
