/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package skin

import (
	"embed"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"path"
	"strconv"
	"strings"
	"sync"

	// decoders for skin rasters
	_ "image/jpeg"
	_ "image/png"

	xdraw "golang.org/x/image/draw"
)

//go:embed embedded/*.svg
var embeddedFS embed.FS

var ErrNoAsset = errors.New("no skin asset for key")

type rasterKey struct {
	key  string
	w, h int
}

// Cache resolves asset keys to decoded images and vectors. Lookups by key are
// synchronous; decoded results are memoised for the lifetime of the cache.
type Cache struct {
	fsys fs.FS

	mu       sync.Mutex
	files    map[string]string // key -> file name
	decoded  map[string]image.Image
	scaled   map[rasterKey]image.Image
	vectors  map[string]*Vector
	embedded map[string]*Vector
}

// NewCache indexes the assets at the root of fsys. A nil fsys yields a cache
// that only serves embedded vectors.
func NewCache(fsys fs.FS) *Cache {
	c := &Cache{
		fsys:     fsys,
		files:    map[string]string{},
		decoded:  map[string]image.Image{},
		scaled:   map[rasterKey]image.Image{},
		vectors:  map[string]*Vector{},
		embedded: map[string]*Vector{},
	}
	if fsys == nil {
		return c
	}
	ents, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return c
	}
	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		ext := strings.ToLower(path.Ext(name))
		switch ext {
		case ".svg", ".png", ".jpg", ".jpeg":
		default:
			continue
		}
		key := strings.TrimSuffix(name, path.Ext(name))
		// an SVG wins over a raster with the same key
		if prev, ok := c.files[key]; ok && strings.EqualFold(path.Ext(prev), ".svg") {
			continue
		}
		c.files[key] = name
	}
	return c
}

// Len returns the number of indexed skin assets.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.files)
}

// HasImageFor reports whether the skin declares an asset (raster or vector) for key.
func (c *Cache) HasImageFor(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.files[key]
	return ok
}

// IsSVG reports whether the skin asset for key is a vector.
func (c *Cache) IsSVG(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return strings.EqualFold(path.Ext(c.files[key]), ".svg")
}

// SVG returns the skin vector for key. Variant 0 is <key>.svg; variant n>0 is
// <key>-<n>.svg and falls back to variant 0 when absent.
func (c *Cache) SVG(key string, variant int) (*Vector, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	name, ok := c.files[key]
	if !ok || !strings.EqualFold(path.Ext(name), ".svg") {
		return nil, fmt.Errorf("%w: %s (svg)", ErrNoAsset, key)
	}
	if variant > 0 {
		if alt, ok := c.files[key+"-"+strconv.Itoa(variant)]; ok && strings.EqualFold(path.Ext(alt), ".svg") {
			name = alt
		}
	}
	if v, ok := c.vectors[name]; ok {
		return v, nil
	}
	f, err := c.fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer func() { _ = f.Close() }()
	v, err := ParseVector(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	c.vectors[name] = v
	return v, nil
}

// Image returns the skin raster for key scaled to w×h.
func (c *Cache) Image(key string, w, h int) (image.Image, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid raster size %dx%d", w, h)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	name, ok := c.files[key]
	if !ok || strings.EqualFold(path.Ext(name), ".svg") {
		return nil, fmt.Errorf("%w: %s (raster)", ErrNoAsset, key)
	}
	rk := rasterKey{key: key, w: w, h: h}
	if img, ok := c.scaled[rk]; ok {
		return img, nil
	}
	src, ok := c.decoded[key]
	if !ok {
		f, err := c.fsys.Open(name)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", name, err)
		}
		src, _, err = image.Decode(f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
		c.decoded[key] = src
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	c.scaled[rk] = dst
	return dst, nil
}

// EmbeddedSVG returns the built-in vector for key, or nil if the binary has none.
func (c *Cache) EmbeddedSVG(key string) *Vector {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.embedded[key]; ok {
		return v
	}
	f, err := embeddedFS.Open("embedded/" + key + ".svg")
	if err != nil {
		c.embedded[key] = nil
		return nil
	}
	defer func() { _ = f.Close() }()
	v, err := ParseVector(f)
	if err != nil {
		v = nil
	}
	c.embedded[key] = v
	return v
}
