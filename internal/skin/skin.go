/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package skin loads optional visual themes. A skin supplies layout overrides for
// named controls (the bounds map) and image/vector assets looked up by key.
// Without a skin, only the vectors embedded in the binary are available.
package skin

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"strings"

	applog "synthpatch/internal/log"
	"synthpatch/internal/vector"
)

// Bounds maps a control key to its unscaled rectangle. A missing key means
// "use the control's default".
type Bounds map[string]vector.Rect

// Lookup returns the rectangle stored for key, or def when key is absent.
func (b Bounds) Lookup(key string, def vector.Rect) vector.Rect {
	if r, ok := b[key]; ok {
		return r
	}
	return def
}

func (b Bounds) Has(key string) bool {
	_, ok := b[key]
	return ok
}

// Clone returns an independent copy; a nil map clones to an empty one.
func (b Bounds) Clone() Bounds {
	c := make(Bounds, len(b))
	for k, v := range b {
		c[k] = v
	}
	return c
}

// Skin is a loaded theme.
type Skin struct {
	Name   string
	Author string
	Source string
	Bounds Bounds
	Assets *Cache
}

// Builtin returns the empty skin: no overrides, embedded vectors only.
func Builtin() *Skin {
	return &Skin{Name: "builtin", Bounds: Bounds{}, Assets: NewCache(nil)}
}

// Load opens a skin from a directory or a .zip archive.
func Load(src string) (*Skin, error) {
	l := applog.WithOperation(applog.WithComponent("skin"), "load").With(slog.String("src", src))
	if strings.TrimSpace(src) == "" {
		return nil, errors.New("skin path is required")
	}
	fi, err := os.Stat(src)
	if err != nil {
		return nil, fmt.Errorf("stat skin: %w", err)
	}

	var fsys fs.FS
	if fi.IsDir() {
		fsys = os.DirFS(src)
	} else {
		data, err := os.ReadFile(src)
		if err != nil {
			return nil, fmt.Errorf("read skin archive: %w", err)
		}
		zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return nil, fmt.Errorf("open skin archive: %w", err)
		}
		fsys = zr
	}

	root, err := findRoot(fsys)
	if err != nil {
		return nil, err
	}
	if root != "." {
		if fsys, err = fs.Sub(fsys, root); err != nil {
			return nil, fmt.Errorf("skin root %s: %w", root, err)
		}
	}

	desc, err := readDescription(fsys)
	if err != nil {
		l.Error("invalid skin description", slog.Any("err", err))
		return nil, err
	}
	sk := &Skin{
		Name:   desc.Name,
		Author: desc.Author,
		Source: src,
		Bounds: desc.Bounds(),
		Assets: NewCache(fsys),
	}
	if sk.Name == "" {
		sk.Name = strings.TrimSuffix(path.Base(src), ".zip")
	}
	l.Info("skin loaded", slog.String("name", sk.Name), slog.Int("bounds", len(sk.Bounds)), slog.Int("assets", sk.Assets.Len()))
	return sk, nil
}

// findRoot locates the directory holding the description file: the archive root,
// or a single top-level folder (zips created by file managers usually wrap one).
func findRoot(fsys fs.FS) (string, error) {
	if descriptionName(fsys, ".") != "" {
		return ".", nil
	}
	ents, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return "", fmt.Errorf("list skin: %w", err)
	}
	var dirs []string
	for _, e := range ents {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") && e.Name() != "__MACOSX" {
			dirs = append(dirs, e.Name())
		}
	}
	if len(dirs) == 1 && descriptionName(fsys, dirs[0]) != "" {
		return dirs[0], nil
	}
	return "", ErrNoDescription
}
