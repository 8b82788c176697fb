/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package skin

import (
	"errors"
	"fmt"
	"image/draw"
	"io"
	"sync"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"synthpatch/internal/vector"
)

// ErrUnsupportedTransform is returned for transforms with rotation or shear;
// skin vectors are only ever scaled and translated.
var ErrUnsupportedTransform = errors.New("vector draw supports scale and translate only")

// Vector is a parsed SVG document.
type Vector struct {
	mu   sync.Mutex
	icon *oksvg.SvgIcon
	w, h float64
}

// ParseVector reads an SVG document. Unsupported elements are skipped.
func ParseVector(r io.Reader) (*Vector, error) {
	icon, err := oksvg.ReadIconStream(r, oksvg.WarnErrorMode)
	if err != nil {
		return nil, fmt.Errorf("parse svg: %w", err)
	}
	w, h := icon.ViewBox.W, icon.ViewBox.H
	if w <= 0 || h <= 0 {
		return nil, errors.New("svg has no usable viewBox")
	}
	return &Vector{icon: icon, w: w, h: h}, nil
}

// Size returns the natural (view box) size.
func (v *Vector) Size() (w, h float64) { return v.w, v.h }

// Draw renders the vector at its natural size transformed by at.
func (v *Vector) Draw(dst draw.Image, at vector.Affine2D) error {
	if !at.IsAxisAligned() {
		return ErrUnsupportedTransform
	}
	origin := at.Apply(vector.PtF{})
	w, h := v.w*at.A, v.h*at.D
	if w <= 0 || h <= 0 {
		return nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.icon.SetTarget(origin.X, origin.Y, w, h)
	b := dst.Bounds()
	scanner := rasterx.NewScannerGV(b.Dx(), b.Dy(), dst, b)
	v.icon.Draw(rasterx.NewDasher(b.Dx(), b.Dy(), scanner), 1.0)
	return nil
}
