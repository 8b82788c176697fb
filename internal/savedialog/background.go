/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package savedialog

import (
	"image"
	"image/color"
	"image/draw"
	"log/slog"

	xdraw "golang.org/x/image/draw"

	applog "synthpatch/internal/log"
	"synthpatch/internal/vector"
)

// Background is the variant drawn behind the controls.
type Background int

const (
	BackgroundSkinRaster Background = iota
	BackgroundSkinVector
	BackgroundEmbeddedVector
	BackgroundFlat
)

func (b Background) String() string {
	switch b {
	case BackgroundSkinRaster:
		return "skin-raster"
	case BackgroundSkinVector:
		return "skin-vector"
	case BackgroundEmbeddedVector:
		return "embedded-vector"
	case BackgroundFlat:
		return "flat"
	}
	return "unknown"
}

var (
	overlayColor = color.NRGBA{A: 217}
	flatFill     = color.NRGBA{R: 0xAA, G: 0xAA, B: 0xAA, A: 0xFF}
	flatBorder   = color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
)

const flatBorderWidth = 3

// ChooseBackground returns the variant Paint will try first.
func (dlg *Dialog) ChooseBackground() Background {
	switch {
	case dlg.hasSkinImage && dlg.d.Assets.IsSVG(BackgroundKey):
		return BackgroundSkinVector
	case dlg.hasSkinImage:
		return BackgroundSkinRaster
	case dlg.embedded != nil:
		return BackgroundEmbeddedVector
	}
	return BackgroundFlat
}

// Paint draws the dimming overlay over the whole dialog bounds and the
// background into the content area. It returns the variant actually drawn.
func (dlg *Dialog) Paint(dst draw.Image) Background {
	l := applog.WithOperation(dlg.log, "paint")
	draw.Draw(dst, toImage(dlg.local), image.NewUniform(overlayColor), image.Point{}, draw.Over)

	r := dlg.ContentArea(dlg.local)
	bg := dlg.ChooseBackground()
	for {
		err := dlg.paintVariant(dst, bg, r)
		if err == nil {
			return bg
		}
		next := dlg.fallback(bg)
		l.Warn("Background could not be drawn", slog.String("variant", bg.String()),
			slog.String("fallback", next.String()), slog.Any("err", err))
		bg = next
	}
}

func (dlg *Dialog) fallback(bg Background) Background {
	if bg != BackgroundEmbeddedVector && dlg.embedded != nil {
		return BackgroundEmbeddedVector
	}
	return BackgroundFlat
}

func (dlg *Dialog) paintVariant(dst draw.Image, bg Background, r vector.Rect) error {
	switch bg {
	case BackgroundSkinRaster:
		img, err := dlg.d.Assets.Image(BackgroundKey, r.W, r.H)
		if err != nil {
			return err
		}
		xdraw.CatmullRom.Scale(dst, toImage(r), img, img.Bounds(), xdraw.Over, nil)
		return nil
	case BackgroundSkinVector:
		v, err := dlg.d.Assets.SVG(BackgroundKey, 0)
		if err != nil {
			return err
		}
		return v.Draw(dst, dlg.vectorTransform(r))
	case BackgroundEmbeddedVector:
		return dlg.embedded.Draw(dst, dlg.vectorTransform(r))
	}
	paintFlat(dst, r)
	return nil
}

func (dlg *Dialog) vectorTransform(r vector.Rect) vector.Affine2D {
	return vector.Identity.Scaled(dlg.scale()).Translated(float64(r.X), float64(r.Y))
}

func paintFlat(dst draw.Image, r vector.Rect) {
	draw.Draw(dst, toImage(r), image.NewUniform(flatFill), image.Point{}, draw.Src)
	border := image.NewUniform(flatBorder)
	bw := min(flatBorderWidth, r.W/2, r.H/2)
	rr := toImage(r)
	for _, side := range []image.Rectangle{
		image.Rect(rr.Min.X, rr.Min.Y, rr.Max.X, rr.Min.Y+bw),
		image.Rect(rr.Min.X, rr.Max.Y-bw, rr.Max.X, rr.Max.Y),
		image.Rect(rr.Min.X, rr.Min.Y, rr.Min.X+bw, rr.Max.Y),
		image.Rect(rr.Max.X-bw, rr.Min.Y, rr.Max.X, rr.Max.Y),
	} {
		draw.Draw(dst, side, border, image.Point{}, draw.Src)
	}
}

func toImage(r vector.Rect) image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H)
}
