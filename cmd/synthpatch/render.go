/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/spf13/cobra"

	"synthpatch/internal/app"
	"synthpatch/internal/vector"
)

var outlineColor = color.NRGBA{R: 0xFF, G: 0x40, B: 0x40, A: 0xFF}

func newRenderCmd(rf *rootFlags) *cobra.Command {
	var (
		out     string
		width   int
		height  int
		outline bool
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a PNG preview of the save dialog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if out == "" {
				return errors.New("--out is required")
			}
			if width <= 0 || height <= 0 {
				return fmt.Errorf("invalid parent size %dx%d", width, height)
			}
			env, err := app.Open(rf.options())
			if err != nil {
				return err
			}
			defer func() { _ = env.Close() }()

			dlg, err := env.NewDialog(stderrAlerts(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			dlg.ShowOver(vector.R(0, 0, width, height))
			img := image.NewRGBA(image.Rect(0, 0, width, height))
			bg := dlg.Paint(img)
			if outline {
				for _, r := range dlg.Resized() {
					strokeRect(img, r)
				}
			}
			dlg.Cancel()

			if err := writePNG(out, img); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Rendered %s background (%v) to %s\n",
				bg, dlg.ContentArea(dlg.Bounds()), out)
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&out, "out", "o", "", "output PNG file")
	fl.IntVar(&width, "width", 800, "parent width")
	fl.IntVar(&height, "height", 600, "parent height")
	fl.BoolVar(&outline, "outline", false, "outline control bounds")
	return cmd
}

func strokeRect(img *image.RGBA, r vector.Rect) {
	for x := r.X; x < r.X+r.W; x++ {
		img.Set(x, r.Y, outlineColor)
		img.Set(x, r.Y+r.H-1, outlineColor)
	}
	for y := r.Y; y < r.Y+r.H; y++ {
		img.Set(r.X, y, outlineColor)
		img.Set(r.X+r.W-1, y, outlineColor)
	}
}

func writePNG(path string, img image.Image) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
