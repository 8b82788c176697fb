/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package savedialog

import "synthpatch/internal/vector"

// Resolve returns the skin rectangle for key, or def when the skin has none.
func (dlg *Dialog) Resolve(key string, def vector.Rect) vector.Rect {
	return dlg.bounds.Lookup(key, def)
}

func (dlg *Dialog) scale() float64 {
	if dlg.d.Scale == nil {
		return 1
	}
	if s := dlg.d.Scale(); s > 0 {
		return s
	}
	return 1
}

// naturalSize is the unscaled dialog size: skin override, then the embedded
// background's view box, then the built-in default.
func (dlg *Dialog) naturalSize() (w, h int) {
	if r, ok := dlg.bounds[DialogKey]; ok {
		return r.W, r.H
	}
	if dlg.embedded != nil {
		fw, fh := dlg.embedded.Size()
		return int(fw), int(fh)
	}
	return defaultWidth, defaultHeight
}

// ContentArea returns the scaled dialog rectangle centred in parent.
func (dlg *Dialog) ContentArea(parent vector.Rect) vector.Rect {
	w, h := dlg.naturalSize()
	sc := dlg.scale()
	r := vector.R(0, 0, int(float64(w)*sc), int(float64(h)*sc))
	return r.WithCentre(parent.Centre())
}

// Layout positions every control inside content.
func (dlg *Dialog) Layout(content vector.Rect) map[Control]vector.Rect {
	sc := dlg.scale()
	origin := content.Min()
	out := make(map[Control]vector.Rect, len(controlSpecs))
	for _, c := range Controls() {
		out[c] = dlg.Resolve(c.Key(), c.DefaultBounds()).Scaled(sc, origin)
	}
	return out
}

// Resized recomputes the content area from the current bounds and lays out the controls.
func (dlg *Dialog) Resized() map[Control]vector.Rect {
	return dlg.Layout(dlg.ContentArea(dlg.local))
}
