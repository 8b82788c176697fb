/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package savedialog

import (
	"image/color"

	"synthpatch/internal/vector"
)

// Skin keys of the dialog itself.
const (
	DialogKey     = "savePatchDialog"
	BackgroundKey = "label-bg-save-patch"
)

// Size used when neither the skin nor the embedded background provide one.
const (
	defaultWidth  = 246
	defaultHeight = 328
)

// Control identifies one positioned child of the dialog.
type Control int

const (
	ControlName Control = iota
	ControlAuthor
	ControlProject
	ControlCategory
	ControlLicense
	ControlCancel
	ControlOK
)

var controlSpecs = [...]struct {
	key   string
	def   vector.Rect
	asset string
}{
	ControlName:     {"savePatchNameLabel", vector.R(22, 29, 200, 31), ""},
	ControlAuthor:   {"savePatchAuthorLabel", vector.R(22, 90, 200, 31), ""},
	ControlProject:  {"savePatchProjectLabel", vector.R(22, 151, 200, 31), ""},
	ControlCategory: {"savePatchCategoryMenu", vector.R(25, 212, 90, 31), "menu-categories"},
	ControlLicense:  {"savePatchLicenseLabel", vector.R(126, 212, 96, 31), ""},
	ControlCancel:   {"savePatchCancelButton", vector.R(129, 272, 23, 35), "button-clear-white"},
	ControlOK:       {"savePatchOKButton", vector.R(92, 272, 23, 35), "button-clear-red"},
}

// Controls lists every control in layout order.
func Controls() []Control {
	return []Control{ControlName, ControlAuthor, ControlProject, ControlCategory, ControlLicense, ControlCancel, ControlOK}
}

// Key is the skin bounds key of the control.
func (c Control) Key() string { return controlSpecs[c].key }

// DefaultBounds is the unscaled rectangle used when the skin has no override.
func (c Control) DefaultBounds() vector.Rect { return controlSpecs[c].def }

// AssetKey names the image drawn for buttons and the category menu; "" for text fields.
func (c Control) AssetKey() string { return controlSpecs[c].asset }

func (c Control) String() string {
	switch c {
	case ControlName:
		return "name"
	case ControlAuthor:
		return "author"
	case ControlProject:
		return "project"
	case ControlCategory:
		return "category"
	case ControlLicense:
		return "license"
	case ControlCancel:
		return "cancel"
	case ControlOK:
		return "ok"
	}
	return "unknown"
}

// FieldStyle is the presentation applied to the text fields when the dialog opens.
type FieldStyle struct {
	FontHeight         float32
	Centred            bool
	MinHorizontalScale float32
	Text               color.NRGBA
	TextWhenEditing    color.NRGBA
	OutlineWhenEditing color.NRGBA
	Highlight          color.NRGBA
	HighlightedText    color.NRGBA
	Caret              color.NRGBA
}

var red = color.NRGBA{R: 0xFF, A: 0xFF}

func defaultFieldStyle() FieldStyle {
	return FieldStyle{
		FontHeight:         18,
		Centred:            true,
		MinHorizontalScale: 1,
		Text:               red,
		TextWhenEditing:    red,
		OutlineWhenEditing: color.NRGBA{},
		Highlight:          color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0x30},
		HighlightedText:    red,
		Caret:              red,
	}
}
