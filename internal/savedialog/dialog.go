/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package savedialog is the modal "save patch" dialog: skin-driven layout,
// background rendering, the metadata form and the validated save flow.
// It is toolkit independent; front-ends position widgets from Resized and
// draw the background with Paint.
package savedialog

import (
	"errors"
	"fmt"
	"image"
	"log/slog"

	applog "synthpatch/internal/log"
	"synthpatch/internal/patch"
	"synthpatch/internal/skin"
	"synthpatch/internal/vector"
)

// Session owns the active program.
type Session interface {
	ActiveProgram() *patch.Program
	NotifyActiveProgramRenamed(name string, switchActive bool)
}

// Saver writes the active program to path and reports success.
type Saver interface {
	SavePatch(path string) bool
}

// Assets is the skin image lookup. *skin.Cache implements it.
type Assets interface {
	HasImageFor(key string) bool
	IsSVG(key string) bool
	SVG(key string, variant int) (*skin.Vector, error)
	Image(key string, w, h int) (image.Image, error)
	EmbeddedSVG(key string) *skin.Vector
}

// Alerter shows a blocking informational message.
type Alerter interface {
	Alert(title, message string)
}

// AlertFunc adapts a function to Alerter.
type AlertFunc func(title, message string)

func (f AlertFunc) Alert(title, message string) { f(title, message) }

// Deps are the collaborators of a Dialog. Logger, Scale and Categories are optional.
type Deps struct {
	Session    Session
	Saver      Saver
	Prefs      Preferences
	Assets     Assets
	Alerts     Alerter
	PatchRoot  func() string
	Scale      func() float64
	Categories []string
	Logger     *slog.Logger
}

// State is the dialog lifecycle state.
type State int

const (
	StateHidden State = iota
	StatePopulating
	StateEditing
	StateSaving
)

func (s State) String() string {
	switch s {
	case StateHidden:
		return "hidden"
	case StatePopulating:
		return "populating"
	case StateEditing:
		return "editing"
	case StateSaving:
		return "saving"
	}
	return "unknown"
}

// Dialog is the save patch dialog. It is not safe for concurrent use; all
// calls are expected on the UI goroutine.
type Dialog struct {
	d          Deps
	log        *slog.Logger
	categories []string
	embedded   *skin.Vector

	bounds       skin.Bounds
	hasSkinImage bool

	local vector.Rect
	state State
	form  Form
}

// New validates deps and returns a hidden dialog.
func New(d Deps) (*Dialog, error) {
	switch {
	case d.Session == nil:
		return nil, errors.New("savedialog: session is required")
	case d.Saver == nil:
		return nil, errors.New("savedialog: saver is required")
	case d.Prefs == nil:
		return nil, errors.New("savedialog: preferences are required")
	case d.Assets == nil:
		return nil, errors.New("savedialog: assets are required")
	case d.Alerts == nil:
		return nil, errors.New("savedialog: alerter is required")
	case d.PatchRoot == nil:
		return nil, errors.New("savedialog: patch root is required")
	}
	if d.Categories == nil {
		d.Categories = patch.AvailableCategories()
	}
	l := d.Logger
	if l == nil {
		l = applog.WithComponent("savedialog")
	}
	dlg := &Dialog{
		d:          d,
		log:        l,
		categories: append([]string(nil), d.Categories...),
		embedded:   d.Assets.EmbeddedSVG(BackgroundKey),
		form:       Form{CategoryID: NoCategoryID},
	}
	dlg.ResetState()
	return dlg, nil
}

// ApplySkin replaces the bounds snapshot and, when assets is non-nil, the asset lookup.
func (dlg *Dialog) ApplySkin(bounds skin.Bounds, assets Assets) {
	if assets != nil {
		dlg.d.Assets = assets
		dlg.embedded = assets.EmbeddedSVG(BackgroundKey)
	}
	dlg.ResetState()
	dlg.bounds = bounds.Clone()
}

// ResetState forgets the bounds snapshot and re-checks the skin background.
func (dlg *Dialog) ResetState() {
	dlg.bounds = skin.Bounds{}
	dlg.hasSkinImage = dlg.d.Assets.HasImageFor(BackgroundKey)
}

// Categories returns the category list the dialog was built with.
func (dlg *Dialog) Categories() []string { return append([]string(nil), dlg.categories...) }

// CategoryItems returns the category menu entries.
func (dlg *Dialog) CategoryItems() []CategoryItem { return CategoryItems(dlg.categories) }

func (dlg *Dialog) State() State  { return dlg.state }
func (dlg *Dialog) Visible() bool { return dlg.state != StateHidden }
func (dlg *Dialog) Form() Form    { return dlg.form }

// SetForm stores user edits. It has no effect unless the dialog is editing.
func (dlg *Dialog) SetForm(f Form) {
	if dlg.state != StateEditing {
		return
	}
	if _, ok := CategoryLabel(dlg.categories, f.CategoryID); !ok {
		f.CategoryID = NoCategoryID
	}
	dlg.form = f
}

// FieldStyle is the text field presentation.
func (dlg *Dialog) FieldStyle() FieldStyle { return defaultFieldStyle() }

// SetBounds sets the area the dialog covers, normally the whole parent editor.
func (dlg *Dialog) SetBounds(parent vector.Rect) {
	dlg.local = vector.R(0, 0, parent.W, parent.H)
}

// Bounds returns the area the dialog covers in its own coordinates.
func (dlg *Dialog) Bounds() vector.Rect { return dlg.local }

// ShowOver opens the dialog covering parent and fills the form from the active program.
func (dlg *Dialog) ShowOver(parent vector.Rect) {
	dlg.SetBounds(parent)
	dlg.state = StatePopulating
	dlg.Populate()
	dlg.state = StateEditing
	dlg.log.Debug("Save patch dialog shown", slog.Int("w", parent.W), slog.Int("h", parent.H))
}

// Populate copies the active program into the form.
func (dlg *Dialog) Populate() {
	p := dlg.d.Session.ActiveProgram()
	if p == nil {
		dlg.form = Form{CategoryID: NoCategoryID}
		return
	}
	dlg.form.Populate(p, dlg.d.Prefs, dlg.categories)
}

// Cancel closes the dialog without touching the program.
func (dlg *Dialog) Cancel() {
	if dlg.state == StateHidden {
		return
	}
	dlg.state = StateHidden
	dlg.log.Debug("Save patch cancelled")
}

// DoQuickSave saves with the program's current metadata without user input.
func (dlg *Dialog) DoQuickSave() error {
	dlg.Populate()
	return dlg.DoSave()
}

// DoSave validates the form, commits it to the active program, persists the
// program and closes the dialog. A rejection alerts the user, leaves the
// program untouched and keeps the dialog open. A failed write still closes the
// dialog and is returned as *PersistenceError.
func (dlg *Dialog) DoSave() error {
	l := applog.WithOperation(dlg.log, "doSave")
	l.Info("Starting patch save")

	prev := dlg.state
	dlg.state = StateSaving

	path, err := ResolvePath(dlg.d.PatchRoot(), dlg.form, dlg.categories)
	if err != nil {
		var rej *RejectionError
		if errors.As(err, &rej) {
			dlg.d.Alerts.Alert(rej.Title, rej.Message)
		}
		l.Info("Patch save rejected", slog.Any("err", err))
		dlg.state = editingOr(prev)
		return err
	}

	p := dlg.d.Session.ActiveProgram()
	if p == nil {
		dlg.state = editingOr(prev)
		return fmt.Errorf("save %s: no active program", path)
	}

	l.Info("Saving patch", slog.String("path", path))
	dlg.form.Commit(p, dlg.categories)
	dlg.d.Prefs.SetLastAuthor(dlg.form.Author)
	dlg.d.Prefs.SetLastLicense(dlg.form.License)

	var result error
	if !dlg.d.Saver.SavePatch(path) {
		l.Error("Failed to save patch", slog.String("path", path))
		result = &PersistenceError{Path: path}
	}

	dlg.d.Session.NotifyActiveProgramRenamed(p.Name(), true)
	dlg.state = StateHidden
	return result
}

// editingOr keeps a hidden dialog hidden after a rejected quick save.
func editingOr(prev State) State {
	if prev == StateHidden {
		return StateHidden
	}
	return StateEditing
}
