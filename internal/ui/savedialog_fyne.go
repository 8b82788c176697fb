//go:build fyne

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"synthpatch/internal/savedialog"
	"synthpatch/internal/vector"
)

// SaveDialogWidget presents a savedialog.Dialog as an overlay covering its
// whole parent. Stack it above the editor content; it is hidden until Open.
type SaveDialogWidget struct {
	widget.BaseWidget
	dlg   *savedialog.Dialog
	items []savedialog.CategoryItem

	name, author, project, license *widget.Entry
	category                       *widget.Select
	ok, cancel                     *widget.Button

	// OnDone is called after a save attempt with the DoSave result.
	OnDone func(err error)
}

func NewSaveDialogWidget(dlg *savedialog.Dialog) *SaveDialogWidget {
	w := &SaveDialogWidget{dlg: dlg, items: dlg.CategoryItems()}
	w.name = widget.NewEntry()
	w.author = widget.NewEntry()
	w.project = widget.NewEntry()
	w.license = widget.NewEntry()
	labels := make([]string, len(w.items))
	for i, it := range w.items {
		labels[i] = it.Label
	}
	w.category = widget.NewSelect(labels, nil)
	w.ok = widget.NewButton("Save", w.save)
	w.ok.Importance = widget.DangerImportance
	w.cancel = widget.NewButton("Cancel", w.Close)
	w.ExtendBaseWidget(w)
	w.Hide()
	return w
}

// Open shows the dialog over an area of the given size, filled from the active program.
func (w *SaveDialogWidget) Open(size fyne.Size) {
	w.dlg.ShowOver(vector.R(0, 0, int(size.Width), int(size.Height)))
	w.loadForm()
	w.Show()
	w.Refresh()
}

// Close cancels the dialog.
func (w *SaveDialogWidget) Close() {
	w.dlg.Cancel()
	w.Hide()
}

// Tapped swallows clicks so the editor below stays inert while the dialog is open.
func (w *SaveDialogWidget) Tapped(*fyne.PointEvent) {}

func (w *SaveDialogWidget) loadForm() {
	f := w.dlg.Form()
	w.name.SetText(f.Name)
	w.author.SetText(f.Author)
	w.project.SetText(f.Project)
	w.license.SetText(f.License)
	for i, it := range w.items {
		if it.ID == f.CategoryID {
			w.category.SetSelectedIndex(i)
			break
		}
	}
}

func (w *SaveDialogWidget) form() savedialog.Form {
	f := savedialog.Form{
		Name:       w.name.Text,
		Author:     w.author.Text,
		License:    w.license.Text,
		Project:    w.project.Text,
		CategoryID: savedialog.NoCategoryID,
	}
	if i := w.category.SelectedIndex(); i >= 0 && i < len(w.items) {
		f.CategoryID = w.items[i].ID
	}
	return f
}

func (w *SaveDialogWidget) save() {
	w.dlg.SetForm(w.form())
	err := w.dlg.DoSave()
	if !w.dlg.Visible() {
		w.Hide()
	}
	if w.OnDone != nil {
		w.OnDone(err)
	}
}

func (w *SaveDialogWidget) CreateRenderer() fyne.WidgetRenderer {
	th := &fieldTheme{style: w.dlg.FieldStyle()}
	wrap := func(o fyne.CanvasObject) fyne.CanvasObject { return container.NewThemeOverride(o, th) }
	placed := map[savedialog.Control]fyne.CanvasObject{
		savedialog.ControlName:     wrap(w.name),
		savedialog.ControlAuthor:   wrap(w.author),
		savedialog.ControlProject:  wrap(w.project),
		savedialog.ControlLicense:  wrap(w.license),
		savedialog.ControlCategory: w.category,
		savedialog.ControlCancel:   w.cancel,
		savedialog.ControlOK:       w.ok,
	}
	bg := canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	bg.FillMode = canvas.ImageFillStretch
	objs := []fyne.CanvasObject{bg}
	for _, c := range savedialog.Controls() {
		objs = append(objs, placed[c])
	}
	return &saveDialogRenderer{w: w, bg: bg, placed: placed, objects: objs}
}

type saveDialogRenderer struct {
	w       *SaveDialogWidget
	bg      *canvas.Image
	placed  map[savedialog.Control]fyne.CanvasObject
	objects []fyne.CanvasObject
	painted fyne.Size
}

func (r *saveDialogRenderer) Destroy()                     {}
func (r *saveDialogRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *saveDialogRenderer) MinSize() fyne.Size           { return fyne.NewSize(0, 0) }

func (r *saveDialogRenderer) Refresh() {
	r.painted = fyne.Size{}
	r.Layout(r.w.Size())
	canvas.Refresh(r.w)
}

func (r *saveDialogRenderer) Layout(size fyne.Size) {
	r.w.dlg.SetBounds(vector.R(0, 0, int(size.Width), int(size.Height)))
	if size != r.painted && size.Width >= 1 && size.Height >= 1 {
		img := image.NewRGBA(image.Rect(0, 0, int(size.Width), int(size.Height)))
		r.w.dlg.Paint(img)
		r.bg.Image = img
		r.bg.Refresh()
		r.painted = size
	}
	r.bg.Move(fyne.NewPos(0, 0))
	r.bg.Resize(size)

	for c, rect := range r.w.dlg.Resized() {
		obj := r.placed[c]
		obj.Move(fyne.NewPos(float32(rect.X), float32(rect.Y)))
		obj.Resize(fyne.NewSize(float32(rect.W), float32(rect.H)))
	}
}

// fieldTheme applies the dialog's text field style on top of the default theme.
type fieldTheme struct {
	style savedialog.FieldStyle
}

func (t *fieldTheme) Color(n fyne.ThemeColorName, v fyne.ThemeVariant) color.Color {
	switch n {
	case theme.ColorNameForeground:
		return t.style.Text
	case theme.ColorNamePrimary:
		return t.style.Caret
	case theme.ColorNameSelection:
		return t.style.Highlight
	case theme.ColorNameFocus:
		return t.style.OutlineWhenEditing
	case theme.ColorNameInputBackground, theme.ColorNameInputBorder:
		return color.Transparent
	}
	return theme.DefaultTheme().Color(n, v)
}

func (t *fieldTheme) Font(s fyne.TextStyle) fyne.Resource     { return theme.DefaultTheme().Font(s) }
func (t *fieldTheme) Icon(n fyne.ThemeIconName) fyne.Resource { return theme.DefaultTheme().Icon(n) }

func (t *fieldTheme) Size(n fyne.ThemeSizeName) float32 {
	if n == theme.SizeNameText {
		return t.style.FontHeight
	}
	return theme.DefaultTheme().Size(n)
}
