//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"fyne.io/fyne/v2"
	fapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	fstorage "fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"synthpatch/internal/app"
	"synthpatch/internal/crash"
	applog "synthpatch/internal/log"
	"synthpatch/internal/savedialog"
	"synthpatch/internal/version"
)

// Run starts the Fyne desktop front-end around the active patch.
func Run(opts app.Options) error {
	l := applog.WithComponent("ui")
	l.Info("starting UI")

	env, err := app.Open(opts)
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()
	defer crash.Recover(env.Session)

	fyneApp := fapp.NewWithID("synthpatch")
	w := fyneApp.NewWindow("synthpatch")
	prefs := fyneApp.Preferences()
	winW := max(prefs.IntWithFallback("window.width", 900), 400)
	winH := max(prefs.IntWithFallback("window.height", 640), 400)
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	dlg, err := env.NewDialog(savedialog.AlertFunc(func(title, msg string) {
		dialog.ShowInformation(title, msg, w)
	}))
	if err != nil {
		return err
	}
	overlay := NewSaveDialogWidget(dlg)

	info := widget.NewLabel("")
	status := widget.NewLabel("Ready")
	refreshInfo := func() {
		md := env.Session.ActiveProgram().Metadata()
		cat := md.Category
		if cat == "" {
			cat = savedialog.NoCategoryLabel
		}
		info.SetText(fmt.Sprintf("Patch: %s\nAuthor: %s\nLicense: %s\nProject: %s\nCategory: %s",
			md.Name, md.Author, md.License, md.Project, cat))
		w.SetTitle("synthpatch - " + md.Name)
	}
	reportSave := func(err error) {
		var pe *savedialog.PersistenceError
		switch {
		case err == nil:
			status.SetText("Saved " + env.Session.ActiveProgram().Name())
		case errors.As(err, &pe):
			dialog.ShowError(err, w)
			status.SetText("Save failed")
		default:
			l.Info("save not completed", slog.Any("err", err))
		}
		refreshInfo()
	}
	overlay.OnDone = reportSave

	openSave := func() {
		l.Info("menu: save patch")
		overlay.Open(w.Canvas().Size())
	}
	quickSave := func() {
		l.Info("menu: quick save")
		reportSave(dlg.DoQuickSave())
	}
	openPatch := func() {
		fd := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
			if err != nil || rc == nil {
				return
			}
			path := rc.URI().Path()
			_ = rc.Close()
			if err := env.Session.LoadPatch(path); err != nil {
				dialog.ShowError(err, w)
				return
			}
			status.SetText("Opened " + path)
			refreshInfo()
		}, w)
		fd.SetFilter(fstorage.NewExtensionFileFilter([]string{".fxp"}))
		fd.Show()
	}
	loadSkin := func() {
		dialog.ShowFolderOpen(func(u fyne.ListableURI, err error) {
			if err != nil || u == nil {
				return
			}
			if err := env.LoadSkin(u.Path()); err != nil {
				dialog.ShowError(err, w)
				return
			}
			dlg.ApplySkin(env.Skin.Bounds, env.Skin.Assets)
			overlay.Refresh()
			status.SetText("Skin: " + env.Skin.Name)
		}, w)
	}

	toolbar := container.NewHBox(
		widget.NewButton("Save Patch…", openSave),
		widget.NewButton("Quick Save", quickSave),
		widget.NewButton("Open Patch…", openPatch),
	)
	content := container.NewBorder(toolbar, status, nil, nil, info)
	w.SetContent(container.NewStack(content, overlay))

	w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { openSave() })
	w.Canvas().SetOnTypedKey(func(e *fyne.KeyEvent) {
		if e.Name == fyne.KeyEscape && overlay.Visible() {
			overlay.Close()
		}
	})

	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Save Patch…", openSave),
		fyne.NewMenuItem("Quick Save", quickSave),
		fyne.NewMenuItem("Open Patch…", openPatch),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Load Skin…", loadSkin),
	)
	aboutItem := fyne.NewMenuItem("About synthpatch", func() {
		exe, _ := os.Executable()
		msg := fmt.Sprintf("synthpatch\nVersion: %s\nOS: %s\nArch: %s\nGo: %s\nExecutable: %s\nPatches: %s",
			version.String(), runtime.GOOS, runtime.GOARCH, runtime.Version(), exe, env.Session.PatchRoot())
		dialog.ShowInformation("About", msg, w)
	})
	w.SetMainMenu(fyne.NewMainMenu(fileMenu, fyne.NewMenu("About", aboutItem)))

	w.SetCloseIntercept(func() {
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
		w.Close()
	})

	refreshInfo()
	w.ShowAndRun()
	return nil
}
