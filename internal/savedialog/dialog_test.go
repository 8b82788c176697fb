/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package savedialog

import (
	"errors"
	"path/filepath"
	"testing"

	"synthpatch/internal/patch"
	"synthpatch/internal/skin"
	"synthpatch/internal/vector"
)

type fakeSession struct {
	prog    *patch.Program
	renamed []string
	switchd []bool
}

func (s *fakeSession) ActiveProgram() *patch.Program { return s.prog }
func (s *fakeSession) NotifyActiveProgramRenamed(name string, switchActive bool) {
	s.renamed = append(s.renamed, name)
	s.switchd = append(s.switchd, switchActive)
}

type fakeSaver struct {
	ok    bool
	paths []string
}

func (s *fakeSaver) SavePatch(path string) bool {
	s.paths = append(s.paths, path)
	return s.ok
}

type fakePrefs struct{ author, license string }

func (p *fakePrefs) LastAuthor() string      { return p.author }
func (p *fakePrefs) SetLastAuthor(v string)  { p.author = v }
func (p *fakePrefs) LastLicense() string     { return p.license }
func (p *fakePrefs) SetLastLicense(v string) { p.license = v }

type alert struct{ title, msg string }

type fixture struct {
	dlg     *Dialog
	session *fakeSession
	saver   *fakeSaver
	prefs   *fakePrefs
	alerts  *[]alert
	root    string
}

func newFixture(t *testing.T, prog *patch.Program) *fixture {
	t.Helper()
	var alerts []alert
	f := &fixture{
		session: &fakeSession{prog: prog},
		saver:   &fakeSaver{ok: true},
		prefs:   &fakePrefs{},
		alerts:  &alerts,
		root:    filepath.FromSlash("/patches"),
	}
	dlg, err := New(Deps{
		Session:   f.session,
		Saver:     f.saver,
		Prefs:     f.prefs,
		Assets:    skin.NewCache(nil),
		Alerts:    AlertFunc(func(title, msg string) { alerts = append(alerts, alert{title, msg}) }),
		PatchRoot: func() string { return f.root },
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	f.dlg = dlg
	return f
}

func (f *fixture) edit(t *testing.T, fn func(*Form)) {
	t.Helper()
	f.dlg.ShowOver(vector.R(0, 0, 800, 600))
	form := f.dlg.Form()
	fn(&form)
	f.dlg.SetForm(form)
}

func TestNewRequiresCollaborators(t *testing.T) {
	if _, err := New(Deps{}); err == nil {
		t.Fatalf("expected error for empty deps")
	}
}

func TestSaveIntoCategoryFolder(t *testing.T) {
	prog := patch.New("MyLead")
	f := newFixture(t, prog)
	f.edit(t, func(form *Form) {
		form.CategoryID = CategoryID(f.dlg.Categories(), "Lead")
	})

	if err := f.dlg.DoSave(); err != nil {
		t.Fatalf("DoSave: %v", err)
	}
	want := filepath.Join(f.root, "Lead", "MyLead.fxp")
	if len(f.saver.paths) != 1 || f.saver.paths[0] != want {
		t.Fatalf("saved paths = %v, want [%s]", f.saver.paths, want)
	}
	if prog.Category() != "Lead" {
		t.Fatalf("category = %q", prog.Category())
	}
	if len(f.session.renamed) != 1 || f.session.renamed[0] != "MyLead" || !f.session.switchd[0] {
		t.Fatalf("rename notification = %v %v", f.session.renamed, f.session.switchd)
	}
	if f.dlg.Visible() {
		t.Fatalf("dialog should be hidden after save")
	}
	if len(*f.alerts) != 0 {
		t.Fatalf("unexpected alerts: %v", *f.alerts)
	}
}

func TestProjectTakesPrecedenceOverCategory(t *testing.T) {
	f := newFixture(t, patch.New("Pluck"))
	f.edit(t, func(form *Form) {
		form.Project = "Album"
		form.CategoryID = CategoryID(f.dlg.Categories(), "Keys")
	})
	if err := f.dlg.DoSave(); err != nil {
		t.Fatalf("DoSave: %v", err)
	}
	if want := filepath.Join(f.root, "Album", "Pluck.fxp"); f.saver.paths[0] != want {
		t.Fatalf("path = %s, want %s", f.saver.paths[0], want)
	}
	if f.session.prog.Project() != "Album" || f.session.prog.Category() != "Keys" {
		t.Fatalf("metadata = %+v", f.session.prog.Metadata())
	}
}

func TestReservedNameIsRejected(t *testing.T) {
	prog := patch.New("Old")
	prog.SetAuthor("Bob")
	f := newFixture(t, prog)
	f.edit(t, func(form *Form) {
		form.Name = patch.InitName
		form.Author = "Someone Else"
	})
	before := prog.Metadata()

	err := f.dlg.DoSave()
	if !errors.Is(err, ErrReservedName) {
		t.Fatalf("err = %v, want ErrReservedName", err)
	}
	var rej *RejectionError
	if !errors.As(err, &rej) || rej.Title != "Reserved Patch Name" {
		t.Fatalf("rejection = %+v", rej)
	}
	if len(*f.alerts) != 1 || (*f.alerts)[0].title != "Reserved Patch Name" {
		t.Fatalf("alerts = %v", *f.alerts)
	}
	if len(f.saver.paths) != 0 || len(f.session.renamed) != 0 {
		t.Fatalf("nothing should be saved or notified")
	}
	if prog.Metadata() != before {
		t.Fatalf("program mutated: %+v", prog.Metadata())
	}
	if f.prefs.author != "" {
		t.Fatalf("preferences mutated: %+v", f.prefs)
	}
	if f.dlg.State() != StateEditing {
		t.Fatalf("state = %v, want editing", f.dlg.State())
	}
}

func TestReservedNameIsCaseSensitive(t *testing.T) {
	f := newFixture(t, patch.New("x"))
	f.edit(t, func(form *Form) { form.Name = "init" })
	if err := f.dlg.DoSave(); err != nil {
		t.Fatalf("DoSave: %v", err)
	}
	if want := filepath.Join(f.root, "init.fxp"); f.saver.paths[0] != want {
		t.Fatalf("path = %s, want %s", f.saver.paths[0], want)
	}
}

func TestProjectNamedLikeCategoryIsRejected(t *testing.T) {
	prog := patch.New("Sub")
	prog.SetAuthor("Bob")
	f := newFixture(t, prog)
	f.edit(t, func(form *Form) {
		form.Project = "bass"
		form.Author = "Other"
		form.License = "MIT"
	})
	before := prog.Metadata()

	err := f.dlg.DoSave()
	if !errors.Is(err, ErrProjectNameConflictsWithCategory) {
		t.Fatalf("err = %v", err)
	}
	if len(*f.alerts) != 1 || (*f.alerts)[0].title != "Invalid Project Name" {
		t.Fatalf("alerts = %v", *f.alerts)
	}
	if len(f.saver.paths) != 0 || len(f.session.renamed) != 0 {
		t.Fatalf("nothing should be saved or notified")
	}
	if prog.Metadata() != before {
		t.Fatalf("program mutated: %+v", prog.Metadata())
	}
	if f.prefs.author != "" || f.prefs.license != "" {
		t.Fatalf("preferences mutated: %+v", f.prefs)
	}
	if !f.dlg.Visible() {
		t.Fatalf("dialog should stay open after a rejection")
	}
}

func TestAuthorFallsBackToRememberedValue(t *testing.T) {
	f := newFixture(t, patch.New("Pad 1"))
	f.prefs.author = "Alice"
	f.prefs.license = "CC-BY"
	f.dlg.ShowOver(vector.R(0, 0, 800, 600))

	form := f.dlg.Form()
	if form.Author != "Alice" || form.License != "CC-BY" {
		t.Fatalf("form = %+v", form)
	}
	if form.CategoryID != NoCategoryID {
		t.Fatalf("category id = %d", form.CategoryID)
	}
	if err := f.dlg.DoSave(); err != nil {
		t.Fatalf("DoSave: %v", err)
	}
	if f.session.prog.Author() != "Alice" {
		t.Fatalf("author = %q", f.session.prog.Author())
	}
}

func TestSaveRemembersAuthorAndLicense(t *testing.T) {
	f := newFixture(t, patch.New("Bell"))
	f.edit(t, func(form *Form) {
		form.Author = "Carol"
		form.License = "CC0"
	})
	if err := f.dlg.DoSave(); err != nil {
		t.Fatalf("DoSave: %v", err)
	}
	if f.prefs.author != "Carol" || f.prefs.license != "CC0" {
		t.Fatalf("prefs = %+v", f.prefs)
	}
}

func TestPopulateRoundTrip(t *testing.T) {
	prog := patch.New("Brassy")
	prog.SetAuthor("Dan")
	prog.SetLicense("GPL")
	prog.SetProject("Live")
	prog.SetCategory("Brass")
	f := newFixture(t, prog)
	before := prog.Metadata()

	f.dlg.ShowOver(vector.R(0, 0, 800, 600))
	f.dlg.Populate()
	f.dlg.Form().Commit(prog, f.dlg.Categories())

	if prog.Metadata() != before {
		t.Fatalf("metadata changed: %+v -> %+v", before, prog.Metadata())
	}
}

func TestUnknownCategoryPopulatesAsNone(t *testing.T) {
	prog := patch.New("Odd")
	prog.SetCategory("lead")
	f := newFixture(t, prog)
	f.dlg.ShowOver(vector.R(0, 0, 800, 600))

	form := f.dlg.Form()
	if form.CategoryID != NoCategoryID {
		t.Fatalf("category id = %d, want sentinel", form.CategoryID)
	}
	if got := form.CategoryText(f.dlg.Categories()); got != NoCategoryLabel {
		t.Fatalf("category text = %q", got)
	}
	if err := f.dlg.DoSave(); err != nil {
		t.Fatalf("DoSave: %v", err)
	}
	if prog.Category() != "" {
		t.Fatalf("category = %q, want empty", prog.Category())
	}
}

func TestPersistenceFailureStillCommits(t *testing.T) {
	prog := patch.New("Keep")
	f := newFixture(t, prog)
	f.saver.ok = false
	f.edit(t, func(form *Form) { form.Name = "Renamed" })

	err := f.dlg.DoSave()
	var pe *PersistenceError
	if !errors.As(err, &pe) || !errors.Is(err, ErrPersistenceFailure) {
		t.Fatalf("err = %v, want *PersistenceError", err)
	}
	if pe.Path != filepath.Join(f.root, "Renamed.fxp") {
		t.Fatalf("path = %s", pe.Path)
	}
	if prog.Name() != "Renamed" {
		t.Fatalf("in-memory name = %q", prog.Name())
	}
	if len(f.session.renamed) != 1 {
		t.Fatalf("rename notification expected")
	}
	if f.dlg.Visible() {
		t.Fatalf("dialog should close")
	}
}

func TestQuickSaveUsesProgramMetadata(t *testing.T) {
	prog := patch.New("Quick")
	prog.SetCategory("Pad")
	f := newFixture(t, prog)

	if err := f.dlg.DoQuickSave(); err != nil {
		t.Fatalf("DoQuickSave: %v", err)
	}
	if want := filepath.Join(f.root, "Pad", "Quick.fxp"); f.saver.paths[0] != want {
		t.Fatalf("path = %s, want %s", f.saver.paths[0], want)
	}
	if f.dlg.Visible() {
		t.Fatalf("quick save should leave the dialog hidden")
	}
}

func TestQuickSaveOfInitIsRejected(t *testing.T) {
	f := newFixture(t, patch.NewInit())
	if err := f.dlg.DoQuickSave(); !errors.Is(err, ErrReservedName) {
		t.Fatalf("err = %v", err)
	}
	if f.dlg.Visible() {
		t.Fatalf("hidden dialog should stay hidden")
	}
}

func TestCancelLeavesProgramUntouched(t *testing.T) {
	prog := patch.New("Same")
	f := newFixture(t, prog)
	f.edit(t, func(form *Form) { form.Name = "Different" })
	f.dlg.Cancel()

	if prog.Name() != "Same" || f.dlg.Visible() {
		t.Fatalf("name=%q visible=%v", prog.Name(), f.dlg.Visible())
	}
	if len(f.saver.paths) != 0 {
		t.Fatalf("cancel must not save")
	}
}

func TestSetFormIgnoredWhenHidden(t *testing.T) {
	f := newFixture(t, patch.New("A"))
	f.dlg.SetForm(Form{Name: "B", CategoryID: NoCategoryID})
	if f.dlg.Form().Name == "B" {
		t.Fatalf("form edited while hidden")
	}
}

func TestNoActiveProgram(t *testing.T) {
	f := newFixture(t, nil)
	f.dlg.ShowOver(vector.R(0, 0, 400, 400))
	f.edit(t, func(form *Form) { form.Name = "Lonely" })
	if err := f.dlg.DoSave(); err == nil {
		t.Fatalf("expected error without an active program")
	}
	if len(f.saver.paths) != 0 {
		t.Fatalf("no save expected")
	}
}

var _ Assets = (*skin.Cache)(nil)
