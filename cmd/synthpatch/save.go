/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"synthpatch/internal/app"
	"synthpatch/internal/crash"
	"synthpatch/internal/patch"
	"synthpatch/internal/savedialog"
	"synthpatch/internal/vector"
)

type saveFlags struct {
	from     string
	name     string
	author   string
	license  string
	project  string
	category string
	quick    bool
}

func newSaveCmd(rf *rootFlags) *cobra.Command {
	f := &saveFlags{}
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save a patch into the library",
		Long: `Save a patch into the library through the save dialog's validation.

The program starts from --from (an .fxp file) or the init program. Flags that
are given replace its metadata; --quick keeps the metadata as loaded.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := app.Open(rf.options())
			if err != nil {
				return err
			}
			defer func() { _ = env.Close() }()
			defer crash.Recover(env.Session)

			if f.from != "" {
				if err := env.Session.LoadPatch(f.from); err != nil {
					return err
				}
			} else {
				env.Session.SetActiveProgram(patch.NewInit())
			}

			dlg, err := env.NewDialog(stderrAlerts(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			if f.quick {
				return report(cmd, env, dlg, dlg.DoQuickSave())
			}

			dlg.ShowOver(vector.R(0, 0, 800, 600))
			form := dlg.Form()
			set := cmd.Flags().Changed
			if set("name") {
				form.Name = f.name
			}
			if set("author") {
				form.Author = f.author
			}
			if set("license") {
				form.License = f.license
			}
			if set("project") {
				form.Project = f.project
			}
			if set("category") {
				id := savedialog.NoCategoryID
				if f.category != "" && f.category != savedialog.NoCategoryLabel {
					id = savedialog.CategoryID(dlg.Categories(), f.category)
					if id == savedialog.NoCategoryID {
						dlg.Cancel()
						return fmt.Errorf("unknown category %q (available: %v)", f.category, dlg.Categories())
					}
				}
				form.CategoryID = id
			}
			dlg.SetForm(form)
			return report(cmd, env, dlg, dlg.DoSave())
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.from, "from", "", "start from this .fxp file")
	fl.StringVar(&f.name, "name", "", "patch name")
	fl.StringVar(&f.author, "author", "", "author (default: last used)")
	fl.StringVar(&f.license, "license", "", "license (default: last used)")
	fl.StringVar(&f.project, "project", "", "project folder; takes precedence over the category")
	fl.StringVar(&f.category, "category", "", "category, or \"None\"")
	fl.BoolVar(&f.quick, "quick", false, "save with the loaded metadata")
	return cmd
}

func report(cmd *cobra.Command, env *app.Env, dlg *savedialog.Dialog, err error) error {
	if err != nil {
		return err
	}
	path, _ := savedialog.ResolvePath(env.Session.PatchRoot(), dlg.Form(), dlg.Categories())
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Saved %q to %s\n", env.Session.ActiveProgram().Name(), path)
	return nil
}
