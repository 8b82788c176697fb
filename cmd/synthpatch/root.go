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
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"synthpatch/internal/app"
	"synthpatch/internal/config"
	applog "synthpatch/internal/log"
	"synthpatch/internal/savedialog"
	"synthpatch/internal/ui"
	"synthpatch/internal/version"
)

// rootFlags are shared by every command that opens the patch library.
type rootFlags struct {
	patchRoot string
	skin      string
	scale     float64
}

func (f *rootFlags) options() app.Options {
	return app.Options{PatchRoot: f.patchRoot, Skin: f.skin, Scale: f.scale}
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:   "synthpatch",
		Short: "Save, preview and skin synthesizer patches",
		Long: `synthpatch - the patch save dialog of a synthesizer, usable from the command line
or as a desktop window.

Patches are written as .fxp files under the patch library root, sorted into
project or category folders.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			opts := applog.FromEnv()
			if cfg, err := config.Load(); err == nil {
				opts = cfg.LogOptions()
			}
			applog.Init(opts)
			applog.WithComponent("cli").Debug("start", slog.String("cmd", cmd.CommandPath()))
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&flags.patchRoot, "patch-root", "", "patch library root (default from config)")
	pf.StringVar(&flags.skin, "skin", "", "skin directory or .zip (default from config)")
	pf.Float64Var(&flags.scale, "scale", 0, "display scale (default from config)")

	root.AddCommand(
		newVersionCmd(),
		newSaveCmd(flags),
		newRenderCmd(flags),
		newSkinCmd(),
		newUICmd(flags),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "synthpatch", version.String())
		},
	}
}

func newUICmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Launch the desktop UI (build with -tags fyne)",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return ui.Run(flags.options())
		},
	}
}

// stderrAlerts prints dialog alerts the way a modal box would show them.
func stderrAlerts(w io.Writer) savedialog.Alerter {
	return savedialog.AlertFunc(func(title, msg string) {
		_, _ = fmt.Fprintf(w, "%s: %s\n", title, msg)
	})
}
