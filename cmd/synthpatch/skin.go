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
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"synthpatch/internal/config"
	"synthpatch/internal/skin"
)

func defaultSkinsDir() (string, error) {
	p, err := config.ConfigPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(p), "skins"), nil
}

func newSkinCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "skin",
		Short: "Inspect, install and export skins",
	}

	var dir string
	install := &cobra.Command{
		Use:   "install <pack.zip>",
		Short: "Install a skin pack into the skins directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				d, err := defaultSkinsDir()
				if err != nil {
					return err
				}
				dir = d
			}
			target, n, err := skin.InstallPack(dir, args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Installed %d file(s) into %s\n", n, target)
			return nil
		},
	}
	install.Flags().StringVar(&dir, "dir", "", "skins directory (default next to the config file)")

	export := &cobra.Command{
		Use:   "export <skin-dir> <pack.zip>",
		Short: "Export a skin directory as a zip pack",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := skin.ExportPack(args[0], args[1]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", args[0], args[1])
			return nil
		},
	}

	check := &cobra.Command{
		Use:   "check <skin>",
		Short: "Validate a skin and list its bounds overrides",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sk, err := skin.Load(args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "%s by %s: %d bounds, %d assets\n", sk.Name, sk.Author, len(sk.Bounds), sk.Assets.Len())
			keys := make([]string, 0, len(sk.Bounds))
			for k := range sk.Bounds {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				r := sk.Bounds[k]
				_, _ = fmt.Fprintf(w, "  %-24s %d,%d %dx%d\n", k, r.X, r.Y, r.W, r.H)
			}
			return nil
		},
	}

	cmd.AddCommand(install, export, check)
	return cmd
}
