/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func useTempConfig(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv(EnvConfigPath, p)
	for _, k := range []string{EnvPatchRoot, EnvScale, EnvSkin, EnvLogLevel, EnvLogFormat, EnvLogSource, EnvLogFile} {
		t.Setenv(k, "")
	}
	return p
}

func TestLoadWithoutFileReturnsDefaults(t *testing.T) {
	useTempConfig(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.UI.Scale != 1.0 || cfg.Patches.Root == "" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadMergesFileAndEnv(t *testing.T) {
	p := useTempConfig(t)
	yml := "patches:\n  root: /data/patches\nprefs:\n  last_author: ana\n  last_license: CC0\nui:\n  scale: 1.5\n"
	if err := os.WriteFile(p, []byte(yml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvScale, "2")
	t.Setenv(EnvSkin, "/skins/dark")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Patches.Root != "/data/patches" {
		t.Fatalf("Patches.Root = %q", cfg.Patches.Root)
	}
	if cfg.Prefs.LastAuthor != "ana" || cfg.Prefs.LastLicense != "CC0" {
		t.Fatalf("prefs not merged: %+v", cfg.Prefs)
	}
	if cfg.UI.Scale != 2 || cfg.UI.Skin != "/skins/dark" {
		t.Fatalf("env overrides not applied: %+v", cfg.UI)
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	p := useTempConfig(t)
	if err := os.WriteFile(p, []byte("ui: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestInvalidScaleEnvIsIgnored(t *testing.T) {
	useTempConfig(t)
	t.Setenv(EnvScale, "-3")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.UI.Scale != 1.0 {
		t.Fatalf("negative scale should be ignored, got %v", cfg.UI.Scale)
	}
}

func TestMergeIncludesLogging(t *testing.T) {
	dst := Defaults()
	src := Defaults()
	src.Logging.Level = "DEBUG"
	src.Logging.Format = "json"
	src.Logging.Source = true
	src.Logging.File = "/tmp/synthpatch.log"
	mergeInto(&dst, &src)
	if dst.Logging.Level != "debug" || dst.Logging.Format != "json" || !dst.Logging.Source || dst.Logging.File != "/tmp/synthpatch.log" {
		t.Fatalf("logging fields not merged correctly: %#v", dst.Logging)
	}
}

func TestStorePersistsRememberedValues(t *testing.T) {
	useTempConfig(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	s := NewStore(cfg)
	s.SetLastAuthor("bo")
	s.SetLastLicense("GPL-3.0")
	if s.LastAuthor() != "bo" || s.LastLicense() != "GPL-3.0" {
		t.Fatalf("in-memory values not updated")
	}

	reloaded, err := Load()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Prefs.LastAuthor != "bo" || reloaded.Prefs.LastLicense != "GPL-3.0" {
		t.Fatalf("values not persisted: %+v", reloaded.Prefs)
	}
}

func TestStoreDoesNotPersistOverrides(t *testing.T) {
	useTempConfig(t)
	t.Setenv(EnvPatchRoot, filepath.Join(t.TempDir(), "oneoff"))
	t.Setenv(EnvScale, "3")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	cfg.UI.Skin = "/tmp/skin-for-this-run"
	s := NewStore(cfg)
	s.SetLastAuthor("Ann")
	if s.Config().UI.Scale != 3 {
		t.Fatalf("effective scale lost: %v", s.Config().UI.Scale)
	}

	t.Setenv(EnvPatchRoot, "")
	t.Setenv(EnvScale, "")
	reloaded, err := Load()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	def := Defaults()
	if reloaded.Patches.Root != def.Patches.Root || reloaded.UI.Scale != def.UI.Scale || reloaded.UI.Skin != "" {
		t.Fatalf("overrides persisted: root=%q scale=%v skin=%q", reloaded.Patches.Root, reloaded.UI.Scale, reloaded.UI.Skin)
	}
	if reloaded.Prefs.LastAuthor != "Ann" {
		t.Fatalf("author not persisted: %q", reloaded.Prefs.LastAuthor)
	}
}

func TestStoreKeepsOtherFileValues(t *testing.T) {
	p := useTempConfig(t)
	if err := os.WriteFile(p, []byte("ui:\n  scale: 2\nprefs:\n  last_license: MIT\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	NewStore(cfg).SetLastAuthor("Kim")

	reloaded, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.UI.Scale != 2 || reloaded.Prefs.LastLicense != "MIT" || reloaded.Prefs.LastAuthor != "Kim" {
		t.Fatalf("reloaded = %+v", reloaded)
	}
}
