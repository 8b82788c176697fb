/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package config loads and persists the user configuration: patch library location,
// display scale, skin selection, logging and the remembered author/license used to
// prefill the save dialog. The file is YAML; environment variables override it at runtime.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	applog "synthpatch/internal/log"
)

type PatchesConfig struct {
	Root string `yaml:"root"`
}

// PrefsConfig holds values remembered between save operations.
type PrefsConfig struct {
	LastAuthor  string `yaml:"last_author"`
	LastLicense string `yaml:"last_license"`
}

type UIConfig struct {
	Scale float64 `yaml:"scale"`
	Skin  string  `yaml:"skin"` // skin directory or .zip; empty uses built-in assets
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	Patches       PatchesConfig `yaml:"patches"`
	Prefs         PrefsConfig   `yaml:"prefs"`
	UI            UIConfig      `yaml:"ui"`
	Logging       LoggingConfig `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		Patches:       PatchesConfig{Root: defaultPatchRoot()},
		UI:            UIConfig{Scale: 1.0},
		Logging:       LoggingConfig{Level: "info", Format: "console"},
	}
}

// Env var names used as overrides.
const (
	EnvConfigPath = "SYNTHPATCH_CONFIG"
	EnvPatchRoot  = "SYNTHPATCH_PATCH_ROOT"
	EnvScale      = "SYNTHPATCH_SCALE"
	EnvSkin       = "SYNTHPATCH_SKIN"
	EnvLogLevel   = applog.EnvLevel
	EnvLogFormat  = applog.EnvFormat
	EnvLogSource  = applog.EnvSource
	EnvLogFile    = applog.EnvFile
)

func homeDir() string {
	if h, err := os.UserHomeDir(); err == nil {
		return h
	}
	return os.Getenv("HOME")
}

func defaultPatchRoot() string {
	return filepath.Join(homeDir(), "Documents", "synthpatch", "Patches")
}

// ConfigPath returns the per-user config file path (SYNTHPATCH_CONFIG wins).
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p, nil
	}
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "synthpatch")
	case "darwin":
		base = filepath.Join(homeDir(), "Library", "Application Support", "synthpatch")
	default:
		base = filepath.Join(homeDir(), ".config", "synthpatch")
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults and merges env overrides.
// A missing file is not an error; a malformed one is.
func Load() (AppConfig, error) {
	cfg, err := loadFile()
	if err != nil {
		return cfg, err
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// loadFile returns defaults merged with the config file, without env overrides.
func loadFile() (AppConfig, error) {
	cfg := Defaults()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
		mergeInto(&cfg, &fileCfg)
	case !errors.Is(err, os.ErrNotExist):
		return cfg, fmt.Errorf("read %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config YAML, creating the directory if needed.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if v := strings.TrimSpace(src.Patches.Root); v != "" {
		dst.Patches.Root = v
	}
	// remembered values may legitimately be cleared, copy as-is
	dst.Prefs = src.Prefs
	if src.UI.Scale > 0 {
		dst.UI.Scale = src.UI.Scale
	}
	if v := strings.TrimSpace(src.UI.Skin); v != "" {
		dst.UI.Skin = v
	}
	if v := strings.TrimSpace(src.Logging.Level); v != "" {
		dst.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(src.Logging.Format); v != "" {
		dst.Logging.Format = strings.ToLower(v)
	}
	dst.Logging.Source = src.Logging.Source
	if v := strings.TrimSpace(src.Logging.File); v != "" {
		dst.Logging.File = v
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvPatchRoot)); v != "" {
		cfg.Patches.Root = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvScale)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.UI.Scale = f
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvSkin)); v != "" {
		cfg.UI.Skin = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		lv := strings.ToLower(v)
		cfg.Logging.Source = lv == "1" || lv == "true" || lv == "on" || lv == "yes"
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

// LogOptions converts the logging section for applog.Init.
func (c AppConfig) LogOptions() applog.Options {
	return applog.Options{Level: c.Logging.Level, Format: c.Logging.Format, AddSource: c.Logging.Source, File: c.Logging.File}
}

// Store is the persisted preferences handle. It keeps the effective config in
// memory; a changed remembered value is written into the config file as found on
// disk, so env and command line overrides of the running session never persist.
// Write failures are logged; the in-memory value is still updated.
type Store struct {
	mu  sync.Mutex
	cfg AppConfig
	log *slog.Logger
}

func NewStore(cfg AppConfig) *Store {
	return &Store{cfg: cfg, log: applog.WithComponent("config")}
}

// Config returns a copy of the current configuration.
func (s *Store) Config() AppConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

func (s *Store) LastAuthor() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.Prefs.LastAuthor
}

func (s *Store) LastLicense() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.Prefs.LastLicense
}

func (s *Store) SetLastAuthor(v string) {
	s.update(func(c *AppConfig) { c.Prefs.LastAuthor = v })
}

func (s *Store) SetLastLicense(v string) {
	s.update(func(c *AppConfig) { c.Prefs.LastLicense = v })
}

func (s *Store) update(fn func(*AppConfig)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.cfg)
	onDisk, err := loadFile()
	if err != nil {
		s.log.Warn("persist preferences skipped", slog.Any("err", err))
		return
	}
	fn(&onDisk)
	if err := Save(onDisk); err != nil {
		s.log.Warn("persist preferences failed", slog.Any("err", err))
	}
}
