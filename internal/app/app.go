/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package app wires configuration, the session, the active skin and the save
// dialog together for the CLI and the desktop front-end.
package app

import (
	"errors"
	"fmt"
	"log/slog"

	"synthpatch/internal/config"
	applog "synthpatch/internal/log"
	"synthpatch/internal/savedialog"
	"synthpatch/internal/session"
	"synthpatch/internal/skin"
)

// Options override configuration values when non-zero.
type Options struct {
	PatchRoot string
	Skin      string
	Scale     float64
}

// Env is an opened application environment. Close it when done.
type Env struct {
	Prefs   *config.Store
	Session *session.Session
	Skin    *skin.Skin
	Scale   float64
	log     *slog.Logger
}

// Open loads the configuration, opens the patch library and loads the skin.
// A skin that fails to load is logged and replaced by the built-in one.
func Open(opts Options) (*Env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if opts.PatchRoot != "" {
		cfg.Patches.Root = opts.PatchRoot
	}
	if opts.Skin != "" {
		cfg.UI.Skin = opts.Skin
	}
	if opts.Scale > 0 {
		cfg.UI.Scale = opts.Scale
	}
	if cfg.Patches.Root == "" {
		return nil, errors.New("no patch root configured")
	}
	l := applog.WithComponent("app")

	s, err := session.Open(cfg.Patches.Root)
	if err != nil {
		return nil, err
	}
	env := &Env{
		Prefs:   config.NewStore(cfg),
		Session: s,
		Skin:    skin.Builtin(),
		Scale:   cfg.UI.Scale,
		log:     l,
	}
	if cfg.UI.Skin != "" {
		if err := env.LoadSkin(cfg.UI.Skin); err != nil {
			l.Warn("Skin not loaded, using built-in assets", slog.String("skin", cfg.UI.Skin), slog.Any("err", err))
		}
	}
	return env, nil
}

// Close releases the session.
func (e *Env) Close() error { return e.Session.Close() }

// LoadSkin replaces the active skin.
func (e *Env) LoadSkin(src string) error {
	sk, err := skin.Load(src)
	if err != nil {
		return fmt.Errorf("load skin: %w", err)
	}
	e.Skin = sk
	return nil
}

// NewDialog builds a save dialog bound to the environment's session and skin.
func (e *Env) NewDialog(alerts savedialog.Alerter) (*savedialog.Dialog, error) {
	dlg, err := savedialog.New(savedialog.Deps{
		Session:    e.Session,
		Saver:      e.Session,
		Prefs:      e.Prefs,
		Assets:     e.Skin.Assets,
		Alerts:     alerts,
		PatchRoot:  e.Session.PatchRoot,
		Scale:      func() float64 { return e.Scale },
		Categories: e.Session.Categories(),
		Logger:     applog.WithComponent("savedialog"),
	})
	if err != nil {
		return nil, err
	}
	dlg.ApplySkin(e.Skin.Bounds, nil)
	return dlg, nil
}
