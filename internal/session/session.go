/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package session owns the active program, the patch library root and the
// catalogue of saved patches.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	applog "synthpatch/internal/log"
	"synthpatch/internal/patch"
	"synthpatch/internal/storage"
)

// Options configure a Session. Catalog may be nil.
type Options struct {
	Root       string
	Categories []string
	Catalog    *storage.Catalog
	Program    *patch.Program
	Timeout    time.Duration
}

// Session is the editing session of one synth instance.
type Session struct {
	mu         sync.Mutex
	root       string
	categories []string
	catalog    *storage.Catalog
	active     *patch.Program
	timeout    time.Duration
	log        *slog.Logger
}

// New returns a session. Without a program the init program is active.
func New(opts Options) (*Session, error) {
	if opts.Root == "" {
		return nil, errors.New("patch root is required")
	}
	cats := opts.Categories
	if cats == nil {
		cats = patch.AvailableCategories()
	}
	prog := opts.Program
	if prog == nil {
		prog = patch.NewInit()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Session{
		root:       opts.Root,
		categories: append([]string(nil), cats...),
		catalog:    opts.Catalog,
		active:     prog,
		timeout:    timeout,
		log:        applog.WithComponent("session").With(slog.String("root", opts.Root)),
	}, nil
}

// Open opens the catalogue under root and returns a session using it.
func Open(root string) (*Session, error) {
	cat, err := storage.OpenCatalog(root)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	s, err := New(Options{Root: root, Catalog: cat})
	if err != nil {
		_ = cat.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the catalogue.
func (s *Session) Close() error {
	if s.catalog == nil {
		return nil
	}
	return s.catalog.Close()
}

func (s *Session) PatchRoot() string { return s.root }

func (s *Session) Categories() []string { return append([]string(nil), s.categories...) }

func (s *Session) Catalog() *storage.Catalog { return s.catalog }

func (s *Session) ActiveProgram() *patch.Program {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

func (s *Session) SetActiveProgram(p *patch.Program) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = p
}

// SavePatch writes the active program to path and records it in the catalogue.
// A catalogue failure is logged but does not fail the save.
func (s *Session) SavePatch(path string) bool {
	l := applog.WithOperation(s.log, "save_patch").With(slog.String("path", path))
	p := s.ActiveProgram()
	if p == nil {
		l.Error("No active program")
		return false
	}
	if err := storage.SavePatch(path, p); err != nil {
		l.Error("Patch write failed", slog.Any("err", err))
		return false
	}
	if s.catalog != nil {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		md := p.Metadata()
		if _, err := s.catalog.Record(ctx, storage.Entry{
			Name: md.Name, Author: md.Author, License: md.License,
			Project: md.Project, Category: md.Category, Path: path,
		}); err != nil {
			l.Warn("Catalogue update failed", slog.Any("err", err))
		}
	}
	l.Info("Patch saved")
	return true
}

// LoadPatch reads path and makes it the active program.
func (s *Session) LoadPatch(path string) error {
	p, err := storage.LoadPatch(path)
	if err != nil {
		return err
	}
	s.SetActiveProgram(p)
	s.NotifyActiveProgramRenamed(p.Name(), true)
	return nil
}

// NotifyActiveProgramRenamed records name as the loaded program. With
// switchActive false only the active program's name changes.
func (s *Session) NotifyActiveProgramRenamed(name string, switchActive bool) {
	if p := s.ActiveProgram(); p != nil && p.Name() != name {
		p.SetName(name)
	}
	if !switchActive || s.catalog == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.catalog.SetLastLoaded(ctx, name); err != nil {
		s.log.Warn("Could not store last loaded program", slog.String("name", name), slog.Any("err", err))
	}
}

// LastLoaded returns the program name recorded by the last rename or load.
func (s *Session) LastLoaded(ctx context.Context) (string, error) {
	if s.catalog == nil {
		return "", nil
	}
	return s.catalog.LastLoaded(ctx)
}
