/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	applog "synthpatch/internal/log"
	"synthpatch/internal/version"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

const (
	CatalogDirName  = ".synthpatch"
	CatalogFileName = "catalog.sqlite"

	// Bump when the schema changes and add a step to runMigrations.
	catalogSchemaVersion = 2

	metaLastLoaded = "last_loaded_program"
)

// Entry is one saved patch in the catalogue. Path is unique.
type Entry struct {
	ID       string
	Name     string
	Author   string
	License  string
	Project  string
	Category string
	Path     string
	SavedAt  time.Time
}

// Catalog is the SQLite-backed record of saved patches under one patch root.
type Catalog struct {
	db   *sql.DB
	root string
	log  *slog.Logger
}

// CatalogPath returns the catalogue file for a patch root.
func CatalogPath(root string) string {
	return filepath.Join(root, CatalogDirName, CatalogFileName)
}

// OpenCatalog creates or opens the catalogue for root, enables WAL and migrates the schema.
func OpenCatalog(root string) (*Catalog, error) {
	l := applog.WithOperation(applog.WithComponent("storage"), "catalog_open").With(slog.String("root", root))
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("patch root is required")
	}
	if err := os.MkdirAll(filepath.Join(root, CatalogDirName), 0o755); err != nil {
		l.Error("create catalog dir failed", slog.Any("err", err))
		return nil, fmt.Errorf("create catalog dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", filepath.ToSlash(CatalogPath(root)))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		l.Error("enable WAL failed", slog.Any("err", err))
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if err := ensureCatalogSchema(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure schema failed", slog.Any("err", err))
		return nil, err
	}
	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		l.Error("run migrations failed", slog.Any("err", err))
		return nil, err
	}
	l.Debug("catalog ready")
	return &Catalog{db: db, root: root, log: applog.WithComponent("catalog")}, nil
}

func (c *Catalog) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

func ensureCatalogSchema(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS version (
			id         INTEGER PRIMARY KEY CHECK(id=1),
			schema     INTEGER NOT NULL,
			app        TEXT,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS patches (
			id       TEXT PRIMARY KEY,
			path     TEXT NOT NULL UNIQUE,
			name     TEXT NOT NULL,
			author   TEXT,
			license  TEXT,
			project  TEXT,
			category TEXT,
			saved_at TEXT NOT NULL
		);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	now := time.Now().UTC().Format(time.RFC3339)
	var cur int
	err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&cur)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// fresh databases start at schema 1 and migrate forward
		if _, err := db.ExecContext(ctx, `INSERT INTO version (id, schema, app, updated_at) VALUES(1, 1, ?, ?)`, version.String(), now); err != nil {
			return fmt.Errorf("insert version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read version: %w", err)
	default:
		if _, err := db.ExecContext(ctx, `UPDATE version SET app=?, updated_at=? WHERE id=1`, version.String(), now); err != nil {
			return fmt.Errorf("update version: %w", err)
		}
	}
	return nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	var cur int
	if err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&cur); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	for cur < catalogSchemaVersion {
		next := cur + 1
		var stmts []string
		switch next {
		case 2:
			stmts = []string{
				`CREATE INDEX IF NOT EXISTS idx_patches_name ON patches(name);`,
				`CREATE INDEX IF NOT EXISTS idx_patches_project_category ON patches(project, category);`,
			}
		}
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", next, err)
		}
		for _, q := range stmts {
			if _, err := tx.ExecContext(ctx, q); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("migration %d: %w", next, err)
			}
		}
		if _, err := tx.ExecContext(ctx, `UPDATE version SET schema=?, updated_at=? WHERE id=1`, next, time.Now().UTC().Format(time.RFC3339)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d update version: %w", next, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("migration %d commit: %w", next, err)
		}
		cur = next
	}
	return nil
}

// Record inserts or updates the entry for e.Path and returns the stored entry.
// A new entry gets a random id; re-saving the same path keeps its id.
func (c *Catalog) Record(ctx context.Context, e Entry) (Entry, error) {
	if strings.TrimSpace(e.Path) == "" {
		return Entry{}, errors.New("entry path is required")
	}
	if e.SavedAt.IsZero() {
		e.SavedAt = time.Now()
	}
	if existing, err := c.EntryByPath(ctx, e.Path); err == nil {
		e.ID = existing.ID
	} else if !errors.Is(err, sql.ErrNoRows) {
		return Entry{}, err
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	_, err := c.db.ExecContext(ctx, `INSERT INTO patches (id, path, name, author, license, project, category, saved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			name=excluded.name, author=excluded.author, license=excluded.license,
			project=excluded.project, category=excluded.category, saved_at=excluded.saved_at`,
		e.ID, e.Path, e.Name, e.Author, e.License, e.Project, e.Category, e.SavedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return Entry{}, fmt.Errorf("record patch: %w", err)
	}
	c.log.DebugContext(ctx, "patch recorded", slog.String("id", e.ID), slog.String("path", e.Path))
	return e, nil
}

// EntryByPath returns sql.ErrNoRows (wrapped) when path is unknown.
func (c *Catalog) EntryByPath(ctx context.Context, path string) (Entry, error) {
	var e Entry
	var saved string
	err := c.db.QueryRowContext(ctx, `SELECT id, path, name, author, license, project, category, saved_at
		FROM patches WHERE path=?`, path).
		Scan(&e.ID, &e.Path, &e.Name, &e.Author, &e.License, &e.Project, &e.Category, &saved)
	if err != nil {
		return Entry{}, fmt.Errorf("lookup %s: %w", path, err)
	}
	e.SavedAt, _ = time.Parse(time.RFC3339Nano, saved)
	return e, nil
}

// Count returns the number of catalogued patches.
func (c *Catalog) Count(ctx context.Context) (int, error) {
	var n int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM patches`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count patches: %w", err)
	}
	return n, nil
}

// SetLastLoaded stores the name of the program the session considers loaded.
func (c *Catalog) SetLastLoaded(ctx context.Context, name string) error {
	_, err := c.db.ExecContext(ctx, `INSERT INTO meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value=excluded.value`, metaLastLoaded, name)
	if err != nil {
		return fmt.Errorf("set last loaded: %w", err)
	}
	return nil
}

// LastLoaded returns "" when nothing has been recorded yet.
func (c *Catalog) LastLoaded(ctx context.Context) (string, error) {
	var v string
	err := c.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key=?`, metaLastLoaded).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read last loaded: %w", err)
	}
	return v, nil
}
