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
	"testing"
)

func TestCatalogRecordAndLookup(t *testing.T) {
	root := t.TempDir()
	c, err := OpenCatalog(root)
	if err != nil {
		t.Fatalf("OpenCatalog: %v", err)
	}
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	first, err := c.Record(ctx, Entry{Name: "Saw", Category: "Lead", Path: root + "/Lead/Saw.fxp"})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if first.ID == "" {
		t.Fatalf("expected generated id")
	}
	second, err := c.Record(ctx, Entry{Name: "Saw", Author: "me", Category: "Lead", Path: root + "/Lead/Saw.fxp"})
	if err != nil {
		t.Fatalf("Record again: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("re-saving a path must keep its id: %s vs %s", second.ID, first.ID)
	}
	n, err := c.Count(ctx)
	if err != nil || n != 1 {
		t.Fatalf("Count = %d, %v; want 1", n, err)
	}
	got, err := c.EntryByPath(ctx, root+"/Lead/Saw.fxp")
	if err != nil {
		t.Fatalf("EntryByPath: %v", err)
	}
	if got.Author != "me" || got.SavedAt.IsZero() {
		t.Fatalf("unexpected entry: %+v", got)
	}
	if _, err := c.EntryByPath(ctx, "/nope.fxp"); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected ErrNoRows, got %v", err)
	}
}

func TestCatalogLastLoadedSurvivesReopen(t *testing.T) {
	root := t.TempDir()
	ctx := context.Background()
	c, err := OpenCatalog(root)
	if err != nil {
		t.Fatalf("OpenCatalog: %v", err)
	}
	if v, err := c.LastLoaded(ctx); err != nil || v != "" {
		t.Fatalf("fresh LastLoaded = %q, %v", v, err)
	}
	if err := c.SetLastLoaded(ctx, "Brassy"); err != nil {
		t.Fatalf("SetLastLoaded: %v", err)
	}
	_ = c.Close()

	c2, err := OpenCatalog(root)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = c2.Close() }()
	if v, err := c2.LastLoaded(ctx); err != nil || v != "Brassy" {
		t.Fatalf("LastLoaded after reopen = %q, %v", v, err)
	}
	var schema int
	if err := c2.db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&schema); err != nil {
		t.Fatalf("read schema: %v", err)
	}
	if schema != catalogSchemaVersion {
		t.Fatalf("schema = %d, want %d", schema, catalogSchemaVersion)
	}
}

func TestOpenCatalogRequiresRoot(t *testing.T) {
	if _, err := OpenCatalog("  "); err == nil {
		t.Fatalf("expected error for blank root")
	}
}
