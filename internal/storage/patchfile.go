/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"synthpatch/internal/patch"
)

// BackupsDirName is created next to a patch file the first time it is overwritten.
const BackupsDirName = ".backups"

// SavePatch writes p to path as an .fxp file. Missing directories are created.
// If path already exists, the previous file is copied into <dir>/.backups first.
func SavePatch(path string, p *patch.Program) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("patch path is required")
	}
	if p == nil {
		return errors.New("nil program")
	}
	var buf bytes.Buffer
	if err := patch.Encode(&buf, p); err != nil {
		return fmt.Errorf("encode patch: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create patch dir: %w", err)
	}

	if _, statErr := os.Stat(path); statErr == nil {
		stamp := time.Now().Format("20060102-150405")
		bpath := filepath.Join(dir, BackupsDirName, fmt.Sprintf("%s.%s.bak", filepath.Base(path), stamp))
		if err := copyFile(path, bpath); err != nil {
			return fmt.Errorf("backup existing patch: %w", err)
		}
	}

	temp := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%d-%d", filepath.Base(path), os.Getpid(), rand.Int()))
	if err := writeFileSync(temp, buf.Bytes()); err != nil {
		_ = os.Remove(temp)
		return fmt.Errorf("write temp patch: %w", err)
	}
	// Windows cannot rename over an existing file.
	if _, err := os.Stat(path); err == nil {
		_ = os.Remove(path)
	}
	if err := os.Rename(temp, path); err != nil {
		_ = os.Remove(temp)
		return fmt.Errorf("replace patch: %w", err)
	}
	return nil
}

// AutosaveCrashSnapshot writes p to <root>/.backups/crash-<stamp>-<name>.fxp
// without touching the program's own file.
func AutosaveCrashSnapshot(root string, p *patch.Program) (string, error) {
	if p == nil {
		return "", errors.New("nil program")
	}
	name := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == ':' {
			return '_'
		}
		return r
	}, p.Name())
	stamp := time.Now().Format("20060102-150405")
	path := filepath.Join(root, BackupsDirName, fmt.Sprintf("crash-%s-%s%s", stamp, name, patch.FileExt))
	if err := SavePatch(path, p); err != nil {
		return "", err
	}
	return path, nil
}

// LoadPatch reads an .fxp file written by SavePatch.
func LoadPatch(path string) (*patch.Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open patch: %w", err)
	}
	defer func() { _ = f.Close() }()
	p, err := patch.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return p, nil
}

// writeFileSync writes data to a file and flushes it to disk.
func writeFileSync(path string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := f.Write(data); err != nil {
		return err
	}
	return f.Sync()
}

func copyFile(src, dst string) (err error) {
	sf, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = sf.Close() }()
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	df, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := df.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := io.Copy(df, sf); err != nil {
		return err
	}
	return df.Sync()
}
