/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package skin

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	applog "synthpatch/internal/log"
)

const manifestName = "skin.manifest.txt"

// ExportPack zips the skin directory skinDir into destZip. A short manifest is
// added at the archive root; the directory must contain a description file.
func ExportPack(skinDir, destZip string) error {
	l := applog.WithOperation(applog.WithComponent("skin"), "export").With(slog.String("skin", skinDir))
	if strings.TrimSpace(skinDir) == "" || strings.TrimSpace(destZip) == "" {
		return errors.New("skin directory and destination are required")
	}
	if descriptionName(os.DirFS(skinDir), ".") == "" {
		return ErrNoDescription
	}
	if err := os.MkdirAll(filepath.Dir(destZip), 0o755); err != nil {
		return fmt.Errorf("ensure zip dir: %w", err)
	}
	_ = os.Remove(destZip)

	zf, err := os.Create(destZip)
	if err != nil {
		return fmt.Errorf("create zip: %w", err)
	}
	defer func() { _ = zf.Close() }()
	zw := zip.NewWriter(zf)

	manifest := fmt.Sprintf("synthpatch skin\nCreated: %s\nSource: %s\n", time.Now().Format(time.RFC3339), filepath.Base(skinDir))
	w, err := zw.Create(manifestName)
	if err != nil {
		return fmt.Errorf("add manifest: %w", err)
	}
	if _, err := io.WriteString(w, manifest); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	added := 0
	err = filepath.WalkDir(skinDir, func(p string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(skinDir, p)
		if err != nil {
			return err
		}
		fw, err := zw.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		f, err := os.Open(p)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		if _, err := io.Copy(fw, f); err != nil {
			return err
		}
		added++
		return nil
	})
	if err != nil {
		l.Error("zip build failed", slog.Any("err", err))
		return fmt.Errorf("build zip: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finish zip: %w", err)
	}
	l.Info("skin exported", slog.Int("files", added), slog.String("zip", destZip))
	return nil
}

// InstallPack extracts packZip into skinsDir/<pack name>/ and returns that
// directory and the number of files written. Files that already exist are
// skipped; entries escaping the target directory are rejected.
func InstallPack(skinsDir, packZip string) (string, int, error) {
	l := applog.WithOperation(applog.WithComponent("skin"), "install").With(slog.String("pack", packZip))
	if strings.TrimSpace(skinsDir) == "" || strings.TrimSpace(packZip) == "" {
		return "", 0, errors.New("skins directory and pack are required")
	}
	// validate before touching the filesystem
	if _, err := Load(packZip); err != nil {
		return "", 0, fmt.Errorf("invalid skin pack: %w", err)
	}

	r, err := zip.OpenReader(packZip)
	if err != nil {
		return "", 0, fmt.Errorf("open pack: %w", err)
	}
	defer func() { _ = r.Close() }()

	target := filepath.Join(skinsDir, strings.TrimSuffix(filepath.Base(packZip), filepath.Ext(packZip)))
	if err := os.MkdirAll(target, 0o755); err != nil {
		return "", 0, fmt.Errorf("ensure skin dir: %w", err)
	}

	installed := 0
	for _, f := range r.File {
		if f.Name == manifestName {
			continue
		}
		dest := filepath.Join(target, filepath.FromSlash(f.Name))
		if !strings.HasPrefix(dest, filepath.Clean(target)+string(os.PathSeparator)) {
			return target, installed, fmt.Errorf("illegal path in pack: %s", f.Name)
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(dest, 0o755); err != nil {
				return target, installed, err
			}
			continue
		}
		if _, err := os.Stat(dest); err == nil {
			l.Warn("skip existing file", slog.String("path", dest))
			continue
		}
		if err := extractFile(f, dest); err != nil {
			return target, installed, err
		}
		installed++
	}
	l.Info("skin installed", slog.Int("files", installed), slog.String("dir", target))
	return target, installed, nil
}

func extractFile(f *zip.File, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer func() { _ = rc.Close() }()
	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
