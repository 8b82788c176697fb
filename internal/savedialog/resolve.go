/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package savedialog

import (
	"path/filepath"
	"strings"

	"synthpatch/internal/patch"
)

// ResolvePath validates the form and returns the destination file:
// root[/project | /category]/<name>.fxp. A non-empty project takes precedence
// over the category. Rejections are returned as *RejectionError.
func ResolvePath(root string, f Form, categories []string) (string, error) {
	dir := root
	if f.Project != "" {
		dir = filepath.Join(dir, f.Project)
	} else if label, ok := CategoryLabel(categories, f.CategoryID); ok {
		dir = filepath.Join(dir, label)
	}

	if f.Name == patch.InitName {
		return "", reservedName(f.Name)
	}

	path := filepath.Join(dir, f.Name+patch.FileExt)

	if f.Project != "" {
		for _, c := range categories {
			if strings.EqualFold(c, f.Project) {
				return "", projectConflict()
			}
		}
	}

	// Project and name are free text; "../" segments must not leave the root.
	if root != "" && !within(root, path) {
		return "", outsideRoot()
	}
	return path, nil
}

func within(root, path string) bool {
	rel, err := filepath.Rel(filepath.Clean(root), path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
