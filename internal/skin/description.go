/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package skin

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/muhammadmuzzammil1998/jsonc"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"synthpatch/internal/vector"
)

// Description file names, in lookup order.
var descriptionFiles = []string{"skin.yaml", "skin.yml", "skin.jsonc", "skin.json"}

var ErrNoDescription = errors.New("skin description (skin.yaml or skin.jsonc) not found")

//go:embed schema.json
var schemaJSON []byte

var schema = mustSchema()

func mustSchema() *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
	if err != nil {
		panic(fmt.Sprintf("skin schema: %v", err))
	}
	return s
}

// RectSpec is a rectangle as written in a description file.
type RectSpec struct {
	X int `yaml:"x" json:"x"`
	Y int `yaml:"y" json:"y"`
	W int `yaml:"w" json:"w"`
	H int `yaml:"h" json:"h"`
}

// Description is the decoded skin description file.
type Description struct {
	Name     string              `yaml:"name" json:"name"`
	Author   string              `yaml:"author" json:"author"`
	Controls map[string]RectSpec `yaml:"bounds" json:"bounds"`
}

// Bounds converts the control rectangles into a bounds map.
func (d Description) Bounds() Bounds {
	b := make(Bounds, len(d.Controls))
	for k, r := range d.Controls {
		b[k] = vector.R(r.X, r.Y, r.W, r.H)
	}
	return b
}

func descriptionName(fsys fs.FS, dir string) string {
	for _, n := range descriptionFiles {
		if _, err := fs.Stat(fsys, path.Join(dir, n)); err == nil {
			return n
		}
	}
	return ""
}

func readDescription(fsys fs.FS) (Description, error) {
	name := descriptionName(fsys, ".")
	if name == "" {
		return Description{}, ErrNoDescription
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return Description{}, fmt.Errorf("read %s: %w", name, err)
	}
	return ParseDescription(name, data)
}

// ParseDescription decodes a skin description. The format is chosen by file
// extension (YAML, or JSON with comments) and the document is validated
// against the embedded schema before it is decoded.
func ParseDescription(name string, data []byte) (Description, error) {
	var d Description
	var generic any
	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &generic); err != nil {
			return d, fmt.Errorf("parse %s: %w", name, err)
		}
		if err := validate(name, generic); err != nil {
			return d, err
		}
		if err := yaml.Unmarshal(data, &d); err != nil {
			return d, fmt.Errorf("decode %s: %w", name, err)
		}
	case ".jsonc", ".json":
		plain := jsonc.ToJSON(data)
		if err := json.Unmarshal(plain, &generic); err != nil {
			return d, fmt.Errorf("parse %s: %w", name, err)
		}
		if err := validate(name, generic); err != nil {
			return d, err
		}
		if err := json.Unmarshal(plain, &d); err != nil {
			return d, fmt.Errorf("decode %s: %w", name, err)
		}
	default:
		return d, fmt.Errorf("unsupported description format %q", name)
	}
	return d, nil
}

// ValidationError lists every schema violation of a description.
type ValidationError struct {
	File   string
	Issues []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.File, strings.Join(e.Issues, "; "))
}

func validate(name string, doc any) error {
	if doc == nil {
		// an empty file is an empty description
		return nil
	}
	res, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("validate %s: %w", name, err)
	}
	if res.Valid() {
		return nil
	}
	verr := &ValidationError{File: name}
	for _, e := range res.Errors() {
		verr.Issues = append(verr.Issues, e.String())
	}
	return verr
}
