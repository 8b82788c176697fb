/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package savedialog

import "synthpatch/internal/patch"

// NoCategoryID selects "no category". Real categories use ids 1..n in list order.
const (
	NoCategoryID    = 1000
	NoCategoryLabel = "None"
)

// Preferences remembers the author and license of the last save.
type Preferences interface {
	LastAuthor() string
	SetLastAuthor(string)
	LastLicense() string
	SetLastLicense(string)
}

// Form holds the editable patch metadata.
type Form struct {
	Name       string
	Author     string
	License    string
	Project    string
	CategoryID int
}

// CategoryItem is one entry of the category menu.
type CategoryItem struct {
	ID    int
	Label string
}

// CategoryItems returns the menu entries: the sentinel first, then the categories.
func CategoryItems(categories []string) []CategoryItem {
	items := make([]CategoryItem, 0, len(categories)+1)
	items = append(items, CategoryItem{ID: NoCategoryID, Label: NoCategoryLabel})
	for i, c := range categories {
		items = append(items, CategoryItem{ID: i + 1, Label: c})
	}
	return items
}

// CategoryLabel returns the category for id. The sentinel and unknown ids report false.
func CategoryLabel(categories []string, id int) (string, bool) {
	if id < 1 || id > len(categories) {
		return "", false
	}
	return categories[id-1], true
}

// CategoryID returns the id of the first category equal to label (case-sensitive),
// or NoCategoryID.
func CategoryID(categories []string, label string) int {
	for i, c := range categories {
		if c == label {
			return i + 1
		}
	}
	return NoCategoryID
}

// CategoryText is the menu text of the current selection.
func (f Form) CategoryText(categories []string) string {
	if l, ok := CategoryLabel(categories, f.CategoryID); ok {
		return l
	}
	return NoCategoryLabel
}

// Populate fills the form from the program. Author and license fall back to the
// remembered values when the program has none.
func (f *Form) Populate(p *patch.Program, prefs Preferences, categories []string) {
	f.Name = p.Name()
	f.Project = p.Project()

	f.Author = p.Author()
	if f.Author == "" && prefs != nil {
		f.Author = prefs.LastAuthor()
	}
	f.License = p.License()
	if f.License == "" && prefs != nil {
		f.License = prefs.LastLicense()
	}

	f.CategoryID = NoCategoryID
	if cat := p.Category(); cat != "" {
		f.CategoryID = CategoryID(categories, cat)
	}
}

// Commit writes the form into the program. The sentinel is stored as "".
func (f Form) Commit(p *patch.Program, categories []string) {
	p.SetName(f.Name)
	p.SetAuthor(f.Author)
	p.SetLicense(f.License)
	label, _ := CategoryLabel(categories, f.CategoryID)
	p.SetCategory(label)
	p.SetProject(f.Project)
}
