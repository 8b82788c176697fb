/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package patch defines the synthesizer program (patch) model, the category
// list and the .fxp file codec.
package patch

import "sort"

// InitName is the name of the uninitialised default program. It is reserved
// for internal use and never user-savable.
const InitName = "Init"

// FileExt is the on-disk extension of a single-program patch file.
const FileExt = ".fxp"

var defaultCategories = []string{
	"Arp", "Bass", "Brass", "Drums", "FX", "Keys", "Lead",
	"Mono", "Pad", "Perc", "Poly", "Seq", "Strings",
}

// AvailableCategories returns the ordered category list. The order is stable
// for the lifetime of the process; callers receive a copy.
func AvailableCategories() []string {
	return append([]string(nil), defaultCategories...)
}

// Program is a named set of parameter values plus descriptive metadata.
type Program struct {
	name     string
	author   string
	license  string
	project  string
	category string
	params   map[string]float64
}

// NewInit returns a program carrying the reserved init name and no metadata.
func NewInit() *Program {
	return &Program{name: InitName, params: map[string]float64{}}
}

// New returns an empty program with the given name.
func New(name string) *Program {
	return &Program{name: name, params: map[string]float64{}}
}

func (p *Program) Name() string     { return p.name }
func (p *Program) Author() string   { return p.author }
func (p *Program) License() string  { return p.license }
func (p *Program) Project() string  { return p.project }
func (p *Program) Category() string { return p.category }

func (p *Program) SetName(v string)     { p.name = v }
func (p *Program) SetAuthor(v string)   { p.author = v }
func (p *Program) SetLicense(v string)  { p.license = v }
func (p *Program) SetProject(v string)  { p.project = v }
func (p *Program) SetCategory(v string) { p.category = v }

// Param returns a parameter value and whether it is set.
func (p *Program) Param(id string) (float64, bool) {
	v, ok := p.params[id]
	return v, ok
}

func (p *Program) SetParam(id string, v float64) {
	if p.params == nil {
		p.params = map[string]float64{}
	}
	p.params[id] = v
}

// ParamIDs returns the parameter ids in sorted order.
func (p *Program) ParamIDs() []string {
	ids := make([]string, 0, len(p.params))
	for id := range p.params {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Clone returns a deep copy.
func (p *Program) Clone() *Program {
	c := *p
	c.params = make(map[string]float64, len(p.params))
	for k, v := range p.params {
		c.params[k] = v
	}
	return &c
}

// Metadata is a comparable snapshot of the descriptive fields.
type Metadata struct {
	Name, Author, License, Project, Category string
}

func (p *Program) Metadata() Metadata {
	return Metadata{Name: p.name, Author: p.author, License: p.license, Project: p.project, Category: p.category}
}
