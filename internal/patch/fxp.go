/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package patch

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// FXP layout: VST2 fxProgram with an opaque chunk ("FPCh").
// All integers are big-endian.
const (
	chunkMagic   = "CcnK"
	opaqueMagic  = "FPCh"
	PluginID     = "SyPt"
	fxpVersion   = 1
	chunkVersion = 1
	nameLen      = 28
	headerLen    = 60
	maxChunkSize = 16 << 20
)

var (
	ErrNotFXP       = errors.New("not an fxp program file")
	ErrWrongPlugin  = errors.New("fxp belongs to another plugin")
	ErrChunkTooLong = errors.New("fxp chunk exceeds size limit")
)

type fxpHeader struct {
	ChunkMagic [4]byte
	ByteSize   int32
	FxMagic    [4]byte
	Version    int32
	FxID       [4]byte
	FxVersion  int32
	NumParams  int32
	PrgName    [nameLen]byte
	ChunkSize  int32
}

type chunkBody struct {
	Name     string             `json:"name"`
	Author   string             `json:"author,omitempty"`
	License  string             `json:"license,omitempty"`
	Project  string             `json:"project,omitempty"`
	Category string             `json:"category,omitempty"`
	Params   map[string]float64 `json:"params"`
}

// Encode writes p as a single-program .fxp file.
func Encode(w io.Writer, p *Program) error {
	if p == nil {
		return errors.New("nil program")
	}
	params := p.params
	if params == nil {
		params = map[string]float64{}
	}
	body, err := json.Marshal(chunkBody{
		Name: p.name, Author: p.author, License: p.license,
		Project: p.project, Category: p.category, Params: params,
	})
	if err != nil {
		return fmt.Errorf("marshal chunk: %w", err)
	}
	if len(body) > maxChunkSize {
		return ErrChunkTooLong
	}

	var h fxpHeader
	copy(h.ChunkMagic[:], chunkMagic)
	copy(h.FxMagic[:], opaqueMagic)
	copy(h.FxID[:], PluginID)
	h.Version = fxpVersion
	h.FxVersion = chunkVersion
	h.NumParams = int32(len(params))
	// The name field is a NUL-terminated C string.
	copy(h.PrgName[:nameLen-1], p.name)
	h.ChunkSize = int32(len(body))
	h.ByteSize = int32(headerLen - 8 + len(body))

	var buf bytes.Buffer
	buf.Grow(headerLen + len(body))
	if err := binary.Write(&buf, binary.BigEndian, &h); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	buf.Write(body)
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write fxp: %w", err)
	}
	return nil
}

// Decode reads a program written by Encode. The program name is taken from
// the chunk; the 28-byte header name is only a truncated copy.
func Decode(r io.Reader) (*Program, error) {
	var h fxpHeader
	if err := binary.Read(r, binary.BigEndian, &h); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotFXP, err)
	}
	if string(h.ChunkMagic[:]) != chunkMagic || string(h.FxMagic[:]) != opaqueMagic {
		return nil, ErrNotFXP
	}
	if string(h.FxID[:]) != PluginID {
		return nil, fmt.Errorf("%w: %q", ErrWrongPlugin, string(h.FxID[:]))
	}
	if h.ChunkSize < 0 || h.ChunkSize > maxChunkSize {
		return nil, ErrChunkTooLong
	}
	body := make([]byte, h.ChunkSize)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, fmt.Errorf("read chunk: %w", err)
	}
	var cb chunkBody
	if err := json.Unmarshal(body, &cb); err != nil {
		return nil, fmt.Errorf("parse chunk: %w", err)
	}
	p := &Program{
		name: cb.Name, author: cb.Author, license: cb.License,
		project: cb.Project, category: cb.Category, params: cb.Params,
	}
	if p.params == nil {
		p.params = map[string]float64{}
	}
	if p.name == "" {
		p.name = strings.TrimRight(string(h.PrgName[:]), "\x00")
	}
	return p, nil
}
