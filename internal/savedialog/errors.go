/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package savedialog

import (
	"errors"
	"fmt"
)

// Validation failures are detected before anything is mutated; a persistence
// failure is reported after the active program and preferences were updated.
var (
	ErrReservedName                     = errors.New("reserved patch name")
	ErrProjectNameConflictsWithCategory = errors.New("project name conflicts with a category")
	ErrOutsidePatchRoot                 = errors.New("patch location outside the patch folder")
	ErrPersistenceFailure               = errors.New("patch could not be written")
)

// RejectionError is a pre-flight validation failure. Title and Message are the
// user-facing alert text.
type RejectionError struct {
	Kind    error
	Title   string
	Message string
}

func (e *RejectionError) Error() string { return e.Kind.Error() + ": " + e.Message }
func (e *RejectionError) Unwrap() error { return e.Kind }

func reservedName(name string) *RejectionError {
	return &RejectionError{
		Kind:  ErrReservedName,
		Title: "Reserved Patch Name",
		Message: fmt.Sprintf("%q is a reserved patch name for internal use. "+
			"Please choose another name for your patch!", name),
	}
}

func projectConflict() *RejectionError {
	return &RejectionError{
		Kind:  ErrProjectNameConflictsWithCategory,
		Title: "Invalid Project Name",
		Message: "Project name cannot be any of the available patch category names. " +
			"Please choose another name for your project!",
	}
}

func outsideRoot() *RejectionError {
	return &RejectionError{
		Kind:  ErrOutsidePatchRoot,
		Title: "Invalid Patch Location",
		Message: "Patch name and project name must stay inside the patch folder. " +
			"Please remove any \"..\" path segments!",
	}
}

// PersistenceError means metadata was committed in memory but the file write failed.
type PersistenceError struct {
	Path string
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%v: %s", ErrPersistenceFailure, e.Path)
}

func (e *PersistenceError) Unwrap() error { return ErrPersistenceFailure }
