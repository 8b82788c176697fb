/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package storage implements patch persistence.
// Patch files (<name>.fxp) are written transactionally with a timestamped backup of the
// file they replace. A small SQLite catalogue at <root>/.synthpatch/catalog.sqlite keeps
// track of saved patches and the last loaded program; it is derived data and can be deleted.
package storage
