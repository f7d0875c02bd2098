// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package search provides incremental substring filtering over the country catalog.
//
// A record matches a query when its name, or its capital if present,
// contains the query as a substring after Unicode case folding. Results keep
// the catalog order and are truncated by scan position, never ranked:
//   - Filter works on an in-memory slice
//   - Searcher runs the same predicate over a storage.CountryRepository scan
//   - Batch evaluates many queries concurrently on a worker pool
//
// An empty query always yields an empty, non-nil result.
package search
