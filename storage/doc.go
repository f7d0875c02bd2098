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

// Package storage provides the catalog abstraction for geosuggest.
//
// The catalog holds the country records fetched at startup for the lifetime
// of the process. It is append-only: records are added once, in dataset
// order, and are then only read. Scans always visit records in the order
// they were added, which is what the suggestion filter relies on to keep its
// results a subsequence of the dataset.
//
// # Usage
//
// Create an in-memory catalog:
//
//	repo, err := badger.NewMemoryRepository()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer repo.Close()
//
// # Lifetime
//
// Catalogs are never persisted. Closing a repository discards its records.
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
package storage
