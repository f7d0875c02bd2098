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
package session

import "errors"

var (
	// ErrLoaderRequired is returned when a controller is created without a loader.
	ErrLoaderRequired = errors.New("loader required")

	// ErrRepositoryRequired is returned when a controller is created without a repository.
	ErrRepositoryRequired = errors.New("country repository required")

	// ErrSearcherRequired is returned when a controller is created without a searcher.
	ErrSearcherRequired = errors.New("searcher required")

	// ErrAlreadyLoaded is returned when Load is called more than once.
	ErrAlreadyLoaded = errors.New("catalog load already attempted")

	// ErrSessionClosed is returned by operations on a closed controller.
	ErrSessionClosed = errors.New("session closed")

	// ErrNoSuchSuggestion is returned when SelectIndex is out of range.
	ErrNoSuchSuggestion = errors.New("no such suggestion")
)
