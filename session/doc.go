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
// Package session holds the state of one autocomplete session.
//
// State changes only through Reduce, a pure function of the current State
// and an Event. Controller owns a State, drives the one-time catalog load,
// debounces query changes before searching and applies selections. Closing a
// Controller stops its debounce timer so no search fires afterwards.
package session
