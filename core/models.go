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

package core

import (
	"encoding/binary"

	"github.com/go-crypt/x/blake2b"
)

// MaxSuggestions is the upper bound on the length of a suggestion list.
const MaxSuggestions = 5

// ID is a unique identifier for a country record.
// It comes from the upstream dataset or is derived from content.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// Used for payload entries that carry no id of their own.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Country is one entry of the reference dataset.
// Records are immutable once loaded.
type Country struct {
	ID      ID
	Name    string
	Capital string // Empty when the dataset has no capital for the country
}

// HasCapital reports whether the record carries a capital.
func (c *Country) HasCapital() bool {
	return c.Capital != ""
}

// Label returns the display form of a suggestion row: "Name" or "Name - Capital".
func (c *Country) Label() string {
	if !c.HasCapital() {
		return c.Name
	}
	return c.Name + " - " + c.Capital
}
