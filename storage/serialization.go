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

package storage

import (
	"fmt"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/geosuggest/core"
)

// MarshalPosition serializes a catalog position to bytes.
func MarshalPosition(position uint64) []byte {
	buf := make([]byte, varint.Uint64.Size(position))
	varint.Uint64.Marshal(position, buf)
	return buf
}

// UnmarshalPosition deserializes a catalog position from bytes.
func UnmarshalPosition(data []byte) (uint64, error) {
	v, n, err := varint.Uint64.Unmarshal(data)
	if err != nil {
		return 0, fmt.Errorf("%w: position: %w", ErrSerializationFailed, err)
	}
	if n != len(data) {
		return 0, fmt.Errorf("%w: %d trailing bytes", ErrSerializationFailed, len(data)-n)
	}
	return v, nil
}

// Country wire layout: varint id, then name and capital as
// length-prefixed strings.
func countrySize(country *core.Country) int {
	return varint.Uint64.Size(uint64(country.ID)) +
		ord.String.Size(country.Name) +
		ord.String.Size(country.Capital)
}

// MarshalCountry serializes a Country to bytes.
func MarshalCountry(country *core.Country) []byte {
	buf := make([]byte, countrySize(country))
	n := varint.Uint64.Marshal(uint64(country.ID), buf)
	n += ord.String.Marshal(country.Name, buf[n:])
	ord.String.Marshal(country.Capital, buf[n:])
	return buf
}

// UnmarshalCountry deserializes a Country from bytes.
func UnmarshalCountry(data []byte) (*core.Country, error) {
	id, n, err := varint.Uint64.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: id: %w", ErrSerializationFailed, err)
	}

	name, n1, err := ord.String.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: name: %w", ErrSerializationFailed, err)
	}
	n += n1

	capital, n2, err := ord.String.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: capital: %w", ErrSerializationFailed, err)
	}
	n += n2

	if n != len(data) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrSerializationFailed, len(data)-n)
	}

	return &core.Country{
		ID:      core.ID(id),
		Name:    name,
		Capital: capital,
	}, nil
}
