package source

import (
	"fmt"
	"math"

	"github.com/poiesic/geosuggest/core"
	"github.com/tidwall/gjson"
)

// Parse decodes a country payload.
// Entries without an "id" get one derived from their name.
func Parse(data []byte) ([]*core.Country, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformedPayload)
	}

	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, fmt.Errorf("%w: top-level value must be an array", ErrMalformedPayload)
	}

	entries := root.Array()
	countries := make([]*core.Country, 0, len(entries))
	for i, entry := range entries {
		country, err := parseEntry(entry)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %w", ErrMalformedPayload, i, err)
		}
		countries = append(countries, country)
	}

	if err := core.ValidateCountries(countries); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}

	return countries, nil
}

func parseEntry(entry gjson.Result) (*core.Country, error) {
	if !entry.IsObject() {
		return nil, fmt.Errorf("expected object, got %s", entry.Type)
	}

	name := entry.Get("name")
	if name.Type != gjson.String {
		return nil, fmt.Errorf("name must be a string")
	}

	country := &core.Country{Name: name.Str}

	switch capital := entry.Get("capital"); capital.Type {
	case gjson.Null:
		// Missing or explicit null
	case gjson.String:
		country.Capital = capital.Str
	default:
		return nil, fmt.Errorf("capital must be a string")
	}

	id := entry.Get("id")
	switch {
	case !id.Exists():
		country.ID = core.IDFromContent(country.Name)
	case id.Type == gjson.Number && id.Num >= 0 && id.Num == math.Trunc(id.Num):
		country.ID = core.ID(id.Uint())
	default:
		return nil, fmt.Errorf("id must be a non-negative integer")
	}

	return country, nil
}
