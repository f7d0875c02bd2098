package search

import "github.com/poiesic/geosuggest/core"

// Filter returns up to core.MaxSuggestions countries matching query,
// in their original order.
func Filter(countries []*core.Country, query string) []*core.Country {
	return FilterN(countries, query, core.MaxSuggestions)
}

// FilterN is Filter with a smaller bound. limit is capped at core.MaxSuggestions.
func FilterN(countries []*core.Country, query string, limit int) []*core.Country {
	if query == "" {
		return []*core.Country{}
	}

	limit = clampLimit(limit)
	m := newMatcher(query)
	results := make([]*core.Country, 0, limit)
	for _, country := range countries {
		if !m.match(country) {
			continue
		}
		results = append(results, country)
		if len(results) == limit {
			break
		}
	}
	return results
}
