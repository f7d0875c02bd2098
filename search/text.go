package search

import (
	"strings"

	"github.com/poiesic/geosuggest/core"
	"golang.org/x/text/cases"
)

// matcher tests countries against one query using locale-independent
// Unicode case folding. It owns a Caser, so one matcher serves one search
// and is not safe for concurrent use.
type matcher struct {
	caser cases.Caser
	query string
}

func newMatcher(query string) *matcher {
	caser := cases.Fold()
	return &matcher{
		caser: caser,
		query: caser.String(query),
	}
}

func (m *matcher) match(country *core.Country) bool {
	if country == nil || m.query == "" {
		return false
	}
	if strings.Contains(m.caser.String(country.Name), m.query) {
		return true
	}
	return country.HasCapital() && strings.Contains(m.caser.String(country.Capital), m.query)
}

// Matches reports whether the country's name or capital contains query,
// ignoring case. An empty query matches nothing.
func Matches(country *core.Country, query string) bool {
	return newMatcher(query).match(country)
}

// clampLimit caps limit at core.MaxSuggestions. Non-positive means the cap.
func clampLimit(limit int) int {
	if limit <= 0 || limit > core.MaxSuggestions {
		return core.MaxSuggestions
	}
	return limit
}
