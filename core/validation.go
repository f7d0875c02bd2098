package core

import (
	"fmt"
	"strings"
)

// ValidateCountry validates a Country according to domain rules.
//
// Validation rules:
//   - Name must not be empty or whitespace only
//
// NOT validated:
//   - Capital (optional)
//   - ID (0 is a valid upstream id)
func ValidateCountry(country *Country) error {
	if country == nil {
		return fmt.Errorf("%w: country is nil", ErrInvalidCountry)
	}

	if strings.TrimSpace(country.Name) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidCountry, ErrEmptyName)
	}

	return nil
}

// ValidateCountries validates every record and checks that IDs are unique.
func ValidateCountries(countries []*Country) error {
	seen := make(map[ID]int, len(countries))
	for i, country := range countries {
		if err := ValidateCountry(country); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		if first, ok := seen[country.ID]; ok {
			return fmt.Errorf("%w: id %d at records %d and %d", ErrDuplicateID, country.ID, first, i)
		}
		seen[country.ID] = i
	}
	return nil
}
