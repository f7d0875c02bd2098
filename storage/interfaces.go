package storage

import (
	"context"

	"github.com/poiesic/geosuggest/core"
)

// VisitFunc is called for each record during a scan.
// Returning false stops the scan.
type VisitFunc func(country *core.Country) bool

// CountryRepository provides operations for the loaded country catalog.
// Implementations must be thread-safe and support concurrent access.
type CountryRepository interface {
	// AddCountries appends records to the catalog, preserving argument order.
	// Returns ErrDuplicateKey if any ID is already present; in that case
	// nothing from the call is stored.
	AddCountries(ctx context.Context, countries ...*core.Country) error

	// GetCountry retrieves a single record by ID.
	// Returns ErrNotFound if the record doesn't exist.
	GetCountry(ctx context.Context, id core.ID) (*core.Country, error)

	// Scan visits records in insertion order until fn returns false
	// or the catalog is exhausted.
	Scan(ctx context.Context, fn VisitFunc) error

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)

	// Close releases resources and discards the catalog.
	Close() error
}
