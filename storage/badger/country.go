package badger

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/geosuggest/core"
	"github.com/poiesic/geosuggest/storage"
)

// CountryRepository implements storage.CountryRepository for BadgerDB.
type CountryRepository struct {
	backend     *Backend
	positionSeq *badger.Sequence
	ownsBackend bool
	closeOnce   sync.Once
	closeErr    error
}

var _ storage.CountryRepository = (*CountryRepository)(nil)

// NewCountryRepository creates a new CountryRepository on an existing backend.
// The caller keeps ownership of the backend.
func NewCountryRepository(backend *Backend) (*CountryRepository, error) {
	positionSeq, err := backend.GetSequence(countryPositionSeq)
	if err != nil {
		return nil, err
	}

	return &CountryRepository{
		backend:     backend,
		positionSeq: positionSeq,
	}, nil
}

// NewMemoryRepository opens a private in-memory backend and returns a
// repository that closes it on Close.
func NewMemoryRepository() (storage.CountryRepository, error) {
	backend, err := OpenBackend()
	if err != nil {
		return nil, err
	}

	repo, err := NewCountryRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}
	repo.ownsBackend = true

	return repo, nil
}

// Close releases the position sequence, and the backend when owned.
func (r *CountryRepository) Close() error {
	r.closeOnce.Do(func() {
		r.closeErr = r.positionSeq.Release()
		if r.ownsBackend {
			r.closeErr = errors.Join(r.closeErr, r.backend.Close())
		}
	})
	return r.closeErr
}

// AddCountries appends records to the catalog in argument order.
func (r *CountryRepository) AddCountries(ctx context.Context, countries ...*core.Country) error {
	if r.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	if len(countries) == 0 {
		return nil
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, country := range countries {
			if err := ctx.Err(); err != nil {
				return err
			}

			idKey := makeCountryIDKey(country.ID)
			_, err := tx.Get(idKey)
			if err == nil {
				return fmt.Errorf("%w: id %d", storage.ErrDuplicateKey, country.ID)
			}
			if !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}

			position, err := r.positionSeq.Next()
			if err != nil {
				return err
			}

			// Store primary record
			if err := tx.Set(makeCountryKey(position), storage.MarshalCountry(country)); err != nil {
				return err
			}

			// Update ID index
			if err := tx.Set(idKey, storage.MarshalPosition(position)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetCountry retrieves a single record by ID.
func (r *CountryRepository) GetCountry(ctx context.Context, id core.ID) (*core.Country, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var result *core.Country
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeCountryIDKey(id))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}

		var position uint64
		if err := item.Value(func(val []byte) error {
			var err error
			position, err = storage.UnmarshalPosition(val)
			if err != nil {
				return fmt.Errorf("position index for id %d: %w", id, err)
			}
			return nil
		}); err != nil {
			return err
		}

		result, err = r.readCountry(tx, makeCountryKey(position))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// Scan visits records in insertion order until fn returns false.
func (r *CountryRepository) Scan(ctx context.Context, fn storage.VisitFunc) error {
	if r.backend.IsClosed() {
		return storage.ErrStorageClosed
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = countryScanPrefix()
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var country *core.Country
			err := iter.Item().Value(func(val []byte) error {
				var err error
				country, err = storage.UnmarshalCountry(val)
				return err
			})
			if err != nil {
				return err
			}

			if !fn(country) {
				return nil
			}
		}
		return nil
	}, false)
}

// Count returns the number of stored records.
func (r *CountryRepository) Count(ctx context.Context) (int, error) {
	if r.backend.IsClosed() {
		return 0, storage.ErrStorageClosed
	}

	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = countryScanPrefix()
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// readCountry reads a record by key. Returns nil, nil when the key is absent.
func (r *CountryRepository) readCountry(tx *badger.Txn, key []byte) (*core.Country, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var country *core.Country
	err = item.Value(func(val []byte) error {
		var err error
		country, err = storage.UnmarshalCountry(val)
		return err
	})
	return country, err
}
