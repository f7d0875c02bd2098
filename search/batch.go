package search

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/geosuggest/core"
)

// DefaultPoolSize is runtime.NumCPU() / 2, with a minimum of 1.
func DefaultPoolSize() int {
	size := runtime.NumCPU() / 2
	if size < 1 {
		size = 1
	}
	return size
}

// Batch runs Suggest for every query on a bounded worker pool.
// results[i] holds the suggestions for queries[i]. Errors are joined in
// query order; results for failed queries are nil.
func Batch(ctx context.Context, searcher *Searcher, queries []string, poolSize int) ([][]*core.Country, error) {
	if searcher == nil {
		return nil, ErrSearcherRequired
	}
	if poolSize < 1 {
		poolSize = DefaultPoolSize()
	}

	results := make([][]*core.Country, len(queries))
	if len(queries) == 0 {
		return results, nil
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	errs := make([]error, len(queries))
	var wg sync.WaitGroup
	for i, query := range queries {
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			results[i], errs[i] = searcher.Suggest(ctx, query)
		})
		if submitErr != nil {
			wg.Done()
			errs[i] = fmt.Errorf("query %q: %w", query, submitErr)
		}
	}
	wg.Wait()

	return results, errors.Join(errs...)
}
