package search

import (
	"context"
	"errors"
	"log/slog"

	"github.com/poiesic/geosuggest/core"
	"github.com/poiesic/geosuggest/storage"
)

// Searcher filters the country catalog held by a repository.
type Searcher struct {
	repository storage.CountryRepository
	monitor    SearchMonitor
	logger     *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithMonitor sets a monitor that observes every search.
// Default is a no-op monitor.
func WithMonitor(monitor SearchMonitor) Option {
	return func(s *Searcher) error {
		if monitor == nil {
			monitor = &noopMonitor{}
		}
		s.monitor = monitor
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(repository storage.CountryRepository, opts ...Option) (*Searcher, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}

	s := &Searcher{
		repository: repository,
		monitor:    &noopMonitor{},
		logger:     slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Suggest returns up to core.MaxSuggestions countries matching query.
func (s *Searcher) Suggest(ctx context.Context, query string) ([]*core.Country, error) {
	return s.SuggestWithMonitor(ctx, query, s.monitor)
}

// SuggestWithMonitor is Suggest with a per-call monitor.
// The scan stops as soon as the result list is full.
func (s *Searcher) SuggestWithMonitor(ctx context.Context, query string, monitor SearchMonitor) ([]*core.Country, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	monitor.Start(query)

	results := make([]*core.Country, 0, core.MaxSuggestions)
	if query == "" {
		monitor.Finish(query, 0, results)
		return results, nil
	}

	m := newMatcher(query)
	scanned := 0
	err := s.repository.Scan(ctx, func(country *core.Country) bool {
		scanned++
		if !m.match(country) {
			return true
		}
		monitor.Hit(country)
		results = append(results, country)
		return len(results) < core.MaxSuggestions
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			s.logger.Debug("search cancelled", "query", query)
		} else {
			s.logger.Error("error scanning catalog", "query", query, "err", err)
		}
		return nil, err
	}

	s.logger.Debug("search finished", "query", query, "scanned", scanned, "hits", len(results))
	monitor.Finish(query, scanned, results)

	return results, nil
}
