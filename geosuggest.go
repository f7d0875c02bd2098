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

// Package geosuggest wires the country catalog, search and session layers
// into a debounced country and capital autocomplete.
package geosuggest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/geosuggest/config"
	"github.com/poiesic/geosuggest/core"
	"github.com/poiesic/geosuggest/metrics"
	"github.com/poiesic/geosuggest/search"
	"github.com/poiesic/geosuggest/session"
	"github.com/poiesic/geosuggest/source"
	"github.com/poiesic/geosuggest/storage"
	"github.com/poiesic/geosuggest/storage/badger"
)

// Engine creates sessions that share a configuration, a loader and metrics.
// Every session loads its own catalog; nothing is shared between sessions.
type Engine struct {
	cfg       *config.Config
	loader    source.Loader
	collector *metrics.Collector
	logger    *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	loader    source.Loader
	collector *metrics.Collector
	logger    *slog.Logger
}

// WithLoader replaces the loader derived from the configuration.
func WithLoader(loader source.Loader) EngineOption {
	return func(o *engineOptions) {
		o.loader = loader
	}
}

// WithMetrics reports searches and loads to collector.
func WithMetrics(collector *metrics.Collector) EngineOption {
	return func(o *engineOptions) {
		o.collector = collector
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) EngineOption {
	return func(o *engineOptions) {
		o.logger = logger
	}
}

// Open validates cfg and prepares an Engine. A nil cfg means config.DefaultConfig().
func Open(cfg *config.Config, opts ...EngineOption) (*Engine, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Apply options
	options := &engineOptions{}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}

	loader := options.loader
	if loader == nil {
		var err error
		loader, err = newLoader(cfg, options.logger)
		if err != nil {
			return nil, err
		}
	}

	return &Engine{
		cfg:       cfg,
		loader:    loader,
		collector: options.collector,
		logger:    options.logger,
	}, nil
}

func newLoader(cfg *config.Config, logger *slog.Logger) (source.Loader, error) {
	if cfg.SourceFile != "" {
		return source.NewFileLoader(cfg.SourceFile, source.WithLogger(logger))
	}
	return source.NewHTTPLoader(cfg.SourceURL,
		source.WithTimeout(cfg.FetchTimeout),
		source.WithLogger(logger),
	)
}

// Config returns the validated configuration.
func (e *Engine) Config() *config.Config {
	return e.cfg
}

// Metrics returns the metrics collector, or nil when metrics are off.
func (e *Engine) Metrics() *metrics.Collector {
	return e.collector
}

func (e *Engine) searchOptions() []search.Option {
	opts := []search.Option{search.WithLogger(e.logger)}
	if e.collector != nil {
		opts = append(opts, search.WithMonitor(e.collector))
	}
	return opts
}

// Session is a session controller together with the catalog it owns.
type Session struct {
	*session.Controller
	repository storage.CountryRepository
}

// Close stops the controller and discards the catalog.
func (s *Session) Close() error {
	s.Controller.Close()
	return s.repository.Close()
}

// NewSession creates a session on a fresh, empty catalog.
// Call Load on the result to fetch the records.
func (e *Engine) NewSession(opts ...session.Option) (*Session, error) {
	repo, err := badger.NewMemoryRepository()
	if err != nil {
		return nil, err
	}

	searcher, err := search.NewSearcher(repo, e.searchOptions()...)
	if err != nil {
		repo.Close()
		return nil, err
	}

	base := []session.Option{
		session.WithDelay(e.cfg.Debounce),
		session.WithLogger(e.logger),
	}
	if e.collector != nil {
		base = append(base, session.WithLoadMonitor(e.collector))
	}

	controller, err := session.NewController(e.loader, repo, searcher, append(base, opts...)...)
	if err != nil {
		repo.Close()
		return nil, err
	}

	return &Session{Controller: controller, repository: repo}, nil
}

// Search loads a catalog once and answers every query against it without
// debouncing. results[i] holds the suggestions for queries[i].
func (e *Engine) Search(ctx context.Context, queries []string) (results [][]*core.Country, err error) {
	repo, err := badger.NewMemoryRepository()
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			e.logger.Error("error closing catalog", "err", closeErr)
			err = errors.Join(err, closeErr)
		}
	}()

	start := time.Now()
	count, err := e.fill(ctx, repo)
	if e.collector != nil {
		e.collector.LoadFinished(count, time.Since(start), err)
	}
	if err != nil {
		return nil, err
	}

	searcher, err := search.NewSearcher(repo, e.searchOptions()...)
	if err != nil {
		return nil, err
	}

	return search.Batch(ctx, searcher, queries, e.cfg.PoolSize)
}

func (e *Engine) fill(ctx context.Context, repo storage.CountryRepository) (int, error) {
	countries, err := e.loader.Load(ctx)
	if err != nil {
		return 0, err
	}
	if err := repo.AddCountries(ctx, countries...); err != nil {
		return 0, fmt.Errorf("%w: %w", source.ErrDataLoadFailure, err)
	}
	return len(countries), nil
}
