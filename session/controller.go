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

package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/poiesic/geosuggest/core"
	"github.com/poiesic/geosuggest/debounce"
	"github.com/poiesic/geosuggest/search"
	"github.com/poiesic/geosuggest/source"
	"github.com/poiesic/geosuggest/storage"
)

// DefaultDelay is the quiet period before a query is searched.
const DefaultDelay = 300 * time.Millisecond

// Controller binds a loader, a catalog and a searcher to one session State.
//
// OnChange callbacks run one at a time in dispatch order. They may call
// State but must not call Load, Type, Select, SelectIndex or Close.
type Controller struct {
	loader     source.Loader
	repository storage.CountryRepository
	searcher   *search.Searcher
	gate       *debounce.Debouncer[searchRequest]
	delay      time.Duration
	onChange   ChangeFunc
	monitor    LoadMonitor
	logger     *slog.Logger

	// inputMu orders Type and Select so each trigger carries the Seq its
	// own QueryChanged produced
	inputMu  sync.Mutex
	notifyMu sync.Mutex
	mu       sync.Mutex
	state    State
	attempt  bool
	closed   bool
}

// searchRequest is a query together with the Seq it was typed at.
type searchRequest struct {
	query string
	seq   uint64
}

// ChangeFunc observes an event together with the state it produced.
type ChangeFunc func(ev Event, next State)

// Option configures a Controller.
type Option func(*Controller) error

// WithDelay sets the debounce delay.
// Default is DefaultDelay.
func WithDelay(delay time.Duration) Option {
	return func(c *Controller) error {
		if delay < 0 {
			return fmt.Errorf("debounce delay must not be negative: %s", delay)
		}
		c.delay = delay
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// WithOnChange registers a callback that receives every new State.
func WithOnChange(fn ChangeFunc) Option {
	return func(c *Controller) error {
		c.onChange = fn
		return nil
	}
}

// WithLoadMonitor sets a monitor for the catalog load.
// Default is a no-op monitor.
func WithLoadMonitor(monitor LoadMonitor) Option {
	return func(c *Controller) error {
		if monitor == nil {
			monitor = &noopLoadMonitor{}
		}
		c.monitor = monitor
		return nil
	}
}

// NewController creates a session controller.
// repository must be the catalog searcher reads from.
func NewController(loader source.Loader, repository storage.CountryRepository, searcher *search.Searcher, opts ...Option) (*Controller, error) {
	if loader == nil {
		return nil, ErrLoaderRequired
	}
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if searcher == nil {
		return nil, ErrSearcherRequired
	}

	c := &Controller{
		loader:     loader,
		repository: repository,
		searcher:   searcher,
		delay:      DefaultDelay,
		monitor:    &noopLoadMonitor{},
		logger:     slog.Default(),
		state:      Initial(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	c.logger = c.logger.With("component", "session")
	c.gate = debounce.New(c.delay, c.search)

	return c, nil
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Load fetches the catalog once and stores it. A failure is reflected in
// the state and returned; there is no retry.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrSessionClosed
	}
	if c.attempt {
		c.mu.Unlock()
		return ErrAlreadyLoaded
	}
	c.attempt = true
	c.mu.Unlock()

	c.dispatch(LoadStarted{})
	start := time.Now()

	count, err := c.load(ctx)
	c.monitor.LoadFinished(count, time.Since(start), err)
	if err != nil {
		c.logger.Error("error loading catalog", "err", err)
		c.dispatch(LoadFailed{Err: err})
		return err
	}

	c.logger.Info("catalog loaded", "count", count, "elapsed", time.Since(start))
	c.dispatch(LoadSucceeded{Count: count})
	return nil
}

func (c *Controller) load(ctx context.Context) (int, error) {
	countries, err := c.loader.Load(ctx)
	if err != nil {
		return 0, err
	}
	if err := c.repository.AddCountries(ctx, countries...); err != nil {
		return 0, fmt.Errorf("%w: %w", source.ErrDataLoadFailure, err)
	}
	return len(countries), nil
}

// Type records new input text and schedules a debounced search for it.
func (c *Controller) Type(query string) {
	if c.isClosed() {
		return
	}
	c.inputMu.Lock()
	defer c.inputMu.Unlock()

	next := c.dispatch(QueryChanged{Query: query})
	c.gate.Trigger(searchRequest{query: query, seq: next.Seq})
}

// Select makes country the query and clears the suggestions. A pending
// search is dropped, and one already running is discarded when it finishes.
func (c *Controller) Select(country *core.Country) {
	if country == nil || c.isClosed() {
		return
	}
	c.inputMu.Lock()
	defer c.inputMu.Unlock()

	c.gate.Cancel()
	c.dispatch(SuggestionSelected{Country: country})
}

// SelectIndex selects the i-th current suggestion, counting from zero.
func (c *Controller) SelectIndex(i int) (*core.Country, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrSessionClosed
	}
	suggestions := c.state.Suggestions
	c.mu.Unlock()

	if i < 0 || i >= len(suggestions) {
		return nil, fmt.Errorf("%w: %d of %d", ErrNoSuchSuggestion, i, len(suggestions))
	}

	country := suggestions[i]
	c.Select(country)
	return country, nil
}

// Pending reports whether a debounced search is scheduled or running.
func (c *Controller) Pending() bool {
	return c.gate.Pending()
}

// Close stops the debounce timer and waits for a running search to finish
// and publish its result. It is safe to call more than once.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	c.gate.Stop()
}

func (c *Controller) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// search runs on the debounce timer goroutine.
func (c *Controller) search(req searchRequest) {
	results, err := c.searcher.Suggest(context.Background(), req.query)
	if err != nil {
		c.logger.Warn("search failed", "query", req.query, "err", err)
		return
	}
	c.dispatch(SuggestionsComputed{Query: req.query, Seq: req.seq, Suggestions: results})
}

func (c *Controller) dispatch(ev Event) State {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	c.mu.Lock()
	c.state = Reduce(c.state, ev)
	next := c.state
	c.mu.Unlock()

	c.logger.Debug("state changed", "event", fmt.Sprintf("%T", ev), "query", next.Query, "suggestions", len(next.Suggestions))
	if c.onChange != nil {
		c.onChange(ev, next)
	}
	return next
}
