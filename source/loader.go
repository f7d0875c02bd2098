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

package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/poiesic/geosuggest/core"
)

// DefaultURL is the public countries dataset.
const DefaultURL = "https://raw.githubusercontent.com/dr5hn/countries-states-cities-database/master/countries.json"

// maxPayloadBytes bounds how much of a response body is read.
const maxPayloadBytes = 64 << 20

// Loader fetches the full record list.
// Implementations must wrap every error in ErrDataLoadFailure.
type Loader interface {
	Load(ctx context.Context) ([]*core.Country, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context) ([]*core.Country, error)

// Load calls f.
func (f LoaderFunc) Load(ctx context.Context) ([]*core.Country, error) {
	return f(ctx)
}

type loaderOptions struct {
	client  *http.Client
	timeout time.Duration
	logger  *slog.Logger
}

// Option configures a loader.
type Option func(*loaderOptions) error

// WithHTTPClient sets the HTTP client used by HTTPLoader.
// Default is a fresh client without a timeout.
func WithHTTPClient(client *http.Client) Option {
	return func(o *loaderOptions) error {
		if client == nil {
			client = &http.Client{}
		}
		o.client = client
		return nil
	}
}

// WithTimeout bounds a single Load call. Zero means no bound.
func WithTimeout(timeout time.Duration) Option {
	return func(o *loaderOptions) error {
		if timeout < 0 {
			return fmt.Errorf("timeout must not be negative: %s", timeout)
		}
		o.timeout = timeout
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *loaderOptions) error {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
		return nil
	}
}

func applyOptions(opts []Option) (*loaderOptions, error) {
	o := &loaderOptions{
		client: &http.Client{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

func (o *loaderOptions) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.timeout == 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, o.timeout)
}

// HTTPLoader fetches the dataset with a single GET request.
type HTTPLoader struct {
	url    string
	client *http.Client
	logger *slog.Logger
	opts   *loaderOptions
}

var _ Loader = (*HTTPLoader)(nil)

// NewHTTPLoader creates a loader for the given URL.
func NewHTTPLoader(rawURL string, opts ...Option) (*HTTPLoader, error) {
	if rawURL == "" {
		return nil, ErrURLRequired
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid source URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid source URL %q: scheme must be http or https", rawURL)
	}

	o, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}

	return &HTTPLoader{
		url:    u.String(),
		client: o.client,
		logger: o.logger.With("component", "http-loader"),
		opts:   o,
	}, nil
}

// Load fetches and parses the dataset.
func (l *HTTPLoader) Load(ctx context.Context) ([]*core.Country, error) {
	ctx, cancel := l.opts.withTimeout(ctx)
	defer cancel()

	l.logger.Debug("fetching countries", "url", l.url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDataLoadFailure, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		l.logger.Error("error fetching countries", "url", l.url, "err", err)
		return nil, fmt.Errorf("%w: %w", ErrDataLoadFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		l.logger.Error("unexpected response status", "url", l.url, "status", resp.StatusCode)
		return nil, fmt.Errorf("%w: %w: %s", ErrDataLoadFailure, ErrUnexpectedStatus, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		l.logger.Error("error reading response body", "url", l.url, "err", err)
		return nil, fmt.Errorf("%w: %w", ErrDataLoadFailure, err)
	}

	countries, err := Parse(body)
	if err != nil {
		l.logger.Error("error parsing countries", "url", l.url, "err", err)
		return nil, fmt.Errorf("%w: %w", ErrDataLoadFailure, err)
	}

	l.logger.Info("loaded countries", "count", len(countries))
	return countries, nil
}

// FileLoader reads the dataset from a local file.
type FileLoader struct {
	path   string
	logger *slog.Logger
}

var _ Loader = (*FileLoader)(nil)

// NewFileLoader creates a loader for the given path.
// Only WithLogger applies; HTTP options are ignored.
func NewFileLoader(path string, opts ...Option) (*FileLoader, error) {
	if path == "" {
		return nil, ErrPathRequired
	}

	o, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}

	return &FileLoader{
		path:   path,
		logger: o.logger.With("component", "file-loader"),
	}, nil
}

// Load reads and parses the dataset.
func (l *FileLoader) Load(ctx context.Context) ([]*core.Country, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDataLoadFailure, err)
	}

	data, err := os.ReadFile(l.path)
	if err != nil {
		l.logger.Error("error reading countries file", "path", l.path, "err", err)
		return nil, fmt.Errorf("%w: %w", ErrDataLoadFailure, err)
	}

	countries, err := Parse(data)
	if err != nil {
		l.logger.Error("error parsing countries", "path", l.path, "err", err)
		return nil, fmt.Errorf("%w: %w", ErrDataLoadFailure, err)
	}

	l.logger.Info("loaded countries", "count", len(countries))
	return countries, nil
}
