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

// Package config holds the settings of a geosuggest instance.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/poiesic/geosuggest/source"
)

// DefaultDebounce is the quiet period before a query is searched.
const DefaultDebounce = 300 * time.Millisecond

var (
	ErrSourceRequired      = errors.New("config: source_url or source_file is required")
	ErrInvalidDebounce     = errors.New("config: debounce must not be negative")
	ErrInvalidFetchTimeout = errors.New("config: fetch_timeout must not be negative")
	ErrInvalidPoolSize     = errors.New("config: pool_size must not be negative")
)

// Config holds configuration for the catalog source and the session.
type Config struct {
	// SourceURL is fetched with a single GET when SourceFile is empty.
	SourceURL string `yaml:"source_url"`

	// SourceFile is a local copy of the dataset. It takes precedence over SourceURL.
	SourceFile string `yaml:"source_file"`

	// Debounce is the delay between the last keystroke and the search.
	// Default: 300ms
	Debounce time.Duration `yaml:"debounce"`

	// FetchTimeout bounds the catalog fetch. Zero means no bound.
	FetchTimeout time.Duration `yaml:"fetch_timeout"`

	// PoolSize is the number of workers used for batch searches.
	// Zero picks a value from the number of CPUs.
	PoolSize int `yaml:"pool_size"`

	// MetricsAddr, when set, serves Prometheus metrics on this address.
	// Example: ":9090"
	MetricsAddr string `yaml:"metrics_addr"`
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithSourceURL sets the dataset URL.
func WithSourceURL(url string) ConfigOption {
	return func(c *Config) {
		c.SourceURL = url
	}
}

// WithSourceFile sets a local dataset path.
func WithSourceFile(path string) ConfigOption {
	return func(c *Config) {
		c.SourceFile = path
	}
}

// WithDebounce sets the debounce delay.
func WithDebounce(d time.Duration) ConfigOption {
	return func(c *Config) {
		c.Debounce = d
	}
}

// WithFetchTimeout sets the fetch timeout.
func WithFetchTimeout(d time.Duration) ConfigOption {
	return func(c *Config) {
		c.FetchTimeout = d
	}
}

// WithPoolSize sets the batch worker count.
func WithPoolSize(n int) ConfigOption {
	return func(c *Config) {
		c.PoolSize = n
	}
}

// WithMetricsAddr sets the metrics listen address.
func WithMetricsAddr(addr string) ConfigOption {
	return func(c *Config) {
		c.MetricsAddr = addr
	}
}

// DefaultConfig returns a Config that fetches the public dataset.
func DefaultConfig() *Config {
	return &Config{
		SourceURL: source.DefaultURL,
		Debounce:  DefaultDebounce,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// LoadFile reads a YAML file on top of DefaultConfig.
// Keys missing from the file keep their defaults; unknown keys are an error.
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	defer f.Close()

	cfg := DefaultConfig()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("error parsing config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Normalize trims whitespace from string settings.
func (c *Config) Normalize() {
	c.SourceURL = strings.TrimSpace(c.SourceURL)
	c.SourceFile = strings.TrimSpace(c.SourceFile)
	c.MetricsAddr = strings.TrimSpace(c.MetricsAddr)
}

// Validate checks that the configuration is usable.
// It normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.SourceURL == "" && c.SourceFile == "" {
		return ErrSourceRequired
	}
	if c.Debounce < 0 {
		return ErrInvalidDebounce
	}
	if c.FetchTimeout < 0 {
		return ErrInvalidFetchTimeout
	}
	if c.PoolSize < 0 {
		return ErrInvalidPoolSize
	}
	return nil
}
