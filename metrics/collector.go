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

// Package metrics exports search and catalog load activity to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/poiesic/geosuggest/core"
	"github.com/poiesic/geosuggest/search"
	"github.com/poiesic/geosuggest/session"
)

const namespace = "geosuggest"

// Search outcomes
const (
	OutcomeEmptyQuery = "empty_query"
	OutcomeHit        = "hit"
	OutcomeMiss       = "miss"
)

// Load statuses
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Collector records metrics for searches and catalog loads.
// It is safe for concurrent use.
type Collector struct {
	registry *prometheus.Registry

	searches   *prometheus.CounterVec
	results    prometheus.Histogram
	scanned    prometheus.Histogram
	matches    prometheus.Counter
	loads      *prometheus.CounterVec
	loadTime   prometheus.Histogram
	catalogLen prometheus.Gauge
}

var (
	_ search.SearchMonitor = (*Collector)(nil)
	_ session.LoadMonitor  = (*Collector)(nil)
)

// NewCollector creates a Collector registered on registry.
// A nil registry gets a fresh one.
func NewCollector(registry *prometheus.Registry) (*Collector, error) {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	c := &Collector{
		registry: registry,
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Searches run, by outcome",
		}, []string{"outcome"}),
		results: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_results",
			Help:      "Suggestions returned per search",
			Buckets:   prometheus.LinearBuckets(0, 1, core.MaxSuggestions+1),
		}),
		scanned: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_scanned_records",
			Help:      "Catalog records examined per search",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
		matches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_matches_total",
			Help:      "Records that matched a query",
		}),
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_loads_total",
			Help:      "Catalog load attempts, by status",
		}, []string{"status"}),
		loadTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "catalog_load_seconds",
			Help:      "Duration of catalog loads",
			Buckets:   prometheus.DefBuckets,
		}),
		catalogLen: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_records",
			Help:      "Records in the loaded catalog",
		}),
	}

	for _, collector := range []prometheus.Collector{
		c.searches, c.results, c.scanned, c.matches, c.loads, c.loadTime, c.catalogLen,
	} {
		if err := registry.Register(collector); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Registry returns the registry the metrics live on.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Start implements search.SearchMonitor.
func (c *Collector) Start(_ string) {}

// Hit implements search.SearchMonitor.
func (c *Collector) Hit(_ *core.Country) {
	c.matches.Inc()
}

// Finish implements search.SearchMonitor.
func (c *Collector) Finish(query string, scanned int, results []*core.Country) {
	switch {
	case query == "":
		c.searches.WithLabelValues(OutcomeEmptyQuery).Inc()
		return
	case len(results) == 0:
		c.searches.WithLabelValues(OutcomeMiss).Inc()
	default:
		c.searches.WithLabelValues(OutcomeHit).Inc()
	}
	c.results.Observe(float64(len(results)))
	c.scanned.Observe(float64(scanned))
}

// LoadFinished implements session.LoadMonitor.
func (c *Collector) LoadFinished(count int, elapsed time.Duration, err error) {
	c.loadTime.Observe(elapsed.Seconds())
	if err != nil {
		c.loads.WithLabelValues(StatusError).Inc()
		return
	}
	c.loads.WithLabelValues(StatusOK).Inc()
	c.catalogLen.Set(float64(count))
}
