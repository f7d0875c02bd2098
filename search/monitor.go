package search

import (
	"github.com/poiesic/geosuggest/core"
)

// SearchMonitor provides hooks to observe the search process.
// Implementations must be safe for concurrent use when shared by Batch.
type SearchMonitor interface {
	Start(query string)
	Hit(country *core.Country)
	Finish(query string, scanned int, results []*core.Country)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                           {}
func (n *noopMonitor) Hit(_ *core.Country)                      {}
func (n *noopMonitor) Finish(_ string, _ int, _ []*core.Country) {}
