package session

import "time"

// LoadMonitor observes the outcome of the catalog load.
type LoadMonitor interface {
	LoadFinished(count int, elapsed time.Duration, err error)
}

type noopLoadMonitor struct{}

var _ LoadMonitor = (*noopLoadMonitor)(nil)

func (n *noopLoadMonitor) LoadFinished(_ int, _ time.Duration, _ error) {}
