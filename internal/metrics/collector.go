package metrics

import (
	"sync"
	"time"

	"media-fetcher/internal/logging"
)

// StatsProvider reports scratch space usage.
type StatsProvider interface {
	ScratchStats() (Stats, error)
}

// Stats holds the sampled scratch space usage.
type Stats struct {
	Directories int
	Bytes       int64
}

// Collector periodically samples a StatsProvider into the scratch gauges.
type Collector struct {
	statsProvider StatsProvider
	interval      time.Duration
	stopChan      chan struct{}
	stopOnce      sync.Once
	done          chan struct{}
}

// NewCollector creates a new metrics collector
func NewCollector(provider StatsProvider, interval time.Duration) *Collector {
	return &Collector{
		statsProvider: provider,
		interval:      interval,
		stopChan:      make(chan struct{}),
		done:          make(chan struct{}),
	}
}

// Start begins the metrics collection loop
func (c *Collector) Start() {
	go c.collectLoop()
}

// Stop stops the collection loop and waits for it to exit. Only call it
// after Start.
func (c *Collector) Stop() {
	c.stopOnce.Do(func() { close(c.stopChan) })
	<-c.done
}

func (c *Collector) collectLoop() {
	defer close(c.done)

	// Collect immediately on start
	c.collect()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.collect()
		case <-c.stopChan:
			return
		}
	}
}

func (c *Collector) collect() {
	if c.statsProvider == nil {
		return
	}

	stats, err := c.statsProvider.ScratchStats()
	if err != nil {
		logging.Warn("Failed to sample scratch usage: %v", err)
		return
	}

	ScratchDirectories.Set(float64(stats.Directories))
	ScratchBytes.Set(float64(stats.Bytes))

	logging.Debug("Metrics collected: scratch directories=%d, bytes=%d", stats.Directories, stats.Bytes)
}
