package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Collector provides in-process counters for rendering, editing and
// persistence. All methods are safe on a nil receiver.
type Collector struct {
	compiler          *CompilerMetrics
	operationCounters map[string]*int64
	mu                sync.RWMutex
	startTime         time.Time
}

// CompilerMetrics is a snapshot of the collected counters.
type CompilerMetrics struct {
	// Rendering
	SitesRendered    int64 `json:"sites_rendered"`
	PagesRendered    int64 `json:"pages_rendered"`
	SectionsRendered int64 `json:"sections_rendered"`
	UnknownSections  int64 `json:"unknown_sections"`
	MissingAssets    int64 `json:"missing_assets"`

	// Editing sessions
	EditsApplied          int64 `json:"edits_applied"`
	ActiveSessions        int64 `json:"active_sessions"`
	MaxConcurrentSessions int64 `json:"max_concurrent_sessions"`
	SessionsEvicted       int64 `json:"sessions_evicted"`

	// Persistence
	SavesCompleted int64 `json:"saves_completed"`
	SaveFailures   int64 `json:"save_failures"`

	// Preview
	PreviewClients int64 `json:"preview_clients"`

	StartTime time.Time     `json:"start_time"`
	Uptime    time.Duration `json:"uptime"`
}

// NewCollector creates a new metrics collector
func NewCollector() *Collector {
	now := time.Now()
	return &Collector{
		compiler:          &CompilerMetrics{StartTime: now},
		operationCounters: make(map[string]*int64),
		startTime:         now,
	}
}

// RecordSiteRendered records one assembled site of pages pages.
func (c *Collector) RecordSiteRendered(pages int) {
	if c == nil {
		return
	}
	atomic.AddInt64(&c.compiler.SitesRendered, 1)
	atomic.AddInt64(&c.compiler.PagesRendered, int64(pages))
}

// IncrementSectionRendered records a rendered section.
func (c *Collector) IncrementSectionRendered() {
	if c == nil {
		return
	}
	atomic.AddInt64(&c.compiler.SectionsRendered, 1)
}

// IncrementUnknownSection records a section whose type has no rule.
func (c *Collector) IncrementUnknownSection() {
	if c == nil {
		return
	}
	atomic.AddInt64(&c.compiler.UnknownSections, 1)
}

// IncrementMissingAsset records a template lookup that produced nothing.
func (c *Collector) IncrementMissingAsset() {
	if c == nil {
		return
	}
	atomic.AddInt64(&c.compiler.MissingAssets, 1)
}

// IncrementEditApplied records an editing operation that changed a document.
func (c *Collector) IncrementEditApplied() {
	if c == nil {
		return
	}
	atomic.AddInt64(&c.compiler.EditsApplied, 1)
}

// IncrementSessionOpened records a new editing session.
func (c *Collector) IncrementSessionOpened() {
	if c == nil {
		return
	}
	current := atomic.AddInt64(&c.compiler.ActiveSessions, 1)
	for {
		max := atomic.LoadInt64(&c.compiler.MaxConcurrentSessions)
		if current <= max {
			break
		}
		if atomic.CompareAndSwapInt64(&c.compiler.MaxConcurrentSessions, max, current) {
			break
		}
	}
}

// IncrementSessionClosed records a closed session; evicted marks idle expiry.
func (c *Collector) IncrementSessionClosed(evicted bool) {
	if c == nil {
		return
	}
	atomic.AddInt64(&c.compiler.ActiveSessions, -1)
	if evicted {
		atomic.AddInt64(&c.compiler.SessionsEvicted, 1)
	}
}

// RecordSave records the outcome of a persistence attempt.
func (c *Collector) RecordSave(err error) {
	if c == nil {
		return
	}
	if err != nil {
		atomic.AddInt64(&c.compiler.SaveFailures, 1)
		return
	}
	atomic.AddInt64(&c.compiler.SavesCompleted, 1)
}

// AddPreviewClients adjusts the connected preview client count by delta.
func (c *Collector) AddPreviewClients(delta int64) {
	if c == nil {
		return
	}
	atomic.AddInt64(&c.compiler.PreviewClients, delta)
}

// IncrementCustomCounter increments a custom named counter
func (c *Collector) IncrementCustomCounter(name string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if counter, exists := c.operationCounters[name]; exists {
		atomic.AddInt64(counter, 1)
	} else {
		var newCounter int64 = 1
		c.operationCounters[name] = &newCounter
	}
}

// GetMetrics returns a snapshot of the current counters.
func (c *Collector) GetMetrics() CompilerMetrics {
	if c == nil {
		return CompilerMetrics{}
	}
	c.mu.RLock()
	start := c.startTime
	c.mu.RUnlock()

	m := c.compiler
	return CompilerMetrics{
		SitesRendered:         atomic.LoadInt64(&m.SitesRendered),
		PagesRendered:         atomic.LoadInt64(&m.PagesRendered),
		SectionsRendered:      atomic.LoadInt64(&m.SectionsRendered),
		UnknownSections:       atomic.LoadInt64(&m.UnknownSections),
		MissingAssets:         atomic.LoadInt64(&m.MissingAssets),
		EditsApplied:          atomic.LoadInt64(&m.EditsApplied),
		ActiveSessions:        atomic.LoadInt64(&m.ActiveSessions),
		MaxConcurrentSessions: atomic.LoadInt64(&m.MaxConcurrentSessions),
		SessionsEvicted:       atomic.LoadInt64(&m.SessionsEvicted),
		SavesCompleted:        atomic.LoadInt64(&m.SavesCompleted),
		SaveFailures:          atomic.LoadInt64(&m.SaveFailures),
		PreviewClients:        atomic.LoadInt64(&m.PreviewClients),
		StartTime:             start,
		Uptime:                time.Since(start),
	}
}

// GetCustomCounters returns all custom counters
func (c *Collector) GetCustomCounters() map[string]int64 {
	result := make(map[string]int64)
	if c == nil {
		return result
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	for name, counter := range c.operationCounters {
		result[name] = atomic.LoadInt64(counter)
	}
	return result
}

// Reset resets all metrics to zero
func (c *Collector) Reset() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	m := c.compiler
	for _, p := range []*int64{
		&m.SitesRendered, &m.PagesRendered, &m.SectionsRendered,
		&m.UnknownSections, &m.MissingAssets, &m.EditsApplied,
		&m.ActiveSessions, &m.MaxConcurrentSessions, &m.SessionsEvicted,
		&m.SavesCompleted, &m.SaveFailures, &m.PreviewClients,
	} {
		atomic.StoreInt64(p, 0)
	}
	c.operationCounters = make(map[string]*int64)
	c.startTime = now
}

// GetSaveSuccessRate returns the percentage of saves that succeeded.
func (c *Collector) GetSaveSuccessRate() float64 {
	if c == nil {
		return 100.0
	}
	ok := atomic.LoadInt64(&c.compiler.SavesCompleted)
	failed := atomic.LoadInt64(&c.compiler.SaveFailures)

	total := ok + failed
	if total == 0 {
		return 100.0 // No saves means 100% success rate
	}
	return float64(ok) / float64(total) * 100.0
}

// GetAnomalyRate returns the percentage of sections that rendered through
// the unknown-type arm.
func (c *Collector) GetAnomalyRate() float64 {
	if c == nil {
		return 0.0
	}
	rendered := atomic.LoadInt64(&c.compiler.SectionsRendered)
	unknown := atomic.LoadInt64(&c.compiler.UnknownSections)

	if rendered+unknown == 0 {
		return 0.0
	}
	return float64(unknown) / float64(rendered+unknown) * 100.0
}
