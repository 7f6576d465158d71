// Package performance provides performance tracking for beacon-go operations.
package performance

import (
	"fmt"
	"sync"
	"time"
)

// Marker represents a single performance measurement for an operation
type Marker struct {
	Operation string         `json:"operation"` // e.g. "attribution:store_write"
	StartTime time.Time      `json:"startTime"`
	EndTime   time.Time      `json:"endTime"`
	Duration  time.Duration  `json:"duration"`
	Success   bool           `json:"success"`
	Error     string         `json:"error,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Completed bool           `json:"completed"`
}

// Complete marks the operation as finished and calculates final metrics
func (m *Marker) Complete() {
	if m.Completed {
		return
	}
	m.EndTime = time.Now()
	m.Duration = m.EndTime.Sub(m.StartTime)
	m.Completed = true
}

// SetSuccess marks the operation as successful or failed
func (m *Marker) SetSuccess(success bool) {
	m.Success = success
}

// SetError sets an error message and marks the operation as failed
func (m *Marker) SetError(err error) {
	if err != nil {
		m.Error = err.Error()
		m.Success = false
	}
}

// AddMetadata adds key-value metadata to the marker
func (m *Marker) AddMetadata(key string, value any) {
	if m.Metadata == nil {
		m.Metadata = make(map[string]any)
	}
	m.Metadata[key] = value
}

// Tracker manages performance markers and aggregates per-operation stats
type Tracker struct {
	markers    map[string]*Marker
	maxMarkers int
	sequence   uint64
	mu         sync.RWMutex
	started    time.Time
}

// NewTracker creates a new performance tracker
func NewTracker() *Tracker {
	return &Tracker{
		markers:    make(map[string]*Marker),
		maxMarkers: 10000,
		started:    time.Now(),
	}
}

// StartOperation begins tracking a named operation and returns its marker
func (t *Tracker) StartOperation(operation string) *Marker {
	marker := &Marker{
		Operation: operation,
		StartTime: time.Now(),
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.sequence++
	id := fmt.Sprintf("%s-%d", operation, t.sequence)

	// Drop oldest-style overflow: reset the map rather than tracking age.
	if len(t.markers) >= t.maxMarkers {
		t.markers = make(map[string]*Marker)
	}
	t.markers[id] = marker

	return marker
}

// OperationStats summarizes completed markers for one operation name
type OperationStats struct {
	Operation     string        `json:"operation"`
	Count         int           `json:"count"`
	Failures      int           `json:"failures"`
	TotalDuration time.Duration `json:"totalDuration"`
	MaxDuration   time.Duration `json:"maxDuration"`
}

// Stats returns aggregate statistics grouped by operation name
func (t *Tracker) Stats() map[string]*OperationStats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	stats := make(map[string]*OperationStats)
	for _, m := range t.markers {
		if !m.Completed {
			continue
		}
		s, ok := stats[m.Operation]
		if !ok {
			s = &OperationStats{Operation: m.Operation}
			stats[m.Operation] = s
		}
		s.Count++
		if !m.Success {
			s.Failures++
		}
		s.TotalDuration += m.Duration
		if m.Duration > s.MaxDuration {
			s.MaxDuration = m.Duration
		}
	}
	return stats
}

// Uptime returns how long the tracker has been running
func (t *Tracker) Uptime() time.Duration {
	return time.Since(t.started)
}
