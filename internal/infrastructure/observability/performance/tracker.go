// Package performance provides lightweight performance tracking for
// DrinkMate operations, feeding the performance log channel.
package performance

import (
	"fmt"
	"sync"
	"time"
)

// Marker represents a single performance measurement for an operation
type Marker struct {
	Operation string         `json:"operation"` // e.g., "cart:add_item", "proxy:forward"
	StartTime time.Time      `json:"startTime"` // When the operation started
	EndTime   time.Time      `json:"endTime"`   // When the operation completed
	Duration  time.Duration  `json:"duration"`  // Total operation duration
	Success   bool           `json:"success"`   // Whether the operation completed successfully
	Error     string         `json:"error,omitempty"`
	Metadata  map[string]any `json:"metadata"`
	Completed bool           `json:"completed"` // Whether Complete() has been called
}

// Complete marks the operation as finished and calculates final metrics
func (m *Marker) Complete() {
	if m.Completed {
		return // Prevent double completion
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

// Tracker manages performance markers and aggregate statistics
type Tracker struct {
	markers    map[string]*Marker
	maxMarkers int
	started    time.Time
	mu         sync.RWMutex
}

// NewTracker creates a new performance tracker
func NewTracker(maxMarkers int) *Tracker {
	if maxMarkers <= 0 {
		maxMarkers = 10000
	}
	return &Tracker{
		markers:    make(map[string]*Marker),
		maxMarkers: maxMarkers,
		started:    time.Now(),
	}
}

// StartOperation creates and tracks a new performance marker for an operation
func (t *Tracker) StartOperation(operation string) *Marker {
	marker := &Marker{
		Operation: operation,
		StartTime: time.Now(),
		Metadata:  make(map[string]any),
		Success:   true, // Assume success until proven otherwise
	}

	markerID := fmt.Sprintf("%s_%d", operation, time.Now().UnixNano())

	t.mu.Lock()
	if len(t.markers) >= t.maxMarkers {
		t.evictCompletedLocked()
	}
	t.markers[markerID] = marker
	t.mu.Unlock()

	return marker
}

// evictCompletedLocked drops completed markers to stay under the cap.
// Caller must hold the write lock.
func (t *Tracker) evictCompletedLocked() {
	for id, marker := range t.markers {
		if marker.Completed {
			delete(t.markers, id)
		}
		if len(t.markers) < t.maxMarkers/2 {
			return
		}
	}
}

// Stats summarizes tracked operations for the health endpoint
type Stats struct {
	Uptime              time.Duration `json:"uptime"`
	ActiveOperations    int           `json:"activeOperations"`
	CompletedOperations int           `json:"completedOperations"`
	FailedOperations    int           `json:"failedOperations"`
}

// GetStats returns aggregate statistics over the retained markers
func (t *Tracker) GetStats() Stats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	stats := Stats{Uptime: time.Since(t.started)}
	for _, marker := range t.markers {
		switch {
		case !marker.Completed:
			stats.ActiveOperations++
		case marker.Success:
			stats.CompletedOperations++
		default:
			stats.FailedOperations++
		}
	}
	return stats
}
