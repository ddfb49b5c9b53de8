package repository

import (
	"sync"

	"sensor_dashboard/internal/models"
)

// DefaultHistoryCount is the retention length used when a non-positive capacity is given.
const DefaultHistoryCount = 20

// HistoryMemory is an in-process rolling history. It is never persisted.
// Only the poll loop appends; HTTP readers take snapshots concurrently.
type HistoryMemory struct {
	mu       sync.RWMutex
	capacity int
	series   map[models.SensorKind][]models.Reading
}

func NewHistoryMemory(capacity int) *HistoryMemory {
	if capacity <= 0 {
		capacity = DefaultHistoryCount
	}
	return &HistoryMemory{
		capacity: capacity,
		series:   make(map[models.SensorKind][]models.Reading, len(models.SensorKinds)),
	}
}

// Capacity returns the retention length.
func (h *HistoryMemory) Capacity() int { return h.capacity }

// Append extends the history for kind in the given order, then keeps only the
// last Capacity() readings. Empty input leaves the history untouched.
// It returns the resulting length.
func (h *HistoryMemory) Append(kind models.SensorKind, readings []models.Reading) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	cur := h.series[kind]
	if len(readings) == 0 {
		return len(cur)
	}

	merged := make([]models.Reading, 0, len(cur)+len(readings))
	merged = append(merged, cur...)
	merged = append(merged, readings...)
	if over := len(merged) - h.capacity; over > 0 {
		merged = merged[over:]
	}
	// copy so the dropped prefix can be collected
	kept := make([]models.Reading, len(merged))
	copy(kept, merged)
	h.series[kind] = kept
	return len(kept)
}

// Snapshot returns a copy of the history for kind, oldest first.
func (h *HistoryMemory) Snapshot(kind models.SensorKind) []models.Reading {
	h.mu.RLock()
	defer h.mu.RUnlock()

	cur := h.series[kind]
	out := make([]models.Reading, len(cur))
	copy(out, cur)
	return out
}
