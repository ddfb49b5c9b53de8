package service

import (
	"time"

	"sensor_dashboard/internal/models"
)

// LogFilter supports audit filtering by time range and type.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", "COMMAND_SENT", "COMMAND_FAILED", "COMMAND_REJECTED"
}

// SensorResult is the Phase A outcome for one sensor.
type SensorResult struct {
	Kind     models.SensorKind `json:"kind"`
	Fetched  int               `json:"fetched"`
	Appended int               `json:"appended"`
	Dropped  int               `json:"dropped"`
	Latest   *float64          `json:"latest,omitempty"`
	Error    string            `json:"error,omitempty"`
}

// TickReport summarizes one poll tick.
type TickReport struct {
	StartedAt time.Time       `json:"started_at"`
	Duration  time.Duration   `json:"duration"`
	Sensors   []SensorResult  `json:"sensors"`
	Decision  models.Decision `json:"decision"`
	Outcome   DispatchOutcome `json:"outcome"`
}

// latest returns the captured latest value for kind, nil when absent.
func (r TickReport) latest(kind models.SensorKind) *float64 {
	for _, s := range r.Sensors {
		if s.Kind == kind {
			return s.Latest
		}
	}
	return nil
}
