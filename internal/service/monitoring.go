package service

import (
	"context"
	"time"

	"sensor_dashboard/internal/models"
	"sensor_dashboard/internal/repository"
)

type actuatorStateReader interface {
	State() models.ActuatorState
}

type tickReporter interface {
	LastReport() (TickReport, bool)
}

// MonitoringService is the read-only view of the rolling histories and the actuator.
type MonitoringService struct {
	history  repository.HistoryRepo
	actuator actuatorStateReader
	ticks    tickReporter
}

func NewMonitoringService(history repository.HistoryRepo, actuator actuatorStateReader, ticks tickReporter) *MonitoringService {
	return &MonitoringService{history: history, actuator: actuator, ticks: ticks}
}

// Series returns the chart view of one rolling history.
func (s *MonitoringService) Series(_ context.Context, kind models.SensorKind) models.Series {
	return models.NewSeries(kind, s.history.Snapshot(kind))
}

// AllSeries returns every history in poll order.
func (s *MonitoringService) AllSeries(ctx context.Context) []models.Series {
	out := make([]models.Series, 0, len(models.SensorKinds))
	for _, k := range models.SensorKinds {
		out = append(out, s.Series(ctx, k))
	}
	return out
}

// Status reports the last acknowledged command and the last decision taken.
func (s *MonitoringService) Status(_ context.Context) models.ActuatorStatus {
	st := s.actuator.State()
	out := models.ActuatorStatus{LastCommandSent: st.LastCommandSent.String()}
	if !st.AcknowledgedAt.IsZero() {
		at := toUTC(st.AcknowledgedAt)
		out.AcknowledgedAt = &at
	}
	if s.ticks != nil {
		if r, ok := s.ticks.LastReport(); ok {
			d := r.Decision
			at := toUTC(r.StartedAt)
			out.LastDecision = &d
			out.LastTickAt = &at
		}
	}
	return out
}

// toUTC normalizes non-zero time to UTC, preserving zero values.
func toUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}
